package cache

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is a resolved catalog price for one product/package pair.
type PriceQuote struct {
	Price         decimal.Decimal `json:"price"`
	HasKegDeposit bool            `json:"hasKegDeposit"`
	ProductID     uint            `json:"productId"`
	PackageTypeID uint            `json:"packageTypeId"`
}

type PriceCache interface {
	Get(ctx context.Context, key string) (*PriceQuote, bool, error)
	Set(ctx context.Context, key string, value *PriceQuote, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PriceKey normalises a product/package pair into a cache key.
func PriceKey(productName, packageType string) string {
	return "brewops:price:" + strings.ToLower(strings.TrimSpace(productName)) + "|" + strings.ToLower(strings.TrimSpace(packageType))
}

type NoopPriceCache struct{}

func (NoopPriceCache) Get(_ context.Context, _ string) (*PriceQuote, bool, error) {
	return nil, false, nil
}

func (NoopPriceCache) Set(_ context.Context, _ string, _ *PriceQuote, _ time.Duration) error {
	return nil
}

func (NoopPriceCache) Delete(_ context.Context, _ string) error {
	return nil
}
