package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"brewops/internal/cache"
	"brewops/internal/model"
	"brewops/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResolvedPrice is the outcome of pricing one itemName.
type ResolvedPrice struct {
	Price         decimal.Decimal
	HasKegDeposit bool
	ProductID     *uint
	PackageTypeID *uint
	Source        string // "catalog" | "inventory"
}

// PriceResolver prices an itemName: catalog package type first, then a
// Finished Goods inventory row with the exact same identifier.
type PriceResolver struct {
	catalog   repository.CatalogRepository
	inventory repository.InventoryRepository
	cache     cache.PriceCache
	ttl       time.Duration
}

func NewPriceResolver(catalog repository.CatalogRepository, inventory repository.InventoryRepository, pc cache.PriceCache, ttl time.Duration) *PriceResolver {
	if pc == nil {
		pc = cache.NoopPriceCache{}
	}
	return &PriceResolver{catalog: catalog, inventory: inventory, cache: pc, ttl: ttl}
}

// Resolve returns ErrPriceNotFound when neither source knows the item.
func (r *PriceResolver) Resolve(ctx context.Context, itemName string) (*ResolvedPrice, error) {
	itemName = strings.TrimSpace(itemName)

	for _, split := range ParseItemName(itemName) {
		key := cache.PriceKey(split.Product, split.PackageType)
		if quote, ok, err := r.cache.Get(ctx, key); err != nil {
			log.Printf("price cache get %s: %v", key, err)
		} else if ok {
			return quoteToPrice(quote), nil
		}

		pkg, err := r.catalog.FindPackageType(ctx, split.Product, split.PackageType)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		quote := &cache.PriceQuote{
			Price:         pkg.Price,
			HasKegDeposit: pkg.IsKegDepositItem,
			ProductID:     pkg.ProductID,
			PackageTypeID: pkg.ID,
		}
		if err := r.cache.Set(ctx, key, quote, r.ttl); err != nil {
			log.Printf("price cache set %s: %v", key, err)
		}
		return quoteToPrice(quote), nil
	}

	record, err := r.inventory.FindPriced(ctx, itemName, model.InvFinishedGoods)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPriceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ResolvedPrice{
		Price:         record.Price,
		HasKegDeposit: record.IsKegDepositItem,
		Source:        "inventory",
	}, nil
}

func quoteToPrice(q *cache.PriceQuote) *ResolvedPrice {
	productID, packageTypeID := q.ProductID, q.PackageTypeID
	return &ResolvedPrice{
		Price:         q.Price,
		HasKegDeposit: q.HasKegDeposit,
		ProductID:     &productID,
		PackageTypeID: &packageTypeID,
		Source:        "catalog",
	}
}
