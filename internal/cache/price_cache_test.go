package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPriceKeyNormalises(t *testing.T) {
	if PriceKey(" IPA ", "1/2 BBL Keg") != PriceKey("ipa", "1/2 bbl keg") {
		t.Fatal("expected case and whitespace insensitive keys")
	}
	if PriceKey("IPA", "Keg") == PriceKey("IPA Keg", "") {
		t.Fatal("expected separator to keep pairs distinct")
	}
}

func TestNoopPriceCacheAlwaysMisses(t *testing.T) {
	var c PriceCache = NoopPriceCache{}
	ctx := context.Background()
	if err := c.Set(ctx, "k", &PriceQuote{Price: decimal.NewFromInt(1)}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
