package service

import (
	"context"
	"strings"
	"testing"

	"brewops/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticSettings string

func (s staticSettings) KegDepositPrice(context.Context) (string, error) {
	return string(s), nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func uintPtr(v uint) *uint { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

// fixture is a small brewery: two customers, a keg beer, a bottled spirit,
// a stout keg, merch priced only in inventory, and a handful of kegs.
type fixture struct {
	db       *gorm.DB
	taproom  model.Customer
	closed   model.Customer
	ipa      model.Product
	stout    model.Product
	whiskey  model.Product
	ipaKeg   model.PackageType
	whiskeyB model.PackageType
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.taproom = model.Customer{Name: "Corner Taproom", Enabled: true}
	f.closed = model.Customer{Name: "Closed Bar", Enabled: false}
	mustCreate(t, db, &f.taproom)
	mustCreate(t, db, &f.closed)

	f.ipa = model.Product{Name: "IPA", Type: "Beer", Enabled: true}
	f.stout = model.Product{Name: "Stout", Type: "Beer", Enabled: true}
	f.whiskey = model.Product{Name: "Whiskey", Type: "Spirit", Enabled: true}
	mustCreate(t, db, &f.ipa)
	mustCreate(t, db, &f.stout)
	mustCreate(t, db, &f.whiskey)

	f.ipaKeg = model.PackageType{ProductID: f.ipa.ID, Type: "1/2 BBL Keg", Price: dec("150.00"), IsKegDepositItem: true}
	f.whiskeyB = model.PackageType{ProductID: f.whiskey.ID, Type: "750ml Bottle", Price: dec("35.00")}
	mustCreate(t, db, &f.ipaKeg)
	mustCreate(t, db, &f.whiskeyB)
	stoutKeg := model.PackageType{ProductID: f.stout.ID, Type: "1/2 BBL Keg", Price: dec("140.00"), IsKegDepositItem: true}
	mustCreate(t, db, &stoutKeg)

	for _, k := range []model.Keg{
		{Code: "K001", Status: model.KegFilled, ProductID: uintPtr(f.ipa.ID)},
		{Code: "K002", Status: model.KegFilled, ProductID: uintPtr(f.ipa.ID)},
		{Code: "K003", Status: model.KegEmpty},
		{Code: "K004", Status: model.KegFilled, ProductID: uintPtr(f.ipa.ID)},
		{Code: "K005", Status: model.KegFilled, ProductID: uintPtr(f.stout.ID)},
	} {
		k := k
		mustCreate(t, db, &k)
	}

	for _, rec := range []model.InventoryRecord{
		{Identifier: "Whiskey 750ml Bottle", Type: model.InvFinishedGoods, Location: "Warehouse", Quantity: dec("6"), Unit: "bottle", ProofGallons: dec("6"), TotalCost: dec("60")},
		{Identifier: "Whiskey 750ml Bottle", Type: model.InvMarketing, Location: "Tasting Room", Quantity: dec("4"), Unit: "bottle", ProofGallons: dec("4"), TotalCost: dec("40")},
		{Identifier: "Brewery T-Shirt", Type: model.InvFinishedGoods, Location: "Store", Quantity: dec("5"), Unit: "each", Price: dec("20.00")},
	} {
		rec := rec
		mustCreate(t, db, &rec)
	}
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func ipaKegLine(qty int, codes string) SalesOrderItemInput {
	return SalesOrderItemInput{
		ItemName:      "IPA 1/2 BBL Keg",
		Quantity:      qty,
		Unit:          "keg",
		HasKegDeposit: boolPtr(true),
		KegCodes:      []byte(codes),
	}
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", value, err)
	}
	return n
}
