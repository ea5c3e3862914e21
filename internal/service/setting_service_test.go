package service

import (
	"context"
	"errors"
	"testing"

	"brewops/internal/model"
	"brewops/internal/repository"
)

func TestKegDepositPriceSetting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettingService(repository.NewSettingRepo(db))
	ctx := context.Background()

	raw, err := svc.KegDepositPrice(ctx)
	if err != nil || raw != "" {
		t.Fatalf("unset price should read as empty, got %q (%v)", raw, err)
	}
	if _, err := svc.Get(ctx, model.SettingKegDepositPrice); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}

	if err := svc.SeedDefaults(ctx, "30"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SeedDefaults(ctx, "45"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if raw, _ := svc.KegDepositPrice(ctx); raw != "30.00" {
		t.Fatalf("seeding must not overwrite an existing value, got %q", raw)
	}

	setting, err := svc.Set(ctx, model.SettingKegDepositPrice, " 32.5 ")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if setting.Value != "32.50" {
		t.Fatalf("expected normalised value 32.50, got %q", setting.Value)
	}
	if raw, _ := svc.KegDepositPrice(ctx); raw != "32.50" {
		t.Fatalf("expected 32.50, got %q", raw)
	}

	for _, bad := range []string{"", "abc", "-1"} {
		if _, err := svc.Set(ctx, model.SettingKegDepositPrice, bad); !errors.Is(err, ErrInvalidSetting) || !IsValidation(err) {
			t.Fatalf("value %q: expected ErrInvalidSetting, got %v", bad, err)
		}
	}
}

func TestGenericSettings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettingService(repository.NewSettingRepo(db))
	ctx := context.Background()

	if _, err := svc.Set(ctx, "company_name", "  Brewery Co  "); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := svc.Set(ctx, "", "x"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting for empty key, got %v", err)
	}

	got, err := svc.Get(ctx, "company_name")
	if err != nil || got.Value != "Brewery Co" {
		t.Fatalf("expected trimmed value, got %+v (%v)", got, err)
	}
	all, err := svc.GetAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one setting, got %d (%v)", len(all), err)
	}
}

func TestApprovalReadsLiveDepositPrice(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	settings := NewSettingService(repository.NewSettingRepo(db))
	orders := NewSalesOrderService(db, settings, nil, 0, nil)
	ctx := context.Background()

	if _, err := settings.Set(ctx, model.SettingKegDepositPrice, "25"); err != nil {
		t.Fatalf("set: %v", err)
	}
	items := []SalesOrderItemInput{ipaKegLine(1, `["K004"]`)}
	created, err := orders.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.KegDepositPrice != "25.00" {
		t.Fatalf("expected live setting in response, got %q", created.KegDepositPrice)
	}

	if _, err := settings.Set(ctx, model.SettingKegDepositPrice, "40"); err != nil {
		t.Fatalf("set: %v", err)
	}
	approved, err := orders.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      items,
		Status:     strPtr("Approved"),
	}, "manager")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	var invoice model.Invoice
	if err := db.First(&invoice, *approved.InvoiceID).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if !invoice.KegDepositPrice.Equal(dec("40")) || !invoice.Total.Equal(dec("190")) {
		t.Fatalf("approval should use the price at approval time, got %s / %s", invoice.KegDepositPrice, invoice.Total)
	}
}
