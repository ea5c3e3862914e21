package service

import (
	"context"
	"errors"
	"testing"

	"brewops/internal/model"
	"brewops/internal/repository"

	"github.com/shopspring/decimal"
)

func newInventoryService(t *testing.T) (InventoryService, *fixture) {
	t.Helper()
	db := setupTestDB(t)
	f := seedFixture(t, db)
	return NewInventoryService(repository.NewInventoryRepo(db), db, nil), f
}

func findRecord(t *testing.T, f *fixture, identifier string, invType model.InventoryType, location string) model.InventoryRecord {
	t.Helper()
	var record model.InventoryRecord
	err := f.db.Where("identifier = ? AND type = ? AND location = ?", identifier, invType, location).First(&record).Error
	if err != nil {
		t.Fatalf("load %s at %q: %v", identifier, location, err)
	}
	return record
}

func TestReceiveCreatesThenAccumulates(t *testing.T) {
	svc, f := newInventoryService(t)
	ctx := context.Background()
	proof := dec("90")

	first, err := svc.Receive(ctx, &ReceiveInventoryRequest{
		Identifier: " Rye Whiskey ",
		Type:       model.InvInProcess,
		Location:   "Barrel Room",
		Quantity:   dec("10"),
		Unit:       "gal",
		Proof:      &proof,
	}, "receiver")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if first.Identifier != "Rye Whiskey" || !first.ProofGallons.Equal(dec("9")) {
		t.Fatalf("unexpected record %+v", first)
	}

	cost := dec("125.50")
	second, err := svc.Receive(ctx, &ReceiveInventoryRequest{
		Identifier: "Rye Whiskey",
		Type:       model.InvInProcess,
		Location:   "Barrel Room",
		Quantity:   dec("5"),
		Unit:       "gal",
		TotalCost:  &cost,
	}, "receiver")
	if err != nil {
		t.Fatalf("receive again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same identifier, type and location must reuse the row")
	}
	if !second.Quantity.Equal(dec("15")) || !second.TotalCost.Equal(cost) {
		t.Fatalf("unexpected totals %s / %s", second.Quantity, second.TotalCost)
	}

	var ledger []model.InventoryTransaction
	if err := f.db.Where("inventory_id = ?", first.ID).Order("id ASC").Find(&ledger).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(ledger) != 2 || ledger[0].Action != model.TxReceived || !ledger[1].Quantity.Equal(dec("5")) {
		t.Fatalf("unexpected ledger %+v", ledger)
	}
}

func TestReceiveRejectsBadInput(t *testing.T) {
	svc, _ := newInventoryService(t)
	negative := dec("-1")

	cases := map[string]*ReceiveInventoryRequest{
		"missing identifier": {Type: model.InvFinishedGoods, Quantity: dec("1"), Unit: "each"},
		"unknown type":       {Identifier: "Hat", Type: "Merch", Quantity: dec("1"), Unit: "each"},
		"zero quantity":      {Identifier: "Hat", Type: model.InvFinishedGoods, Unit: "each"},
		"negative price":     {Identifier: "Hat", Type: model.InvFinishedGoods, Quantity: dec("1"), Unit: "each", Price: &negative},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Receive(context.Background(), req, "x"); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAdjustScalesProofGallonsAndCost(t *testing.T) {
	svc, f := newInventoryService(t)
	src := findRecord(t, f, "Whiskey 750ml Bottle", model.InvFinishedGoods, "Warehouse")

	record, err := svc.Adjust(context.Background(), src.ID, &AdjustInventoryRequest{Quantity: dec("3"), Notes: "cycle count"}, "counter")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !record.Quantity.Equal(dec("3")) || !record.ProofGallons.Equal(dec("3")) || !record.TotalCost.Equal(dec("30")) {
		t.Fatalf("unexpected record %+v", record)
	}

	var entry model.InventoryTransaction
	if err := f.db.Where("action = ?", model.TxAdjusted).First(&entry).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if !entry.Quantity.Equal(dec("-3")) || entry.Notes != "cycle count" {
		t.Fatalf("unexpected ledger row %+v", entry)
	}

	if _, err := svc.Adjust(context.Background(), 9999, &AdjustInventoryRequest{Quantity: dec("1")}, "x"); !errors.Is(err, ErrInventoryNotFound) {
		t.Fatalf("expected ErrInventoryNotFound, got %v", err)
	}
}

func TestMoveSplitsRowAndLedger(t *testing.T) {
	svc, f := newInventoryService(t)
	ctx := context.Background()
	src := findRecord(t, f, "Whiskey 750ml Bottle", model.InvFinishedGoods, "Warehouse")

	dest, err := svc.Move(ctx, src.ID, &MoveInventoryRequest{Quantity: dec("2"), ToLocation: "Taproom"}, "mover")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if dest.Location != "Taproom" || !dest.Quantity.Equal(dec("2")) || !dest.ProofGallons.Equal(dec("2")) {
		t.Fatalf("unexpected destination %+v", dest)
	}

	left := findRecord(t, f, "Whiskey 750ml Bottle", model.InvFinishedGoods, "Warehouse")
	if !left.Quantity.Equal(dec("4")) || !left.TotalCost.Equal(dec("40")) {
		t.Fatalf("unexpected source %+v", left)
	}

	var moved []model.InventoryTransaction
	if err := f.db.Where("action = ?", model.TxMoved).Find(&moved).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected two Moved rows, got %d", len(moved))
	}
	net := decimal.Zero
	for _, m := range moved {
		net = net.Add(m.Quantity)
	}
	if !net.IsZero() {
		t.Fatalf("a move must not change total stock, net %s", net)
	}

	again, err := svc.Move(ctx, src.ID, &MoveInventoryRequest{Quantity: dec("1"), ToLocation: "Taproom"}, "mover")
	if err != nil {
		t.Fatalf("second move: %v", err)
	}
	if again.ID != dest.ID || !again.Quantity.Equal(dec("3")) {
		t.Fatalf("second move should top up the same destination row, got %+v", again)
	}
}

func TestMoveAndLoseGuardStock(t *testing.T) {
	svc, f := newInventoryService(t)
	ctx := context.Background()
	src := findRecord(t, f, "Whiskey 750ml Bottle", model.InvFinishedGoods, "Warehouse")

	if _, err := svc.Move(ctx, src.ID, &MoveInventoryRequest{Quantity: dec("7"), ToLocation: "Taproom"}, "x"); !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if _, err := svc.Move(ctx, src.ID, &MoveInventoryRequest{Quantity: dec("1"), ToLocation: "Warehouse"}, "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for same location, got %v", err)
	}
	if _, err := svc.Lose(ctx, src.ID, &LoseInventoryRequest{Quantity: dec("1")}, "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("loss without notes should be rejected, got %v", err)
	}
	if _, err := svc.Lose(ctx, src.ID, &LoseInventoryRequest{Quantity: dec("10"), Notes: "broken"}, "x"); !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}

	record, err := svc.Lose(ctx, src.ID, &LoseInventoryRequest{Quantity: dec("1"), Notes: "dropped case"}, "x")
	if err != nil {
		t.Fatalf("lose: %v", err)
	}
	if !record.Quantity.Equal(dec("5")) {
		t.Fatalf("expected 5 left, got %s", record.Quantity)
	}
	if n := countRows(t, f.db, &model.InventoryTransaction{}); n != 1 {
		t.Fatalf("only the successful loss should be recorded, got %d rows", n)
	}
}

func TestListTransactionsPaginates(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Receive(ctx, &ReceiveInventoryRequest{
			Identifier: "Grain",
			Type:       model.InvRawMaterial,
			Quantity:   dec("50"),
			Unit:       "lb",
		}, "x"); err != nil {
			t.Fatalf("receive: %v", err)
		}
	}

	page, err := svc.ListTransactions(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalPages != 2 || len(page.Transactions) != 1 {
		t.Fatalf("expected the last of two pages, got %d pages and %d rows", page.TotalPages, len(page.Transactions))
	}

	if _, err := svc.List(ctx, "Merch"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
	raw, err := svc.List(ctx, model.InvRawMaterial)
	if err != nil || len(raw) != 1 || !raw[0].Quantity.Equal(dec("150")) {
		t.Fatalf("expected one grain row with 150 lb, got %+v (%v)", raw, err)
	}
}

func TestShareOf(t *testing.T) {
	if got := shareOf(dec("9"), dec("1"), dec("3")); !got.Equal(dec("3")) {
		t.Errorf("shareOf(9, 1, 3) = %s", got)
	}
	if got := shareOf(dec("9"), dec("5"), dec("3")); !got.Equal(dec("9")) {
		t.Errorf("taking more than the whole should cap at total, got %s", got)
	}
	if got := shareOf(dec("9"), dec("1"), decimal.Zero); !got.IsZero() {
		t.Errorf("zero whole should give zero, got %s", got)
	}
}
