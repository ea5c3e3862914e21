package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"brewops/internal/model"

	"github.com/shopspring/decimal"
)

func newOrderService(t *testing.T, deposit string) (SalesOrderService, *fixture) {
	t.Helper()
	db := setupTestDB(t)
	f := seedFixture(t, db)
	return NewSalesOrderService(db, staticSettings(deposit), nil, 0, nil), f
}

func TestCreateOrderResolvesPrices(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		PONumber:   strPtr(" PO-77 "),
		Items: []SalesOrderItemInput{
			{ItemName: "IPA 1/2 BBL Keg", Quantity: 2, Unit: "keg", KegCodes: []byte(`["K001","K002"]`)},
			{ItemName: "Whiskey 750ml Bottle", Quantity: 3, Unit: "bottle"},
			{ItemName: "Brewery T-Shirt", Quantity: 1, Unit: "each"},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != model.OrderDraft {
		t.Fatalf("expected Draft, got %s", created.Status)
	}
	if created.PONumber == nil || *created.PONumber != "PO-77" {
		t.Fatalf("expected trimmed po number, got %v", created.PONumber)
	}
	if created.KegDepositPrice != "30.00" {
		t.Fatalf("expected keg_deposit_price 30.00, got %q", created.KegDepositPrice)
	}
	if created.CustomerName != "Corner Taproom" {
		t.Fatalf("expected customer name, got %q", created.CustomerName)
	}
	if created.InvoiceID != nil {
		t.Fatalf("draft order must not have an invoice")
	}

	fetched, err := svc.Get(ctx, created.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(fetched.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(fetched.Items))
	}

	keg, bottle, shirt := fetched.Items[0], fetched.Items[1], fetched.Items[2]
	if !keg.Price.Equal(dec("150")) || !keg.HasKegDeposit {
		t.Fatalf("keg line priced wrong: %+v", keg)
	}
	if keg.ProductID == nil || *keg.ProductID != f.ipa.ID || keg.PackageTypeID == nil || *keg.PackageTypeID != f.ipaKeg.ID {
		t.Fatalf("keg line should reference the catalog, got %+v", keg)
	}
	if len(keg.KegCodes) != 2 || keg.KegCodes[0] != "K001" || keg.KegCodes[1] != "K002" {
		t.Fatalf("unexpected keg codes %v", keg.KegCodes)
	}
	if !bottle.Price.Equal(dec("35")) || bottle.HasKegDeposit {
		t.Fatalf("bottle line priced wrong: %+v", bottle)
	}
	if bottle.KegCodes == nil || len(bottle.KegCodes) != 0 {
		t.Fatalf("expected empty keg code list, got %v", bottle.KegCodes)
	}
	if !shirt.Price.Equal(dec("20")) || shirt.ProductID != nil {
		t.Fatalf("merch line should fall back to inventory price: %+v", shirt)
	}
}

func TestCreateOrderExplicitDepositFlagWins(t *testing.T) {
	svc, f := newOrderService(t, "30.00")

	created, err := svc.Create(context.Background(), &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items: []SalesOrderItemInput{
			{ItemName: "IPA 1/2 BBL Keg", Quantity: 1, Unit: "keg", HasKegDeposit: boolPtr(false)},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Items[0].HasKegDeposit {
		t.Fatalf("explicit hasKegDeposit=false should override the catalog flag")
	}
}

func TestCreateOrderRejectsInvalidItemAtomically(t *testing.T) {
	svc, f := newOrderService(t, "30.00")

	_, err := svc.Create(context.Background(), &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items: []SalesOrderItemInput{
			{ItemName: "Whiskey 750ml Bottle", Quantity: 2, Unit: "bottle"},
			{ItemName: "", Quantity: 1},
		},
	}, "tester")
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
	if !IsValidation(err) {
		t.Fatalf("expected a validation error, got %T", err)
	}
	if n := countRows(t, f.db, &model.SalesOrder{}); n != 0 {
		t.Fatalf("expected no orders, found %d", n)
	}
	if n := countRows(t, f.db, &model.SalesOrderItem{}); n != 0 {
		t.Fatalf("expected no order items, found %d", n)
	}
}

func TestCreateOrderCollectsEveryItemError(t *testing.T) {
	svc, f := newOrderService(t, "30.00")

	_, err := svc.Create(context.Background(), &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items: []SalesOrderItemInput{
			{ItemName: "Mystery 12oz Can", Quantity: 1, Unit: "can"},
			{ItemName: "IPA 1/2 BBL Keg", Quantity: 1, Unit: "keg", KegCodes: []byte(`["k-001"]`)},
			{ItemName: "IPA 1/2 BBL Keg", Quantity: 1, Unit: "keg", KegCodes: []byte(`"K001"`)},
		},
	}, "tester")
	if !errors.Is(err, ErrPriceNotFound) || !errors.Is(err, ErrInvalidKegCodes) {
		t.Fatalf("expected price and keg code errors, got %v", err)
	}
	if got := strings.Count(err.Error(), "; "); got != 2 {
		t.Fatalf("expected three joined messages, got %q", err.Error())
	}
}

func TestCreateOrderRequiresEnabledCustomer(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	items := []SalesOrderItemInput{{ItemName: "Whiskey 750ml Bottle", Quantity: 1, Unit: "bottle"}}

	for _, id := range []uint{0, f.closed.ID, 9999} {
		_, err := svc.Create(context.Background(), &CreateSalesOrderRequest{CustomerID: id, Items: items}, "tester")
		if !errors.Is(err, ErrInvalidCustomer) {
			t.Fatalf("customer %d: expected ErrInvalidCustomer, got %v", id, err)
		}
	}
}

func TestCreateOrderRequiresItems(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	_, err := svc.Create(context.Background(), &CreateSalesOrderRequest{CustomerID: f.taproom.ID}, "tester")
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestApproveKegOrderProducesInvoice(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      []SalesOrderItemInput{ipaKegLine(2, `["K001","K002"]`)},
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      []SalesOrderItemInput{ipaKegLine(2, `["K001","K002"]`)},
		Status:     strPtr("Approved"),
	}, "manager")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.OrderApproved || approved.InvoiceID == nil {
		t.Fatalf("expected approved order with invoice, got %+v", approved)
	}

	var invoice model.Invoice
	if err := f.db.Preload("Items").First(&invoice, *approved.InvoiceID).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if !invoice.Subtotal.Equal(dec("300.00")) {
		t.Errorf("subtotal = %s, want 300.00", invoice.Subtotal)
	}
	if !invoice.KegDepositTotal.Equal(dec("60.00")) {
		t.Errorf("kegDepositTotal = %s, want 60.00", invoice.KegDepositTotal)
	}
	if !invoice.Total.Equal(dec("360.00")) {
		t.Errorf("total = %s, want 360.00", invoice.Total)
	}
	if !invoice.KegDepositPrice.Equal(dec("30")) || invoice.Status != model.InvoicePending {
		t.Errorf("unexpected invoice header %+v", invoice)
	}

	if len(invoice.Items) != 2 {
		t.Fatalf("expected order line plus deposit line, got %d items", len(invoice.Items))
	}
	deposit := invoice.Items[1]
	if deposit.ItemName != model.KegDepositLineName || deposit.Quantity != 2 || !deposit.Price.Equal(dec("30")) {
		t.Fatalf("unexpected deposit line %+v", deposit)
	}

	for _, code := range []string{"K001", "K002"} {
		var keg model.Keg
		if err := f.db.Where("code = ?", code).First(&keg).Error; err != nil {
			t.Fatalf("load keg: %v", err)
		}
		if keg.Status != model.KegCustomer || keg.CustomerID == nil || *keg.CustomerID != f.taproom.ID {
			t.Fatalf("keg %s should be at the customer, got %+v", code, keg)
		}
		if keg.OrderID == nil || *keg.OrderID != created.OrderID {
			t.Fatalf("keg %s should reference the order", code)
		}
	}

	refetched, err := svc.Get(ctx, created.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if refetched.Status != model.OrderApproved || refetched.InvoiceID == nil || *refetched.InvoiceID != invoice.ID {
		t.Fatalf("refetched order should be Approved with invoice %d, got %+v", invoice.ID, refetched)
	}
}

func TestApproveRejectsKegCodeCountMismatch(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      []SalesOrderItemInput{ipaKegLine(2, `["K001"]`)},
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      []SalesOrderItemInput{ipaKegLine(2, `["K001"]`)},
		Status:     strPtr("Approved"),
	}, "manager")
	if !errors.Is(err, ErrKegCodeCountMismatch) {
		t.Fatalf("expected ErrKegCodeCountMismatch, got %v", err)
	}

	order, err := svc.Get(ctx, created.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Status != model.OrderDraft || order.InvoiceID != nil {
		t.Fatalf("order should stay Draft without invoice, got %+v", order)
	}
	if n := countRows(t, f.db, &model.Invoice{}); n != 0 {
		t.Fatalf("expected no invoices, got %d", n)
	}
}

func TestApproveRejectsUnavailableKegs(t *testing.T) {
	cases := []struct {
		name  string
		codes string
		kind  error
	}{
		{name: "empty keg", codes: `["K001","K003"]`, kind: ErrKegNotAvailable},
		{name: "unknown keg", codes: `["K001","K999"]`, kind: ErrKegNotAvailable},
		{name: "repeated keg", codes: `["K001","K001"]`, kind: ErrKegNotAvailable},
		{name: "other product", codes: `["K001","K005"]`, kind: ErrKegProductMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, f := newOrderService(t, "30.00")
			ctx := context.Background()

			created, err := svc.Create(ctx, &CreateSalesOrderRequest{
				CustomerID: f.taproom.ID,
				Items:      []SalesOrderItemInput{ipaKegLine(2, tc.codes)},
			}, "tester")
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			_, err = svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
				CustomerID: f.taproom.ID,
				Items:      []SalesOrderItemInput{ipaKegLine(2, tc.codes)},
				Status:     strPtr("Approved"),
			}, "manager")
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}

			var keg model.Keg
			if err := f.db.Where("code = ?", "K001").First(&keg).Error; err != nil {
				t.Fatalf("load keg: %v", err)
			}
			if keg.Status != model.KegFilled {
				t.Fatalf("rejected approval must not claim kegs, K001 is %s", keg.Status)
			}
		})
	}
}

func TestApproveCommitsStockAndWritesLedger(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	items := []SalesOrderItemInput{{ItemName: "Whiskey 750ml Bottle", Quantity: 8, Unit: "bottle"}}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	approved, err := svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      items,
		Status:     strPtr("Approved"),
	}, "manager")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	var records []model.InventoryRecord
	if err := f.db.Where("identifier = ?", "Whiskey 750ml Bottle").Order("id ASC").Find(&records).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if !records[0].Quantity.IsZero() || !records[1].Quantity.Equal(dec("2")) {
		t.Fatalf("expected 0 finished goods and 2 marketing left, got %s and %s", records[0].Quantity, records[1].Quantity)
	}

	var ledger []model.InventoryTransaction
	if err := f.db.Where("reference = ?", orderReference(approved.OrderID)).Order("id ASC").Find(&ledger).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("expected one Sold row per inventory row, got %d", len(ledger))
	}
	total := decimal.Zero
	for _, entry := range ledger {
		if entry.Action != model.TxSold || entry.CreatedBy != "manager" {
			t.Fatalf("unexpected ledger row %+v", entry)
		}
		total = total.Add(entry.Quantity)
	}
	if !total.Equal(dec("-8")) {
		t.Fatalf("ledger should record -8 sold, got %s", total)
	}

	var invoice model.Invoice
	if err := f.db.First(&invoice, *approved.InvoiceID).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if !invoice.Total.Equal(dec("280")) || !invoice.KegDepositTotal.IsZero() {
		t.Fatalf("unexpected totals %s / %s", invoice.Total, invoice.KegDepositTotal)
	}
}

func TestApproveRejectsInsufficientInventory(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	items := []SalesOrderItemInput{
		{ItemName: "Whiskey 750ml Bottle", Quantity: 6, Unit: "bottle"},
		{ItemName: "Whiskey 750ml Bottle", Quantity: 5, Unit: "bottle"},
	}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      items,
		Status:     strPtr("Approved"),
	}, "manager")
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if n := countRows(t, f.db, &model.InventoryTransaction{}); n != 0 {
		t.Fatalf("expected no ledger rows, got %d", n)
	}
}

func TestApproveSellsFractionalRowsExactly(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	for _, rec := range []model.InventoryRecord{
		{Identifier: "Gin 750ml Bottle", Type: model.InvFinishedGoods, Location: "Warehouse", Quantity: dec("0.7"), Unit: "case", Price: dec("40.00")},
		{Identifier: "Gin 750ml Bottle", Type: model.InvFinishedGoods, Location: "Warehouse", Quantity: dec("0.2"), Unit: "case"},
		{Identifier: "Gin 750ml Bottle", Type: model.InvFinishedGoods, Location: "Warehouse", Quantity: dec("0.1"), Unit: "case"},
	} {
		rec := rec
		mustCreate(t, f.db, &rec)
	}
	items := []SalesOrderItemInput{{ItemName: "Gin 750ml Bottle", Quantity: 1, Unit: "case"}}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	approved, err := svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      items,
		Status:     strPtr("Approved"),
	}, "manager")
	if err != nil {
		t.Fatalf("0.7 + 0.2 + 0.1 on hand should cover 1: %v", err)
	}

	var records []model.InventoryRecord
	if err := f.db.Where("identifier = ?", "Gin 750ml Bottle").Find(&records).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	for _, rec := range records {
		if !rec.Quantity.IsZero() {
			t.Fatalf("expected every gin row emptied, row %d has %s", rec.ID, rec.Quantity)
		}
	}
	var ledger []model.InventoryTransaction
	if err := f.db.Where("reference = ?", orderReference(approved.OrderID)).Find(&ledger).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	sold := decimal.Zero
	for _, entry := range ledger {
		sold = sold.Add(entry.Quantity)
	}
	if len(ledger) != 3 || !sold.Equal(dec("-1")) {
		t.Fatalf("expected 3 Sold rows totalling -1, got %d rows totalling %s", len(ledger), sold)
	}
}

func TestZeroPricedFinishedGoodsResolve(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	mustCreate(t, f.db, &model.InventoryRecord{Identifier: "Promo Coaster", Type: model.InvFinishedGoods, Location: "Store", Quantity: dec("50"), Unit: "each"})

	created, err := svc.Create(context.Background(), &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      []SalesOrderItemInput{{ItemName: "Promo Coaster", Quantity: 10, Unit: "each"}},
	}, "tester")
	if err != nil {
		t.Fatalf("a free item is still priced: %v", err)
	}
	if !created.Items[0].Price.IsZero() {
		t.Fatalf("expected price 0, got %s", created.Items[0].Price)
	}
}

func TestApprovedOrderCannotBeApprovedAgain(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	items := []SalesOrderItemInput{{ItemName: "Whiskey 750ml Bottle", Quantity: 1, Unit: "bottle"}}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	approve := &UpdateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items, Status: strPtr("Approved")}
	if _, err := svc.Update(ctx, created.OrderID, approve, "manager"); err != nil {
		t.Fatalf("first approval: %v", err)
	}

	if _, err := svc.Update(ctx, created.OrderID, approve, "manager"); !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("expected ErrOrderNotEditable on re-approval, got %v", err)
	}
	edit := &UpdateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}
	if _, err := svc.Update(ctx, created.OrderID, edit, "manager"); !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("expected ErrOrderNotEditable on edit, got %v", err)
	}
	if n := countRows(t, f.db, &model.Invoice{}); n != 1 {
		t.Fatalf("expected exactly one invoice, got %d", n)
	}
}

func TestApproveRequiresDepositPriceSetting(t *testing.T) {
	svc, f := newOrderService(t, "")
	ctx := context.Background()
	items := []SalesOrderItemInput{ipaKegLine(1, `["K001"]`)}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.KegDepositPrice != "" {
		t.Fatalf("expected empty keg_deposit_price, got %q", created.KegDepositPrice)
	}

	_, err = svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items:      items,
		Status:     strPtr("Approved"),
	}, "manager")
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
	if IsValidation(err) {
		t.Fatalf("missing configuration is not a client error")
	}
	order, _ := svc.Get(ctx, created.OrderID)
	if order.Status != model.OrderDraft {
		t.Fatalf("order should stay Draft, got %s", order.Status)
	}
}

func TestUpdateReplacesItemsAndHeader(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		Items: []SalesOrderItemInput{
			{ItemName: "Whiskey 750ml Bottle", Quantity: 1, Unit: "bottle"},
			{ItemName: "Brewery T-Shirt", Quantity: 1, Unit: "each"},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{
		CustomerID: f.taproom.ID,
		PONumber:   strPtr("PO-9"),
		Items:      []SalesOrderItemInput{{ItemName: "whiskey 750ML bottle", Quantity: 4, Unit: "bottle"}},
	}, "tester")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.OrderDraft || updated.PONumber == nil || *updated.PONumber != "PO-9" {
		t.Fatalf("unexpected header %+v", updated)
	}
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 4 || !updated.Items[0].Price.Equal(dec("35")) {
		t.Fatalf("expected a single repriced line, got %+v", updated.Items)
	}
	if n := countRows(t, f.db, &model.SalesOrderItem{}); n != 1 {
		t.Fatalf("old lines should be deleted, found %d", n)
	}
}

func TestUpdateValidatesStatusAndOrder(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	items := []SalesOrderItemInput{{ItemName: "Whiskey 750ml Bottle", Quantity: 1, Unit: "bottle"}}

	if _, err := svc.Update(ctx, 404, &UpdateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "x"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Update(ctx, created.OrderID, &UpdateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items, Status: strPtr("Shipped")}, "x")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestListOrdersExcludesCancelledAndPaginates(t *testing.T) {
	svc, f := newOrderService(t, "30.00")
	ctx := context.Background()
	items := []SalesOrderItemInput{{ItemName: "Whiskey 750ml Bottle", Quantity: 1, Unit: "bottle"}}

	var ids []uint
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, &CreateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items}, "tester")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, created.OrderID)
	}
	if _, err := svc.Update(ctx, ids[0], &UpdateSalesOrderRequest{CustomerID: f.taproom.ID, Items: items, Status: strPtr("Cancelled")}, "x"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	page, err := svc.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalPages != 2 || len(page.Orders) != 1 {
		t.Fatalf("expected 2 pages of 1, got %d pages and %d orders", page.TotalPages, len(page.Orders))
	}
	if page.Orders[0].OrderID != ids[2] {
		t.Fatalf("expected newest order first, got %d", page.Orders[0].OrderID)
	}

	all, err := svc.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, o := range all.Orders {
		if o.OrderID == ids[0] {
			t.Fatalf("cancelled order must not be listed")
		}
	}
	if len(all.Orders) != 2 || all.TotalPages != 1 {
		t.Fatalf("expected defaults to return both open orders, got %d", len(all.Orders))
	}
}

func TestComputeInvoiceTotals(t *testing.T) {
	items := []model.SalesOrderItem{
		{ItemName: "IPA 1/2 BBL Keg", Quantity: 2, Price: dec("150.00"), HasKegDeposit: true},
		{ItemName: "Stout 1/6 BBL Keg", Quantity: 1, Price: dec("80.50"), HasKegDeposit: true},
		{ItemName: "Whiskey 750ml Bottle", Quantity: 3, Price: dec("35.00")},
	}
	totals := ComputeInvoiceTotals(items, dec("30.00"))

	if !totals.Subtotal.Equal(dec("485.50")) {
		t.Errorf("subtotal = %s", totals.Subtotal)
	}
	if totals.KegDepositCount != 3 || !totals.KegDepositTotal.Equal(dec("90.00")) {
		t.Errorf("deposit = %d / %s", totals.KegDepositCount, totals.KegDepositTotal)
	}
	if !totals.Total.Equal(totals.Subtotal.Add(totals.KegDepositTotal)) {
		t.Errorf("total = %s", totals.Total)
	}
}
