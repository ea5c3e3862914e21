package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewops/internal/cache"
	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/internal/ws"
	"brewops/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SalesOrderItemInput is one requested order line.
type SalesOrderItemInput struct {
	ItemName      string          `json:"itemName"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	HasKegDeposit *bool           `json:"hasKegDeposit"`
	KegCodes      json.RawMessage `json:"kegCodes"`
}

type CreateSalesOrderRequest struct {
	CustomerID uint                  `json:"customerId"`
	PONumber   *string               `json:"poNumber"`
	Items      []SalesOrderItemInput `json:"items"`
}

type UpdateSalesOrderRequest struct {
	CustomerID uint                  `json:"customerId"`
	PONumber   *string               `json:"poNumber"`
	Items      []SalesOrderItemInput `json:"items"`
	Status     *string               `json:"status"`
}

// Approving reports whether the request asks for the Draft → Approved transition.
func (r *UpdateSalesOrderRequest) Approving() bool {
	return r.Status != nil && model.OrderStatus(strings.TrimSpace(*r.Status)) == model.OrderApproved
}

type SalesOrderPage struct {
	Orders     []model.SalesOrderResponse `json:"orders"`
	TotalPages int                        `json:"totalPages"`
}

// InvoiceTotals are the amounts an approval charges.
type InvoiceTotals struct {
	Subtotal        decimal.Decimal
	KegDepositTotal decimal.Decimal
	Total           decimal.Decimal
	KegDepositCount int
}

// ComputeInvoiceTotals sums price × quantity for every line and
// quantity × kegDepositPrice for keg-deposit lines.
func ComputeInvoiceTotals(items []model.SalesOrderItem, kegDepositPrice decimal.Decimal) InvoiceTotals {
	totals := InvoiceTotals{Subtotal: decimal.Zero, KegDepositTotal: decimal.Zero}
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal())
		if item.HasKegDeposit {
			totals.KegDepositCount += item.Quantity
		}
	}
	totals.KegDepositTotal = kegDepositPrice.Mul(decimal.NewFromInt(int64(totals.KegDepositCount)))
	totals.Total = totals.Subtotal.Add(totals.KegDepositTotal)
	return totals
}

type SalesOrderService interface {
	Create(ctx context.Context, req *CreateSalesOrderRequest, actor string) (*model.SalesOrderResponse, error)
	// Update replaces the order's items and header; status "Approved" also
	// commits kegs and stock and issues the invoice.
	Update(ctx context.Context, orderID uint, req *UpdateSalesOrderRequest, actor string) (*model.SalesOrderResponse, error)
	List(ctx context.Context, page, limit int) (*SalesOrderPage, error)
	Get(ctx context.Context, orderID uint) (*model.SalesOrderResponse, error)
}

type salesOrderService struct {
	db       *gorm.DB
	orders   repository.SalesOrderRepository
	settings SettingsSource
	prices   cache.PriceCache
	priceTTL time.Duration
	wsHub    *ws.Hub
}

func NewSalesOrderService(db *gorm.DB, settings SettingsSource, prices cache.PriceCache, priceTTL time.Duration, hub *ws.Hub) SalesOrderService {
	if prices == nil {
		prices = cache.NoopPriceCache{}
	}
	return &salesOrderService{
		db:       db,
		orders:   repository.NewSalesOrderRepo(db),
		settings: settings,
		prices:   prices,
		priceTTL: priceTTL,
		wsHub:    hub,
	}
}

func (s *salesOrderService) Create(ctx context.Context, req *CreateSalesOrderRequest, actor string) (*model.SalesOrderResponse, error) {
	var order *model.SalesOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)

		// 1. Customer must exist and be enabled
		if err := checkCustomer(ctx, r.customers, req.CustomerID); err != nil {
			return err
		}

		// 2. Validate and price every line; any failure rejects the whole order
		items, err := s.resolveItems(ctx, r, req.Items)
		if err != nil {
			return err
		}

		// 3. Insert header and lines together
		order = &model.SalesOrder{
			CustomerID: req.CustomerID,
			PONumber:   normalizePONumber(req.PONumber),
			Status:     model.OrderDraft,
			Items:      items,
			CreatedBy:  actor,
		}
		return r.orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventSalesOrderCreated,
		Data:    resp,
		User:    actor,
		Message: fmt.Sprintf("Sales order #%d created", order.ID),
	})
	return resp, nil
}

func (s *salesOrderService) Update(ctx context.Context, orderID uint, req *UpdateSalesOrderRequest, actor string) (*model.SalesOrderResponse, error) {
	approving := req.Approving()

	// The deposit price is read once per approval, before the transaction
	// holds the connection.
	var depositRaw string
	if approving {
		raw, err := s.settings.KegDepositPrice(ctx)
		if err != nil {
			return nil, err
		}
		depositRaw = raw
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)

		// 1. Lock the order header
		existing, err := r.orders.FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		// 2. Status transition rules
		status := existing.Status
		if req.Status != nil {
			status = model.OrderStatus(strings.TrimSpace(*req.Status))
			if !status.Valid() {
				return invalid(ErrInvalidStatus, "status must be one of Draft, Approved, Cancelled; got %q", *req.Status)
			}
		}
		if existing.Status != model.OrderDraft {
			return invalid(ErrOrderNotEditable, "order %d is %s and can no longer be changed", existing.ID, existing.Status)
		}

		// 3. Same validation as creation
		if err := checkCustomer(ctx, r.customers, req.CustomerID); err != nil {
			return err
		}
		items, err := s.resolveItems(ctx, r, req.Items)
		if err != nil {
			return err
		}

		// 4. Approval checks run before anything is written
		var depositPrice decimal.Decimal
		if approving {
			if err := validateApproval(ctx, r, items); err != nil {
				return err
			}
			if depositRaw == "" {
				return fmt.Errorf("%w: %s is not set", ErrConfigMissing, model.SettingKegDepositPrice)
			}
			depositPrice, err = parseKegDepositPrice(depositRaw)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
			}
		}

		// 5. Replace lines and header
		if err := r.orders.ReplaceItems(ctx, existing.ID, items); err != nil {
			return err
		}
		existing.CustomerID = req.CustomerID
		existing.PONumber = normalizePONumber(req.PONumber)
		existing.Status = status
		if err := r.orders.UpdateHeader(ctx, existing); err != nil {
			return err
		}

		if !approving {
			return nil
		}

		// 6. Commit kegs and stock, then issue the invoice
		if err := commitOrder(ctx, r, existing, items, actor); err != nil {
			return err
		}
		invoice := buildInvoice(existing, items, depositPrice)
		return r.invoices.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	event := ws.Event{
		Type:    ws.EventSalesOrderUpdated,
		Data:    resp,
		User:    actor,
		Message: fmt.Sprintf("Sales order #%d updated", orderID),
	}
	if approving {
		event.Type = ws.EventSalesOrderApproved
		event.Message = fmt.Sprintf("Sales order #%d approved", orderID)
		s.wsHub.Publish(ws.Event{Type: ws.EventInventoryUpdate, Action: "sold", Data: orderRef(orderID), User: actor})
		s.wsHub.Publish(ws.Event{Type: ws.EventKegUpdate, Action: "shipped", Data: orderRef(orderID), User: actor})
	}
	s.wsHub.Publish(event)
	return resp, nil
}

func (s *salesOrderService) List(ctx context.Context, page, limit int) (*SalesOrderPage, error) {
	_, limit, offset := normalizePage(page, limit)

	orders, count, err := s.orders.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	deposit, err := s.settings.KegDepositPrice(ctx)
	if err != nil {
		return nil, err
	}

	result := &SalesOrderPage{
		Orders:     make([]model.SalesOrderResponse, 0, len(orders)),
		TotalPages: totalPages(count, limit),
	}
	for i := range orders {
		resp := orders[i].ToResponse()
		resp.KegDepositPrice = deposit
		result.Orders = append(result.Orders, resp)
	}
	return result, nil
}

func (s *salesOrderService) Get(ctx context.Context, orderID uint) (*model.SalesOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	deposit, err := s.settings.KegDepositPrice(ctx)
	if err != nil {
		return nil, err
	}
	resp := order.ToResponse()
	resp.KegDepositPrice = deposit
	return &resp, nil
}

func checkCustomer(ctx context.Context, customers repository.CustomerRepository, id uint) error {
	if id == 0 {
		return invalid(ErrInvalidCustomer, "customerId is required")
	}
	customer, err := customers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid(ErrInvalidCustomer, "customer %d does not exist", id)
	}
	if err != nil {
		return err
	}
	if !customer.Enabled {
		return invalid(ErrInvalidCustomer, "customer %d is disabled", id)
	}
	return nil
}

// resolveItems validates and prices the requested lines. Every per-line
// failure is collected; database errors abort immediately.
func (s *salesOrderService) resolveItems(ctx context.Context, r repos, inputs []SalesOrderItemInput) ([]model.SalesOrderItem, error) {
	if len(inputs) == 0 {
		return nil, invalid(ErrInvalidItem, "order must contain at least one item")
	}

	resolver := NewPriceResolver(r.catalog, r.inventory, s.prices, s.priceTTL)
	var errs ValidationErrors
	items := make([]model.SalesOrderItem, 0, len(inputs))

	for i, in := range inputs {
		n := i + 1
		name := strings.TrimSpace(in.ItemName)
		unit := strings.TrimSpace(in.Unit)

		if name == "" {
			errs = append(errs, invalid(ErrInvalidItem, "item %d: itemName is required", n))
		}
		if in.Quantity <= 0 {
			errs = append(errs, invalid(ErrInvalidItem, "item %d: quantity must be greater than 0", n))
		}
		if unit == "" {
			errs = append(errs, invalid(ErrInvalidItem, "item %d: unit is required", n))
		}
		codes, err := parseKegCodes(in.KegCodes)
		if err != nil {
			errs = append(errs, invalid(ErrInvalidKegCodes, "item %d: %v", n, err))
		}
		if name == "" {
			continue
		}

		price, err := resolver.Resolve(ctx, name)
		if errors.Is(err, ErrPriceNotFound) {
			errs = append(errs, invalid(ErrPriceNotFound, "item %d: no price found for %q", n, name))
			continue
		}
		if err != nil {
			return nil, err
		}

		hasDeposit := price.HasKegDeposit
		if in.HasKegDeposit != nil {
			hasDeposit = *in.HasKegDeposit
		}
		items = append(items, model.SalesOrderItem{
			ItemName:      name,
			Quantity:      in.Quantity,
			Unit:          unit,
			Price:         price.Price,
			HasKegDeposit: hasDeposit,
			KegCodes:      codes,
			ProductID:     price.ProductID,
			PackageTypeID: price.PackageTypeID,
		})
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return items, nil
}

// parseKegCodes accepts a JSON array of keg codes; null or absent means none.
func parseKegCodes(raw json.RawMessage) (datatypes.JSONSlice[string], error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return datatypes.JSONSlice[string]{}, nil
	}
	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, errors.New("kegCodes must be an array of strings")
	}
	for _, code := range codes {
		if !validator.IsKegCode(code) {
			return nil, fmt.Errorf("keg code %q must match [A-Z0-9-]+", code)
		}
	}
	return datatypes.JSONSlice[string](codes), nil
}

// validateApproval checks keg codes and stock for every line without
// writing anything.
func validateApproval(ctx context.Context, r repos, items []model.SalesOrderItem) error {
	var errs ValidationErrors

	var allCodes []string
	for _, item := range items {
		if item.HasKegDeposit {
			allCodes = append(allCodes, item.KegCodes...)
		}
	}
	kegs, err := r.kegs.FindByCodes(ctx, allCodes)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	requested := make(map[string]int)
	var order []string

	for i, item := range items {
		n := i + 1
		if item.Quantity <= 0 || item.ItemName == "" {
			errs = append(errs, invalid(ErrInvalidItem, "item %d: itemName and a positive quantity are required", n))
			continue
		}

		if !item.HasKegDeposit {
			if _, ok := requested[item.ItemName]; !ok {
				order = append(order, item.ItemName)
			}
			requested[item.ItemName] += item.Quantity
			continue
		}

		if len(item.KegCodes) != item.Quantity {
			errs = append(errs, invalid(ErrKegCodeCountMismatch,
				"item %d: %d keg codes supplied for quantity %d", n, len(item.KegCodes), item.Quantity))
			continue
		}

		productName := KegProductName(item.ItemName)
		for _, code := range item.KegCodes {
			if seen[code] {
				errs = append(errs, invalid(ErrKegNotAvailable, "item %d: keg %s is listed more than once", n, code))
				continue
			}
			seen[code] = true

			keg, ok := kegs[code]
			if !ok {
				errs = append(errs, invalid(ErrKegNotAvailable, "item %d: keg %s does not exist", n, code))
				continue
			}
			if keg.Status != model.KegFilled {
				errs = append(errs, invalid(ErrKegNotAvailable, "item %d: keg %s is %s, not Filled", n, code, keg.Status))
				continue
			}
			if !kegMatchesProduct(keg, item, productName) {
				errs = append(errs, invalid(ErrKegProductMismatch, "item %d: keg %s does not hold %s", n, code, productName))
			}
		}
	}

	for _, identifier := range order {
		want := decimal.NewFromInt(int64(requested[identifier]))
		available, err := r.inventory.SumAvailable(ctx, identifier, model.SellableInventoryTypes)
		if err != nil {
			return err
		}
		if available.LessThan(want) {
			errs = append(errs, invalid(ErrInsufficientInventory,
				"insufficient inventory for %s: requested %s, available %s", identifier, want, available))
		}
	}

	return errs.err()
}

func kegMatchesProduct(keg model.Keg, item model.SalesOrderItem, productName string) bool {
	if keg.ProductID == nil {
		return false
	}
	if item.ProductID != nil {
		return *keg.ProductID == *item.ProductID
	}
	return keg.Product != nil && strings.EqualFold(keg.Product.Name, productName)
}

// commitOrder claims every keg and decrements stock for non-keg lines.
// Each write is guarded, so a concurrent approval loses cleanly.
func commitOrder(ctx context.Context, r repos, order *model.SalesOrder, items []model.SalesOrderItem, actor string) error {
	reference := orderReference(order.ID)
	for _, item := range items {
		if item.HasKegDeposit {
			for _, code := range item.KegCodes {
				ok, err := r.kegs.ClaimFilled(ctx, code, order.CustomerID, order.ID)
				if err != nil {
					return err
				}
				if !ok {
					return invalid(ErrKegNotAvailable, "keg %s was claimed by another order", code)
				}
			}
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		if err := sellStock(ctx, r.inventory, item.ItemName, qty, reference, actor); err != nil {
			return err
		}
	}
	return nil
}

func buildInvoice(order *model.SalesOrder, items []model.SalesOrderItem, depositPrice decimal.Decimal) *model.Invoice {
	totals := ComputeInvoiceTotals(items, depositPrice)

	invoice := &model.Invoice{
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		Status:          model.InvoicePending,
		Subtotal:        totals.Subtotal,
		KegDepositTotal: totals.KegDepositTotal,
		Total:           totals.Total,
		KegDepositPrice: depositPrice,
		Items:           make([]model.InvoiceItem, 0, len(items)+1),
	}
	for _, item := range items {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			ItemName:      item.ItemName,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			Price:         item.Price,
			HasKegDeposit: item.HasKegDeposit,
			KegCodes:      item.KegCodes,
		})
	}
	if totals.KegDepositCount > 0 {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			ItemName: model.KegDepositLineName,
			Quantity: totals.KegDepositCount,
			Unit:     "deposit",
			Price:    depositPrice,
			KegCodes: datatypes.JSONSlice[string]{},
		})
	}
	return invoice
}

func normalizePONumber(po *string) *string {
	if po == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*po)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func orderReference(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

func orderRef(orderID uint) map[string]interface{} {
	return map[string]interface{}{"orderId": orderID, "reference": orderReference(orderID)}
}
