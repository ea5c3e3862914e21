package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/internal/ws"
	"brewops/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceiveInventoryRequest struct {
	Identifier       string              `json:"identifier" validate:"required"`
	Type             model.InventoryType `json:"type" validate:"required"`
	Location         string              `json:"location"`
	Quantity         decimal.Decimal     `json:"quantity"`
	Unit             string              `json:"unit" validate:"required"`
	Price            *decimal.Decimal    `json:"price"`
	Proof            *decimal.Decimal    `json:"proof"`
	ProofGallons     *decimal.Decimal    `json:"proofGallons"`
	TotalCost        *decimal.Decimal    `json:"totalCost"`
	IsKegDepositItem bool                `json:"isKegDepositItem"`
	Notes            string              `json:"notes"`
}

type AdjustInventoryRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

type MoveInventoryRequest struct {
	Quantity   decimal.Decimal `json:"quantity"`
	ToLocation string          `json:"toLocation" validate:"required"`
	Notes      string          `json:"notes"`
}

type LoseInventoryRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes" validate:"required"`
}

type TransactionPage struct {
	Transactions []model.InventoryTransaction `json:"transactions"`
	TotalPages   int                          `json:"totalPages"`
}

type InventoryService interface {
	Receive(ctx context.Context, req *ReceiveInventoryRequest, actor string) (*model.InventoryRecord, error)
	Adjust(ctx context.Context, id uint, req *AdjustInventoryRequest, actor string) (*model.InventoryRecord, error)
	// Move returns the destination record.
	Move(ctx context.Context, id uint, req *MoveInventoryRequest, actor string) (*model.InventoryRecord, error)
	Lose(ctx context.Context, id uint, req *LoseInventoryRequest, actor string) (*model.InventoryRecord, error)
	List(ctx context.Context, invType model.InventoryType) ([]model.InventoryRecord, error)
	ListTransactions(ctx context.Context, page, limit int) (*TransactionPage, error)
}

type inventoryService struct {
	repo  repository.InventoryRepository
	db    *gorm.DB
	wsHub *ws.Hub
}

func NewInventoryService(repo repository.InventoryRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		repo:  repo,
		db:    db,
		wsHub: hub,
	}
}

func (s *inventoryService) Receive(ctx context.Context, req *ReceiveInventoryRequest, actor string) (*model.InventoryRecord, error) {
	// 1. Validate input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	if !req.Type.Valid() {
		return nil, invalid(ErrInvalidInput, "unknown inventory type %q", req.Type)
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid(ErrInvalidInput, "quantity must be greater than 0")
	}
	for name, v := range map[string]*decimal.Decimal{"price": req.Price, "proof": req.Proof, "proofGallons": req.ProofGallons, "totalCost": req.TotalCost} {
		if v != nil && v.IsNegative() {
			return nil, invalid(ErrInvalidInput, "%s must not be negative", name)
		}
	}

	identifier := strings.TrimSpace(req.Identifier)
	location := strings.TrimSpace(req.Location)
	proofGallons := decimal.Zero
	switch {
	case req.ProofGallons != nil:
		proofGallons = *req.ProofGallons
	case req.Proof != nil:
		proofGallons = req.Quantity.Mul(*req.Proof).Div(decimal.NewFromInt(100)).Round(3)
	}
	cost := decimal.Zero
	if req.TotalCost != nil {
		cost = *req.TotalCost
	}

	var record *model.InventoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := repository.NewInventoryRepo(tx)

		// 2. Upsert by identifier, type and location
		existing, err := inv.FindByKey(ctx, identifier, req.Type, location)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = &model.InventoryRecord{
				Identifier:       identifier,
				Type:             req.Type,
				Location:         location,
				Quantity:         req.Quantity,
				Unit:             req.Unit,
				ProofGallons:     proofGallons,
				TotalCost:        cost,
				Price:            decimal.Zero,
				IsKegDepositItem: req.IsKegDepositItem,
			}
			if req.Price != nil {
				record.Price = *req.Price
			}
			if err := inv.Create(ctx, record); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			record = existing
			record.Quantity = record.Quantity.Add(req.Quantity)
			record.ProofGallons = record.ProofGallons.Add(proofGallons)
			record.TotalCost = record.TotalCost.Add(cost)
			if req.Price != nil {
				record.Price = *req.Price
			}
			if err := inv.Save(ctx, record); err != nil {
				return err
			}
		}

		// 3. Ledger entry
		return inv.CreateTransaction(ctx, &model.InventoryTransaction{
			Action:       model.TxReceived,
			InventoryID:  record.ID,
			Identifier:   record.Identifier,
			Quantity:     req.Quantity,
			ProofGallons: proofGallons,
			Unit:         record.Unit,
			Notes:        req.Notes,
			CreatedBy:    actor,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("received", record, actor)
	return record, nil
}

func (s *inventoryService) Adjust(ctx context.Context, id uint, req *AdjustInventoryRequest, actor string) (*model.InventoryRecord, error) {
	if req.Quantity.IsNegative() {
		return nil, invalid(ErrInvalidInput, "quantity must not be negative")
	}

	var record *model.InventoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := repository.NewInventoryRepo(tx)

		existing, err := findInventory(ctx, inv, id)
		if err != nil {
			return err
		}
		record = existing

		delta := req.Quantity.Sub(record.Quantity)
		pgDelta := decimal.Zero
		if !record.Quantity.IsZero() {
			newPG := shareOf(record.ProofGallons, req.Quantity, record.Quantity)
			newCost := shareOf(record.TotalCost, req.Quantity, record.Quantity)
			pgDelta = newPG.Sub(record.ProofGallons)
			record.ProofGallons = newPG
			record.TotalCost = newCost
		}
		record.Quantity = req.Quantity
		if err := inv.Save(ctx, record); err != nil {
			return err
		}

		return inv.CreateTransaction(ctx, &model.InventoryTransaction{
			Action:       model.TxAdjusted,
			InventoryID:  record.ID,
			Identifier:   record.Identifier,
			Quantity:     delta,
			ProofGallons: pgDelta,
			Unit:         record.Unit,
			Notes:        req.Notes,
			CreatedBy:    actor,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("adjusted", record, actor)
	return record, nil
}

func (s *inventoryService) Move(ctx context.Context, id uint, req *MoveInventoryRequest, actor string) (*model.InventoryRecord, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid(ErrInvalidInput, "quantity must be greater than 0")
	}
	toLocation := strings.TrimSpace(req.ToLocation)

	var dest *model.InventoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := repository.NewInventoryRepo(tx)

		// 1. Source row
		src, err := findInventory(ctx, inv, id)
		if err != nil {
			return err
		}
		if src.Location == toLocation {
			return invalid(ErrInvalidInput, "source and destination location are the same")
		}

		// 2. Guarded decrement of the source
		pg := shareOf(src.ProofGallons, req.Quantity, src.Quantity)
		cost := shareOf(src.TotalCost, req.Quantity, src.Quantity)
		ok, err := inv.Decrement(ctx, src.ID, req.Quantity, pg, cost)
		if err != nil {
			return err
		}
		if !ok {
			return invalid(ErrInsufficientInventory, "only %s %s of %s on hand at %q", src.Quantity, src.Unit, src.Identifier, src.Location)
		}

		// 3. Destination row, created on first move
		dest, err = inv.FindByKey(ctx, src.Identifier, src.Type, toLocation)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			dest = &model.InventoryRecord{
				Identifier:       src.Identifier,
				Type:             src.Type,
				Location:         toLocation,
				Quantity:         req.Quantity,
				Unit:             src.Unit,
				ProofGallons:     pg,
				TotalCost:        cost,
				Price:            src.Price,
				IsKegDepositItem: src.IsKegDepositItem,
			}
			if err := inv.Create(ctx, dest); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			dest.Quantity = dest.Quantity.Add(req.Quantity)
			dest.ProofGallons = dest.ProofGallons.Add(pg)
			dest.TotalCost = dest.TotalCost.Add(cost)
			if err := inv.Save(ctx, dest); err != nil {
				return err
			}
		}

		// 4. One ledger row per side
		reference := fmt.Sprintf("move:%d->%d", src.ID, dest.ID)
		for _, entry := range []model.InventoryTransaction{
			{InventoryID: src.ID, Quantity: req.Quantity.Neg(), ProofGallons: pg.Neg()},
			{InventoryID: dest.ID, Quantity: req.Quantity, ProofGallons: pg},
		} {
			entry.Action = model.TxMoved
			entry.Identifier = src.Identifier
			entry.Unit = src.Unit
			entry.Reference = reference
			entry.Notes = req.Notes
			entry.CreatedBy = actor
			if err := inv.CreateTransaction(ctx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("moved", dest, actor)
	return dest, nil
}

func (s *inventoryService) Lose(ctx context.Context, id uint, req *LoseInventoryRequest, actor string) (*model.InventoryRecord, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid(ErrInvalidInput, "quantity must be greater than 0")
	}

	var record *model.InventoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := repository.NewInventoryRepo(tx)

		src, err := findInventory(ctx, inv, id)
		if err != nil {
			return err
		}
		pg := shareOf(src.ProofGallons, req.Quantity, src.Quantity)
		cost := shareOf(src.TotalCost, req.Quantity, src.Quantity)
		ok, err := inv.Decrement(ctx, src.ID, req.Quantity, pg, cost)
		if err != nil {
			return err
		}
		if !ok {
			return invalid(ErrInsufficientInventory, "only %s %s of %s on hand", src.Quantity, src.Unit, src.Identifier)
		}
		if err := inv.CreateTransaction(ctx, &model.InventoryTransaction{
			Action:       model.TxLost,
			InventoryID:  src.ID,
			Identifier:   src.Identifier,
			Quantity:     req.Quantity.Neg(),
			ProofGallons: pg.Neg(),
			Unit:         src.Unit,
			Notes:        req.Notes,
			CreatedBy:    actor,
		}); err != nil {
			return err
		}
		record, err = inv.FindByID(ctx, src.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish("lost", record, actor)
	return record, nil
}

func (s *inventoryService) List(ctx context.Context, invType model.InventoryType) ([]model.InventoryRecord, error) {
	if invType != "" && !invType.Valid() {
		return nil, invalid(ErrInvalidInput, "unknown inventory type %q", invType)
	}
	return s.repo.FindAll(ctx, invType)
}

func (s *inventoryService) ListTransactions(ctx context.Context, page, limit int) (*TransactionPage, error) {
	_, limit, offset := normalizePage(page, limit)
	entries, count, err := s.repo.ListTransactions(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.InventoryTransaction{}
	}
	return &TransactionPage{Transactions: entries, TotalPages: totalPages(count, limit)}, nil
}

func (s *inventoryService) publish(action string, record *model.InventoryRecord, actor string) {
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventInventoryUpdate,
		Action:  action,
		Data:    record,
		User:    actor,
		Message: fmt.Sprintf("%s %s %s", actor, action, record.Identifier),
	})
}

func findInventory(ctx context.Context, inv repository.InventoryRepository, id uint) (*model.InventoryRecord, error) {
	record, err := inv.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInventoryNotFound
	}
	return record, err
}

// sellStock draws qty of identifier from Finished Goods and Marketing rows,
// oldest first, appending a Sold ledger row per row touched.
func sellStock(ctx context.Context, inv repository.InventoryRepository, identifier string, qty decimal.Decimal, reference, actor string) error {
	rows, err := inv.FindSellable(ctx, identifier)
	if err != nil {
		return err
	}

	remaining := qty
	for _, row := range rows {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, row.Quantity)
		pg := shareOf(row.ProofGallons, take, row.Quantity)
		cost := shareOf(row.TotalCost, take, row.Quantity)

		ok, err := inv.Decrement(ctx, row.ID, take, pg, cost)
		if err != nil {
			return err
		}
		if !ok {
			return invalid(ErrInsufficientInventory, "stock of %s changed during approval", identifier)
		}
		if err := inv.CreateTransaction(ctx, &model.InventoryTransaction{
			Action:       model.TxSold,
			InventoryID:  row.ID,
			Identifier:   identifier,
			Quantity:     take.Neg(),
			ProofGallons: pg.Neg(),
			Unit:         row.Unit,
			Reference:    reference,
			CreatedBy:    actor,
		}); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return invalid(ErrInsufficientInventory, "insufficient inventory for %s: %s short", identifier, remaining)
	}
	return nil
}

// shareOf scales total by part/whole, e.g. the proof gallons carried by
// part of a row's quantity.
func shareOf(total, part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() || total.IsZero() {
		return decimal.Zero
	}
	if part.GreaterThanOrEqual(whole) {
		return total
	}
	return total.Mul(part).Div(whole).Round(3)
}
