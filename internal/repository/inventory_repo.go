package repository

import (
	"context"
	"time"

	"brewops/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, record *model.InventoryRecord) error
	Save(ctx context.Context, record *model.InventoryRecord) error
	FindByID(ctx context.Context, id uint) (*model.InventoryRecord, error)
	FindByKey(ctx context.Context, identifier string, invType model.InventoryType, location string) (*model.InventoryRecord, error)
	FindAll(ctx context.Context, invType model.InventoryType) ([]model.InventoryRecord, error)
	// FindPriced returns the oldest record of the given type for identifier; its
	// price may be zero.
	FindPriced(ctx context.Context, identifier string, invType model.InventoryType) (*model.InventoryRecord, error)
	// FindSellable lists Finished Goods and Marketing rows for identifier, oldest first.
	FindSellable(ctx context.Context, identifier string) ([]model.InventoryRecord, error)
	SumAvailable(ctx context.Context, identifier string, types []model.InventoryType) (decimal.Decimal, error)
	SumQuantityByType(ctx context.Context, invType model.InventoryType) (decimal.Decimal, error)
	// Decrement subtracts qty only if at least qty is on hand; false means the guard failed.
	Decrement(ctx context.Context, id uint, qty, proofGallons, cost decimal.Decimal) (bool, error)

	CreateTransaction(ctx context.Context, entry *model.InventoryTransaction) error
	ListTransactions(ctx context.Context, offset, limit int) ([]model.InventoryTransaction, int64, error)
	FindTransactionsByReference(ctx context.Context, reference string) ([]model.InventoryTransaction, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

// Column scales. SQLite stores decimal columns as REAL, so anything the
// database adds or subtracts is rounded back to these.
const (
	quantityScale = 3
	moneyScale    = 2
)

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(ctx context.Context, record *model.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *inventoryRepo) Save(ctx context.Context, record *model.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uint) (*model.InventoryRecord, error) {
	var record model.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *inventoryRepo) FindByKey(ctx context.Context, identifier string, invType model.InventoryType, location string) (*model.InventoryRecord, error) {
	var record model.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ? AND location = ?", identifier, invType, location).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *inventoryRepo) FindAll(ctx context.Context, invType model.InventoryType) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	query := r.db.WithContext(ctx).Order("identifier ASC, location ASC")
	if invType != "" {
		query = query.Where("type = ?", invType)
	}
	err := query.Find(&records).Error
	return records, err
}

func (r *inventoryRepo) FindPriced(ctx context.Context, identifier string, invType model.InventoryType) (*model.InventoryRecord, error) {
	var record model.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ?", identifier, invType).
		Order("id ASC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *inventoryRepo) FindSellable(ctx context.Context, identifier string) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND type IN ? AND quantity > 0", identifier, model.SellableInventoryTypes).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// SumAvailable adds the row quantities in Go; a SQL SUM over REAL columns
// would drift below the exact amount on hand.
func (r *inventoryRepo) SumAvailable(ctx context.Context, identifier string, types []model.InventoryType) (decimal.Decimal, error) {
	var quantities []decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Where("identifier = ? AND type IN ?", identifier, types).
		Pluck("quantity", &quantities).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, q := range quantities {
		total = total.Add(q)
	}
	return total.Round(quantityScale), nil
}

func (r *inventoryRepo) SumQuantityByType(ctx context.Context, invType model.InventoryType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("type = ?", invType).
		Row().Scan(&total)
	return total.Round(quantityScale), err
}

func (r *inventoryRepo) Decrement(ctx context.Context, id uint, qty, proofGallons, cost decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":      gorm.Expr("ROUND(quantity - ?, ?)", qty, quantityScale),
			"proof_gallons": gorm.Expr("ROUND(proof_gallons - ?, ?)", proofGallons, quantityScale),
			"total_cost":    gorm.Expr("ROUND(total_cost - ?, ?)", cost, moneyScale),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepo) CreateTransaction(ctx context.Context, entry *model.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *inventoryRepo) ListTransactions(ctx context.Context, offset, limit int) ([]model.InventoryTransaction, int64, error) {
	var (
		entries []model.InventoryTransaction
		count   int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.InventoryTransaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, count, err
}

func (r *inventoryRepo) FindTransactionsByReference(ctx context.Context, reference string) ([]model.InventoryTransaction, error) {
	var entries []model.InventoryTransaction
	err := r.db.WithContext(ctx).Where("reference = ?", reference).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *inventoryRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.InventoryTransaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN action = ? THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN action IN ? THEN -quantity ELSE 0 END), 0) as outbound
		`, model.TxReceived, []model.TransactionAction{model.TxSold, model.TxLost}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []StockMovementData{}
	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		data.Inbound = data.Inbound.Round(quantityScale)
		data.Outbound = data.Outbound.Round(quantityScale)
		results = append(results, data)
	}
	return results, rows.Err()
}
