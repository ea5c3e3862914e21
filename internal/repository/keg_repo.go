package repository

import (
	"context"
	"time"

	"brewops/internal/model"

	"gorm.io/gorm"
)

type KegRepository interface {
	Create(ctx context.Context, keg *model.Keg) error
	Update(ctx context.Context, keg *model.Keg) error
	FindByCode(ctx context.Context, code string) (*model.Keg, error)
	FindByCodes(ctx context.Context, codes []string) (map[string]model.Keg, error)
	FindAll(ctx context.Context, status model.KegStatus) ([]model.Keg, error)
	CountByStatus(ctx context.Context, status model.KegStatus) (int64, error)
	// ClaimFilled moves a Filled keg to Customer for an order. It returns false
	// when the keg was not Filled at the moment of the update.
	ClaimFilled(ctx context.Context, code string, customerID, orderID uint) (bool, error)
}

type kegRepo struct {
	db *gorm.DB
}

func NewKegRepo(db *gorm.DB) KegRepository {
	return &kegRepo{db}
}

func (r *kegRepo) Create(ctx context.Context, keg *model.Keg) error {
	return r.db.WithContext(ctx).Omit("Product").Create(keg).Error
}

func (r *kegRepo) Update(ctx context.Context, keg *model.Keg) error {
	return r.db.WithContext(ctx).Omit("Product").Save(keg).Error
}

func (r *kegRepo) FindByCode(ctx context.Context, code string) (*model.Keg, error) {
	var keg model.Keg
	if err := r.db.WithContext(ctx).Preload("Product").Where("code = ?", code).First(&keg).Error; err != nil {
		return nil, err
	}
	return &keg, nil
}

func (r *kegRepo) FindByCodes(ctx context.Context, codes []string) (map[string]model.Keg, error) {
	result := make(map[string]model.Keg, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	var kegs []model.Keg
	if err := r.db.WithContext(ctx).Preload("Product").Where("code IN ?", codes).Find(&kegs).Error; err != nil {
		return nil, err
	}
	for _, k := range kegs {
		result[k.Code] = k
	}
	return result, nil
}

func (r *kegRepo) FindAll(ctx context.Context, status model.KegStatus) ([]model.Keg, error) {
	var kegs []model.Keg
	query := r.db.WithContext(ctx).Preload("Product").Order("code ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&kegs).Error
	return kegs, err
}

func (r *kegRepo) CountByStatus(ctx context.Context, status model.KegStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Keg{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *kegRepo) ClaimFilled(ctx context.Context, code string, customerID, orderID uint) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Keg{}).
		Where("code = ? AND status = ?", code, model.KegFilled).
		Updates(map[string]interface{}{
			"status":        model.KegCustomer,
			"customer_id":   customerID,
			"order_id":      orderID,
			"last_activity": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
