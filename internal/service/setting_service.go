package service

import (
	"context"
	"errors"
	"strings"

	"brewops/internal/model"
	"brewops/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsSource supplies live system settings to the approval workflow.
type SettingsSource interface {
	// KegDepositPrice returns the raw setting, or "" when it is not configured.
	KegDepositPrice(ctx context.Context) (string, error)
}

type SettingService interface {
	SettingsSource
	GetAll(ctx context.Context) ([]model.SystemSetting, error)
	Get(ctx context.Context, key string) (*model.SystemSetting, error)
	Set(ctx context.Context, key, value string) (*model.SystemSetting, error)
	// SeedDefaults stores the configured keg deposit price when none exists yet.
	SeedDefaults(ctx context.Context, kegDepositPrice string) error
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

func (s *settingService) KegDepositPrice(ctx context.Context) (string, error) {
	setting, err := s.repo.Get(ctx, model.SettingKegDepositPrice)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(setting.Value), nil
}

func (s *settingService) GetAll(ctx context.Context) ([]model.SystemSetting, error) {
	return s.repo.FindAll(ctx)
}

func (s *settingService) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	setting, err := s.repo.Get(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	return setting, err
}

func (s *settingService) Set(ctx context.Context, key, value string) (*model.SystemSetting, error) {
	key = strings.TrimSpace(key)
	value, err := normalizeSetting(key, value)
	if err != nil {
		return nil, err
	}
	return s.repo.Set(ctx, key, value)
}

func (s *settingService) SeedDefaults(ctx context.Context, kegDepositPrice string) error {
	if kegDepositPrice == "" {
		return nil
	}
	value, err := normalizeSetting(model.SettingKegDepositPrice, kegDepositPrice)
	if err != nil {
		return err
	}
	return s.repo.SeedDefault(ctx, model.SettingKegDepositPrice, value)
}

func normalizeSetting(key, value string) (string, error) {
	if key == "" {
		return "", invalid(ErrInvalidSetting, "setting key is required")
	}
	value = strings.TrimSpace(value)
	if key == model.SettingKegDepositPrice {
		price, err := parseKegDepositPrice(value)
		if err != nil {
			return "", err
		}
		return price.StringFixed(2), nil
	}
	return value, nil
}

// parseKegDepositPrice validates the raw keg_deposit_price setting.
func parseKegDepositPrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, invalid(ErrInvalidSetting, "keg_deposit_price must not be empty")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid(ErrInvalidSetting, "keg_deposit_price %q is not a number", raw)
	}
	if price.IsNegative() {
		return decimal.Zero, invalid(ErrInvalidSetting, "keg_deposit_price must not be negative")
	}
	return price, nil
}
