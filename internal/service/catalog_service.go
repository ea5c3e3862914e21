package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"brewops/internal/cache"
	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Type    string `json:"type" validate:"max=50"`
	Enabled *bool  `json:"enabled"`
}

type PackageTypeRequest struct {
	ProductID        uint            `json:"productId" validate:"required"`
	Type             string          `json:"type" validate:"required,max=100"`
	Price            decimal.Decimal `json:"price"`
	IsKegDepositItem bool            `json:"isKegDepositItem"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *ProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreatePackageType(ctx context.Context, req *PackageTypeRequest) (*model.PackageType, error)
	UpdatePackageType(ctx context.Context, id uint, req *PackageTypeRequest) (*model.PackageType, error)
}

type catalogService struct {
	repo   repository.CatalogRepository
	prices cache.PriceCache
}

func NewCatalogService(repo repository.CatalogRepository, prices cache.PriceCache) CatalogService {
	if prices == nil {
		prices = cache.NoopPriceCache{}
	}
	return &catalogService{repo: repo, prices: prices}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:    req.Name,
		Type:    strings.TrimSpace(req.Type),
		Enabled: req.Enabled == nil || *req.Enabled,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req *ProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, product.ID); err != nil {
		return nil, err
	}

	oldName := product.Name
	product.Name = req.Name
	product.Type = strings.TrimSpace(req.Type)
	if req.Enabled != nil {
		product.Enabled = *req.Enabled
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	// Quotes are keyed by name; drop them only once the new row is visible,
	// otherwise a concurrent lookup re-caches the old quote.
	for _, pkg := range product.PackageTypes {
		s.invalidate(ctx, oldName, pkg.Type)
	}
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.FindAllProducts(ctx)
}

func (s *catalogService) CreatePackageType(ctx context.Context, req *PackageTypeRequest) (*model.PackageType, error) {
	if err := validatePackageType(req); err != nil {
		return nil, err
	}
	product, err := s.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	for _, existing := range product.PackageTypes {
		if strings.EqualFold(existing.Type, req.Type) {
			return nil, invalid(ErrDuplicate, "%s already has a %q package", product.Name, req.Type)
		}
	}

	pkg := &model.PackageType{
		ProductID:        product.ID,
		Type:             req.Type,
		Price:            req.Price,
		IsKegDepositItem: req.IsKegDepositItem,
	}
	if err := s.repo.CreatePackageType(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.Name, pkg.Type)
	pkg.Product = product
	return pkg, nil
}

func (s *catalogService) UpdatePackageType(ctx context.Context, id uint, req *PackageTypeRequest) (*model.PackageType, error) {
	pkg, err := s.repo.FindPackageTypeByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPackageTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.ProductID == 0 {
		req.ProductID = pkg.ProductID
	}
	if err := validatePackageType(req); err != nil {
		return nil, err
	}
	if req.ProductID != pkg.ProductID {
		return nil, invalid(ErrInvalidInput, "a package type cannot move to another product")
	}

	productName := ""
	if pkg.Product != nil {
		productName = pkg.Product.Name
	}
	s.invalidate(ctx, productName, pkg.Type)

	pkg.Type = req.Type
	pkg.Price = req.Price
	pkg.IsKegDepositItem = req.IsKegDepositItem
	if err := s.repo.UpdatePackageType(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productName, pkg.Type)
	return pkg, nil
}

func (s *catalogService) ensureUniqueName(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindProductByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return invalid(ErrDuplicate, "product %q already exists", name)
	}
	return nil
}

func (s *catalogService) invalidate(ctx context.Context, productName, packageType string) {
	key := cache.PriceKey(productName, packageType)
	if err := s.prices.Delete(ctx, key); err != nil {
		log.Printf("price cache delete %s: %v", key, err)
	}
}

func validatePackageType(req *PackageTypeRequest) error {
	req.Type = strings.TrimSpace(req.Type)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	if req.Price.IsNegative() {
		return invalid(ErrInvalidInput, "price must not be negative")
	}
	return nil
}
