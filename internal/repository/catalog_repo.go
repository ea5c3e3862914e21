package repository

import (
	"context"

	"brewops/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	FindProductByID(ctx context.Context, id uint) (*model.Product, error)
	FindProductByName(ctx context.Context, name string) (*model.Product, error)
	FindAllProducts(ctx context.Context) ([]model.Product, error)

	CreatePackageType(ctx context.Context, pkg *model.PackageType) error
	UpdatePackageType(ctx context.Context, pkg *model.PackageType) error
	FindPackageTypeByID(ctx context.Context, id uint) (*model.PackageType, error)
	// FindPackageType looks up a package by product name and package descriptor,
	// case-insensitively.
	FindPackageType(ctx context.Context, productName, packageType string) (*model.PackageType, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *catalogRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("PackageTypes").Save(product).Error
}

func (r *catalogRepo) FindProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("PackageTypes").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepo) FindProductByName(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepo) FindAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("PackageTypes", func(db *gorm.DB) *gorm.DB { return db.Order("type ASC") }).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *catalogRepo) CreatePackageType(ctx context.Context, pkg *model.PackageType) error {
	return r.db.WithContext(ctx).Omit("Product").Create(pkg).Error
}

func (r *catalogRepo) UpdatePackageType(ctx context.Context, pkg *model.PackageType) error {
	return r.db.WithContext(ctx).Omit("Product").Save(pkg).Error
}

func (r *catalogRepo) FindPackageTypeByID(ctx context.Context, id uint) (*model.PackageType, error) {
	var pkg model.PackageType
	if err := r.db.WithContext(ctx).Preload("Product").First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *catalogRepo) FindPackageType(ctx context.Context, productName, packageType string) (*model.PackageType, error) {
	var pkg model.PackageType
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN products ON products.id = package_types.product_id").
		Where("LOWER(products.name) = LOWER(?) AND LOWER(package_types.type) = LOWER(?)", productName, packageType).
		First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
