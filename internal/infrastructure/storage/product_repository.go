package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cropsight/backend/internal/domain"
)

// ProductRepository is the GORM-backed implementation of domain.ProductRepository.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository on top of db.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindOrCreate returns the product row for name, creating it if absent.
func (r *ProductRepository) FindOrCreate(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where(domain.Product{Name: name}).
		FirstOrCreate(&product).Error
	if err != nil {
		return nil, fmt.Errorf("find or create product %q: %w", name, err)
	}
	return &product, nil
}

// FindByName returns the product row for name, or domain.ErrProductNotFound.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %q: %w", name, err)
	}
	return &product, nil
}
