package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cropsight/backend/internal/domain"
)

// PriceRepository is the GORM-backed implementation of domain.PriceRepository.
type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a price repository on top of db.
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Append writes one price record.
func (r *PriceRepository) Append(ctx context.Context, record *domain.PriceRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("append price record: %w", err)
	}
	return nil
}

// AppendBatch writes many price records in one statement. Used by the seeder.
func (r *PriceRepository) AppendBatch(ctx context.Context, records []domain.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(records, 200).Error; err != nil {
		return fmt.Errorf("append price batch: %w", err)
	}
	return nil
}

// CountForProduct returns how many price records exist for a product id.
func (r *PriceRepository) CountForProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PriceRecord{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count price records: %w", err)
	}
	return count, nil
}

// Latest returns the most recent price record for the named product.
func (r *PriceRepository) Latest(ctx context.Context, product string) (*domain.PriceRecord, error) {
	var record domain.PriceRecord
	err := r.byProduct(ctx, product).
		Order("price_records.timestamp DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoPriceHistory
	}
	if err != nil {
		return nil, fmt.Errorf("latest price for %q: %w", product, err)
	}
	return &record, nil
}

// Recent returns up to limit records for the named product, newest first.
func (r *PriceRepository) Recent(ctx context.Context, product string, limit int) ([]domain.PriceRecord, error) {
	var records []domain.PriceRecord
	err := r.byProduct(ctx, product).
		Order("price_records.timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recent prices for %q: %w", product, err)
	}
	return records, nil
}

// Since returns records with timestamp >= from, oldest first.
func (r *PriceRepository) Since(ctx context.Context, product string, from time.Time) ([]domain.PriceRecord, error) {
	var records []domain.PriceRecord
	err := r.byProduct(ctx, product).
		Where("price_records.timestamp >= ?", from).
		Order("price_records.timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("prices since %s for %q: %w", from.Format(time.DateOnly), product, err)
	}
	return records, nil
}

// Range returns records within [from, to], oldest first.
func (r *PriceRepository) Range(ctx context.Context, product string, from, to time.Time) ([]domain.PriceRecord, error) {
	var records []domain.PriceRecord
	err := r.byProduct(ctx, product).
		Where("price_records.timestamp >= ? AND price_records.timestamp <= ?", from, to).
		Order("price_records.timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("price range for %q: %w", product, err)
	}
	return records, nil
}

// byProduct scopes a price_records query to the named product.
func (r *PriceRepository) byProduct(ctx context.Context, product string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.PriceRecord{}).
		Joins("JOIN products ON products.id = price_records.product_id").
		Where("products.name = ?", product)
}
