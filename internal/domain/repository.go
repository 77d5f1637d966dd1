package domain

import (
	"context"
	"time"
)

// ProductRepository persists catalog products.
type ProductRepository interface {
	// FindOrCreate returns the product row for name, creating it if absent.
	FindOrCreate(ctx context.Context, name string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
}

// AnalysisRepository persists classification events.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis *Analysis) error
}

// PriceRepository persists and queries the per-product price series.
// Query results ordered "ascending" go oldest first; Recent goes newest first.
type PriceRepository interface {
	Append(ctx context.Context, record *PriceRecord) error
	AppendBatch(ctx context.Context, records []PriceRecord) error
	CountForProduct(ctx context.Context, productID uint) (int64, error)

	// Latest returns the most recent record, or ErrNoPriceHistory.
	Latest(ctx context.Context, product string) (*PriceRecord, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, product string, limit int) ([]PriceRecord, error)

	// Since returns records with timestamp >= from, ascending.
	Since(ctx context.Context, product string, from time.Time) ([]PriceRecord, error)

	// Range returns records with from <= timestamp <= to, ascending.
	Range(ctx context.Context, product string, from, to time.Time) ([]PriceRecord, error)
}
