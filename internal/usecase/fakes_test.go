package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/cropsight/backend/internal/domain"
)

// fakeProductRepository is an in-memory domain.ProductRepository.
type fakeProductRepository struct {
	products map[string]*domain.Product
	nextID   uint
	err      error
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[string]*domain.Product), nextID: 1}
}

func (f *fakeProductRepository) FindOrCreate(ctx context.Context, name string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[name]; ok {
		return p, nil
	}
	p := &domain.Product{ID: f.nextID, Name: name}
	f.nextID++
	f.products[name] = p
	return p, nil
}

func (f *fakeProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	if p, ok := f.products[name]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

// fakeAnalysisRepository records saved analyses.
type fakeAnalysisRepository struct {
	saved []domain.Analysis
	err   error
}

func (f *fakeAnalysisRepository) Save(ctx context.Context, analysis *domain.Analysis) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *analysis)
	return nil
}

// fakePriceRepository is an in-memory domain.PriceRepository keyed by product
// name; every stored record belongs to the single configured product.
type fakePriceRepository struct {
	product   string
	productID uint
	records   []domain.PriceRecord
	err       error

	appendCalls int
}

func newFakePriceRepository(product string) *fakePriceRepository {
	return &fakePriceRepository{product: product, productID: 1}
}

func (f *fakePriceRepository) sorted() []domain.PriceRecord {
	out := make([]domain.PriceRecord, len(f.records))
	copy(out, f.records)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (f *fakePriceRepository) Append(ctx context.Context, record *domain.PriceRecord) error {
	if f.err != nil {
		return f.err
	}
	f.appendCalls++
	f.records = append(f.records, *record)
	return nil
}

func (f *fakePriceRepository) AppendBatch(ctx context.Context, records []domain.PriceRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakePriceRepository) CountForProduct(ctx context.Context, productID uint) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.records)), nil
}

func (f *fakePriceRepository) Latest(ctx context.Context, product string) (*domain.PriceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if product != f.product || len(f.records) == 0 {
		return nil, domain.ErrNoPriceHistory
	}
	all := f.sorted()
	latest := all[len(all)-1]
	return &latest, nil
}

func (f *fakePriceRepository) Recent(ctx context.Context, product string, limit int) ([]domain.PriceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if product != f.product {
		return nil, nil
	}
	all := f.sorted()
	var out []domain.PriceRecord
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakePriceRepository) Since(ctx context.Context, product string, from time.Time) ([]domain.PriceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if product != f.product {
		return nil, nil
	}
	var out []domain.PriceRecord
	for _, rec := range f.sorted() {
		if !rec.Timestamp.Before(from) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakePriceRepository) Range(ctx context.Context, product string, from, to time.Time) ([]domain.PriceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if product != f.product {
		return nil, nil
	}
	var out []domain.PriceRecord
	for _, rec := range f.sorted() {
		if !rec.Timestamp.Before(from) && !rec.Timestamp.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}
