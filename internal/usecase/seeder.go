package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/cropsight/backend/internal/domain"
)

// SeederConfig holds the synthetic history window.
type SeederConfig struct {
	Start time.Time // first seeded day
	Days  int       // number of daily records per product
}

// HistorySeeder bootstraps one year of synthetic daily prices per catalog
// product. Seeding is idempotent: a product that already has records is
// left untouched.
type HistorySeeder struct {
	products domain.ProductRepository
	prices   domain.PriceRepository
	start    time.Time
	days     int
}

// NewHistorySeeder creates a seeder with its persistence dependencies.
func NewHistorySeeder(products domain.ProductRepository, prices domain.PriceRepository, cfg SeederConfig) *HistorySeeder {
	days := cfg.Days
	if days <= 0 {
		days = 365
	}
	start := cfg.Start
	if start.IsZero() {
		// trailing window ending today, so statistics and forecasts see
		// recent records
		today := time.Now().UTC().Truncate(24 * time.Hour)
		start = today.AddDate(0, 0, -(days - 1))
	}
	return &HistorySeeder{products: products, prices: prices, start: start, days: days}
}

// EnsureAll seeds every catalog product that has no history yet.
func (s *HistorySeeder) EnsureAll(ctx context.Context) error {
	for _, name := range domain.CatalogNames {
		if err := s.EnsureHistory(ctx, name); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

// EnsureHistory seeds the named product if it has no price records. Calling
// it again after seeding is a no-op.
func (s *HistorySeeder) EnsureHistory(ctx context.Context, name string) error {
	cfg, ok := domain.Catalog[name]
	if !ok {
		return domain.ErrUnknownProduct
	}

	product, err := s.products.FindOrCreate(ctx, name)
	if err != nil {
		return err
	}

	count, err := s.prices.CountForProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	records := GenerateHistory(product.ID, name, cfg, s.start, s.days)
	if err := s.prices.AppendBatch(ctx, records); err != nil {
		return err
	}
	log.Printf("[seeder] seeded %d price records for %s", len(records), name)
	return nil
}

// GenerateHistory produces the synthetic daily series for one product:
// price = base * (1 + seasonal + trend + noise), where the seasonal term is a
// yearly sine shifted by the product's phase, the trend a mild secular drift,
// and the noise normal with sigma volatility/3. Every price is clamped to
// [0.7*base, 1.5*base]. The noise stream is seeded from the product name, so
// regenerating for the same product yields the same series.
func GenerateHistory(productID uint, name string, cfg domain.ProductConfig, start time.Time, days int) []domain.PriceRecord {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	records := make([]domain.PriceRecord, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		dayOfYear := float64(date.YearDay())

		seasonal := 0.15 * math.Sin(2*math.Pi*(dayOfYear+float64(cfg.SeasonalShift))/365)
		trend := 0.05 * float64(i) / 365
		noise := rng.NormFloat64() * cfg.Volatility / 3

		price := cfg.BasePrice * (1 + seasonal + trend + noise)
		price = math.Max(cfg.BasePrice*0.7, math.Min(cfg.BasePrice*1.5, price))

		records = append(records, domain.PriceRecord{
			ProductID: productID,
			Timestamp: date,
			Price:     round2(price),
		})
	}
	return records
}
