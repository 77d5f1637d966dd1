package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cropsight/backend/internal/domain"
)

// DefaultStatisticsWindow is how many recent records feed the statistics.
const DefaultStatisticsWindow = 30

// StatisticsService computes rolling price statistics over the most recent
// window of a product's history.
type StatisticsService struct {
	prices domain.PriceRepository
	window int
}

// NewStatisticsService creates a statistics engine. A window of 0 uses the
// default of 30 records.
func NewStatisticsService(prices domain.PriceRepository, window int) *StatisticsService {
	if window <= 0 {
		window = DefaultStatisticsWindow
	}
	return &StatisticsService{prices: prices, window: window}
}

// Statistics returns the current, average, min and max price plus the
// day-over-day percent change. Every value is 0.0 when the product has no
// history; failures degrade the same way and are logged, never propagated.
func (s *StatisticsService) Statistics(ctx context.Context, product string) domain.PriceStatistics {
	records, err := s.prices.Recent(ctx, product, s.window)
	if err != nil {
		log.Printf("[statistics] query failed for %s: %v", product, err)
		return domain.PriceStatistics{}
	}
	if len(records) == 0 {
		return domain.PriceStatistics{}
	}

	current := records[0].Price
	sum := 0.0
	min, max := records[0].Price, records[0].Price
	for _, rec := range records {
		sum += rec.Price
		if rec.Price < min {
			min = rec.Price
		}
		if rec.Price > max {
			max = rec.Price
		}
	}

	change := 0.0
	if len(records) > 1 {
		prev := records[1].Price
		change = (current - prev) / prev * 100
	}

	return domain.PriceStatistics{
		CurrentPrice: round2(current),
		AveragePrice: round2(sum / float64(len(records))),
		PriceChange:  round1(change),
		MinPrice:     round2(min),
		MaxPrice:     round2(max),
	}
}

// History returns the product's price series over the trailing number of
// days, oldest first. Missing history yields an empty slice, never an error.
func (s *StatisticsService) History(ctx context.Context, product string, days int) []domain.PricePoint {
	if days <= 0 {
		days = DefaultStatisticsWindow
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	records, err := s.prices.Range(ctx, product, start, end)
	if err != nil && !errors.Is(err, domain.ErrNoPriceHistory) {
		log.Printf("[statistics] history query failed for %s: %v", product, err)
	}

	points := make([]domain.PricePoint, 0, len(records))
	for _, rec := range records {
		points = append(points, domain.PricePoint{
			Date:  rec.Timestamp.Format(time.DateOnly),
			Price: rec.Price,
		})
	}
	return points
}
