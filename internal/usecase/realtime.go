package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cropsight/backend/internal/domain"
)

// DefaultUpdateInterval is the minimum elapsed time between persisted
// real-time price updates for a given product.
const DefaultUpdateInterval = 300 * time.Second

// RealTimeService simulates live price movement. Each quote perturbs the
// latest stored price with a time-of-day oscillation and a small noise term;
// a per-product limiter throttles how often the perturbed price is written
// back to the store. The limiter map is owned by the service and guarded by
// a mutex, so concurrent quotes for the same product stay correct.
type RealTimeService struct {
	prices   domain.PriceRepository
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRealTimeService creates a simulator. An interval of 0 uses the default
// 300-second throttle.
func NewRealTimeService(prices domain.PriceRepository, interval time.Duration) *RealTimeService {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &RealTimeService{
		prices:   prices,
		interval: interval,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Quote returns the simulated live price and a short-term projection. The
// returned price changes call to call, but at most one record per throttle
// interval is persisted per product. A product without history yields a
// zeroed quote, never an error.
func (s *RealTimeService) Quote(ctx context.Context, product string) domain.RealTimeQuote {
	now := s.now()
	quote := domain.RealTimeQuote{UpdateTime: now.Format("15:04:05")}

	latest, err := s.prices.Latest(ctx, product)
	if err != nil {
		if !errors.Is(err, domain.ErrNoPriceHistory) {
			log.Printf("[realtime] latest price lookup failed for %s: %v", product, err)
		}
		return quote
	}

	timeFactor := math.Sin(float64(now.Hour())/24*2*math.Pi) * 0.002
	randomFactor := rand.NormFloat64() * 0.001
	newPrice := round2(latest.Price * (1 + timeFactor + randomFactor))

	if s.limiter(product).Allow() {
		record := &domain.PriceRecord{
			ProductID: latest.ProductID,
			Timestamp: now.UTC(),
			Price:     newPrice,
		}
		if err := s.prices.Append(ctx, record); err != nil {
			log.Printf("[realtime] failed to persist update for %s: %v", product, err)
		}
	}

	quote.CurrentPrice = newPrice
	quote.NextHourPrediction = s.nextHour(ctx, product, newPrice, now)
	return quote
}

// nextHour extrapolates one step from the mean day-over-day delta of the last
// twelve records within the trailing day. With insufficient history the
// current price is returned unchanged.
func (s *RealTimeService) nextHour(ctx context.Context, product string, current float64, now time.Time) float64 {
	records, err := s.prices.Since(ctx, product, now.AddDate(0, 0, -1))
	if err != nil {
		log.Printf("[realtime] trailing-day query failed for %s: %v", product, err)
		return current
	}
	if len(records) > 12 {
		records = records[len(records)-12:]
	}
	if len(records) < 2 {
		return current
	}

	sum := 0.0
	for i := 1; i < len(records); i++ {
		sum += records[i].Price - records[i-1].Price
	}
	meanDelta := sum / float64(len(records)-1)
	return round2(current * (1 + meanDelta))
}

// limiter returns the throttle for a product, creating it on first use. Each
// limiter allows one persisted update per interval, starting immediately.
func (s *RealTimeService) limiter(product string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[product]
	if !ok {
		l = rate.NewLimiter(rate.Every(s.interval), 1)
		s.limiters[product] = l
	}
	return l
}
