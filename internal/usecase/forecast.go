package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cropsight/backend/internal/domain"
)

// Forecast horizon and history defaults, and the weekly seasonality period of
// the smoothing model.
const (
	DefaultHistoryDays = 90
	DefaultHorizonDays = 7
	seasonPeriod       = 7
)

// Exponential smoothing constants. Fixed rather than optimized; chosen to
// weight the level reasonably while keeping trend and season stable.
const (
	hwAlpha = 0.3
	hwBeta  = 0.1
	hwGamma = 0.2
)

// ForecastService predicts future prices by blending a calendar-feature
// linear regression with a seasonal exponential-smoothing model. The
// regression captures slow calendar-linked drift, the smoothing model
// short-cycle seasonality; averaging damps each model's extrapolation error.
type ForecastService struct {
	prices      domain.PriceRepository
	historyDays int
}

// NewForecastService creates a forecast engine. A historyDays of 0 uses the
// default 90-day window.
func NewForecastService(prices domain.PriceRepository, historyDays int) *ForecastService {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &ForecastService{prices: prices, historyDays: historyDays}
}

// Forecast predicts the next horizon daily prices for a product. On empty
// history or a failed model fit it returns an empty forecast with zero
// confidence and a "stable" trend, never an error.
func (s *ForecastService) Forecast(ctx context.Context, product string, horizon int) domain.ForecastResult {
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	empty := domain.ForecastResult{Forecast: []domain.PricePoint{}, Confidence: 0.0, Trend: "stable"}

	from := time.Now().AddDate(0, 0, -s.historyDays)
	records, err := s.prices.Since(ctx, product, from)
	if err != nil {
		log.Printf("[forecast] history query failed for %s: %v", product, err)
		return empty
	}
	if len(records) == 0 {
		return empty
	}

	prices := make([]float64, len(records))
	for i, rec := range records {
		prices[i] = rec.Price
	}

	lm, err := fitLinearTrend(records)
	if err != nil {
		log.Printf("[forecast] regression fit failed for %s: %v", product, err)
		return empty
	}

	hw, err := fitHoltWinters(prices, seasonPeriod)
	if err != nil {
		log.Printf("[forecast] smoothing fit failed for %s: %v", product, err)
		return empty
	}
	smoothed := hw.forecast(horizon)

	lastDate := records[len(records)-1].Timestamp
	points := make([]domain.PricePoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		date := lastDate.AddDate(0, 0, i+1)
		linear := lm.predict(date, len(records)+i)
		blended := (linear + smoothed[i]) / 2
		points = append(points, domain.PricePoint{
			Date:  date.Format(time.DateOnly),
			Price: round2(blended),
		})
	}

	return domain.ForecastResult{
		Forecast:   points,
		Confidence: round2(lm.r2),
		Trend:      trendLabel(prices),
	}
}

// trendLabel summarizes the mean day-over-day delta of the trailing seven
// observations as up, down or stable around a ±0.01 band.
func trendLabel(prices []float64) string {
	tail := prices
	if len(tail) > 7 {
		tail = tail[len(tail)-7:]
	}
	if len(tail) < 2 {
		return "stable"
	}

	sum := 0.0
	for i := 1; i < len(tail); i++ {
		sum += tail[i] - tail[i-1]
	}
	mean := sum / float64(len(tail)-1)

	switch {
	case mean > 0.01:
		return "up"
	case mean < -0.01:
		return "down"
	default:
		return "stable"
	}
}

// linearModel is an ordinary least-squares fit of price on an intercept,
// day-of-week, month and a monotonically increasing trend index.
type linearModel struct {
	coeffs [4]float64 // intercept, day-of-week, month, trend
	r2     float64
}

func fitLinearTrend(records []domain.PriceRecord) (*linearModel, error) {
	n := len(records)
	if n < 4 {
		return nil, domain.ErrInsufficientData
	}

	X := mat.NewDense(n, 4, nil)
	y := mat.NewVecDense(n, nil)
	prices := make([]float64, n)
	for i, rec := range records {
		X.Set(i, 0, 1)
		X.Set(i, 1, float64(weekdayIndex(rec.Timestamp)))
		X.Set(i, 2, float64(rec.Timestamp.Month()))
		X.Set(i, 3, float64(i))
		y.SetVec(i, rec.Price)
		prices[i] = rec.Price
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	model := &linearModel{}
	for i := 0; i < 4; i++ {
		model.coeffs[i] = beta.AtVec(i)
	}

	// coefficient of determination on the training window; may be negative
	// for degenerate fits and is reported as-is
	mean := stat.Mean(prices, nil)
	var ssRes, ssTot float64
	for i, rec := range records {
		pred := model.predict(rec.Timestamp, i)
		ssRes += (rec.Price - pred) * (rec.Price - pred)
		ssTot += (rec.Price - mean) * (rec.Price - mean)
	}
	if ssTot > 0 {
		model.r2 = 1 - ssRes/ssTot
	}
	return model, nil
}

// predict evaluates the fit at a date with the given trend index.
func (m *linearModel) predict(date time.Time, trendIndex int) float64 {
	return m.coeffs[0] +
		m.coeffs[1]*float64(weekdayIndex(date)) +
		m.coeffs[2]*float64(date.Month()) +
		m.coeffs[3]*float64(trendIndex)
}

// weekdayIndex numbers days Monday=0 through Sunday=6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// holtWinters is an additive-trend, additive-seasonal exponential smoothing
// model fitted over a raw price sequence.
type holtWinters struct {
	level    float64
	trend    float64
	seasonal []float64
	n        int
}

func fitHoltWinters(series []float64, period int) (*holtWinters, error) {
	if len(series) < 2*period {
		return nil, domain.ErrInsufficientData
	}

	// initialize level and trend from the first two seasons, the seasonal
	// components from deviations within the first
	var first, second float64
	for i := 0; i < period; i++ {
		first += series[i]
		second += series[period+i]
	}
	first /= float64(period)
	second /= float64(period)

	m := &holtWinters{
		level:    first,
		trend:    (second - first) / float64(period),
		seasonal: make([]float64, period),
		n:        len(series),
	}
	for i := 0; i < period; i++ {
		m.seasonal[i] = series[i] - first
	}

	for t := period; t < len(series); t++ {
		idx := t % period
		prevLevel := m.level
		m.level = hwAlpha*(series[t]-m.seasonal[idx]) + (1-hwAlpha)*(m.level+m.trend)
		m.trend = hwBeta*(m.level-prevLevel) + (1-hwBeta)*m.trend
		m.seasonal[idx] = hwGamma*(series[t]-m.level) + (1-hwGamma)*m.seasonal[idx]
	}
	return m, nil
}

// forecast extrapolates h steps past the fitted series.
func (m *holtWinters) forecast(h int) []float64 {
	out := make([]float64, h)
	period := len(m.seasonal)
	for i := 0; i < h; i++ {
		out[i] = m.level + float64(i+1)*m.trend + m.seasonal[(m.n+i)%period]
	}
	return out
}
