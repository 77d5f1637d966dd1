package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cropsight/backend/internal/domain"
)

func TestRealTimeQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("no history yields a zeroed quote with a timestamp", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		svc := NewRealTimeService(prices, time.Hour)

		got := svc.Quote(ctx, "Apples")
		if got.CurrentPrice != 0 || got.NextHourPrediction != 0 {
			t.Errorf("got %+v, want zero prices", got)
		}
		if _, err := time.Parse("15:04:05", got.UpdateTime); err != nil {
			t.Errorf("update time %q not in HH:MM:SS form: %v", got.UpdateTime, err)
		}
		if prices.appendCalls != 0 {
			t.Errorf("append calls = %d, want 0 without history", prices.appendCalls)
		}
	})

	t.Run("quote perturbs the latest price within tolerance", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		prices.records = append(prices.records, domain.PriceRecord{
			ProductID: 1,
			Timestamp: time.Now().UTC().Add(-2 * time.Hour),
			Price:     2.80,
		})
		svc := NewRealTimeService(prices, time.Hour)

		got := svc.Quote(ctx, "Apples")
		// time factor is at most ±0.002 and noise is a few sigma of 0.001
		if got.CurrentPrice < 2.80*0.98 || got.CurrentPrice > 2.80*1.02 {
			t.Errorf("current price %v strayed too far from 2.80", got.CurrentPrice)
		}
		if got.NextHourPrediction == 0 {
			t.Errorf("next-hour prediction = 0, want a price near current")
		}
	})

	t.Run("repeated quotes persist at most once per interval", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		prices.records = append(prices.records, domain.PriceRecord{
			ProductID: 1,
			Timestamp: time.Now().UTC().Add(-2 * time.Hour),
			Price:     2.80,
		})
		svc := NewRealTimeService(prices, time.Hour)

		for i := 0; i < 5; i++ {
			svc.Quote(ctx, "Apples")
		}
		if prices.appendCalls != 1 {
			t.Errorf("append calls = %d, want exactly 1 inside the throttle window", prices.appendCalls)
		}
	})

	t.Run("throttle is keyed per product", func(t *testing.T) {
		apples := newFakePriceRepository("Apples")
		apples.records = append(apples.records, domain.PriceRecord{
			ProductID: 1,
			Timestamp: time.Now().UTC().Add(-2 * time.Hour),
			Price:     2.80,
		})
		svc := NewRealTimeService(apples, time.Hour)

		svc.Quote(ctx, "Apples")
		// a second product gets its own limiter even though its lookup fails
		svc.Quote(ctx, "Oranges")
		svc.Quote(ctx, "Apples")

		if apples.appendCalls != 1 {
			t.Errorf("append calls = %d, want 1", apples.appendCalls)
		}
		if len(svc.limiters) != 1 {
			// the Oranges quote bails before reaching its limiter
			t.Errorf("limiter count = %d, want 1", len(svc.limiters))
		}
	})

	t.Run("throttled quotes still return a live price", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		prices.records = append(prices.records, domain.PriceRecord{
			ProductID: 1,
			Timestamp: time.Now().UTC().Add(-2 * time.Hour),
			Price:     2.80,
		})
		svc := NewRealTimeService(prices, time.Hour)
		svc.Quote(ctx, "Apples") // consume the limiter token

		got := svc.Quote(ctx, "Apples")
		if got.CurrentPrice == 0 {
			t.Errorf("current price = 0, want a live price")
		}
	})

	t.Run("concurrent quotes share one limiter safely", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		svc := NewRealTimeService(prices, time.Hour)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				svc.limiter("Apples")
			}()
		}
		wg.Wait()
		if len(svc.limiters) != 1 {
			t.Errorf("limiter count = %d, want 1", len(svc.limiters))
		}
	})
}

func TestRealTimeNextHour(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("fewer than two trailing records returns current", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		prices.records = append(prices.records, domain.PriceRecord{
			ProductID: 1, Timestamp: now.Add(-time.Hour), Price: 2.80,
		})
		svc := NewRealTimeService(prices, time.Hour)

		if got := svc.nextHour(ctx, "Apples", 2.80, now); got != 2.80 {
			t.Errorf("nextHour = %v, want 2.80", got)
		}
	})

	t.Run("extrapolates the mean delta of the trailing day", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		for i, p := range []float64{2.00, 2.10, 2.20} {
			prices.records = append(prices.records, domain.PriceRecord{
				ProductID: 1,
				Timestamp: now.Add(time.Duration(i-3) * time.Hour),
				Price:     p,
			})
		}
		svc := NewRealTimeService(prices, time.Hour)

		// mean delta 0.10, so 2.20 * 1.10 = 2.42
		if got := svc.nextHour(ctx, "Apples", 2.20, now); got != 2.42 {
			t.Errorf("nextHour = %v, want 2.42", got)
		}
	})

	t.Run("records older than a day are excluded", func(t *testing.T) {
		prices := newFakePriceRepository("Apples")
		prices.records = append(prices.records,
			domain.PriceRecord{ProductID: 1, Timestamp: now.AddDate(0, 0, -3), Price: 9.99},
			domain.PriceRecord{ProductID: 1, Timestamp: now.Add(-time.Hour), Price: 2.80},
		)
		svc := NewRealTimeService(prices, time.Hour)

		if got := svc.nextHour(ctx, "Apples", 2.80, now); got != 2.80 {
			t.Errorf("nextHour = %v, want 2.80 when only one trailing record remains", got)
		}
	})
}
