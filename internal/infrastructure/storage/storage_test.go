package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cropsight/backend/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"products", "analyses", "price_records"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewProductRepository(db)

	t.Run("find or create inserts once", func(t *testing.T) {
		first, err := repo.FindOrCreate(ctx, "Wheat")
		require.NoError(t, err)
		assert.NotZero(t, first.ID)
		assert.Equal(t, "Wheat", first.Name)

		second, err := repo.FindOrCreate(ctx, "Wheat")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("find by name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Wheat")
		require.NoError(t, err)
		assert.Equal(t, "Wheat", found.Name)
	})

	t.Run("missing product maps to domain error", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "Durian")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestAnalysisRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	product, err := NewProductRepository(db).FindOrCreate(ctx, "Tomatoes")
	require.NoError(t, err)

	repo := NewAnalysisRepository(db)
	analysis := &domain.Analysis{
		ProductID:  product.ID,
		Timestamp:  time.Now().UTC(),
		Quality:    "Excellent",
		Disease:    "Healthy",
		Confidence: 0.95,
		ImagePath:  "uploads/tomato.jpg",
	}
	require.NoError(t, repo.Save(ctx, analysis))
	assert.NotZero(t, analysis.ID)

	var saved domain.Analysis
	require.NoError(t, db.First(&saved, analysis.ID).Error)
	assert.Equal(t, "Excellent", saved.Quality)
	assert.Equal(t, product.ID, saved.ProductID)
}

func TestPriceRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	products := NewProductRepository(db)
	rice, err := products.FindOrCreate(ctx, "Rice")
	require.NoError(t, err)
	corn, err := products.FindOrCreate(ctx, "Corn")
	require.NoError(t, err)

	repo := NewPriceRepository(db)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	var batch []domain.PriceRecord
	for i := 0; i < 10; i++ {
		batch = append(batch, domain.PriceRecord{
			ProductID: rice.ID,
			Timestamp: base.AddDate(0, 0, i),
			Price:     2.50 + 0.01*float64(i),
		})
	}
	require.NoError(t, repo.AppendBatch(ctx, batch))
	require.NoError(t, repo.Append(ctx, &domain.PriceRecord{
		ProductID: corn.ID,
		Timestamp: base,
		Price:     1.50,
	}))

	t.Run("count is scoped to the product", func(t *testing.T) {
		count, err := repo.CountForProduct(ctx, rice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), count)

		count, err = repo.CountForProduct(ctx, corn.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("latest returns the newest record", func(t *testing.T) {
		latest, err := repo.Latest(ctx, "Rice")
		require.NoError(t, err)
		assert.Equal(t, 2.59, latest.Price)
	})

	t.Run("latest without history maps to domain error", func(t *testing.T) {
		_, err := repo.Latest(ctx, "Apples")
		assert.ErrorIs(t, err, domain.ErrNoPriceHistory)
	})

	t.Run("recent is newest first and capped", func(t *testing.T) {
		records, err := repo.Recent(ctx, "Rice", 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 2.59, records[0].Price)
		assert.Equal(t, 2.58, records[1].Price)
		assert.Equal(t, 2.57, records[2].Price)
	})

	t.Run("since is ascending and inclusive", func(t *testing.T) {
		records, err := repo.Since(ctx, "Rice", base.AddDate(0, 0, 7))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 2.57, records[0].Price)
		assert.Equal(t, 2.59, records[2].Price)
	})

	t.Run("range bounds are inclusive on both ends", func(t *testing.T) {
		records, err := repo.Range(ctx, "Rice", base.AddDate(0, 0, 2), base.AddDate(0, 0, 4))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 2.52, records[0].Price)
		assert.Equal(t, 2.54, records[2].Price)
	})

	t.Run("queries never leak across products", func(t *testing.T) {
		records, err := repo.Since(ctx, "Corn", base.AddDate(0, 0, -1))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 1.50, records[0].Price)
	})
}
