package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cropsight/backend/internal/domain"
)

// AnalysisRepository is the GORM-backed implementation of domain.AnalysisRepository.
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates an analysis repository on top of db.
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save appends one classification event. Analyses are write-once.
func (r *AnalysisRepository) Save(ctx context.Context, analysis *domain.Analysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}
