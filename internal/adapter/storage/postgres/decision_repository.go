package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

type DecisionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDecisionRepository(db *gorm.DB, log *zap.Logger) ports.DecisionRepository {
	return &DecisionRepository{
		db:  db,
		log: log,
	}
}

func (r *DecisionRepository) Save(ctx context.Context, decision *domain.Decision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}

func (r *DecisionRepository) FindAll(ctx context.Context) ([]domain.Decision, error) {
	var decisions []domain.Decision
	err := r.db.WithContext(ctx).Order("decided_at desc").Find(&decisions).Error
	return decisions, err
}

func (r *DecisionRepository) FindByRecommendationID(ctx context.Context, recommendationID string) ([]domain.Decision, error) {
	var decisions []domain.Decision
	err := r.db.WithContext(ctx).
		Where("recommendation_id = ?", recommendationID).
		Order("decided_at desc").
		Find(&decisions).Error
	return decisions, err
}
