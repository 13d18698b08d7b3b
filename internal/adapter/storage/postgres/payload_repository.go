package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

type PayloadRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPayloadRepository(db *gorm.DB, log *zap.Logger) ports.PayloadRepository {
	return &PayloadRepository{
		db:  db,
		log: log,
	}
}

// Save overwrites the hotel's stored payload; the key is the primary key so
// each hotel keeps exactly one row.
func (r *PayloadRepository) Save(ctx context.Context, payload *domain.StoredPayload) error {
	return r.db.WithContext(ctx).Save(payload).Error
}

func (r *PayloadRepository) FindByKey(ctx context.Context, key string) (*domain.StoredPayload, error) {
	var payload domain.StoredPayload
	err := r.db.WithContext(ctx).First(&payload, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payload, nil
}
