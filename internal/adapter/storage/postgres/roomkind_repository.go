package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

type RoomKindRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRoomKindRepository(db *gorm.DB, log *zap.Logger) ports.RoomKindRepository {
	return &RoomKindRepository{
		db:  db,
		log: log,
	}
}

// SaveAll upserts the catalog by room kind ID.
func (r *RoomKindRepository) SaveAll(ctx context.Context, kinds []domain.RoomKind) error {
	if len(kinds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(kinds).Error
}

func (r *RoomKindRepository) FindAll(ctx context.Context) ([]domain.RoomKind, error) {
	var kinds []domain.RoomKind
	err := r.db.WithContext(ctx).Order("id asc").Find(&kinds).Error
	return kinds, err
}
