package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

const insertBatchSize = 500

type OccupancyRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOccupancyRepository(db *gorm.DB, log *zap.Logger) ports.OccupancyRepository {
	return &OccupancyRepository{
		db:  db,
		log: log,
	}
}

// SaveBatch upserts records on the (hotel, room kind, date) key so re-imports
// of overlapping periods refresh the occupied flag instead of failing.
func (r *OccupancyRepository) SaveBatch(ctx context.Context, records []domain.OccupancyRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "hotel_id"},
			{Name: "room_kind_id"},
			{Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"occupied", "year", "weekday"}),
	}).CreateInBatches(records, insertBatchSize).Error
}

func (r *OccupancyRepository) FindPage(ctx context.Context, hotelID string, limit, offset int) ([]domain.OccupancyRecord, error) {
	started := time.Now()

	var records []domain.OccupancyRecord
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("date asc, room_kind_id asc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error

	telemetry.DatabaseLatency.Observe(time.Since(started).Seconds())
	return records, err
}

func (r *OccupancyRepository) CountByHotel(ctx context.Context, hotelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.OccupancyRecord{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}
