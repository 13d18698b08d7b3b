package ports

import (
	"context"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
)

// OccupancyRepository persists the nightly occupancy history the learners
// train on. Reads are paginated; callers keep fetching until a short page.
type OccupancyRepository interface {
	SaveBatch(ctx context.Context, records []domain.OccupancyRecord) error
	FindPage(ctx context.Context, hotelID string, limit, offset int) ([]domain.OccupancyRecord, error)
	CountByHotel(ctx context.Context, hotelID string) (int64, error)
}

// RoomKindRepository persists the room catalog.
type RoomKindRepository interface {
	SaveAll(ctx context.Context, kinds []domain.RoomKind) error
	FindAll(ctx context.Context) ([]domain.RoomKind, error)
}

// PayloadRepository persists precomputed recommendation payloads, one row
// per hotel.
type PayloadRepository interface {
	Save(ctx context.Context, payload *domain.StoredPayload) error
	FindByKey(ctx context.Context, key string) (*domain.StoredPayload, error)
}

// DecisionRepository persists the operator decision log.
type DecisionRepository interface {
	Save(ctx context.Context, decision *domain.Decision) error
	FindAll(ctx context.Context) ([]domain.Decision, error)
	FindByRecommendationID(ctx context.Context, recommendationID string) ([]domain.Decision, error)
}

// Cache is a key-value store with TTL semantics. Both the Redis and the
// in-process adapter implement it; services treat it as a performance layer
// and never depend on its contents for correctness.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
