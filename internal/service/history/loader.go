package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

const (
	// pageSize is how many records one repository round trip returns.
	pageSize = 1000

	// cacheTTL bounds how stale a cached history may get. The cache is a
	// performance layer only; a cold cache gives identical results.
	cacheTTL = 5 * time.Minute
)

// Loader fetches a hotel's full occupancy history page by page, fronted by a
// TTL cache.
type Loader struct {
	repo  ports.OccupancyRepository
	cache ports.Cache
	log   *zap.Logger
}

// NewLoader wires the history loader.
func NewLoader(repo ports.OccupancyRepository, cache ports.Cache, log *zap.Logger) *Loader {
	return &Loader{repo: repo, cache: cache, log: log}
}

func cacheKey(hotelID string) string {
	return "history:" + hotelID
}

// Load returns the hotel's history, from cache when fresh. A page failure
// after partial progress returns the partial history with a warning; only a
// failure on the first page is an error.
func (l *Loader) Load(ctx context.Context, hotelID string) ([]domain.OccupancyRecord, error) {
	key := cacheKey(hotelID)
	if cached, err := l.cache.Get(ctx, key); err == nil && cached != "" {
		var records []domain.OccupancyRecord
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			telemetry.CacheHits.Inc()
			return records, nil
		}
		l.log.Warn("discarding undecodable history cache entry", zap.String("hotel_id", hotelID), zap.Error(err))
	}
	telemetry.CacheMisses.Inc()

	var records []domain.OccupancyRecord
	offset := 0
	for {
		start := time.Now()
		page, err := l.repo.FindPage(ctx, hotelID, pageSize, offset)
		telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			if len(records) > 0 {
				l.log.Warn("history pagination failed mid-stream, continuing with partial history",
					zap.String("hotel_id", hotelID),
					zap.Int("loaded", len(records)),
					zap.Error(err))
				break
			}
			return nil, fmt.Errorf("loading occupancy history: %w", err)
		}

		records = append(records, page...)
		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}

	if data, err := json.Marshal(records); err == nil {
		if err := l.cache.Set(ctx, key, string(data), cacheTTL); err != nil {
			l.log.Debug("history cache write failed", zap.Error(err))
		}
	}

	l.log.Debug("history loaded", zap.String("hotel_id", hotelID), zap.Int("records", len(records)))
	return records, nil
}

// Invalidate drops the cached history for a hotel, forcing the next Load to
// hit the repository.
func (l *Loader) Invalidate(ctx context.Context, hotelID string) {
	if err := l.cache.Delete(ctx, cacheKey(hotelID)); err != nil {
		l.log.Debug("history cache invalidation failed", zap.String("hotel_id", hotelID), zap.Error(err))
	}
}
