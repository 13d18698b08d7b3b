package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/prediction"
)

// Service computes the dashboard analytics from the stored history and the
// live availability snapshot.
type Service struct {
	history    ports.HistoryService
	rooms      ports.RoomService
	calendar   *holiday.Calendar
	forecaster *prediction.Forecaster
	log        *zap.Logger
}

// NewService wires the analytics service.
func NewService(history ports.HistoryService, rooms ports.RoomService, calendar *holiday.Calendar, forecaster *prediction.Forecaster, log *zap.Logger) *Service {
	return &Service{
		history:    history,
		rooms:      rooms,
		calendar:   calendar,
		forecaster: forecaster,
		log:        log,
	}
}

// Predictions forecasts occupancy over the coming days.
func (s *Service) Predictions(ctx context.Context, hotelID string, daysAhead int) ([]domain.OccupancyForecast, error) {
	snapshot, err := s.rooms.Availability(ctx, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}
	history, err := s.history.Load(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return s.forecaster.Forecast(snapshot, history, time.Now().UTC(), daysAhead), nil
}

// Statistics summarizes the learned history.
func (s *Service) Statistics(ctx context.Context, hotelID string) (*ports.Statistics, error) {
	history, err := s.history.Load(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	catalog, err := s.rooms.CatalogMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return BuildStatistics(history, catalog, s.calendar, time.Now().UTC()), nil
}

// YearComparison contrasts this week with the same week last year.
func (s *Service) YearComparison(ctx context.Context, hotelID string) (*ports.YearComparison, error) {
	history, err := s.history.Load(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	catalog, err := s.rooms.CatalogMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return BuildYearComparison(history, catalog, s.calendar, time.Now().UTC()), nil
}
