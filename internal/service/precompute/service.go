package precompute

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/recommendation"
)

// payloadMaxAge bounds how old a precomputed payload may get before serving
// falls back to a live computation.
const payloadMaxAge = 24 * time.Hour

// Service runs the recommendation engine, persists the result as a single
// payload row per hotel, and serves the stored payload when fresh.
type Service struct {
	history   ports.HistoryService
	rooms     ports.RoomService
	decisions ports.DecisionRepository
	payloads  ports.PayloadRepository
	calendar  *holiday.Calendar
	events    queue.MessageQueue
	email     ports.EmailService
	log       *zap.Logger
}

// NewService wires the precompute service. events and email may be nil in
// one-shot tools.
func NewService(
	history ports.HistoryService,
	rooms ports.RoomService,
	decisions ports.DecisionRepository,
	payloads ports.PayloadRepository,
	calendar *holiday.Calendar,
	events queue.MessageQueue,
	email ports.EmailService,
	log *zap.Logger,
) *Service {
	return &Service{
		history:   history,
		rooms:     rooms,
		decisions: decisions,
		payloads:  payloads,
		calendar:  calendar,
		events:    events,
		email:     email,
		log:       log,
	}
}

// Payload returns the stored payload when fresh, computing live otherwise.
func (s *Service) Payload(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	stored, err := s.payloads.FindByKey(ctx, domain.PayloadKey(hotelID))
	if err != nil {
		s.log.Warn("stored payload read failed, computing live", zap.Error(err))
	} else if stored != nil && time.Since(stored.ComputedAt) < payloadMaxAge {
		var payload domain.RecommendationPayload
		if err := json.Unmarshal(stored.Payload, &payload); err == nil {
			return &payload, nil
		}
		s.log.Warn("stored payload undecodable, computing live",
			zap.String("key", stored.Key), zap.Error(err))
	}
	return s.Compute(ctx, hotelID)
}

// Compute runs the engine against the live availability snapshot.
func (s *Service) Compute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	snapshot, err := s.rooms.Availability(ctx, recommendation.Horizon)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}
	history, err := s.history.Load(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.rooms.CatalogMap(ctx)
	if err != nil {
		return nil, err
	}
	decisions, err := s.decisions.FindAll(ctx)
	if err != nil {
		s.log.Warn("decision log unavailable, generating without feedback", zap.Error(err))
		decisions = nil
	}

	generator := recommendation.NewGenerator(catalog, s.calendar, s.log)
	payload := generator.Generate(snapshot, history, decisions, time.Now().UTC())

	for _, rec := range payload.Recommendations {
		telemetry.RecommendationsComputed.WithLabelValues(string(rec.Type)).Inc()
	}
	return payload, nil
}

// Precompute computes, persists and announces a fresh payload.
func (s *Service) Precompute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	start := time.Now()
	payload, err := s.Compute(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	stored := &domain.StoredPayload{
		Key:        domain.PayloadKey(hotelID),
		Payload:    data,
		ComputedAt: payload.ComputedAt,
	}
	if err := s.payloads.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("persisting payload: %w", err)
	}

	telemetry.PrecomputeDuration.Observe(time.Since(start).Seconds())
	s.log.Info("recommendations precomputed",
		zap.String("hotel_id", hotelID),
		zap.Int("count", payload.Count),
		zap.Int("daily_count", payload.DailyCount),
		zap.Duration("took", time.Since(start)))

	s.publishComputed(hotelID, payload)
	s.sendDigest(ctx, payload)
	return payload, nil
}

type computedEvent struct {
	HotelID    string    `json:"hotel_id"`
	Count      int       `json:"count"`
	DailyCount int       `json:"daily_count"`
	ComputedAt time.Time `json:"computed_at"`
}

func (s *Service) publishComputed(hotelID string, payload *domain.RecommendationPayload) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(computedEvent{
		HotelID:    hotelID,
		Count:      payload.Count,
		DailyCount: payload.DailyCount,
		ComputedAt: payload.ComputedAt,
	})
	if err != nil {
		return
	}
	if err := s.events.Publish(queue.SubjectRecommendationsComputed, data); err != nil {
		s.log.Debug("computed event publish failed", zap.Error(err))
	}
}

func (s *Service) sendDigest(ctx context.Context, payload *domain.RecommendationPayload) {
	if s.email == nil {
		return
	}
	if err := s.email.SendDigest(ctx, payload); err != nil {
		s.log.Warn("digest email failed", zap.Error(err))
	}
}
