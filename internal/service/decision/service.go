package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

// Service records operator verdicts and applies approved ones to the channel
// manager.
type Service struct {
	repo   ports.DecisionRepository
	rates  ports.RateService
	events queue.MessageQueue
	log    *zap.Logger
}

// NewService wires the decision service. events may be nil.
func NewService(repo ports.DecisionRepository, rates ports.RateService, events queue.MessageQueue, log *zap.Logger) *Service {
	return &Service{repo: repo, rates: rates, events: events, log: log}
}

// Record persists a verdict and, on approved or modified, pushes the rate
// change. A failed save is reported in the result but does not block the
// push; the verdict itself must be valid.
func (s *Service) Record(ctx context.Context, recommendationID string, state domain.DecisionState, userChange *float64) (*ports.DecisionResult, error) {
	if !state.Actionable() {
		return nil, fmt.Errorf("invalid decision %q", state)
	}

	result := &ports.DecisionResult{
		RecommendationID: recommendationID,
		Decision:         state,
	}

	change := 0.0
	if userChange != nil {
		change = *userChange
	}

	row := &domain.Decision{
		ID:               uuid.NewString(),
		RecommendationID: recommendationID,
		Decision:         state,
		UserChange:       change,
		DecidedAt:        time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, row); err != nil {
		s.log.Warn("decision save failed",
			zap.String("recommendation_id", recommendationID),
			zap.Error(err))
	} else {
		result.Saved = true
	}
	telemetry.DecisionsRecorded.WithLabelValues(string(state)).Inc()

	if state == domain.DecisionApproved || state == domain.DecisionModified {
		s.apply(ctx, result, change)
	}

	s.publishRecorded(recommendationID, state, userChange)
	return result, nil
}

// apply pushes the rate change for a room recommendation. Daily rows have no
// room to push and are skipped.
func (s *Service) apply(ctx context.Context, result *ports.DecisionResult, change float64) {
	date, roomRef, err := domain.ParseRecommendationID(result.RecommendationID)
	if err != nil {
		result.Note = err.Error()
		return
	}
	if roomRef == domain.DailySuffix {
		result.Note = "hotel-wide recommendations are not pushed per room"
		return
	}

	roomKindID, err := strconv.Atoi(roomRef)
	if err != nil {
		result.Note = fmt.Sprintf("malformed room kind id %q", roomRef)
		return
	}

	push, err := s.rates.ApplyChange(ctx, roomKindID, date, change)
	if err != nil {
		result.Note = err.Error()
		return
	}
	push.RecommendationID = result.RecommendationID
	result.Push = push
	result.Applied = push.Success
	if push.Success {
		result.Note = fmt.Sprintf("cena změněna na %.0f", push.NewPrice)
	} else {
		result.Note = push.Error
	}
}

// Log returns the decision history with the learner's summary.
func (s *Service) Log(ctx context.Context) (*ports.DecisionLog, error) {
	decisions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading decision log: %w", err)
	}
	return &ports.DecisionLog{
		Decisions: decisions,
		Stats:     ComputeStats(decisions),
	}, nil
}

type recordedEvent struct {
	RecommendationID string               `json:"recommendation_id"`
	Decision         domain.DecisionState `json:"decision"`
	UserChange       *float64             `json:"user_change"`
}

func (s *Service) publishRecorded(recommendationID string, state domain.DecisionState, userChange *float64) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(recordedEvent{
		RecommendationID: recommendationID,
		Decision:         state,
		UserChange:       userChange,
	})
	if err != nil {
		return
	}
	if err := s.events.Publish(queue.SubjectDecisionsRecorded, data); err != nil {
		s.log.Debug("decision event publish failed", zap.Error(err))
	}
}
