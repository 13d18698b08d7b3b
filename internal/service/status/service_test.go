package status

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/mocks"
	"github.com/ratesense/ratesense/internal/service/health"
)

func TestStatusReportsStoredRun(t *testing.T) {
	computedAt := time.Date(2025, 4, 28, 3, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(domain.RecommendationPayload{Count: 12, DailyCount: 5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payloads := &mocks.MockPayloadRepository{
		FindByKeyFunc: func(ctx context.Context, key string) (*domain.StoredPayload, error) {
			return &domain.StoredPayload{Key: key, Payload: payload, ComputedAt: computedAt}, nil
		},
	}
	healthSvc := health.NewService(&health.Config{Version: "1.0.0"}, zap.NewNop())

	svc := NewService(healthSvc, &mocks.MockPMSClient{}, &mocks.MockRatePushClient{}, payloads, "hotel-1", "Hotel U Lípy", "1.0.0", zap.NewNop())
	report := svc.Status(context.Background())

	if report.Hotel != "Hotel U Lípy" || report.Version != "1.0.0" {
		t.Errorf("unexpected identity %+v", report)
	}
	if report.LastComputedAt == nil || !report.LastComputedAt.Equal(computedAt) {
		t.Errorf("unexpected last run %+v", report.LastComputedAt)
	}
	if report.RecommendationCount != 12 || report.DailyCount != 5 {
		t.Errorf("unexpected counts %+v", report)
	}
}

func TestStatusSurvivesMissingPayload(t *testing.T) {
	payloads := &mocks.MockPayloadRepository{
		FindByKeyFunc: func(ctx context.Context, key string) (*domain.StoredPayload, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(nil, &mocks.MockPMSClient{}, nil, payloads, "hotel-1", "Hotel", "dev", zap.NewNop())

	report := svc.Status(context.Background())
	if report.LastComputedAt != nil {
		t.Error("phantom precompute run reported")
	}
}

func TestSelfTestAllGreen(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Kinds: domain.DefaultRoomKinds(),
		Rates: map[int]map[int]float64{640240: {2: 2500}, 537702: {2: 1500}},
	}
	svc := NewService(nil, pms, &mocks.MockRatePushClient{}, &mocks.MockPayloadRepository{}, "hotel-1", "Hotel", "dev", zap.NewNop())

	report := svc.SelfTest(context.Background())
	if !report.RestAPI || !report.RatesAPI || !report.EqcAPI {
		t.Errorf("unexpected report %+v", report)
	}
	if report.RoomsCount != len(domain.DefaultRoomKinds()) || report.PricesCount != 2 {
		t.Errorf("unexpected counts %+v", report)
	}
}

func TestSelfTestReportsEqcFailure(t *testing.T) {
	push := &mocks.MockRatePushClient{
		TestConnectionFunc: func(ctx context.Context) error {
			return errors.New("401 unauthorized")
		},
	}
	svc := NewService(nil, &mocks.MockPMSClient{}, push, &mocks.MockPayloadRepository{}, "hotel-1", "Hotel", "dev", zap.NewNop())

	report := svc.SelfTest(context.Background())
	if report.EqcAPI {
		t.Error("failed channel manager marked healthy")
	}
	if report.EqcMessage == "" {
		t.Error("failure message missing")
	}
}
