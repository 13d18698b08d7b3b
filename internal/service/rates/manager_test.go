package rates

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/mocks"
	"github.com/ratesense/ratesense/internal/ports"
)

func testManager(pms *mocks.MockPMSClient, push *mocks.MockRatePushClient, events queue.MessageQueue) *Manager {
	return NewManager(pms, push, events, zap.NewNop())
}

func TestNewPriceRoundsToWholeUnits(t *testing.T) {
	cases := []struct {
		current float64
		change  float64
		want    float64
	}{
		{2500, 15.6, 2890},
		{2500, -16, 2100},
		{1990, 12.5, 2239},
		{1000, 0, 1000},
	}
	for _, tc := range cases {
		if got := NewPrice(tc.current, tc.change); got != tc.want {
			t.Errorf("NewPrice(%v, %v) = %v, want %v", tc.current, tc.change, got, tc.want)
		}
	}
}

func TestBasePlanPrefersFlaggedPlan(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{
			{ID: 10, Name: "Flex"},
			{ID: 20, Name: "Standard", IsBasePlan: true},
		},
	}
	m := testManager(pms, &mocks.MockRatePushClient{}, nil)

	id, err := m.BasePlanID(context.Background())
	if err != nil {
		t.Fatalf("BasePlanID: %v", err)
	}
	if id != 20 {
		t.Errorf("got plan %d, want 20", id)
	}
}

func TestBasePlanFallsBackToFirst(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 10, Name: "Flex"}, {ID: 20, Name: "Standard"}},
	}
	m := testManager(pms, &mocks.MockRatePushClient{}, nil)

	id, err := m.BasePlanID(context.Background())
	if err != nil {
		t.Fatalf("BasePlanID: %v", err)
	}
	if id != 10 {
		t.Errorf("got plan %d, want 10", id)
	}
}

func TestBasePlanCachesPlanList(t *testing.T) {
	calls := 0
	pms := &mocks.MockPMSClient{
		FetchRatePlansFunc: func(ctx context.Context) ([]ports.RatePlan, error) {
			calls++
			return []ports.RatePlan{{ID: 10, IsBasePlan: true}}, nil
		},
	}
	m := testManager(pms, &mocks.MockRatePushClient{}, nil)

	for i := 0; i < 3; i++ {
		if _, err := m.BasePlanID(context.Background()); err != nil {
			t.Fatalf("BasePlanID: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("plan list fetched %d times, want 1", calls)
	}
}

func TestPriceForStandardOccupancyWithFallback(t *testing.T) {
	prices := map[int]map[int]float64{
		640240: {1: 1800, 2: 2500, 3: 3000},
		902136: {4: 4200, 6: 5000},
	}
	if got := PriceFor(prices, 640240); got != 2500 {
		t.Errorf("standard occupancy price = %v, want 2500", got)
	}
	if got := PriceFor(prices, 902136); got != 4200 {
		t.Errorf("fallback price = %v, want 4200", got)
	}
	if got := PriceFor(prices, 111111); got != 0 {
		t.Errorf("unknown room price = %v, want 0", got)
	}
}

func TestApplyChangePushesNewPrice(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{640240: {2: 2500}},
	}
	push := &mocks.MockRatePushClient{}
	events := mocks.NewMockMessageQueue()
	m := testManager(pms, push, events)

	result, err := m.ApplyChange(context.Background(), 640240, "2025-05-08", 15.6)
	if err != nil {
		t.Fatalf("ApplyChange: %v", err)
	}
	if !result.Success {
		t.Fatalf("push failed: %s", result.Error)
	}
	if result.NewPrice != 2890 {
		t.Errorf("new price = %v, want 2890", result.NewPrice)
	}
	if len(push.Updates) != 1 {
		t.Fatalf("got %d pushes, want 1", len(push.Updates))
	}
	update := push.Updates[0]
	if update.RoomTypeID != 640240 || update.RatePlanID != 7 || update.Date != "2025-05-08" || update.Rate != 2890 {
		t.Errorf("unexpected push %+v", update)
	}
	if len(events.PublishedTo(queue.SubjectRatesPushed)) != 1 {
		t.Error("rate push event not published")
	}
}

func TestApplyChangeWithoutPushClient(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{640240: {2: 2500}},
	}
	m := NewManager(pms, nil, nil, zap.NewNop())

	result, err := m.ApplyChange(context.Background(), 640240, "2025-05-10", 12.0)
	if err != nil {
		t.Fatalf("ApplyChange: %v", err)
	}
	if result.Success {
		t.Error("push reported success without a channel manager")
	}
	if result.Error != "channel manager not configured" {
		t.Errorf("unexpected error %q", result.Error)
	}
}

func TestApplyRecommendationsWithoutPushClient(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{640240: {2: 2500}},
	}
	m := NewManager(pms, nil, nil, zap.NewNop())

	report, err := m.ApplyRecommendations(context.Background(), []ports.RatePushRequest{
		{ID: "2025-05-08_640240", ChangePct: 15.6},
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if report.Success || report.ErrorCount != 1 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestApplyRecommendationsBatch(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{
			640240: {2: 2500},
			537702: {2: 1500},
		},
	}
	push := &mocks.MockRatePushClient{}
	m := testManager(pms, push, nil)

	report, err := m.ApplyRecommendations(context.Background(), []ports.RatePushRequest{
		{ID: "2025-05-08_640240", ChangePct: 15.6},
		{ID: "2025-05-03_daily", ChangePct: -20},
		{ID: "2025-05-10_537702", ChangePct: -12},
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if report.Total != 3 || report.SuccessCount != 2 || report.ErrorCount != 1 {
		t.Errorf("unexpected counts %+v", report)
	}
	if report.Success {
		t.Error("report marked successful despite a rejected daily row")
	}
	if len(push.Updates) != 2 {
		t.Errorf("got %d pushes, want 2", len(push.Updates))
	}
	if report.Results[1].Error == "" {
		t.Error("daily row accepted")
	}
}

func TestApplyRecommendationsContinuesPastPushFailure(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{
			640240: {2: 2500},
			537702: {2: 1500},
		},
	}
	push := &mocks.MockRatePushClient{
		UpdateRateFunc: func(ctx context.Context, roomTypeID, ratePlanID int, date string, ratePrice float64) error {
			if roomTypeID == 640240 {
				return errors.New("channel manager timeout")
			}
			return nil
		},
	}
	m := testManager(pms, push, nil)

	report, err := m.ApplyRecommendations(context.Background(), []ports.RatePushRequest{
		{ID: "2025-05-08_640240", ChangePct: 15.6},
		{ID: "2025-05-10_537702", ChangePct: -12},
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if report.SuccessCount != 1 || report.ErrorCount != 1 {
		t.Errorf("unexpected counts %+v", report)
	}
}

func TestApplyRecommendationsSkipsZeroChange(t *testing.T) {
	pms := &mocks.MockPMSClient{
		Plans: []ports.RatePlan{{ID: 7, IsBasePlan: true}},
		Rates: map[int]map[int]float64{640240: {2: 2500}},
	}
	push := &mocks.MockRatePushClient{}
	m := testManager(pms, push, nil)

	report, err := m.ApplyRecommendations(context.Background(), []ports.RatePushRequest{
		{ID: "2025-05-08_640240", ChangePct: 0},
	})
	if err != nil {
		t.Fatalf("ApplyRecommendations: %v", err)
	}
	if !report.Success || report.SuccessCount != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(push.Updates) != 0 {
		t.Error("zero-change row was pushed")
	}
}
