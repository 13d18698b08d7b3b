package mocks

import (
	"context"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

// MockHistoryService is a mock implementation of HistoryService.
type MockHistoryService struct {
	History        []domain.OccupancyRecord
	LoadFunc       func(ctx context.Context, hotelID string) ([]domain.OccupancyRecord, error)
	InvalidateFunc func(ctx context.Context, hotelID string)
	Invalidated    []string
}

func (m *MockHistoryService) Load(ctx context.Context, hotelID string) ([]domain.OccupancyRecord, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, hotelID)
	}
	return m.History, nil
}

func (m *MockHistoryService) Invalidate(ctx context.Context, hotelID string) {
	if m.InvalidateFunc != nil {
		m.InvalidateFunc(ctx, hotelID)
		return
	}
	m.Invalidated = append(m.Invalidated, hotelID)
}

// MockRoomService is a mock implementation of RoomService. With no overrides
// it serves the default catalog and an empty snapshot.
type MockRoomService struct {
	Snapshot         *domain.AvailabilitySnapshot
	Kinds            []domain.RoomKind
	CatalogFunc      func(ctx context.Context) ([]domain.RoomKind, error)
	CatalogMapFunc   func(ctx context.Context) (domain.RoomCatalog, error)
	AvailabilityFunc func(ctx context.Context, days int) (*domain.AvailabilitySnapshot, error)
}

func (m *MockRoomService) Catalog(ctx context.Context) ([]domain.RoomKind, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc(ctx)
	}
	if m.Kinds != nil {
		return m.Kinds, nil
	}
	return domain.DefaultRoomKinds(), nil
}

func (m *MockRoomService) CatalogMap(ctx context.Context) (domain.RoomCatalog, error) {
	if m.CatalogMapFunc != nil {
		return m.CatalogMapFunc(ctx)
	}
	kinds, err := m.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewRoomCatalog(kinds), nil
}

func (m *MockRoomService) Availability(ctx context.Context, days int) (*domain.AvailabilitySnapshot, error) {
	if m.AvailabilityFunc != nil {
		return m.AvailabilityFunc(ctx, days)
	}
	if m.Snapshot != nil {
		return m.Snapshot, nil
	}
	return &domain.AvailabilitySnapshot{}, nil
}

// MockRateService is a mock implementation of RateService.
type MockRateService struct {
	Prices                   map[int]map[int]float64
	CurrentPricesFunc        func(ctx context.Context) (map[int]map[int]float64, error)
	BasePlanIDFunc           func(ctx context.Context) (int, error)
	ApplyChangeFunc          func(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error)
	ApplyRecommendationsFunc func(ctx context.Context, requests []ports.RatePushRequest) (*ports.RatePushReport, error)
	Applied                  []ports.RatePushResult
}

func (m *MockRateService) CurrentPrices(ctx context.Context) (map[int]map[int]float64, error) {
	if m.CurrentPricesFunc != nil {
		return m.CurrentPricesFunc(ctx)
	}
	return m.Prices, nil
}

func (m *MockRateService) BasePlanID(ctx context.Context) (int, error) {
	if m.BasePlanIDFunc != nil {
		return m.BasePlanIDFunc(ctx)
	}
	return 1, nil
}

func (m *MockRateService) ApplyChange(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error) {
	if m.ApplyChangeFunc != nil {
		return m.ApplyChangeFunc(ctx, roomKindID, date, changePct)
	}
	result := ports.RatePushResult{RoomKindID: roomKindID, Date: date, ChangePct: changePct, Success: true}
	m.Applied = append(m.Applied, result)
	return &result, nil
}

func (m *MockRateService) ApplyRecommendations(ctx context.Context, requests []ports.RatePushRequest) (*ports.RatePushReport, error) {
	if m.ApplyRecommendationsFunc != nil {
		return m.ApplyRecommendationsFunc(ctx, requests)
	}
	return &ports.RatePushReport{Success: true, Total: len(requests), SuccessCount: len(requests)}, nil
}

// MockRecommendationService is a mock implementation of RecommendationService.
type MockRecommendationService struct {
	Result         *domain.RecommendationPayload
	PayloadFunc    func(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)
	ComputeFunc    func(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)
	PrecomputeFunc func(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)
}

func (m *MockRecommendationService) Payload(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	if m.PayloadFunc != nil {
		return m.PayloadFunc(ctx, hotelID)
	}
	return m.Result, nil
}

func (m *MockRecommendationService) Compute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(ctx, hotelID)
	}
	return m.Result, nil
}

func (m *MockRecommendationService) Precompute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	if m.PrecomputeFunc != nil {
		return m.PrecomputeFunc(ctx, hotelID)
	}
	return m.Result, nil
}

// MockEmailService is a mock implementation of EmailService. Digest payloads
// are retained for assertions.
type MockEmailService struct {
	SentDigests    []*domain.RecommendationPayload
	SendFunc       func(ctx context.Context, to []string, subject, body string) error
	SendHTMLFunc   func(ctx context.Context, to []string, subject, htmlBody string) error
	SendDigestFunc func(ctx context.Context, payload *domain.RecommendationPayload) error
}

func (m *MockEmailService) Send(ctx context.Context, to []string, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailService) SendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

func (m *MockEmailService) SendDigest(ctx context.Context, payload *domain.RecommendationPayload) error {
	if m.SendDigestFunc != nil {
		return m.SendDigestFunc(ctx, payload)
	}
	m.SentDigests = append(m.SentDigests, payload)
	return nil
}

// MockPMSClient is a mock implementation of PMSClient.
type MockPMSClient struct {
	Snapshot              *domain.AvailabilitySnapshot
	Kinds                 []domain.RoomKind
	Plans                 []ports.RatePlan
	Rates                 map[int]map[int]float64
	FetchAvailabilityFunc func(ctx context.Context, from, to string) (*domain.AvailabilitySnapshot, error)
	FetchRoomKindsFunc    func(ctx context.Context) ([]domain.RoomKind, error)
	FetchRatePlansFunc    func(ctx context.Context) ([]ports.RatePlan, error)
	FetchRatesFunc        func(ctx context.Context, from, to string) (map[int]map[int]float64, error)
	TestConnectionFunc    func(ctx context.Context) error
}

func (m *MockPMSClient) FetchAvailability(ctx context.Context, from, to string) (*domain.AvailabilitySnapshot, error) {
	if m.FetchAvailabilityFunc != nil {
		return m.FetchAvailabilityFunc(ctx, from, to)
	}
	if m.Snapshot != nil {
		return m.Snapshot, nil
	}
	return &domain.AvailabilitySnapshot{}, nil
}

func (m *MockPMSClient) FetchRoomKinds(ctx context.Context) ([]domain.RoomKind, error) {
	if m.FetchRoomKindsFunc != nil {
		return m.FetchRoomKindsFunc(ctx)
	}
	return m.Kinds, nil
}

func (m *MockPMSClient) FetchRatePlans(ctx context.Context) ([]ports.RatePlan, error) {
	if m.FetchRatePlansFunc != nil {
		return m.FetchRatePlansFunc(ctx)
	}
	return m.Plans, nil
}

func (m *MockPMSClient) FetchRates(ctx context.Context, from, to string) (map[int]map[int]float64, error) {
	if m.FetchRatesFunc != nil {
		return m.FetchRatesFunc(ctx, from, to)
	}
	return m.Rates, nil
}

func (m *MockPMSClient) TestConnection(ctx context.Context) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return nil
}

// PushedUpdate records one UpdateRate call.
type PushedUpdate struct {
	RoomTypeID int
	RatePlanID int
	Date       string
	Rate       float64
}

// MockRatePushClient is a mock implementation of RatePushClient. Pushed
// updates are retained for assertions.
type MockRatePushClient struct {
	Updates              []PushedUpdate
	UpdateRateFunc       func(ctx context.Context, roomTypeID, ratePlanID int, date string, rate float64) error
	UpdateRatesBatchFunc func(ctx context.Context, roomTypeID, ratePlanID int, updates []ports.RateUpdate) error
	CloseRoomFunc        func(ctx context.Context, roomTypeID, ratePlanID int, date string) error
	FetchBookingsFunc    func(ctx context.Context, status string) ([]ports.Booking, error)
	TestConnectionFunc   func(ctx context.Context) error
}

func (m *MockRatePushClient) UpdateRate(ctx context.Context, roomTypeID, ratePlanID int, date string, rate float64) error {
	if m.UpdateRateFunc != nil {
		return m.UpdateRateFunc(ctx, roomTypeID, ratePlanID, date, rate)
	}
	m.Updates = append(m.Updates, PushedUpdate{RoomTypeID: roomTypeID, RatePlanID: ratePlanID, Date: date, Rate: rate})
	return nil
}

func (m *MockRatePushClient) UpdateRatesBatch(ctx context.Context, roomTypeID, ratePlanID int, updates []ports.RateUpdate) error {
	if m.UpdateRatesBatchFunc != nil {
		return m.UpdateRatesBatchFunc(ctx, roomTypeID, ratePlanID, updates)
	}
	return nil
}

func (m *MockRatePushClient) CloseRoom(ctx context.Context, roomTypeID, ratePlanID int, date string) error {
	if m.CloseRoomFunc != nil {
		return m.CloseRoomFunc(ctx, roomTypeID, ratePlanID, date)
	}
	return nil
}

func (m *MockRatePushClient) FetchBookings(ctx context.Context, status string) ([]ports.Booking, error) {
	if m.FetchBookingsFunc != nil {
		return m.FetchBookingsFunc(ctx, status)
	}
	return []ports.Booking{}, nil
}

func (m *MockRatePushClient) TestConnection(ctx context.Context) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return nil
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	IssueTokenFunc    func(ctx context.Context, apiKey string) (string, time.Time, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*ports.TokenClaims, error)
}

func (m *MockAuthService) IssueToken(ctx context.Context, apiKey string) (string, time.Time, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(ctx, apiKey)
	}
	return "token", time.Now().Add(time.Hour), nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*ports.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return &ports.TokenClaims{Subject: "api"}, nil
}

// RecordedDecision captures one Record call on the mock decision service.
type RecordedDecision struct {
	RecommendationID string
	Decision         domain.DecisionState
	UserChange       *float64
}

// MockDecisionService is a mock implementation of DecisionService. Record
// calls are retained for assertions.
type MockDecisionService struct {
	Recorded   []RecordedDecision
	RecordFunc func(ctx context.Context, recommendationID string, decision domain.DecisionState, userChange *float64) (*ports.DecisionResult, error)
	LogFunc    func(ctx context.Context) (*ports.DecisionLog, error)
}

func (m *MockDecisionService) Record(ctx context.Context, recommendationID string, decision domain.DecisionState, userChange *float64) (*ports.DecisionResult, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, recommendationID, decision, userChange)
	}
	m.Recorded = append(m.Recorded, RecordedDecision{
		RecommendationID: recommendationID,
		Decision:         decision,
		UserChange:       userChange,
	})
	return &ports.DecisionResult{RecommendationID: recommendationID, Decision: decision, Saved: true}, nil
}

func (m *MockDecisionService) Log(ctx context.Context) (*ports.DecisionLog, error) {
	if m.LogFunc != nil {
		return m.LogFunc(ctx)
	}
	log := &ports.DecisionLog{}
	for _, rec := range m.Recorded {
		log.Decisions = append(log.Decisions, domain.Decision{
			RecommendationID: rec.RecommendationID,
			Decision:         rec.Decision,
		})
	}
	log.Stats.Total = len(log.Decisions)
	return log, nil
}
