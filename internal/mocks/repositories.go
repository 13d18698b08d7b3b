package mocks

import (
	"context"

	"github.com/ratesense/ratesense/internal/domain"
)

// MockOccupancyRepository is a mock implementation of OccupancyRepository.
type MockOccupancyRepository struct {
	SaveBatchFunc    func(ctx context.Context, records []domain.OccupancyRecord) error
	FindPageFunc     func(ctx context.Context, hotelID string, limit, offset int) ([]domain.OccupancyRecord, error)
	CountByHotelFunc func(ctx context.Context, hotelID string) (int64, error)
}

func (m *MockOccupancyRepository) SaveBatch(ctx context.Context, records []domain.OccupancyRecord) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, records)
	}
	return nil
}

func (m *MockOccupancyRepository) FindPage(ctx context.Context, hotelID string, limit, offset int) ([]domain.OccupancyRecord, error) {
	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, hotelID, limit, offset)
	}
	return []domain.OccupancyRecord{}, nil
}

func (m *MockOccupancyRepository) CountByHotel(ctx context.Context, hotelID string) (int64, error) {
	if m.CountByHotelFunc != nil {
		return m.CountByHotelFunc(ctx, hotelID)
	}
	return 0, nil
}

// MockRoomKindRepository is a mock implementation of RoomKindRepository.
type MockRoomKindRepository struct {
	SaveAllFunc func(ctx context.Context, kinds []domain.RoomKind) error
	FindAllFunc func(ctx context.Context) ([]domain.RoomKind, error)
}

func (m *MockRoomKindRepository) SaveAll(ctx context.Context, kinds []domain.RoomKind) error {
	if m.SaveAllFunc != nil {
		return m.SaveAllFunc(ctx, kinds)
	}
	return nil
}

func (m *MockRoomKindRepository) FindAll(ctx context.Context) ([]domain.RoomKind, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.RoomKind{}, nil
}

// MockPayloadRepository is a mock implementation of PayloadRepository.
type MockPayloadRepository struct {
	Saved         []*domain.StoredPayload
	SaveFunc      func(ctx context.Context, payload *domain.StoredPayload) error
	FindByKeyFunc func(ctx context.Context, key string) (*domain.StoredPayload, error)
}

func (m *MockPayloadRepository) Save(ctx context.Context, payload *domain.StoredPayload) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, payload)
	}
	m.Saved = append(m.Saved, payload)
	return nil
}

func (m *MockPayloadRepository) FindByKey(ctx context.Context, key string) (*domain.StoredPayload, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, key)
	}
	return nil, nil
}

// MockDecisionRepository is a mock implementation of DecisionRepository.
type MockDecisionRepository struct {
	Saved                      []*domain.Decision
	SaveFunc                   func(ctx context.Context, decision *domain.Decision) error
	FindAllFunc                func(ctx context.Context) ([]domain.Decision, error)
	FindByRecommendationIDFunc func(ctx context.Context, recommendationID string) ([]domain.Decision, error)
}

func (m *MockDecisionRepository) Save(ctx context.Context, decision *domain.Decision) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, decision)
	}
	m.Saved = append(m.Saved, decision)
	return nil
}

func (m *MockDecisionRepository) FindAll(ctx context.Context) ([]domain.Decision, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Decision{}, nil
}

func (m *MockDecisionRepository) FindByRecommendationID(ctx context.Context, recommendationID string) ([]domain.Decision, error) {
	if m.FindByRecommendationIDFunc != nil {
		return m.FindByRecommendationIDFunc(ctx, recommendationID)
	}
	return []domain.Decision{}, nil
}
