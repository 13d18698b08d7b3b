package decision

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/mocks"
	"github.com/ratesense/ratesense/internal/ports"
)

func TestRecordRejectsInvalidVerdict(t *testing.T) {
	svc := NewService(&mocks.MockDecisionRepository{}, &mocks.MockRateService{}, nil, zap.NewNop())

	if _, err := svc.Record(context.Background(), "2025-05-08_640240", domain.DecisionPending, nil); err == nil {
		t.Fatal("pending accepted as a verdict")
	}
	if _, err := svc.Record(context.Background(), "2025-05-08_640240", domain.DecisionState("maybe"), nil); err == nil {
		t.Fatal("unknown verdict accepted")
	}
}

func TestRecordRejectedSavesWithoutPush(t *testing.T) {
	repo := &mocks.MockDecisionRepository{}
	rates := &mocks.MockRateService{
		ApplyChangeFunc: func(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error) {
			t.Error("rejected verdict triggered a push")
			return nil, nil
		},
	}
	svc := NewService(repo, rates, nil, zap.NewNop())

	result, err := svc.Record(context.Background(), "2025-05-08_640240", domain.DecisionRejected, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !result.Saved || result.Applied {
		t.Errorf("unexpected result %+v", result)
	}
	if len(repo.Saved) != 1 {
		t.Fatalf("got %d saved rows, want 1", len(repo.Saved))
	}
	row := repo.Saved[0]
	if row.ID == "" || row.RecommendationID != "2025-05-08_640240" || row.Decision != domain.DecisionRejected {
		t.Errorf("unexpected row %+v", row)
	}
}

func TestRecordModifiedPushesUserChange(t *testing.T) {
	var pushedChange float64
	rates := &mocks.MockRateService{
		ApplyChangeFunc: func(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error) {
			pushedChange = changePct
			return &ports.RatePushResult{RoomKindID: roomKindID, Date: date, ChangePct: changePct, NewPrice: 2750, Success: true}, nil
		},
	}
	events := mocks.NewMockMessageQueue()
	svc := NewService(&mocks.MockDecisionRepository{}, rates, events, zap.NewNop())

	userChange := 10.0
	result, err := svc.Record(context.Background(), "2025-05-08_640240", domain.DecisionModified, &userChange)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if pushedChange != 10 {
		t.Errorf("pushed change %v, want the user change", pushedChange)
	}
	if !result.Applied || result.Push == nil {
		t.Errorf("unexpected result %+v", result)
	}

	published := events.PublishedTo(queue.SubjectDecisionsRecorded)
	if len(published) != 1 {
		t.Fatalf("got %d events, want 1", len(published))
	}
	var event recordedEvent
	if err := json.Unmarshal(published[0], &event); err != nil {
		t.Fatalf("event undecodable: %v", err)
	}
	if event.Decision != domain.DecisionModified || event.UserChange == nil || *event.UserChange != 10 {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestRecordApprovedDailySkipsPush(t *testing.T) {
	rates := &mocks.MockRateService{
		ApplyChangeFunc: func(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error) {
			t.Error("daily recommendation triggered a room push")
			return nil, nil
		},
	}
	svc := NewService(&mocks.MockDecisionRepository{}, rates, nil, zap.NewNop())

	result, err := svc.Record(context.Background(), "2025-05-03_daily", domain.DecisionApproved, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if result.Applied {
		t.Error("daily recommendation marked as applied")
	}
	if !result.Saved {
		t.Error("daily verdict was not saved")
	}
}

func TestRecordSurvivesSaveFailure(t *testing.T) {
	repo := &mocks.MockDecisionRepository{
		SaveFunc: func(ctx context.Context, decision *domain.Decision) error {
			return errors.New("db down")
		},
	}
	svc := NewService(repo, &mocks.MockRateService{}, nil, zap.NewNop())

	result, err := svc.Record(context.Background(), "2025-05-08_640240", domain.DecisionApproved, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if result.Saved {
		t.Error("result claims a failed save succeeded")
	}
	if !result.Applied {
		t.Error("push skipped because of the save failure")
	}
}

func TestLogReturnsHistoryWithStats(t *testing.T) {
	repo := &mocks.MockDecisionRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.Decision, error) {
			return []domain.Decision{
				{ID: "a", Decision: domain.DecisionApproved},
				{ID: "b", Decision: domain.DecisionApproved},
				{ID: "c", Decision: domain.DecisionRejected},
				{ID: "d", Decision: domain.DecisionModified, UserChange: -5},
			}, nil
		},
	}
	svc := NewService(repo, &mocks.MockRateService{}, nil, zap.NewNop())

	log, err := svc.Log(context.Background())
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(log.Decisions) != 4 {
		t.Errorf("got %d decisions, want 4", len(log.Decisions))
	}
	if log.Stats.Approved != 2 || log.Stats.Rejected != 1 || log.Stats.Modified != 1 {
		t.Errorf("unexpected stats %+v", log.Stats)
	}
	if log.Stats.ApprovalRate != 0.5 {
		t.Errorf("approval rate %v, want 0.5", log.Stats.ApprovalRate)
	}
	if log.Stats.AvgUserAdjustment != -5 {
		t.Errorf("avg adjustment %v, want -5", log.Stats.AvgUserAdjustment)
	}
}
