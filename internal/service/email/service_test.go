package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
)

// recordingProvider captures sent messages for assertions.
type recordingProvider struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

func (p *recordingProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{To: to, Subject: subject, Body: body, IsHTML: isHTML})
	return nil
}

func digestPayload() *domain.RecommendationPayload {
	return &domain.RecommendationPayload{
		Recommendations: []domain.Recommendation{
			{Date: "2025-05-03", RoomName: "301", Type: domain.AdjustmentDiscount, ChangePct: -16, Reason: "Blízký termín (3d), nízká hist. obsazenost (30%)"},
			{Date: "2025-05-04", RoomName: "302", Type: domain.AdjustmentDiscount, ChangePct: -9.6, Reason: "Pokoj obvykle obsazený jen 40% času"},
			{Date: "2025-05-08", RoomName: "201", Type: domain.AdjustmentMarkup, ChangePct: 25.4, Reason: "Svátek (Den vítězství) má pozitivní vliv (+30%)"},
			{Date: "2025-05-09", RoomName: "101", Type: domain.AdjustmentNoChange},
		},
		Daily: []domain.DailyRecommendation{
			{Date: "2025-05-03", Type: domain.AdjustmentDiscount, ChangePct: -20},
		},
		Count:      3,
		DailyCount: 1,
		LearnedHolidays: map[string]domain.HolidayImpact{
			"Den vítězství": {Impact: 0.3, Effect: domain.EffectPositive},
		},
		ComputedAt: time.Date(2025, 4, 28, 3, 0, 0, 0, time.UTC),
	}
}

func TestSendDigestRendersSummary(t *testing.T) {
	provider := &recordingProvider{}
	svc := NewServiceWithProvider(&Config{
		Recipients: []string{"revenue@example.com", "manager@example.com"},
	}, provider, zap.NewNop())

	if err := svc.SendDigest(context.Background(), digestPayload()); err != nil {
		t.Fatalf("SendDigest: %v", err)
	}

	if len(provider.sent) != 2 {
		t.Fatalf("got %d messages, want one per recipient", len(provider.sent))
	}
	msg := provider.sent[0]
	if !msg.IsHTML {
		t.Error("digest sent as plain text")
	}
	if !strings.Contains(msg.Subject, "3") {
		t.Errorf("subject %q missing the count", msg.Subject)
	}
	for _, want := range []string{"301", "-16.0%", "201", "+25.4%", "Den vítězství", "2025-04-28 03:00"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("digest body missing %q", want)
		}
	}
	if strings.Contains(msg.Body, "101") {
		t.Error("no_change row leaked into the digest")
	}
}

func TestSendDigestWithoutRecipientsIsNoop(t *testing.T) {
	provider := &recordingProvider{}
	svc := NewServiceWithProvider(&Config{}, provider, zap.NewNop())

	if err := svc.SendDigest(context.Background(), digestPayload()); err != nil {
		t.Fatalf("SendDigest: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Error("digest sent despite empty recipient list")
	}
}

func TestSendPropagatesProviderError(t *testing.T) {
	provider := &recordingProvider{err: errors.New("smtp refused")}
	svc := NewServiceWithProvider(&Config{}, provider, zap.NewNop())

	if err := svc.Send(context.Background(), []string{"ops@example.com"}, "subject", "body"); err == nil {
		t.Fatal("provider failure swallowed")
	}
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	if _, err := NewService(&Config{Provider: "carrier-pigeon"}, zap.NewNop()); err == nil {
		t.Fatal("unknown provider accepted")
	}
}

func TestBuildDigestDataOrdersMovers(t *testing.T) {
	data := buildDigestData(digestPayload())

	if len(data.Discounts) != 2 || data.Discounts[0].ChangePct != -16 {
		t.Errorf("unexpected discounts %+v", data.Discounts)
	}
	if len(data.Markups) != 1 || data.Markups[0].ChangePct != 25.4 {
		t.Errorf("unexpected markups %+v", data.Markups)
	}
	if len(data.LearnedHolidays) != 1 || data.LearnedHolidays[0] != "Den vítězství" {
		t.Errorf("unexpected holidays %+v", data.LearnedHolidays)
	}
}
