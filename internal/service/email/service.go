package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
)

// Provider delivers a single message to a single recipient.
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email settings.
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	// Recipients of the post-precompute digest.
	Recipients []string

	SendGridAPIKey string

	// SMTP settings, used with Mailhog in development.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// topMovers bounds how many discounts and markups the digest lists.
const topMovers = 5

// Service sends operational mail, most importantly the recommendation digest
// after a precompute run.
type Service struct {
	config   *Config
	provider Provider
	digest   *template.Template
	log      *zap.Logger
}

// NewService builds the email service with the configured provider.
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	s := &Service{
		config: config,
		digest: template.Must(template.New("digest").Parse(digestTemplate)),
		log:    log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid api key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return s, nil
}

// NewServiceWithProvider builds the service around an injected provider.
func NewServiceWithProvider(config *Config, provider Provider, log *zap.Logger) *Service {
	return &Service{
		config:   config,
		provider: provider,
		digest:   template.Must(template.New("digest").Parse(digestTemplate)),
		log:      log,
	}
}

// Send sends a plain-text email to each recipient.
func (s *Service) Send(ctx context.Context, to []string, subject, body string) error {
	return s.sendAll(ctx, to, subject, body, false)
}

// SendHTML sends an HTML email to each recipient.
func (s *Service) SendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	return s.sendAll(ctx, to, subject, htmlBody, true)
}

func (s *Service) sendAll(ctx context.Context, to []string, subject, body string, isHTML bool) error {
	for _, recipient := range to {
		if err := s.provider.Send(ctx, recipient, subject, body, isHTML); err != nil {
			s.log.Error("email send failed",
				zap.String("to", recipient),
				zap.String("subject", subject),
				zap.Error(err))
			return fmt.Errorf("sending to %s: %w", recipient, err)
		}
	}
	return nil
}

// digestRow is one listed recommendation in the digest.
type digestRow struct {
	Date      string
	RoomName  string
	ChangePct float64
	Reason    string
}

// digestData feeds the digest template.
type digestData struct {
	Count           int
	DailyCount      int
	ComputedAt      string
	Discounts       []digestRow
	Markups         []digestRow
	LearnedHolidays []string
}

// SendDigest mails the post-precompute summary to the configured recipients.
func (s *Service) SendDigest(ctx context.Context, payload *domain.RecommendationPayload) error {
	if len(s.config.Recipients) == 0 {
		s.log.Debug("no digest recipients configured, skipping")
		return nil
	}

	data := buildDigestData(payload)
	var buf bytes.Buffer
	if err := s.digest.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering digest: %w", err)
	}

	subject := fmt.Sprintf("RateSense: %d doporučení (%s)", payload.Count, data.ComputedAt)
	return s.SendHTML(ctx, s.config.Recipients, subject, buf.String())
}

func buildDigestData(payload *domain.RecommendationPayload) digestData {
	data := digestData{
		Count:      payload.Count,
		DailyCount: payload.DailyCount,
		ComputedAt: payload.ComputedAt.Format("2006-01-02 15:04"),
	}

	var active []domain.Recommendation
	for _, rec := range payload.Recommendations {
		if rec.Type != domain.AdjustmentNoChange {
			active = append(active, rec)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].ChangePct < active[j].ChangePct
	})

	for _, rec := range active {
		if rec.Type != domain.AdjustmentDiscount || len(data.Discounts) == topMovers {
			break
		}
		data.Discounts = append(data.Discounts, digestRow{
			Date:      rec.Date,
			RoomName:  rec.RoomName,
			ChangePct: rec.ChangePct,
			Reason:    rec.Reason,
		})
	}
	for i := len(active) - 1; i >= 0; i-- {
		rec := active[i]
		if rec.Type != domain.AdjustmentMarkup || len(data.Markups) == topMovers {
			break
		}
		data.Markups = append(data.Markups, digestRow{
			Date:      rec.Date,
			RoomName:  rec.RoomName,
			ChangePct: rec.ChangePct,
			Reason:    rec.Reason,
		})
	}

	for name := range payload.LearnedHolidays {
		data.LearnedHolidays = append(data.LearnedHolidays, name)
	}
	sort.Strings(data.LearnedHolidays)

	return data
}
