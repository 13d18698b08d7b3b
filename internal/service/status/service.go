package status

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/health"
)

// Service aggregates component health and engine run indicators for the
// dashboard.
type Service struct {
	health   *health.Service
	pms      ports.PMSClient
	push     ports.RatePushClient
	payloads ports.PayloadRepository
	hotelID  string
	hotel    string
	version  string
	log      *zap.Logger
}

// NewService wires the status service. push may be nil when no channel
// manager credentials are configured.
func NewService(
	healthSvc *health.Service,
	pms ports.PMSClient,
	push ports.RatePushClient,
	payloads ports.PayloadRepository,
	hotelID, hotel, version string,
	log *zap.Logger,
) *Service {
	return &Service{
		health:   healthSvc,
		pms:      pms,
		push:     push,
		payloads: payloads,
		hotelID:  hotelID,
		hotel:    hotel,
		version:  version,
		log:      log,
	}
}

// Status reports component health together with the last precompute run.
func (s *Service) Status(ctx context.Context) *ports.StatusReport {
	report := &ports.StatusReport{
		Status:     string(health.StatusHealthy),
		Timestamp:  time.Now().UTC(),
		Hotel:      s.hotel,
		Version:    s.version,
		Components: map[string]string{},
	}

	if s.health != nil {
		ready := s.health.Ready(ctx)
		report.Status = string(ready.Status)
		for name, check := range ready.Checks {
			report.Components[name] = string(check.Status)
		}
	}

	if s.payloads != nil {
		stored, err := s.payloads.FindByKey(ctx, domain.PayloadKey(s.hotelID))
		if err != nil {
			s.log.Debug("stored payload read failed", zap.Error(err))
		} else if stored != nil {
			computedAt := stored.ComputedAt
			report.LastComputedAt = &computedAt

			var payload domain.RecommendationPayload
			if err := json.Unmarshal(stored.Payload, &payload); err == nil {
				report.RecommendationCount = payload.Count
				report.DailyCount = payload.DailyCount
			}
		}
	}

	return report
}

// SelfTest exercises the PMS surfaces: the REST API, the rates endpoint and
// the channel-manager connection.
func (s *Service) SelfTest(ctx context.Context) *ports.SelfTestReport {
	report := &ports.SelfTestReport{}

	if s.pms != nil {
		if err := s.pms.TestConnection(ctx); err != nil {
			s.log.Warn("PMS REST self-test failed", zap.Error(err))
		} else {
			report.RestAPI = true
		}

		if kinds, err := s.pms.FetchRoomKinds(ctx); err == nil {
			report.RoomsCount = len(kinds)
		}

		today := time.Now().UTC()
		from := today.Format(domain.DateLayout)
		to := today.AddDate(0, 0, 7).Format(domain.DateLayout)
		if prices, err := s.pms.FetchRates(ctx, from, to); err != nil {
			s.log.Warn("PMS rates self-test failed", zap.Error(err))
		} else {
			report.RatesAPI = true
			report.PricesCount = len(prices)
		}
	}

	if s.push == nil {
		report.EqcMessage = "channel manager not configured"
		return report
	}
	if err := s.push.TestConnection(ctx); err != nil {
		report.EqcMessage = err.Error()
		s.log.Warn("channel manager self-test failed", zap.Error(err))
	} else {
		report.EqcAPI = true
	}

	return report
}
