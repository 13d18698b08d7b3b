package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

const (
	// standardOccupancy selects the price row compared and adjusted. Rooms
	// without a two-person row fall back to their lowest occupancy.
	standardOccupancy = 2

	// pricingHorizonDays matches the recommendation horizon.
	pricingHorizonDays = 60

	planCacheKey = "rate_plans"
	planCacheTTL = 10 * time.Minute
)

// Manager reads current prices from the PMS and pushes adjustments to the
// channel manager, pacing the pushes so batches don't trip its rate limits.
type Manager struct {
	pms     ports.PMSClient
	push    ports.RatePushClient
	events  queue.MessageQueue
	plans   *gocache.Cache
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewManager wires the rate manager. events may be nil in one-shot tools.
func NewManager(pms ports.PMSClient, push ports.RatePushClient, events queue.MessageQueue, log *zap.Logger) *Manager {
	return &Manager{
		pms:     pms,
		push:    push,
		events:  events,
		plans:   gocache.New(planCacheTTL, 2*planCacheTTL),
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		log:     log,
	}
}

// CurrentPrices returns room kind -> occupancy -> price over the pricing
// horizon.
func (m *Manager) CurrentPrices(ctx context.Context) (map[int]map[int]float64, error) {
	today := time.Now().UTC()
	from := today.Format(domain.DateLayout)
	to := today.AddDate(0, 0, pricingHorizonDays).Format(domain.DateLayout)
	prices, err := m.pms.FetchRates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching current rates: %w", err)
	}
	return prices, nil
}

// BasePlanID resolves the rate plan receiving pushes: the plan flagged as
// base, else the first one. The plan list is cached for a few minutes.
func (m *Manager) BasePlanID(ctx context.Context) (int, error) {
	if cached, ok := m.plans.Get(planCacheKey); ok {
		if plans, ok := cached.([]ports.RatePlan); ok {
			return pickBasePlan(plans)
		}
	}

	plans, err := m.pms.FetchRatePlans(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching rate plans: %w", err)
	}
	m.plans.Set(planCacheKey, plans, gocache.DefaultExpiration)
	return pickBasePlan(plans)
}

func pickBasePlan(plans []ports.RatePlan) (int, error) {
	if len(plans) == 0 {
		return 0, fmt.Errorf("no rate plans configured")
	}
	for _, plan := range plans {
		if plan.IsBasePlan {
			return plan.ID, nil
		}
	}
	return plans[0].ID, nil
}

// PriceFor returns the standard-occupancy price for a room, falling back to
// the lowest occupancy row present. 0 means no price is known.
func PriceFor(prices map[int]map[int]float64, roomKindID int) float64 {
	rows, ok := prices[roomKindID]
	if !ok || len(rows) == 0 {
		return 0
	}
	if price, ok := rows[standardOccupancy]; ok {
		return price
	}
	lowest := -1
	for occupancy := range rows {
		if lowest < 0 || occupancy < lowest {
			lowest = occupancy
		}
	}
	return rows[lowest]
}

// NewPrice applies a percentage change to a price, rounded to whole currency
// units.
func NewPrice(current, changePct float64) float64 {
	return math.Round(current * (1 + changePct/100))
}

// ApplyChange pushes a percentage change for one room and date.
func (m *Manager) ApplyChange(ctx context.Context, roomKindID int, date string, changePct float64) (*ports.RatePushResult, error) {
	prices, err := m.CurrentPrices(ctx)
	if err != nil {
		return nil, err
	}
	planID, err := m.BasePlanID(ctx)
	if err != nil {
		return nil, err
	}
	result := m.pushOne(ctx, prices, planID, "", roomKindID, date, changePct)
	return &result, nil
}

// ApplyRecommendations pushes a batch of recommendation changes. Prices and
// the base plan are resolved once; individual pushes are paced. Per-item
// failures land in the report, not in the error return.
func (m *Manager) ApplyRecommendations(ctx context.Context, requests []ports.RatePushRequest) (*ports.RatePushReport, error) {
	prices, err := m.CurrentPrices(ctx)
	if err != nil {
		return nil, err
	}
	planID, err := m.BasePlanID(ctx)
	if err != nil {
		return nil, err
	}

	report := &ports.RatePushReport{
		Total:   len(requests),
		Results: make([]ports.RatePushResult, 0, len(requests)),
	}
	for _, req := range requests {
		result := m.applyOne(ctx, prices, planID, req)
		if result.Success {
			report.SuccessCount++
		} else {
			report.ErrorCount++
		}
		report.Results = append(report.Results, result)
	}
	report.Success = report.ErrorCount == 0

	m.log.Info("recommendation batch pushed",
		zap.Int("total", report.Total),
		zap.Int("pushed", report.SuccessCount),
		zap.Int("failed", report.ErrorCount))
	return report, nil
}

func (m *Manager) applyOne(ctx context.Context, prices map[int]map[int]float64, planID int, req ports.RatePushRequest) ports.RatePushResult {
	date, roomRef, err := domain.ParseRecommendationID(req.ID)
	if err != nil {
		return ports.RatePushResult{RecommendationID: req.ID, Error: err.Error()}
	}
	if roomRef == domain.DailySuffix {
		return ports.RatePushResult{
			RecommendationID: req.ID,
			Date:             date,
			Error:            "daily recommendations cannot be pushed, only room rows",
		}
	}
	roomKindID, err := strconv.Atoi(roomRef)
	if err != nil {
		return ports.RatePushResult{
			RecommendationID: req.ID,
			Date:             date,
			Error:            fmt.Sprintf("malformed room kind id %q", roomRef),
		}
	}
	if req.ChangePct == 0 {
		return ports.RatePushResult{
			RecommendationID: req.ID,
			RoomKindID:       roomKindID,
			Date:             date,
			Success:          true,
		}
	}
	return m.pushOne(ctx, prices, planID, req.ID, roomKindID, date, req.ChangePct)
}

func (m *Manager) pushOne(ctx context.Context, prices map[int]map[int]float64, planID int, recommendationID string, roomKindID int, date string, changePct float64) ports.RatePushResult {
	result := ports.RatePushResult{
		RecommendationID: recommendationID,
		RoomKindID:       roomKindID,
		Date:             date,
		ChangePct:        changePct,
		RatePlanID:       planID,
	}

	// EQC-disabled deployments run without a push client.
	if m.push == nil {
		result.Error = "channel manager not configured"
		telemetry.RatePushesTotal.WithLabelValues("error").Inc()
		m.publishPush(result)
		return result
	}

	current := PriceFor(prices, roomKindID)
	if current <= 0 {
		result.Error = fmt.Sprintf("no current price for room kind %d", roomKindID)
		telemetry.RatePushesTotal.WithLabelValues("error").Inc()
		m.publishPush(result)
		return result
	}
	result.CurrentPrice = current
	result.NewPrice = NewPrice(current, changePct)

	if err := m.limiter.Wait(ctx); err != nil {
		result.Error = err.Error()
		telemetry.RatePushesTotal.WithLabelValues("error").Inc()
		return result
	}

	if err := m.push.UpdateRate(ctx, roomKindID, planID, date, result.NewPrice); err != nil {
		result.Error = err.Error()
		telemetry.RatePushesTotal.WithLabelValues("error").Inc()
		m.log.Warn("rate push failed",
			zap.Int("room_kind_id", roomKindID),
			zap.String("date", date),
			zap.Error(err))
		m.publishPush(result)
		return result
	}

	result.Success = true
	telemetry.RatePushesTotal.WithLabelValues("success").Inc()
	m.log.Info("rate pushed",
		zap.Int("room_kind_id", roomKindID),
		zap.String("date", date),
		zap.Float64("change_pct", changePct),
		zap.Float64("new_price", result.NewPrice))
	m.publishPush(result)
	return result
}

type ratePushedEvent struct {
	RecommendationID string  `json:"recommendation_id"`
	RoomKindID       int     `json:"room_kind_id"`
	NewPrice         float64 `json:"new_price"`
	Success          bool    `json:"success"`
}

func (m *Manager) publishPush(result ports.RatePushResult) {
	if m.events == nil {
		return
	}
	data, err := json.Marshal(ratePushedEvent{
		RecommendationID: result.RecommendationID,
		RoomKindID:       result.RoomKindID,
		NewPrice:         result.NewPrice,
		Success:          result.Success,
	})
	if err != nil {
		return
	}
	if err := m.events.Publish(queue.SubjectRatesPushed, data); err != nil {
		m.log.Debug("rate push event publish failed", zap.Error(err))
	}
}
