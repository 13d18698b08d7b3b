package ports

import (
	"context"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
)

// HistoryService loads a hotel's full occupancy history, caching pages for a
// few minutes so repeated engine runs don't hammer the database.
type HistoryService interface {
	Load(ctx context.Context, hotelID string) ([]domain.OccupancyRecord, error)
	Invalidate(ctx context.Context, hotelID string)
}

// RecommendationService runs the pricing engine.
type RecommendationService interface {
	// Payload returns the precomputed payload when one exists, falling back
	// to a live computation.
	Payload(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)

	// Compute runs the engine against the live availability snapshot.
	Compute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)

	// Precompute computes, persists and announces a fresh payload.
	Precompute(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)
}

// DecisionService records operator verdicts and applies approved ones.
type DecisionService interface {
	Record(ctx context.Context, recommendationID string, decision domain.DecisionState, userChange *float64) (*DecisionResult, error)
	Log(ctx context.Context) (*DecisionLog, error)
}

// DecisionResult reports what happened to a recorded verdict.
type DecisionResult struct {
	RecommendationID string               `json:"rec_id"`
	Decision         domain.DecisionState `json:"decision"`
	Saved            bool                 `json:"saved"`
	Applied          bool                 `json:"applied"`
	Push             *RatePushResult      `json:"push,omitempty"`
	Note             string               `json:"note,omitempty"`
}

// DecisionLog is the decision history together with the learner's summary.
type DecisionLog struct {
	Decisions []domain.Decision    `json:"decisions"`
	Stats     domain.DecisionStats `json:"stats"`
}

// AnalyticsService serves the dashboard numbers derived from the history.
type AnalyticsService interface {
	Predictions(ctx context.Context, hotelID string, daysAhead int) ([]domain.OccupancyForecast, error)
	Statistics(ctx context.Context, hotelID string) (*Statistics, error)
	YearComparison(ctx context.Context, hotelID string) (*YearComparison, error)
}

// Statistics summarizes the learned history.
type Statistics struct {
	TotalRecords    int                             `json:"total_records"`
	RoomsCount      int                             `json:"rooms_count"`
	YearsOfData     int                             `json:"years_of_data"`
	Years           []int                           `json:"years"`
	LearnedHolidays map[string]domain.HolidayImpact `json:"learned_holidays"`
	ByWeekday       map[string]WeekdayStats         `json:"by_weekday"`
	ByCategory      map[string]CategoryStats        `json:"by_category"`
}

// WeekdayStats is the average occupancy of one weekday across all rooms.
type WeekdayStats struct {
	AvgOccupancy float64 `json:"avg_occupancy"`
	IsWeekend    bool    `json:"is_weekend"`
}

// CategoryStats counts catalog rooms per priced category.
type CategoryStats struct {
	Name      string `json:"name"`
	RoomCount int    `json:"room_count"`
}

// YearComparison contrasts the current week with the same week last year.
type YearComparison struct {
	CurrentWeekAvg  float64                         `json:"current_week_avg"`
	LastYearWeekAvg float64                         `json:"last_year_week_avg"`
	HistoricalAvg   float64                         `json:"historical_avg"`
	Difference      float64                         `json:"difference"`
	Days            []ComparisonDay                 `json:"days"`
	Season          domain.Season                   `json:"season"`
	LearnedHolidays map[string]domain.HolidayImpact `json:"learned_holidays"`
}

// ComparisonDay is one day of the comparison week. Current is nil when no
// fresh snapshot reading exists for the day.
type ComparisonDay struct {
	Date          string   `json:"date"`
	DayName       string   `json:"day_name"`
	Current       *float64 `json:"current"`
	LastYear      float64  `json:"last_year"`
	IsWeekend     bool     `json:"is_weekend"`
	Holiday       string   `json:"holiday"`
	HolidayImpact *float64 `json:"holiday_impact"`
}

// RateService reads current prices from the PMS and pushes adjustments back.
type RateService interface {
	// CurrentPrices returns room kind -> occupancy -> price.
	CurrentPrices(ctx context.Context) (map[int]map[int]float64, error)

	// BasePlanID resolves the base rate plan, falling back to the first one.
	BasePlanID(ctx context.Context) (int, error)

	// ApplyChange pushes a percentage change for one room and date.
	ApplyChange(ctx context.Context, roomKindID int, date string, changePct float64) (*RatePushResult, error)

	// ApplyRecommendations pushes a batch of recommendation changes, pacing
	// the individual pushes.
	ApplyRecommendations(ctx context.Context, requests []RatePushRequest) (*RatePushReport, error)
}

// RatePushRequest asks for one recommendation's change to be pushed.
type RatePushRequest struct {
	ID        string  `json:"id"`
	ChangePct float64 `json:"change_percent"`
}

// RatePushResult is the outcome of a single rate push.
type RatePushResult struct {
	RecommendationID string  `json:"rec_id,omitempty"`
	RoomKindID       int     `json:"room_kind_id"`
	Date             string  `json:"date"`
	ChangePct        float64 `json:"change_percent"`
	RatePlanID       int     `json:"rate_plan_id,omitempty"`
	CurrentPrice     float64 `json:"current_price,omitempty"`
	NewPrice         float64 `json:"new_price,omitempty"`
	Success          bool    `json:"success"`
	Error            string  `json:"error,omitempty"`
}

// RatePushReport aggregates a batch of pushes. Success means zero errors.
type RatePushReport struct {
	Success      bool             `json:"success"`
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Results      []RatePushResult `json:"results"`
}

// RoomService serves the room catalog and the live availability picture.
type RoomService interface {
	Catalog(ctx context.Context) ([]domain.RoomKind, error)
	CatalogMap(ctx context.Context) (domain.RoomCatalog, error)
	Availability(ctx context.Context, days int) (*domain.AvailabilitySnapshot, error)
}

// ExportService renders the recommendation payload for download.
type ExportService interface {
	// CSV returns the semicolon-separated export and its suggested filename.
	CSV(ctx context.Context, hotelID string) ([]byte, string, error)

	// JSON returns the payload enriched with current prices.
	JSON(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error)
}

// StatusService aggregates component health and run indicators.
type StatusService interface {
	Status(ctx context.Context) *StatusReport
	SelfTest(ctx context.Context) *SelfTestReport
}

// StatusReport is the dashboard status snapshot.
type StatusReport struct {
	Status              string            `json:"status"`
	Timestamp           time.Time         `json:"timestamp"`
	Hotel               string            `json:"hotel"`
	Version             string            `json:"version"`
	Components          map[string]string `json:"components"`
	LastComputedAt      *time.Time        `json:"last_computed_at,omitempty"`
	RecommendationCount int               `json:"recommendation_count"`
	DailyCount          int               `json:"daily_count"`
}

// SelfTestReport is the connectivity check across the PMS surfaces.
type SelfTestReport struct {
	RestAPI     bool   `json:"rest_api"`
	RatesAPI    bool   `json:"rates_api"`
	EqcAPI      bool   `json:"eqc_api"`
	RoomsCount  int    `json:"rooms_count"`
	PricesCount int    `json:"prices_count"`
	EqcMessage  string `json:"eqc_message,omitempty"`
}

// AuthService exchanges the configured API key for short-lived JWTs and
// validates them on protected routes.
type AuthService interface {
	IssueToken(ctx context.Context, apiKey string) (string, time.Time, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims is the validated identity attached to a request.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// EmailService sends operational mail.
type EmailService interface {
	Send(ctx context.Context, to []string, subject, body string) error
	SendHTML(ctx context.Context, to []string, subject, htmlBody string) error

	// SendDigest mails the post-precompute summary to the configured
	// recipients.
	SendDigest(ctx context.Context, payload *domain.RecommendationPayload) error
}
