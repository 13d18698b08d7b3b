package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AdjustmentType is the direction of a recommended rate change.
type AdjustmentType string

const (
	AdjustmentMarkup   AdjustmentType = "markup"
	AdjustmentDiscount AdjustmentType = "discount"
	AdjustmentNoChange AdjustmentType = "no_change"
)

// DecisionState tracks what the operator did with a recommendation.
type DecisionState string

const (
	DecisionPending  DecisionState = "pending"
	DecisionApproved DecisionState = "approved"
	DecisionRejected DecisionState = "rejected"
	DecisionModified DecisionState = "modified"
)

// Actionable reports whether the state is a verdict an operator can submit.
func (s DecisionState) Actionable() bool {
	switch s {
	case DecisionApproved, DecisionRejected, DecisionModified:
		return true
	}
	return false
}

// Factors is the closed input set the rule tables evaluate for one
// (date, room) cell. Rules read factors, never raw history.
type Factors struct {
	IsOccupied           bool
	SameWeekdayOccupancy float64
	LastYearSameWeekday  bool
	DaysUntil            int
	Weekday              int
	IsWeekend            bool
	HolidayName          string
	HolidayImpact        float64
	Season               Season
}

// Outcome is what a pricing rule produces when it fires.
type Outcome struct {
	Type      AdjustmentType
	ChangePct float64
	Reason    string
}

// Recommendation is one per-room rate adjustment suggestion. Records are
// built once by the engine and never mutated afterwards.
type Recommendation struct {
	ID                      string         `json:"id"`
	Date                    string         `json:"date"`
	Weekday                 string         `json:"weekday"`
	RoomKindID              int            `json:"room_kind_id"`
	RoomName                string         `json:"room_name"`
	Category                RoomCategory   `json:"category"`
	Capacity                int            `json:"capacity"`
	Type                    AdjustmentType `json:"type"`
	ChangePct               float64        `json:"change"`
	Reason                  string         `json:"reason"`
	Confidence              float64        `json:"confidence"`
	IsOccupied              bool           `json:"is_occupied"`
	DaysUntil               int            `json:"days_until"`
	IsWeekend               bool           `json:"is_weekend"`
	HolidayName             string         `json:"holiday"`
	HolidayImpact           float64        `json:"holiday_impact"`
	Season                  string         `json:"season"`
	SameWeekdayOccupancy    float64        `json:"same_weekday_occupancy"`
	HistoricalOccupancyRate float64        `json:"historical_occupancy_rate"`
	LastYearSameWeekday     bool           `json:"last_year_same_weekday"`
	Decision                DecisionState  `json:"decision"`
}

// DailyRecommendation is the hotel-wide suggestion for one date.
// HolidayEffect and RoomCountWithRecommendations are filled by the precompute
// pipeline only.
type DailyRecommendation struct {
	ID                           string         `json:"id"`
	Date                         string         `json:"date"`
	Weekday                      string         `json:"weekday"`
	Type                         AdjustmentType `json:"type"`
	ChangePct                    float64        `json:"change"`
	Reason                       string         `json:"reason"`
	Confidence                   float64        `json:"confidence"`
	OccupancyPct                 float64        `json:"occupancy_pct"`
	HistoricalAvg                float64        `json:"historical_avg"`
	LastYearOccupancy            float64        `json:"last_year_occupancy"`
	DaysUntil                    int            `json:"days_until"`
	IsWeekend                    bool           `json:"is_weekend"`
	HolidayName                  string         `json:"holiday"`
	HolidayImpact                float64        `json:"holiday_impact"`
	Season                       string         `json:"season"`
	Decision                     DecisionState  `json:"decision"`
	HolidayEffect                *HolidayImpact `json:"holiday_effect,omitempty"`
	RoomCountWithRecommendations int            `json:"room_count_with_recommendations,omitempty"`
}

// RecommendationPayload is the full output of one engine run.
type RecommendationPayload struct {
	Daily           []DailyRecommendation    `json:"daily"`
	Recommendations []Recommendation         `json:"recommendations"`
	Count           int                      `json:"count"`
	DailyCount      int                      `json:"daily_count"`
	LearnedHolidays map[string]HolidayImpact `json:"learned_holidays"`
	ComputedAt      time.Time                `json:"computed_at"`
}

// StoredPayload is the persisted precompute result, one row per hotel.
type StoredPayload struct {
	Key        string    `json:"key" gorm:"primaryKey"`
	Payload    []byte    `json:"-" gorm:"type:jsonb"`
	ComputedAt time.Time `json:"computed_at"`
}

// DailySuffix is the room-reference token of hotel-wide recommendation IDs.
const DailySuffix = "daily"

// RecommendationID builds the per-room ID. The "{date}_{roomKindID}" format
// is parsed downstream by the rate-push workflow and must stay stable.
func RecommendationID(date string, roomKindID int) string {
	return fmt.Sprintf("%s_%d", date, roomKindID)
}

// DailyRecommendationID builds the hotel-wide ID for a date.
func DailyRecommendationID(date string) string {
	return fmt.Sprintf("%s_%s", date, DailySuffix)
}

// PayloadKey is the storage key of a hotel's precomputed payload.
func PayloadKey(hotelID string) string {
	return hotelID + "_recommendations"
}

// ParseRecommendationID splits an ID on its last underscore into the date
// part and the room reference ("daily" or a numeric room kind ID).
func ParseRecommendationID(id string) (date, roomRef string, err error) {
	i := strings.LastIndex(id, "_")
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("malformed recommendation id %q", id)
	}
	return id[:i], id[i+1:], nil
}

// Round1 rounds to one decimal place, the precision of occupancy percentages
// and rate changes.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, the precision of impacts and
// confidence values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
