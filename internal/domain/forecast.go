package domain

// OccupancyForecast is one date's projected fill over the booking horizon.
// HolidayImpact is nil when the date is not a learned holiday.
type OccupancyForecast struct {
	Date             string   `json:"date"`
	Weekday          string   `json:"weekday"`
	CurrentOccupancy float64  `json:"current_occupancy"`
	PredictedFinal   float64  `json:"predicted_final"`
	HistoricalAvg    float64  `json:"historical_avg"`
	DaysUntil        int      `json:"days_until"`
	IsWeekend        bool     `json:"is_weekend"`
	Holiday          string   `json:"holiday,omitempty"`
	HolidayImpact    *float64 `json:"holiday_impact,omitempty"`
	Season           string   `json:"season"`
	Confidence       float64  `json:"confidence"`
}
