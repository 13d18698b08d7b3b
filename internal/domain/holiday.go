package domain

// ImpactEffect labels the learned direction of a holiday's occupancy effect.
type ImpactEffect string

const (
	EffectPositive ImpactEffect = "positive"
	EffectNegative ImpactEffect = "negative"
	EffectNeutral  ImpactEffect = "neutral"
)

// HolidayImpact is the learned occupancy effect of one named holiday relative
// to its weekday baseline. Impact is clamped to [-1, 1].
type HolidayImpact struct {
	Impact            float64      `json:"impact"`
	HolidayOccupancy  float64      `json:"holiday_occupancy"`
	BaselineOccupancy float64      `json:"baseline_occupancy"`
	SampleCount       int          `json:"sample_count"`
	Effect            ImpactEffect `json:"effect"`
}

// SeasonLevel ranks expected demand by season.
type SeasonLevel string

const (
	SeasonLow      SeasonLevel = "low"
	SeasonShoulder SeasonLevel = "shoulder"
	SeasonHigh     SeasonLevel = "high"
	SeasonPeak     SeasonLevel = "peak"
)

// Season is the named demand season a date falls into.
type Season struct {
	Name  string      `json:"name"`
	Level SeasonLevel `json:"type"`
}
