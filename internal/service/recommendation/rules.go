package recommendation

import (
	"fmt"
	"math"

	"github.com/ratesense/ratesense/internal/domain"
)

// roomRule is one entry of the per-room pricing table: a predicate over the
// factors and the outcome produced when it fires. Tables are evaluated top to
// bottom, first match wins. Changes are base percentages; the caller applies
// the category modifier and the decision-feedback adjustment afterwards.
type roomRule struct {
	when func(f domain.Factors) bool
	fire func(f domain.Factors) domain.Outcome
}

var roomRules = []roomRule{
	{
		when: func(f domain.Factors) bool { return f.IsOccupied },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{Type: domain.AdjustmentNoChange, Reason: "Pokoj je obsazený"}
		},
	},
	{
		when: func(f domain.Factors) bool {
			return f.HolidayName != "" && f.HolidayImpact != 0 && f.HolidayImpact > 0.2
		},
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 15 * (1 + f.HolidayImpact),
				Reason:    fmt.Sprintf("Svátek (%s) má pozitivní vliv (+%.0f%%)", f.HolidayName, f.HolidayImpact*100),
			}
		},
	},
	{
		when: func(f domain.Factors) bool {
			return f.HolidayName != "" && f.HolidayImpact != 0 && f.HolidayImpact < -0.2
		},
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -15 * (1 + math.Abs(f.HolidayImpact)),
				Reason:    fmt.Sprintf("Svátek (%s) má negativní vliv (%.0f%%)", f.HolidayName, f.HolidayImpact*100),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.IsWeekend && f.SameWeekdayOccupancy > 70 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 12,
				Reason:    fmt.Sprintf("Víkend s vysokou historickou obsazeností (%.1f%%)", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool {
			return f.IsWeekend && f.SameWeekdayOccupancy < 40 && f.DaysUntil <= 7
		},
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -12,
				Reason:    fmt.Sprintf("Víkend s nízkou obsazeností (%.1f%%)", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.DaysUntil <= 3 && f.SameWeekdayOccupancy < 40 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -20,
				Reason:    fmt.Sprintf("Blízký termín (%dd), nízká hist. obsazenost (%.1f%%)", f.DaysUntil, f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.DaysUntil <= 3 && f.SameWeekdayOccupancy < 60 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -15,
				Reason:    fmt.Sprintf("Blízký termín (%dd)", f.DaysUntil),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.DaysUntil <= 7 && f.SameWeekdayOccupancy < 50 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -12,
				Reason:    fmt.Sprintf("Pokoj obvykle obsazený jen %.1f%% času", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.DaysUntil <= 7 && f.LastYearSameWeekday },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -10,
				Reason:    fmt.Sprintf("Loni byl v tento den (%s) obsazený", domain.WeekdayName(f.Weekday)),
			}
		},
	},
	{
		when: func(f domain.Factors) bool {
			return f.Season.Level == domain.SeasonPeak && f.SameWeekdayOccupancy > 70
		},
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 12,
				Reason:    fmt.Sprintf("Hlavní sezóna, vysoká poptávka (%.1f%%)", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool {
			return f.Season.Level == domain.SeasonLow && f.SameWeekdayOccupancy < 40
		},
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -10,
				Reason:    fmt.Sprintf("Mimo sezónu, nízká hist. obsazenost (%.1f%%)", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.DaysUntil <= 14 && f.SameWeekdayOccupancy < 50 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -10,
				Reason:    fmt.Sprintf("Hist. obsazenost %.1f%%", f.SameWeekdayOccupancy),
			}
		},
	},
	{
		when: func(f domain.Factors) bool { return f.SameWeekdayOccupancy > 80 },
		fire: func(f domain.Factors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 12,
				Reason:    fmt.Sprintf("Vysoká historická poptávka (%.1f%%)", f.SameWeekdayOccupancy),
			}
		},
	},
}

// decideRoomChange runs the per-room table and falls through to no_change.
func decideRoomChange(f domain.Factors) domain.Outcome {
	for _, r := range roomRules {
		if r.when(f) {
			return r.fire(f)
		}
	}
	return domain.Outcome{Type: domain.AdjustmentNoChange}
}

// dailyFactors is the input of the hotel-wide table. OccupancyPct is the live
// snapshot occupancy, HistoricalAvg the weekday pattern average over rooms.
type dailyFactors struct {
	OccupancyPct  float64
	HistoricalAvg float64
	DaysUntil     int
	HolidayName   string
	HolidayImpact float64
}

func (f dailyFactors) diff() float64 {
	return f.OccupancyPct - f.HistoricalAvg
}

type dailyRule struct {
	when func(f dailyFactors) bool
	fire func(f dailyFactors) domain.Outcome
}

var dailyRules = []dailyRule{
	{
		when: func(f dailyFactors) bool {
			return f.HolidayName != "" && f.HolidayImpact != 0 && f.HolidayImpact > 0.2 && f.OccupancyPct > 70
		},
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 20 * (1 + f.HolidayImpact),
				Reason:    fmt.Sprintf("Svátek (%s) + vysoká obsazenost", f.HolidayName),
			}
		},
	},
	{
		when: func(f dailyFactors) bool {
			return f.HolidayName != "" && f.HolidayImpact != 0 && f.HolidayImpact < -0.2 && f.DaysUntil <= 14
		},
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -15 * (1 + math.Abs(f.HolidayImpact)),
				Reason:    fmt.Sprintf("Svátek (%s) - historicky nízká poptávka", f.HolidayName),
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.OccupancyPct < 20 && f.DaysUntil <= 7 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -20,
				Reason:    fmt.Sprintf("Kriticky nízká obsazenost (%.1f%%)", f.OccupancyPct),
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.OccupancyPct < 35 && f.DaysUntil <= 7 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -15,
				Reason:    fmt.Sprintf("Nízká obsazenost (%.1f%%)", f.OccupancyPct),
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.diff() < -20 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -15,
				Reason:    fmt.Sprintf("Pod průměrem (%.1f%% vs %.1f%%)", f.OccupancyPct, f.HistoricalAvg),
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.diff() < -10 && f.DaysUntil <= 14 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentDiscount,
				ChangePct: -10,
				Reason:    "Pod historickým průměrem",
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.OccupancyPct > 85 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 15,
				Reason:    fmt.Sprintf("Vysoká obsazenost (%.1f%%)", f.OccupancyPct),
			}
		},
	},
	{
		when: func(f dailyFactors) bool { return f.OccupancyPct > 70 && f.diff() > 10 },
		fire: func(f dailyFactors) domain.Outcome {
			return domain.Outcome{
				Type:      domain.AdjustmentMarkup,
				ChangePct: 10,
				Reason:    "Nad historickým průměrem",
			}
		},
	},
}

// decideDailyChange runs the hotel-wide table and falls through to no_change.
func decideDailyChange(f dailyFactors) domain.Outcome {
	for _, r := range dailyRules {
		if r.when(f) {
			return r.fire(f)
		}
	}
	return domain.Outcome{Type: domain.AdjustmentNoChange}
}
