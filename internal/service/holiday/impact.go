package holiday

import (
	"github.com/ratesense/ratesense/internal/domain"
)

// minImpactSamples is how many observed room-nights a holiday needs before
// its impact is trusted.
const minImpactSamples = 5

// ImpactLearner scores holidays against their weekday occupancy baseline.
type ImpactLearner struct {
	calendar *Calendar
}

// NewImpactLearner creates a learner over the given calendar.
func NewImpactLearner(calendar *Calendar) *ImpactLearner {
	return &ImpactLearner{calendar: calendar}
}

type holidayBucket struct {
	total    int
	occupied int
	weekdays []int // one entry per record, multiplicity matters for the baseline
}

// Learn partitions history into holiday and baseline records, derives the
// per-weekday baseline occupancy from the ordinary days, and scores every
// holiday with at least minImpactSamples records against it. Holidays with
// fewer records are absent from the result; callers treat them as impact 0.
func (l *ImpactLearner) Learn(history []domain.OccupancyRecord) map[string]domain.HolidayImpact {
	buckets := make(map[string]*holidayBucket)
	var baselineTotal, baselineOccupied [7]int

	for _, rec := range history {
		if rec.Weekday < 0 || rec.Weekday > 6 {
			continue
		}
		name := l.calendar.Name(rec.Date)
		if name == "" {
			baselineTotal[rec.Weekday]++
			if rec.Occupied {
				baselineOccupied[rec.Weekday]++
			}
			continue
		}
		b := buckets[name]
		if b == nil {
			b = &holidayBucket{}
			buckets[name] = b
		}
		b.total++
		if rec.Occupied {
			b.occupied++
		}
		b.weekdays = append(b.weekdays, rec.Weekday)
	}

	weekdayAvg := make(map[int]float64)
	for wd := 0; wd < 7; wd++ {
		if baselineTotal[wd] > 0 {
			weekdayAvg[wd] = float64(baselineOccupied[wd]) / float64(baselineTotal[wd]) * 100
		}
	}

	impacts := make(map[string]domain.HolidayImpact)
	for name, b := range buckets {
		if b.total < minImpactSamples {
			continue
		}

		holidayOccupancy := float64(b.occupied) / float64(b.total) * 100

		var baselineSum float64
		var baselineCount int
		for _, wd := range b.weekdays {
			if avg, ok := weekdayAvg[wd]; ok {
				baselineSum += avg
				baselineCount++
			}
		}
		baseline := 50.0
		if baselineCount > 0 {
			baseline = baselineSum / float64(baselineCount)
		}

		raw := 0.0
		if baseline > 0 {
			raw = (holidayOccupancy - baseline) / baseline
		}
		impact := raw
		if impact > 1 {
			impact = 1
		}
		if impact < -1 {
			impact = -1
		}

		effect := domain.EffectNeutral
		if impact > 0.1 {
			effect = domain.EffectPositive
		} else if impact < -0.1 {
			effect = domain.EffectNegative
		}

		impacts[name] = domain.HolidayImpact{
			Impact:            domain.Round2(impact),
			HolidayOccupancy:  domain.Round1(holidayOccupancy),
			BaselineOccupancy: domain.Round1(baseline),
			SampleCount:       b.total,
			Effect:            effect,
		}
	}

	return impacts
}

// ImpactOf returns the learned impact for a holiday name, 0 when the map does
// not know it.
func ImpactOf(impacts map[string]domain.HolidayImpact, name string) float64 {
	if hi, ok := impacts[name]; ok {
		return hi.Impact
	}
	return 0
}
