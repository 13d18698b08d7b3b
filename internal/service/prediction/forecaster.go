package prediction

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/pattern"
)

// Forecaster projects how far each future date will fill by arrival, from the
// current snapshot plus the learned fill behaviour by lead time.
type Forecaster struct {
	calendar *holiday.Calendar
	log      *zap.Logger
}

// NewForecaster creates a forecaster over a holiday calendar.
func NewForecaster(calendar *holiday.Calendar, log *zap.Logger) *Forecaster {
	return &Forecaster{calendar: calendar, log: log}
}

// expectedFill estimates how many occupancy points a date still gains before
// arrival, by remaining lead time.
func expectedFill(daysUntil int) float64 {
	switch {
	case daysUntil <= 3:
		return 5
	case daysUntil <= 7:
		return 15
	case daysUntil <= 14:
		return 25
	default:
		return 35
	}
}

// Forecast projects final occupancy per date over the horizon. Learned
// holiday impact scales the remaining fill at half strength, weekends gain
// ten percent, and the projection is capped at full occupancy.
func (f *Forecaster) Forecast(snapshot *domain.AvailabilitySnapshot, history []domain.OccupancyRecord, today time.Time, daysAhead int) []domain.OccupancyForecast {
	impacts := holiday.NewImpactLearner(f.calendar).Learn(history)
	patterns := pattern.Calculate(history, today.Year())

	var forecasts []domain.OccupancyForecast
	for _, day := range snapshot.Flatten() {
		target, err := time.Parse(domain.DateLayout, day.Date)
		if err != nil {
			continue
		}

		daysUntil := daysBetween(today, target)
		if daysUntil <= 0 || daysUntil > daysAhead {
			continue
		}

		weekday := domain.WeekdayIndex(target)
		isWeekend := domain.IsWeekendDay(weekday)
		holidayName := f.calendar.Name(target)
		impact := 0.0
		if holidayName != "" {
			impact = holiday.ImpactOf(impacts, holidayName)
		}

		current := day.OccupancyPct()

		fill := expectedFill(daysUntil)
		if impact != 0 {
			fill *= 1 + impact*0.5
		}
		if isWeekend {
			fill *= 1.1
		}

		predicted := current + fill
		if predicted > 100 {
			predicted = 100
		}

		confidence := 0.5
		if daysUntil <= 7 {
			confidence = 0.7
		}

		forecast := domain.OccupancyForecast{
			Date:             day.Date,
			Weekday:          domain.WeekdayName(weekday),
			CurrentOccupancy: domain.Round1(current),
			PredictedFinal:   domain.Round1(predicted),
			HistoricalAvg:    domain.Round1(patterns.WeekdayAverage(weekday)),
			DaysUntil:        daysUntil,
			IsWeekend:        isWeekend,
			Holiday:          holidayName,
			Season:           holiday.SeasonFor(target).Name,
			Confidence:       confidence,
		}
		if holidayName != "" {
			rounded := domain.Round2(impact)
			forecast.HolidayImpact = &rounded
		}
		forecasts = append(forecasts, forecast)
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].Date < forecasts[j].Date
	})
	return forecasts
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
