package analytics

import (
	"time"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/pattern"
)

// BuildYearComparison contrasts the current calendar week, Monday first, with
// the ISO-equivalent week one year earlier. The current side stays empty; the
// caller has no stored live readings for the running week.
func BuildYearComparison(history []domain.OccupancyRecord, catalog domain.RoomCatalog, calendar *holiday.Calendar, today time.Time) *ports.YearComparison {
	patterns := pattern.Calculate(history, today.Year())
	impacts := holiday.NewImpactLearner(calendar).Learn(history)
	index := indexByRoomDate(history)

	weekStart := today.AddDate(0, 0, -domain.WeekdayIndex(today))

	comparison := &ports.YearComparison{
		Days:            make([]ports.ComparisonDay, 0, 7),
		Season:          holiday.SeasonFor(today),
		LearnedHolidays: impacts,
	}

	var lastYearSum float64
	for i := 0; i < 7; i++ {
		target := weekStart.AddDate(0, 0, i)
		weekday := domain.WeekdayIndex(target)
		holidayName := calendar.Name(target)

		lastYear := domain.Round1(lastYearEquivalentOccupancy(index, catalog, target))
		lastYearSum += lastYear

		day := ports.ComparisonDay{
			Date:      target.Format(domain.DateLayout),
			DayName:   domain.WeekdayName(weekday),
			LastYear:  lastYear,
			IsWeekend: domain.IsWeekendDay(weekday),
			Holiday:   holidayName,
		}
		if holidayName != "" {
			impact := domain.Round2(holiday.ImpactOf(impacts, holidayName))
			day.HolidayImpact = &impact
		}
		comparison.Days = append(comparison.Days, day)
	}

	comparison.LastYearWeekAvg = domain.Round1(lastYearSum / 7)
	comparison.HistoricalAvg = domain.Round1(patterns.WeekdayAverage(domain.WeekdayIndex(today)))
	comparison.Difference = domain.Round1(comparison.CurrentWeekAvg - comparison.LastYearWeekAvg)
	return comparison
}

func indexByRoomDate(history []domain.OccupancyRecord) map[int]map[string]bool {
	index := make(map[int]map[string]bool)
	for _, rec := range history {
		dates := index[rec.RoomKindID]
		if dates == nil {
			dates = make(map[string]bool)
			index[rec.RoomKindID] = dates
		}
		dates[rec.Date.Format(domain.DateLayout)] = rec.Occupied
	}
	return index
}

// lastYearEquivalentOccupancy is the hotel-wide occupancy on last year's
// ISO-equivalent date of target. The January-4th anchor mirrors the engine's
// lookup, week-53 edge cases included.
func lastYearEquivalentOccupancy(index map[int]map[string]bool, catalog domain.RoomCatalog, target time.Time) float64 {
	_, week := target.ISOWeek()
	weekday := domain.WeekdayIndex(target)

	jan4 := time.Date(target.Year()-1, time.January, 4, 0, 0, 0, 0, time.UTC)
	startOfYear := jan4.AddDate(0, 0, -domain.WeekdayIndex(jan4))
	key := startOfYear.AddDate(0, 0, (week-1)*7+weekday).Format(domain.DateLayout)

	occupied, total := 0, 0
	for id := range catalog {
		dates := index[id]
		if dates == nil {
			continue
		}
		if wasOccupied, ok := dates[key]; ok {
			total++
			if wasOccupied {
				occupied++
			}
		}
	}
	if total == 0 {
		return 50
	}
	return float64(occupied) / float64(total) * 100
}
