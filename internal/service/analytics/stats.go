package analytics

import (
	"sort"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/pattern"
)

// BuildStatistics summarizes what the engine has learned from a hotel's
// history: data coverage, per-weekday averages, category counts and the
// learned holiday impacts.
func BuildStatistics(history []domain.OccupancyRecord, catalog domain.RoomCatalog, calendar *holiday.Calendar, today time.Time) *ports.Statistics {
	patterns := pattern.Calculate(history, today.Year())
	impacts := holiday.NewImpactLearner(calendar).Learn(history)

	rooms := make(map[int]struct{})
	years := make(map[int]struct{})
	for _, rec := range history {
		rooms[rec.RoomKindID] = struct{}{}
		years[rec.Year] = struct{}{}
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Ints(yearList)

	stats := &ports.Statistics{
		TotalRecords:    len(history),
		RoomsCount:      len(rooms),
		YearsOfData:     len(years),
		Years:           yearList,
		LearnedHolidays: impacts,
		ByWeekday:       make(map[string]ports.WeekdayStats),
		ByCategory:      make(map[string]ports.CategoryStats),
	}

	for wd := 0; wd < 7; wd++ {
		var total float64
		var count int
		for key, pt := range patterns {
			if key.Weekday == wd {
				total += pt.WeightedOccupancy
				count++
			}
		}
		if count == 0 {
			continue
		}
		stats.ByWeekday[domain.WeekdayName(wd)] = ports.WeekdayStats{
			AvgOccupancy: domain.Round1(total / float64(count)),
			IsWeekend:    domain.IsWeekendDay(wd),
		}
	}

	for _, category := range domain.PricedCategories {
		count := 0
		for _, rk := range catalog {
			if rk.Category == category {
				count++
			}
		}
		stats.ByCategory[string(category)] = ports.CategoryStats{
			Name:      category.DisplayName(),
			RoomCount: count,
		}
	}

	return stats
}
