package recommendation

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/service/decision"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/pattern"
)

// Horizon is how many days ahead recommendations are generated for.
const Horizon = 60

// Generator turns an availability snapshot plus the learned history into the
// recommendation payload. It is a pure computation: all state is derived from
// the inputs at the start of a run, identical inputs give identical output.
type Generator struct {
	catalog  domain.RoomCatalog
	calendar *holiday.Calendar
	log      *zap.Logger
}

// NewGenerator creates a generator over a room catalog and holiday calendar.
func NewGenerator(catalog domain.RoomCatalog, calendar *holiday.Calendar, log *zap.Logger) *Generator {
	return &Generator{catalog: catalog, calendar: calendar, log: log}
}

// Generate runs the full engine: weekday patterns, holiday impacts and the
// decision feedback are learned from history, then every (date, room) cell of
// the snapshot inside the horizon is pushed through the rule tables. Room
// rows enter the payload when they carry a change or the room is free; both
// streams come out sorted by date.
func (g *Generator) Generate(snapshot *domain.AvailabilitySnapshot, history []domain.OccupancyRecord, decisions []domain.Decision, today time.Time) *domain.RecommendationPayload {
	payload := &domain.RecommendationPayload{
		Daily:           []domain.DailyRecommendation{},
		Recommendations: []domain.Recommendation{},
		ComputedAt:      time.Now().UTC(),
	}

	impacts := holiday.NewImpactLearner(g.calendar).Learn(history)
	payload.LearnedHolidays = impacts

	days := snapshot.Flatten()
	if len(days) == 0 {
		return payload
	}

	patterns := pattern.Calculate(history, today.Year())
	learner := decision.NewLearner(decisions)
	idx := newHistoryIndex(history)

	for _, day := range days {
		target, err := time.Parse(domain.DateLayout, day.Date)
		if err != nil {
			g.log.Debug("skipping unparseable availability date", zap.String("date", day.Date))
			continue
		}

		daysUntil := daysBetween(today, target)
		if daysUntil <= 0 || daysUntil > Horizon {
			continue
		}

		weekday := domain.WeekdayIndex(target)
		isWeekend := domain.IsWeekendDay(weekday)
		holidayName := g.calendar.Name(target)
		holidayImpact := 0.0
		if holidayName != "" {
			holidayImpact = holiday.ImpactOf(impacts, holidayName)
		}
		season := holiday.SeasonFor(target)

		occupied := 0
		for _, room := range day.RoomKinds {
			if room.Occupied() {
				occupied++
			}

			info := g.catalog.Resolve(room.ID)
			weekdayHistory := idx.sameWeekdayHistory(room.ID, target)
			pt, hasPattern := patterns.Get(room.ID, weekday)
			sameWeekdayOcc := pattern.DefaultOccupancy
			if hasPattern {
				sameWeekdayOcc = pt.WeightedOccupancy
			}

			f := domain.Factors{
				IsOccupied:           room.Occupied(),
				SameWeekdayOccupancy: sameWeekdayOcc,
				LastYearSameWeekday:  lastYearOccupied(weekdayHistory, target.Year()),
				DaysUntil:            daysUntil,
				Weekday:              weekday,
				IsWeekend:            isWeekend,
				HolidayName:          holidayName,
				HolidayImpact:        holidayImpact,
				Season:               season,
			}

			outcome := decideRoomChange(f)
			adjType, change := learner.Adjust(outcome.Type, outcome.ChangePct*info.Category.Modifier())

			rec := domain.Recommendation{
				ID:                      domain.RecommendationID(day.Date, room.ID),
				Date:                    day.Date,
				Weekday:                 domain.WeekdayName(weekday),
				RoomKindID:              room.ID,
				RoomName:                info.Name,
				Category:                info.Category,
				Capacity:                info.Capacity,
				Type:                    adjType,
				ChangePct:               domain.Round1(change),
				Reason:                  outcome.Reason,
				Confidence:              roomConfidence(pt, daysUntil, len(weekdayHistory), holidayName, impacts),
				IsOccupied:              f.IsOccupied,
				DaysUntil:               daysUntil,
				IsWeekend:               isWeekend,
				HolidayName:             holidayName,
				HolidayImpact:           domain.Round2(holidayImpact),
				Season:                  season.Name,
				SameWeekdayOccupancy:    domain.Round1(sameWeekdayOcc),
				HistoricalOccupancyRate: domain.Round1(sameWeekdayOcc),
				LastYearSameWeekday:     f.LastYearSameWeekday,
				Decision:                domain.DecisionPending,
			}

			if rec.Type != domain.AdjustmentNoChange || !rec.IsOccupied {
				payload.Recommendations = append(payload.Recommendations, rec)
			}
		}

		roomCount := 0
		for _, rec := range payload.Recommendations {
			if rec.Date == day.Date && rec.Type != domain.AdjustmentNoChange {
				roomCount++
			}
		}

		occupancyPct := day.OccupancyPct()
		historicalAvg := patterns.WeekdayAverage(weekday)

		dailyOutcome := decideDailyChange(dailyFactors{
			OccupancyPct:  occupancyPct,
			HistoricalAvg: historicalAvg,
			DaysUntil:     daysUntil,
			HolidayName:   holidayName,
			HolidayImpact: holidayImpact,
		})

		dailyConfidence := 0.7
		var holidayEffect *domain.HolidayImpact
		if hi, ok := impacts[holidayName]; holidayName != "" && ok {
			dailyConfidence += 0.1
			effect := hi
			holidayEffect = &effect
		}

		payload.Daily = append(payload.Daily, domain.DailyRecommendation{
			ID:                           domain.DailyRecommendationID(day.Date),
			Date:                         day.Date,
			Weekday:                      domain.WeekdayName(weekday),
			Type:                         dailyOutcome.Type,
			ChangePct:                    domain.Round1(dailyOutcome.ChangePct),
			Reason:                       dailyOutcome.Reason,
			Confidence:                   domain.Round2(dailyConfidence),
			OccupancyPct:                 domain.Round1(occupancyPct),
			HistoricalAvg:                domain.Round1(historicalAvg),
			LastYearOccupancy:            domain.Round1(idx.lastYearDailyOccupancy(g.catalog, target)),
			DaysUntil:                    daysUntil,
			IsWeekend:                    isWeekend,
			HolidayName:                  holidayName,
			HolidayImpact:                domain.Round2(holidayImpact),
			Season:                       season.Name,
			Decision:                     domain.DecisionPending,
			HolidayEffect:                holidayEffect,
			RoomCountWithRecommendations: roomCount,
		})
	}

	sort.SliceStable(payload.Daily, func(i, j int) bool {
		return payload.Daily[i].Date < payload.Daily[j].Date
	})
	sort.SliceStable(payload.Recommendations, func(i, j int) bool {
		return payload.Recommendations[i].Date < payload.Recommendations[j].Date
	})

	payload.Count = len(payload.Recommendations)
	payload.DailyCount = len(payload.Daily)
	return payload
}

// roomConfidence starts from the neutral 0.5 and bumps for sample depth,
// lookback coverage, lead time and a well-observed holiday, capped at 0.95.
func roomConfidence(pt pattern.Pattern, daysUntil, historyCount int, holidayName string, impacts map[string]domain.HolidayImpact) float64 {
	confidence := 0.5

	switch {
	case pt.SampleCount >= 50:
		confidence += 0.2
	case pt.SampleCount >= 20:
		confidence += 0.15
	case pt.SampleCount >= 10:
		confidence += 0.1
	}

	if historyCount >= 4 {
		confidence += 0.1
	}

	switch {
	case daysUntil <= 7:
		confidence += 0.1
	case daysUntil <= 14:
		confidence += 0.05
	}

	if holidayName != "" {
		if hi, ok := impacts[holidayName]; ok && hi.SampleCount >= 10 {
			confidence += 0.1
		}
	}

	if confidence > 0.95 {
		confidence = 0.95
	}
	return domain.Round2(confidence)
}
