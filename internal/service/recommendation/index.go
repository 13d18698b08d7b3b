package recommendation

import (
	"time"

	"github.com/ratesense/ratesense/internal/domain"
)

// yearsBack bounds the same-weekday lookback window.
const yearsBack = 5

// daysBetween counts whole calendar days from one date to another, ignoring
// the time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// historyIndex gives the generator O(1) access to room-night observations by
// (room, date), built once per engine run.
type historyIndex struct {
	byRoomDate map[int]map[string]bool
}

func newHistoryIndex(history []domain.OccupancyRecord) *historyIndex {
	idx := &historyIndex{byRoomDate: make(map[int]map[string]bool)}
	for _, rec := range history {
		dates := idx.byRoomDate[rec.RoomKindID]
		if dates == nil {
			dates = make(map[string]bool)
			idx.byRoomDate[rec.RoomKindID] = dates
		}
		dates[rec.Date.Format(domain.DateLayout)] = rec.Occupied
	}
	return idx
}

// isoEquivalentDate maps (year, isoWeek, weekday) to a calendar date using the
// January-4th anchor. Around week-53 boundaries the result can land in the
// neighbouring year; the approximation is deliberate and kept as-is.
func isoEquivalentDate(year, week, weekday int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	startOfYear := jan4.AddDate(0, 0, -domain.WeekdayIndex(jan4))
	return startOfYear.AddDate(0, 0, (week-1)*7+weekday)
}

// weekdayObservation is one prior-year observation of a room on the
// ISO-equivalent date of a target day.
type weekdayObservation struct {
	Year     int
	Date     string
	Occupied bool
}

// sameWeekdayHistory collects the room's observations on the ISO-equivalent
// date of target for the preceding years, newest first. Years without a
// record are simply absent.
func (idx *historyIndex) sameWeekdayHistory(roomKindID int, target time.Time) []weekdayObservation {
	dates := idx.byRoomDate[roomKindID]
	if dates == nil {
		return nil
	}

	_, week := target.ISOWeek()
	weekday := domain.WeekdayIndex(target)

	var results []weekdayObservation
	for year := target.Year() - 1; year >= target.Year()-yearsBack; year-- {
		key := isoEquivalentDate(year, week, weekday).Format(domain.DateLayout)
		if occupied, ok := dates[key]; ok {
			results = append(results, weekdayObservation{Year: year, Date: key, Occupied: occupied})
		}
	}
	return results
}

// lastYearOccupied reports whether the room was occupied on last year's
// ISO-equivalent date, false when no observation exists.
func lastYearOccupied(history []weekdayObservation, targetYear int) bool {
	for _, obs := range history {
		if obs.Year == targetYear-1 {
			return obs.Occupied
		}
	}
	return false
}

// lastYearDailyOccupancy is the hotel-wide occupancy on last year's
// ISO-equivalent date of target, over the rooms that have an observation for
// it. Defaults to the neutral 50 when none do.
func (idx *historyIndex) lastYearDailyOccupancy(catalog domain.RoomCatalog, target time.Time) float64 {
	_, week := target.ISOWeek()
	weekday := domain.WeekdayIndex(target)
	key := isoEquivalentDate(target.Year()-1, week, weekday).Format(domain.DateLayout)

	occupied, total := 0, 0
	for id := range catalog {
		dates := idx.byRoomDate[id]
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
