package pattern

import (
	"sort"

	"github.com/ratesense/ratesense/internal/domain"
)

// DefaultOccupancy is the neutral percentage assumed for cells with no history.
const DefaultOccupancy = 50.0

// recencyDecay controls how fast old seasons lose weight: a record from n
// years ago weighs 1/(1+0.3n).
const recencyDecay = 0.3

// Pattern is the learned weekday profile of one room kind.
type Pattern struct {
	WeightedOccupancy float64 `json:"weighted_occupancy"`
	SampleCount       int     `json:"sample_count"`
	Years             []int   `json:"years"`
}

// Key addresses a pattern cell by room kind and Monday-based weekday.
type Key struct {
	RoomKindID int
	Weekday    int
}

// Patterns maps (room, weekday) cells to their learned profile.
type Patterns map[Key]Pattern

// Get returns the pattern for a cell and whether it exists.
func (p Patterns) Get(roomKindID, weekday int) (Pattern, bool) {
	pt, ok := p[Key{RoomKindID: roomKindID, Weekday: weekday}]
	return pt, ok
}

// Occupancy returns the weighted occupancy for a cell, DefaultOccupancy when
// the cell has no history.
func (p Patterns) Occupancy(roomKindID, weekday int) float64 {
	if pt, ok := p.Get(roomKindID, weekday); ok {
		return pt.WeightedOccupancy
	}
	return DefaultOccupancy
}

// WeekdayAverage averages the weighted occupancy of a weekday across all
// rooms that have a pattern for it, DefaultOccupancy when none do.
func (p Patterns) WeekdayAverage(weekday int) float64 {
	var total float64
	var count int
	for k, pt := range p {
		if k.Weekday == weekday {
			total += pt.WeightedOccupancy
			count++
		}
	}
	if count == 0 {
		return DefaultOccupancy
	}
	return total / float64(count)
}

// Calculate derives recency-weighted weekday occupancy per room kind, so the
// last season dominates without discarding older years.
func Calculate(history []domain.OccupancyRecord, currentYear int) Patterns {
	type cell struct {
		totalWeight    float64
		occupiedWeight float64
		count          int
		years          map[int]struct{}
	}

	cells := make(map[Key]*cell)
	for _, rec := range history {
		if rec.Weekday < 0 || rec.Weekday > 6 {
			continue
		}
		// Records stamped in a future year (clock skew, bad imports) count
		// as current; a negative age would inflate or flip the weight.
		age := currentYear - rec.Year
		if age < 0 {
			age = 0
		}
		weight := 1.0 / (1.0 + recencyDecay*float64(age))

		k := Key{RoomKindID: rec.RoomKindID, Weekday: rec.Weekday}
		c := cells[k]
		if c == nil {
			c = &cell{years: make(map[int]struct{})}
			cells[k] = c
		}
		c.totalWeight += weight
		if rec.Occupied {
			c.occupiedWeight += weight
		}
		c.count++
		c.years[rec.Year] = struct{}{}
	}

	patterns := make(Patterns, len(cells))
	for k, c := range cells {
		if c.totalWeight <= 0 {
			continue
		}
		years := make([]int, 0, len(c.years))
		for y := range c.years {
			years = append(years, y)
		}
		sort.Ints(years)

		patterns[k] = Pattern{
			WeightedOccupancy: domain.Round1(c.occupiedWeight / c.totalWeight * 100),
			SampleCount:       c.count,
			Years:             years,
		}
	}
	return patterns
}
