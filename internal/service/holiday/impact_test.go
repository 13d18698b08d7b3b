package holiday

import (
	"testing"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
)

func record(d time.Time, roomID int, occupied bool) domain.OccupancyRecord {
	return domain.NewOccupancyRecord("hotel-1", roomID, d, occupied)
}

// wednesdayBaseline builds baseline records on ordinary Wednesdays with the
// given number of occupied nights out of total.
func wednesdayBaseline(occupied, total int) []domain.OccupancyRecord {
	// 2024-01-10 is a Wednesday; stepping by weeks stays on Wednesdays and
	// avoids every fixed holiday.
	start := day(2024, time.January, 10)
	records := make([]domain.OccupancyRecord, 0, total)
	for i := 0; i < total; i++ {
		records = append(records, record(start.AddDate(0, 0, 7*i), 100, i < occupied))
	}
	return records
}

func TestImpactLearner_PositiveImpact(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	// Baseline Wednesdays at 50%, six New Year records (2020-01-01 is a
	// Wednesday) with five occupied.
	history := wednesdayBaseline(5, 10)
	newYear := day(2020, time.January, 1)
	for room := 0; room < 6; room++ {
		history = append(history, record(newYear, 200+room, room < 5))
	}

	impacts := learner.Learn(history)

	hi, ok := impacts["Nový rok"]
	if !ok {
		t.Fatal("Expected Nový rok to be learned")
	}
	// occupancy 5/6 = 83.3%, baseline 50% -> impact (83.33-50)/50 = 0.67
	if hi.Impact != 0.67 {
		t.Errorf("Impact = %v, expected 0.67", hi.Impact)
	}
	if hi.HolidayOccupancy != 83.3 {
		t.Errorf("HolidayOccupancy = %v, expected 83.3", hi.HolidayOccupancy)
	}
	if hi.BaselineOccupancy != 50.0 {
		t.Errorf("BaselineOccupancy = %v, expected 50.0", hi.BaselineOccupancy)
	}
	if hi.SampleCount != 6 {
		t.Errorf("SampleCount = %d, expected 6", hi.SampleCount)
	}
	if hi.Effect != domain.EffectPositive {
		t.Errorf("Effect = %s, expected positive", hi.Effect)
	}
}

func TestImpactLearner_NegativeImpact(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	history := wednesdayBaseline(5, 10)
	newYear := day(2020, time.January, 1)
	for room := 0; room < 5; room++ {
		history = append(history, record(newYear, 200+room, room < 1))
	}

	impacts := learner.Learn(history)

	hi, ok := impacts["Nový rok"]
	if !ok {
		t.Fatal("Expected Nový rok to be learned")
	}
	// occupancy 1/5 = 20%, baseline 50% -> impact -0.6
	if hi.Impact != -0.6 {
		t.Errorf("Impact = %v, expected -0.6", hi.Impact)
	}
	if hi.Effect != domain.EffectNegative {
		t.Errorf("Effect = %s, expected negative", hi.Effect)
	}
}

func TestImpactLearner_TooFewSamples(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	// Three records are below the five-sample threshold.
	history := wednesdayBaseline(5, 10)
	newYear := day(2020, time.January, 1)
	for room := 0; room < 3; room++ {
		history = append(history, record(newYear, 200+room, true))
	}

	impacts := learner.Learn(history)

	if _, ok := impacts["Nový rok"]; ok {
		t.Error("Holiday with 3 samples should not be learned")
	}
	if got := ImpactOf(impacts, "Nový rok"); got != 0 {
		t.Errorf("ImpactOf unknown holiday = %v, expected 0", got)
	}
}

func TestImpactLearner_ImpactClamped(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	// Baseline at 10%, holiday fully booked: raw impact 9.0 clamps to 1.0.
	history := wednesdayBaseline(1, 10)
	newYear := day(2020, time.January, 1)
	for room := 0; room < 6; room++ {
		history = append(history, record(newYear, 200+room, true))
	}

	impacts := learner.Learn(history)

	hi := impacts["Nový rok"]
	if hi.Impact != 1.0 {
		t.Errorf("Impact = %v, expected clamp at 1.0", hi.Impact)
	}
}

func TestImpactLearner_ZeroBaseline(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	// All baseline nights empty: baseline average is 0 and the impact stays
	// neutral instead of dividing by zero.
	history := wednesdayBaseline(0, 10)
	newYear := day(2020, time.January, 1)
	for room := 0; room < 6; room++ {
		history = append(history, record(newYear, 200+room, true))
	}

	impacts := learner.Learn(history)

	hi := impacts["Nový rok"]
	if hi.Impact != 0 {
		t.Errorf("Impact = %v, expected 0 on zero baseline", hi.Impact)
	}
	if hi.Effect != domain.EffectNeutral {
		t.Errorf("Effect = %s, expected neutral", hi.Effect)
	}
}

func TestImpactLearner_BaselineFallback(t *testing.T) {
	learner := NewImpactLearner(NewCalendar())

	// No baseline records at all: the learner falls back to the neutral 50%.
	var history []domain.OccupancyRecord
	newYear := day(2020, time.January, 1)
	for room := 0; room < 6; room++ {
		history = append(history, record(newYear, 200+room, true))
	}

	impacts := learner.Learn(history)

	hi := impacts["Nový rok"]
	if hi.BaselineOccupancy != 50.0 {
		t.Errorf("BaselineOccupancy = %v, expected fallback 50.0", hi.BaselineOccupancy)
	}
	// occupancy 100%, baseline 50% -> impact 1.0
	if hi.Impact != 1.0 {
		t.Errorf("Impact = %v, expected 1.0", hi.Impact)
	}
}
