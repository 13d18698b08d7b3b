package prediction

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/service/holiday"
)

var testToday = time.Date(2025, time.April, 28, 0, 0, 0, 0, time.UTC)

func testForecaster() *Forecaster {
	return NewForecaster(holiday.NewCalendar(), zap.NewNop())
}

func snapshotOf(days ...domain.DayAvailability) *domain.AvailabilitySnapshot {
	return &domain.AvailabilitySnapshot{
		HotelID:   "hotel-1",
		RatePlans: []domain.RatePlanAvailability{{RatePlanID: 1, Days: days}},
	}
}

func dayAt(date string, total, occupied int) domain.DayAvailability {
	rooms := make([]domain.RoomAvailability, total)
	for i := range rooms {
		available := 1
		if i < occupied {
			available = 0
		}
		rooms[i] = domain.RoomAvailability{ID: 100 + i, Available: available}
	}
	return domain.DayAvailability{Date: date, RoomKinds: rooms}
}

func TestExpectedFill_Buckets(t *testing.T) {
	cases := []struct {
		daysUntil int
		want      float64
	}{
		{1, 5}, {3, 5}, {4, 15}, {7, 15}, {8, 25}, {14, 25}, {15, 35}, {60, 35},
	}
	for _, c := range cases {
		if got := expectedFill(c.daysUntil); got != c.want {
			t.Errorf("expectedFill(%d) = %v, expected %v", c.daysUntil, got, c.want)
		}
	}
}

func TestForecast_WeekdayMidLeadTime(t *testing.T) {
	// 2025-05-07 is a Wednesday nine days out: 40% current + 25 fill.
	forecasts := testForecaster().Forecast(snapshotOf(dayAt("2025-05-07", 10, 4)), nil, testToday, 60)

	if len(forecasts) != 1 {
		t.Fatalf("len = %d", len(forecasts))
	}
	f := forecasts[0]
	if f.CurrentOccupancy != 40.0 {
		t.Errorf("CurrentOccupancy = %v", f.CurrentOccupancy)
	}
	if f.PredictedFinal != 65.0 {
		t.Errorf("PredictedFinal = %v, expected 65.0", f.PredictedFinal)
	}
	if f.Weekday != "St" || f.IsWeekend {
		t.Errorf("weekday fields = %q %v", f.Weekday, f.IsWeekend)
	}
	if f.Confidence != 0.5 {
		t.Errorf("Confidence = %v, expected 0.5 beyond one week", f.Confidence)
	}
	if f.HolidayImpact != nil {
		t.Error("HolidayImpact set on an ordinary day")
	}
}

func TestForecast_WeekendBoost(t *testing.T) {
	// 2025-05-03 is a Saturday five days out: 50% + 15*1.1.
	forecasts := testForecaster().Forecast(snapshotOf(dayAt("2025-05-03", 10, 5)), nil, testToday, 60)

	if len(forecasts) != 1 {
		t.Fatalf("len = %d", len(forecasts))
	}
	f := forecasts[0]
	if math.Abs(f.PredictedFinal-66.5) > 1e-9 {
		t.Errorf("PredictedFinal = %v, expected 66.5", f.PredictedFinal)
	}
	if f.Confidence != 0.7 {
		t.Errorf("Confidence = %v, expected 0.7 within a week", f.Confidence)
	}
}

func TestForecast_CappedAtFull(t *testing.T) {
	forecasts := testForecaster().Forecast(snapshotOf(dayAt("2025-05-20", 10, 9)), nil, testToday, 60)

	if len(forecasts) != 1 {
		t.Fatalf("len = %d", len(forecasts))
	}
	if forecasts[0].PredictedFinal != 100.0 {
		t.Errorf("PredictedFinal = %v, expected cap at 100", forecasts[0].PredictedFinal)
	}
}

func TestForecast_HorizonAndOrdering(t *testing.T) {
	forecasts := testForecaster().Forecast(snapshotOf(
		dayAt("2025-05-20", 4, 2),
		dayAt("2025-04-28", 4, 2), // today, dropped
		dayAt("2025-05-02", 4, 2),
	), nil, testToday, 60)

	if len(forecasts) != 2 {
		t.Fatalf("len = %d, expected 2", len(forecasts))
	}
	if forecasts[0].Date != "2025-05-02" || forecasts[1].Date != "2025-05-20" {
		t.Errorf("order = %s, %s", forecasts[0].Date, forecasts[1].Date)
	}
}

func TestForecast_HolidayCarriesImpactPointer(t *testing.T) {
	// No learned history: the holiday is reported with an explicit zero
	// impact rather than a missing field.
	forecasts := testForecaster().Forecast(snapshotOf(dayAt("2025-05-08", 4, 2)), nil, testToday, 60)

	if len(forecasts) != 1 {
		t.Fatalf("len = %d", len(forecasts))
	}
	f := forecasts[0]
	if f.Holiday != "Den vítězství" {
		t.Errorf("Holiday = %q", f.Holiday)
	}
	if f.HolidayImpact == nil || *f.HolidayImpact != 0 {
		t.Errorf("HolidayImpact = %v, expected explicit 0", f.HolidayImpact)
	}
}
