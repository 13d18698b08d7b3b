package domain

import (
	"time"
)

// DateLayout is the wire format for calendar dates across the PMS API,
// recommendation IDs and exports.
const DateLayout = "2006-01-02"

// WeekdayNames are the Czech short day names indexed Monday first.
var WeekdayNames = [7]string{"Po", "Út", "St", "Čt", "Pá", "So", "Ne"}

// WeekdayIndex converts a time.Time to the Monday-based weekday index used
// across the engine (0=Monday .. 6=Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName returns the Czech short name for a Monday-based weekday index.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return WeekdayNames[weekday]
}

// IsWeekendDay reports whether a Monday-based weekday index is Saturday or Sunday.
func IsWeekendDay(weekday int) bool {
	return weekday >= 5
}

// OccupancyRecord is a single room-night observation from the booking history.
type OccupancyRecord struct {
	ID         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	HotelID    string    `json:"hotel_id" gorm:"index:idx_occupancy_night,unique"`
	RoomKindID int       `json:"room_kind_id" gorm:"index:idx_occupancy_night,unique"`
	Date       time.Time `json:"date" gorm:"index:idx_occupancy_night,unique"`
	Year       int       `json:"year"`
	Weekday    int       `json:"weekday"` // 0=Monday .. 6=Sunday
	Occupied   bool      `json:"occupied"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewOccupancyRecord builds a record with the derived year and weekday filled in.
func NewOccupancyRecord(hotelID string, roomKindID int, date time.Time, occupied bool) OccupancyRecord {
	return OccupancyRecord{
		HotelID:    hotelID,
		RoomKindID: roomKindID,
		Date:       date,
		Year:       date.Year(),
		Weekday:    WeekdayIndex(date),
		Occupied:   occupied,
	}
}

// RoomAvailability is one room kind's availability on one date.
// Available == 0 means the room is sold for that night.
type RoomAvailability struct {
	ID        int `json:"id"`
	Available int `json:"availability"`
}

// Occupied reports whether the cell represents a sold room-night.
func (r RoomAvailability) Occupied() bool {
	return r.Available == 0
}

// DayAvailability is one date's availability across room kinds, in the
// order the PMS reported them.
type DayAvailability struct {
	Date      string             `json:"date"` // YYYY-MM-DD
	RoomKinds []RoomAvailability `json:"roomKinds"`
}

// OccupancyPct returns occupied/total*100 for the day, 0 when no rooms.
func (d DayAvailability) OccupancyPct() float64 {
	if len(d.RoomKinds) == 0 {
		return 0
	}
	occupied := 0
	for _, room := range d.RoomKinds {
		if room.Occupied() {
			occupied++
		}
	}
	return float64(occupied) / float64(len(d.RoomKinds)) * 100
}

// RatePlanAvailability groups day entries under one PMS rate plan.
type RatePlanAvailability struct {
	RatePlanID int               `json:"ratePlanId"`
	Days       []DayAvailability `json:"availability"`
}

// AvailabilitySnapshot is the forward-looking availability picture fetched
// from the PMS. A snapshot with no rate plans yields empty recommendations.
type AvailabilitySnapshot struct {
	HotelID   string                 `json:"hotel_id"`
	RatePlans []RatePlanAvailability `json:"availability"`
	FetchedAt time.Time              `json:"fetched_at"`
}

// Flatten concatenates the day entries of all rate plans, preserving order.
func (s *AvailabilitySnapshot) Flatten() []DayAvailability {
	if s == nil {
		return nil
	}
	var days []DayAvailability
	for _, plan := range s.RatePlans {
		days = append(days, plan.Days...)
	}
	return days
}
