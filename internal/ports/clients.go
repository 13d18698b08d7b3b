package ports

import (
	"context"

	"github.com/ratesense/ratesense/internal/domain"
)

// PMSClient reads hotel data from the property management system. The
// availability endpoint speaks JSON, the rate endpoints XML; the adapter
// hides that split.
type PMSClient interface {
	// FetchAvailability returns the per-rate-plan, per-date, per-room
	// availability between the two dates (inclusive, YYYY-MM-DD).
	FetchAvailability(ctx context.Context, from, to string) (*domain.AvailabilitySnapshot, error)

	// FetchRoomKinds lists the room types configured in the PMS.
	FetchRoomKinds(ctx context.Context) ([]domain.RoomKind, error)

	// FetchRatePlans lists the configured rate plans.
	FetchRatePlans(ctx context.Context) ([]RatePlan, error)

	// FetchRates returns current prices as room kind -> occupancy -> price
	// for the given period.
	FetchRates(ctx context.Context, from, to string) (map[int]map[int]float64, error)

	// TestConnection verifies the PMS is reachable and the credentials work.
	TestConnection(ctx context.Context) error
}

// RatePlan is a PMS pricing plan. The base plan receives rate pushes.
type RatePlan struct {
	ID         int    `json:"ratePlanId"`
	Name       string `json:"name"`
	IsBasePlan bool   `json:"isBasePlan"`
}

// RatePushClient pushes rates to the channel-manager side of the PMS.
type RatePushClient interface {
	// UpdateRate sets the price of one room type for one date.
	UpdateRate(ctx context.Context, roomTypeID, ratePlanID int, date string, rate float64) error

	// UpdateRatesBatch applies several dated updates for one room type in a
	// single request.
	UpdateRatesBatch(ctx context.Context, roomTypeID, ratePlanID int, updates []RateUpdate) error

	// CloseRoom stop-sells a room type for one date.
	CloseRoom(ctx context.Context, roomTypeID, ratePlanID int, date string) error

	// FetchBookings retrieves bookings filtered by status
	// (pending, confirmed, cancelled).
	FetchBookings(ctx context.Context, status string) ([]Booking, error)

	// TestConnection exercises the least invasive endpoint.
	TestConnection(ctx context.Context) error
}

// RateUpdate is one dated price or close instruction.
type RateUpdate struct {
	Date     string
	Rate     float64
	Currency string
	Closed   bool
}

// Booking is a reservation retrieved from the channel side.
type Booking struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Source     string `json:"source,omitempty"`
	Created    string `json:"created,omitempty"`
	GuestName  string `json:"guest_name,omitempty"`
	Arrival    string `json:"arrival,omitempty"`
	Departure  string `json:"departure,omitempty"`
	RoomTypeID string `json:"room_type_id,omitempty"`
}
