package domain

import (
	"strconv"
)

// RoomCategory classifies room kinds for pricing aggressiveness.
type RoomCategory string

const (
	CategoryEconomy   RoomCategory = "economy"
	CategoryStandard  RoomCategory = "standard"
	CategoryPremium   RoomCategory = "premium"
	CategoryApartment RoomCategory = "apartment"
	CategoryUnknown   RoomCategory = "unknown"
)

// Modifier scales rule-produced price changes for the category. Cheaper rooms
// move less, apartments move the most.
func (c RoomCategory) Modifier() float64 {
	switch c {
	case CategoryEconomy:
		return 0.8
	case CategoryStandard:
		return 1.0
	case CategoryPremium:
		return 1.3
	case CategoryApartment:
		return 1.5
	default:
		return 1.0
	}
}

// DisplayName is the label shown for the category in dashboards and exports.
func (c RoomCategory) DisplayName() string {
	switch c {
	case CategoryEconomy:
		return "Economy"
	case CategoryStandard:
		return "Standard"
	case CategoryPremium:
		return "Premium"
	case CategoryApartment:
		return "Apartmán"
	default:
		return string(c)
	}
}

// PricedCategories are the categories carrying a pricing profile, in display order.
var PricedCategories = []RoomCategory{
	CategoryEconomy,
	CategoryStandard,
	CategoryPremium,
	CategoryApartment,
}

// RoomKind is one bookable room type of the hotel.
type RoomKind struct {
	ID       int          `json:"id" gorm:"primaryKey"`
	Name     string       `json:"name"`
	Category RoomCategory `json:"category"`
	Capacity int          `json:"capacity"`
}

// DefaultRoomKinds is the built-in catalog of the hotel, used until the store
// carries an override.
func DefaultRoomKinds() []RoomKind {
	return []RoomKind{
		{ID: 640240, Name: "101", Category: CategoryStandard, Capacity: 3},
		{ID: 640238, Name: "201", Category: CategoryPremium, Capacity: 6},
		{ID: 816827, Name: "202", Category: CategoryStandard, Capacity: 4},
		{ID: 540820, Name: "203", Category: CategoryStandard, Capacity: 3},
		{ID: 924427, Name: "204", Category: CategoryStandard, Capacity: 3},
		{ID: 924455, Name: "205", Category: CategoryStandard, Capacity: 3},
		{ID: 537702, Name: "301", Category: CategoryEconomy, Capacity: 3},
		{ID: 924459, Name: "302", Category: CategoryEconomy, Capacity: 3},
		{ID: 640234, Name: "303", Category: CategoryStandard, Capacity: 4},
		{ID: 640236, Name: "304", Category: CategoryStandard, Capacity: 3},
		{ID: 924463, Name: "305", Category: CategoryEconomy, Capacity: 3},
		{ID: 924467, Name: "306", Category: CategoryEconomy, Capacity: 3},
		{ID: 640232, Name: "307", Category: CategoryEconomy, Capacity: 2},
		{ID: 902136, Name: "Apt A", Category: CategoryApartment, Capacity: 4},
		{ID: 924723, Name: "Apt B", Category: CategoryApartment, Capacity: 4},
	}
}

// RoomCatalog resolves room kind IDs to their metadata.
type RoomCatalog map[int]RoomKind

// NewRoomCatalog indexes a set of room kinds by ID.
func NewRoomCatalog(kinds []RoomKind) RoomCatalog {
	catalog := make(RoomCatalog, len(kinds))
	for _, rk := range kinds {
		catalog[rk.ID] = rk
	}
	return catalog
}

// Resolve returns the room kind for an ID. Unknown IDs resolve to a neutral
// entry named after the ID so the engine keeps working on fresh PMS data.
func (c RoomCatalog) Resolve(id int) RoomKind {
	if rk, ok := c[id]; ok {
		return rk
	}
	return RoomKind{ID: id, Name: strconv.Itoa(id), Category: CategoryUnknown, Capacity: 0}
}
