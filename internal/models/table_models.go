package models

import "time"

// Table occupancy statuses. "paid" is a deliberate intermediate between
// payment and the explicit staff release back to "available".
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
	TableStatusPaid      = "paid"
)

// IsValidTableStatus checks if the provided status string is a known table status.
func IsValidTableStatus(status string) bool {
	switch status {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusPaid:
		return true
	default:
		return false
	}
}

// RestaurantTable represents a physical seating unit.
type RestaurantTable struct {
	ID             int64      `json:"id" db:"id"`
	Number         int        `json:"number" db:"number" binding:"required"`
	Capacity       int        `json:"capacity" db:"capacity"`
	Status         string     `json:"status" db:"status"`
	Occupants      *int       `json:"occupants,omitempty" db:"occupants"`
	CurrentOrderID *int64     `json:"current_order_id,omitempty" db:"current_order_id"`
	SessionStart   *time.Time `json:"session_start,omitempty" db:"session_start"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
