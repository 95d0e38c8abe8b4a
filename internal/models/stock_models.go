package models

import "time"

// Stock movement kinds. The magnitude stored on a movement is always
// non-negative; the direction is implied by the kind.
const (
	MovementIn     = "in"
	MovementOut    = "out"
	MovementAdjust = "adjust"
)

// IsValidMovementKind checks if the provided kind string is a known movement kind.
func IsValidMovementKind(kind string) bool {
	switch kind {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	default:
		return false
	}
}

// StockItem is one inventory-tracked ingredient or supply unit. The name is
// unique and acts as the join key from product ingredient descriptors.
type StockItem struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Quantity    int       `json:"quantity" db:"quantity"`
	MinQuantity int       `json:"min_quantity" db:"min_quantity"`
	Unit        string    `json:"unit" db:"unit"`
	UnitCost    *float64  `json:"unit_cost,omitempty" db:"unit_cost"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the item sits at or below its minimum threshold.
func (s *StockItem) IsLowStock() bool {
	return s.Quantity <= s.MinQuantity
}

// StockMovement is an append-only ledger entry recording one quantity change.
// Movements are never mutated or deleted.
type StockMovement struct {
	ID           int64     `json:"id" db:"id"`
	StockItemID  int64     `json:"stock_item_id" db:"stock_item_id"`
	UserID       *int64    `json:"user_id,omitempty" db:"user_id"`
	Kind         string    `json:"kind" db:"kind"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Reason       *string   `json:"reason,omitempty" db:"reason"`
	MovementDate time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	ItemName *string `json:"item_name,omitempty"` // joined
	Username *string `json:"username,omitempty"`  // joined, nil means "system"
}
