package models

import "time"

// Promotion is a time-bounded discount advertised on the digital menu.
type Promotion struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title" binding:"required"`
	Description *string    `json:"description,omitempty" db:"description"`
	Discount    float64    `json:"discount" db:"discount" binding:"required,gt=0"`
	Active      bool       `json:"active" db:"active"`
	ValidFrom   *time.Time `json:"valid_from,omitempty" db:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until,omitempty" db:"valid_until"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Review is feedback a guest leaves after paying, optionally linked to the
// order number printed on the receipt.
type Review struct {
	ID          int64     `json:"id" db:"id"`
	OrderNumber *string   `json:"order_number,omitempty" db:"order_number"`
	Rating      int       `json:"rating" db:"rating" binding:"required,min=1,max=5"`
	Comment     *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
