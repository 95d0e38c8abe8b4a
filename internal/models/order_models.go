package models

import "time"

// Order lifecycle states.
const (
	OrderStatusNew       = "new"
	OrderStatusReceived  = "received"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusDelayed   = "delayed"
	OrderStatusCancelled = "cancelled"
	OrderStatusPaid      = "paid"
)

// Accepted payment methods.
const (
	PaymentMethodCash       = "cash"
	PaymentMethodDebitCard  = "debit-card"
	PaymentMethodCreditCard = "credit-card"
	PaymentMethodTransfer   = "transfer"
	PaymentMethodQR         = "qr"
	PaymentMethodOther      = "other"
)

// IsValidOrderStatus checks if the provided status string is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusNew, OrderStatusReceived, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusDelayed, OrderStatusCancelled, OrderStatusPaid:
		return true
	default:
		return false
	}
}

// IsValidPaymentMethod checks if the provided method string is a known payment method.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodDebitCard, PaymentMethodCreditCard,
		PaymentMethodTransfer, PaymentMethodQR, PaymentMethodOther:
		return true
	default:
		return false
	}
}

// Order represents one dine-in transaction.
type Order struct {
	ID                     int64       `json:"id" db:"id"`
	OrderNumber            string      `json:"order_number" db:"order_number"`
	TableNumber            int         `json:"table_number" db:"table_number"`
	PartySize              int         `json:"party_size" db:"party_size"`
	Status                 string      `json:"status" db:"status"`
	Items                  []OrderItem `json:"items"`
	Subtotal               float64     `json:"subtotal" db:"subtotal"`
	Tip                    *float64    `json:"tip,omitempty" db:"tip"`
	Total                  float64     `json:"total" db:"total"`
	PaymentMethod          *string     `json:"payment_method,omitempty" db:"payment_method"`
	ReadyToPay             bool        `json:"ready_to_pay" db:"ready_to_pay"`
	RequestedPaymentMethod *string     `json:"requested_payment_method,omitempty" db:"requested_payment_method"`
	CreatedAt              time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is one product quantity within an order. Product name, category
// and price are captured at order time so later catalog edits never rewrite
// an existing ticket.
type OrderItem struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"order_id" db:"order_id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	ProductName     string    `json:"product_name" db:"product_name"`
	ProductCategory string    `json:"product_category" db:"product_category"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       float64   `json:"unit_price" db:"unit_price"`
	TotalPrice      float64   `json:"total_price" db:"total_price"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// RecalculateTotals recomputes the subtotal and total from the current items.
// Must be invoked after every line-item or tip mutation.
func (o *Order) RecalculateTotals() {
	var subtotal float64
	for i := range o.Items {
		o.Items[i].TotalPrice = o.Items[i].UnitPrice * float64(o.Items[i].Quantity)
		subtotal += o.Items[i].TotalPrice
	}
	o.Subtotal = subtotal
	o.Total = subtotal
	if o.Tip != nil {
		o.Total += *o.Tip
	}
}

// IsBeverageOnly reports whether every line belongs to a beverage-like
// category. Such orders skip the kitchen states entirely.
func (o *Order) IsBeverageOnly() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if !IsBeverageCategory(item.ProductCategory) {
			return false
		}
	}
	return true
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	TableNumber *int    `form:"table_number"`
	Status      *string `form:"status"`
	Date        *string `form:"date"` // Expected format YYYY-MM-DD
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}
