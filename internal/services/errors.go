package services

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map these to HTTP
// status codes; services wrap them with fmt.Errorf("%w: ...") for context.
var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrStockItemNotFound  = errors.New("stock item not found")
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTransition  = errors.New("invalid order state transition")
	ErrInsufficientStock  = errors.New("insufficient stock for item")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
