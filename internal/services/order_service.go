package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// CreateOrderItemRequest is one requested line within a new or existing order.
type CreateOrderItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	TableNumber int                      `json:"table_number" binding:"required,gt=0"`
	PartySize   int                      `json:"party_size" binding:"required,gt=0"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// UpdateOrderStatusRequest is used for moving an order through the kitchen states.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PayOrderRequest is used for finalizing payment on an order.
type PayOrderRequest struct {
	PaymentMethod string   `json:"payment_method" binding:"required"`
	Tip           *float64 `json:"tip"`
}

// ReadyToPayRequest is used when the guest pre-selects a payment method.
type ReadyToPayRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// allowedTransitions is the explicit state machine for SetStatus. Paid and
// cancelled are reachable only through Pay and Cancel, which carry their own
// guards and side effects; a generic status write can never land on them.
var allowedTransitions = map[string][]string{
	models.OrderStatusNew:       {models.OrderStatusReceived, models.OrderStatusPreparing},
	models.OrderStatusReceived:  {models.OrderStatusPreparing, models.OrderStatusDelayed},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusDelayed},
	models.OrderStatusDelayed:   {models.OrderStatusPreparing, models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
	models.OrderStatusPaid:      {},
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService is the order lifecycle engine: the aggregate, its state
// machine, and the orchestration of stock and table effects inside one
// atomic operation per request.
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	AddItems(orderID int64, items []CreateOrderItemRequest) (*models.Order, error)
	SetStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	MarkReadyToPay(orderID int64, req ReadyToPayRequest) (*models.Order, error)
	Pay(orderID int64, req PayOrderRequest) (*models.Order, error)
	Cancel(orderID int64) error
	Dismiss(orderID int64) error

	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	GetActiveOrders() ([]models.Order, error)
	GetPendingOrders() ([]models.Order, error)
	GetOrdersByTable(tableNumber int) ([]models.Order, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	stockService StockService
	tableService TableService
	numbers      OrderNumberSource
	db           *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	pr repositories.ProductRepository,
	ss StockService,
	ts TableService,
	numbers OrderNumberSource,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:    or,
		productRepo:  pr,
		stockService: ss,
		tableService: ts,
		numbers:      numbers,
		db:           db,
	}
}

// buildItems resolves each requested line's product and snapshots its name,
// category and price, so later catalog edits never touch the ticket.
func (s *orderService) buildItems(requests []CreateOrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(requests))
	for _, itemReq := range requests {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product ID %d must be positive", ErrValidation, itemReq.ProductID)
		}
		product, err := s.productRepo.GetProductByID(itemReq.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, itemReq.ProductID)
			}
			return nil, fmt.Errorf("failed to fetch product %d: %w", itemReq.ProductID, err)
		}
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductCategory: product.Category,
			Quantity:        itemReq.Quantity,
			UnitPrice:       product.Price,
			Notes:           utils.NewNullString(itemReq.Notes),
		})
	}
	return items, nil
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TableNumber: req.TableNumber,
		PartySize:   req.PartySize,
		Items:       items,
	}
	order.RecalculateTotals()

	// Drink-only orders need no kitchen preparation and start ready to serve.
	if order.IsBeverageOnly() {
		order.Status = models.OrderStatusReady
	} else {
		order.Status = models.OrderStatusNew
	}

	order.OrderNumber, err = s.numbers.Next(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if _, err := s.orderRepo.CreateOrderItem(tx, &order.Items[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item (product_id: %d): %w", order.Items[i].ProductID, err)
		}
	}

	if err := s.stockService.ApplyOrderEffect(tx, order, true); err != nil {
		return nil, fmt.Errorf("failed to deduct stock for order %s: %w", order.OrderNumber, err)
	}

	if err := s.tableService.Bind(tx, req.TableNumber, order.ID, req.PartySize); err != nil {
		if errors.Is(err, ErrTableNotFound) {
			// Takeaway counter tickets can reference an unregistered table.
			utils.LogWarn("Order created against unknown table",
				map[string]interface{}{"table_number": req.TableNumber, "order_number": order.OrderNumber})
		} else {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return s.GetOrderByID(order.ID)
}

// AddItems appends lines to an existing order and recomputes its totals.
// Appending to a paid order is rejected. This path performs no stock
// deduction; see the ledger notes in DESIGN.md.
func (s *orderService) AddItems(orderID int64, itemRequests []CreateOrderItemRequest) (*models.Order, error) {
	if len(itemRequests) == 0 {
		return nil, fmt.Errorf("%w: no items to add", ErrValidation)
	}

	order, err := s.getOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusPaid {
		return nil, fmt.Errorf("%w: cannot add items to a paid order", ErrInvalidTransition)
	}

	newItems, err := s.buildItems(itemRequests)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range newItems {
		newItems[i].OrderID = order.ID
		newItems[i].TotalPrice = newItems[i].UnitPrice * float64(newItems[i].Quantity)
		if _, err := s.orderRepo.CreateOrderItem(tx, &newItems[i]); err != nil {
			return nil, fmt.Errorf("failed to add order item (product_id: %d): %w", newItems[i].ProductID, err)
		}
	}

	order.Items = append(order.Items, newItems...)
	order.RecalculateTotals()
	if err := s.orderRepo.UpdateOrderTotals(tx, order.ID, order.Subtotal, order.Total, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item addition: %w", err)
	}
	return s.GetOrderByID(order.ID)
}

// SetStatus moves an order along the kitchen flow. Transitions are validated
// against the explicit table; there is no path into paid or cancelled here.
func (s *orderService) SetStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, req.Status)
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move order %s from %s to %s",
			ErrInvalidTransition, order.OrderNumber, order.Status, req.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(s.db, orderID, req.Status, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// MarkReadyToPay records the guest's requested payment method without
// changing the lifecycle state; the cashier confirms later via Pay.
func (s *orderService) MarkReadyToPay(orderID int64, req ReadyToPayRequest) (*models.Order, error) {
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateOrderReadyToPay(s.db, order.ID, req.PaymentMethod, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark order ready to pay: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) Pay(orderID int64, req PayOrderRequest) (*models.Order, error) {
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if req.Tip != nil && *req.Tip < 0 {
		return nil, fmt.Errorf("%w: tip must not be negative", ErrValidation)
	}

	order, err := s.getOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusReady && order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: order must be ready or delivered to be paid, current state is %s",
			ErrInvalidTransition, order.Status)
	}

	order.PaymentMethod = &req.PaymentMethod
	if req.Tip != nil {
		order.Tip = req.Tip
	}
	order.RecalculateTotals()
	order.Status = models.OrderStatusPaid
	order.UpdatedAt = time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderPayment(tx, order); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	// The table is held in "paid" until staff explicitly release it; the
	// guests may still be seated.
	if err := s.tableService.MarkPaid(tx, order.TableNumber); err != nil && !errors.Is(err, ErrTableNotFound) {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// Cancel marks the order cancelled and restores the stock its creation
// consumed. The table stays bound: the guests may still be at it and may
// re-order; releasing is a separate staff action.
func (s *orderService) Cancel(orderID int64) error {
	order, err := s.getOrderWithItems(orderID)
	if err != nil {
		return err
	}
	switch order.Status {
	case models.OrderStatusPaid, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return fmt.Errorf("%w: cannot cancel an order in state %s", ErrInvalidTransition, order.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderStatus(tx, order.ID, models.OrderStatusCancelled, time.Now()); err != nil {
		return fmt.Errorf("failed to mark order cancelled: %w", err)
	}
	if err := s.stockService.ApplyOrderEffect(tx, order, false); err != nil {
		return fmt.Errorf("failed to restore stock for order %s: %w", order.OrderNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// Dismiss hard-deletes a cancelled order, clearing the ticket from the
// kitchen view. Only cancelled orders may be dismissed.
func (s *orderService) Dismiss(orderID int64) error {
	order, err := s.getOrder(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusCancelled {
		return fmt.Errorf("%w: only cancelled orders can be dismissed, current state is %s",
			ErrInvalidTransition, order.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, order.ID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err := s.orderRepo.DeleteOrder(tx, order.ID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit()
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	if err := s.attachItems(orders); err != nil {
		return nil, 0, err
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	return s.getOrderWithItems(orderID)
}

func (s *orderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}
	order.Items, err = s.orderRepo.GetOrderItemsByOrderID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return order, nil
}

func (s *orderService) GetActiveOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetActiveOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get active orders: %w", err)
	}
	if err := s.attachItems(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetPendingOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetPendingOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending orders: %w", err)
	}
	if err := s.attachItems(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrdersByTable(tableNumber int) ([]models.Order, error) {
	orders, err := s.orderRepo.GetOrdersByTable(tableNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for table %d: %w", tableNumber, err)
	}
	if err := s.attachItems(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) getOrder(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}

func (s *orderService) getOrderWithItems(orderID int64) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	order.Items, err = s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for order ID %d: %w", orderID, err)
	}
	return order, nil
}

func (s *orderService) attachItems(orders []models.Order) error {
	for i := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return fmt.Errorf("failed to get order items for order ID %d: %w", orders[i].ID, err)
		}
		orders[i].Items = items
	}
	return nil
}
