package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetActiveOrders() ([]models.Order, error)
	GetPendingOrders() ([]models.Order, error)
	GetOrdersByTable(tableNumber int) ([]models.Order, error)
	GetLatestOrderNumber() (string, error)
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	UpdateOrderTotals(executor SQLExecutor, orderID int64, subtotal, total float64, updatedAt time.Time) error
	UpdateOrderPayment(executor SQLExecutor, order *models.Order) error
	UpdateOrderReadyToPay(executor SQLExecutor, orderID int64, method string, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID int64) (int64, error)

	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error)

	GetReportSummary() (*models.ReportSummary, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, table_number, party_size, status, subtotal, tip, total,
	 payment_method, ready_to_pay, requested_payment_method, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *models.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.TableNumber, &o.PartySize, &o.Status, &o.Subtotal, &o.Tip, &o.Total,
		&o.PaymentMethod, &o.ReadyToPay, &o.RequestedPaymentMethod, &o.CreatedAt, &o.UpdatedAt,
	)
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_number, table_number, party_size, status, subtotal, tip, total,
	             payment_method, ready_to_pay, requested_payment_method, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.OrderNumber, order.TableNumber, order.PartySize, order.Status, order.Subtotal, order.Tip, order.Total,
		order.PaymentMethod, order.ReadyToPay, order.RequestedPaymentMethod, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: order number %s", ErrDuplicateKey, order.OrderNumber)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := scanOrder(r.db.QueryRow(query, orderID), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	err := scanOrder(r.db.QueryRow(query, orderNumber), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by number %s: %v", ErrDatabaseError, orderNumber, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count FROM orders`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableNumber != nil {
		conditions = append(conditions, fmt.Sprintf("table_number = $%d", argCounter))
		args = append(args, *filters.TableNumber)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.TableNumber, &o.PartySize, &o.Status, &o.Subtotal, &o.Tip, &o.Total,
			&o.PaymentMethod, &o.ReadyToPay, &o.RequestedPaymentMethod, &o.CreatedAt, &o.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) queryOrderList(query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) GetActiveOrders() ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE status NOT IN ($1, $2)
	          ORDER BY created_at ASC`
	return r.queryOrderList(query, models.OrderStatusPaid, models.OrderStatusCancelled)
}

func (r *orderRepository) GetPendingOrders() ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE status IN ($1, $2, $3, $4)
	          ORDER BY created_at ASC`
	return r.queryOrderList(query,
		models.OrderStatusNew, models.OrderStatusReceived, models.OrderStatusPreparing, models.OrderStatusDelayed)
}

func (r *orderRepository) GetOrdersByTable(tableNumber int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE table_number = $1
	          ORDER BY created_at DESC`
	return r.queryOrderList(query, tableNumber)
}

// GetLatestOrderNumber returns the number of the most recently created order,
// or an empty string when no orders exist. Used to reseed the in-memory order
// number source on process start.
func (r *orderRepository) GetLatestOrderNumber() (string, error) {
	var number string
	query := `SELECT order_number FROM orders ORDER BY created_at DESC, id DESC LIMIT 1`
	err := r.db.QueryRow(query).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%w: getting latest order number: %v", ErrDatabaseError, err)
	}
	return number, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID, "order status update")
}

func (r *orderRepository) UpdateOrderTotals(executor SQLExecutor, orderID int64, subtotal, total float64, updatedAt time.Time) error {
	query := `UPDATE orders SET subtotal = $1, total = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, subtotal, total, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order totals for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID, "order totals update")
}

func (r *orderRepository) UpdateOrderPayment(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET status = $1, payment_method = $2, tip = $3, subtotal = $4, total = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		order.Status, order.PaymentMethod, order.Tip, order.Subtotal, order.Total, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("%w: updating order payment for ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	return checkAffected(result, order.ID, "order payment update")
}

func (r *orderRepository) UpdateOrderReadyToPay(executor SQLExecutor, orderID int64, method string, updatedAt time.Time) error {
	query := `UPDATE orders SET ready_to_pay = TRUE, requested_payment_method = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, method, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating ready-to-pay for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID, "order ready-to-pay update")
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM orders WHERE id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, product_id, product_name, product_category, quantity, unit_price, total_price, notes,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductCategory, item.Quantity,
		item.UnitPrice, item.TotalPrice, item.Notes, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT id, order_id, product_id, product_name, product_category, quantity, unit_price,
	                 total_price, notes, created_at, updated_at
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductCategory,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM order_items WHERE order_id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

func (r *orderRepository) GetReportSummary() (*models.ReportSummary, error) {
	summary := &models.ReportSummary{}
	query := `SELECT
	            COUNT(*),
	            COUNT(*) FILTER (WHERE status = $1),
	            COUNT(*) FILTER (WHERE status = $2),
	            COALESCE(SUM(total) FILTER (WHERE status = $1), 0),
	            COALESCE(SUM(tip) FILTER (WHERE status = $1), 0)
	          FROM orders`
	err := r.db.QueryRow(query, models.OrderStatusPaid, models.OrderStatusCancelled).Scan(
		&summary.TotalOrders, &summary.PaidOrders, &summary.CancelledCount,
		&summary.TotalRevenue, &summary.TotalTips,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: building report summary: %v", ErrDatabaseError, err)
	}
	if summary.PaidOrders > 0 {
		summary.AverageTicket = summary.TotalRevenue / float64(summary.PaidOrders)
	}
	return summary, nil
}

func checkAffected(result sql.Result, id int64, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for %s ID %d: %v", ErrDatabaseError, operation, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
