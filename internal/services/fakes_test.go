package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

// The services only touch *sql.DB for transaction demarcation; all statements
// go through the repository interfaces, which the fakes below implement. A
// no-op driver satisfies Begin/Commit/Rollback without a database.

type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unsupported") }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var registerNopDriver sync.Once

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNopDriver.Do(func() { sql.Register("nop", nopDriver{}) })
	db, err := sql.Open("nop", "")
	if err != nil {
		t.Fatalf("opening stub database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakeOrderRepo struct {
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*models.Order{}, items: map[int64][]models.OrderItem{}}
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.nextID++
	order.ID = f.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items = nil
	f.orders[order.ID] = &stored
	return order.ID, nil
}

func (f *fakeOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	order, exists := f.orders[orderID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) GetOrders(models.OrderFilters) ([]models.Order, int, error) {
	orders := f.all()
	return orders, len(orders), nil
}

func (f *fakeOrderRepo) GetActiveOrders() ([]models.Order, error) {
	var active []models.Order
	for _, order := range f.all() {
		if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusCancelled {
			active = append(active, order)
		}
	}
	return active, nil
}

func (f *fakeOrderRepo) GetPendingOrders() ([]models.Order, error) {
	var pending []models.Order
	for _, order := range f.all() {
		switch order.Status {
		case models.OrderStatusNew, models.OrderStatusReceived, models.OrderStatusPreparing, models.OrderStatusDelayed:
			pending = append(pending, order)
		}
	}
	return pending, nil
}

func (f *fakeOrderRepo) GetOrdersByTable(tableNumber int) ([]models.Order, error) {
	var matched []models.Order
	for _, order := range f.all() {
		if order.TableNumber == tableNumber {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (f *fakeOrderRepo) GetLatestOrderNumber() (string, error) {
	var latest *models.Order
	for _, order := range f.orders {
		if latest == nil || order.ID > latest.ID {
			latest = order
		}
	}
	if latest == nil {
		return "", nil
	}
	return latest.OrderNumber, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	order, exists := f.orders[orderID]
	if !exists {
		return repositories.ErrNotFound
	}
	order.Status = newStatus
	order.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) UpdateOrderTotals(_ repositories.SQLExecutor, orderID int64, subtotal, total float64, updatedAt time.Time) error {
	order, exists := f.orders[orderID]
	if !exists {
		return repositories.ErrNotFound
	}
	order.Subtotal = subtotal
	order.Total = total
	order.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) UpdateOrderPayment(_ repositories.SQLExecutor, updated *models.Order) error {
	order, exists := f.orders[updated.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	order.Status = updated.Status
	order.PaymentMethod = updated.PaymentMethod
	order.Tip = updated.Tip
	order.Subtotal = updated.Subtotal
	order.Total = updated.Total
	order.UpdatedAt = updated.UpdatedAt
	return nil
}

func (f *fakeOrderRepo) UpdateOrderReadyToPay(_ repositories.SQLExecutor, orderID int64, method string, updatedAt time.Time) error {
	order, exists := f.orders[orderID]
	if !exists {
		return repositories.ErrNotFound
	}
	order.ReadyToPay = true
	order.RequestedPaymentMethod = &method
	order.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ repositories.SQLExecutor, orderID int64) (int64, error) {
	if _, exists := f.orders[orderID]; !exists {
		return 0, nil
	}
	delete(f.orders, orderID)
	return 1, nil
}

func (f *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	f.nextID++
	item.ID = f.nextID
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return item.ID, nil
}

func (f *fakeOrderRepo) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrderRepo) DeleteOrderItemsByOrderID(_ repositories.SQLExecutor, orderID int64) (int64, error) {
	count := int64(len(f.items[orderID]))
	delete(f.items, orderID)
	return count, nil
}

func (f *fakeOrderRepo) GetReportSummary() (*models.ReportSummary, error) {
	summary := &models.ReportSummary{}
	for _, order := range f.orders {
		summary.TotalOrders++
		switch order.Status {
		case models.OrderStatusPaid:
			summary.PaidOrders++
			summary.TotalRevenue += order.Total
			if order.Tip != nil {
				summary.TotalTips += *order.Tip
			}
		case models.OrderStatusCancelled:
			summary.CancelledCount++
		}
	}
	if summary.PaidOrders > 0 {
		summary.AverageTicket = summary.TotalRevenue / float64(summary.PaidOrders)
	}
	return summary, nil
}

func (f *fakeOrderRepo) all() []models.Order {
	orders := make([]models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*models.Product{}}
}

func (f *fakeProductRepo) add(name, category string, price float64, ingredients *string) *models.Product {
	f.nextID++
	product := &models.Product{
		ID:          f.nextID,
		Name:        name,
		Category:    category,
		Price:       price,
		Available:   true,
		Ingredients: ingredients,
	}
	f.products[product.ID] = product
	return product
}

func (f *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductRepo) GetProductByID(productID int64) (*models.Product, error) {
	product, exists := f.products[productID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) ListProducts() ([]models.Product, error) {
	products := make([]models.Product, 0, len(f.products))
	for _, product := range f.products {
		products = append(products, *product)
	}
	return products, nil
}

func (f *fakeProductRepo) ListAvailableProducts() ([]models.Product, error) {
	var available []models.Product
	for _, product := range f.products {
		if product.Available {
			available = append(available, *product)
		}
	}
	return available, nil
}

func (f *fakeProductRepo) GetProductsByCategory(category string) ([]models.Product, error) {
	var matched []models.Product
	for _, product := range f.products {
		if product.Category == category {
			matched = append(matched, *product)
		}
	}
	return matched, nil
}

func (f *fakeProductRepo) SearchProducts(string) ([]models.Product, error) {
	return f.ListProducts()
}

func (f *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	if _, exists := f.products[product.ID]; !exists {
		return repositories.ErrNotFound
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) DeleteProduct(_ repositories.SQLExecutor, productID int64) (int64, error) {
	if _, exists := f.products[productID]; !exists {
		return 0, nil
	}
	delete(f.products, productID)
	return 1, nil
}

type fakeStockRepo struct {
	items     map[int64]*models.StockItem
	movements []models.StockMovement
	nextID    int64
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: map[int64]*models.StockItem{}}
}

func (f *fakeStockRepo) add(name string, quantity, minQuantity int) *models.StockItem {
	f.nextID++
	item := &models.StockItem{ID: f.nextID, Name: name, Quantity: quantity, MinQuantity: minQuantity, Unit: "unit"}
	f.items[item.ID] = item
	return item
}

func (f *fakeStockRepo) CreateStockItem(_ repositories.SQLExecutor, item *models.StockItem) (int64, error) {
	for _, existing := range f.items {
		if existing.Name == item.Name {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	item.ID = f.nextID
	copied := *item
	f.items[item.ID] = &copied
	return item.ID, nil
}

func (f *fakeStockRepo) GetStockItemByID(itemID int64) (*models.StockItem, error) {
	item, exists := f.items[itemID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStockRepo) GetStockItemByName(name string) (*models.StockItem, error) {
	for _, item := range f.items {
		if item.Name == name {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStockRepo) ListStockItems() ([]models.StockItem, error) {
	items := make([]models.StockItem, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, nil
}

func (f *fakeStockRepo) ListLowStockItems() ([]models.StockItem, error) {
	var low []models.StockItem
	for _, item := range f.items {
		if item.IsLowStock() {
			low = append(low, *item)
		}
	}
	return low, nil
}

func (f *fakeStockRepo) UpdateStockQuantity(_ repositories.SQLExecutor, itemID int64, newQuantity int, updatedAt time.Time) error {
	item, exists := f.items[itemID]
	if !exists {
		return repositories.ErrNotFound
	}
	item.Quantity = newQuantity
	item.UpdatedAt = updatedAt
	return nil
}

func (f *fakeStockRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	f.nextID++
	movement.ID = f.nextID
	f.movements = append(f.movements, *movement)
	return movement.ID, nil
}

func (f *fakeStockRepo) GetMovementsByItemID(itemID int64) ([]models.StockMovement, error) {
	var matched []models.StockMovement
	for _, movement := range f.movements {
		if movement.StockItemID == itemID {
			matched = append(matched, movement)
		}
	}
	return matched, nil
}

// movementsFor is a test convenience mirroring GetMovementsByItemID without
// the error return.
func (f *fakeStockRepo) movementsFor(itemID int64) []models.StockMovement {
	matched, _ := f.GetMovementsByItemID(itemID)
	return matched
}

type fakeTableRepo struct {
	tables map[int64]*models.RestaurantTable
	nextID int64
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: map[int64]*models.RestaurantTable{}}
}

func (f *fakeTableRepo) add(number, capacity int) *models.RestaurantTable {
	f.nextID++
	table := &models.RestaurantTable{ID: f.nextID, Number: number, Capacity: capacity, Status: models.TableStatusAvailable}
	f.tables[table.ID] = table
	return table
}

func (f *fakeTableRepo) CreateTable(_ repositories.SQLExecutor, table *models.RestaurantTable) (int64, error) {
	for _, existing := range f.tables {
		if existing.Number == table.Number {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	table.ID = f.nextID
	copied := *table
	f.tables[table.ID] = &copied
	return table.ID, nil
}

func (f *fakeTableRepo) GetTableByID(tableID int64) (*models.RestaurantTable, error) {
	table, exists := f.tables[tableID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *table
	return &copied, nil
}

func (f *fakeTableRepo) GetTableByNumber(number int) (*models.RestaurantTable, error) {
	for _, table := range f.tables {
		if table.Number == number {
			copied := *table
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTableRepo) ListTables() ([]models.RestaurantTable, error) {
	tables := make([]models.RestaurantTable, 0, len(f.tables))
	for _, table := range f.tables {
		tables = append(tables, *table)
	}
	return tables, nil
}

func (f *fakeTableRepo) GetTablesByStatus(status string) ([]models.RestaurantTable, error) {
	var matched []models.RestaurantTable
	for _, table := range f.tables {
		if table.Status == status {
			matched = append(matched, *table)
		}
	}
	return matched, nil
}

func (f *fakeTableRepo) UpdateTable(_ repositories.SQLExecutor, table *models.RestaurantTable) error {
	if _, exists := f.tables[table.ID]; !exists {
		return repositories.ErrNotFound
	}
	copied := *table
	f.tables[table.ID] = &copied
	return nil
}

func (f *fakeTableRepo) UpdateTableStatus(_ repositories.SQLExecutor, tableID int64, status string, updatedAt time.Time) error {
	table, exists := f.tables[tableID]
	if !exists {
		return repositories.ErrNotFound
	}
	table.Status = status
	table.UpdatedAt = updatedAt
	return nil
}

func (f *fakeTableRepo) UpdateTableOccupancy(_ repositories.SQLExecutor, tableID int64, status string, occupants *int, currentOrderID *int64, sessionStart *time.Time, updatedAt time.Time) error {
	table, exists := f.tables[tableID]
	if !exists {
		return repositories.ErrNotFound
	}
	table.Status = status
	table.Occupants = occupants
	table.CurrentOrderID = currentOrderID
	table.SessionStart = sessionStart
	table.UpdatedAt = updatedAt
	return nil
}

func (f *fakeTableRepo) DeleteTable(_ repositories.SQLExecutor, tableID int64) (int64, error) {
	if _, exists := f.tables[tableID]; !exists {
		return 0, repositories.ErrNotFound
	}
	delete(f.tables, tableID)
	return 1, nil
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	copied := *user
	f.users[user.ID] = &copied
	return user.ID, nil
}

func (f *fakeUserRepo) GetUserByID(userID int64) (*models.User, error) {
	user, exists := f.users[userID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) ListUsers() ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, userID int64) (int64, error) {
	if _, exists := f.users[userID]; !exists {
		return 0, nil
	}
	delete(f.users, userID)
	return 1, nil
}

type fakeCounterRepo struct {
	counters map[string]int
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: map[string]int{}}
}

func (f *fakeCounterRepo) NextSequence(_ repositories.SQLExecutor, day string) (int, error) {
	f.counters[day]++
	return f.counters[day], nil
}
