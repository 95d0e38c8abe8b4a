package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// StockRepository defines the interface for stock item and movement database
// operations. Movements are append-only: there is deliberately no update or
// delete method for them.
type StockRepository interface {
	CreateStockItem(executor SQLExecutor, item *models.StockItem) (int64, error)
	GetStockItemByID(itemID int64) (*models.StockItem, error)
	GetStockItemByName(name string) (*models.StockItem, error)
	ListStockItems() ([]models.StockItem, error)
	ListLowStockItems() ([]models.StockItem, error)
	UpdateStockQuantity(executor SQLExecutor, itemID int64, newQuantity int, updatedAt time.Time) error

	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovementsByItemID(itemID int64) ([]models.StockMovement, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

const stockItemColumns = `id, name, quantity, min_quantity, unit, unit_cost, created_at, updated_at`

func scanStockItem(row interface{ Scan(...interface{}) error }, item *models.StockItem) error {
	return row.Scan(
		&item.ID, &item.Name, &item.Quantity, &item.MinQuantity, &item.Unit, &item.UnitCost,
		&item.CreatedAt, &item.UpdatedAt,
	)
}

func (r *stockRepository) CreateStockItem(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items (name, quantity, min_quantity, unit, unit_cost, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.Name, item.Quantity, item.MinQuantity, item.Unit, item.UnitCost, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: stock item name %s", ErrDuplicateKey, item.Name)
		}
		return 0, fmt.Errorf("%w: creating stock item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *stockRepository) GetStockItemByID(itemID int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	err := scanStockItem(r.db.QueryRow(query, itemID), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *stockRepository) GetStockItemByName(name string) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE name = $1`
	err := scanStockItem(r.db.QueryRow(query, name), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by name %s: %v", ErrDatabaseError, name, err)
	}
	return item, nil
}

func (r *stockRepository) listItems(query string, args ...interface{}) ([]models.StockItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.StockItem{}
	for rows.Next() {
		var item models.StockItem
		if err := scanStockItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning stock item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *stockRepository) ListStockItems() ([]models.StockItem, error) {
	return r.listItems(`SELECT ` + stockItemColumns + ` FROM stock_items ORDER BY name ASC`)
}

func (r *stockRepository) ListLowStockItems() ([]models.StockItem, error) {
	return r.listItems(`SELECT ` + stockItemColumns + ` FROM stock_items WHERE quantity <= min_quantity ORDER BY name ASC`)
}

func (r *stockRepository) UpdateStockQuantity(executor SQLExecutor, itemID int64, newQuantity int, updatedAt time.Time) error {
	query := `UPDATE stock_items SET quantity = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newQuantity, updatedAt, itemID)
	if err != nil {
		return fmt.Errorf("%w: updating stock quantity for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return checkAffected(result, itemID, "stock quantity update")
}

func (r *stockRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements (stock_item_id, user_id, kind, quantity, reason, movement_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if movement.MovementDate.IsZero() {
		movement.MovementDate = time.Now()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		movement.StockItemID, movement.UserID, movement.Kind, movement.Quantity, movement.Reason,
		movement.MovementDate, movement.CreatedAt,
	).Scan(&movement.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *stockRepository) GetMovementsByItemID(itemID int64) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	query := `SELECT sm.id, sm.stock_item_id, sm.user_id, sm.kind, sm.quantity, sm.reason,
	                 sm.movement_date, sm.created_at,
	                 si.name AS item_name, u.username AS username
	          FROM stock_movements sm
	          JOIN stock_items si ON sm.stock_item_id = si.id
	          LEFT JOIN users u ON sm.user_id = u.id
	          WHERE sm.stock_item_id = $1
	          ORDER BY sm.movement_date DESC, sm.id DESC`

	rows, err := r.db.Query(query, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock movements for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var mv models.StockMovement
		var itemName sql.NullString
		var username sql.NullString
		err := rows.Scan(
			&mv.ID, &mv.StockItemID, &mv.UserID, &mv.Kind, &mv.Quantity, &mv.Reason,
			&mv.MovementDate, &mv.CreatedAt, &itemName, &username,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		if itemName.Valid {
			name := itemName.String
			mv.ItemName = &name
		}
		if username.Valid {
			u := username.String
			mv.Username = &u
		}
		movements = append(movements, mv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock movement rows: %v", ErrDatabaseError, err)
	}
	return movements, nil
}
