package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for restaurant table database operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error)
	GetTableByID(tableID int64) (*models.RestaurantTable, error)
	GetTableByNumber(number int) (*models.RestaurantTable, error)
	ListTables() ([]models.RestaurantTable, error)
	GetTablesByStatus(status string) ([]models.RestaurantTable, error)
	UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error
	UpdateTableStatus(executor SQLExecutor, tableID int64, status string, updatedAt time.Time) error
	UpdateTableOccupancy(executor SQLExecutor, tableID int64, status string, occupants *int, currentOrderID *int64, sessionStart *time.Time, updatedAt time.Time) error
	DeleteTable(executor SQLExecutor, tableID int64) (int64, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, number, capacity, status, occupants, current_order_id, session_start, created_at, updated_at`

func scanTable(row interface{ Scan(...interface{}) error }, t *models.RestaurantTable) error {
	return row.Scan(
		&t.ID, &t.Number, &t.Capacity, &t.Status, &t.Occupants, &t.CurrentOrderID, &t.SessionStart,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error) {
	query := `INSERT INTO restaurant_tables (number, capacity, status, occupants, current_order_id, session_start, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now()
	}
	if table.UpdatedAt.IsZero() {
		table.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		table.Number, table.Capacity, table.Status, table.Occupants, table.CurrentOrderID, table.SessionStart,
		table.CreatedAt, table.UpdatedAt,
	).Scan(&table.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: table number %d", ErrDuplicateKey, table.Number)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByID(tableID int64) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{}
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = $1`
	err := scanTable(r.db.QueryRow(query, tableID), table)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return table, nil
}

func (r *tableRepository) GetTableByNumber(number int) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{}
	query := `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE number = $1`
	err := scanTable(r.db.QueryRow(query, number), table)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by number %d: %v", ErrDatabaseError, number, err)
	}
	return table, nil
}

func (r *tableRepository) listTables(query string, args ...interface{}) ([]models.RestaurantTable, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tables := []models.RestaurantTable{}
	for rows.Next() {
		var t models.RestaurantTable
		if err := scanTable(rows, &t); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) ListTables() ([]models.RestaurantTable, error) {
	return r.listTables(`SELECT ` + tableColumns + ` FROM restaurant_tables ORDER BY number ASC`)
}

func (r *tableRepository) GetTablesByStatus(status string) ([]models.RestaurantTable, error) {
	return r.listTables(`SELECT `+tableColumns+` FROM restaurant_tables WHERE status = $1 ORDER BY number ASC`, status)
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error {
	query := `UPDATE restaurant_tables
	          SET number = $1, capacity = $2, status = $3, occupants = $4, current_order_id = $5,
	              session_start = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		table.Number, table.Capacity, table.Status, table.Occupants, table.CurrentOrderID,
		table.SessionStart, table.UpdatedAt, table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: table number %d", ErrDuplicateKey, table.Number)
		}
		return fmt.Errorf("%w: updating table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	return checkAffected(result, table.ID, "table update")
}

func (r *tableRepository) UpdateTableStatus(executor SQLExecutor, tableID int64, status string, updatedAt time.Time) error {
	query := `UPDATE restaurant_tables SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, updatedAt, tableID)
	if err != nil {
		return fmt.Errorf("%w: updating table status for ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return checkAffected(result, tableID, "table status update")
}

func (r *tableRepository) UpdateTableOccupancy(executor SQLExecutor, tableID int64, status string, occupants *int, currentOrderID *int64, sessionStart *time.Time, updatedAt time.Time) error {
	query := `UPDATE restaurant_tables
	          SET status = $1, occupants = $2, current_order_id = $3, session_start = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query, status, occupants, currentOrderID, sessionStart, updatedAt, tableID)
	if err != nil {
		return fmt.Errorf("%w: updating table occupancy for ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return checkAffected(result, tableID, "table occupancy update")
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, tableID int64) (int64, error) {
	query := `DELETE FROM restaurant_tables WHERE id = $1`
	result, err := executor.Exec(query, tableID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}
