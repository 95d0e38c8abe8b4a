package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

// CreateTableRequest is used for registering a new table.
type CreateTableRequest struct {
	Number   int    `json:"number" binding:"required,gt=0"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Status   string `json:"status"`
}

// UpdateTableRequest carries a partial update for an existing table.
type UpdateTableRequest struct {
	Number   *int    `json:"number"`
	Capacity *int    `json:"capacity"`
	Status   *string `json:"status"`
}

// TableService owns table occupancy state. Bind and MarkPaid run against the
// caller's executor because they are invoked from inside order transactions;
// Release is a standalone staff action.
type TableService interface {
	CreateTable(req CreateTableRequest) (*models.RestaurantTable, error)
	GetTableByNumber(number int) (*models.RestaurantTable, error)
	ListTables() ([]models.RestaurantTable, error)
	GetTablesByStatus(status string) ([]models.RestaurantTable, error)
	UpdateTable(tableID int64, req UpdateTableRequest) (*models.RestaurantTable, error)
	DeleteTable(tableID int64) error

	Bind(executor repositories.SQLExecutor, tableNumber int, orderID int64, occupants int) error
	MarkPaid(executor repositories.SQLExecutor, tableNumber int) error
	Release(number int) (*models.RestaurantTable, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
	db        *sql.DB
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, db *sql.DB) TableService {
	return &tableService{tableRepo: tr, db: db}
}

func (s *tableService) CreateTable(req CreateTableRequest) (*models.RestaurantTable, error) {
	status := req.Status
	if status == "" {
		status = models.TableStatusAvailable
	}
	if !models.IsValidTableStatus(status) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, status)
	}

	table := &models.RestaurantTable{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   status,
	}
	if _, err := s.tableRepo.CreateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d", ErrDuplicate, req.Number)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func (s *tableService) GetTableByNumber(number int) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetTableByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *tableService) ListTables() ([]models.RestaurantTable, error) {
	tables, err := s.tableRepo.ListTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTablesByStatus(status string) ([]models.RestaurantTable, error) {
	if !models.IsValidTableStatus(status) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, status)
	}
	tables, err := s.tableRepo.GetTablesByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables by status: %w", err)
	}
	return tables, nil
}

func (s *tableService) UpdateTable(tableID int64, req UpdateTableRequest) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table for update: %w", err)
	}

	if req.Number != nil {
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !models.IsValidTableStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, *req.Status)
		}
		table.Status = *req.Status
	}
	table.UpdatedAt = time.Now()

	if err := s.tableRepo.UpdateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d", ErrDuplicate, table.Number)
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	return table, nil
}

func (s *tableService) DeleteTable(tableID int64) error {
	if _, err := s.tableRepo.DeleteTable(s.db, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return nil
}

// Bind marks the table occupied by one order. A table that already carries a
// bound order rejects a second bind; exactly one active order per table.
func (s *tableService) Bind(executor repositories.SQLExecutor, tableNumber int, orderID int64, occupants int) error {
	table, err := s.tableRepo.GetTableByNumber(tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to get table for binding: %w", err)
	}
	if table.CurrentOrderID != nil {
		return fmt.Errorf("%w: table %d already has order %d bound", ErrInvalidTransition, tableNumber, *table.CurrentOrderID)
	}

	now := time.Now()
	err = s.tableRepo.UpdateTableOccupancy(executor, table.ID, models.TableStatusOccupied, &occupants, &orderID, &now, now)
	if err != nil {
		return fmt.Errorf("failed to bind table %d: %w", tableNumber, err)
	}
	return nil
}

// MarkPaid moves the table to the "paid but not yet vacated" status. The
// occupant, order and session fields stay untouched until Release.
func (s *tableService) MarkPaid(executor repositories.SQLExecutor, tableNumber int) error {
	table, err := s.tableRepo.GetTableByNumber(tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to get table for payment marking: %w", err)
	}
	if err := s.tableRepo.UpdateTableStatus(executor, table.ID, models.TableStatusPaid, time.Now()); err != nil {
		return fmt.Errorf("failed to mark table %d paid: %w", tableNumber, err)
	}
	return nil
}

// Release is the only path back to available. It clears the occupant count,
// the bound order and the session start, and is always an explicit staff
// action, never a side effect of payment or cancellation.
func (s *tableService) Release(number int) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetTableByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table for release: %w", err)
	}

	now := time.Now()
	if err := s.tableRepo.UpdateTableOccupancy(s.db, table.ID, models.TableStatusAvailable, nil, nil, nil, now); err != nil {
		return nil, fmt.Errorf("failed to release table %d: %w", number, err)
	}

	table.Status = models.TableStatusAvailable
	table.Occupants = nil
	table.CurrentOrderID = nil
	table.SessionStart = nil
	table.UpdatedAt = now
	return table, nil
}
