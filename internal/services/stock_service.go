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

// CreateStockItemRequest is used for registering a new inventory item.
type CreateStockItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Quantity    int      `json:"quantity" binding:"min=0"`
	MinQuantity int      `json:"min_quantity" binding:"min=0"`
	Unit        string   `json:"unit" binding:"required"`
	UnitCost    *float64 `json:"unit_cost"`
}

// AdjustStockRequest is used for manual stock adjustments.
// For "in" and "out" the quantity is a delta; for "adjust" it is the literal
// target value the item quantity is set to.
type AdjustStockRequest struct {
	Kind     string `json:"kind" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// StockService owns item quantities and the append-only movement ledger.
type StockService interface {
	CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error)
	GetStockItemByID(itemID int64) (*models.StockItem, error)
	ListStockItems() ([]models.StockItem, error)
	ListLowStockItems() ([]models.StockItem, error)
	AdjustStock(itemID int64, req AdjustStockRequest, username string) (*models.StockItem, error)
	ListMovements(itemID int64) ([]models.StockMovement, error)

	// ApplyOrderEffect deducts (consume) or restores (!consume) inventory for
	// every line of the order, using the owning product's ingredient
	// descriptor. Runs against the caller's executor so order processing
	// stays one atomic unit of work.
	ApplyOrderEffect(executor repositories.SQLExecutor, order *models.Order, consume bool) error
}

type stockService struct {
	stockRepo   repositories.StockRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	db          *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(
	sr repositories.StockRepository,
	pr repositories.ProductRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) StockService {
	return &stockService{
		stockRepo:   sr,
		productRepo: pr,
		userRepo:    ur,
		db:          db,
	}
}

func (s *stockService) CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error) {
	if req.Quantity < 0 || req.MinQuantity < 0 {
		return nil, fmt.Errorf("%w: quantities must not be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	item := &models.StockItem{
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		UnitCost:    req.UnitCost,
	}
	if _, err := s.stockRepo.CreateStockItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: stock item named %q", ErrDuplicate, req.Name)
		}
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	// Non-zero starting quantity gets an opening ledger entry.
	if req.Quantity > 0 {
		movement := &models.StockMovement{
			StockItemID:  item.ID,
			Kind:         models.MovementIn,
			Quantity:     req.Quantity,
			Reason:       utils.NewNullString("Initial stock"),
			MovementDate: time.Now(),
		}
		if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
			return nil, fmt.Errorf("failed to record initial stock movement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock item creation: %w", err)
	}
	return item, nil
}

func (s *stockService) GetStockItemByID(itemID int64) (*models.StockItem, error) {
	item, err := s.stockRepo.GetStockItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}
	return item, nil
}

func (s *stockService) ListStockItems() ([]models.StockItem, error) {
	items, err := s.stockRepo.ListStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}
	return items, nil
}

func (s *stockService) ListLowStockItems() ([]models.StockItem, error) {
	items, err := s.stockRepo.ListLowStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}

// AdjustStock applies a manual inventory correction. Unlike the automatic
// order-driven path, an "out" adjustment that would push the quantity below
// zero is a hard failure.
func (s *stockService) AdjustStock(itemID int64, req AdjustStockRequest, username string) (*models.StockItem, error) {
	if !models.IsValidMovementKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown movement kind %q", ErrValidation, req.Kind)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	item, err := s.stockRepo.GetStockItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item for adjustment: %w", err)
	}

	newQuantity := item.Quantity
	magnitude := req.Quantity

	switch req.Kind {
	case models.MovementIn:
		newQuantity += req.Quantity
	case models.MovementOut:
		newQuantity -= req.Quantity
		if newQuantity < 0 {
			return nil, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, item.Name, item.Quantity, req.Quantity)
		}
	case models.MovementAdjust:
		// The request carries the target value; the ledger records |target - previous|.
		diff := req.Quantity - item.Quantity
		if diff == 0 {
			return item, nil
		}
		newQuantity = req.Quantity
		if diff < 0 {
			magnitude = -diff
		} else {
			magnitude = diff
		}
	}

	var userID *int64
	if username != "" {
		if user, userErr := s.userRepo.GetUserByUsername(username); userErr == nil {
			userID = &user.ID
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := s.stockRepo.UpdateStockQuantity(tx, item.ID, newQuantity, now); err != nil {
		return nil, fmt.Errorf("failed to update stock quantity: %w", err)
	}

	movement := &models.StockMovement{
		StockItemID:  item.ID,
		UserID:       userID,
		Kind:         req.Kind,
		Quantity:     magnitude,
		Reason:       utils.NewNullString(req.Reason),
		MovementDate: now,
	}
	if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}

	item.Quantity = newQuantity
	item.UpdatedAt = now
	return item, nil
}

func (s *stockService) ListMovements(itemID int64) ([]models.StockMovement, error) {
	if _, err := s.stockRepo.GetStockItemByID(itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item for movement listing: %w", err)
	}
	movements, err := s.stockRepo.GetMovementsByItemID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *stockService) ApplyOrderEffect(executor repositories.SQLExecutor, order *models.Order, consume bool) error {
	now := time.Now()
	for _, line := range order.Items {
		for _, req := range s.resolveLineRequirements(line) {
			item, err := s.stockRepo.GetStockItemByName(req.Name)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					// Unmatched ingredient names are skipped, not fatal.
					utils.LogDebug("Ingredient has no matching stock item, skipping",
						map[string]interface{}{"ingredient": req.Name, "order_number": order.OrderNumber})
					continue
				}
				return fmt.Errorf("failed to look up stock item %q: %w", req.Name, err)
			}

			kind := models.MovementOut
			reason := fmt.Sprintf("Order %s", order.OrderNumber)
			newQuantity := item.Quantity
			if consume {
				newQuantity -= req.Quantity
				if newQuantity < 0 {
					// Automatic deduction clamps instead of failing: the order
					// is already committed to the guest.
					utils.LogWarn("Stock deduction clamped to zero",
						map[string]interface{}{
							"stock_item":   item.Name,
							"available":    item.Quantity,
							"requested":    req.Quantity,
							"order_number": order.OrderNumber,
						})
					newQuantity = 0
				}
			} else {
				kind = models.MovementIn
				reason = fmt.Sprintf("Order %s cancelled", order.OrderNumber)
				newQuantity += req.Quantity
			}

			if err := s.stockRepo.UpdateStockQuantity(executor, item.ID, newQuantity, now); err != nil {
				return fmt.Errorf("failed to update stock for %q: %w", item.Name, err)
			}
			movement := &models.StockMovement{
				StockItemID:  item.ID,
				Kind:         kind,
				Quantity:     req.Quantity,
				Reason:       &reason,
				MovementDate: now,
			}
			if _, err := s.stockRepo.CreateMovement(executor, movement); err != nil {
				return fmt.Errorf("failed to record order stock movement for %q: %w", item.Name, err)
			}
		}
	}
	return nil
}

// resolveLineRequirements turns one order line into absolute stock
// requirements: per-unit descriptor quantities scaled by the ordered
// quantity, or the product name itself when no descriptor exists.
func (s *stockService) resolveLineRequirements(line models.OrderItem) []IngredientRequirement {
	var descriptor *string
	if product, err := s.productRepo.GetProductByID(line.ProductID); err == nil {
		descriptor = product.Ingredients
	}

	requirements := ResolveIngredients(descriptor)
	if len(requirements) == 0 {
		return []IngredientRequirement{{Name: line.ProductName, Quantity: line.Quantity}}
	}
	scaled := make([]IngredientRequirement, 0, len(requirements))
	for _, req := range requirements {
		scaled = append(scaled, IngredientRequirement{Name: req.Name, Quantity: req.Quantity * line.Quantity})
	}
	return scaled
}
