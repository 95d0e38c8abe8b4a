package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_backend/internal/models"
)

func newStockServiceEnv(t *testing.T) (StockService, *fakeStockRepo, *fakeUserRepo) {
	t.Helper()
	stockRepo := newFakeStockRepo()
	userRepo := newFakeUserRepo()
	service := NewStockService(stockRepo, newFakeProductRepo(), userRepo, newTestDB(t))
	return service, stockRepo, userRepo
}

func TestCreateStockItemRecordsOpeningMovement(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)

	item, err := service.CreateStockItem(CreateStockItemRequest{
		Name: "Flour", Quantity: 50, MinQuantity: 10, Unit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, item.Quantity)

	movements := stockRepo.movementsFor(item.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementIn, movements[0].Kind)
	assert.Equal(t, 50, movements[0].Quantity)
	require.NotNil(t, movements[0].Reason)
	assert.Equal(t, "Initial stock", *movements[0].Reason)
}

func TestCreateStockItemZeroQuantityHasNoMovement(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)

	item, err := service.CreateStockItem(CreateStockItemRequest{Name: "Saffron", Unit: "g"})
	require.NoError(t, err)
	assert.Empty(t, stockRepo.movementsFor(item.ID))
}

func TestCreateStockItemDuplicateName(t *testing.T) {
	service, _, _ := newStockServiceEnv(t)

	_, err := service.CreateStockItem(CreateStockItemRequest{Name: "Flour", Unit: "kg"})
	require.NoError(t, err)
	_, err = service.CreateStockItem(CreateStockItemRequest{Name: "Flour", Unit: "kg"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAdjustStockIn(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 10, 2)

	updated, err := service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementIn, Quantity: 5, Reason: "Weekly delivery",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)

	movements := stockRepo.movementsFor(item.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementIn, movements[0].Kind)
	assert.Equal(t, 5, movements[0].Quantity)
	assert.Nil(t, movements[0].UserID)
}

func TestAdjustStockOutFailsBelowZero(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 3, 0)

	// Manual removal never clamps, unlike the order-driven deduction.
	_, err := service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementOut, Quantity: 5,
	}, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	unchanged, _ := stockRepo.GetStockItemByID(item.ID)
	assert.Equal(t, 3, unchanged.Quantity)
	assert.Empty(t, stockRepo.movementsFor(item.ID))

	updated, err := service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementOut, Quantity: 3, Reason: "Spoiled",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
}

func TestAdjustStockTargetSemantics(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 10, 2)

	// "adjust" carries the target value; the ledger gets |target - previous|.
	updated, err := service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementAdjust, Quantity: 4, Reason: "Stocktake",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	movements := stockRepo.movementsFor(item.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementAdjust, movements[0].Kind)
	assert.Equal(t, 6, movements[0].Quantity)

	updated, err = service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementAdjust, Quantity: 9,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)
	movements = stockRepo.movementsFor(item.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, 5, movements[1].Quantity)
}

func TestAdjustStockNoOpWritesNothing(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 10, 2)

	updated, err := service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementAdjust, Quantity: 10,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.Empty(t, stockRepo.movementsFor(item.ID))
}

func TestAdjustStockAttributesActor(t *testing.T) {
	service, stockRepo, userRepo := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 10, 2)
	_, err := userRepo.CreateUser(nil, &models.User{Username: "ana", Role: models.RoleManager})
	require.NoError(t, err)

	_, err = service.AdjustStock(item.ID, AdjustStockRequest{
		Kind: models.MovementIn, Quantity: 1,
	}, "ana")
	require.NoError(t, err)

	movements := stockRepo.movementsFor(item.ID)
	require.Len(t, movements, 1)
	require.NotNil(t, movements[0].UserID)
	assert.Equal(t, int64(1), *movements[0].UserID)
}

func TestAdjustStockValidation(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	item := stockRepo.add("Flour", 10, 2)

	_, err := service.AdjustStock(item.ID, AdjustStockRequest{Kind: "transfer", Quantity: 1}, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.AdjustStock(item.ID, AdjustStockRequest{Kind: models.MovementIn, Quantity: 0}, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.AdjustStock(999, AdjustStockRequest{Kind: models.MovementIn, Quantity: 1}, "")
	assert.ErrorIs(t, err, ErrStockItemNotFound)
}

func TestListLowStockItems(t *testing.T) {
	service, stockRepo, _ := newStockServiceEnv(t)
	stockRepo.add("Flour", 10, 2)
	low := stockRepo.add("Cheese", 2, 5)
	boundary := stockRepo.add("Olives", 4, 4)

	items, err := service.ListLowStockItems()
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{low.Name, boundary.Name}, names)
}
