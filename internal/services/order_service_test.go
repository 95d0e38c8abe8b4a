package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_backend/internal/models"
)

type orderServiceEnv struct {
	service   OrderService
	orderRepo *fakeOrderRepo
	products  *fakeProductRepo
	stock     *fakeStockRepo
	tables    *fakeTableRepo
}

func newOrderServiceEnv(t *testing.T) *orderServiceEnv {
	t.Helper()
	db := newTestDB(t)
	env := &orderServiceEnv{
		orderRepo: newFakeOrderRepo(),
		products:  newFakeProductRepo(),
		stock:     newFakeStockRepo(),
		tables:    newFakeTableRepo(),
	}
	stockService := NewStockService(env.stock, env.products, newFakeUserRepo(), db)
	tableService := NewTableService(env.tables, db)
	env.service = NewOrderService(env.orderRepo, env.products, stockService, tableService, NewMemoryNumberSource(""), db)
	return env
}

func TestCreateOrderComputesTotalsAndNumber(t *testing.T) {
	env := newOrderServiceEnv(t)
	pizza := env.products.add("Pizza", models.CategoryMain, 12.50, nil)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	env.tables.add(4, 4)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 4,
		PartySize:   2,
		Items: []CreateOrderItemRequest{
			{ProductID: pizza.ID, Quantity: 2},
			{ProductID: cola.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, 2*12.50+3*3.00, order.Subtotal)
	assert.Equal(t, order.Subtotal, order.Total)
	expectedNumber := fmt.Sprintf("PED-%s-0001", time.Now().Format("20060102"))
	assert.Equal(t, expectedNumber, order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Pizza", order.Items[0].ProductName)
	assert.Equal(t, 25.00, order.Items[0].TotalPrice)

	table, err := env.tables.GetTableByNumber(4)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	require.NotNil(t, table.CurrentOrderID)
	assert.Equal(t, order.ID, *table.CurrentOrderID)
	require.NotNil(t, table.Occupants)
	assert.Equal(t, 2, *table.Occupants)
}

func TestCreateOrderBeverageOnlyStartsReady(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	wine := env.products.add("House Wine", models.CategoryAlcohol, 6.00, nil)
	env.tables.add(1, 2)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   2,
		Items: []CreateOrderItemRequest{
			{ProductID: cola.ID, Quantity: 1},
			{ProductID: wine.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newOrderServiceEnv(t)
	env.tables.add(1, 2)

	_, err := env.service.CreateOrder(CreateOrderRequest{TableNumber: 1, PartySize: 2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrderToleratesUnknownTable(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 42,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, order.TableNumber)
}

func TestCreateOrderRejectsSecondBindOnTable(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	env.tables.add(7, 4)

	_, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 7,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 7,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreateOrderDeductsStockByProductName(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	item := env.stock.add("Cola", 10, 2)
	env.tables.add(1, 2)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	updated, err := env.stock.GetStockItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	movements := env.stock.movementsFor(item.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementOut, movements[0].Kind)
	assert.Equal(t, 4, movements[0].Quantity)
	require.NotNil(t, movements[0].Reason)
	assert.Equal(t, "Order "+order.OrderNumber, *movements[0].Reason)
}

func TestCreateOrderClampsStockToZero(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	item := env.stock.add("Cola", 1, 0)
	env.tables.add(1, 2)

	_, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	updated, err := env.stock.GetStockItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	// The ledger records what the order asked for, not what was available.
	movements := env.stock.movementsFor(item.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, 3, movements[0].Quantity)
}

func TestCreateOrderUsesIngredientDescriptor(t *testing.T) {
	env := newOrderServiceEnv(t)
	descriptor := `[{"name": "Dough", "quantity": 2}, "Cheese"]`
	pizza := env.products.add("Pizza", models.CategoryMain, 12.00, &descriptor)
	dough := env.stock.add("Dough", 20, 2)
	cheese := env.stock.add("Cheese", 20, 2)
	env.tables.add(1, 2)

	_, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: pizza.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	updatedDough, _ := env.stock.GetStockItemByID(dough.ID)
	assert.Equal(t, 20-2*3, updatedDough.Quantity)
	updatedCheese, _ := env.stock.GetStockItemByID(cheese.ID)
	assert.Equal(t, 20-1*3, updatedCheese.Quantity)
}

func TestSetStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.OrderStatusNew, models.OrderStatusReceived, true},
		{models.OrderStatusNew, models.OrderStatusPreparing, true},
		{models.OrderStatusNew, models.OrderStatusReady, false},
		{models.OrderStatusReceived, models.OrderStatusPreparing, true},
		{models.OrderStatusReceived, models.OrderStatusDelayed, true},
		{models.OrderStatusPreparing, models.OrderStatusReady, true},
		{models.OrderStatusPreparing, models.OrderStatusDelayed, true},
		{models.OrderStatusDelayed, models.OrderStatusPreparing, true},
		{models.OrderStatusDelayed, models.OrderStatusReady, true},
		{models.OrderStatusReady, models.OrderStatusDelivered, true},
		{models.OrderStatusReady, models.OrderStatusPreparing, false},
		{models.OrderStatusDelivered, models.OrderStatusReady, false},
		{models.OrderStatusNew, models.OrderStatusPaid, false},
		{models.OrderStatusReady, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusNew, false},
		{models.OrderStatusPaid, models.OrderStatusNew, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			env := newOrderServiceEnv(t)
			pizza := env.products.add("Pizza", models.CategoryMain, 12.00, nil)
			env.tables.add(1, 2)
			order, err := env.service.CreateOrder(CreateOrderRequest{
				TableNumber: 1,
				PartySize:   2,
				Items:       []CreateOrderItemRequest{{ProductID: pizza.ID, Quantity: 1}},
			})
			require.NoError(t, err)
			require.NoError(t, env.orderRepo.UpdateOrderStatus(nil, order.ID, tc.from, time.Now()))

			updated, err := env.service.SetStatus(order.ID, UpdateOrderStatusRequest{Status: tc.to})
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	env := newOrderServiceEnv(t)
	_, err := env.service.SetStatus(1, UpdateOrderStatusRequest{Status: "fried"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPayOrder(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 4.00, nil)
	env.tables.add(3, 4)

	// Beverage-only order starts ready, which is payable.
	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 3,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	tip := 1.50
	paid, err := env.service.Pay(order.ID, PayOrderRequest{PaymentMethod: models.PaymentMethodCash, Tip: &tip})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *paid.PaymentMethod)
	assert.Equal(t, 8.00, paid.Subtotal)
	assert.Equal(t, 9.50, paid.Total)

	// The table moves to paid, not back to available.
	table, err := env.tables.GetTableByNumber(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusPaid, table.Status)
	assert.NotNil(t, table.CurrentOrderID)
}

func TestPayRequiresReadyOrDelivered(t *testing.T) {
	env := newOrderServiceEnv(t)
	pizza := env.products.add("Pizza", models.CategoryMain, 12.00, nil)
	env.tables.add(1, 2)
	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.service.Pay(order.ID, PayOrderRequest{PaymentMethod: models.PaymentMethodCash})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, env.orderRepo.UpdateOrderStatus(nil, order.ID, models.OrderStatusDelivered, time.Now()))
	_, err = env.service.Pay(order.ID, PayOrderRequest{PaymentMethod: models.PaymentMethodQR})
	require.NoError(t, err)
}

func TestPayValidation(t *testing.T) {
	env := newOrderServiceEnv(t)
	_, err := env.service.Pay(1, PayOrderRequest{PaymentMethod: "barter"})
	assert.ErrorIs(t, err, ErrValidation)

	negativeTip := -1.0
	_, err = env.service.Pay(1, PayOrderRequest{PaymentMethod: models.PaymentMethodCash, Tip: &negativeTip})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelRestoresStockAndKeepsTableBound(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	item := env.stock.add("Cola", 10, 2)
	env.tables.add(5, 4)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 5,
		PartySize:   3,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	afterCreate, _ := env.stock.GetStockItemByID(item.ID)
	require.Equal(t, 6, afterCreate.Quantity)

	require.NoError(t, env.service.Cancel(order.ID))

	cancelled, err := env.service.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	restored, _ := env.stock.GetStockItemByID(item.ID)
	assert.Equal(t, 10, restored.Quantity)

	movements := env.stock.movementsFor(item.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, models.MovementIn, movements[1].Kind)
	require.NotNil(t, movements[1].Reason)
	assert.Equal(t, "Order "+order.OrderNumber+" cancelled", *movements[1].Reason)

	// The guests may still be seated; only an explicit release frees the table.
	table, err := env.tables.GetTableByNumber(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	assert.NotNil(t, table.CurrentOrderID)
}

func TestCancelGating(t *testing.T) {
	for _, status := range []string{models.OrderStatusPaid, models.OrderStatusDelivered, models.OrderStatusCancelled} {
		t.Run(status, func(t *testing.T) {
			env := newOrderServiceEnv(t)
			cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
			env.tables.add(1, 2)
			order, err := env.service.CreateOrder(CreateOrderRequest{
				TableNumber: 1,
				PartySize:   1,
				Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
			})
			require.NoError(t, err)
			require.NoError(t, env.orderRepo.UpdateOrderStatus(nil, order.ID, status, time.Now()))

			assert.ErrorIs(t, env.service.Cancel(order.ID), ErrInvalidTransition)
		})
	}
}

func TestAddItems(t *testing.T) {
	env := newOrderServiceEnv(t)
	pizza := env.products.add("Pizza", models.CategoryMain, 12.00, nil)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	item := env.stock.add("Cola", 10, 2)
	env.tables.add(1, 2)

	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   2,
		Items:       []CreateOrderItemRequest{{ProductID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := env.service.AddItems(order.ID, []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 12.00+2*3.00, updated.Subtotal)
	assert.Equal(t, updated.Subtotal, updated.Total)

	// Added lines do not touch inventory.
	stockItem, _ := env.stock.GetStockItemByID(item.ID)
	assert.Equal(t, 10, stockItem.Quantity)
	assert.Empty(t, env.stock.movementsFor(item.ID))
}

func TestAddItemsRejectedOnPaidOrder(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	env.tables.add(1, 2)
	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = env.service.Pay(order.ID, PayOrderRequest{PaymentMethod: models.PaymentMethodCash})
	require.NoError(t, err)

	_, err = env.service.AddItems(order.ID, []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkReadyToPay(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	env.tables.add(1, 2)
	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := env.service.MarkReadyToPay(order.ID, ReadyToPayRequest{PaymentMethod: models.PaymentMethodCreditCard})
	require.NoError(t, err)
	assert.True(t, updated.ReadyToPay)
	require.NotNil(t, updated.RequestedPaymentMethod)
	assert.Equal(t, models.PaymentMethodCreditCard, *updated.RequestedPaymentMethod)
	// The lifecycle state is untouched until the cashier confirms.
	assert.Equal(t, models.OrderStatusReady, updated.Status)
}

func TestDismissOnlyCancelledOrders(t *testing.T) {
	env := newOrderServiceEnv(t)
	cola := env.products.add("Cola", models.CategoryDrink, 3.00, nil)
	env.tables.add(1, 2)
	order, err := env.service.CreateOrder(CreateOrderRequest{
		TableNumber: 1,
		PartySize:   1,
		Items:       []CreateOrderItemRequest{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.service.Dismiss(order.ID), ErrInvalidTransition)

	require.NoError(t, env.service.Cancel(order.ID))
	require.NoError(t, env.service.Dismiss(order.ID))

	_, err = env.service.GetOrderByID(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
