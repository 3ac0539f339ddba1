package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/adapter/memory"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
	"flavorfi/internal/metrics"
)

// fixture wires the order engine against the in-memory adapters with one
// restaurant carrying an available item A (10.00) and an unavailable item B
// (5.00), plus a second restaurant owned by somebody else.
type fixture struct {
	svc       *Service
	catalog   interfaces.CatalogRepository
	orders    interfaces.OrderRepository
	publisher *memory.Publisher

	customer   interfaces.Identity
	owner      interfaces.Identity
	otherUser  interfaces.Identity
	otherOwner interfaces.Identity

	restaurant *domain.Restaurant
	itemA      *domain.MenuItem
	itemB      *domain.MenuItem
	foreign    *domain.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		catalog:   memory.NewCatalogRepository(),
		orders:    memory.NewOrderRepository(),
		publisher: memory.NewPublisher(),

		customer:   interfaces.Identity{UserID: 1, Role: domain.RoleCustomer},
		owner:      interfaces.Identity{UserID: 2, Role: domain.RoleOwner},
		otherUser:  interfaces.Identity{UserID: 3, Role: domain.RoleCustomer},
		otherOwner: interfaces.Identity{UserID: 4, Role: domain.RoleOwner},
	}

	f.restaurant = &domain.Restaurant{OwnerID: f.owner.UserID, Name: "Trattoria", Address: "1 Main St"}
	require.NoError(t, f.catalog.CreateRestaurant(ctx, f.restaurant))

	f.itemA = &domain.MenuItem{
		RestaurantID: f.restaurant.ID,
		Name:         "Margherita",
		Price:        decimal.RequireFromString("10.00"),
		Available:    true,
	}
	require.NoError(t, f.catalog.CreateMenuItem(ctx, f.itemA))

	f.itemB = &domain.MenuItem{
		RestaurantID: f.restaurant.ID,
		Name:         "Tiramisu",
		Price:        decimal.RequireFromString("5.00"),
		Available:    false,
	}
	require.NoError(t, f.catalog.CreateMenuItem(ctx, f.itemB))

	other := &domain.Restaurant{OwnerID: f.otherOwner.UserID, Name: "Elsewhere", Address: "2 Side St"}
	require.NoError(t, f.catalog.CreateRestaurant(ctx, other))

	f.foreign = &domain.MenuItem{
		RestaurantID: other.ID,
		Name:         "Foreign Dish",
		Price:        decimal.RequireFromString("7.00"),
		Available:    true,
	}
	require.NoError(t, f.catalog.CreateMenuItem(ctx, f.foreign))

	f.svc = NewService(
		f.orders,
		f.catalog,
		f.publisher,
		metrics.New(prometheus.NewRegistry()),
		logger.NewWithWriter("order-test", io.Discard),
	)
	return f
}

func (f *fixture) createCmd(items ...interfaces.CreateOrderItemCommand) interfaces.CreateOrderCommand {
	return interfaces.CreateOrderCommand{RestaurantID: f.restaurant.ID, Items: items}
}

// assertNoOrders verifies nothing was persisted for the given user.
func (f *fixture) assertNoOrders(t *testing.T, caller interfaces.Identity) {
	t.Helper()
	orders, err := f.orders.ListByUser(context.Background(), caller.UserID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 2},
	))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.StatusReceived, order.Status)
	assert.Equal(t, f.customer.UserID, order.UserID)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("20.00")),
		"total was %s", order.TotalPrice)
	assert.False(t, order.CreatedAt.IsZero())

	items, err := f.orders.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.itemA.ID, items[0].MenuID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(f.itemA.Price))

	events := f.publisher.OrderCreatedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].OrderID)
	assert.Equal(t, 20.0, events[0].TotalPrice)
}

func TestCreateOrderDuplicateLinesStaySeparate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 2},
	))
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("30.00")))

	items, err := f.orders.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "duplicate menu ids must not be merged")
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  interfaces.CreateOrderCommand
		kind error
	}{
		{
			name: "missing restaurant",
			cmd: interfaces.CreateOrderCommand{Items: []interfaces.CreateOrderItemCommand{
				{MenuID: f.itemA.ID, Quantity: 1},
			}},
			kind: domain.ErrValidation,
		},
		{
			name: "empty items",
			cmd:  f.createCmd(),
			kind: domain.ErrValidation,
		},
		{
			name: "zero quantity",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 0}),
			kind: domain.ErrValidation,
		},
		{
			name: "negative quantity",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: -1}),
			kind: domain.ErrValidation,
		},
		{
			name: "missing menu id",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{Quantity: 1}),
			kind: domain.ErrValidation,
		},
		{
			name: "unknown restaurant",
			cmd: interfaces.CreateOrderCommand{RestaurantID: 999, Items: []interfaces.CreateOrderItemCommand{
				{MenuID: f.itemA.ID, Quantity: 1},
			}},
			kind: domain.ErrNotFound,
		},
		{
			name: "unknown menu item",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{MenuID: 999, Quantity: 1}),
			kind: domain.ErrNotFound,
		},
		{
			name: "unavailable item",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{MenuID: f.itemB.ID, Quantity: 1}),
			kind: domain.ErrValidation,
		},
		{
			name: "item from another restaurant",
			cmd:  f.createCmd(interfaces.CreateOrderItemCommand{MenuID: f.foreign.ID, Quantity: 1}),
			kind: domain.ErrNotFound,
		},
		{
			name: "one bad line poisons the whole order",
			cmd: f.createCmd(
				interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
				interfaces.CreateOrderItemCommand{MenuID: f.itemB.ID, Quantity: 1},
			),
			kind: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, f.customer, tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			f.assertNoOrders(t, f.customer)
			assert.Empty(t, f.publisher.OrderCreatedEvents())
		})
	}
}

func TestCreateOrderErrorMessagesNameTheItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: 999, Quantity: 1},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "999")

	_, err = f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemB.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), f.itemB.Name)
}

func TestCreateOrderSnapshotsUnitPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 2},
	))
	require.NoError(t, err)

	// Raise the menu price after the order was placed.
	updated := *f.itemA
	updated.Price = decimal.RequireFromString("99.00")
	require.NoError(t, f.catalog.UpdateMenuItem(ctx, &updated))

	details, err := f.svc.OrderDetails(ctx, f.customer, order.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	assert.Equal(t, 10.0, details.Items[0].UnitPrice)
	assert.True(t, details.Order.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestCreateOrderReadsLatestCatalogState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Flip item A to unavailable; the next order must see it immediately.
	updated := *f.itemA
	updated.Available = false
	require.NoError(t, f.catalog.UpdateMenuItem(ctx, &updated))

	_, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.publisher.FailNext(fmt.Errorf("broker down"))

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err, "a broker failure must not fail the order")
	assert.NotZero(t, order.ID)
}

func TestOrderDetailsAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// Placer and restaurant owner may read, nobody else.
	_, err = f.svc.OrderDetails(ctx, f.customer, order.ID)
	assert.NoError(t, err)

	_, err = f.svc.OrderDetails(ctx, f.owner, order.ID)
	assert.NoError(t, err)

	for _, caller := range []interfaces.Identity{f.otherUser, f.otherOwner} {
		_, err = f.svc.OrderDetails(ctx, caller, order.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAuthorization))
	}

	_, err = f.svc.OrderDetails(ctx, f.customer, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOrderDetailsDegradesDeletedMenuName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteMenuItem(ctx, f.itemA.ID))

	details, err := f.svc.OrderDetails(ctx, f.customer, order.ID)
	require.NoError(t, err, "a deleted menu must not fail the request")
	require.Len(t, details.Items, 1)
	assert.Equal(t, "unknown", details.Items[0].MenuName)
	assert.Equal(t, 10.0, details.Items[0].UnitPrice, "snapshot price survives deletion")
}

func TestListUserOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
			interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
		))
		require.NoError(t, err)
	}
	_, err := f.svc.CreateOrder(ctx, f.otherUser, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	mine, err := f.svc.ListUserOrders(ctx, f.customer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, order := range mine {
		assert.Equal(t, f.customer.UserID, order.UserID)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// Flat set-transition: the owner may set every enumerated status, in any
	// order, including back to received.
	for _, status := range []string{"preparing", "ready", "delivered", "cancelled", "received"} {
		got, err := f.svc.UpdateStatus(ctx, f.owner, order.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, domain.Status(status), got)

		stored, err := f.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Status(status), stored.Status)
	}

	events := f.publisher.StatusChangedEvents()
	require.Len(t, events, 5)
	assert.Equal(t, domain.StatusReceived, events[0].OldStatus)
	assert.Equal(t, domain.StatusPreparing, events[0].NewStatus)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// The placing customer cannot progress their own order.
	_, err = f.svc.UpdateStatus(ctx, f.customer, order.ID, "preparing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	// An owner of a different restaurant cannot either.
	_, err = f.svc.UpdateStatus(ctx, f.otherOwner, order.ID, "preparing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	// The role gate fires before the order lookup.
	_, err = f.svc.UpdateStatus(ctx, f.customer, 999, "preparing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	// With the owner role, a missing order is a 404.
	_, err = f.svc.UpdateStatus(ctx, f.owner, 999, "preparing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Out-of-enum status is rejected after ownership checks pass.
	_, err = f.svc.UpdateStatus(ctx, f.owner, order.ID, "shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	stored, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, stored.Status, "failed updates must not change the status")
}

func TestCreateOrderConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second := &domain.MenuItem{
		RestaurantID: f.restaurant.ID,
		Name:         "Pepperoni",
		Price:        decimal.RequireFromString("5.00"),
		Available:    true,
	}
	require.NoError(t, f.catalog.CreateMenuItem(ctx, second))

	// Concurrent orders share menu items; each must price independently and
	// land with both of its lines.
	const concurrent = 32
	wantTotal := decimal.RequireFromString("25.00")

	ids := make(chan int, concurrent)
	errs := make(chan error, concurrent*2)
	var writers sync.WaitGroup

	for i := 0; i < concurrent; i++ {
		writers.Add(1)
		go func(userID int) {
			defer writers.Done()

			order, err := f.svc.CreateOrder(ctx, interfaces.Identity{UserID: userID, Role: domain.RoleCustomer}, f.createCmd(
				interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 2},
				interfaces.CreateOrderItemCommand{MenuID: second.ID, Quantity: 1},
			))
			if err != nil {
				errs <- err
				return
			}
			if !order.TotalPrice.Equal(wantTotal) {
				errs <- fmt.Errorf("order %d: total %s, want %s", order.ID, order.TotalPrice, wantTotal)
				return
			}
			ids <- order.ID
		}(100 + i)
	}

	// A reader racing the remaining writers: any order whose id is visible
	// must already carry all of its line items.
	var readers sync.WaitGroup
	seen := 0
	readers.Add(1)
	go func() {
		defer readers.Done()
		for id := range ids {
			seen++
			items, err := f.orders.ListItemsByOrder(ctx, id)
			if err != nil {
				errs <- err
				continue
			}
			if len(items) != 2 {
				errs <- fmt.Errorf("order %d: visible with %d of 2 items", id, len(items))
			}
		}
	}()

	writers.Wait()
	close(ids)
	readers.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, concurrent, seen)
}

func TestStatusHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.customer, f.createCmd(
		interfaces.CreateOrderItemCommand{MenuID: f.itemA.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.owner, order.ID, "preparing")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.owner, order.ID, "ready")
	require.NoError(t, err)

	history, err := f.svc.StatusHistory(ctx, f.customer, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.StatusReceived, history[0].Status)
	assert.Equal(t, domain.StatusPreparing, history[1].Status)
	assert.Equal(t, domain.StatusReady, history[2].Status)
	assert.Equal(t, f.owner.UserID, history[2].ChangedBy)

	_, err = f.svc.StatusHistory(ctx, f.otherUser, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthorization))
}
