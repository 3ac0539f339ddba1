package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavorfi/internal/domain"
)

func TestOrderRepositoryCreate(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := &domain.Order{
		UserID:       1,
		RestaurantID: 2,
		Status:       domain.StatusReceived,
		TotalPrice:   decimal.RequireFromString("20.00"),
		Items: []domain.OrderItem{
			{MenuID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	require.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)
	assert.NotZero(t, order.Items[0].ID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.False(t, order.CreatedAt.IsZero())

	items, err := repo.ListItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].MenuID)

	// Creation writes the initial status log row.
	history, err := repo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusReceived, history[0].Status)
	assert.Equal(t, 1, history[0].ChangedBy)
}

func TestOrderRepositoryReturnsCopies(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := &domain.Order{
		UserID:     1,
		Status:     domain.StatusReceived,
		TotalPrice: decimal.RequireFromString("5.00"),
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCancelled

	again, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, again.Status, "mutating a result must not touch the store")
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := &domain.Order{UserID: 1, Status: domain.StatusReceived}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, domain.StatusPreparing, 7))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, got.Status)

	history, err := repo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 7, history[1].ChangedBy)

	err = repo.UpdateStatus(ctx, 999, domain.StatusReady, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOrderRepositoryListByUser(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	for _, userID := range []int{1, 2, 1} {
		require.NoError(t, repo.Create(ctx, &domain.Order{UserID: userID, Status: domain.StatusReceived}))
	}

	mine, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Less(t, mine[0].ID, mine[1].ID, "results are ordered by id")

	none, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
