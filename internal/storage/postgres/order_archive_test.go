package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-report/internal/domain"
	"grocery-report/internal/storage"
)

func testOrder(id, date string) *domain.OrderDetail {
	return &domain.OrderDetail{
		ID:   id,
		Date: date,
		Items: []domain.LineItem{
			{
				ProductID:   "501",
				ProductName: "Milk",
				Brand:       "Farm",
				Quantity:    floatPtr(2),
				Price:       floatPtr(24.9),
				Categories: []domain.CategoryTag{
					{ID: 12, Name: "Milk drinks", Level: 2},
					{ID: 5, Name: "Dairy", Level: 1},
				},
			},
			{ProductID: "502", ProductName: "Bread"},
		},
	}
}

func TestOrderArchive_InsertAndGetByID(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)

	order := testOrder("1001", "2024-05-01T10:00:00Z")

	// Insert
	err := store.Insert(ctx, order)
	require.NoError(t, err)

	// GetByID
	got, err := store.GetByID(ctx, "1001")
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.Date, got.Date)
	require.Len(t, got.Items, 2)

	milk := got.Items[0]
	assert.Equal(t, "501", milk.ProductID)
	assert.Equal(t, "Milk", milk.ProductName)
	assert.Equal(t, "Farm", milk.Brand)
	require.NotNil(t, milk.Quantity)
	assert.Equal(t, 2.0, *milk.Quantity)
	require.NotNil(t, milk.Price)
	assert.InDelta(t, 24.9, *milk.Price, 0.0001)
	assert.Equal(t, order.Items[0].Categories, milk.Categories)

	bread := got.Items[1]
	assert.Nil(t, bread.Quantity)
	assert.Nil(t, bread.Price)
	assert.Nil(t, bread.Categories)
}

func TestOrderArchive_FractionalQuantity(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	store := NewOrderArchive(pool)

	order := &domain.OrderDetail{ID: "1002", Items: []domain.LineItem{
		{ProductID: "503", ProductName: "Loose carrots", Quantity: floatPtr(0.4), Price: floatPtr(19.9)},
	}}
	require.NoError(t, store.Insert(ctx, order))

	got, err := store.GetByID(ctx, "1002")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Quantity)
	assert.InDelta(t, 0.4, *got.Items[0].Quantity, 1e-9)
}

func TestOrderArchive_InsertDuplicate(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)

	require.NoError(t, store.Insert(ctx, testOrder("1001", "")))

	err := store.Insert(ctx, testOrder("1001", ""))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The failed insert must not leave extra items behind
	got, err := store.GetByID(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestOrderArchive_InvalidInput(t *testing.T) {
	pool := newTestPool(t)

	store := NewOrderArchive(pool)
	err := store.Insert(context.Background(), &domain.OrderDetail{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestOrderArchive_GetByIDNotFound(t *testing.T) {
	pool := newTestPool(t)

	store := NewOrderArchive(pool)
	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOrderArchive_EmptyOrder(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)

	require.NoError(t, store.Insert(ctx, &domain.OrderDetail{ID: "empty"}))

	got, err := store.GetByID(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestOrderArchive_ListRecentAndCount(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)

	for _, o := range []*domain.OrderDetail{
		testOrder("1", "2024-05-01T10:00:00Z"),
		testOrder("3", "2024-05-03T10:00:00Z"),
		testOrder("2", "2024-05-02T10:00:00Z"),
		testOrder("4", "2024-05-02T10:00:00Z"),
	} {
		require.NoError(t, store.Insert(ctx, o))
	}

	got, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []domain.OrderSummary{{ID: "3"}, {ID: "4"}, {ID: "2"}}, got)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestOrderArchive_ConcurrentInsert(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Insert(ctx, testOrder(fmt.Sprintf("order-%d", i), "")))
		}(i)
	}
	wg.Wait()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestArchiveLoader_Postgres(t *testing.T) {
	pool := newTestPool(t)

	ctx := context.Background()
	store := NewOrderArchive(pool)
	require.NoError(t, store.Insert(ctx, testOrder("1001", "2024-05-01")))

	loader := storage.NewArchiveLoader(store)

	detail, err := loader.GetOrderDetail(ctx, "1001")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Len(t, detail.Items, 2)

	missing, err := loader.GetOrderDetail(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
