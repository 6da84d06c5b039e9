package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/specification"
	"smart-fridge-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	_, err := svc.Merge(ctx, "alice", []DetectedItem{{Name: "Milk", Quantity: 3}})
	require.NoError(t, err)
	outcome, err := svc.Merge(ctx, "alice", []DetectedItem{{Name: "Milk", Quantity: 5}})
	require.NoError(t, err)

	require.Len(t, outcome.Items, 1)
	assert.Equal(t, 8, outcome.Items[0].Quantity)
	assert.Empty(t, outcome.Created)

	items, err := svc.ListItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Quantity)
}

func TestMergeIsCaseInsensitiveAndKeepsFirstCasing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	outcome, err := svc.Merge(ctx, "Alice", []DetectedItem{{Name: "Apple", Quantity: 1}, {Name: " apple ", Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, outcome.UserCreated)
	assert.Equal(t, []string{"Apple"}, outcome.Created)

	_, err = svc.Merge(ctx, "alice", []DetectedItem{{Name: "APPLE", Quantity: 1}})
	require.NoError(t, err)

	items, err := svc.ListItems(ctx, "ALICE")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Apple", items[0].Name)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestMergeReturnsItemsInDetectionOrder(t *testing.T) {
	svc, _ := newTestInventory(t)

	outcome, err := svc.Merge(context.Background(), "bob", []DetectedItem{
		{Name: "Eggs", Quantity: 1},
		{Name: "Butter", Quantity: 1},
		{Name: "eggs", Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, outcome.Items, 2)
	assert.Equal(t, "Eggs", outcome.Items[0].Name)
	assert.Equal(t, 2, outcome.Items[0].Quantity)
	assert.Equal(t, "Butter", outcome.Items[1].Name)
}

func TestUpsertRejectsNegativeResult(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	_, err := svc.Upsert(ctx, "alice", "Cheese", 2, nil)
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, "alice", "cheese", -3, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	items, err := svc.ListItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	item, err := svc.Upsert(ctx, "alice", "cheese", -2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestUpsertNewItemAndExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	item, err := svc.Upsert(ctx, "alice", "  Yogurt ", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Yogurt", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, item.ExpiryDate)

	expiry := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	item, err = svc.Upsert(ctx, "alice", "yogurt", 1, &expiry)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.ExpiryDate)
	assert.Equal(t, "2026-11-02", item.ExpiryDate.Format("2006-01-02"))

	item, err = svc.Upsert(ctx, "alice", "yogurt", 1, nil)
	require.NoError(t, err)
	require.NotNil(t, item.ExpiryDate, "nil expiry must leave the stored date alone")
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestInventory(t)

	_, err := svc.Upsert(context.Background(), "alice", "   ", 1, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidPayload)

	_, err = svc.Upsert(context.Background(), " ", "Milk", 1, nil)
	assert.ErrorIs(t, err, apperror.ErrMissingUsername)
}

func TestRemoveTwiceIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	item, err := svc.Upsert(ctx, "alice", "Beef", 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "alice", item.ID))
	assert.ErrorIs(t, svc.Remove(ctx, "alice", item.ID), apperror.ErrNotFound)
}

func TestRemoveOtherUsersItemIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)

	item, err := svc.Upsert(ctx, "alice", "Beef", 1, nil)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "bob", "Fish", 1, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, "bob", item.ID), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, "carol", item.ID), apperror.ErrNotFound)
}

func TestListItemsUnknownUserDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	svc, factory := newTestInventory(t)

	_, err := svc.ListItems(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByUsername{Username: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestExpiringSoon(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestInventory(t)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	tomorrow := now.Add(24 * time.Hour)
	_, err := svc.Upsert(ctx, "alice", "Pasta sauce", 1, &tomorrow)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "alice", "Fish", 1, nil) // 2 day shelf life
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "alice", "Soda", 1, nil) // 180 days
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "alice", "Chicken", 1, nil)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "alice", "chicken", -1, nil) // out of stock
	require.NoError(t, err)

	expiring, err := svc.ExpiringSoon(ctx, "alice", 3*24*time.Hour)
	require.NoError(t, err)

	require.Len(t, expiring, 2)
	assert.Equal(t, "Pasta sauce", expiring[0].Item.Name)
	assert.False(t, expiring[0].Estimated)
	assert.Equal(t, "Fish", expiring[1].Item.Name)
	assert.True(t, expiring[1].Estimated)
	assert.True(t, now.Add(48*time.Hour).Equal(expiring[1].EffectiveExpiry))
}

func TestCoalesceNames(t *testing.T) {
	got := CoalesceNames([]string{"Milk", " milk", "", "Eggs", "MILK", "  "})
	assert.Equal(t, []DetectedItem{{Name: "Milk", Quantity: 3}, {Name: "Eggs", Quantity: 1}}, got)
	assert.Empty(t, CoalesceNames(nil))
}

func TestShelfLife(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		name string
		want time.Duration
	}{
		{name: "Whole Milk", want: 7 * day},
		{name: "eggs", want: 21 * day},
		{name: "Egg", want: 21 * day},
		{name: "Greek Yogurt", want: 14 * day},
		{name: "Dragonfruit", want: 7 * day},
		{name: "Orange Juice", want: 14 * day},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShelfLife(tt.name))
		})
	}
}

func TestConcurrentMergesForOneUserLoseNoUpdates(t *testing.T) {
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(newFileTestDB(t))
	svc := NewInventoryService(factory, logger.NewNopLogger())

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		name := "Apple"
		if i%2 == 1 {
			name = " apple "
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Merge(ctx, "Bob", []DetectedItem{{Name: name, Quantity: 1}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
		assert.NotErrorIs(t, err, apperror.ErrStorage)
	}

	items, err := svc.ListItems(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, writers, items[0].Quantity)
	assert.Equal(t, "apple", entity.ItemKey(items[0].Name))

	user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByUsername{Username: "BOB"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Bob", user.Username)
}
