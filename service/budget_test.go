package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"budgeting/models"
	"budgeting/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Hour

type budgetFixture struct {
	svc   *BudgetService
	items *testutil.MockBudgetItemRepository
	users *testutil.MockUserRepository
	cache *testutil.MemoryCache
}

func newBudgetFixture() *budgetFixture {
	users := testutil.NewMockUserRepository()
	users.AddUser(&models.User{ID: "u1", Username: "alice"})
	users.AddUser(&models.User{ID: "u2", Username: "bob"})
	items := testutil.NewMockBudgetItemRepository()
	c := testutil.NewMemoryCache()
	return &budgetFixture{
		svc:   NewBudgetService(items, users, c, testTTL),
		items: items,
		users: users,
		cache: c,
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestBudgetService_CreateThenGet(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "groceries", dec("42.50"))
	require.NoError(t, err)
	assert.Equal(t, "alice", created.User)
	assert.Equal(t, []string{created.ID}, f.cache.Deletes)

	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Amount, got.Amount)

	// 未命中后回填缓存，使用固定 TTL
	assert.True(t, f.cache.Has(created.ID))
	assert.Equal(t, testTTL, f.cache.TTLs[created.ID])
}

func TestBudgetService_CreateDefaultsAmountToZero(t *testing.T) {
	f := newBudgetFixture()

	created, err := f.svc.Create(context.Background(), "u1", "misc", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, created.Amount)
}

func TestBudgetService_CreateRoundsHalfEven(t *testing.T) {
	f := newBudgetFixture()

	created, err := f.svc.Create(context.Background(), "u1", "coffee", dec("2.345"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.34").Equal(f.items.Amount(created.ID)))
}

func TestBudgetService_CreateUnknownUser(t *testing.T) {
	f := newBudgetFixture()

	_, err := f.svc.Create(context.Background(), "ghost", "x", dec("1"))
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.Empty(t, f.items.Items)
}

func TestBudgetService_GetCacheHitSkipsStore(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "rent", dec("100"))
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)

	// 缓存命中直接返回，不校验归属
	got, err := f.svc.Get(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User)
}

func TestBudgetService_GetNotFoundDoesNotPopulate(t *testing.T) {
	f := newBudgetFixture()

	_, err := f.svc.Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, f.cache.Has("missing"))
}

func TestBudgetService_GetFallsBackWhenCacheFails(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "rent", dec("100"))
	require.NoError(t, err)

	f.cache.GetErr = errors.New("connection refused")
	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rent", got.Description)
}

func TestBudgetService_GetIgnoresCorruptEntry(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "rent", dec("100"))
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, created.ID, []byte("{not json"), testTTL))

	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rent", got.Description)
}

func TestBudgetService_UpdateInvalidatesCache(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "old", dec("10"))
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	require.True(t, f.cache.Has(created.ID))

	updated, err := f.svc.Update(ctx, "u1", created.ID, UpdateInput{Description: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, 10.0, updated.Amount)
	assert.False(t, f.cache.Has(created.ID))

	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
}

func TestBudgetService_UpdatePartialAmount(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "keep", dec("10"))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, "u1", created.ID, UpdateInput{Amount: dec("99.99")})
	require.NoError(t, err)
	assert.Equal(t, "keep", updated.Description)
	assert.Equal(t, 99.99, updated.Amount)
}

func TestBudgetService_UpdateFailsWhenInvalidationFails(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "old", dec("10"))
	require.NoError(t, err)

	f.cache.DeleteErr = errors.New("redis down")
	_, err = f.svc.Update(ctx, "u1", created.ID, UpdateInput{Description: strPtr("new")})
	assert.Error(t, err)
}

func TestBudgetService_OwnershipIsolation(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "private", dec("5"))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Update(ctx, "u2", created.ID, UpdateInput{Description: strPtr("hijack")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Adjust(ctx, "u2", created.ID, dec("1"), DirectionAdd)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.svc.Delete(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Description)
	assert.Equal(t, 5.0, got.Amount)
}

func TestBudgetService_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		f := newBudgetFixture()
		created, err := f.svc.Create(ctx, "u1", "wallet", dec("10.00"))
		require.NoError(t, err)

		got, err := f.svc.Adjust(ctx, "u1", created.ID, dec("5.00"), DirectionAdd)
		require.NoError(t, err)
		assert.Equal(t, 15.0, got.Amount)
	})

	t.Run("subtract", func(t *testing.T) {
		f := newBudgetFixture()
		created, err := f.svc.Create(ctx, "u1", "wallet", dec("10.00"))
		require.NoError(t, err)

		got, err := f.svc.Adjust(ctx, "u1", created.ID, dec("3.00"), DirectionSubtract)
		require.NoError(t, err)
		assert.Equal(t, 7.0, got.Amount)
	})

	t.Run("chained and negative", func(t *testing.T) {
		f := newBudgetFixture()
		created, err := f.svc.Create(ctx, "u1", "wallet", dec("10.00"))
		require.NoError(t, err)

		_, err = f.svc.Adjust(ctx, "u1", created.ID, dec("5.00"), DirectionAdd)
		require.NoError(t, err)
		got, err := f.svc.Adjust(ctx, "u1", created.ID, dec("20.10"), DirectionSubtract)
		require.NoError(t, err)
		assert.Equal(t, -5.1, got.Amount)
		assert.True(t, decimal.RequireFromString("-5.10").Equal(f.items.Amount(created.ID)))
	})
}

func TestBudgetService_AdjustInvalidatesCache(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "wallet", dec("10"))
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)

	_, err = f.svc.Adjust(ctx, "u1", created.ID, dec("1"), DirectionAdd)
	require.NoError(t, err)
	assert.False(t, f.cache.Has(created.ID))

	got, err := f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Amount)
}

func TestBudgetService_AdjustMissingAmount(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "wallet", dec("10"))
	require.NoError(t, err)

	_, err = f.svc.Adjust(ctx, "u1", created.ID, nil, DirectionAdd)
	assert.ErrorIs(t, err, models.ErrMissingAmount)
	assert.True(t, decimal.NewFromInt(10).Equal(f.items.Amount(created.ID)))
	assert.NotContains(t, f.items.Calls, "add_amount")
}

func TestBudgetService_AdjustNotFoundBeforeMissingAmount(t *testing.T) {
	f := newBudgetFixture()

	_, err := f.svc.Adjust(context.Background(), "u1", "missing", nil, DirectionSubtract)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBudgetService_AdjustInvalidDirection(t *testing.T) {
	f := newBudgetFixture()

	_, err := f.svc.Adjust(context.Background(), "u1", "any", dec("1"), Direction("multiply"))
	assert.ErrorIs(t, err, models.ErrInvalidDirection)
}

func TestBudgetService_DeleteRemovesCachedEntry(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "u1", "temp", dec("1"))
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	require.True(t, f.cache.Has(created.ID))

	require.NoError(t, f.svc.Delete(ctx, "u1", created.ID))
	assert.False(t, f.cache.Has(created.ID))

	_, err = f.svc.Get(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.svc.Delete(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBudgetService_List(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", "a", dec("1"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "u2", "b", dec("2"))
	require.NoError(t, err)

	views, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a", views[0].Description)

	views, err = f.svc.List(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.Nil(t, views)
}

func TestBudgetService_Summary(t *testing.T) {
	f := newBudgetFixture()
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, amount := range []string{"100", "-30.25", "50"} {
		require.NoError(t, f.items.Create(ctx, &models.BudgetItem{
			ID:        fmt.Sprintf("i%d", i),
			UserID:    "u1",
			Amount:    decimal.RequireFromString(amount),
			CreatedAt: base.AddDate(0, 0, i),
		}))
	}

	all, err := f.svc.Summary(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetSummary{Count: 3, Total: 119.75, TotalIncome: 150, TotalExpense: 30.25}, *all)

	ranged, err := f.svc.Summary(ctx, "u1", base.AddDate(0, 0, 1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, ranged.Count)
	assert.Equal(t, -30.25, ranged.Total)

	_, err = f.svc.Summary(ctx, "ghost", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
