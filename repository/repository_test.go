package repository

import (
	"context"
	"testing"
	"time"

	"budgeting/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

var itemColumns = []string{"id", "user_id", "description", "amount", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.User{ID: "u1", Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.username'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{ID: "u2", Username: "alice", PasswordHash: "hash"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow("u1", "alice", "hash"))

	user, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budget_items`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item := &models.BudgetItem{ID: "i1", UserID: "u1", Description: "rent", Amount: decimal.RequireFromString("10.00")}
	require.NoError(t, repo.Create(context.Background(), item))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_FindByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectQuery("SELECT .* FROM `budget_items`").
		WithArgs("i1", "u1").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("i1", "u1", "rent", "10.50", time.Now()))

	item, err := repo.FindByOwner(context.Background(), "i1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "rent", item.Description)
	assert.True(t, decimal.RequireFromString("10.5").Equal(item.Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_FindByOwner_OtherUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectQuery("SELECT .* FROM `budget_items`").
		WithArgs("i1", "u2").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.FindByOwner(context.Background(), "i1", "u2")
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `budget_items` WHERE user_id = \\? ORDER BY created_at ASC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("i1", "u1", "rent", "1000.00", now).
			AddRow("i2", "u1", "food", "250.25", now.Add(time.Second)))

	items, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, "food", items[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budget_items` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "i1", "u1", "new", decimal.RequireFromString("3.00"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_AddAmount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budget_items` SET `amount`=amount \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AddAmount(context.Background(), "i1", "u1", decimal.RequireFromString("-3.00"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `budget_items`").
		WithArgs("i1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "i1", "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetItemRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetItemRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `budget_items`").
		WithArgs("i1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "i1", "u2")
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCategoryRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSQLCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	category, err := repo.Create(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, "food", category.Name)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'food' for key 'PRIMARY'"})
	mock.ExpectRollback()

	_, err = repo.Create(ctx, "food")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("food").AddRow("rent"))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{Name: "food"}, {Name: "rent"}}, list)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `categories`").
		WithArgs("travel").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Delete(ctx, "travel"), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
