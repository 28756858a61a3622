package service

import (
	"context"

	"budgeting/models"

	"github.com/shopspring/decimal"
)

// UserRepository 账户存储
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CategoryRepository 类别存储（MongoDB 或关系库）
type CategoryRepository interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, name string) error
}

// BudgetItemRepository 预算条目存储，所有操作都按 userID 限定范围
type BudgetItemRepository interface {
	Create(ctx context.Context, item *models.BudgetItem) error
	FindByOwner(ctx context.Context, id, userID string) (*models.BudgetItem, error)
	ListByOwner(ctx context.Context, userID string) ([]models.BudgetItem, error)
	Update(ctx context.Context, id, userID, description string, amount decimal.Decimal) error
	AddAmount(ctx context.Context, id, userID string, delta decimal.Decimal) error
	Delete(ctx context.Context, id, userID string) error
}
