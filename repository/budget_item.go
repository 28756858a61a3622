package repository

import (
	"context"
	"errors"

	"budgeting/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetItemRepository 基于 gorm 的预算条目存储
// 所有查询都带 user_id 条件，不属于调用者的条目按不存在处理
type BudgetItemRepository struct {
	db *gorm.DB
}

// NewBudgetItemRepository 创建预算条目存储
func NewBudgetItemRepository(db *gorm.DB) *BudgetItemRepository {
	return &BudgetItemRepository{db: db}
}

func (r *BudgetItemRepository) Create(ctx context.Context, item *models.BudgetItem) error {
	return r.db.WithContext(ctx).Omit("User").Create(item).Error
}

// FindByOwner 查询指定用户的条目
func (r *BudgetItemRepository) FindByOwner(ctx context.Context, id, userID string) (*models.BudgetItem, error) {
	var item models.BudgetItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByOwner 列出指定用户的全部条目
func (r *BudgetItemRepository) ListByOwner(ctx context.Context, userID string) ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update 覆盖描述与金额
// MySQL 在值未变化时影响行数为 0，因此不以影响行数判断是否存在
func (r *BudgetItemRepository) Update(ctx context.Context, id, userID, description string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"description": description,
			"amount":      amount,
		}).Error
}

// AddAmount 在数据库内原子地累加金额，delta 可为负
func (r *BudgetItemRepository) AddAmount(ctx context.Context, id, userID string, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("amount", gorm.Expr("amount + ?", delta)).Error
}

// Delete 删除指定用户的条目
func (r *BudgetItemRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.BudgetItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
