package repository

import (
	"context"
	"errors"

	"budgeting/models"

	"gorm.io/gorm"
)

// SQLCategoryRepository 类别存放在关系库中的实现（category_store=sql）
type SQLCategoryRepository struct {
	db *gorm.DB
}

// NewSQLCategoryRepository 创建类别存储
func NewSQLCategoryRepository(db *gorm.DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

func (r *SQLCategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrAlreadyExists
		}
		return nil, err
	}
	return &category, nil
}

func (r *SQLCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *SQLCategoryRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
