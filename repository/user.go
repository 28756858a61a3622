package repository

import (
	"context"
	"errors"

	"budgeting/models"

	"gorm.io/gorm"
)

// UserRepository 基于 gorm 的账户存储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账户存储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，用户名重复时返回 models.ErrAlreadyExists
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUsername 按用户名查询
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

// FindByID 按 ID 查询
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

func translateUserError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrUserNotFound
	}
	return err
}
