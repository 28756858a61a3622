package service

import (
	"context"
	"strings"

	"budgeting/models"

	"github.com/rs/zerolog/log"
)

// CategoryService 全局类别管理，没有归属用户
type CategoryService struct {
	categories CategoryRepository
}

// NewCategoryService 创建类别服务
func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create 创建类别，名称已存在返回 models.ErrAlreadyExists
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrNameRequired
	}
	category, err := s.categories.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", name).Msg("类别已创建")
	return category, nil
}

// List 列出全部类别，顺序不保证
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Delete 删除类别，不存在返回 models.ErrNotFound
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	if err := s.categories.Delete(ctx, name); err != nil {
		return err
	}
	log.Info().Str("name", name).Msg("类别已删除")
	return nil
}
