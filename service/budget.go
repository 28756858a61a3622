package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"budgeting/cache"
	"budgeting/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Direction 金额调整方向
type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

// BudgetService 预算条目的读写编排
//
// 读：先查缓存，未命中再按 (id, 调用者) 查库并回填缓存。
// 写：落库后无条件删除该条目的缓存，删除成功后才向调用方返回。
type BudgetService struct {
	items BudgetItemRepository
	users UserRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewBudgetService 创建预算条目服务，ttl 为缓存固定过期时间
func NewBudgetService(items BudgetItemRepository, users UserRepository, c cache.Cache, ttl time.Duration) *BudgetService {
	return &BudgetService{items: items, users: users, cache: c, ttl: ttl}
}

// UpdateInput 部分更新参数，nil 字段保持原值
type UpdateInput struct {
	Description *string
	Amount      *decimal.Decimal
}

// Create 创建条目，amount 为空时记为 0
func (s *BudgetService) Create(ctx context.Context, userID, description string, amount *decimal.Decimal) (*models.BudgetItemView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.BudgetItem{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: description,
		Amount:      decimal.Zero,
		CreatedAt:   time.Now(),
	}
	if amount != nil {
		item.Amount = models.RoundAmount(*amount)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("创建预算条目失败: %w", err)
	}
	// ID 是新生成的，通常不存在对应缓存
	if err := s.invalidate(ctx, item.ID); err != nil {
		return nil, err
	}

	log.Info().Str("item_id", item.ID).Str("user_id", user.ID).Msg("预算条目已创建")
	view := models.NewBudgetItemView(item, user.Username)
	return &view, nil
}

// ListItems 返回调用者及其全部条目
func (s *BudgetService) ListItems(ctx context.Context, userID string) (*models.User, []models.BudgetItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询预算条目失败: %w", err)
	}
	return user, items, nil
}

// List 返回调用者全部条目的视图，不经过缓存
func (s *BudgetService) List(ctx context.Context, userID string) ([]models.BudgetItemView, error) {
	user, items, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.BudgetItemView, 0, len(items))
	for i := range items {
		views = append(views, models.NewBudgetItemView(&items[i], user.Username))
	}
	return views, nil
}

// Summary 汇总调用者在 [from, to] 内创建的条目，零值时间表示不限
func (s *BudgetService) Summary(ctx context.Context, userID string, from, to time.Time) (*models.BudgetSummary, error) {
	_, items, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := items[:0]
	for _, item := range items {
		if !from.IsZero() && item.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && item.CreatedAt.After(to) {
			continue
		}
		filtered = append(filtered, item)
	}
	summary := models.Summarize(filtered)
	return &summary, nil
}

// Get 读取单个条目
// 缓存命中时直接返回缓存视图，不再校验归属
func (s *BudgetService) Get(ctx context.Context, userID, id string) (*models.BudgetItemView, error) {
	if view, ok := s.lookup(ctx, id); ok {
		return view, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.FindByOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	view := models.NewBudgetItemView(item, user.Username)
	s.populate(ctx, &view)
	return &view, nil
}

// Update 部分更新描述和/或金额
func (s *BudgetService) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.BudgetItemView, error) {
	user, item, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	description := item.Description
	if in.Description != nil {
		description = *in.Description
	}
	amount := item.Amount
	if in.Amount != nil {
		amount = models.RoundAmount(*in.Amount)
	}

	if err := s.items.Update(ctx, id, user.ID, description, amount); err != nil {
		return nil, fmt.Errorf("更新预算条目失败: %w", err)
	}
	return s.afterWrite(ctx, user, id)
}

// Adjust 按方向增减金额，允许结果为负
// 条目不存在优先于缺少金额报错
func (s *BudgetService) Adjust(ctx context.Context, userID, id string, delta *decimal.Decimal, dir Direction) (*models.BudgetItemView, error) {
	switch dir {
	case DirectionAdd, DirectionSubtract:
	default:
		return nil, models.ErrInvalidDirection
	}

	user, _, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if delta == nil {
		return nil, models.ErrMissingAmount
	}

	signed := models.RoundAmount(*delta)
	if dir == DirectionSubtract {
		signed = signed.Neg()
	}

	if err := s.items.AddAmount(ctx, id, user.ID, signed); err != nil {
		return nil, fmt.Errorf("调整金额失败: %w", err)
	}
	return s.afterWrite(ctx, user, id)
}

// Delete 删除条目并清除缓存
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id, user.ID); err != nil {
		return err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return err
	}
	log.Info().Str("item_id", id).Str("user_id", user.ID).Msg("预算条目已删除")
	return nil
}

func (s *BudgetService) loadOwned(ctx context.Context, userID, id string) (*models.User, *models.BudgetItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.items.FindByOwner(ctx, id, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, item, nil
}

// afterWrite 清除缓存后重新从库中读取最新状态
func (s *BudgetService) afterWrite(ctx context.Context, user *models.User, id string) (*models.BudgetItemView, error) {
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}
	item, err := s.items.FindByOwner(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewBudgetItemView(item, user.Username)
	return &view, nil
}

func (s *BudgetService) invalidate(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("清除缓存失败: %w", err)
	}
	return nil
}

// lookup 读缓存；缓存异常或数据损坏都按未命中处理
func (s *BudgetService) lookup(ctx context.Context, id string) (*models.BudgetItemView, bool) {
	raw, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("item_id", id).Msg("读取缓存失败，回源数据库")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var view models.BudgetItemView
	if err := json.Unmarshal(raw, &view); err != nil {
		log.Warn().Err(err).Str("item_id", id).Msg("缓存数据无法解析，回源数据库")
		return nil, false
	}
	return &view, true
}

// populate 回填缓存，失败只记录日志
func (s *BudgetService) populate(ctx context.Context, view *models.BudgetItemView) {
	raw, err := json.Marshal(view)
	if err != nil {
		log.Warn().Err(err).Str("item_id", view.ID).Msg("序列化条目失败")
		return
	}
	if err := s.cache.Set(ctx, view.ID, raw, s.ttl); err != nil {
		log.Warn().Err(err).Str("item_id", view.ID).Msg("写入缓存失败")
	}
}
