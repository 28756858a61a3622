// Package testutil 提供服务层与接口层测试使用的内存实现
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"budgeting/models"

	"github.com/shopspring/decimal"
)

// MockUserRepository 内存版账户存储
type MockUserRepository struct {
	mu     sync.Mutex
	ByID   map[string]*models.User
	ByName map[string]*models.User
	// FindErr 不为 nil 时所有查询都返回该错误
	FindErr error
}

// NewMockUserRepository 创建内存账户存储
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:   make(map[string]*models.User),
		ByName: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ByName[user.Username]; ok {
		return models.ErrAlreadyExists
	}
	u := *user
	m.ByID[u.ID] = &u
	m.ByName[u.Username] = &u
	return nil
}

func (m *MockUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if u, ok := m.ByName[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if u, ok := m.ByID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

// AddUser 直接写入用户（测试辅助）
func (m *MockUserRepository) AddUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.ByID[u.ID] = &u
	m.ByName[u.Username] = &u
}

// MockBudgetItemRepository 内存版预算条目存储
type MockBudgetItemRepository struct {
	mu    sync.Mutex
	Items map[string]*models.BudgetItem
	// Calls 记录写操作名称，便于断言调用顺序
	Calls []string
}

// NewMockBudgetItemRepository 创建内存预算条目存储
func NewMockBudgetItemRepository() *MockBudgetItemRepository {
	return &MockBudgetItemRepository{Items: make(map[string]*models.BudgetItem)}
}

func (m *MockBudgetItemRepository) Create(_ context.Context, item *models.BudgetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "create")
	it := *item
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	m.Items[it.ID] = &it
	return nil
}

func (m *MockBudgetItemRepository) FindByOwner(_ context.Context, id, userID string) (*models.BudgetItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Items[id]
	if !ok || it.UserID != userID {
		return nil, models.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *MockBudgetItemRepository) ListByOwner(_ context.Context, userID string) ([]models.BudgetItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.BudgetItem, 0)
	for _, it := range m.Items {
		if it.UserID == userID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *MockBudgetItemRepository) Update(_ context.Context, id, userID, description string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "update")
	if it, ok := m.Items[id]; ok && it.UserID == userID {
		it.Description = description
		it.Amount = amount
	}
	return nil
}

func (m *MockBudgetItemRepository) AddAmount(_ context.Context, id, userID string, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "add_amount")
	if it, ok := m.Items[id]; ok && it.UserID == userID {
		it.Amount = it.Amount.Add(delta)
	}
	return nil
}

func (m *MockBudgetItemRepository) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "delete")
	it, ok := m.Items[id]
	if !ok || it.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

// Amount 返回条目当前金额（测试辅助）
func (m *MockBudgetItemRepository) Amount(id string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.Items[id]; ok {
		return it.Amount
	}
	return decimal.Zero
}

// MockCategoryRepository 内存版类别存储
type MockCategoryRepository struct {
	mu    sync.Mutex
	Names map[string]struct{}
}

// NewMockCategoryRepository 创建内存类别存储
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Names: make(map[string]struct{})}
}

func (m *MockCategoryRepository) Create(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Names[name]; ok {
		return nil, models.ErrAlreadyExists
	}
	m.Names[name] = struct{}{}
	return &models.Category{Name: name}, nil
}

func (m *MockCategoryRepository) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]models.Category, 0, len(m.Names))
	for name := range m.Names {
		list = append(list, models.Category{Name: name})
	}
	return list, nil
}

func (m *MockCategoryRepository) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Names[name]; !ok {
		return models.ErrNotFound
	}
	delete(m.Names, name)
	return nil
}

// MemoryCache 内存版缓存，记录每个 key 的 TTL 并支持注入错误
type MemoryCache struct {
	mu      sync.Mutex
	Entries map[string][]byte
	TTLs    map[string]time.Duration
	Deletes []string

	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		Entries: make(map[string][]byte),
		TTLs:    make(map[string]time.Duration),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	v, ok := c.Entries[key]
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.Entries[key] = value
	c.TTLs[key] = ttl
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	c.Deletes = append(c.Deletes, key)
	delete(c.Entries, key)
	delete(c.TTLs, key)
	return nil
}

// Has 判断 key 是否在缓存中
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.Entries[key]
	return ok
}
