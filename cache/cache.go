// Package cache 提供预算条目单条查询的旁路缓存。
//
// 缓存不是权威数据源：读未命中时由服务层回填，任何写操作都只删除对应 key，不做原地刷新。
package cache

import (
	"context"
	"time"
)

// Cache 以条目 ID 为 key、序列化视图为 value 的缓存接口
type Cache interface {
	// Get 命中时返回 (value, true, nil)，未命中返回 (nil, false, nil)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set 写入并设置固定过期时间
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除 key，key 不存在不算错误
	Delete(ctx context.Context, key string) error
}
