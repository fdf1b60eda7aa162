package cache

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

// 快照缓存使用的键
const (
	KeyUsers         = "gym:users"
	KeySubscriptions = "gym:subscriptions"
	KeyAttendance    = "gym:attendance"
	KeyPendingUsers  = "gym:pending_users"
	KeyCurrentUser   = "gym:current_user"
)

// Cache 本地键值缓存，保存最近一次已知的数据快照。
// 所有操作都是 fail-soft：缓存故障只记日志，调用方当作缓存为空继续执行
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get 读取并反序列化缓存值，返回是否命中
func (c *Cache) Get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Cache get %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Cache decode %s failed: %v", key, err)
		return false
	}
	return true
}

// Set 序列化并写入缓存，快照不设置过期
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Cache encode %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		log.Printf("Cache set %s failed: %v", key, err)
	}
}

// Remove 删除指定键
func (c *Cache) Remove(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("Cache remove %s failed: %v", key, err)
	}
}

// Clear 清空所有快照键（登出/重置时用）
func (c *Cache) Clear(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	keys := []string{KeyUsers, KeySubscriptions, KeyAttendance, KeyPendingUsers, KeyCurrentUser}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Cache clear failed: %v", err)
	}
}
