/*
 * @Description: Redis 缓存服务
 * @Author: 安知鱼
 * @Date: 2025-11-10 15:17:47
 * @LastEditTime: 2026-02-20 22:41:09
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService 定义了缓存服务的接口，提供了基础的 Get/Set/Delete 操作
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key ...string) error
	// Increment 原子地增加一个键的值
	Increment(ctx context.Context, key string) (int64, error)
	// Expire 设置键的过期时间
	Expire(ctx context.Context, key string, expiration time.Duration) error

	// Redis Set 操作（用于去重统计）
	SAdd(ctx context.Context, key string, members ...interface{}) (int64, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// redisCacheService 是 CacheService 的 Redis 实现
type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 是 redisCacheService 的构造函数，通过依赖注入接收 Redis 客户端
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{
		client: client,
	}
}

// Set 实现了设置缓存的方法
func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

// Get 实现了获取缓存的方法
func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil // Key 不存在，返回空字符串和 nil 错误，这是 Redis 的惯例
	}
	return val, err
}

// Delete 实现了删除缓存的方法
func (s *redisCacheService) Delete(ctx context.Context, key ...string) error {
	return s.client.Del(ctx, key...).Err()
}

// Increment 实现了原子自增的方法
func (s *redisCacheService) Increment(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// Expire 实现了设置键的过期时间
func (s *redisCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return s.client.Expire(ctx, key, expiration).Err()
}

// SAdd 实现了向集合添加成员的方法，返回新增成员数（0 表示已存在）
func (s *redisCacheService) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return s.client.SAdd(ctx, key, members...).Result()
}

// SCard 实现了获取集合成员数的方法
func (s *redisCacheService) SCard(ctx context.Context, key string) (int64, error) {
	return s.client.SCard(ctx, key).Result()
}
