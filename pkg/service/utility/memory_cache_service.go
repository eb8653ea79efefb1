/*
 * @Description: 内存缓存服务，作为 Redis 不可用时的自动降级实现
 * @Author: 安知鱼
 * @Date: 2025-11-10 15:17:47
 * @LastEditTime: 2026-01-28 18:33:40
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// cacheItem 是内存缓存的一个条目
type cacheItem struct {
	value     string
	expiresAt time.Time // 零值表示永不过期
}

func (item *cacheItem) isExpired() bool {
	if item.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(item.expiresAt)
}

// setItem 是内存缓存中的一个集合条目
type setItem struct {
	members   map[string]struct{}
	expiresAt time.Time
}

func (item *setItem) isExpired() bool {
	if item.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(item.expiresAt)
}

// memoryCacheService 是 CacheService 的内存实现
type memoryCacheService struct {
	mu       sync.RWMutex
	data     map[string]*cacheItem
	sets     map[string]*setItem
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryCacheService 创建内存缓存服务，并启动后台过期清理
func NewMemoryCacheService() CacheService {
	s := &memoryCacheService{
		data:     make(map[string]*cacheItem),
		sets:     make(map[string]*setItem),
		stopChan: make(chan struct{}),
	}
	go s.cleanupExpired()
	return s
}

// cleanupExpired 每分钟扫描一次过期条目
func (s *memoryCacheService) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, item := range s.data {
				if item.isExpired() {
					delete(s.data, key)
				}
			}
			for key, item := range s.sets {
				if item.isExpired() {
					delete(s.sets, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopChan:
			return
		}
	}
}

// Stop 停止后台清理任务
func (s *memoryCacheService) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &cacheItem{value: fmt.Sprintf("%v", value)}
	if expiration > 0 {
		item.expiresAt = time.Now().Add(expiration)
	}
	s.data[key] = item
	return nil
}

func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.data[key]
	if !ok || item.isExpired() {
		// 与 Redis 实现保持一致：不存在返回空字符串和 nil 错误
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
		delete(s.sets, key)
	}
	return nil
}

func (s *memoryCacheService) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.data[key]
	if !ok || item.isExpired() {
		s.data[key] = &cacheItem{value: "1"}
		return 1, nil
	}

	n, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("键 '%s' 的值不是整数: %w", key, err)
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	return n, nil
}

func (s *memoryCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.data[key]; ok {
		item.expiresAt = time.Now().Add(expiration)
	}
	if item, ok := s.sets[key]; ok {
		item.expiresAt = time.Now().Add(expiration)
	}
	return nil
}

func (s *memoryCacheService) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.sets[key]
	if !ok || item.isExpired() {
		item = &setItem{members: make(map[string]struct{})}
		s.sets[key] = item
	}

	var added int64
	for _, m := range members {
		member := fmt.Sprintf("%v", m)
		if _, exists := item.members[member]; !exists {
			item.members[member] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (s *memoryCacheService) SCard(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.sets[key]
	if !ok || item.isExpired() {
		return 0, nil
	}
	return int64(len(item.members)), nil
}
