/*
 * @Description: 内容集合服务：内存快照 + 解析提供方
 * @Author: 安知鱼
 * @Date: 2025-11-21 09:15:42
 * @LastEditTime: 2026-03-16 17:40:19
 * @LastEditors: 安知鱼
 */
package content

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
)

// CollectionService 维护内容实体的内存快照，解析与关联查找都在
// 快照上进行。快照在启动时加载、写操作后整体重建，读路径无锁争用
// 以外的开销。实现 resolver.CollectionProvider。
type CollectionService struct {
	repo repository.ContentEntityRepository
	bus  *event.EventBus

	mu       sync.RWMutex
	entities []model.ContentEntity
	loading  bool
}

// NewCollectionService 创建内容集合服务。调用 Load 之前 Loading 为 true。
func NewCollectionService(repo repository.ContentEntityRepository, bus *event.EventBus) *CollectionService {
	return &CollectionService{
		repo:    repo,
		bus:     bus,
		loading: true,
	}
}

// Load 从数据库加载全部内容实体到内存快照。
func (s *CollectionService) Load(ctx context.Context) error {
	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("加载内容集合失败: %w", err)
	}

	s.mu.Lock()
	s.entities = entities
	s.loading = false
	s.mu.Unlock()

	log.Printf("✅ 内容集合加载完成，共 %d 个实体。", len(entities))
	return nil
}

// Entities 返回内容集合的当前快照（只读，调用方不得修改）。
func (s *CollectionService) Entities() []model.ContentEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities
}

// Loading 报告集合是否尚未完成首次加载。
func (s *CollectionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Get 按规范 ID 查找实体。
func (s *CollectionService) Get(ctx context.Context, id string) (*model.ContentEntity, error) {
	return s.repo.FindByID(ctx, id)
}

// Upsert 写入或更新一条实体并重建快照。
func (s *CollectionService) Upsert(ctx context.Context, entity *model.ContentEntity) error {
	if entity == nil || entity.ID == "" {
		return fmt.Errorf("内容实体ID不能为空")
	}
	if err := s.repo.Upsert(ctx, entity); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Delete 删除一条实体并重建快照。
func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.Load(ctx)
}
