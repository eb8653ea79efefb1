/*
 * @Description: 评分聚合服务
 * @Author: 安知鱼
 * @Date: 2025-11-12 15:08:36
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
package rating

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/utility"
)

// 聚合缓存配置
const (
	cacheKeyPrefix = "rating:aggregate:"
	cacheExpire    = 10 * time.Minute
)

// SubmittedEvent 是一次评分落库后发布的事件负载。
type SubmittedEvent struct {
	PostID string
	Value  int
}

// Service 持有评分聚合的服务端权威状态。
// 同一身份令牌对同一内容至多贡献一次，由仓储层唯一索引兜底。
type Service struct {
	repo     repository.RatingRepository
	cacheSvc utility.CacheService
	bus      *event.EventBus
}

// NewService 创建评分服务实例。
func NewService(repo repository.RatingRepository, cacheSvc utility.CacheService, bus *event.EventBus) *Service {
	return &Service{
		repo:     repo,
		cacheSvc: cacheSvc,
		bus:      bus,
	}
}

// Get 读取权威聚合快照。优先走缓存，未命中时回源并回填。
func (s *Service) Get(ctx context.Context, postID string) (model.RatingSnapshot, error) {
	cacheKey := cacheKeyPrefix + postID
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.Get(ctx, cacheKey); err == nil && cached != "" {
			var snap model.RatingSnapshot
			if json.Unmarshal([]byte(cached), &snap) == nil {
				return snap, nil
			}
		}
	}

	agg, err := s.repo.GetAggregate(ctx, postID)
	if err != nil {
		return model.RatingSnapshot{}, fmt.Errorf("读取评分聚合失败: %w", err)
	}

	snap := agg.Snapshot()
	if s.cacheSvc != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.cacheSvc.Set(ctx, cacheKey, string(data), cacheExpire); err != nil {
				log.Printf("警告：写入评分聚合缓存失败: %v", err)
			}
		}
	}
	return snap, nil
}

// HasRated 检查某身份是否已对该内容评过分。
func (s *Service) HasRated(ctx context.Context, postID string, identity model.Identity) (bool, error) {
	return s.repo.HasContribution(ctx, postID, identity.Token())
}

// Submit 接受一次评分贡献：count += 1，sum += value。
// 同一身份的重复提交返回 constant.ErrAlreadyRated 且不产生任何变更。
// 成功后返回更新后的权威快照。
func (s *Service) Submit(ctx context.Context, postID string, value int, identity model.Identity) (model.RatingSnapshot, error) {
	if !model.IsValidRatingValue(value) {
		return model.RatingSnapshot{}, fmt.Errorf("%w: 评分值必须在 %d 到 %d 之间",
			constant.ErrBadRequest, model.RatingMin, model.RatingMax)
	}
	if identity.Token() == "" {
		return model.RatingSnapshot{}, fmt.Errorf("%w: 缺少身份令牌", constant.ErrBadRequest)
	}

	agg, err := s.repo.AddContribution(ctx, &model.RatingContribution{
		PostID:        postID,
		IdentityToken: identity.Token(),
		Value:         value,
	})
	if err != nil {
		return model.RatingSnapshot{}, err
	}

	// 写入后失效缓存，下一次 Get 回源拿权威值
	if s.cacheSvc != nil {
		if err := s.cacheSvc.Delete(ctx, cacheKeyPrefix+postID); err != nil {
			log.Printf("警告：失效评分聚合缓存失败: %v", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(event.RatingSubmitted, SubmittedEvent{PostID: postID, Value: value})
	}

	return agg.Snapshot(), nil
}
