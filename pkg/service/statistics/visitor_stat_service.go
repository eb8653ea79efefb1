/*
 * @Description: 访问统计服务
 * @Author: 安知鱼
 * @Date: 2025-11-20 15:30:00
 * @LastEditTime: 2026-03-15 21:22:33
 * @LastEditors: 安知鱼
 */
package statistics

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/utility"
)

// 缓存键前缀
const (
	CacheKeyBasicStats    = "stats:basic"
	CacheKeyVisitorsSet   = "stats:visitors:"       // + yyyy-MM-dd，当日访客去重集合
	CacheKeyTodayViews    = "stats:today_views:"    // + yyyy-MM-dd
	CacheKeyTodayVisitors = "stats:today_visitors:" // + yyyy-MM-dd
	CacheKeyTopContents   = "stats:top_contents:"   // + limit
)

const (
	CacheExpireBasicStats = 5 * time.Minute
	CacheExpireToday      = 48 * time.Hour
)

// VisitRequest 一次访问上报的输入。
type VisitRequest struct {
	ContentID string
	VisitorID string // 为空时由 IP+UA 推导
	IPAddress string
	UserAgent string
	Referer   string
}

// VisitedEvent 访问成功落库后发布的事件负载。
type VisitedEvent struct {
	ContentID string
	IsUnique  bool
}

// VisitorStatService 访问统计服务接口
type VisitorStatService interface {
	// RecordVisit 同步记录一次访问。失败以 error 返回，调用方据此
	// 决定是否设置"已记录"标记（失败不设标记，留给下次重试）。
	RecordVisit(ctx context.Context, req *VisitRequest) error

	// GetBasicStatistics 获取站点级统计摘要
	GetBasicStatistics(ctx context.Context) (*model.BasicStatistics, error)

	// GetContentStat 获取单内容累计访问计数
	GetContentStat(ctx context.Context, contentID string) (*model.ContentVisitStat, error)

	// GetTopContents 按访问量获取热门内容
	GetTopContents(ctx context.Context, limit int) ([]*model.ContentVisitStat, error)

	// AggregateDaily 聚合指定日期的日志为日统计
	AggregateDaily(ctx context.Context, date time.Time) error

	// GetLastAggregatedDate 获取最后一次成功聚合的日期
	GetLastAggregatedDate(ctx context.Context) (*time.Time, error)

	// GetFirstLogDate 获取第一条访问日志的日期
	GetFirstLogDate(ctx context.Context) (*time.Time, error)

	// CleanupLogs 清理已聚合的历史日志
	CleanupLogs(ctx context.Context, before time.Time) (int64, error)
}

type visitorStatService struct {
	visitorLogRepo  repository.VisitorLogRepository
	visitorStatRepo repository.VisitorStatRepository
	contentStatRepo repository.ContentStatRepository
	cacheService    utility.CacheService
	bus             *event.EventBus
}

// NewVisitorStatService 创建访问统计服务实例
func NewVisitorStatService(
	visitorLogRepo repository.VisitorLogRepository,
	visitorStatRepo repository.VisitorStatRepository,
	contentStatRepo repository.ContentStatRepository,
	cacheService utility.CacheService,
	bus *event.EventBus,
) VisitorStatService {
	return &visitorStatService{
		visitorLogRepo:  visitorLogRepo,
		visitorStatRepo: visitorStatRepo,
		contentStatRepo: contentStatRepo,
		cacheService:    cacheService,
		bus:             bus,
	}
}

// generateVisitorID 由 IP+UA 推导访客标识（非追踪用途，仅做当日去重）。
func generateVisitorID(ip, userAgent string) string {
	hash := md5.Sum([]byte(ip + ":" + userAgent))
	return fmt.Sprintf("%x", hash)
}

// RecordVisit 记录一次访问。
//
// 写入顺序：日志行 → 内容计数 → Redis 当日计数。日志行是最小成功单元，
// 它落库后即视为记录成功，后续的计数步骤失败只记警告。反过来，
// 日志行写入失败则整次调用失败，调用方不应设置会话标记。
func (s *visitorStatService) RecordVisit(ctx context.Context, req *VisitRequest) error {
	if req == nil || req.ContentID == "" {
		return fmt.Errorf("%w: 内容ID不能为空", constant.ErrBadRequest)
	}

	visitorID := req.VisitorID
	if visitorID == "" {
		visitorID = generateVisitorID(req.IPAddress, req.UserAgent)
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	// 当日访客去重（Redis 集合，不可用时按非去重访客处理）
	isUnique := false
	if s.cacheService != nil {
		visitorSetKey := CacheKeyVisitorsSet + today
		isNew, err := s.cacheService.SAdd(ctx, visitorSetKey, visitorID)
		if err != nil {
			log.Printf("警告：Redis访客去重失败: %v", err)
		} else if isNew > 0 {
			isUnique = true
			s.cacheService.Expire(ctx, visitorSetKey, CacheExpireToday)
		}
	}

	visitLog := &model.VisitorLog{
		ContentID: req.ContentID,
		VisitorID: visitorID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Referer:   req.Referer,
		CreatedAt: now,
	}
	if err := s.visitorLogRepo.Create(ctx, visitLog); err != nil {
		return fmt.Errorf("写入访问日志失败: %w", err)
	}

	if err := s.contentStatRepo.IncrementViews(ctx, req.ContentID, isUnique); err != nil {
		log.Printf("警告：更新内容访问计数失败 (content_id=%s): %v", req.ContentID, err)
	}

	if s.cacheService != nil {
		todayViewsKey := CacheKeyTodayViews + today
		if n, err := s.cacheService.Increment(ctx, todayViewsKey); err == nil && n == 1 {
			s.cacheService.Expire(ctx, todayViewsKey, CacheExpireToday)
		}
		if isUnique {
			todayVisitorsKey := CacheKeyTodayVisitors + today
			if n, err := s.cacheService.Increment(ctx, todayVisitorsKey); err == nil && n == 1 {
				s.cacheService.Expire(ctx, todayVisitorsKey, CacheExpireToday)
			}
		}
		s.cacheService.Delete(ctx, CacheKeyBasicStats)
	}

	if s.bus != nil {
		s.bus.Publish(event.VisitTracked, VisitedEvent{ContentID: req.ContentID, IsUnique: isUnique})
	}
	return nil
}

// GetBasicStatistics 获取站点级统计摘要（优先走缓存）。
// 今日数据来自 Redis 实时计数，累计数据来自已聚合的日统计表。
func (s *visitorStatService) GetBasicStatistics(ctx context.Context) (*model.BasicStatistics, error) {
	if s.cacheService != nil {
		cachedData, err := s.cacheService.Get(ctx, CacheKeyBasicStats)
		if err == nil && cachedData != "" {
			var stats model.BasicStatistics
			if json.Unmarshal([]byte(cachedData), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats := &model.BasicStatistics{}

	totalViews, totalVisitors, err := s.visitorStatRepo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取累计统计失败: %w", err)
	}
	stats.TotalViews = totalViews
	stats.TotalVisitors = totalVisitors

	today := time.Now().Format("2006-01-02")
	if s.cacheService != nil {
		if v, err := s.cacheService.Get(ctx, CacheKeyTodayViews+today); err == nil && v != "" {
			if views, err := strconv.ParseInt(v, 10, 64); err == nil {
				stats.TodayViews = views
			}
		}
		if v, err := s.cacheService.Get(ctx, CacheKeyTodayVisitors+today); err == nil && v != "" {
			if visitors, err := strconv.ParseInt(v, 10, 64); err == nil {
				stats.TodayVisitors = visitors
			}
		}
	} else {
		// 无 Redis 时退回数据库逐日统计
		dayStart := time.Now().Truncate(24 * time.Hour)
		views, visitors, err := s.visitorLogRepo.CountByDateRange(ctx, dayStart, dayStart.Add(24*time.Hour))
		if err == nil {
			stats.TodayViews = views
			stats.TodayVisitors = visitors
		}
	}

	// 今日数据尚未聚合进日表，摘要中累加展示
	stats.TotalViews += stats.TodayViews
	stats.TotalVisitors += stats.TodayVisitors

	if s.cacheService != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.cacheService.Set(ctx, CacheKeyBasicStats, string(data), CacheExpireBasicStats)
		}
	}
	return stats, nil
}

func (s *visitorStatService) GetContentStat(ctx context.Context, contentID string) (*model.ContentVisitStat, error) {
	return s.contentStatRepo.Get(ctx, contentID)
}

func (s *visitorStatService) GetTopContents(ctx context.Context, limit int) ([]*model.ContentVisitStat, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if s.cacheService != nil {
		cacheKey := fmt.Sprintf("%s%d", CacheKeyTopContents, limit)
		cachedData, err := s.cacheService.Get(ctx, cacheKey)
		if err == nil && cachedData != "" {
			var list []*model.ContentVisitStat
			if json.Unmarshal([]byte(cachedData), &list) == nil {
				return list, nil
			}
		}
	}

	list, err := s.contentStatRepo.TopContents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("获取热门内容失败: %w", err)
	}

	if s.cacheService != nil {
		if data, err := json.Marshal(list); err == nil {
			cacheKey := fmt.Sprintf("%s%d", CacheKeyTopContents, limit)
			s.cacheService.Set(ctx, cacheKey, string(data), 10*time.Minute)
		}
	}
	return list, nil
}

// AggregateDaily 聚合指定日期的访问日志为日统计记录。
// 幂等：对同一天重复执行会覆盖而不是叠加。
func (s *visitorStatService) AggregateDaily(ctx context.Context, date time.Time) error {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	views, visitors, err := s.visitorLogRepo.CountByDateRange(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("统计访问日志失败: %w", err)
	}

	stat := &model.VisitorStat{
		Date:           dayStart,
		TotalViews:     views,
		UniqueVisitors: visitors,
	}
	if err := s.visitorStatRepo.Upsert(ctx, stat); err != nil {
		return fmt.Errorf("写入日统计失败: %w", err)
	}

	// 聚合完成后清除统计缓存，确保下次查询获取最新数据
	if s.cacheService != nil {
		s.cacheService.Delete(ctx, CacheKeyBasicStats)
	}
	return nil
}

func (s *visitorStatService) GetLastAggregatedDate(ctx context.Context) (*time.Time, error) {
	return s.visitorStatRepo.GetLatestDate(ctx)
}

func (s *visitorStatService) GetFirstLogDate(ctx context.Context) (*time.Time, error) {
	return s.visitorLogRepo.GetFirstDate(ctx)
}

func (s *visitorStatService) CleanupLogs(ctx context.Context, before time.Time) (int64, error) {
	return s.visitorLogRepo.DeleteBefore(ctx, before)
}
