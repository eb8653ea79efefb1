/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-11 14:22:08
 * @LastEditTime: 2026-01-28 18:33:40
 * @LastEditors: 安知鱼
 */
// internal/infra/persistence/gorm/visitor_repo.go
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type visitorLogRepo struct {
	db *gorm.DB
}

// NewVisitorLogRepo 创建访问日志仓储实例。
func NewVisitorLogRepo(db *gorm.DB) repository.VisitorLogRepository {
	return &visitorLogRepo{db: db}
}

func (r *visitorLogRepo) Create(ctx context.Context, log *model.VisitorLog) error {
	po := &visitorLogPO{
		ContentID: log.ContentID,
		VisitorID: log.VisitorID,
		IPAddress: log.IPAddress,
		UserAgent: log.UserAgent,
		Referer:   log.Referer,
		CreatedAt: log.CreatedAt,
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("写入访问日志失败: %w", err)
	}
	log.ID = po.ID
	return nil
}

func (r *visitorLogRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int64, int64, error) {
	base := r.db.WithContext(ctx).Model(&visitorLogPO{}).
		Where("created_at >= ? AND created_at < ?", start, end)

	var views int64
	if err := base.Session(&gorm.Session{}).Count(&views).Error; err != nil {
		return 0, 0, fmt.Errorf("统计访问量失败: %w", err)
	}

	var visitors int64
	if err := base.Session(&gorm.Session{}).Distinct("visitor_id").Count(&visitors).Error; err != nil {
		return 0, 0, fmt.Errorf("统计访客数失败: %w", err)
	}
	return views, visitors, nil
}

func (r *visitorLogRepo) GetFirstDate(ctx context.Context) (*time.Time, error) {
	var po visitorLogPO
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询首条访问日志失败: %w", err)
	}
	return &po.CreatedAt, nil
}

func (r *visitorLogRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&visitorLogPO{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理访问日志失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type visitorStatRepo struct {
	db *gorm.DB
}

// NewVisitorStatRepo 创建按天聚合统计仓储实例。
func NewVisitorStatRepo(db *gorm.DB) repository.VisitorStatRepository {
	return &visitorStatRepo{db: db}
}

func (r *visitorStatRepo) Upsert(ctx context.Context, stat *model.VisitorStat) error {
	po := &visitorStatPO{
		Date:           stat.Date,
		TotalViews:     stat.TotalViews,
		UniqueVisitors: stat.UniqueVisitors,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_views", "unique_visitors", "updated_at"}),
	}).Create(po).Error
	if err != nil {
		return fmt.Errorf("写入日统计失败: %w", err)
	}
	return nil
}

func (r *visitorStatRepo) GetLatestDate(ctx context.Context) (*time.Time, error) {
	var po visitorStatPO
	err := r.db.WithContext(ctx).Order("date DESC").First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询最近聚合日期失败: %w", err)
	}
	return &po.Date, nil
}

func (r *visitorStatRepo) Totals(ctx context.Context) (int64, int64, error) {
	type totals struct {
		Views    int64
		Visitors int64
	}
	var t totals
	err := r.db.WithContext(ctx).Model(&visitorStatPO{}).
		Select("COALESCE(SUM(total_views), 0) AS views, COALESCE(SUM(unique_visitors), 0) AS visitors").
		Scan(&t).Error
	if err != nil {
		return 0, 0, fmt.Errorf("统计历史累计失败: %w", err)
	}
	return t.Views, t.Visitors, nil
}

type contentStatRepo struct {
	db *gorm.DB
}

// NewContentStatRepo 创建单内容访问计数仓储实例。
func NewContentStatRepo(db *gorm.DB) repository.ContentStatRepository {
	return &contentStatRepo{db: db}
}

func (r *contentStatRepo) IncrementViews(ctx context.Context, contentID string, isUnique bool) error {
	uniqueDelta := 0
	if isUnique {
		uniqueDelta = 1
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_views":     gorm.Expr("content_stats.total_views + 1"),
			"unique_visitors": gorm.Expr("content_stats.unique_visitors + ?", uniqueDelta),
		}),
	}).Create(&contentStatPO{
		ContentID:      contentID,
		TotalViews:     1,
		UniqueVisitors: int64(uniqueDelta),
	}).Error
	if err != nil {
		return fmt.Errorf("更新内容访问计数失败: %w", err)
	}
	return nil
}

func (r *contentStatRepo) Get(ctx context.Context, contentID string) (*model.ContentVisitStat, error) {
	var po contentStatPO
	err := r.db.WithContext(ctx).Where("content_id = ?", contentID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ContentVisitStat{ContentID: contentID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询内容访问计数失败: %w", err)
	}
	return &model.ContentVisitStat{
		ContentID:      po.ContentID,
		TotalViews:     po.TotalViews,
		UniqueVisitors: po.UniqueVisitors,
	}, nil
}

func (r *contentStatRepo) TopContents(ctx context.Context, limit int) ([]*model.ContentVisitStat, error) {
	var pos []*contentStatPO
	err := r.db.WithContext(ctx).Order("total_views DESC").Limit(limit).Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("查询热门内容失败: %w", err)
	}
	stats := make([]*model.ContentVisitStat, len(pos))
	for i, po := range pos {
		stats[i] = &model.ContentVisitStat{
			ContentID:      po.ContentID,
			TotalViews:     po.TotalViews,
			UniqueVisitors: po.UniqueVisitors,
		}
	}
	return stats, nil
}
