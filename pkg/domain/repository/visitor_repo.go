// pkg/domain/repository/visitor_repo.go
package repository

import (
	"context"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// VisitorLogRepository 定义了访问日志的持久化接口。
type VisitorLogRepository interface {
	Create(ctx context.Context, log *model.VisitorLog) error

	// CountByDateRange 统计 [start, end) 内的访问量与去重访客数。
	CountByDateRange(ctx context.Context, start, end time.Time) (views int64, visitors int64, err error)

	// GetFirstDate 返回第一条访问日志的日期，没有日志时返回 nil。
	GetFirstDate(ctx context.Context) (*time.Time, error)

	// DeleteBefore 删除某时间之前的日志，返回删除条数。日志滚动聚合后定期清理。
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// VisitorStatRepository 定义了按天聚合统计的持久化接口。
type VisitorStatRepository interface {
	// Upsert 写入或覆盖某天的聚合结果。
	Upsert(ctx context.Context, stat *model.VisitorStat) error

	// GetLatestDate 返回最后一次成功聚合的日期，没有记录时返回 nil。
	GetLatestDate(ctx context.Context) (*time.Time, error)

	// Totals 返回历史累计访问量与访客数（含所有已聚合天）。
	Totals(ctx context.Context) (views int64, visitors int64, err error)
}

// ContentStatRepository 定义了单内容累计访问计数的持久化接口。
type ContentStatRepository interface {
	// IncrementViews 原子地将内容的访问量 +1，isUnique 为真时去重访客数也 +1。
	IncrementViews(ctx context.Context, contentID string, isUnique bool) error

	Get(ctx context.Context, contentID string) (*model.ContentVisitStat, error)

	// TopContents 按访问量降序返回前 limit 个内容的计数。
	TopContents(ctx context.Context, limit int) ([]*model.ContentVisitStat, error)
}
