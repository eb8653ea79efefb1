/*
 * @Description: 访问统计聚合与日志清理任务
 * @Author: 安知鱼
 * @Date: 2025-11-21 15:15:37
 * @LastEditTime: 2026-03-16 19:10:44
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/anzhiyu-c/anheyu-engage/pkg/service/statistics"
)

// StatisticsAggregationJob 统计数据聚合任务。
// 每天凌晨把前一天的访问日志滚动进日统计表；启动后第一次执行时
// 会从最后一次成功聚合的日期逐天补齐，停机期间的日志不会丢失。
type StatisticsAggregationJob struct {
	statService statistics.VisitorStatService
	logger      *slog.Logger
}

// NewStatisticsAggregationJob 创建统计数据聚合任务实例
func NewStatisticsAggregationJob(statService statistics.VisitorStatService, logger *slog.Logger) *StatisticsAggregationJob {
	return &StatisticsAggregationJob{
		statService: statService,
		logger:      logger,
	}
}

// Run 执行统计数据聚合任务
func (j *StatisticsAggregationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	j.logger.Info("开始执行统计数据聚合任务")

	yesterday := startOfDay(time.Now()).AddDate(0, 0, -1)

	// 确定补齐起点：已有聚合记录则从其后一天开始，否则从第一条日志开始
	start := yesterday
	if last, err := j.statService.GetLastAggregatedDate(ctx); err != nil {
		j.logger.Error("读取最后聚合日期失败", slog.Any("error", err))
		return
	} else if last != nil {
		start = startOfDay(*last).AddDate(0, 0, 1)
	} else if first, err := j.statService.GetFirstLogDate(ctx); err == nil && first != nil {
		start = startOfDay(*first)
	}

	for date := start; !date.After(yesterday); date = date.AddDate(0, 0, 1) {
		if err := j.statService.AggregateDaily(ctx, date); err != nil {
			j.logger.Error("聚合日统计数据失败", slog.Any("error", err), slog.Time("date", date))
			return
		}
		j.logger.Info("日统计聚合完成", slog.Time("date", date))
	}

	j.logger.Info("统计数据聚合任务执行完成")
}

// Name 返回任务名称
func (j *StatisticsAggregationJob) Name() string {
	return "StatisticsAggregationJob"
}

// StatisticsCleanupJob 统计数据清理任务：删除聚合完成且超过保留期的访问日志。
type StatisticsCleanupJob struct {
	statService statistics.VisitorStatService
	logger      *slog.Logger
	retention   time.Duration
}

// NewStatisticsCleanupJob 创建统计数据清理任务实例
func NewStatisticsCleanupJob(statService statistics.VisitorStatService, logger *slog.Logger) *StatisticsCleanupJob {
	return &StatisticsCleanupJob{
		statService: statService,
		logger:      logger,
		retention:   90 * 24 * time.Hour,
	}
}

// Run 执行统计数据清理任务
func (j *StatisticsCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// 只清理已聚合的日期，避免删掉尚未进日统计表的日志
	last, err := j.statService.GetLastAggregatedDate(ctx)
	if err != nil || last == nil {
		j.logger.Info("尚无聚合记录，跳过日志清理")
		return
	}

	cutoff := time.Now().Add(-j.retention)
	if aggregatedEnd := startOfDay(*last).AddDate(0, 0, 1); cutoff.After(aggregatedEnd) {
		cutoff = aggregatedEnd
	}

	deleted, err := j.statService.CleanupLogs(ctx, cutoff)
	if err != nil {
		j.logger.Error("清理访问日志失败", slog.Any("error", err))
		return
	}
	j.logger.Info("统计数据清理任务执行完成", slog.Int64("deleted", deleted), slog.Time("cutoff", cutoff))
}

// Name 返回任务名称
func (j *StatisticsCleanupJob) Name() string {
	return "StatisticsCleanupJob"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
