/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-21 16:09:46
 * @LastEditTime: 2026-03-16 19:18:00
 * @LastEditors: 安知鱼
 */
package task

import (
	"log/slog"
	"os"

	"github.com/anzhiyu-c/anheyu-engage/pkg/service/statistics"

	"github.com/robfig/cron/v3"
)

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	statSvc statistics.VisitorStatService
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(statSvc statistics.VisitorStatService) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:    c,
		logger:  logger,
		statSvc: statSvc,
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() {
	s.logger.Info("Registering all periodic jobs...")

	// --- 任务1: 每日访问统计聚合 ---
	aggregationJob := NewStatisticsAggregationJob(s.statSvc, s.logger)
	if _, err := s.cron.AddJob("0 10 0 * * *", aggregationJob); err != nil {
		s.logger.Error("Failed to add 'StatisticsAggregationJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'StatisticsAggregationJob'", "schedule", "every day at 0:10:00 AM")

	// --- 任务2: 已聚合访问日志清理 ---
	cleanupJob := NewStatisticsCleanupJob(s.statSvc, s.logger)
	if _, err := s.cron.AddJob("0 0 4 * * *", cleanupJob); err != nil {
		s.logger.Error("Failed to add 'StatisticsCleanupJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'StatisticsCleanupJob'", "schedule", "every day at 4:00:00 AM")

	s.logger.Info("All periodic jobs registered.")
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
