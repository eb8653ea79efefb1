/*
 * @Description: cron 任务装饰器：执行日志与 panic 恢复
 * @Author: 安知鱼
 * @Date: 2025-11-21 16:09:46
 * @LastEditTime: 2026-03-16 19:18:00
 * @LastEditors: 安知鱼
 */
package task

import (
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// NewLoggingWrapper 为每次任务执行记录开始/结束日志。
// 每次执行分配一个唯一执行 ID，多个任务交错运行时日志可按 ID 串联。
func NewLoggingWrapper(logger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			runLogger := logger.With(
				slog.String("job_name", jobName(j)),
				slog.String("execution_id", uuid.New().String()),
			)

			start := time.Now()
			runLogger.Info("任务开始执行")
			j.Run()
			runLogger.Info("任务执行结束", slog.Duration("duration", time.Since(start)))
		})
	}
}

// NewPanicRecoveryWrapper 捕获任务内的 panic 并记录堆栈，
// 单个任务崩溃不影响调度器和其他任务。
func NewPanicRecoveryWrapper(logger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("任务发生 panic",
						slog.String("job_name", jobName(j)),
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
				}
			}()
			j.Run()
		})
	}
}

// jobName 取任务的可读名称。本模块的任务都实现了 Name()；
// 链上更内层的包装（如 DelayIfStillRunning 的 FuncJob）没有，
// 退回反射取类型名。
func jobName(j cron.Job) string {
	if named, ok := j.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(j)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}
