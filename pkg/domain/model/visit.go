/*
 * @Description: 访问统计领域模型
 * @Author: 安知鱼
 * @Date: 2025-11-09 10:02:18
 * @LastEditTime: 2026-01-28 18:33:40
 * @LastEditors: 安知鱼
 */
package model

import "time"

// TrackOutcome 是一次访问上报的结构化结果。
// 以返回值代替日志输出，便于 UI 和测试直接断言。
type TrackOutcome int

const (
	TrackOK             TrackOutcome = iota + 1 // 本次调用完成了一次真实写入
	TrackAlreadyTracked                         // 本会话已记录过，未发起写入
	TrackFailed                                 // 写入失败，会话标记未设置，后续可重试
)

// TrackResult 携带上报结果与失败原因。
type TrackResult struct {
	Outcome TrackOutcome
	Reason  string // 仅 Outcome == TrackFailed 时有值
}

// Tracked 返回本次调用后访问是否已被记录（含此前已记录的情况）。
func (r TrackResult) Tracked() bool {
	return r.Outcome == TrackOK || r.Outcome == TrackAlreadyTracked
}

// VisitorLog 是一条访问日志，访问写入的最小单元。
type VisitorLog struct {
	ID        uint
	ContentID string // 被访问内容的规范 ID
	VisitorID string // 访客标识（会话内稳定）
	IPAddress string
	UserAgent string
	Referer   string
	CreatedAt time.Time
}

// VisitorStat 是按天聚合后的访问统计。
type VisitorStat struct {
	ID             uint
	Date           time.Time
	TotalViews     int64
	UniqueVisitors int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContentVisitStat 是单个内容实体的累计访问计数。
type ContentVisitStat struct {
	ContentID      string `json:"content_id"`
	TotalViews     int64  `json:"total_views"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// BasicStatistics 是对外暴露的站点级统计摘要。
type BasicStatistics struct {
	TodayViews    int64 `json:"today_views"`
	TodayVisitors int64 `json:"today_visitors"`
	TotalViews    int64 `json:"total_views"`
	TotalVisitors int64 `json:"total_visitors"`
}
