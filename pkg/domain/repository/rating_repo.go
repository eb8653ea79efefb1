/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-09 11:24:55
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
// pkg/domain/repository/rating_repo.go
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// RatingRepository 定义了评分聚合与评分贡献的持久化接口。
type RatingRepository interface {
	// GetAggregate 读取权威聚合。聚合行不存在时返回零值聚合（count=0），不报错。
	GetAggregate(ctx context.Context, postID string) (*model.RatingAggregate, error)

	// HasContribution 检查该身份令牌是否已对该内容贡献过评分。
	HasContribution(ctx context.Context, postID, identityToken string) (bool, error)

	// AddContribution 插入一条贡献记录并将聚合 sum += value、count += 1。
	// (postID, identityToken) 上的唯一约束冲突时返回 constant.ErrAlreadyRated，
	// 且不产生任何变更。两步写入必须在同一事务内完成。
	AddContribution(ctx context.Context, c *model.RatingContribution) (*model.RatingAggregate, error)
}
