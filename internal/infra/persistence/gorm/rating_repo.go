/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-11 14:22:08
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
// internal/infra/persistence/gorm/rating_repo.go
package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ratingRepo struct {
	db *gorm.DB
}

// NewRatingRepo 创建评分仓储实例。
func NewRatingRepo(db *gorm.DB) repository.RatingRepository {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) GetAggregate(ctx context.Context, postID string) (*model.RatingAggregate, error) {
	var po ratingAggregatePO
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return toDomainAggregate(nil, postID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询评分聚合失败: %w", err)
	}
	return toDomainAggregate(&po, postID), nil
}

func (r *ratingRepo) HasContribution(ctx context.Context, postID, identityToken string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ratingContributionPO{}).
		Where("post_id = ? AND identity_token = ?", postID, identityToken).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询评分贡献失败: %w", err)
	}
	return count > 0, nil
}

// AddContribution 在同一事务内插入贡献记录并更新聚合。
// 唯一索引冲突说明该身份已贡献过，映射为 constant.ErrAlreadyRated。
func (r *ratingRepo) AddContribution(ctx context.Context, c *model.RatingContribution) (*model.RatingAggregate, error) {
	var result *model.RatingAggregate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contribution := &ratingContributionPO{
			PostID:        c.PostID,
			IdentityToken: c.IdentityToken,
			Value:         c.Value,
		}
		if err := tx.Create(contribution).Error; err != nil {
			if isDuplicateKeyError(err) {
				return constant.ErrAlreadyRated
			}
			return fmt.Errorf("写入评分贡献失败: %w", err)
		}

		// 聚合行不存在时插入，存在时累加
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "post_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"sum":   gorm.Expr("rating_aggregates.sum + ?", c.Value),
				"count": gorm.Expr("rating_aggregates.count + 1"),
			}),
		}).Create(&ratingAggregatePO{
			PostID: c.PostID,
			Sum:    int64(c.Value),
			Count:  1,
		}).Error; err != nil {
			return fmt.Errorf("更新评分聚合失败: %w", err)
		}

		var po ratingAggregatePO
		if err := tx.Where("post_id = ?", c.PostID).First(&po).Error; err != nil {
			return fmt.Errorf("回读评分聚合失败: %w", err)
		}
		result = toDomainAggregate(&po, c.PostID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isDuplicateKeyError 判断是否为唯一约束冲突（兼容 postgres 与 sqlite 的报错文本）。
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
