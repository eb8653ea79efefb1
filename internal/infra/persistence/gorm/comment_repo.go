/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-11 14:22:08
 * @LastEditTime: 2026-02-20 22:41:09
 * @LastEditors: 安知鱼
 */
// internal/infra/persistence/gorm/comment_repo.go
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"

	"gorm.io/gorm"
)

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo 创建评论仓储实例。
func NewCommentRepo(db *gorm.DB) repository.CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, params *repository.CreateCommentParams) (*model.Comment, error) {
	po := &commentPO{
		PostID:     params.PostID,
		Nickname:   params.Nickname,
		Email:      params.Email,
		EmailMD5:   params.EmailMD5,
		Content:    params.Content,
		QuotaCount: params.QuotaCount,
		Status:     int(params.Status),
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, fmt.Errorf("写入评论失败: %w", err)
	}
	return toDomainComment(po), nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var po commentPO
	err := r.db.WithContext(ctx).First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	return toDomainComment(&po), nil
}

// LatestQuotaCount 读取 (postID, identityToken) 对上最近一条记录的累计计数。
// 配额判定以该值为准，而不是数评论行数（与历史数据的语义保持一致）。
func (r *commentRepo) LatestQuotaCount(ctx context.Context, postID, identityToken string) (int, error) {
	var po commentPO
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND email = ?", postID, identityToken).
		Order("created_at DESC, id DESC").
		First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("查询评论配额计数失败: %w", err)
	}
	return po.QuotaCount, nil
}

func (r *commentRepo) FindApprovedByPostID(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&commentPO{}).
		Where("post_id = ? AND status = ?", postID, int(model.StatusApproved))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计评论数失败: %w", err)
	}

	var pos []*commentPO
	err := query.Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询评论列表失败: %w", err)
	}

	comments := make([]*model.Comment, len(pos))
	for i, po := range pos {
		comments[i] = toDomainComment(po)
	}
	return comments, total, nil
}

func (r *commentRepo) FindAdminPaginated(ctx context.Context, params *repository.AdminListParams) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&commentPO{})
	if params.PostID != nil {
		query = query.Where("post_id = ?", *params.PostID)
	}
	if params.Email != nil {
		query = query.Where("email LIKE ?", "%"+*params.Email+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", int(*params.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计评论数失败: %w", err)
	}

	var pos []*commentPO
	err := query.Order("created_at DESC, id DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询评论列表失败: %w", err)
	}

	comments := make([]*model.Comment, len(pos))
	for i, po := range pos {
		comments[i] = toDomainComment(po)
	}
	return comments, total, nil
}

func (r *commentRepo) UpdateStatus(ctx context.Context, id uint, status model.Status) error {
	result := r.db.WithContext(ctx).Model(&commentPO{}).
		Where("id = ?", id).
		Update("status", int(status))
	if result.Error != nil {
		return fmt.Errorf("更新评论状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return constant.ErrNotFound
	}
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, ids []uint) (int, error) {
	result := r.db.WithContext(ctx).Delete(&commentPO{}, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("删除评论失败: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
