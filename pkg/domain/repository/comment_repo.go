/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-09 11:24:55
 * @LastEditTime: 2026-02-20 22:41:09
 * @LastEditors: 安知鱼
 */
// pkg/domain/repository/comment_repo.go
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// CreateCommentParams 定义了创建评论所需的全部字段。
type CreateCommentParams struct {
	PostID     string
	Nickname   string
	Email      string
	EmailMD5   string
	Content    string // 已净化的内容
	QuotaCount int    // 本条被接受时 (PostID, Email) 的累计评论数
	Status     model.Status
}

// AdminListParams 定义了后台按条件分页查询评论的参数。
type AdminListParams struct {
	Page     int
	PageSize int
	PostID   *string
	Email    *string
	Status   *model.Status
}

// CommentRepository 定义了评论的持久化接口。
type CommentRepository interface {
	Create(ctx context.Context, params *CreateCommentParams) (*model.Comment, error)
	FindByID(ctx context.Context, id uint) (*model.Comment, error)

	// LatestQuotaCount 返回 (postID, identityToken) 对上最近一条记录的
	// QuotaCount，没有记录时返回 0。配额检查以该值为准。
	LatestQuotaCount(ctx context.Context, postID, identityToken string) (int, error)

	// FindApprovedByPostID 按创建时间升序返回某内容下已批准的评论。
	FindApprovedByPostID(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, int64, error)

	// FindAdminPaginated 后台分页查询，支持按内容、邮箱、状态过滤。
	FindAdminPaginated(ctx context.Context, params *AdminListParams) ([]*model.Comment, int64, error)

	UpdateStatus(ctx context.Context, id uint, status model.Status) error
	Delete(ctx context.Context, ids []uint) (int, error)
}
