/*
 * @Description: 前端交互层对服务端的窄接口
 * @Author: 安知鱼
 * @Date: 2025-11-22 10:12:40
 * @LastEditTime: 2026-03-16 11:05:27
 * @LastEditors: 安知鱼
 */
package engage

import (
	"context"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/comment"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/rating"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/statistics"
)

// Backend 是视图层依赖的服务端契约。
// 接口刻意收窄：视图只需要这几个操作，测试时用假实现替换。
type Backend interface {
	// GetRating 返回内容的权威评分快照（无评分时均值 0、计数 0）。
	GetRating(ctx context.Context, postID string) (model.RatingSnapshot, error)

	// SubmitRating 提交一次评分，重复身份返回 ErrAlreadyRated。
	SubmitRating(ctx context.Context, postID string, value int, identity model.Identity) (model.RatingSnapshot, error)

	// CommentQuotaReached 报告该身份在该内容下是否已达评论配额。
	CommentQuotaReached(ctx context.Context, postID string, identity model.Identity) (bool, error)

	// SubmitComment 提交一条评论，进入待审核队列。
	SubmitComment(ctx context.Context, req *dto.CreateRequest) (*dto.Response, error)

	// ListComments 返回已批准的评论列表。
	ListComments(ctx context.Context, postID string, page, pageSize int) (*dto.ListResponse, error)

	// TrackVisit 记录一次访问。返回错误即未落库，可重试。
	TrackVisit(ctx context.Context, contentID, visitorID string) error
}

// ServiceBackend 将进程内的业务服务适配为 Backend。
// SSR 场景下视图层与服务端同进程，不经过 HTTP。
type ServiceBackend struct {
	ratingSvc  *rating.Service
	commentSvc *comment.Service
	statSvc    statistics.VisitorStatService
}

// NewServiceBackend 创建进程内适配器。
func NewServiceBackend(
	ratingSvc *rating.Service,
	commentSvc *comment.Service,
	statSvc statistics.VisitorStatService,
) *ServiceBackend {
	return &ServiceBackend{
		ratingSvc:  ratingSvc,
		commentSvc: commentSvc,
		statSvc:    statSvc,
	}
}

func (b *ServiceBackend) GetRating(ctx context.Context, postID string) (model.RatingSnapshot, error) {
	return b.ratingSvc.Get(ctx, postID)
}

func (b *ServiceBackend) SubmitRating(ctx context.Context, postID string, value int, identity model.Identity) (model.RatingSnapshot, error) {
	return b.ratingSvc.Submit(ctx, postID, value, identity)
}

func (b *ServiceBackend) CommentQuotaReached(ctx context.Context, postID string, identity model.Identity) (bool, error) {
	return b.commentSvc.HasReachedQuota(ctx, postID, identity)
}

func (b *ServiceBackend) SubmitComment(ctx context.Context, req *dto.CreateRequest) (*dto.Response, error) {
	// 进程内调用没有客户端 IP，速率限制对空 IP 自动跳过
	return b.commentSvc.Create(ctx, req, "")
}

func (b *ServiceBackend) ListComments(ctx context.Context, postID string, page, pageSize int) (*dto.ListResponse, error) {
	return b.commentSvc.ListApproved(ctx, postID, page, pageSize)
}

func (b *ServiceBackend) TrackVisit(ctx context.Context, contentID, visitorID string) error {
	return b.statSvc.RecordVisit(ctx, &statistics.VisitRequest{
		ContentID: contentID,
		VisitorID: visitorID,
	})
}
