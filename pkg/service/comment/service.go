/*
 * @Description: 评论服务：校验、配额约束与待审核流转
 * @Author: 安知鱼
 * @Date: 2025-11-12 17:40:55
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
// pkg/service/comment/service.go
package comment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/idgen"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/setting"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/utility"

	"github.com/microcosm-cc/bluemonday"
)

// emailShapeRegex 校验 local@domain 的基本形状。
// 身份未经认证，这里只挡住明显的笔误，不做邮箱有效性验证。
var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreatedEvent 是新评论进入待审核队列后发布的事件负载。
type CreatedEvent struct {
	CommentID uint
	PostID    string
	Nickname  string
}

// Service 评论服务的核心业务逻辑。
type Service struct {
	repo       repository.CommentRepository
	txManager  repository.TransactionManager
	settingSvc setting.SettingService
	cacheSvc   utility.CacheService
	bus        *event.EventBus
	sanitizer  *bluemonday.Policy
}

// NewService 创建一个新的评论服务实例。
func NewService(
	repo repository.CommentRepository,
	txManager repository.TransactionManager,
	settingSvc setting.SettingService,
	cacheSvc utility.CacheService,
	bus *event.EventBus,
) *Service {
	return &Service{
		repo:       repo,
		txManager:  txManager,
		settingSvc: settingSvc,
		cacheSvc:   cacheSvc,
		bus:        bus,
		sanitizer:  bluemonday.StrictPolicy(), // 评论按纯文本处理，剥掉所有 HTML
	}
}

// quota 返回配置的评论配额上限，配置缺失或非法时退回默认值。
func (s *Service) quota() int {
	if q := s.settingSvc.GetInt(constant.KeyCommentQuotaPerPost.String()); q > 0 {
		return q
	}
	return model.DefaultCommentQuota
}

// contentLengthBounds 返回配置的评论长度区间。
func (s *Service) contentLengthBounds() (min, max int) {
	min = s.settingSvc.GetInt(constant.KeyCommentMinLength.String())
	if min <= 0 {
		min = 10
	}
	max = s.settingSvc.GetInt(constant.KeyCommentMaxLength.String())
	if max <= 0 {
		max = 1000
	}
	return min, max
}

// validate 在任何持久化交互之前完成表单校验，按顺序短路：
// 三字段非空 → 邮箱形状 → 内容长度下限 → 内容长度上限。
// 每个失败对应一条独立的用户可见提示。
func (s *Service) validate(req *dto.CreateRequest) error {
	if strings.TrimSpace(req.Nickname) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Content) == "" {
		return constant.ErrFieldsMissing
	}
	if !emailShapeRegex.MatchString(strings.TrimSpace(req.Email)) {
		return constant.ErrEmailInvalid
	}

	min, max := s.contentLengthBounds()
	length := utf8.RuneCountInString(strings.TrimSpace(req.Content))
	if length < min {
		return constant.ErrContentTooShort
	}
	if length > max {
		return constant.ErrContentTooLong
	}
	return nil
}

// checkRateLimit 按 IP 做每分钟提交频率限制（Redis 计数器，失败时放行）。
func (s *Service) checkRateLimit(ctx context.Context, ip string) error {
	limit := s.settingSvc.GetInt(constant.KeyCommentLimitPerMin.String())
	if limit <= 0 || s.cacheSvc == nil || ip == "" {
		return nil
	}

	redisKey := fmt.Sprintf("comment:rate_limit:%s:%s", ip, time.Now().Format("200601021504"))
	count, err := s.cacheSvc.Increment(ctx, redisKey)
	if err != nil {
		log.Printf("警告：Redis速率限制检查失败: %v", err)
		return nil
	}
	if count == 1 {
		s.cacheSvc.Expire(ctx, redisKey, 70*time.Second)
	}
	if count > int64(limit) {
		return constant.ErrCommentRateLimited
	}
	return nil
}

// Create 处理一次评论提交。
//
// 流程：本地校验 → 频率限制 → 配额检查 → 落库（待审核）。
// 配额以 (postID, 邮箱令牌) 上最近一条记录的计数为准，达到上限的提交
// 在插入前即被拒绝。新评论始终进入待审核状态，展示由独立的批准
// 标记控制，提交成功不等于立即可见。
func (s *Service) Create(ctx context.Context, req *dto.CreateRequest, ip string) (*dto.Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.checkRateLimit(ctx, ip); err != nil {
		return nil, err
	}

	identity := model.Identity{
		Nickname: strings.TrimSpace(req.Nickname),
		Email:    strings.TrimSpace(req.Email),
	}
	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))

	// 配额检查与落库放进同一事务，并发提交不会越过上限
	var created *model.Comment
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		priorCount, err := repos.Comment.LatestQuotaCount(ctx, req.PostID, identity.Token())
		if err != nil {
			return fmt.Errorf("读取评论配额失败: %w", err)
		}
		if priorCount >= s.quota() {
			return constant.ErrQuotaExceeded
		}

		created, err = repos.Comment.Create(ctx, &repository.CreateCommentParams{
			PostID:     req.PostID,
			Nickname:   identity.Nickname,
			Email:      identity.Token(),
			EmailMD5:   identity.EmailMD5(),
			Content:    sanitized,
			QuotaCount: priorCount + 1,
			Status:     model.StatusPending,
		})
		return err
	})
	if err != nil {
		// 事务包装不外露，策略拒绝原样返回
		if errors.Is(err, constant.ErrQuotaExceeded) {
			return nil, constant.ErrQuotaExceeded
		}
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(event.CommentCreated, CreatedEvent{
			CommentID: created.ID,
			PostID:    created.PostID,
			Nickname:  created.Nickname,
		})
	}

	return s.toResponseDTO(created), nil
}

// HasReachedQuota 报告某身份在该内容下是否已达评论配额。
// 配额是唯一事实来源："已评论过"的 UI 状态应从这里派生，
// 而不是依赖客户端的本地布尔标记。
func (s *Service) HasReachedQuota(ctx context.Context, postID string, identity model.Identity) (bool, error) {
	count, err := s.repo.LatestQuotaCount(ctx, postID, identity.Token())
	if err != nil {
		return false, fmt.Errorf("读取评论配额失败: %w", err)
	}
	return count >= s.quota(), nil
}

// ListApproved 返回某内容下已批准的评论（分页）。
//
// 站点级开关 ENABLE_COMMENTS 关闭时列表恒为空。注意：开关只约束
// 列表展示，提交接口不受影响，两者是不同的策略。
func (s *Service) ListApproved(ctx context.Context, postID string, page, pageSize int) (*dto.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = s.settingSvc.GetInt(constant.KeyCommentPageSize.String())
		if pageSize < 1 {
			pageSize = 10
		}
	}

	if !s.settingSvc.GetBool(constant.KeyEnableComments.String()) {
		return &dto.ListResponse{List: []*dto.Response{}, Total: 0, Page: page, PageSize: pageSize}, nil
	}

	comments, total, err := s.repo.FindApprovedByPostID(ctx, postID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("获取评论列表失败: %w", err)
	}

	responses := make([]*dto.Response, len(comments))
	for i, c := range comments {
		responses[i] = s.toResponseDTO(c)
	}
	return &dto.ListResponse{
		List:     responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// AdminList 后台分页查询评论，支持按内容、邮箱、状态过滤。
func (s *Service) AdminList(ctx context.Context, req *dto.AdminListRequest) (*dto.ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 10
	}

	// 过滤条件为空表示不过滤，仓储层以 nil 区分
	params := &repository.AdminListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.PostID != "" {
		params.PostID = &req.PostID
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		params.Status = &status
	}

	comments, total, err := s.repo.FindAdminPaginated(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("获取评论列表失败: %w", err)
	}

	responses := make([]*dto.Response, len(comments))
	for i, c := range comments {
		responses[i] = s.toResponseDTO(c)
	}
	return &dto.ListResponse{
		List:     responses,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// UpdateStatus 批准或退回一条评论（审核出带外完成，这里只落状态）。
func (s *Service) UpdateStatus(ctx context.Context, publicID string, status model.Status) error {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != idgen.EntityTypeComment {
		return constant.ErrInvalidPublicID
	}

	if err := s.repo.UpdateStatus(ctx, dbID, status); err != nil {
		return err
	}

	if status == model.StatusApproved && s.bus != nil {
		s.bus.Publish(event.CommentApproved, CreatedEvent{CommentID: dbID})
	}
	return nil
}

// Delete 批量删除评论。任何一个 ID 非法则整批拒绝。
func (s *Service) Delete(ctx context.Context, publicIDs []string) (int, error) {
	dbIDs, err := idgen.DecodePublicIDBatch(publicIDs, idgen.EntityTypeComment)
	if err != nil {
		return 0, constant.ErrInvalidPublicID
	}
	return s.repo.Delete(ctx, dbIDs)
}

// toResponseDTO 将领域模型转换为 API 响应（公共 ID + Gravatar 地址，隐去邮箱原文）。
func (s *Service) toResponseDTO(c *model.Comment) *dto.Response {
	publicID, err := idgen.GeneratePublicID(c.ID, idgen.EntityTypeComment)
	if err != nil {
		log.Printf("警告：生成评论公共ID失败 (db_id=%d): %v", c.ID, err)
	}

	gravatarBase := s.settingSvc.Get(constant.KeyGravatarURL.String())
	if gravatarBase == "" {
		gravatarBase = "https://cravatar.cn/"
	}

	return &dto.Response{
		ID:        publicID,
		PostID:    c.PostID,
		Nickname:  c.Nickname,
		Avatar:    fmt.Sprintf("%savatar/%s?d=mp", gravatarBase, c.EmailMD5),
		Content:   c.Content,
		Status:    int(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
