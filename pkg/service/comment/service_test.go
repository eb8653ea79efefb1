package comment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/idgen"
)

func init() {
	// DTO 转换依赖公共 ID 编码器
	if err := idgen.InitSqidsEncoderWithSeed("test-seed"); err != nil {
		panic(err)
	}
}

// fakeCommentRepo 是内存版评论仓库，按插入顺序保存记录。
type fakeCommentRepo struct {
	comments    []*model.Comment
	nextID      uint
	createCalls int
	countErr    error
}

func (r *fakeCommentRepo) Create(ctx context.Context, params *repository.CreateCommentParams) (*model.Comment, error) {
	r.createCalls++
	r.nextID++
	c := &model.Comment{
		ID:         r.nextID,
		PostID:     params.PostID,
		Nickname:   params.Nickname,
		Email:      params.Email,
		EmailMD5:   params.EmailMD5,
		Content:    params.Content,
		QuotaCount: params.QuotaCount,
		Status:     params.Status,
	}
	r.comments = append(r.comments, c)
	return c, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *fakeCommentRepo) LatestQuotaCount(ctx context.Context, postID, identityToken string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	latest := 0
	for _, c := range r.comments {
		if c.PostID == postID && c.Email == identityToken {
			latest = c.QuotaCount
		}
	}
	return latest, nil
}

func (r *fakeCommentRepo) FindApprovedByPostID(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, int64, error) {
	var out []*model.Comment
	for _, c := range r.comments {
		if c.PostID == postID && c.Status == model.StatusApproved {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommentRepo) FindAdminPaginated(ctx context.Context, params *repository.AdminListParams) ([]*model.Comment, int64, error) {
	var out []*model.Comment
	for _, c := range r.comments {
		if params.PostID != nil && c.PostID != *params.PostID {
			continue
		}
		if params.Email != nil && c.Email != *params.Email {
			continue
		}
		if params.Status != nil && c.Status != *params.Status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCommentRepo) UpdateStatus(ctx context.Context, id uint, status model.Status) error {
	for _, c := range r.comments {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return constant.ErrNotFound
}

func (r *fakeCommentRepo) Delete(ctx context.Context, ids []uint) (int, error) {
	deleted := 0
	kept := r.comments[:0]
	for _, c := range r.comments {
		removed := false
		for _, id := range ids {
			if c.ID == id {
				removed = true
				break
			}
		}
		if removed {
			deleted++
		} else {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return deleted, nil
}

// fakeTxManager 直接在当前 goroutine 执行回调，错误按事务失败包装。
type fakeTxManager struct {
	repo *fakeCommentRepo
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := fn(repository.Repositories{Comment: m.repo}); err != nil {
		return fmt.Errorf("事务执行失败: %w", err)
	}
	return nil
}

// fakeSettings 是只读的配置假实现。
type fakeSettings struct {
	values map[string]string
}

func (s *fakeSettings) LoadAllSettings(ctx context.Context) error { return nil }
func (s *fakeSettings) Get(key string) string                     { return s.values[key] }
func (s *fakeSettings) GetBool(key string) bool                   { return s.values[key] == "true" }
func (s *fakeSettings) GetInt(key string) int {
	n, _ := strconv.Atoi(s.values[key])
	return n
}
func (s *fakeSettings) GetSiteConfig() map[string]string                      { return nil }
func (s *fakeSettings) UpdateSetting(ctx context.Context, key, value string) error { return nil }

func newTestService(repo *fakeCommentRepo, settings map[string]string) *Service {
	if settings == nil {
		settings = map[string]string{}
	}
	return NewService(repo, &fakeTxManager{repo: repo}, &fakeSettings{values: settings}, nil, nil)
}

func validRequest() *dto.CreateRequest {
	return &dto.CreateRequest{
		PostID:   "blog/hello-world",
		Nickname: "访客甲",
		Email:    "guest@example.com",
		Content:  "这篇文章写得很好，学习了。",
	}
}

func TestCreateValidationOrder(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)

	testCases := []struct {
		name    string
		mutate  func(req *dto.CreateRequest)
		wantErr error
	}{
		{
			name:    "昵称为空",
			mutate:  func(req *dto.CreateRequest) { req.Nickname = "  " },
			wantErr: constant.ErrFieldsMissing,
		},
		{
			name:    "邮箱为空",
			mutate:  func(req *dto.CreateRequest) { req.Email = "" },
			wantErr: constant.ErrFieldsMissing,
		},
		{
			name:    "内容为空",
			mutate:  func(req *dto.CreateRequest) { req.Content = "" },
			wantErr: constant.ErrFieldsMissing,
		},
		{
			name:    "邮箱形状非法",
			mutate:  func(req *dto.CreateRequest) { req.Email = "not-an-email" },
			wantErr: constant.ErrEmailInvalid,
		},
		{
			name:    "邮箱缺少域名点号",
			mutate:  func(req *dto.CreateRequest) { req.Email = "a@b" },
			wantErr: constant.ErrEmailInvalid,
		},
		{
			name:    "内容过短",
			mutate:  func(req *dto.CreateRequest) { req.Content = "太短" },
			wantErr: constant.ErrContentTooShort,
		},
		{
			name:    "内容过长",
			mutate:  func(req *dto.CreateRequest) { req.Content = strings.Repeat("长", 1001) },
			wantErr: constant.ErrContentTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := svc.Create(context.Background(), req, "")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Create() 错误 = %v, 期望 %v", err, tc.wantErr)
			}
		})
	}

	if repo.createCalls != 0 {
		t.Errorf("校验失败不应触发落库, 实际落库 %d 次", repo.createCalls)
	}
}

func TestCreateQuotaBoundary(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	// 第一条和第二条都应被接受，计数递增
	for i, want := range []int{1, 2} {
		req := validRequest()
		resp, err := svc.Create(ctx, req, "")
		if err != nil {
			t.Fatalf("第 %d 条评论提交失败: %v", i+1, err)
		}
		if resp.Status != int(model.StatusPending) {
			t.Errorf("新评论状态 = %d, 期望待审核 %d", resp.Status, model.StatusPending)
		}
		if got := repo.comments[len(repo.comments)-1].QuotaCount; got != want {
			t.Errorf("第 %d 条评论 QuotaCount = %d, 期望 %d", i+1, got, want)
		}
	}

	// 第三条触顶，插入前即被拒绝
	_, err := svc.Create(ctx, validRequest(), "")
	if !errors.Is(err, constant.ErrQuotaExceeded) {
		t.Fatalf("达到配额后 Create() 错误 = %v, 期望 ErrQuotaExceeded", err)
	}
	if repo.createCalls != 2 {
		t.Errorf("落库次数 = %d, 期望 2（配额拒绝不应落库）", repo.createCalls)
	}

	// 配额按 (内容, 身份) 维度计算，换内容或换身份均不受影响
	otherPost := validRequest()
	otherPost.PostID = "project/photo-wall"
	if _, err := svc.Create(ctx, otherPost, ""); err != nil {
		t.Errorf("不同内容下的提交不应受配额影响: %v", err)
	}
	otherIdentity := validRequest()
	otherIdentity.Email = "another@example.com"
	if _, err := svc.Create(ctx, otherIdentity, ""); err != nil {
		t.Errorf("不同身份的提交不应受配额影响: %v", err)
	}
}

func TestCreateIdentityNormalization(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	req := validRequest()
	req.Email = "Guest@Example.COM"
	if _, err := svc.Create(ctx, req, ""); err != nil {
		t.Fatalf("首条评论提交失败: %v", err)
	}

	req2 := validRequest()
	req2.Email = "  guest@example.com "
	if _, err := svc.Create(ctx, req2, ""); err != nil {
		t.Fatalf("第二条评论提交失败: %v", err)
	}

	// 大小写与空白归一化后视为同一身份，此时配额已满
	req3 := validRequest()
	req3.Email = "GUEST@example.com"
	if _, err := svc.Create(ctx, req3, ""); !errors.Is(err, constant.ErrQuotaExceeded) {
		t.Errorf("归一化后的同一身份应受配额约束, 实际错误 = %v", err)
	}
}

func TestCreateSanitizesContent(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)

	req := validRequest()
	req.Content = `评论内容带标记<script>alert("xss")</script>，应按纯文本保存。`
	resp, err := svc.Create(context.Background(), req, "")
	if err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}
	if strings.Contains(resp.Content, "<script>") {
		t.Errorf("净化后不应残留脚本标签: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "评论内容带标记") {
		t.Errorf("净化不应吞掉正文: %q", resp.Content)
	}
}

func TestHasReachedQuota(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()
	identity := model.Identity{Nickname: "访客甲", Email: "guest@example.com"}

	reached, err := svc.HasReachedQuota(ctx, "blog/hello-world", identity)
	if err != nil || reached {
		t.Fatalf("无记录时 HasReachedQuota = (%v, %v), 期望 (false, nil)", reached, err)
	}

	svc.Create(ctx, validRequest(), "")
	if reached, _ = svc.HasReachedQuota(ctx, "blog/hello-world", identity); reached {
		t.Error("一条评论后不应达到配额")
	}

	svc.Create(ctx, validRequest(), "")
	if reached, _ = svc.HasReachedQuota(ctx, "blog/hello-world", identity); !reached {
		t.Error("两条评论后应达到配额")
	}
}

func TestListApprovedGatedBySetting(t *testing.T) {
	repo := &fakeCommentRepo{}
	repo.Create(context.Background(), &repository.CreateCommentParams{
		PostID: "blog/hello-world", Nickname: "访客甲", Email: "guest@example.com",
		Content: "已批准的评论", QuotaCount: 1, Status: model.StatusApproved,
	})
	repo.Create(context.Background(), &repository.CreateCommentParams{
		PostID: "blog/hello-world", Nickname: "访客乙", Email: "other@example.com",
		Content: "待审核的评论", QuotaCount: 1, Status: model.StatusPending,
	})

	// 开关关闭：列表恒为空
	svcOff := newTestService(repo, map[string]string{constant.KeyEnableComments.String(): "false"})
	resp, err := svcOff.ListApproved(context.Background(), "blog/hello-world", 1, 10)
	if err != nil {
		t.Fatalf("ListApproved() 失败: %v", err)
	}
	if len(resp.List) != 0 || resp.Total != 0 {
		t.Errorf("开关关闭时列表应为空, 实际 %d 条", len(resp.List))
	}

	// 开关开启：只返回已批准的评论，且不泄露邮箱原文
	svcOn := newTestService(repo, map[string]string{constant.KeyEnableComments.String(): "true"})
	resp, err = svcOn.ListApproved(context.Background(), "blog/hello-world", 1, 10)
	if err != nil {
		t.Fatalf("ListApproved() 失败: %v", err)
	}
	if len(resp.List) != 1 {
		t.Fatalf("列表长度 = %d, 期望 1（仅已批准）", len(resp.List))
	}
	item := resp.List[0]
	if item.Content != "已批准的评论" {
		t.Errorf("返回了错误的评论: %q", item.Content)
	}
	if strings.Contains(item.Avatar, "guest@example.com") {
		t.Error("响应不应包含邮箱原文")
	}
	if !strings.Contains(item.Avatar, "avatar/") {
		t.Errorf("头像地址格式异常: %q", item.Avatar)
	}
}

func TestAdminListFilters(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.Create(ctx, &repository.CreateCommentParams{
		PostID: "blog/hello-world", Nickname: "访客甲", Email: "guest@example.com",
		Content: "第一条", QuotaCount: 1, Status: model.StatusApproved,
	})
	repo.Create(ctx, &repository.CreateCommentParams{
		PostID: "project/photo-wall", Nickname: "访客乙", Email: "other@example.com",
		Content: "第二条", QuotaCount: 1, Status: model.StatusPending,
	})

	testCases := []struct {
		name  string
		req   dto.AdminListRequest
		want  int
		first string
	}{
		{"无过滤条件返回全部", dto.AdminListRequest{}, 2, "第一条"},
		{"按内容过滤", dto.AdminListRequest{PostID: "project/photo-wall"}, 1, "第二条"},
		{"按邮箱过滤", dto.AdminListRequest{Email: "guest@example.com"}, 1, "第一条"},
		{"按内容过滤无命中", dto.AdminListRequest{PostID: "blog/no-such"}, 0, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.AdminList(ctx, &tc.req)
			if err != nil {
				t.Fatalf("AdminList() 失败: %v", err)
			}
			if len(resp.List) != tc.want {
				t.Fatalf("列表长度 = %d, 期望 %d", len(resp.List), tc.want)
			}
			if tc.want > 0 && resp.List[0].Content != tc.first {
				t.Errorf("首条内容 = %q, 期望 %q", resp.List[0].Content, tc.first)
			}
		})
	}
}

func TestUpdateStatusRejectsBadPublicID(t *testing.T) {
	svc := newTestService(&fakeCommentRepo{}, nil)
	if err := svc.UpdateStatus(context.Background(), "not-a-valid-id", model.StatusApproved); !errors.Is(err, constant.ErrInvalidPublicID) {
		t.Errorf("非法公共 ID 应返回 ErrInvalidPublicID, 实际 %v", err)
	}
}

// 批量删除中混入非法 ID 时整批拒绝，不做部分删除。
func TestDeleteRejectsBadIDInBatch(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validRequest(), "")
	if err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}

	deleted, err := svc.Delete(ctx, []string{resp.ID, "not-a-valid-id"})
	if !errors.Is(err, constant.ErrInvalidPublicID) {
		t.Fatalf("Delete() 错误 = %v, 期望 ErrInvalidPublicID", err)
	}
	if deleted != 0 || len(repo.comments) != 1 {
		t.Errorf("整批拒绝后不应删除任何评论, 实际删除 %d 条, 剩余 %d 条", deleted, len(repo.comments))
	}
}

func TestUpdateStatusAndDeleteRoundTrip(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validRequest(), "")
	if err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}

	if err := svc.UpdateStatus(ctx, resp.ID, model.StatusApproved); err != nil {
		t.Fatalf("UpdateStatus() 失败: %v", err)
	}
	if repo.comments[0].Status != model.StatusApproved {
		t.Errorf("评论状态 = %d, 期望已批准", repo.comments[0].Status)
	}

	deleted, err := svc.Delete(ctx, []string{resp.ID})
	if err != nil {
		t.Fatalf("Delete() 失败: %v", err)
	}
	if deleted != 1 || len(repo.comments) != 0 {
		t.Errorf("删除结果 = %d, 剩余 %d 条, 期望删除 1 条后为空", deleted, len(repo.comments))
	}
}
