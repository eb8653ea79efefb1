package rating

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
)

// fakeRatingRepo 是内存版评分仓库，用 map 模拟 (postID, token) 唯一约束。
type fakeRatingRepo struct {
	aggregates    map[string]*model.RatingAggregate
	contributions map[string]bool // 键形如 "postID|token"
	addCalls      int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		aggregates:    make(map[string]*model.RatingAggregate),
		contributions: make(map[string]bool),
	}
}

func (r *fakeRatingRepo) GetAggregate(ctx context.Context, postID string) (*model.RatingAggregate, error) {
	if agg, ok := r.aggregates[postID]; ok {
		return agg, nil
	}
	return &model.RatingAggregate{PostID: postID}, nil
}

func (r *fakeRatingRepo) HasContribution(ctx context.Context, postID, identityToken string) (bool, error) {
	return r.contributions[postID+"|"+identityToken], nil
}

func (r *fakeRatingRepo) AddContribution(ctx context.Context, c *model.RatingContribution) (*model.RatingAggregate, error) {
	r.addCalls++
	key := c.PostID + "|" + c.IdentityToken
	if r.contributions[key] {
		return nil, constant.ErrAlreadyRated
	}
	r.contributions[key] = true

	agg, ok := r.aggregates[c.PostID]
	if !ok {
		agg = &model.RatingAggregate{PostID: c.PostID}
		r.aggregates[c.PostID] = agg
	}
	agg.Sum += int64(c.Value)
	agg.Count++
	return agg, nil
}

func identityOf(email string) model.Identity {
	return model.Identity{Nickname: "访客", Email: email}
}

func TestGetZeroAggregate(t *testing.T) {
	svc := NewService(newFakeRatingRepo(), nil, nil)

	snap, err := svc.Get(context.Background(), "blog/hello-world")
	if err != nil {
		t.Fatalf("Get() 失败: %v", err)
	}
	if snap.Count != 0 || snap.Average != 0 {
		t.Errorf("无评分时快照 = %+v, 期望 count=0 average=0", snap)
	}
}

func TestSubmitAccumulates(t *testing.T) {
	svc := NewService(newFakeRatingRepo(), nil, nil)
	ctx := context.Background()

	submissions := []struct {
		email string
		value int
	}{
		{"a@example.com", 5},
		{"b@example.com", 4},
		{"c@example.com", 3},
	}
	var snap model.RatingSnapshot
	var err error
	for _, s := range submissions {
		snap, err = svc.Submit(ctx, "blog/hello-world", s.value, identityOf(s.email))
		if err != nil {
			t.Fatalf("Submit(%s, %d) 失败: %v", s.email, s.value, err)
		}
	}

	if snap.Count != 3 {
		t.Errorf("count = %d, 期望 3", snap.Count)
	}
	if math.Abs(snap.Average-4.0) > 1e-9 {
		t.Errorf("average = %v, 期望 4.0", snap.Average)
	}

	// Get 与 Submit 返回的快照一致
	got, err := svc.Get(ctx, "blog/hello-world")
	if err != nil {
		t.Fatalf("Get() 失败: %v", err)
	}
	if got != snap {
		t.Errorf("Get() = %+v, 与提交后快照 %+v 不一致", got, snap)
	}
}

func TestSubmitDuplicateIdentity(t *testing.T) {
	repo := newFakeRatingRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "blog/hello-world", 5, identityOf("a@example.com")); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}

	// 归一化后的同一身份视为重复
	_, err := svc.Submit(ctx, "blog/hello-world", 1, identityOf(" A@Example.COM "))
	if !errors.Is(err, constant.ErrAlreadyRated) {
		t.Fatalf("重复提交错误 = %v, 期望 ErrAlreadyRated", err)
	}

	// 聚合无任何变更
	snap, _ := svc.Get(ctx, "blog/hello-world")
	if snap.Count != 1 || math.Abs(snap.Average-5.0) > 1e-9 {
		t.Errorf("重复提交后快照 = %+v, 期望 count=1 average=5", snap)
	}

	// 换内容不算重复
	if _, err := svc.Submit(ctx, "project/photo-wall", 3, identityOf("a@example.com")); err != nil {
		t.Errorf("同一身份对不同内容评分不应被拒绝: %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	repo := newFakeRatingRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	for _, value := range []int{0, -1, 6, 100} {
		if _, err := svc.Submit(ctx, "blog/hello-world", value, identityOf("a@example.com")); !errors.Is(err, constant.ErrBadRequest) {
			t.Errorf("Submit(value=%d) 错误 = %v, 期望 ErrBadRequest", value, err)
		}
	}
	if _, err := svc.Submit(ctx, "blog/hello-world", 3, model.Identity{Nickname: "访客"}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("缺少身份令牌的提交应返回 ErrBadRequest, 实际 %v", err)
	}
	if repo.addCalls != 0 {
		t.Errorf("校验失败不应触达仓库, 实际 %d 次", repo.addCalls)
	}
}

func TestHasRated(t *testing.T) {
	svc := NewService(newFakeRatingRepo(), nil, nil)
	ctx := context.Background()
	identity := identityOf("a@example.com")

	rated, err := svc.HasRated(ctx, "blog/hello-world", identity)
	if err != nil || rated {
		t.Fatalf("未评分时 HasRated = (%v, %v), 期望 (false, nil)", rated, err)
	}

	svc.Submit(ctx, "blog/hello-world", 4, identity)
	if rated, _ = svc.HasRated(ctx, "blog/hello-world", identity); !rated {
		t.Error("提交后 HasRated 应为 true")
	}
}
