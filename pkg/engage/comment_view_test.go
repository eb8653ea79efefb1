package engage

import (
	"context"
	"errors"
	"testing"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/keystore"
)

func newTestCommentView(backend *fakeBackend) (*CommentView, keystore.KeyStore) {
	store := keystore.NewSessionStore()
	return NewCommentView(backend, store, "blog/hello-world"), store
}

func TestCommentViewQuotaFromServer(t *testing.T) {
	tests := []struct {
		name         string
		quotaReached bool
		localMarker  bool
		wantBlocked  bool
	}{
		{name: "服务端计数未达上限_表单开放", quotaReached: false, wantBlocked: false},
		{name: "服务端计数已达上限_表单禁用", quotaReached: true, wantBlocked: true},
		{
			// 本地标记只是提示，服务端计数才是事实来源
			name:         "本地标记存在但服务端未达上限_表单开放",
			quotaReached: false,
			localMarker:  true,
			wantBlocked:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{quotaReached: tt.quotaReached}
			view, store := newTestCommentView(backend)
			if tt.localMarker {
				_ = store.Set(keystore.CommentedKey("blog/hello-world"), "1")
			}
			view.SetForm(CommentForm{Nickname: "鱼鱼", Email: "yu@example.com", Content: "写得太好了，受益匪浅！"})

			if err := view.Refresh(context.Background()); err != nil {
				t.Fatalf("Refresh 失败: %v", err)
			}
			if view.HasSubmitted() != tt.wantBlocked {
				t.Errorf("HasSubmitted() = %v, 期望 %v", view.HasSubmitted(), tt.wantBlocked)
			}
		})
	}
}

// 身份未填写时退回本地提示标记。
func TestCommentViewQuotaFallbackToMarker(t *testing.T) {
	backend := &fakeBackend{}
	view, store := newTestCommentView(backend)
	_ = store.Set(keystore.CommentedKey("blog/hello-world"), "1")

	if err := view.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh 失败: %v", err)
	}
	if !view.HasSubmitted() {
		t.Error("无身份时应依据本地标记判定已提交")
	}
}

func TestCommentViewTrySubmitSuccess(t *testing.T) {
	backend := &fakeBackend{
		comments: []*dto.Response{{ID: "c0", Content: "已有的评论"}},
	}
	view, store := newTestCommentView(backend)
	view.SetForm(CommentForm{Nickname: "鱼鱼", Email: "yu@example.com", Content: "这篇文章的思路非常清晰。"})

	if err := view.TrySubmit(context.Background()); err != nil {
		t.Fatalf("TrySubmit 失败: %v", err)
	}

	if _, ok, _ := store.Get(keystore.CommentedKey("blog/hello-world")); !ok {
		t.Error("接受后应写入本地提示标记")
	}
	form := view.Form()
	if form.Content != "" {
		t.Errorf("接受后内容应清空, 得到 %q", form.Content)
	}
	if form.Nickname == "" || form.Email == "" {
		t.Error("接受后应保留身份字段以便配额查询")
	}
	// 新评论待审核，列表里只有此前已批准的
	if len(view.Comments()) != 1 || view.Comments()[0].ID != "c0" {
		t.Errorf("接受后列表 = %+v, 期望仅含已批准评论", view.Comments())
	}
}

func TestCommentViewTrySubmitBlocked(t *testing.T) {
	backend := &fakeBackend{quotaReached: true}
	view, _ := newTestCommentView(backend)
	view.SetForm(CommentForm{Nickname: "鱼鱼", Email: "yu@example.com", Content: "第三条评论不该被发出。"})
	_ = view.Refresh(context.Background())

	if err := view.TrySubmit(context.Background()); !errors.Is(err, constant.ErrQuotaExceeded) {
		t.Fatalf("错误 = %v, 期望 ErrQuotaExceeded", err)
	}
}

// 服务端拒绝配额时同步本地状态。
func TestCommentViewServerQuotaRejection(t *testing.T) {
	backend := &fakeBackend{commentErr: constant.ErrQuotaExceeded}
	view, store := newTestCommentView(backend)
	view.SetForm(CommentForm{Nickname: "鱼鱼", Email: "yu@example.com", Content: "本地没拦住的一条评论。"})

	if err := view.TrySubmit(context.Background()); !errors.Is(err, constant.ErrQuotaExceeded) {
		t.Fatalf("错误 = %v, 期望 ErrQuotaExceeded", err)
	}
	if !view.HasSubmitted() {
		t.Error("服务端拒绝后本地状态应同步为已达上限")
	}
	if _, ok, _ := store.Get(keystore.CommentedKey("blog/hello-world")); !ok {
		t.Error("服务端拒绝后应写入本地提示标记")
	}
}

// 校验错误原样透出，表单内容保留。
func TestCommentViewValidationErrorKeepsForm(t *testing.T) {
	backend := &fakeBackend{commentErr: constant.ErrContentTooShort}
	view, _ := newTestCommentView(backend)
	view.SetForm(CommentForm{Nickname: "鱼鱼", Email: "yu@example.com", Content: "太短"})

	if err := view.TrySubmit(context.Background()); !errors.Is(err, constant.ErrContentTooShort) {
		t.Fatalf("错误 = %v, 期望 ErrContentTooShort", err)
	}
	if view.Form().Content != "太短" {
		t.Error("校验失败后表单内容应保留")
	}
	if view.HasSubmitted() {
		t.Error("校验失败不应标记为已提交")
	}
}
