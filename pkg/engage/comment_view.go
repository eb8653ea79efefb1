/*
 * @Description: 评论视图模型：表单状态与配额判定
 * @Author: 安知鱼
 * @Date: 2025-11-22 11:20:33
 * @LastEditTime: 2026-03-16 15:08:14
 * @LastEditors: 安知鱼
 */
package engage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/keystore"
)

// CommentForm 是评论表单的三个输入字段。
type CommentForm struct {
	Nickname string
	Email    string
	Content  string
}

// CommentView 是单个内容的评论区视图模型。
//
// "已达上限"以服务端计数为唯一事实来源：Refresh 时向服务端查询
// 该身份的配额状态，本地 commented_<postId> 标记只是写穿提示，
// 用于身份未填写时的首屏展示，不参与最终判定。
type CommentView struct {
	backend Backend
	store   keystore.KeyStore
	postID  string

	mu           sync.Mutex
	form         CommentForm
	hasSubmitted bool
	comments     []*dto.Response
	total        int64
}

// NewCommentView 创建评论视图。
func NewCommentView(backend Backend, store keystore.KeyStore, postID string) *CommentView {
	return &CommentView{
		backend: backend,
		store:   store,
		postID:  postID,
	}
}

// SetForm 更新表单字段。
func (v *CommentView) SetForm(form CommentForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = form
}

// Form 返回表单当前内容。
func (v *CommentView) Form() CommentForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// Refresh 拉取已批准的评论并重算配额状态。
// 表单里有邮箱时以服务端计数为准；没有时退回本地提示标记。
func (v *CommentView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	email := v.form.Email
	v.mu.Unlock()

	list, err := v.backend.ListComments(ctx, v.postID, 1, 0)
	if err != nil {
		return fmt.Errorf("获取评论列表失败: %w", err)
	}

	submitted := false
	if email != "" {
		reached, err := v.backend.CommentQuotaReached(ctx, v.postID, model.Identity{Email: email})
		if err != nil {
			return fmt.Errorf("查询评论配额失败: %w", err)
		}
		submitted = reached
	} else if _, ok, err := v.store.Get(keystore.CommentedKey(v.postID)); err == nil && ok {
		submitted = true
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.comments = list.List
	v.total = list.Total
	v.hasSubmitted = submitted
	return nil
}

// HasSubmitted 返回该身份是否已达评论上限（表单应否禁用）。
func (v *CommentView) HasSubmitted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasSubmitted
}

// Comments 返回当前已加载的已批准评论。
func (v *CommentView) Comments() []*dto.Response {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.comments
}

// Total 返回已批准评论总数。
func (v *CommentView) Total() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.total
}

// TrySubmit 提交当前表单。
//
// 已达上限直接拒绝，不发请求。服务端接受后：写本地提示标记、
// 清空表单、重拉评论列表（新评论待审核，不会出现在列表里）
// 并重算配额状态。校验失败的错误原样返回给表单展示。
func (v *CommentView) TrySubmit(ctx context.Context) error {
	v.mu.Lock()
	if v.hasSubmitted {
		v.mu.Unlock()
		return constant.ErrQuotaExceeded
	}
	req := &dto.CreateRequest{
		PostID:   v.postID,
		Nickname: v.form.Nickname,
		Email:    v.form.Email,
		Content:  v.form.Content,
	}
	v.mu.Unlock()

	if _, err := v.backend.SubmitComment(ctx, req); err != nil {
		if errors.Is(err, constant.ErrQuotaExceeded) {
			// 服务端判定已满：同步本地状态，表单禁用
			v.mu.Lock()
			v.hasSubmitted = true
			v.mu.Unlock()
			v.store.Set(keystore.CommentedKey(v.postID), "1")
		}
		return err
	}

	v.store.Set(keystore.CommentedKey(v.postID), "1")

	v.mu.Lock()
	v.form = CommentForm{Nickname: v.form.Nickname, Email: v.form.Email}
	v.mu.Unlock()

	return v.Refresh(ctx)
}
