/*
 * @Description: 评分视图模型：悬停预览、乐观更新与失败回滚
 * @Author: 安知鱼
 * @Date: 2025-11-22 10:40:18
 * @LastEditTime: 2026-03-16 14:22:51
 * @LastEditors: 安知鱼
 */
package engage

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/keystore"

	"errors"
)

// RatingState 是评分控件的交互状态。
// 合法迁移：idle ↔ hovering；idle/hovering → submitting → committed 或回到 idle。
// committed 是终态，不再接受提交。
type RatingState int

const (
	StateIdle       RatingState = iota // 未交互，展示已有评分或 0
	StateHovering                      // 指针悬停在某个值上，仅预览
	StateSubmitting                    // 提交进行中，拒绝并发提交
	StateCommitted                     // 本档案已提交过，终态
)

func (s RatingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateSubmitting:
		return "submitting"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// RatingView 是单个内容的评分视图模型。
//
// 服务端聚合是唯一权威；视图在提交期间展示乐观投影
// newAvg = (avg*n+v)/(n+1)，失败时整体回滚。一次性标记存于
// 持久键值库（键 rating_<postId>），仅提交成功后写入，
// 失败不写标记，下次仍可重试。
type RatingView struct {
	backend Backend
	store   keystore.KeyStore
	postID  string

	mu         sync.Mutex
	state      RatingState
	hoverValue int     // 仅 hovering 态有效
	userValue  int     // 本档案提交（或正在提交）的值
	average    float64 // 当前展示的均值（可能是乐观投影）
	count      int64   // 当前展示的计数（可能是乐观投影）
}

// NewRatingView 创建评分视图。store 必须是持久级存储，
// 标记需要跨页面加载存活。
func NewRatingView(backend Backend, store keystore.KeyStore, postID string) *RatingView {
	return &RatingView{
		backend: backend,
		store:   store,
		postID:  postID,
		state:   StateIdle,
	}
}

// Refresh 拉取权威快照并恢复本地标记状态。
// 标记存在时直接进入 committed，提交入口关闭。
func (v *RatingView) Refresh(ctx context.Context) error {
	snap, err := v.backend.GetRating(ctx, v.postID)
	if err != nil {
		return fmt.Errorf("获取评分失败: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.average = snap.Average
	v.count = snap.Count

	if marker, ok, err := v.store.Get(keystore.RatingKey(v.postID)); err == nil && ok {
		v.state = StateCommitted
		if val, convErr := strconv.Atoi(marker); convErr == nil {
			v.userValue = val
		}
	}
	return nil
}

// Hover 进入悬停预览。已提交或提交中时悬停不改变展示。
func (v *RatingView) Hover(value int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateIdle && v.state != StateHovering {
		return
	}
	if !model.IsValidRatingValue(value) {
		return
	}
	v.state = StateHovering
	v.hoverValue = value
}

// Leave 结束悬停，回到 idle 展示。
func (v *RatingView) Leave() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateHovering {
		v.state = StateIdle
		v.hoverValue = 0
	}
}

// Display 返回星块高亮值，优先级：悬停预览 > 本档案贡献 > 0。
func (v *RatingView) Display() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateHovering {
		return v.hoverValue
	}
	if v.userValue > 0 {
		return v.userValue
	}
	return 0
}

// Snapshot 返回当前展示的聚合值（提交期间为乐观投影）。
func (v *RatingView) Snapshot() model.RatingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return model.RatingSnapshot{Average: v.average, Count: v.count}
}

// State 返回当前交互状态。
func (v *RatingView) State() RatingState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Submit 提交一次评分。
//
// 拒绝条件（依次检查）：本地标记已存在 → ErrAlreadyRated；
// 提交进行中 → ErrSubmitInFlight；已是 committed → ErrAlreadyRated；
// 值越界 → ErrBadRequest。通过后先应用乐观投影再调用服务端：
// 成功则写入标记、以权威快照覆盖投影并进入 committed；
// 失败则回滚 (average, count, userValue) 且不写标记。
// 服务端返回 ErrAlreadyRated 视为权威事实，补写标记并进入 committed。
func (v *RatingView) Submit(ctx context.Context, value int, identity model.Identity) error {
	v.mu.Lock()

	if _, ok, err := v.store.Get(keystore.RatingKey(v.postID)); err == nil && ok {
		v.state = StateCommitted
		v.mu.Unlock()
		return constant.ErrAlreadyRated
	}
	if v.state == StateSubmitting {
		v.mu.Unlock()
		return constant.ErrSubmitInFlight
	}
	if v.state == StateCommitted {
		v.mu.Unlock()
		return constant.ErrAlreadyRated
	}
	if !model.IsValidRatingValue(value) {
		v.mu.Unlock()
		return fmt.Errorf("%w: 评分值必须在 %d 到 %d 之间", constant.ErrBadRequest, model.RatingMin, model.RatingMax)
	}

	// 乐观投影，保留旧值用于回滚
	prevAverage, prevCount, prevUserValue := v.average, v.count, v.userValue
	v.average = (v.average*float64(v.count) + float64(value)) / float64(v.count+1)
	v.count = prevCount + 1
	v.userValue = value
	v.state = StateSubmitting
	v.hoverValue = 0
	v.mu.Unlock()

	snap, err := v.backend.SubmitRating(ctx, v.postID, value, identity)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		if errors.Is(err, constant.ErrAlreadyRated) {
			// 服务端判定重复：本地标记缺失但事实成立，补齐标记
			v.average, v.count = prevAverage, prevCount
			v.userValue = value
			v.state = StateCommitted
			v.store.Set(keystore.RatingKey(v.postID), strconv.Itoa(value))
			return constant.ErrAlreadyRated
		}
		// 失败全量回滚，不写标记，允许重试
		v.average, v.count, v.userValue = prevAverage, prevCount, prevUserValue
		v.state = StateIdle
		return fmt.Errorf("提交评分失败: %w", err)
	}

	// 权威快照覆盖乐观投影
	v.average = snap.Average
	v.count = snap.Count
	v.userValue = value
	v.state = StateCommitted
	if err := v.store.Set(keystore.RatingKey(v.postID), strconv.Itoa(value)); err != nil {
		// 标记写失败不影响本次提交结果，服务端唯一索引仍会挡住重复
		return nil
	}
	return nil
}
