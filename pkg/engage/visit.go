/*
 * @Description: 访问上报器：会话内去重与单飞合并
 * @Author: 安知鱼
 * @Date: 2025-11-22 14:02:09
 * @LastEditTime: 2026-03-16 16:30:45
 * @LastEditors: 安知鱼
 */
package engage

import (
	"context"
	"sync"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/keystore"
)

// trackAttempt 是一次进行中的上报，后到的并发调用挂在它上面等结果。
type trackAttempt struct {
	done   chan struct{}
	result model.TrackResult
}

// Tracker 保证同一内容在一次会话内至多真实上报一次。
//
// 去重标记 visit_tracked_<contentId> 存于会话级存储，仅在上报成功后
// 写入；失败不写标记，下一次调用可以重试。同一内容的并发调用合并为
// 一次请求（单飞），后到者共享先到者的结果。
type Tracker struct {
	backend   Backend
	session   *keystore.SessionStore
	visitorID string

	mu       sync.Mutex
	inflight map[string]*trackAttempt
}

// NewTracker 创建访问上报器。visitorID 在会话内稳定，服务端用它做当日去重。
func NewTracker(backend Backend, session *keystore.SessionStore, visitorID string) *Tracker {
	return &Tracker{
		backend:   backend,
		session:   session,
		visitorID: visitorID,
		inflight:  make(map[string]*trackAttempt),
	}
}

// TrackOnce 为指定内容上报一次访问。
//
// 结果语义：TrackOK 表示本次调用完成了真实写入；TrackAlreadyTracked
// 表示会话内已记录（含并发合并到一次成功写入的情况）；TrackFailed
// 表示写入失败且标记未设置，调用方可在下次进入页面时重试。
func (t *Tracker) TrackOnce(ctx context.Context, contentID string) model.TrackResult {
	if contentID == "" {
		return model.TrackResult{Outcome: model.TrackFailed, Reason: "内容ID不能为空"}
	}

	markerKey := keystore.VisitKey(contentID)
	if _, ok, err := t.session.Get(markerKey); err == nil && ok {
		return model.TrackResult{Outcome: model.TrackAlreadyTracked}
	}

	t.mu.Lock()
	if attempt, ok := t.inflight[contentID]; ok {
		// 合并到进行中的上报
		t.mu.Unlock()
		<-attempt.done
		if attempt.result.Outcome == model.TrackOK {
			return model.TrackResult{Outcome: model.TrackAlreadyTracked}
		}
		return attempt.result
	}
	attempt := &trackAttempt{done: make(chan struct{})}
	t.inflight[contentID] = attempt
	t.mu.Unlock()

	attempt.result = t.doTrack(ctx, contentID, markerKey)

	t.mu.Lock()
	delete(t.inflight, contentID)
	t.mu.Unlock()
	close(attempt.done)

	return attempt.result
}

func (t *Tracker) doTrack(ctx context.Context, contentID, markerKey string) model.TrackResult {
	// 进行中的其他调用已合并到本次，这里再做一次标记抢占，
	// 防止上一次成功与本次检查之间的竞争造成双写
	if set, err := t.session.SetIfAbsent(markerKey, "pending"); err == nil && !set {
		return model.TrackResult{Outcome: model.TrackAlreadyTracked}
	}

	if err := t.backend.TrackVisit(ctx, contentID, t.visitorID); err != nil {
		// 失败回收标记，保留重试机会
		t.session.Delete(markerKey)
		return model.TrackResult{Outcome: model.TrackFailed, Reason: err.Error()}
	}

	t.session.Set(markerKey, "1")
	return model.TrackResult{Outcome: model.TrackOK}
}

// EndSession 结束会话，清空全部去重标记。
func (t *Tracker) EndSession() {
	t.session.EndSession()
}
