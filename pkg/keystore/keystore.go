/*
 * @Description: 客户端本地键值库，跨页面加载记忆"本浏览器档案已评分/已评论/已访问"
 * @Author: 安知鱼
 * @Date: 2025-11-11 09:48:21
 * @LastEditTime: 2026-03-14 16:55:02
 * @LastEditors: 安知鱼
 */
package keystore

import "fmt"

// KeyStore 是一个带命名空间的键值存储。
// 持久实现（BadgerStore）在重启后仍然保留数据，对应浏览器的持久本地存储；
// 会话实现（SessionStore）只在一次会话内有效，会话结束即清空。
type KeyStore interface {
	// Get 读取键值。键不存在时 ok 为 false，不视为错误。
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// RatingKey 返回评分一次性标记的键。
// 标记存在即表示本浏览器档案已对该内容提交过评分。
func RatingKey(postID string) string {
	return fmt.Sprintf("rating_%s", postID)
}

// CommentedKey 返回评论一次性标记的键。
// 该标记仅作为本地写穿提示，配额判定以服务端计数为准。
func CommentedKey(postID string) string {
	return fmt.Sprintf("commented_%s", postID)
}

// VisitKey 返回会话内访问去重标记的键，存于会话级存储。
func VisitKey(contentID string) string {
	return fmt.Sprintf("visit_tracked_%s", contentID)
}
