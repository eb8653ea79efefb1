/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-09 10:02:18
 * @LastEditTime: 2026-03-02 10:17:45
 * @LastEditors: 安知鱼
 */
// pkg/domain/model/comment.go
package model

import "time"

// Status 定义了评论的状态，使用自定义类型代替魔法数字(int)，更类型安全。
type Status int

const (
	StatusApproved Status = 1 // 已批准，可对外展示
	StatusPending  Status = 2 // 待审核，新评论的初始状态
)

// 评论配额默认值：同一 (内容, 身份) 至多被接受的评论数。
const DefaultCommentQuota = 2

// Comment 是评论的核心领域模型。
// 通过 PostID（内容实体的规范 ID）与内容关联。
type Comment struct {
	ID uint // 领域内使用数据库的 uint ID 作为唯一标识

	PostID string // 评论所属内容的规范 ID，例如 "blog/my-first-post"

	// --- 评论者信息（自报身份，见 Identity 的信任边界说明）---
	Nickname string
	Email    string
	EmailMD5 string // 邮箱摘要，用于 Gravatar，非安全用途

	// --- 内容 ---
	Content string // 已经过净化的纯文本内容

	// QuotaCount 是该 (PostID, Email) 对在本条被接受时的累计评论数。
	// 配额检查读取该对上最近一条记录的值。
	QuotaCount int

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsApproved 检查评论是否已批准展示。
func (c *Comment) IsApproved() bool {
	return c.Status == StatusApproved
}
