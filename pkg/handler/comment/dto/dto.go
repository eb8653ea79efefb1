// pkg/handler/comment/dto/dto.go
package dto

import "time"

// CreateRequest 评论提交请求体。
type CreateRequest struct {
	PostID   string `json:"post_id" binding:"required"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Content  string `json:"content"`
}

// Response 单条评论的 API 响应。邮箱原文不外露，仅给出头像地址。
type Response struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse 评论列表的分页响应。
type ListResponse struct {
	List     []*Response `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// AdminListRequest 后台评论列表的查询参数。
type AdminListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=10"`
	PostID   string `form:"post_id"`
	Email    string `form:"email"`
	Status   *int   `form:"status"`
}

// UpdateStatusRequest 审核状态变更请求体。
type UpdateStatusRequest struct {
	Status int `json:"status" binding:"required,oneof=1 2"`
}

// DeleteRequest 批量删除请求体。
type DeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// QuotaStatusResponse 某身份在某内容下的配额状态。
type QuotaStatusResponse struct {
	PostID       string `json:"post_id"`
	HasSubmitted bool   `json:"has_submitted"`
}
