// pkg/handler/comment/handler.go
package comment

import (
	"net/http"
	"strconv"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment/dto"
	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/comment"
	"github.com/anzhiyu-c/anheyu-engage/pkg/util"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *comment.Service
}

func NewHandler(svc *comment.Service) *Handler {
	return &Handler{svc: svc}
}

// Create
// @Summary      提交评论
// @Description  提交一条新评论，进入待审核队列
// @Tags         公开评论
// @Accept       json
// @Produce      json
// @Router       /public/comments [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	ip := util.GetRealClientIP(c)
	result, err := h.svc.Create(c.Request.Context(), &req, ip)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "评论提交成功，将在审核通过后展示")
}

// List
// @Summary      获取评论列表
// @Description  分页获取指定内容下已批准的评论
// @Tags         公开评论
// @Produce      json
// @Router       /public/comments [get]
func (h *Handler) List(c *gin.Context) {
	postID := c.Query("post_id")
	if postID == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID不能为空")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	result, err := h.svc.ListApproved(c.Request.Context(), postID, page, pageSize)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "获取成功")
}

// QuotaStatus
// @Summary      查询评论配额状态
// @Description  查询某身份在指定内容下是否已达评论上限
// @Tags         公开评论
// @Produce      json
// @Router       /public/comments/quota [get]
func (h *Handler) QuotaStatus(c *gin.Context) {
	postID := c.Query("post_id")
	email := c.Query("email")
	if postID == "" || email == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID和邮箱不能为空")
		return
	}

	reached, err := h.svc.HasReachedQuota(c.Request.Context(), postID, model.Identity{Email: email})
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, dto.QuotaStatusResponse{PostID: postID, HasSubmitted: reached}, "获取成功")
}

// AdminList
// @Summary      后台评论列表
// @Tags         评论管理
// @Produce      json
// @Router       /comments [get]
func (h *Handler) AdminList(c *gin.Context) {
	var req dto.AdminListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.svc.AdminList(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "获取成功")
}

// UpdateStatus
// @Summary      审核评论
// @Tags         评论管理
// @Accept       json
// @Router       /comments/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), model.Status(req.Status)); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "操作成功")
}

// Delete
// @Summary      批量删除评论
// @Tags         评论管理
// @Accept       json
// @Router       /comments [delete]
func (h *Handler) Delete(c *gin.Context) {
	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), req.IDs)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted}, "删除成功")
}
