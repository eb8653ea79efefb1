// pkg/handler/rating/handler.go
package rating

import (
	"net/http"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/rating"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *rating.Service
}

func NewHandler(svc *rating.Service) *Handler {
	return &Handler{svc: svc}
}

// submitRequest 评分提交请求体。
type submitRequest struct {
	PostID   string `json:"post_id" binding:"required"`
	Value    int    `json:"value" binding:"required"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" binding:"required"`
}

// ratingResponse 评分快照响应。
type ratingResponse struct {
	PostID  string  `json:"post_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Get
// @Summary      获取评分快照
// @Description  返回指定内容的平均分与评分人数，无评分时为 0
// @Tags         公开评分
// @Produce      json
// @Router       /public/ratings [get]
func (h *Handler) Get(c *gin.Context) {
	postID := c.Query("post_id")
	if postID == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID不能为空")
		return
	}

	snap, err := h.svc.Get(c.Request.Context(), postID)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, ratingResponse{PostID: postID, Average: snap.Average, Count: snap.Count}, "获取成功")
}

// Submit
// @Summary      提交评分
// @Description  对指定内容提交一次 1-5 的评分，同一身份只能提交一次
// @Tags         公开评分
// @Accept       json
// @Produce      json
// @Router       /public/ratings [post]
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	identity := model.Identity{Nickname: req.Nickname, Email: req.Email}
	snap, err := h.svc.Submit(c.Request.Context(), req.PostID, req.Value, identity)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, ratingResponse{PostID: req.PostID, Average: snap.Average, Count: snap.Count}, "评分成功")
}

// HasRated
// @Summary      查询是否已评分
// @Tags         公开评分
// @Produce      json
// @Router       /public/ratings/status [get]
func (h *Handler) HasRated(c *gin.Context) {
	postID := c.Query("post_id")
	email := c.Query("email")
	if postID == "" || email == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID和邮箱不能为空")
		return
	}

	rated, err := h.svc.HasRated(c.Request.Context(), postID, model.Identity{Email: email})
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, gin.H{"post_id": postID, "has_rated": rated}, "获取成功")
}
