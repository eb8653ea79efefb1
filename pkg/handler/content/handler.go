// pkg/handler/content/handler.go
package content

import (
	"net/http"
	"strings"

	"github.com/anzhiyu-c/anheyu-engage/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/content"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/resolver"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	resolverSvc   *resolver.Service
	collectionSvc *content.CollectionService
}

func NewHandler(resolverSvc *resolver.Service, collectionSvc *content.CollectionService) *Handler {
	return &Handler{resolverSvc: resolverSvc, collectionSvc: collectionSvc}
}

// resolveResponse 解析结果：命中实体或重定向指令，二选一。
type resolveResponse struct {
	Entity   *model.ContentEntity  `json:"entity,omitempty"`
	Redirect string                `json:"redirect,omitempty"`
	Related  []model.ContentEntity `json:"related,omitempty"`
}

// Resolve
// @Summary      解析内容路由
// @Description  把路由段 (prefix, slug) 解析为内容实体；未命中时返回重定向指令而不是 404
// @Tags         公开内容
// @Produce      json
// @Router       /public/resolve [get]
func (h *Handler) Resolve(c *gin.Context) {
	prefix := c.Query("prefix")
	slug := c.Query("slug")
	if slug == "" {
		response.Fail(c, http.StatusBadRequest, "slug 不能为空")
		return
	}

	if !h.resolverSvc.Ready() {
		response.Fail(c, http.StatusServiceUnavailable, "内容集合尚未加载完成")
		return
	}

	outcome := h.resolverSvc.ResolveRoute(prefix, slug)
	resp := resolveResponse{Entity: outcome.Entity, Redirect: outcome.Redirect}
	if outcome.Entity != nil {
		resp.Related = h.resolverSvc.RelatedTo(outcome.Entity)
	}
	response.Success(c, resp, "解析完成")
}

// upsertRequest 内容实体登记请求体。
type upsertRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

// Upsert
// @Summary      登记内容实体
// @Tags         内容管理
// @Accept       json
// @Router       /contents [post]
func (h *Handler) Upsert(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	entity := &model.ContentEntity{
		ID:          req.ID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Cover:       req.Cover,
	}
	if err := h.collectionSvc.Upsert(c.Request.Context(), entity); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, entity, "登记成功")
}

// Delete
// @Summary      删除内容实体
// @Tags         内容管理
// @Router       /contents/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	// 内容 ID 含路径分隔符（blog/<slug>），路由上用通配段接收
	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID不能为空")
		return
	}
	if err := h.collectionSvc.Delete(c.Request.Context(), id); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}
