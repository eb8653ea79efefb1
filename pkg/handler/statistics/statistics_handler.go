/*
 * @Description: 访问统计处理器
 * @Author: 安知鱼
 * @Date: 2025-11-20 16:00:00
 * @LastEditTime: 2026-03-15 21:40:10
 * @LastEditors: 安知鱼
 */
package statistics

import (
	"net/http"
	"strconv"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"
	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/setting"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/statistics"
	"github.com/anzhiyu-c/anheyu-engage/pkg/util"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc        statistics.VisitorStatService
	settingSvc setting.SettingService
}

func NewHandler(svc statistics.VisitorStatService, settingSvc setting.SettingService) *Handler {
	return &Handler{svc: svc, settingSvc: settingSvc}
}

// visitRequestBody 访问上报请求体。
type visitRequestBody struct {
	ContentID string `json:"content_id" binding:"required"`
	VisitorID string `json:"visitor_id"`
	Referer   string `json:"referer"`
}

// RecordVisit
// @Summary      上报访问
// @Description  记录一次内容访问。会话内去重由客户端完成，服务端负责落库。
// @Tags         公开统计
// @Accept       json
// @Produce      json
// @Router       /public/visit [post]
func (h *Handler) RecordVisit(c *gin.Context) {
	if !h.settingSvc.GetBool(constant.KeyEnableVisitTracking.String()) {
		response.Success(c, gin.H{"tracked": false}, "访问统计未开启")
		return
	}

	var body visitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	req := &statistics.VisitRequest{
		ContentID: body.ContentID,
		VisitorID: body.VisitorID,
		IPAddress: util.GetRealClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   body.Referer,
	}
	if err := h.svc.RecordVisit(c.Request.Context(), req); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, gin.H{"tracked": true}, "记录成功")
}

// GetBasicStatistics
// @Summary      获取站点统计摘要
// @Tags         公开统计
// @Produce      json
// @Router       /public/statistics/basic [get]
func (h *Handler) GetBasicStatistics(c *gin.Context) {
	stats, err := h.svc.GetBasicStatistics(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, stats, "获取成功")
}

// GetContentStat
// @Summary      获取单内容访问计数
// @Tags         公开统计
// @Produce      json
// @Router       /public/statistics/content [get]
func (h *Handler) GetContentStat(c *gin.Context) {
	contentID := c.Query("content_id")
	if contentID == "" {
		response.Fail(c, http.StatusBadRequest, "内容ID不能为空")
		return
	}

	stat, err := h.svc.GetContentStat(c.Request.Context(), contentID)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, stat, "获取成功")
}

// GetTopContents
// @Summary      获取热门内容
// @Tags         统计管理
// @Produce      json
// @Router       /statistics/top [get]
func (h *Handler) GetTopContents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := h.svc.GetTopContents(c.Request.Context(), limit)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, list, "获取成功")
}
