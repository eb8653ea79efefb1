/*
 * @Description: 公开站点配置接口
 * @Author: 安知鱼
 * @Date: 2025-11-21 11:30:55
 * @LastEditTime: 2026-03-16 18:02:41
 * @LastEditors: 安知鱼
 */
package public_handler

import (
	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/setting"

	"github.com/gin-gonic/gin"
)

// PublicHandler 封装了公开接口的控制器方法
type PublicHandler struct {
	settingSvc setting.SettingService
}

// NewPublicHandler 是 PublicHandler 的构造函数
func NewPublicHandler(settingSvc setting.SettingService) *PublicHandler {
	return &PublicHandler{settingSvc: settingSvc}
}

// GetSiteConfig
// @Summary      获取站点配置
// @Description  获取标记为公开的站点配置子集（站点名称、评论开关等）
// @Tags         公共接口
// @Produce      json
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /public/site-config [get]
func (h *PublicHandler) GetSiteConfig(c *gin.Context) {
	response.Success(c, h.settingSvc.GetSiteConfig(), "获取成功")
}
