/*
 * @Description: 站点配置管理接口
 * @Author: 安知鱼
 * @Date: 2025-11-21 12:26:45
 * @LastEditTime: 2026-03-16 18:05:12
 * @LastEditors: 安知鱼
 */
package setting_handler

import (
	"net/http"

	"github.com/anzhiyu-c/anheyu-engage/pkg/response"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/setting"

	"github.com/gin-gonic/gin"
)

// SettingHandler 封装了站点配置相关的控制器方法
type SettingHandler struct {
	settingSvc setting.SettingService
}

// NewSettingHandler 是 SettingHandler 的构造函数
func NewSettingHandler(settingSvc setting.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// getRequest 按键名批量读取配置的请求体。
type getRequest struct {
	Keys []string `json:"keys" binding:"required,min=1"`
}

// updateRequest 批量更新配置的请求体。
type updateRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}

// GetSettingsByKeys
// @Summary      按键名获取配置
// @Tags         设置管理
// @Accept       json
// @Produce      json
// @Router       /settings/get [post]
func (h *SettingHandler) GetSettingsByKeys(c *gin.Context) {
	var req getRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	result := make(map[string]string, len(req.Keys))
	for _, key := range req.Keys {
		result[key] = h.settingSvc.Get(key)
	}
	response.Success(c, result, "获取成功")
}

// UpdateSettings
// @Summary      批量更新配置
// @Tags         设置管理
// @Accept       json
// @Produce      json
// @Router       /settings/update [post]
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	for key, value := range req.Settings {
		if err := h.settingSvc.UpdateSetting(c.Request.Context(), key, value); err != nil {
			response.FailWithError(c, err)
			return
		}
	}
	response.Success(c, nil, "更新成功")
}
