/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-09 12:40:11
 * @LastEditTime: 2026-01-28 18:33:40
 * @LastEditors: 安知鱼
 */
package response

import (
	"errors"
	"net/http"

	"github.com/anzhiyu-c/anheyu-engage/pkg/constant"

	"github.com/gin-gonic/gin"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// FailWithError 按业务错误类型映射 HTTP 状态码后返回失败响应。
// 策略拒绝（已评分/配额已满）返回 409，校验错误返回 400，其余 500。
func FailWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, constant.ErrAlreadyRated),
		errors.Is(err, constant.ErrQuotaExceeded),
		errors.Is(err, constant.ErrSubmitInFlight):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, constant.ErrCommentRateLimited):
		Fail(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, constant.ErrFieldsMissing),
		errors.Is(err, constant.ErrEmailInvalid),
		errors.Is(err, constant.ErrContentTooShort),
		errors.Is(err, constant.ErrContentTooLong),
		errors.Is(err, constant.ErrBadRequest),
		errors.Is(err, constant.ErrInvalidPublicID):
		Fail(c, http.StatusBadRequest, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, err.Error())
	}
}
