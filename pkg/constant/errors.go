/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-08 14:21:30
 * @LastEditTime: 2026-02-11 19:40:12
 * @LastEditors: 安知鱼
 */
package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrUnknownRouteKind 表示路由前缀无法识别为任何内容类型。
	// 这是一个重定向信号而非应用错误，不应被记录为错误日志。
	ErrUnknownRouteKind = errors.New("无法识别的内容路由类型")

	// ErrAlreadyRated 表示该身份已对此内容评过分（或正有一次提交在途）
	ErrAlreadyRated = errors.New("您已经评过分了")

	// ErrQuotaExceeded 表示该身份在此内容下的评论数已达上限
	ErrQuotaExceeded = errors.New("您在本篇内容下的评论数已达上限")

	// ErrSubmitInFlight 表示同一控件的上一次提交尚未结束
	ErrSubmitInFlight = errors.New("上一次提交尚未完成，请稍候")

	// ErrInvalidPublicID 表示无效的公共ID，可以由 Handler 转换为 400
	ErrInvalidPublicID = errors.New("无效的公共ID")

	// ErrCommentRateLimited 表示评论提交触发了频率限制
	ErrCommentRateLimited = errors.New("您的评论太频繁了，请稍后再试")
)

// 评论表单校验错误。校验在任何网络交互之前完成，按顺序短路，
// 每个失败对应一条独立的用户可见提示。
var (
	ErrFieldsMissing   = errors.New("请填写所有字段")
	ErrEmailInvalid    = errors.New("邮箱格式不正确")
	ErrContentTooShort = errors.New("评论内容过短")
	ErrContentTooLong  = errors.New("评论内容过长")
)
