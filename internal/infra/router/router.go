/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-11-21 11:30:55
 * @LastEditTime: 2026-03-16 19:45:37
 * @LastEditors: 安知鱼
 */
// anheyu-engage/internal/infra/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anheyu-engage/internal/app/middleware"
	comment_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment"
	content_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/content"
	public_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/public"
	rating_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/rating"
	setting_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/setting"
	statistics_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/statistics"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		// 🚫 强制禁用所有形式的缓存
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")

		c.Next()
	})
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	publicHandler     *public_handler.PublicHandler
	settingHandler    *setting_handler.SettingHandler
	contentHandler    *content_handler.Handler
	ratingHandler     *rating_handler.Handler
	commentHandler    *comment_handler.Handler
	statisticsHandler *statistics_handler.Handler
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	publicHandler *public_handler.PublicHandler,
	settingHandler *setting_handler.SettingHandler,
	contentHandler *content_handler.Handler,
	ratingHandler *rating_handler.Handler,
	commentHandler *comment_handler.Handler,
	statisticsHandler *statistics_handler.Handler,
) *Router {
	return &Router{
		publicHandler:     publicHandler,
		settingHandler:    settingHandler,
		contentHandler:    contentHandler,
		ratingHandler:     ratingHandler,
		commentHandler:    commentHandler,
		statisticsHandler: statisticsHandler,
	}
}

// Setup 注册应用的全部路由。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())

	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerPublicRoutes(apiGroup)
	r.registerCommentRoutes(apiGroup)
	r.registerRatingRoutes(apiGroup)
	r.registerStatisticsRoutes(apiGroup)
	r.registerContentRoutes(apiGroup)
	r.registerSettingRoutes(apiGroup)
}

// registerPublicRoutes 注册公开的站点级路由。
func (r *Router) registerPublicRoutes(api *gin.RouterGroup) {
	public := api.Group("/public")
	{
		public.GET("/site-config", r.publicHandler.GetSiteConfig)
		public.GET("/resolve", r.contentHandler.Resolve)
	}
}

// registerCommentRoutes 注册评论路由。
func (r *Router) registerCommentRoutes(api *gin.RouterGroup) {
	// 公开接口：提交走互动限流
	publicComments := api.Group("/public/comments")
	{
		publicComments.GET("", r.commentHandler.List)
		publicComments.GET("/quota", r.commentHandler.QuotaStatus)
		publicComments.POST("", middleware.EngageSubmitRateLimit(), r.commentHandler.Create)
	}

	// 管理接口
	adminComments := api.Group("/comments")
	{
		adminComments.GET("", r.commentHandler.AdminList)
		adminComments.PUT("/:id/status", r.commentHandler.UpdateStatus)
		adminComments.DELETE("", r.commentHandler.Delete)
	}
}

// registerRatingRoutes 注册评分路由。
func (r *Router) registerRatingRoutes(api *gin.RouterGroup) {
	publicRatings := api.Group("/public/ratings")
	{
		// 内容 ID 含 '/'，评分查询走查询参数而不是路径段
		publicRatings.GET("", r.ratingHandler.Get)
		publicRatings.GET("/status", r.ratingHandler.HasRated)
		publicRatings.POST("", middleware.EngageSubmitRateLimit(), r.ratingHandler.Submit)
	}
}

// registerStatisticsRoutes 注册访问统计路由。
func (r *Router) registerStatisticsRoutes(api *gin.RouterGroup) {
	publicStats := api.Group("/public")
	{
		publicStats.POST("/visit", middleware.EngageSubmitRateLimit(), r.statisticsHandler.RecordVisit)
		publicStats.GET("/statistics/basic", r.statisticsHandler.GetBasicStatistics)
		publicStats.GET("/statistics/content", r.statisticsHandler.GetContentStat)
	}

	adminStats := api.Group("/statistics")
	{
		adminStats.GET("/top", r.statisticsHandler.GetTopContents)
	}
}

// registerContentRoutes 注册内容实体管理路由。
func (r *Router) registerContentRoutes(api *gin.RouterGroup) {
	contents := api.Group("/contents")
	{
		contents.POST("", r.contentHandler.Upsert)
		// 内容 ID 含 '/'，用通配段接收
		contents.DELETE("/*id", r.contentHandler.Delete)
	}
}

// registerSettingRoutes 注册站点配置管理路由。
func (r *Router) registerSettingRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.POST("/get", r.settingHandler.GetSettingsByKeys)
		settings.POST("/update", r.settingHandler.UpdateSettings)
	}
}
