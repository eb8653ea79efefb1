/*
 * @Description: 应用装配：依赖注入与生命周期管理
 * @Author: 安知鱼
 * @Date: 2025-11-21 20:10:33
 * @LastEditTime: 2026-03-16 20:55:08
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/anheyu-engage/internal/app/bootstrap"
	"github.com/anzhiyu-c/anheyu-engage/internal/app/task"
	"github.com/anzhiyu-c/anheyu-engage/internal/infra/persistence/database"
	gormpersist "github.com/anzhiyu-c/anheyu-engage/internal/infra/persistence/gorm"
	"github.com/anzhiyu-c/anheyu-engage/internal/infra/router"
	"github.com/anzhiyu-c/anheyu-engage/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-engage/pkg/config"
	"github.com/anzhiyu-c/anheyu-engage/pkg/engage"
	comment_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/comment"
	content_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/content"
	public_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/public"
	rating_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/rating"
	setting_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/setting"
	statistics_handler "github.com/anzhiyu-c/anheyu-engage/pkg/handler/statistics"
	"github.com/anzhiyu-c/anheyu-engage/pkg/keystore"
	comment_service "github.com/anzhiyu-c/anheyu-engage/pkg/service/comment"
	content_service "github.com/anzhiyu-c/anheyu-engage/pkg/service/content"
	rating_service "github.com/anzhiyu-c/anheyu-engage/pkg/service/rating"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/resolver"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/setting"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/statistics"
	"github.com/anzhiyu-c/anheyu-engage/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	scheduler  *task.Scheduler
	eventBus   *event.EventBus
	cacheSvc   utility.CacheService
	settingSvc setting.SettingService

	contentSvc *content_service.CollectionService
	resolver   *resolver.Service
	backend    *engage.ServiceBackend
	localStore *keystore.BadgerStore
}

func (a *App) PrintBanner() {
	banner := `

       █████╗ ███╗   ██╗  ███████╗███╗   ██╗ ██████╗  █████╗  ██████╗ ███████╗
      ██╔══██╗████╗  ██║  ██╔════╝████╗  ██║██╔════╝ ██╔══██╗██╔════╝ ██╔════╝
      ███████║██╔██╗ ██║  █████╗  ██╔██╗ ██║██║  ███╗███████║██║  ███╗█████╗
      ██╔══██║██║╚██╗██║  ██╔══╝  ██║╚██╗██║██║   ██║██╔══██║██║   ██║██╔══╝
      ██║  ██║██║ ╚████║  ███████╗██║ ╚████║╚██████╔╝██║  ██║╚██████╔╝███████╗
      ╚═╝  ╚═╝╚═╝  ╚═══╝  ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Println(" Anheyu Engage - 互动状态协调服务")
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	ctx := context.Background()

	// 1. 配置
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// 2. 基础设施：数据库、Redis（可缺省）、缓存、事件总线
	db, err := database.NewGormDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ 警告: Redis 连接失败，将使用内存缓存降级运行: %v", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	eventBus := event.NewEventBus()

	// 3. 仓储层
	settingRepo := gormpersist.NewSettingRepo(db)
	ratingRepo := gormpersist.NewRatingRepo(db)
	commentRepo := gormpersist.NewCommentRepo(db)
	contentRepo := gormpersist.NewContentEntityRepo(db)
	visitorLogRepo := gormpersist.NewVisitorLogRepo(db)
	visitorStatRepo := gormpersist.NewVisitorStatRepo(db)
	contentStatRepo := gormpersist.NewContentStatRepo(db)
	txManager := gormpersist.NewTransactionManager(db)

	// 4. 引导：建表、同步配置注册表、初始化公共 ID 编码器
	bootstrapper := bootstrap.NewBootstrapper(db, settingRepo)
	if err := bootstrapper.InitializeDatabase(); err != nil {
		return nil, nil, fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 5. 服务层
	settingSvc := setting.NewSettingService(settingRepo, eventBus)
	if err := settingSvc.LoadAllSettings(ctx); err != nil {
		log.Printf("⚠️ 警告: 加载站点配置失败，使用默认值: %v", err)
	}

	contentSvc := content_service.NewCollectionService(contentRepo, eventBus)
	if err := contentSvc.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("加载内容集合失败: %w", err)
	}
	resolverSvc := resolver.NewService(contentSvc)

	ratingSvc := rating_service.NewService(ratingRepo, cacheSvc, eventBus)
	commentSvc := comment_service.NewService(commentRepo, txManager, settingSvc, cacheSvc, eventBus)
	statSvc := statistics.NewVisitorStatService(visitorLogRepo, visitorStatRepo, contentStatRepo, cacheSvc, eventBus)

	// 6. 客户端视图层的本地键值库与进程内后端
	localStore, err := keystore.NewBadgerStore(cfg.GetString(config.KeyKeystoreDir))
	if err != nil {
		return nil, nil, fmt.Errorf("打开本地键值库失败: %w", err)
	}
	backend := engage.NewServiceBackend(ratingSvc, commentSvc, statSvc)

	// 7. 处理器与路由
	publicHandler := public_handler.NewPublicHandler(settingSvc)
	settingHandler := setting_handler.NewSettingHandler(settingSvc)
	contentHandler := content_handler.NewHandler(resolverSvc, contentSvc)
	ratingHandler := rating_handler.NewHandler(ratingSvc)
	commentHandler := comment_handler.NewHandler(commentSvc)
	statisticsHandler := statistics_handler.NewHandler(statSvc, settingSvc)

	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	appRouter := router.NewRouter(publicHandler, settingHandler, contentHandler, ratingHandler, commentHandler, statisticsHandler)
	appRouter.Setup(engine)

	// 8. 定时任务
	scheduler := task.NewScheduler(statSvc)
	scheduler.RegisterJobs()
	scheduler.Start()

	app := &App{
		cfg:        cfg,
		engine:     engine,
		scheduler:  scheduler,
		eventBus:   eventBus,
		cacheSvc:   cacheSvc,
		settingSvc: settingSvc,
		contentSvc: contentSvc,
		resolver:   resolverSvc,
		backend:    backend,
		localStore: localStore,
	}

	cleanup := func() {
		if err := localStore.Close(); err != nil {
			log.Printf("警告：关闭本地键值库失败: %v", err)
		}
		eventBus.Shutdown()
	}

	return app, cleanup, nil
}

// Run 启动 HTTP 服务。
func (a *App) Run() error {
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	log.Printf("服务启动，监听端口 :%s", port)
	return a.engine.Run(":" + port)
}

// Stop 停止后台任务。
func (a *App) Stop() {
	a.scheduler.Stop()
}

// --- 供 SSR 层以库方式消费的访问器 ---

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) SettingService() setting.SettingService {
	return a.settingSvc
}

// Resolver 返回内容解析服务。
func (a *App) Resolver() *resolver.Service {
	return a.resolver
}

// EngageBackend 返回进程内后端，供构建 RatingView/CommentView/Tracker。
func (a *App) EngageBackend() *engage.ServiceBackend {
	return a.backend
}

// LocalKeyStore 返回持久本地键值库（一次性标记存储）。
func (a *App) LocalKeyStore() keystore.KeyStore {
	return a.localStore
}

// NewSession 为一次浏览会话创建会话级存储与访问上报器。
func (a *App) NewSession(visitorID string) (*keystore.SessionStore, *engage.Tracker) {
	session := keystore.NewSessionStore()
	return session, engage.NewTracker(a.backend, session, visitorID)
}
