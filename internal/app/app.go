// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/haierkeys/uni-task-service/internal/dao"
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/service"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/counter"
	"github.com/haierkeys/uni-task-service/pkg/geo"
	"github.com/haierkeys/uni-task-service/pkg/storage"
	"github.com/haierkeys/uni-task-service/pkg/writequeue"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	writeQueueMgr *writequeue.Manager

	// Counter backs the rate, daily and session markers
	// Counter 限流、每日计数与会话标记的存储
	Counter counter.Store
	Storage storage.Storager
	Locator geo.Locator

	// Repository 层
	UserRepo        domain.UserRepository
	CourseRepo      domain.CourseRepository
	TodoListRepo    domain.TodoListRepository
	TodoItemRepo    domain.TodoItemRepository
	FileRepo        domain.FileRepository
	ShareGrantRepo  domain.ShareGrantRepository
	ParticipantRepo domain.ParticipantRepository
	PresenceRepo    domain.PresenceRepository
	ActivityRepo    domain.ActivityRepository

	// Service 层
	ServiceConfig   *service.ServiceConfig
	ActivityService service.ActivityService
	AccessResolver  service.AccessResolver
	QuotaGuard      service.QuotaGuard
	PresenceService service.PresenceService
	ShareService    service.ShareService
	TodoService     service.TodoService
	FileService     service.FileService
	UserService     service.UserService

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// StartTime 容器创建时间，用于健康检查的运行时长
	StartTime time.Time

	closers    []io.Closer
	shutdownCh chan struct{}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}
	ctx := context.Background()

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db, logger)
	if cfg.Database.AutoMigrate {
		if err := a.Dao.Migrate(); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	store, err := counter.New(ctx, cfg.Counter, logger)
	if err != nil {
		return nil, fmt.Errorf("counter store: %w", err)
	}
	a.Counter = store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.Storage, err = storage.NewClient(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	if err := a.initLocator(); err != nil {
		return nil, err
	}

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 Repository 层
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.CourseRepo = dao.NewCourseRepository(a.Dao)
	a.TodoListRepo = dao.NewTodoListRepository(a.Dao)
	a.TodoItemRepo = dao.NewTodoItemRepository(a.Dao)
	a.FileRepo = dao.NewFileRepository(a.Dao)
	a.ShareGrantRepo = dao.NewShareGrantRepository(a.Dao)
	a.ParticipantRepo = dao.NewParticipantRepository(a.Dao)
	a.PresenceRepo = dao.NewPresenceRepository(a.Dao)
	a.ActivityRepo = dao.NewActivityRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()
	a.ServiceConfig = svcConfig

	// 初始化 Service 层（依赖注入）
	a.ActivityService = service.NewActivityService(a.ActivityRepo, a.UserRepo, logger, svcConfig)
	a.AccessResolver = service.NewAccessResolver(a.ShareGrantRepo, a.TodoListRepo, logger, svcConfig)
	a.QuotaGuard = service.NewQuotaGuard(a.Counter, a.ParticipantRepo, a.Locator, logger, svcConfig)
	a.PresenceService = service.NewPresenceService(a.ParticipantRepo, a.PresenceRepo, a.UserRepo, a.ActivityService, a.writeQueueMgr, logger, svcConfig)
	a.ShareService = service.NewShareService(a.ShareGrantRepo, a.TodoListRepo, a.TodoItemRepo, a.FileRepo, a.UserRepo, a.ParticipantRepo, a.ActivityService, logger, svcConfig)
	a.TodoService = service.NewTodoService(a.TodoListRepo, a.TodoItemRepo, a.FileRepo, a.CourseRepo, a.ActivityService, a.Storage, logger, svcConfig)
	a.FileService = service.NewFileService(a.FileRepo, a.ActivityService, a.Storage, logger, svcConfig)
	a.UserService = service.NewUserService(a.UserRepo, logger)

	logger.Info("App container initialized successfully",
		zap.String("counter", cfg.Counter.Type),
		zap.String("storage", cfg.Storage.Type),
		zap.Bool("geo", svcConfig.Collaborative.GeoEnabled),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// initLocator opens the mmdb database when configured, otherwise every address maps to the default country
func (a *App) initLocator() error {
	g := a.config.Collaborative.Geo
	if !g.IsEnabled() {
		return nil
	}
	if g.MMDBPath == "" {
		a.Locator = geo.StaticLocator{Code: g.DefaultCountry}
		a.logger.Warn("geo mmdb-path is empty, all addresses resolve to the default country",
			zap.String("country", g.DefaultCountry))
		return nil
	}
	locator, err := geo.OpenMaxMind(g.MMDBPath, g.DefaultCountry)
	if err != nil {
		return fmt.Errorf("geo locator: %w", err)
	}
	a.Locator = locator
	a.closers = append(a.closers, locator)
	return nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// PaginationConfig 获取分页配置
func (a *App) PaginationConfig() pkgapp.PaginationConfig {
	return pkgapp.PaginationConfig{
		DefaultPageSize: a.config.App.DefaultPageSize,
		MaxPageSize:     a.config.App.MaxPageSize,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Write Queue Manager -> 计数存储与地理数据库 -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Write Queue Manager（排空所有队列，正在进行的加入操作在此完成）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 2. 并行关闭计数存储与地理数据库
	var g errgroup.Group
	for _, c := range a.closers {
		g.Go(c.Close)
	}
	if err := g.Wait(); err != nil {
		a.logger.Warn("resource close error", zap.Error(err))
		errs = append(errs, fmt.Errorf("close resources: %w", err))
	}

	// 3. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}
