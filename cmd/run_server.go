package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	internalApp "github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dao"
	"github.com/haierkeys/uni-task-service/internal/routers"
	"github.com/haierkeys/uni-task-service/internal/task"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/safe_close"
	"github.com/haierkeys/uni-task-service/pkg/validator"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultSecretKeys 定义需要检测的默认密钥列表
var defaultSecretKeys = []string{
	defaultAuthKey,
	"",
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

type Server struct {
	logger     *zap.Logger             // 日志对象
	config     *internalApp.AppConfig  // 应用配置（注入的依赖）
	db         *gorm.DB                // 数据库连接
	ut         *ut.UniversalTranslator // 翻译器
	httpServer *http.Server
	sc         *safe_close.SafeClose
	app        *internalApp.App // App Container
}

// checkSecurityConfig 检查安全配置，如果使用默认密钥则输出警告
func checkSecurityConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	for _, key := range defaultSecretKeys {
		if cfg.Security.AuthTokenKey != key {
			continue
		}
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("SECURITY WARNING: Using default secret key!")
		fmt.Println()
		fmt.Println("Please modify 'security.auth-token-key' in config.yaml")
		fmt.Println("Generate a secure key with:")
		fmt.Println("  openssl rand -base64 32")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println()
		lg.Warn("Using default secret key - please change security.auth-token-key in config.yaml")
		return
	}
}

// bootApp loads the config and builds logger, database and app container
// it is shared by the run and token commands
// bootApp 加载配置并创建日志、数据库与应用容器，run 与 token 命令共用
func bootApp(configPath, runMode string) (*internalApp.App, *internalApp.AppConfig, string, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "failed to load config")
	}
	if runMode != "" {
		appConfig.Server.RunMode = runMode
	}

	if err := initStorageDirs(appConfig); err != nil {
		return nil, nil, "", errors.Wrap(err, "initStorage")
	}

	lg, err := logger.NewLogger(logger.Config{
		Level:      appConfig.Log.Level,
		File:       appConfig.Log.File,
		Production: appConfig.Log.Production,
	})
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "initLogger")
	}

	db, err := dao.NewDBEngine(appConfig.Database, appConfig.Server.RunMode)
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "initDatabase")
	}

	a, err := internalApp.NewApp(appConfig, lg, db)
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "failed to create app container")
	}
	return a, appConfig, configRealpath, nil
}

func NewServer(runEnv *runFlags) (*Server, error) {
	a, appConfig, configRealpath, err := bootApp(runEnv.config, runEnv.runMode)
	if err != nil {
		return nil, err
	}
	if runEnv.port != "" {
		appConfig.Server.HttpPort = ":" + strings.TrimPrefix(runEnv.port, ":")
	}

	if appConfig.Server.RunMode != "" {
		gin.SetMode(appConfig.Server.RunMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		logger: a.Logger(),
		config: appConfig,
		db:     a.DB,
		sc:     safe_close.NewSafeClose(),
		app:    a,
	}

	checkSecurityConfig(appConfig, s.logger)

	// 初始化验证器
	uni, err := validator.Setup()
	if err != nil {
		return nil, errors.Wrap(err, "initValidator")
	}
	s.ut = uni

	// 启动调度器
	if err := initScheduler(s); err != nil {
		return nil, err
	}

	s.logger.Warn(fmt.Sprintf("%s v%s\nGit: %s\nBuildTime: %s", internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	// 启动 HTTP API 服务器
	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		s.logger.Warn("api_router", zap.String("config.server.HttpPort", httpAddr))
		s.httpServer = &http.Server{
			Addr:           httpAddr,
			Handler:        routers.NewRouter(s.app, s.ut),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			errChan := make(chan error, 1)
			go func() {
				errChan <- s.httpServer.ListenAndServe()
			}()
			select {
			case err := <-errChan:
				if !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("api service err", zap.Error(err))
					s.sc.SendCloseSignal(err)
				}
			case <-closeSignal:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				// 停止HTTP服务器
				if err := s.httpServer.Shutdown(ctx); err != nil {
					s.logger.Error("api service shutdown error", zap.Error(err))
				}
			}
		})
	}

	// 注册 App Container 的优雅关闭
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
		} else {
			s.logger.Info("App container shutdown gracefully")
		}
	})

	return s, nil
}

func initScheduler(s *Server) error {
	// 创建任务管理器
	manager := task.NewManager(s.logger, s.sc, s.app)

	// 注册所有任务(业务层控制)
	if err := manager.RegisterTasks(); err != nil {
		return errors.Wrap(err, "failed to register tasks")
	}

	// 启动任务调度器
	manager.Start()
	return nil
}

// initStorageDirs 初始化日志与数据库目录
func initStorageDirs(cfg *internalApp.AppConfig) error {
	dirs := []string{filepath.Dir(cfg.Log.File)}
	if cfg.Database.Type == "" || cfg.Database.Type == "sqlite" {
		if !strings.HasPrefix(cfg.Database.Path, "file:") {
			dirs = append(dirs, filepath.Dir(cfg.Database.Path))
		}
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	return nil
}

// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}

// GetConfig 获取应用配置
func (s *Server) GetConfig() *internalApp.AppConfig {
	return s.config
}
