package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultAuthKey 内嵌默认配置中的占位密钥，首次生成配置时替换为随机值
const defaultAuthKey = "uni-task-Auth-Token"

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// configCandidates 未指定配置文件时依次查找
var configCandidates = []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// resolveConfig returns the config path to load, writing the embedded default when none exists
// resolveConfig 返回要加载的配置路径，均不存在时写出内嵌的默认配置
func resolveConfig(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, p := range configCandidates {
		if fileExists(p) {
			return p, nil
		}
	}

	path := configCandidates[len(configCandidates)-1]
	bootstrapLogger.Warn("config file not found, creating default config", zap.String("path", path))

	content := strings.Replace(configDefault, defaultAuthKey, util.GetRandomString(32), 1)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "config file auto create error")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "config file auto create writing error")
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}

// watchConfig restarts the server whenever the config file is written
// watchConfig 配置文件写入后重建服务
func watchConfig(runEnv *runFlags, current *atomic.Pointer[Server]) {
	w := watcher.New()

	// 每个监听周期至多接收 1 个事件
	w.SetMaxEvents(1)
	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				s := current.Load()
				s.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				s.sc.SendCloseSignal(nil)
				if err := s.sc.WaitClosed(); err != nil {
					s.logger.Warn("previous server closed with error", zap.Error(err))
				}

				// 重新初始化 server
				next, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service restart err", zap.Error(err))
					continue
				}
				current.Store(next)

			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		bootstrapLogger.Error("config watcher file error", zap.Error(err))
		return
	}
	if err := w.Start(time.Second * 5); err != nil {
		bootstrapLogger.Error("config watcher start error", zap.Error(err))
	}
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
					return
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			path, err := resolveConfig(runEnv.config)
			if err != nil {
				bootstrapLogger.Error("config resolve failed", zap.Error(err))
				return
			}
			runEnv.config = path

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			var current atomic.Pointer[Server]
			current.Store(s)
			go watchConfig(runEnv, &current)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			s = current.Load()

			s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			s.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
