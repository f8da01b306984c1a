package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bootstrapLogger 启动阶段日志器
// Used before the configured logger exists: config discovery, default config creation, watcher errors
// 用于主日志器初始化之前：查找配置、生成默认配置、配置监听错误
var bootstrapLogger = newBootstrapLogger()

func newBootstrapLogger() *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	// UNI_DEBUG 或 DEBUG 非空时输出 debug 日志
	level := zapcore.InfoLevel
	if os.Getenv("UNI_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller()).Named("bootstrap")
}
