package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var l = zap.NewNop()

// Init 按级别初始化全局 logger
func Init(level string) error {
	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		lv = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lv)
	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return err
	}
	l = logger
	return nil
}

// L 全局 logger
func L() *zap.Logger { return l }

// Sync 刷新缓冲日志
func Sync() { _ = l.Sync() }
