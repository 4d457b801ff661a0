package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/microsievert/dosimetria/internal/pkg/constants"
)

var global *zap.SugaredLogger

func init() {
	l, _ := zap.NewDevelopment()
	global = l.Sugar()
}

// Init replaces the default development logger. mode is "prod" or "dev".
func Init(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global = l.Sugar()
	return nil
}

func Sync() {
	_ = global.Sync()
}

func fromCtx(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return global
	}
	if runID, ok := ctx.Value(constants.CtxKeyRunID).(string); ok && runID != "" {
		return global.With("run_id", runID)
	}
	return global
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, msg string) {
	fromCtx(ctx).Error(msg)
}

func Fatal(ctx context.Context, err error) {
	if err == nil {
		return
	}
	fromCtx(ctx).Fatal(err.Error())
}
