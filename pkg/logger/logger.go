package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Instance 全局日志实例
var Instance *zap.Logger

// Config 日志配置
type Config struct {
	LogFile    string // 日志文件路径
	Level      string // 日志级别：debug/info/warn/error
	MaxSize    int    // 单个日志文件最大大小（MB）
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 日志文件保留天数
	Compress   bool   // 是否压缩旧日志
	Console    bool   // 是否同时输出到控制台
}

// 上下文日志字段键
type ctxFieldsKey struct{}

func init() {
	// 未初始化时使用默认配置，避免空指针
	Instance, _ = zap.NewProduction()
}

// InitLogger 初始化日志系统
func InitLogger(cfg Config) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	level := parseLevel(cfg.Level)

	cores := make([]zapcore.Core, 0, 2)
	if cfg.LogFile != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, fileWriter, level))
	}
	if cfg.Console || cfg.LogFile == "" {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level))
	}

	Instance = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithContext 将日志字段注入上下文，后续日志自动携带
func WithContext(ctx context.Context, fields ...zap.Field) context.Context {
	existing := fieldsFromContext(ctx)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

// FromContext 返回携带上下文字段的日志实例
func FromContext(ctx context.Context) *zap.Logger {
	return Instance.With(fieldsFromContext(ctx)...)
}

func fieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	if fields, ok := ctx.Value(ctxFieldsKey{}).([]zap.Field); ok {
		return fields
	}
	return nil
}

func log(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	allFields := append(fieldsFromContext(ctx), fields...)
	switch level {
	case zapcore.DebugLevel:
		Instance.Debug(msg, allFields...)
	case zapcore.InfoLevel:
		Instance.Info(msg, allFields...)
	case zapcore.WarnLevel:
		Instance.Warn(msg, allFields...)
	case zapcore.ErrorLevel:
		Instance.Error(msg, allFields...)
	case zapcore.FatalLevel:
		Instance.Fatal(msg, allFields...)
	}
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zapcore.DebugLevel, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zapcore.InfoLevel, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zapcore.WarnLevel, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zapcore.ErrorLevel, msg, fields...)
}

func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zapcore.FatalLevel, msg, fields...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	log(ctx, zapcore.DebugLevel, fmt.Sprintf(format, args...))
}

func Infof(ctx context.Context, format string, args ...any) {
	log(ctx, zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

func Warnf(ctx context.Context, format string, args ...any) {
	log(ctx, zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

func Errorf(ctx context.Context, format string, args ...any) {
	log(ctx, zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

func Fatalf(ctx context.Context, format string, args ...any) {
	log(ctx, zapcore.FatalLevel, fmt.Sprintf(format, args...))
}

// Sync 刷新缓冲的日志
func Sync() error {
	return Instance.Sync()
}
