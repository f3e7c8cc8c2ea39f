package logger

import (
	"os"
	"strings"

	"execution-os/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = zap.NewNop().Sugar()

func Init(cfg config.LogConfig) {
	level := parseLevel(cfg.Level)

	var sinks []zapcore.WriteSyncer
	if cfg.Console {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}
	if cfg.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.NewMultiWriteSyncer(sinks...), level)
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

// SetLogger replaces the package logger; tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) { log = l.Sugar() }

func Sync() { _ = log.Sync() }

func Info(msg string, args ...any)  { log.Infow(msg, args...) }
func Warn(msg string, args ...any)  { log.Warnw(msg, args...) }
func Error(msg string, args ...any) { log.Errorw(msg, args...) }
func Debug(msg string, args ...any) { log.Debugw(msg, args...) }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
