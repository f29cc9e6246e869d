package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	ServiceName string
	Environment string
	Level       string
	LogFilePath string // 为空时只输出到 stdout
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

var sensitiveFields = map[string]bool{
	"authorization": true,
	"token":         true,
	"secret":        true,
	"api_key":       true,
	"api_secret":    true,
	"cookie":        true,
	"jwt":           true,
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// New 构建 JSON 日志，同时写 stdout 与滚动文件
func New(cfg Config) *slog.Logger {
	writers := []io.Writer{os.Stdout}

	if cfg.LogFilePath != "" {
		if cfg.MaxSizeMB == 0 {
			cfg.MaxSizeMB = 100
		}
		if cfg.MaxBackups == 0 {
			cfg.MaxBackups = 5
		}
		if cfg.MaxAgeDays == 0 {
			cfg.MaxAgeDays = 30
		}

		logDir := filepath.Dir(cfg.LogFilePath)
		if err := os.MkdirAll(logDir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Cannot create log directory %s: %v, using stdout only\n", logDir, err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFilePath,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}
	}

	return NewWithWriter(io.MultiWriter(writers...), cfg)
}

// NewWithWriter 输出到指定 writer，测试用
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(cfg.Level),
		ReplaceAttr: sanitizeAttr,
	})

	l := slog.New(handler)
	if cfg.ServiceName != "" {
		l = l.With(slog.String("service", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		l = l.With(slog.String("env", cfg.Environment))
	}
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard 丢弃全部输出
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sanitizeAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveFields[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "[REDACTED]")
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, emailRegex.ReplaceAllStringFunc(a.Value.String(), maskEmail))
	}
	return a
}

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "[REDACTED_EMAIL]"
	}
	if len(local) <= 2 {
		return "**@" + domain
	}
	return local[:2] + "***@" + domain
}
