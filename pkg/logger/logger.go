// 文件: pkg/logger/logger.go
// 结构化日志 (logrus)

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config 日志配置
type Config struct {
	Level  string `yaml:"level"`  // trace/debug/info/warn/error
	Format string `yaml:"format"` // text/json
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// New 按配置创建 logger
// 无法识别的级别退回 info
func New(cfg Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput 指定输出位置，测试里写到 buffer
func NewWithOutput(cfg Config, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Discard 丢弃所有输出
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
