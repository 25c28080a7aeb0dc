package logger

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold 超过此耗时的 SQL 按 warn 记录
const SlowQueryThreshold = 200 * time.Millisecond

// GormLogger 把 gorm 日志转发到 logrus
type GormLogger struct {
	logger *logrus.Logger
	level  gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger 创建 gorm 日志适配器
func NewGormLogger(l *logrus.Logger) *GormLogger {
	return &GormLogger{logger: l, level: gormlogger.Warn}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.WithContext(ctx).Infof(msg, data...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.WithContext(ctx).Warnf(msg, data...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.WithContext(ctx).Errorf(msg, data...)
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := g.logger.WithContext(ctx).WithFields(logrus.Fields{
		"elapsed": elapsed,
		"rows":    rows,
		"sql":     sql,
	})

	switch {
	// 查不到记录是正常业务分支
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		entry.Error(err)
	case elapsed > SlowQueryThreshold && g.level >= gormlogger.Warn:
		entry.Warn("SLOW SQL >= 200ms")
	case g.level >= gormlogger.Info:
		entry.Info("SQL")
	}
}
