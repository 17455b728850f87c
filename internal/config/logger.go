package config

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// NewLogger 按配置创建 logrus 日志器，非法级别回退为 info
func NewLogger(cfg LogConfig) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// GORMLogLevel 将配置中的字符串映射为 GORM 日志级别
func (d *DatabaseConfig) GORMLogLevel() logger.LogLevel {
	switch d.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
