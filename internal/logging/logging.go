// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/retrievaltrack/retrievaltrack/internal/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup applies the log configuration: level, format, and optional rotating
// file output alongside stderr.
func Setup(cfg config.LogConfig) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, errLevel := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if errLevel != nil || cfg.Level == "" {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.TrimSpace(cfg.File) == "" {
		log.SetOutput(os.Stderr)
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	if rotator.MaxSize <= 0 {
		rotator.MaxSize = 50
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
