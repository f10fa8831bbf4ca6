// Package logging builds the zap logger shared by the whole process
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultMaxSizeMB is used when Options.MaxSizeMB is not positive
const DefaultMaxSizeMB = 100

type Options struct {
	Debug bool
	// File additionally writes JSON logs to a rotating file when set
	File       string
	MaxSizeMB  int
	// Zero keeps every rotated file
	MaxBackups int
	MaxAgeDays int
}

// New returns a production logger, or a development logger in debug mode
func New(opts Options) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if opts.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed init logger: %w", err)
	}

	if opts.File != "" {
		level := zapcore.InfoLevel
		if opts.Debug {
			level = zapcore.DebugLevel
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(RotatingFile(opts)),
			level,
		)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}
	return logger.Sugar(), nil
}

// RotatingFile returns the lumberjack writer backing the file output
func RotatingFile(opts Options) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeMB
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
}
