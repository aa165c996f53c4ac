package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/wallnav/logging"
)

// DefaultLogMaxSizeMB is the size a log file grows to before it is rotated.
const DefaultLogMaxSizeMB = 100

// Validate ensures the rotation settings are usable.
func (cfg *LogConfig) Validate(path string) error {
	if cfg.MaxSizeMB < 0 {
		return goutils.NewConfigValidationError(path, errors.New("max_size_mb cannot be negative"))
	}
	if cfg.MaxBackups < 0 {
		return goutils.NewConfigValidationError(path, errors.New("max_backups cannot be negative"))
	}
	return nil
}

// NewLogger builds the root logger described by cfg. debug forces debug level regardless of the
// configured level. The returned function syncs the logger and releases the log file, if any.
func (cfg *LogConfig) NewLogger(name string, debug bool) (logging.Logger, func() error, error) {
	var logger logging.Logger
	if debug {
		logger = logging.NewDebugLogger(name)
	} else {
		logger = logging.NewLogger(name)
		logger.SetLevel(cfg.Level)
	}

	if cfg.File == "" {
		return logger, logger.Sync, nil
	}
	maxSize := cfg.MaxSizeMB
	if maxSize == 0 {
		maxSize = DefaultLogMaxSizeMB
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}
	logger.AddAppender(logging.NewWriterAppender(file))
	return logger, func() error {
		return multierr.Combine(logger.Sync(), file.Close())
	}, nil
}
