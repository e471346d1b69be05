// Copyright 2022 The Primkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig is the configuration of the global logger.
type LogConfig struct {
	// Level is the minimum enabled level: debug, info, warn, error, fatal.
	Level string `toml:"level"`
	// Format is the encoder format, console or json.
	Format string `toml:"format"`
	// Filename, when set, redirects output to a rotated file.
	Filename string `toml:"filename"`
	// MaxSize is the maximum size in MB of a log file before rotation.
	MaxSize int `toml:"max-size"`
	// MaxDays is the maximum number of days to retain old log files.
	MaxDays int `toml:"max-days"`
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `toml:"max-backups"`
}

var globalLogger atomic.Value

// GetGlobalLogger returns the process-wide logger, setting up a default
// console logger on first use.
func GetGlobalLogger() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l.(*zap.Logger)
	}
	SetupLogger(&LogConfig{Level: "info", Format: "console"})
	return globalLogger.Load().(*zap.Logger)
}

// SetupLogger builds the global logger from conf and installs it.
func SetupLogger(conf *LogConfig) {
	var level zapcore.Level
	if err := level.Set(conf.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if conf.Format == "json" {
		enc = zapcore.NewJSONEncoder(encConf)
	} else {
		enc = zapcore.NewConsoleEncoder(encConf)
	}

	var sink zapcore.WriteSyncer
	if conf.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize,
			MaxAge:     conf.MaxDays,
			MaxBackups: conf.MaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(enc, sink, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))
	globalLogger.Store(logger)
}

// Adjust returns the default logger when logger is nil, so components can
// take an optional *zap.Logger without nil checks at every call site.
func Adjust(logger *zap.Logger, options ...zap.Option) *zap.Logger {
	if logger != nil {
		return logger
	}
	return GetGlobalLogger().WithOptions(options...)
}
