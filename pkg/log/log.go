// Copyright 2025 OpenFabric Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides structured logging for the controller. It is a thin
// layer on top of zap that carries key/value context through call chains and
// optionally mirrors entries into an active tracing span.
package log

import (
	"os"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Level is the verbosity level of a log entry.
type Level zapcore.Level

// The log levels supported by the console logger.
const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// Logger describes the logger interface.
type Logger interface {
	// New creates a child logger with the given key/value context attached to
	// every entry.
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Enabled reports whether entries at the given level are emitted.
	Enabled(lvl Level) bool
}

// ConsoleLevel is the level of the console logger. It can be changed at
// runtime, and it implements http.Handler for remote interaction.
var ConsoleLevel = zap.NewAtomicLevel()

// Setup configures the logging backend. It must be called before the logging
// functions are used. Entries logged before Setup are discarded.
func Setup(cfg Config, opts ...Option) error {
	cfg.InitDefaults()
	if err := setupConsole(cfg.Console, applyOptions(opts)); err != nil {
		return err
	}
	return nil
}

func setupConsole(cfg ConsoleConfig, opts options) error {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return serrors.Wrap("parsing console level", err)
	}
	ConsoleLevel.SetLevel(lvl)
	encoding := "console"
	if cfg.Format == "json" {
		encoding = "json"
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zCfg := zap.Config{
		Level:             ConsoleLevel,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	zOpts := opts.zapOptions()
	if cfg.StacktraceLevel != DefaultStacktraceLevel && cfg.StacktraceLevel != "" {
		stLvl, err := parseLevel(cfg.StacktraceLevel)
		if err != nil {
			return serrors.Wrap("parsing stacktrace level", err)
		}
		zOpts = append(zOpts, zap.AddStacktrace(stLvl))
	}
	logger, err := zCfg.Build(zOpts...)
	if err != nil {
		return serrors.Wrap("creating console logger", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func parseLevel(lvl string) (zapcore.Level, error) {
	if lvl == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		return l, serrors.New("unknown log level", "level", lvl)
	}
	return l, nil
}

// Root returns the root logger. It is a logger without any context attached.
func Root() Logger {
	return &logger{logger: zap.L()}
}

// New creates a logger with the given context on top of the root logger.
func New(ctx ...any) Logger {
	return Root().New(ctx...)
}

// Discard replaces the logger backend with one that drops all entries. It is
// intended for tests and tools that must stay silent.
func Discard() {
	zap.ReplaceGlobals(zap.NewNop())
}

// Debug logs at debug level through the root logger.
func Debug(msg string, ctx ...any) {
	zap.L().WithOptions(zap.AddCallerSkip(1)).Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level through the root logger.
func Info(msg string, ctx ...any) {
	zap.L().WithOptions(zap.AddCallerSkip(1)).Info(msg, convertCtx(ctx)...)
}

// Error logs at error level through the root logger.
func Error(msg string, ctx ...any) {
	zap.L().WithOptions(zap.AddCallerSkip(1)).Error(msg, convertCtx(ctx)...)
}

// Flush writes all buffered log entries to the underlying sink.
func Flush() error {
	return zap.L().Sync()
}

// HandlePanic logs and flushes panics before terminating the process. Defer
// it at the top of every goroutine.
func HandlePanic() {
	if msg := recover(); msg != nil {
		zap.L().Error("Panic", zap.Any("msg", msg), zap.ByteString("stack", debug.Stack()))
		_ = zap.L().Sync()
		os.Exit(255)
	}
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

func (l *logger) WithOptions(opts ...zap.Option) Logger {
	return &logger{logger: l.logger.WithOptions(opts...)}
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(ctx[i].(string), ctx[i+1]))
	}
	return fields
}
