// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log wires the go-ethereum slog front end with package scoped
// loggers that follow the root logger set at startup.
package log

import (
	"context"
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = gethlog.Logger

const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// verbosity flag values, 0 (crit) to 5 (trace)
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

var (
	NewLogger       = gethlog.NewLogger
	FromLegacyLevel = gethlog.FromLegacyLevel
	Root            = gethlog.Root
	SetDefault      = gethlog.SetDefault
)

// WithContext returns a logger derived from the root logger which always
// carries the given key/value pairs.
//
//	var logger = log.WithContext("pkg", "api")
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// lazyLogger resolves the root logger on every call, so package level
// loggers created at init time follow later SetDefault calls.
type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() Logger { return Root().With(l.ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger        { return l.With(ctx...) }
func (l *lazyLogger) Handler() slog.Handler        { return l.resolve().Handler() }
func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Write(LevelTrace, msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Write(LevelDebug, msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Write(LevelInfo, msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Write(LevelWarn, msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Write(LevelError, msg, ctx...) }

func (l *lazyLogger) Log(lvl slog.Level, msg string, ctx ...any) {
	l.resolve().Write(lvl, msg, ctx...)
}

func (l *lazyLogger) Write(lvl slog.Level, msg string, ctx ...any) {
	l.resolve().Write(lvl, msg, ctx...)
}

func (l *lazyLogger) Crit(msg string, ctx ...any) {
	l.resolve().Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}
