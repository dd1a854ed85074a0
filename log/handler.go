// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"math"

	gethlog "github.com/ethereum/go-ethereum/log"
)

const levelMaxVerbosity slog.Level = math.MinInt

// NewTerminalHandlerWithLevel returns a human readable handler which only
// outputs records at or above lvl. lvl may be changed while the handler is in
// use.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{gethlog.NewTerminalHandlerWithLevel(wr, levelMaxVerbosity, useColor), lvl}
}

// JSONHandlerWithLevel returns a JSON handler which only outputs records at
// or above lvl.
func JSONHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{gethlog.JSONHandlerWithLevel(wr, levelMaxVerbosity), lvl}
}

// levelHandler filters records by a dynamic level before handing them on.
type levelHandler struct {
	next slog.Handler
	lvl  slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.next.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.next.WithAttrs(attrs), h.lvl}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.next.WithGroup(name), h.lvl}
}
