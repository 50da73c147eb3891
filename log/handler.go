// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// TerminalHandler writes human readable records, optionally with coloured levels:
//
//	INFO [05-16|20:58:45.123] claim challenged pkg=claims id=0x2f0e…c3a1
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
	buf      []byte
}

// NewTerminalHandler logs every level.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	return NewTerminalHandlerWithLevel(wr, allLevels(), useColor)
}

// NewTerminalHandlerWithLevel drops records below lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{mu: &sync.Mutex{}, wr: wr, lvl: lvl, useColor: useColor}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf = h.format(h.buf[:0], r, h.useColor)
	_, err := h.wr.Write(h.buf)
	return err
}

// WithAttrs shares the writer lock with h so derived handlers never interleave lines.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		mu:       h.mu,
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup is unsupported; groups are flattened into the record.
func (h *TerminalHandler) WithGroup(string) slog.Handler { return h }

// JSONHandler logs every level as one JSON object per line.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, allLevels())
}

func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr { return replaceAttr(a, false) },
	})
}

// LogfmtHandler logs every level as key=value pairs.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return LogfmtHandlerWithLevel(wr, allLevels())
}

func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr { return replaceAttr(a, true) },
	})
}

func allLevels() *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(levelMaxVerbosity)
	return &lvl
}

// replaceAttr renames the builtin keys to t and lvl and renders numbers and
// stringers as plain strings.
func replaceAttr(attr slog.Attr, text bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if text {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if text {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *big.Int:
		attr.Value = slog.StringValue(nilOr(v == nil, v.String))
	case *uint256.Int:
		attr.Value = slog.StringValue(nilOr(v == nil, v.Dec))
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		attr.Value = slog.StringValue(nilOr(rv.Kind() == reflect.Pointer && rv.IsNil(), v.String))
	}
	return attr
}

func nilOr(isNil bool, str func() string) string {
	if isNil {
		return "<nil>"
	}
	return str()
}
