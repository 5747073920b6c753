// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is the process-wide structured logging facade.
// Packages grab a contextual logger once at init via WithContext.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Logger is the handle packages log through.
type Logger = *slog.Logger

var (
	level atomic.Int64 // slog.Level
	root  atomic.Pointer[slog.Logger]
)

func init() {
	level.Store(int64(slog.LevelInfo))
	root.Store(slog.New(newHandler(os.Stderr)))
}

// Root returns the process root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger carrying the given context key/value pairs.
func WithContext(args ...any) Logger {
	return Root().With(args...)
}

// SetLevel adjusts the minimum level emitted by the root logger.
func SetLevel(lvl slog.Level) {
	level.Store(int64(lvl))
}

// Setup replaces the root logger with one writing to w at the given level.
func Setup(w io.Writer, lvl slog.Level) {
	level.Store(int64(lvl))
	root.Store(slog.New(newHandler(w)))
}

// Discard silences all logging. Handy in tests.
func Discard() {
	root.Store(slog.New(slog.DiscardHandler))
}

// FromLegacyLevel converts the conventional 0..5 verbosity scale to a slog level.
func FromLegacyLevel(verbosity int) slog.Level {
	switch verbosity {
	case 0:
		return slog.LevelError + 4 // crit only
	case 1:
		return slog.LevelError
	case 2:
		return slog.LevelWarn
	case 3:
		return slog.LevelInfo
	case 4:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4 // trace
	}
}

func newHandler(w io.Writer) slog.Handler {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      levelVar{},
		NoColor:    !useColor,
		TimeFormat: "01-02|15:04:05.000",
	})
}

// levelVar reads the package-wide level atomically, so SetLevel applies to
// handlers created before the call.
type levelVar struct{}

func (levelVar) Level() slog.Level {
	return slog.Level(level.Load())
}
