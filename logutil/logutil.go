// Package logutil - slog Setup fuer kompute
// Beinhaltet: NewLogger, LevelTrace, Trace/TraceContext
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// LevelTrace liegt unter Debug und wird mit KOMPUTE_DEBUG=2 aktiviert
const LevelTrace slog.Level = -8

// NewLogger erstellt einen Text-Logger mit Quellangabe
// TRACE wird als eigener Level-Name ausgegeben
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				switch attr.Value.Any().(slog.Level) {
				case LevelTrace:
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	}))
}

// Trace loggt auf TRACE-Level ueber den Default-Logger
func Trace(msg string, args ...any) {
	trace(context.TODO(), msg, args...)
}

// TraceContext loggt auf TRACE-Level mit Kontext
func TraceContext(ctx context.Context, msg string, args ...any) {
	trace(ctx, msg, args...)
}

// trace erzeugt den Record selbst, damit die Quellangabe auf den Aufrufer
// von Trace/TraceContext zeigt und nicht auf logutil
func trace(ctx context.Context, msg string, args ...any) {
	logger := slog.Default()
	if !logger.Enabled(ctx, LevelTrace) {
		return
	}

	var pcs [1]uintptr
	// runtime.Callers, trace, Trace/TraceContext
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), LevelTrace, msg, pcs[0])
	r.Add(args...)
	_ = logger.Handler().Handle(ctx, r)
}
