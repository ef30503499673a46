package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every emitted log record and forwards it to a secondary
// sink, e.g. an OTLP log exporter. It must be safe for concurrent use.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorFunc atomic.Pointer[MirrorFunc]

// SetMirror installs fn as the process-wide log mirror. Passing nil removes
// the mirror.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorFunc.Store(nil)
		return
	}
	mirrorFunc.Store(&fn)
}

func mirror(ctx context.Context, level Level, msg string, args ...any) {
	fn := mirrorFunc.Load()
	if fn == nil {
		return
	}
	(*fn)(ctx, level, msg, args...)
}
