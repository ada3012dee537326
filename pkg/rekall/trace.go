package rekall

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Opt-in debug tracing of the minus sweep, window audits and pattern search.
// Enable by setting REKALL_TRACE=1 or calling EnableTrace(true). Window audit
// warnings are emitted whether or not tracing is on.

var (
	traceEnabled atomic.Bool
	traceLogger  atomic.Pointer[slog.Logger]
)

func init() {
	if os.Getenv("REKALL_TRACE") == "1" {
		traceEnabled.Store(true)
	}
}

// EnableTrace switches debug tracing on or off.
func EnableTrace(on bool) { traceEnabled.Store(on) }

// TraceEnabled reports whether debug tracing is on.
func TraceEnabled() bool { return traceEnabled.Load() }

// SetLogger routes traces and audit warnings to l. A nil logger restores
// slog.Default().
func SetLogger(l *slog.Logger) { traceLogger.Store(l) }

func logger() *slog.Logger {
	if l := traceLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func tracef(format string, args ...any) {
	if !traceEnabled.Load() {
		return
	}
	logger().Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...), "component", "rekall")
}
