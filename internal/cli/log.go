package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, stamped "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// step times one phase of a command for the log.
type step struct {
	logger *log.Logger
	phase  phase
	start  time.Time
}

func startStep(l *log.Logger, p phase) step {
	return step{logger: l, phase: p, start: time.Now()}
}

// done logs the phase with its key/value results and the elapsed time,
// rounded to the millisecond.
func (s step) done(keyvals ...any) {
	kv := append([]any{"took", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info(string(s.phase)+" done", kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for commands that only receive a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
