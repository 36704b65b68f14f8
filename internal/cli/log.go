// Package cli implements the relline command-line interface.
//
// Every command works on a scene file: it mounts the scene on an in-memory
// page, runs the overlay against it and writes or shows what was drawn.
//   - render: one settled draw pass written as SVG, PNG, JSON, DOT or a
//     graphviz node-link picture
//   - view: the scene as a live terminal page that scrolls and resizes
//   - serve: the same renders over HTTP
//   - cache: the on-disk artifact cache
//
// # Logging
//
// Relations the overlay cannot draw are not errors, so the only place they
// show up is the debug log: run with --verbose (-v) to see each skip and its
// reason. The root command attaches the logger to the command context;
// commands take it back out with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps carry hundredths of a second
// ("14:32:01.45"), enough to see a settle delay between a scroll and the
// draw pass it caused.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// quietLogger swallows everything. The viewer hands it to the overlay
// because the terminal belongs to bubbletea while it runs.
func quietLogger() *log.Logger { return newLogger(io.Discard, LogInfo) }

// progress times one command, e.g. "Rendered page.json (12ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command's logger, or log.Default() outside
// a command (tests, library callers).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
