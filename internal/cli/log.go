// Package cli implements the linkgraph command-line interface.
//
// This package provides commands for building link graphs from a tree of
// markdown documents, laying them out, rendering them, and keeping them up
// to date while the documents change. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: Build the link graph around a focus document and write it as JSON
//   - layout: Position the nodes of a graph file
//   - render: Draw a graph as SVG, PNG, PDF or DOT
//   - watch: Rebuild and re-layout incrementally when documents change
//   - serve: Serve the HTTP API
//   - animate: Play a layout transition in the terminal
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/linkgraph/config.toml (see
// [Config]); --config selects another file and flags override both.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rebuilt graph (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// buildProgress returns a docgraph progress callback that logs at debug
// level and mirrors the current step into the spinner, if any.
func buildProgress(l *log.Logger, s *Spinner) func(docgraph.Progress) {
	return func(p docgraph.Progress) {
		if s != nil {
			s.SetMessage(progressMessage(p))
		}
		if p.Phase == docgraph.PhaseParsing {
			l.Debug("parsed", "file", p.CurrentFile, "n", p.Current, "of", p.Total)
		}
	}
}

func progressMessage(p docgraph.Progress) string {
	switch p.Phase {
	case docgraph.PhaseScanning:
		return fmt.Sprintf("Scanning %d/%d documents...", p.Current, p.Total)
	default:
		return fmt.Sprintf("Parsing %s (%d/%d)...", p.CurrentFile, p.Current, p.Total)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
