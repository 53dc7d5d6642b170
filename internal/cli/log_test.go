package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.FatalLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("walk", "dir", "guide")
			l.Info("built graph", "documents", 3)

			out := buf.String()
			if got := strings.Contains(out, "walk"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v: %q", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "documents=3"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v: %q", got, tt.wantInfo, out)
			}
			if tt.wantInfo && !timestampRe.MatchString(out) {
				t.Errorf("missing HH:MM:SS.cc timestamp: %q", out)
			}
		})
	}
}

var timestampRe = regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{2}`)

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = prog.start.Add(-1500 * time.Millisecond)
	prog.done("Laid out 4 nodes")

	if !regexp.MustCompile(`Laid out 4 nodes \(1\.5\d*s\)`).MatchString(buf.String()) {
		t.Errorf("done() = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}

func TestProgressMessage(t *testing.T) {
	tests := []struct {
		p    docgraph.Progress
		want string
	}{
		{docgraph.Progress{Phase: docgraph.PhaseScanning, Current: 3, Total: 10}, "Scanning 3/10 documents..."},
		{docgraph.Progress{Phase: docgraph.PhaseParsing, Current: 1, Total: 4, CurrentFile: "a.md"}, "Parsing a.md (1/4)..."},
	}
	for _, tt := range tests {
		if got := progressMessage(tt.p); got != tt.want {
			t.Errorf("progressMessage(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestBuildProgressLogsParsing(t *testing.T) {
	var buf bytes.Buffer
	report := buildProgress(newLogger(&buf, log.DebugLevel), nil)
	report(docgraph.Progress{Phase: docgraph.PhaseScanning, Current: 1, Total: 1})
	if buf.Len() != 0 {
		t.Errorf("scanning progress should not be logged: %q", buf.String())
	}
	report(docgraph.Progress{Phase: docgraph.PhaseParsing, Current: 1, Total: 1, CurrentFile: "x.md"})
	if !bytes.Contains(buf.Bytes(), []byte("x.md")) {
		t.Errorf("parsing progress not logged: %q", buf.String())
	}
}
