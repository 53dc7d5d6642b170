package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, 0},
		{"interrupted", fmt.Errorf("build: %w", context.Canceled), 130},
		{"bad path", errors.New(errors.ErrCodeInvalidPath, "path escapes root"), 2},
		{"bad layout", fmt.Errorf("layout: %w", errors.New(errors.ErrCodeInvalidLayout, "unknown algorithm")), 2},
		{"root", errors.New(errors.ErrCodeRootUnreadable, "list /notes"), 1},
		{"plain", stderrors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
