package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/internal/cli"
	"github.com/matzehuels/linkgraph/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, log.InfoLevel).RootCommand().ExecuteContext(ctx)
	stop()
	if err != nil && !stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "linkgraph:", errors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

// exitCode distinguishes bad input (2) and interrupts (130) from other
// failures (1).
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidPath),
		errors.Is(err, errors.ErrCodeInvalidLayout):
		return 2
	default:
		return 1
	}
}
