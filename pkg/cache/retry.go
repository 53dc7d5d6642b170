package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// ErrUnavailable reports that a cache backend could not be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// backoff retries transient failures, doubling the delay after each one.
type backoff struct {
	attempts int
	delay    time.Duration
}

var (
	// dialBackoff covers a Redis server that is still starting.
	dialBackoff = backoff{attempts: 4, delay: 150 * time.Millisecond}
	// opBackoff covers a dropped pooled connection on a single command.
	opBackoff = backoff{attempts: 2, delay: 20 * time.Millisecond}
)

func (b backoff) do(ctx context.Context, fn func(context.Context) error) error {
	delay := b.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil || !transient(err) || attempt >= b.attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// transient reports whether err is a connection-level failure worth
// retrying. Context errors never are.
func transient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	// Redis replies LOADING while it reads its dataset after a restart.
	return strings.HasPrefix(err.Error(), "LOADING ")
}
