package animate

import (
	"context"
	"time"
)

// DefaultInterval is roughly 60 frames per second.
const DefaultInterval = time.Second / 60

// Play calls render once per tick with successive frames. The first frame is
// rendered immediately. It stops at the last frame, on the first render
// error, or when ctx is cancelled, returning ctx.Err() in that case.
func Play[F any](ctx context.Context, frames []F, interval time.Duration, render func(index int, frame F) error) error {
	if len(frames) == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := render(0, frames[0]); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 1; i < len(frames); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := render(i, frames[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
