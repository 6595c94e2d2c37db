package ports

import (
	"context"
	"time"
)

// Sleeper paces animation ticks. Implementations must return early with
// ctx.Err() when the context is cancelled, so a reveal can be torn down at
// any suspension point.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
