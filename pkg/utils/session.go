package utils

import (
	"context"
	"time"
)

// Lifetime ties an object (a connected client, a running game) to a
// cancelable context and remembers when it came into being.
type Lifetime struct {
	context context.Context
	cancel  context.CancelFunc
	born    time.Time
}

func NewLifetime(ctx context.Context) Lifetime {
	ctx, cancel := context.WithCancel(ctx)
	return Lifetime{
		context: ctx,
		cancel:  cancel,
		born:    time.Now(),
	}
}

func (l *Lifetime) Started() time.Time {
	return l.born
}

func (l *Lifetime) Age() time.Duration {
	return time.Since(l.born)
}

func (l *Lifetime) Ctx() context.Context {
	return l.context
}

func (l *Lifetime) IsDone() bool {
	return l.context.Err() != nil
}

func (l *Lifetime) Cancel() {
	l.cancel()
}
