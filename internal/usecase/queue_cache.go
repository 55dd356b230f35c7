package usecase

import (
	"context"
	"time"
)

// QueueCache is the read-through cache in front of the queue projections.
// Every scope (a stage code or "reports") carries an epoch; bumping the
// epoch on a transition implicitly drops every cached key of that scope.
type QueueCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Epoch(ctx context.Context, scope string) (int64, error)
	Bump(ctx context.Context, scope string) error
}
