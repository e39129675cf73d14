package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/recq/errors"
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name appears in rejection messages.
	Name string
	// MaxConcurrent is the number of calls allowed at once.
	MaxConcurrent int
	// MaxWait is how long a call may queue for a slot. Zero rejects at once.
	MaxWait time.Duration
	// OnReject is called when a call is turned away.
	OnReject func(name string)
}

// Bulkhead limits concurrent calls with a semaphore.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a bulkhead. MaxConcurrent below one is treated as one.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	config.MaxConcurrent = max(config.MaxConcurrent, 1)
	return &Bulkhead{config: config, sem: make(chan struct{}, config.MaxConcurrent)}
}

// Execute runs fn in a slot. When no slot frees up within MaxWait the call is
// rejected with SERVICE_UNAVAILABLE.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return err
	}
	defer func() { <-b.sem }()
	return fn()
}

// ExecuteWithResult is Execute for functions returning a value.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}
	if b.config.MaxWait <= 0 {
		return b.full()
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return b.full().WithDetail("waited", b.config.MaxWait.String())
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) full() *errors.AppError {
	return errors.ServiceUnavailable(fmt.Sprintf("%s is at capacity (%d concurrent)", b.config.Name, b.config.MaxConcurrent))
}

// InUse returns the number of occupied slots.
func (b *Bulkhead) InUse() int { return len(b.sem) }

// Available returns the number of free slots.
func (b *Bulkhead) Available() int { return b.config.MaxConcurrent - len(b.sem) }
