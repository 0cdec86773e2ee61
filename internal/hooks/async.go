package hooks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// DefaultQueueSize is the notification buffer of an Async wrapper
const DefaultQueueSize = 256

// AsyncConfig configures the asynchronous dispatcher
type AsyncConfig struct {
	Next      Hooks
	QueueSize int
}

// Validate checks the configuration and fills defaults
func (cfg *AsyncConfig) Validate() error {
	if cfg.Next == nil {
		return errors.InvalidArgument("next hooks are required")
	}
	if cfg.QueueSize < 0 {
		return errors.InvalidArgument("queue size must not be negative")
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return nil
}

// Async delivers notifications to the wrapped hooks from a single background goroutine.
// Callers never block: when the queue is full the notification is dropped and logged.
type Async struct {
	next  Hooks
	queue chan func()

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsync starts the dispatcher goroutine. Close must be called to stop it.
func NewAsync(cfg *AsyncConfig) (*Async, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Async{
		next:  cfg.Next,
		queue: make(chan func(), cfg.QueueSize),
		done:  make(chan struct{}),
	}
	go a.run()
	return a, nil
}

func (a *Async) run() {
	defer close(a.done)
	for fn := range a.queue {
		fn()
	}
}

// TalentLearned enqueues the notification
func (a *Async) TalentLearned(ctx context.Context, event TalentLearned) {
	ctx = context.WithoutCancel(ctx)
	a.enqueue(ctx, "talent_learned", event.CharacterID, func() {
		a.next.TalentLearned(ctx, event)
	})
}

// StatsChanged enqueues the notification
func (a *Async) StatsChanged(ctx context.Context, event StatsChanged) {
	ctx = context.WithoutCancel(ctx)
	a.enqueue(ctx, "stats_changed", event.CharacterID, func() {
		a.next.StatsChanged(ctx, event)
	})
}

func (a *Async) enqueue(ctx context.Context, kind, characterID string, fn func()) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.queue <- fn:
	default:
		slog.WarnContext(ctx, "hook queue full, dropping notification",
			"hook", kind,
			"character_id", characterID)
	}
}

// Close stops accepting notifications and waits until the queued ones are delivered
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
