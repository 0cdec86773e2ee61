// Package ticker drives periodic regeneration of every character with an open session
package ticker

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
)

//go:generate mockgen -destination=mock/mock_sessions.go -package=tickermock github.com/KirkDiggler/rpg-progression/internal/services/ticker Sessions

// DefaultInterval is the regeneration period used when none is configured
const DefaultInterval = time.Second

// Sessions is the part of the character orchestrator the loop drives
type Sessions interface {
	ActiveSessions() []string
	Tick(ctx context.Context, input *character.TickInput) (*character.TickOutput, error)
	CloseSession(ctx context.Context, input *character.CloseSessionInput) (*character.CloseSessionOutput, error)
}

// Config configures the regeneration loop
type Config struct {
	Sessions Sessions
	Interval time.Duration
	Clock    clock.Clock
}

// Validate checks the configuration and fills defaults
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if cfg.Interval < 0 {
		vb.Field("Interval", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return nil
}

// Ticker regenerates active characters once per interval
type Ticker struct {
	sessions Sessions
	interval time.Duration
	clock    clock.Clock
}

// New creates a Ticker
func New(cfg *Config) (*Ticker, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ticker{
		sessions: cfg.Sessions,
		interval: cfg.Interval,
		clock:    cfg.Clock,
	}, nil
}

// Run ticks until ctx is done. Each step passes the wall time elapsed since the previous one,
// so a slow step does not lose regeneration.
func (t *Ticker) Run(ctx context.Context) error {
	timer := time.NewTicker(t.interval)
	defer timer.Stop()

	slog.InfoContext(ctx, "regeneration loop started", "interval", t.interval)

	last := t.clock.Now()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "regeneration loop stopped")
			return nil
		case <-timer.C:
			now := t.clock.Now()
			t.Step(ctx, now.Sub(last))
			last = now
		}
	}
}

// StepResult summarizes one pass over the active sessions
type StepResult struct {
	Ticked    int
	Persisted int
	Closed    int
	Failed    int
}

// Step ticks every active session once. A character that no longer exists has its session closed;
// other failures are logged and retried on the next step.
func (t *Ticker) Step(ctx context.Context, elapsed time.Duration) StepResult {
	var result StepResult
	if elapsed <= 0 {
		return result
	}

	for _, id := range t.sessions.ActiveSessions() {
		if ctx.Err() != nil {
			break
		}

		out, err := t.sessions.Tick(ctx, &character.TickInput{CharacterID: id, Elapsed: elapsed})
		if err != nil {
			if errors.IsNotFound(err) {
				t.close(ctx, id)
				result.Closed++
				continue
			}
			slog.ErrorContext(ctx, "regeneration tick failed",
				"character_id", id,
				"error", err)
			result.Failed++
			continue
		}

		result.Ticked++
		if out.Persisted {
			result.Persisted++
		}
	}

	if result.Failed > 0 || result.Closed > 0 {
		slog.WarnContext(ctx, "regeneration step finished with problems",
			"ticked", result.Ticked,
			"failed", result.Failed,
			"closed", result.Closed)
	}
	return result
}

func (t *Ticker) close(ctx context.Context, id string) {
	if _, err := t.sessions.CloseSession(ctx, &character.CloseSessionInput{CharacterID: id}); err != nil {
		slog.WarnContext(ctx, "failed to close session of missing character",
			"character_id", id,
			"error", err)
	}
}
