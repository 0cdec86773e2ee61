// Package hooks defines the collaborators notified when a character's talents or stats change
package hooks

import (
	"context"

	"github.com/KirkDiggler/rpg-progression/internal/engine"
)

//go:generate mockgen -destination=mock/mock_hooks.go -package=hooksmock github.com/KirkDiggler/rpg-progression/internal/hooks Hooks

// TalentLearned is raised on every rank increase of a talent
type TalentLearned struct {
	CharacterID string
	GroupID     string
	TalentID    string
	Rank        int
	// Ability is set when the rank increase learned an active ability
	Ability bool
}

// StatsChanged carries the snapshot produced by a recomputation that changed it
type StatsChanged struct {
	CharacterID string
	Version     int64
	Snapshot    engine.Snapshot
}

// Hooks receives progression notifications. Implementations must not block the caller
// for long and must not call back into the orchestrator.
type Hooks interface {
	TalentLearned(ctx context.Context, event TalentLearned)
	StatsChanged(ctx context.Context, event StatsChanged)
}

// Noop ignores every notification
type Noop struct{}

// TalentLearned does nothing
func (Noop) TalentLearned(context.Context, TalentLearned) {}

// StatsChanged does nothing
func (Noop) StatsChanged(context.Context, StatsChanged) {}

// Multi fans notifications out to several hooks in order
type Multi []Hooks

// TalentLearned notifies every hook
func (m Multi) TalentLearned(ctx context.Context, event TalentLearned) {
	for _, h := range m {
		h.TalentLearned(ctx, event)
	}
}

// StatsChanged notifies every hook
func (m Multi) StatsChanged(ctx context.Context, event StatsChanged) {
	for _, h := range m {
		h.StatsChanged(ctx, event)
	}
}
