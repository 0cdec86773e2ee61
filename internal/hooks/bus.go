package hooks

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Event types published on the bus
const (
	EventTalentLearned = "progression.talent_learned"
	EventStatsChanged  = "progression.stats_changed"
)

// payloadKey is the event context key holding the notification struct
const payloadKey = "payload"

// BusConfig configures the event bus publisher
type BusConfig struct {
	EventBus events.EventBus
}

// Validate checks the configuration
func (cfg *BusConfig) Validate() error {
	if cfg.EventBus == nil {
		return errors.InvalidArgument("event bus is required")
	}
	return nil
}

// Bus publishes notifications as rpg-toolkit events so quest and UI subsystems can subscribe
type Bus struct {
	bus events.EventBus
}

// NewBus creates a bus-backed Hooks implementation
func NewBus(cfg *BusConfig) (*Bus, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Bus{bus: cfg.EventBus}, nil
}

// TalentLearned publishes EventTalentLearned
func (b *Bus) TalentLearned(ctx context.Context, event TalentLearned) {
	b.publish(ctx, EventTalentLearned, event.CharacterID, event)
}

// StatsChanged publishes EventStatsChanged
func (b *Bus) StatsChanged(ctx context.Context, event StatsChanged) {
	b.publish(ctx, EventStatsChanged, event.CharacterID, event)
}

func (b *Bus) publish(ctx context.Context, eventType, characterID string, payload any) {
	source := &CharacterEntity{ID: characterID}
	e := events.NewGameEvent(eventType, source, nil)
	e.Context().Set(payloadKey, payload)

	if err := b.bus.Publish(ctx, e); err != nil {
		// Notifications are best effort; a failing subscriber never fails the mutation
		slog.WarnContext(ctx, "failed to publish progression event",
			"event_type", eventType,
			"character_id", characterID,
			"error", err)
	}
}

// TalentLearnedFrom extracts the notification carried by an EventTalentLearned event
func TalentLearnedFrom(e events.Event) (TalentLearned, bool) {
	return payloadFrom[TalentLearned](e)
}

// StatsChangedFrom extracts the notification carried by an EventStatsChanged event
func StatsChangedFrom(e events.Event) (StatsChanged, bool) {
	return payloadFrom[StatsChanged](e)
}

func payloadFrom[T any](e events.Event) (T, bool) {
	var zero T
	if e == nil || e.Context() == nil {
		return zero, false
	}
	raw, ok := e.Context().Get(payloadKey)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
