// Package abilities gates ability activation on learned state, mana and cooldowns
package abilities

import (
	"context"
	"log/slog"
	"time"

	"github.com/looplab/fsm"

	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

//go:generate mockgen -destination=mock/mock_activator.go -package=abilitiesmock github.com/KirkDiggler/rpg-progression/internal/abilities Activator

// Activation states
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateCommitted  = "committed"
	StateRejected   = "rejected"
)

const (
	eventValidate = "validate"
	eventCommit   = "commit"
	eventReject   = "reject"
)

// Activation describes an ability handed to the effect system
type Activation struct {
	CharacterID string
	AbilityID   string
	Snapshot    engine.Snapshot
}

// Activator runs the effect of an ability. Its result is authoritative:
// false means the effect did not happen.
type Activator interface {
	Activate(ctx context.Context, activation *Activation) bool
}

// ActivatorFunc adapts a function to Activator
type ActivatorFunc func(ctx context.Context, activation *Activation) bool

// Activate calls f
func (f ActivatorFunc) Activate(ctx context.Context, activation *Activation) bool {
	return f(ctx, activation)
}

// Config configures a Gate
type Config struct {
	Registry  *talents.Registry
	Activator Activator
	Clock     clock.Clock
}

// Validate checks the configuration and fills defaults
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Registry == nil {
		vb.RequiredField("Registry")
	}
	if cfg.Activator == nil {
		vb.RequiredField("Activator")
	}
	if err := vb.Build(); err != nil {
		return err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return nil
}

// Gate validates and commits ability activations. It mutates the character it is given and
// relies on the caller to serialize calls per character.
type Gate struct {
	registry  *talents.Registry
	activator Activator
	clock     clock.Clock
}

// New creates a Gate
func New(cfg *Config) (*Gate, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gate{
		registry:  cfg.Registry,
		activator: cfg.Activator,
		clock:     cfg.Clock,
	}, nil
}

// ActivateInput carries one activation request
type ActivateInput struct {
	Character *entities.Character
	AbilityID string
	// Snapshot supplies the global cooldown reduction
	Snapshot engine.Snapshot
}

// ActivateOutput reports a committed activation
type ActivateOutput struct {
	State     string
	ManaSpent int
	Cooldown  time.Duration
	// ReadyAt is zero when no cooldown was recorded
	ReadyAt time.Time
}

// ActivateSlotInput activates whatever ability sits on an ability-bar slot
type ActivateSlotInput struct {
	Character *entities.Character
	Slot      int
	Snapshot  engine.Snapshot
}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventValidate, Src: []string{StateIdle}, Dst: StateValidating},
			{Name: eventCommit, Src: []string{StateValidating}, Dst: StateCommitted},
			{Name: eventReject, Src: []string{StateValidating}, Dst: StateRejected},
		},
		fsm.Callbacks{},
	)
}

// Activate runs the activation state machine: validate learned state, mana and cooldown in that
// order, deduct mana, run the effect, then commit the cooldown or refund on failure.
func (g *Gate) Activate(ctx context.Context, input *ActivateInput) (*ActivateOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.AbilityID == "" {
		return nil, errors.InvalidArgument("ability id is required")
	}

	machine := newMachine()
	if err := machine.Event(ctx, eventValidate); err != nil {
		return nil, errors.Wrap(err, "failed to start activation")
	}

	char := input.Character
	def, err := g.validate(char, input.AbilityID)
	if err != nil {
		g.transition(ctx, machine, eventReject)
		slog.DebugContext(ctx, "ability activation rejected",
			"character_id", char.ID,
			"ability_id", input.AbilityID,
			"code", errors.GetCode(err),
			"state", machine.Current())
		return nil, err
	}

	cost := def.ManaCost
	char.Resources.Mana -= cost

	activation := &Activation{
		CharacterID: char.ID,
		AbilityID:   input.AbilityID,
		Snapshot:    input.Snapshot,
	}
	if !g.activator.Activate(ctx, activation) {
		char.Resources.Mana += cost
		g.transition(ctx, machine, eventReject)
		return nil, errors.ActivationFailedf("ability %s failed to activate", input.AbilityID).
			WithMeta("ability_id", input.AbilityID)
	}

	mods := talents.Compile(&char.Talents, g.registry)
	cooldown := EffectiveCooldown(def.Cooldown, input.AbilityID, mods, input.Snapshot.CooldownReduction)

	output := &ActivateOutput{ManaSpent: cost, Cooldown: cooldown}
	if cooldown > 0 {
		output.ReadyAt = g.clock.Now().Add(cooldown)
		talents.NewLedger(g.registry, &char.Talents).SetCooldown(input.AbilityID, output.ReadyAt)
	}

	g.transition(ctx, machine, eventCommit)
	output.State = machine.Current()

	slog.InfoContext(ctx, "ability activated",
		"character_id", char.ID,
		"ability_id", input.AbilityID,
		"mana_spent", cost,
		"cooldown", cooldown)

	return output, nil
}

// ActivateSlot activates the ability assigned to an ability-bar slot
func (g *Gate) ActivateSlot(ctx context.Context, input *ActivateSlotInput) (*ActivateOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Slot < 0 || input.Slot >= entities.AbilityBarSize {
		return nil, errors.InvalidArgumentf("slot must be between 0 and %d", entities.AbilityBarSize-1)
	}
	abilityID := input.Character.Talents.AbilityBar[input.Slot]
	if abilityID == "" {
		return nil, errors.InvalidArgumentf("slot %d is empty", input.Slot)
	}
	return g.Activate(ctx, &ActivateInput{
		Character: input.Character,
		AbilityID: abilityID,
		Snapshot:  input.Snapshot,
	})
}

func (g *Gate) validate(char *entities.Character, abilityID string) (*talents.Definition, error) {
	if !char.Talents.IsLearned(abilityID) {
		return nil, errors.NotLearnedf("ability %s is not learned", abilityID).
			WithMeta("ability_id", abilityID)
	}

	def, ok := g.registry.Ability(abilityID)
	if !ok {
		return nil, errors.NotFoundf("ability %s not found", abilityID)
	}

	if def.ManaCost > 0 && char.Resources.Mana < def.ManaCost {
		return nil, errors.InsufficientManaf("ability %s needs %d mana, have %d",
			abilityID, def.ManaCost, char.Resources.Mana).
			WithMeta("ability_id", abilityID).
			WithMeta("mana_cost", def.ManaCost)
	}

	if expiry, ok := char.Talents.CooldownExpiry(abilityID); ok {
		if remaining := expiry.Sub(g.clock.Now()); remaining > 0 {
			return nil, errors.OnCooldownf("ability %s is on cooldown for %s", abilityID, remaining).
				WithMeta("ability_id", abilityID).
				WithMeta("ready_at", expiry.Unix())
		}
	}

	return def, nil
}

func (g *Gate) transition(ctx context.Context, machine *fsm.FSM, event string) {
	if err := machine.Event(ctx, event); err != nil {
		slog.ErrorContext(ctx, "invalid activation transition",
			"event", event,
			"state", machine.Current(),
			"error", err)
	}
}

// EffectiveCooldown resolves the cooldown of an ability. A flat modifier on the ability's
// cooldown key replaces the base duration in seconds; otherwise a percent modifier on that key
// shortens it. The global cooldown reduction, in percentage points, applies last.
// A non-positive result means no cooldown.
func EffectiveCooldown(base time.Duration, abilityID string, mods talents.Modifiers, reduction float64) time.Duration {
	seconds := base.Seconds()

	m := mods.Get(entities.CooldownKey(abilityID))
	switch {
	case m.Flat != 0:
		seconds = m.Flat
	case m.Percent != 0:
		seconds *= 1 - m.Percent/100
	}

	seconds *= 1 - reduction/100
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
