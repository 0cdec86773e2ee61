package abilities

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Roller produces one die result
type Roller func() (int, error)

// D20 rolls a twenty-sided die
func D20() (int, error) {
	roll, err := dice.NewRoll(1, 20)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create d20 roll")
	}
	return roll.GetValue(), nil
}

// FumbleConfig configures a FumbleActivator
type FumbleConfig struct {
	// Roller defaults to D20
	Roller Roller
	// FumbleOn is the highest roll that fails the activation, 0 never fails
	FumbleOn int
}

// FumbleActivator is a stand-in effect system: the activation fails when the roll is at or
// below FumbleOn. Hosts without a combat system use it to exercise the gate's refund path.
type FumbleActivator struct {
	roll     Roller
	fumbleOn int
}

// NewFumbleActivator creates a FumbleActivator
func NewFumbleActivator(cfg *FumbleConfig) (*FumbleActivator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.FumbleOn < 0 {
		return nil, errors.InvalidArgumentf("fumble threshold must not be negative, got %d", cfg.FumbleOn)
	}
	roll := cfg.Roller
	if roll == nil {
		roll = D20
	}
	return &FumbleActivator{roll: roll, fumbleOn: cfg.FumbleOn}, nil
}

// Activate implements Activator
func (f *FumbleActivator) Activate(ctx context.Context, activation *Activation) bool {
	if f.fumbleOn == 0 {
		return true
	}

	value, err := f.roll()
	if err != nil {
		slog.WarnContext(ctx, "activation roll failed",
			"character_id", activation.CharacterID,
			"ability_id", activation.AbilityID,
			"error", err)
		return false
	}
	if value <= f.fumbleOn {
		slog.InfoContext(ctx, "ability fumbled",
			"character_id", activation.CharacterID,
			"ability_id", activation.AbilityID,
			"roll", value)
		return false
	}
	return true
}
