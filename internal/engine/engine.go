// Package engine turns a character's persisted state into effective stats and advances its
// level, skill and resource counters.
package engine

import (
	"context"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-progression/internal/engine Engine

// Engine is the rules surface consumed by the orchestrator
type Engine interface {
	// EffectiveStats aggregates every modifier source into a Snapshot
	EffectiveStats(input *StatsInput) *StatsOutput

	// Stats compiles the character's talents and aggregates them with the given sources
	Stats(input *SourcesInput) *StatsOutput

	// ApplyCharacterExperience adds experience to the character counter and applies every level gained
	ApplyCharacterExperience(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error)

	// ApplySkillExperience adds experience to a named skill counter
	ApplySkillExperience(ctx context.Context, input *SkillUpInput) (*SkillUpOutput, error)

	// Regenerate restores health and mana for the elapsed time
	Regenerate(input *RegenInput) *RegenOutput
}

// Config holds the rules tables the engine resolves against
type Config struct {
	Registry *talents.Registry

	// PointsPerLevel is granted to every unlocked group per character level gained
	PointsPerLevel int
	// PointsPerSkillLevel is granted to every unlocked group per skill level gained
	PointsPerSkillLevel int
}

// Validate checks the configuration and fills defaults
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Registry == nil {
		vb.RequiredField("Registry")
	}
	if cfg.PointsPerLevel < 0 {
		vb.Field("PointsPerLevel", "must not be negative")
	}
	if cfg.PointsPerSkillLevel < 0 {
		vb.Field("PointsPerSkillLevel", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.PointsPerLevel == 0 {
		cfg.PointsPerLevel = DefaultPointsPerLevel
	}
	if cfg.PointsPerSkillLevel == 0 {
		cfg.PointsPerSkillLevel = DefaultPointsPerSkillLevel
	}
	return nil
}

type engine struct {
	registry            *talents.Registry
	pointsPerLevel      int
	pointsPerSkillLevel int
}

// New creates an engine over the given definitions
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{
		registry:            cfg.Registry,
		pointsPerLevel:      cfg.PointsPerLevel,
		pointsPerSkillLevel: cfg.PointsPerSkillLevel,
	}, nil
}

func (e *engine) EffectiveStats(input *StatsInput) *StatsOutput {
	if input == nil {
		input = &StatsInput{}
	}
	out := Aggregate(*input)
	return &out
}

func (e *engine) Stats(input *SourcesInput) *StatsOutput {
	if input == nil || input.Character == nil {
		return e.EffectiveStats(nil)
	}
	char := input.Character
	return e.EffectiveStats(&StatsInput{
		Level:     char.Level,
		Base:      char.Base,
		Equipment: input.Equipment,
		Buffs:     input.Buffs,
		Modifiers: talents.Compile(&char.Talents, e.registry),
		Carry:     char.SnapshotCarry,
	})
}
