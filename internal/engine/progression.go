package engine

import (
	"context"
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

// Progression defaults
const (
	DefaultPointsPerLevel      = 3
	DefaultPointsPerSkillLevel = 1

	thresholdGrowth = 1.25
)

// Counter is a level/experience pair with its next threshold
type Counter struct {
	Level            int
	Experience       int
	ExperienceToNext int
}

// AddExperience adds amount and consumes every threshold it crosses.
// It returns the number of levels gained.
func (c *Counter) AddExperience(amount int) int {
	if amount <= 0 {
		return 0
	}
	if c.ExperienceToNext <= 0 {
		c.ExperienceToNext = entities.InitialExperienceToNext
	}
	if c.Level < 1 {
		c.Level = 1
	}

	c.Experience += amount
	gained := 0
	for c.Experience >= c.ExperienceToNext {
		c.Experience -= c.ExperienceToNext
		c.Level++
		gained++
		c.ExperienceToNext = nextThreshold(c.ExperienceToNext)
	}
	return gained
}

// ScaleExperience applies an experience gain bonus, in percentage points, to a grant
func ScaleExperience(amount int, bonus float64) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Floor(float64(amount) * (1 + bonus/100)))
}

func nextThreshold(current int) int {
	next := int(math.Floor(float64(current) * thresholdGrowth))
	if next <= current {
		// thresholds strictly increase even for tiny values
		return current + 1
	}
	return next
}

func (e *engine) ApplyCharacterExperience(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgumentf("experience amount must be positive, got %d", input.Amount)
	}

	char := input.Character
	counter := Counter{
		Level:            char.Level,
		Experience:       char.Experience,
		ExperienceToNext: char.ExperienceToNext,
	}
	startLevel := max(counter.Level, 1)
	gained := counter.AddExperience(input.Amount)

	output := &LevelUpOutput{PointsGranted: map[string]int{}}
	ledger := talents.NewLedger(e.registry, &char.Talents)
	growth := e.registry.Growth(char.Class)

	for i := 0; i < gained; i++ {
		char.Level = startLevel + i + 1

		step := applyGrowth(char, growth)
		output.Growth = output.Growth.Plus(step)

		funded, err := ledger.GrantUnlocked(char.Class, char.Subclass, e.pointsPerLevel)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to grant level %d points", char.Level)
		}
		for _, id := range funded {
			output.PointsGranted[id] += e.pointsPerLevel
		}

		output.Snapshot = e.Stats(&SourcesInput{
			Character: char,
			Equipment: input.Equipment,
			Buffs:     input.Buffs,
		}).Snapshot
		RaiseResources(&char.Resources, output.Snapshot)
	}

	char.Level = counter.Level
	char.Experience = counter.Experience
	char.ExperienceToNext = counter.ExperienceToNext
	output.LevelsGained = gained

	if gained > 0 {
		slog.InfoContext(ctx, "character leveled up",
			"character_id", char.ID,
			"level", char.Level,
			"levels_gained", gained)
	}

	return output, nil
}

// applyGrowth adds one level of class growth to the base attributes, threading the fractional carry
func applyGrowth(char *entities.Character, growth talents.Growth) entities.Attributes {
	var step entities.Attributes
	for _, attr := range entities.AllAttributes {
		key := attr.String()
		v := growth.Get(attr) + char.GrowthCarry.Get(key)
		whole := math.Floor(v)
		char.GrowthCarry = char.GrowthCarry.With(key, v-whole)
		step.Set(attr, int(whole))
	}
	char.Base = char.Base.Plus(step)
	return step
}

func (e *engine) ApplySkillExperience(ctx context.Context, input *SkillUpInput) (*SkillUpOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Skill == "" {
		return nil, errors.InvalidArgument("skill is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgumentf("experience amount must be positive, got %d", input.Amount)
	}

	char := input.Character
	skill := char.Skill(input.Skill)
	counter := Counter{
		Level:            skill.Level,
		Experience:       skill.Experience,
		ExperienceToNext: skill.ExperienceToNext,
	}
	gained := counter.AddExperience(input.Amount)
	skill.Level = counter.Level
	skill.Experience = counter.Experience
	skill.ExperienceToNext = counter.ExperienceToNext

	output := &SkillUpOutput{LevelsGained: gained, PointsGranted: map[string]int{}}
	if gained == 0 {
		return output, nil
	}

	ledger := talents.NewLedger(e.registry, &char.Talents)
	funded, err := ledger.GrantUnlocked(char.Class, char.Subclass, gained*e.pointsPerSkillLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to grant %s skill points", input.Skill)
	}
	for _, id := range funded {
		output.PointsGranted[id] = gained * e.pointsPerSkillLevel
	}

	slog.InfoContext(ctx, "skill leveled up",
		"character_id", char.ID,
		"skill", input.Skill,
		"level", skill.Level,
		"levels_gained", gained)

	return output, nil
}

// SyncResources stores new maxima. When a maximum grows the current value grows by the same amount;
// when it shrinks the current value is clamped to it.
func SyncResources(res *entities.Resources, snap Snapshot) {
	res.Health, res.MaxHealth = syncResource(res.Health, res.MaxHealth, snap.MaxHealth)
	res.Mana, res.MaxMana = syncResource(res.Mana, res.MaxMana, snap.MaxMana)
}

// RaiseResources stores new maxima after a level-up. Current values grow with an increased maximum
// and are never reduced.
func RaiseResources(res *entities.Resources, snap Snapshot) {
	res.Health, res.MaxHealth = raiseResource(res.Health, res.MaxHealth, snap.MaxHealth)
	res.Mana, res.MaxMana = raiseResource(res.Mana, res.MaxMana, snap.MaxMana)
}

func raiseResource(current, oldMax, newMax int) (int, int) {
	if newMax > oldMax {
		current += newMax - oldMax
	}
	return current, newMax
}

func syncResource(current, oldMax, newMax int) (int, int) {
	if newMax > oldMax {
		current += newMax - oldMax
	}
	if current > newMax {
		current = newMax
	}
	if current < 0 {
		current = 0
	}
	return current, newMax
}
