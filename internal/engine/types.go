package engine

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

// Snapshot is the fully resolved set of effective stats for one instant.
// It is a value: consumers copy it and never mutate a shared instance.
type Snapshot struct {
	Level      int
	Attributes entities.Attributes

	// Vitals
	MaxHealth   int
	MaxMana     int
	Defense     int
	AttackPower int
	// Regeneration per second
	HealthRegen float64
	ManaRegen   float64

	// Combat and utility, in percentage points
	CritChance          float64
	CritDamage          float64
	Lifesteal           float64
	DropRate            float64
	RareDropRate        float64
	ExperienceGain      float64
	SkillExperienceGain float64
	CooldownReduction   float64

	// Speeds
	MovementSpeed  float64
	GatheringSpeed float64
	AttackSpeed    float64
	AttackInterval time.Duration
}

// StatsInput carries every modifier source of one aggregation pass
type StatsInput struct {
	Level     int
	Base      entities.Attributes
	Equipment entities.EquipmentBonuses
	// Buffs must already be filtered to the active ones
	Buffs     []entities.Buff
	Modifiers talents.Modifiers
	Carry     entities.CarryState
}

// StatsOutput is the result of an aggregation pass
type StatsOutput struct {
	Snapshot Snapshot
	// Carry is the remainder state to thread into the next committed aggregation
	Carry entities.CarryState
}

// SourcesInput carries the non-talent modifier sources of a character.
// The character's ledger is compiled on every call.
type SourcesInput struct {
	Character *entities.Character
	Equipment entities.EquipmentBonuses
	Buffs     []entities.Buff
}

// LevelUpInput carries a character experience grant.
// Equipment and Buffs are used to recompute resource maxima after each level.
type LevelUpInput struct {
	Character *entities.Character
	Amount    int
	Equipment entities.EquipmentBonuses
	Buffs     []entities.Buff
}

// LevelUpOutput reports what a character experience grant changed
type LevelUpOutput struct {
	LevelsGained int
	// PointsGranted maps each funded group to the points it received
	PointsGranted map[string]int
	// Growth is the total base attribute increase
	Growth entities.Attributes
	// Snapshot is recomputed after the last level, zero when no level was gained
	Snapshot Snapshot
}

// SkillUpInput carries a skill experience grant
type SkillUpInput struct {
	Character *entities.Character
	Skill     string
	Amount    int
}

// SkillUpOutput reports what a skill experience grant changed
type SkillUpOutput struct {
	LevelsGained  int
	PointsGranted map[string]int
}

// RegenInput carries one regeneration tick
type RegenInput struct {
	Character *entities.Character
	Snapshot  Snapshot
	Elapsed   time.Duration
}

// RegenOutput reports the resources restored by one tick
type RegenOutput struct {
	HealthGained int
	ManaGained   int
}
