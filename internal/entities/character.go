// Package entities holds the persisted state of a character and its talent ledger
package entities

import "time"

// InitialExperienceToNext is the threshold of a fresh level or skill counter.
const InitialExperienceToNext = 100

// Slot identifies an equipment slot
type Slot string

// Equipment slots
const (
	SlotWeapon  Slot = "weapon"
	SlotOffhand Slot = "offhand"
	SlotHead    Slot = "head"
	SlotChest   Slot = "chest"
	SlotLegs    Slot = "legs"
	SlotFeet    Slot = "feet"
	SlotHands   Slot = "hands"
	SlotRing    Slot = "ring"
	SlotAmulet  Slot = "amulet"
	SlotTool    Slot = "tool"
)

// AllSlots lists every valid equipment slot
var AllSlots = []Slot{
	SlotWeapon, SlotOffhand, SlotHead, SlotChest, SlotLegs,
	SlotFeet, SlotHands, SlotRing, SlotAmulet, SlotTool,
}

// IsValid reports whether the slot is known
func (s Slot) IsValid() bool {
	for _, known := range AllSlots {
		if s == known {
			return true
		}
	}
	return false
}

// SkillProgress is the level counter of one named skill
type SkillProgress struct {
	Level            int `json:"level"`
	Experience       int `json:"experience"`
	ExperienceToNext int `json:"experience_to_next"`
}

// Resources holds live resource values and their persisted maxima
type Resources struct {
	Health    int `json:"health"`
	Mana      int `json:"mana"`
	MaxHealth int `json:"max_health"`
	MaxMana   int `json:"max_mana"`
}

// Buff is a temporary stat bonus. A zero ExpiresAt never expires.
type Buff struct {
	ID           string     `json:"id"`
	Source       string     `json:"source,omitempty"`
	StatBonus    Attributes `json:"stat_bonus"`
	DefenseBonus int        `json:"defense_bonus,omitempty"`
	// SpeedBonus is added to movement speed while active
	SpeedBonus float64   `json:"speed_bonus,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// IsActive reports whether the buff still applies at now
func (b Buff) IsActive(now time.Time) bool {
	return b.ExpiresAt.IsZero() || now.Before(b.ExpiresAt)
}

// Character is the aggregate root of the progression engine
type Character struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name"`
	Class    string `json:"class,omitempty"`
	Subclass string `json:"subclass,omitempty"`

	Base Attributes `json:"base"`

	Level            int                       `json:"level"`
	Experience       int                       `json:"experience"`
	ExperienceToNext int                       `json:"experience_to_next"`
	Skills           map[string]*SkillProgress `json:"skills,omitempty"`

	Equipment map[Slot]string `json:"equipment,omitempty"`
	Buffs     []Buff          `json:"buffs,omitempty"`

	Talents   TalentLedger `json:"talents"`
	Resources Resources    `json:"resources"`

	// AttributeCarry threads percent remainders into the next committed aggregation
	AttributeCarry CarryState `json:"attribute_carry,omitempty"`
	// SnapshotCarry is the carry the current effective stats were aggregated from.
	// Reads aggregate from it so every read of a version yields the same snapshot.
	SnapshotCarry CarryState `json:"snapshot_carry,omitempty"`
	// GrowthCarry threads per-level attribute growth remainders
	GrowthCarry CarryState `json:"growth_carry,omitempty"`
	// RegenCarry threads regeneration remainders between ticks
	RegenCarry CarryState `json:"regen_carry,omitempty"`

	// Version increments on every persisted mutation
	Version   int64 `json:"version"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewCharacter returns a level 1 character with empty progression state
func NewCharacter(id, name string, base Attributes) *Character {
	return &Character{
		ID:               id,
		Name:             name,
		Base:             base,
		Level:            1,
		ExperienceToNext: InitialExperienceToNext,
		Skills:           map[string]*SkillProgress{},
		Equipment:        map[Slot]string{},
	}
}

// Skill returns the progress of a skill, creating a fresh counter when absent
func (c *Character) Skill(name string) *SkillProgress {
	if c.Skills == nil {
		c.Skills = map[string]*SkillProgress{}
	}
	s, ok := c.Skills[name]
	if !ok {
		s = &SkillProgress{Level: 1, ExperienceToNext: InitialExperienceToNext}
		c.Skills[name] = s
	}
	return s
}
