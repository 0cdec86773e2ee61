package testutils

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/builders"
)

// Progression stages for testing
const (
	StageFresh    = "fresh"
	StageLeveled  = "leveled"
	StageEquipped = "equipped"
	StageBuffed   = "buffed"
	StageDepleted = "depleted"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Ayla Brightwood"
)

// TestNow is the fixed instant fixtures are built around
var TestNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter creates a level 1 character with sensible defaults
func CreateTestCharacter(playerID string) *entities.Character {
	return builders.NewCharacterBuilder().
		WithID("char-test-001").
		WithPlayerID(playerID).
		WithName(TestCharacterName).
		WithClass("warrior").
		WithResources(135, 135, 75, 75).
		Build()
}

// CreateTestCharacterAtStage creates a test character at various points of progression
func CreateTestCharacterAtStage(playerID string, stage string) *entities.Character {
	char := CreateTestCharacter(playerID)

	switch stage {
	case StageLeveled:
		char.Level = 5
		char.ExperienceToNext = 244
		char.Talents.Pools = map[string]entities.PointPool{"general": {Earned: 12}, "warrior": {Earned: 12}}

	case StageEquipped:
		char.Equipment = map[entities.Slot]string{
			entities.SlotWeapon:  "rusty_sword",
			entities.SlotOffhand: "wooden_shield",
		}

	case StageBuffed:
		char.Buffs = []entities.Buff{
			{ID: "war_cry", StatBonus: entities.Attributes{Strength: 3}, ExpiresAt: TestNow.Add(30 * time.Second)},
			{ID: "blessing", StatBonus: entities.Attributes{Vitality: 2}},
		}

	case StageDepleted:
		char.Resources.Health = 10
		char.Resources.Mana = 0
	}

	return char
}
