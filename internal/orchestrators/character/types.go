package character

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/abilities"
	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
)

// Service defines the character orchestrator interface
type Service interface {
	// Character lifecycle
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// Stats
	GetEffectiveStats(ctx context.Context, input *GetEffectiveStatsInput) (*GetEffectiveStatsOutput, error)

	// Talents
	AllocateTalent(ctx context.Context, input *AllocateTalentInput) (*AllocateTalentOutput, error)
	DeallocateTalent(ctx context.Context, input *DeallocateTalentInput) (*DeallocateTalentOutput, error)
	Respec(ctx context.Context, input *RespecInput) (*RespecOutput, error)
	GrantTalentPoints(ctx context.Context, input *GrantTalentPointsInput) (*GrantTalentPointsOutput, error)
	GrantRarePoints(ctx context.Context, input *GrantRarePointsInput) (*GrantRarePointsOutput, error)

	// Ability bar and activation
	AssignAbility(ctx context.Context, input *AssignAbilityInput) (*AssignAbilityOutput, error)
	ClearAbilitySlot(ctx context.Context, input *ClearAbilitySlotInput) (*ClearAbilitySlotOutput, error)
	ActivateAbility(ctx context.Context, input *ActivateAbilityInput) (*ActivateAbilityOutput, error)

	// Progression
	GrantExperience(ctx context.Context, input *GrantExperienceInput) (*GrantExperienceOutput, error)
	GrantSkillExperience(ctx context.Context, input *GrantSkillExperienceInput) (*GrantSkillExperienceOutput, error)

	// Modifier sources
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)
	AddBuff(ctx context.Context, input *AddBuffInput) (*AddBuffOutput, error)

	// Sessions and regeneration
	OpenSession(ctx context.Context, input *OpenSessionInput) (*OpenSessionOutput, error)
	CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error)
	ActiveSessions() []string
	Tick(ctx context.Context, input *TickInput) (*TickOutput, error)
}

// Character lifecycle types

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	PlayerID string
	Name     string
	Class    string
	Subclass string
	Base     entities.Attributes
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
	Snapshot  engine.Snapshot
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
}

// ListCharactersInput defines the request for listing a player's characters
type ListCharactersInput struct {
	PlayerID string
}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*entities.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct{}

// GetEffectiveStatsInput defines the request for a character's effective stats
type GetEffectiveStatsInput struct {
	CharacterID string
}

// GetEffectiveStatsOutput defines the response for effective stats
type GetEffectiveStatsOutput struct {
	Snapshot engine.Snapshot
	// Cached is set when the snapshot came from the cache
	Cached bool
}

// Talent types

// AllocateTalentInput defines the request for spending a point on a talent
type AllocateTalentInput struct {
	CharacterID string
	GroupID     string
	TalentID    string
}

// AllocateTalentOutput defines the response for allocating a talent
type AllocateTalentOutput struct {
	Rank     int
	Unspent  int
	Learned  bool
	Snapshot engine.Snapshot
}

// DeallocateTalentInput defines the request for refunding a point from a talent
type DeallocateTalentInput struct {
	CharacterID string
	GroupID     string
	TalentID    string
}

// DeallocateTalentOutput defines the response for deallocating a talent
type DeallocateTalentOutput struct {
	Rank     int
	Unspent  int
	Snapshot engine.Snapshot
}

// RespecInput defines the request for resetting a talent group
type RespecInput struct {
	CharacterID string
	GroupID     string
}

// RespecOutput defines the response for a respec
type RespecOutput struct {
	Refunded int
	Unspent  int
	Snapshot engine.Snapshot
}

// GrantTalentPointsInput defines the request for granting points to a group
type GrantTalentPointsInput struct {
	CharacterID string
	GroupID     string
	Amount      int
}

// GrantTalentPointsOutput defines the response for granting points
type GrantTalentPointsOutput struct {
	Unspent int
}

// GrantRarePointsInput defines the request for granting rare currency
type GrantRarePointsInput struct {
	CharacterID string
	Amount      int
}

// GrantRarePointsOutput defines the response for granting rare currency
type GrantRarePointsOutput struct {
	Unspent int
}

// Ability types

// AssignAbilityInput defines the request for placing an ability on the bar
type AssignAbilityInput struct {
	CharacterID string
	Slot        int
	AbilityID   string
}

// AssignAbilityOutput defines the response for assigning an ability
type AssignAbilityOutput struct {
	AbilityBar [entities.AbilityBarSize]string
}

// ClearAbilitySlotInput defines the request for emptying an ability-bar slot
type ClearAbilitySlotInput struct {
	CharacterID string
	Slot        int
}

// ClearAbilitySlotOutput defines the response for clearing a slot
type ClearAbilitySlotOutput struct {
	AbilityBar [entities.AbilityBarSize]string
}

// ActivateAbilityInput defines the request for activating an ability.
// Slot is used when AbilityID is empty.
type ActivateAbilityInput struct {
	CharacterID string
	AbilityID   string
	Slot        int
}

// ActivateAbilityOutput defines the response for an activation
type ActivateAbilityOutput struct {
	Result *abilities.ActivateOutput
	Mana   int
}

// Progression types

// GrantExperienceInput defines the request for granting character experience
type GrantExperienceInput struct {
	CharacterID string
	Amount      int
}

// GrantExperienceOutput defines the response for granting experience
type GrantExperienceOutput struct {
	// Granted is the amount after the experience gain bonus
	Granted       int
	Level         int
	LevelsGained  int
	PointsGranted map[string]int
	Snapshot      engine.Snapshot
}

// GrantSkillExperienceInput defines the request for granting skill experience
type GrantSkillExperienceInput struct {
	CharacterID string
	Skill       string
	Amount      int
}

// GrantSkillExperienceOutput defines the response for granting skill experience
type GrantSkillExperienceOutput struct {
	Granted       int
	SkillLevel    int
	LevelsGained  int
	PointsGranted map[string]int
}

// Modifier source types

// EquipInput defines the request for equipping an item
type EquipInput struct {
	CharacterID string
	Slot        entities.Slot
	ItemID      string
}

// EquipOutput defines the response for equipping an item
type EquipOutput struct {
	// Replaced is the item previously in the slot, if any
	Replaced string
	Snapshot engine.Snapshot
}

// UnequipInput defines the request for emptying an equipment slot
type UnequipInput struct {
	CharacterID string
	Slot        entities.Slot
}

// UnequipOutput defines the response for unequipping
type UnequipOutput struct {
	Removed  string
	Snapshot engine.Snapshot
}

// AddBuffInput defines the request for applying a buff.
// A zero Duration never expires.
type AddBuffInput struct {
	CharacterID string
	Buff        entities.Buff
	Duration    time.Duration
}

// AddBuffOutput defines the response for applying a buff
type AddBuffOutput struct {
	ExpiresAt time.Time
	Snapshot  engine.Snapshot
}

// Session types

// OpenSessionInput defines the request for marking a character active
type OpenSessionInput struct {
	CharacterID string
}

// OpenSessionOutput defines the response for opening a session
type OpenSessionOutput struct{}

// CloseSessionInput defines the request for ending a character session
type CloseSessionInput struct {
	CharacterID string
}

// CloseSessionOutput defines the response for closing a session
type CloseSessionOutput struct{}

// TickInput defines one regeneration step for a character
type TickInput struct {
	CharacterID string
	Elapsed     time.Duration
}

// TickOutput defines the response for a regeneration step
type TickOutput struct {
	HealthGained int
	ManaGained   int
	BuffsExpired int
	// Persisted is false when the tick changed nothing worth saving
	Persisted bool
	Resources entities.Resources
}
