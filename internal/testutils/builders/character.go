// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	char *entities.Character
}

// NewCharacterBuilder creates a new builder with a level 1 character and balanced attributes
func NewCharacterBuilder() *CharacterBuilder {
	char := entities.NewCharacter("char-test-123", "Test Character", entities.Attributes{
		Strength:     5,
		Agility:      5,
		Intelligence: 5,
		Vitality:     5,
	})
	char.PlayerID = "player-test-123"
	return &CharacterBuilder{char: char}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.char.ID = id
	return b
}

// WithPlayerID sets the player ID
func (b *CharacterBuilder) WithPlayerID(playerID string) *CharacterBuilder {
	b.char.PlayerID = playerID
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.char.Name = name
	return b
}

// WithClass sets the class and optional subclass
func (b *CharacterBuilder) WithClass(class string, subclass ...string) *CharacterBuilder {
	b.char.Class = class
	if len(subclass) > 0 {
		b.char.Subclass = subclass[0]
	}
	return b
}

// WithBase sets the base attributes
func (b *CharacterBuilder) WithBase(base entities.Attributes) *CharacterBuilder {
	b.char.Base = base
	return b
}

// WithLevel sets the character level and leaves experience at zero
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.char.Level = level
	return b
}

// WithResources sets current and maximum health and mana
func (b *CharacterBuilder) WithResources(health, maxHealth, mana, maxMana int) *CharacterBuilder {
	b.char.Resources = entities.Resources{
		Health:    health,
		MaxHealth: maxHealth,
		Mana:      mana,
		MaxMana:   maxMana,
	}
	return b
}

// WithPoints sets the earned points of a group pool
func (b *CharacterBuilder) WithPoints(groupID string, earned int) *CharacterBuilder {
	if b.char.Talents.Pools == nil {
		b.char.Talents.Pools = map[string]entities.PointPool{}
	}
	pool := b.char.Talents.Pools[groupID]
	pool.Earned = earned
	b.char.Talents.Pools[groupID] = pool
	return b
}

// WithRarePoints sets the earned rare currency
func (b *CharacterBuilder) WithRarePoints(earned int) *CharacterBuilder {
	b.char.Talents.RarePool.Earned = earned
	return b
}

// WithEquipped places an item id in a slot
func (b *CharacterBuilder) WithEquipped(slot entities.Slot, itemID string) *CharacterBuilder {
	if b.char.Equipment == nil {
		b.char.Equipment = map[entities.Slot]string{}
	}
	b.char.Equipment[slot] = itemID
	return b
}

// WithBuff adds a buff expiring after ttl. A zero ttl never expires.
func (b *CharacterBuilder) WithBuff(id string, bonus entities.Attributes, now time.Time, ttl time.Duration) *CharacterBuilder {
	buff := entities.Buff{ID: id, StatBonus: bonus}
	if ttl > 0 {
		buff.ExpiresAt = now.Add(ttl)
	}
	b.char.Buffs = append(b.char.Buffs, buff)
	return b
}

// WithVersion sets the persisted version
func (b *CharacterBuilder) WithVersion(version int64) *CharacterBuilder {
	b.char.Version = version
	return b
}

// Build returns the built character
func (b *CharacterBuilder) Build() *entities.Character {
	return b.char
}
