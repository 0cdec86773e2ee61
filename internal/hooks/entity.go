package hooks

import "github.com/KirkDiggler/rpg-toolkit/core"

// EntityTypeCharacter is the rpg-toolkit entity type of a progressing character
const EntityTypeCharacter = "character"

// CharacterEntity identifies a character as an rpg-toolkit event source
type CharacterEntity struct {
	ID string
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return EntityTypeCharacter
}

var _ core.Entity = (*CharacterEntity)(nil)
