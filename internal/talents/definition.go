// Package talents owns talent definitions, the per-character talent ledger and the modifier compiler
package talents

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// ScalingKind selects which half of a modifier a scaling contributes to.
type ScalingKind string

// Scaling kinds
const (
	ScalingFlat    ScalingKind = "flat"
	ScalingPercent ScalingKind = "percent"
)

// Kind distinguishes passive talents from activatable abilities.
type Kind string

// Talent kinds
const (
	KindPassive Kind = "passive"
	KindActive  Kind = "active"
)

// GroupKind controls which point pool funds a group.
type GroupKind string

// Group kinds
const (
	GroupUniversal GroupKind = "universal"
	GroupClass     GroupKind = "class"
	GroupSubclass  GroupKind = "subclass"
	GroupRare      GroupKind = "rare"
)

// Scaling maps a talent rank onto a numeric contribution for one target.
type Scaling struct {
	Kind    ScalingKind  `yaml:"kind"`
	Target  entities.Key `yaml:"target"`
	Base    float64      `yaml:"base"`
	PerRank float64      `yaml:"per_rank"`
}

// Value returns the contribution at a rank: nothing at rank 0, base+perRank*(rank-1) otherwise.
func (s Scaling) Value(rank int) float64 {
	if rank <= 0 {
		return 0
	}
	return s.Base + s.PerRank*float64(rank-1)
}

// Definition describes a single talent. Definitions are immutable once loaded.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	MaxRank     int      `yaml:"max_rank"`
	Primary     Scaling  `yaml:"primary"`
	Secondary   *Scaling `yaml:"secondary,omitempty"`
	Kind        Kind     `yaml:"kind"`

	// Active talents only
	ManaCost int           `yaml:"mana_cost,omitempty"`
	Cooldown time.Duration `yaml:"cooldown,omitempty"`
}

// IsActive reports whether the talent unlocks an ability
func (d *Definition) IsActive() bool {
	return d.Kind == KindActive
}

// Group is a tab of talents sharing one point pool.
type Group struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Kind     GroupKind `yaml:"kind"`
	Class    string    `yaml:"class,omitempty"`
	Subclass string    `yaml:"subclass,omitempty"`

	Talents []*Definition `yaml:"talents"`
}

// IsRare reports whether the group is funded by the rare pool
func (g *Group) IsRare() bool {
	return g.Kind == GroupRare
}

// UnlockedFor reports whether per-level and per-skill grants reach this group for a character.
// Rare groups are never unlocked for those grants.
func (g *Group) UnlockedFor(class, subclass string) bool {
	switch g.Kind {
	case GroupUniversal:
		return true
	case GroupClass:
		return class != "" && g.Class == class
	case GroupSubclass:
		return subclass != "" && g.Subclass == subclass
	default:
		return false
	}
}

// Growth is the per-level attribute growth of a class.
type Growth struct {
	Strength     float64 `yaml:"str"`
	Agility      float64 `yaml:"agi"`
	Intelligence float64 `yaml:"int"`
	Vitality     float64 `yaml:"vit"`
}

// DefaultGrowth applies to characters whose class has no curve.
var DefaultGrowth = Growth{Strength: 1, Agility: 1, Intelligence: 1, Vitality: 1}

// Get returns the growth of one attribute
func (g Growth) Get(attr entities.Attribute) float64 {
	switch attr {
	case entities.AttributeStrength:
		return g.Strength
	case entities.AttributeAgility:
		return g.Agility
	case entities.AttributeIntelligence:
		return g.Intelligence
	case entities.AttributeVitality:
		return g.Vitality
	default:
		return 0
	}
}

func validateScaling(vb *errors.ValidationBuilder, field string, s Scaling) {
	switch s.Kind {
	case ScalingFlat, ScalingPercent:
	default:
		vb.Fieldf(field, "unknown scaling kind %q", s.Kind)
	}
}
