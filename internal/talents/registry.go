package talents

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Registry is the process-wide, read-only table of talent groups and definitions.
// It is built once at startup and shared by reference; nothing mutates it after NewRegistry returns.
// Pointers handed out by the accessors must be treated as read-only.
type Registry struct {
	groups      map[string]*Group
	groupOrder  []string
	talents     map[string]*Definition
	talentGroup map[string]string
	growth      map[string]Growth
}

// NewRegistry validates and deep-copies the given tables into a Registry
func NewRegistry(groups []*Group, growth map[string]Growth) (*Registry, error) {
	vb := errors.NewValidationBuilder()

	r := &Registry{
		groups:      make(map[string]*Group, len(groups)),
		talents:     make(map[string]*Definition),
		talentGroup: make(map[string]string),
		growth:      make(map[string]Growth, len(growth)),
	}

	for i, g := range groups {
		if g == nil {
			vb.Fieldf(fmt.Sprintf("groups[%d]", i), "is nil")
			continue
		}
		field := fmt.Sprintf("groups[%s]", g.ID)
		if g.ID == "" {
			vb.RequiredField(fmt.Sprintf("groups[%d].id", i))
			continue
		}
		if _, dup := r.groups[g.ID]; dup {
			vb.Field(field, "duplicate group id")
			continue
		}
		switch g.Kind {
		case GroupUniversal, GroupRare:
		case GroupClass:
			if g.Class == "" {
				vb.RequiredField(field + ".class")
			}
		case GroupSubclass:
			if g.Subclass == "" {
				vb.RequiredField(field + ".subclass")
			}
		default:
			vb.Fieldf(field+".kind", "unknown group kind %q", g.Kind)
		}

		copied := &Group{
			ID:       g.ID,
			Name:     g.Name,
			Kind:     g.Kind,
			Class:    g.Class,
			Subclass: g.Subclass,
			Talents:  make([]*Definition, 0, len(g.Talents)),
		}
		for j, d := range g.Talents {
			if d == nil || d.ID == "" {
				vb.RequiredField(fmt.Sprintf("%s.talents[%d].id", field, j))
				continue
			}
			tfield := fmt.Sprintf("talents[%s]", d.ID)
			if owner, dup := r.talentGroup[d.ID]; dup {
				vb.Fieldf(tfield, "already defined in group %s", owner)
				continue
			}
			if d.MaxRank < 1 {
				vb.Field(tfield+".max_rank", "must be at least 1")
			}
			switch d.Kind {
			case KindPassive, KindActive:
			default:
				vb.Fieldf(tfield+".kind", "unknown talent kind %q", d.Kind)
			}
			if d.ManaCost < 0 {
				vb.Field(tfield+".mana_cost", "must not be negative")
			}
			validateScaling(vb, tfield+".primary", d.Primary)
			if d.Secondary != nil {
				validateScaling(vb, tfield+".secondary", *d.Secondary)
			}

			def := *d
			if d.Secondary != nil {
				secondary := *d.Secondary
				def.Secondary = &secondary
			}
			copied.Talents = append(copied.Talents, &def)
			r.talents[def.ID] = &def
			r.talentGroup[def.ID] = g.ID
		}

		r.groups[g.ID] = copied
		r.groupOrder = append(r.groupOrder, g.ID)
	}

	for class, curve := range growth {
		r.growth[class] = curve
	}

	if err := vb.Build(); err != nil {
		return nil, errors.Wrap(err, "invalid talent definitions")
	}

	sort.Strings(r.groupOrder)

	return r, nil
}

// Group returns a group by id
func (r *Registry) Group(id string) (*Group, bool) {
	g, ok := r.groups[id]
	return g, ok
}

// Groups returns every group ordered by id
func (r *Registry) Groups() []*Group {
	out := make([]*Group, 0, len(r.groupOrder))
	for _, id := range r.groupOrder {
		out = append(out, r.groups[id])
	}
	return out
}

// UnlockedGroups returns the groups that receive level and skill grants for a class/subclass
func (r *Registry) UnlockedGroups(class, subclass string) []*Group {
	var out []*Group
	for _, id := range r.groupOrder {
		if g := r.groups[id]; g.UnlockedFor(class, subclass) {
			out = append(out, g)
		}
	}
	return out
}

// Talent returns a talent definition by id
func (r *Registry) Talent(id string) (*Definition, bool) {
	d, ok := r.talents[id]
	return d, ok
}

// GroupOf returns the id of the group a talent belongs to
func (r *Registry) GroupOf(talentID string) (string, bool) {
	g, ok := r.talentGroup[talentID]
	return g, ok
}

// Ability returns the definition of an active talent
func (r *Registry) Ability(abilityID string) (*Definition, bool) {
	d, ok := r.talents[abilityID]
	if !ok || !d.IsActive() {
		return nil, false
	}
	return d, true
}

// Growth returns the per-level growth curve of a class, DefaultGrowth when undefined
func (r *Registry) Growth(class string) Growth {
	if g, ok := r.growth[class]; ok {
		return g
	}
	return DefaultGrowth
}

// Targets lists every distinct key referenced by a scaling, opaque ones included
func (r *Registry) Targets() []entities.Key {
	seen := make(map[entities.Key]bool)
	var out []entities.Key
	add := func(k entities.Key) {
		if k.Target == entities.TargetNone || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
	}
	for _, id := range r.groupOrder {
		for _, d := range r.groups[id].Talents {
			add(d.Primary.Target)
			if d.Secondary != nil {
				add(d.Secondary.Target)
			}
		}
	}
	return out
}
