package talents

import (
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Modifier is the aggregated contribution to one target.
type Modifier struct {
	Flat    float64
	Percent float64
}

// Modifiers maps each target to its aggregated contribution. It is rebuilt on demand and never persisted.
type Modifiers map[entities.Key]Modifier

// Get returns the modifier for a key, zero when absent
func (m Modifiers) Get(k entities.Key) Modifier {
	return m[k]
}

// Of returns the modifier of a plain target
func (m Modifiers) Of(t entities.Target) Modifier {
	return m[entities.KeyFor(t)]
}

func (m Modifiers) add(s Scaling, rank int) {
	switch s.Target.Target {
	case entities.TargetNone:
		return
	case entities.TargetOpaque:
		slog.Debug("skipping unknown modifier target",
			"code", errors.CodeUnknownTarget,
			"target", s.Target.Name)
		return
	}

	v := s.Value(rank)
	mod := m[s.Target]
	switch s.Kind {
	case ScalingFlat:
		mod.Flat += v
	case ScalingPercent:
		mod.Percent += v
	default:
		return
	}
	m[s.Target] = mod
}

// Compile folds every allocated rank of the ledger into a Modifiers aggregate.
// Groups and talents are visited in id order so repeated runs produce bit-identical sums.
func Compile(ledger *entities.TalentLedger, registry *Registry) Modifiers {
	out := make(Modifiers)
	if ledger == nil || registry == nil {
		return out
	}

	groupIDs := make([]string, 0, len(ledger.Ranks))
	for id := range ledger.Ranks {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	for _, groupID := range groupIDs {
		ranks := ledger.Ranks[groupID]
		talentIDs := make([]string, 0, len(ranks))
		for id := range ranks {
			talentIDs = append(talentIDs, id)
		}
		sort.Strings(talentIDs)

		for _, talentID := range talentIDs {
			rank := ranks[talentID]
			if rank <= 0 {
				continue
			}
			d, ok := registry.Talent(talentID)
			if !ok {
				slog.Warn("allocated talent has no definition",
					"group_id", groupID,
					"talent_id", talentID)
				continue
			}
			out.add(d.Primary, rank)
			if d.Secondary != nil {
				out.add(*d.Secondary, rank)
			}
		}
	}

	return out
}
