package entities

import "time"

// AbilityBarSize is the number of ability-bar assignment slots.
const AbilityBarSize = 9

// PointPool tracks the talent points earned and spent in one pool.
type PointPool struct {
	Earned int `json:"earned"`
	Spent  int `json:"spent"`
}

// Unspent returns the points still available. Never negative.
func (p PointPool) Unspent() int {
	if p.Spent > p.Earned {
		return 0
	}
	return p.Earned - p.Spent
}

// TalentLedger is the per-character record of talent points, ranks and learned abilities.
type TalentLedger struct {
	// Pools holds one pool per non-rare group, keyed by group id
	Pools map[string]PointPool `json:"pools,omitempty"`
	// RarePool funds every rare-currency group
	RarePool PointPool `json:"rare_pool"`
	// Ranks maps group id to talent id to allocated rank
	Ranks map[string]map[string]int `json:"ranks,omitempty"`
	// Learned is the set of active abilities unlocked by rank 1
	Learned map[string]bool `json:"learned,omitempty"`
	// AbilityBar holds ability ids assigned to hotbar slots, empty when unassigned
	AbilityBar [AbilityBarSize]string `json:"ability_bar"`
	// Cooldowns maps ability id to its cooldown expiry
	Cooldowns map[string]time.Time `json:"cooldowns,omitempty"`
}

// Rank returns the rank allocated to a talent in a group
func (l *TalentLedger) Rank(groupID, talentID string) int {
	if l == nil || l.Ranks == nil {
		return 0
	}
	return l.Ranks[groupID][talentID]
}

// GroupRankSum returns the sum of all ranks allocated within a group
func (l *TalentLedger) GroupRankSum(groupID string) int {
	if l == nil {
		return 0
	}
	sum := 0
	for _, r := range l.Ranks[groupID] {
		sum += r
	}
	return sum
}

// IsLearned reports whether an active ability has been learned
func (l *TalentLedger) IsLearned(abilityID string) bool {
	if l == nil {
		return false
	}
	return l.Learned[abilityID]
}

// CooldownExpiry returns the cooldown expiry of an ability and whether one is recorded
func (l *TalentLedger) CooldownExpiry(abilityID string) (time.Time, bool) {
	if l == nil || l.Cooldowns == nil {
		return time.Time{}, false
	}
	t, ok := l.Cooldowns[abilityID]
	return t, ok
}

// Clone returns a deep copy of the ledger
func (l *TalentLedger) Clone() TalentLedger {
	if l == nil {
		return TalentLedger{}
	}
	out := TalentLedger{
		RarePool:   l.RarePool,
		AbilityBar: l.AbilityBar,
	}
	if l.Pools != nil {
		out.Pools = make(map[string]PointPool, len(l.Pools))
		for k, v := range l.Pools {
			out.Pools[k] = v
		}
	}
	if l.Ranks != nil {
		out.Ranks = make(map[string]map[string]int, len(l.Ranks))
		for g, ranks := range l.Ranks {
			inner := make(map[string]int, len(ranks))
			for t, r := range ranks {
				inner[t] = r
			}
			out.Ranks[g] = inner
		}
	}
	if l.Learned != nil {
		out.Learned = make(map[string]bool, len(l.Learned))
		for k, v := range l.Learned {
			out.Learned[k] = v
		}
	}
	if l.Cooldowns != nil {
		out.Cooldowns = make(map[string]time.Time, len(l.Cooldowns))
		for k, v := range l.Cooldowns {
			out.Cooldowns[k] = v
		}
	}
	return out
}
