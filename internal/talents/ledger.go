package talents

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Ledger applies allocation rules to one character's talent ledger.
// Every method either succeeds or returns an error with the ledger left untouched.
type Ledger struct {
	registry *Registry
	state    *entities.TalentLedger
}

// NewLedger binds a character's ledger state to the definitions registry
func NewLedger(registry *Registry, state *entities.TalentLedger) *Ledger {
	return &Ledger{registry: registry, state: state}
}

// pool returns a copy of the pool funding a group
func (l *Ledger) pool(g *Group) entities.PointPool {
	if g.IsRare() {
		return l.state.RarePool
	}
	return l.state.Pools[g.ID]
}

func (l *Ledger) setPool(g *Group, p entities.PointPool) {
	if g.IsRare() {
		l.state.RarePool = p
		return
	}
	if l.state.Pools == nil {
		l.state.Pools = make(map[string]entities.PointPool)
	}
	l.state.Pools[g.ID] = p
}

func (l *Ledger) setRank(groupID, talentID string, rank int) {
	if l.state.Ranks == nil {
		l.state.Ranks = make(map[string]map[string]int)
	}
	ranks := l.state.Ranks[groupID]
	if ranks == nil {
		ranks = make(map[string]int)
		l.state.Ranks[groupID] = ranks
	}
	if rank == 0 {
		delete(ranks, talentID)
		if len(ranks) == 0 {
			delete(l.state.Ranks, groupID)
		}
		return
	}
	ranks[talentID] = rank
}

func (l *Ledger) lookup(groupID, talentID string) (*Group, *Definition, error) {
	g, ok := l.registry.Group(groupID)
	if !ok {
		return nil, nil, errors.NotFoundf("talent group %s not found", groupID)
	}
	d, ok := l.registry.Talent(talentID)
	if !ok {
		return nil, nil, errors.NotFoundf("talent %s not found", talentID)
	}
	if owner, _ := l.registry.GroupOf(talentID); owner != groupID {
		return nil, nil, errors.NotFoundf("talent %s not found in group %s", talentID, groupID)
	}
	return g, d, nil
}

// Unspent returns the points available to a group
func (l *Ledger) Unspent(groupID string) int {
	g, ok := l.registry.Group(groupID)
	if !ok {
		return 0
	}
	p := l.pool(g)
	if p.Spent > p.Earned {
		slog.Error("talent pool overspent, clamping to zero",
			"group_id", groupID,
			"earned", p.Earned,
			"spent", p.Spent)
	}
	return p.Unspent()
}

// Allocate spends one point on a talent and returns its new rank.
// The first rank of an active talent also learns the ability.
func (l *Ledger) Allocate(groupID, talentID string) (int, error) {
	g, d, err := l.lookup(groupID, talentID)
	if err != nil {
		return 0, err
	}

	rank := l.state.Rank(groupID, talentID)
	if rank >= d.MaxRank {
		return rank, errors.RankCapReachedf("talent %s is already at max rank %d", talentID, d.MaxRank).
			WithMeta("talent_id", talentID)
	}

	p := l.pool(g)
	if p.Unspent() <= 0 {
		return rank, errors.InsufficientPointsf("no unspent points in group %s", groupID).
			WithMeta("group_id", groupID)
	}

	p.Spent++
	l.setPool(g, p)
	l.setRank(groupID, talentID, rank+1)

	if rank == 0 && d.IsActive() {
		if l.state.Learned == nil {
			l.state.Learned = make(map[string]bool)
		}
		l.state.Learned[talentID] = true
	}

	return rank + 1, nil
}

// Deallocate refunds one point from a talent and returns its new rank.
// Dropping an active talent to rank 0 forgets the ability and clears its bar slots.
func (l *Ledger) Deallocate(groupID, talentID string) (int, error) {
	g, d, err := l.lookup(groupID, talentID)
	if err != nil {
		return 0, err
	}

	rank := l.state.Rank(groupID, talentID)
	if rank <= 0 {
		return 0, errors.NothingAllocatedf("talent %s has no allocated ranks", talentID).
			WithMeta("talent_id", talentID)
	}

	p := l.pool(g)
	p.Spent--
	if p.Spent < 0 {
		p.Spent = 0
	}
	l.setPool(g, p)
	l.setRank(groupID, talentID, rank-1)

	if rank == 1 && d.IsActive() {
		l.forget(talentID)
	}

	return rank - 1, nil
}

func (l *Ledger) forget(abilityID string) {
	delete(l.state.Learned, abilityID)
	for i, assigned := range l.state.AbilityBar {
		if assigned == abilityID {
			l.state.AbilityBar[i] = ""
		}
	}
}

// Respec removes every rank in a group and returns the refunded amount,
// which always equals the sum of the removed ranks.
func (l *Ledger) Respec(groupID string) (int, error) {
	g, ok := l.registry.Group(groupID)
	if !ok {
		return 0, errors.NotFoundf("talent group %s not found", groupID)
	}

	refund := 0
	for talentID, rank := range l.state.Ranks[groupID] {
		refund += rank
		if d, ok := l.registry.Talent(talentID); ok && d.IsActive() {
			l.forget(talentID)
		}
	}
	if refund == 0 {
		return 0, nil
	}

	p := l.pool(g)
	p.Spent -= refund
	if p.Spent < 0 {
		slog.Error("talent pool refund exceeded spent points, clamping",
			"group_id", groupID,
			"refund", refund,
			"spent", p.Spent+refund)
		p.Spent = 0
	}
	l.setPool(g, p)
	delete(l.state.Ranks, groupID)

	return refund, nil
}

// GrantPoints adds earned points to a non-rare group
func (l *Ledger) GrantPoints(groupID string, amount int) error {
	g, ok := l.registry.Group(groupID)
	if !ok {
		return errors.NotFoundf("talent group %s not found", groupID)
	}
	if g.IsRare() {
		return errors.InvalidArgumentf("group %s is funded by rare points only", groupID)
	}
	if amount <= 0 {
		return errors.InvalidArgumentf("grant amount must be positive, got %d", amount)
	}

	p := l.pool(g)
	p.Earned += amount
	l.setPool(g, p)
	return nil
}

// GrantRarePoints adds earned points to the rare pool. It is the only path funding rare groups.
func (l *Ledger) GrantRarePoints(amount int) error {
	if amount <= 0 {
		return errors.InvalidArgumentf("grant amount must be positive, got %d", amount)
	}
	l.state.RarePool.Earned += amount
	return nil
}

// GrantUnlocked adds amount points to every group unlocked for the class/subclass
// and returns the ids of the funded groups
func (l *Ledger) GrantUnlocked(class, subclass string, amount int) ([]string, error) {
	if amount <= 0 {
		return nil, nil
	}
	var funded []string
	for _, g := range l.registry.UnlockedGroups(class, subclass) {
		if err := l.GrantPoints(g.ID, amount); err != nil {
			return funded, err
		}
		funded = append(funded, g.ID)
	}
	return funded, nil
}

// AssignSlot puts a learned ability on an ability-bar slot
func (l *Ledger) AssignSlot(slot int, abilityID string) error {
	if slot < 0 || slot >= entities.AbilityBarSize {
		return errors.InvalidArgumentf("slot must be between 0 and %d", entities.AbilityBarSize-1)
	}
	if !l.state.IsLearned(abilityID) {
		return errors.NotLearnedf("ability %s is not learned", abilityID).
			WithMeta("ability_id", abilityID)
	}
	l.state.AbilityBar[slot] = abilityID
	return nil
}

// ClearSlot empties an ability-bar slot
func (l *Ledger) ClearSlot(slot int) error {
	if slot < 0 || slot >= entities.AbilityBarSize {
		return errors.InvalidArgumentf("slot must be between 0 and %d", entities.AbilityBarSize-1)
	}
	l.state.AbilityBar[slot] = ""
	return nil
}

// SetCooldown records when an ability becomes usable again
func (l *Ledger) SetCooldown(abilityID string, expiry time.Time) {
	if l.state.Cooldowns == nil {
		l.state.Cooldowns = make(map[string]time.Time)
	}
	l.state.Cooldowns[abilityID] = expiry
}

// PruneCooldowns drops cooldown entries that expired before now
func (l *Ledger) PruneCooldowns(now time.Time) int {
	pruned := 0
	for id, expiry := range l.state.Cooldowns {
		if !expiry.After(now) {
			delete(l.state.Cooldowns, id)
			pruned++
		}
	}
	return pruned
}

// CheckConservation verifies that every pool has spent <= earned and that spent
// equals the sum of allocated ranks it funds
func (l *Ledger) CheckConservation() error {
	vb := errors.NewValidationBuilder()
	rareSum := 0

	for _, g := range l.registry.Groups() {
		sum := l.state.GroupRankSum(g.ID)
		if g.IsRare() {
			rareSum += sum
			continue
		}
		p := l.state.Pools[g.ID]
		if p.Spent > p.Earned {
			vb.Fieldf(g.ID, "spent %d exceeds earned %d", p.Spent, p.Earned)
		}
		if p.Spent != sum {
			vb.Fieldf(g.ID, "spent %d does not match allocated ranks %d", p.Spent, sum)
		}
	}

	rp := l.state.RarePool
	if rp.Spent > rp.Earned {
		vb.Fieldf("rare_pool", "spent %d exceeds earned %d", rp.Spent, rp.Earned)
	}
	if rp.Spent != rareSum {
		vb.Fieldf("rare_pool", "spent %d does not match allocated ranks %d", rp.Spent, rareSum)
	}

	return vb.Build()
}
