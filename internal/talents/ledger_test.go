package talents_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

func flat(target entities.Target, base, perRank float64) talents.Scaling {
	return talents.Scaling{Kind: talents.ScalingFlat, Target: entities.KeyFor(target), Base: base, PerRank: perRank}
}

func percent(target entities.Target, base, perRank float64) talents.Scaling {
	return talents.Scaling{Kind: talents.ScalingPercent, Target: entities.KeyFor(target), Base: base, PerRank: perRank}
}

func newTestRegistry(t *testing.T) *talents.Registry {
	t.Helper()
	secondary := percent(entities.TargetMaxHealth, 2, 1)
	registry, err := talents.NewRegistry([]*talents.Group{
		{
			ID:   "general",
			Kind: talents.GroupUniversal,
			Talents: []*talents.Definition{
				{ID: "might", MaxRank: 3, Kind: talents.KindPassive, Primary: flat(entities.TargetStrength, 1, 1)},
				{ID: "toughness", MaxRank: 5, Kind: talents.KindPassive, Primary: flat(entities.TargetVitality, 1, 1), Secondary: &secondary},
			},
		},
		{
			ID:    "warrior",
			Kind:  talents.GroupClass,
			Class: "warrior",
			Talents: []*talents.Definition{
				{ID: "keen_edge", MaxRank: 5, Kind: talents.KindPassive, Primary: flat(entities.TargetCritChance, 1, 1)},
				{
					ID: "cleave", MaxRank: 2, Kind: talents.KindActive, ManaCost: 10, Cooldown: 8 * time.Second,
					Primary: flat(entities.TargetAttackPower, 3, 2),
				},
			},
		},
		{
			ID:       "berserker",
			Kind:     talents.GroupSubclass,
			Subclass: "berserker",
			Talents: []*talents.Definition{
				{ID: "frenzy", MaxRank: 1, Kind: talents.KindPassive, Primary: percent(entities.TargetAttackSpeed, 10, 0)},
			},
		},
		{
			ID:   "constellation",
			Kind: talents.GroupRare,
			Talents: []*talents.Definition{
				{ID: "star_vigor", MaxRank: 2, Kind: talents.KindPassive, Primary: flat(entities.TargetVitality, 3, 3)},
			},
		},
	}, map[string]talents.Growth{"warrior": {Strength: 1.5}})
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return registry
}

type LedgerTestSuite struct {
	suite.Suite
	registry *talents.Registry
	state    *entities.TalentLedger
	ledger   *talents.Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.registry = newTestRegistry(s.T())
	s.state = &entities.TalentLedger{}
	s.ledger = talents.NewLedger(s.registry, s.state)
}

func (s *LedgerTestSuite) grant(groupID string, amount int) {
	s.Require().NoError(s.ledger.GrantPoints(groupID, amount))
}

func (s *LedgerTestSuite) TestAllocateSpendsOnePoint() {
	s.grant("general", 2)

	rank, err := s.ledger.Allocate("general", "might")
	s.Require().NoError(err)

	s.Equal(1, rank)
	s.Equal(1, s.state.Rank("general", "might"))
	s.Equal(1, s.ledger.Unspent("general"))
	s.NoError(s.ledger.CheckConservation())
}

func (s *LedgerTestSuite) TestAllocateWithoutPoints() {
	before := s.state.Clone()

	_, err := s.ledger.Allocate("general", "might")

	s.True(errors.IsInsufficientPoints(err))
	s.Equal(before, *s.state)
}

func (s *LedgerTestSuite) TestAllocateRankCap() {
	s.grant("general", 5)
	for i := 0; i < 3; i++ {
		_, err := s.ledger.Allocate("general", "might")
		s.Require().NoError(err)
	}

	rank, err := s.ledger.Allocate("general", "might")

	s.True(errors.IsRankCapReached(err))
	s.Equal(3, rank)
	s.Equal(2, s.ledger.Unspent("general"))
}

func (s *LedgerTestSuite) TestAllocateUnknownTalent() {
	s.grant("general", 1)

	_, err := s.ledger.Allocate("general", "nope")
	s.True(errors.IsNotFound(err))

	_, err = s.ledger.Allocate("missing", "might")
	s.True(errors.IsNotFound(err))

	// talent exists but belongs to another group
	_, err = s.ledger.Allocate("general", "keen_edge")
	s.True(errors.IsNotFound(err))
}

func (s *LedgerTestSuite) TestFirstRankOfActiveTalentLearnsAbility() {
	s.grant("warrior", 2)

	_, err := s.ledger.Allocate("warrior", "cleave")
	s.Require().NoError(err)
	s.True(s.state.IsLearned("cleave"))

	_, err = s.ledger.Allocate("warrior", "cleave")
	s.Require().NoError(err)
	s.True(s.state.IsLearned("cleave"))
}

func (s *LedgerTestSuite) TestDeallocateRefundsAndForgets() {
	s.grant("warrior", 2)
	_, err := s.ledger.Allocate("warrior", "cleave")
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.AssignSlot(4, "cleave"))

	rank, err := s.ledger.Deallocate("warrior", "cleave")
	s.Require().NoError(err)

	s.Equal(0, rank)
	s.Equal(2, s.ledger.Unspent("warrior"))
	s.False(s.state.IsLearned("cleave"))
	s.Equal("", s.state.AbilityBar[4])
	s.NoError(s.ledger.CheckConservation())
}

func (s *LedgerTestSuite) TestDeallocateNothingAllocated() {
	before := s.state.Clone()

	_, err := s.ledger.Deallocate("general", "might")

	s.True(errors.IsNothingAllocated(err))
	s.Equal(before, *s.state)
}

func (s *LedgerTestSuite) TestRespecRefundsExactRankSum() {
	s.grant("general", 6)
	for _, id := range []string{"might", "might", "toughness", "toughness", "toughness"} {
		_, err := s.ledger.Allocate("general", id)
		s.Require().NoError(err)
	}

	refund, err := s.ledger.Respec("general")
	s.Require().NoError(err)

	s.Equal(5, refund)
	s.Equal(6, s.ledger.Unspent("general"))
	s.Equal(0, s.state.GroupRankSum("general"))
	s.NoError(s.ledger.CheckConservation())

	refund, err = s.ledger.Respec("general")
	s.NoError(err)
	s.Equal(0, refund)
}

func (s *LedgerTestSuite) TestRareGroupsUseRarePool() {
	err := s.ledger.GrantPoints("constellation", 1)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.ledger.Allocate("constellation", "star_vigor")
	s.True(errors.IsInsufficientPoints(err))

	s.Require().NoError(s.ledger.GrantRarePoints(2))
	_, err = s.ledger.Allocate("constellation", "star_vigor")
	s.Require().NoError(err)

	s.Equal(1, s.state.RarePool.Spent)
	s.Equal(1, s.ledger.Unspent("constellation"))

	refund, err := s.ledger.Respec("constellation")
	s.Require().NoError(err)
	s.Equal(1, refund)
	s.Equal(0, s.state.RarePool.Spent)
	s.NoError(s.ledger.CheckConservation())
}

func (s *LedgerTestSuite) TestGrantUnlockedSkipsLockedAndRareGroups() {
	funded, err := s.ledger.GrantUnlocked("warrior", "", 3)
	s.Require().NoError(err)

	s.Equal([]string{"general", "warrior"}, funded)
	s.Equal(3, s.state.Pools["general"].Earned)
	s.Equal(3, s.state.Pools["warrior"].Earned)
	s.Equal(0, s.state.Pools["berserker"].Earned)
	s.Equal(0, s.state.RarePool.Earned)

	funded, err = s.ledger.GrantUnlocked("warrior", "berserker", 1)
	s.Require().NoError(err)
	s.Equal([]string{"berserker", "general", "warrior"}, funded)
}

func (s *LedgerTestSuite) TestGrantRejectsNonPositive() {
	before := s.state.Clone()

	s.True(errors.IsInvalidArgument(s.ledger.GrantPoints("general", 0)))
	s.True(errors.IsInvalidArgument(s.ledger.GrantRarePoints(-1)))
	s.Equal(before, *s.state)
}

func (s *LedgerTestSuite) TestAssignSlotRequiresLearnedAbility() {
	err := s.ledger.AssignSlot(0, "cleave")
	s.True(errors.IsNotLearned(err))

	err = s.ledger.AssignSlot(entities.AbilityBarSize, "cleave")
	s.True(errors.IsInvalidArgument(err))

	s.grant("warrior", 1)
	_, err = s.ledger.Allocate("warrior", "cleave")
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.AssignSlot(0, "cleave"))
	s.Equal("cleave", s.state.AbilityBar[0])

	s.Require().NoError(s.ledger.ClearSlot(0))
	s.Equal("", s.state.AbilityBar[0])
}

func (s *LedgerTestSuite) TestPruneCooldowns() {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	s.ledger.SetCooldown("cleave", now.Add(-time.Second))
	s.ledger.SetCooldown("fireball", now.Add(time.Second))

	s.Equal(1, s.ledger.PruneCooldowns(now))

	_, ok := s.state.CooldownExpiry("cleave")
	s.False(ok)
	_, ok = s.state.CooldownExpiry("fireball")
	s.True(ok)
}

func (s *LedgerTestSuite) TestOverspentPoolClampsUnspent() {
	s.state.Pools = map[string]entities.PointPool{"general": {Earned: 1, Spent: 3}}

	s.Equal(0, s.ledger.Unspent("general"))
	s.Error(s.ledger.CheckConservation())
}

func (s *LedgerTestSuite) TestConservationUnderMixedSequence() {
	s.grant("general", 4)
	ops := []struct {
		allocate bool
		talent   string
	}{
		{true, "might"}, {true, "toughness"}, {false, "might"}, {true, "toughness"},
		{false, "might"}, {true, "might"}, {false, "toughness"}, {true, "toughness"},
	}
	for _, op := range ops {
		if op.allocate {
			_, _ = s.ledger.Allocate("general", op.talent)
		} else {
			_, _ = s.ledger.Deallocate("general", op.talent)
		}
		p := s.state.Pools["general"]
		s.Equal(p.Earned-p.Spent, s.ledger.Unspent("general"))
		s.NoError(s.ledger.CheckConservation())
	}
}
