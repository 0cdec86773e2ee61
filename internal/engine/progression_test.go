package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

func testRegistry(t *testing.T) *talents.Registry {
	t.Helper()
	registry, err := talents.NewRegistry([]*talents.Group{
		{
			ID:   "general",
			Kind: talents.GroupUniversal,
			Talents: []*talents.Definition{
				{
					ID:      "might",
					MaxRank: 5,
					Kind:    talents.KindPassive,
					Primary: talents.Scaling{
						Kind:    talents.ScalingFlat,
						Target:  entities.KeyFor(entities.TargetStrength),
						Base:    1,
						PerRank: 1,
					},
				},
			},
		},
		{
			ID:    "mage",
			Kind:  talents.GroupClass,
			Class: "mage",
			Talents: []*talents.Definition{
				{
					ID:      "arcane_mind",
					MaxRank: 3,
					Kind:    talents.KindPassive,
					Primary: talents.Scaling{
						Kind:   talents.ScalingPercent,
						Target: entities.KeyFor(entities.TargetMaxMana),
						Base:   10,
					},
				},
			},
		},
		{
			ID:   "constellation",
			Kind: talents.GroupRare,
			Talents: []*talents.Definition{
				{
					ID:      "star_vigor",
					MaxRank: 1,
					Kind:    talents.KindPassive,
					Primary: talents.Scaling{
						Kind:   talents.ScalingFlat,
						Target: entities.KeyFor(entities.TargetVitality),
						Base:   3,
					},
				},
			},
		},
	}, map[string]talents.Growth{
		"mage": {Strength: 0.5, Agility: 1, Intelligence: 2, Vitality: 1},
	})
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return registry
}

type ProgressionTestSuite struct {
	suite.Suite
	ctx      context.Context
	registry *talents.Registry
	engine   engine.Engine
	char     *entities.Character
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}

func (s *ProgressionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = testRegistry(s.T())

	eng, err := engine.New(&engine.Config{Registry: s.registry})
	s.Require().NoError(err)
	s.engine = eng

	s.char = entities.NewCharacter("char-1", "Ayla", entities.Attributes{
		Strength: 5, Agility: 5, Intelligence: 5, Vitality: 5,
	})
	snap := s.engine.Stats(&engine.SourcesInput{Character: s.char}).Snapshot
	engine.SyncResources(&s.char.Resources, snap)
}

func (s *ProgressionTestSuite) TestNewRequiresRegistry() {
	eng, err := engine.New(&engine.Config{})
	s.Error(err)
	s.Nil(eng)
	s.True(errors.IsInvalidArgument(err))

	eng, err = engine.New(nil)
	s.Error(err)
	s.Nil(eng)
}

func (s *ProgressionTestSuite) TestCounterThresholdGrowth() {
	c := engine.Counter{Level: 1, ExperienceToNext: 100}

	s.Equal(1, c.AddExperience(100))
	s.Equal(2, c.Level)
	s.Equal(0, c.Experience)
	s.Equal(125, c.ExperienceToNext)

	s.Equal(1, c.AddExperience(125))
	s.Equal(156, c.ExperienceToNext)
}

func (s *ProgressionTestSuite) TestCounterMultipleLevelsInOneGrant() {
	c := engine.Counter{Level: 1, ExperienceToNext: 100}

	s.Equal(2, c.AddExperience(240))
	s.Equal(3, c.Level)
	s.Equal(15, c.Experience)
	s.Equal(156, c.ExperienceToNext)
}

func (s *ProgressionTestSuite) TestCounterIgnoresNonPositive() {
	c := engine.Counter{Level: 1, ExperienceToNext: 100}

	s.Equal(0, c.AddExperience(0))
	s.Equal(0, c.AddExperience(-5))
	s.Equal(0, c.Experience)
}

func (s *ProgressionTestSuite) TestLevelUpGrantsGrowthPointsAndMaxima() {
	s.Require().Equal(135, s.char.Resources.MaxHealth)
	s.char.Resources.Health = 100

	out, err := s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{
		Character: s.char,
		Amount:    100,
	})
	s.Require().NoError(err)

	s.Equal(1, out.LevelsGained)
	s.Equal(2, s.char.Level)
	s.Equal(125, s.char.ExperienceToNext)
	s.Equal(entities.Attributes{Strength: 6, Agility: 6, Intelligence: 6, Vitality: 6}, s.char.Base)
	s.Equal(map[string]int{"general": 3}, out.PointsGranted)
	s.Equal(3, s.char.Talents.Pools["general"].Earned)
	s.Equal(0, s.char.Talents.RarePool.Earned)

	// 100 + 2*10 + 6*5
	s.Equal(150, s.char.Resources.MaxHealth)
	s.Equal(115, s.char.Resources.Health)
	s.Equal(150, out.Snapshot.MaxHealth)
}

func (s *ProgressionTestSuite) TestLevelUpFundsClassGroupAndThreadsGrowthCarry() {
	s.char.Class = "mage"

	out, err := s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{
		Character: s.char,
		Amount:    100,
	})
	s.Require().NoError(err)
	s.Equal(map[string]int{"general": 3, "mage": 3}, out.PointsGranted)
	s.Equal(5, s.char.Base.Strength)
	s.InDelta(0.5, s.char.GrowthCarry.Get("str"), floatTolerance)
	s.Equal(7, s.char.Base.Intelligence)

	_, err = s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{
		Character: s.char,
		Amount:    125,
	})
	s.Require().NoError(err)
	s.Equal(6, s.char.Base.Strength)
	s.Equal(0.0, s.char.GrowthCarry.Get("str"))
	s.Equal(6, s.char.Talents.Pools["mage"].Earned)
}

func (s *ProgressionTestSuite) TestLevelUpWithoutThresholdKeepsState() {
	before := s.char.Base

	out, err := s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{
		Character: s.char,
		Amount:    40,
	})
	s.Require().NoError(err)

	s.Equal(0, out.LevelsGained)
	s.Empty(out.PointsGranted)
	s.Equal(40, s.char.Experience)
	s.Equal(before, s.char.Base)
}

func (s *ProgressionTestSuite) TestLevelUpRejectsBadInput() {
	_, err := s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{Character: s.char})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{Amount: 10})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ProgressionTestSuite) TestSkillLevelGrantsOnePointPerLevel() {
	out, err := s.engine.ApplySkillExperience(s.ctx, &engine.SkillUpInput{
		Character: s.char,
		Skill:     "mining",
		Amount:    225,
	})
	s.Require().NoError(err)

	s.Equal(2, out.LevelsGained)
	s.Equal(map[string]int{"general": 2}, out.PointsGranted)
	s.Equal(3, s.char.Skills["mining"].Level)
	s.Equal(156, s.char.Skills["mining"].ExperienceToNext)
	s.Equal(1, s.char.Level)
}

func (s *ProgressionTestSuite) TestSkillExperienceRequiresSkill() {
	_, err := s.engine.ApplySkillExperience(s.ctx, &engine.SkillUpInput{Character: s.char, Amount: 5})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ProgressionTestSuite) TestCompiledTalentScenarioIsIdempotent() {
	s.char.Talents.Pools = map[string]entities.PointPool{"general": {Earned: 2, Spent: 2}}
	s.char.Talents.Ranks = map[string]map[string]int{"general": {"might": 2}}

	first := s.engine.Stats(&engine.SourcesInput{Character: s.char})
	s.Equal(7, first.Snapshot.Attributes.Strength)

	s.char.SnapshotCarry = first.Carry
	second := s.engine.Stats(&engine.SourcesInput{Character: s.char})
	s.Equal(7, second.Snapshot.Attributes.Strength)
	s.Equal(first.Snapshot, second.Snapshot)
}

func (s *ProgressionTestSuite) TestSyncResourcesClampsShrinkingMaxima() {
	res := entities.Resources{Health: 150, MaxHealth: 150, Mana: 10, MaxMana: 80}

	engine.SyncResources(&res, engine.Snapshot{MaxHealth: 120, MaxMana: 90})

	s.Equal(120, res.Health)
	s.Equal(120, res.MaxHealth)
	s.Equal(20, res.Mana)
	s.Equal(90, res.MaxMana)
}

func (s *ProgressionTestSuite) TestLevelUpNeverLowersCurrentResources() {
	// maxima were raised by a vitality buff that has since expired
	s.char.Resources = entities.Resources{Health: 235, MaxHealth: 235, Mana: 75, MaxMana: 75}

	out, err := s.engine.ApplyCharacterExperience(s.ctx, &engine.LevelUpInput{Character: s.char, Amount: 100})
	s.Require().NoError(err)
	s.Equal(1, out.LevelsGained)

	s.Equal(150, s.char.Resources.MaxHealth)
	s.Equal(235, s.char.Resources.Health)
	s.Equal(84, s.char.Resources.MaxMana)
	s.Equal(84, s.char.Resources.Mana)
}

func (s *ProgressionTestSuite) TestRaiseResourcesKeepsCurrentOnShrink() {
	res := entities.Resources{Health: 150, MaxHealth: 150, Mana: 10, MaxMana: 80}

	engine.RaiseResources(&res, engine.Snapshot{MaxHealth: 120, MaxMana: 90})

	s.Equal(150, res.Health)
	s.Equal(120, res.MaxHealth)
	s.Equal(20, res.Mana)
	s.Equal(90, res.MaxMana)
}

func TestScaleExperience(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		bonus  float64
		want   int
	}{
		{name: "no bonus", amount: 40, bonus: 0, want: 40},
		{name: "bonus floors", amount: 33, bonus: 10, want: 36},
		{name: "non-positive grant", amount: 0, bonus: 50, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ScaleExperience(tt.amount, tt.bonus); got != tt.want {
				t.Errorf("ScaleExperience(%d, %v) = %d, want %d", tt.amount, tt.bonus, got, tt.want)
			}
		})
	}
}
