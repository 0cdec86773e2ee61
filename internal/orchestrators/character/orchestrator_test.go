package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-progression/internal/abilities"
	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/hooks"
	hooksmock "github.com/KirkDiggler/rpg-progression/internal/hooks/mock"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	mockclock "github.com/KirkDiggler/rpg-progression/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-progression/internal/providers"
	characterrepo "github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/items"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
	"github.com/KirkDiggler/rpg-progression/internal/testutils"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/mocks"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx   context.Context
	ctrl  *gomock.Controller
	now   time.Time
	clock *mockclock.MockClock
	hooks *hooksmock.MockHooks

	registry     *talents.Registry
	repo         *characterrepo.InMemoryRepository
	config       *character.Config
	activateOK   bool
	orchestrator *character.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.now = testutils.TestNow
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.clock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.hooks = hooksmock.NewMockHooks(s.ctrl)
	s.activateOK = true

	registry, err := talents.Default()
	s.Require().NoError(err)
	s.registry = registry

	eng, err := engine.New(&engine.Config{Registry: registry})
	s.Require().NoError(err)

	itemRepo := items.NewInMemory()
	catalog, err := items.DefaultCatalog()
	s.Require().NoError(err)
	s.Require().NoError(items.Seed(s.ctx, itemRepo, catalog))

	equipment, err := providers.NewEquipment(&providers.EquipmentConfig{ItemRepo: itemRepo})
	s.Require().NoError(err)

	gate, err := abilities.New(&abilities.Config{
		Registry: registry,
		Clock:    s.clock,
		Activator: abilities.ActivatorFunc(func(context.Context, *abilities.Activation) bool {
			return s.activateOK
		}),
	})
	s.Require().NoError(err)

	s.repo = characterrepo.NewInMemory(s.clock)
	s.config = &character.Config{
		CharacterRepo: s.repo,
		Engine:        eng,
		Registry:      registry,
		Gate:          gate,
		Equipment:     equipment,
		Hooks:         s.hooks,
		Clock:         s.clock,
		IDGenerator:   idgen.NewSequential("char"),
	}
	s.orchestrator, err = character.New(s.config)
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) createWarrior() *entities.Character {
	out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		PlayerID: "player-1",
		Name:     "Ayla",
		Class:    "warrior",
		Base:     entities.Attributes{Strength: 5, Agility: 5, Intelligence: 5, Vitality: 5},
	})
	s.Require().NoError(err)
	return out.Character
}

func (s *OrchestratorTestSuite) stored(id string) *entities.Character {
	out, err := s.repo.Get(s.ctx, characterrepo.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Character
}

// overwrite stores a direct edit of the character, bypassing the orchestrator
func (s *OrchestratorTestSuite) overwrite(id string, edit func(*entities.Character)) {
	char := s.stored(id)
	edit(char)
	char.Version++
	_, err := s.repo.Update(s.ctx, characterrepo.UpdateInput{Character: char})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestNewRequiresDependencies() {
	_, err := character.New(&character.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = character.New(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateCharacterStartsFull() {
	out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		PlayerID: "player-1",
		Name:     "  Ayla ",
		Class:    "warrior",
		Base:     entities.Attributes{Strength: 5, Agility: 5, Intelligence: 5, Vitality: 5},
	})
	s.Require().NoError(err)

	char := out.Character
	s.Equal("char_1", char.ID)
	s.Equal("Ayla", char.Name)
	s.Equal(int64(1), char.Version)
	s.Equal(1, char.Level)
	s.Equal(entities.Resources{Health: 135, MaxHealth: 135, Mana: 75, MaxMana: 75}, char.Resources)
	s.Equal(135, out.Snapshot.MaxHealth)

	list, err := s.orchestrator.ListCharacters(s.ctx, &character.ListCharactersInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Len(list.Characters, 1)
}

func (s *OrchestratorTestSuite) TestCreateCharacterValidation() {
	_, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{Name: " "})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		Name: "Ayla",
		Base: entities.Attributes{Strength: -1},
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{Name: "Ayla", Subclass: "pyromancer"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestAllocateTalentNotifiesAndRecomputes() {
	char := s.createWarrior()

	_, err := s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID,
		GroupID:     "general",
		Amount:      3,
	})
	s.Require().NoError(err)

	s.hooks.EXPECT().TalentLearned(s.ctx, hooks.TalentLearned{
		CharacterID: char.ID,
		GroupID:     "general",
		TalentID:    "might",
		Rank:        1,
	})
	var changed hooks.StatsChanged
	mocks.ExpectStatsChanged(s.ctx, s.hooks, char.ID, &changed)

	out, err := s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID,
		GroupID:     "general",
		TalentID:    "might",
	})
	s.Require().NoError(err)

	s.Equal(1, out.Rank)
	s.Equal(2, out.Unspent)
	s.False(out.Learned)
	s.Equal(6, out.Snapshot.Attributes.Strength)
	s.Equal(out.Snapshot, changed.Snapshot)
	s.Equal(int64(3), changed.Version)

	stored := s.stored(char.ID)
	s.Equal(int64(3), stored.Version)
	s.NoError(talents.NewLedger(s.registry, &stored.Talents).CheckConservation())
}

func (s *OrchestratorTestSuite) TestAllocateWithoutPointsLeavesStateUntouched() {
	char := s.createWarrior()

	_, err := s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID,
		GroupID:     "general",
		TalentID:    "might",
	})
	s.True(errors.IsInsufficientPoints(err))
	s.Equal(int64(1), s.stored(char.ID).Version)

	_, err = s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID,
		GroupID:     "general",
		TalentID:    "fireball",
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestDeallocateAndRespec() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	_, err := s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID, GroupID: "general", Amount: 3,
	})
	s.Require().NoError(err)
	for i := 0; i < 3; i++ {
		_, err = s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
			CharacterID: char.ID, GroupID: "general", TalentID: "might",
		})
		s.Require().NoError(err)
	}

	dealloc, err := s.orchestrator.DeallocateTalent(s.ctx, &character.DeallocateTalentInput{
		CharacterID: char.ID, GroupID: "general", TalentID: "might",
	})
	s.Require().NoError(err)
	s.Equal(2, dealloc.Rank)
	s.Equal(1, dealloc.Unspent)

	respec, err := s.orchestrator.Respec(s.ctx, &character.RespecInput{CharacterID: char.ID, GroupID: "general"})
	s.Require().NoError(err)
	s.Equal(2, respec.Refunded)
	s.Equal(3, respec.Unspent)
	s.Equal(5, respec.Snapshot.Attributes.Strength)

	_, err = s.orchestrator.DeallocateTalent(s.ctx, &character.DeallocateTalentInput{
		CharacterID: char.ID, GroupID: "general", TalentID: "might",
	})
	s.True(errors.IsNothingAllocated(err))
}

func (s *OrchestratorTestSuite) TestGrantExperienceLevelsUpAndRaisesCurrentResources() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()
	s.overwrite(char.ID, func(c *entities.Character) { c.Resources.Health = 100 })

	out, err := s.orchestrator.GrantExperience(s.ctx, &character.GrantExperienceInput{
		CharacterID: char.ID,
		Amount:      100,
	})
	s.Require().NoError(err)

	s.Equal(100, out.Granted)
	s.Equal(2, out.Level)
	s.Equal(1, out.LevelsGained)
	s.Equal(map[string]int{"general": 3, "warrior": 3}, out.PointsGranted)

	stored := s.stored(char.ID)
	s.Equal(125, stored.ExperienceToNext)
	s.Equal(entities.Attributes{Strength: 6, Agility: 5, Intelligence: 5, Vitality: 6}, stored.Base)
	s.Equal(150, stored.Resources.MaxHealth)
	s.Equal(115, stored.Resources.Health)
	s.InDelta(0.5, stored.GrowthCarry.Get("str"), 1e-9)
}

func (s *OrchestratorTestSuite) TestLevelUpKeepsHealthAboveShrunkMaximum() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	_, err := s.orchestrator.AddBuff(s.ctx, &character.AddBuffInput{
		CharacterID: char.ID,
		Buff:        entities.Buff{ID: "titan_blood", StatBonus: entities.Attributes{Vitality: 20}},
		Duration:    5 * time.Second,
	})
	s.Require().NoError(err)
	buffed := s.stored(char.ID)
	s.Equal(235, buffed.Resources.MaxHealth)
	s.Equal(235, buffed.Resources.Health)

	s.now = s.now.Add(6 * time.Second)
	out, err := s.orchestrator.GrantExperience(s.ctx, &character.GrantExperienceInput{
		CharacterID: char.ID,
		Amount:      100,
	})
	s.Require().NoError(err)
	s.Equal(1, out.LevelsGained)
	s.Equal(150, out.Snapshot.MaxHealth)

	stored := s.stored(char.ID)
	s.Equal(150, stored.Resources.MaxHealth)
	s.Equal(235, stored.Resources.Health)
}

func (s *OrchestratorTestSuite) TestGrantExperienceAppliesGainBonus() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	_, err := s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID, GroupID: "general", Amount: 1,
	})
	s.Require().NoError(err)
	_, err = s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID, GroupID: "general", TalentID: "scholar",
	})
	s.Require().NoError(err)

	out, err := s.orchestrator.GrantExperience(s.ctx, &character.GrantExperienceInput{CharacterID: char.ID, Amount: 50})
	s.Require().NoError(err)
	s.Equal(51, out.Granted)
	s.Equal(0, out.LevelsGained)

	skill, err := s.orchestrator.GrantSkillExperience(s.ctx, &character.GrantSkillExperienceInput{
		CharacterID: char.ID,
		Skill:       "mining",
		Amount:      100,
	})
	s.Require().NoError(err)
	s.Equal(103, skill.Granted)
	s.Equal(2, skill.SkillLevel)
	s.Equal(map[string]int{"general": 1, "warrior": 1}, skill.PointsGranted)

	_, err = s.orchestrator.GrantExperience(s.ctx, &character.GrantExperienceInput{CharacterID: char.ID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestEquipAndUnequip() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	equip, err := s.orchestrator.Equip(s.ctx, &character.EquipInput{
		CharacterID: char.ID,
		Slot:        entities.SlotOffhand,
		ItemID:      "wooden_shield",
	})
	s.Require().NoError(err)
	s.Empty(equip.Replaced)
	s.Equal(6, equip.Snapshot.Defense)

	_, err = s.orchestrator.Equip(s.ctx, &character.EquipInput{
		CharacterID: char.ID,
		Slot:        entities.SlotHead,
		ItemID:      "wooden_shield",
	})
	s.True(errors.IsInvalidArgument(err))

	unequip, err := s.orchestrator.Unequip(s.ctx, &character.UnequipInput{
		CharacterID: char.ID,
		Slot:        entities.SlotOffhand,
	})
	s.Require().NoError(err)
	s.Equal("wooden_shield", unequip.Removed)
	s.Equal(2, unequip.Snapshot.Defense)

	_, err = s.orchestrator.Unequip(s.ctx, &character.UnequipInput{
		CharacterID: char.ID,
		Slot:        entities.SlotOffhand,
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestSnapshotCacheExpiresWithBuff() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	buffed, err := s.orchestrator.AddBuff(s.ctx, &character.AddBuffInput{
		CharacterID: char.ID,
		Buff:        entities.Buff{ID: "war_cry", StatBonus: entities.Attributes{Strength: 3}},
		Duration:    10 * time.Second,
	})
	s.Require().NoError(err)
	s.Equal(s.now.Add(10*time.Second), buffed.ExpiresAt)
	s.Equal(8, buffed.Snapshot.Attributes.Strength)

	stats, err := s.orchestrator.GetEffectiveStats(s.ctx, &character.GetEffectiveStatsInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.True(stats.Cached)
	s.Equal(8, stats.Snapshot.Attributes.Strength)

	s.now = s.now.Add(11 * time.Second)
	stats, err = s.orchestrator.GetEffectiveStats(s.ctx, &character.GetEffectiveStatsInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.False(stats.Cached)
	s.Equal(5, stats.Snapshot.Attributes.Strength)
}

func (s *OrchestratorTestSuite) TestCachedAndRecomputedSnapshotsAgree() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()
	s.overwrite(char.ID, func(c *entities.Character) { c.Base.Strength = 10 })

	_, err := s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID, GroupID: "warrior", Amount: 1,
	})
	s.Require().NoError(err)
	// 5% of strength 10 leaves half a point in the carry
	alloc, err := s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID, GroupID: "warrior", TalentID: "brute_force",
	})
	s.Require().NoError(err)
	s.InDelta(0.5, s.stored(char.ID).AttributeCarry.Get("str"), 1e-9)

	warm, err := s.orchestrator.GetEffectiveStats(s.ctx, &character.GetEffectiveStatsInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.True(warm.Cached)
	s.Equal(alloc.Snapshot, warm.Snapshot)

	restarted, err := character.New(s.config)
	s.Require().NoError(err)
	cold, err := restarted.GetEffectiveStats(s.ctx, &character.GetEffectiveStatsInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.False(cold.Cached)
	s.Equal(warm.Snapshot, cold.Snapshot)
	s.Equal(10, cold.Snapshot.Attributes.Strength)
}

func (s *OrchestratorTestSuite) TestActivateAbility() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	_, err := s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID, GroupID: "warrior", Amount: 1,
	})
	s.Require().NoError(err)

	_, err = s.orchestrator.ActivateAbility(s.ctx, &character.ActivateAbilityInput{CharacterID: char.ID, AbilityID: "cleave"})
	s.True(errors.IsNotLearned(err))

	alloc, err := s.orchestrator.AllocateTalent(s.ctx, &character.AllocateTalentInput{
		CharacterID: char.ID, GroupID: "warrior", TalentID: "cleave",
	})
	s.Require().NoError(err)
	s.True(alloc.Learned)

	bar, err := s.orchestrator.AssignAbility(s.ctx, &character.AssignAbilityInput{CharacterID: char.ID, Slot: 0, AbilityID: "cleave"})
	s.Require().NoError(err)
	s.Equal("cleave", bar.AbilityBar[0])

	out, err := s.orchestrator.ActivateAbility(s.ctx, &character.ActivateAbilityInput{CharacterID: char.ID, Slot: 0})
	s.Require().NoError(err)
	s.Equal(abilities.StateCommitted, out.Result.State)
	s.Equal(65, out.Mana)
	s.Equal(8*time.Second, out.Result.Cooldown)

	_, err = s.orchestrator.ActivateAbility(s.ctx, &character.ActivateAbilityInput{CharacterID: char.ID, AbilityID: "cleave"})
	s.True(errors.IsOnCooldown(err))

	s.now = s.now.Add(9 * time.Second)
	s.activateOK = false
	_, err = s.orchestrator.ActivateAbility(s.ctx, &character.ActivateAbilityInput{CharacterID: char.ID, AbilityID: "cleave"})
	s.True(errors.IsActivationFailed(err))
	s.Equal(65, s.stored(char.ID).Resources.Mana)

	s.activateOK = true
	out, err = s.orchestrator.ActivateAbility(s.ctx, &character.ActivateAbilityInput{CharacterID: char.ID, AbilityID: "cleave"})
	s.Require().NoError(err)
	s.Equal(55, out.Mana)

	cleared, err := s.orchestrator.ClearAbilitySlot(s.ctx, &character.ClearAbilitySlotInput{CharacterID: char.ID, Slot: 0})
	s.Require().NoError(err)
	s.Empty(cleared.AbilityBar[0])
}

func (s *OrchestratorTestSuite) TestTickRegeneratesAndThreadsRemainders() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()
	s.overwrite(char.ID, func(c *entities.Character) {
		c.Resources.Health = 10
		c.Resources.Mana = 0
	})

	_, err := s.orchestrator.OpenSession(s.ctx, &character.OpenSessionInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.Equal([]string{char.ID}, s.orchestrator.ActiveSessions())

	// health regenerates 1.5/s and mana 0.75/s at vitality and intelligence 5
	first, err := s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID, Elapsed: time.Second})
	s.Require().NoError(err)
	s.Equal(1, first.HealthGained)
	s.Equal(0, first.ManaGained)
	s.True(first.Persisted)

	second, err := s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID, Elapsed: time.Second})
	s.Require().NoError(err)
	s.Equal(2, second.HealthGained)
	s.Equal(1, second.ManaGained)

	stored := s.stored(char.ID)
	s.Equal(13, stored.Resources.Health)
	s.Equal(1, stored.Resources.Mana)
	s.InDelta(0.5, stored.RegenCarry.Get(entities.CarryMana), 1e-9)

	_, err = s.orchestrator.CloseSession(s.ctx, &character.CloseSessionInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.Empty(s.orchestrator.ActiveSessions())
}

func (s *OrchestratorTestSuite) TestTickAtFullResourcesDoesNotPersist() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	out, err := s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID, Elapsed: time.Second})
	s.Require().NoError(err)
	s.False(out.Persisted)
	s.Equal(int64(1), s.stored(char.ID).Version)

	_, err = s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestTickWithoutSessionKeepsRemainders() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()
	// mana regenerates 0.5/s at intelligence 0
	s.overwrite(char.ID, func(c *entities.Character) {
		c.Base.Intelligence = 0
		c.Resources.Mana = 0
	})

	gained := 0
	for range 4 {
		out, err := s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID, Elapsed: time.Second})
		s.Require().NoError(err)
		s.True(out.Persisted)
		gained += out.ManaGained
	}
	s.Equal(2, gained)
	s.Equal(2, s.stored(char.ID).Resources.Mana)
	s.Empty(s.orchestrator.ActiveSessions())
}

func (s *OrchestratorTestSuite) TestTickExpiresBuffs() {
	mocks.IgnoreHooks(s.hooks)
	char := s.createWarrior()

	_, err := s.orchestrator.AddBuff(s.ctx, &character.AddBuffInput{
		CharacterID: char.ID,
		Buff:        entities.Buff{ID: "stone_skin", StatBonus: entities.Attributes{Vitality: 4}},
		Duration:    5 * time.Second,
	})
	s.Require().NoError(err)
	s.Equal(155, s.stored(char.ID).Resources.MaxHealth)

	s.now = s.now.Add(6 * time.Second)
	out, err := s.orchestrator.Tick(s.ctx, &character.TickInput{CharacterID: char.ID, Elapsed: time.Second})
	s.Require().NoError(err)
	s.Equal(1, out.BuffsExpired)
	s.True(out.Persisted)

	stored := s.stored(char.ID)
	s.Empty(stored.Buffs)
	s.Equal(135, stored.Resources.MaxHealth)
	s.Equal(135, stored.Resources.Health)
}

func (s *OrchestratorTestSuite) TestDeleteCharacter() {
	char := s.createWarrior()
	_, err := s.orchestrator.OpenSession(s.ctx, &character.OpenSessionInput{CharacterID: char.ID})
	s.Require().NoError(err)

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &character.DeleteCharacterInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.Empty(s.orchestrator.ActiveSessions())

	_, err = s.orchestrator.GetCharacter(s.ctx, &character.GetCharacterInput{CharacterID: char.ID})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &character.DeleteCharacterInput{CharacterID: char.ID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestRarePoints() {
	char := s.createWarrior()

	out, err := s.orchestrator.GrantRarePoints(s.ctx, &character.GrantRarePointsInput{CharacterID: char.ID, Amount: 2})
	s.Require().NoError(err)
	s.Equal(2, out.Unspent)

	_, err = s.orchestrator.GrantTalentPoints(s.ctx, &character.GrantTalentPointsInput{
		CharacterID: char.ID, GroupID: "constellation", Amount: 1,
	})
	s.True(errors.IsInvalidArgument(err))
}
