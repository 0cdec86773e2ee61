package character_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-progression/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/testutils"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/builders"
)

type repoFactory func(t *testing.T, clk *mockclock.MockClock) (character.Repository, func())

type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	clock   *mockclock.MockClock
	now     time.Time
	newRepo repoFactory
	repo    character.Repository
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T, clk *mockclock.MockClock) (character.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := character.NewRedis(&character.RedisConfig{Client: client, Clock: clk})
			if err != nil {
				t.Fatalf("failed to create repository: %v", err)
			}
			return repo, cleanup
		},
	})
}

func TestInMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(_ *testing.T, clk *mockclock.MockClock) (character.Repository, func()) {
			return character.NewInMemory(clk), func() {}
		},
	})
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T, clk *mockclock.MockClock) (character.Repository, func()) {
			repo, err := character.NewSQLite(context.Background(), &character.SQLiteConfig{
				Path:  filepath.Join(t.TempDir(), "characters.db"),
				Clock: clk,
			})
			if err != nil {
				t.Fatalf("failed to create repository: %v", err)
			}
			return repo, func() { _ = repo.Close() }
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.now = testutils.TestNow
	s.clock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.repo, s.cleanup = s.newRepo(s.T(), s.clock)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
	s.ctrl.Finish()
}

func (s *RepositoryTestSuite) create(char *entities.Character) *entities.Character {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
	return out.Character
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	char := testutils.CreateTestCharacterAtStage("player-1", testutils.StageEquipped)
	char.Talents.Pools = map[string]entities.PointPool{"general": {Earned: 3, Spent: 1}}
	char.Talents.Ranks = map[string]map[string]int{"general": {"might": 1}}
	char.AttributeCarry = entities.CarryState{"str": 0.25}

	created := s.create(char)
	s.Equal(s.now.Unix(), created.CreatedAt)
	s.Equal(s.now.Unix(), created.UpdatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(char.Name, got.Character.Name)
	s.Equal("rusty_sword", got.Character.Equipment[entities.SlotWeapon])
	s.Equal(1, got.Character.Talents.Rank("general", "might"))
	s.Equal(2, got.Character.Talents.Pools["general"].Unspent())
	s.InDelta(0.25, got.Character.AttributeCarry.Get("str"), 1e-9)
	s.Equal(created.CreatedAt, got.Character.CreatedAt)
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	s.create(builders.NewCharacterBuilder().Build())

	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: builders.NewCharacterBuilder().Build()})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: builders.NewCharacterBuilder().WithID("").Build()})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "ghost"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, character.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdateRequiresNewerVersion() {
	created := s.create(builders.NewCharacterBuilder().WithVersion(1).Build())
	createdAt := created.CreatedAt

	s.now = s.now.Add(time.Minute)
	next := builders.NewCharacterBuilder().WithVersion(2).WithLevel(2).Build()
	out, err := s.repo.Update(s.ctx, character.UpdateInput{Character: next})
	s.Require().NoError(err)
	s.Equal(createdAt, out.Character.CreatedAt)
	s.Equal(s.now.Unix(), out.Character.UpdatedAt)

	stale := builders.NewCharacterBuilder().WithVersion(2).WithLevel(9).Build()
	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: stale})
	s.True(errors.IsAborted(err))

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: next.ID})
	s.Require().NoError(err)
	s.Equal(2, got.Character.Level)
	s.Equal(int64(2), got.Character.Version)
}

func (s *RepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: builders.NewCharacterBuilder().WithVersion(1).Build()})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	char := s.create(builders.NewCharacterBuilder().Build())

	_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: char.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: char.ID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: char.ID})
	s.True(errors.IsNotFound(err))

	list, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: char.PlayerID})
	s.Require().NoError(err)
	s.Empty(list.Characters)
}

func (s *RepositoryTestSuite) TestListByPlayerID() {
	s.create(builders.NewCharacterBuilder().WithID("b").WithPlayerID("p1").Build())
	s.now = s.now.Add(time.Second)
	s.create(builders.NewCharacterBuilder().WithID("a").WithPlayerID("p1").Build())
	s.create(builders.NewCharacterBuilder().WithID("c").WithPlayerID("p2").Build())

	out, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Require().Len(out.Characters, 2)
	s.Equal("b", out.Characters[0].ID)
	s.Equal("a", out.Characters[1].ID)

	_, err = s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdateMovesPlayerIndex() {
	s.create(builders.NewCharacterBuilder().WithID("x").WithPlayerID("p1").WithVersion(1).Build())

	moved := builders.NewCharacterBuilder().WithID("x").WithPlayerID("p2").WithVersion(2).Build()
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: moved})
	s.Require().NoError(err)

	p1, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Empty(p1.Characters)

	p2, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "p2"})
	s.Require().NoError(err)
	s.Len(p2.Characters, 1)
}

func TestRedisListCleansStaleIndexEntries(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutils.CreateTestRedisClient(t)
	defer cleanup()

	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	if err != nil {
		t.Fatal(err)
	}
	if err := client.SAdd(ctx, "character:player:p1", "gone").Err(); err != nil {
		t.Fatal(err)
	}

	out, err := repo.ListByPlayerID(ctx, character.ListByPlayerIDInput{PlayerID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Characters) != 0 {
		t.Fatalf("expected no characters, got %d", len(out.Characters))
	}
	if n, _ := client.SCard(ctx, "character:player:p1").Result(); n != 0 {
		t.Fatalf("stale index entry survived, %d members left", n)
	}
}

func TestNewRedisRequiresClient(t *testing.T) {
	if _, err := character.NewRedis(&character.RedisConfig{}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := character.NewSQLite(context.Background(), &character.SQLiteConfig{}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
