// Package character implements the character orchestrator: every mutation of a character runs
// load, mutate, recompute, save and notify while holding that character's lock.
package character

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/abilities"
	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/hooks"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-progression/internal/providers"
	characterrepo "github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

const errCharacterIDRequired = "character ID is required"

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	Engine        engine.Engine
	Registry      *talents.Registry
	Gate          *abilities.Gate
	Equipment     *providers.Equipment

	// Optional
	Hooks       hooks.Hooks
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	if c.Gate == nil {
		vb.RequiredField("Gate")
	}
	if c.Equipment == nil {
		vb.RequiredField("Equipment")
	}

	return vb.Build()
}

type cachedSnapshot struct {
	version int64
	// validUntil is the next buff expiry, zero when no active buff expires
	validUntil time.Time
	snapshot   engine.Snapshot
}

type session struct {
	openedAt time.Time
	// regenCarry holds remainders from ticks that were not persisted
	regenCarry entities.CarryState
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	characterRepo characterrepo.Repository
	engine        engine.Engine
	registry      *talents.Registry
	gate          *abilities.Gate
	equipment     *providers.Equipment
	hooks         hooks.Hooks
	clock         clock.Clock
	idGen         idgen.Generator

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	cacheMu sync.RWMutex
	cache   map[string]cachedSnapshot

	sessionsMu sync.Mutex
	sessions   map[string]*session
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		engine:        cfg.Engine,
		registry:      cfg.Registry,
		gate:          cfg.Gate,
		equipment:     cfg.Equipment,
		hooks:         cfg.Hooks,
		clock:         cfg.Clock,
		idGen:         cfg.IDGenerator,
		locks:         make(map[string]*sync.Mutex),
		cache:         make(map[string]cachedSnapshot),
		sessions:      make(map[string]*session),
	}
	if o.hooks == nil {
		o.hooks = hooks.Noop{}
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.idGen == nil {
		o.idGen = idgen.NewUUID("char")
	}
	return o, nil
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// Character lifecycle

// CreateCharacter creates a level 1 character with full resources
func (o *Orchestrator) CreateCharacter(
	ctx context.Context,
	input *CreateCharacterInput,
) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", strings.TrimSpace(input.Name), vb)
	errors.ValidateMaxLength("name", input.Name, 64, vb)
	for _, attr := range entities.AllAttributes {
		if input.Base.Get(attr) < 0 {
			vb.Fieldf("base", "%s must not be negative", attr)
		}
	}
	if input.Subclass != "" && input.Class == "" {
		vb.Field("subclass", "requires a class")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char := entities.NewCharacter(o.idGen.Generate(), strings.TrimSpace(input.Name), input.Base)
	char.PlayerID = input.PlayerID
	char.Class = input.Class
	char.Subclass = input.Subclass
	char.Version = 1

	out := o.engine.Stats(&engine.SourcesInput{Character: char})
	char.AttributeCarry = out.Carry
	engine.SyncResources(&char.Resources, out.Snapshot)

	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}
	o.remember(created.Character, out.Snapshot, o.clock.Now())

	slog.InfoContext(ctx, "character created",
		"character_id", char.ID,
		"player_id", char.PlayerID,
		"class", char.Class)

	return &CreateCharacterOutput{Character: created.Character, Snapshot: out.Snapshot}, nil
}

// GetCharacter returns the stored character
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: char}, nil
}

// ListCharacters returns every character of a player
func (o *Orchestrator) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.characterRepo.ListByPlayerID(ctx, characterrepo.ListByPlayerIDInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters for player %s", input.PlayerID)
	}
	return &ListCharactersOutput{Characters: out.Characters}, nil
}

// DeleteCharacter removes a character and forgets its cached state and session
func (o *Orchestrator) DeleteCharacter(
	ctx context.Context,
	input *DeleteCharacterInput,
) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDRequired)
	}

	unlock := o.lock(input.CharacterID)
	defer unlock()

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.CharacterID)
	}
	o.invalidate(input.CharacterID)
	o.endSession(input.CharacterID)

	slog.InfoContext(ctx, "character deleted", "character_id", input.CharacterID)
	return &DeleteCharacterOutput{}, nil
}

// GetEffectiveStats returns the character's snapshot, served from cache while the character's
// version is unchanged and no buff has expired
func (o *Orchestrator) GetEffectiveStats(
	ctx context.Context,
	input *GetEffectiveStatsInput,
) (*GetEffectiveStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	snap, cached, err := o.current(ctx, char, o.clock.Now())
	if err != nil {
		return nil, err
	}
	return &GetEffectiveStatsOutput{Snapshot: snap, Cached: cached}, nil
}

// Talents

// AllocateTalent spends one point on a talent
func (o *Orchestrator) AllocateTalent(
	ctx context.Context,
	input *AllocateTalentInput,
) (*AllocateTalentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *AllocateTalentOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		ledger := talents.NewLedger(o.registry, &char.Talents)
		wasLearned := char.Talents.IsLearned(input.TalentID)

		rank, err := ledger.Allocate(input.GroupID, input.TalentID)
		if err != nil {
			return err
		}

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}

		learned := !wasLearned && char.Talents.IsLearned(input.TalentID)
		o.hooks.TalentLearned(ctx, hooks.TalentLearned{
			CharacterID: char.ID,
			GroupID:     input.GroupID,
			TalentID:    input.TalentID,
			Rank:        rank,
			Ability:     learned,
		})

		output = &AllocateTalentOutput{
			Rank:     rank,
			Unspent:  ledger.Unspent(input.GroupID),
			Learned:  learned,
			Snapshot: snap,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "talent allocated",
		"character_id", input.CharacterID,
		"group_id", input.GroupID,
		"talent_id", input.TalentID,
		"rank", output.Rank)

	return output, nil
}

// DeallocateTalent refunds one point from a talent
func (o *Orchestrator) DeallocateTalent(
	ctx context.Context,
	input *DeallocateTalentInput,
) (*DeallocateTalentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *DeallocateTalentOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		ledger := talents.NewLedger(o.registry, &char.Talents)
		rank, err := ledger.Deallocate(input.GroupID, input.TalentID)
		if err != nil {
			return err
		}

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}
		output = &DeallocateTalentOutput{
			Rank:     rank,
			Unspent:  ledger.Unspent(input.GroupID),
			Snapshot: snap,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Respec refunds every rank of a group
func (o *Orchestrator) Respec(ctx context.Context, input *RespecInput) (*RespecOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *RespecOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		ledger := talents.NewLedger(o.registry, &char.Talents)
		refunded, err := ledger.Respec(input.GroupID)
		if err != nil {
			return err
		}

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}
		output = &RespecOutput{
			Refunded: refunded,
			Unspent:  ledger.Unspent(input.GroupID),
			Snapshot: snap,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "talent group reset",
		"character_id", input.CharacterID,
		"group_id", input.GroupID,
		"refunded", output.Refunded)

	return output, nil
}

// GrantTalentPoints adds earned points to a non-rare group
func (o *Orchestrator) GrantTalentPoints(
	ctx context.Context,
	input *GrantTalentPointsInput,
) (*GrantTalentPointsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *GrantTalentPointsOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		ledger := talents.NewLedger(o.registry, &char.Talents)
		if err := ledger.GrantPoints(input.GroupID, input.Amount); err != nil {
			return err
		}
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}
		output = &GrantTalentPointsOutput{Unspent: ledger.Unspent(input.GroupID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// GrantRarePoints adds earned rare currency
func (o *Orchestrator) GrantRarePoints(
	ctx context.Context,
	input *GrantRarePointsInput,
) (*GrantRarePointsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *GrantRarePointsOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		if err := talents.NewLedger(o.registry, &char.Talents).GrantRarePoints(input.Amount); err != nil {
			return err
		}
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}
		output = &GrantRarePointsOutput{Unspent: char.Talents.RarePool.Unspent()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Ability bar and activation

// AssignAbility places a learned ability on an ability-bar slot
func (o *Orchestrator) AssignAbility(ctx context.Context, input *AssignAbilityInput) (*AssignAbilityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *AssignAbilityOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		if err := talents.NewLedger(o.registry, &char.Talents).AssignSlot(input.Slot, input.AbilityID); err != nil {
			return err
		}
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}
		output = &AssignAbilityOutput{AbilityBar: char.Talents.AbilityBar}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// ClearAbilitySlot empties an ability-bar slot
func (o *Orchestrator) ClearAbilitySlot(
	ctx context.Context,
	input *ClearAbilitySlotInput,
) (*ClearAbilitySlotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *ClearAbilitySlotOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		if err := talents.NewLedger(o.registry, &char.Talents).ClearSlot(input.Slot); err != nil {
			return err
		}
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}
		output = &ClearAbilitySlotOutput{AbilityBar: char.Talents.AbilityBar}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// ActivateAbility runs an ability through the activation gate. A rejected or failed
// activation leaves the stored character untouched.
func (o *Orchestrator) ActivateAbility(
	ctx context.Context,
	input *ActivateAbilityInput,
) (*ActivateAbilityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *ActivateAbilityOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		var (
			result *abilities.ActivateOutput
			err    error
		)
		if input.AbilityID != "" {
			result, err = o.gate.Activate(ctx, &abilities.ActivateInput{
				Character: char,
				AbilityID: input.AbilityID,
				Snapshot:  before,
			})
		} else {
			result, err = o.gate.ActivateSlot(ctx, &abilities.ActivateSlotInput{
				Character: char,
				Slot:      input.Slot,
				Snapshot:  before,
			})
		}
		if err != nil {
			return err
		}

		talents.NewLedger(o.registry, &char.Talents).PruneCooldowns(now)
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}
		output = &ActivateAbilityOutput{Result: result, Mana: char.Resources.Mana}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Progression

// GrantExperience adds character experience scaled by the experience gain bonus
func (o *Orchestrator) GrantExperience(
	ctx context.Context,
	input *GrantExperienceInput,
) (*GrantExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgumentf("experience amount must be positive, got %d", input.Amount)
	}

	var output *GrantExperienceOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		granted := engine.ScaleExperience(input.Amount, before.ExperienceGain)

		src, err := o.sources(ctx, char, now)
		if err != nil {
			return err
		}
		result, err := o.engine.ApplyCharacterExperience(ctx, &engine.LevelUpInput{
			Character: char,
			Amount:    granted,
			Equipment: src.Equipment,
			Buffs:     src.Buffs,
		})
		if err != nil {
			return err
		}

		snap := before
		if result.LevelsGained > 0 {
			snap, err = o.commitWith(ctx, char, before, now, engine.RaiseResources)
		} else {
			err = o.persist(ctx, char, before, now)
		}
		if err != nil {
			return err
		}

		output = &GrantExperienceOutput{
			Granted:       granted,
			Level:         char.Level,
			LevelsGained:  result.LevelsGained,
			PointsGranted: result.PointsGranted,
			Snapshot:      snap,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// GrantSkillExperience adds experience to a named skill scaled by the skill experience bonus
func (o *Orchestrator) GrantSkillExperience(
	ctx context.Context,
	input *GrantSkillExperienceInput,
) (*GrantSkillExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgumentf("experience amount must be positive, got %d", input.Amount)
	}

	var output *GrantSkillExperienceOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		granted := engine.ScaleExperience(input.Amount, before.SkillExperienceGain)
		result, err := o.engine.ApplySkillExperience(ctx, &engine.SkillUpInput{
			Character: char,
			Skill:     input.Skill,
			Amount:    granted,
		})
		if err != nil {
			return err
		}
		if err := o.persist(ctx, char, before, now); err != nil {
			return err
		}

		output = &GrantSkillExperienceOutput{
			Granted:       granted,
			SkillLevel:    char.Skill(input.Skill).Level,
			LevelsGained:  result.LevelsGained,
			PointsGranted: result.PointsGranted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Modifier sources

// Equip places a catalog item in a slot, replacing what was there
func (o *Orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var output *EquipOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		item, err := o.equipment.ItemForSlot(ctx, input.Slot, input.ItemID)
		if err != nil {
			return err
		}

		if char.Equipment == nil {
			char.Equipment = map[entities.Slot]string{}
		}
		replaced := char.Equipment[input.Slot]
		char.Equipment[input.Slot] = item.ID

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}
		output = &EquipOutput{Replaced: replaced, Snapshot: snap}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Unequip empties a slot
func (o *Orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Slot.IsValid() {
		return nil, errors.InvalidArgumentf("unknown slot %q", input.Slot)
	}

	var output *UnequipOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		removed := char.Equipment[input.Slot]
		if removed == "" {
			return errors.FailedPreconditionf("slot %s is empty", input.Slot)
		}
		delete(char.Equipment, input.Slot)

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}
		output = &UnequipOutput{Removed: removed, Snapshot: snap}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// AddBuff applies a buff, refreshing one with the same ID
func (o *Orchestrator) AddBuff(ctx context.Context, input *AddBuffInput) (*AddBuffOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Duration < 0 {
		return nil, errors.InvalidArgumentf("buff duration must not be negative, got %s", input.Duration)
	}

	var output *AddBuffOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		buff := input.Buff
		buff.ExpiresAt = time.Time{}
		if input.Duration > 0 {
			buff.ExpiresAt = now.Add(input.Duration)
		}
		if err := providers.AddBuff(char, buff); err != nil {
			return err
		}

		snap, err := o.commit(ctx, char, before, now)
		if err != nil {
			return err
		}
		output = &AddBuffOutput{ExpiresAt: buff.ExpiresAt, Snapshot: snap}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Internal helpers

type mutation func(char *entities.Character, before engine.Snapshot, now time.Time) error

// mutate runs fn on a freshly loaded character under the character's lock.
// fn is responsible for saving through commit or persist.
func (o *Orchestrator) mutate(ctx context.Context, characterID string, fn mutation) error {
	if characterID == "" {
		return errors.InvalidArgument(errCharacterIDRequired)
	}

	unlock := o.lock(characterID)
	defer unlock()

	char, err := o.load(ctx, characterID)
	if err != nil {
		return err
	}

	now := o.clock.Now()
	before, _, err := o.current(ctx, char, now)
	if err != nil {
		return err
	}
	return fn(char, before, now)
}

func (o *Orchestrator) lock(characterID string) func() {
	o.locksMu.Lock()
	mu, ok := o.locks[characterID]
	if !ok {
		mu = &sync.Mutex{}
		o.locks[characterID] = mu
	}
	o.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// load reads a character, overlaying the regeneration carry of an open session
func (o *Orchestrator) load(ctx context.Context, characterID string) (*entities.Character, error) {
	if characterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDRequired)
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %s", characterID)
	}
	char := out.Character

	o.sessionsMu.Lock()
	if s, ok := o.sessions[characterID]; ok && s.regenCarry != nil {
		char.RegenCarry = s.regenCarry.Clone()
	}
	o.sessionsMu.Unlock()

	return char, nil
}

func (o *Orchestrator) sources(ctx context.Context, char *entities.Character, now time.Time) (*engine.SourcesInput, error) {
	equipment, err := o.equipment.EquippedBonuses(ctx, char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve equipment of character %s", char.ID)
	}
	return &engine.SourcesInput{
		Character: char,
		Equipment: equipment,
		Buffs:     providers.ActiveBuffs(char, now),
	}, nil
}

// current returns the snapshot of the character as stored, from cache when possible
func (o *Orchestrator) current(ctx context.Context, char *entities.Character, now time.Time) (engine.Snapshot, bool, error) {
	if snap, ok := o.cached(char.ID, char.Version, now); ok {
		return snap, true, nil
	}

	src, err := o.sources(ctx, char, now)
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	snap := o.engine.Stats(src).Snapshot
	o.remember(char, snap, now)
	return snap, false, nil
}

type resourceSync func(res *entities.Resources, snap engine.Snapshot)

// commit recomputes stats after a mutation that can change them, advances the attribute carry,
// syncs resource maxima, saves and raises StatsChanged when the snapshot moved
func (o *Orchestrator) commit(
	ctx context.Context,
	char *entities.Character,
	before engine.Snapshot,
	now time.Time,
) (engine.Snapshot, error) {
	return o.commitWith(ctx, char, before, now, engine.SyncResources)
}

// commitWith is commit with a caller-chosen resource rule. The snapshot is aggregated from the
// carry saved as SnapshotCarry, so a later read of the same version derives the same snapshot.
func (o *Orchestrator) commitWith(
	ctx context.Context,
	char *entities.Character,
	before engine.Snapshot,
	now time.Time,
	syncResources resourceSync,
) (engine.Snapshot, error) {
	o.invalidate(char.ID)

	src, err := o.sources(ctx, char, now)
	if err != nil {
		return engine.Snapshot{}, err
	}
	char.SnapshotCarry = char.AttributeCarry.Clone()
	out := o.engine.Stats(src)
	char.AttributeCarry = out.Carry
	syncResources(&char.Resources, out.Snapshot)

	if err := o.save(ctx, char); err != nil {
		return engine.Snapshot{}, err
	}
	o.remember(char, out.Snapshot, now)

	if out.Snapshot != before {
		o.hooks.StatsChanged(ctx, hooks.StatsChanged{
			CharacterID: char.ID,
			Version:     char.Version,
			Snapshot:    out.Snapshot,
		})
	}
	return out.Snapshot, nil
}

// persist saves a mutation that leaves stats unchanged and keeps the cached snapshot
func (o *Orchestrator) persist(
	ctx context.Context,
	char *entities.Character,
	snap engine.Snapshot,
	now time.Time,
) error {
	if err := o.save(ctx, char); err != nil {
		o.invalidate(char.ID)
		return err
	}
	o.remember(char, snap, now)
	return nil
}

func (o *Orchestrator) save(ctx context.Context, char *entities.Character) error {
	char.Version++
	if _, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char}); err != nil {
		return errors.Wrapf(err, "failed to save character %s", char.ID)
	}
	o.trackRegenCarry(char)
	return nil
}

func (o *Orchestrator) cached(characterID string, version int64, now time.Time) (engine.Snapshot, bool) {
	o.cacheMu.RLock()
	defer o.cacheMu.RUnlock()

	entry, ok := o.cache[characterID]
	if !ok || entry.version != version {
		return engine.Snapshot{}, false
	}
	if !entry.validUntil.IsZero() && !now.Before(entry.validUntil) {
		return engine.Snapshot{}, false
	}
	return entry.snapshot, true
}

func (o *Orchestrator) remember(char *entities.Character, snap engine.Snapshot, now time.Time) {
	entry := cachedSnapshot{version: char.Version, snapshot: snap}
	if next, ok := providers.NextExpiry(char, now); ok {
		entry.validUntil = next
	}

	o.cacheMu.Lock()
	o.cache[char.ID] = entry
	o.cacheMu.Unlock()
}

func (o *Orchestrator) invalidate(characterID string) {
	o.cacheMu.Lock()
	delete(o.cache, characterID)
	o.cacheMu.Unlock()
}

// Sessions and regeneration

// OpenSession marks a character as active so the host loop ticks it
func (o *Orchestrator) OpenSession(ctx context.Context, input *OpenSessionInput) (*OpenSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	unlock := o.lock(input.CharacterID)
	defer unlock()

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	o.sessionsMu.Lock()
	if _, ok := o.sessions[char.ID]; !ok {
		o.sessions[char.ID] = &session{
			openedAt:   o.clock.Now(),
			regenCarry: char.RegenCarry.Clone(),
		}
	}
	o.sessionsMu.Unlock()

	slog.DebugContext(ctx, "session opened", "character_id", char.ID)
	return &OpenSessionOutput{}, nil
}

// CloseSession ends a character session, saving regeneration remainders the store has not seen
func (o *Orchestrator) CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDRequired)
	}

	unlock := o.lock(input.CharacterID)
	defer unlock()

	s := o.endSession(input.CharacterID)
	if s == nil {
		return &CloseSessionOutput{}, nil
	}

	stored, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &CloseSessionOutput{}, nil
		}
		return nil, errors.Wrapf(err, "failed to load character %s", input.CharacterID)
	}

	char := stored.Character
	if maps.Equal(char.RegenCarry, s.regenCarry) {
		return &CloseSessionOutput{}, nil
	}
	char.RegenCarry = s.regenCarry
	if err := o.save(ctx, char); err != nil {
		o.invalidate(char.ID)
		return nil, err
	}
	o.invalidate(char.ID)

	slog.DebugContext(ctx, "session closed",
		"character_id", char.ID,
		"duration", o.clock.Now().Sub(s.openedAt))
	return &CloseSessionOutput{}, nil
}

// ActiveSessions returns the ids of characters with an open session
func (o *Orchestrator) ActiveSessions() []string {
	o.sessionsMu.Lock()
	ids := slices.Collect(maps.Keys(o.sessions))
	o.sessionsMu.Unlock()

	slices.Sort(ids)
	return ids
}

func (o *Orchestrator) endSession(characterID string) *session {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()

	s := o.sessions[characterID]
	delete(o.sessions, characterID)
	return s
}

func (o *Orchestrator) hasSession(characterID string) bool {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()
	_, ok := o.sessions[characterID]
	return ok
}

func (o *Orchestrator) trackRegenCarry(char *entities.Character) {
	o.sessionsMu.Lock()
	if s, ok := o.sessions[char.ID]; ok {
		s.regenCarry = char.RegenCarry.Clone()
	}
	o.sessionsMu.Unlock()
}

// Tick expires buffs and regenerates resources for the elapsed time. It saves when resources
// were gained or buffs expired. Otherwise changed remainders stay with the open session, or are
// saved when the character has none.
func (o *Orchestrator) Tick(ctx context.Context, input *TickInput) (*TickOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Elapsed <= 0 {
		return nil, errors.InvalidArgumentf("elapsed must be positive, got %s", input.Elapsed)
	}

	var output *TickOutput
	err := o.mutate(ctx, input.CharacterID, func(char *entities.Character, before engine.Snapshot, now time.Time) error {
		expired := providers.ExpireBuffs(char, now)
		carry := char.RegenCarry.Clone()

		regen := o.engine.Regenerate(&engine.RegenInput{
			Character: char,
			Snapshot:  before,
			Elapsed:   input.Elapsed,
		})
		output = &TickOutput{
			HealthGained: regen.HealthGained,
			ManaGained:   regen.ManaGained,
			BuffsExpired: expired,
		}

		if regen.HealthGained == 0 && regen.ManaGained == 0 && expired == 0 {
			output.Resources = char.Resources
			// without a session to hold them, changed remainders must be saved
			if o.hasSession(char.ID) || maps.Equal(carry, char.RegenCarry) {
				o.trackRegenCarry(char)
				return nil
			}
			if err := o.persist(ctx, char, before, now); err != nil {
				return err
			}
			output.Persisted = true
			return nil
		}

		var err error
		if expired > 0 {
			_, err = o.commit(ctx, char, before, now)
		} else {
			err = o.persist(ctx, char, before, now)
		}
		if err != nil {
			return err
		}
		output.Persisted = true
		output.Resources = char.Resources
		return nil
	})
	if err != nil {
		return nil, err
	}

	if output.BuffsExpired > 0 {
		slog.DebugContext(ctx, "buffs expired",
			"character_id", input.CharacterID,
			"count", output.BuffsExpired)
	}
	return output, nil
}
