package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-progression/internal/engine"
	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Operate on stored characters",
	Long: `Run single progression operations against the configured store. Use a persistent store
(--store sqlite or redis) so changes survive between invocations.`,
}

var (
	createPlayer   string
	createName     string
	createClass    string
	createSubclass string
	createBase     [4]int

	xpSkill      string
	tickElapsed  time.Duration
	activateSlot int
	fumbleOn     int
	buffDuration time.Duration
	buffStrength int
	buffDefense  int
	listPlayerID string
)

func init() {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a level 1 character",
		Args:  cobra.NoArgs,
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, _ []string) error {
			res, err := o.CreateCharacter(ctx, &character.CreateCharacterInput{
				PlayerID: createPlayer,
				Name:     createName,
				Class:    createClass,
				Subclass: createSubclass,
				Base: entities.Attributes{
					Strength:     createBase[0],
					Agility:      createBase[1],
					Intelligence: createBase[2],
					Vitality:     createBase[3],
				},
			})
			if err != nil {
				return err
			}
			printCharacter(out, res.Character)
			printSnapshot(out, res.Snapshot)
			return nil
		}),
	}
	createCmd.Flags().StringVar(&createPlayer, "player", "", "owning player id")
	createCmd.Flags().StringVar(&createName, "name", "", "character name")
	createCmd.Flags().StringVar(&createClass, "class", "", "class id")
	createCmd.Flags().StringVar(&createSubclass, "subclass", "", "subclass id")
	createCmd.Flags().IntVar(&createBase[0], "str", 5, "base strength")
	createCmd.Flags().IntVar(&createBase[1], "agi", 5, "base agility")
	createCmd.Flags().IntVar(&createBase[2], "int", 5, "base intelligence")
	createCmd.Flags().IntVar(&createBase[3], "vit", 5, "base vitality")
	_ = createCmd.MarkFlagRequired("name")

	showCmd := &cobra.Command{
		Use:   "show <character-id>",
		Short: "Show a character and its effective stats",
		Args:  cobra.ExactArgs(1),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			got, err := o.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: args[0]})
			if err != nil {
				return err
			}
			stats, err := o.GetEffectiveStats(ctx, &character.GetEffectiveStatsInput{CharacterID: args[0]})
			if err != nil {
				return err
			}
			printCharacter(out, got.Character)
			printSnapshot(out, stats.Snapshot)
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a player's characters",
		Args:  cobra.NoArgs,
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, _ []string) error {
			res, err := o.ListCharacters(ctx, &character.ListCharactersInput{PlayerID: listPlayerID})
			if err != nil {
				return err
			}
			for _, c := range res.Characters {
				fmt.Fprintf(out, "%s\t%s\tlevel %d %s\n", c.ID, c.Name, c.Level, c.Class)
			}
			return nil
		}),
	}
	listCmd.Flags().StringVar(&listPlayerID, "player", "", "player id")
	_ = listCmd.MarkFlagRequired("player")

	deleteCmd := &cobra.Command{
		Use:   "delete <character-id>",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			if _, err := o.DeleteCharacter(ctx, &character.DeleteCharacterInput{CharacterID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted %s\n", args[0])
			return nil
		}),
	}

	grantCmd := &cobra.Command{
		Use:   "grant-points <character-id> <group-id|rare> <amount>",
		Short: "Grant talent points to a group, or rare points",
		Args:  cobra.ExactArgs(3),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if args[1] == "rare" {
				res, err := o.GrantRarePoints(ctx, &character.GrantRarePointsInput{CharacterID: args[0], Amount: amount})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "rare points unspent: %d\n", res.Unspent)
				return nil
			}
			res, err := o.GrantTalentPoints(ctx, &character.GrantTalentPointsInput{
				CharacterID: args[0],
				GroupID:     args[1],
				Amount:      amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s points unspent: %d\n", args[1], res.Unspent)
			return nil
		}),
	}

	allocateCmd := &cobra.Command{
		Use:   "allocate <character-id> <group-id> <talent-id>",
		Short: "Spend one point on a talent",
		Args:  cobra.ExactArgs(3),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.AllocateTalent(ctx, &character.AllocateTalentInput{
				CharacterID: args[0],
				GroupID:     args[1],
				TalentID:    args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s rank %d, %d points left", args[2], res.Rank, res.Unspent)
			if res.Learned {
				fmt.Fprint(out, ", ability learned")
			}
			fmt.Fprintln(out)
			printSnapshot(out, res.Snapshot)
			return nil
		}),
	}

	deallocateCmd := &cobra.Command{
		Use:   "deallocate <character-id> <group-id> <talent-id>",
		Short: "Refund one point from a talent",
		Args:  cobra.ExactArgs(3),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.DeallocateTalent(ctx, &character.DeallocateTalentInput{
				CharacterID: args[0],
				GroupID:     args[1],
				TalentID:    args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s rank %d, %d points left\n", args[2], res.Rank, res.Unspent)
			return nil
		}),
	}

	respecCmd := &cobra.Command{
		Use:   "respec <character-id> <group-id>",
		Short: "Refund every rank of a talent group",
		Args:  cobra.ExactArgs(2),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.Respec(ctx, &character.RespecInput{CharacterID: args[0], GroupID: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "refunded %d, %d points unspent\n", res.Refunded, res.Unspent)
			return nil
		}),
	}

	xpCmd := &cobra.Command{
		Use:   "xp <character-id> <amount>",
		Short: "Grant character or skill experience",
		Args:  cobra.ExactArgs(2),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if xpSkill != "" {
				res, err := o.GrantSkillExperience(ctx, &character.GrantSkillExperienceInput{
					CharacterID: args[0],
					Skill:       xpSkill,
					Amount:      amount,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s +%d xp, level %d (+%d), points %v\n",
					xpSkill, res.Granted, res.SkillLevel, res.LevelsGained, res.PointsGranted)
				return nil
			}

			res, err := o.GrantExperience(ctx, &character.GrantExperienceInput{CharacterID: args[0], Amount: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "+%d xp, level %d (+%d), points %v\n",
				res.Granted, res.Level, res.LevelsGained, res.PointsGranted)
			return nil
		}),
	}
	xpCmd.Flags().StringVar(&xpSkill, "skill", "", "grant to this skill instead of the character")

	equipCmd := &cobra.Command{
		Use:   "equip <character-id> <slot> <item-id>",
		Short: "Equip a catalog item",
		Args:  cobra.ExactArgs(3),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.Equip(ctx, &character.EquipInput{
				CharacterID: args[0],
				Slot:        entities.Slot(args[1]),
				ItemID:      args[2],
			})
			if err != nil {
				return err
			}
			if res.Replaced != "" {
				fmt.Fprintf(out, "replaced %s\n", res.Replaced)
			}
			printSnapshot(out, res.Snapshot)
			return nil
		}),
	}

	unequipCmd := &cobra.Command{
		Use:   "unequip <character-id> <slot>",
		Short: "Empty an equipment slot",
		Args:  cobra.ExactArgs(2),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.Unequip(ctx, &character.UnequipInput{CharacterID: args[0], Slot: entities.Slot(args[1])})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "removed %s\n", res.Removed)
			printSnapshot(out, res.Snapshot)
			return nil
		}),
	}

	buffCmd := &cobra.Command{
		Use:   "buff <character-id> <buff-id>",
		Short: "Apply a timed buff",
		Args:  cobra.ExactArgs(2),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			res, err := o.AddBuff(ctx, &character.AddBuffInput{
				CharacterID: args[0],
				Buff: entities.Buff{
					ID:           args[1],
					Source:       "cli",
					StatBonus:    entities.Attributes{Strength: buffStrength},
					DefenseBonus: buffDefense,
				},
				Duration: buffDuration,
			})
			if err != nil {
				return err
			}
			if !res.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "expires at %s\n", res.ExpiresAt.Format(time.RFC3339))
			}
			printSnapshot(out, res.Snapshot)
			return nil
		}),
	}
	buffCmd.Flags().DurationVar(&buffDuration, "duration", time.Minute, "buff duration, 0 never expires")
	buffCmd.Flags().IntVar(&buffStrength, "str", 0, "strength bonus")
	buffCmd.Flags().IntVar(&buffDefense, "defense", 0, "defense bonus")

	assignCmd := &cobra.Command{
		Use:   "assign <character-id> <slot> <ability-id>",
		Short: "Place a learned ability on the ability bar",
		Args:  cobra.ExactArgs(3),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.InvalidArgumentf("slot must be a number, got %q", args[1])
			}
			res, err := o.AssignAbility(ctx, &character.AssignAbilityInput{
				CharacterID: args[0],
				Slot:        slot,
				AbilityID:   args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ability bar: %v\n", res.AbilityBar)
			return nil
		}),
	}

	activateCmd := &cobra.Command{
		Use:   "activate <character-id> [ability-id]",
		Short: "Activate an ability by id, or by ability-bar slot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			input := &character.ActivateAbilityInput{CharacterID: args[0], Slot: activateSlot}
			if len(args) == 2 {
				input.AbilityID = args[1]
			}
			res, err := o.ActivateAbility(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: spent %d mana, %d left, cooldown %s\n",
				res.Result.State, res.Result.ManaSpent, res.Mana, res.Result.Cooldown)
			return nil
		}),
	}
	activateCmd.Flags().IntVar(&activateSlot, "slot", 0, "ability-bar slot used when no ability id is given")
	activateCmd.Flags().IntVar(&fumbleOn, "fumble-on", 1, "d20 rolls at or below this fail the activation")

	tickCmd := &cobra.Command{
		Use:   "tick <character-id>",
		Short: "Regenerate resources for an elapsed duration",
		Args:  cobra.ExactArgs(1),
		RunE: withOrchestrator(func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error {
			if _, err := o.OpenSession(ctx, &character.OpenSessionInput{CharacterID: args[0]}); err != nil {
				return err
			}
			res, err := o.Tick(ctx, &character.TickInput{CharacterID: args[0], Elapsed: tickElapsed})
			if err != nil {
				return err
			}
			// closing flushes remainders of a tick that gained nothing
			if _, err := o.CloseSession(ctx, &character.CloseSessionInput{CharacterID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(out, "+%d health, +%d mana, %d buffs expired, health %d/%d, mana %d/%d\n",
				res.HealthGained, res.ManaGained, res.BuffsExpired,
				res.Resources.Health, res.Resources.MaxHealth,
				res.Resources.Mana, res.Resources.MaxMana)
			return nil
		}),
	}
	tickCmd.Flags().DurationVar(&tickElapsed, "elapsed", time.Second, "time to regenerate for")

	characterCmd.AddCommand(
		createCmd, showCmd, listCmd, deleteCmd,
		grantCmd, allocateCmd, deallocateCmd, respecCmd,
		xpCmd, equipCmd, unequipCmd, buffCmd,
		assignCmd, activateCmd, tickCmd,
	)
}

type orchestratorFunc func(ctx context.Context, out io.Writer, o *character.Orchestrator, args []string) error

// withOrchestrator wires the stack for one command invocation
func withOrchestrator(fn orchestratorFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{fumbleOn: fumbleOn})
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, cmd.OutOrStdout(), a.orchestrator, args)
	}
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidArgumentf("amount must be a number, got %q", s)
	}
	return n, nil
}

func printCharacter(out io.Writer, c *entities.Character) {
	fmt.Fprintf(out, "%s %q (%s", c.ID, c.Name, c.Class)
	if c.Subclass != "" {
		fmt.Fprintf(out, "/%s", c.Subclass)
	}
	fmt.Fprintf(out, ") level %d, xp %d/%d, version %d\n", c.Level, c.Experience, c.ExperienceToNext, c.Version)
	fmt.Fprintf(out, "  health %d/%d  mana %d/%d\n",
		c.Resources.Health, c.Resources.MaxHealth, c.Resources.Mana, c.Resources.MaxMana)
	for _, slot := range entities.AllSlots {
		if id := c.Equipment[slot]; id != "" {
			fmt.Fprintf(out, "  %s: %s\n", slot, id)
		}
	}
}

func printSnapshot(out io.Writer, s engine.Snapshot) {
	a := s.Attributes
	fmt.Fprintf(out, "  str %d  agi %d  int %d  vit %d\n", a.Strength, a.Agility, a.Intelligence, a.Vitality)
	fmt.Fprintf(out, "  max health %d  max mana %d  defense %d  attack %d\n",
		s.MaxHealth, s.MaxMana, s.Defense, s.AttackPower)
	fmt.Fprintf(out, "  regen %.2f hp/s %.2f mp/s  crit %.1f%% x%.1f%%  cdr %.1f%%\n",
		s.HealthRegen, s.ManaRegen, s.CritChance, s.CritDamage, s.CooldownReduction)
	fmt.Fprintf(out, "  move %.1f  gather %.2f  attack speed %.2f (%s)\n",
		s.MovementSpeed, s.GatheringSpeed, s.AttackSpeed, s.AttackInterval)
}
