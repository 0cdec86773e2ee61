package talents_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

func TestScalingValue(t *testing.T) {
	s := talents.Scaling{Kind: talents.ScalingFlat, Base: 1, PerRank: 1}

	assert.Equal(t, 0.0, s.Value(-1))
	assert.Equal(t, 0.0, s.Value(0))
	assert.Equal(t, 1.0, s.Value(1))
	assert.Equal(t, 3.0, s.Value(3))

	s = talents.Scaling{Kind: talents.ScalingPercent, Base: 2.5, PerRank: 0.5}
	assert.Equal(t, 3.5, s.Value(3))
}

func TestCompilePrimaryAndSecondary(t *testing.T) {
	registry := newTestRegistry(t)
	ledger := &entities.TalentLedger{
		Ranks: map[string]map[string]int{
			"general": {"might": 2, "toughness": 3},
			"warrior": {"cleave": 2},
		},
	}

	mods := talents.Compile(ledger, registry)

	assert.Equal(t, talents.Modifier{Flat: 2}, mods.Of(entities.TargetStrength))
	assert.Equal(t, talents.Modifier{Flat: 3}, mods.Of(entities.TargetVitality))
	assert.Equal(t, talents.Modifier{Percent: 4}, mods.Of(entities.TargetMaxHealth))
	assert.Equal(t, talents.Modifier{Flat: 5}, mods.Of(entities.TargetAttackPower))
	assert.Equal(t, talents.Modifier{}, mods.Of(entities.TargetAgility))
}

func TestCompileAccumulatesOverlappingTargets(t *testing.T) {
	registry := newTestRegistry(t)
	ledger := &entities.TalentLedger{
		Ranks: map[string]map[string]int{
			"general":       {"toughness": 1},
			"constellation": {"star_vigor": 2},
		},
	}

	mods := talents.Compile(ledger, registry)

	// 1 from toughness, 3+3 from star_vigor
	assert.Equal(t, 7.0, mods.Of(entities.TargetVitality).Flat)
}

func TestCompileIsOrderIndependentAndIdempotent(t *testing.T) {
	registry := newTestRegistry(t)
	a := &entities.TalentLedger{
		Ranks: map[string]map[string]int{
			"general":       {"might": 1, "toughness": 2},
			"constellation": {"star_vigor": 1},
		},
	}
	b := &entities.TalentLedger{
		Ranks: map[string]map[string]int{
			"constellation": {"star_vigor": 1},
			"general":       {"toughness": 2, "might": 1},
		},
	}

	first := talents.Compile(a, registry)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, talents.Compile(b, registry))
		assert.Equal(t, first, talents.Compile(a, registry))
	}
}

func TestCompileSkipsOpaqueAndUnknown(t *testing.T) {
	registry, err := talents.NewRegistry([]*talents.Group{
		{
			ID:   "odd",
			Kind: talents.GroupUniversal,
			Talents: []*talents.Definition{
				{
					ID: "lucky", MaxRank: 1, Kind: talents.KindPassive,
					Primary: talents.Scaling{Kind: talents.ScalingFlat, Target: entities.ParseKey("luck"), Base: 5},
				},
			},
		},
	}, nil)
	require.NoError(t, err)

	ledger := &entities.TalentLedger{
		Ranks: map[string]map[string]int{
			"odd":     {"lucky": 1, "vanished": 2},
			"missing": {"ghost": 1},
		},
	}

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	mods := talents.Compile(ledger, registry)

	assert.Empty(t, mods)

	var skipped []string
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var record map[string]any
		require.NoError(t, dec.Decode(&record))
		if record["code"] == errors.CodeUnknownTarget.String() {
			skipped = append(skipped, record["target"].(string))
		}
	}
	assert.Equal(t, []string{"luck"}, skipped)
}

func TestCompileNilInputs(t *testing.T) {
	assert.Empty(t, talents.Compile(nil, nil))
}
