// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"slices"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/hooks"
	hooksmock "github.com/KirkDiggler/rpg-progression/internal/hooks/mock"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/items"
	itemsmock "github.com/KirkDiggler/rpg-progression/internal/repositories/items/mock"
)

// ExpectEquipmentLookup sets up the item lookup performed when equipped bonuses are summed.
// Items not in catalog are reported missing.
func ExpectEquipmentLookup(
	ctx context.Context,
	repo *itemsmock.MockRepository,
	char *entities.Character,
	catalog map[string]*entities.Item,
) {
	ids := make([]string, 0, len(char.Equipment))
	for _, id := range char.Equipment {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}
	slices.Sort(ids)

	out := &items.GetManyOutput{Items: map[string]*entities.Item{}}
	for _, id := range ids {
		if item, ok := catalog[id]; ok {
			out.Items[id] = item
			continue
		}
		out.Missing = append(out.Missing, id)
	}

	repo.EXPECT().
		GetMany(ctx, items.GetManyInput{IDs: ids}).
		Return(out, nil).
		AnyTimes()
}

// ExpectStatsChanged expects one stats notification for the character and captures it
func ExpectStatsChanged(ctx context.Context, h *hooksmock.MockHooks, characterID string, captured *hooks.StatsChanged) {
	h.EXPECT().
		StatsChanged(ctx, gomock.Any()).
		Do(func(_ context.Context, event hooks.StatsChanged) {
			if event.CharacterID == characterID && captured != nil {
				*captured = event
			}
		})
}

// IgnoreHooks allows any number of notifications
func IgnoreHooks(h *hooksmock.MockHooks) {
	h.EXPECT().TalentLearned(gomock.Any(), gomock.Any()).AnyTimes()
	h.EXPECT().StatsChanged(gomock.Any(), gomock.Any()).AnyTimes()
}
