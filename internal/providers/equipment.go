// Package providers resolves the non-talent modifier sources of a character
package providers

import (
	"context"
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/items"
)

// EquipmentConfig configures the equipment provider
type EquipmentConfig struct {
	ItemRepo items.Repository
}

// Validate checks the configuration
func (cfg *EquipmentConfig) Validate() error {
	if cfg.ItemRepo == nil {
		return errors.InvalidArgument("item repository is required")
	}
	return nil
}

// Equipment sums the bonuses of equipped catalog items
type Equipment struct {
	itemRepo items.Repository
}

// NewEquipment creates an equipment provider
func NewEquipment(cfg *EquipmentConfig) (*Equipment, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Equipment{itemRepo: cfg.ItemRepo}, nil
}

// EquippedBonuses returns the summed flat bonuses of every equipped item.
// Items missing from the catalog contribute nothing.
func (p *Equipment) EquippedBonuses(ctx context.Context, char *entities.Character) (entities.EquipmentBonuses, error) {
	var total entities.EquipmentBonuses
	if char == nil || len(char.Equipment) == 0 {
		return total, nil
	}

	ids := make([]string, 0, len(char.Equipment))
	for _, id := range char.Equipment {
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out, err := p.itemRepo.GetMany(ctx, items.GetManyInput{IDs: ids})
	if err != nil {
		return total, errors.Wrapf(err, "failed to load equipment of character %s", char.ID)
	}
	if len(out.Missing) > 0 {
		slog.WarnContext(ctx, "equipped items missing from catalog",
			"character_id", char.ID,
			"item_ids", out.Missing)
	}

	for _, id := range ids {
		if item, ok := out.Items[id]; ok {
			total = total.Plus(item.Bonuses)
		}
	}
	return total, nil
}

// ItemForSlot loads an item and checks that it fits the slot
func (p *Equipment) ItemForSlot(ctx context.Context, slot entities.Slot, itemID string) (*entities.Item, error) {
	if !slot.IsValid() {
		return nil, errors.InvalidArgumentf("unknown slot %q", slot)
	}
	out, err := p.itemRepo.Get(ctx, items.GetInput{ID: itemID})
	if err != nil {
		return nil, err
	}
	if out.Item.Slot != slot {
		return nil, errors.InvalidArgumentf("item %s goes in slot %s, not %s", itemID, out.Item.Slot, slot).
			WithMeta("item_id", itemID)
	}
	return out.Item, nil
}
