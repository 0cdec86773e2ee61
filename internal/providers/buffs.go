package providers

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// ActiveBuffs returns the buffs still in effect at now
func ActiveBuffs(char *entities.Character, now time.Time) []entities.Buff {
	if char == nil {
		return nil
	}
	var active []entities.Buff
	for _, b := range char.Buffs {
		if b.IsActive(now) {
			active = append(active, b)
		}
	}
	return active
}

// ExpireBuffs removes expired buffs from the character and returns how many were removed
func ExpireBuffs(char *entities.Character, now time.Time) int {
	if char == nil || len(char.Buffs) == 0 {
		return 0
	}
	kept := char.Buffs[:0]
	for _, b := range char.Buffs {
		if b.IsActive(now) {
			kept = append(kept, b)
		}
	}
	removed := len(char.Buffs) - len(kept)
	if len(kept) == 0 {
		kept = nil
	}
	char.Buffs = kept
	return removed
}

// NextExpiry returns the earliest expiry among buffs still active at now
func NextExpiry(char *entities.Character, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, b := range ActiveBuffs(char, now) {
		if b.ExpiresAt.IsZero() {
			continue
		}
		if !found || b.ExpiresAt.Before(next) {
			next = b.ExpiresAt
			found = true
		}
	}
	return next, found
}

// AddBuff applies a buff. A buff with the same ID is replaced, refreshing its expiry.
func AddBuff(char *entities.Character, buff entities.Buff) error {
	if buff.ID == "" {
		return errors.InvalidArgument("buff ID is required")
	}
	for i, b := range char.Buffs {
		if b.ID == buff.ID {
			char.Buffs[i] = buff
			return nil
		}
	}
	char.Buffs = append(char.Buffs, buff)
	return nil
}
