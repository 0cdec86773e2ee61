package engine

import (
	"math"
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
)

// TickResource advances one resource by rate*elapsed, threading the fractional remainder.
// It returns the gain applied, the new current value and the new remainder.
// A non-positive rate, or reaching the maximum, discards the remainder.
func TickResource(current, maximum int, rate float64, elapsed time.Duration, remainder float64) (int, int, float64) {
	if rate <= 0 {
		return 0, current, 0
	}
	if elapsed <= 0 {
		return 0, current, remainder
	}

	f := rate*elapsed.Seconds() + remainder
	whole := math.Floor(f)
	remainder = f - whole

	gain := int(whole)
	room := maximum - current
	if room < 0 {
		room = 0
	}
	if gain > room {
		gain = room
	}
	if gain < 0 {
		gain = 0
	}
	if current+gain >= maximum {
		// a full resource has nothing left to accrue toward
		remainder = 0
	}
	return gain, current + gain, remainder
}

// TickResources regenerates health and mana of res using the snapshot rates and the carry
// remainders, returning the updated carry
func TickResources(res *entities.Resources, snap Snapshot, elapsed time.Duration, carry entities.CarryState) (RegenOutput, entities.CarryState) {
	var out RegenOutput
	var rest float64

	out.HealthGained, res.Health, rest = TickResource(res.Health, res.MaxHealth, snap.HealthRegen, elapsed, carry.Get(entities.CarryHealth))
	carry = carry.With(entities.CarryHealth, rest)

	out.ManaGained, res.Mana, rest = TickResource(res.Mana, res.MaxMana, snap.ManaRegen, elapsed, carry.Get(entities.CarryMana))
	carry = carry.With(entities.CarryMana, rest)

	return out, carry
}

func (e *engine) Regenerate(input *RegenInput) *RegenOutput {
	if input == nil || input.Character == nil {
		return &RegenOutput{}
	}
	char := input.Character
	out, carry := TickResources(&char.Resources, input.Snapshot, input.Elapsed, char.RegenCarry)
	char.RegenCarry = carry
	return &out
}
