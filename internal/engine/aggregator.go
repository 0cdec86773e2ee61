package engine

import (
	"math"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/talents"
)

// Aggregate composes base attributes, equipment, buffs and compiled talent modifiers into a Snapshot.
// It is pure: the carry is read from the input and the updated carry is returned, never written in place.
// Missing data falls back to zero values; Aggregate never fails.
func Aggregate(in StatsInput) StatsOutput {
	mods := in.Modifiers
	if mods == nil {
		mods = talents.Modifiers{}
	}
	level := in.Level
	if level < 1 {
		level = 1
	}

	// 1. raw primaries
	raw := in.Base.Plus(in.Equipment.Attributes)
	buffDefense := 0
	buffSpeed := 0.0
	for _, b := range in.Buffs {
		raw = raw.Plus(b.StatBonus)
		buffDefense += b.DefenseBonus
		buffSpeed += b.SpeedBonus
	}

	// 2. talent modifiers on primaries, percent with carry
	carry := in.Carry.Clone()
	var attrs entities.Attributes
	for _, attr := range entities.AllAttributes {
		target := entities.AttributeTarget(attr)
		m := mods.Of(target)
		key := target.String()
		value, rest := applyWithCarry(float64(raw.Get(attr))+m.Flat, m.Percent, carry.Get(key))
		carry = carry.With(key, rest)
		attrs.Set(attr, value)
	}

	s := Snapshot{Level: level, Attributes: attrs}

	// 3. vitals, flat then percent, rounded
	s.MaxHealth = roundedVital(maxHealthBase(level, attrs.Vitality), mods.Of(entities.TargetMaxHealth))
	s.MaxMana = roundedVital(maxManaBase(level, attrs.Intelligence), mods.Of(entities.TargetMaxMana))
	s.Defense = roundedVital(defenseBase(in.Equipment.Defense, buffDefense, attrs.Vitality), mods.Of(entities.TargetDefense))
	s.AttackPower = roundedVital(attackPowerBaseValue(level, attrs.Strength), mods.Of(entities.TargetAttackPower))
	s.HealthRegen = floorAt(scaled(healthRegenBaseValue(attrs.Vitality), mods.Of(entities.TargetHealthRegen)), 0)
	s.ManaRegen = floorAt(scaled(manaRegenBaseValue(attrs.Intelligence), mods.Of(entities.TargetManaRegen)), 0)

	// 4. combat and utility percentages, modifiers are additive points
	s.CritChance = clamp(points(critChanceBaseValue(attrs.Agility), mods.Of(entities.TargetCritChance)), 0, 100)
	s.CritDamage = floorAt(points(critDamageBaseValue(attrs.Strength), mods.Of(entities.TargetCritDamage)), critDamageFloor)
	s.Lifesteal = clamp(points(0, mods.Of(entities.TargetLifesteal)), 0, 100)
	s.DropRate = floorAt(points(dropRateBaseValue(level), mods.Of(entities.TargetDropRate)), 0)
	s.RareDropRate = floorAt(points(0, mods.Of(entities.TargetRareDropRate)), 0)
	s.ExperienceGain = floorAt(points(0, mods.Of(entities.TargetExperienceGain)), 0)
	s.SkillExperienceGain = floorAt(points(0, mods.Of(entities.TargetSkillExperienceGain)), 0)
	s.CooldownReduction = clamp(points(0, mods.Of(entities.TargetCooldownReduction)), 0, maxCooldownReduction)

	// 5. speeds, floors after modifiers
	s.MovementSpeed = floorAt(scaled(movementBaseValue(attrs.Agility), mods.Of(entities.TargetMovementSpeed))+buffSpeed, movementFloor)
	s.GatheringSpeed = floorAt(scaled(gatheringBaseValue(level, attrs.Agility), mods.Of(entities.TargetGatheringSpeed)), gatheringFloor)
	s.AttackInterval = attackInterval(floorAt(scaled(attackSpeedBaseValue(attrs.Agility), mods.Of(entities.TargetAttackSpeed)), attackSpeedFloor))
	s.AttackSpeed = 1 / s.AttackInterval.Seconds()

	return StatsOutput{Snapshot: s, Carry: carry}
}

func scaled(base float64, m talents.Modifier) float64 {
	return scale(base, m.Flat, m.Percent)
}

func roundedVital(base float64, m talents.Modifier) int {
	v := math.Round(scaled(base, m))
	if v < 0 {
		return 0
	}
	return int(v)
}

func points(base float64, m talents.Modifier) float64 {
	return base + m.Flat + m.Percent
}
