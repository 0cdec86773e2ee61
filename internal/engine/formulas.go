package engine

import (
	"math"
	"time"
)

// Vitals
const (
	baseHealth          = 100
	healthPerLevel      = 10
	healthPerVitality   = 5
	baseMana            = 50
	manaPerLevel        = 5
	manaPerIntelligence = 4
	attackPowerBase     = 5
	attackPerStrength   = 2

	healthRegenBase        = 1.0
	healthRegenPerVitality = 0.1
	manaRegenBase          = 0.5
	manaRegenPerInt        = 0.05
)

// Combat and utility, percentage points
const (
	critChanceBase        = 5.0
	critChancePerAgility  = 0.1
	critDamageBase        = 150.0
	critDamagePerStrength = 0.2
	critDamageFloor       = 100.0
	dropRatePerLevel      = 0.2
	maxCooldownReduction  = 75.0
)

// Speeds
const (
	movementBase          = 100.0
	movementPerAgility    = 0.5
	movementFloor         = 25.0
	gatheringBase         = 1.0
	gatheringPerLevel     = 0.01
	gatheringPerAgility   = 0.005
	gatheringFloor        = 0.1
	attackSpeedBase       = 0.5
	attackSpeedPerAgility = 0.005
	attackSpeedFloor      = 0.1
	attackIntervalFloor   = 250 * time.Millisecond
)

func maxHealthBase(level, vitality int) float64 {
	return float64(baseHealth + level*healthPerLevel + vitality*healthPerVitality)
}

func maxManaBase(level, intelligence int) float64 {
	return float64(baseMana + level*manaPerLevel + intelligence*manaPerIntelligence)
}

func attackPowerBaseValue(level, strength int) float64 {
	return float64(attackPowerBase + level + strength*attackPerStrength)
}

func defenseBase(equipment, buffs, vitality int) float64 {
	return float64(equipment + buffs + vitality/2)
}

func healthRegenBaseValue(vitality int) float64 {
	return healthRegenBase + float64(vitality)*healthRegenPerVitality
}

func manaRegenBaseValue(intelligence int) float64 {
	return manaRegenBase + float64(intelligence)*manaRegenPerInt
}

func critChanceBaseValue(agility int) float64 {
	return critChanceBase + float64(agility)*critChancePerAgility
}

func critDamageBaseValue(strength int) float64 {
	return critDamageBase + float64(strength)*critDamagePerStrength
}

func dropRateBaseValue(level int) float64 {
	return float64(level) * dropRatePerLevel
}

func movementBaseValue(agility int) float64 {
	return movementBase + float64(agility)*movementPerAgility
}

func gatheringBaseValue(level, agility int) float64 {
	return gatheringBase + float64(level)*gatheringPerLevel + float64(agility)*gatheringPerAgility
}

func attackSpeedBaseValue(agility int) float64 {
	return attackSpeedBase + float64(agility)*attackSpeedPerAgility
}

// attackInterval converts attacks per second into the delay between attacks, floored
func attackInterval(attacksPerSecond float64) time.Duration {
	if attacksPerSecond <= 0 {
		attacksPerSecond = attackSpeedFloor
	}
	d := time.Duration(float64(time.Second) / attacksPerSecond)
	if d < attackIntervalFloor {
		return attackIntervalFloor
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorAt(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}

// scale applies flat then percent
func scale(base, flat, percent float64) float64 {
	return (base + flat) * (1 + percent/100)
}

// applyWithCarry applies a percent to raw, folding in and returning the fractional carry.
func applyWithCarry(raw, percent, carry float64) (int, float64) {
	v := raw*(1+percent/100) + carry
	whole := math.Floor(v)
	return int(whole), v - whole
}
