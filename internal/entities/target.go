package entities

import "strings"

// Target enumerates every stat a talent scaling can contribute to.
type Target uint8

// Known modifier targets. TargetOpaque holds names no subsystem recognizes.
const (
	TargetNone Target = iota
	TargetOpaque

	// Primary attributes
	TargetStrength
	TargetAgility
	TargetIntelligence
	TargetVitality

	// Vitals
	TargetMaxHealth
	TargetMaxMana
	TargetHealthRegen
	TargetManaRegen
	TargetDefense
	TargetAttackPower

	// Combat and utility percentages
	TargetCritChance
	TargetCritDamage
	TargetLifesteal
	TargetDropRate
	TargetRareDropRate
	TargetExperienceGain
	TargetSkillExperienceGain
	TargetCooldownReduction

	// Speeds
	TargetMovementSpeed
	TargetGatheringSpeed
	TargetAttackSpeed

	// TargetAbilityCooldown is keyed by ability id, see Key.
	TargetAbilityCooldown

	TargetCount
)

// AbilityCooldownPrefix prefixes the textual form of an ability cooldown key.
const AbilityCooldownPrefix = "cooldown."

var targetNames = map[Target]string{
	TargetStrength:            "str",
	TargetAgility:             "agi",
	TargetIntelligence:        "int",
	TargetVitality:            "vit",
	TargetMaxHealth:           "max_health",
	TargetMaxMana:             "max_mana",
	TargetHealthRegen:         "health_regen",
	TargetManaRegen:           "mana_regen",
	TargetDefense:             "defense",
	TargetAttackPower:         "attack_power",
	TargetCritChance:          "crit_chance",
	TargetCritDamage:          "crit_damage",
	TargetLifesteal:           "lifesteal",
	TargetDropRate:            "drop_rate",
	TargetRareDropRate:        "rare_drop_rate",
	TargetExperienceGain:      "experience_gain",
	TargetSkillExperienceGain: "skill_experience_gain",
	TargetCooldownReduction:   "cooldown_reduction",
	TargetMovementSpeed:       "movement_speed",
	TargetGatheringSpeed:      "gathering_speed",
	TargetAttackSpeed:         "attack_speed",
}

var targetsByName = func() map[string]Target {
	m := make(map[string]Target, len(targetNames))
	for t, name := range targetNames {
		m[name] = t
	}
	return m
}()

// String returns the canonical name of the target
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	switch t {
	case TargetNone:
		return ""
	case TargetAbilityCooldown:
		return "cooldown"
	default:
		return "opaque"
	}
}

// Key identifies one entry of a modifier aggregate.
// Ability is only set for TargetAbilityCooldown; Name keeps the raw text of opaque targets.
type Key struct {
	Target  Target
	Ability string
	Name    string
}

// KeyFor returns the key of a plain target.
func KeyFor(t Target) Key {
	return Key{Target: t}
}

// CooldownKey returns the key addressing one ability's cooldown.
func CooldownKey(abilityID string) Key {
	return Key{Target: TargetAbilityCooldown, Ability: abilityID}
}

// ParseKey resolves a textual target. Unknown names become TargetOpaque, never an error.
func ParseKey(raw string) Key {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return Key{Target: TargetNone}
	}
	if t, ok := targetsByName[name]; ok {
		return Key{Target: t}
	}
	if strings.HasPrefix(name, AbilityCooldownPrefix) {
		if id := strings.TrimPrefix(name, AbilityCooldownPrefix); id != "" {
			return Key{Target: TargetAbilityCooldown, Ability: id}
		}
	}
	return Key{Target: TargetOpaque, Name: raw}
}

// String renders the key back to its textual form
func (k Key) String() string {
	switch k.Target {
	case TargetAbilityCooldown:
		return AbilityCooldownPrefix + k.Ability
	case TargetOpaque:
		return k.Name
	default:
		return k.Target.String()
	}
}

// MarshalText implements encoding.TextMarshaler so keys round-trip through YAML and JSON.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	*k = ParseKey(string(text))
	return nil
}

// AttributeTarget maps a primary attribute to its modifier target.
func AttributeTarget(a Attribute) Target {
	switch a {
	case AttributeStrength:
		return TargetStrength
	case AttributeAgility:
		return TargetAgility
	case AttributeIntelligence:
		return TargetIntelligence
	case AttributeVitality:
		return TargetVitality
	default:
		return TargetNone
	}
}
