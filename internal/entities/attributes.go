package entities

// Attribute identifies one of the four primary attributes.
type Attribute uint8

// Primary attributes
const (
	AttributeStrength Attribute = iota
	AttributeAgility
	AttributeIntelligence
	AttributeVitality

	AttributeCount
)

// AllAttributes lists the primary attributes in their canonical order.
var AllAttributes = [AttributeCount]Attribute{
	AttributeStrength,
	AttributeAgility,
	AttributeIntelligence,
	AttributeVitality,
}

// String returns the short attribute name
func (a Attribute) String() string {
	return AttributeTarget(a).String()
}

// Attributes holds one value per primary attribute.
type Attributes struct {
	Strength     int `json:"str" yaml:"str"`
	Agility      int `json:"agi" yaml:"agi"`
	Intelligence int `json:"int" yaml:"int"`
	Vitality     int `json:"vit" yaml:"vit"`
}

// Get returns the value of a single attribute
func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case AttributeStrength:
		return a.Strength
	case AttributeAgility:
		return a.Agility
	case AttributeIntelligence:
		return a.Intelligence
	case AttributeVitality:
		return a.Vitality
	default:
		return 0
	}
}

// Set replaces the value of a single attribute
func (a *Attributes) Set(attr Attribute, value int) {
	switch attr {
	case AttributeStrength:
		a.Strength = value
	case AttributeAgility:
		a.Agility = value
	case AttributeIntelligence:
		a.Intelligence = value
	case AttributeVitality:
		a.Vitality = value
	}
}

// Plus returns the element-wise sum of two attribute sets
func (a Attributes) Plus(other Attributes) Attributes {
	return Attributes{
		Strength:     a.Strength + other.Strength,
		Agility:      a.Agility + other.Agility,
		Intelligence: a.Intelligence + other.Intelligence,
		Vitality:     a.Vitality + other.Vitality,
	}
}

// EquipmentBonuses sums the bonuses of every equipped item
type EquipmentBonuses struct {
	Attributes Attributes `json:"attributes" yaml:"attributes"`
	Defense    int        `json:"defense" yaml:"defense"`
}

// Plus returns the sum of two bonus sets
func (b EquipmentBonuses) Plus(other EquipmentBonuses) EquipmentBonuses {
	return EquipmentBonuses{
		Attributes: b.Attributes.Plus(other.Attributes),
		Defense:    b.Defense + other.Defense,
	}
}
