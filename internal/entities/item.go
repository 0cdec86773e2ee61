package entities

// Item is an equippable catalog entry
type Item struct {
	ID      string           `json:"id" yaml:"id"`
	Name    string           `json:"name" yaml:"name"`
	Slot    Slot             `json:"slot" yaml:"slot"`
	Bonuses EquipmentBonuses `json:"bonuses" yaml:"bonuses"`
}
