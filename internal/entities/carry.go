package entities

// CarryState keeps the fractional remainders left over by integer rounding, keyed by target name.
// It is authoritative state and is persisted verbatim with the character.
type CarryState map[string]float64

// Get returns the remainder for a key, zero when absent
func (c CarryState) Get(key string) float64 {
	if c == nil {
		return 0
	}
	return c[key]
}

// With returns a copy of the state with key set to value.
// A zero value removes the key so untouched targets do not accumulate entries.
func (c CarryState) With(key string, value float64) CarryState {
	out := c.Clone()
	if value == 0 {
		delete(out, key)
		return out
	}
	out[key] = value
	return out
}

// Clone returns an independent copy
func (c CarryState) Clone() CarryState {
	out := make(CarryState, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Regeneration carry keys.
const (
	CarryHealth = "health"
	CarryMana   = "mana"
)
