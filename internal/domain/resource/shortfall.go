package resource

import "fmt"

// Shortfall reports the first resource that is lacking, or nothing.
// The zero value means every requirement is met.
type Shortfall struct {
	Resource ID
	Required float64
	Stored   float64
	short    bool
}

// None returns a Shortfall meaning no resource is lacking
func None() Shortfall {
	return Shortfall{}
}

// Short builds a Shortfall for a lacking resource
func Short(id ID, required, stored float64) Shortfall {
	return Shortfall{Resource: id, Required: required, Stored: stored, short: true}
}

// IsShort reports whether a resource is lacking
func (s Shortfall) IsShort() bool {
	return s.short
}

func (s Shortfall) String() string {
	if !s.short {
		return "none"
	}
	return fmt.Sprintf("%s (required %.2f, stored %.2f)", s.Resource.Name(), s.Required, s.Stored)
}

// CheckSufficiency walks needed in insertion order and returns the first resource the stock
// cannot cover. Amount resources compare in kg, items in whole counts. Equipment entries are skipped.
func CheckSufficiency(needed *Manifest, stock Stock) Shortfall {
	result := None()
	if needed == nil {
		return result
	}
	needed.Each(func(id ID, quantity float64) bool {
		switch {
		case id.IsAmount():
			stored := stock.AmountStored(id)
			if stored < quantity {
				result = Short(id, quantity, stored)
				return false
			}
		case id.IsItem():
			required := needed.Count(id)
			stored := stock.ItemStored(id)
			if stored < required {
				result = Short(id, float64(required), float64(stored))
				return false
			}
		}
		return true
	})
	return result
}
