// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import "sort"

// UnitClass is a primitive dimension (Length, Time, Mass). Immutable once
// registered.
type UnitClass struct {
	Name string
}

// Unit is a concrete measurement standard for one (possibly compound)
// dimension. BaseRatio is the multiplicative factor converting one unit of
// itself into its base unit: value_in_base = value * BaseRatio. Must be > 0.
type Unit struct {
	Name      string
	BaseClass CompositeUnitClass
	BaseRatio float64
}

// exponents is a sparse integer vector keyed by identity. A key is present
// iff its exponent is nonzero; the empty map is the group identity. Under
// mul/div this forms a free abelian group, which is what makes arbitrary
// chained multiplication and division of units safe to compose.
type exponents[ID ~int] map[ID]int

func (e exponents[ID]) mul(other exponents[ID]) exponents[ID] {
	result := make(exponents[ID], len(e)+len(other))
	for id, power := range e {
		result[id] = power
	}
	for id, power := range other {
		sum := result[id] + power
		if sum == 0 {
			delete(result, id)
		} else {
			result[id] = sum
		}
	}
	return result
}

func (e exponents[ID]) div(other exponents[ID]) exponents[ID] {
	inverse := make(exponents[ID], len(other))
	for id, power := range other {
		inverse[id] = -power
	}
	return e.mul(inverse)
}

func (e exponents[ID]) equal(other exponents[ID]) bool {
	if len(e) != len(other) {
		return false
	}
	for id, power := range e {
		if other[id] != power {
			return false
		}
	}
	return true
}

// sortedIDs returns the keys in ascending identity order, so that anything
// iterating components is deterministic regardless of construction order.
func (e exponents[ID]) sortedIDs() []ID {
	ids := make([]ID, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CompositeUnitClass is a product of unit classes raised to integer powers:
// the canonical shape of a dimension (e.g. velocity is Length^1*Time^-1).
type CompositeUnitClass struct {
	Components exponents[UnitClassID]
}

// Unitless returns the empty dimension, the group identity.
func Unitless() CompositeUnitClass {
	return CompositeUnitClass{Components: exponents[UnitClassID]{}}
}

// SingleClass returns class^power. Power 0 yields the unitless class.
func SingleClass(id UnitClassID, power int) CompositeUnitClass {
	result := Unitless()
	if power != 0 {
		result.Components[id] = power
	}
	return result
}

func (c CompositeUnitClass) Mul(other CompositeUnitClass) CompositeUnitClass {
	return CompositeUnitClass{Components: c.Components.mul(other.Components)}
}

func (c CompositeUnitClass) Div(other CompositeUnitClass) CompositeUnitClass {
	return CompositeUnitClass{Components: c.Components.div(other.Components)}
}

// Equal compares normalized component maps; insertion order is irrelevant.
func (c CompositeUnitClass) Equal(other CompositeUnitClass) bool {
	return c.Components.equal(other.Components)
}

func (c CompositeUnitClass) Empty() bool {
	return len(c.Components) == 0
}

// CompositeUnit is the unit analogue of CompositeUnitClass: a product of
// concrete units raised to integer powers (e.g. Meter^1*Second^-1).
type CompositeUnit struct {
	Components exponents[UnitID]
}

// UnitlessUnit returns the empty unit product, the group identity.
func UnitlessUnit() CompositeUnit {
	return CompositeUnit{Components: exponents[UnitID]{}}
}

// SingleUnit returns unit^power. Power 0 yields the unitless product.
func SingleUnit(id UnitID, power int) CompositeUnit {
	result := UnitlessUnit()
	if power != 0 {
		result.Components[id] = power
	}
	return result
}

func (u CompositeUnit) Mul(other CompositeUnit) CompositeUnit {
	return CompositeUnit{Components: u.Components.mul(other.Components)}
}

func (u CompositeUnit) Div(other CompositeUnit) CompositeUnit {
	return CompositeUnit{Components: u.Components.div(other.Components)}
}

func (u CompositeUnit) Equal(other CompositeUnit) bool {
	return u.Components.equal(other.Components)
}

func (u CompositeUnit) Empty() bool {
	return len(u.Components) == 0
}
