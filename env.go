// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Environment owns every registered UnitClass and Unit plus the global
// symbol table. Registration happens during setup; after that every
// operation is a pure function of its inputs and the registered tables, so
// an Environment can be shared read-only once setup completes.
type Environment struct {
	unitClasses ItemStorage[UnitClassID, UnitClass]
	units       ItemStorage[UnitID, Unit]

	// name indexes for the parsers; last registration of a name wins
	classNames map[string]UnitClassID
	unitNames  map[string]UnitID

	globalSymbols map[Symbol]Value
}

// NewEnvironment creates an environment pre-loaded with the default unit
// classes, units and symbol constants.
func NewEnvironment() *Environment {
	env := &Environment{
		classNames:    make(map[string]UnitClassID),
		unitNames:     make(map[string]UnitID),
		globalSymbols: make(map[Symbol]Value),
	}
	addDefaultUnits(env)
	addDefaultSymbols(env)
	return env
}

// RegisterUnitClass adds a primitive dimension and returns its identity.
func (e *Environment) RegisterUnitClass(name string) UnitClassID {
	id := e.unitClasses.Add(UnitClass{Name: name})
	e.classNames[name] = id
	return id
}

// RegisterUnit adds a concrete unit and returns its identity. The ratio must
// be positive; a non-positive ratio is a bug in the registration tables.
func (e *Environment) RegisterUnit(name string, baseClass CompositeUnitClass, baseRatio float64) UnitID {
	if baseRatio <= 0 {
		die("unit '%s' has non-positive base ratio %v", name, baseRatio)
	}
	id := e.units.Add(Unit{Name: name, BaseClass: baseClass, BaseRatio: baseRatio})
	e.unitNames[name] = id
	return id
}

// BorrowUnitClass looks up a registered class by identity.
func (e *Environment) BorrowUnitClass(id UnitClassID) *UnitClass {
	return e.unitClasses.Borrow(id)
}

// BorrowUnit looks up a registered unit by identity.
func (e *Environment) BorrowUnit(id UnitID) *Unit {
	return e.units.Borrow(id)
}

// FindUnitClass resolves a class name to its identity.
func (e *Environment) FindUnitClass(name string) (UnitClassID, bool) {
	id, ok := e.classNames[name]
	return id, ok
}

// FindUnit resolves a unit name to its identity.
func (e *Environment) FindUnit(name string) (UnitID, bool) {
	id, ok := e.unitNames[name]
	return id, ok
}

// BaseUnitOf returns the dimension of a composite unit. For example
// Meter^2*Second^-1 yields Length^2*Time^-1, and Hertz*Acre^-1 yields
// Time^-1*Length^-2: each component's base class is raised to the
// component's power by repeated group multiplication.
func (e *Environment) BaseUnitOf(unit CompositeUnit) CompositeUnitClass {
	complete := Unitless()
	for _, id := range unit.Components.sortedIDs() {
		power := unit.Components[id]
		if power == 0 {
			die("composite unit stores zero power for unit '%s'", e.units.Borrow(id).Name)
		}
		base := e.units.Borrow(id).BaseClass
		if power > 0 {
			for i := 0; i < power; i++ {
				complete = complete.Mul(base)
			}
		} else {
			for i := 0; i < -power; i++ {
				complete = complete.Div(base)
			}
		}
	}
	return complete
}

// BaseConversionRatioOf returns the factor converting a value of this unit
// to the base unit: value_in_unit * ratio == value_in_base. Dividing a
// base-unit value by the ratio goes the other way.
func (e *Environment) BaseConversionRatioOf(unit CompositeUnit) float64 {
	ratio := 1.0
	for id, power := range unit.Components {
		// e.g. for a Foot^2 component the ratio picks up
		// (Foot to base) * (Foot to base)
		ratio *= math.Pow(e.units.Borrow(id).BaseRatio, float64(power))
	}
	return ratio
}

// MakeScalar builds a Scalar from a value expressed in the given unit. This
// is the only constructor that keeps the base/display invariant.
func (e *Environment) MakeScalar(value float64, unit CompositeUnit, precision uint) Scalar {
	baseUnit := e.BaseUnitOf(unit)
	baseValue := value * e.BaseConversionRatioOf(unit)
	return Scalar{
		BaseValue:   baseValue,
		BaseUnit:    baseUnit,
		DisplayUnit: unit,
		Precision:   precision,
	}
}

// AddGlobalSymbol binds a name, overwriting any previous binding.
func (e *Environment) AddGlobalSymbol(symbol Symbol, value Value) {
	e.globalSymbols[symbol] = value
}

// FindGlobalSymbol looks up a binding. A missing symbol is a normal
// not-found result, never fatal.
func (e *Environment) FindGlobalSymbol(symbol Symbol) (Value, bool) {
	value, ok := e.globalSymbols[symbol]
	return value, ok
}

// BorrowGlobalSymbols exposes the symbol table for iteration. Callers must
// treat it as read-only.
func (e *Environment) BorrowGlobalSymbols() map[Symbol]Value {
	return e.globalSymbols
}

// FormatBaseUnit renders a dimension as "<numerator> / <denominator>" with
// each component as Name^|power|. An empty half stays empty, so a
// denominator-free dimension ends in "/ " (kept as the observed output).
func (e *Environment) FormatBaseUnit(baseUnit CompositeUnitClass) string {
	var numerator, denominator strings.Builder
	for _, id := range baseUnit.Components.sortedIDs() {
		power := baseUnit.Components[id]
		if power == 0 {
			die("composite unit class stores zero power for class '%s'", e.unitClasses.Borrow(id).Name)
		}
		if power > 0 {
			fmt.Fprintf(&numerator, "%s^%d", e.unitClasses.Borrow(id).Name, power)
		} else {
			fmt.Fprintf(&denominator, "%s^%d", e.unitClasses.Borrow(id).Name, -power)
		}
	}
	return numerator.String() + " / " + denominator.String()
}

// FormatUnit renders a composite unit the same way FormatBaseUnit renders a
// dimension, over concrete unit names.
func (e *Environment) FormatUnit(unit CompositeUnit) string {
	var numerator, denominator strings.Builder
	for _, id := range unit.Components.sortedIDs() {
		power := unit.Components[id]
		if power == 0 {
			die("composite unit stores zero power for unit '%s'", e.units.Borrow(id).Name)
		}
		if power > 0 {
			fmt.Fprintf(&numerator, "%s^%d", e.units.Borrow(id).Name, power)
		} else {
			fmt.Fprintf(&denominator, "%s^%d", e.units.Borrow(id).Name, -power)
		}
	}
	return numerator.String() + " / " + denominator.String()
}

// formatScientific renders scientific notation with precision-1 fractional
// digits and a bare decimal exponent: 5.0 at precision 3 is "5.00e0",
// 0.3048 at precision 4 is "3.048e-1".
func formatScientific(value float64, precision uint) string {
	formatted := strconv.FormatFloat(value, 'e', int(precision)-1, 64)
	mantissa, exponent, _ := strings.Cut(formatted, "e")
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		// NaN and the infinities have no exponent part
		return formatted
	}
	return mantissa + "e" + strconv.Itoa(exp)
}

// FormatScalarDetailed renders a scalar in its display unit followed by its
// base-unit form in parentheses.
func (e *Environment) FormatScalarDetailed(scalar Scalar) string {
	if scalar.Precision == 0 {
		die("scalar precision must be at least 1")
	}
	ratio := e.BaseConversionRatioOf(scalar.DisplayUnit)
	return fmt.Sprintf("%s %s (%s %s)",
		formatScientific(scalar.BaseValue/ratio, scalar.Precision),
		e.FormatUnit(scalar.DisplayUnit),
		formatScientific(scalar.BaseValue, scalar.Precision),
		e.FormatBaseUnit(scalar.BaseUnit))
}

// FormatValueDetailed dispatches on the value variant.
func (e *Environment) FormatValueDetailed(value Value) string {
	switch value.Kind {
	case ScalarValue:
		return e.FormatScalarDetailed(value.Scalar)
	case VectorValue:
		die("vector formatting is not implemented")
	default:
		die("unknown value kind %d", value.Kind)
	}
	return ""
}

// FormatFormulaDetailed pretty-prints a formula tree, indenting arguments by
// four spaces per nesting level. The indentation is display-only.
func (e *Environment) FormatFormulaDetailed(formula Formula) string {
	return e.formatFormulaDetailed(formula, 0)
}

func (e *Environment) formatFormulaDetailed(formula Formula, indent int) string {
	switch f := formula.(type) {
	case ValueFormula:
		return e.FormatValueDetailed(f.Value)
	case PlainFunction:
		var result strings.Builder
		fmt.Fprintf(&result, "%s[\n", f.Fun)
		for _, arg := range f.Args {
			fmt.Fprintf(&result, "%*s%s,\n", indent+4, "", e.formatFormulaDetailed(arg, indent+4))
		}
		fmt.Fprintf(&result, "%*s]", indent, "")
		return result.String()
	case SymbolFormula:
		return fmt.Sprintf("%q", string(f.Symbol))
	default:
		die("unknown formula node %T", formula)
	}
	return ""
}
