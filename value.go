// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

// Symbol names a globally bound value.
type Symbol string

// Scalar is a numeric quantity. BaseValue is always expressed in the
// canonical base units implied by BaseUnit, regardless of the preferred
// DisplayUnit; a Scalar only makes sense against the Environment that made
// it. Construct through Environment.MakeScalar, which keeps BaseUnit and
// DisplayUnit consistent.
type Scalar struct {
	BaseValue   float64
	BaseUnit    CompositeUnitClass
	DisplayUnit CompositeUnit
	Precision   uint
}

// ValueKind discriminates Value variants.
type ValueKind int

const (
	ScalarValue ValueKind = iota
	VectorValue // deliberately unimplemented
)

// Value is a Scalar or a (not yet implemented) Vector.
type Value struct {
	Kind   ValueKind
	Scalar Scalar
}

// NewScalarValue wraps a Scalar.
func NewScalarValue(scalar Scalar) Value {
	return Value{Kind: ScalarValue, Scalar: scalar}
}

// Formula is a symbolic expression tree: leaves are Values or Symbols,
// interior nodes are named function applications. Trees are immutable;
// formatting walks them without mutation.
type Formula interface {
	formula()
}

// ValueFormula is a literal leaf.
type ValueFormula struct {
	Value Value
}

// SymbolFormula is an identifier leaf, resolved by the evaluator.
type SymbolFormula struct {
	Symbol Symbol
}

// PlainFunction applies a named function to an ordered argument list.
type PlainFunction struct {
	Fun  string
	Args []Formula
}

func (ValueFormula) formula()  {}
func (SymbolFormula) formula() {}
func (PlainFunction) formula() {}
