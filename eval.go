// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"fmt"
	"strconv"
)

// Stack holds intermediate Values during evaluation.
type Stack struct {
	values []Value
}

func newStack() *Stack {
	return &Stack{values: []Value{}}
}

func (s *Stack) push(v Value) {
	s.values = append(s.values, v)
}

func (s *Stack) pop() (Value, error) {
	if len(s.values) == 0 {
		return Value{}, fmt.Errorf("stack is empty")
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]

	return v, nil
}

// Evaluator runs RPN token streams against an Environment, keeping a value
// stack and, when tracing, a parallel formula stack recording how each value
// was computed.
type Evaluator struct {
	Env       *Environment
	Precision uint
	Trace     bool

	stack    *Stack
	formulas []Formula
}

// NewEvaluator creates an evaluator with the given display precision.
func NewEvaluator(env *Environment, precision uint) *Evaluator {
	return &Evaluator{Env: env, Precision: precision, stack: newStack()}
}

// Values returns the stack bottom-up.
func (ev *Evaluator) Values() []Value {
	return ev.stack.values
}

// Formulas returns the formula trace for each stack entry, bottom-up. Empty
// unless tracing is on.
func (ev *Evaluator) Formulas() []Formula {
	return ev.formulas
}

func (ev *Evaluator) pushTraced(v Value, f Formula) {
	ev.stack.push(v)
	if ev.Trace {
		ev.formulas = append(ev.formulas, f)
	}
}

func (ev *Evaluator) popTraced(op string) (Value, Formula) {
	v, err := ev.stack.pop()
	if err != nil {
		die("Not enough arguments for operation '%s', exiting", op)
	}
	var f Formula
	if ev.Trace {
		f = ev.formulas[len(ev.formulas)-1]
		ev.formulas = ev.formulas[:len(ev.formulas)-1]
	}
	return v, f
}

// PushNumber pushes a dimensionless scalar.
func (ev *Evaluator) PushNumber(value float64) {
	scalar := ev.Env.MakeScalar(value, UnitlessUnit(), ev.Precision)
	ev.pushTraced(NewScalarValue(scalar), ValueFormula{Value: NewScalarValue(scalar)})
}

// PushSymbol resolves a global symbol and pushes its value.
func (ev *Evaluator) PushSymbol(symbol Symbol) bool {
	value, ok := ev.Env.FindGlobalSymbol(symbol)
	if !ok {
		return false
	}
	ev.pushTraced(value, SymbolFormula{Symbol: symbol})
	return true
}

// ApplyUnits tags a dimensionless top of stack with the unit, or converts a
// dimensioned one to display in the unit. Converting across dimensions is
// fatal: by this point the unit expression itself has already been
// validated.
func (ev *Evaluator) ApplyUnits(unit CompositeUnit, spelling string) {
	value, formula := ev.popTraced(spelling)
	scalar := value.Scalar

	if !scalar.BaseUnit.Empty() {
		target := ev.Env.BaseUnitOf(unit)
		if !scalar.BaseUnit.Equal(target) {
			die("cannot convert %s to %s", ev.Env.FormatBaseUnit(scalar.BaseUnit), ev.Env.FormatBaseUnit(target))
		}
	}

	ratio := ev.Env.BaseConversionRatioOf(unit)
	result := ev.Env.MakeScalar(scalar.BaseValue/ratio, unit, scalar.Precision)
	ev.pushTraced(NewScalarValue(result),
		PlainFunction{Fun: "apply", Args: []Formula{formula, SymbolFormula{Symbol: Symbol(spelling)}}})
}

var binaryNames = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	".": "mul",
	"•": "mul",
	"/": "div",
}

// BinaryOp pops two values and pushes the result. Addition and subtraction
// require both operands to share a dimension; multiplication and division
// compose the display units through the group operations.
func (ev *Evaluator) BinaryOp(op string) {
	right, rightFormula := ev.popTraced(op)
	left, leftFormula := ev.popTraced(op)

	l, r := left.Scalar, right.Scalar
	var displayUnit CompositeUnit
	var baseValue float64

	switch op {
	case "+", "-":
		if !l.BaseUnit.Equal(r.BaseUnit) {
			die("dimension mismatch for '%s': %s vs %s", op,
				ev.Env.FormatBaseUnit(l.BaseUnit), ev.Env.FormatBaseUnit(r.BaseUnit))
		}
		displayUnit = l.DisplayUnit
		if op == "+" {
			baseValue = l.BaseValue + r.BaseValue
		} else {
			baseValue = l.BaseValue - r.BaseValue
		}
	case "*", ".", "•":
		displayUnit = l.DisplayUnit.Mul(r.DisplayUnit)
		baseValue = l.BaseValue * r.BaseValue
	case "/":
		displayUnit = l.DisplayUnit.Div(r.DisplayUnit)
		baseValue = l.BaseValue / r.BaseValue
	default:
		die("Unimplemented binary op: '%s'", op)
	}

	ratio := ev.Env.BaseConversionRatioOf(displayUnit)
	result := ev.Env.MakeScalar(baseValue/ratio, displayUnit, ev.Precision)
	ev.pushTraced(NewScalarValue(result),
		PlainFunction{Fun: binaryNames[op], Args: []Formula{leftFormula, rightFormula}})
}

// UnaryOp pops one value and pushes the result.
func (ev *Evaluator) UnaryOp(op string) {
	value, formula := ev.popTraced(op)
	scalar := value.Scalar

	var displayUnit CompositeUnit
	var baseValue float64

	switch op {
	case "chs":
		displayUnit = scalar.DisplayUnit
		baseValue = -scalar.BaseValue
	case "r": // reciprocal
		displayUnit = UnitlessUnit().Div(scalar.DisplayUnit)
		baseValue = 1 / scalar.BaseValue
	default:
		die("Unimplemented unary op: '%s'", op)
	}

	ratio := ev.Env.BaseConversionRatioOf(displayUnit)
	result := ev.Env.MakeScalar(baseValue/ratio, displayUnit, scalar.Precision)
	ev.pushTraced(NewScalarValue(result), PlainFunction{Fun: op, Args: []Formula{formula}})
}

// StackOp runs a pure stack manipulation: x (exchange), d (dup), p (pop).
func (ev *Evaluator) StackOp(op string) {
	switch op {
	case "x":
		right, rightFormula := ev.popTraced(op)
		left, leftFormula := ev.popTraced(op)
		ev.pushTraced(right, rightFormula)
		ev.pushTraced(left, leftFormula)
	case "d":
		value, formula := ev.popTraced(op)
		ev.pushTraced(value, formula)
		ev.pushTraced(value, formula)
	case "p":
		ev.popTraced(op)
	default:
		die("Unimplemented stack op: '%s'", op)
	}
}

// Eval dispatches one token: number, symbol, unit expression or operator.
// Unrecognized tokens return false.
func (ev *Evaluator) Eval(token string) bool {
	if number, err := strconv.ParseFloat(token, 64); err == nil {
		ev.PushNumber(number)
		return true
	}

	if _, ok := binaryNames[token]; ok {
		ev.BinaryOp(token)
		return true
	}

	switch token {
	case "chs", "r":
		ev.UnaryOp(token)
		return true
	case "x", "d", "p":
		ev.StackOp(token)
		return true
	}

	if ev.PushSymbol(Symbol(token)) {
		return true
	}

	if unit, ok := ParseUnitExpr(ev.Env, token); ok && !unit.Empty() {
		ev.ApplyUnits(unit, token)
		return true
	}

	return false
}

// FormatConcise renders a value as its display-unit number plus unit string,
// for the default (non-detailed) stack print.
func (ev *Evaluator) FormatConcise(value Value) string {
	scalar := value.Scalar
	ratio := ev.Env.BaseConversionRatioOf(scalar.DisplayUnit)
	number := strconv.FormatFloat(scalar.BaseValue/ratio, 'g', -1, 64)
	if scalar.DisplayUnit.Empty() {
		return number
	}
	return number + " " + ev.Env.FormatUnit(scalar.DisplayUnit)
}
