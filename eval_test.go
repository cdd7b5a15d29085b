// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"testing"
)

func top(t *testing.T, ev *Evaluator) Scalar {
	t.Helper()
	values := ev.Values()
	if len(values) == 0 {
		t.Fatalf("stack is empty")
	}
	return values[len(values)-1].Scalar
}

func evalAll(t *testing.T, ev *Evaluator, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		if !ev.Eval(token) {
			t.Fatalf("unrecognized token %q", token)
		}
	}
}

func TestEvalTagAndConvert(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	// tag a dimensionless value with Foot, then convert to Meter
	evalAll(t, ev, "1", "Foot")
	if got := top(t, ev); !approx(got.BaseValue, 0.3048) {
		t.Errorf("1 Foot base value = %v, want 0.3048", got.BaseValue)
	}

	evalAll(t, ev, "Meter")
	got := top(t, ev)
	if !approx(got.BaseValue, 0.3048) {
		t.Errorf("conversion changed the base value: %v", got.BaseValue)
	}
	if ev.FormatConcise(ev.Values()[0]) != "0.3048 Meter^1 / " {
		t.Errorf("FormatConcise = %q", ev.FormatConcise(ev.Values()[0]))
	}
}

func TestEvalVelocity(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "5", "Meter", "2", "Second", "/")

	got := top(t, ev)
	if !approx(got.BaseValue, 2.5) {
		t.Errorf("5 Meter / 2 Second = %v base, want 2.5", got.BaseValue)
	}
	if !got.BaseUnit.Equal(mustClass(t, env, "Length/Time")) {
		t.Errorf("result dimension = %v, want Length/Time", got.BaseUnit.Components)
	}
	if !got.DisplayUnit.Equal(mustUnit(t, env, "Meter/Second")) {
		t.Errorf("result display unit = %v, want Meter/Second", got.DisplayUnit.Components)
	}
}

func TestEvalAddSameDimension(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	// 1 Meter + 1 Foot, displayed in Meter
	evalAll(t, ev, "1", "Meter", "1", "Foot", "+")

	got := top(t, ev)
	if !approx(got.BaseValue, 1.3048) {
		t.Errorf("1 Meter + 1 Foot = %v base, want 1.3048", got.BaseValue)
	}
	if !got.DisplayUnit.Equal(mustUnit(t, env, "Meter")) {
		t.Errorf("sum display unit = %v, want Meter", got.DisplayUnit.Components)
	}
}

func TestEvalAddDimensionMismatch(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "1", "Meter", "1", "Second")
	expectPanic(t, "Meter + Second", func() { ev.BinaryOp("+") })
}

func TestEvalConvertDimensionMismatch(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "1", "Meter")
	expectPanic(t, "convert Meter to Second", func() {
		ev.ApplyUnits(mustUnit(t, env, "Second"), "Second")
	})
}

func TestEvalUnaryOps(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "2", "Second", "chs")
	if got := top(t, ev); !approx(got.BaseValue, -2) {
		t.Errorf("chs: base = %v, want -2", got.BaseValue)
	}

	evalAll(t, ev, "chs", "r")
	got := top(t, ev)
	if !approx(got.BaseValue, 0.5) {
		t.Errorf("reciprocal: base = %v, want 0.5", got.BaseValue)
	}
	if !got.BaseUnit.Equal(mustClass(t, env, "/Time")) {
		t.Errorf("reciprocal dimension = %v, want Time^-1", got.BaseUnit.Components)
	}
}

func TestEvalStackOps(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "1", "2", "x")
	if got := top(t, ev); got.BaseValue != 1 {
		t.Errorf("after exchange, top = %v, want 1", got.BaseValue)
	}

	evalAll(t, ev, "d")
	if len(ev.Values()) != 3 {
		t.Errorf("after dup, stack size = %d, want 3", len(ev.Values()))
	}

	evalAll(t, ev, "p", "p", "p")
	if len(ev.Values()) != 0 {
		t.Errorf("after pops, stack size = %d, want 0", len(ev.Values()))
	}

	expectPanic(t, "pop of empty stack", func() { ev.StackOp("p") })
}

func TestEvalSymbols(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "c")
	got := top(t, ev)
	if got.BaseValue != 299792458 {
		t.Errorf("'c' = %v, want 299792458", got.BaseValue)
	}
	if !got.BaseUnit.Equal(mustClass(t, env, "Length/Time")) {
		t.Errorf("'c' dimension = %v, want Length/Time", got.BaseUnit.Components)
	}
}

func TestEvalUnrecognized(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	for _, token := range []string{"florp", "Meter^0", ""} {
		if ev.Eval(token) {
			t.Errorf("Eval(%q) succeeded", token)
		}
	}
}

func TestEvalTrace(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 3)
	ev.Trace = true

	evalAll(t, ev, "1", "2", "+")

	formulas := ev.Formulas()
	if len(formulas) != 1 {
		t.Fatalf("formula stack size = %d, want 1", len(formulas))
	}

	fun, ok := formulas[0].(PlainFunction)
	if !ok {
		t.Fatalf("trace is %T, want PlainFunction", formulas[0])
	}
	if fun.Fun != "add" || len(fun.Args) != 2 {
		t.Errorf("trace = %s with %d args, want add with 2", fun.Fun, len(fun.Args))
	}

	got := env.FormatFormulaDetailed(formulas[0])
	want := "add[\n" +
		"    1.00e0  /  (1.00e0  / ),\n" +
		"    2.00e0  /  (2.00e0  / ),\n" +
		"]"
	if got != want {
		t.Errorf("formatted trace = %q, want %q", got, want)
	}
}

func TestFormatConciseDimensionless(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(env, 4)

	evalAll(t, ev, "2.5")
	if got := ev.FormatConcise(ev.Values()[0]); got != "2.5" {
		t.Errorf("FormatConcise = %q, want %q", got, "2.5")
	}
}
