// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"testing"
)

const (
	lengthID UnitClassID = 0
	timeID   UnitClassID = 1
	massID   UnitClassID = 2
)

func TestGroupLaws(t *testing.T) {
	a := SingleClass(lengthID, 2).Mul(SingleClass(timeID, -1))
	b := SingleClass(timeID, 3).Mul(SingleClass(massID, 1))
	c := SingleClass(lengthID, -2)

	t.Run("identity", func(t *testing.T) {
		if !a.Mul(Unitless()).Equal(a) {
			t.Errorf("a * unitless != a")
		}
		if !Unitless().Mul(a).Equal(a) {
			t.Errorf("unitless * a != a")
		}
	})

	t.Run("commutativity", func(t *testing.T) {
		if !a.Mul(b).Equal(b.Mul(a)) {
			t.Errorf("a*b != b*a")
		}
	})

	t.Run("associativity", func(t *testing.T) {
		if !a.Mul(b).Mul(c).Equal(a.Mul(b.Mul(c))) {
			t.Errorf("(a*b)*c != a*(b*c)")
		}
	})

	t.Run("inverse", func(t *testing.T) {
		if !a.Mul(b).Div(b).Equal(a) {
			t.Errorf("(a*b)/b != a")
		}
		if !a.Div(a).Equal(Unitless()) {
			t.Errorf("a/a != unitless")
		}
	})
}

func TestNormalization(t *testing.T) {
	cancelled := SingleClass(lengthID, 1).Mul(SingleClass(lengthID, -1))

	if !cancelled.Empty() {
		t.Errorf("Length^1 * Length^-1 is not empty: %v", cancelled.Components)
	}
	if _, present := cancelled.Components[lengthID]; present {
		t.Errorf("cancelled map still stores an entry for Length")
	}

	// partial cancellation keeps only the surviving key
	mixed := SingleClass(lengthID, 2).Mul(SingleClass(timeID, 1)).Div(SingleClass(timeID, 1))
	if len(mixed.Components) != 1 || mixed.Components[lengthID] != 2 {
		t.Errorf("partial cancellation: got %v, want {Length:2}", mixed.Components)
	}
}

func TestEqualityIgnoresOrder(t *testing.T) {
	forward := SingleClass(lengthID, 1).Mul(SingleClass(timeID, -1))
	backward := SingleClass(timeID, -1).Mul(SingleClass(lengthID, 1))

	if !forward.Equal(backward) {
		t.Errorf("equal maps built in different orders compare unequal")
	}
}

func TestSingleZeroPower(t *testing.T) {
	if !SingleClass(lengthID, 0).Empty() {
		t.Errorf("SingleClass power 0 stored an entry")
	}
	if !SingleUnit(UnitID(0), 0).Empty() {
		t.Errorf("SingleUnit power 0 stored an entry")
	}
}

func TestCompositeUnitGroup(t *testing.T) {
	meter := SingleUnit(UnitID(0), 1)
	second := SingleUnit(UnitID(7), 1)

	velocity := meter.Div(second)
	if velocity.Components[UnitID(0)] != 1 || velocity.Components[UnitID(7)] != -1 {
		t.Errorf("meter/second = %v, want {0:1, 7:-1}", velocity.Components)
	}

	if !velocity.Mul(second).Equal(meter) {
		t.Errorf("(meter/second)*second != meter")
	}
}
