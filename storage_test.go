// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"testing"
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestItemStorageIdentities(t *testing.T) {
	var storage ItemStorage[UnitClassID, UnitClass]

	length := storage.Add(UnitClass{Name: "Length"})
	time := storage.Add(UnitClass{Name: "Time"})

	if length == time {
		t.Errorf("Add returned the same identity twice: %d", length)
	}
	if storage.Len() != 2 {
		t.Errorf("Len() = %d, want 2", storage.Len())
	}

	if got := storage.Borrow(length).Name; got != "Length" {
		t.Errorf("Borrow(length).Name = %q, want %q", got, "Length")
	}
	if got := storage.Borrow(time).Name; got != "Time" {
		t.Errorf("Borrow(time).Name = %q, want %q", got, "Time")
	}

	// identities are stable across later additions
	storage.Add(UnitClass{Name: "Mass"})
	if got := storage.Borrow(length).Name; got != "Length" {
		t.Errorf("after growth, Borrow(length).Name = %q, want %q", got, "Length")
	}
}

func TestItemStorageBorrowUnissued(t *testing.T) {
	var storage ItemStorage[UnitID, Unit]
	storage.Add(Unit{Name: "Meter", BaseRatio: 1})

	expectPanic(t, "Borrow(5)", func() { storage.Borrow(UnitID(5)) })
	expectPanic(t, "Borrow(-1)", func() { storage.Borrow(UnitID(-1)) })
}
