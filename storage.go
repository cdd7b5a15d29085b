// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

// UnitClassID and UnitID index their own storages. Keeping them as distinct
// types means an identity from one storage cannot be used with the other.
type UnitClassID int

type UnitID int

// ItemStorage is an append-only arena handing out stable integer identities.
// There is no update or remove; an identity stays valid for the life of the
// storage and is never reused.
type ItemStorage[ID ~int, T any] struct {
	items []T
}

// Add appends the item and returns a fresh identity for it.
func (s *ItemStorage[ID, T]) Add(item T) ID {
	s.items = append(s.items, item)
	return ID(len(s.items) - 1)
}

// Borrow returns the item for an identity issued by this storage. Passing an
// identity this storage never issued is a programming error.
func (s *ItemStorage[ID, T]) Borrow(id ID) *T {
	if id < 0 || int(id) >= len(s.items) {
		die("identity %d was not issued by this storage (size %d)", int(id), len(s.items))
	}
	return &s.items[id]
}

// Len returns the number of stored items.
func (s *ItemStorage[ID, T]) Len() int {
	return len(s.items)
}
