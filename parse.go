// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"regexp"
	"strconv"
)

// Unit expressions look like "Meter", "Meter^2/Second" or "/Second": powers
// are unsigned digits and a single '/' flips the remaining terms into the
// denominator.
var (
	termRe = regexp.MustCompile(`^([A-Za-z]+)(\^(\d+))?`)
	sepRe  = regexp.MustCompile(`^([.*·/])`)
)

// parseExpr runs the shared scanner; resolve maps a name to an arbitrary
// token and ok=false rejects the whole expression. apply folds a term at
// the given signed power into the accumulator.
func parseExpr(input string, resolve func(string) bool, apply func(name string, power int)) bool {
	nextPosition := 0
	factor := 1
	if len(input) > 1 && input[0] == '/' { // no numerator
		nextPosition = 1
		factor = -1
	}

	for {
		match := termRe.FindStringSubmatch(input[nextPosition:])
		if match == nil {
			break
		}

		power := 1
		if match[3] != "" {
			var err error
			power, err = strconv.Atoi(match[3])
			if err != nil {
				break
			}
		}

		if !resolve(match[1]) {
			return false
		}
		apply(match[1], factor*power)

		nextPosition += len(match[0])
		if nextPosition >= len(input) { // end of input
			break
		}

		sepMatch := sepRe.FindStringSubmatch(input[nextPosition:])
		if sepMatch == nil {
			break // unexpected char
		}
		if sepMatch[1] == "/" {
			if factor == 1 {
				factor = -1
			} else {
				break // second instance of /
			}
		}
		nextPosition += len(sepMatch[1])
	}

	return nextPosition == len(input)
}

// ParseUnitExpr builds a composite unit from an expression over registered
// unit names, e.g. "Meter^2/Second". Unknown names or trailing garbage
// return ok=false; validation happens here so the algebra below only ever
// sees well-formed components.
func ParseUnitExpr(env *Environment, input string) (CompositeUnit, bool) {
	unit := UnitlessUnit()
	ok := parseExpr(input,
		func(name string) bool {
			_, found := env.FindUnit(name)
			return found
		},
		func(name string, power int) {
			id, _ := env.FindUnit(name)
			unit = unit.Mul(SingleUnit(id, power))
		})
	return unit, ok
}

// ParseClassExpr builds a composite unit class from an expression over
// registered class names, e.g. "Length^3" or "/Time".
func ParseClassExpr(env *Environment, input string) (CompositeUnitClass, bool) {
	class := Unitless()
	ok := parseExpr(input,
		func(name string) bool {
			_, found := env.FindUnitClass(name)
			return found
		},
		func(name string, power int) {
			id, _ := env.FindUnitClass(name)
			class = class.Mul(SingleClass(id, power))
		})
	return class, ok
}
