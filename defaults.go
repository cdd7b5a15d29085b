// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"unitcalc/enumerable"
)

type unitDef struct {
	name  string
	class string // class expression, e.g. "Length" or "/Time"
	ratio float64
}

var defaultUnitDefs = []unitDef{
	{"Meter", "Length", 1},
	{"Centimeter", "Length", 0.01},
	{"Kilometer", "Length", 1000},

	{"Inch", "Length", 0.0254}, // by definition
	{"Foot", "Length", 0.3048},
	{"Yard", "Length", 0.9144},
	{"Mile", "Length", 1609.344},

	{"Second", "Time", 1},
	{"Minute", "Time", 60},
	{"Hour", "Time", 3600},

	{"Kilogram", "Mass", 1},
	{"Gram", "Mass", 0.001},
	{"Pound", "Mass", 0.45359237}, // by definition

	{"Hertz", "/Time", 1},
	{"Liter", "Length^3", 0.001},
	{"Acre", "Length^2", 4046.8564224},
}

// defaultSymbolPrecision is the display precision for the built-in constants.
const defaultSymbolPrecision = 6

// addDefaultUnits registers the primitive classes and the default unit
// table. Class expressions in the table only ever reference classes
// registered here; the dimension system itself is fixed.
func addDefaultUnits(env *Environment) {
	for _, name := range []string{"Length", "Time", "Mass"} {
		env.RegisterUnitClass(name)
	}

	for _, def := range defaultUnitDefs {
		class, ok := ParseClassExpr(env, def.class)
		if !ok {
			die("default unit '%s' has unparseable class '%s'", def.name, def.class)
		}
		env.RegisterUnit(def.name, class, def.ratio)
	}
}

// addDefaultSymbols binds the built-in constants.
func addDefaultSymbols(env *Environment) {
	constants := []struct {
		symbol Symbol
		value  float64
		unit   string
	}{
		{"pi", math.Pi, ""},
		{"e", math.E, ""},
		{"c", 299792458, "Meter/Second"}, // speed of light, by definition
		{"g", 9.80665, "Meter/Second^2"}, // standard gravity
	}

	for _, constant := range constants {
		unit, ok := ParseUnitExpr(env, constant.unit)
		if !ok {
			die("default symbol '%s' has unparseable unit '%s'", constant.symbol, constant.unit)
		}
		scalar := env.MakeScalar(constant.value, unit, defaultSymbolPrecision)
		env.AddGlobalSymbol(constant.symbol, NewScalarValue(scalar))
	}
}

// UnitFileEntry is one declared unit in a YAML unit file.
type UnitFileEntry struct {
	Name  string  `yaml:"name"`
	Class string  `yaml:"class"`
	Ratio float64 `yaml:"ratio"`
}

// UnitFile is the document shape for extra unit definitions:
//
//	units:
//	  - name: Furlong
//	    class: Length
//	    ratio: 201.168
type UnitFile struct {
	Units []UnitFileEntry `yaml:"units"`
}

// LoadUnitDefs registers extra units declared in a YAML file. Definitions
// reference only already-registered classes; bad definitions are user input
// and reported as errors, not fatally.
func LoadUnitDefs(env *Environment, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file UnitFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("cannot parse unit file %s: %v", path, err)
	}

	bad := enumerable.Filter(file.Units, func(entry UnitFileEntry) bool {
		return entry.Name == "" || entry.Ratio <= 0
	})
	if len(bad) > 0 {
		names := enumerable.Map(bad, func(entry UnitFileEntry) string { return entry.Name })
		return fmt.Errorf("unit file %s has %d invalid entries (need name and positive ratio): %v", path, len(bad), names)
	}

	for _, entry := range file.Units {
		class, ok := ParseClassExpr(env, entry.Class)
		if !ok {
			return fmt.Errorf("unit '%s' in %s has unparseable class '%s'", entry.Name, path, entry.Class)
		}
		env.RegisterUnit(entry.Name, class, entry.Ratio)
	}

	return nil
}
