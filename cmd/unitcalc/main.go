// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"unitcalc"
)

type Options struct {
	trace     bool
	detailed  bool
	currency  bool
	precision int
	date      string
	unitsFile string
}

var options = Options{
	precision: 4,
}

func heredoc(text string) string {
	lines := strings.Split(strings.TrimRight(text, " \t\n"), "\n")

	minIndent := -1
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			leadingSpaces := len(line) - len(strings.TrimLeft(line, " "))
			if minIndent == -1 || leadingSpaces < minIndent {
				minIndent = leadingSpaces
			}
		}
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		}
	}

	return strings.Join(lines, "\n")
}

func usage() {
	fmt.Printf("%s\n", heredoc(fmt.Sprintf(`
        Usage: unitcalc [OPTIONS | ARGUMENTS]
        Options:
          -t         Trace operations (prints the formula for each result)
          -d         Show detailed output (display unit and base unit forms)
          -C         Enable currency units (fetches exchange rates)
          -p Integer Set display precision (default: %d)
          -D Date    Date for currency conversion rates (e.g. 2022-01-01)
          -u Path    Load extra unit definitions from a YAML file
          -h         Show extended help
	`, options.precision)))
}

func doHelp() {
	usage()

	fmt.Printf("%s\n", heredoc(`
        Constants:
          pi e c g
    `))

	fmt.Printf("%s\n", heredoc(`
        Stack Operations:
          x: exchange top 2 elements of the stack
          d: duplicate top element of the stack
          p: pop top element off of the stack
    `))

	fmt.Printf("%s\n", heredoc(`
        Binary numerical operations:
          + -  (operands must share a dimension)
          * /  (* aliased as . and •; units compose)

        Unary numerical operations:
          chs (change sign)
          r   (reciprocal)
    `))

	fmt.Printf("%s\n", heredoc(`
        Units:
          A unit expression tags a dimensionless value or converts a
          dimensioned one, e.g.: 100 Foot Meter

          Expressions multiply unit names with '*' (or '.'), divide with a
          single '/', and raise with '^', e.g. Meter^2/Second

          length
            Meter, Centimeter, Kilometer, Inch, Foot, Yard, Mile
          time
            Second, Minute, Hour, Hertz (1/time)
          mass
            Kilogram, Gram, Pound
          derived
            Liter, Acre
          currency (with -C)
            USD, EUR, GBP, JPY, BTC
    `))
}

func scanOptions(args []string) []string {
	for i := 0; i < len(args); { // scan args for options, e.g. -h, -p N
		consumed := 1
		switch args[i] {
		case "-h":
			doHelp()
			os.Exit(1)
		case "-t":
			options.trace = true
		case "-d":
			options.detailed = true
		case "-C":
			options.currency = true
		case "-D":
			if i < len(args)-1 {
				options.date = args[i+1]
				consumed = 2
			} else {
				fmt.Fprintf(os.Stderr, "Missing required argument for '%s', exiting\n", args[i])
				os.Exit(1)
			}
		case "-u":
			if i < len(args)-1 {
				options.unitsFile = args[i+1]
				consumed = 2
			} else {
				fmt.Fprintf(os.Stderr, "Missing required argument for '%s', exiting\n", args[i])
				os.Exit(1)
			}
		case "-p":
			if i < len(args)-1 {
				if precision, err := strconv.Atoi(args[i+1]); err == nil && precision >= 1 {
					options.precision = precision
					consumed = 2
				} else {
					fmt.Fprintf(os.Stderr, "Positive integer argument required for '%s', cannot use '%s', exiting\n", args[i], args[i+1])
					os.Exit(1)
				}
			} else {
				fmt.Fprintf(os.Stderr, "Missing required argument for '%s', exiting\n", args[i])
				os.Exit(1)
			}
		default:
			consumed = 0
		}

		if consumed == 0 {
			i++
		} else {
			args = append(args[:i], args[i+consumed:]...) // remove the option and any argument
		}
	}

	return args
}

func main() {
	if len(os.Args) == 1 {
		usage()
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: %v, exiting\n", r)
			os.Exit(1)
		}
	}()

	args := scanOptions(os.Args[1:])

	env := unitcalc.NewEnvironment()

	if options.unitsFile != "" {
		if err := unitcalc.LoadUnitDefs(env, options.unitsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading units from '%s': %v, exiting\n", options.unitsFile, err)
			os.Exit(1)
		}
	}

	if options.currency || options.date != "" {
		rates, err := unitcalc.GetRates(options.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: currency units unavailable: %v\n", err)
		} else if err := unitcalc.RegisterCurrencyUnits(env, rates); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: currency units unavailable: %v\n", err)
		}
	}

	evaluator := unitcalc.NewEvaluator(env, uint(options.precision))
	evaluator.Trace = options.trace

	for _, arg := range args {
		if code, ok := unitcalc.CurrencyCode(arg); ok && arg != code {
			arg = code
		}
		if !evaluator.Eval(arg) {
			fmt.Fprintf(os.Stderr, "Unrecognized argument '%s', exiting\n", arg)
			os.Exit(1)
		}
	}

	values := evaluator.Values()
	formulas := evaluator.Formulas()
	for i := len(values) - 1; i >= 0; i-- {
		if options.detailed {
			fmt.Println(env.FormatValueDetailed(values[i]))
		} else {
			fmt.Println(evaluator.FormatConcise(values[i]))
		}
		if options.trace && i < len(formulas) {
			fmt.Println(env.FormatFormulaDetailed(formulas[i]))
		}
	}
}
