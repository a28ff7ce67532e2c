/*
Ellone builds an LL(1) parser from a grammar and runs it on input.

It reads a grammar from a file, or from stdin up to the first blank line if no
file is given, and prints the normalized grammar with its FIRST and FOLLOW
sets and its parsing table. It then reads lines of input from stdin and prints
the parse trace and tree of each until input ends or "QUIT" is entered.

Usage:

	ellone [flags] [GRAMMAR_FILE]

Grammar text has one rule per line (or rules separated by ";") of the form
"E -> E + T | T". The non-terminal of the first rule is the start symbol.
Input tokens are separated by whitespace.

The flags are:

	-v, --version
		Give the current version of ellone and then exit.

	-i, --input TEXT
		Parse only the given input and then exit instead of reading input
		from stdin. The exit status is 2 if the input is rejected.

	-s, --start SYMBOL
		Use SYMBOL as the start symbol instead of the first rule's
		non-terminal.

	--check
		Only check whether the grammar is LL(1) once its left recursion is
		removed, and then exit. The exit status is 1 if it is not.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGrammarError indicates an unsuccessful program execution due to bad
	// usage or a grammar that could not be made into a parser.
	ExitGrammarError

	// ExitInputRejected indicates that the input given with --input was not
	// accepted by the parser.
	ExitInputRejected
)

var (
	returnCode  int = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of ellone and then exit.")
	flagInput       = pflag.StringP("input", "i", "", "Parse only the given input and then exit.")
	flagStart       = pflag.StringP("start", "s", "", "Use the given start symbol.")
	flagCheck       = pflag.Bool("check", false, "Only check whether the grammar is LL(1).")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\nDo -h for help.\n")
		returnCode = ExitGrammarError
		return
	}

	eng, err := ellone.NewEngine(os.Stdin, os.Stdout, ellone.EngineOptions{
		GrammarFile: pflag.Arg(0),
		Start:       *flagStart,
		ForceDirect: *flagDirect,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
	defer eng.Close()

	if err := eng.ReadGrammar(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	if *flagCheck {
		isLL1, err := eng.CheckLL1()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitGrammarError
		} else if !isLL1 {
			returnCode = ExitGrammarError
		}
		return
	}

	if err := eng.Analyze(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	if pflag.Lookup("input").Changed {
		accepted, err := eng.Parse(*flagInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitGrammarError
		} else if !accepted {
			returnCode = ExitInputRejected
		}
		return
	}

	if err := eng.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
}
