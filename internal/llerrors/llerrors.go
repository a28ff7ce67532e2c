// Package llerrors holds the error types returned while preparing a grammar
// for LL(1) parsing. Every error type here matches one of the package's
// sentinel errors when checked with errors.Is, so callers can tell "the
// grammar is broken" apart from "the grammar is not LL(1)" without type
// assertions.
package llerrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedGrammar = errors.New("malformed grammar")
	ErrLeftRecursion    = errors.New("grammar has left recursion")
	ErrConflict         = errors.New("grammar is not LL(1)")
	ErrBadInput         = errors.New("invalid input tokens")
)

// MalformedGrammarError is returned when a grammar description is structurally
// unusable, before any normalization is attempted. It holds every problem that
// was found, not just the first.
type MalformedGrammarError struct {
	Problems []string
}

// Malformed returns a new MalformedGrammarError with the given problems.
func Malformed(problems ...string) *MalformedGrammarError {
	return &MalformedGrammarError{Problems: problems}
}

func (e *MalformedGrammarError) Error() string {
	if len(e.Problems) == 0 {
		return ErrMalformedGrammar.Error()
	}
	return ErrMalformedGrammar.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is returns whether target is ErrMalformedGrammar.
func (e *MalformedGrammarError) Is(target error) bool {
	return target == ErrMalformedGrammar
}

// LeftRecursionError is returned when a table is requested for a grammar that
// still has a production whose body begins with its own head.
type LeftRecursionError struct {
	NonTerminal string
	Production  []string
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s; eliminate it first", ErrLeftRecursion.Error(), e.NonTerminal, strings.Join(e.Production, " "))
}

// Is returns whether target is ErrLeftRecursion.
func (e *LeftRecursionError) Is(target error) bool {
	return target == ErrLeftRecursion
}

// ConflictError is returned when two productions both claim the same
// (nonterminal, terminal) cell of a predictive parsing table.
type ConflictError struct {
	NonTerminal string
	Terminal    string

	// Existing is the production that claimed the cell first.
	Existing []string

	// Incoming is the production whose claim collided with Existing.
	Incoming []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at [%s, %s] between %s -> %s and %s -> %s: %s",
		e.NonTerminal, e.Terminal,
		e.NonTerminal, strings.Join(e.Existing, " "),
		e.NonTerminal, strings.Join(e.Incoming, " "),
		ErrConflict.Error(),
	)
}

// Is returns whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// BadInput returns an error wrapping ErrBadInput with the given message.
func BadInput(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, a...))
}
