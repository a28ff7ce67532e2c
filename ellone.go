package ellone

import (
	"errors"
	"sort"

	"github.com/dekarrin/ellone/internal/grammar"
	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/dekarrin/ellone/internal/parse"
	"github.com/dekarrin/ellone/internal/reader"
	"github.com/dekarrin/ellone/internal/types"
)

type (
	// Grammar is a context-free grammar with a designated start symbol.
	Grammar = grammar.Grammar

	// Table is an LL(1) predictive parsing table.
	Table = parse.LL1Table

	// ParseTree is a node of a parse tree.
	ParseTree = types.ParseTree

	// DerivationStep is one entry of a parser trace.
	DerivationStep = types.DerivationStep

	// ParseResult is the outcome of parsing one token sequence.
	ParseResult = parse.Result

	FirstSet  = grammar.FirstSet
	FollowSet = grammar.FollowSet
)

var (
	ErrMalformedGrammar = llerrors.ErrMalformedGrammar
	ErrLeftRecursion    = llerrors.ErrLeftRecursion
	ErrConflict         = llerrors.ErrConflict
	ErrBadInput         = llerrors.ErrBadInput
)

// Analysis is everything computed from a grammar before any input is parsed.
type Analysis struct {
	// Original is the grammar as given.
	Original Grammar

	// Normalized is Original with direct left recursion removed and then
	// left factored.
	Normalized Grammar

	First  FirstSet
	Follow FollowSet

	// Table is the predictive parsing table. It is nil if the table could not
	// be built.
	Table Table

	// Warnings holds diagnostics from reading grammar text. It is empty for
	// grammars not read from text.
	Warnings []string
}

// Result is an Analysis together with the outcome of parsing one input with
// it.
type Result struct {
	Analysis
	ParseResult
}

// LL1Report is the result of checking whether a grammar is LL(1) once its
// direct left recursion is removed.
type LL1Report struct {
	IsLL1 bool

	// Reason is why the grammar is not LL(1). It is a
	// *llerrors.ConflictError or *llerrors.LeftRecursionError, and nil when
	// IsLL1 is true.
	Reason error

	// Grammar is the grammar after left recursion removal. No left factoring
	// is done.
	Grammar Grammar

	First  FirstSet
	Follow FollowSet
}

// FromMap builds a Grammar from a map of non-terminal to productions. Rules
// are ordered with start first and the rest alphabetically, which decides the
// names given to non-terminals created by normalization.
func FromMap(rules map[string][][]string, start string) Grammar {
	nts := make([]string, 0, len(rules))
	for nt := range rules {
		if nt != start {
			nts = append(nts, nt)
		}
	}
	sort.Strings(nts)
	if _, ok := rules[start]; ok {
		nts = append([]string{start}, nts...)
	}

	g := Grammar{Start: start}
	for _, nt := range nts {
		if len(rules[nt]) == 0 {
			g.DeclareRule(nt)
		}
		for _, p := range rules[nt] {
			g.AddRule(nt, p)
		}
	}
	return g
}

// ReadGrammar reads grammar text of the form "NT -> a b | c", one rule per
// line or separated by ";". The first rule's non-terminal is the start symbol
// unless start is non-empty. Any warnings about the text are returned with
// the grammar.
func ReadGrammar(text string, start string) (Grammar, []string, error) {
	rg, err := reader.Read(text)
	if err != nil {
		return Grammar{}, nil, err
	}
	g := rg.Grammar
	if start != "" {
		g.Start = start
	}
	return g, rg.Warnings, nil
}

// Tokens splits input text into tokens on whitespace.
func Tokens(text string) []string {
	return reader.SplitTokens(text)
}

// Analyze validates g, normalizes it, computes its FIRST and FOLLOW sets and
// builds its parsing table.
//
// A *llerrors.MalformedGrammarError is returned if g cannot be used at all,
// with a nil Analysis. If only the table cannot be built, the Analysis is
// returned with a nil Table along with the *llerrors.ConflictError or
// *llerrors.LeftRecursionError that stopped it.
func Analyze(g Grammar) (*Analysis, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	a := &Analysis{Original: g.Copy()}
	a.Normalized = g.Normalize()
	a.First = grammar.ComputeFirst(a.Normalized)
	a.Follow = grammar.ComputeFollow(a.Normalized, a.First)

	M, err := parse.BuildTable(a.Normalized, a.First, a.Follow)
	if err != nil {
		return a, err
	}
	a.Table = M

	return a, nil
}

// AnalyzeText reads grammar text with ReadGrammar and then calls Analyze.
func AnalyzeText(text string, start string) (*Analysis, error) {
	g, warnings, err := ReadGrammar(text, start)
	if err != nil {
		return nil, err
	}
	a, err := Analyze(g)
	if a != nil {
		a.Warnings = warnings
	}
	return a, err
}

// Parse runs the predictive parser over tokens. The end marker is added
// automatically and must not be among tokens; if it is, an error wrapping
// ErrBadInput is returned. A rejected input is not an error.
func (a *Analysis) Parse(tokens []string) (ParseResult, error) {
	if a.Table == nil {
		return ParseResult{}, errors.New("analysis has no parsing table")
	}
	for i := range tokens {
		if tokens[i] == grammar.EndMarker {
			return ParseResult{}, llerrors.BadInput("token %d is the reserved end marker %q", i+1, grammar.EndMarker)
		}
	}

	return parse.NewLL1Parser(a.Normalized, a.Table).Parse(tokens), nil
}

// Process runs the whole pipeline: it analyzes g and then parses tokens with
// the resulting table.
func Process(g Grammar, tokens []string) (Result, error) {
	a, err := Analyze(g)
	if err != nil {
		if a != nil {
			return Result{Analysis: *a}, err
		}
		return Result{}, err
	}

	pr, err := a.Parse(tokens)
	if err != nil {
		return Result{Analysis: *a}, err
	}

	return Result{Analysis: *a, ParseResult: pr}, nil
}

// CheckLL1 reports whether g is LL(1) after direct left recursion is removed.
// Left factoring is not applied, so a grammar that needs it is reported as not
// LL(1). Only a malformed grammar causes an error.
func CheckLL1(g Grammar) (LL1Report, error) {
	if err := g.Validate(); err != nil {
		return LL1Report{}, err
	}

	rep := LL1Report{Grammar: g.RemoveLeftRecursion()}
	rep.First = grammar.ComputeFirst(rep.Grammar)
	rep.Follow = grammar.ComputeFollow(rep.Grammar, rep.First)

	if _, err := parse.BuildTable(rep.Grammar, rep.First, rep.Follow); err != nil {
		rep.Reason = err
		return rep, nil
	}

	rep.IsLL1 = true
	return rep, nil
}
