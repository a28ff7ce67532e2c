// Package parse builds LL(1) predictive parsing tables from normalized
// grammars and runs the table-driven parser over token sequences.
package parse

import (
	"github.com/dekarrin/ellone/internal/grammar"
	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/dekarrin/ellone/internal/util"
	"github.com/dekarrin/rosed"
)

// LL1Table is a predictive parsing table. It maps a non-terminal and a
// lookahead terminal to the production to expand the non-terminal with. A
// missing entry is a syntax error.
type LL1Table map[string]map[string]grammar.Production

// NewLL1Table creates an empty table.
func NewLL1Table() LL1Table {
	return LL1Table{}
}

// Set places alpha at M[A, a], replacing anything already there.
func (M LL1Table) Set(A string, a string, alpha grammar.Production) {
	row, ok := M[A]
	if !ok {
		row = map[string]grammar.Production{}
		M[A] = row
	}
	row[a] = alpha
}

// Get returns the production at M[A, a]. The returned bool is false if there
// is no entry.
func (M LL1Table) Get(A string, a string) (grammar.Production, bool) {
	row, ok := M[A]
	if !ok {
		return nil, false
	}
	alpha, ok := row[a]
	return alpha, ok
}

// NonTerminals returns all non-terminals used as the X keys for values in this
// table.
func (M LL1Table) NonTerminals() []string {
	return util.OrderedKeys(M)
}

// Terminals returns all terminals used as the Y keys for values in this table.
func (M LL1Table) Terminals() []string {
	termSet := map[string]bool{}

	for k := range M {
		for term := range M[k] {
			termSet[term] = true
		}
	}

	return util.OrderedKeys(termSet)
}

// Map returns the table as plain nested maps of symbol slices. Every
// non-terminal in the table has an entry even if its row is empty.
func (M LL1Table) Map() map[string]map[string][]string {
	m := make(map[string]map[string][]string, len(M))
	for A, row := range M {
		mRow := make(map[string][]string, len(row))
		for a, alpha := range row {
			mRow[a] = alpha.Copy()
		}
		m[A] = mRow
	}
	return m
}

// String renders the table as a bordered text grid with one row per
// non-terminal and one column per terminal.
func (M LL1Table) String() string {
	data := [][]string{}

	terms := M.Terminals()
	nts := M.NonTerminals()

	topRow := []string{""}
	topRow = append(topRow, terms...)
	data = append(data, topRow)

	for i := range nts {
		dataRow := []string{nts[i]}
		for j := range terms {
			var cell string
			if prod, ok := M.Get(nts[i], terms[j]); ok {
				cell = nts[i] + " → " + prod.String()
			}
			dataRow = append(dataRow, cell)
		}
		data = append(data, dataRow)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}

// BuildTable builds the predictive parsing table for g from its already
// computed FIRST and FOLLOW sets. For every production A -> α:
//
//  1. For each terminal a in FIRST(α) other than ε, M[A, a] is set to α.
//  2. If ε is in FIRST(α), then for each terminal b in FOLLOW(A), M[A, b] is
//     set to α when α is the ε production and to the ε production otherwise.
//
// A grammar that still has direct left recursion is rejected with a
// *llerrors.LeftRecursionError before any entries are made. If any entry
// would be written twice, a *llerrors.ConflictError naming both productions is
// returned and no table is.
func BuildTable(g grammar.Grammar, first grammar.FirstSet, follow grammar.FollowSet) (LL1Table, error) {
	if A, alpha, ok := g.DirectLeftRecursion(); ok {
		return nil, &llerrors.LeftRecursionError{NonTerminal: A, Production: alpha}
	}

	M := NewLL1Table()

	// the production that caused each entry; the entry itself may be only the
	// ε stand-in.
	claimedBy := map[string]map[string]grammar.Production{}

	claim := func(A, a string, alpha, entry grammar.Production) error {
		if prev, ok := claimedBy[A][a]; ok {
			return &llerrors.ConflictError{
				NonTerminal: A,
				Terminal:    a,
				Existing:    prev.Copy(),
				Incoming:    alpha.Copy(),
			}
		}
		if claimedBy[A] == nil {
			claimedBy[A] = map[string]grammar.Production{}
		}
		claimedBy[A][a] = alpha
		M.Set(A, a, entry.Copy())
		return nil
	}

	for _, A := range g.NonTerminals() {
		M[A] = map[string]grammar.Production{}

		for _, alpha := range g.Rule(A).Productions {
			firstAlpha := first.OfSequence(alpha)

			for _, a := range firstAlpha.Sorted() {
				if a == grammar.Epsilon {
					continue
				}
				if err := claim(A, a, alpha, alpha); err != nil {
					return nil, err
				}
			}

			if firstAlpha.Has(grammar.Epsilon) {
				entry := grammar.EpsilonProduction
				if alpha.IsEpsilon() {
					entry = alpha
				}
				for _, b := range follow[A].Sorted() {
					if err := claim(A, b, alpha, entry); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return M, nil
}
