package grammar

import (
	"github.com/dekarrin/ellone/internal/util"
)

// FirstSet maps each non-terminal of a grammar to the set of terminals that
// can begin a string derived from it. Epsilon is in the set of a non-terminal
// that can derive the empty string.
type FirstSet map[string]util.StringSet

// FollowSet maps each non-terminal of a grammar to the set of terminals that
// can come immediately after it in some sentential form. EndMarker is in the
// set of the start symbol.
type FollowSet map[string]util.StringSet

// Of returns FIRST(sym). A symbol with no entry is a terminal and so its FIRST
// is the symbol itself; FIRST(ε) is {ε}. The returned set must not be
// modified.
func (first FirstSet) Of(sym string) util.StringSet {
	if s, ok := first[sym]; ok {
		return s
	}
	return util.StringSetOf([]string{sym})
}

// OfSequence returns FIRST(β) for the sequence of symbols β. Symbols are taken
// left to right, adding each one's FIRST minus ε and stopping at the first that
// cannot derive ε. If every symbol can derive ε, or β is empty, ε is included.
// The returned set is newly allocated.
func (first FirstSet) OfSequence(beta []string) util.StringSet {
	result := util.NewStringSet()
	for _, X := range beta {
		firstX := first.Of(X)
		result.AddAllExcept(firstX, Epsilon)
		if !firstX.Has(Epsilon) {
			return result
		}
	}
	result.Add(Epsilon)
	return result
}

// Map returns the FIRST sets as sorted slices.
func (first FirstSet) Map() map[string][]string {
	return setsToMap(first)
}

// Map returns the FOLLOW sets as sorted slices.
func (follow FollowSet) Map() map[string][]string {
	return setsToMap(follow)
}

func setsToMap(sets map[string]util.StringSet) map[string][]string {
	m := make(map[string][]string, len(sets))
	for k, v := range sets {
		m[k] = v.Sorted()
	}
	return m
}

// ComputeFirst returns the FIRST set of every non-terminal in g. Sets are
// grown by repeated passes over every production until a pass adds nothing.
// The grammar may be left-recursive; the result is the same regardless of the
// order rules are visited in.
func ComputeFirst(g Grammar) FirstSet {
	return computeFirst(g, g.NonTerminals())
}

func computeFirst(g Grammar, order []string) FirstSet {
	first := FirstSet{}
	for _, A := range order {
		first[A] = util.NewStringSet()
	}

	updated := true
	for updated {
		updated = false
		for _, A := range order {
			for _, alpha := range g.Rule(A).Productions {
				if first[A].AddAll(first.OfSequence(alpha)) {
					updated = true
				}
			}
		}
	}

	return first
}

// ComputeFollow returns the FOLLOW set of every non-terminal in g, using the
// already-computed first. The start symbol is seeded with EndMarker. For every
// production A -> αBβ with B a non-terminal, FIRST(β) minus ε is added to
// FOLLOW(B), and if β can derive ε then all of FOLLOW(A) is as well. Passes
// repeat until nothing is added.
func ComputeFollow(g Grammar, first FirstSet) FollowSet {
	return computeFollow(g, first, g.NonTerminals())
}

func computeFollow(g Grammar, first FirstSet, order []string) FollowSet {
	follow := FollowSet{}
	for _, A := range order {
		follow[A] = util.NewStringSet()
	}
	if _, ok := follow[g.Start]; ok {
		follow[g.Start].Add(EndMarker)
	}

	updated := true
	for updated {
		updated = false
		for _, A := range order {
			for _, alpha := range g.Rule(A).Productions {
				for i, B := range alpha {
					if !g.IsNonTerminal(B) {
						continue
					}

					firstBeta := first.OfSequence(alpha[i+1:])
					if follow[B].AddAllExcept(firstBeta, Epsilon) {
						updated = true
					}
					if firstBeta.Has(Epsilon) && follow[B].AddAll(follow[A]) {
						updated = true
					}
				}
			}
		}
	}

	return follow
}
