// Package grammar holds the context-free grammar model used by every stage of
// LL(1) table construction, along with the transformations that prepare a
// grammar for predictive parsing and the FIRST/FOLLOW set solver.
//
// Symbols are plain strings. Classification is structural: any symbol that
// names a rule of the grammar is a non-terminal and everything else is a
// terminal, except for the two reserved symbols Epsilon and EndMarker.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ellone/internal/llerrors"
)

const (
	// Epsilon is the symbol that denotes the empty string. It only ever
	// appears as the sole symbol of an empty production.
	Epsilon = "ε"

	// EndMarker is the terminal that denotes the end of input.
	EndMarker = "$"
)

type Production []string

var (
	// EpsilonProduction is the empty production.
	EpsilonProduction = Production{Epsilon}
)

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// IsEpsilon returns whether p is the empty production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon
}

// Equal returns whether Production is equal to another value. It will not be
// equal if the other value cannot be cast to Production, *Production, or
// []string.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Production)
		if !ok {
			// also okay if it's a string slice
			otherSlice, ok := o.([]string)
			if !ok {
				return false
			}
			other = Production(otherSlice)
		} else if otherPtr == nil {
			return false
		} else {
			other = *otherPtr
		}
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

func (p Production) String() string {
	if p.IsEpsilon() {
		return Epsilon
	}
	return strings.Join(p, " ")
}

// Rule is every alternative production of a single non-terminal, in the
// order they were given.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copied duplicate of this rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Equal returns whether the Rule is equal to another value. It will not be
// equal if the other value cannot be cast to Rule or *Rule.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}
	if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

// Grammar is a context-free grammar. Rules keep the order in which they were
// added; that order decides the names given to synthesized non-terminals and
// the order of output, but never the FIRST, FOLLOW or table results.
//
// A Grammar is treated as a value. Transformations return a new Grammar and
// leave the receiver untouched.
type Grammar struct {
	rulesByName map[string]int

	// main rules store, not just doing a simple map bc
	// rules may have order that matters
	rules []Rule

	// Start is the name of the start symbol.
	Start string
}

// New creates a Grammar with the given start symbol and rules. Each rule's
// productions are added in order; a non-terminal appearing in more than one
// rule gets the productions of all of them.
func New(start string, rules ...Rule) Grammar {
	g := Grammar{Start: start}
	for _, r := range rules {
		for _, p := range r.Productions {
			g.AddRule(r.NonTerminal, p)
		}
	}
	return g
}

// MustParse builds a Grammar from rule strings of the form
// "A -> x y | z | ε". The first rule's non-terminal is the start symbol. It
// panics if any rule is not in that form; it is intended for fixed grammars
// in code and tests.
func MustParse(rules ...string) Grammar {
	var g Grammar
	for _, r := range rules {
		sides := strings.SplitN(r, "->", 2)
		if len(sides) != 2 {
			panic(fmt.Sprintf("not a rule of form 'NONTERM -> SYMBOL SYMBOL | SYMBOL ...': %q", r))
		}
		nt := strings.TrimSpace(sides[0])
		if g.Start == "" {
			g.Start = nt
		}
		for _, alt := range strings.Split(sides[1], "|") {
			prod := Production(strings.Fields(alt))
			if len(prod) == 0 {
				panic(fmt.Sprintf("empty alternative in rule %q", r))
			}
			g.AddRule(nt, prod)
		}
	}
	return g
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}

	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}

	return g2
}

// StartSymbol returns the start symbol of the grammar.
func (g Grammar) StartSymbol() string {
	return g.Start
}

// String returns the grammar as one rule per line.
func (g Grammar) String() string {
	var sb strings.Builder
	for i := range g.rules {
		sb.WriteString(g.rules[i].String())
		if i+1 < len(g.rules) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Equal returns whether the grammar has the same start symbol and the same
// rules, in the same order, as another value.
func (g Grammar) Equal(o any) bool {
	other, ok := o.(Grammar)
	if !ok {
		otherPtr, ok := o.(*Grammar)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if g.Start != other.Start || len(g.rules) != len(other.rules) {
		return false
	}
	for i := range g.rules {
		if !g.rules[i].Equal(other.rules[i]) {
			return false
		}
	}
	return true
}

// Rule returns the grammar rule for the given nonterminal symbol.
// If there is no rule defined for that nonterminal, a Rule with an empty
// NonTerminal field is returned; else it will be the same string as the one
// passed in to the function.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	if curIdx, ok := g.rulesByName[nonterminal]; !ok {
		return Rule{}
	} else {
		return g.rules[curIdx]
	}
}

// Rules returns copies of all rules in the order they were defined.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// AddRule adds the given production for a nonterminal. If the nonterminal has
// already been given, the production is added as an alternative for that
// nonterminal with lower priority than all others already added. For an
// epsilon production, give EpsilonProduction.
//
// AddRule does not check the production; call Validate once the grammar is
// complete.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		curIdx = len(g.rules) - 1
		g.rulesByName[nonterminal] = curIdx
	}

	curRule := g.rules[curIdx]
	curRule.Productions = append(curRule.Productions, Production(production).Copy())
	g.rules[curIdx] = curRule
}

// DeclareRule adds a non-terminal with no productions if it is not already
// present. Rules declared this way fail Validate until they are given
// productions.
func (g *Grammar) DeclareRule(nonterminal string) {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}
	if _, ok := g.rulesByName[nonterminal]; ok {
		return
	}
	g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
	g.rulesByName[nonterminal] = len(g.rules) - 1
}

// insertRule places r immediately after the rule at idx.
func (g *Grammar) insertRule(r Rule, idx int) {
	// explicitly copy the end of the slice because trying to
	// save a post list and then modifying has lead to aliasing
	// issues in past
	var postList []Rule = make([]Rule, len(g.rules)-(idx+1))
	copy(postList, g.rules[idx+1:])
	g.rules = append(g.rules[:idx+1], r)
	g.rules = append(g.rules, postList...)

	// update indexes
	for i := idx + 1; i < len(g.rules); i++ {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}
}

// NonTerminals returns all non-terminal symbols in the order their rules were
// defined.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, len(g.rules))
	for i := range g.rules {
		nts[i] = g.rules[i].NonTerminal
	}
	return nts
}

// Terminals returns every terminal symbol used in a production, in order of
// first appearance. Neither Epsilon nor EndMarker is included.
func (g Grammar) Terminals() []string {
	seen := map[string]bool{}
	var terms []string
	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if !g.IsTerminal(sym) || sym == EndMarker || seen[sym] {
					continue
				}
				seen[sym] = true
				terms = append(terms, sym)
			}
		}
	}
	return terms
}

// IsNonTerminal returns whether sym names a rule of the grammar.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// IsTerminal returns whether sym is a terminal in the grammar. Epsilon is not
// a terminal; EndMarker is.
func (g Grammar) IsTerminal(sym string) bool {
	return sym != Epsilon && !g.IsNonTerminal(sym)
}

// DirectLeftRecursion returns the first production found whose body begins
// with its own non-terminal. The returned bool is false if there is none.
func (g Grammar) DirectLeftRecursion() (string, Production, bool) {
	for _, r := range g.rules {
		for _, p := range r.Productions {
			if len(p) > 0 && p[0] == r.NonTerminal {
				return r.NonTerminal, p.Copy(), true
			}
		}
	}
	return "", nil, false
}

// Map returns the grammar as a map of non-terminal to its productions. The
// order of rules is lost; use NonTerminals for it.
func (g Grammar) Map() map[string][][]string {
	m := make(map[string][][]string, len(g.rules))
	for _, r := range g.rules {
		prods := make([][]string, len(r.Productions))
		for i := range r.Productions {
			prods[i] = r.Productions[i].Copy()
		}
		m[r.NonTerminal] = prods
	}
	return m
}

// GenerateUniqueName generates a name for a non-terminal gauranteed to be
// unique within the grammar by appending apostrophes to original.
func (g Grammar) GenerateUniqueName(original string) string {
	newName := original + "'"
	for g.IsNonTerminal(newName) {
		newName += "'"
	}
	return newName
}

// Validate returns an error if the grammar cannot be used at all. The returned
// error, if non-nil, is a *llerrors.MalformedGrammarError listing every
// problem found.
func (g Grammar) Validate() error {
	var problems []string

	if len(g.rules) < 1 {
		problems = append(problems, "no rules defined in grammar")
	}

	if g.Start == "" {
		problems = append(problems, "no start symbol given")
	} else if !g.IsNonTerminal(g.Start) {
		problems = append(problems, fmt.Sprintf("no rules defined for productions of start symbol %q", g.Start))
	}

	for _, r := range g.rules {
		if r.NonTerminal == "" {
			problems = append(problems, "empty nonterminal name not allowed for production rule")
			continue
		}
		if r.NonTerminal == EndMarker || r.NonTerminal == Epsilon {
			problems = append(problems, fmt.Sprintf("reserved symbol %q cannot be defined as a nonterminal", r.NonTerminal))
			continue
		}
		if len(r.Productions) < 1 {
			problems = append(problems, fmt.Sprintf("no productions given for nonterminal %q", r.NonTerminal))
		}
		for _, p := range r.Productions {
			if len(p) < 1 {
				problems = append(problems, fmt.Sprintf("empty production for %q; use %q for the empty string", r.NonTerminal, Epsilon))
				continue
			}
			for _, sym := range p {
				if sym == "" {
					problems = append(problems, fmt.Sprintf("empty symbol in production %s -> %s", r.NonTerminal, p))
				} else if sym == EndMarker {
					problems = append(problems, fmt.Sprintf("end marker %q used in production %s -> %s", EndMarker, r.NonTerminal, p))
				} else if sym == Epsilon && len(p) != 1 {
					problems = append(problems, fmt.Sprintf("%q must be the only symbol of its production in %s -> %s", Epsilon, r.NonTerminal, p))
				}
			}
		}
	}

	if len(problems) > 0 {
		return llerrors.Malformed(problems...)
	}
	return nil
}
