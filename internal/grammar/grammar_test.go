package grammar

import (
	"errors"
	"testing"

	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/stretchr/testify/assert"
)

var (
	exprGrammarRules = []string{
		"E -> E + T | T",
		"T -> T * F | F",
		"F -> ( E ) | id",
	}

	exprGrammarNormalized = []string{
		"E -> T E'",
		"E' -> + T E' | ε",
		"T -> F T'",
		"T' -> * F T' | ε",
		"F -> ( E ) | id",
	}

	firstFollowExample = []string{
		"S -> K L p | g Q K",
		"K -> b L Q T | ε",
		"L -> Q a K | Q K | q a",
		"Q -> d s | ε",
		"T -> g S f | m",
	}
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name         string
		grammar      func() Grammar
		expectErr    bool
		expectProbs  int
		expectSubstr string
	}{
		{
			name:        "empty grammar",
			grammar:     func() Grammar { return Grammar{} },
			expectErr:   true,
			expectProbs: 2,
		},
		{
			name:      "expression grammar",
			grammar:   func() Grammar { return MustParse(exprGrammarRules...) },
			expectErr: false,
		},
		{
			name: "start symbol not defined",
			grammar: func() Grammar {
				g := MustParse("S -> a")
				g.Start = "X"
				return g
			},
			expectErr:    true,
			expectProbs:  1,
			expectSubstr: `"X"`,
		},
		{
			name: "no productions for rule",
			grammar: func() Grammar {
				g := MustParse("S -> a A")
				g.DeclareRule("A")
				return g
			},
			expectErr:    true,
			expectProbs:  1,
			expectSubstr: `no productions given for nonterminal "A"`,
		},
		{
			name:         "end marker in production",
			grammar:      func() Grammar { return MustParse("S -> a $") },
			expectErr:    true,
			expectProbs:  1,
			expectSubstr: "end marker",
		},
		{
			name:         "epsilon mixed into production",
			grammar:      func() Grammar { return MustParse("S -> a ε | b") },
			expectErr:    true,
			expectProbs:  1,
			expectSubstr: "only symbol",
		},
		{
			name: "reserved symbol as nonterminal",
			grammar: func() Grammar {
				g := MustParse("S -> a")
				g.AddRule(EndMarker, Production{"a"})
				return g
			},
			expectErr:    true,
			expectProbs:  1,
			expectSubstr: "reserved symbol",
		},
		{
			name: "multiple problems are all reported",
			grammar: func() Grammar {
				g := MustParse("S -> a $ | b ε")
				g.Start = ""
				return g
			},
			expectErr:   true,
			expectProbs: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := tc.grammar()

			actual := g.Validate()

			if !tc.expectErr {
				assert.NoError(actual)
				return
			}

			if !assert.Error(actual) {
				return
			}
			assert.ErrorIs(actual, llerrors.ErrMalformedGrammar)

			var malformed *llerrors.MalformedGrammarError
			if assert.True(errors.As(actual, &malformed)) {
				assert.Len(malformed.Problems, tc.expectProbs)
			}
			if tc.expectSubstr != "" {
				assert.Contains(actual.Error(), tc.expectSubstr)
			}
		})
	}
}

func Test_Grammar_RemoveLeftRecursion(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect []string
	}{
		{
			name: "grammar with no left recursion",
			rules: []string{
				"S -> b A | b",
				"A -> a",
			},
			expect: []string{
				"S -> b A | b",
				"A -> a",
			},
		},
		{
			name: "rule with immediate left recursion and other prods",
			rules: []string{
				"S -> b A | b",
				"A -> A a | a",
			},
			expect: []string{
				"S -> b A | b",
				"A -> a A'",
				"A' -> a A' | ε",
			},
		},
		{
			name:   "expression grammar",
			rules:  exprGrammarRules,
			expect: exprGrammarNormalized,
		},
		{
			name: "epsilon alternative becomes bare new nonterminal",
			rules: []string{
				"A -> A a | ε",
			},
			expect: []string{
				"A -> A'",
				"A' -> a A' | ε",
			},
		},
		{
			name: "synthesized name already in use",
			rules: []string{
				"A -> A a | b A'",
				"A' -> c",
			},
			expect: []string{
				"A -> b A' A''",
				"A'' -> a A'' | ε",
				"A' -> c",
			},
		},
		{
			name: "indirect left recursion is left alone",
			rules: []string{
				"S -> A a | b",
				"A -> S c | d",
			},
			expect: []string{
				"S -> A a | b",
				"A -> S c | d",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := MustParse(tc.rules...)
			before := g.String()
			expect := MustParse(tc.expect...)

			actual := g.RemoveLeftRecursion()

			assert.Equal(expect.String(), actual.String())
			assert.Equal(g.Start, actual.Start)
			assert.Equal(before, g.String(), "original grammar was modified")
		})
	}
}

func Test_Grammar_RemoveLeftRecursion_noBetas(t *testing.T) {
	assert := assert.New(t)
	g := MustParse(
		"S -> b A",
		"A -> A a",
	)

	actual := g.RemoveLeftRecursion()

	assert.Equal([]string{"S", "A", "A'"}, actual.NonTerminals())
	assert.Empty(actual.Rule("A").Productions)
	assert.Equal("A' -> a A' | ε", actual.Rule("A'").String())
}

func Test_Grammar_RemoveLeftRecursion_addsNoNonTerminalsWithoutRecursion(t *testing.T) {
	grammars := [][]string{
		exprGrammarNormalized,
		firstFollowExample,
		{"S -> a S b | ε"},
	}

	for _, rules := range grammars {
		g := MustParse(rules...)

		actual := g.RemoveLeftRecursion()

		assert.Equal(t, g.NonTerminals(), actual.NonTerminals())
		assert.True(t, g.Equal(actual))
	}
}

func Test_Grammar_LeftFactor(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect []string
	}{
		{
			name: "dangling else",
			rules: []string{
				"S -> i E t S | i E t S e S | a",
				"E -> b",
			},
			expect: []string{
				"S -> i S' | a",
				"S' -> E t S | E t S e S",
				"E -> b",
			},
		},
		{
			name: "empty remainder becomes epsilon",
			rules: []string{
				"A -> a b | a c | d | a",
			},
			expect: []string{
				"A -> a A' | d",
				"A' -> b | c | ε",
			},
		},
		{
			name: "two groups get distinct names in order",
			rules: []string{
				"A -> a b | d e | a c | d f",
			},
			expect: []string{
				"A -> a A' | d A''",
				"A' -> b | c",
				"A'' -> e | f",
			},
		},
		{
			name: "epsilon productions are not grouped",
			rules: []string{
				"A -> a | ε",
			},
			expect: []string{
				"A -> a | ε",
			},
		},
		{
			name:   "nothing to factor",
			rules:  exprGrammarNormalized,
			expect: exprGrammarNormalized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := MustParse(tc.rules...)
			before := g.String()
			expect := MustParse(tc.expect...)

			actual := g.LeftFactor()

			assert.Equal(expect.String(), actual.String())
			assert.Equal(before, g.String(), "original grammar was modified")
		})
	}
}

func Test_Grammar_LeftFactor_idempotent(t *testing.T) {
	grammars := [][]string{
		{"A -> a b | a c | d"},
		{"A -> a b | d e | a c | d f"},
		exprGrammarNormalized,
	}

	for _, rules := range grammars {
		once := MustParse(rules...).LeftFactor()
		twice := once.LeftFactor()

		assert.Equal(t, once.String(), twice.String())
	}
}

func Test_Grammar_Normalize(t *testing.T) {
	assert := assert.New(t)
	g := MustParse(exprGrammarRules...)

	actual := g.Normalize()

	assert.Equal(MustParse(exprGrammarNormalized...).String(), actual.String())
	assert.Equal("E", actual.Start)
	_, _, hasLR := actual.DirectLeftRecursion()
	assert.False(hasLR)
}

func Test_ComputeFirst(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect map[string][]string
	}{
		{
			name:  "normalized expression grammar",
			rules: exprGrammarNormalized,
			expect: map[string][]string{
				"E":  {"(", "id"},
				"E'": {"+", Epsilon},
				"T":  {"(", "id"},
				"T'": {"*", Epsilon},
				"F":  {"(", "id"},
			},
		},
		{
			name:  "first and follow sets explained example",
			rules: firstFollowExample,
			expect: map[string][]string{
				"S": {"a", "b", "d", "g", "p", "q"},
				"K": {"b", Epsilon},
				"L": {"a", "b", "d", "q", Epsilon},
				"Q": {"d", Epsilon},
				"T": {"g", "m"},
			},
		},
		{
			name: "left recursive grammar still terminates",
			rules: []string{
				"E -> E + T | T",
				"T -> id",
			},
			expect: map[string][]string{
				"E": {"id"},
				"T": {"id"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := MustParse(tc.rules...)

			actual := ComputeFirst(g)

			assert.Equal(tc.expect, actual.Map())
		})
	}
}

func Test_ComputeFollow(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect map[string][]string
	}{
		{
			name:  "normalized expression grammar",
			rules: exprGrammarNormalized,
			expect: map[string][]string{
				"E":  {"$", ")"},
				"E'": {"$", ")"},
				"T":  {"$", ")", "+"},
				"T'": {"$", ")", "+"},
				"F":  {"$", ")", "*", "+"},
			},
		},
		{
			name: "nullable tail",
			rules: []string{
				"S -> a B D h",
				"B -> c C",
				"C -> b C | ε",
				"D -> E F",
				"E -> g | ε",
				"F -> f | ε",
			},
			expect: map[string][]string{
				"S": {"$"},
				"B": {"f", "g", "h"},
				"C": {"f", "g", "h"},
				"D": {"h"},
				"E": {"f", "h"},
				"F": {"h"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := MustParse(tc.rules...)
			first := ComputeFirst(g)

			actual := ComputeFollow(g, first)

			assert.Equal(tc.expect, actual.Map())
		})
	}
}

func Test_Sets_orderIndependent(t *testing.T) {
	grammars := [][]string{
		exprGrammarNormalized,
		firstFollowExample,
		exprGrammarRules,
	}

	for _, rules := range grammars {
		g := MustParse(rules...)
		order := g.NonTerminals()
		reversed := make([]string, len(order))
		for i := range order {
			reversed[len(order)-1-i] = order[i]
		}

		first := computeFirst(g, order)
		firstRev := computeFirst(g, reversed)
		assert.Equal(t, first.Map(), firstRev.Map())

		follow := computeFollow(g, first, order)
		followRev := computeFollow(g, firstRev, reversed)
		assert.Equal(t, follow.Map(), followRev.Map())
	}
}

func Test_FirstSet_OfSequence(t *testing.T) {
	testCases := []struct {
		name   string
		seq    []string
		expect []string
	}{
		{
			name:   "empty sequence",
			seq:    nil,
			expect: []string{Epsilon},
		},
		{
			name:   "epsilon",
			seq:    []string{Epsilon},
			expect: []string{Epsilon},
		},
		{
			name:   "terminal first",
			seq:    []string{"+", "T", "E'"},
			expect: []string{"+"},
		},
		{
			name:   "all nullable",
			seq:    []string{"E'", "T'"},
			expect: []string{"*", "+", Epsilon},
		},
		{
			name:   "stops at non-nullable",
			seq:    []string{"T'", "F", "E'"},
			expect: []string{"(", "*", "id"},
		},
	}

	g := MustParse(exprGrammarNormalized...)
	first := ComputeFirst(g)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := first.OfSequence(tc.seq)

			assert.Equal(t, tc.expect, actual.Sorted())
		})
	}
}

func Test_Grammar_Terminals(t *testing.T) {
	g := MustParse(exprGrammarNormalized...)

	assert.Equal(t, []string{"+", "*", "(", ")", "id"}, g.Terminals())
}
