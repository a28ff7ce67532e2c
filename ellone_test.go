package ellone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const exprGrammarText = `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

func Test_Process(t *testing.T) {
	testCases := []struct {
		name         string
		grammar      string
		start        string
		input        string
		expectErr    error
		expectAccept bool
		expectLeaves []string
		expectRoot   string
		expectEpsLf  bool
	}{
		{
			name:         "expression grammar accepts",
			grammar:      exprGrammarText,
			input:        "id + id * id",
			expectAccept: true,
			expectLeaves: []string{"id", "+", "id", "*", "id"},
			expectRoot:   "E",
		},
		{
			name:         "expression grammar rejects unknown token",
			grammar:      exprGrammarText,
			input:        "id + #",
			expectAccept: false,
		},
		{
			name:         "nullable start accepts empty input",
			grammar:      "S -> a S b | ε",
			input:        "",
			expectAccept: true,
			expectLeaves: []string{},
			expectRoot:   "S",
			expectEpsLf:  true,
		},
		{
			name:         "start override",
			grammar:      exprGrammarText,
			start:        "F",
			input:        "id",
			expectAccept: true,
			expectLeaves: []string{"id"},
			expectRoot:   "F",
		},
		{
			name:      "conflict",
			grammar:   "S -> A | B\nA -> ε\nB -> ε",
			input:     "",
			expectErr: ErrConflict,
		},
		{
			name:      "undefined start",
			grammar:   exprGrammarText,
			start:     "X",
			input:     "id",
			expectErr: ErrMalformedGrammar,
		},
		{
			name:      "end marker in input",
			grammar:   exprGrammarText,
			input:     "id $",
			expectErr: ErrBadInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g, _, err := ReadGrammar(tc.grammar, tc.start)
			if !assert.NoError(err) {
				return
			}

			actual, err := Process(g, Tokens(tc.input))

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectAccept, actual.Accepted)
			assert.NotEmpty(actual.Steps)
			if !tc.expectAccept {
				assert.Nil(actual.Tree)
				assert.True(actual.Steps[len(actual.Steps)-1].IsError())
				return
			}

			if !assert.NotNil(actual.Tree) {
				return
			}
			assert.Equal(tc.expectRoot, actual.Tree.Value)
			assert.Equal(tc.expectLeaves, actual.Tree.Leaves())
			if tc.expectEpsLf {
				assert.Contains(actual.Tree.String(), `(TERM "ε")`)
			}
		})
	}
}

func Test_Analyze_keepsPartialResultsOnConflict(t *testing.T) {
	assert := assert.New(t)
	g, _, err := ReadGrammar("S -> A a\nA -> a | ε", "")
	if !assert.NoError(err) {
		return
	}

	actual, err := Analyze(g)

	assert.ErrorIs(err, ErrConflict)
	if !assert.NotNil(actual) {
		return
	}
	assert.Nil(actual.Table)
	assert.Equal([]string{"a"}, actual.Follow.Map()["A"])
}

func Test_AnalyzeText_warnings(t *testing.T) {
	assert := assert.New(t)

	actual, err := AnalyzeText(exprGrammarText, "")

	assert.NoError(err)
	assert.Len(actual.Warnings, 2)
	assert.Equal([]string{"E", "E'", "T", "T'", "F"}, actual.Normalized.NonTerminals())
}

func Test_CheckLL1(t *testing.T) {
	testCases := []struct {
		name        string
		grammar     string
		expect      bool
		expectNTs   []string
		expectError bool
	}{
		{
			name:      "left recursive expression grammar",
			grammar:   exprGrammarText,
			expect:    true,
			expectNTs: []string{"E", "E'", "T", "T'", "F"},
		},
		{
			name:      "needs left factoring",
			grammar:   "S -> a b | a c",
			expect:    false,
			expectNTs: []string{"S"},
		},
		{
			name:      "ambiguous epsilons",
			grammar:   "S -> A | B\nA -> ε\nB -> ε",
			expect:    false,
			expectNTs: []string{"S", "A", "B"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g, _, err := ReadGrammar(tc.grammar, "")
			if !assert.NoError(err) {
				return
			}

			actual, err := CheckLL1(g)

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual.IsLL1)
			assert.Equal(tc.expectNTs, actual.Grammar.NonTerminals())
			if tc.expect {
				assert.NoError(actual.Reason)
			} else {
				assert.ErrorIs(actual.Reason, ErrConflict)
			}
		})
	}
}

func Test_CheckLL1_malformed(t *testing.T) {
	_, err := CheckLL1(FromMap(map[string][][]string{"S": {}}, "S"))

	assert.ErrorIs(t, err, ErrMalformedGrammar)
}

func Test_FromMap(t *testing.T) {
	assert := assert.New(t)
	rules := map[string][][]string{
		"T": {{"id"}},
		"A": {{"x"}},
		"E": {{"T", "A"}},
	}

	actual := FromMap(rules, "E")

	assert.Equal([]string{"E", "A", "T"}, actual.NonTerminals())
	assert.Equal("E", actual.Start)
	assert.NoError(actual.Validate())
}
