package ellone

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectContain []string
		expectAbsent  []string
	}{
		{
			name: "grammar then accepted input",
			input: "E -> E + T | T\nT -> T * F | F\nF -> ( E ) | id\n\n" +
				"id + id\nQUIT\n",
			expectContain: []string{
				"warning: direct left recursion in E -> E + T",
				"E' -> + T E' | ε",
				"Parsing table:",
				"Match $",
				"Accepted.",
				"Goodbye",
			},
		},
		{
			name:  "rejected input keeps going",
			input: "S -> a S b | ε\n\na a b\nab\nquit\n",
			expectContain: []string{
				"Rejected.",
				"Goodbye",
			},
			expectAbsent: []string{"Accepted."},
		},
		{
			name:  "end marker in input is reported",
			input: "S -> a\n\na $\n",
			expectContain: []string{
				"reserved end marker",
				"Goodbye",
			},
		},
		{
			name:  "blank line parses empty input",
			input: "S -> a S b | ε\n\n\n",
			expectContain: []string{
				"S → ε",
				"Accepted.",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer
			eng, err := NewEngine(strings.NewReader(tc.input), &out, EngineOptions{})
			if !assert.NoError(err) {
				return
			}
			defer eng.Close()

			if !assert.NoError(eng.ReadGrammar()) {
				return
			}
			if !assert.NoError(eng.Analyze()) {
				return
			}
			err = eng.RunUntilQuit()

			assert.NoError(err)
			actual := out.String()
			for _, s := range tc.expectContain {
				assert.Contains(actual, s)
			}
			for _, s := range tc.expectAbsent {
				assert.NotContains(actual, s)
			}
		})
	}
}

func Test_Engine_Analyze_conflict(t *testing.T) {
	assert := assert.New(t)
	var out bytes.Buffer
	eng, err := NewEngine(strings.NewReader("S -> A a\nA -> a | ε\n"), &out, EngineOptions{})
	if !assert.NoError(err) {
		return
	}

	assert.NoError(eng.ReadGrammar())
	err = eng.Analyze()

	assert.ErrorIs(err, ErrConflict)
	assert.Contains(out.String(), "FOLLOW")
	assert.NotContains(out.String(), "Parsing table:")

	_, err = eng.Parse("a")
	assert.Error(err)
}

func Test_Engine_ReadGrammar_fromFile(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "g.txt")
	if !assert.NoError(os.WriteFile(path, []byte("S -> x T\nT -> y"), 0644)) {
		return
	}
	var out bytes.Buffer
	eng, err := NewEngine(strings.NewReader(""), &out, EngineOptions{GrammarFile: path, Start: "T"})
	if !assert.NoError(err) {
		return
	}

	assert.NoError(eng.ReadGrammar())
	assert.NoError(eng.Analyze())
	accepted, err := eng.Parse("y")

	assert.NoError(err)
	assert.True(accepted)
}

func Test_Engine_ReadGrammar_errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect error
	}{
		{name: "no rules", input: "\n\n", expect: nil},
		{name: "malformed", input: "S a b\n", expect: ErrMalformedGrammar},
		{name: "missing production", input: "S -> \n", expect: ErrMalformedGrammar},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			eng, err := NewEngine(strings.NewReader(tc.input), &out, EngineOptions{})
			if !assert.NoError(t, err) {
				return
			}

			err = eng.ReadGrammar()

			if tc.expect == nil {
				assert.Error(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expect)
			}
		})
	}
}

func Test_Engine_CheckLL1(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expect        bool
		expectContain string
	}{
		{name: "left recursion only", input: "E -> E + id | id\n", expect: true, expectContain: "is LL(1)"},
		{name: "needs factoring", input: "S -> a b | a c\n", expect: false, expectContain: "not LL(1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer
			eng, err := NewEngine(strings.NewReader(tc.input), &out, EngineOptions{})
			if !assert.NoError(err) {
				return
			}
			if !assert.NoError(eng.ReadGrammar()) {
				return
			}

			actual, err := eng.CheckLL1()

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
			assert.Contains(out.String(), tc.expectContain)
		})
	}
}
