package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func smallTree() *ParseTree {
	// S -> a A ; A -> ε
	root := NewLeaf("S", false)
	a := NewLeaf("a", true)
	A := NewLeaf("A", false)
	A.Children = append(A.Children, NewLeaf("ε", true))
	root.Children = append(root.Children, a, A)
	return root
}

func Test_ParseTree_String(t *testing.T) {
	assert := assert.New(t)

	expect := "( S )\n" +
		`  |---: (TERM "a")` + "\n" +
		`  \---: ( A )` + "\n" +
		`          \---: (TERM "ε")`

	actual := smallTree().String()

	assert.Equal(expect, actual)
}

func Test_ParseTree_Leaves(t *testing.T) {
	testCases := []struct {
		name   string
		tree   *ParseTree
		expect []string
	}{
		{
			name:   "single node",
			tree:   NewLeaf("x", true),
			expect: []string{"x"},
		},
		{
			name:   "epsilon leaves are skipped",
			tree:   smallTree(),
			expect: []string{"a"},
		},
		{
			name:   "childless non-terminal is not a token",
			tree:   NewLeaf("S", false),
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.tree.Leaves())
		})
	}
}

func Test_ParseTree_Copy(t *testing.T) {
	assert := assert.New(t)
	orig := smallTree()

	cp := orig.Copy()
	cp.Children[1].Children[0].Value = "changed"

	assert.Equal("ε", orig.Children[1].Children[0].Value)
	assert.False(orig.Equal(cp))
}

func Test_ParseTree_Binary(t *testing.T) {
	assert := assert.New(t)
	orig := smallTree()

	data, err := orig.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual ParseTree
	err = actual.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.True(orig.Equal(actual), "expected:\n%s\nactual:\n%s", orig.String(), actual.String())
}

func Test_DerivationStep_String(t *testing.T) {
	testCases := []struct {
		name    string
		step    DerivationStep
		expect  string
		isError bool
	}{
		{
			name:   "expansion",
			step:   DerivationStep{Stack: []string{"E", "$"}, Input: []string{"id", "$"}, Action: "E → T E'"},
			expect: "E $ | id $ | E → T E'",
		},
		{
			name:    "error",
			step:    DerivationStep{Stack: []string{"+", "E'", "$"}, Input: []string{"#", "$"}, Action: "Error: Invalid terminal '#'"},
			expect:  "+ E' $ | # $ | Error: Invalid terminal '#'",
			isError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.step.String())
			assert.Equal(tc.isError, tc.step.IsError())
		})
	}
}

func Test_EncSteps(t *testing.T) {
	assert := assert.New(t)
	steps := []DerivationStep{
		{Stack: []string{"S", "$"}, Input: []string{"$"}, Action: "S → ε"},
		{Stack: []string{"$"}, Input: []string{"$"}, Action: "Match $"},
	}

	actual, err := DecSteps(EncSteps(steps))

	assert.NoError(err)
	assert.Equal(steps, actual)
}
