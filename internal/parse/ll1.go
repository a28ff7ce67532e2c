package parse

import (
	"fmt"

	"github.com/dekarrin/ellone/internal/grammar"
	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/internal/util"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Result is the outcome of running the LL(1) parser over a token sequence.
type Result struct {
	// Accepted is whether the whole input was derived from the start symbol.
	Accepted bool

	// Steps is the trace of every iteration of the parse loop, including the
	// one that failed if the input was rejected.
	Steps []types.DerivationStep

	// Tree is the parse tree. It is nil if the input was rejected.
	Tree *types.ParseTree
}

// pending is an entry of the parse stack. node is the tree node the symbol
// will expand into or, for a terminal, the leaf already placed for it. It is
// nil only for the end marker.
type pending struct {
	symbol string
	node   *types.ParseTree
}

type ll1Parser struct {
	table LL1Table
	g     grammar.Grammar
	terms util.StringSet
}

// NewLL1Parser returns a parser that predicts with table M over grammar g.
// Only g's start symbol and its classification of symbols are used; M must
// have been built from g.
func NewLL1Parser(g grammar.Grammar, M LL1Table) ll1Parser {
	terms := util.StringSetOf(g.Terminals())
	terms.Add(grammar.EndMarker)
	return ll1Parser{table: M, g: g.Copy(), terms: terms}
}

// Parse runs the table-driven parser over tokens, which must not include the
// end marker. Parse never fails outright: a rejected input is reported in the
// Result along with the step it was rejected at. A token that is not a
// terminal of the grammar is reported as an invalid terminal as soon as it is
// looked up, rather than as a missing table entry.
func (ll1 ll1Parser) Parse(tokens []string) Result {
	input := make([]string, len(tokens), len(tokens)+1)
	copy(input, tokens)
	input = append(input, grammar.EndMarker)

	start := ll1.g.StartSymbol()
	root := types.NewLeaf(start, false)

	stack := arraystack.New()
	stack.Push(pending{symbol: grammar.EndMarker})
	stack.Push(pending{symbol: start, node: root})

	res := Result{Steps: []types.DerivationStep{}}
	pos := 0

	for !stack.Empty() {
		// snapshot before popping so the top is included.
		step := types.DerivationStep{
			Stack: stackSymbols(stack),
			Input: append([]string{}, input[pos:]...),
		}

		popped, _ := stack.Pop()
		top := popped.(pending)
		cur := input[pos]

		if top.symbol == cur {
			step.Action = fmt.Sprintf("Match %s", cur)
			res.Steps = append(res.Steps, step)
			pos++
			continue
		}

		if !ll1.g.IsNonTerminal(top.symbol) {
			step.Action = fmt.Sprintf("Error: Invalid terminal '%s'", cur)
			res.Steps = append(res.Steps, step)
			return res
		}

		alpha, ok := ll1.table.Get(top.symbol, cur)
		if !ok && !ll1.terms.Has(cur) {
			step.Action = fmt.Sprintf("Error: Invalid terminal '%s'", cur)
			res.Steps = append(res.Steps, step)
			return res
		} else if !ok {
			step.Action = fmt.Sprintf("Error: No rule for [%s, %s]", top.symbol, cur)
			res.Steps = append(res.Steps, step)
			return res
		}

		step.Action = fmt.Sprintf("%s → %s", top.symbol, alpha.String())
		res.Steps = append(res.Steps, step)

		if alpha.IsEpsilon() {
			top.node.Children = append(top.node.Children, types.NewLeaf(grammar.Epsilon, true))
			continue
		}

		children := make([]*types.ParseTree, len(alpha))
		for i, sym := range alpha {
			children[i] = types.NewLeaf(sym, !ll1.g.IsNonTerminal(sym))
		}
		top.node.Children = append(top.node.Children, children...)

		// reverse order so the leftmost symbol ends up on top.
		for i := len(alpha) - 1; i >= 0; i-- {
			stack.Push(pending{symbol: alpha[i], node: children[i]})
		}
	}

	res.Accepted = true
	res.Tree = root
	return res
}

// stackSymbols returns the symbols on the stack from top to bottom.
func stackSymbols(stack *arraystack.Stack) []string {
	vals := stack.Values()
	syms := make([]string, len(vals))
	for i := range vals {
		syms[i] = vals[i].(pending).symbol
	}
	return syms
}
