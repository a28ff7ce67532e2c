// Package ellone builds LL(1) predictive parsers from context-free grammars.
//
// A grammar, given as text ("E -> E + T | T", one rule per line) or built
// directly, is validated and then normalized by removing direct left
// recursion and left factoring it. FIRST and FOLLOW sets are computed for the
// normalized grammar and used to build a predictive parsing table, failing if
// the grammar is not LL(1). The table then drives a stack-based parser that
// produces a trace of every step along with the parse tree of the input.
//
// Analyze performs every step up to the table; Analysis.Parse runs the parser;
// Process does both at once. CheckLL1 only answers whether a grammar is LL(1)
// once its left recursion is removed.
package ellone
