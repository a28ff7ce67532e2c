// Package reader turns grammar text of the form "NT -> a b | c" into a
// grammar.Grammar.
//
// Each rule gives a non-terminal, an arrow ("->" or "→"), and one or more
// alternatives separated by "|". Rules end at a newline or a ";". Symbols in
// an alternative are separated by whitespace, and "ε" or "epsilon" stands for
// the empty production. The non-terminal of the first rule is the start
// symbol. A non-terminal given in more than one rule gets the alternatives of
// all of them, in order.
package reader

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dekarrin/ellone/internal/grammar"
	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"golang.org/x/text/unicode/norm"
)

const (
	tokSymbol = iota
	tokAlt
)

var (
	rhsLexer     *lexmachine.Lexer
	rhsLexerErr  error
	rhsLexerOnce sync.Once
)

var epsilonWords = map[string]bool{
	grammar.Epsilon: true,
	"epsilon":       true,
}

var arrows = []string{"->", "→"}

func getLexer() (*lexmachine.Lexer, error) {
	rhsLexerOnce.Do(func() {
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte(`[ \t\r]+`), skip)
		lexer.Add([]byte(`\|`), makeToken(tokAlt))
		lexer.Add([]byte(`[^ \t\r\n|]+`), makeToken(tokSymbol))

		if err := lexer.Compile(); err != nil {
			rhsLexerErr = fmt.Errorf("compile grammar lexer: %w", err)
			return
		}
		rhsLexer = lexer
	})
	return rhsLexer, rhsLexerErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Grammar is the result of reading grammar text.
type Grammar struct {
	grammar.Grammar

	// Warnings lists productions that will need normalization or that the
	// normalizer cannot fix, such as a production that begins with a
	// previously defined non-terminal and so may be indirectly left
	// recursive.
	Warnings []string
}

// ReadFile reads grammar text from the file at path. See Read.
func ReadFile(path string) (Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grammar{}, fmt.Errorf("read grammar file: %w", err)
	}
	return Read(string(data))
}

// Read parses grammar text. If the text cannot be read, the returned error is
// a *llerrors.MalformedGrammarError listing every problem found, each prefixed
// with the rule number. Read only checks syntax; the returned grammar should
// still be checked with Validate.
func Read(text string) (Grammar, error) {
	lexer, err := getLexer()
	if err != nil {
		return Grammar{}, err
	}

	text = norm.NFC.String(text)

	var g grammar.Grammar
	var warnings []string
	var problems []string

	lines := splitRules(text)
	for _, line := range lines {
		nt, rhs, err := splitArrow(line.text)
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %s", line.num, err.Error()))
			continue
		}

		alts, err := lexAlternatives(lexer, rhs)
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %s", line.num, err.Error()))
			continue
		}

		if g.Start == "" {
			g.Start = nt
		}

		for _, alt := range alts {
			if len(alt) == 0 {
				problems = append(problems, fmt.Sprintf("line %d: empty alternative for %q; use %q for the empty production", line.num, nt, grammar.Epsilon))
				continue
			}

			// checked before adding so the rule being read does not count as
			// previously defined.
			if alt[0] == nt {
				warnings = append(warnings, fmt.Sprintf("direct left recursion in %s -> %s", nt, strings.Join(alt, " ")))
			} else if g.IsNonTerminal(alt[0]) {
				warnings = append(warnings, fmt.Sprintf("potential indirect recursion in %s -> %s through %s", nt, strings.Join(alt, " "), alt[0]))
			}

			g.AddRule(nt, alt)
		}
	}

	if len(problems) > 0 {
		return Grammar{}, llerrors.Malformed(problems...)
	}

	return Grammar{Grammar: g, Warnings: warnings}, nil
}

// SplitTokens splits input text into tokens on whitespace.
func SplitTokens(text string) []string {
	return strings.Fields(norm.NFC.String(text))
}

type ruleLine struct {
	num  int
	text string
}

// splitRules breaks text into non-blank rules, numbered from 1 by the line
// they start on.
func splitRules(text string) []ruleLine {
	var rules []ruleLine
	for i, line := range strings.Split(text, "\n") {
		for _, r := range strings.Split(line, ";") {
			if strings.TrimSpace(r) == "" {
				continue
			}
			rules = append(rules, ruleLine{num: i + 1, text: r})
		}
	}
	return rules
}

func splitArrow(rule string) (string, string, error) {
	arrowIdx := -1
	arrowLen := 0
	for _, a := range arrows {
		idx := strings.Index(rule, a)
		if idx != -1 && (arrowIdx == -1 || idx < arrowIdx) {
			arrowIdx = idx
			arrowLen = len(a)
		}
	}
	if arrowIdx == -1 {
		return "", "", fmt.Errorf("not a rule of form 'NT -> production': %q", strings.TrimSpace(rule))
	}

	nt := strings.TrimSpace(rule[:arrowIdx])
	rhs := rule[arrowIdx+arrowLen:]

	if nt == "" {
		return "", "", fmt.Errorf("missing non-terminal before arrow")
	}
	if strings.ContainsAny(nt, " \t|") {
		return "", "", fmt.Errorf("non-terminal %q must be a single symbol", nt)
	}
	if strings.TrimSpace(rhs) == "" {
		return "", "", fmt.Errorf("missing production for %q", nt)
	}

	return nt, rhs, nil
}

// lexAlternatives returns the alternatives of rhs. An alternative made of an
// epsilon word alone is returned as the ε production; an empty alternative is
// returned as an empty slice.
func lexAlternatives(lexer *lexmachine.Lexer, rhs string) ([][]string, error) {
	scanner, err := lexer.Scanner([]byte(rhs))
	if err != nil {
		return nil, err
	}

	alts := [][]string{{}}
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if ui, is := err.(*machines.UnconsumedInput); is {
			return nil, fmt.Errorf("unexpected character at column %d", ui.FailTC+1)
		} else if err != nil {
			return nil, err
		}

		token := tok.(*lexmachine.Token)
		switch token.Type {
		case tokAlt:
			alts = append(alts, []string{})
		case tokSymbol:
			cur := len(alts) - 1
			alts[cur] = append(alts[cur], string(token.Lexeme))
		}
	}

	for i := range alts {
		for j := range alts[i] {
			if epsilonWords[alts[i][j]] {
				alts[i][j] = grammar.Epsilon
			}
		}
		if len(alts[i]) > 1 {
			// ε next to other symbols derives nothing
			alts[i] = dropEpsilons(alts[i])
		}
	}

	return alts, nil
}

func dropEpsilons(alt []string) []string {
	kept := []string{}
	for _, sym := range alt {
		if sym != grammar.Epsilon {
			kept = append(kept, sym)
		}
	}
	if len(kept) == 0 {
		return []string{grammar.Epsilon}
	}
	return kept
}
