package ellone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/ellone/internal/input"
	"github.com/dekarrin/ellone/internal/reader"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

const (
	grammarPrompt = "grammar> "
	inputPrompt   = "input> "
)

// EngineOptions controls where an Engine gets its grammar from and how it
// reads input.
type EngineOptions struct {
	// GrammarFile is the path of the grammar text to use. If empty, the
	// grammar is read from the input stream, one rule per line, up to the
	// first blank line.
	GrammarFile string

	// Start overrides the start symbol given by the grammar text.
	Start string

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool
}

// Engine runs an interactive parser session attached to an input stream and
// an output stream. It reads a grammar, prints its analysis, and then parses
// every line of input it is given.
type Engine struct {
	opts     EngineOptions
	in       input.Reader
	out      *bufio.Writer
	running  bool
	grammar  Grammar
	analysis *Analysis
}

// NewEngine creates a new engine ready to operate on the given input and
// output streams.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. When both are the process's own stdin and
// stdout, input is read with readline unless opts.ForceDirect is set.
func NewEngine(inputStream io.Reader, outputStream io.Writer, opts EngineOptions) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		opts: opts,
		out:  bufio.NewWriter(outputStream),
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		rl, err := input.NewInteractiveReader(inputPrompt)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		eng.in = rl
	} else {
		eng.in = input.NewDirectReader(inputStream, nil)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}
	return nil
}

// ReadGrammar reads the grammar from the grammar file, or from the input
// stream if no file was given, and prints any warnings about it.
func (eng *Engine) ReadGrammar() error {
	var g Grammar
	var warnings []string
	var err error
	if eng.opts.GrammarFile != "" {
		g, warnings, err = ReadGrammarFile(eng.opts.GrammarFile, eng.opts.Start)
	} else {
		var text string
		text, err = eng.readGrammarLines()
		if err != nil {
			return err
		}
		g, warnings, err = ReadGrammar(text, eng.opts.Start)
	}
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	eng.grammar = g

	for _, w := range warnings {
		if err := eng.writef("warning: %s\n", w); err != nil {
			return err
		}
	}
	return nil
}

func (eng *Engine) readGrammarLines() (string, error) {
	if err := eng.writef("Enter grammar rules, then a blank line:\n"); err != nil {
		return "", err
	}

	eng.in.SetPrompt(grammarPrompt)
	eng.in.AllowBlank(true)
	defer func() {
		eng.in.SetPrompt(inputPrompt)
		eng.in.AllowBlank(false)
	}()

	var lines []string
	for {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("read grammar: %w", err)
		}
		if line == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("no grammar rules given")
	}
	return strings.Join(lines, "\n"), nil
}

// Analyze builds the parser for the grammar read with ReadGrammar and prints
// the normalized grammar, its FIRST and FOLLOW sets, and its parsing table.
// If the table cannot be built, whatever was computed is printed and the
// error is returned.
func (eng *Engine) Analyze() error {
	a, err := Analyze(eng.grammar)
	if a == nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("Normalized grammar:\n")
	sb.WriteString(indent(a.Normalized.String()))
	sb.WriteString("\n\n")
	sb.WriteString(setsTable(a.Normalized, a.First, a.Follow))
	sb.WriteString("\n")
	if a.Table != nil {
		sb.WriteString("Parsing table:\n")
		sb.WriteString(a.Table.String())
		sb.WriteString("\n")
	}
	if werr := eng.writef("%s", sb.String()); werr != nil {
		return werr
	}

	if err != nil {
		return err
	}
	eng.analysis = a
	return nil
}

// CheckLL1 checks the grammar read with ReadGrammar and prints the verdict.
// It returns whether the grammar is LL(1).
func (eng *Engine) CheckLL1() (bool, error) {
	rep, err := CheckLL1(eng.grammar)
	if err != nil {
		return false, err
	}

	var sb strings.Builder
	sb.WriteString("Grammar without left recursion:\n")
	sb.WriteString(indent(rep.Grammar.String()))
	sb.WriteString("\n\n")
	sb.WriteString(setsTable(rep.Grammar, rep.First, rep.Follow))
	sb.WriteString("\n")
	if rep.IsLL1 {
		sb.WriteString("The grammar is LL(1).\n")
	} else {
		sb.WriteString(wrap("The grammar is not LL(1): " + rep.Reason.Error()))
		sb.WriteString("\n")
	}

	return rep.IsLL1, eng.writef("%s", sb.String())
}

// Parse parses one line of input with the analyzed grammar and prints the
// trace, followed by the parse tree if the input was accepted. It returns
// whether the input was accepted.
func (eng *Engine) Parse(line string) (bool, error) {
	if eng.analysis == nil {
		return false, errors.New("no grammar has been analyzed")
	}

	res, err := eng.analysis.Parse(Tokens(line))
	if err != nil {
		return false, err
	}

	var sb strings.Builder
	sb.WriteString(traceTable(res.Steps))
	sb.WriteString("\n")
	if res.Accepted {
		sb.WriteString("Accepted.\n\n")
		sb.WriteString(res.Tree.String())
		sb.WriteString("\n")
	} else {
		sb.WriteString("Rejected.\n")
	}

	return res.Accepted, eng.writef("%s", sb.String())
}

// RunUntilQuit reads lines of input and parses each one until the QUIT command
// is received or input ends. A blank line is parsed as the empty input.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Enter input to parse, with tokens separated by spaces. Type QUIT to exit.\n"
	if eng.opts.ForceDirect {
		introMsg += "(direct input mode)\n"
	}
	if err := eng.writef("%s", introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	eng.in.SetPrompt(inputPrompt)
	eng.in.AllowBlank(true)
	defer eng.in.AllowBlank(false)

	for eng.running {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("get user input: %w", err)
		}

		if strings.EqualFold(line, "QUIT") {
			eng.running = false
			break
		}

		if _, err := eng.Parse(line); err != nil {
			if !errors.Is(err, ErrBadInput) {
				return err
			}
			if werr := eng.writef("%s\n", wrap(err.Error())); werr != nil {
				return werr
			}
		}
	}

	return eng.writef("Goodbye\n")
}

func (eng *Engine) writef(format string, a ...interface{}) error {
	if _, err := fmt.Fprintf(eng.out, format, a...); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func wrap(s string) string {
	return rosed.Edit(s).Wrap(consoleOutputWidth).String()
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// setsTable renders FIRST and FOLLOW of every non-terminal of g, in rule
// order.
func setsTable(g Grammar, first FirstSet, follow FollowSet) string {
	firstMap := first.Map()
	followMap := follow.Map()

	data := [][]string{{"Non-terminal", "FIRST", "FOLLOW"}}
	for _, nt := range g.NonTerminals() {
		data = append(data, []string{nt, setString(firstMap[nt]), setString(followMap[nt])})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, rosed.Options{
			TableHeaders: true,
			TableBorders: true,
		}).
		String()
}

func traceTable(steps []DerivationStep) string {
	data := [][]string{{"Stack", "Input", "Action"}}
	for _, s := range steps {
		data = append(data, []string{strings.Join(s.Stack, " "), strings.Join(s.Input, " "), s.Action})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func setString(syms []string) string {
	return "{ " + strings.Join(syms, ", ") + " }"
}

// ReadGrammarFile is ReadGrammar on the contents of the file at path.
func ReadGrammarFile(path string, start string) (Grammar, []string, error) {
	rg, err := reader.ReadFile(path)
	if err != nil {
		return Grammar{}, nil, err
	}
	g := rg.Grammar
	if start != "" {
		g.Start = start
	}
	return g, rg.Warnings, nil
}
