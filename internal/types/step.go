package types

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rezi"
)

// DerivationStep is one entry of a parser trace. It is recorded once per
// iteration of the parse loop and is never read back by the parser.
type DerivationStep struct {
	// Stack is the parse stack at the start of the step, top symbol first.
	Stack []string `json:"stack"`

	// Input is the input not yet consumed at the start of the step, end
	// marker included.
	Input []string `json:"input"`

	// Action describes what the parser did, such as "Match id", "E → T E'",
	// or an error description.
	Action string `json:"action"`
}

// String renders the step as "stack | input | action".
func (ds DerivationStep) String() string {
	return fmt.Sprintf("%s | %s | %s", strings.Join(ds.Stack, " "), strings.Join(ds.Input, " "), ds.Action)
}

// Copy returns a duplicate of the step that shares no memory with ds.
func (ds DerivationStep) Copy() DerivationStep {
	cp := DerivationStep{
		Stack:  make([]string, len(ds.Stack)),
		Input:  make([]string, len(ds.Input)),
		Action: ds.Action,
	}
	copy(cp.Stack, ds.Stack)
	copy(cp.Input, ds.Input)
	return cp
}

// IsError returns whether the step is the one that ended a failed parse.
func (ds DerivationStep) IsError() bool {
	return strings.HasPrefix(ds.Action, "Error:")
}

// Trace renders every step with String.
func Trace(steps []DerivationStep) []string {
	lines := make([]string, len(steps))
	for i := range steps {
		lines[i] = steps[i].String()
	}
	return lines
}

func (ds DerivationStep) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encStrings(ds.Stack)...)
	data = append(data, encStrings(ds.Input)...)
	data = append(data, rezi.EncString(ds.Action)...)

	return data, nil
}

func (ds *DerivationStep) UnmarshalBinary(data []byte) error {
	var err error
	var bytesRead int

	ds.Stack, bytesRead, err = decStrings(data)
	if err != nil {
		return fmt.Errorf("stack: %w", err)
	}
	data = data[bytesRead:]

	ds.Input, bytesRead, err = decStrings(data)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	data = data[bytesRead:]

	ds.Action, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("action: %w", err)
	}

	return nil
}

// EncSteps encodes a full trace to bytes.
func EncSteps(steps []DerivationStep) []byte {
	data := rezi.EncInt(len(steps))
	for i := range steps {
		data = append(data, rezi.EncBinary(steps[i])...)
	}
	return data
}

// DecSteps decodes a trace encoded with EncSteps.
func DecSteps(data []byte) ([]DerivationStep, error) {
	count, bytesRead, err := rezi.DecInt(data)
	if err != nil {
		return nil, fmt.Errorf("step count: %w", err)
	}
	data = data[bytesRead:]
	if count < 0 {
		return nil, fmt.Errorf("step count < 0")
	}

	steps := make([]DerivationStep, count)
	for i := 0; i < count; i++ {
		bytesRead, err = rezi.DecBinary(data, &steps[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		data = data[bytesRead:]
	}
	return steps, nil
}

func encStrings(sl []string) []byte {
	data := rezi.EncInt(len(sl))
	for i := range sl {
		data = append(data, rezi.EncString(sl[i])...)
	}
	return data
}

func decStrings(data []byte) ([]string, int, error) {
	var totalRead int

	count, bytesRead, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[bytesRead:]
	totalRead += bytesRead
	if count < 0 {
		return nil, 0, fmt.Errorf("count < 0")
	}

	sl := make([]string, count)
	for i := 0; i < count; i++ {
		sl[i], bytesRead, err = rezi.DecString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		data = data[bytesRead:]
		totalRead += bytesRead
	}

	return sl, totalRead, nil
}
