// Package dao provides data access objects for use in the ellone server.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/ellone/internal/types"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Grammars() GrammarRepository
	Runs() RunRepository
	Close() error
}

type GrammarRepository interface {

	// Create creates a new Grammar. All attributes except for auto-generated
	// fields are taken from the provided Grammar.
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)

	// GetAll returns every stored Grammar ordered by creation time.
	GetAll(ctx context.Context) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)

	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

type RunRepository interface {
	Create(ctx context.Context, r Run) (Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (Run, error)

	// GetAllByGrammar returns the runs recorded against the grammar with the
	// given ID, oldest first. Returns ErrNotFound if there are none.
	GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]Run, error)
	DeleteAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]Run, error)
	Close() error
}

// Grammar is a named grammar kept in its textual form.
type Grammar struct {
	ID     uuid.UUID
	Name   string
	Source string

	// Start overrides the start symbol of Source. Empty means the first
	// rule's non-terminal.
	Start    string
	Created  time.Time
	Modified time.Time
}

// Run is a record of one input parsed with one grammar. GrammarID is
// uuid.Nil for runs made with a grammar that was given inline instead of
// stored.
type Run struct {
	ID        uuid.UUID
	GrammarID uuid.UUID
	Input     []string
	Accepted  bool
	Steps     []types.DerivationStep
	Tree      *types.ParseTree
	Created   time.Time
}
