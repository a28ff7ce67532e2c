// Package inmem provides a dao.Store that keeps everything in memory. It is
// lost when the process exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/ellone/server/dao"
)

type store struct {
	grammars *InMemoryGrammarsRepository
	runs     *InMemoryRunsRepository
}

func NewDatastore() dao.Store {
	return &store{
		grammars: NewGrammarsRepository(),
		runs:     NewRunsRepository(),
	}
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Runs() dao.RunRepository {
	return s.runs
}

func (s *store) Close() error {
	var err error

	if nextErr := s.grammars.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.runs.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
