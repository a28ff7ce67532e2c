// Package sqlite provides a dao.Store backed by a SQLite database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/ellone/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	grammars *GrammarsDB
	runs     *RunsDB
}

// NewDatastore opens (creating if needed) the database file ellone.db in
// storageDir and makes sure its tables exist.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "ellone.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("grammars: %w", err)
	}

	st.runs = &RunsDB{db: st.db}
	if err := st.runs.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("runs: %w", err)
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Runs() dao.RunRepository {
	return s.runs
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

const sqliteConstraint = 19

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// extended codes keep the primary code in the low byte
		if sqliteErr.Code()&0xff == sqliteConstraint {
			return dao.ErrConstraintViolation
		}
		if msg, ok := sqlite.ErrorCodeString[sqliteErr.Code()]; ok && msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
