package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// NewRunsDBConn opens a RunsDB on its own connection to file.
func NewRunsDBConn(file string) (*RunsDB, error) {
	repo := &RunsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

// RunsDB stores runs in the runs table. The trace and tree of each run are
// kept as base64 text of their REZI encoding.
type RunsDB struct {
	db *sql.DB
}

func (repo *RunsDB) init() error {
	// grammar_id is not a foreign key; runs of inline grammars use the nil
	// UUID.
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		grammar_id TEXT NOT NULL,
		input TEXT NOT NULL,
		accepted INTEGER NOT NULL,
		steps TEXT NOT NULL,
		tree TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}

	_, err = repo.db.Exec(`CREATE INDEX IF NOT EXISTS runs_grammar_id ON runs (grammar_id);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *RunsDB) Create(ctx context.Context, r dao.Run) (dao.Run, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO runs (id, grammar_id, input, accepted, steps, tree, created) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	encSteps := base64.StdEncoding.EncodeToString(types.EncSteps(r.Steps))
	var encTree string
	if r.Tree != nil {
		encTree = base64.StdEncoding.EncodeToString(rezi.EncBinary(r.Tree))
	}

	_, err = stmt.ExecContext(ctx,
		newUUID.String(),
		r.GrammarID.String(),
		strings.Join(r.Input, " "),
		r.Accepted,
		encSteps,
		encTree,
		now.Unix(),
	)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RunsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, grammar_id, input, accepted, steps, tree, created FROM runs WHERE id = ?;`,
		id.String(),
	)

	return scanRun(row)
}

func (repo *RunsDB) GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.Run, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, grammar_id, input, accepted, steps, tree, created FROM runs WHERE grammar_id = ? ORDER BY created, rowid;`,
		grammarID.String(),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Run

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return all, err
		}
		all = append(all, r)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	if len(all) < 1 {
		return nil, dao.ErrNotFound
	}

	return all, nil
}

func (repo *RunsDB) DeleteAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.Run, error) {
	curVals, err := repo.GetAllByGrammar(ctx, grammarID)
	if err != nil {
		return nil, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM runs WHERE grammar_id = ?`, grammarID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}

	return curVals, nil
}

func (repo *RunsDB) Close() error {
	return repo.db.Close()
}

func scanRun(row scanner) (dao.Run, error) {
	var r dao.Run
	var id string
	var grammarID string
	var input string
	var encSteps string
	var encTree string
	var created int64

	err := row.Scan(
		&id,
		&grammarID,
		&input,
		&r.Accepted,
		&encSteps,
		&encTree,
		&created,
	)
	if err != nil {
		return r, wrapDBError(err)
	}

	r.ID, err = uuid.Parse(id)
	if err != nil {
		return r, fmt.Errorf("stored UUID %q is invalid", id)
	}
	r.GrammarID, err = uuid.Parse(grammarID)
	if err != nil {
		return r, fmt.Errorf("stored grammar ID %q is invalid: %w", grammarID, err)
	}
	r.Input = strings.Fields(input)
	r.Created = time.Unix(created, 0)

	stepsData, err := base64.StdEncoding.DecodeString(encSteps)
	if err != nil {
		return r, fmt.Errorf("stored steps for %s are invalid: %w", r.ID.String(), err)
	}
	r.Steps, err = types.DecSteps(stepsData)
	if err != nil {
		return r, fmt.Errorf("stored steps for %s are invalid: %w", r.ID.String(), err)
	}

	if encTree != "" {
		treeData, err := base64.StdEncoding.DecodeString(encTree)
		if err != nil {
			return r, fmt.Errorf("stored tree for %s is invalid: %w", r.ID.String(), err)
		}
		r.Tree = &types.ParseTree{}
		if _, err := rezi.DecBinary(treeData, r.Tree); err != nil {
			return r, fmt.Errorf("stored tree for %s is invalid: %w", r.ID.String(), err)
		}
	}

	return r, nil
}
