package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_GrammarsDB(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Grammars()

	created, err := repo.Create(ctx, dao.Grammar{Name: "expr", Source: "E -> E + T | T", Start: "E"})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.Equal("expr", created.Name)
	assert.Equal("E -> E + T | T", created.Source)
	assert.Equal("E", created.Start)

	_, err = repo.Create(ctx, dao.Grammar{Name: "expr", Source: "S -> a"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	_, err = repo.Create(ctx, dao.Grammar{Name: "other", Source: "S -> a"})
	assert.NoError(err)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	if assert.Len(all, 2) {
		assert.Equal("expr", all[0].Name)
		assert.Equal("other", all[1].Name)
	}

	created.Source = "S -> b"
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("S -> b", updated.Source)

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_RunsDB(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Runs()
	grammarID := uuid.New()

	tree := &types.ParseTree{Value: "S", Children: []*types.ParseTree{
		types.NewLeaf("a", true),
		{Value: "S", Children: []*types.ParseTree{types.NewLeaf("ε", true)}},
		types.NewLeaf("b", true),
	}}
	steps := []types.DerivationStep{
		{Stack: []string{"S", "$"}, Input: []string{"a", "b", "$"}, Action: "S → a S b"},
		{Stack: []string{"$"}, Input: []string{"$"}, Action: "Match $"},
	}

	accepted, err := repo.Create(ctx, dao.Run{GrammarID: grammarID, Input: []string{"a", "b"}, Accepted: true, Steps: steps, Tree: tree})
	if !assert.NoError(err) {
		return
	}
	rejected, err := repo.Create(ctx, dao.Run{GrammarID: grammarID, Input: []string{"b"}, Steps: steps[:1]})
	if !assert.NoError(err) {
		return
	}

	assert.Equal(grammarID, accepted.GrammarID)
	assert.Equal([]string{"a", "b"}, accepted.Input)
	assert.True(accepted.Accepted)
	assert.Equal(steps, accepted.Steps)
	if assert.NotNil(accepted.Tree) {
		assert.True(tree.Equal(*accepted.Tree))
	}
	assert.False(rejected.Accepted)
	assert.Nil(rejected.Tree)

	all, err := repo.GetAllByGrammar(ctx, grammarID)
	assert.NoError(err)
	if assert.Len(all, 2) {
		assert.Equal(accepted.ID, all[0].ID)
		assert.Equal(rejected.ID, all[1].ID)
	}

	_, err = repo.GetAllByGrammar(ctx, uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)

	deleted, err := repo.DeleteAllByGrammar(ctx, grammarID)
	assert.NoError(err)
	assert.Len(deleted, 2)

	_, err = repo.GetByID(ctx, accepted.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_wrapDBError(t *testing.T) {
	testCases := []struct {
		name   string
		rawErr func(t *testing.T) error
		expect error
	}{
		{
			name: "duplicate grammar name",
			rawErr: func(t *testing.T) error {
				g := newTestStore(t).(*store).grammars
				_, err := g.db.Exec(`INSERT INTO grammars (id, name, source, start, created, modified) VALUES (?, ?, ?, ?, ?, ?)`, uuid.New().String(), "dup", "S -> a", "S", 0, 0)
				if !assert.NoError(t, err) {
					t.FailNow()
				}
				_, err = g.db.Exec(`INSERT INTO grammars (id, name, source, start, created, modified) VALUES (?, ?, ?, ?, ?, ?)`, uuid.New().String(), "dup", "S -> b", "S", 0, 0)
				return err
			},
			expect: dao.ErrConstraintViolation,
		},
		{
			name: "no rows",
			rawErr: func(t *testing.T) error {
				return sql.ErrNoRows
			},
			expect: dao.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := wrapDBError(tc.rawErr(t))

			assert.ErrorIs(t, actual, tc.expect)
			assert.NotEmpty(t, actual.Error())
		})
	}
}

func Test_wrapDBError_keepsMessage(t *testing.T) {
	assert := assert.New(t)
	g := newTestStore(t).(*store).grammars

	_, err := g.db.Exec(`SELECT * FROM no_such_table`)
	actual := wrapDBError(err)

	assert.Error(actual)
	assert.NotEmpty(actual.Error())
}
