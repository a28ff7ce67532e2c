package ellones

import (
	"context"
	"errors"
	"testing"

	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/dao/inmem"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const exprGrammarText = "E -> E + T | T\nT -> T * F | F\nF -> ( E ) | id"

func newTestService(t *testing.T) Service {
	hash, err := HashPassword("hunter2")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return Service{DB: inmem.NewDatastore(), AdminPasswordHash: hash}
}

func Test_Service_Login(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.Login("hunter2"))
	assert.ErrorIs(t, svc.Login("hunter3"), serr.ErrBadCredentials)
}

func Test_Service_Parse(t *testing.T) {
	testCases := []struct {
		name         string
		text         string
		start        string
		input        string
		expectAccept bool
		expectErrIs  []error
		expectRun    bool
	}{
		{
			name:         "accepted",
			text:         exprGrammarText,
			input:        "id * ( id + id )",
			expectAccept: true,
			expectRun:    true,
		},
		{
			name:      "rejected is still recorded",
			text:      exprGrammarText,
			input:     "id +",
			expectRun: true,
		},
		{
			name:        "malformed grammar",
			text:        "E E + T",
			input:       "id",
			expectErrIs: []error{serr.ErrGrammar, llerrors.ErrMalformedGrammar},
		},
		{
			name:        "not LL(1)",
			text:        "S -> A | B\nA -> ε\nB -> ε",
			input:       "",
			expectErrIs: []error{serr.ErrGrammar, llerrors.ErrConflict},
		},
		{
			name:        "end marker in input",
			text:        exprGrammarText,
			input:       "id $",
			expectErrIs: []error{serr.ErrBadArgument, llerrors.ErrBadInput},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService(t)

			res, run, err := svc.Parse(context.Background(), tc.text, tc.start, tc.input)

			if len(tc.expectErrIs) > 0 {
				for _, target := range tc.expectErrIs {
					assert.ErrorIs(err, target)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectAccept, res.Accepted)
			assert.NotEmpty(res.Steps)
			if tc.expectRun {
				assert.Equal(uuid.Nil, run.GrammarID)
				stored, err := svc.GetRun(context.Background(), run.ID.String())
				assert.NoError(err)
				assert.Equal(tc.expectAccept, stored.Accepted)
				assert.Equal(res.Steps, stored.Steps)
			}
		})
	}
}

func Test_Service_Parse_conflictKeepsAnalysis(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	res, _, err := svc.Parse(context.Background(), "S -> A a\nA -> a | ε", "", "a")

	var conflict *llerrors.ConflictError
	if assert.True(errors.As(err, &conflict)) {
		assert.Equal("A", conflict.NonTerminal)
		assert.Equal("a", conflict.Terminal)
	}
	assert.Nil(res.Table)
	assert.NotNil(res.First)
}

func Test_Service_CheckLL1(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	rep, err := svc.CheckLL1(context.Background(), "S -> a b | a c", "")
	assert.NoError(err)
	assert.False(rep.IsLL1)
	assert.ErrorIs(rep.Reason, llerrors.ErrConflict)

	rep, err = svc.CheckLL1(context.Background(), exprGrammarText, "")
	assert.NoError(err)
	assert.True(rep.IsLL1)

	_, err = svc.CheckLL1(context.Background(), "-> a", "")
	assert.ErrorIs(err, serr.ErrGrammar)
}

func Test_Service_Grammars(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateGrammar(ctx, " ", exprGrammarText, "")
	assert.ErrorIs(err, serr.ErrBadArgument)

	_, err = svc.CreateGrammar(ctx, "broken", "S ->", "")
	assert.ErrorIs(err, serr.ErrGrammar)

	_, err = svc.CreateGrammar(ctx, "bad start", exprGrammarText, "X")
	assert.ErrorIs(err, llerrors.ErrMalformedGrammar)

	g, err := svc.CreateGrammar(ctx, "expr", exprGrammarText, "")
	if !assert.NoError(err) {
		return
	}

	_, err = svc.CreateGrammar(ctx, "expr", exprGrammarText, "")
	assert.ErrorIs(err, serr.ErrAlreadyExists)

	runs, err := svc.GetRuns(ctx, g.ID.String())
	assert.NoError(err)
	assert.Empty(runs)

	res, run, err := svc.RunGrammar(ctx, g.ID.String(), "id + id")
	assert.NoError(err)
	assert.True(res.Accepted)
	assert.Equal(g.ID, run.GrammarID)

	runs, err = svc.GetRuns(ctx, g.ID.String())
	assert.NoError(err)
	assert.Len(runs, 1)

	all, err := svc.GetAllGrammars(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	deleted, err := svc.DeleteGrammar(ctx, g.ID.String())
	assert.NoError(err)
	assert.Equal("expr", deleted.Name)

	_, err = svc.GetRun(ctx, run.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetGrammar(ctx, g.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetGrammar(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)
	_, _, err = svc.RunGrammar(ctx, g.ID.String(), "id")
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_recordsRunsInStore(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	_, run, err := svc.Parse(context.Background(), "S -> a", "", "a")
	assert.NoError(err)

	stored, err := svc.DB.Runs().GetByID(context.Background(), run.ID)
	assert.NoError(err)
	assert.Equal([]string{"a"}, stored.Input)
	_, err = svc.DB.Runs().GetAllByGrammar(context.Background(), uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)
}
