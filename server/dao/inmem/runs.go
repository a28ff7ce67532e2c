package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/google/uuid"
)

func NewRunsRepository() *InMemoryRunsRepository {
	return &InMemoryRunsRepository{
		runs:             make(map[uuid.UUID]dao.Run),
		byGrammarIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

// InMemoryRunsRepository stores runs in a map along with an index of the runs
// made with each grammar, kept in creation order.
type InMemoryRunsRepository struct {
	mtx              sync.RWMutex
	runs             map[uuid.UUID]dao.Run
	byGrammarIDIndex map[uuid.UUID][]uuid.UUID
}

func (imrr *InMemoryRunsRepository) Close() error {
	return nil
}

func (imrr *InMemoryRunsRepository) Create(ctx context.Context, r dao.Run) (dao.Run, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imrr.mtx.Lock()
	defer imrr.mtx.Unlock()

	r.ID = newUUID
	r.Created = time.Now()

	imrr.runs[r.ID] = copyRun(r)

	grammarRuns := imrr.byGrammarIDIndex[r.GrammarID]
	grammarRuns = append(grammarRuns, r.ID)
	imrr.byGrammarIDIndex[r.GrammarID] = grammarRuns

	return r, nil
}

func (imrr *InMemoryRunsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	imrr.mtx.RLock()
	defer imrr.mtx.RUnlock()

	r, ok := imrr.runs[id]
	if !ok {
		return dao.Run{}, dao.ErrNotFound
	}

	return copyRun(r), nil
}

func (imrr *InMemoryRunsRepository) GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.Run, error) {
	imrr.mtx.RLock()
	defer imrr.mtx.RUnlock()

	byGrammar := imrr.byGrammarIDIndex[grammarID]
	if len(byGrammar) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Run, len(byGrammar))
	for i := range byGrammar {
		all[i] = copyRun(imrr.runs[byGrammar[i]])
	}

	return all, nil
}

func (imrr *InMemoryRunsRepository) DeleteAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.Run, error) {
	imrr.mtx.Lock()
	defer imrr.mtx.Unlock()

	byGrammar := imrr.byGrammarIDIndex[grammarID]
	if len(byGrammar) < 1 {
		return nil, dao.ErrNotFound
	}

	deleted := make([]dao.Run, len(byGrammar))
	for i := range byGrammar {
		deleted[i] = imrr.runs[byGrammar[i]]
		delete(imrr.runs, byGrammar[i])
	}
	delete(imrr.byGrammarIDIndex, grammarID)

	return deleted, nil
}

// copyRun duplicates the slices and tree of r so that callers cannot modify
// a stored run through what they are given.
func copyRun(r dao.Run) dao.Run {
	cp := r
	cp.Input = make([]string, len(r.Input))
	copy(cp.Input, r.Input)

	if r.Steps != nil {
		cp.Steps = make([]types.DerivationStep, len(r.Steps))
		for i := range r.Steps {
			cp.Steps[i] = r.Steps[i].Copy()
		}
	}
	if r.Tree != nil {
		tree := r.Tree.Copy()
		cp.Tree = &tree
	}
	return cp
}
