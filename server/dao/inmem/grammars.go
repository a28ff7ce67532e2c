package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/ellone/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars: make(map[uuid.UUID]dao.Grammar),
		byName:   make(map[string]uuid.UUID),
	}
}

// InMemoryGrammarsRepository stores grammars in a map. Names are unique.
type InMemoryGrammarsRepository struct {
	mtx      sync.RWMutex
	grammars map[uuid.UUID]dao.Grammar
	byName   map[string]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	if _, ok := imgr.byName[g.Name]; ok {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	now := time.Now()

	g.ID = newUUID
	g.Created = now
	g.Modified = now

	imgr.grammars[g.ID] = g
	imgr.byName[g.Name] = g.ID

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	all := make([]dao.Grammar, 0, len(imgr.grammars))
	for k := range imgr.grammars {
		all = append(all, imgr.grammars[k])
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Created.Equal(all[j].Created) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].Created.Before(all[j].Created)
	})

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	existing, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	if g.ID != id {
		if _, ok := imgr.grammars[g.ID]; ok {
			return dao.Grammar{}, dao.ErrConstraintViolation
		}
	}
	if owner, ok := imgr.byName[g.Name]; ok && owner != id {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	g.Modified = time.Now()

	delete(imgr.byName, existing.Name)
	delete(imgr.grammars, id)
	imgr.grammars[g.ID] = g
	imgr.byName[g.Name] = g.ID

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.byName, g.Name)
	delete(imgr.grammars, g.ID)

	return g, nil
}
