package ellones

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/metrics"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/google/uuid"
)

// GetAllGrammars returns all grammars currently in persistence.
func (svc Service) GetAllGrammars(ctx context.Context) ([]dao.Grammar, error) {
	grammars, err := svc.DB.Grammars().GetAll(ctx)
	if err != nil {
		metrics.StoreErrorCounter.WithLabelValues("get_grammars").Inc()
		return nil, serr.WrapDB("", err)
	}

	return grammars, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no grammar
// has that ID, serr.ErrBadArgument if id is not a valid ID, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		metrics.StoreErrorCounter.WithLabelValues("get_grammar").Inc()
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// CreateGrammar stores the grammar given in source under name. The grammar
// must be readable and well-formed but need not be LL(1).
//
// The returned error, if non-nil, will match serr.ErrBadArgument if name is
// blank, serr.ErrGrammar if source is malformed, serr.ErrAlreadyExists if a
// grammar with that name exists, and serr.ErrDB for unexpected problems with
// the DB.
func (svc Service) CreateGrammar(ctx context.Context, name, source, start string) (dao.Grammar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	g, _, err := ellone.ReadGrammar(source, start)
	if err != nil {
		return dao.Grammar{}, serr.WrapGrammar("", err)
	}
	if err := g.Validate(); err != nil {
		return dao.Grammar{}, serr.WrapGrammar("", err)
	}

	created, err := svc.DB.Grammars().Create(ctx, dao.Grammar{
		Name:   name,
		Source: source,
		Start:  start,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Grammar{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
		}
		metrics.StoreErrorCounter.WithLabelValues("create_grammar").Inc()
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	return created, nil
}

// DeleteGrammar deletes the grammar with the given ID along with every run
// made with it. It returns the deleted grammar.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no grammar
// has that ID, serr.ErrBadArgument if id is not a valid ID, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	_, err = svc.DB.Runs().DeleteAllByGrammar(ctx, uuidID)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		metrics.StoreErrorCounter.WithLabelValues("delete_runs").Inc()
		return dao.Grammar{}, serr.WrapDB("could not delete runs", err)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		metrics.StoreErrorCounter.WithLabelValues("delete_grammar").Inc()
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}
