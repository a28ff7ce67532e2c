package ellones

import (
	"context"
	"errors"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/metrics"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/google/uuid"
)

// RunGrammar parses input with the stored grammar that has the given ID and
// records the run against it. Errors are as for GetGrammar and Parse.
func (svc Service) RunGrammar(ctx context.Context, grammarID, input string) (ellone.Result, dao.Run, error) {
	g, err := svc.GetGrammar(ctx, grammarID)
	if err != nil {
		return ellone.Result{}, dao.Run{}, err
	}

	return svc.parseAndRecord(ctx, g.ID, g.Source, g.Start, input)
}

// GetRuns returns every run made with the stored grammar that has the given
// ID, oldest first. A grammar with no runs gives an empty slice.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no grammar
// has that ID, serr.ErrBadArgument if id is not a valid ID, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) GetRuns(ctx context.Context, grammarID string) ([]dao.Run, error) {
	g, err := svc.GetGrammar(ctx, grammarID)
	if err != nil {
		return nil, err
	}

	runs, err := svc.DB.Runs().GetAllByGrammar(ctx, g.ID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return []dao.Run{}, nil
		}
		metrics.StoreErrorCounter.WithLabelValues("get_runs").Inc()
		return nil, serr.WrapDB("could not get runs", err)
	}

	return runs, nil
}

// GetRun returns the run with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no run has
// that ID, serr.ErrBadArgument if id is not a valid ID, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) GetRun(ctx context.Context, id string) (dao.Run, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Run{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	r, err := svc.DB.Runs().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Run{}, serr.ErrNotFound
		}
		metrics.StoreErrorCounter.WithLabelValues("get_run").Inc()
		return dao.Run{}, serr.WrapDB("could not get run", err)
	}

	return r, nil
}
