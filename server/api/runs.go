package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/go-chi/chi/v5"
)

// HTTPCreateRun returns a HandlerFunc that parses an input with a stored
// grammar and records the run.
func (api API) HTTPCreateRun() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateRun)
}

func (api API) epCreateRun(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	var runData RunRequest
	err := parseJSON(req, &runData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	res, run, err := api.Backend.RunGrammar(req.Context(), id, runData.Input)
	if err != nil {
		return parseErrorResult(res.Analysis, err)
	}

	return result.Created(parseResultToModel(res, run), "run %s on grammar %s: accepted=%t", run.ID, id, res.Accepted)
}

// HTTPGetGrammarRuns returns a HandlerFunc that lists the runs made with a
// stored grammar.
func (api API) HTTPGetGrammarRuns() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammarRuns)
}

func (api API) epGetGrammarRuns(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	runs, err := api.Backend.GetRuns(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrBadArgument) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := make([]RunModel, len(runs))
	for i := range runs {
		resp[i] = runToModel(runs[i])
	}

	return result.OK(resp, "got %d run(s) of grammar %s", len(runs), id)
}

// HTTPGetRun returns a HandlerFunc that gets one run by ID.
func (api API) HTTPGetRun() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetRun)
}

func (api API) epGetRun(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	run, err := api.Backend.GetRun(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrBadArgument) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(runToModel(run), "got run %s", run.ID)
}
