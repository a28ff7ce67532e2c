package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/serr"
)

// HTTPParse returns a HandlerFunc that analyzes a grammar given in the request
// and parses an input with it.
func (api API) HTTPParse() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epParse)
}

func (api API) epParse(req *http.Request) result.Result {
	var parseData ParseRequest
	err := parseJSON(req, &parseData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if parseData.Grammar == "" {
		return result.BadRequest("grammar: property is empty or missing from request", "empty grammar")
	}

	res, run, err := api.Backend.Parse(req.Context(), parseData.Grammar, parseData.Start, parseData.Input)
	if err != nil {
		return parseErrorResult(res.Analysis, err)
	}

	return result.OK(parseResultToModel(res, run), "parsed %d token(s): accepted=%t", len(run.Input), res.Accepted)
}

// HTTPCheckLL1 returns a HandlerFunc that reports whether the grammar given in
// the request is LL(1) once direct left recursion is removed.
func (api API) HTTPCheckLL1() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCheckLL1)
}

func (api API) epCheckLL1(req *http.Request) result.Result {
	var checkData CheckLL1Request
	err := parseJSON(req, &checkData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if checkData.Grammar == "" {
		return result.BadRequest("grammar: property is empty or missing from request", "empty grammar")
	}

	rep, err := api.Backend.CheckLL1(req.Context(), checkData.Grammar, checkData.Start)
	if err != nil {
		if errors.Is(err, serr.ErrGrammar) {
			return result.BadRequest(err.Error(), "malformed grammar: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := CheckLL1Response{
		IsLL1:   rep.IsLL1,
		Grammar: grammarToModel(rep.Grammar),
		First:   rep.First.Map(),
		Follow:  rep.Follow.Map(),
	}
	if rep.Reason != nil {
		if cm, ok := conflictToModel(rep.Reason); ok {
			resp.Conflict = &cm
		}
	}

	return result.OK(resp, "checked grammar: LL(1)=%t", rep.IsLL1)
}

// parseErrorResult gives the Result for an error from parsing with a grammar.
// a is whatever analysis was completed before the error.
func parseErrorResult(a ellone.Analysis, err error) result.Result {
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	}
	if errors.Is(err, serr.ErrBadArgument) {
		return result.BadRequest(err.Error(), err.Error())
	}
	if errors.Is(err, serr.ErrGrammar) {
		cm, ok := conflictToModel(err)
		if !ok {
			return result.BadRequest(err.Error(), "malformed grammar: %s", err.Error())
		}
		resp := GrammarErrorResponse{
			Error:         cm.Message,
			Status:        http.StatusUnprocessableEntity,
			Conflict:      cm,
			AnalysisModel: analysisToModel(a),
		}
		return result.UnprocessableEntity(resp, "grammar cannot be parsed with: %s", err.Error())
	}
	return result.InternalServerError(err.Error())
}

func parseResultToModel(res ellone.Result, run dao.Run) ParseResponse {
	resp := ParseResponse{
		AnalysisModel: analysisToModel(res.Analysis),
		RunID:         run.ID.String(),
		Accepted:      res.Accepted,
		Steps:         types.Trace(res.Steps),
		Tree:          res.Tree,
	}
	return resp
}
