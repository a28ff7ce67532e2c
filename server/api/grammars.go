package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/go-chi/chi/v5"
)

// HTTPGetAllGrammars returns a HandlerFunc that lists every stored grammar.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	grammars, err := api.Backend.GetAllGrammars(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]StoredGrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = storedGrammarToModel(grammars[i])
	}

	return result.OK(resp, "got all grammars")
}

// HTTPGetGrammar returns a HandlerFunc that gets one stored grammar by ID.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	g, err := api.Backend.GetGrammar(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrBadArgument) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(storedGrammarToModel(g), "got grammar %s", g.ID)
}

// HTTPCreateGrammar returns a HandlerFunc that stores a new named grammar.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	var createData GrammarRequest
	err := parseJSON(req, &createData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if createData.Grammar == "" {
		return result.BadRequest("grammar: property is empty or missing from request", "empty grammar")
	}

	g, err := api.Backend.CreateGrammar(req.Context(), createData.Name, createData.Grammar, createData.Start)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("A grammar with that name already exists", "grammar %q already exists", createData.Name)
		}
		if errors.Is(err, serr.ErrBadArgument) || errors.Is(err, serr.ErrGrammar) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(storedGrammarToModel(g), "created grammar %q (%s)", g.Name, g.ID)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a stored grammar and
// its runs. The request must come from a logged-in admin.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	g, err := api.Backend.DeleteGrammar(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrBadArgument) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("deleted grammar %q (%s)", g.Name, g.ID)
}
