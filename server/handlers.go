package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/ellone/server/api"
	"github.com/dekarrin/ellone/server/metrics"
	"github.com/dekarrin/ellone/server/middle"
	"github.com/dekarrin/ellone/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API, reg prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		result.NotFound().WriteResponse(w)
	})

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/login", newLoginRouter(a))
	r.Mount("/tokens", newTokensRouter(a))
	r.Mount("/grammars", newGrammarsRouter(a))
	r.Mount("/runs", newRunsRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.Post("/parse", a.HTTPParse())
	r.Post("/check-ll1", a.HTTPCheckLL1())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(r).WriteResponse(w)
	})

	return r
}

func newLoginRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateLogin())

	return r
}

func newTokensRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.Backend.AdminPasswordHash, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Post("/", a.HTTPCreateToken())

	return r
}

func newGrammarsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Secret, a.Backend.AdminPasswordHash, a.UnauthDelay)

	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllGrammars())
	r.Post("/", a.HTTPCreateGrammar())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetGrammar())
		r.With(reqAuth).Delete("/", a.HTTPDeleteGrammar())

		r.Get("/runs", a.HTTPGetGrammarRuns())
		r.Post("/runs", a.HTTPCreateRun())
	})

	return r
}

func newRunsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/"+p("id:uuid"), a.HTTPGetRun())

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Secret, a.Backend.AdminPasswordHash, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w)
}
