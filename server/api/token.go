package api

import (
	"net/http"

	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token to a client
// that is already logged in as the admin.
//
// The handler must be behind middleware that rejects requests without a valid
// token.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	tok, err := token.Generate(api.Secret, api.Backend.AdminPasswordHash)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	return result.Created(LoginResponse{Token: tok}, "admin successfully created new token")
}
