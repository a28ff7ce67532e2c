package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/dekarrin/ellone/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that checks the admin password and
// returns an auth token for the admin.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	err = api.Backend.Login(loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "admin login: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, api.Backend.AdminPasswordHash)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	return result.Created(LoginResponse{Token: tok}, "admin successfully logged in")
}
