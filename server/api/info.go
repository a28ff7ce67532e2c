package api

import (
	"net/http"

	"github.com/dekarrin/ellone/internal/version"
	"github.com/dekarrin/ellone/server/middle"
	"github.com/dekarrin/ellone/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// a value denoting whether the client making the request is logged-in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Ellone = version.Current
	resp.Admin = loggedIn

	clientStr := "unauthed client"
	if loggedIn {
		clientStr = "admin"
	}
	return result.OK(resp, "%s got API info", clientStr)
}
