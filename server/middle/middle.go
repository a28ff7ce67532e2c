// Package middle contains middleware for use with the ellone server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/ellone/server/result"
	"github.com/dekarrin/ellone/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool telling whether the request carried a valid
	// admin token.
	AuthLoggedIn AuthKey = iota
)

// AuthHandler is middleware that checks the bearer token of a request against
// the admin credentials and records the result under AuthLoggedIn in the
// request context. If required is set, requests without a valid token get an
// HTTP-401 and never reach next.
type AuthHandler struct {
	secret        []byte
	passHash      string
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool

	tok, err := token.Get(req)
	if err == nil {
		err = token.Validate(tok, ah.secret, ah.passHash)
	}

	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			r := result.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			r.WriteResponse(w)
			return
		}
	} else {
		loggedIn = true
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns middleware that rejects requests without a valid admin
// token.
func RequireAuth(secret []byte, passHash string, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			passHash:      passHash,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth returns middleware that records whether a request has a valid
// admin token but lets it through either way.
func OptionalAuth(secret []byte, passHash string, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			passHash:      passHash,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}
