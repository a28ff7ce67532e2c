// Package token creates and checks the JWTs that authorize admin requests to
// the ellone server.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer is the issuer of every token.
	Issuer = "elloned"

	// Subject is the only subject a token is issued for.
	Subject = "admin"

	// Lifetime is how long a token stays valid.
	Lifetime = time.Hour
)

// Generate creates a signed token for the admin. The signing key includes
// passHash so that changing the admin password invalidates every token
// issued before the change.
func Generate(secret []byte, passHash string) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        Issuer,
		"exp":        time.Now().Add(Lifetime).Unix(),
		"sub":        Subject,
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, passHash))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// Validate checks that tok is an unexpired admin token signed with the key
// Generate would use for secret and passHash.
func Validate(tok string, secret []byte, passHash string) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		if subj != Subject {
			return nil, fmt.Errorf("subject %q is not the admin", subj)
		}

		return signKey(secret, passHash), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	return err
}

// Get returns the bearer token in the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

func signKey(secret []byte, passHash string) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(passHash)...)
	return key
}
