package ellones

import (
	"encoding/base64"
	"errors"

	"github.com/dekarrin/ellone/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies password against the admin password hash.
//
// The returned error, if non-nil, will match serr.ErrBadCredentials if the
// password is wrong.
func (svc Service) Login(password string) error {
	bcryptHash, err := base64.StdEncoding.DecodeString(svc.AdminPasswordHash)
	if err != nil {
		return serr.New("admin password hash is not valid base64", err)
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return serr.ErrBadCredentials
		}
		return serr.New("check admin password", err)
	}

	return nil
}

// HashPassword gives the value for Service.AdminPasswordHash that matches
// password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}
