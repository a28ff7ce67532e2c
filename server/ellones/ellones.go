// Package ellones has services for interacting with the ellone server backend
// decoupled from the API that accesses it.
package ellones

import (
	"github.com/dekarrin/ellone/server/dao"
)

// Service is a service for analyzing grammars, parsing with them, and keeping
// the grammars and runs in persistence.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// AdminPasswordHash is the base64 encoding of the bcrypt hash of the admin
	// password.
	AdminPasswordHash string
}
