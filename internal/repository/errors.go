// Package repository implements the persistence layer over *sql.DB.
// Sentinel errors defined here let services and handlers distinguish
// failure scenarios without inspecting driver error strings.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique index
// on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
