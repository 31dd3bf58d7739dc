package domain

import "github.com/ranwip/pm-backend/internal/apperr"

var (
	ErrEmailTaken         = apperr.Conflict("User with this email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
)

func NotFound(id string) error {
	return apperr.NotFound("User with ID %s not found", id)
}

func StillReferenced(id string) error {
	return apperr.Conflict("User with ID %s still owns projects or reports tasks", id)
}
