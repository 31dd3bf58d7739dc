package domain

import "github.com/ranwip/pm-backend/internal/apperr"

func NotFound(id int64) error {
	return apperr.NotFound("Time entry with ID %d not found", id)
}
