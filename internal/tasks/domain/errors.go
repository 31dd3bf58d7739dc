package domain

import "github.com/ranwip/pm-backend/internal/apperr"

func NotFound(id int64) error {
	return apperr.NotFound("Task with ID %d not found", id)
}

func LoggedHoursOutOfRange(id int64, hours int) error {
	return apperr.Validation("Task %d logged hours %d outside 0..%d", id, hours, MaxLoggedHours)
}

func IncrementOutOfRange(id int64, delta int) error {
	return apperr.Validation("Adding %d hours would put task %d outside 0..%d", delta, id, MaxLoggedHours)
}
