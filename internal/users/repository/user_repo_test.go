package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ranwip/pm-backend/internal/apperr"
)

func TestDeleteError(t *testing.T) {
	const id = "6f1c2b7e-8a4d-4f3e-9b21-0c5d7e9a1b23"

	err := deleteError(id, fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23503", ConstraintName: "projects_owner_id_fkey"}))
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 409, apperr.HTTPStatus(err))

	assert.NoError(t, deleteError("nope", &pgconn.PgError{Code: "22P02"}))
	assert.NoError(t, deleteError(id, pgx.ErrNoRows))

	boom := errors.New("connection reset")
	assert.ErrorIs(t, deleteError(id, boom), boom)
}
