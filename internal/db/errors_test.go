package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "get blocked app"))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := WrapError(pgx.ErrNoRows, "get blocked app")
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.Contains(t, err.Error(), "get blocked app")
	})

	t.Run("postgres error keeps code", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
		err := WrapError(pgErr, "list blocked apps")
		assert.False(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "[42P01]")

		var target *pgconn.PgError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapError(cause, "create blocked app")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "create blocked app: connection refused", err.Error())
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/focusbubble")
	assert.Equal(t, "postgres://localhost/focusbubble", cfg.URL)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
}
