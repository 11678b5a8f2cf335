package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: ErrConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, want: ErrInvalidReference},
		{name: "malformed uuid", err: &pgconn.PgError{Code: "22P02"}, want: ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, TranslateError(tt.err), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, TranslateError(plain))
	assert.NoError(t, TranslateError(nil))
}
