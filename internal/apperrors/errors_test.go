package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validationf("bad input"), http.StatusBadRequest},
		{Conflictf("already exists"), http.StatusBadRequest},
		{Unauthorizedf("no token"), http.StatusUnauthorized},
		{Forbiddenf("not admin"), http.StatusForbidden},
		{NotFoundf("missing"), http.StatusNotFound},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "group not found", PublicMessage(NotFoundf("group not found")))

	// Internal details never leak to the caller.
	assert.Equal(t, "internal server error", PublicMessage(Internal(errors.New("pq: connection refused"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestIsKind(t *testing.T) {
	err := Forbiddenf("only admins")
	assert.True(t, IsKind(err, KindForbidden))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindForbidden))

	// Works through wrapping.
	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsKind(wrapped, KindForbidden))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db down")
}
