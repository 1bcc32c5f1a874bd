package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", InvalidErr("bad", nil), http.StatusBadRequest},
		{"not found", NotFoundErr("missing"), http.StatusNotFound},
		{"unauthorized", UnauthorizedErr("who"), http.StatusUnauthorized},
		{"forbidden", ForbiddenErr("no"), http.StatusForbidden},
		{"conflict", ConflictErr("dup"), http.StatusConflict},
		{"unavailable", UnavailableErr("down", errors.New("dial")), http.StatusServiceUnavailable},
		{"wrapped internal", Wrap(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"fmt wrapped app error", fmt.Errorf("ctx: %w", NotFoundErr("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		orig := ConflictErr("taken")
		assert.Same(t, orig, Wrap(orig))
	})

	t.Run("internal errors keep cause but hide message", func(t *testing.T) {
		cause := errors.New("db down")
		ae := Wrap(cause)
		require.NotNil(t, ae)
		assert.Equal(t, Internal, ae.Kind)
		assert.ErrorIs(t, ae, cause)
		assert.Equal(t, genericMsg, PublicMessage(ae))
	})
}

func TestPublicMessageAndIs(t *testing.T) {
	err := fmt.Errorf("login: %w", UnauthorizedErr("Invalid email or password."))
	assert.Equal(t, "Invalid email or password.", PublicMessage(err))
	assert.True(t, Is(err, Unauthorized))
	assert.False(t, Is(err, Forbidden))
	assert.Equal(t, genericMsg, PublicMessage(errors.New("x")))
}
