package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("create tag: %w", ErrTagExists)

	assert.ErrorIs(t, wrapped, ErrTagExists)
	assert.NotErrorIs(t, wrapped, ErrTagNotFound)
	assert.NotErrorIs(t, wrapped, ErrValidation)

	assert.ErrorIs(t, ErrUnknownTag, ErrValidation)
	assert.ErrorIs(t, ValidationWithDetails("validation failed", map[string]string{"name": "is required"}), ErrValidation)
}

func TestStatusOf(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrAlreadyFavorited))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(ErrTokenRevoked))
	assert.Equal(t, http.StatusForbidden, StatusOf(ErrAdminOnly))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("wrap: %w", ErrRecipeNotFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(ErrHashPasswordFailed.WithCause(cause)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(cause))
}
