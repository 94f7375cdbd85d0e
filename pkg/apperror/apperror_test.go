package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, MetadataFor(CodeUnauthorized).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, MetadataFor(CodeForbidden).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor("SOMETHING_ELSE").HTTPStatus)
}

func TestWrapAndAs(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("get profile: %w", Wrap(CodeInternal, cause, "failed to load user"))

	typed := As(err)
	require.NotNil(t, typed)
	assert.Equal(t, CodeInternal, typed.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestIsMatchesSentinel(t *testing.T) {
	sentinel := New(CodeUnauthorized, "invalid credentials")
	wrapped := fmt.Errorf("login: %w", sentinel)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, New(CodeUnauthorized, "inactive user"))
}

func TestWithDetailsDoesNotMutate(t *testing.T) {
	base := New(CodeValidation, "validation failed")
	detailed := base.WithDetails(map[string]string{"username": "required"})

	assert.Nil(t, base.Details())
	assert.NotNil(t, detailed.Details())
	assert.ErrorIs(t, detailed, base)
}
