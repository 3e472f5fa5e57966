package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("duplicate"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not allowed"), http.StatusForbidden},
		{NotFound("Patient"), http.StatusNotFound},
		{Internal(assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("Patient"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, "Patient not found", appErr.Message)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Conflict("dup"), KindConflict))
	assert.False(t, IsKind(Conflict("dup"), KindNotFound))
	assert.False(t, IsKind(assert.AnError, KindConflict))
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("Validation failed", FieldError{Field: "patientId", Message: "bad format"})
	require.Len(t, err.Fields, 1)
	assert.Equal(t, "patientId", err.Fields[0].Field)
}
