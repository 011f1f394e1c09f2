package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
)

func TestMapAdapterError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unauthorized", adapter.ErrUnauthorized, ErrAuthentication},
		{"bad request", adapter.ErrBadRequest, ErrValidation},
		{"forbidden", adapter.ErrForbidden, ErrPermission},
		{"not found", adapter.ErrNotFound, ErrNotFound},
		{"conflict", adapter.ErrConflict, ErrConflict},
		{"malformed response", adapter.ErrMalformedResponse, ErrParse},
		{"internal server error", adapter.ErrInternalServerError, ErrNetwork},
		{"transport failure", errors.New("dial tcp: connection refused"), ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAdapterError(fmt.Errorf("%w: details", tt.in))
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "details", "the original message survives mapping")
		})
	}
}

func TestMapAdapterError_Nil(t *testing.T) {
	assert.NoError(t, mapAdapterError(nil))
}
