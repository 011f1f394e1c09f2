package service

import (
	"errors"
	"fmt"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into the service
// taxonomy. The original message is retained as the human-readable part.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, adapter.ErrForbidden):
		return fmt.Errorf("%w: %v", ErrPermission, err)
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, adapter.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, adapter.ErrMalformedResponse):
		return fmt.Errorf("%w: %v", ErrParse, err)
	default:
		// Transport-level failures and backend 5xx both mean the backend
		// could not serve the call.
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}
