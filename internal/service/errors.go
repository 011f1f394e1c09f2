package service

import "errors"

// The error taxonomy surfaced to the UI layer. Every operation failure
// wraps exactly one of these, so callers branch with errors.Is and show the
// wrapped human-readable message.
var (
	// ErrAuthentication covers rejected credentials and expired or invalid
	// tokens.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation covers malformed or duplicate registration input.
	ErrValidation = errors.New("invalid input")

	// ErrConflict covers a duplicate open session and an already-closed
	// record.
	ErrConflict = errors.New("conflict")

	// ErrNotFound covers unknown or foreign records.
	ErrNotFound = errors.New("not found")

	// ErrPermission covers admin-only operations called without the admin
	// role.
	ErrPermission = errors.New("permission denied")

	// ErrNetwork covers transport failures and an unreachable backend.
	ErrNetwork = errors.New("backend unreachable")

	// ErrParse covers 2xx responses whose body could not be decoded.
	ErrParse = errors.New("malformed backend response")
)
