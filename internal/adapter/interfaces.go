// Package adapter provides the transport layer between the attendance client
// and its backend.
//
// The primary abstraction is [BackendAdapter], which decouples the service
// layer from the deployment mode. The package ships two implementations: an
// HTTP/REST one backed by resty ([NewHTTPBackendAdapter]) for remote mode,
// and a self-contained demo one ([NewFallbackAdapter]) for deployments with
// no reachable backend. [SelectMode] decides between them once at startup.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
// The fallback implementation fails with the same sentinels.
package adapter

import (
	"context"

	"github.com/nexus-hq/nexus-attendance/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_adapter_mock.go -package=mock

// BackendAdapter defines mode-agnostic communication with the attendance
// backend. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level failures to the sentinel
// values defined in this package.
type BackendAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It is called after a successful
	// Login or Register and when a persisted session is restored.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Login authenticates with the backend. On success it stores the
	// returned bearer token via SetToken and returns the resolved user
	// together with the token. Returns [ErrUnauthorized] (wrapped) when the
	// credentials are rejected.
	Login(ctx context.Context, creds models.Credentials) (models.User, string, error)

	// Register creates a new account and performs the implicit login with
	// the same credentials. The backend assigns the id and the
	// non-privileged role. On success the bearer token is stored via
	// SetToken and returned alongside the resolved user. Returns
	// [ErrBadRequest] on malformed input and [ErrConflict] on a duplicate
	// email.
	Register(ctx context.Context, data models.RegisterData) (models.User, string, error)

	// CurrentUser resolves the profile the current token belongs to.
	// Returns [ErrUnauthorized] (wrapped) when the token is missing, expired
	// or invalid.
	CurrentUser(ctx context.Context) (models.User, error)

	// Logout notifies the backend that the session ends. Backends may fail
	// or ignore this; callers treat it as best-effort.
	Logout(ctx context.Context) error

	// CheckIn opens an attendance session for the current user and returns
	// the backend-assigned record id and check-in timestamp. Returns
	// [ErrConflict] (wrapped) when an open session already exists.
	CheckIn(ctx context.Context, meta models.CheckInMeta) (models.CheckInResponse, error)

	// CheckOut closes the identified attendance record and returns the
	// check-out timestamp and total hours. Returns [ErrNotFound] for an
	// unknown or foreign record and [ErrConflict] for an already-closed one.
	CheckOut(ctx context.Context, attendanceID string) (models.CheckOutResponse, error)

	// History returns up to limit attendance records for the current user,
	// most recent first, skipping the first skip records.
	History(ctx context.Context, limit, skip int) ([]models.AttendanceRecord, error)

	// Users returns all user accounts. Requires an admin token; returns
	// [ErrForbidden] (wrapped) otherwise.
	Users(ctx context.Context) ([]models.User, error)

	// Stats returns the aggregate attendance figures. Requires an admin
	// token; returns [ErrForbidden] (wrapped) otherwise.
	Stats(ctx context.Context) (models.DashboardStats, error)
}
