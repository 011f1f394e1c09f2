// Package service implements the business layer of the attendance client:
// the auth session manager, the attendance tracker, and the admin views.
// Services are stateless over their collaborators (the backend adapter and
// the credential store); the session snapshot itself lives one layer up in
// the session package.
//
// Every operation surfaces failures as one of the sentinel errors defined in
// errors.go, mapped from the adapter's transport errors by errors_mapper.go.
package service

import (
	"context"
	"time"

	"github.com/nexus-hq/nexus-attendance/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// AuthService owns login, registration, logout and session resolution.
type AuthService interface {
	// Login authenticates with the backend. When creds.Remember is set the
	// token and profile are persisted to the credential store. Fails with
	// ErrAuthentication when the credentials are rejected.
	Login(ctx context.Context, creds models.Credentials) (models.User, string, error)

	// Register creates a new non-privileged account and performs the
	// implicit login with the same credentials. The session is always
	// persisted, matching login with remember set. Fails with ErrValidation
	// on malformed or duplicate input.
	Register(ctx context.Context, data models.RegisterData) (models.User, string, error)

	// Logout notifies the backend (best-effort: a failure there is logged,
	// never escalated) and clears the credential store. Local state is
	// cleared regardless of backend reachability.
	Logout(ctx context.Context) error

	// Resolve restores a persisted session: it reads the credential store
	// and resolves the profile the token belongs to. Returns
	// store.ErrNoSession when nothing is persisted. When the token turns
	// out expired or invalid the stored credentials are purged and
	// ErrAuthentication is returned; the caller lands in the anonymous
	// state without seeing a user-facing error.
	Resolve(ctx context.Context) (models.User, string, error)
}

// AttendanceService owns check-in, check-out and history retrieval, and
// derives today's status from history.
type AttendanceService interface {
	// CheckIn opens an attendance session. Unset metadata fields are filled
	// with the configured defaults. The backend is the source of truth for
	// rejecting a duplicate open session (ErrConflict). On success the
	// cached history views are invalidated before the call returns.
	CheckIn(ctx context.Context, meta models.CheckInMeta) (models.AttendanceRecord, error)

	// CheckOut closes the identified record. Fails with ErrNotFound for an
	// unknown or foreign record, ErrConflict for an already-closed one. On
	// success the cached history views are invalidated before the call
	// returns; on failure no cached view changes.
	CheckOut(ctx context.Context, attendanceID string) (models.AttendanceRecord, error)

	// History returns up to limit records, most recent first (strictly by
	// check-in descending, stable for equal timestamps), skipping the first
	// skip records. Reads are served from a cache that mutations
	// invalidate.
	History(ctx context.Context, limit, skip int) ([]models.AttendanceRecord, error)

	// TodayStatus derives "is the user presently checked in, and since
	// when" from History(1, 0): the most recent record is returned only if
	// its check-in falls on the current calendar day, else nil. The view is
	// never stored independently of history.
	TodayStatus(ctx context.Context) (*models.AttendanceRecord, error)

	// Invalidate drops all cached history views. Called on auth
	// transitions so one identity never observes another's history.
	Invalidate()
}

// AdminService owns the admin-only aggregate views.
type AdminService interface {
	// Users returns all user accounts. Fails with ErrPermission for
	// non-admin callers.
	Users(ctx context.Context) ([]models.User, error)

	// Stats returns the aggregate attendance figures. Fails with
	// ErrPermission for non-admin callers.
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// SessionRefreshJob periodically revalidates the session token in the
// background so an expired token is detected without user interaction.
type SessionRefreshJob interface {
	// Start launches the background goroutine. It revalidates every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	// onExpired is invoked (once per detection) when the token is rejected.
	Start(ctx context.Context, interval time.Duration, onExpired func())

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated. Safe to call when the job is not running.
	Stop()
}
