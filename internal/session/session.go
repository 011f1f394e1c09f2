// Package session exposes the consumer-facing session context: the single
// AuthState snapshot plus the action functions the presentational layer
// calls. It is constructed once per process and injected into consumers;
// nothing here is an ambient global.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/service"
	"github.com/nexus-hq/nexus-attendance/internal/store"
	"github.com/nexus-hq/nexus-attendance/models"
)

// Session is the sole integration point between the core and its consumers.
//
// It owns the process's one AuthState: created loading, resolved by
// Initialize, replaced on login/register, reset on logout. All state
// transitions happen under the mutex, and every transition bumps a
// generation counter so that a slow operation completing after a newer
// transition is discarded instead of clobbering it.
type Session struct {
	services        *service.Services
	logger          *logger.Logger
	refreshInterval time.Duration

	mu    sync.RWMutex
	state models.AuthState
	gen   uint64
}

// New constructs a Session in the loading state. Call Initialize before
// trusting the snapshot.
func New(services *service.Services, refreshInterval time.Duration, log *logger.Logger) *Session {
	return &Session{
		services:        services,
		logger:          log,
		refreshInterval: refreshInterval,
		state:           models.AuthState{IsLoading: true},
	}
}

// State returns the current AuthState snapshot. Consumers must not assume
// authentication status while IsLoading is true.
func (s *Session) State() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Initialize resolves the persisted session exactly once at application
// start. A missing session, an expired token, or a failed resolution all
// land in the anonymous state without surfacing an error to the user; only
// unexpected storage failures are returned. On success the background
// refresh job starts.
func (s *Session) Initialize(ctx context.Context) error {
	gen := s.generation()

	user, token, err := s.services.Auth.Resolve(ctx)
	if err != nil {
		s.apply(gen, models.AnonymousState())
		if errors.Is(err, store.ErrNoSession) ||
			errors.Is(err, service.ErrAuthentication) ||
			errors.Is(err, service.ErrNetwork) {
			s.logger.Debug().Err(err).Msg("initialized anonymous")
			return nil
		}
		return err
	}

	if s.apply(gen, models.AuthenticatedState(user, token)) {
		s.startRefresh(ctx)
	}
	return nil
}

// Login authenticates and transitions to the authenticated state. On
// failure the prior state is left unchanged. Fails with
// service.ErrAuthentication on rejected credentials; the error carries the
// message to show the user.
func (s *Session) Login(ctx context.Context, creds models.Credentials) error {
	gen := s.generation()

	user, token, err := s.services.Auth.Login(ctx, creds)
	if err != nil {
		return err
	}

	if s.apply(gen, models.AuthenticatedState(user, token)) {
		s.services.Attendance.Invalidate()
		s.startRefresh(ctx)
	}
	return nil
}

// Register creates an account and transitions to the authenticated state
// under the new identity. Fails with service.ErrValidation on malformed or
// duplicate input; prior state is left unchanged on failure.
func (s *Session) Register(ctx context.Context, data models.RegisterData) error {
	gen := s.generation()

	user, token, err := s.services.Auth.Register(ctx, data)
	if err != nil {
		return err
	}

	if s.apply(gen, models.AuthenticatedState(user, token)) {
		s.services.Attendance.Invalidate()
		s.startRefresh(ctx)
	}
	return nil
}

// Logout resets to the anonymous state. The local reset happens regardless
// of backend reachability; only a credential-store failure is reported.
func (s *Session) Logout(ctx context.Context) error {
	s.services.Refresh.Stop()

	err := s.services.Auth.Logout(ctx)

	gen := s.generation()
	s.apply(gen, models.AnonymousState())
	s.services.Attendance.Invalidate()

	return err
}

// CheckIn opens an attendance session for the current user. The attendance
// layer does not know the caller's identity, so the returned record is
// stamped with the current user's id here to match what History reports for
// the same event.
func (s *Session) CheckIn(ctx context.Context, meta models.CheckInMeta) (models.AttendanceRecord, error) {
	record, err := s.services.Attendance.CheckIn(ctx, meta)
	if err != nil {
		return record, err
	}
	return s.stampOwner(record), nil
}

// CheckOut closes the identified attendance record.
func (s *Session) CheckOut(ctx context.Context, attendanceID string) (models.AttendanceRecord, error) {
	record, err := s.services.Attendance.CheckOut(ctx, attendanceID)
	if err != nil {
		return record, err
	}
	return s.stampOwner(record), nil
}

// stampOwner fills the record's UserID from the authenticated user when the
// backend response did not carry one.
func (s *Session) stampOwner(record models.AttendanceRecord) models.AttendanceRecord {
	if record.UserID != "" {
		return record
	}
	if st := s.State(); st.User != nil {
		record.UserID = st.User.ID
	}
	return record
}

// History returns the current user's attendance records, most recent first.
func (s *Session) History(ctx context.Context, limit, skip int) ([]models.AttendanceRecord, error) {
	return s.services.Attendance.History(ctx, limit, skip)
}

// TodayStatus reports whether the current user is presently checked in, and
// since when. Nil means no record for today.
func (s *Session) TodayStatus(ctx context.Context) (*models.AttendanceRecord, error) {
	return s.services.Attendance.TodayStatus(ctx)
}

// Users returns all accounts (admin only).
func (s *Session) Users(ctx context.Context) ([]models.User, error) {
	return s.services.Admin.Users(ctx)
}

// Stats returns the aggregate dashboard figures (admin only).
func (s *Session) Stats(ctx context.Context) (models.DashboardStats, error) {
	return s.services.Admin.Stats(ctx)
}

// Close stops the background refresh job. The session is not reusable
// afterwards.
func (s *Session) Close() {
	s.services.Refresh.Stop()
}

// startRefresh launches the background token revalidation. When the token
// is rejected mid-session the user lands in the anonymous state without an
// error: the automatic local logout. The state transition gates the cleanup:
// a callback that fires after a newer session was installed is discarded
// whole, so it never clears the fresh session's token or credentials.
func (s *Session) startRefresh(ctx context.Context) {
	gen := s.generation()
	s.services.Refresh.Start(ctx, s.refreshInterval, func() {
		if !s.apply(gen, models.AnonymousState()) {
			return
		}
		if err := s.services.Auth.Logout(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("local logout after token expiry")
		}
		s.services.Attendance.Invalidate()
	})
}

// generation returns the counter value identifying the current state. A
// transition started now may only be applied while the counter is
// unchanged.
func (s *Session) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// apply installs next if no other transition completed since gen was
// captured. Returns whether the state was installed. Last write wins by
// completion order, matching the documented cancellation contract.
func (s *Session) apply(gen uint64, next models.AuthState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		s.logger.Debug().Uint64("gen", gen).Msg("discarding stale auth transition")
		return false
	}

	s.gen++
	s.state = next
	return true
}
