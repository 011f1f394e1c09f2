package adapter

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

// Built-in demo identity accepted by the fallback adapter. Any other
// email/password pair fails with ErrUnauthorized, exactly like a real
// backend would reject bad credentials.
const (
	DemoEmail    = "admin@nexus.com"
	demoPassword = "Admin@123"
)

// DemoAdmin is the profile resolved for the built-in demo identity.
func DemoAdmin() models.User {
	return models.User{
		ID:         "1",
		Email:      DemoEmail,
		FirstName:  "Sarah",
		LastName:   "Chen",
		Role:       models.RoleAdmin,
		Department: "Engineering",
		Position:   "System Administrator",
		Phone:      "+1 555-0100",
		IsActive:   true,
		CreatedAt:  time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC),
	}
}

// ProfileSource resolves the cached user profile for a restored session.
// Returns false when no profile is cached.
type ProfileSource func(ctx context.Context) (models.User, bool)

// FallbackOptions configures [NewFallbackAdapter].
type FallbackOptions struct {
	// Profile resolves the cached profile for CurrentUser when the adapter
	// holds a restored token but no in-memory identity. Optional; when nil
	// (or when it reports no profile) CurrentUser falls back to [DemoAdmin].
	Profile ProfileSource

	// Now supplies timestamps; defaults to time.Now. Tests override it.
	Now func() time.Time
}

type fallbackBackendAdapter struct {
	logger  *logger.Logger
	profile ProfileSource
	now     func() time.Time

	mu     sync.Mutex
	token  string
	user   *models.User
	open   *models.AttendanceRecord
	closed map[string]struct{}
}

// NewFallbackAdapter constructs the self-contained implementation of
// [BackendAdapter] used when no backend is configured. It keeps all state in
// memory: a single demo identity, the current open attendance session, and
// the set of already-closed record ids. History is never persisted, so
// History always reports an empty sequence.
func NewFallbackAdapter(opts FallbackOptions, log *logger.Logger) BackendAdapter {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &fallbackBackendAdapter{
		logger:  log,
		profile: opts.Profile,
		now:     now,
		closed:  make(map[string]struct{}),
	}
}

// SetToken implements [BackendAdapter].
func (f *fallbackBackendAdapter) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = strings.TrimSpace(token)
}

// Token implements [BackendAdapter].
func (f *fallbackBackendAdapter) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// Login implements [BackendAdapter]. Only the built-in demo pair is
// accepted.
func (f *fallbackBackendAdapter) Login(_ context.Context, creds models.Credentials) (models.User, string, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(creds.Email), DemoEmail)
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(demoPassword)) == 1
	if !emailOK || !passOK {
		return models.User{}, "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	user := DemoAdmin()
	token := "demo_token_" + uuid.NewString()

	f.mu.Lock()
	f.token = token
	f.user = &user
	f.mu.Unlock()

	f.logger.Debug().Str("email", user.Email).Msg("fallback login accepted")
	return user, token, nil
}

// Register implements [BackendAdapter]. Registration always succeeds in
// fallback mode: a fresh non-privileged user is synthesized and immediately
// authenticated.
func (f *fallbackBackendAdapter) Register(_ context.Context, data models.RegisterData) (models.User, string, error) {
	user := models.User{
		ID:         uuid.NewString(),
		Email:      strings.ToLower(strings.TrimSpace(data.Email)),
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Role:       models.RoleUser,
		Department: data.Department,
		Position:   data.Position,
		Phone:      data.Phone,
		IsActive:   true,
		CreatedAt:  f.now(),
	}
	token := "demo_token_" + uuid.NewString()

	f.mu.Lock()
	f.token = token
	f.user = &user
	f.mu.Unlock()

	return user, token, nil
}

// CurrentUser implements [BackendAdapter]. With no in-memory identity (a
// session restored from the credential store) the cached profile is used,
// and failing that the demo admin.
func (f *fallbackBackendAdapter) CurrentUser(ctx context.Context) (models.User, error) {
	f.mu.Lock()
	token, user := f.token, f.user
	f.mu.Unlock()

	if token == "" {
		return models.User{}, fmt.Errorf("%w: no session", ErrUnauthorized)
	}
	if user != nil {
		return *user, nil
	}
	if f.profile != nil {
		if cached, ok := f.profile(ctx); ok {
			return cached, nil
		}
	}
	return DemoAdmin(), nil
}

// Logout implements [BackendAdapter]. It drops the in-memory session; there
// is no backend to notify.
func (f *fallbackBackendAdapter) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.user = nil
	f.open = nil
	return nil
}

// CheckIn implements [BackendAdapter]. The adapter is its own source of
// truth for the single-open-session rule in fallback mode.
func (f *fallbackBackendAdapter) CheckIn(_ context.Context, meta models.CheckInMeta) (models.CheckInResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token == "" {
		return models.CheckInResponse{}, fmt.Errorf("%w: no session", ErrUnauthorized)
	}
	if f.open != nil {
		return models.CheckInResponse{}, fmt.Errorf("%w: already checked in", ErrConflict)
	}

	userID := ""
	if f.user != nil {
		userID = f.user.ID
	}

	record := models.AttendanceRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		CheckIn:  f.now(),
		Status:   models.StatusCheckedIn,
		Location: meta.Location,
		Device:   meta.DeviceID,
	}
	f.open = &record

	return models.CheckInResponse{AttendanceID: record.ID, CheckInTime: record.CheckIn}, nil
}

// CheckOut implements [BackendAdapter]. Total hours are the real elapsed
// wall-clock time, clamped to be non-negative.
func (f *fallbackBackendAdapter) CheckOut(_ context.Context, attendanceID string) (models.CheckOutResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token == "" {
		return models.CheckOutResponse{}, fmt.Errorf("%w: no session", ErrUnauthorized)
	}
	if f.open == nil || f.open.ID != attendanceID {
		if _, ok := f.closed[attendanceID]; ok {
			return models.CheckOutResponse{}, fmt.Errorf("%w: record already closed", ErrConflict)
		}
		return models.CheckOutResponse{}, fmt.Errorf("%w: attendance record %s", ErrNotFound, attendanceID)
	}

	checkOut := f.now()
	hours := checkOut.Sub(f.open.CheckIn).Hours()
	if hours < 0 {
		hours = 0
	}

	f.closed[attendanceID] = struct{}{}
	f.open = nil

	return models.CheckOutResponse{CheckOutTime: checkOut, TotalHours: hours}, nil
}

// History implements [BackendAdapter]. Fallback mode keeps no persisted
// history.
func (f *fallbackBackendAdapter) History(context.Context, int, int) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{}, nil
}

// Users implements [BackendAdapter].
func (f *fallbackBackendAdapter) Users(context.Context) ([]models.User, error) {
	return []models.User{}, nil
}

// Stats implements [BackendAdapter].
func (f *fallbackBackendAdapter) Stats(context.Context) (models.DashboardStats, error) {
	return models.DashboardStats{}, nil
}
