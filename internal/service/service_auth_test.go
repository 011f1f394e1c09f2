package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/mock"
	"github.com/nexus-hq/nexus-attendance/internal/store"
	"github.com/nexus-hq/nexus-attendance/models"
)

// newTestAuthSvc builds an authService over mocked collaborators with a fixed
// clock.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockBackendAdapter, *mock.MockCredentialStore) {
	t.Helper()
	mockAdapter := mock.NewMockBackendAdapter(ctrl)
	mockStore := mock.NewMockCredentialStore(ctrl)

	svc := NewAuthService(mockStore, mockAdapter, logger.Nop()).(*authService)
	svc.now = func() time.Time { return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC) }

	return svc, mockAdapter, mockStore
}

func demoUser() models.User {
	return models.User{
		ID:        "1",
		Email:     "sarah@nexus.com",
		FirstName: "Sarah",
		LastName:  "Chen",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
}

// expiredJWT returns a signed token whose exp claim is in the past relative
// to the test clock.
func expiredJWT(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "1",
		"exp": time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthLogin_Success_NoRemember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	creds := models.Credentials{Email: "sarah@nexus.com", Password: "secret"}
	mockAdapter.EXPECT().Login(ctx, creds).Return(demoUser(), "token-123", nil)
	// No Save expectation: without Remember nothing is persisted.

	user, token, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, "1", user.ID)
}

func TestAuthLogin_Success_RememberPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	creds := models.Credentials{Email: "sarah@nexus.com", Password: "secret", Remember: true}
	user := demoUser()

	gomock.InOrder(
		mockAdapter.EXPECT().Login(ctx, creds).Return(user, "token-123", nil),
		mockStore.EXPECT().Save(ctx, "token-123", user).Return(nil),
	)

	_, _, err := svc.Login(ctx, creds)
	require.NoError(t, err)
}

func TestAuthLogin_PersistFailureDoesNotFailLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	creds := models.Credentials{Email: "sarah@nexus.com", Password: "secret", Remember: true}
	mockAdapter.EXPECT().Login(ctx, creds).Return(demoUser(), "token-123", nil)
	mockStore.EXPECT().Save(ctx, "token-123", gomock.Any()).Return(errors.New("disk full"))

	user, token, err := svc.Login(ctx, creds)
	require.NoError(t, err, "a live session must not be sacrificed to a persistence failure")
	assert.Equal(t, "token-123", token)
	assert.Equal(t, "1", user.ID)
}

func TestAuthLogin_RejectedCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, gomock.Any()).
		Return(models.User{}, "", fmt.Errorf("%w: invalid email or password", adapter.ErrUnauthorized))

	_, _, err := svc.Login(ctx, models.Credentials{Email: "sarah@nexus.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthLogin_BackendUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, gomock.Any()).
		Return(models.User{}, "", errors.New("dial tcp: connection refused"))

	_, _, err := svc.Login(ctx, models.Credentials{Email: "sarah@nexus.com", Password: "secret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

// ── Register ────────────────────────────────────────────────────────────────

func TestAuthRegister_SuccessAlwaysPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	data := models.RegisterData{Email: "new@nexus.com", Password: "Str0ngPass!", FirstName: "New", LastName: "Hire"}
	user := models.User{ID: "42", Email: "new@nexus.com", Role: models.RoleUser, IsActive: true}

	gomock.InOrder(
		mockAdapter.EXPECT().Register(ctx, data).Return(user, "fresh-token", nil),
		mockStore.EXPECT().Save(ctx, "fresh-token", user).Return(nil),
	)

	got, token, err := svc.Register(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestAuthRegister_DuplicateEmailIsValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Register(ctx, gomock.Any()).
		Return(models.User{}, "", fmt.Errorf("%w: email already registered", adapter.ErrConflict))

	_, _, err := svc.Register(ctx, models.RegisterData{Email: "dup@nexus.com", Password: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestAuthRegister_MalformedInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Register(ctx, gomock.Any()).
		Return(models.User{}, "", fmt.Errorf("%w: password too short", adapter.ErrBadRequest))

	_, _, err := svc.Register(ctx, models.RegisterData{Email: "new@nexus.com", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

// ── Logout ──────────────────────────────────────────────────────────────────

func TestAuthLogout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().Logout(ctx).Return(nil),
		mockAdapter.EXPECT().SetToken(""),
		mockStore.EXPECT().Clear(ctx).Return(nil),
	)

	require.NoError(t, svc.Logout(ctx))
}

func TestAuthLogout_BackendFailureStillClearsLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().Logout(ctx).Return(errors.New("dial tcp: connection refused")),
		mockAdapter.EXPECT().SetToken(""),
		mockStore.EXPECT().Clear(ctx).Return(nil),
	)

	require.NoError(t, svc.Logout(ctx), "an unreachable backend never blocks local logout")
}

func TestAuthLogout_ClearFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Logout(ctx).Return(nil)
	mockAdapter.EXPECT().SetToken("")
	mockStore.EXPECT().Clear(ctx).Return(errors.New("database is locked"))

	err := svc.Logout(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear persisted session")
}

// ── Resolve ─────────────────────────────────────────────────────────────────

func TestAuthResolve_NoPersistedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().Load(ctx).Return("", models.User{}, store.ErrNoSession)

	_, _, err := svc.Resolve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestAuthResolve_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := demoUser()

	gomock.InOrder(
		mockStore.EXPECT().Load(ctx).Return("opaque-token", user, nil),
		mockAdapter.EXPECT().SetToken("opaque-token"),
		mockAdapter.EXPECT().CurrentUser(ctx).Return(user, nil),
		// Profile unchanged: no refresh write.
	)

	got, token, err := svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
	assert.Equal(t, user, got)
}

func TestAuthResolve_RefreshesChangedProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	cached := demoUser()
	fresh := cached
	fresh.Position = "VP Engineering"

	gomock.InOrder(
		mockStore.EXPECT().Load(ctx).Return("opaque-token", cached, nil),
		mockAdapter.EXPECT().SetToken("opaque-token"),
		mockAdapter.EXPECT().CurrentUser(ctx).Return(fresh, nil),
		mockStore.EXPECT().Save(ctx, "opaque-token", fresh).Return(nil),
	)

	got, _, err := svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VP Engineering", got.Position)
}

func TestAuthResolve_VisiblyExpiredJWTSkipsBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token := expiredJWT(t)

	gomock.InOrder(
		mockStore.EXPECT().Load(ctx).Return(token, demoUser(), nil),
		mockAdapter.EXPECT().SetToken(token),
		// No CurrentUser call: the token is visibly dead.
		mockAdapter.EXPECT().SetToken(""),
		mockStore.EXPECT().Clear(ctx).Return(nil),
	)

	_, _, err := svc.Resolve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthResolve_RejectedTokenPurgesCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockStore.EXPECT().Load(ctx).Return("revoked-token", demoUser(), nil),
		mockAdapter.EXPECT().SetToken("revoked-token"),
		mockAdapter.EXPECT().CurrentUser(ctx).
			Return(models.User{}, fmt.Errorf("%w: token revoked", adapter.ErrUnauthorized)),
		mockAdapter.EXPECT().SetToken(""),
		mockStore.EXPECT().Clear(ctx).Return(nil),
	)

	_, _, err := svc.Resolve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthResolve_NetworkFailureKeepsCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockStore.EXPECT().Load(ctx).Return("opaque-token", demoUser(), nil),
		mockAdapter.EXPECT().SetToken("opaque-token"),
		mockAdapter.EXPECT().CurrentUser(ctx).
			Return(models.User{}, errors.New("dial tcp: connection refused")),
		// No Clear: the session may still be valid once the backend is back.
	)

	_, _, err := svc.Resolve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}
