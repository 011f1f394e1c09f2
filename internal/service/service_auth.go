package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/store"
	"github.com/nexus-hq/nexus-attendance/models"
)

type authService struct {
	credentials store.CredentialStore
	adapter     adapter.BackendAdapter
	logger      *logger.Logger
	now         func() time.Time
}

// NewAuthService constructs the [AuthService] over the given credential
// store and backend adapter.
func NewAuthService(credentials store.CredentialStore, backend adapter.BackendAdapter, log *logger.Logger) AuthService {
	return &authService{
		credentials: credentials,
		adapter:     backend,
		logger:      log,
		now:         time.Now,
	}
}

// Login implements [AuthService].
func (a *authService) Login(ctx context.Context, creds models.Credentials) (models.User, string, error) {
	user, token, err := a.adapter.Login(ctx, creds)
	if err != nil {
		return models.User{}, "", mapAdapterError(err)
	}

	if creds.Remember {
		if err = a.credentials.Save(ctx, token, user); err != nil {
			// The session is live either way; it just won't survive a
			// restart.
			a.logger.Warn().Err(err).Msg("failed to persist session")
		}
	}

	a.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return user, token, nil
}

// Register implements [AuthService]. A duplicate email surfaces as
// ErrValidation: from the form's point of view the input, not the state, is
// wrong.
func (a *authService) Register(ctx context.Context, data models.RegisterData) (models.User, string, error) {
	user, token, err := a.adapter.Register(ctx, data)
	if err != nil {
		if errors.Is(err, adapter.ErrConflict) {
			return models.User{}, "", fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return models.User{}, "", mapAdapterError(err)
	}

	if err = a.credentials.Save(ctx, token, user); err != nil {
		a.logger.Warn().Err(err).Msg("failed to persist session")
	}

	a.logger.Info().Str("user_id", user.ID).Msg("registration succeeded")
	return user, token, nil
}

// Logout implements [AuthService].
func (a *authService) Logout(ctx context.Context) error {
	if err := a.adapter.Logout(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("backend logout notification failed")
	}
	a.adapter.SetToken("")

	if err := a.credentials.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}

	return nil
}

// Resolve implements [AuthService].
func (a *authService) Resolve(ctx context.Context) (models.User, string, error) {
	token, cached, err := a.credentials.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoSession) {
			return models.User{}, "", err
		}
		return models.User{}, "", fmt.Errorf("read credential store: %w", err)
	}

	a.adapter.SetToken(token)

	// Skip the doomed who-am-I call when the token is a JWT that has
	// visibly expired.
	if adapter.TokenExpired(token, a.now()) {
		a.purge(ctx)
		return models.User{}, "", fmt.Errorf("%w: persisted token expired", ErrAuthentication)
	}

	user, err := a.adapter.CurrentUser(ctx)
	if err != nil {
		mapped := mapAdapterError(err)
		if errors.Is(mapped, ErrAuthentication) {
			// Expired or revoked token: purge so the next start goes
			// straight to anonymous.
			a.purge(ctx)
		}
		return models.User{}, "", mapped
	}

	// Refresh the cached profile; the backend copy is canonical.
	if user != cached {
		if err = a.credentials.Save(ctx, token, user); err != nil {
			a.logger.Warn().Err(err).Msg("failed to refresh cached profile")
		}
	}

	a.logger.Info().Str("user_id", user.ID).Msg("session restored")
	return user, token, nil
}

func (a *authService) purge(ctx context.Context) {
	a.adapter.SetToken("")
	if err := a.credentials.Clear(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("failed to purge stored credentials")
	}
}
