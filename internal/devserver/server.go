// Package devserver is a self-contained, in-memory implementation of the
// attendance backend HTTP contract. It exists for local development and
// integration testing of the client core; it keeps no durable state and
// must never face real traffic.
package devserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

type ctxKey int

const ctxKeyAccount ctxKey = iota

// account pairs the wire-visible user record with its password hash.
type account struct {
	user         models.BackendUser
	passwordHash []byte
}

// Server is the in-memory backend. All maps are guarded by mu; the dataset
// is small enough that a single lock is the right tool.
type Server struct {
	logger   *logger.Logger
	signKey  []byte
	validate *validator.Validate
	now      func() time.Time

	mu           sync.Mutex
	accountsByID map[string]*account
	emailIndex   map[string]string
	records      map[string]*models.BackendRecord
	revoked      map[string]struct{}
}

// New constructs a Server seeded with the demo admin account
// (admin@nexus.com / Admin@123) so a fresh instance is immediately usable.
func New(signKey string, log *logger.Logger) *Server {
	s := &Server{
		logger:       log,
		signKey:      []byte(signKey),
		validate:     validator.New(),
		now:          time.Now,
		accountsByID: make(map[string]*account),
		emailIndex:   make(map[string]string),
		records:      make(map[string]*models.BackendRecord),
		revoked:      make(map[string]struct{}),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin password hash")
	}

	admin := &account{
		user: models.BackendUser{
			ID:        uuid.NewString(),
			Email:     "admin@nexus.com",
			FirstName: "Sarah",
			LastName:  "Chen",
			IsAdmin:   true,
			CreatedAt: s.now().UTC(),
		},
		passwordHash: hash,
	}
	s.accountsByID[admin.user.ID] = admin
	s.emailIndex[admin.user.Email] = admin.user.ID

	return s
}

// Router assembles the route tree. Auth endpoints are public except
// /auth/me and /auth/logout; everything under /api requires a valid bearer
// token.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/me", s.handleMe)
		r.Post("/auth/logout", s.handleLogout)

		r.Post("/api/check-in", s.handleCheckIn)
		r.Post("/api/check-out/{id}", s.handleCheckOut)
		r.Get("/api/attendance", s.handleHistory)
		r.Get("/api/users", s.handleUsers)
		r.Get("/api/stats", s.handleStats)
	})

	return r
}

// requestLogger attaches a request-scoped logger so handlers can use
// logger.FromRequest.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := s.logger.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
	})
}

// authenticate resolves the bearer token to an account and stores it in the
// request context. 401 on a missing, malformed, expired, or revoked token.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.parseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		s.mu.Lock()
		_, tokenRevoked := s.revoked[parts[1]]
		acc, ok := s.accountsByID[userID]
		s.mu.Unlock()

		if tokenRevoked || !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyAccount, acc)))
	})
}

// accountFrom returns the authenticated account stored by the middleware.
func accountFrom(r *http.Request) *account {
	acc, _ := r.Context().Value(ctxKeyAccount).(*account)
	return acc
}
