package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

// registerPayload is validated with go-playground/validator before any
// state changes.
type registerPayload struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	s.mu.Lock()
	var acc *account
	if id, ok := s.emailIndex[email]; ok {
		acc = s.accountsByID[id]
	}
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(payload.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.issueToken(acc.user.ID)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: token, User: acc.user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password hashing failed")
		return
	}

	s.mu.Lock()
	if _, exists := s.emailIndex[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	acc := &account{
		user: models.BackendUser{
			ID:         uuid.NewString(),
			Email:      email,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Department: payload.Department,
			Position:   payload.Position,
			Phone:      payload.Phone,
			CreatedAt:  s.now().UTC(),
		},
		passwordHash: hash,
	}
	s.accountsByID[acc.user.ID] = acc
	s.emailIndex[email] = acc.user.ID
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.RegisterResponse{User: acc.user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)
	writeJSON(w, http.StatusOK, models.CurrentUserResponse{User: acc.user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		s.mu.Lock()
		s.revoked[parts[1]] = struct{}{}
		s.mu.Unlock()
	}

	w.WriteHeader(http.StatusNoContent)
}
