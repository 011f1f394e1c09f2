package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

func newTestStore(t *testing.T) (*sqliteCredentialStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := &sqliteCredentialStore{
		db:      db,
		logger:  logger.Nop(),
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	return s, mock, db
}

func testUser() models.User {
	return models.User{
		ID:        "1",
		Email:     "sarah@nexus.com",
		FirstName: "Sarah",
		LastName:  "Chen",
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC),
	}
}

// ── Save ────────────────────────────────────────────────────────────────────

func TestSave_Success(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	user := testUser()
	profile, err := json.Marshal(user)
	require.NoError(t, err)

	mock.ExpectExec("INSERT OR REPLACE INTO session").
		WithArgs(1, "token-123", string(profile), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = s.Save(context.Background(), "token-123", user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectExec("INSERT OR REPLACE INTO session").
		WillReturnError(errors.New("disk I/O error"))

	err := s.Save(context.Background(), "token-123", testUser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

// ── Load ────────────────────────────────────────────────────────────────────

func TestLoad_Success(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	want := testUser()
	profile, err := json.Marshal(want)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"token", "profile"}).
		AddRow("token-123", string(profile))

	mock.ExpectQuery("SELECT token, profile FROM session").
		WithArgs(1).
		WillReturnRows(rows)

	token, user, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.True(t, want.CreatedAt.Equal(user.CreatedAt))
	user.CreatedAt = want.CreatedAt
	assert.Equal(t, want, user)
}

func TestLoad_NoSession(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT token, profile FROM session").
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	_, _, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoad_CorruptProfileTreatedAsNoSession(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"token", "profile"}).
		AddRow("token-123", "{not valid json")

	mock.ExpectQuery("SELECT token, profile FROM session").
		WithArgs(1).
		WillReturnRows(rows)

	_, _, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoad_DBError(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT token, profile FROM session").
		WillReturnError(errors.New("database is locked"))

	_, _, err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
	assert.Contains(t, err.Error(), "load session")
}

// ── Clear ───────────────────────────────────────────────────────────────────

func TestClear_Success(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM session").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_EmptyStoreIsNotAnError(t *testing.T) {
	s, mock, db := newTestStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM session").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Clear(context.Background()))
}

// ── Round-trip against a real sqlite file ───────────────────────────────────

func TestSQLiteStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Store{Path: dir + "/session.db"}
	ctx := context.Background()

	s, err := NewSQLiteCredentialStore(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// Fresh store has no session.
	_, _, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	want := testUser()
	require.NoError(t, s.Save(ctx, "token-123", want))

	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, want.Email, user.Email)
	assert.Equal(t, want.Role, user.Role)

	// A second save replaces the single row.
	other := want
	other.Email = "other@nexus.com"
	require.NoError(t, s.Save(ctx, "token-456", other))

	token, user, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-456", token)
	assert.Equal(t, "other@nexus.com", user.Email)

	require.NoError(t, s.Clear(ctx))
	_, _, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing again is fine.
	require.NoError(t, s.Clear(ctx))
}
