package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

// The store is a single-row table: there is exactly one session per client
// installation, so every write replaces row 1.
const createSessionTable = `CREATE TABLE IF NOT EXISTS session (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	token    TEXT    NOT NULL,
	profile  TEXT    NOT NULL,
	saved_at TIMESTAMP NOT NULL
);`

type sqliteCredentialStore struct {
	db      *sql.DB
	logger  *logger.Logger
	builder sq.StatementBuilderType
}

// NewSQLiteCredentialStore opens (creating if necessary) the sqlite file at
// cfg.Path and ensures the session table exists.
func NewSQLiteCredentialStore(ctx context.Context, cfg config.Store, log *logger.Logger) (CredentialStore, error) {
	if err := createLocalDBFileIfNotExists(cfg.Path); err != nil {
		log.Err(err).Str("func", "NewSQLiteCredentialStore").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening credential store: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting credential store: %w", err)
	}

	if _, err = db.ExecContext(ctx, createSessionTable); err != nil {
		return nil, fmt.Errorf("error creating session table: %w", err)
	}

	log.Debug().Str("path", cfg.Path).Msg("credential store ready")

	return &sqliteCredentialStore{
		db:      db,
		logger:  log,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		return f.Close()
	}
	return nil
}

// Save implements [CredentialStore]. Token and profile are written in one
// statement so a crash cannot leave them out of sync.
func (s *sqliteCredentialStore) Save(ctx context.Context, token string, user models.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	query, args, err := s.builder.
		Insert("session").
		Options("OR REPLACE").
		Columns("id", "token", "profile", "saved_at").
		Values(1, token, string(profile), time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Load implements [CredentialStore].
func (s *sqliteCredentialStore) Load(ctx context.Context) (string, models.User, error) {
	query, args, err := s.builder.
		Select("token", "profile").
		From("session").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return "", models.User{}, fmt.Errorf("build load query: %w", err)
	}

	var token, profile string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&token, &profile)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.User{}, ErrNoSession
	}
	if err != nil {
		return "", models.User{}, fmt.Errorf("load session: %w", err)
	}

	var user models.User
	if err = json.Unmarshal([]byte(profile), &user); err != nil {
		// A profile that no longer decodes is as good as no session.
		s.logger.Warn().Err(err).Msg("persisted profile is corrupt")
		return "", models.User{}, ErrNoSession
	}

	return token, user, nil
}

// Clear implements [CredentialStore].
func (s *sqliteCredentialStore) Clear(ctx context.Context) error {
	query, args, err := s.builder.Delete("session").Where(sq.Eq{"id": 1}).ToSql()
	if err != nil {
		return fmt.Errorf("build clear query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// Close implements [CredentialStore].
func (s *sqliteCredentialStore) Close() error {
	return s.db.Close()
}
