package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	ProviderGemini = "gemini"
)

// KeySource yields the credential for the next upstream call. Orchestrators
// read the current value at call time and never cache it across calls.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// Store persists one bearer token per provider in a local sqlite file. It is
// the explicit replacement for the browser-local-storage credential slot:
// no encryption, no expiry, cleared only on user action.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the credential database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create credentials directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open credentials database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS integration_tokens (
		provider TEXT PRIMARY KEY,
		token    TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create integration_tokens: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the stored token for provider, or "" when absent.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token FROM integration_tokens WHERE provider = ?`, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken saves or replaces the token for provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO integration_tokens (provider, token) VALUES (?, ?)
		 ON CONFLICT (provider) DO UPDATE SET token = excluded.token`,
		provider, token)
	return err
}

// Clear removes the token for provider. Clearing an absent token is not an
// error.
func (s *Store) Clear(ctx context.Context, provider string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM integration_tokens WHERE provider = ?`, provider)
	return err
}

// APIKey implements KeySource for the Gemini slot.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// StaticKey adapts a fixed key (typically from the environment) to KeySource.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	return strings.TrimSpace(string(k)), nil
}

// Chain returns the first non-empty key among its sources, so a user-saved
// key takes precedence over the environment one.
type Chain []KeySource

func (c Chain) APIKey(ctx context.Context) (string, error) {
	for _, source := range c {
		key, err := source.APIKey(ctx)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	return "", nil
}

var (
	_ KeySource = (*Store)(nil)
	_ KeySource = StaticKey("")
	_ KeySource = Chain(nil)
)
