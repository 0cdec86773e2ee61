package character

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package globals
var gooseMu sync.Mutex

// SQLiteConfig contains configuration for the SQLite character repository.
type SQLiteConfig struct {
	// Path is a database file, or ":memory:"
	Path  string
	Clock clock.Clock
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if strings.TrimSpace(cfg.Path) == "" {
		vb.RequiredField("path")
	}
	return vb.Build()
}

// SQLiteRepository stores characters as JSON documents in a SQLite table
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLite opens the database, applies pending migrations and returns the repository
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := strings.TrimSpace(cfg.Path)
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, errors.Wrapf(err, "failed to create database directory %s", parent)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite database")
	}
	// a single connection serialises writers and keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = NORMAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "failed to apply %s", pragma)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite database")
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &SQLiteRepository{db: db, clock: c}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run character migrations")
	}
	return nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Create inserts a new character
func (r *SQLiteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}
	char := input.Character

	now := r.clock.Now().Unix()
	createdAt := char.CreatedAt
	if createdAt == 0 {
		createdAt = now
	}

	stamped := *char
	stamped.CreatedAt = createdAt
	stamped.UpdatedAt = now
	data, err := encodeCharacter(&stamped)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO characters (id, player_id, version, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`,
		char.ID, char.PlayerID, char.Version, data, createdAt, now)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	} else if n == 0 {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
	}

	char.CreatedAt = createdAt
	char.UpdatedAt = now
	return &CreateOutput{Character: char}, nil
}

// Get retrieves a character by ID
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	char, err := decodeCharacter(string(data))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: char}, nil
}

// Update replaces a character when the incoming version is newer than the stored one
func (r *SQLiteRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}
	char := input.Character

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var storedVersion, createdAt int64
	err = tx.QueryRowContext(ctx, `SELECT version, created_at FROM characters WHERE id = ?`, char.ID).
		Scan(&storedVersion, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character with ID %s not found", char.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}
	if storedVersion >= char.Version {
		return nil, versionConflict(char.ID, storedVersion, char.Version)
	}

	stamped := *char
	stamped.CreatedAt = createdAt
	stamped.UpdatedAt = r.clock.Now().Unix()
	data, err := encodeCharacter(&stamped)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE characters
SET player_id = ?, version = ?, data = ?, updated_at = ?
WHERE id = ?`,
		char.PlayerID, char.Version, data, stamped.UpdatedAt, char.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to update character")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "failed to commit character update")
	}

	char.CreatedAt = stamped.CreatedAt
	char.UpdatedAt = stamped.UpdatedAt
	return &UpdateOutput{Character: char}, nil
}

// Delete removes a character
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	} else if n == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}
	return &DeleteOutput{}, nil
}

// ListByPlayerID returns every character owned by a player
func (r *SQLiteRepository) ListByPlayerID(
	ctx context.Context,
	input ListByPlayerIDInput,
) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT data FROM characters
WHERE player_id = ?
ORDER BY created_at, id`, input.PlayerID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters for player %s", input.PlayerID)
	}
	defer func() { _ = rows.Close() }()

	characters := make([]*entities.Character, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrapf(err, "failed to scan character row")
		}
		char, err := decodeCharacter(string(data))
		if err != nil {
			return nil, err
		}
		characters = append(characters, char)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to list characters for player %s", input.PlayerID)
	}

	return &ListByPlayerIDOutput{Characters: characters}, nil
}
