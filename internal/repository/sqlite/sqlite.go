// Package sqlite implements the repository interfaces on a SQLite file.
//
// Two types live here:
//   - Engine owns the database file: it creates the schema, loads seed data,
//     wipes rows and deletes the file. It holds no open handle.
//   - Conn is one open handle with the typed user, sport and order
//     operations. Get one from Engine.Open and Close it when done.
//
// The driver is modernc.org/sqlite, a pure Go SQLite, registered with
// database/sql under the name "sqlite".
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/auth"
)

// Engine manages the lifecycle of one database file.
type Engine struct {
	path      string
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewEngine returns an Engine for the file at path. A nil passwords uses
// bcrypt's default cost; a nil logger discards log output.
func NewEngine(path string, passwords *auth.PasswordService, logger *slog.Logger) *Engine {
	if passwords == nil {
		passwords = auth.NewPasswordService(auth.DefaultCost)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		path:      path,
		passwords: passwords,
		logger:    logger.With(slog.String("db", path)),
	}
}

// Path returns the database file location.
func (e *Engine) Path() string {
	return e.path
}

// dsn enables foreign keys on every connection the driver opens, so
// referential integrity holds for the whole life of a handle.
func (e *Engine) dsn() string {
	return e.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// openDB opens a pool limited to a single connection.
func (e *Engine) openDB(ctx context.Context) (*sql.DB, error) {
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperror.Storage("creating database directory", err)
		}
	}

	db, err := sql.Open("sqlite", e.dsn())
	if err != nil {
		return nil, apperror.Storage("opening database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperror.Storage("pinging database", err)
	}
	return db, nil
}

// Open returns a new Conn bound to the database file.
func (e *Engine) Open(ctx context.Context, opts ...Option) (*Conn, error) {
	db, err := e.openDB(ctx)
	if err != nil {
		return nil, err
	}
	return newConn(db, e.passwords, e.logger, opts...), nil
}

// exec runs a whole SQL script on a short-lived handle. inTx wraps it in a
// transaction so a failing script leaves nothing behind.
func (e *Engine) exec(ctx context.Context, op, script string, inTx bool) error {
	db, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if !inTx {
		if _, err := db.ExecContext(ctx, script); err != nil {
			return apperror.Storage(op, err)
		}
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Storage(op+": begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return apperror.Storage(op, err)
	}
	if err := tx.Commit(); err != nil {
		return apperror.Storage(op+": commit", err)
	}
	return nil
}

// CreateStorage creates every table. It expects an empty database and fails
// if any table already exists.
func (e *Engine) CreateStorage(ctx context.Context) error {
	if err := e.exec(ctx, "creating schema", defaultSchema, true); err != nil {
		return err
	}
	e.logger.Info("schema created")
	return nil
}

// CreateStorageFrom creates the schema from a caller supplied script.
func (e *Engine) CreateStorageFrom(ctx context.Context, schema io.Reader) error {
	script, err := io.ReadAll(schema)
	if err != nil {
		return fmt.Errorf("sqlite: reading schema script: %w", err)
	}
	if err := e.exec(ctx, "creating schema", string(script), true); err != nil {
		return err
	}
	e.logger.Info("schema created from script")
	return nil
}

// PopulateStorage loads the bundled sample data into an existing schema.
func (e *Engine) PopulateStorage(ctx context.Context) error {
	if err := e.exec(ctx, "populating database", defaultSeed, true); err != nil {
		return err
	}
	e.logger.Info("database populated")
	return nil
}

// PopulateStorageFrom loads a caller supplied data script.
func (e *Engine) PopulateStorageFrom(ctx context.Context, dump io.Reader) error {
	script, err := io.ReadAll(dump)
	if err != nil {
		return fmt.Errorf("sqlite: reading data script: %w", err)
	}
	if err := e.exec(ctx, "populating database", string(script), true); err != nil {
		return err
	}
	e.logger.Info("database populated from script")
	return nil
}

// Clear deletes every row and keeps the tables. users_profile and friends
// are emptied by cascade when users go; the explicit deletes cover rows that
// were inserted without an owner.
func (e *Engine) Clear(ctx context.Context) error {
	const script = `
		DELETE FROM orders;
		DELETE FROM sports;
		DELETE FROM users;
		DELETE FROM users_profile;
		DELETE FROM friends;
	`
	if err := e.exec(ctx, "clearing database", script, true); err != nil {
		return err
	}
	e.logger.Info("database cleared")
	return nil
}

// Destroy removes the database file and its WAL side files. It is a no-op
// when the file does not exist.
func (e *Engine) Destroy() error {
	for _, p := range []string{e.path, e.path + "-wal", e.path + "-shm", e.path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperror.Storage("removing database file", err)
		}
	}
	e.logger.Info("database removed")
	return nil
}

// The table helpers below create one table each and fail if it already
// exists. Dependent tables need their parents: create users before
// users_profile, friends and orders, and sports before orders.

// CreateUsersTable creates the users table.
func (e *Engine) CreateUsersTable(ctx context.Context) error {
	return e.exec(ctx, "creating users table", usersTableDDL, false)
}

// CreateUserProfileTable creates users_profile. users must exist.
func (e *Engine) CreateUserProfileTable(ctx context.Context) error {
	return e.exec(ctx, "creating users_profile table", usersProfileTableDDL, false)
}

// CreateSportsTable creates the sports table.
func (e *Engine) CreateSportsTable(ctx context.Context) error {
	return e.exec(ctx, "creating sports table", sportsTableDDL, false)
}

// CreateOrdersTable also creates the timestamp index, so it runs in a
// transaction.
func (e *Engine) CreateOrdersTable(ctx context.Context) error {
	return e.exec(ctx, "creating orders table", ordersTableDDL, true)
}

// CreateFriendsTable creates the friends table. users must exist.
func (e *Engine) CreateFriendsTable(ctx context.Context) error {
	return e.exec(ctx, "creating friends table", friendsTableDDL, false)
}
