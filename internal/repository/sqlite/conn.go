package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/rs/xid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/auth"
	"github.com/sakif/sportsforum/internal/repository"
)

var _ repository.Repository = (*Conn)(nil)

// ErrClosed is the cause reported by every operation on a closed Conn.
var ErrClosed = errors.New("sqlite: connection is closed")

// Conn is one open handle to the forum database.
//
// A Conn is not safe for concurrent use; callers serialize access or open one
// Conn per goroutine. Each operation commits on its own. Writes that belong
// together (a user and its profile) share one transaction.
type Conn struct {
	db        *sql.DB
	passwords *auth.PasswordService
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Conn.
type Option func(*Conn)

// WithClock replaces time.Now as the source of registration, login and
// order timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Conn) { c.now = now }
}

func newConn(db *sql.DB, passwords *auth.PasswordService, logger *slog.Logger, opts ...Option) *Conn {
	c := &Conn{
		db:        db,
		passwords: passwords,
		logger:    logger.With(slog.String("conn", xid.New().String())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug("connection opened")
	return c
}

// Close releases the handle. Writes are already committed, so nothing is
// lost. Closing twice is a no-op.
func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return apperror.Storage("closing connection", err)
	}
	c.logger.Debug("connection closed")
	return nil
}

// ForeignKeysEnabled reports whether SQLite enforces foreign keys on this
// handle.
func (c *Conn) ForeignKeysEnabled(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	var on int
	if err := c.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
		return false, c.fail("reading foreign_keys pragma", err)
	}
	return on == 1, nil
}

func (c *Conn) ready() error {
	if c.db == nil {
		return apperror.Storage("using connection", ErrClosed)
	}
	return nil
}

// unix converts the clock to the stored representation, whole seconds.
func (c *Conn) unix() int64 {
	return c.now().Unix()
}

// fail wraps a driver error as a storage failure. When the error means the
// file itself is unusable the handle is closed, and later calls return
// ErrClosed.
func (c *Conn) fail(op string, err error) error {
	if isUnrecoverable(err) && c.db != nil {
		c.logger.Warn("closing connection after unrecoverable storage error",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		c.db.Close()
		c.db = nil
	}
	return apperror.Storage(op, err)
}

func isUnrecoverable(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Code() is the extended result code; the low byte is the primary code.
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_CORRUPT,
		sqlite3lib.SQLITE_NOTADB,
		sqlite3lib.SQLITE_IOERR,
		sqlite3lib.SQLITE_FULL,
		sqlite3lib.SQLITE_CANTOPEN:
		return true
	}
	return false
}

// withTx runs fn in a transaction, committing when fn returns nil.
// Errors from fn are returned unchanged.
func (c *Conn) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return c.fail(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return c.fail(op+": commit", err)
	}
	return nil
}

// rowsAffected returns how many rows res touched.
func (c *Conn) rowsAffected(op string, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, c.fail(op+": checking rows affected", err)
	}
	return n, nil
}
