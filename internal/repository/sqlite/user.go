package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/auth"
	"github.com/sakif/sportsforum/internal/model"
)

// GetUser returns the joined user and profile for nickname.
func (c *Conn) GetUser(ctx context.Context, nickname string) (*model.Profile, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	p, err := scanProfile(c.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+`
		 FROM users JOIN users_profile p ON p.user_id = users.user_id
		 WHERE users.nickname = ?`,
		nickname,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", nickname)
		}
		return nil, c.fail("getting user "+nickname, err)
	}
	return p, nil
}

// ListUsers returns a summary of every user that has a profile.
func (c *Conn) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+userSummaryColumns+`
		 FROM users JOIN users_profile p ON p.user_id = users.user_id
		 ORDER BY users.user_id`,
	)
	if err != nil {
		return nil, c.fail("listing users", err)
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		u, err := scanUserSummary(rows)
		if err != nil {
			return nil, c.fail("scanning user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, c.fail("iterating users", err)
	}
	return users, nil
}

// CreateUser registers nickname with its profile. The password is stored as
// a bcrypt hash. Registration and last-login dates are set to now and the
// view counter starts at zero. Read-only profile fields (nickname,
// registration date) are ignored; UserType is taken from profile.Public.
//
// Returns apperror.ErrConflict when the nickname is taken.
func (c *Conn) CreateUser(ctx context.Context, nickname, password string, profile model.Profile) error {
	if err := c.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(nickname) == "" {
		return apperror.ValidationFailed("nickname", "nickname is required")
	}
	hash, err := c.passwords.Hash(password)
	if err != nil {
		return err
	}

	now := c.unix()
	pub, res := profile.Public, profile.Restricted

	return c.withTx(ctx, "creating user "+nickname, func(tx *sql.Tx) error {
		exists, err := userExists(ctx, tx, nickname)
		if err != nil {
			return c.fail("looking up user "+nickname, err)
		}
		if exists {
			return apperror.Conflict("user", nickname)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO users (nickname, password, regDate, lastLogin, timesviewed, userType)
			 VALUES (?, ?, ?, ?, 0, ?)`,
			nickname, hash, now, now, pub.UserType,
		)
		if err != nil {
			return c.fail("inserting user "+nickname, err)
		}
		userID, err := result.LastInsertId()
		if err != nil {
			return c.fail("reading new user id", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO users_profile (user_id, firstname, lastname, email, website,
			   picture, mobile, skype, age, residence, gender, signature, avatar)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, res.FirstName, res.LastName, res.Email, res.Website,
			res.Picture, res.Mobile, res.Skype, res.Age, res.Residence, res.Gender,
			pub.Signature, pub.Avatar,
		)
		if err != nil {
			return c.fail("inserting profile for "+nickname, err)
		}

		c.logger.Info("user created", "nickname", nickname, "userID", userID)
		return nil
	})
}

// UpdateUser rewrites the profile of nickname. The users row (password,
// dates, counters) is left untouched.
func (c *Conn) UpdateUser(ctx context.Context, nickname string, profile model.Profile) error {
	userID, err := c.UserID(ctx, nickname)
	if err != nil {
		return err
	}

	pub, res := profile.Public, profile.Restricted
	result, err := c.db.ExecContext(ctx,
		`UPDATE users_profile
		 SET firstname = ?, lastname = ?, email = ?, website = ?, picture = ?,
		     mobile = ?, skype = ?, age = ?, residence = ?, gender = ?,
		     signature = ?, avatar = ?
		 WHERE user_id = ?`,
		res.FirstName, res.LastName, res.Email, res.Website, res.Picture,
		res.Mobile, res.Skype, res.Age, res.Residence, res.Gender,
		pub.Signature, pub.Avatar,
		userID,
	)
	if err != nil {
		return c.fail("updating profile for "+nickname, err)
	}
	n, err := c.rowsAffected("updating profile", result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("user profile", nickname)
	}
	return nil
}

// DeleteUser removes nickname and its profile when password matches.
// A wrong password is reported exactly like an unknown nickname.
// Orders of the user stay, with their nickname cleared.
func (c *Conn) DeleteUser(ctx context.Context, nickname, password string) error {
	if err := c.ready(); err != nil {
		return err
	}

	return c.withTx(ctx, "deleting user "+nickname, func(tx *sql.Tx) error {
		var (
			userID int64
			hash   string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT user_id, COALESCE(password, '') FROM users WHERE nickname = ?`, nickname,
		).Scan(&userID, &hash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("user", nickname)
			}
			return c.fail("looking up user "+nickname, err)
		}
		if err := c.checkPassword(hash, password, nickname); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE user_id = ? AND password = ?`, userID, hash,
		)
		if err != nil {
			return c.fail("deleting user "+nickname, err)
		}
		n, err := c.rowsAffected("deleting user", result)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("user", nickname)
		}

		// The cascade normally removed it already.
		if _, err := tx.ExecContext(ctx, `DELETE FROM users_profile WHERE user_id = ?`, userID); err != nil {
			return c.fail("deleting profile for "+nickname, err)
		}

		c.logger.Info("user deleted", "nickname", nickname, "userID", userID)
		return nil
	})
}

// Login returns the user when nickname and password match.
// Any mismatch is apperror.ErrNotFound.
func (c *Conn) Login(ctx context.Context, nickname, password string) (*model.User, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	u, err := scanUser(c.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE nickname = ?`, nickname,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", nickname)
		}
		return nil, c.fail("looking up user "+nickname, err)
	}
	if err := c.checkPassword(u.PasswordHash, password, nickname); err != nil {
		return nil, err
	}
	return u, nil
}

// UserID returns the internal key of nickname.
func (c *Conn) UserID(ctx context.Context, nickname string) (int64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}

	var id int64
	err := c.db.QueryRowContext(ctx,
		`SELECT user_id FROM users WHERE nickname = ?`, nickname,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NotFound("user", nickname)
		}
		return 0, c.fail("looking up user "+nickname, err)
	}
	return id, nil
}

// UserExists reports whether nickname is registered.
func (c *Conn) UserExists(ctx context.Context, nickname string) (bool, error) {
	_, err := c.UserID(ctx, nickname)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// checkPassword maps a bcrypt mismatch (or an unusable stored hash) to
// NotFound so callers cannot tell a bad password from an unknown user.
func (c *Conn) checkPassword(hash, password, nickname string) error {
	if err := c.passwords.Verify(hash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			c.logger.Warn("stored password hash is unusable", "nickname", nickname, "error", err)
		}
		return apperror.NotFound("user", nickname)
	}
	return nil
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func userExists(ctx context.Context, q queryRower, nickname string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE nickname = ?`, nickname).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
