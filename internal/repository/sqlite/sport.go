package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/model"
)

// ListSports returns every sport in insertion order.
func (c *Conn) ListSports(ctx context.Context) ([]model.Sport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+sportColumns+` FROM sports ORDER BY sport_id`,
	)
	if err != nil {
		return nil, c.fail("listing sports", err)
	}
	defer rows.Close()

	sports := []model.Sport{}
	for rows.Next() {
		s, err := scanSport(rows)
		if err != nil {
			return nil, c.fail("scanning sport row", err)
		}
		sports = append(sports, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, c.fail("iterating sports", err)
	}
	return sports, nil
}

// GetSport resolves name to its key, then reads the full row.
func (c *Conn) GetSport(ctx context.Context, name string) (*model.Sport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var id int64
	err := c.db.QueryRowContext(ctx,
		`SELECT sport_id FROM sports WHERE sportname = ?`, name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("sport", name)
		}
		return nil, c.fail("looking up sport "+name, err)
	}

	s, err := scanSport(c.db.QueryRowContext(ctx,
		`SELECT `+sportColumns+` FROM sports WHERE sport_id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("sport", name)
		}
		return nil, c.fail("getting sport "+name, err)
	}
	return s, nil
}

// CreateSport inserts sport and sets sport.ID.
// Returns apperror.ErrConflict when the name is taken.
func (c *Conn) CreateSport(ctx context.Context, sport *model.Sport) error {
	if err := c.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(sport.Name) == "" {
		return apperror.ValidationFailed("sportname", "sport name is required")
	}

	return c.withTx(ctx, "creating sport "+sport.Name, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM sports WHERE sportname = ?`, sport.Name,
		).Scan(&one)
		if err == nil {
			return apperror.Conflict("sport", sport.Name)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return c.fail("looking up sport "+sport.Name, err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO sports (sportname, time, hallnumber, note) VALUES (?, ?, ?, ?)`,
			sport.Name, sport.ScheduledTime, sport.HallNumber, sport.Note,
		)
		if err != nil {
			return c.fail("inserting sport "+sport.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return c.fail("reading new sport id", err)
		}
		sport.ID = id
		return nil
	})
}

// DeleteSport removes the sport and, by cascade, every order for it.
func (c *Conn) DeleteSport(ctx context.Context, name string) error {
	if err := c.ready(); err != nil {
		return err
	}

	result, err := c.db.ExecContext(ctx, `DELETE FROM sports WHERE sportname = ?`, name)
	if err != nil {
		return c.fail("deleting sport "+name, err)
	}
	n, err := c.rowsAffected("deleting sport", result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("sport", name)
	}

	c.logger.Info("sport deleted", "sport", name)
	return nil
}
