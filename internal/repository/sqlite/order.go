package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/model"
	"github.com/sakif/sportsforum/internal/repository"
)

// orderTTLSeconds is model.OrderTTL in the stored unit.
const orderTTLSeconds = int64(model.OrderTTL / time.Second)

// GetOrder returns the order addressed by its external id.
func (c *Conn) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	id, err := model.ParseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if err := c.ready(); err != nil {
		return nil, err
	}

	o, err := scanOrder(c.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("order", orderID)
		}
		return nil, c.fail("getting order "+orderID, err)
	}
	return o, nil
}

// ListOrders returns the orders matching filter, newest first.
// filter.Limit 0 means unbounded, not an empty page: 0 and any negative
// value both return every match.
func (c *Conn) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	q := ordersQuery(filter)
	query, args := q.build()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.fail("listing orders", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, c.fail("scanning order row", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, c.fail("iterating orders", err)
	}
	return orders, nil
}

// CreateOrder signs nickname up for sportName and returns the new external
// order id.
//
// Before inserting it purges every order older than model.OrderTTL; the
// purge stands even when the sign-up itself fails. The sport is matched to
// its stored name. An unknown sport or user is apperror.ErrNotFound and
// nothing is inserted.
func (c *Conn) CreateOrder(ctx context.Context, nickname, sportName string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	now := c.unix()
	if err := c.purgeStaleOrders(ctx, now); err != nil {
		return "", err
	}

	var orderID string
	err := c.withTx(ctx, "creating order", func(tx *sql.Tx) error {
		var canonical string
		err := tx.QueryRowContext(ctx,
			`SELECT sportname FROM sports WHERE sportname = ?`, sportName,
		).Scan(&canonical)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("sport", sportName)
			}
			return c.fail("looking up sport "+sportName, err)
		}

		exists, err := userExists(ctx, tx, nickname)
		if err != nil {
			return c.fail("looking up user "+nickname, err)
		}
		if !exists {
			return apperror.NotFound("user", nickname)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO orders (nickname, sportname, timestamp) VALUES (?, ?, ?)`,
			nickname, canonical, now,
		)
		if err != nil {
			return c.fail("inserting order", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return c.fail("reading new order id", err)
		}
		orderID = model.FormatOrderID(id)
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// purgeStaleOrders deletes orders whose age, now minus timestamp, exceeds
// the TTL. An order exactly TTL old is kept.
func (c *Conn) purgeStaleOrders(ctx context.Context, now int64) error {
	result, err := c.db.ExecContext(ctx,
		`DELETE FROM orders WHERE timestamp < ?`, now-orderTTLSeconds,
	)
	if err != nil {
		return c.fail("purging stale orders", err)
	}
	n, err := c.rowsAffected("purging stale orders", result)
	if err != nil {
		return err
	}
	if n > 0 {
		c.logger.Info("purged stale orders", "count", n)
	}
	return nil
}

// DeleteOrder removes the order addressed by its external id.
func (c *Conn) DeleteOrder(ctx context.Context, orderID string) error {
	id, err := model.ParseOrderID(orderID)
	if err != nil {
		return err
	}
	if err := c.ready(); err != nil {
		return err
	}

	result, err := c.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
	if err != nil {
		return c.fail("deleting order "+orderID, err)
	}
	n, err := c.rowsAffected("deleting order", result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("order", orderID)
	}
	return nil
}

// OrderOwner returns the nickname that placed the order, or "" if that user
// has since been deleted.
func (c *Conn) OrderOwner(ctx context.Context, orderID string) (string, error) {
	o, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return o.Nickname, nil
}

// OrderExists reports whether the order is stored. A malformed id is still
// an error.
func (c *Conn) OrderExists(ctx context.Context, orderID string) (bool, error) {
	_, err := c.GetOrder(ctx, orderID)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
