// Package repository declares the storage operations the forum API consumes.
// internal/repository/sqlite is the implementation.
package repository

import (
	"context"
	"time"

	"github.com/sakif/sportsforum/internal/model"
)

// OrderFilter narrows ListOrders. Zero values mean "no condition":
// an empty Nickname matches every user, a zero Before or After is not
// applied, and Limit <= 0 returns every matching order.
//
// Before and After are both exclusive bounds on the order timestamp.
type OrderFilter struct {
	Nickname string
	Before   time.Time
	After    time.Time
	Limit    int
}

type UserRepository interface {
	GetUser(ctx context.Context, nickname string) (*model.Profile, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	CreateUser(ctx context.Context, nickname, password string, profile model.Profile) error
	UpdateUser(ctx context.Context, nickname string, profile model.Profile) error
	DeleteUser(ctx context.Context, nickname, password string) error
	Login(ctx context.Context, nickname, password string) (*model.User, error)
	UserID(ctx context.Context, nickname string) (int64, error)
	UserExists(ctx context.Context, nickname string) (bool, error)
}

type SportRepository interface {
	ListSports(ctx context.Context) ([]model.Sport, error)
	GetSport(ctx context.Context, name string) (*model.Sport, error)
	CreateSport(ctx context.Context, sport *model.Sport) error
	DeleteSport(ctx context.Context, name string) error
}

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	// ListOrders treats Limit 0 as unbounded; it never returns an empty page
	// because of the limit.
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	CreateOrder(ctx context.Context, nickname, sportName string) (string, error)
	DeleteOrder(ctx context.Context, orderID string) error
	OrderOwner(ctx context.Context, orderID string) (string, error)
	OrderExists(ctx context.Context, orderID string) (bool, error)
}

// Repository is everything one open handle offers.
type Repository interface {
	UserRepository
	SportRepository
	OrderRepository
	Close() error
}
