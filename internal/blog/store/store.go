// Package store defines the data access interfaces. Concrete drivers
// (postgres today) implement them; services never see SQL.
package store

import (
	"context"
	"errors"

	"github.com/webloom/blog/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, exposing one sub-repository per
// aggregate. Every flow here is a single read or a single write, so there is
// no transaction surface; the username race on concurrent registration is
// settled by the unique constraint in the database.
type Store interface {
	Users() Users
	Posts() Posts

	// ApplyMigrations brings the schema up to date using embedded migrations.
	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

type Users interface {
	// GetUserByUsername looks up an account for login and the identity gate.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A username collision returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
}

type Posts interface {
	// CreatePost inserts a new post (id is provided by app via ULID).
	CreatePost(ctx context.Context, p domain.Post) error

	// ListPosts returns up to limit posts, newest first.
	ListPosts(ctx context.Context, limit int) ([]domain.Post, error)
}
