// Package storage persists portfolio content behind one Store interface with
// SQL (GORM) and in-memory backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key (username, token) is already taken.
var ErrDuplicate = errors.New("duplicate key")

// Collection is the CRUD surface shared by every content type.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	// Update loads the record, lets apply mutate it and persists the result.
	// An error from apply aborts the update.
	Update(ctx context.Context, id uint, apply func(*T) error) (*T, error)
	// Delete reports whether a record existed and was removed.
	Delete(ctx context.Context, id uint) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	ByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) (bool, error)
	// DeleteExpired removes every session whose expiry is not after now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Store interface {
	User(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	CountUsers(ctx context.Context) (int64, error)

	// Profile returns ErrNotFound until the singleton row has been saved once.
	Profile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, apply func(*models.Profile) error) (*models.Profile, error)

	Skills() Collection[models.Skill]
	Experiences() Collection[models.Experience]
	Projects() Collection[models.Project]
	Education() Collection[models.Education]
	Activities() Collection[models.Activity]
	Contacts() Collection[models.Contact]
	Articles() Collection[models.Article]
	Pricing() Collection[models.Pricing]

	PublishedArticles(ctx context.Context) ([]models.Article, error)
	ActivePricing(ctx context.Context) ([]models.Pricing, error)

	Sessions() SessionStore

	Close() error
}
