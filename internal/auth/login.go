package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the username is unknown so both
// failure paths pay for one bcrypt comparison.
var dummyHash = mustHash("not-a-real-password")

type Authenticator struct {
	store    storage.Store
	sessions *Manager
}

func NewAuthenticator(store storage.Store, sessions *Manager) *Authenticator {
	return &Authenticator{store: store, sessions: sessions}
}

// Login checks the credentials and opens a session for the user.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	user, err := a.store.UserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	s, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return s, user, nil
}

func (a *Authenticator) Logout(ctx context.Context, token string) error {
	_, err := a.sessions.Revoke(ctx, token)
	return err
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}
