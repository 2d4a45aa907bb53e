// Package auth issues bearer sessions for the dashboard and guards the
// mutating routes with them.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

const (
	DefaultTTL = 24 * time.Hour
	tokenBytes = 32
)

// Manager creates and resolves sessions. Expiry is enforced on every
// Lookup; the sweeper only reclaims storage.
type Manager struct {
	sessions storage.SessionStore
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(sessions storage.SessionStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{sessions: sessions, ttl: ttl, now: time.Now}
}

func (m *Manager) Create(ctx context.Context, userID uint) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := m.now()
	s := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// Lookup returns nil without an error for unknown and expired tokens.
// Expired rows are deleted on the way out.
func (m *Manager) Lookup(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	s, err := m.sessions.ByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if s.Expired(m.now()) {
		if _, err := m.sessions.Delete(ctx, token); err != nil {
			log.Printf("auth: dropping expired session: %v", err)
		}
		return nil, nil
	}
	return s, nil
}

// Revoke deletes the session. Revoking an unknown token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) (bool, error) {
	ok, err := m.sessions.Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}
	return ok, nil
}

func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx, m.now())
}

// StartSweeper purges expired sessions every interval until ctx is done.
// The returned channel closes when the sweeper has stopped.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := m.Sweep(ctx)
				if err != nil {
					log.Printf("auth: session sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("auth: swept %d expired sessions", n)
				}
			}
		}
	}()
	return done
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
