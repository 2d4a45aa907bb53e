package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// Gate rejects requests that do not carry a live session.
type Gate struct {
	sessions *Manager
}

func NewGate(sessions *Manager) *Gate {
	return &Gate{sessions: sessions}
}

func (g *Gate) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		s, err := g.sessions.Lookup(r.Context(), token)
		if err != nil {
			log.Printf("auth: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if s == nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	}
}

// Identify resolves the caller's session without rejecting the request.
// A missing, unknown or expired token yields nil.
func (g *Gate) Identify(r *http.Request) (*models.Session, error) {
	token, ok := BearerToken(r)
	if !ok {
		return nil, nil
	}
	return g.sessions.Lookup(r.Context(), token)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
