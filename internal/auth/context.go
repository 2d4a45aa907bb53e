package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type ctxKey struct{}

func withSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session attached by Gate.Require, if any.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*models.Session)
	return s, ok && s != nil
}

func UserID(ctx context.Context) (uint, bool) {
	s, ok := SessionFrom(ctx)
	if !ok {
		return 0, false
	}
	return s.UserID, true
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
