package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/render"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, "request", &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, models.Invalid("request"))
		return
	}

	sess, user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token: sess.Token,
		User:  userView{ID: user.ID, Username: user.Username},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.SessionFrom(r.Context()); ok {
		if err := s.auth.Logout(r.Context(), sess.Token); err != nil {
			writeError(w, err)
			return
		}
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserID(r.Context())
	user, err := s.store.User(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusUnauthorized, "Invalid session")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView{ID: user.ID, Username: user.Username})
}

// handleGetProfile answers null until the profile has been saved once.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Profile(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfilePatch
	if err := decode(w, r, "profile", &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := patch.Validate(true); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.store.SaveProfile(r.Context(), func(dst *models.Profile) error {
		patch.Apply(dst)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.notify.Notify("profile")
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleActivePricing(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ActivePricing(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePublishedArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.PublishedArticles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// visibleArticle loads an article, hiding drafts from anonymous callers.
func (s *Server) visibleArticle(r *http.Request) (*models.Article, error) {
	id, err := parseID(r, "article")
	if err != nil {
		return nil, err
	}
	notFound := errorf(http.StatusNotFound, "Article not found")

	a, err := s.store.Articles().Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	if a.Published {
		return a, nil
	}
	sess, err := s.gate.Identify(r)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, notFound
	}
	return a, nil
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.visibleArticle(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleArticleHTML(w http.ResponseWriter, r *http.Request) {
	a, err := s.visibleArticle(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Markdown(a.Content)))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}
	url, err := s.uploader.Save(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
