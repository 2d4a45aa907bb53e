// Package api exposes the portfolio content and the dashboard operations
// over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/revalidate"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/uploads"
)

type Options struct {
	Store    storage.Store
	Sessions *auth.Manager
	Uploader *uploads.Uploader
	// UploadDir is served under /uploads/ when set.
	UploadDir string
	Notifier  revalidate.Notifier
	// Origins allowed by CORS. Empty allows any origin.
	Origins []string
}

type Server struct {
	store    storage.Store
	auth     *auth.Authenticator
	sessions *auth.Manager
	gate     *auth.Gate
	uploader *uploads.Uploader
	notify   revalidate.Notifier
	metrics  *metrics
	mux      *http.ServeMux
	handler  http.Handler
}

func NewServer(opts Options) *Server {
	notify := opts.Notifier
	if notify == nil {
		notify = revalidate.Nop{}
	}
	s := &Server{
		store:    opts.Store,
		auth:     auth.NewAuthenticator(opts.Store, opts.Sessions),
		sessions: opts.Sessions,
		gate:     auth.NewGate(opts.Sessions),
		uploader: opts.Uploader,
		notify:   notify,
		metrics:  newMetrics(),
		mux:      http.NewServeMux(),
	}
	s.routes(opts.UploadDir)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.Origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	s.handler = c.Handler(s.metrics.instrument(recoverer(jsonFallback(s.mux))))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// crud is the handler set of a resource.
type crud interface {
	list(http.ResponseWriter, *http.Request)
	get(http.ResponseWriter, *http.Request)
	create(http.ResponseWriter, *http.Request)
	update(http.ResponseWriter, *http.Request)
	remove(http.ResponseWriter, *http.Request)
}

// content mounts a collection with public reads and gated writes.
func (s *Server) content(path string, rs crud) {
	s.mux.HandleFunc("GET "+path, rs.list)
	s.mux.HandleFunc("GET "+path+"/{id}", rs.get)
	s.mux.HandleFunc("POST "+path, s.gate.Require(rs.create))
	s.mux.HandleFunc("PUT "+path+"/{id}", s.gate.Require(rs.update))
	s.mux.HandleFunc("DELETE "+path+"/{id}", s.gate.Require(rs.remove))
}

func (s *Server) routes(uploadDir string) {
	st := s.store
	require := s.gate.Require

	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", require(s.handleLogout))
	s.mux.HandleFunc("GET /api/auth/me", require(s.handleMe))

	s.mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profile", require(s.handlePutProfile))

	s.content("/api/skills", newResource[models.Skill, models.SkillPatch]("skills", "skill", "Skill", st.Skills(), s.notify))
	s.content("/api/experiences", newResource[models.Experience, models.ExperiencePatch]("experiences", "experience", "Experience", st.Experiences(), s.notify))
	s.content("/api/projects", newResource[models.Project, models.ProjectPatch]("projects", "project", "Project", st.Projects(), s.notify))
	s.content("/api/education", newResource[models.Education, models.EducationPatch]("education", "education", "Education", st.Education(), s.notify))
	s.content("/api/activities", newResource[models.Activity, models.ActivityPatch]("activities", "activity", "Activity", st.Activities(), s.notify))

	pricing := newResource[models.Pricing, models.PricingPatch]("pricing", "pricing", "Pricing", st.Pricing(), s.notify)
	s.mux.HandleFunc("GET /api/pricing", s.handleActivePricing)
	s.mux.HandleFunc("GET /api/pricing/all", require(pricing.list))
	s.mux.HandleFunc("GET /api/pricing/{id}", pricing.get)
	s.mux.HandleFunc("POST /api/pricing", require(pricing.create))
	s.mux.HandleFunc("PUT /api/pricing/{id}", require(pricing.update))
	s.mux.HandleFunc("DELETE /api/pricing/{id}", require(pricing.remove))

	contacts := newResource[models.Contact, models.ContactPatch]("contacts", "contact", "Contact", st.Contacts(), s.notify)
	for _, path := range []string{"/api/contact", "/api/contacts"} {
		s.mux.HandleFunc("GET "+path, require(contacts.list))
		s.mux.HandleFunc("GET "+path+"/{id}", require(contacts.get))
		s.mux.HandleFunc("POST "+path, contacts.create)
		s.mux.HandleFunc("DELETE "+path+"/{id}", require(contacts.remove))
	}

	articles := newResource[models.Article, models.ArticlePatch]("articles", "article", "Article", st.Articles(), s.notify)
	s.mux.HandleFunc("GET /api/articles", s.handlePublishedArticles)
	s.mux.HandleFunc("GET /api/articles/all", require(articles.list))
	s.mux.HandleFunc("GET /api/articles/{id}", s.handleGetArticle)
	s.mux.HandleFunc("GET /api/articles/{id}/html", s.handleArticleHTML)
	s.mux.HandleFunc("POST /api/articles", require(articles.create))
	s.mux.HandleFunc("PUT /api/articles/{id}", require(articles.update))
	s.mux.HandleFunc("DELETE /api/articles/{id}", require(articles.remove))

	s.mux.HandleFunc("POST /api/upload", require(s.handleUpload))
	if uploadDir != "" {
		files := http.StripPrefix(uploads.LocalPath, http.FileServer(http.Dir(uploadDir)))
		s.mux.Handle("GET "+uploads.LocalPath, noListing(files))
	}

	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
}

// noListing hides directory indexes of the upload dir. Files are served
// with a CSP that blocks scripts inside uploaded SVGs.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
