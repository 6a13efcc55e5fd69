// Package web is the HTTP surface of the server: public site pages, the
// authentication endpoints, and the token-protected admin API. Handlers are
// thin; they map service results to status codes and JSON or HTML.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/audit"
	"github.com/dmitrijs2005/gophpress/internal/server/content"
	"github.com/dmitrijs2005/gophpress/internal/server/credentials"
	"github.com/dmitrijs2005/gophpress/internal/server/media"
	"github.com/dmitrijs2005/gophpress/internal/server/sessions"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	logger   logging.Logger
	content  *content.Service
	creds    *credentials.Manager
	sessions *sessions.Service
	media    *media.Service
	audit    audit.Sink
	tokenTTL time.Duration
}

func NewServer(a string, l logging.Logger, cs *content.Service, cm *credentials.Manager, ss *sessions.Service, ms *media.Service, sink audit.Sink, tokenTTL time.Duration) *Server {
	return &Server{
		address:  a,
		logger:   l.With("module", "http_server"),
		content:  cs,
		creds:    cm,
		sessions: ss,
		media:    ms,
		audit:    sink,
		tokenTTL: tokenTTL,
	}
}

// Handler builds the route table. Public pages are gzip-wrapped; everything
// under the admin group goes through requireAuth.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/", gziphandler.GzipHandler(http.HandlerFunc(s.handleHome)))
	r.Method(http.MethodGet, "/posts/{slug}", gziphandler.GzipHandler(http.HandlerFunc(s.handlePostPage)))

	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/api/sites", s.handleCreateSite)
		r.Get("/api/sites/{host}/posts", s.handleListPosts)
		r.Post("/api/sites/{host}/posts", s.handleCreatePost)
		r.Delete("/api/sites/{host}/posts/{slug}", s.handleDeletePost)
		r.Post("/api/uploads", s.handleUpload)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// unauthorized is the single 401 shape for every authentication failure.
// Wrong password, unknown principal and expired token are indistinguishable
// to the caller.
func (s *Server) unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, common.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, common.ErrBackendUnavailable):
		s.logger.Error(r.Context(), err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backend unavailable"})
	default:
		s.logger.Error(r.Context(), err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
