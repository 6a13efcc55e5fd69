package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/server/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type homePage struct {
	Site  content.Site
	Posts []content.Post
}

type postPage struct {
	Site content.Site
	Post content.Post
	// Body is the formatter-generated markup, rendered as-is.
	Body template.HTML
}

// handleHealthz is the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// handleHome renders the site resolved from the request Host header with its
// posts, newest first.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	site, err := s.content.GetSite(ctx, r.Host)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	posts, err := s.content.ListPosts(ctx, r.Host)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, "home.html", homePage{Site: *site, Posts: posts})
}

// handlePostPage renders a single post addressed by its slug.
func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	site, err := s.content.GetSite(ctx, r.Host)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	post, err := s.content.GetPostBySlug(ctx, r.Host, chi.URLParam(r, "slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, "post.html", postPage{Site: *site, Post: *post, Body: template.HTML(post.HTML)})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error(r.Context(), err.Error())
	}
}

// renderError is the HTML-page counterpart of respondError.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		http.NotFound(w, r)
		return
	}
	s.logger.Error(r.Context(), err.Error())
	http.Error(w, "internal error", http.StatusInternalServerError)
}
