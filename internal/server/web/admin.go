package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/gophpress/internal/server/content"
)

type siteResponse struct {
	Host        string    `json:"host"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newSiteResponse(s *content.Site) siteResponse {
	return siteResponse{
		Host:        s.Host,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

type postResponse struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostResponse(p *content.Post) postResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return postResponse{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Content:   p.Content,
		HTML:      p.HTML,
		Images:    images,
		CreatedAt: p.CreatedAt,
	}
}

type postsResponse struct {
	Posts []postResponse `json:"posts"`
}

type createSiteRequest struct {
	Host        string `json:"host"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// handleCreateSite is the HTTP handler for the POST /api/sites route.
func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	site, err := s.content.CreateSite(r.Context(), req.Host, req.Title, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSiteResponse(site))
}

type createPostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// handleCreatePost is the HTTP handler for the POST /api/sites/{host}/posts
// route.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	post, err := s.content.CreatePost(r.Context(), chi.URLParam(r, "host"), req.Title, req.Content, req.Images)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPostResponse(post))
}

// handleListPosts is the HTTP handler for the GET /api/sites/{host}/posts
// route. Posts come back newest first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.ListPosts(r.Context(), chi.URLParam(r, "host"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := postsResponse{Posts: make([]postResponse, 0, len(posts))}
	for i := range posts {
		resp.Posts = append(resp.Posts, newPostResponse(&posts[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDeletePost is the HTTP handler for the DELETE
// /api/sites/{host}/posts/{slug} route.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeletePost(r.Context(), chi.URLParam(r, "host"), chi.URLParam(r, "slug")); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	Key    string `json:"key"`
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

// handleUpload is the HTTP handler for the POST /api/uploads route. It hands
// out a presigned PUT/GET pair; the object bytes never pass through the
// server.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.media.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "uploads disabled"})
		return
	}

	key, putURL, err := s.media.PresignedPutURL(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	getURL, err := s.media.PresignedGetURL(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Key: key, PutURL: putURL, GetURL: getURL})
}
