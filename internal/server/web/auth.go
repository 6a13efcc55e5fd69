package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/server/audit"
)

const authCookieName = "auth"

type ctxKey string

const principalKey ctxKey = "principal"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin is the HTTP handler for the POST /api/login route. On success
// it both sets the auth cookie for browsers and returns the token for CLI
// clients.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.unauthorized(w)
		return
	}

	ok, err := s.creds.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !ok {
		s.audit.Record(ctx, audit.EventLoginDenied, map[string]any{"email": req.Email})
		s.unauthorized(w)
		return
	}

	token, err := s.sessions.Issue(ctx, req.Email, s.tokenTTL)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.audit.Record(ctx, audit.EventLogin, map[string]any{"email": req.Email})
	s.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout is the HTTP handler for the POST /api/logout route. It always
// succeeds; there is no server-side session state to tear down.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.audit.Record(r.Context(), audit.EventLogout, nil)
	s.clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestToken extracts the session token from the Authorization header or,
// failing that, the auth cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(authCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth guards the admin API. Any token problem yields the uniform
// 401; only backend trouble while loading the signing secret surfaces
// differently.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			s.unauthorized(w)
			return
		}

		claims, err := s.sessions.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrInvalidToken) {
				s.unauthorized(w)
			} else {
				s.respondError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
