package router

import (
	"net/http"
	"strconv"
	"strings"

	"notedown/backend/internal/auth"
	"notedown/backend/internal/handlers"
	"notedown/backend/internal/middleware"
	"notedown/backend/internal/realtime"
)

type Router struct {
	api      *handlers.API
	auth     *auth.Service
	denylist *auth.Denylist
	limiter  *middleware.RateLimiter
	origin   string
	hub      *realtime.Hub
}

func New(api *handlers.API, authService *auth.Service, denylist *auth.Denylist, limiter *middleware.RateLimiter, origin string, hub *realtime.Hub) *Router {
	return &Router{api: api, auth: authService, denylist: denylist, limiter: limiter, origin: origin, hub: hub}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if middleware.HandleCORS(w, r, rt.origin) {
		return
	}
	middleware.SecurityHeaders(w)

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	if requiresAuth(path) {
		user, err := middleware.Authenticate(r, rt.auth, rt.denylist)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("{\"error\":\"unauthorized\"}"))
			return
		}
		if rt.limiter != nil {
			key := "user:" + strconv.FormatInt(user.ID, 10)
			if !rt.limiter.Allow(key) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("{\"error\":\"rate limit exceeded\"}"))
				return
			}
		}
		if err := middleware.ValidateCSRF(r, user); err != nil {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("{\"error\":\"invalid csrf token\"}"))
			return
		}
		r = r.WithContext(auth.WithUser(r.Context(), user))
	} else if rt.limiter != nil {
		key := middleware.ClientKey(r)
		if !rt.limiter.Allow(key) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("{\"error\":\"rate limit exceeded\"}"))
			return
		}
	}

	switch {
	case path == "/api/health":
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{\"status\":\"OK\"}"))
			return
		}
	case path == "/api/ws":
		if r.Method == http.MethodGet && rt.hub != nil {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("{\"error\":\"unauthorized\"}"))
				return
			}
			realtime.ServeWS(w, r, rt.hub, user.Name)
			return
		}
	case path == "/api/auth/register":
		if r.Method == http.MethodPost {
			rt.api.Register(w, r)
			return
		}
	case path == "/api/auth/login":
		if r.Method == http.MethodPost {
			rt.api.Login(w, r)
			return
		}
	case path == "/api/auth/me":
		if r.Method == http.MethodGet {
			rt.api.Me(w, r)
			return
		}
	case path == "/api/auth/logout":
		if r.Method == http.MethodPost {
			rt.api.Logout(w, r)
			return
		}
	case path == "/api/notes":
		switch r.Method {
		case http.MethodGet:
			rt.api.ListNotes(w, r)
			return
		case http.MethodPost:
			rt.api.CreateNote(w, r)
			return
		}
	case path == "/api/notes/tags":
		if r.Method == http.MethodGet {
			rt.api.ListTags(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/notes/"):
		idPart := strings.TrimPrefix(path, "/api/notes/")
		if id, ok := handlers.ParseNoteID(idPart); ok {
			switch r.Method {
			case http.MethodGet:
				rt.api.GetNote(w, r, id)
				return
			case http.MethodPut:
				rt.api.UpdateNote(w, r, id)
				return
			case http.MethodDelete:
				rt.api.DeleteNote(w, r, id)
				return
			}
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("{\"error\":\"not found\"}"))
}

func requiresAuth(path string) bool {
	switch path {
	case "/api/auth/login", "/api/auth/register", "/api/health":
		return false
	default:
		return strings.HasPrefix(path, "/api/")
	}
}
