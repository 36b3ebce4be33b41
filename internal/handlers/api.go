package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"notedown/backend/internal/auth"
	"notedown/backend/internal/db"
	"notedown/backend/internal/realtime"
)

type API struct {
	Store    *db.Store
	Auth     *auth.Service
	Denylist *auth.Denylist
	Hub      *realtime.Hub
}

func NewAPI(store *db.Store, authService *auth.Service, denylist *auth.Denylist, hub *realtime.Hub) *API {
	return &API{Store: store, Auth: authService, Denylist: denylist, Hub: hub}
}

func (a *API) currentUser(r *http.Request) (auth.User, bool) {
	return auth.UserFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

var noteIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ParseNoteID validates a uuid path segment without hitting the database.
func ParseNoteID(pathPart string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(pathPart))
	if !noteIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
