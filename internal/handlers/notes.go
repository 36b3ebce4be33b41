package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notedown/backend/internal/models"
)

type noteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Pinned  bool     `json:"pinned"`
}

func (a *API) ListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := `
		SELECT id, user_id, title, content, tags, pinned, created_at, updated_at
		FROM notes
		WHERE user_id=$1
		ORDER BY pinned DESC, updated_at DESC`

	rows, err := a.Store.Pool.Query(ctx, query, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tags, &note.Pinned, &note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list notes")
			return
		}
		notes = append(notes, note)
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (a *API) GetNote(w http.ResponseWriter, r *http.Request, noteID string) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var note models.Note
	query := `
		SELECT id, user_id, title, content, tags, pinned, created_at, updated_at
		FROM notes
		WHERE id=$1 AND user_id=$2`

	err := a.Store.Pool.QueryRow(ctx, query, noteID, user.ID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tags, &note.Pinned, &note.CreatedAt, &note.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

func (a *API) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req noteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var note models.Note
	query := `
		INSERT INTO notes (id, user_id, title, content, tags, pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, title, content, tags, pinned, created_at, updated_at`

	now := time.Now().UTC()
	if err := a.Store.Pool.QueryRow(ctx, query, uuid.NewString(), user.ID, req.Title, req.Content, req.Tags, false, now, now).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tags, &note.Pinned, &note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"note": note})
}

func (a *API) UpdateNote(w http.ResponseWriter, r *http.Request, noteID string) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req noteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var note models.Note
	query := `
		UPDATE notes
		SET title=$1, content=$2, tags=$3, pinned=$4, updated_at=$5
		WHERE id=$6 AND user_id=$7
		RETURNING id, user_id, title, content, tags, pinned, created_at, updated_at`

	err := a.Store.Pool.QueryRow(ctx, query, req.Title, req.Content, req.Tags, req.Pinned, time.Now().UTC(), noteID, user.ID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.Tags, &note.Pinned, &note.CreatedAt, &note.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

func (a *API) DeleteNote(w http.ResponseWriter, r *http.Request, noteID string) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tag, err := a.Store.Pool.Exec(ctx, `DELETE FROM notes WHERE id=$1 AND user_id=$2`, noteID, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	if tag.RowsAffected() == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := `
		SELECT DISTINCT unnest(tags)
		FROM notes
		WHERE user_id=$1
		ORDER BY 1`

	rows, err := a.Store.Pool.Query(ctx, query, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list tags")
			return
		}
		tags = append(tags, tag)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}
