package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/quiz"
	"github.com/examforge/examforge/internal/rbac"
)

type upsertQuizReq struct {
	ID           string          `json:"id,omitempty"`
	Title        string          `json:"title"`
	Status       quiz.Status     `json:"status,omitempty"`
	PassingScore *float64        `json:"passing_score,omitempty"`
	ShowCorrect  bool            `json:"show_correct,omitempty"`
	Password     string          `json:"password,omitempty"`
	MaxAttempts  int             `json:"max_attempts,omitempty"`
	Questions    []quiz.Question `json:"questions"`
}

// POST /quizzes
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation", "bad json")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "validation", "title required")
			return
		}
		if req.PassingScore != nil && (*req.PassingScore < 0 || *req.PassingScore > 100) {
			writeError(w, http.StatusBadRequest, "validation", "passing_score out of range")
			return
		}

		z := quiz.Quiz{
			ID:           req.ID,
			OwnerID:      authmw.SubjectFromContext(r.Context()),
			Title:        req.Title,
			Status:       req.Status,
			PassingScore: req.PassingScore,
			ShowCorrect:  req.ShowCorrect,
			MaxAttempts:  req.MaxAttempts,
			Questions:    req.Questions,
		}
		if z.ID == "" {
			z.ID = uuid.NewString()
		} else {
			// Put upserts, so a caller-chosen id may hit an existing quiz.
			// Only the owner (or an admin) may overwrite it.
			existing, err := store.Get(r.Context(), z.ID)
			switch {
			case err == nil:
				sub := authmw.SubjectFromContext(r.Context())
				if rbac.RoleFromContext(r.Context()) != "admin" && existing.OwnerID != sub {
					writeError(w, http.StatusConflict, "conflict", "quiz id already in use")
					return
				}
				z.OwnerID = existing.OwnerID
				z.CreatedAt = existing.CreatedAt
			case !errors.Is(err, quiz.ErrNotFound):
				writeError(w, http.StatusInternalServerError, "internal", "internal error")
				return
			}
		}
		if z.Status == "" {
			z.Status = quiz.StatusDraft
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal", "internal error")
				return
			}
			z.PasswordHash = string(hash)
		}

		if err := store.Put(r.Context(), z); err != nil {
			// Malformed answer keys are an authoring mistake, not ours.
			writeError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, z.Sanitized())
	}
}

// GET /quizzes/{quizID}
// Owners and admins see answer keys; everyone else gets the sanitized
// published quiz, and drafts stay invisible.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "quiz not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		if role == "admin" || (sub != "" && sub == z.OwnerID) {
			writeJSON(w, http.StatusOK, z)
			return
		}
		if z.Status != quiz.StatusPublished {
			writeError(w, http.StatusNotFound, "not_found", "quiz not found")
			return
		}
		writeJSON(w, http.StatusOK, z.Sanitized())
	}
}

// GET /quizzes?limit=50&offset=0
// Authors list their own quizzes, admins everything, respondents only what
// is published.
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		switch rbac.RoleFromContext(r.Context()) {
		case "admin":
		case "author":
			opts.OwnerID = authmw.SubjectFromContext(r.Context())
		default:
			opts.PublishedOnly = true
		}
		list, err := store.List(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// DELETE /quizzes/{quizID}
func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		z, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "quiz not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		if rbac.RoleFromContext(r.Context()) != "admin" && z.OwnerID != sub {
			writeError(w, http.StatusForbidden, "forbidden", "not the owner")
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
