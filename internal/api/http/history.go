package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/response"
)

// GET /responses?quiz_id=...&limit=50
// Authenticated callers see their own attempt history with quiz summaries.
func ListMyResponsesHandler(svc *response.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "auth_required", "authentication required")
			return
		}
		items, err := svc.History(r.Context(), userID, response.ListOpts{
			QuizID: strings.TrimSpace(r.URL.Query().Get("quiz_id")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// GET /quizzes/{quizID}/responses?limit=100&offset=0
// Author/admin review of every attempt on a quiz.
func ListQuizResponsesHandler(svc *response.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		items, err := svc.ListByQuiz(r.Context(), quizID, response.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 100),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}
