package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/quiz"
	"github.com/examforge/examforge/internal/rbac"
)

// POST /quizzes/{quizID}/questions/import  (multipart, field "file")
// Appends the file's questions to the quiz. The import is atomic: any bad
// row rejects the whole file.
func ImportQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, ok := loadOwnedQuiz(w, r, store)
		if !ok {
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", "file required")
			return
		}
		defer f.Close()

		imported, err := quiz.ReadQuestionsCSV(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		for _, q := range imported {
			if z.QuestionByID(q.ID) != nil {
				writeError(w, http.StatusBadRequest, "validation",
					fmt.Sprintf("duplicate question id %s", q.ID))
				return
			}
		}

		z.Questions = append(z.Questions, imported...)
		if err := store.Put(r.Context(), z); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"imported": len(imported)})
	}
}

// GET /quizzes/{quizID}/questions/export
func ExportQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, ok := loadOwnedQuiz(w, r, store)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+z.ID+`-questions.csv"`)
		if err := quiz.WriteQuestionsCSV(w, z.Questions); err != nil {
			// Headers are out; nothing better to do than log via the
			// request logger and cut the stream.
			return
		}
	}
}

func loadOwnedQuiz(w http.ResponseWriter, r *http.Request, store quiz.Store) (quiz.Quiz, bool) {
	z, err := store.Get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "quiz not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return quiz.Quiz{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	if rbac.RoleFromContext(r.Context()) != "admin" && z.OwnerID != sub {
		writeError(w, http.StatusForbidden, "forbidden", "not the owner")
		return quiz.Quiz{}, false
	}
	return z, true
}
