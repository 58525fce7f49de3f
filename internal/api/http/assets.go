package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/storage"
)

// Question media. Keys live under quizzes/{quizID}/ so media is tied to
// its quiz. Uploads are author-only; reads are public, since respondents
// need the images while taking a quiz.

// POST /assets/{quizID}  (multipart, field "file")
func UploadAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", "file required")
			return
		}
		defer f.Close()

		ext := path.Ext(hdr.Filename)
		key := "quizzes/" + quizID + "/" + uuid.NewString() + ext
		if _, err := bs.Put(key, f); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	}
}

// GET /assets/*
func GetAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	}
}
