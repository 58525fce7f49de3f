package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/grading"
	"github.com/examforge/examforge/internal/response"
)

type submitAnswer struct {
	QuestionID   string          `json:"question_id"`
	Answer       json.RawMessage `json:"answer"`
	TimeSpentSec int             `json:"time_spent_sec,omitempty"`
}

type submitReq struct {
	Answers    []submitAnswer `json:"answers"`
	GuestName  string         `json:"guest_name,omitempty"`
	GuestEmail string         `json:"guest_email,omitempty"`
	StartedAt  int64          `json:"started_at,omitempty"`
}

type resultView struct {
	QuestionID string  `json:"question_id"`
	Correct    bool    `json:"correct"`
	Points     float64 `json:"points"`
}

type submitResp struct {
	ID          string       `json:"id"`
	QuizID      string       `json:"quiz_id"`
	Score       float64      `json:"score"`
	TotalPoints float64      `json:"total_points"`
	Percentage  float64      `json:"percentage"`
	IsPassed    *bool        `json:"is_passed,omitempty"`
	CompletedAt int64        `json:"completed_at"`
	Results     []resultView `json:"results,omitempty"`
}

// POST /quizzes/{quizID}/responses
// Public: anonymous respondents submit without a token, authenticated ones
// are identified via OptionalJWT.
func SubmitResponseHandler(svc *response.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")

		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation", "bad json")
			return
		}
		if len(req.Answers) == 0 {
			writeError(w, http.StatusBadRequest, "validation", "answers required")
			return
		}

		answers := make([]grading.Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			if a.QuestionID == "" {
				writeError(w, http.StatusBadRequest, "validation", "question_id required")
				return
			}
			answers = append(answers, grading.Answer{
				QuestionID:   a.QuestionID,
				Raw:          a.Answer,
				TimeSpentSec: a.TimeSpentSec,
			})
		}

		a, reveal, err := svc.Submit(r.Context(), response.SubmitInput{
			QuizID:     quizID,
			UserID:     authmw.SubjectFromContext(r.Context()),
			GuestName:  req.GuestName,
			GuestEmail: req.GuestEmail,
			Answers:    answers,
			StartedAt:  req.StartedAt,
		})
		if err != nil {
			writeSubmitError(w, err)
			return
		}

		resp := submitResp{
			ID:          a.ID,
			QuizID:      a.QuizID,
			Score:       a.Score,
			TotalPoints: a.TotalPoints,
			Percentage:  a.Percentage,
			IsPassed:    a.Passed,
			CompletedAt: a.CompletedAt,
		}
		if reveal {
			for _, res := range a.Results {
				resp.Results = append(resp.Results, resultView{
					QuestionID: res.QuestionID,
					Correct:    res.Correct,
					Points:     res.Points,
				})
			}
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
