package quiz

import "encoding/json"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// QuestionType tags the answer shape of a question. The grading engine
// switches exhaustively over these; adding a type means adding a decode
// rule in answerkey.go and a comparison in grading.
type QuestionType string

const (
	TypeTrueFalse      QuestionType = "true_false"
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeShortText      QuestionType = "short_text"
	TypeNumeric        QuestionType = "numeric"
	TypeFillBlank      QuestionType = "fill_blank"
	TypeMatching       QuestionType = "matching"
	TypeSorting        QuestionType = "sorting"
	TypeDiagramPoint   QuestionType = "diagram_point"
)

type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text,omitempty"`
	Correct bool   `json:"correct,omitempty"`
}

// DiagramPoint is a labeled coordinate on a question image.
type DiagramPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"prompt,omitempty"`
	ImageKey string       `json:"image_key,omitempty"` // blob key for diagram questions
	Options  []Option     `json:"options,omitempty"`
	Points   float64      `json:"points"`
	// Tolerance is the absolute tolerance for numeric questions. Zero means
	// the submitted number must match exactly.
	Tolerance float64 `json:"tolerance,omitempty"`
	// CorrectAnswer is the stored key as authored; its JSON shape depends on
	// Type. Empty means the question is not auto-gradable.
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`

	key *AnswerKey // decoded form, populated by DecodeKey
}

// Key returns the decoded answer key, or nil when the question has no
// stored key (manually graded) or DecodeKey has not run.
func (q *Question) Key() *AnswerKey { return q.key }

type Quiz struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`
	Title   string `json:"title"`
	Status  Status `json:"status"`
	// PassingScore is a percentage threshold; nil means the quiz has no
	// pass/fail notion.
	PassingScore *float64 `json:"passing_score,omitempty"`
	// ShowCorrect controls whether per-question correctness is echoed back
	// to the respondent after submission.
	ShowCorrect bool `json:"show_correct,omitempty"`
	// PasswordHash is a bcrypt hash; non-empty means submissions require an
	// authenticated respondent.
	PasswordHash string `json:"-"`
	// MaxAttempts caps attempts per identified user. Zero means unlimited.
	MaxAttempts int        `json:"max_attempts,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}

func (z *Quiz) QuestionByID(id string) *Question {
	for i := range z.Questions {
		if z.Questions[i].ID == id {
			return &z.Questions[i]
		}
	}
	return nil
}

func (z *Quiz) TotalPoints() float64 {
	var sum float64
	for i := range z.Questions {
		sum += z.Questions[i].Points
	}
	return sum
}

// Sanitized returns a copy safe to serve to respondents: answer keys,
// tolerances and per-option correct flags are stripped.
func (z *Quiz) Sanitized() Quiz {
	out := *z
	out.PasswordHash = ""
	out.Questions = make([]Question, len(z.Questions))
	for i, q := range z.Questions {
		q.CorrectAnswer = nil
		q.Tolerance = 0
		q.key = nil
		if len(q.Options) > 0 {
			opts := make([]Option, len(q.Options))
			for j, o := range q.Options {
				o.Correct = false
				opts[j] = o
			}
			q.Options = opts
		}
		out.Questions[i] = q
	}
	return out
}

// Summary is the listing view of a quiz (no questions).
type Summary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Status        Status   `json:"status"`
	OwnerID       string   `json:"owner_id,omitempty"`
	QuestionCount int      `json:"question_count"`
	PassingScore  *float64 `json:"passing_score,omitempty"`
	CreatedAt     int64    `json:"created_at,omitempty"`
}
