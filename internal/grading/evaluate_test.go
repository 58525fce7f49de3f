package grading

import (
	"encoding/json"
	"testing"

	"github.com/examforge/examforge/internal/quiz"
)

func mkQuestion(t *testing.T, typ quiz.QuestionType, key string, points, tol float64) *quiz.Question {
	t.Helper()
	q := &quiz.Question{ID: "q1", Type: typ, Points: points, Tolerance: tol}
	if key != "" {
		q.CorrectAnswer = json.RawMessage(key)
	}
	if err := q.DecodeKey(); err != nil {
		t.Fatalf("decode key: %v", err)
	}
	return q
}

func TestEvaluate_PerType(t *testing.T) {
	tests := []struct {
		name    string
		typ     quiz.QuestionType
		key     string
		tol     float64
		answer  string
		correct bool
	}{
		{name: "true_false correct bool", typ: quiz.TypeTrueFalse, key: `true`, answer: `true`, correct: true},
		{name: "true_false correct string form", typ: quiz.TypeTrueFalse, key: `true`, answer: `"true"`, correct: true},
		{name: "true_false wrong", typ: quiz.TypeTrueFalse, key: `true`, answer: `false`, correct: false},
		{name: "true_false shape mismatch", typ: quiz.TypeTrueFalse, key: `true`, answer: `[1,2]`, correct: false},

		{name: "single_choice correct", typ: quiz.TypeSingleChoice, key: `"B"`, answer: `"B"`, correct: true},
		{name: "single_choice wrong", typ: quiz.TypeSingleChoice, key: `"B"`, answer: `"A"`, correct: false},
		{name: "single_choice shape mismatch", typ: quiz.TypeSingleChoice, key: `"B"`, answer: `["B"]`, correct: false},

		{name: "multiple_choice same order", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `["A","C"]`, correct: true},
		{name: "multiple_choice permuted", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `["C","A"]`, correct: true},
		{name: "multiple_choice missing one", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `["A"]`, correct: false},
		{name: "multiple_choice extra one", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `["A","C","D"]`, correct: false},
		{name: "multiple_choice duplicate submitted", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `["A","A"]`, correct: false},
		{name: "multiple_choice scalar", typ: quiz.TypeMultipleChoice, key: `["A","C"]`, answer: `"A"`, correct: false},

		{name: "short_text exact", typ: quiz.TypeShortText, key: `"Paris"`, answer: `"Paris"`, correct: true},
		{name: "short_text case and space", typ: quiz.TypeShortText, key: `"Paris"`, answer: `"  paris "`, correct: true},
		{name: "short_text wrong", typ: quiz.TypeShortText, key: `"Paris"`, answer: `"London"`, correct: false},
		{name: "short_text inner space differs", typ: quiz.TypeShortText, key: `"New York"`, answer: `"NewYork"`, correct: false},

		{name: "numeric exact", typ: quiz.TypeNumeric, key: `10`, answer: `10`, correct: true},
		{name: "numeric within tolerance", typ: quiz.TypeNumeric, key: `10`, tol: 0.5, answer: `10.5`, correct: true},
		{name: "numeric lower boundary", typ: quiz.TypeNumeric, key: `10`, tol: 0.5, answer: `9.5`, correct: true},
		{name: "numeric just outside", typ: quiz.TypeNumeric, key: `10`, tol: 0.5, answer: `10.500001`, correct: false},
		{name: "numeric zero tolerance off by little", typ: quiz.TypeNumeric, key: `10`, answer: `10.0001`, correct: false},
		{name: "numeric string form", typ: quiz.TypeNumeric, key: `10`, answer: `" 10 "`, correct: true},
		{name: "numeric garbage", typ: quiz.TypeNumeric, key: `10`, answer: `"ten"`, correct: false},

		{name: "fill_blank all match", typ: quiz.TypeFillBlank, key: `"cat|dog"`, answer: `["Cat"," dog "]`, correct: true},
		{name: "fill_blank one wrong", typ: quiz.TypeFillBlank, key: `"cat|dog"`, answer: `["cat","bird"]`, correct: false},
		{name: "fill_blank length mismatch", typ: quiz.TypeFillBlank, key: `"cat|dog"`, answer: `["cat"]`, correct: false},
		{name: "fill_blank scalar", typ: quiz.TypeFillBlank, key: `"cat|dog"`, answer: `"cat"`, correct: false},

		{name: "matching exact", typ: quiz.TypeMatching, key: `{"l1":"r1","l2":"r2"}`, answer: `{"l1":"r1","l2":"r2"}`, correct: true},
		{name: "matching extra submitted pair ignored", typ: quiz.TypeMatching, key: `{"l1":"r1"}`, answer: `{"l1":"r1","l9":"r9"}`, correct: true},
		{name: "matching wrong value", typ: quiz.TypeMatching, key: `{"l1":"r1","l2":"r2"}`, answer: `{"l1":"r2","l2":"r1"}`, correct: false},
		{name: "matching missing key", typ: quiz.TypeMatching, key: `{"l1":"r1","l2":"r2"}`, answer: `{"l1":"r1"}`, correct: false},
		{name: "matching array shape", typ: quiz.TypeMatching, key: `{"l1":"r1"}`, answer: `["l1","r1"]`, correct: false},

		{name: "sorting in order", typ: quiz.TypeSorting, key: `["a","b","c"]`, answer: `["a","b","c"]`, correct: true},
		{name: "sorting wrong order", typ: quiz.TypeSorting, key: `["a","b","c"]`, answer: `["c","b","a"]`, correct: false},
		{name: "sorting missing item", typ: quiz.TypeSorting, key: `["a","b","c"]`, answer: `["a","b"]`, correct: false},

		{name: "diagram_point exact", typ: quiz.TypeDiagramPoint, key: `{"x":10,"y":20,"label":"aorta"}`, answer: `{"x":10,"y":20,"label":"aorta"}`, correct: true},
		{name: "diagram_point off coordinate", typ: quiz.TypeDiagramPoint, key: `{"x":10,"y":20,"label":"aorta"}`, answer: `{"x":10.1,"y":20,"label":"aorta"}`, correct: false},
		{name: "diagram_point wrong label", typ: quiz.TypeDiagramPoint, key: `{"x":10,"y":20,"label":"aorta"}`, answer: `{"x":10,"y":20,"label":"vein"}`, correct: false},
		{name: "diagram_point scalar", typ: quiz.TypeDiagramPoint, key: `{"x":10,"y":20,"label":"aorta"}`, answer: `"aorta"`, correct: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := mkQuestion(t, tc.typ, tc.key, 5, tc.tol)
			correct, points := Evaluate(q, json.RawMessage(tc.answer))
			if correct != tc.correct {
				t.Fatalf("correct = %v, want %v", correct, tc.correct)
			}
			wantPoints := 0.0
			if tc.correct {
				wantPoints = 5
			}
			if points != wantPoints {
				t.Fatalf("points = %v, want %v", points, wantPoints)
			}
		})
	}
}

func TestEvaluate_NoKeyGradesIncorrect(t *testing.T) {
	// Manually graded questions carry no key and never earn auto points.
	q := mkQuestion(t, quiz.TypeShortText, "", 5, 0)
	if correct, points := Evaluate(q, json.RawMessage(`"anything"`)); correct || points != 0 {
		t.Fatalf("got correct=%v points=%v, want false/0", correct, points)
	}
}

func TestEvaluate_UnknownTypeGradesIncorrect(t *testing.T) {
	q := &quiz.Question{ID: "q1", Type: "essay_v2", Points: 5}
	if correct, points := Evaluate(q, json.RawMessage(`"x"`)); correct || points != 0 {
		t.Fatalf("got correct=%v points=%v, want false/0", correct, points)
	}
}

func TestEvaluate_EmptyAnswerGradesIncorrect(t *testing.T) {
	q := mkQuestion(t, quiz.TypeTrueFalse, `true`, 5, 0)
	if correct, _ := Evaluate(q, nil); correct {
		t.Fatal("nil answer graded correct")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	q := mkQuestion(t, quiz.TypeMultipleChoice, `["A","C"]`, 5, 0)
	ans := json.RawMessage(`["C","A"]`)
	c1, p1 := Evaluate(q, ans)
	c2, p2 := Evaluate(q, ans)
	if c1 != c2 || p1 != p2 {
		t.Fatalf("evaluation not stable: (%v,%v) then (%v,%v)", c1, p1, c2, p2)
	}
}
