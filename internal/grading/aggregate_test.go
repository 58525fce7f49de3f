package grading

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/examforge/examforge/internal/quiz"
)

func twoQuestionQuiz(t *testing.T, passing *float64) *quiz.Quiz {
	t.Helper()
	z := &quiz.Quiz{
		ID:           "z1",
		Title:        "Anatomy basics",
		Status:       quiz.StatusPublished,
		PassingScore: passing,
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeSingleChoice, Points: 10, CorrectAnswer: json.RawMessage(`"B"`)},
			{ID: "q2", Type: quiz.TypeTrueFalse, Points: 5, CorrectAnswer: json.RawMessage(`true`)},
		},
	}
	if err := z.DecodeKeys(); err != nil {
		t.Fatalf("decode keys: %v", err)
	}
	return z
}

func TestAggregate_AllCorrect(t *testing.T) {
	z := twoQuestionQuiz(t, nil)
	sum := Aggregate(z, []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`"B"`)},
		{QuestionID: "q2", Raw: json.RawMessage(`true`)},
	})
	if sum.Score != 15 || sum.TotalPoints != 15 {
		t.Fatalf("score/total = %v/%v, want 15/15", sum.Score, sum.TotalPoints)
	}
	if sum.Percentage != 100 {
		t.Fatalf("percentage = %v, want 100", sum.Percentage)
	}
	if sum.Passed != nil {
		t.Fatal("passed should be undefined without a passing score")
	}
	if len(sum.Results) != 2 || sum.Results[0].QuestionID != "q1" || sum.Results[1].QuestionID != "q2" {
		t.Fatalf("results out of order: %+v", sum.Results)
	}
}

func TestAggregate_PartiallyCorrect(t *testing.T) {
	z := twoQuestionQuiz(t, nil)
	sum := Aggregate(z, []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`"A"`)},
		{QuestionID: "q2", Raw: json.RawMessage(`true`)},
	})
	if sum.Score != 5 || sum.TotalPoints != 15 {
		t.Fatalf("score/total = %v/%v, want 5/15", sum.Score, sum.TotalPoints)
	}
	if math.Abs(sum.Percentage-100.0/3) > 1e-9 {
		t.Fatalf("percentage = %v, want ~33.33", sum.Percentage)
	}
}

func TestAggregate_UnknownQuestionSkipped(t *testing.T) {
	z := twoQuestionQuiz(t, nil)
	sum := Aggregate(z, []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`"B"`)},
		{QuestionID: "ghost", Raw: json.RawMessage(`"B"`)},
	})
	if len(sum.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(sum.Results))
	}
	if sum.Score != 10 || sum.TotalPoints != 10 {
		t.Fatalf("score/total = %v/%v, want 10/10", sum.Score, sum.TotalPoints)
	}
}

func TestAggregate_UnansweredNotCounted(t *testing.T) {
	// Total possible covers answered questions only.
	z := twoQuestionQuiz(t, nil)
	sum := Aggregate(z, []Answer{{QuestionID: "q2", Raw: json.RawMessage(`true`)}})
	if sum.TotalPoints != 5 {
		t.Fatalf("total = %v, want 5", sum.TotalPoints)
	}
	if sum.Percentage != 100 {
		t.Fatalf("percentage = %v, want 100", sum.Percentage)
	}
}

func TestAggregate_EmptySubmission(t *testing.T) {
	z := twoQuestionQuiz(t, nil)
	sum := Aggregate(z, nil)
	if sum.Score != 0 || sum.TotalPoints != 0 {
		t.Fatalf("score/total = %v/%v, want 0/0", sum.Score, sum.TotalPoints)
	}
	if sum.Percentage != 0 {
		t.Fatalf("percentage = %v, want 0 when nothing was answerable", sum.Percentage)
	}
}

func TestAggregate_PassingBoundary(t *testing.T) {
	passing := 70.0
	z := &quiz.Quiz{
		ID:           "z2",
		Status:       quiz.StatusPublished,
		PassingScore: &passing,
		Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeTrueFalse, Points: 7, CorrectAnswer: json.RawMessage(`true`)},
			{ID: "q2", Type: quiz.TypeTrueFalse, Points: 3, CorrectAnswer: json.RawMessage(`true`)},
		},
	}
	if err := z.DecodeKeys(); err != nil {
		t.Fatalf("decode keys: %v", err)
	}

	// Exactly at the threshold passes.
	sum := Aggregate(z, []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`true`)},
		{QuestionID: "q2", Raw: json.RawMessage(`false`)},
	})
	if sum.Percentage != 70 {
		t.Fatalf("percentage = %v, want 70", sum.Percentage)
	}
	if sum.Passed == nil || !*sum.Passed {
		t.Fatal("exactly 70% should pass a 70% threshold")
	}

	// Just under fails.
	z.Questions[0].Points = 6.999
	z.Questions[1].Points = 3.001
	sum = Aggregate(z, []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`true`)},
		{QuestionID: "q2", Raw: json.RawMessage(`false`)},
	})
	if sum.Passed == nil || *sum.Passed {
		t.Fatalf("%.4f%% should fail a 70%% threshold", sum.Percentage)
	}
}

func TestAggregate_ScoreNeverExceedsTotal(t *testing.T) {
	z := twoQuestionQuiz(t, nil)
	answers := []Answer{
		{QuestionID: "q1", Raw: json.RawMessage(`"B"`)},
		{QuestionID: "q2", Raw: json.RawMessage(`true`)},
		{QuestionID: "q1", Raw: json.RawMessage(`"B"`)}, // duplicate answer counts twice, both sides
	}
	sum := Aggregate(z, answers)
	if sum.Score > sum.TotalPoints {
		t.Fatalf("score %v exceeds total %v", sum.Score, sum.TotalPoints)
	}
	if sum.Percentage < 0 || sum.Percentage > 100 {
		t.Fatalf("percentage %v out of [0,100]", sum.Percentage)
	}
}
