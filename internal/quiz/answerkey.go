package quiz

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKey is the typed form of a question's stored correct answer.
// Exactly one field is meaningful, selected by the question type.
type AnswerKey struct {
	Bool    bool
	Choice  string
	Choices []string
	Text    string
	Number  float64
	Blanks  []string
	Pairs   map[string]string
	Order   []string
	Point   DiagramPoint
}

// DecodeKey validates and decodes the stored correct answer against the
// question type. Questions without a stored key are left ungraded (Key()
// stays nil); for choice types the key may instead be derived from the
// options' correct flags. Malformed stored data is an error so that bad
// authoring fails at load time, not silently at grading time.
func (q *Question) DecodeKey() error {
	q.key = nil
	raw := q.CorrectAnswer

	switch q.Type {
	case TypeTrueFalse:
		if len(raw) == 0 {
			return nil
		}
		b, ok := coerceBool(raw)
		if !ok {
			return keyErr(q, "expected boolean")
		}
		q.key = &AnswerKey{Bool: b}

	case TypeSingleChoice:
		if len(raw) == 0 {
			for _, o := range q.Options {
				if o.Correct {
					q.key = &AnswerKey{Choice: o.ID}
					return nil
				}
			}
			return nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return keyErr(q, "expected option id string")
		}
		q.key = &AnswerKey{Choice: s}

	case TypeMultipleChoice:
		if len(raw) == 0 {
			var ids []string
			for _, o := range q.Options {
				if o.Correct {
					ids = append(ids, o.ID)
				}
			}
			if len(ids) > 0 {
				q.key = &AnswerKey{Choices: ids}
			}
			return nil
		}
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return keyErr(q, "expected option id array")
		}
		q.key = &AnswerKey{Choices: ids}

	case TypeShortText:
		if len(raw) == 0 {
			return nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return keyErr(q, "expected string")
		}
		q.key = &AnswerKey{Text: s}

	case TypeNumeric:
		if len(raw) == 0 {
			return nil
		}
		n, ok := coerceNumber(raw)
		if !ok {
			return keyErr(q, "expected number")
		}
		if q.Tolerance < 0 {
			return keyErr(q, "negative tolerance")
		}
		q.key = &AnswerKey{Number: n}

	case TypeFillBlank:
		if len(raw) == 0 {
			return nil
		}
		// Authored either as a pipe-delimited string ("ab|cd") or as an
		// explicit array; storage uses the pipe form.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			q.key = &AnswerKey{Blanks: strings.Split(s, "|")}
			return nil
		}
		var parts []string
		if err := json.Unmarshal(raw, &parts); err != nil {
			return keyErr(q, "expected pipe-delimited string or array")
		}
		q.key = &AnswerKey{Blanks: parts}

	case TypeMatching:
		if len(raw) == 0 {
			return nil
		}
		var pairs map[string]string
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return keyErr(q, "expected string-to-string object")
		}
		q.key = &AnswerKey{Pairs: pairs}

	case TypeSorting:
		if len(raw) == 0 {
			return nil
		}
		var order []string
		if err := json.Unmarshal(raw, &order); err != nil {
			return keyErr(q, "expected item id array")
		}
		q.key = &AnswerKey{Order: order}

	case TypeDiagramPoint:
		if len(raw) == 0 {
			return nil
		}
		var pt DiagramPoint
		if err := json.Unmarshal(raw, &pt); err != nil {
			return keyErr(q, "expected {x,y,label} object")
		}
		q.key = &AnswerKey{Point: pt}

	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// DecodeKeys decodes the answer key of every question in the quiz.
func (z *Quiz) DecodeKeys() error {
	for i := range z.Questions {
		if err := z.Questions[i].DecodeKey(); err != nil {
			return err
		}
	}
	return nil
}

func keyErr(q *Question, msg string) error {
	return fmt.Errorf("question %s: %s key: %s", q.ID, q.Type, msg)
}

// coerceBool accepts a JSON boolean or its string form ("true"/"false").
func coerceBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// coerceNumber accepts a JSON number or a numeric string.
func coerceNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
