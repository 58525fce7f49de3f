// Package grading decides correctness of submitted answers and aggregates
// them into an attempt-level score. Everything here is pure: evaluation
// never touches I/O and never fails — a malformed answer grades as
// incorrect so one bad payload cannot abort the rest of an attempt.
package grading

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/examforge/examforge/internal/quiz"
)

// Evaluate grades one submitted answer against a question. Points awarded
// are the question's full point value or zero; there is no partial credit.
// Questions without a decoded answer key (manually graded types, unknown
// type tags) always grade incorrect.
func Evaluate(q *quiz.Question, answer json.RawMessage) (bool, float64) {
	key := q.Key()
	if key == nil || len(answer) == 0 {
		return award(q, false)
	}

	switch q.Type {
	case quiz.TypeTrueFalse:
		b, ok := decodeBool(answer)
		return award(q, ok && b == key.Bool)

	case quiz.TypeSingleChoice:
		s, ok := decodeString(answer)
		return award(q, ok && s == key.Choice)

	case quiz.TypeMultipleChoice:
		got, ok := decodeStrings(answer)
		return award(q, ok && sortedEqual(got, key.Choices))

	case quiz.TypeShortText:
		s, ok := decodeString(answer)
		return award(q, ok && textEqual(s, key.Text))

	case quiz.TypeNumeric:
		n, ok := decodeNumber(answer)
		return award(q, ok && math.Abs(n-key.Number) <= q.Tolerance)

	case quiz.TypeFillBlank:
		got, ok := decodeStrings(answer)
		if !ok || len(got) != len(key.Blanks) {
			return award(q, false)
		}
		for i, want := range key.Blanks {
			if !textEqual(got[i], want) {
				return award(q, false)
			}
		}
		return award(q, true)

	case quiz.TypeMatching:
		got, ok := decodePairs(answer)
		if !ok {
			return award(q, false)
		}
		// Every authored pair must be present; extra submitted pairs are
		// ignored.
		for left, right := range key.Pairs {
			if got[left] != right {
				return award(q, false)
			}
		}
		return award(q, true)

	case quiz.TypeSorting:
		got, ok := decodeStrings(answer)
		if !ok || len(got) != len(key.Order) {
			return award(q, false)
		}
		for i, want := range key.Order {
			if got[i] != want {
				return award(q, false)
			}
		}
		return award(q, true)

	case quiz.TypeDiagramPoint:
		var pt quiz.DiagramPoint
		if err := json.Unmarshal(answer, &pt); err != nil {
			return award(q, false)
		}
		p := key.Point
		return award(q, pt.X == p.X && pt.Y == p.Y && pt.Label == p.Label)
	}

	// Unknown type tag: fail safe, never an error.
	return award(q, false)
}

func award(q *quiz.Question, correct bool) (bool, float64) {
	if correct {
		return true, q.Points
	}
	return false, 0
}

// textEqual compares ignoring case and leading/trailing whitespace.
func textEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// sortedEqual compares two id lists order-independently but
// duplicate-sensitively: sorted serializations must match element for
// element.
func sortedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func decodeBool(raw json.RawMessage) (bool, bool) {
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

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
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

func decodePairs(raw json.RawMessage) (map[string]string, bool) {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}
