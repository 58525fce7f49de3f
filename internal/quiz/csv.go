package quiz

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Question CSV layout used by the editor's bulk import/export. Options and
// the correct answer stay JSON-encoded inside their cells so every
// question type round-trips through one flat format.
var csvHeader = []string{"id", "type", "prompt", "points", "tolerance", "options", "correct_answer", "image_key"}

// ReadQuestionsCSV parses and validates an import file. Every row's answer
// key must decode for its type; a bad row fails the whole import with its
// line number.
func ReadQuestionsCSV(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, want := range csvHeader {
		if header[i] != want {
			return nil, fmt.Errorf("column %d: got %q, want %q", i+1, header[i], want)
		}
	}

	var out []Question
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		q := Question{
			ID:       rec[0],
			Type:     QuestionType(rec[1]),
			Prompt:   rec[2],
			ImageKey: rec[7],
		}
		if q.ID == "" {
			return nil, fmt.Errorf("line %d: missing question id", line)
		}
		if q.Points, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: points: %w", line, err)
		}
		if rec[4] != "" {
			if q.Tolerance, err = strconv.ParseFloat(rec[4], 64); err != nil {
				return nil, fmt.Errorf("line %d: tolerance: %w", line, err)
			}
		}
		if rec[5] != "" {
			if err := json.Unmarshal([]byte(rec[5]), &q.Options); err != nil {
				return nil, fmt.Errorf("line %d: options: %w", line, err)
			}
		}
		if rec[6] != "" {
			q.CorrectAnswer = json.RawMessage(rec[6])
		}
		if err := q.DecodeKey(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// WriteQuestionsCSV emits the export counterpart of ReadQuestionsCSV.
func WriteQuestionsCSV(w io.Writer, questions []Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, q := range questions {
		var opts string
		if len(q.Options) > 0 {
			b, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			opts = string(b)
		}
		var tol string
		if q.Tolerance != 0 {
			tol = strconv.FormatFloat(q.Tolerance, 'g', -1, 64)
		}
		rec := []string{
			q.ID,
			string(q.Type),
			q.Prompt,
			strconv.FormatFloat(q.Points, 'g', -1, 64),
			tol,
			opts,
			string(q.CorrectAnswer),
			q.ImageKey,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
