package service

import (
	"encoding/json"
	"errors"
	"testing"

	"qbank/internal/model"
)

func TestParsePayloadShapes(t *testing.T) {
	s := NewNormalizeService()

	tests := []struct {
		name      string
		data      string
		questions int
		wantErr   bool
		schemaErr bool
	}{
		{
			name:      "object with questions and metadata",
			data:      `{"questions":[{"question_text":"q1"},{"question_text":"q2"}],"metadata":{"course":"MATH 101"}}`,
			questions: 2,
		},
		{
			name:      "bare array",
			data:      `[{"question_text":"q1"}]`,
			questions: 1,
		},
		{
			name:      "empty questions array",
			data:      `{"questions":[]}`,
			questions: 0,
		},
		{
			name:      "object without questions",
			data:      `{"metadata":{"course":"MATH 101"}}`,
			wantErr:   true,
			schemaErr: true,
		},
		{
			name:      "top-level scalar",
			data:      `42`,
			wantErr:   true,
			schemaErr: true,
		},
		{
			name:      "questions is not an array",
			data:      `{"questions": "not-an-array"}`,
			wantErr:   true,
			schemaErr: true,
		},
		{
			name:      "array of non-objects",
			data:      `[42, 43]`,
			wantErr:   true,
			schemaErr: true,
		},
		{
			name:    "invalid json",
			data:    `{"questions": [`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := s.ParsePayload([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got payload with %d questions", len(payload.Questions))
				}
				var schemaErr *model.SchemaError
				if tt.schemaErr && !errors.As(err, &schemaErr) {
					t.Fatalf("expected SchemaError, got %T: %v", err, err)
				}
				var parseErr *model.ParseError
				if !tt.schemaErr && !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePayload: %v", err)
			}
			if len(payload.Questions) != tt.questions {
				t.Fatalf("got %d questions, want %d", len(payload.Questions), tt.questions)
			}
			if payload.Metadata == nil {
				t.Fatal("metadata should never be nil")
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{
			"question_text":  "What is 2+2?",
			"choices":        []interface{}{"3", "4", "5", "6"},
			"correct_answer": "4",
		},
	}}

	questions, issues := s.Normalize(payload)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	q := questions[0]
	if q.ID != "Q_00001" {
		t.Errorf("id = %q, want synthesized Q_00001", q.ID)
	}
	if q.Type != model.QuestionTypeMultipleChoice {
		t.Errorf("type = %q, want multiple_choice default", q.Type)
	}
	if q.Topic != model.DefaultTopic {
		t.Errorf("topic = %q, want %q", q.Topic, model.DefaultTopic)
	}
	if q.Difficulty != model.DifficultyEasy {
		t.Errorf("difficulty = %q, want %q", q.Difficulty, model.DifficultyEasy)
	}
	if q.Points != model.DefaultPoints {
		t.Errorf("points = %g, want %g", q.Points, model.DefaultPoints)
	}
	if q.Tolerance != model.DefaultTolerance {
		t.Errorf("tolerance = %g, want %g", q.Tolerance, model.DefaultTolerance)
	}
	if q.CorrectAnswer != "B" {
		t.Errorf("correct answer = %q, want resolved letter B", q.CorrectAnswer)
	}
}

func TestNormalizeIDAliases(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{"question_id": "ALG-7", "question_text": "x"},
		{"Id": "LEGACY-3", "question_text": "y"},
		{"question_text": "z"},
	}}

	questions, _ := s.Normalize(payload)
	if questions[0].ID != "ALG-7" {
		t.Errorf("questions[0].ID = %q, want ALG-7", questions[0].ID)
	}
	if questions[1].ID != "LEGACY-3" {
		t.Errorf("questions[1].ID = %q, want LEGACY-3", questions[1].ID)
	}
	if questions[2].ID != "Q_00003" {
		t.Errorf("questions[2].ID = %q, want Q_00003", questions[2].ID)
	}
}

func TestNormalizeCorrectAnswerResolution(t *testing.T) {
	s := NewNormalizeService()
	choices := []interface{}{"Paris", "London", "Berlin", "Madrid"}

	tests := []struct {
		name      string
		answer    interface{}
		want      string
		wantIssue bool
	}{
		{name: "bare letter", answer: "C", want: "C"},
		{name: "lowercase letter", answer: "b", want: "B"},
		{name: "choice text", answer: "Berlin", want: "C"},
		{name: "choice text differing case and space", answer: "  paris ", want: "A"},
		{name: "unmatched answer falls back", answer: "Rome", want: "A", wantIssue: true},
		{name: "missing answer falls back", answer: "", want: "A", wantIssue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &model.UploadPayload{Questions: []model.RawQuestion{
				{"question_text": "Capital of France?", "choices": choices, "correct_answer": tt.answer},
			}}
			questions, issues := s.Normalize(payload)
			if questions[0].CorrectAnswer != tt.want {
				t.Errorf("correct answer = %q, want %q", questions[0].CorrectAnswer, tt.want)
			}
			if tt.wantIssue && len(issues) == 0 {
				t.Error("expected a fallback warning, got none")
			}
			if !tt.wantIssue && len(issues) != 0 {
				t.Errorf("unexpected issues: %v", issues)
			}
		})
	}
}

func TestNormalizeNumericalAnswerVerbatim(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{"type": "numerical", "question_text": "Root of x^2-9?", "correct_answer": 3.5, "tolerance": "0.01"},
	}}

	questions, issues := s.Normalize(payload)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	q := questions[0]
	if q.CorrectAnswer != "3.5" {
		t.Errorf("correct answer = %q, want 3.5 preserved verbatim", q.CorrectAnswer)
	}
	if q.Tolerance != 0.01 {
		t.Errorf("tolerance = %g, want 0.01 coerced from string", q.Tolerance)
	}
}

func TestNormalizeCoercesBadNumbers(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{"type": "numerical", "question_text": "x", "correct_answer": "1", "points": "a lot", "tolerance": nil},
	}}

	questions, _ := s.Normalize(payload)
	if questions[0].Points != model.DefaultPoints {
		t.Errorf("points = %g, want fallback %g", questions[0].Points, model.DefaultPoints)
	}
	if questions[0].Tolerance != model.DefaultTolerance {
		t.Errorf("tolerance = %g, want fallback %g", questions[0].Tolerance, model.DefaultTolerance)
	}
}

func TestNormalizeChoicePadding(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{"question_text": "x", "choices": []interface{}{"only one"}, "correct_answer": "A"},
		{"question_text": "y", "choices": []interface{}{"1", "2", "3", "4", "5", "6"}, "correct_answer": "A"},
	}}

	questions, _ := s.Normalize(payload)
	if got := questions[0].Choices; got != [4]string{"only one", "", "", ""} {
		t.Errorf("short choices = %v, want padded to 4", got)
	}
	if got := questions[1].Choices; got != [4]string{"1", "2", "3", "4"} {
		t.Errorf("long choices = %v, want truncated to 4", got)
	}
}

// Re-uploading an export of normalized records must change nothing: the
// round trip through the wire shape is a fixed point of normalization.
func TestNormalizeIdempotent(t *testing.T) {
	s := NewNormalizeService()

	payload := &model.UploadPayload{Questions: []model.RawQuestion{
		{
			"question_text":  "What is 2+2?",
			"choices":        []interface{}{"3", "4", "5", "6"},
			"correct_answer": "4",
			"difficulty":     "Medium",
		},
	}}
	first, issues := s.Normalize(payload)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues on first pass: %v", issues)
	}

	wire, err := json.Marshal(map[string]interface{}{
		"questions": []model.RawQuestion{first[0].Payload()},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	reparsed, err := s.ParsePayload(wire)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	second, issues := s.Normalize(reparsed)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues on second pass: %v", issues)
	}

	a, b := first[0], second[0]
	a.Source, b.Source = nil, nil
	if a.ID != b.ID || a.Type != b.Type || a.Choices != b.Choices ||
		a.CorrectAnswer != b.CorrectAnswer || a.Points != b.Points ||
		a.Tolerance != b.Tolerance || a.Topic != b.Topic || a.Difficulty != b.Difficulty {
		t.Errorf("second pass changed the record:\nfirst:  %+v\nsecond: %+v", a, b)
	}
}
