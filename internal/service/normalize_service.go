package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"qbank/internal/model"
)

// NormalizeService converts raw uploaded payloads into canonical Question
// records, filling defaults and flagging data-quality problems per record.
// Normalization is a pure transformation: the same input always yields the
// same output, and re-normalizing an already-canonical record is a no-op.
type NormalizeService struct{}

// NewNormalizeService creates a new normalize service
func NewNormalizeService() *NormalizeService {
	return &NormalizeService{}
}

// ParsePayload decodes one uploaded file. It accepts either the
// {questions, metadata} object shape or a bare array of question maps
// (legacy shape). Invalid JSON yields a ParseError, valid JSON in any other
// shape a SchemaError.
func (s *NormalizeService) ParsePayload(data []byte) (*model.UploadPayload, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &model.ParseError{Err: err}
	}

	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var payload struct {
			Questions []model.RawQuestion    `json:"questions"`
			Metadata  map[string]interface{} `json:"metadata"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			// Valid JSON of the wrong type is a shape problem, not a
			// parse failure.
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, &model.SchemaError{Reason: "questions is not an array of question objects"}
			}
			return nil, &model.ParseError{Err: err}
		}
		if payload.Questions == nil {
			return nil, &model.SchemaError{Reason: "object payload has no questions array"}
		}
		meta := payload.Metadata
		if meta == nil {
			meta = map[string]interface{}{}
		}
		return &model.UploadPayload{Questions: payload.Questions, Metadata: meta}, nil

	case strings.HasPrefix(trimmed, "["):
		var questions []model.RawQuestion
		if err := json.Unmarshal(raw, &questions); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, &model.SchemaError{Reason: "array elements are not question objects"}
			}
			return nil, &model.ParseError{Err: err}
		}
		return &model.UploadPayload{Questions: questions, Metadata: map[string]interface{}{}}, nil

	default:
		return nil, &model.SchemaError{Reason: "payload is neither an object with questions nor an array"}
	}
}

// Normalize converts every raw record in the payload into canonical form,
// in order. It never rejects a record; structural problems surface as
// warnings alongside the batch.
func (s *NormalizeService) Normalize(payload *model.UploadPayload) ([]model.Question, []model.Issue) {
	questions := make([]model.Question, 0, len(payload.Questions))
	var issues []model.Issue
	for i, raw := range payload.Questions {
		q, qIssues := s.normalizeOne(raw, i)
		questions = append(questions, q)
		issues = append(issues, qIssues...)
	}
	return questions, issues
}

// normalizeOne builds one canonical record. ordinal is the 0-based position
// in the batch; synthesized ids use the 1-based position.
func (s *NormalizeService) normalizeOne(raw model.RawQuestion, ordinal int) (model.Question, []model.Issue) {
	var issues []model.Issue

	q := model.Question{
		ID:                s.resolveID(raw, ordinal),
		Type:              model.QuestionType(stringField(raw, "type")),
		Title:             stringField(raw, "title"),
		QuestionText:      stringField(raw, "question_text"),
		CorrectAnswer:     stringField(raw, "correct_answer"),
		Points:            floatField(raw, "points", model.DefaultPoints),
		Tolerance:         floatField(raw, "tolerance", model.DefaultTolerance),
		Topic:             stringField(raw, "topic"),
		Subtopic:          stringField(raw, "subtopic"),
		Difficulty:        model.Difficulty(stringField(raw, "difficulty")),
		FeedbackCorrect:   stringField(raw, "feedback_correct"),
		FeedbackIncorrect: stringField(raw, "feedback_incorrect"),
		Source:            raw,
	}

	// Absent type defaults to multiple_choice. A present but unrecognized
	// type is kept as-is; flagging it is the validator's job.
	if q.Type == "" {
		q.Type = model.QuestionTypeMultipleChoice
	}
	if q.Topic == "" {
		q.Topic = model.DefaultTopic
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyEasy
	}

	if q.Type == model.QuestionTypeMultipleChoice {
		q.Choices = coerceChoices(raw["choices"])
		answer, resolved := resolveCorrectAnswer(q.CorrectAnswer, q.Choices)
		if !resolved {
			issues = append(issues, model.Issue{
				Severity:   model.SeverityWarning,
				Index:      ordinal,
				QuestionID: q.ID,
				Field:      "correct_answer",
				Message:    fmt.Sprintf("correct answer %q matches no choice, defaulting to A", q.CorrectAnswer),
			})
		}
		q.CorrectAnswer = answer
	}

	return q, issues
}

func (s *NormalizeService) resolveID(raw model.RawQuestion, ordinal int) string {
	for _, key := range model.IDAliases {
		if id := stringField(raw, key); id != "" {
			return id
		}
	}
	return fmt.Sprintf("Q_%05d", ordinal+1)
}

// resolveCorrectAnswer maps a multiple-choice answer to one of A-D. A bare
// letter passes through; otherwise the answer is matched against the
// choices ignoring case and surrounding whitespace. An unmatched answer
// falls back to A, reported by the caller as a data-quality warning.
func resolveCorrectAnswer(answer string, choices [model.ChoiceCount]string) (string, bool) {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	for _, l := range model.ChoiceLetters {
		if letter == l {
			return l, true
		}
	}
	trimmed := strings.TrimSpace(answer)
	if trimmed != "" {
		for i, choice := range choices {
			if strings.EqualFold(trimmed, strings.TrimSpace(choice)) {
				return model.ChoiceLetters[i], true
			}
		}
	}
	return "A", false
}

// coerceChoices pads or truncates the raw choices to exactly ChoiceCount
// entries
func coerceChoices(raw interface{}) [model.ChoiceCount]string {
	var choices [model.ChoiceCount]string
	list, ok := raw.([]interface{})
	if !ok {
		return choices
	}
	for i := 0; i < len(list) && i < model.ChoiceCount; i++ {
		choices[i] = toString(list[i])
	}
	return choices
}

// stringField reads a raw field as text, stringifying numbers and booleans
func stringField(raw model.RawQuestion, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	return toString(v)
}

// floatField reads a raw field as a real number with a safe fallback; it
// never fails
func floatField(raw model.RawQuestion, key string, fallback float64) float64 {
	v, ok := raw[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return fallback
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
