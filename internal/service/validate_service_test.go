package service

import (
	"testing"

	"qbank/internal/model"
)

func validMC() model.Question {
	return model.Question{
		ID:            "Q_00001",
		Type:          model.QuestionTypeMultipleChoice,
		QuestionText:  "What is 2+2?",
		Choices:       [4]string{"3", "4", "5", "6"},
		CorrectAnswer: "B",
		Points:        1,
		Tolerance:     0.05,
		Topic:         "Arithmetic",
		Difficulty:    model.DifficultyEasy,
	}
}

func TestValidateQuestionRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.Question)
		field    string
		severity model.Severity
	}{
		{
			name:     "missing id",
			mutate:   func(q *model.Question) { q.ID = " " },
			field:    "id",
			severity: model.SeverityError,
		},
		{
			name:     "unknown type",
			mutate:   func(q *model.Question) { q.Type = "essay" },
			field:    "type",
			severity: model.SeverityError,
		},
		{
			name:     "missing question text",
			mutate:   func(q *model.Question) { q.QuestionText = "" },
			field:    "question_text",
			severity: model.SeverityError,
		},
		{
			name:     "missing correct answer",
			mutate:   func(q *model.Question) { q.CorrectAnswer = "" },
			field:    "correct_answer",
			severity: model.SeverityError,
		},
		{
			name:     "non-letter answer on multiple choice",
			mutate:   func(q *model.Question) { q.CorrectAnswer = "4" },
			field:    "correct_answer",
			severity: model.SeverityError,
		},
		{
			name: "too few choices",
			mutate: func(q *model.Question) {
				q.Choices = [4]string{"only", "", " ", ""}
				q.CorrectAnswer = "A"
			},
			field:    "choices",
			severity: model.SeverityWarning,
		},
		{
			name: "numerical answer not a number",
			mutate: func(q *model.Question) {
				q.Type = model.QuestionTypeNumerical
				q.CorrectAnswer = "four"
			},
			field:    "correct_answer",
			severity: model.SeverityError,
		},
		{
			name:     "non-positive points",
			mutate:   func(q *model.Question) { q.Points = 0 },
			field:    "points",
			severity: model.SeverityWarning,
		},
		{
			name:     "unbalanced latex delimiters",
			mutate:   func(q *model.Question) { q.QuestionText = "Solve $2x + 4 = 10" },
			field:    "question_text",
			severity: model.SeverityWarning,
		},
		{
			name:     "unbalanced delimiters in a choice",
			mutate:   func(q *model.Question) { q.Choices[2] = "$x" },
			field:    "choices[C]",
			severity: model.SeverityWarning,
		},
	}

	s := NewValidateService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validMC()
			tt.mutate(&q)
			issues := s.ValidateQuestion(q, 3)
			found := false
			for _, issue := range issues {
				if issue.Field == tt.field && issue.Severity == tt.severity {
					found = true
					if issue.Index != 3 {
						t.Errorf("issue index = %d, want 3", issue.Index)
					}
				}
			}
			if !found {
				t.Errorf("no %s issue on field %q, got %v", tt.severity, tt.field, issues)
			}
		})
	}
}

func TestValidateQuestionClean(t *testing.T) {
	s := NewValidateService()
	if issues := s.ValidateQuestion(validMC(), 0); len(issues) != 0 {
		t.Fatalf("valid question produced issues: %v", issues)
	}

	numerical := model.Question{
		ID:            "Q_00002",
		Type:          model.QuestionTypeNumerical,
		QuestionText:  "Positive root of $x^2-9=0$?",
		CorrectAnswer: "3",
		Points:        2,
	}
	if issues := s.ValidateQuestion(numerical, 0); len(issues) != 0 {
		t.Fatalf("valid numerical question produced issues: %v", issues)
	}
}

// A missing numerical answer reports only the missing-field error, not a
// second not-a-number error for the same blank value.
func TestValidateBlankNumericalAnswer(t *testing.T) {
	s := NewValidateService()
	q := model.Question{
		ID:           "Q_00001",
		Type:         model.QuestionTypeNumerical,
		QuestionText: "x",
		Points:       1,
	}
	issues := s.ValidateQuestion(q, 0)
	count := 0
	for _, issue := range issues {
		if issue.Field == "correct_answer" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d correct_answer issues, want exactly 1: %v", count, issues)
	}
}

func TestValidateBatchFailOpen(t *testing.T) {
	s := NewValidateService()

	good := validMC()
	bad := validMC()
	bad.ID = "Q_00002"
	bad.QuestionText = ""
	warned := validMC()
	warned.ID = "Q_00003"
	warned.Points = -1

	report := s.ValidateBatch([]model.Question{good, bad, warned})

	if report.IsValid {
		t.Error("report with errors should not be valid")
	}
	if report.Counts.Checked != 3 {
		t.Errorf("checked = %d, want 3", report.Counts.Checked)
	}
	if report.Counts.Errors != len(report.Errors) || report.Counts.Errors != 1 {
		t.Errorf("errors = %d (counts %d), want 1", len(report.Errors), report.Counts.Errors)
	}
	if report.Counts.Warnings != len(report.Warnings) || report.Counts.Warnings != 1 {
		t.Errorf("warnings = %d (counts %d), want 1", len(report.Warnings), report.Counts.Warnings)
	}
	if report.Errors[0].Index != 1 {
		t.Errorf("error index = %d, want 1", report.Errors[0].Index)
	}
	if report.Warnings[0].Index != 2 {
		t.Errorf("warning index = %d, want 2", report.Warnings[0].Index)
	}
}
