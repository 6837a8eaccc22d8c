package service

import (
	"fmt"
	"strconv"
	"strings"

	"qbank/internal/model"
)

// ValidateService runs required-field and type-specific correctness checks
// against canonical records. It never mutates records and never blocks the
// merge: records with errors still participate, flagged in the report.
type ValidateService struct{}

// NewValidateService creates a new validate service
func NewValidateService() *ValidateService {
	return &ValidateService{}
}

// ValidateBatch checks a full corpus or candidate batch record by record
func (s *ValidateService) ValidateBatch(questions []model.Question) *model.ValidationReport {
	report := &model.ValidationReport{
		Errors:   []model.Issue{},
		Warnings: []model.Issue{},
	}
	for i, q := range questions {
		for _, issue := range s.ValidateQuestion(q, i) {
			if issue.Severity == model.SeverityError {
				report.Errors = append(report.Errors, issue)
			} else {
				report.Warnings = append(report.Warnings, issue)
			}
		}
		report.Counts.Checked++
	}
	report.Counts.Errors = len(report.Errors)
	report.Counts.Warnings = len(report.Warnings)
	report.IsValid = len(report.Errors) == 0
	return report
}

// ValidateQuestion checks one canonical record. index is its position in
// the batch, carried into every issue for actionable reporting.
func (s *ValidateService) ValidateQuestion(q model.Question, index int) []model.Issue {
	var issues []model.Issue

	issue := func(severity model.Severity, field, message string) {
		issues = append(issues, model.Issue{
			Severity:   severity,
			Index:      index,
			QuestionID: q.ID,
			Field:      field,
			Message:    message,
		})
	}

	if strings.TrimSpace(q.ID) == "" {
		issue(model.SeverityError, "id", "question id is missing")
	}
	if strings.TrimSpace(string(q.Type)) == "" {
		issue(model.SeverityError, "type", "question type is missing")
	} else if !model.KnownType(q.Type) {
		issue(model.SeverityError, "type", fmt.Sprintf("unknown question type %q", q.Type))
	}
	if strings.TrimSpace(q.QuestionText) == "" {
		issue(model.SeverityError, "question_text", "question text is missing")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		issue(model.SeverityError, "correct_answer", "correct answer is missing")
	}

	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		filled := 0
		for _, c := range q.Choices {
			if strings.TrimSpace(c) != "" {
				filled++
			}
		}
		if filled < 2 {
			issue(model.SeverityWarning, "choices", fmt.Sprintf("only %d non-empty choices, at least 2 expected", filled))
		}
		if !isChoiceLetter(q.CorrectAnswer) {
			issue(model.SeverityError, "correct_answer", fmt.Sprintf("correct answer %q is not one of A-D", q.CorrectAnswer))
		}
	case model.QuestionTypeNumerical:
		if _, err := strconv.ParseFloat(strings.TrimSpace(q.CorrectAnswer), 64); err != nil && strings.TrimSpace(q.CorrectAnswer) != "" {
			issue(model.SeverityError, "correct_answer", fmt.Sprintf("correct answer %q is not a number", q.CorrectAnswer))
		}
	}

	if q.Points <= 0 {
		issue(model.SeverityWarning, "points", fmt.Sprintf("points should be positive, got %g", q.Points))
	}

	for _, f := range q.TextFields() {
		if hasUnbalancedDelimiters(f.Text) {
			issue(model.SeverityWarning, f.Name, "odd number of $ delimiters, LaTeX may be unbalanced")
		}
	}

	return issues
}

func isChoiceLetter(answer string) bool {
	for _, l := range model.ChoiceLetters {
		if answer == l {
			return true
		}
	}
	return false
}

// hasUnbalancedDelimiters is a heuristic, not a LaTeX parser: an odd count
// of $ characters is treated as suspect
func hasUnbalancedDelimiters(text string) bool {
	return strings.Count(text, "$")%2 == 1
}
