package service

import (
	"strings"

	"qbank/internal/model"
)

// unicodeLatex maps common unicode math characters to their LaTeX commands
var unicodeLatex = []struct {
	from string
	to   string
}{
	{"×", `\times `},
	{"÷", `\div `},
	{"±", `\pm `},
	{"≤", `\leq `},
	{"≥", `\geq `},
	{"≠", `\neq `},
	{"≈", `\approx `},
	{"√", `\sqrt `},
	{"∞", `\infty `},
	{"π", `\pi `},
	{"θ", `\theta `},
	{"α", `\alpha `},
	{"β", `\beta `},
	{"Δ", `\Delta `},
	{"∑", `\sum `},
	{"∫", `\int `},
	{"·", `\cdot `},
	{"°", `^\circ `},
	{"µ", `\mu `},
	{"μ", `\mu `},
}

// CleanupService is the cosmetic LaTeX cleanup pipeline. It only transforms
// text fields, gated by per-pass toggles, and never affects record identity
// or merge decisions.
type CleanupService struct{}

// NewCleanupService creates a new cleanup service
func NewCleanupService() *CleanupService {
	return &CleanupService{}
}

// CleanBatch applies the enabled passes to every record and returns the
// cleaned copies plus any syntax warnings
func (s *CleanupService) CleanBatch(questions []model.Question, opts model.CleanupOptions) ([]model.Question, []model.Issue) {
	out := make([]model.Question, len(questions))
	var issues []model.Issue
	for i, q := range questions {
		cleaned, qIssues := s.Clean(q, opts)
		qIssues = reindexed(qIssues, i)
		out[i] = cleaned
		issues = append(issues, qIssues...)
	}
	return out, issues
}

// Clean applies the enabled passes to one record's text fields
func (s *CleanupService) Clean(q model.Question, opts model.CleanupOptions) (model.Question, []model.Issue) {
	apply := func(text string) string {
		if opts.ConvertUnicode {
			text = convertUnicode(text)
		}
		if opts.FixDelimiters {
			text = fixDelimiters(text)
		}
		if opts.OptimizeSpacing {
			text = optimizeSpacing(text)
		}
		return text
	}

	q.Title = apply(q.Title)
	q.QuestionText = apply(q.QuestionText)
	q.FeedbackCorrect = apply(q.FeedbackCorrect)
	q.FeedbackIncorrect = apply(q.FeedbackIncorrect)
	if q.Type == model.QuestionTypeMultipleChoice {
		for i := range q.Choices {
			q.Choices[i] = apply(q.Choices[i])
		}
	}

	var issues []model.Issue
	if opts.ValidateSyntax {
		for _, f := range q.TextFields() {
			if hasUnbalancedDelimiters(f.Text) {
				issues = append(issues, model.Issue{
					Severity:   model.SeverityWarning,
					QuestionID: q.ID,
					Field:      f.Name,
					Message:    "odd number of $ delimiters after cleanup",
				})
			}
		}
	}
	return q, issues
}

func convertUnicode(text string) string {
	for _, sub := range unicodeLatex {
		text = strings.ReplaceAll(text, sub.from, sub.to)
	}
	return text
}

// fixDelimiters closes a dangling $ at the end of the text. This is the
// same odd-count heuristic the validator warns on.
func fixDelimiters(text string) string {
	if hasUnbalancedDelimiters(text) {
		return text + "$"
	}
	return text
}

// optimizeSpacing collapses runs of spaces and tabs without touching
// newlines
func optimizeSpacing(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n")
}

func reindexed(issues []model.Issue, index int) []model.Issue {
	for i := range issues {
		issues[i].Index = index
	}
	return issues
}
