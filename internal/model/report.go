package model

// Severity is the qualitative level of a validation issue or conflict
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single validation finding, with enough context to locate the
// offending record and field
type Issue struct {
	Severity   Severity `json:"severity"`
	Index      int      `json:"index"`
	QuestionID string   `json:"questionId,omitempty"`
	Field      string   `json:"field,omitempty"`
	Message    string   `json:"message"`
}

// ValidationCounts aggregates a validation pass
type ValidationCounts struct {
	Checked  int `json:"checked"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// ValidationReport is the result of validating a record batch. Validation is
// fail-open: records with errors still participate in merge, flagged here.
type ValidationReport struct {
	Errors   []Issue          `json:"errors"`
	Warnings []Issue          `json:"warnings"`
	IsValid  bool             `json:"isValid"`
	Counts   ValidationCounts `json:"counts"`
}

// Merge folds another report into this one, offsetting nothing; indices are
// assumed to already refer to the combined batch
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Counts.Checked += other.Counts.Checked
	r.Counts.Errors += other.Counts.Errors
	r.Counts.Warnings += other.Counts.Warnings
	r.IsValid = len(r.Errors) == 0
}
