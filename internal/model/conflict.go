package model

// ConflictKind classifies a disagreement between a candidate record and the
// existing corpus
type ConflictKind string

const (
	ConflictQuestionID       ConflictKind = "question_id"
	ConflictContentDuplicate ConflictKind = "content_duplicate"
	ConflictMetadata         ConflictKind = "metadata_conflict"
	ConflictLatex            ConflictKind = "latex_conflict"
)

// Conflict is an immutable fact produced by one detection pass. Conflicts
// are never mutated after detection, only consumed.
type Conflict struct {
	Kind           ConflictKind `json:"kind"`
	Severity       Severity     `json:"severity"`
	ExistingID     string       `json:"existingId,omitempty"`
	CandidateID    string       `json:"candidateId"`
	CandidateIndex int          `json:"candidateIndex"`
	Detail         string       `json:"detail,omitempty"`
}

// ConflictCounts is a derived view of a conflict sequence, grouped by kind
// and severity. It never replaces the underlying sequence.
type ConflictCounts struct {
	ByKind     map[ConflictKind]int `json:"byKind"`
	BySeverity map[Severity]int     `json:"bySeverity"`
	Total      int                  `json:"total"`
}

// CountConflicts aggregates conflicts by kind and severity
func CountConflicts(conflicts []Conflict) ConflictCounts {
	counts := ConflictCounts{
		ByKind:     make(map[ConflictKind]int),
		BySeverity: make(map[Severity]int),
	}
	for _, c := range conflicts {
		counts.ByKind[c.Kind]++
		counts.BySeverity[c.Severity]++
		counts.Total++
	}
	return counts
}
