package model

// MergeStrategy is the policy governing how conflicts are resolved during
// commit
type MergeStrategy string

const (
	StrategyAppendAll         MergeStrategy = "APPEND_ALL"
	StrategySkipDuplicates    MergeStrategy = "SKIP_DUPLICATES"
	StrategyReplaceDuplicates MergeStrategy = "REPLACE_DUPLICATES"
	StrategyRenameDuplicates  MergeStrategy = "RENAME_DUPLICATES"
)

// KnownStrategy reports whether s is one of the four merge strategies
func KnownStrategy(s MergeStrategy) bool {
	switch s {
	case StrategyAppendAll, StrategySkipDuplicates, StrategyReplaceDuplicates, StrategyRenameDuplicates:
		return true
	}
	return false
}

// MergePreview describes a prospective merge. FinalCount must equal the
// length of the record sequence produced by committing the same existing
// corpus and candidate batch; a new preview must be regenerated whenever
// either input changes.
type MergePreview struct {
	Strategy       MergeStrategy `json:"strategy"`
	ExistingCount  int           `json:"existingCount"`
	NewCount       int           `json:"newCount"`
	FinalCount     int           `json:"finalCount"`
	Conflicts      []Conflict    `json:"conflicts"`
	AutoRenumbered bool          `json:"autoRenumbered"`
	Summary        string        `json:"summary"`
	Warnings       []string      `json:"warnings"`
}
