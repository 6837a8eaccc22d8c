package model

// UploadPayload is one uploaded question-bank file after parsing. Files are
// accepted either as {"questions": [...], "metadata": {...}} or as a bare
// array of question maps (legacy shape, metadata defaults to empty).
type UploadPayload struct {
	Questions []RawQuestion          `json:"questions"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// CleanupOptions are the toggles consumed by the LaTeX cleanup pipeline.
// They only transform text fields and never affect identity or merge
// decisions.
type CleanupOptions struct {
	ConvertUnicode  bool `json:"convert_unicode"`
	FixDelimiters   bool `json:"fix_delimiters"`
	ValidateSyntax  bool `json:"validate_syntax"`
	OptimizeSpacing bool `json:"optimize_spacing"`
}

// DefaultCleanupOptions enables every cosmetic pass except syntax warnings
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		ConvertUnicode:  true,
		FixDelimiters:   true,
		ValidateSyntax:  false,
		OptimizeSpacing: true,
	}
}

// FileReport summarizes the ingestion of a single uploaded file. A schema or
// parse failure aborts that file only; sibling files continue independently.
type FileReport struct {
	FileName string  `json:"fileName,omitempty"`
	Parsed   int     `json:"parsed"`
	Error    string  `json:"error,omitempty"`
	Issues   []Issue `json:"issues,omitempty"`
}
