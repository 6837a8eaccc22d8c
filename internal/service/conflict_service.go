package service

import (
	"fmt"
	"strings"

	"qbank/internal/model"
)

// ConflictService compares a candidate batch against an existing corpus and
// emits a typed conflict list. Detection is pure and deterministic: reported
// conflicts follow candidate batch order, with existing-corpus order
// breaking ties, and no conflict is ever dropped.
type ConflictService struct{}

// NewConflictService creates a new conflict service
func NewConflictService() *ConflictService {
	return &ConflictService{}
}

// Detect scans candidates, in order, against the existing corpus and
// against earlier members of the same batch. Candidates must already be
// normalized (and renumbered, if renumbering applies).
func (s *ConflictService) Detect(existing, candidates []model.Question) []model.Conflict {
	conflicts := []model.Conflict{}

	byID := make(map[string]model.Question, len(existing))
	byText := make(map[string]model.Question, len(existing))
	for i := len(existing) - 1; i >= 0; i-- {
		// Reverse iteration keeps the first occurrence on key collisions,
		// preserving existing-corpus order for ties.
		q := existing[i]
		byID[q.ID] = q
		if key := normalizeText(q.QuestionText); key != "" {
			byText[key] = q
		}
	}

	seenText := make(map[string]model.Question, len(candidates))
	for i, cand := range candidates {
		if prior, ok := byID[cand.ID]; ok {
			conflicts = append(conflicts, model.Conflict{
				Kind:           model.ConflictQuestionID,
				Severity:       model.SeverityError,
				ExistingID:     prior.ID,
				CandidateID:    cand.ID,
				CandidateIndex: i,
				Detail:         fmt.Sprintf("id %s already exists in the corpus", cand.ID),
			})
		}

		textKey := normalizeText(cand.QuestionText)
		if textKey != "" {
			if prior, ok := byText[textKey]; ok {
				conflicts = append(conflicts, model.Conflict{
					Kind:           model.ConflictContentDuplicate,
					Severity:       model.SeverityWarning,
					ExistingID:     prior.ID,
					CandidateID:    cand.ID,
					CandidateIndex: i,
					Detail:         fmt.Sprintf("question text duplicates existing %s", prior.ID),
				})
			} else if prior, ok := seenText[textKey]; ok {
				conflicts = append(conflicts, model.Conflict{
					Kind:           model.ConflictContentDuplicate,
					Severity:       model.SeverityWarning,
					ExistingID:     prior.ID,
					CandidateID:    cand.ID,
					CandidateIndex: i,
					Detail:         fmt.Sprintf("question text duplicates candidate %s in the same batch", prior.ID),
				})
			} else {
				seenText[textKey] = cand
			}
		}

		if prior, ok := byID[cand.ID]; ok {
			if cand.Type != prior.Type || cand.Topic != prior.Topic {
				conflicts = append(conflicts, model.Conflict{
					Kind:           model.ConflictMetadata,
					Severity:       model.SeverityWarning,
					ExistingID:     prior.ID,
					CandidateID:    cand.ID,
					CandidateIndex: i,
					Detail:         fmt.Sprintf("same id but type/topic differ (%s/%s vs %s/%s)", cand.Type, cand.Topic, prior.Type, prior.Topic),
				})
			}
			if candidateHasUnbalancedLatex(cand) {
				conflicts = append(conflicts, model.Conflict{
					Kind:           model.ConflictLatex,
					Severity:       model.SeverityWarning,
					ExistingID:     prior.ID,
					CandidateID:    cand.ID,
					CandidateIndex: i,
					Detail:         "colliding record has unbalanced LaTeX delimiters",
				})
			}
		}
	}

	return conflicts
}

// normalizeText lowercases and collapses surrounding whitespace so that
// content duplicates are detected by normalized-text equality only
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func candidateHasUnbalancedLatex(q model.Question) bool {
	for _, f := range q.TextFields() {
		if hasUnbalancedDelimiters(f.Text) {
			return true
		}
	}
	return false
}
