package service

import (
	"fmt"

	"qbank/internal/model"
)

// MergeService resolves a merge strategy over an existing corpus, a
// candidate batch and the detected conflicts. Preview and Commit share one
// resolution path, so the previewed final count always equals the committed
// record count for identical inputs.
type MergeService struct {
	renumber *RenumberService
}

// NewMergeService creates a new merge service
func NewMergeService(renumber *RenumberService) *MergeService {
	return &MergeService{renumber: renumber}
}

// Preview computes the merge outcome without committing anything
func (s *MergeService) Preview(existing, candidates []model.Question, conflicts []model.Conflict, strategy model.MergeStrategy, autoRenumbered bool) (*model.MergePreview, error) {
	final, summary, warnings, err := s.resolve(existing, candidates, conflicts, strategy)
	if err != nil {
		return nil, err
	}
	return &model.MergePreview{
		Strategy:       strategy,
		ExistingCount:  len(existing),
		NewCount:       len(candidates),
		FinalCount:     len(final),
		Conflicts:      conflicts,
		AutoRenumbered: autoRenumbered,
		Summary:        summary,
		Warnings:       warnings,
	}, nil
}

// Commit produces the final record sequence for the same inputs a preview
// was generated from
func (s *MergeService) Commit(existing, candidates []model.Question, conflicts []model.Conflict, strategy model.MergeStrategy) ([]model.Question, error) {
	final, _, _, err := s.resolve(existing, candidates, conflicts, strategy)
	return final, err
}

func (s *MergeService) resolve(existing, candidates []model.Question, conflicts []model.Conflict, strategy model.MergeStrategy) ([]model.Question, string, []string, error) {
	switch strategy {
	case model.StrategyAppendAll:
		return s.appendAll(existing, candidates, conflicts)
	case model.StrategySkipDuplicates:
		return s.skipDuplicates(existing, candidates, conflicts)
	case model.StrategyReplaceDuplicates:
		return s.replaceDuplicates(existing, candidates)
	case model.StrategyRenameDuplicates:
		return s.renameDuplicates(existing, candidates)
	default:
		return nil, "", nil, fmt.Errorf("%w: %q", model.ErrUnknownStrategy, strategy)
	}
}

// appendAll appends every candidate regardless of conflicts
func (s *MergeService) appendAll(existing, candidates []model.Question, conflicts []model.Conflict) ([]model.Question, string, []string, error) {
	final := make([]model.Question, 0, len(existing)+len(candidates))
	final = append(final, existing...)
	final = append(final, candidates...)

	summary := fmt.Sprintf("appended all %d new records to %d existing", len(candidates), len(existing))
	var warnings []string
	if n := model.CountConflicts(conflicts).ByKind[model.ConflictQuestionID]; n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d id conflicts were appended unchanged", n))
	}
	return final, summary, warnings, nil
}

// skipDuplicates drops every candidate involved in an id or content
// conflict
func (s *MergeService) skipDuplicates(existing, candidates []model.Question, conflicts []model.Conflict) ([]model.Question, string, []string, error) {
	dropped := make(map[int]bool)
	for _, c := range conflicts {
		if c.Kind == model.ConflictQuestionID || c.Kind == model.ConflictContentDuplicate {
			dropped[c.CandidateIndex] = true
		}
	}

	final := make([]model.Question, 0, len(existing)+len(candidates))
	final = append(final, existing...)
	for i, cand := range candidates {
		if !dropped[i] {
			final = append(final, cand)
		}
	}

	summary := fmt.Sprintf("added %d of %d new records, skipped %d duplicates", len(candidates)-len(dropped), len(candidates), len(dropped))
	var warnings []string
	if len(dropped) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate records were skipped", len(dropped)))
	}
	return final, summary, warnings, nil
}

// replaceDuplicates swaps colliding existing records for their candidates
// in place; non-colliding candidates are appended
func (s *MergeService) replaceDuplicates(existing, candidates []model.Question) ([]model.Question, string, []string, error) {
	position := make(map[string]int, len(existing))
	for i, q := range existing {
		if _, ok := position[q.ID]; !ok {
			position[q.ID] = i
		}
	}

	final := make([]model.Question, len(existing), len(existing)+len(candidates))
	copy(final, existing)
	replaced := 0
	for _, cand := range candidates {
		if pos, ok := position[cand.ID]; ok {
			final[pos] = cand
			replaced++
			continue
		}
		final = append(final, cand)
	}

	summary := fmt.Sprintf("replaced %d existing records, appended %d new", replaced, len(candidates)-replaced)
	var warnings []string
	if replaced > 0 {
		warnings = append(warnings, fmt.Sprintf("%d existing records were overwritten", replaced))
	}
	return final, summary, warnings, nil
}

// renameDuplicates assigns fresh ids to colliding candidates and appends
// everything
func (s *MergeService) renameDuplicates(existing, candidates []model.Question) ([]model.Question, string, []string, error) {
	renamedBatch, renamed := s.renumber.RenumberColliding(existing, candidates)

	final := make([]model.Question, 0, len(existing)+len(candidates))
	final = append(final, existing...)
	final = append(final, renamedBatch...)

	summary := fmt.Sprintf("appended %d new records, renumbered %d colliding ids", len(candidates), renamed)
	var warnings []string
	if renamed > 0 {
		warnings = append(warnings, fmt.Sprintf("%d colliding records received new ids", renamed))
	}
	return final, summary, warnings, nil
}
