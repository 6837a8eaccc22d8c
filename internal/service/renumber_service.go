package service

import (
	"fmt"
	"regexp"
	"strconv"

	"qbank/internal/model"
)

var idSuffixRe = regexp.MustCompile(`(\d+)$`)

// RenumberService computes disjoint id assignments for a candidate batch
// relative to an existing corpus's id space. It never touches the existing
// corpus.
type RenumberService struct {
	threshold float64
}

// NewRenumberService creates a renumber service. threshold is the fraction
// of the candidate batch that must collide by id with the existing corpus
// before auto-renumbering triggers.
func NewRenumberService(threshold float64) *RenumberService {
	return &RenumberService{threshold: threshold}
}

// ShouldRenumber reports whether the candidate batch collides with the
// existing corpus heavily enough to auto-renumber the whole batch
func (s *RenumberService) ShouldRenumber(existing, candidates []model.Question) bool {
	if len(candidates) == 0 {
		return false
	}
	existingIDs := idSet(existing)
	collisions := 0
	for _, c := range candidates {
		if existingIDs[c.ID] {
			collisions++
		}
	}
	return collisions > 0 && float64(collisions)/float64(len(candidates)) >= s.threshold
}

// NextID returns 1 + the largest numeric suffix among the existing ids,
// or 1 when no id carries one
func (s *RenumberService) NextID(existing []model.Question) int {
	max := 0
	for _, q := range existing {
		if m := idSuffixRe.FindString(q.ID); m != "" {
			if n, err := strconv.Atoi(m); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// Renumber assigns every candidate a fresh sequential id starting at
// NextID(existing), rewriting id-like fields on the retained raw record so
// canonical and legacy-shaped consumers observe the same id
func (s *RenumberService) Renumber(existing, candidates []model.Question) []model.Question {
	out := make([]model.Question, len(candidates))
	next := s.NextID(existing)
	for i, c := range candidates {
		assignID(&c, formatID(next))
		next++
		out[i] = c
	}
	return out
}

// RenumberColliding reassigns ids only for candidates that collide, either
// with the existing corpus or with an earlier member of the same batch,
// skipping every id already taken in the eventual final set. Returns the
// updated batch and the number of renamed records.
func (s *RenumberService) RenumberColliding(existing, candidates []model.Question) ([]model.Question, int) {
	used := idSet(existing)
	for _, c := range candidates {
		used[c.ID] = true
	}

	out := make([]model.Question, len(candidates))
	taken := idSet(existing)
	next := s.NextID(append(existing, candidates...))
	renamed := 0
	for i, c := range candidates {
		if taken[c.ID] {
			for used[formatID(next)] {
				next++
			}
			assignID(&c, formatID(next))
			used[c.ID] = true
			next++
			renamed++
		}
		taken[c.ID] = true
		out[i] = c
	}
	return out, renamed
}

func formatID(n int) string {
	return fmt.Sprintf("Q_%05d", n)
}

// assignID writes the new id into the canonical record and into every
// id-like key present on the raw source. The source map is cloned first:
// renumbering runs during preview resolution too, and a preview must never
// write through to the stored batch.
func assignID(q *model.Question, id string) {
	q.ID = id
	if q.Source == nil {
		return
	}
	src := make(model.RawQuestion, len(q.Source))
	for k, v := range q.Source {
		src[k] = v
	}
	for _, key := range model.IDAliases {
		if _, ok := src[key]; ok {
			src[key] = id
		}
	}
	q.Source = src
}

func idSet(questions []model.Question) map[string]bool {
	set := make(map[string]bool, len(questions))
	for _, q := range questions {
		set[q.ID] = true
	}
	return set
}
