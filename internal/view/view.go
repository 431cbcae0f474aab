// Package view computes the derived record list shown to the user: the
// filter, tag-match and sort pipeline over the in-memory record set. Results
// are ephemeral and recomputed on every change; nothing here is persisted.
package view

import (
	"sort"
	"strings"

	"github.com/promptnest/promptnest/internal/models"
)

// Apply runs the full pipeline: filter, then a stable sort for the given
// option. The input slice is never mutated.
func Apply(records []models.PromptRecord, filter models.FilterConfig, sortOpt models.SortOption) []models.PromptRecord {
	result := Filter(records, filter)
	Sort(result, sortOpt)
	return result
}

// Filter returns the records matching every clause of the filter config,
// preserving relative order. A record passes when all of the following hold:
// the search term appears (case-insensitively) in title, primary or secondary
// text or a tech tag; the output kind matches or is "all"; every selected tag
// is present in the union of the record's tag sets; the collection matches or
// is "all"; the model matches or is "all".
func Filter(records []models.PromptRecord, f models.FilterConfig) []models.PromptRecord {
	result := make([]models.PromptRecord, 0, len(records))
	for _, p := range records {
		if matches(&p, f) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p *models.PromptRecord, f models.FilterConfig) bool {
	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		hit := strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.PromptPrimary), term) ||
			strings.Contains(strings.ToLower(p.PromptSecondary), term)
		if !hit {
			for _, t := range p.TechTags {
				if strings.Contains(strings.ToLower(t), term) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}

	if f.OutputKind != "" && f.OutputKind != models.FilterAll && string(p.OutputKind) != f.OutputKind {
		return false
	}

	// Conjunctive: every selected tag must be present.
	for _, tag := range f.SelectedTags {
		if !p.HasTag(tag) {
			return false
		}
	}

	if f.CollectionID != "" && f.CollectionID != models.FilterAll && p.CollectionID != f.CollectionID {
		return false
	}

	if f.Model != "" && f.Model != models.FilterAll && p.Model != f.Model {
		return false
	}

	return true
}

// Sort orders records in place by the comparator for opt. The sort is stable,
// so records with equal keys keep their relative order.
func Sort(records []models.PromptRecord, opt models.SortOption) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		switch opt {
		case models.SortOldest:
			return a.CreatedAt < b.CreatedAt
		case models.SortUpdated:
			return a.UpdatedAt > b.UpdatedAt
		case models.SortRating:
			return a.Rating.Total() > b.Rating.Total()
		default: // newest
			return a.CreatedAt > b.CreatedAt
		}
	})
}

// Models returns the distinct non-empty model strings across records, in
// order of first appearance. Feeds the model filter dropdown.
func Models(records []models.PromptRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range records {
		if p.Model != "" && !seen[p.Model] {
			out = append(out, p.Model)
			seen[p.Model] = true
		}
	}
	return out
}
