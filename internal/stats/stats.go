// Package stats aggregates the record set for the dashboard. Pure
// computation over a snapshot; nothing here is persisted.
package stats

import (
	"sort"

	"github.com/promptnest/promptnest/internal/models"
)

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type Summary struct {
	Total         int                  `json:"total"`
	ByOutputKind  map[string]int       `json:"byOutputKind"`
	ByScene       map[string]int       `json:"byScene"`
	ByCollection  map[string]int       `json:"byCollection"`
	Uncategorized int                  `json:"uncategorized"`
	TopTags       []TagCount           `json:"topTags"`
	TotalCopies   int                  `json:"totalCopies"`
	TotalViews    int                  `json:"totalViews"`
	AverageRating float64              `json:"averageRating"`
}

const topTagLimit = 10

// Compute builds the dashboard summary. Tag frequency covers tech and style
// tags; ties are broken alphabetically so the output is deterministic.
// ByCollection is keyed by collection name; records pointing at a collection
// missing from the list are keyed by the raw ID.
func Compute(records []models.PromptRecord, collections []models.Collection) Summary {
	names := make(map[string]string, len(collections))
	for _, c := range collections {
		names[c.ID] = c.Name
	}
	s := Summary{
		Total:        len(records),
		ByOutputKind: make(map[string]int),
		ByScene:      make(map[string]int),
		ByCollection: make(map[string]int),
	}

	tagCounts := make(map[string]int)
	rated := 0
	ratingSum := 0

	for _, p := range records {
		s.ByOutputKind[string(p.OutputKind)]++
		s.ByScene[string(p.SceneTag)]++
		if p.CollectionID == "" {
			s.Uncategorized++
		} else if name, ok := names[p.CollectionID]; ok {
			s.ByCollection[name]++
		} else {
			s.ByCollection[p.CollectionID]++
		}
		for _, t := range p.TechTags {
			tagCounts[t]++
		}
		for _, t := range p.StyleTags {
			tagCounts[t]++
		}
		s.TotalCopies += p.CopyCount
		s.TotalViews += p.ViewCount
		if p.Rating != nil {
			rated++
			ratingSum += p.Rating.Total()
		}
	}

	if rated > 0 {
		s.AverageRating = float64(ratingSum) / float64(rated)
	}

	for tag, count := range tagCounts {
		s.TopTags = append(s.TopTags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(s.TopTags, func(i, j int) bool {
		if s.TopTags[i].Count != s.TopTags[j].Count {
			return s.TopTags[i].Count > s.TopTags[j].Count
		}
		return s.TopTags[i].Tag < s.TopTags[j].Tag
	})
	if len(s.TopTags) > topTagLimit {
		s.TopTags = s.TopTags[:topTagLimit]
	}
	return s
}
