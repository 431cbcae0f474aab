package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptnest/promptnest/internal/models"
)

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.TopTags)
	assert.Zero(t, s.AverageRating)
}

func TestCompute_Aggregates(t *testing.T) {
	records := []models.PromptRecord{
		{
			OutputKind:   models.OutputImage,
			SceneTag:     models.SceneCharacter,
			CollectionID: "c1",
			TechTags:     []string{"hi-res"},
			StyleTags:    []string{"cyberpunk"},
			CopyCount:    3,
			ViewCount:    5,
			Rating:       &models.PromptRating{Stability: 8, Creativity: 6},
		},
		{
			OutputKind: models.OutputImage,
			SceneTag:   models.SceneScene,
			TechTags:   []string{"hi-res"},
			CopyCount:  1,
			Rating:     &models.PromptRating{Stability: 4, Creativity: 2},
		},
		{
			OutputKind:   models.OutputVideo,
			SceneTag:     models.SceneCharacter,
			CollectionID: "unknown-col",
		},
	}
	collections := []models.Collection{{ID: "c1", Name: "Favorites"}}

	s := Compute(records, collections)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByOutputKind["image"])
	assert.Equal(t, 1, s.ByOutputKind["video"])
	assert.Equal(t, 2, s.ByScene["character"])
	assert.Equal(t, 1, s.ByCollection["Favorites"])
	assert.Equal(t, 1, s.ByCollection["unknown-col"], "missing collection keys by raw ID")
	assert.Equal(t, 1, s.Uncategorized)
	assert.Equal(t, 4, s.TotalCopies)
	assert.Equal(t, 5, s.TotalViews)

	// Average over rated records only: (14 + 6) / 2.
	assert.InDelta(t, 10.0, s.AverageRating, 0.001)
}

func TestCompute_TopTagsOrderAndLimit(t *testing.T) {
	var records []models.PromptRecord
	// "common" appears twice; twelve singleton tags compete for the rest.
	records = append(records, models.PromptRecord{TechTags: []string{"common"}})
	records = append(records, models.PromptRecord{StyleTags: []string{"common"}})
	for i := 0; i < 12; i++ {
		records = append(records, models.PromptRecord{TechTags: []string{fmt.Sprintf("tag-%02d", i)}})
	}

	s := Compute(records, nil)

	assert.Len(t, s.TopTags, topTagLimit)
	assert.Equal(t, TagCount{Tag: "common", Count: 2}, s.TopTags[0])
	// Ties resolve alphabetically.
	assert.Equal(t, "tag-00", s.TopTags[1].Tag)
	assert.Equal(t, "tag-01", s.TopTags[2].Tag)
}
