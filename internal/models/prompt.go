package models

// OutputKind classifies what a prompt is meant to generate.
type OutputKind string

const (
	OutputImage OutputKind = "image"
	OutputVideo OutputKind = "video"
	OutputAudio OutputKind = "audio"
	OutputText  OutputKind = "text"
)

// OutputKinds lists every valid kind, in display order.
func OutputKinds() []OutputKind {
	return []OutputKind{OutputImage, OutputVideo, OutputAudio, OutputText}
}

func (k OutputKind) Valid() bool {
	switch k {
	case OutputImage, OutputVideo, OutputAudio, OutputText:
		return true
	}
	return false
}

// SceneTag is the top-level application-scene label. The fixed set below is
// what the UI offers, but imported data may carry arbitrary strings, so any
// other value is preserved as a custom scene.
type SceneTag string

const (
	SceneCharacter     SceneTag = "character"
	SceneScene         SceneTag = "scene"
	SceneStyleTransfer SceneTag = "style-transfer"
	SceneStory         SceneTag = "story"
	SceneTool          SceneTag = "tool"
	SceneOther         SceneTag = "other"
)

func SceneTags() []SceneTag {
	return []SceneTag{SceneCharacter, SceneScene, SceneStyleTransfer, SceneStory, SceneTool, SceneOther}
}

// Known reports whether the tag is one of the fixed scene labels.
func (s SceneTag) Known() bool {
	switch s {
	case SceneCharacter, SceneScene, SceneStyleTransfer, SceneStory, SceneTool, SceneOther:
		return true
	}
	return false
}

// PromptVariable describes one {{key}} placeholder in the primary prompt text.
type PromptVariable struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// PromptRating is a 1-10 score pair.
type PromptRating struct {
	Stability  int `json:"stability"`
	Creativity int `json:"creativity"`
}

// Total is the combined score used by the rating sort. A nil rating sorts as 0.
func (r *PromptRating) Total() int {
	if r == nil {
		return 0
	}
	return r.Stability + r.Creativity
}

// PromptVersion is a historical snapshot of a record's text, newest first.
type PromptVersion struct {
	ID              string `json:"id"`
	Timestamp       int64  `json:"timestamp"`
	Title           string `json:"title"`
	PromptPrimary   string `json:"promptPrimary"`
	PromptSecondary string `json:"promptSecondary"`
}

// PromptRecord is one curated prompt entry. JSON field names are the persisted
// wire format and intentionally match the legacy browser-storage layout so old
// backups import cleanly.
type PromptRecord struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	PromptPrimary   string           `json:"promptPrimary"`
	PromptSecondary string           `json:"promptSecondary"`
	OutputKind      OutputKind       `json:"outputKind"`
	SceneTag        SceneTag         `json:"sceneTag"`
	TechTags        []string         `json:"techTags"`
	StyleTags       []string         `json:"styleTags"`
	CustomTags      []string         `json:"customTags"`
	PreviewURL      string           `json:"previewUrl,omitempty"`
	Source          string           `json:"source,omitempty"`
	Model           string           `json:"model,omitempty"`
	UsageNote       string           `json:"usageNote,omitempty"`
	Precautions     string           `json:"precautions,omitempty"`
	Variables       []PromptVariable `json:"variables,omitempty"`
	Rating          *PromptRating    `json:"rating,omitempty"`
	CollectionID    string           `json:"collectionId,omitempty"`
	History         []PromptVersion  `json:"history,omitempty"`
	CopyCount       int              `json:"copyCount,omitempty"`
	ViewCount       int              `json:"viewCount,omitempty"`
	CreatedAt       int64            `json:"createdAt"`
	UpdatedAt       int64            `json:"updatedAt"`
}

// AllTags is the union of tech, style and custom tags, in that order.
func (p *PromptRecord) AllTags() []string {
	tags := make([]string, 0, len(p.TechTags)+len(p.StyleTags)+len(p.CustomTags))
	tags = append(tags, p.TechTags...)
	tags = append(tags, p.StyleTags...)
	tags = append(tags, p.CustomTags...)
	return tags
}

// HasTag reports whether tag appears in any of the three tag sets.
func (p *PromptRecord) HasTag(tag string) bool {
	for _, t := range p.AllTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Collection is a named, optional grouping of prompt records.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// FilterAll is the sentinel meaning "no filtering on this dimension".
const FilterAll = "all"

// FilterConfig is the transient filter state for the derived view. It is never
// persisted with the records.
type FilterConfig struct {
	SearchTerm   string   `json:"searchTerm"`
	OutputKind   string   `json:"outputKind"`
	SelectedTags []string `json:"selectedTags"`
	CollectionID string   `json:"collectionId"`
	Model        string   `json:"model"`
}

// DefaultFilter matches every record.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		OutputKind:   FilterAll,
		CollectionID: FilterAll,
		Model:        FilterAll,
	}
}

// SortOption selects the comparator for the derived view.
type SortOption string

const (
	SortNewest  SortOption = "newest"
	SortOldest  SortOption = "oldest"
	SortUpdated SortOption = "updated"
	SortRating  SortOption = "rating"
)

func (s SortOption) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortUpdated, SortRating:
		return true
	}
	return false
}

// Recipe is a built-in starter template offered by the gallery. Recipes are
// read-only; saving one creates a regular PromptRecord.
type Recipe struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	PromptPrimary string     `json:"promptPrimary"`
	OutputKind    OutputKind `json:"outputKind"`
	SceneTag      SceneTag   `json:"sceneTag"`
	TechTags      []string   `json:"techTags"`
	StyleTags     []string   `json:"styleTags"`
}
