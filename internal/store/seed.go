package store

import "github.com/promptnest/promptnest/internal/models"

// Seed data installed on first run, when the storage backend holds nothing.
// Mirrors the starter content users see before creating their own records.

func SeedCollections(now int64) []models.Collection {
	return []models.Collection{
		{ID: "col-1", Name: "Storytelling Series", Description: "Prompts for narrative generation", CreatedAt: now},
		{ID: "col-2", Name: "Cyberpunk Aesthetics", Description: "Neon, high tech, low life visuals", CreatedAt: now},
		{ID: "col-3", Name: "Audio & Code", Description: "Sound design and coding assistants", CreatedAt: now},
	}
}

func SeedRecords(now int64) []models.PromptRecord {
	return []models.PromptRecord{
		{
			ID:              "seed-1",
			Title:           "Plush Friends on Vacation",
			PromptPrimary:   "Input {{count}} images of different plush creatures. Create a funny {{parts}}-part story with these {{count}} fluffy friends going on a tropical vacation. The story is thrilling throughout with emotional highs and lows and ends in a happy moment. Keep the attire and identity consistent for all {{count}} characters.",
			PromptSecondary: "",
			OutputKind:      models.OutputImage,
			SceneTag:        models.SceneStory,
			TechTags:        []string{"consistency", "multi-image"},
			StyleTags:       []string{"cartoon", "cute", "3d-render"},
			CustomTags:      []string{"vacation", "animals"},
			Source:          "community picks",
			Model:           "Midjourney v6",
			UsageNote:       "Works best with clear input images and the Niji style.",
			Precautions:     "Consistency degrades when character complexity is high.",
			Variables: []models.PromptVariable{
				{Key: "count", Label: "Image count", DefaultValue: "3"},
				{Key: "parts", Label: "Story parts", DefaultValue: "10"},
			},
			Rating:       &models.PromptRating{Stability: 8, Creativity: 9},
			CollectionID: "col-1",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:            "seed-2",
			Title:         "Cyberpunk City Flyover",
			PromptPrimary: "Cinematic drone shot flying through a neon-lit futuristic Tokyo at night, rain reflecting on the pavement, towering holograms, volumetric fog, high contrast, 8k resolution, photorealistic.",
			OutputKind:    models.OutputVideo,
			SceneTag:      models.SceneScene,
			TechTags:      []string{"camera-motion", "atmosphere"},
			StyleTags:     []string{"cyberpunk", "photorealistic", "noir"},
			CustomTags:    []string{"city", "night"},
			Model:         "Sora / Runway Gen-2",
			Rating:        &models.PromptRating{Stability: 9, Creativity: 7},
			CollectionID:  "col-2",
			CreatedAt:     now - 100000,
			UpdatedAt:     now - 100000,
		},
		{
			ID:            "seed-3",
			Title:         "Lo-Fi Study Beat",
			PromptPrimary: "A chill, low-fidelity hip hop beat suitable for studying. Tempo 80 BPM. Soft piano melody with vinyl crackle noise, muted jazz drums, and a deep, steady bassline. Melancholic but relaxing atmosphere. Duration 3 minutes.",
			OutputKind:    models.OutputAudio,
			SceneTag:      models.SceneOther,
			TechTags:      []string{"music-generation", "atmosphere"},
			StyleTags:     []string{"lo-fi", "jazz", "chill"},
			CustomTags:    []string{"study", "music"},
			Model:         "Suno AI / Udio",
			Rating:        &models.PromptRating{Stability: 10, Creativity: 6},
			CollectionID:  "col-3",
			CreatedAt:     now - 200000,
			UpdatedAt:     now - 200000,
		},
		{
			ID:            "seed-4",
			Title:         "React Component Expert",
			PromptPrimary: "Act as a Senior React Engineer. Write a {{componentName}} component using TypeScript and Tailwind CSS. The component should handle {{props}} and include proper error boundaries and accessibility attributes (ARIA).",
			OutputKind:    models.OutputText,
			SceneTag:      models.SceneTool,
			TechTags:      []string{"code", "role-play"},
			StyleTags:     []string{"professional", "clean-code"},
			CustomTags:    []string{"web-dev", "react"},
			Model:         "Gemini 2.0 Flash / Claude 3.5",
			Variables: []models.PromptVariable{
				{Key: "componentName", Label: "Component name", DefaultValue: "Modal"},
				{Key: "props", Label: "Props", DefaultValue: "isOpen, onClose"},
			},
			Rating:       &models.PromptRating{Stability: 10, Creativity: 4},
			CollectionID: "col-3",
			CreatedAt:    now - 300000,
			UpdatedAt:    now - 300000,
		},
	}
}

// Recipes are the built-in starter templates shown in the gallery.
func Recipes() []models.Recipe {
	return []models.Recipe{
		{
			ID:            "rec-1",
			Title:         "MJ Hyper-Real Portrait",
			PromptPrimary: "Hyper-realistic portrait of a {{subject}}, 8k resolution, cinematic lighting, shot on 35mm lens, sharp focus, detailed skin texture, soft bokeh background.",
			OutputKind:    models.OutputImage,
			SceneTag:      models.SceneCharacter,
			StyleTags:     []string{"photorealistic", "cinematic"},
			TechTags:      []string{"camera-control"},
		},
		{
			ID:            "rec-2",
			Title:         "SD Architecture Concept",
			PromptPrimary: "Modern architectural design of a {{buildingType}} in {{environment}}, parametric facade, glass and concrete, sustainable design, dusk lighting, architectural photography style.",
			OutputKind:    models.OutputImage,
			SceneTag:      models.SceneScene,
			StyleTags:     []string{"photorealistic", "minimalist"},
			TechTags:      []string{"ambient-light"},
		},
		{
			ID:            "rec-3",
			Title:         "GPT Role-Play Assistant",
			PromptPrimary: "Act as a {{role}}. Your goal is to {{goal}}. Use a {{tone}} tone and provide structured responses. Always consider {{constraints}}.",
			OutputKind:    models.OutputText,
			SceneTag:      models.SceneTool,
			StyleTags:     []string{"professional"},
			TechTags:      []string{"role-assignment"},
		},
	}
}
