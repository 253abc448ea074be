package store

import "github.com/dmitrijs2005/charkeeper/internal/client/models"

// SamplePresets returns the built-in preset set used when no local presets
// document exists yet (first launch, or an unreadable file).
func SamplePresets() []models.Preset {
	return []models.Preset{
		models.NewPreset(models.SectionPhysical, "Heroic Build", "tall, athletic build, confident posture"),
		models.NewPreset(models.SectionOutfit, "Casual", "jeans, plain t-shirt, sneakers"),
		models.NewPreset(models.SectionOutfit, "Formal", "tailored suit, polished shoes"),
		models.NewPreset(models.SectionPose, "Portrait", "head and shoulders, facing camera, slight smile"),
		models.NewPreset(models.SectionEnvironment, "Studio", "plain studio background, seamless backdrop"),
		models.NewPreset(models.SectionEnvironment, "Forest", "dense forest, dappled sunlight"),
		models.NewPreset(models.SectionLighting, "Golden Hour", "warm golden hour light, long soft shadows"),
		models.NewPreset(models.SectionLighting, "Dramatic", "hard rim light, deep shadows, chiaroscuro"),
		models.NewPreset(models.SectionStyle, "Photorealistic", "photorealistic, 85mm lens, shallow depth of field"),
		models.NewPreset(models.SectionStyle, "Watercolor", "loose watercolor, visible paper texture"),
		models.NewPreset(models.SectionTechnical, "High Detail", "highly detailed, 8k, sharp focus"),
		models.NewPreset(models.SectionNegative, "Standard", "blurry, low quality, extra fingers, watermark"),
	}
}

// DefaultSettings returns the built-in settings used when no local settings
// document exists yet.
func DefaultSettings() models.Settings {
	return models.Settings{
		GlobalDefaults: map[models.SectionKind]string{
			models.SectionTechnical: "highly detailed, sharp focus",
			models.SectionNegative:  "blurry, low quality, watermark",
		},
		DefaultGenerator: "stable-diffusion-xl",
	}
}
