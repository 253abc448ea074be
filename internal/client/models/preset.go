package models

import "github.com/google/uuid"

// Preset is a reusable text snippet for one prompt section kind. Within a
// kind, preset names are unique case-insensitively; the store enforces that
// invariant on insert.
type Preset struct {
	ID   string      `json:"id"`
	Kind SectionKind `json:"kind"`
	Name string      `json:"name"`
	Text string      `json:"text"`
}

// NewPreset returns a Preset with a fresh id.
func NewPreset(kind SectionKind, name, text string) Preset {
	return Preset{ID: uuid.NewString(), Kind: kind, Name: name, Text: text}
}
