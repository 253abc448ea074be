package models

import (
	"bytes"
	"net/url"

	"github.com/google/uuid"
)

// Character is a profile record owning its prompts, links and images.
// ID is assigned once and never changes; collection order is display order
// (most recent first) and carries no other meaning.
type Character struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Bio             string                 `json:"bio,omitempty"`
	Prompts         []SavedPrompt          `json:"prompts,omitempty"`
	ProfileImage    []byte                 `json:"profile_image,omitempty"`
	Links           []RelatedLink          `json:"links,omitempty"`
	SectionDefaults map[SectionKind]string `json:"section_defaults,omitempty"`
	Generator       string                 `json:"generator,omitempty"`
	Theme           string                 `json:"theme,omitempty"`
}

// NewCharacter returns a Character with a fresh id.
func NewCharacter(name string) Character {
	return Character{ID: uuid.NewString(), Name: name}
}

// SavedPrompt is a composed image prompt owned by exactly one Character.
// Sections holds optional per-kind texts; SectionPresets records, for each
// populated section, the name of the preset that filled it (if any).
type SavedPrompt struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Text           string                 `json:"text"`
	Sections       map[SectionKind]string `json:"sections,omitempty"`
	SectionPresets map[SectionKind]string `json:"section_presets,omitempty"`
	AdditionalInfo string                 `json:"additional_info,omitempty"`
	Images         []PromptImage          `json:"images,omitempty"`
}

// NewSavedPrompt returns a SavedPrompt with a fresh id.
func NewSavedPrompt(title, text string) SavedPrompt {
	return SavedPrompt{ID: uuid.NewString(), Title: title, Text: text}
}

// RelatedLink is a titled URL attached to a character. The URL string is kept
// as entered; parsing happens on demand.
type RelatedLink struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URLString string `json:"url"`
}

// NewRelatedLink returns a RelatedLink with a fresh id.
func NewRelatedLink(title, urlString string) RelatedLink {
	return RelatedLink{ID: uuid.NewString(), Title: title, URLString: urlString}
}

// URL parses the stored string. It returns nil when the string does not parse
// or lacks a scheme+host structure.
func (l RelatedLink) URL() *url.URL {
	u, err := url.Parse(l.URLString)
	if err != nil {
		return nil
	}
	if u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

// Valid reports whether the link parses to a non-empty scheme+host URL.
func (l RelatedLink) Valid() bool {
	return l.URL() != nil
}

// Host returns the parsed authority, or "" for invalid links.
func (l RelatedLink) Host() string {
	u := l.URL()
	if u == nil {
		return ""
	}
	return u.Host
}

// PromptImage is an immutable raw image payload attached to a prompt.
type PromptImage struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
}

// NewPromptImage returns a PromptImage with a fresh id wrapping data.
func NewPromptImage(data []byte) PromptImage {
	return PromptImage{ID: uuid.NewString(), Data: data}
}

// Equal compares by identity and content.
func (i PromptImage) Equal(other PromptImage) bool {
	return i.ID == other.ID && bytes.Equal(i.Data, other.Data)
}
