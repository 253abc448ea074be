package store

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

// Every mutation follows the same three-step contract: apply to the in-memory
// collection synchronously and return, schedule a debounced local persist,
// and dispatch an independent fire-and-forget push to the remote store.

// AddCharacter inserts c at the front of the collection (most recent first).
func (s *Store) AddCharacter(c models.Character) {
	s.mu.Lock()
	s.characters = append([]models.Character{c}, s.characters...)
	s.dirtyCharacters = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save character", func(ctx context.Context) error {
		return s.remote.SaveCharacter(ctx, c)
	})
}

// UpdateCharacter replaces the stored character with the same id. A missing
// id is an observable no-op: it is logged and neither a local write nor a
// remote push is scheduled.
func (s *Store) UpdateCharacter(c models.Character) {
	s.mu.Lock()
	idx := -1
	for i := range s.characters {
		if s.characters[i].ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.log.Warn(context.Background(), "update for unknown character", "id", c.ID)
		return
	}
	s.characters[idx] = c
	s.dirtyCharacters = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save character", func(ctx context.Context) error {
		return s.remote.SaveCharacter(ctx, c)
	})
}

// DeleteCharacter removes every entry matching c's id (ids are unique, so at
// most one) and propagates the delete to the remote store.
func (s *Store) DeleteCharacter(c models.Character) {
	s.mu.Lock()
	kept := s.characters[:0]
	for _, existing := range s.characters {
		if existing.ID != c.ID {
			kept = append(kept, existing)
		}
	}
	s.characters = kept
	s.dirtyCharacters = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("delete character", func(ctx context.Context) error {
		return s.remote.DeleteCharacter(ctx, c.ID)
	})
}

// SavePreset replaces the preset with p's id if present, else appends p.
func (s *Store) SavePreset(p models.Preset) {
	s.mu.Lock()
	replaced := false
	for i := range s.presets {
		if s.presets[i].ID == p.ID {
			s.presets[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.presets = append(s.presets, p)
	}
	s.dirtyPresets = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save preset", func(ctx context.Context) error {
		return s.remote.SavePreset(ctx, p)
	})
}

// AddPreset adds a named preset for a section kind. Name and text are
// trimmed; if either ends up empty the call is a silent no-op. A
// case-insensitive name match within the same kind overwrites that preset's
// text, preserving its id and stored name, instead of creating a duplicate.
func (s *Store) AddPreset(kind models.SectionKind, name, text string) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return
	}

	s.mu.Lock()
	var saved models.Preset
	found := false
	for i := range s.presets {
		if s.presets[i].Kind == kind && strings.EqualFold(s.presets[i].Name, name) {
			s.presets[i].Text = text
			saved = s.presets[i]
			found = true
			break
		}
	}
	if !found {
		saved = models.NewPreset(kind, name, text)
		s.presets = append(s.presets, saved)
	}
	s.dirtyPresets = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save preset", func(ctx context.Context) error {
		return s.remote.SavePreset(ctx, saved)
	})
}

// DeletePreset removes the preset with p's id and propagates the delete.
func (s *Store) DeletePreset(p models.Preset) {
	s.mu.Lock()
	kept := s.presets[:0]
	for _, existing := range s.presets {
		if existing.ID != p.ID {
			kept = append(kept, existing)
		}
	}
	s.presets = kept
	s.dirtyPresets = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("delete preset", func(ctx context.Context) error {
		return s.remote.DeletePreset(ctx, p.ID)
	})
}

// SetGlobalDefault sets the default text for a section kind. The value is
// trimmed; an empty result removes the key entirely, since absence rather
// than an empty string is the canonical "no default" representation.
func (s *Store) SetGlobalDefault(value string, key models.SectionKind) {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	if value == "" {
		if _, ok := s.settings.GlobalDefaults[key]; !ok {
			s.mu.Unlock()
			return
		}
		delete(s.settings.GlobalDefaults, key)
	} else {
		if s.settings.GlobalDefaults == nil {
			s.settings.GlobalDefaults = make(map[models.SectionKind]string)
		}
		s.settings.GlobalDefaults[key] = value
	}
	saved := s.settings.Clone()
	s.dirtySettings = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save settings", func(ctx context.Context) error {
		return s.remote.SaveSettings(ctx, saved)
	})
}

// SetDefaultGenerator sets the default generator identifier. Empty or
// unchanged values are no-ops to avoid redundant writes and pushes.
func (s *Store) SetDefaultGenerator(name string) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if name == "" || name == s.settings.DefaultGenerator {
		s.mu.Unlock()
		return
	}
	s.settings.DefaultGenerator = name
	saved := s.settings.Clone()
	s.dirtySettings = true
	s.scheduleWrite()
	s.mu.Unlock()

	s.enqueuePush("save settings", func(ctx context.Context) error {
		return s.remote.SaveSettings(ctx, saved)
	})
}
