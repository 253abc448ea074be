package store

import (
	"context"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/common"
)

// scheduleWrite (re)starts the single pending deferred local-write timer.
// Only the most recently scheduled timer fires: any still-pending previous
// timer is cancelled, so bursts of rapid edits coalesce into one disk write.
// Callers must hold s.mu.
func (s *Store) scheduleWrite() {
	if s.writeTimer != nil {
		s.writeTimer.Stop()
	}
	s.writeGen++
	gen := s.writeGen

	s.writeTimer = time.AfterFunc(s.debounce, func() {
		s.flush(gen)
	})
}

// flush writes the dirty collections to the local store, unless a newer
// mutation has superseded this timer generation (cancelled mid-flight).
func (s *Store) flush(gen uint64) {
	s.mu.Lock()
	if gen != s.writeGen {
		s.mu.Unlock()
		return
	}
	s.writeTimer = nil
	s.mu.Unlock()

	s.flushNow()
}

// flushNow unconditionally persists whatever is dirty. Local write failures
// are logged and absorbed: the previous on-disk document stays intact and the
// in-memory state is never rolled back.
func (s *Store) flushNow() {
	ctx := context.Background()

	s.mu.Lock()
	writeCharacters, writePresets, writeSettings := s.dirtyCharacters, s.dirtyPresets, s.dirtySettings
	s.dirtyCharacters, s.dirtyPresets, s.dirtySettings = false, false, false

	characters := append([]models.Character(nil), s.characters...)
	presets := append([]models.Preset(nil), s.presets...)
	settings := s.settings.Clone()
	s.mu.Unlock()

	if writeCharacters {
		if err := s.local.Save(common.CollectionCharacters, characters); err != nil {
			s.log.Error(ctx, "failed to persist characters", "error", err)
		}
	}
	if writePresets {
		if err := s.local.Save(common.CollectionPresets, presets); err != nil {
			s.log.Error(ctx, "failed to persist presets", "error", err)
		}
	}
	if writeSettings {
		if err := s.local.Save(common.CollectionSettings, settings); err != nil {
			s.log.Error(ctx, "failed to persist settings", "error", err)
		}
	}
}
