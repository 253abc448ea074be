package store

import (
	"context"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/common"
)

// SyncWithCloud runs one fetch–merge–persist cycle. When the remote store is
// unavailable the cycle is a no-op, not an error. On any fetch failure the
// in-memory state stays untouched, the status transitions to failure, and no
// retry is scheduled; the next user- or lifecycle-triggered sync retries.
func (s *Store) SyncWithCloud(ctx context.Context) {
	if !s.remote.Available() {
		s.log.Debug(ctx, "cloud sync skipped, server unavailable")
		return
	}

	s.setStatus(models.StatusSyncing())

	changes, err := s.remote.FetchChanges(ctx)
	if err != nil {
		s.log.Error(ctx, "cloud fetch failed", "error", err)
		s.setStatus(models.StatusFailure(err.Error()))
		return
	}

	remoteSettings, err := s.remote.FetchSettings(ctx)
	if err != nil {
		s.log.Error(ctx, "cloud settings fetch failed", "error", err)
		s.setStatus(models.StatusFailure(err.Error()))
		return
	}

	s.mu.Lock()
	// An empty remote set means "nothing to merge", never "delete everything".
	if len(changes.Characters) > 0 {
		s.characters = mergeByID(s.characters, changes.Characters,
			func(c models.Character) string { return c.ID })
	}
	if len(changes.Presets) > 0 {
		s.presets = mergeByID(s.presets, changes.Presets,
			func(p models.Preset) string { return p.ID })
	}
	// Remote is authoritative for settings: no merge, whole replace.
	if remoteSettings != nil {
		s.settings = remoteSettings.Clone()
	}
	s.lastSync = time.Now()

	characters := append([]models.Character(nil), s.characters...)
	presets := append([]models.Preset(nil), s.presets...)
	settings := s.settings.Clone()
	s.mu.Unlock()

	// Persist synchronously so local storage never lags a completed sync.
	if err := s.local.Save(common.CollectionCharacters, characters); err != nil {
		s.log.Error(ctx, "failed to persist merged characters", "error", err)
	}
	if err := s.local.Save(common.CollectionPresets, presets); err != nil {
		s.log.Error(ctx, "failed to persist merged presets", "error", err)
	}
	if err := s.local.Save(common.CollectionSettings, settings); err != nil {
		s.log.Error(ctx, "failed to persist merged settings", "error", err)
	}

	s.setStatus(models.StatusSuccess())
	s.log.Info(ctx, "cloud sync finished",
		"characters", len(characters), "presets", len(presets))
}

// mergeByID combines a remote-fetched collection into the local one: a remote
// record whose id matches replaces the local record entirely (remote wins),
// an unmatched remote record is appended, and local-only records are never
// deleted. Order of surviving elements is preserved.
func mergeByID[T any](local, remote []T, id func(T) string) []T {
	out := make([]T, len(local))
	copy(out, local)

	index := make(map[string]int, len(out))
	for i, v := range out {
		index[id(v)] = i
	}

	for _, r := range remote {
		if i, ok := index[id(r)]; ok {
			out[i] = r
			continue
		}
		index[id(r)] = len(out)
		out = append(out, r)
	}
	return out
}

// ForceSync bulk-uploads all three collections to the remote store, bypassing
// the debounced write path. It is used for explicit user-triggered resyncs.
// A failure at any collection aborts the remaining uploads and is surfaced
// via the status field only.
func (s *Store) ForceSync(ctx context.Context) {
	s.mu.Lock()
	characters := append([]models.Character(nil), s.characters...)
	presets := append([]models.Preset(nil), s.presets...)
	settings := s.settings.Clone()
	s.mu.Unlock()

	s.setStatus(models.StatusSyncing())

	if err := s.remote.SaveCharacters(ctx, characters); err != nil {
		s.log.Error(ctx, "force sync aborted uploading characters", "error", err)
		s.setStatus(models.StatusFailure(err.Error()))
		return
	}
	if err := s.remote.SavePresets(ctx, presets); err != nil {
		s.log.Error(ctx, "force sync aborted uploading presets", "error", err)
		s.setStatus(models.StatusFailure(err.Error()))
		return
	}
	if err := s.remote.SaveSettings(ctx, settings); err != nil {
		s.log.Error(ctx, "force sync aborted uploading settings", "error", err)
		s.setStatus(models.StatusFailure(err.Error()))
		return
	}

	s.setStatus(models.StatusSuccess())
}
