package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/server/repositories/repomanager"
)

// settingsDocID addresses the single settings document every user has at most
// one of.
const settingsDocID = "settings"

// SyncService reads and writes the per-user synced collections. Payloads stay
// opaque JSON end to end; the service only enforces collection names and ids.
type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager) *SyncService {
	return &SyncService{db: db, repomanager: m}
}

func validCollection(collection string) bool {
	switch collection {
	case common.CollectionCharacters, common.CollectionPresets:
		return true
	}
	return false
}

// Changes returns the user's full character and preset collections.
func (s *SyncService) Changes(ctx context.Context, userID string) ([]json.RawMessage, []json.RawMessage, error) {
	repo := s.repomanager.Documents(s.db)

	chars, err := repo.ListByCollection(ctx, userID, common.CollectionCharacters)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing characters: %w", err)
	}

	presets, err := repo.ListByCollection(ctx, userID, common.CollectionPresets)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing presets: %w", err)
	}

	var charDocs, presetDocs []json.RawMessage
	for _, d := range chars {
		charDocs = append(charDocs, d.Doc)
	}
	for _, d := range presets {
		presetDocs = append(presetDocs, d.Doc)
	}

	return charDocs, presetDocs, nil
}

// Settings returns the user's settings document, or common.ErrNotFound when
// the user has never saved settings.
func (s *SyncService) Settings(ctx context.Context, userID string) (json.RawMessage, error) {
	repo := s.repomanager.Documents(s.db)

	doc, err := repo.Get(ctx, userID, common.CollectionSettings, settingsDocID)
	if err != nil {
		return nil, err
	}

	return doc.Doc, nil
}

// SaveSettings stores the settings document, replacing any previous one.
func (s *SyncService) SaveSettings(ctx context.Context, userID string, doc json.RawMessage) error {
	repo := s.repomanager.Documents(s.db)
	return repo.Upsert(ctx, userID, common.CollectionSettings, settingsDocID, doc)
}

// SaveDocument upserts one character or preset.
func (s *SyncService) SaveDocument(ctx context.Context, userID, collection, id string, doc json.RawMessage) error {
	if !validCollection(collection) {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if id == "" {
		return fmt.Errorf("empty document id")
	}

	repo := s.repomanager.Documents(s.db)
	return repo.Upsert(ctx, userID, collection, id, doc)
}

// DeleteDocument removes one character or preset. Deleting an absent document
// is a no-op.
func (s *SyncService) DeleteDocument(ctx context.Context, userID, collection, id string) error {
	if !validCollection(collection) {
		return fmt.Errorf("unknown collection %q", collection)
	}

	repo := s.repomanager.Documents(s.db)
	return repo.Delete(ctx, userID, collection, id)
}
