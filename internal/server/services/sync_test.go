package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/server/models"
)

type fakeDocumentsRepo struct {
	docs map[string]map[string]json.RawMessage // collection -> id -> doc

	upsertErr error
	listErr   error
}

func newFakeDocumentsRepo() *fakeDocumentsRepo {
	return &fakeDocumentsRepo{docs: map[string]map[string]json.RawMessage{}}
}

func (f *fakeDocumentsRepo) put(collection, id string, doc string) {
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]json.RawMessage{}
	}
	f.docs[collection][id] = json.RawMessage(doc)
}

func (f *fakeDocumentsRepo) Upsert(ctx context.Context, userID, collection, id string, doc json.RawMessage) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.put(collection, id, string(doc))
	return nil
}

func (f *fakeDocumentsRepo) Get(ctx context.Context, userID, collection, id string) (*models.Document, error) {
	doc, ok := f.docs[collection][id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.Document{UserID: userID, Collection: collection, ID: id, Doc: doc}, nil
}

func (f *fakeDocumentsRepo) ListByCollection(ctx context.Context, userID, collection string) ([]*models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*models.Document
	for id, doc := range f.docs[collection] {
		result = append(result, &models.Document{UserID: userID, Collection: collection, ID: id, Doc: doc})
	}
	return result, nil
}

func (f *fakeDocumentsRepo) Delete(ctx context.Context, userID, collection, id string) error {
	delete(f.docs[collection], id)
	return nil
}

func newSyncService(t *testing.T, docs *fakeDocumentsRepo) *SyncService {
	t.Helper()
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRefreshRepo{}, d: docs}
	return NewSyncService(nil, rm)
}

func TestChanges(t *testing.T) {
	docs := newFakeDocumentsRepo()
	docs.put(common.CollectionCharacters, "c-1", `{"id":"c-1"}`)
	docs.put(common.CollectionPresets, "p-1", `{"id":"p-1"}`)
	docs.put(common.CollectionPresets, "p-2", `{"id":"p-2"}`)

	s := newSyncService(t, docs)

	chars, presets, err := s.Changes(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if len(chars) != 1 || len(presets) != 2 {
		t.Fatalf("unexpected counts: %d characters, %d presets", len(chars), len(presets))
	}
}

func TestChanges_RepoError(t *testing.T) {
	docs := newFakeDocumentsRepo()
	docs.listErr = errors.New("db down")

	s := newSyncService(t, docs)

	if _, _, err := s.Changes(context.Background(), "u-1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSettings_Missing(t *testing.T) {
	s := newSyncService(t, newFakeDocumentsRepo())

	_, err := s.Settings(context.Background(), "u-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	docs := newFakeDocumentsRepo()
	s := newSyncService(t, docs)

	doc := json.RawMessage(`{"globalDefaults":{"style":"oil painting"}}`)
	if err := s.SaveSettings(context.Background(), "u-1", doc); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}

	got, err := s.Settings(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Settings error: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("settings = %s, want %s", got, doc)
	}
}

func TestSaveDocument_UnknownCollection(t *testing.T) {
	s := newSyncService(t, newFakeDocumentsRepo())

	err := s.SaveDocument(context.Background(), "u-1", "gadgets", "g-1", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestSaveDocument_EmptyID(t *testing.T) {
	s := newSyncService(t, newFakeDocumentsRepo())

	err := s.SaveDocument(context.Background(), "u-1", common.CollectionCharacters, "", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestDeleteDocument(t *testing.T) {
	docs := newFakeDocumentsRepo()
	docs.put(common.CollectionCharacters, "c-1", `{"id":"c-1"}`)

	s := newSyncService(t, docs)

	if err := s.DeleteDocument(context.Background(), "u-1", common.CollectionCharacters, "c-1"); err != nil {
		t.Fatalf("DeleteDocument error: %v", err)
	}

	chars, _, err := s.Changes(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if len(chars) != 0 {
		t.Fatalf("expected character to be gone, got %d", len(chars))
	}

	// deleting again is not an error
	if err := s.DeleteDocument(context.Background(), "u-1", common.CollectionCharacters, "c-1"); err != nil {
		t.Fatalf("repeat DeleteDocument error: %v", err)
	}
}
