package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/client/remote"
	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/logging"
)

// fakeLocal is an in-memory stand-in for the local document store.
type fakeLocal struct {
	mu        sync.Mutex
	docs      map[string]json.RawMessage
	saveCalls map[string]int
	saveErr   error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{
		docs:      make(map[string]json.RawMessage),
		saveCalls: make(map[string]int),
	}
}

func (f *fakeLocal) Load(name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.docs[name]
	if !ok {
		return fmt.Errorf("collection %s: %w", name, common.ErrNotFound)
	}
	return json.Unmarshal(raw, v)
}

func (f *fakeLocal) Save(name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.docs[name] = raw
	f.saveCalls[name]++
	return nil
}

func (f *fakeLocal) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls[name]
}

func (f *fakeLocal) put(t *testing.T, name string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	f.mu.Lock()
	f.docs[name] = raw
	f.mu.Unlock()
}

// fakeRemote is a scriptable in-memory remote store.
type fakeRemote struct {
	mu        sync.Mutex
	available bool

	changes     remote.Changes
	fetchErr    error
	settings    *models.Settings
	settingsErr error

	saveCharacterErr  error
	saveCharactersErr error
	savePresetsErr    error
	saveSettingsErr   error

	savedCharacters []models.Character
	savedPresets    []models.Preset
	savedSettings   []models.Settings
	bulkCharacters  int
	bulkPresets     int
	deletedChars    []string
	deletedPresets  []string

	status chan models.SyncStatus
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{status: make(chan models.SyncStatus, 16)}
}

func (f *fakeRemote) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeRemote) FetchChanges(context.Context) (*remote.Changes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	c := f.changes
	return &c, nil
}

func (f *fakeRemote) FetchSettings(context.Context) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeRemote) SaveCharacter(_ context.Context, c models.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveCharacterErr != nil {
		return f.saveCharacterErr
	}
	f.savedCharacters = append(f.savedCharacters, c)
	return nil
}

func (f *fakeRemote) SaveCharacters(_ context.Context, cs []models.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveCharactersErr != nil {
		return f.saveCharactersErr
	}
	f.bulkCharacters++
	return nil
}

func (f *fakeRemote) SavePreset(_ context.Context, p models.Preset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedPresets = append(f.savedPresets, p)
	return nil
}

func (f *fakeRemote) SavePresets(_ context.Context, ps []models.Preset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.savePresetsErr != nil {
		return f.savePresetsErr
	}
	f.bulkPresets++
	return nil
}

func (f *fakeRemote) SaveSettings(_ context.Context, s models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveSettingsErr != nil {
		return f.saveSettingsErr
	}
	f.savedSettings = append(f.savedSettings, s)
	return nil
}

func (f *fakeRemote) DeleteCharacter(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedChars = append(f.deletedChars, id)
	return nil
}

func (f *fakeRemote) DeletePreset(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedPresets = append(f.deletedPresets, id)
	return nil
}

func (f *fakeRemote) Status() <-chan models.SyncStatus { return f.status }

func (f *fakeRemote) savedCharacterCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.savedCharacters)
}

func (f *fakeRemote) savedSettingsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.savedSettings)
}

const testDebounce = 30 * time.Millisecond

func newTestStore(t *testing.T, local *fakeLocal, rem *fakeRemote) *Store {
	t.Helper()
	s := New(local, rem, logging.NewNopLogger(), WithDebounceInterval(testDebounce))
	t.Cleanup(s.Close)
	return s
}

func waitForFlush() { time.Sleep(4 * testDebounce) }

func TestOpen_EmptyLocalUnavailableRemote(t *testing.T) {
	local := newFakeLocal()
	rem := newFakeRemote() // unavailable by default
	s := newTestStore(t, local, rem)

	s.Open(context.Background())

	require.True(t, s.Loaded())
	require.Empty(t, s.Characters())

	presets := s.Presets()
	require.Len(t, presets, len(SamplePresets()))
	require.Equal(t, DefaultSettings().DefaultGenerator, s.Settings().DefaultGenerator)

	// Sync short-circuits on the unavailable remote, so status stays idle.
	require.Eventually(t, func() bool {
		return s.Status().State == models.SyncIdle
	}, time.Second, 10*time.Millisecond)
}

func TestOpen_LoadsExistingLocalDocuments(t *testing.T) {
	local := newFakeLocal()
	chars := []models.Character{models.NewCharacter("Mira"), models.NewCharacter("Okko")}
	presets := []models.Preset{models.NewPreset(models.SectionPose, "Hero", "low angle")}
	local.put(t, common.CollectionCharacters, chars)
	local.put(t, common.CollectionPresets, presets)
	local.put(t, common.CollectionSettings, models.Settings{DefaultGenerator: "flux"})

	s := newTestStore(t, local, newFakeRemote())
	s.Open(context.Background())

	require.Equal(t, chars, s.Characters())
	require.Equal(t, presets, s.Presets())
	require.Equal(t, "flux", s.Settings().DefaultGenerator)
}

func TestOpen_CorruptDocumentsFallBackToDefaults(t *testing.T) {
	local := newFakeLocal()
	local.mu.Lock()
	local.docs[common.CollectionPresets] = json.RawMessage("{broken")
	local.docs[common.CollectionSettings] = json.RawMessage("[]") // wrong shape decodes with error
	local.mu.Unlock()

	s := newTestStore(t, local, newFakeRemote())
	s.Open(context.Background())

	require.True(t, s.Loaded())
	require.Len(t, s.Presets(), len(SamplePresets()))
	require.Equal(t, DefaultSettings().DefaultGenerator, s.Settings().DefaultGenerator)
}

func TestMergeByID_Additivity(t *testing.T) {
	a := models.NewCharacter("A")
	b := models.NewCharacter("B")
	bPrime := models.Character{ID: b.ID, Name: "B-remote", Bio: "changed remotely"}
	c := models.NewCharacter("C")

	merged := mergeByID([]models.Character{a, b}, []models.Character{bPrime, c},
		func(ch models.Character) string { return ch.ID })

	require.Equal(t, []models.Character{a, bPrime, c}, merged)
}

func TestSyncWithCloud_MergesPersistsAndRecordsTime(t *testing.T) {
	local := newFakeLocal()
	rem := newFakeRemote()
	rem.available = true

	remoteChar := models.NewCharacter("Remote")
	remotePreset := models.NewPreset(models.SectionStyle, "Ink", "ink wash")
	rem.changes = remote.Changes{
		Characters: []models.Character{remoteChar},
		Presets:    []models.Preset{remotePreset},
		FetchedAt:  time.Now(),
	}
	rem.settings = &models.Settings{DefaultGenerator: "remote-gen"}

	s := newTestStore(t, local, rem)
	s.loadLocal(context.Background())
	localChar := models.NewCharacter("LocalOnly")
	s.AddCharacter(localChar)

	s.SyncWithCloud(context.Background())

	chars := s.Characters()
	require.Len(t, chars, 2)
	require.Equal(t, localChar.ID, chars[0].ID, "local-only records survive a merge")
	require.Equal(t, remoteChar.ID, chars[1].ID, "unknown remote records append at the end")

	// Remote settings overwrite wholesale.
	require.Equal(t, "remote-gen", s.Settings().DefaultGenerator)

	// Merged state is persisted synchronously.
	require.GreaterOrEqual(t, local.calls(common.CollectionCharacters), 1)
	require.GreaterOrEqual(t, local.calls(common.CollectionPresets), 1)
	require.GreaterOrEqual(t, local.calls(common.CollectionSettings), 1)

	require.False(t, s.LastSync().IsZero())
	require.Equal(t, models.SyncSuccess, s.Status().State)
}

func TestSyncWithCloud_EmptyRemoteDeletesNothing(t *testing.T) {
	local := newFakeLocal()
	rem := newFakeRemote()
	rem.available = true // empty changes, nil settings

	s := newTestStore(t, local, rem)
	s.loadLocal(context.Background())
	s.AddCharacter(models.NewCharacter("Keep"))
	before := s.Characters()

	s.SyncWithCloud(context.Background())

	require.Equal(t, before, s.Characters())
	require.Len(t, s.Presets(), len(SamplePresets()))
}

func TestSyncWithCloud_FetchFailureLeavesStateUntouched(t *testing.T) {
	local := newFakeLocal()
	rem := newFakeRemote()
	rem.available = true
	rem.fetchErr = errors.New("kaput")

	s := newTestStore(t, local, rem)
	s.loadLocal(context.Background())
	before := s.Characters()
	savesBefore := local.calls(common.CollectionCharacters)

	s.SyncWithCloud(context.Background())

	require.Equal(t, before, s.Characters())
	require.Equal(t, savesBefore, local.calls(common.CollectionCharacters))
	require.Equal(t, models.SyncFailure, s.Status().State)
	require.Contains(t, s.Status().Reason, "kaput")
}

func TestSyncWithCloud_UnavailableIsANoop(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, newFakeLocal(), rem)

	s.SyncWithCloud(context.Background())

	require.Equal(t, models.SyncIdle, s.Status().State)
}

func TestAddCharacter_FrontInsertAndPush(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, newFakeLocal(), rem)

	first := models.NewCharacter("first")
	second := models.NewCharacter("second")
	s.AddCharacter(first)
	s.AddCharacter(second)

	chars := s.Characters()
	require.Equal(t, second.ID, chars[0].ID, "most recent first")
	require.Equal(t, first.ID, chars[1].ID)

	require.Eventually(t, func() bool {
		return rem.savedCharacterCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestUpdateCharacter_MissingIDIsObservableNoop(t *testing.T) {
	local := newFakeLocal()
	rem := newFakeRemote()
	s := newTestStore(t, local, rem)

	existing := models.NewCharacter("existing")
	s.AddCharacter(existing)
	waitForFlush()
	writes := local.calls(common.CollectionCharacters)
	before := s.Characters()

	s.UpdateCharacter(models.NewCharacter("ghost"))
	waitForFlush()

	require.Equal(t, before, s.Characters())
	require.Equal(t, writes, local.calls(common.CollectionCharacters), "no write scheduled")
}

func TestDeleteCharacter_RemovesAndPropagates(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, newFakeLocal(), rem)

	c := models.NewCharacter("doomed")
	s.AddCharacter(c)
	s.DeleteCharacter(c)

	require.Empty(t, s.Characters())
	require.Eventually(t, func() bool {
		rem.mu.Lock()
		defer rem.mu.Unlock()
		return len(rem.deletedChars) == 1 && rem.deletedChars[0] == c.ID
	}, time.Second, 5*time.Millisecond)
}

func TestAddPreset_CaseInsensitiveOverwrite(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())
	s.mu.Lock()
	s.presets = nil
	s.mu.Unlock()

	s.AddPreset(models.SectionStyle, "Foo", "first text")
	s.AddPreset(models.SectionStyle, "foo", "second text")

	presets := s.Presets()
	require.Len(t, presets, 1)
	require.Equal(t, "Foo", presets[0].Name, "original casing survives the overwrite")
	require.Equal(t, "second text", presets[0].Text)
}

func TestAddPreset_SameNameDifferentKindCoexist(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())
	s.mu.Lock()
	s.presets = nil
	s.mu.Unlock()

	s.AddPreset(models.SectionStyle, "Foo", "style text")
	s.AddPreset(models.SectionPose, "Foo", "pose text")

	require.Len(t, s.Presets(), 2)
}

func TestAddPreset_BlankInputsAreSilentNoops(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())
	before := len(s.Presets())

	s.AddPreset(models.SectionStyle, "   ", "text")
	s.AddPreset(models.SectionStyle, "name", "   ")

	require.Len(t, s.Presets(), before)
}

func TestSavePreset_ReplaceByIDElseAppend(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())
	s.mu.Lock()
	s.presets = nil
	s.mu.Unlock()

	p := models.NewPreset(models.SectionOutfit, "Armor", "plate armor")
	s.SavePreset(p)

	p.Text = "ceremonial plate armor"
	s.SavePreset(p)

	presets := s.Presets()
	require.Len(t, presets, 1)
	require.Equal(t, "ceremonial plate armor", presets[0].Text)
}

func TestSetGlobalDefault_TrimSetAndRemove(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())
	s.mu.Lock()
	s.settings = models.Settings{}
	s.mu.Unlock()

	s.SetGlobalDefault("  x  ", models.SectionPose)
	require.Equal(t, "x", s.Settings().GlobalDefaults[models.SectionPose])

	s.SetGlobalDefault("   ", models.SectionPose)
	_, ok := s.Settings().GlobalDefaults[models.SectionPose]
	require.False(t, ok, "blank value removes the key entirely")

	// Removing an absent key is a no-op.
	s.SetGlobalDefault("", models.SectionOutfit)
	_, ok = s.Settings().GlobalDefaults[models.SectionOutfit]
	require.False(t, ok)
}

func TestSetDefaultGenerator_SkipsRedundantWrites(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, newFakeLocal(), rem)
	s.mu.Lock()
	s.settings = models.Settings{DefaultGenerator: "flux"}
	s.mu.Unlock()

	s.SetDefaultGenerator("flux")
	s.SetDefaultGenerator("   ")
	waitForFlush()
	require.Equal(t, 0, rem.savedSettingsCount(), "no push for redundant values")

	s.SetDefaultGenerator("sdxl")
	require.Equal(t, "sdxl", s.Settings().DefaultGenerator)
	require.Eventually(t, func() bool {
		return rem.savedSettingsCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDebounce_CoalescesRapidMutationsIntoOneWrite(t *testing.T) {
	local := newFakeLocal()
	s := newTestStore(t, local, newFakeRemote())

	for i := 0; i < 10; i++ {
		s.AddCharacter(models.NewCharacter(fmt.Sprintf("c%d", i)))
	}
	waitForFlush()

	require.Equal(t, 1, local.calls(common.CollectionCharacters),
		"10 rapid mutations must produce exactly one write")

	var persisted []models.Character
	require.NoError(t, local.Load(common.CollectionCharacters, &persisted))
	require.Len(t, persisted, 10, "the single write contains the state after the 10th mutation")
}

func TestForceSync_AbortsOnFirstFailure(t *testing.T) {
	rem := newFakeRemote()
	rem.savePresetsErr = errors.New("presets upload broken")
	s := newTestStore(t, newFakeLocal(), rem)

	s.ForceSync(context.Background())

	rem.mu.Lock()
	defer rem.mu.Unlock()
	require.Equal(t, 1, rem.bulkCharacters)
	require.Equal(t, 0, len(rem.savedSettings), "settings upload skipped after preset failure")
	require.Equal(t, models.SyncFailure, s.Status().State)
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	rem := newFakeRemote()
	rem.available = true
	s := newTestStore(t, newFakeLocal(), rem)

	ch, cancel := s.Subscribe()
	defer cancel()

	s.SyncWithCloud(context.Background())

	require.Equal(t, models.SyncRunning, (<-ch).State)
	require.Equal(t, models.SyncSuccess, (<-ch).State)
}

func TestStore_PushFailureNeverSurfaces(t *testing.T) {
	rem := newFakeRemote()
	rem.saveCharacterErr = errors.New("push rejected")
	s := newTestStore(t, newFakeLocal(), rem)

	c := models.NewCharacter("still here")
	s.AddCharacter(c) // must not panic, block, or roll back

	chars := s.Characters()
	require.Len(t, chars, 1)
	require.Equal(t, c.ID, chars[0].ID)
}

func TestClose_ConcurrentMutationsDoNotPanic(t *testing.T) {
	rem := newFakeRemote()
	rem.available = true
	local := newFakeLocal()
	s := New(local, rem, logging.NewNopLogger(), WithDebounceInterval(testDebounce))
	s.Open(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.AddCharacter(models.NewCharacter(fmt.Sprintf("c%d", i)))
		}
	}()

	time.Sleep(time.Millisecond)
	s.Close()
	<-done

	// mutations enqueued after Close are dropped, not delivered
	s.AddCharacter(models.NewCharacter("late"))
}

func TestClose_Idempotent(t *testing.T) {
	s := newTestStore(t, newFakeLocal(), newFakeRemote())

	s.Close()
	s.Close() // second call is a no-op
}
