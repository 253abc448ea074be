// Package store implements the local-first data store at the heart of
// CharKeeper: it owns the in-memory authoritative collections (characters,
// presets, settings), loads them from the local document store on startup,
// merges in remotely fetched state, coalesces rapid edits into debounced
// local writes, and pushes every mutation to the cloud in the background.
//
// One Store instance exists per process. All mutation methods apply their
// change in memory synchronously and return without awaiting any I/O; disk
// and network tails are handled by background tasks. Failures of those tails
// are absorbed and logged; an in-memory edit is never rolled back because a
// background write failed.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/client/remote"
	"github.com/dmitrijs2005/charkeeper/internal/common"
	"github.com/dmitrijs2005/charkeeper/internal/logging"
)

// Local is the subset of the local document store the engine needs.
// *localstore.Store satisfies it; tests substitute fakes.
type Local interface {
	Load(name string, v any) error
	Save(name string, v any) error
}

const (
	defaultDebounce    = 500 * time.Millisecond
	defaultPushWorkers = 4
	pushQueueCapacity  = 64
	pushTimeout        = 30 * time.Second
)

// Store is the sync engine. See the package comment for the ownership and
// concurrency contract.
type Store struct {
	local  Local
	remote remote.Store
	log    logging.Logger

	mu         sync.Mutex
	characters []models.Character
	presets    []models.Preset
	settings   models.Settings
	status     models.SyncStatus
	lastSync   time.Time
	loaded     bool

	dirtyCharacters bool
	dirtyPresets    bool
	dirtySettings   bool

	debounce   time.Duration
	writeTimer *time.Timer
	writeGen   uint64

	pushQ     chan pushTask
	wg        sync.WaitGroup
	closed    chan struct{}
	closeOnce sync.Once

	subMu   sync.Mutex
	subs    map[int]chan models.SyncStatus
	nextSub int
}

type pushTask struct {
	name string
	fn   func(ctx context.Context) error
}

// Option customizes a Store. Used mainly by tests to shrink timings.
type Option func(*Store)

// WithDebounceInterval overrides the local-write debounce window.
func WithDebounceInterval(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithPushWorkers overrides the number of outbound push workers.
func WithPushWorkers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pushQ = make(chan pushTask, pushQueueCapacity)
			s.startWorkers(n)
		}
	}
}

// New constructs a Store over the given local and remote stores. Call Open to
// run the startup protocol, and Close at process teardown.
func New(local Local, rem remote.Store, log logging.Logger, opts ...Option) *Store {
	s := &Store{
		local:    local,
		remote:   rem,
		log:      log,
		status:   models.StatusIdle(),
		debounce: defaultDebounce,
		closed:   make(chan struct{}),
		subs:     make(map[int]chan models.SyncStatus),
	}
	for _, o := range opts {
		o(s)
	}
	if s.pushQ == nil {
		s.pushQ = make(chan pushTask, pushQueueCapacity)
		s.startWorkers(defaultPushWorkers)
	}
	return s
}

// Open runs the startup protocol: load every collection from the local store
// (substituting built-in defaults for missing or corrupt documents), mark the
// store loaded so callers can render from local-only state, then kick off a
// cloud sync in the background. Remote failures never surface here.
func (s *Store) Open(ctx context.Context) {
	s.loadLocal(ctx)

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	go s.relayRemoteStatus()
	go s.SyncWithCloud(context.WithoutCancel(ctx))
}

func (s *Store) loadLocal(ctx context.Context) {
	var characters []models.Character
	if err := s.local.Load(common.CollectionCharacters, &characters); err != nil {
		if !isNotFound(err) {
			s.log.Warn(ctx, "characters document unreadable, starting empty", "error", err)
		}
		characters = nil
	}

	var presets []models.Preset
	if err := s.local.Load(common.CollectionPresets, &presets); err != nil {
		if !isNotFound(err) {
			s.log.Warn(ctx, "presets document unreadable, using samples", "error", err)
		}
		presets = SamplePresets()
	}

	var settings models.Settings
	if err := s.local.Load(common.CollectionSettings, &settings); err != nil {
		if !isNotFound(err) {
			s.log.Warn(ctx, "settings document unreadable, using defaults", "error", err)
		}
		settings = DefaultSettings()
	}

	s.mu.Lock()
	s.characters = characters
	s.presets = presets
	s.settings = settings
	s.mu.Unlock()
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

// Loaded reports whether the initial local load has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Characters returns a snapshot of the character collection in display order.
func (s *Store) Characters() []models.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Character, len(s.characters))
	copy(out, s.characters)
	return out
}

// Presets returns a snapshot of the preset collection.
func (s *Store) Presets() []models.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Settings returns a snapshot of the global settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Status returns the current sync status.
func (s *Store) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastSync returns the time of the last completed cloud sync, zero if none.
func (s *Store) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Subscribe registers a status listener. The returned channel receives every
// status transition without ever blocking the engine; slow consumers miss
// intermediate states rather than stalling mutations. The cancel func
// unregisters the listener and closes the channel.
func (s *Store) Subscribe() (<-chan models.SyncStatus, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.SyncStatus, 8)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) setStatus(st models.SyncStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

// relayRemoteStatus forwards status pushes from the remote store into the
// engine's own observable status until the engine is closed.
func (s *Store) relayRemoteStatus() {
	for {
		select {
		case st, ok := <-s.remote.Status():
			if !ok {
				return
			}
			s.setStatus(st)
		case <-s.closed:
			return
		}
	}
}

// Close flushes any pending debounced write, stops the push workers after the
// queued pushes drain, and unregisters all subscribers. Close is idempotent
// and safe to call while mutations are still in flight; pushes enqueued after
// Close are dropped.
func (s *Store) Close() {
	s.closeOnce.Do(s.close)
}

func (s *Store) close() {
	s.mu.Lock()
	if s.writeTimer != nil {
		s.writeTimer.Stop()
		s.writeTimer = nil
	}
	pending := s.dirtyCharacters || s.dirtyPresets || s.dirtySettings
	s.mu.Unlock()

	if pending {
		s.flushNow()
	}

	close(s.closed)
	s.wg.Wait()

	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()
}
