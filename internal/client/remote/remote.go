// Package remote defines the cloud-store contract the sync engine depends on,
// and an HTTP implementation talking to the CharKeeper sync server.
package remote

import (
	"context"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/client/models"
)

// Changes is the result of one fetch round-trip: the user's remote
// collections plus the server-side timestamp of the fetch.
type Changes struct {
	Characters []models.Character
	Presets    []models.Preset
	FetchedAt  time.Time
}

// Store is the remote database abstraction consumed by the sync engine.
// All operations are asynchronous from the engine's point of view and may
// fail independently; none are transactional across entity types.
//
// Available may change over the process lifetime; the engine checks it
// before every sync attempt and treats "unavailable" as a normal no-op,
// not an error.
type Store interface {
	Available() bool

	FetchChanges(ctx context.Context) (*Changes, error)
	// FetchSettings returns (nil, nil) when the user has no remote settings.
	FetchSettings(ctx context.Context) (*models.Settings, error)

	SaveCharacter(ctx context.Context, c models.Character) error
	SaveCharacters(ctx context.Context, cs []models.Character) error
	SavePreset(ctx context.Context, p models.Preset) error
	SavePresets(ctx context.Context, ps []models.Preset) error
	SaveSettings(ctx context.Context, s models.Settings) error

	DeleteCharacter(ctx context.Context, id string) error
	DeletePreset(ctx context.Context, id string) error

	// Status is a push-based stream of remote-side sync status changes,
	// relayed by the engine into its own observable status.
	Status() <-chan models.SyncStatus
}
