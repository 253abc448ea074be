package models

// SyncState enumerates the phases of a cloud synchronization cycle.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncRunning SyncState = "syncing"
	SyncSuccess SyncState = "success"
	SyncFailure SyncState = "failure"
)

// SyncStatus is the externally observable synchronization state. Reason is
// set only for failures.
type SyncStatus struct {
	State  SyncState `json:"state"`
	Reason string    `json:"reason,omitempty"`
}

func StatusIdle() SyncStatus    { return SyncStatus{State: SyncIdle} }
func StatusSyncing() SyncStatus { return SyncStatus{State: SyncRunning} }
func StatusSuccess() SyncStatus { return SyncStatus{State: SyncSuccess} }

func StatusFailure(reason string) SyncStatus {
	return SyncStatus{State: SyncFailure, Reason: reason}
}
