package cli

import "context"

func (a *App) Sync(ctx context.Context) {
	if !a.client.Available() {
		printlnFn("server unavailable, working locally")
		return
	}
	a.store.SyncWithCloud(ctx)
	printlnFn("sync: " + string(a.store.Status().State))
}

// ForceSync bulk-uploads everything, bypassing debouncing. For recovering a
// cloud account after working offline for a long stretch.
func (a *App) ForceSync(ctx context.Context) {
	if !a.client.Available() {
		printlnFn("server unavailable, working locally")
		return
	}
	a.store.ForceSync(ctx)
	printlnFn("force sync: " + string(a.store.Status().State))
}
