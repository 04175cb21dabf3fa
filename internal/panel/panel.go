// Package panel implements the dashboard core: the model table controller,
// the active-request dropdown state machine, the stats aggregator and the
// condensed overlay menu, plus the tview wiring that renders them.
//
// Controllers never mutate their state off the UI goroutine. Asynchronous
// daemon calls run in goroutines and resume through a scheduler function
// (QueueUpdateDraw in the TUI, synchronous in tests), so guard flags and
// snapshots are only touched from one goroutine at a time.
package panel

import (
	"context"

	"modelboard/internal/api"
)

// API is the slice of the daemon admin client the controllers drive.
type API interface {
	LoadModel(ctx context.Context, id string) error
	UnloadModel(ctx context.Context, id string) error
	UnloadAllModels(ctx context.Context) error
	ListActiveRequests(ctx context.Context) ([]api.ActiveRequest, error)
	AbortRequest(ctx context.Context, id string) error
}

// OutsideClickBinder installs a handler fired on a pointer-down outside the
// dropdown's region. Install returns a release func; the binder holds at
// most one handler at a time, acquired on entering Open and released on any
// transition out of it.
type OutsideClickBinder interface {
	Install(onOutside func()) (release func())
}
