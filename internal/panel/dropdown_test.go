package panel

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"modelboard/internal/api"
)

// fakeBinder tracks the dropdown's outside-click listener lifecycle.
type fakeBinder struct {
	installs int
	releases int
	handler  func()
}

func (b *fakeBinder) Install(onOutside func()) func() {
	b.installs++
	b.handler = onOutside
	return func() {
		b.releases++
		b.handler = nil
	}
}

// testDropdown wires a controller whose update function runs synchronously
// and signals on a channel, so tests can wait out the async fetch/abort
// completions.
func testDropdown(f *fakeAPI) (*DropdownController, *fakeBinder, chan struct{}) {
	updates := make(chan struct{}, 16)
	binder := &fakeBinder{}
	update := func(fn func()) {
		fn()
		updates <- struct{}{}
	}
	d := NewDropdownController(f, binder, zerolog.Nop(), update, func() {})
	return d, binder, updates
}

func waitUpdate(t *testing.T, updates chan struct{}) {
	t.Helper()
	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an update")
	}
}

func TestToggleOpensOnFetchSuccess(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{
		{ID: "r1", Model: "m1"},
		{ID: "r2", Model: "m2"},
	}
	d, binder, updates := testDropdown(f)

	if d.Phase() != PhaseClosed {
		t.Fatalf("initial phase = %v, want Closed", d.Phase())
	}
	d.Toggle()
	waitUpdate(t, updates)

	if d.Phase() != PhaseOpen {
		t.Fatalf("phase = %v, want Open", d.Phase())
	}
	if got := len(d.Requests()); got != 2 {
		t.Errorf("got %d requests, want 2", got)
	}
	if binder.installs != 1 {
		t.Errorf("listener installed %d times, want 1", binder.installs)
	}
	if got := d.Label(); got != "Stop Generating (2)" {
		t.Errorf("label = %q, want %q", got, "Stop Generating (2)")
	}
}

func TestToggleStaysClosedOnFetchFailure(t *testing.T) {
	f := newFakeAPI()
	f.listErr = errors.New("connection refused")
	d, binder, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	if d.Phase() != PhaseClosed {
		t.Fatalf("phase = %v, want Closed after fetch failure", d.Phase())
	}
	if binder.installs != 0 {
		t.Error("listener must not be installed when the dropdown never opened")
	}
}

func TestToggleWhileLoadingIsNoop(t *testing.T) {
	f := newFakeAPI()
	f.gate = make(chan struct{})
	d, _, updates := testDropdown(f)

	d.Toggle()
	if d.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want Loading", d.Phase())
	}
	if d.TriggerEnabled() {
		t.Error("trigger must be disabled while loading")
	}
	if got := d.Label(); got != "Loading..." {
		t.Errorf("label = %q, want %q", got, "Loading...")
	}

	d.Toggle() // disabled control; must not start a second fetch

	close(f.gate)
	waitUpdate(t, updates)

	if got := f.callCount("list-requests"); got != 1 {
		t.Errorf("fetch issued %d times, want 1", got)
	}
	if d.Phase() != PhaseOpen {
		t.Errorf("phase = %v, want Open", d.Phase())
	}
}

func TestToggleWhileOpenClosesWithoutRefetch(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}}
	d, binder, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)
	d.Toggle()

	if d.Phase() != PhaseClosed {
		t.Fatalf("phase = %v, want Closed", d.Phase())
	}
	if d.Requests() != nil {
		t.Error("snapshot must be discarded on close")
	}
	if binder.releases != 1 {
		t.Errorf("listener released %d times, want 1", binder.releases)
	}
	if got := f.callCount("list-requests"); got != 1 {
		t.Errorf("fetch issued %d times, want 1", got)
	}
	if got := d.Label(); got != "Stop Generating" {
		t.Errorf("label = %q, want %q", got, "Stop Generating")
	}
}

func TestOutsideClickClosesWhileOpen(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}}
	d, binder, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	binder.handler()
	if d.Phase() != PhaseClosed {
		t.Fatalf("phase = %v, want Closed after outside click", d.Phase())
	}
	if binder.releases != 1 {
		t.Errorf("listener released %d times, want 1", binder.releases)
	}
}

func TestListenerPairedAcrossCycles(t *testing.T) {
	f := newFakeAPI()
	d, binder, updates := testDropdown(f)

	for i := 0; i < 3; i++ {
		d.Toggle()
		waitUpdate(t, updates)
		d.Toggle()
	}
	if binder.installs != 3 || binder.releases != 3 {
		t.Errorf("installs/releases = %d/%d, want 3/3", binder.installs, binder.releases)
	}
}

func TestAbortSecondCallBlockedWhilePending(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}}
	d, _, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	f.gate = make(chan struct{})
	d.Abort("r1")
	if !d.Aborting("r1") {
		t.Fatal("expected r1 in the aborting set while the call is pending")
	}
	d.Abort("r1") // control disabled; no second call

	close(f.gate)
	waitUpdate(t, updates)

	if got := f.callCount("abort r1"); got != 1 {
		t.Errorf("abort issued %d times, want 1", got)
	}
	if d.Aborting("r1") {
		t.Error("aborting set must be cleared after the call resolves")
	}
}

func TestAbortsOnDifferentIDsRunConcurrently(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}, {ID: "r2"}}
	d, _, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	g1 := make(chan struct{})
	g2 := make(chan struct{})
	f.mu.Lock()
	f.gates = map[string]chan struct{}{"abort r1": g1, "abort r2": g2}
	f.mu.Unlock()

	d.Abort("r1")
	d.Abort("r2")
	if !d.Aborting("r1") || !d.Aborting("r2") {
		t.Fatal("both aborts must be pending at the same time")
	}

	// Resolve in the opposite order of issue.
	close(g2)
	waitUpdate(t, updates)
	if d.Aborting("r2") {
		t.Error("r2 still pending after its call resolved")
	}
	if !d.Aborting("r1") {
		t.Error("r1 must stay pending; the guards are per id")
	}
	reqs := d.Requests()
	if len(reqs) != 1 || reqs[0].ID != "r1" {
		t.Errorf("requests = %+v, want only r1 while its abort is in flight", reqs)
	}

	close(g1)
	waitUpdate(t, updates)
	if d.Aborting("r1") {
		t.Error("r1 still pending after its call resolved")
	}
	if got := len(d.Requests()); got != 0 {
		t.Errorf("got %d requests, want 0 after both aborts", got)
	}
}

func TestAbortSuccessRemovesRequest(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}, {ID: "r2"}}
	d, _, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	d.Abort("r1")
	waitUpdate(t, updates)

	reqs := d.Requests()
	if len(reqs) != 1 || reqs[0].ID != "r2" {
		t.Errorf("requests after abort = %+v, want only r2", reqs)
	}
	if d.Aborting("r1") {
		t.Error("aborting set must be cleared on success")
	}
}

func TestAbortFailureKeepsRequest(t *testing.T) {
	f := newFakeAPI()
	f.requests = []api.ActiveRequest{{ID: "r1"}}
	f.abortErr = errors.New("not found")
	d, _, updates := testDropdown(f)

	d.Toggle()
	waitUpdate(t, updates)

	d.Abort("r1")
	waitUpdate(t, updates)

	if got := len(d.Requests()); got != 1 {
		t.Errorf("got %d requests, want 1 (failed abort keeps the row)", got)
	}
	if d.Aborting("r1") {
		t.Error("aborting set must be cleared on failure so the control re-enables")
	}
}

func TestFormatElapsed(t *testing.T) {
	now := time.Now()
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m 30s"},
		{3725 * time.Second, "1h 2m"},
		{0, "0s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{3600 * time.Second, "1h 0m"},
		{-5 * time.Second, "0s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("FormatElapsed(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
