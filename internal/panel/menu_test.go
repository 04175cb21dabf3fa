package panel

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMenuToggle(t *testing.T) {
	m := NewMenuController(func() {})
	if m.Open() {
		t.Fatal("menu must start closed")
	}
	m.Toggle()
	if !m.Open() {
		t.Fatal("menu must open on toggle")
	}
	m.Toggle()
	if m.Open() {
		t.Fatal("menu must close on second toggle")
	}
}

func TestMenuDoPerformsActionAndCloses(t *testing.T) {
	m := NewMenuController(func() {})
	m.Toggle()

	ran := false
	m.Do(func() { ran = true })

	if !ran {
		t.Error("action did not run")
	}
	if m.Open() {
		t.Error("menu must close after an action")
	}
}

func TestMenuDoClosesWhenActionIsRefused(t *testing.T) {
	f := newFakeAPI()
	c := NewTableController(f, testStore(t), zerolog.Nop(), func(fn func()) { fn() }, func() {})
	c.after = func(_ time.Duration, _ func()) {}

	m := NewMenuController(func() {})
	m.Toggle()

	c.UnloadAll()
	waitFor(t, f.done, "unload-all")

	// A bulk unload in its cooldown window refuses re-entry, but the menu
	// action still closes the menu.
	m.Do(c.UnloadAll)
	if m.Open() {
		t.Error("menu must close even when the action was a no-op")
	}
	if got := f.callCount("unload-all"); got != 1 {
		t.Errorf("unload-all issued %d times, want 1", got)
	}
}

func TestMenuDoClosesEvenWhenAlreadyClosed(t *testing.T) {
	m := NewMenuController(func() {})
	m.Do(func() {})
	if m.Open() {
		t.Error("menu must stay closed")
	}
}
