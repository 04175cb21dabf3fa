package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"modelboard/internal/api"
)

// Phase is the dropdown's lifecycle state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseLoading
	PhaseOpen
)

// DropdownController is the active-request overlay state machine:
// Closed -> Loading on trigger, Loading -> Open on fetch success,
// Loading -> Closed on fetch failure, Open -> Closed on a second trigger or
// an outside pointer-down. The request snapshot is fetched fresh on every
// opening and discarded on close.
type DropdownController struct {
	api      API
	log      zerolog.Logger
	update   func(func())
	binder   OutsideClickBinder
	onChange func()

	phase    Phase
	requests []api.ActiveRequest
	aborting map[string]struct{}
	release  func()
}

// NewDropdownController wires a dropdown controller.
func NewDropdownController(a API, binder OutsideClickBinder, log zerolog.Logger, update func(func()), onChange func()) *DropdownController {
	return &DropdownController{
		api:      a,
		log:      log,
		update:   update,
		binder:   binder,
		onChange: onChange,
		aborting: make(map[string]struct{}),
	}
}

// Phase returns the current lifecycle state.
func (d *DropdownController) Phase() Phase {
	return d.phase
}

// Requests returns the displayed snapshot; nil unless Open.
func (d *DropdownController) Requests() []api.ActiveRequest {
	return d.requests
}

// TriggerEnabled reports whether the stop-generating control accepts input;
// it is disabled while the fetch is in flight.
func (d *DropdownController) TriggerEnabled() bool {
	return d.phase != PhaseLoading
}

// Label returns the trigger control's caption.
func (d *DropdownController) Label() string {
	if d.phase == PhaseLoading {
		return "Loading..."
	}
	if n := len(d.requests); n > 0 {
		return fmt.Sprintf("Stop Generating (%d)", n)
	}
	return "Stop Generating"
}

// Toggle handles the stop-generating trigger: opens from Closed (via a
// fetch), closes from Open, and is a no-op while Loading.
func (d *DropdownController) Toggle() {
	switch d.phase {
	case PhaseLoading:
		return
	case PhaseOpen:
		d.close()
		d.onChange()
	case PhaseClosed:
		d.phase = PhaseLoading
		d.onChange()
		go d.fetch()
	}
}

func (d *DropdownController) fetch() {
	reqs, err := d.api.ListActiveRequests(context.Background())
	d.update(func() {
		// A late result is only honored if the fetch that produced it is
		// still the one the UI is waiting for.
		if d.phase != PhaseLoading {
			return
		}
		if err != nil {
			d.log.Error().Err(err).Msg("list active requests failed")
			d.phase = PhaseClosed
			d.onChange()
			return
		}
		d.requests = reqs
		d.phase = PhaseOpen
		d.release = d.binder.Install(d.outsideClick)
		d.onChange()
	})
}

func (d *DropdownController) outsideClick() {
	if d.phase != PhaseOpen {
		return
	}
	d.close()
	d.onChange()
}

func (d *DropdownController) close() {
	d.phase = PhaseClosed
	d.requests = nil
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

// Aborting reports whether an abort call for id is pending; the row's abort
// control is disabled while true.
func (d *DropdownController) Aborting(id string) bool {
	_, pending := d.aborting[id]
	return pending
}

// Abort issues an abort for one request. A second call for the same id
// while one is pending is a no-op. Success removes the request from the
// displayed snapshot without a re-fetch; failure leaves it in place. The
// pending marker is cleared on every completion branch.
func (d *DropdownController) Abort(id string) {
	if _, pending := d.aborting[id]; pending {
		return
	}
	d.aborting[id] = struct{}{}
	d.onChange()
	go func() {
		err := d.api.AbortRequest(context.Background(), id)
		d.update(func() {
			defer func() {
				delete(d.aborting, id)
				d.onChange()
			}()
			if err != nil {
				d.log.Error().Err(err).Str("request", id).Msg("abort request failed")
				return
			}
			for i, r := range d.requests {
				if r.ID == id {
					d.requests = append(d.requests[:i], d.requests[i+1:]...)
					break
				}
			}
		})
	}()
}

// FormatElapsed renders the wall-clock age of a request at the instant of
// the last render: "{h}h {m}m" past an hour, "{m}m {s}s" past a minute,
// else "{s}s", flooring at each unit.
func FormatElapsed(start, now time.Time) string {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int(elapsed.Seconds())
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	switch {
	case h >= 1:
		return fmt.Sprintf("%dh %dm", h, m)
	case m >= 1:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
