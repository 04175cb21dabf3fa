package panel

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"modelboard/internal/api"
	"modelboard/internal/prefs"
)

// unloadCooldown is the minimum time the "Unloading..." indicator stays up
// after the bulk unload settles, so it does not flicker on fast responses.
const unloadCooldown = 1000 * time.Millisecond

// TableController drives the model table: filtering, per-row load/unload,
// bulk unload with its cooldown flag, and the two display preferences.
//
// Load and unload are not optimistic: a row's displayed state only changes
// when the next model snapshot from the daemon reflects it.
type TableController struct {
	api      API
	store    *prefs.Store
	log      zerolog.Logger
	update   func(func())
	after    func(time.Duration, func())
	onChange func()

	unloading bool
}

// NewTableController wires a table controller. update resumes completions on
// the UI goroutine; onChange is invoked after every state change so the
// caller can re-render.
func NewTableController(a API, store *prefs.Store, log zerolog.Logger, update func(func()), onChange func()) *TableController {
	return &TableController{
		api:      a,
		store:    store,
		log:      log,
		update:   update,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		onChange: onChange,
	}
}

// Prefs returns the current display preferences.
func (c *TableController) Prefs() prefs.Preferences {
	return c.store.Get()
}

// FilteredModels returns the models to display: every model when the
// show-unlisted preference is set, otherwise only listed ones. Source order
// is preserved.
func (c *TableController) FilteredModels(models []api.Model) []api.Model {
	if c.store.Get().ShowUnlisted {
		return models
	}
	out := make([]api.Model, 0, len(models))
	for _, m := range models {
		if !m.Unlisted {
			out = append(out, m)
		}
	}
	return out
}

// DisplayName resolves a model's row label per the display-mode preference.
// Name mode falls back to the id when the name is empty.
func (c *TableController) DisplayName(m api.Model) string {
	if c.store.Get().ShowIDOrName == prefs.ModeName && m.Name != "" {
		return m.Name
	}
	return m.ID
}

// CanLoad reports whether the load control is enabled for a model.
func (c *TableController) CanLoad(m api.Model) bool {
	return m.State == api.StateStopped
}

// CanUnload reports whether the per-row unload control is enabled.
func (c *TableController) CanUnload(m api.Model) bool {
	return m.State == api.StateReady
}

// Load issues an asynchronous load command for a stopped model. Failures
// are logged; no retry.
func (c *TableController) Load(id string) {
	go func() {
		if err := c.api.LoadModel(context.Background(), id); err != nil {
			c.log.Error().Err(err).Str("model", id).Msg("load model failed")
		}
	}()
}

// UnloadSingle issues an asynchronous unload command for one model.
func (c *TableController) UnloadSingle(id string) {
	go func() {
		if err := c.api.UnloadModel(context.Background(), id); err != nil {
			c.log.Error().Err(err).Str("model", id).Msg("unload model failed")
		}
	}()
}

// Unloading reports whether a bulk unload is in its visible window; the
// initiating control is disabled while true.
func (c *TableController) Unloading() bool {
	return c.unloading
}

// UnloadAll issues the bulk unload. The unloading flag is cleared exactly
// unloadCooldown after the call settles, success or failure.
func (c *TableController) UnloadAll() {
	if c.unloading {
		return
	}
	c.unloading = true
	c.onChange()
	go func() {
		if err := c.api.UnloadAllModels(context.Background()); err != nil {
			c.log.Error().Err(err).Msg("unload all models failed")
		}
		c.after(unloadCooldown, func() {
			c.update(func() {
				c.unloading = false
				c.onChange()
			})
		})
	}()
}

// ToggleDisplayMode flips the id/name preference and persists it. No
// network effect.
func (c *TableController) ToggleDisplayMode() {
	p := c.store.Get()
	if p.ShowIDOrName == prefs.ModeID {
		p.ShowIDOrName = prefs.ModeName
	} else {
		p.ShowIDOrName = prefs.ModeID
	}
	if err := c.store.Set(p); err != nil {
		c.log.Error().Err(err).Msg("persist display mode failed")
	}
	c.onChange()
}

// ToggleShowUnlisted flips the unlisted-model filter and persists it.
func (c *TableController) ToggleShowUnlisted() {
	p := c.store.Get()
	p.ShowUnlisted = !p.ShowUnlisted
	if err := c.store.Set(p); err != nil {
		c.log.Error().Err(err).Msg("persist show-unlisted failed")
	}
	c.onChange()
}
