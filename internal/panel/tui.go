package panel

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"modelboard/internal/api"
	"modelboard/internal/prefs"
)

type focusTarget int

const (
	focusModels focusTarget = iota
	focusSide
)

// panelApp is the single mutable state struct for the tview-based dashboard.
type panelApp struct {
	app      *tview.Application
	rootFlex *tview.Flex // vertical: toolbar + [menu] + mainArea + statusBar + hintBar
	mainArea *tview.Flex // horizontal: modelTable [+ vDiv + side panel]

	toolbar   *tview.Flex
	stopBtn   *tview.Button
	unloadBtn *tview.Button
	menuBtn   *tview.Button

	menuPanel  *tview.TextView
	modelTable *tview.Table
	statusBar  *tview.TextView
	hintBar    *tview.TextView

	// Dropdown panel (created on open, nil when closed)
	dropPanel  *tview.Flex
	dropHeader *tview.TextView
	dropTable  *tview.Table

	// Inspector panel (created on demand)
	inspPanel  *tview.Flex
	inspHeader *tview.TextView
	inspView   *tview.TextView
	inspID     string // "" = no inspector open

	focus          focusTarget
	outsideHandler func() // set while the dropdown is open, nil otherwise

	// Snapshots supplied by the poller
	models      []api.Model
	metrics     []api.MetricEntry
	visible     []api.Model // models currently shown, row order
	fetchErrors int         // failed snapshot fetches since startup

	table  *TableController
	drop   *DropdownController
	menu   *MenuController
	poller *Poller

	log zerolog.Logger
}

// Run starts the dashboard over the given client and blocks until the user
// quits.
func Run(client *api.Client, store *prefs.Store, log zerolog.Logger, pollInterval time.Duration) error {
	p := newPanelApp(client, store, log, pollInterval)
	p.log.Info().Str("daemon", client.BaseURL()).Msg("panel started")
	p.poller.Start()
	defer p.poller.Stop()
	return p.app.SetRoot(p.rootFlex, true).EnableMouse(true).Run()
}

func newPanelApp(client *api.Client, store *prefs.Store, log zerolog.Logger, pollInterval time.Duration) *panelApp {
	p := &panelApp{
		focus: focusModels,
		log:   log,
	}

	p.app = tview.NewApplication()

	update := func(fn func()) { p.app.QueueUpdateDraw(fn) }
	p.table = NewTableController(client, store, log, update, p.render)
	p.drop = NewDropdownController(client, p, log, update, p.render)
	p.menu = NewMenuController(p.render)
	p.poller = NewPoller(client, pollInterval, log, update,
		func(models []api.Model) {
			p.models = models
			p.render()
		},
		func(metrics []api.MetricEntry) {
			p.metrics = metrics
			p.render()
		},
		func(error) {
			p.fetchErrors++
			p.render()
		},
	)

	// Toolbar controls
	p.stopBtn = tview.NewButton(p.drop.Label()).SetSelectedFunc(func() {
		if p.drop.TriggerEnabled() {
			p.drop.Toggle()
		}
	})
	p.unloadBtn = tview.NewButton("Unload All").SetSelectedFunc(func() {
		if !p.table.Unloading() {
			p.table.UnloadAll()
		}
	})
	p.menuBtn = tview.NewButton("Menu").SetSelectedFunc(func() {
		p.menu.Toggle()
	})

	p.toolbar = tview.NewFlex().SetDirection(tview.FlexColumn)
	p.toolbar.AddItem(p.stopBtn, 24, 0, false)
	p.toolbar.AddItem(tview.NewBox(), 1, 0, false)
	p.toolbar.AddItem(p.unloadBtn, 14, 0, false)
	p.toolbar.AddItem(tview.NewBox(), 1, 0, false)
	p.toolbar.AddItem(p.menuBtn, 8, 0, false)
	p.toolbar.AddItem(tview.NewBox(), 0, 1, false)

	// Menu panel (hidden until toggled)
	p.menuPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	p.menuPanel.SetBorder(false)
	p.menuPanel.SetText("[yellow::b] Menu[-:-:-]  [gray::-](d) id/name  (h) unlisted  (U) unload all  (m) close[-:-:-]")

	// Model table
	p.modelTable = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	p.modelTable.SetBorder(false)

	// Status + hint bars
	p.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	p.statusBar.SetBorder(false)

	p.hintBar = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	p.hintBar.SetBorder(false)
	p.hintBar.SetText("[gray::-] l load | u unload | U unload all | s requests | a abort | i inspect | d id/name | h unlisted | m menu | r refresh | q quit[-:-:-]")

	p.mainArea = tview.NewFlex().SetDirection(tview.FlexColumn)
	p.rootFlex = tview.NewFlex().SetDirection(tview.FlexRow)

	p.setupInputCapture()
	p.setupMouseCapture()
	p.render()

	return p
}

// Install binds the dropdown's outside-click handler to the app-level mouse
// capture. At most one handler is active; installing replaces any previous
// one and the returned release clears it.
func (p *panelApp) Install(onOutside func()) func() {
	p.outsideHandler = onOutside
	return func() {
		p.outsideHandler = nil
	}
}

// newHDivider creates a 1-row box that draws a horizontal line.
func newHDivider() *tview.Box {
	box := tview.NewBox()
	box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		style := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		for cx := x; cx < x+width; cx++ {
			screen.SetContent(cx, y, tcell.RuneHLine, nil, style)
		}
		return x, y, width, height
	})
	return box
}

// newVDivider creates a 1-col box that draws a vertical line.
func newVDivider(focused bool) *tview.Box {
	box := tview.NewBox()
	box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		color := tcell.ColorDarkGray
		if focused {
			color = tcell.ColorBlue
		}
		style := tcell.StyleDefault.Foreground(color)
		for cy := y; cy < y+height; cy++ {
			screen.SetContent(x, cy, tcell.RuneVLine, nil, style)
		}
		return x, y, width, height
	})
	return box
}

// ── Input Capture ──────────────────────────────────────────────────────

func (p *panelApp) setupInputCapture() {
	p.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyCtrlD:
			p.app.Stop()
			return nil

		case tcell.KeyEscape:
			if p.inspID != "" {
				p.closeInspector()
				return nil
			}

		case tcell.KeyTab:
			if p.sidePanel() != nil {
				if p.focus == focusModels {
					p.focus = focusSide
				} else {
					p.focus = focusModels
				}
				p.render()
				return nil
			}

		case tcell.KeyEnter:
			if p.focus == focusSide && p.drop.Phase() == PhaseOpen {
				p.abortSelected()
				return nil
			}
		}

		if event.Key() != tcell.KeyRune {
			return event
		}

		switch event.Rune() {
		case 'q':
			p.app.Stop()
			return nil
		case 'r':
			p.poller.Refresh()
			return nil
		case 's':
			if p.drop.TriggerEnabled() {
				p.drop.Toggle()
			}
			return nil
		case 'm':
			p.menu.Toggle()
			return nil
		case 'a':
			if p.drop.Phase() == PhaseOpen {
				p.abortSelected()
			}
			return nil
		case 'i':
			if m, ok := p.selectedModel(); ok {
				p.openInspector(m)
			}
			return nil
		case 'd':
			if p.menu.Open() {
				p.menu.Do(p.table.ToggleDisplayMode)
			} else {
				p.table.ToggleDisplayMode()
			}
			return nil
		case 'h':
			if p.menu.Open() {
				p.menu.Do(p.table.ToggleShowUnlisted)
			} else {
				p.table.ToggleShowUnlisted()
			}
			return nil
		case 'U':
			// UnloadAll refuses re-entry during its cooldown; the menu
			// still closes after the action either way.
			if p.menu.Open() {
				p.menu.Do(p.table.UnloadAll)
			} else {
				p.table.UnloadAll()
			}
			return nil
		case 'l':
			if m, ok := p.selectedModel(); ok && p.table.CanLoad(m) {
				p.table.Load(m.ID)
			}
			return nil
		case 'u':
			if m, ok := p.selectedModel(); ok && p.table.CanUnload(m) {
				p.table.UnloadSingle(m.ID)
			}
			return nil
		}

		return event
	})
}

func (p *panelApp) selectedModel() (api.Model, bool) {
	row, _ := p.modelTable.GetSelection()
	idx := row - 1 // header row
	if idx < 0 || idx >= len(p.visible) {
		return api.Model{}, false
	}
	return p.visible[idx], true
}

func (p *panelApp) abortSelected() {
	if p.dropTable == nil {
		return
	}
	row, _ := p.dropTable.GetSelection()
	idx := row - 1
	reqs := p.drop.Requests()
	if idx < 0 || idx >= len(reqs) {
		return
	}
	p.drop.Abort(reqs[idx].ID)
}

// ── Mouse Capture ──────────────────────────────────────────────────────

func (p *panelApp) setupMouseCapture() {
	p.app.SetMouseCapture(func(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
		if action != tview.MouseLeftDown {
			return event, action
		}
		// Outside-click detection only runs while the dropdown is open. A
		// click on the trigger or inside the dropdown is not "outside".
		if p.outsideHandler == nil || p.dropPanel == nil {
			return event, action
		}
		mx, my := event.Position()
		if inRect(p.dropPanel, mx, my) || inRect(p.stopBtn, mx, my) {
			return event, action
		}
		p.outsideHandler()
		return nil, 0
	})
}

func inRect(pr tview.Primitive, x, y int) bool {
	px, py, w, h := pr.GetRect()
	return x >= px && x < px+w && y >= py && y < py+h
}

// ── Rendering ──────────────────────────────────────────────────────────

// render redraws every widget from controller state. Controllers call it
// after each state change; the poller calls it with fresh snapshots.
func (p *panelApp) render() {
	p.renderToolbar()
	p.renderModelTable()
	p.renderSidePanel()
	p.renderStatusBar()
	p.rebuildLayout()
}

func (p *panelApp) renderToolbar() {
	p.stopBtn.SetLabel(p.drop.Label())
	p.stopBtn.SetDisabled(!p.drop.TriggerEnabled())

	if p.table.Unloading() {
		p.unloadBtn.SetLabel("Unloading...")
		p.unloadBtn.SetDisabled(true)
	} else {
		p.unloadBtn.SetLabel("Unload All")
		p.unloadBtn.SetDisabled(false)
	}
}

func (p *panelApp) renderModelTable() {
	p.visible = p.table.FilteredModels(p.models)

	p.modelTable.Clear()
	headers := []string{"MODEL", "STATE", "DESCRIPTION"}
	for col, h := range headers {
		p.modelTable.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	for i, m := range p.visible {
		name := p.table.DisplayName(m)
		if m.Unlisted {
			name += " (unlisted)"
		}
		p.modelTable.SetCell(i+1, 0, tview.NewTableCell(name).SetExpansion(1))
		p.modelTable.SetCell(i+1, 1, tview.NewTableCell(m.State).
			SetTextColor(stateColor(m.State)))
		p.modelTable.SetCell(i+1, 2, tview.NewTableCell(m.Description).
			SetTextColor(tcell.ColorGray).SetExpansion(2))
	}
}

func stateColor(state string) tcell.Color {
	switch state {
	case api.StateReady:
		return tcell.ColorGreen
	case api.StateLoading:
		return tcell.ColorYellow
	case api.StateStopped:
		return tcell.ColorGray
	default:
		return tcell.ColorDefault
	}
}

func (p *panelApp) renderSidePanel() {
	if p.drop.Phase() == PhaseOpen {
		p.renderDropdown()
		return
	}
	p.dropPanel = nil
	p.dropTable = nil
	if p.inspID != "" {
		// Inspector content is built once on open; nothing to refresh here.
		return
	}
	if p.focus == focusSide {
		p.focus = focusModels
	}
}

func (p *panelApp) renderDropdown() {
	if p.dropPanel == nil {
		p.dropHeader = tview.NewTextView().
			SetDynamicColors(true).
			SetScrollable(false)
		p.dropHeader.SetBorder(false)

		p.dropTable = tview.NewTable().
			SetSelectable(true, false).
			SetFixed(1, 0)
		p.dropTable.SetBorder(false)

		p.dropPanel = tview.NewFlex().SetDirection(tview.FlexRow)
		p.dropPanel.AddItem(p.dropHeader, 1, 0, false)
		p.dropPanel.AddItem(p.dropTable, 0, 1, false)

		p.focus = focusSide
	}

	reqs := p.drop.Requests()
	p.dropHeader.SetText(fmt.Sprintf("[yellow::b]Active requests (%d)[-:-:-] [gray::-]Enter/a abort | s close[-:-:-]", len(reqs)))

	p.dropTable.Clear()
	headers := []string{"REQUEST", "MODEL", "ELAPSED", ""}
	for col, h := range headers {
		p.dropTable.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	now := time.Now()
	for i, r := range reqs {
		p.dropTable.SetCell(i+1, 0, tview.NewTableCell(r.ID).SetExpansion(1))
		p.dropTable.SetCell(i+1, 1, tview.NewTableCell(r.Model))
		p.dropTable.SetCell(i+1, 2, tview.NewTableCell(FormatElapsed(r.StartTime, now)))
		marker := ""
		if p.drop.Aborting(r.ID) {
			marker = "aborting..."
		}
		p.dropTable.SetCell(i+1, 3, tview.NewTableCell(marker).
			SetTextColor(tcell.ColorGray))
	}
	if len(reqs) == 0 {
		p.dropTable.SetCell(1, 0, tview.NewTableCell("no active requests").
			SetTextColor(tcell.ColorGray).SetSelectable(false))
	}
}

func (p *panelApp) renderStatusBar() {
	p.statusBar.SetText(statusLine(Aggregate(p.metrics), p.fetchErrors))
}

// statusLine renders the bottom status text: the stats aggregate plus the
// fetch-failure count when any snapshot refresh has failed.
func statusLine(stats Stats, fetchErrors int) string {
	line := fmt.Sprintf(
		" [gray::-]requests %d | input %d tok | output %d tok | avg %s tok/s[-:-:-]",
		stats.TotalRequests,
		stats.TotalInputTokens,
		stats.TotalOutputTokens,
		stats.AvgFormatted())
	if fetchErrors > 0 {
		line += fmt.Sprintf(" [red::-]| fetch errors %d[-:-:-]", fetchErrors)
	}
	return line
}

// sidePanel returns the panel occupying the right-hand slot, if any. The
// dropdown takes precedence over the inspector.
func (p *panelApp) sidePanel() *tview.Flex {
	if p.dropPanel != nil {
		return p.dropPanel
	}
	if p.inspID != "" {
		return p.inspPanel
	}
	return nil
}

func (p *panelApp) rebuildLayout() {
	p.mainArea.Clear()
	p.mainArea.AddItem(p.modelTable, 0, 1, false)
	if side := p.sidePanel(); side != nil {
		p.mainArea.AddItem(newVDivider(p.focus == focusSide), 1, 0, false)
		p.mainArea.AddItem(side, 0, 1, false)
	}

	p.rootFlex.Clear()
	p.rootFlex.AddItem(p.toolbar, 1, 0, false)
	p.rootFlex.AddItem(newHDivider(), 1, 0, false)
	if p.menu.Open() {
		p.rootFlex.AddItem(p.menuPanel, 1, 0, false)
		p.rootFlex.AddItem(newHDivider(), 1, 0, false)
	}
	p.rootFlex.AddItem(p.mainArea, 0, 1, true)
	p.rootFlex.AddItem(newHDivider(), 1, 0, false)
	p.rootFlex.AddItem(p.statusBar, 1, 0, false)
	p.rootFlex.AddItem(p.hintBar, 1, 0, false)

	if p.focus == focusSide {
		if p.dropTable != nil {
			p.app.SetFocus(p.dropTable)
		} else if p.inspView != nil {
			p.app.SetFocus(p.inspView)
		}
	} else {
		p.app.SetFocus(p.modelTable)
	}
}
