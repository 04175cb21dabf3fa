package panel

// MenuController holds the open/closed state of the condensed controls menu
// used in narrow layouts. Unlike the dropdown, the menu has no outside-click
// auto-close: it only closes via its trigger or after one of its actions.
type MenuController struct {
	open     bool
	onChange func()
}

// NewMenuController wires a menu controller.
func NewMenuController(onChange func()) *MenuController {
	return &MenuController{onChange: onChange}
}

// Open reports whether the menu is shown.
func (m *MenuController) Open() bool {
	return m.open
}

// Toggle flips the menu's visibility.
func (m *MenuController) Toggle() {
	m.open = !m.open
	m.onChange()
}

// Do performs a menu action and unconditionally closes the menu afterward.
func (m *MenuController) Do(action func()) {
	action()
	m.open = false
	m.onChange()
}
