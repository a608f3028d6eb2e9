package panel

import "github.com/charmbracelet/bubbles/key"

// Key bindings as constants for consistency.
const (
	KeyQuit            = "q"
	KeyQuitAlt         = "ctrl+c"
	KeyToggleSparkline = "s"
	KeyCycleMode       = "m"
	KeyToggleHelp      = "?"
)

// keyMap implements help.KeyMap.
type keyMap struct {
	Quit      key.Binding
	Sparkline key.Binding
	Mode      key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyQuitAlt),
			key.WithHelp("q", "quit"),
		),
		Sparkline: key.NewBinding(
			key.WithKeys(KeyToggleSparkline),
			key.WithHelp("s", "toggle sparkline"),
		),
		Mode: key.NewBinding(
			key.WithKeys(KeyCycleMode),
			key.WithHelp("m", "cycle status metrics"),
		),
		Help: key.NewBinding(
			key.WithKeys(KeyToggleHelp),
			key.WithHelp("?", "more"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Sparkline, k.Mode, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Sparkline, k.Mode}, {k.Help}}
}
