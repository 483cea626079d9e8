package soundboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the soundboard bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Play       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	ResetVol   key.Binding
	Quit       key.Binding
}

// Keys is the default keymap.
var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Play: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "play"),
	),
	VolumeUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "louder"),
	),
	VolumeDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "quieter"),
	),
	ResetVol: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "preset volume"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.VolumeUp, k.VolumeDown, k.ResetVol, k.Quit}
}
