package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	play     key.Binding
	toggle   key.Binding
	album    key.Binding
	next     key.Binding
	previous key.Binding
	forward  key.Binding
	backward key.Binding
	louder   key.Binding
	quieter  key.Binding
	mute     key.Binding
	shuffle  key.Binding
	repeat   key.Binding
	like     key.Binding
	cover    key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		album:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "play album")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+5s")),
		backward: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-5s")),
		louder:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		quieter:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		mute:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		like:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "like")),
		cover:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cover")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.toggle, k.next, k.previous, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.play, k.toggle, k.album, k.next, k.previous},
		{k.forward, k.backward, k.louder, k.quieter, k.mute},
		{k.shuffle, k.repeat, k.like, k.cover},
		{k.help, k.quit},
	}
}
