package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogLoaded MsgKind = iota
	MsgPlayerEvent
	MsgEventsClosed
	MsgStatus
)

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(tracks []models.Track) Msg {
	return Msg{kind: MsgCatalogLoaded, data: tracks}
}

// playerEventMsg is the constructor for [MsgPlayerEvent]
func playerEventMsg(ev player.Event) Msg {
	return Msg{kind: MsgPlayerEvent, data: ev}
}

// eventsClosedMsg is the constructor for [MsgEventsClosed]
func eventsClosedMsg() Msg {
	return Msg{kind: MsgEventsClosed}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, err error) Msg {
	return Msg{
		kind: MsgStatus,
		data: struct {
			text string
			err  error
		}{text, err},
	}
}
