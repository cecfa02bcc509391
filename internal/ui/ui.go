package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/playdeck/internal/formatter"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/shared"
)

const (
	// barIndent is the label column width in front of the seek and volume bars.
	barIndent = 6
	// footerHeight is the number of rows below the catalog: now playing, seek, volume, status/help.
	footerHeight = 4
	seekStep     = 5 * time.Second
	volumeStep   = 0.05
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PlayerView
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	player      *player.Coordinator
	events      <-chan player.Event
	unsubscribe func()
	opener      func(string) error
	tracks      []models.Track
	state       models.Snapshot
	width       int
	height      int
	trackList   list.Model
	seekBar     progress.Model
	volumeBar   progress.Model
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a TUI model driving c. The model subscribes to c's events; the subscription ends
// when the coordinator is closed.
func NewModel(ctx context.Context, c *player.Coordinator) *Model {
	events, unsubscribe := c.Subscribe(128)

	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = "Catalog"
	trackList.SetShowHelp(false)
	trackList.KeyMap.Quit.SetEnabled(false)
	trackList.KeyMap.ShowFullHelp.SetEnabled(false)

	return &Model{
		ctx:         ctx,
		view:        LoadingView,
		player:      c,
		events:      events,
		unsubscribe: unsubscribe,
		opener:      shared.OpenBrowser,
		state:       c.State(),
		trackList:   trackList,
		seekBar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		volumeBar:   progress.New(progress.WithSolidFill("#04B575"), progress.WithoutPercentage()),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init loads the catalog in the background and starts listening for player events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCatalogLoaded:
		m.tracks = msg.data.([]models.Track)
		m.trackList.SetItems(trackItems(m.tracks))
		m.state = m.player.State()
		m.view = PlayerView
		return m, nil

	case MsgPlayerEvent:
		m.applyEvent(msg.data.(player.Event))
		return m, m.waitForEvent()

	case MsgEventsClosed:
		return m, tea.Quit

	case MsgStatus:
		data := msg.data.(struct {
			text string
			err  error
		})
		m.status, m.err = data.text, data.err
		return m, nil
	}
	return m, nil
}

func (m *Model) applyEvent(ev player.Event) {
	switch ev := ev.(type) {
	case player.StateChanged:
		m.state = ev.State
	case player.TrackStarted:
		m.status = fmt.Sprintf("Now playing %s", formatter.TrackLine(ev.Track))
		m.err = nil
	case player.LikeChanged:
		for i := range m.tracks {
			if m.tracks[i].ID == ev.TrackID {
				m.tracks[i].IsLiked = ev.Liked
				m.trackList.SetItem(i, trackItem{track: m.tracks[i]})
			}
		}
	case player.ListenReported:
		m.status = fmt.Sprintf("Listened %s", shared.FormatDuration(ev.Elapsed))
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == LoadingView {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.play):
		if track, ok := m.selected(); ok {
			m.player.PlayWithID(track.ID, m.tracks)
		}
	case key.Matches(msg, m.keys.album):
		if track, ok := m.selected(); ok {
			if track.AlbumID == "" {
				m.status = "Track has no album"
				return m, nil
			}
			m.player.PlayAlbum(track.AlbumID, track.ID)
		}
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
	case key.Matches(msg, m.keys.next):
		m.player.Next()
	case key.Matches(msg, m.keys.previous):
		m.player.Previous()
	case key.Matches(msg, m.keys.forward):
		m.seekBy(seekStep)
	case key.Matches(msg, m.keys.backward):
		m.seekBy(-seekStep)
	case key.Matches(msg, m.keys.louder):
		m.player.ChangeVolume(m.state.Volume + volumeStep)
	case key.Matches(msg, m.keys.quieter):
		m.player.ChangeVolume(m.state.Volume - volumeStep)
	case key.Matches(msg, m.keys.mute):
		m.player.ToggleMute()
	case key.Matches(msg, m.keys.shuffle):
		m.player.ToggleShuffle()
	case key.Matches(msg, m.keys.repeat):
		m.player.ToggleRepeat()
	case key.Matches(msg, m.keys.like):
		if !m.player.Authenticated() {
			m.status = "Sign in to like tracks"
			return m, nil
		}
		m.player.ToggleLike()
	case key.Matches(msg, m.keys.cover):
		return m, m.openCover()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	m.state = m.player.State()
	return m, nil
}

// handleMouse maps left clicks on the seek and volume rows to a position along the bar.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != PlayerView || msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	seekRow, volumeRow := m.barRows()
	fraction := player.PointerFraction(msg.X, barIndent, m.barWidth())
	switch msg.Y {
	case seekRow:
		m.player.Seek(fraction)
	case volumeRow:
		m.player.ChangeVolume(fraction)
	default:
		return m, nil
	}

	m.state = m.player.State()
	return m, nil
}

func (m *Model) seekBy(d time.Duration) {
	p := m.state.Progress
	if !p.DurationKnown || p.Duration <= 0 {
		return
	}
	m.player.Seek(float64(p.Current+d) / float64(p.Duration))
}

func (m *Model) selected() (models.Track, bool) {
	item, ok := m.trackList.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.trackList.SetSize(width, max(height-footerHeight, 1))
	m.seekBar.Width = m.barWidth()
	m.volumeBar.Width = m.barWidth()
	m.help.Width = width
}

// barWidth is the rendered width of both bars.
func (m *Model) barWidth() int {
	return max(m.width-barIndent-16, 10)
}

// barRows returns the screen rows of the seek and volume bars.
func (m *Model) barRows() (seek, volume int) {
	top := max(m.height-footerHeight, 1)
	return top + 1, top + 2
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		m.player.Init(m.ctx)
		return catalogLoadedMsg(m.player.Tracks())
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return eventsClosedMsg()
		}
		return playerEventMsg(ev)
	}
}

func (m *Model) openCover() tea.Cmd {
	current := m.state.Current
	if current == nil || current.Image == "" {
		m.status = "No cover art"
		return nil
	}
	image, open := current.Image, m.opener
	return func() tea.Msg {
		if err := open(image); err != nil {
			return statusMsg("", err)
		}
		return statusMsg("Opened cover art", nil)
	}
}

// Close unsubscribes from player events.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.view == LoadingView {
		return styles.title.Render("Loading catalog…")
	}

	listHeight := max(m.height-footerHeight, 1)
	body := lipgloss.NewStyle().Height(listHeight).MaxHeight(listHeight).Render(m.trackList.View())

	lines := []string{m.renderNowPlaying(), m.renderSeek(), m.renderVolume(), m.renderStatus()}
	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(lines[:3], "\n"), m.help.View(m.keys))
	}
	return body + "\n" + strings.Join(lines, "\n")
}

func (m *Model) renderNowPlaying() string {
	s := m.state
	if s.Current == nil {
		return styles.help.Render("Nothing playing")
	}

	icon := "⏸"
	if s.IsPlaying {
		icon = "▶"
	}
	line := fmt.Sprintf("%s %s", icon, styles.title.Render(s.Current.Name)) + " " + s.Current.Artist
	if s.Current.IsLiked {
		line += " " + styles.liked.Render("♥")
	}

	var modes []string
	if s.Shuffle {
		modes = append(modes, styles.active.Render("shuffle"))
	}
	if s.Repeat != models.RepeatNone {
		modes = append(modes, styles.active.Render("repeat:"+s.Repeat.String()))
	}
	if s.QueueLen > 0 && s.Index >= 0 {
		modes = append(modes, fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen))
	}
	if len(modes) > 0 {
		line += "  " + strings.Join(modes, " ")
	}
	return line
}

func (m *Model) renderSeek() string {
	p := m.state.Progress
	total := "--:--"
	if p.DurationKnown {
		total = shared.FormatDuration(p.Duration)
	}
	times := fmt.Sprintf(" %s / %s", shared.FormatDuration(p.Current), total)
	return styles.label.Render("seek") + m.seekBar.ViewAs(p.Fraction()) + times
}

func (m *Model) renderVolume() string {
	level := fmt.Sprintf(" %3.0f%%", m.state.Volume*100)
	if m.state.Muted {
		level = styles.warn.Render(" muted")
	}
	return styles.label.Render("vol") + m.volumeBar.ViewAs(m.state.EffectiveVolume()) + level
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.status != "" {
		return styles.help.Render(m.status) + "  " + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
