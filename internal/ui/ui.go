package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultListView
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	registry  *services.Registry
	sources   []string
	sourceIdx int
	input     textinput.Model
	width     int
	height    int
	tracks    []models.Track
	trackList list.Model
	selected  *models.Track
	link      string
	lyric     *models.LyricDocument
	loading   bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model backed by the given provider registry.
func NewModel(ctx context.Context, registry *services.Registry) *Model {
	input := textinput.New()
	input.Placeholder = "keyword"
	input.Focus()

	return &Model{
		ctx:      ctx,
		view:     SearchView,
		registry: registry,
		sources:  registry.Sources(),
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultListView:
			return m.handleResultKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case searchDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Results for '%s' on %s", m.input.Value(), m.source())
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = ResultListView
		return m, nil

	case linkResolvedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.link = msg.url
		}
		m.view = DetailView
		return m, nil

	case lyricFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.lyric = msg.doc
		}
		m.view = DetailView
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultListView:
		return m.renderResults()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) source() string {
	if len(m.sources) == 0 {
		return ""
	}
	return m.sources[m.sourceIdx]
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if len(m.sources) > 0 {
			m.sourceIdx = (m.sourceIdx + 1) % len(m.sources)
		}
		return m, nil
	case "enter":
		if m.input.Value() != "" && !m.loading {
			m.loading = true
			return m, m.search(m.input.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case "enter":
		if selected := m.trackList.SelectedItem(); selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.selected = &item.track
				m.link = ""
				m.lyric = nil
				m.loading = true
				return m, m.resolveLink(item.track.ID)
			}
		}
		return m, nil
	case "l":
		if selected := m.trackList.SelectedItem(); selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.selected = &item.track
				m.link = ""
				m.lyric = nil
				m.loading = true
				return m, m.fetchLyric(item.track.ID)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.err = nil
		m.view = ResultListView
		return m, nil
	case "l":
		if m.selected != nil && m.lyric == nil && !m.loading {
			m.loading = true
			return m, m.fetchLyric(m.selected.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ResultListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) search(keyword string) tea.Cmd {
	source := m.source()
	return func() tea.Msg {
		svc, err := m.registry.Lookup(source)
		if err != nil {
			return searchDoneMsg{err: err}
		}
		tracks, err := svc.Search(m.ctx, keyword)
		return searchDoneMsg{tracks: tracks, err: err}
	}
}

func (m *Model) resolveLink(id string) tea.Cmd {
	source := m.source()
	return func() tea.Msg {
		svc, err := m.registry.Lookup(source)
		if err != nil {
			return linkResolvedMsg{err: err}
		}
		url, err := svc.ResolveLink(m.ctx, id, "")
		return linkResolvedMsg{url: url, err: err}
	}
}

func (m *Model) fetchLyric(id string) tea.Cmd {
	source := m.source()
	return func() tea.Msg {
		svc, err := m.registry.Lookup(source)
		if err != nil {
			return lyricFetchedMsg{err: err}
		}
		doc, err := svc.Lyric(m.ctx, id)
		return lyricFetchedMsg{doc: doc, err: err}
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Music Search")
	source := fmt.Sprintf("Source: %s", styles.ok.Render(m.source()))

	status := ""
	if m.loading {
		status = "\nSearching..."
	} else if m.err != nil {
		status = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.source, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s", title, source, m.input.View(), status, helpView)
}

func (m *Model) renderResults() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.lyric, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No track selected\n\nPress esc to go back")
	}

	title := styles.title.Render(fmt.Sprintf("%s - %s", m.selected.Artist, m.selected.Name))
	body := fmt.Sprintf("ID: %s\nSource: %s\n", m.selected.ID, m.source())

	if m.loading {
		body += "\nResolving..."
	}
	if m.err != nil {
		body += "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.link != "" {
		body += fmt.Sprintf("\nLink: %s\n", styles.ok.Render(m.link))
	}
	if m.lyric != nil {
		body += fmt.Sprintf("\n%s\n%s\n", styles.warn.Render("Lyrics:"), m.lyric.Lyric)
	}

	helpKeys := []key.Binding{m.keys.lyric, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, body, helpView)
}
