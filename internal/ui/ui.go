package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/localnext/internal/songkick"
	"github.com/desertthunder/localnext/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScanView ViewState = iota
	TrackListView
	ConfirmView
	PublishView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.BuildEngine
	queries      []songkick.AreaQuery
	playlistName string
	description  string
	width        int
	height       int
	trackList    list.Model
	collected    *tasks.CollectResult
	published    *tasks.PublishResult
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	done         chan collectCompleteMsg
	publishDone  chan publishCompleteMsg
	err          error
	help         help.Model
	keys         keyMap
}

type collectCompleteMsg struct {
	result *tasks.CollectResult
	err    error
}

type publishCompleteMsg struct {
	result *tasks.PublishResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.BuildEngine, queries []songkick.AreaQuery, playlistName, description string) *Model {
	return &Model{
		ctx:          ctx,
		view:         ScanView,
		engine:       engine,
		queries:      queries,
		playlistName: playlistName,
		description:  description,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts the collection pipeline in the background.
func (m *Model) Init() tea.Cmd {
	return m.startCollect()
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
		case ScanView, PublishView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case collectCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.collected = msg.result
		items := make([]list.Item, 0, len(msg.result.Tracks)+len(msg.result.Unresolved)+len(msg.result.Skipped))
		for _, track := range msg.result.Tracks {
			items = append(items, trackItem{track: track})
		}
		for _, name := range msg.result.Unresolved {
			items = append(items, nameItem{name: name, reason: "no exact match"})
		}
		for _, name := range msg.result.Skipped {
			items = append(items, nameItem{name: name, reason: "excluded"})
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Collected Tracks (%d)", len(msg.result.Tracks))
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case publishCompleteMsg:
		m.published = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ScanView:
		return m.renderScan()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case PublishView:
		return m.renderPublish()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = PublishView
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ScanView
		m.collected = nil
		m.published = nil
		m.err = nil
		return m, m.startCollect()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == TrackListView {
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startCollect() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan collectCompleteMsg, 1)

	go func() {
		result, err := m.engine.Collect(m.ctx, m.progressChan, m.queries)
		done <- collectCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	m.done = done
	return m.waitForProgress()
}

func (m *Model) startPublish() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	publishDone := make(chan publishCompleteMsg, 1)
	go func() {
		result, err := m.engine.Publish(m.ctx, m.progressChan, m.playlistName, m.description, false, m.collected.Tracks)
		publishDone <- publishCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	m.publishDone = publishDone
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			if m.publishDone != nil {
				msg := <-m.publishDone
				m.publishDone = nil
				return msg
			}
			if m.done != nil {
				msg := <-m.done
				m.done = nil
				return msg
			}
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderScan() string {
	title := styles.title.Render("Scanning Concert Listings")

	var phase string
	switch m.progress.Phase {
	case tasks.ScanPages:
		phase = fmt.Sprintf("Scanning areas (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ResolveArtists:
		phase = fmt.Sprintf("Resolving artists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchTopTracks:
		phase = fmt.Sprintf("Fetching top tracks (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderTrackList() string {
	publishKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "publish"))
	helpKeys := []key.Binding{publishKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create playlist %q?", m.playlistName))
	info := fmt.Sprintf("\nTracks: %d\nVisibility: private\n", len(m.collected.Tracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Publishing Playlist")
	return fmt.Sprintf("%s\n\n%s", title, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Build failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.published == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Playlist Published!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nTracks: %d\nBatches: %d",
		m.published.Playlist.Name,
		len(m.collected.Tracks),
		len(m.published.Batches),
	)

	var unresolved string
	if len(m.collected.Unresolved) > 0 {
		unresolved = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("No match for %d names:", len(m.collected.Unresolved))))
		for _, name := range m.collected.Unresolved {
			unresolved += fmt.Sprintf("\n  • %s", name)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, unresolved, helpView)
}
