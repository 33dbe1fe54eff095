// Package tui provides the Bubble Tea terminal menu of the tidal-ripper.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/job"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	queueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// Exit messages.
const (
	MsgExitPending = "Queue is not empty, ripper will shut down immediately after the download process"
	MsgFarewell    = "Thanks for using tidal ripper. See you around!"
)

const maxLogs = 10

// Catalog is the part of the catalog service the menu uses.
type Catalog interface {
	Search(ctx context.Context, field, query string, limit int) ([]*model.Track, error)
	GetTrack(ctx context.Context, id string) (*model.Track, error)
	GetAlbum(ctx context.Context, id string) (*model.Album, error)
	GetPlaylist(ctx context.Context, id string) (*model.Playlist, error)
}

// Worker is the part of *job.Worker the menu uses.
type Worker interface {
	Submit(j job.Job)
	Pending() []job.Job
	Current() job.Job
	Busy() bool
	Drain(ctx context.Context) error
}

// Events is a source of progress lines. *queue.Queue[download.ProgressEvent]
// implements it.
type Events interface {
	Dequeue(ctx context.Context) (download.ProgressEvent, error)
}

// App wires the menu to the rest of the ripper.
type App struct {
	Catalog Catalog
	Factory *job.Factory
	Worker  Worker

	// Events carries the progress lines reported by the worker. Reporting
	// must never block: Submit reports from inside Update.
	Events Events

	SearchLimit int
	Verbose     bool
}

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StatePrompt
	StateLoading
	StateExiting
)

// Mode is a menu entry.
type Mode int

const (
	ModeSearch Mode = iota
	ModeTrack
	ModeAlbum
	ModePlaylist
	ModeQueue
	ModeExit
)

var menu = []string{
	"Search for track",
	"Download track",
	"Download album",
	"Download playlist",
	"Display queue",
	"Exit",
}

func (m Mode) prompt() string {
	switch m {
	case ModeSearch:
		return "Enter search query: "
	case ModeTrack:
		return "Enter link or track id: "
	case ModeAlbum:
		return "Enter link or album id: "
	case ModePlaylist:
		return "Enter link or playlist id: "
	}
	return ""
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	app   App
	ctx   context.Context
	state State
	mode  Mode

	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	// output holds the result of the last menu action.
	output []LogEntry
	logs   []LogEntry

	step, steps int
	farewell    string
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, app App) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	if app.SearchLimit <= 0 {
		app.SearchLimit = 25
	}

	return Model{
		app:       app,
		ctx:       ctx,
		state:     StateMenu,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.ctx, m.app.Events))
}

// Message types
type (
	// ProgressMsg carries a line reported by a running job.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// SearchDoneMsg is sent when a search completes.
	SearchDoneMsg struct {
		Tracks []*model.Track
		Err    error
	}

	// LookupDoneMsg is sent when the item behind a link has been fetched
	// and turned into a job.
	LookupDoneMsg struct {
		Job job.Job
		Err error
	}

	// DrainedMsg is sent when the queue has emptied after exit was chosen.
	DrainedMsg struct {
		Err error
	}
)

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Farewell returns the line to print once the program has exited.
func (m Model) Farewell() string {
	return m.farewell
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.farewell = MsgFarewell
			return m, tea.Quit
		}
		switch m.state {
		case StateMenu:
			return m.selectMode(msg.String())
		case StatePrompt:
			switch msg.String() {
			case "esc":
				m.state = StateMenu
				m.textInput.Blur()
				return m, nil
			case "enter":
				value := strings.TrimSpace(m.textInput.Value())
				if value == "" {
					return m, nil
				}
				m.state = StateLoading
				m.textInput.Blur()
				return m, tea.Batch(m.lookup(m.mode, value), m.spinner.Tick)
			}
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m = m.appendLog(msg.Event)
		cmds = append(cmds, waitForEvent(m.ctx, m.app.Events))

	case SearchDoneMsg:
		m.state = StateMenu
		m.output = searchOutput(msg)

	case LookupDoneMsg:
		m.state = StateMenu
		m.output = nil
		if msg.Err != nil {
			m.output = []LogEntry{{Message: download.Diagnostic(msg.Err), Level: download.LevelError}}
			break
		}
		m.app.Worker.Submit(msg.Job)

	case DrainedMsg:
		m.farewell = MsgFarewell
		return m, tea.Quit
	}

	return m, tea.Batch(cmds...)
}

func (m Model) selectMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "0", "1", "2", "3":
		m.mode = Mode(key[0] - '0')
		m.state = StatePrompt
		m.output = nil
		m.textInput.Reset()
		m.textInput.Prompt = m.mode.prompt()
		return m, m.textInput.Focus()

	case "4":
		m.mode = ModeQueue
		m.output = m.queueOutput()
		return m, nil

	case "5", "q", "esc":
		m.mode = ModeExit
		if m.app.Worker.Busy() {
			m.state = StateExiting
			m.output = []LogEntry{{Message: MsgExitPending, Level: download.LevelWarning}}
			return m, tea.Batch(m.drain(), m.spinner.Tick)
		}
		m.farewell = MsgFarewell
		return m, tea.Quit
	}

	if len(key) == 1 {
		m.output = []LogEntry{{Message: "Incorrect mode!", Level: download.LevelError}}
	}
	return m, nil
}

func (m Model) appendLog(e download.ProgressEvent) Model {
	if e.Steps > 0 {
		m.step, m.steps = e.Step, e.Steps
	}
	if e.Level == download.LevelSuccess || e.Level == download.LevelError {
		m.step, m.steps = 0, 0
	}
	if e.Level == download.LevelVerbose && !m.app.Verbose {
		return m
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
	return m
}

func (m Model) queueOutput() []LogEntry {
	pending := m.app.Worker.Pending()
	current := m.app.Worker.Current()
	if len(pending) == 0 && current == nil {
		return []LogEntry{{Message: "Queue is empty", Level: download.LevelInfo}}
	}

	var out []LogEntry
	if current != nil {
		out = append(out, LogEntry{Message: "Now: " + current.Describe(), Level: download.LevelSuccess})
	}
	out = append(out, LogEntry{Message: fmt.Sprintf("%d element(s) in queue", len(pending)), Level: download.LevelInfo})
	for _, j := range pending {
		out = append(out, LogEntry{Message: j.Describe(), Level: download.LevelVerbose})
	}
	return out
}

func searchOutput(msg SearchDoneMsg) []LogEntry {
	if msg.Err != nil {
		return []LogEntry{{Message: download.Diagnostic(msg.Err), Level: download.LevelError}}
	}
	if len(msg.Tracks) == 0 {
		return []LogEntry{{Message: "No tracks found", Level: download.LevelWarning}}
	}
	out := make([]LogEntry, len(msg.Tracks))
	for i, t := range msg.Tracks {
		out[i] = LogEntry{
			Message: fmt.Sprintf("%s: %s - %s", t.ID, t.ArtistName(), t.FullTitle()),
			Level:   download.LevelInfo,
		}
	}
	return out
}

// lookup runs a menu action against the catalog.
func (m Model) lookup(mode Mode, input string) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		if mode == ModeSearch {
			tracks, err := app.Catalog.Search(ctx, "track", input, app.SearchLimit)
			return SearchDoneMsg{Tracks: tracks, Err: err}
		}

		j, err := resolve(ctx, app, mode, input)
		return LookupDoneMsg{Job: j, Err: err}
	}
}

func resolve(ctx context.Context, app App, mode Mode, input string) (job.Job, error) {
	kind, id := tidal.ParseLink(input)
	want := map[Mode]tidal.Kind{ModeTrack: tidal.KindTrack, ModeAlbum: tidal.KindAlbum, ModePlaylist: tidal.KindPlaylist}[mode]
	if kind != tidal.KindUnknown && kind != want {
		return nil, fmt.Errorf("%s is a %s link, expected a %s", input, kind, want)
	}
	if id == "" {
		return nil, errors.New("missing id")
	}

	switch mode {
	case ModeTrack:
		t, err := app.Catalog.GetTrack(ctx, id)
		if err != nil {
			return nil, err
		}
		return app.Factory.Track(t), nil
	case ModeAlbum:
		a, err := app.Catalog.GetAlbum(ctx, id)
		if err != nil {
			return nil, err
		}
		return app.Factory.Album(a), nil
	case ModePlaylist:
		p, err := app.Catalog.GetPlaylist(ctx, id)
		if err != nil {
			return nil, err
		}
		return app.Factory.Playlist(p), nil
	}
	return nil, fmt.Errorf("mode %d has no lookup", mode)
}

func (m Model) drain() tea.Cmd {
	ctx, w := m.ctx, m.app.Worker
	return func() tea.Msg {
		return DrainedMsg{Err: w.Drain(ctx)}
	}
}

func waitForEvent(ctx context.Context, events Events) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, err := events.Dequeue(ctx)
		if err != nil {
			return nil
		}
		return ProgressMsg{Event: e}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Tidal FLAC ripper"))
	b.WriteString("\n")
	if m.app.Factory != nil {
		b.WriteString(dimStyle.Render("Downloading to " + m.app.Factory.Root()))
		b.WriteString("\n\n")
	}

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StatePrompt:
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Looking up..."))
		b.WriteString("\n")
	case StateExiting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(warningStyle.Render(MsgExitPending))
		b.WriteString("\n")
	}

	if len(m.output) > 0 && m.state != StateExiting {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(strings.TrimSuffix(renderEntries(m.output), "\n")))
		b.WriteString("\n")
	}

	if current := m.app.Worker.Current(); current != nil {
		b.WriteString("\n")
		b.WriteString(queueStyle.Render("♪ " + current.Describe()))
		b.WriteString("\n")
		if m.steps > 0 {
			b.WriteString(m.progress.ViewAs(float64(m.step) / float64(m.steps)))
			b.WriteString("\n")
		}
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(renderEntries(m.logs))
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	for i, item := range menu {
		b.WriteString(fmt.Sprintf("%d) %s\n", i, item))
	}
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Select mode:"))
	b.WriteString("\n")
	return b.String()
}

func renderEntries(entries []LogEntry) string {
	var b strings.Builder

	for _, log := range entries {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateMenu:
		return "0-5: select • q: quit • ctrl+c: force quit"
	case StatePrompt:
		return "enter: confirm • esc: back"
	case StateExiting:
		return "ctrl+c: quit now"
	}
	return ""
}

// Run starts the TUI and blocks until the user exits. The farewell line is
// printed after the alternate screen is gone.
func Run(ctx context.Context, app App) error {
	p := tea.NewProgram(NewModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Farewell() != "" {
		fmt.Println(fm.Farewell())
	}
	return nil
}
