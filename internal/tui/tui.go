// Package tui is a terminal renderer for a single bingo session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/grid"
	"github.com/lox/bingo/internal/lines"
	"github.com/lox/bingo/internal/randutil"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
)

// Options configures a Model.
type Options struct {
	Session session.Config
	Seed    int64
	Reveal  reveal.Options
	Clock   quartz.Clock // defaults to the real clock
	Logger  *log.Logger
}

// frameMsg carries one reveal frame; ok is false once the roll has ended.
type frameMsg struct {
	frame reveal.Frame
	ok    bool
}

// Model is the Bubble Tea model for a bingo game
type Model struct {
	session *session.Session
	rng     randutil.Source
	reveal  reveal.Options
	clock   quartz.Clock
	logger  *log.Logger

	history viewport.Model
	entries []string

	// What the board shows. It lags the session while a roll is running.
	shown    grid.Marks
	lines    []lines.LineState
	counters session.Counters

	frames  <-chan reveal.Frame
	cancel  context.CancelFunc
	rolling int
	pending *session.DrawResult
	status  string

	width    int
	height   int
	quitting bool
}

// New starts a session for opts and wraps it in a Model.
func New(opts Options) (*Model, error) {
	rng := randutil.New(opts.Seed)
	s, err := session.New(opts.Session, rng)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	vp := viewport.New(24, opts.Session.Size*2)
	vp.SetContent("")

	m := &Model{
		session:  s,
		rng:      rng,
		reveal:   opts.Reveal,
		clock:    clock,
		logger:   logger.WithPrefix("tui"),
		history:  vp,
		shown:    s.Marks(),
		lines:    s.Lines(),
		counters: s.Counts(),
		status:   "Press space to draw",
	}
	m.logger.Debug("Started game", "size", opts.Session.Size, "band_range", opts.Session.BandRange, "seed", opts.Seed)
	return m, nil
}

// Session returns the underlying session.
func (m *Model) Session() *session.Session {
	return m.session
}

// Rolling reports whether a reveal is in progress.
func (m *Model) Rolling() bool {
	return m.pending != nil
}

// History returns the draw log, oldest first.
func (m *Model) History() []string {
	return append([]string(nil), m.entries...)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case " ", "space", "enter":
			return m, m.draw()
		}

	case frameMsg:
		return m, m.handleFrame(msg)
	}

	// The viewport scrolls on its own key map
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// draw applies the next draw to the session and starts its reveal.
func (m *Model) draw() tea.Cmd {
	if m.pending != nil {
		return nil
	}
	if m.session.Exhausted() {
		m.status = "No more numbers"
		return nil
	}

	res, err := m.session.Draw()
	if err != nil {
		m.status = err.Error()
		m.logger.Warn("Draw failed", "error", err)
		return nil
	}
	m.logger.Debug("Drew number", "number", res.Number, "hit", res.HitAny, "remaining", m.session.Remaining())

	m.pending = &res
	m.status = ""
	frames := reveal.Schedule(res.Number, m.session.Config().PoolMax(), m.reveal, m.rng)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.frames = reveal.Play(ctx, m.clock, frames)
	return waitForFrame(m.frames)
}

func waitForFrame(ch <-chan reveal.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		return frameMsg{frame: f, ok: ok}
	}
}

func (m *Model) handleFrame(msg frameMsg) tea.Cmd {
	if !msg.ok {
		// Roll ended without a final frame
		if m.pending != nil {
			m.settle()
		}
		return nil
	}

	m.rolling = msg.frame.Number
	if msg.frame.Final {
		m.settle()
		return nil
	}
	return waitForFrame(m.frames)
}

// settle shows the pending draw on the board.
func (m *Model) settle() {
	res := m.pending
	m.pending = nil
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.rolling = res.Number
	m.shown = m.session.Marks()
	m.lines = m.session.Lines()
	m.counters = m.session.Counts()

	m.addEntry(m.describe(*res))
	if m.counters.NewBingo {
		m.status = fmt.Sprintf("BINGO! %d line(s)", m.counters.Bingo)
		m.logger.Info("Bingo", "lines", m.counters.Bingo, "draws", len(m.session.Drawn()))
	}
	if m.session.Exhausted() {
		m.status = "No more numbers"
	}
}

func (m *Model) describe(res session.DrawResult) string {
	n := len(m.session.Drawn())
	if !res.HitAny {
		return fmt.Sprintf("#%-3d %3d  miss", n, res.Number)
	}
	c := res.Cells[0]
	return fmt.Sprintf("#%-3d %3d  hit r%d c%d", n, res.Number, c.Row+1, c.Col+1)
}

func (m *Model) addEntry(entry string) {
	m.entries = append(m.entries, entry)
	m.history.SetContent(strings.Join(m.entries, "\n"))
	if m.history.Height > 0 && m.history.Width > 0 {
		m.history.GotoBottom()
	}
}

// View renders the game
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("BINGO"),
		"",
		m.renderBoard(),
		"",
		m.renderDrawn(),
		m.renderCounters(),
	)
	if m.status != "" {
		style := InfoStyle
		if m.counters.NewBingo && m.pending == nil {
			style = BingoStyle
		}
		left = lipgloss.JoinVertical(lipgloss.Left, left, style.Render(m.status))
	}

	right := PaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		InfoStyle.Render("History"),
		m.history.View(),
	))

	help := InfoStyle.Render("space/enter draw • ↑↓ scroll history • q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, PaneStyle.Render(left), right),
		help,
	)
}

// renderBoard renders the board with a style per cell
func (m *Model) renderBoard() string {
	b := m.session.Board()
	status := cellStatus(b.Size(), m.lines)

	width := len("FREE")
	if w := len(fmt.Sprint(m.session.Config().PoolMax())); w > width {
		width = w
	}

	rows := make([]string, 0, b.Size())
	for r, row := range b {
		cells := make([]string, 0, len(row))
		for c, cell := range row {
			text := fmt.Sprintf("%*s", width, cell.String())
			cells = append(cells, m.cellStyle(cell, grid.Coord{Row: r, Col: c}, status).Render(text))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) cellStyle(cell board.Cell, at grid.Coord, status map[grid.Coord]lines.Status) lipgloss.Style {
	switch {
	case status[at] == lines.Bingo:
		return BingoStyle
	case status[at] == lines.Reach:
		return ReachStyle
	case cell.IsFree():
		return FreeStyle
	case m.shown.At(at):
		return MarkedStyle
	default:
		return CellStyle
	}
}

// cellStatus returns the strongest line status each cell takes part in.
func cellStatus(n int, states []lines.LineState) map[grid.Coord]lines.Status {
	out := make(map[grid.Coord]lines.Status, n*n)
	for _, l := range lines.Highlighted(states) {
		st := l.Status()
		for _, c := range l.Cells {
			if st > out[c] {
				out[c] = st
			}
		}
	}
	return out
}

func (m *Model) renderDrawn() string {
	if m.rolling == 0 {
		return RollStyle.Render("Drawn: --")
	}
	return RollStyle.Render(fmt.Sprintf("Drawn: %d", m.rolling))
}

func (m *Model) renderCounters() string {
	return fmt.Sprintf("Bingo: %d  Reach: %d  Left: %d",
		m.counters.Bingo, m.counters.Reach, m.remainingShown())
}

// remainingShown counts the pending draw as still in the pool.
func (m *Model) remainingShown() int {
	if m.pending != nil {
		return m.session.Remaining() + 1
	}
	return m.session.Remaining()
}
