// Package session runs a single Bingo game: one board, one shuffled draw
// pool and the marks accumulated as numbers are drawn.
//
// A Session is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package session

import (
	"errors"
	"fmt"

	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/grid"
	"github.com/lox/bingo/internal/lines"
	"github.com/lox/bingo/internal/randutil"
)

// ErrPoolExhausted is returned by Draw once every number has been drawn.
var ErrPoolExhausted = errors.New("draw pool exhausted")

// State is the session lifecycle position.
type State int

const (
	Ready     State = iota // board generated, nothing drawn
	Drawing                // at least one draw, pool non-empty
	Exhausted              // pool empty, terminal
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Drawing:
		return "drawing"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, c := range []State{Ready, Drawing, Exhausted} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", b)
}

// Config sizes a game.
type Config struct {
	Size      int
	BandRange int
}

// DefaultConfig is the classic 5×5, 1-75 game.
func DefaultConfig() Config {
	return Config{Size: 5, BandRange: 15}
}

// PoolMax is the highest number in the draw pool.
func (c Config) PoolMax() int {
	return c.Size * c.BandRange
}

// DrawResult describes one draw.
type DrawResult struct {
	Number int          `json:"number"`
	HitAny bool         `json:"hitAny"` // the board holds Number
	HitNew bool         `json:"hitNew"` // a matching cell went false -> true
	Cells  []grid.Coord `json:"cells"`  // every cell holding Number
}

// Counters is the scoreboard after the most recent draw.
type Counters struct {
	Bingo     int  `json:"bingo"`
	Reach     int  `json:"reach"`
	PrevBingo int  `json:"prevBingo"`
	NewBingo  bool `json:"newBingo"`
}

// Session is one game in progress.
type Session struct {
	cfg       Config
	board     board.Board
	marks     grid.Marks
	pool      []int
	drawn     []int
	prevBingo int
}

// New generates a board and a shuffled pool of [1, Size*BandRange].
// Configuration errors are returned as *board.ConfigError.
func New(cfg Config, src randutil.Source) (*Session, error) {
	b, err := board.Generate(cfg.Size, cfg.BandRange, src)
	if err != nil {
		return nil, err
	}

	pool := randutil.Sequence(1, cfg.PoolMax())
	randutil.Shuffle(src, pool)

	return &Session{
		cfg:   cfg,
		board: b,
		marks: b.Marks(),
		pool:  pool,
		drawn: make([]int, 0, len(pool)),
	}, nil
}

// Draw takes the next number from the pool and marks every board cell
// holding it. On an exhausted pool it returns ErrPoolExhausted and changes
// nothing.
func (s *Session) Draw() (DrawResult, error) {
	if len(s.pool) == 0 {
		return DrawResult{}, ErrPoolExhausted
	}

	s.prevBingo = lines.Summarize(s.marks).Bingo

	last := len(s.pool) - 1
	n := s.pool[last]
	s.pool = s.pool[:last]
	s.drawn = append(s.drawn, n)

	res := DrawResult{Number: n, Cells: s.board.Find(n)}
	for _, c := range res.Cells {
		res.HitAny = true
		if s.marks.Set(c) {
			res.HitNew = true
		}
	}
	return res, nil
}

// Counts summarizes the current marks. NewBingo reports whether the most
// recent draw completed at least one line. Counts does not mutate the
// session.
func (s *Session) Counts() Counters {
	sum := lines.Summarize(s.marks)
	return Counters{
		Bingo:     sum.Bingo,
		Reach:     sum.Reach,
		PrevBingo: s.prevBingo,
		NewBingo:  sum.Bingo > s.prevBingo,
	}
}

// Lines returns the state of every line.
func (s *Session) Lines() []lines.LineState {
	return lines.Analyze(s.marks)
}

// State returns the lifecycle position.
func (s *Session) State() State {
	switch {
	case len(s.pool) == 0:
		return Exhausted
	case len(s.drawn) == 0:
		return Ready
	default:
		return Drawing
	}
}

// Exhausted reports whether no draws remain.
func (s *Session) Exhausted() bool {
	return len(s.pool) == 0
}

// Board returns the board. It must not be modified.
func (s *Session) Board() board.Board {
	return s.board
}

// Marks returns a copy of the mark matrix.
func (s *Session) Marks() grid.Marks {
	return s.marks.Clone()
}

// Remaining returns the number of undrawn numbers.
func (s *Session) Remaining() int {
	return len(s.pool)
}

// Drawn returns the numbers drawn so far, oldest first.
func (s *Session) Drawn() []int {
	return append([]int(nil), s.drawn...)
}

// Config returns the configuration the session was built with.
func (s *Session) Config() Config {
	return s.cfg
}
