// Package protocol defines the JSON messages exchanged with renderers over
// HTTP and websocket.
package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/grid"
	"github.com/lox/bingo/internal/lines"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
)

// MessageType names a message.
type MessageType string

// Client → server
const (
	MessageTypeDraw  MessageType = "draw"
	MessageTypeState MessageType = "state"
)

// Server → client
const (
	MessageTypeGameState  MessageType = "game_state"
	MessageTypeDrawResult MessageType = "draw_result"
	MessageTypeExhausted  MessageType = "exhausted"
	MessageTypeError      MessageType = "error"
)

// Error codes carried in ErrorData.
const (
	CodeInvalidConfiguration = "invalid_configuration"
	CodePoolExhausted        = "pool_exhausted"
	CodeGameNotFound         = "game_not_found"
	CodeBadRequest           = "bad_request"
	CodeInternal             = "internal"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: time.Now()}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = b
	}
	return msg, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return errors.New("message has no data")
	}
	return json.Unmarshal(m.Data, v)
}

// CreateGameData is the body of POST /api/games. Zero fields take the
// server defaults.
type CreateGameData struct {
	Size      int    `json:"size,omitempty"`
	BandRange int    `json:"bandRange,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

// ErrorData reports a failure.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Line is a highlighted line.
type Line struct {
	Kind   lines.Kind   `json:"kind"`
	Index  int          `json:"index"`
	Status lines.Status `json:"status"`
	Cells  []grid.Coord `json:"cells"`
}

// LinesFrom keeps the reach and bingo lines of states.
func LinesFrom(states []lines.LineState) []Line {
	hl := lines.Highlighted(states)
	out := make([]Line, 0, len(hl))
	for _, l := range hl {
		out = append(out, Line{Kind: l.Kind, Index: l.Index, Status: l.Status(), Cells: l.Cells})
	}
	return out
}

// RevealData tells the renderer how long to roll before showing a number.
type RevealData struct {
	DurationMs int `json:"durationMs"`
	IntervalMs int `json:"intervalMs"`
	SettleMs   int `json:"settleMs"`
}

// RevealFrom converts reveal options.
func RevealFrom(o reveal.Options) RevealData {
	return RevealData{
		DurationMs: int(o.Duration.Milliseconds()),
		IntervalMs: int(o.Interval.Milliseconds()),
		SettleMs:   int(o.Settle.Milliseconds()),
	}
}

// Celebration configures the particle burst fired on a new bingo.
type Celebration struct {
	Particles int     `json:"particleCount"`
	Spread    int     `json:"spread"`
	OriginX   float64 `json:"originX"`
	OriginY   float64 `json:"originY"`
	Gravity   float64 `json:"gravity"`
	Decay     float64 `json:"decay"`
	Scalar    float64 `json:"scalar"`
}

// DefaultCelebration bursts from the center of the screen in every direction.
func DefaultCelebration() Celebration {
	return Celebration{
		Particles: 150,
		Spread:    360,
		OriginX:   0.5,
		OriginY:   0.5,
		Gravity:   2.0,
		Decay:     0.88,
		Scalar:    0.9,
	}
}

// GameStateData is a full snapshot, sent on connect and on request.
type GameStateData struct {
	GameID    string            `json:"gameId"`
	Size      int               `json:"size"`
	BandRange int               `json:"bandRange"`
	State     session.State     `json:"state"`
	Board     board.Board       `json:"board"`
	Marks     grid.Marks        `json:"marks"`
	Lines     []Line            `json:"lines"`
	Counters  session.Counters  `json:"counters"`
	Remaining int               `json:"remaining"`
	Drawn     []int             `json:"drawn"`
	Reveal    RevealData        `json:"reveal"`
}

// DrawResultData is broadcast after every draw.
type DrawResultData struct {
	GameID      string           `json:"gameId"`
	Number      int              `json:"number"`
	HitAny      bool             `json:"hitAny"`
	HitNew      bool             `json:"hitNew"`
	Cells       []grid.Coord     `json:"cells"`
	Marks       grid.Marks       `json:"marks"`
	Lines       []Line           `json:"lines"`
	Counters    session.Counters `json:"counters"`
	Remaining   int              `json:"remaining"`
	Exhausted   bool             `json:"exhausted"`
	Reveal      RevealData       `json:"reveal"`
	Celebration *Celebration     `json:"celebration,omitempty"`
}

// ExhaustedData signals that no draws remain.
type ExhaustedData struct {
	GameID  string `json:"gameId"`
	Message string `json:"message"`
}

// Snapshot builds a GameStateData from a session.
func Snapshot(gameID string, s *session.Session, rv reveal.Options) GameStateData {
	cfg := s.Config()
	return GameStateData{
		GameID:    gameID,
		Size:      cfg.Size,
		BandRange: cfg.BandRange,
		State:     s.State(),
		Board:     s.Board(),
		Marks:     s.Marks(),
		Lines:     LinesFrom(s.Lines()),
		Counters:  s.Counts(),
		Remaining: s.Remaining(),
		Drawn:     s.Drawn(),
		Reveal:    RevealFrom(rv),
	}
}

// DrawResultFrom builds the broadcast for a draw just applied to s.
func DrawResultFrom(gameID string, s *session.Session, res session.DrawResult, rv reveal.Options) DrawResultData {
	cells := res.Cells
	if cells == nil {
		cells = []grid.Coord{}
	}
	d := DrawResultData{
		GameID:    gameID,
		Number:    res.Number,
		HitAny:    res.HitAny,
		HitNew:    res.HitNew,
		Cells:     cells,
		Marks:     s.Marks(),
		Lines:     LinesFrom(s.Lines()),
		Counters:  s.Counts(),
		Remaining: s.Remaining(),
		Exhausted: s.Exhausted(),
		Reveal:    RevealFrom(rv),
	}
	if d.Counters.NewBingo {
		c := DefaultCelebration()
		d.Celebration = &c
	}
	return d
}
