package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/bingo/internal/gameid"
	"github.com/lox/bingo/internal/protocol"
	"github.com/lox/bingo/internal/randutil"
	"github.com/lox/bingo/internal/reveal"
	"github.com/lox/bingo/internal/session"
)

// ErrGameNotFound is returned for unknown or expired game IDs.
var ErrGameNotFound = errors.New("game not found")

// Notifier receives messages that should reach every watcher of a game.
type Notifier func(gameID string, msg *protocol.Message)

// Game is one hosted session.
type Game struct {
	ID   string
	Seed int64

	mu      sync.Mutex
	session *session.Session
	touched time.Time
}

// GameManager hosts sessions in memory. Each game is serialized by its own
// mutex; the manager's lock only guards the index.
type GameManager struct {
	mu       sync.RWMutex
	games    map[string]*Game
	defaults session.Config
	reveal   reveal.Options
	ttl      time.Duration
	clock    quartz.Clock
	logger   *log.Logger
	notify   Notifier
}

// GameManagerConfig configures a GameManager.
type GameManagerConfig struct {
	Defaults session.Config
	Reveal   reveal.Options
	IdleTTL  time.Duration
}

// NewGameManager creates an empty manager.
func NewGameManager(cfg GameManagerConfig, clock quartz.Clock, logger *log.Logger) *GameManager {
	if cfg.Defaults == (session.Config{}) {
		cfg.Defaults = session.DefaultConfig()
	}
	if cfg.Reveal == (reveal.Options{}) {
		cfg.Reveal = reveal.DefaultOptions()
	}
	return &GameManager{
		games:    make(map[string]*Game),
		defaults: cfg.Defaults,
		reveal:   cfg.Reveal,
		ttl:      cfg.IdleTTL,
		clock:    clock,
		logger:   logger.WithPrefix("games"),
		notify:   func(string, *protocol.Message) {},
	}
}

// SetNotifier installs the broadcast hook used after draws.
func (m *GameManager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// Create starts a new game. Zero fields in req take the defaults.
func (m *GameManager) Create(req protocol.CreateGameData) (*Game, error) {
	cfg := m.defaults
	if req.Size != 0 {
		cfg.Size = req.Size
	}
	if req.BandRange != 0 {
		cfg.BandRange = req.BandRange
	}

	seed, _ := randutil.Seed(req.Seed)
	s, err := session.New(cfg, randutil.New(seed))
	if err != nil {
		return nil, err
	}
	id, err := gameid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	g := &Game{
		ID:      id,
		Seed:    seed,
		session: s,
		touched: m.clock.Now(),
	}

	m.mu.Lock()
	m.games[g.ID] = g
	total := len(m.games)
	m.mu.Unlock()

	m.logger.Info("Created game", "game", g.ID, "size", cfg.Size, "bandRange", cfg.BandRange, "seed", seed, "total", total)
	return g, nil
}

// Get looks up a game.
func (m *GameManager) Get(id string) (*Game, error) {
	if err := gameid.Validate(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGameNotFound, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Snapshot returns the full state of a game.
func (m *GameManager) Snapshot(id string) (protocol.GameStateData, error) {
	g, err := m.Get(id)
	if err != nil {
		return protocol.GameStateData{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.touched = m.clock.Now()
	return protocol.Snapshot(g.ID, g.session, m.reveal), nil
}

// Draw draws the next number of a game and broadcasts the result.
// session.ErrPoolExhausted is returned once the pool is empty.
func (m *GameManager) Draw(id string) (protocol.DrawResultData, error) {
	g, err := m.Get(id)
	if err != nil {
		return protocol.DrawResultData{}, err
	}

	m.mu.RLock()
	notify := m.notify
	m.mu.RUnlock()

	// Broadcasts happen under the game lock so watchers see draws in the
	// order they were applied.
	g.mu.Lock()
	defer g.mu.Unlock()

	g.touched = m.clock.Now()
	res, err := g.session.Draw()
	if err != nil {
		return protocol.DrawResultData{}, err
	}
	data := protocol.DrawResultFrom(g.ID, g.session, res, m.reveal)

	m.logger.Debug("Drew number",
		"game", id,
		"number", data.Number,
		"hit", data.HitNew,
		"bingo", data.Counters.Bingo,
		"reach", data.Counters.Reach,
		"remaining", data.Remaining)
	if data.Counters.NewBingo {
		m.logger.Info("Bingo", "game", id, "lines", data.Counters.Bingo, "number", data.Number)
	}

	m.broadcast(notify, id, protocol.MessageTypeDrawResult, data)
	if data.Exhausted {
		m.broadcast(notify, id, protocol.MessageTypeExhausted, ExhaustedFor(id))
	}
	return data, nil
}

// ExhaustedFor builds the terminal message for a game.
func ExhaustedFor(id string) protocol.ExhaustedData {
	return protocol.ExhaustedData{GameID: id, Message: "No more numbers"}
}

// broadcast must not take m.mu: Sweep holds m.mu while locking games.
func (m *GameManager) broadcast(notify Notifier, id string, t protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		m.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	notify(id, msg)
}

// Count returns the number of hosted games.
func (m *GameManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep drops games idle for longer than the TTL and returns how many went.
func (m *GameManager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, g := range m.games {
		g.mu.Lock()
		idle := now.Sub(g.touched)
		g.mu.Unlock()
		if idle > m.ttl {
			delete(m.games, id)
			removed++
			m.logger.Info("Expired idle game", "game", id, "idle", idle)
		}
	}
	return removed
}

// Run sweeps idle games every sweep interval until ctx is done.
func (m *GameManager) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	w := m.clock.TickerFunc(ctx, interval, func() error {
		m.Sweep()
		return nil
	}, "games", "sweep")
	err := w.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
