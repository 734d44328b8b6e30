package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/bingo/internal/protocol"
	"github.com/lox/bingo/internal/session"
)

// Connection represents a WebSocket connection watching one game
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	gameID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	games     *GameManager
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, gameID string, logger *log.Logger, games *GameManager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *protocol.Message, 256),
		gameID: gameID,
		logger: logger.WithPrefix("conn").With("game", gameID),
		ctx:    ctx,
		cancel: cancel,
		games:  games,
	}
}

// Start begins handling the connection and sends the initial game state.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
	c.sendState()
}

// GameID returns the watched game.
func (c *Connection) GameID() string {
	return c.gameID
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case protocol.MessageTypeDraw:
		// The result reaches this connection through the game broadcast
		if _, err := c.games.Draw(c.gameID); err != nil {
			c.sendFailure(err, msg.RequestID)
		}

	case protocol.MessageTypeState:
		c.sendState()

	default:
		c.sendError(protocol.CodeBadRequest, "Unknown message type: "+string(msg.Type), msg.RequestID)
	}
}

func (c *Connection) sendState() {
	state, err := c.games.Snapshot(c.gameID)
	if err != nil {
		c.sendFailure(err, "")
		return
	}
	msg, err := protocol.NewMessage(protocol.MessageTypeGameState, state)
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors
}

func (c *Connection) sendFailure(err error, requestID string) {
	code, _ := classify(err)
	c.sendError(code, err.Error(), requestID)

	if errors.Is(err, session.ErrPoolExhausted) {
		msg, merr := protocol.NewMessage(protocol.MessageTypeExhausted, ExhaustedFor(c.gameID))
		if merr == nil {
			_ = c.SendMessage(msg) // Ignore send errors
		}
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message, requestID string) {
	errorMsg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}
