package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Client is an Emitter connected to a Hub over a WebSocket.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu     sync.Mutex
	send   chan Message
	closed bool
	board  []Entry

	wg sync.WaitGroup
}

// Dial connects to the hub's WebSocket endpoint, e.g. ws://host:4000/ws.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial leaderboard %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		logger: logger,
		send:   make(chan Message, sendBuffer),
	}
	c.wg.Add(2)
	go c.writePump()
	go c.readPump()
	return c, nil
}

func (c *Client) Join(name string) {
	c.enqueue(Message{Type: TypeJoin, Name: name})
}

func (c *Client) Score(name string, points int) {
	c.enqueue(Message{Type: TypeScore, Name: name, Points: points})
}

func (c *Client) Reset(name string) {
	c.enqueue(Message{Type: TypeReset, Name: name})
}

// RequestLeaderboard asks the hub to send the current standings.
func (c *Client) RequestLeaderboard() {
	c.enqueue(Message{Type: TypeLeaderboardRequest})
}

// Leaderboard returns the most recent standings received from the hub.
func (c *Client) Leaderboard() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.board...)
}

// Close flushes queued events and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

func (c *Client) enqueue(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- m:
	default:
		c.logger.Warn("live update dropped", zap.String("type", m.Type))
	}
}

func (c *Client) writePump() {
	defer c.wg.Done()
	defer c.conn.Close()

	for m := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(m); err != nil {
			c.logger.Warn("live update failed", zap.String("type", m.Type), zap.Error(err))
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) readPump() {
	defer c.wg.Done()

	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			return
		}
		if m.Type == TypeLeaderboard {
			c.mu.Lock()
			c.board = m.Entries
			c.mu.Unlock()
		}
	}
}
