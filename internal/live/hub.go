package live

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Hub relays score events between players and keeps the leaderboard.
// Run must be running for WebSocket clients to be served.
type Hub struct {
	logger *zap.Logger

	clients    map[*hubClient]bool
	register   chan *hubClient
	unregister chan *hubClient
	inbound    chan inboundMessage
	done       chan struct{}

	mu     sync.RWMutex
	scores map[string]int
}

type hubClient struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

type inboundMessage struct {
	client *hubClient
	msg    Message
}

// NewHub creates an idle hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*hubClient]bool),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		inbound:    make(chan inboundMessage),
		done:       make(chan struct{}),
		scores:     make(map[string]int),
	}
}

// Run processes client traffic until ctx is cancelled, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return nil

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("leaderboard client connected", zap.String("client", c.id))
			h.deliver(c, h.leaderboardMessage())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("leaderboard client disconnected", zap.String("client", c.id))
			}

		case in := <-h.inbound:
			h.apply(in)
		}
	}
}

func (h *Hub) apply(in inboundMessage) {
	m := in.msg
	switch m.Type {
	case TypeLeaderboardRequest:
		h.deliver(in.client, h.leaderboardMessage())
		return
	case TypeJoin, TypeScore, TypeReset:
		if m.Name == "" {
			return
		}
	default:
		h.logger.Debug("unknown message type", zap.String("type", m.Type))
		return
	}

	h.mu.Lock()
	switch m.Type {
	case TypeJoin:
		if _, ok := h.scores[m.Name]; !ok {
			h.scores[m.Name] = 0
		}
	case TypeScore:
		h.scores[m.Name] += m.Points
	case TypeReset:
		h.scores[m.Name] = 0
	}
	h.mu.Unlock()

	board := h.leaderboardMessage()
	for c := range h.clients {
		h.deliver(c, board)
	}
}

// deliver queues m for c, dropping c if it cannot keep up.
func (h *Hub) deliver(c *hubClient, m Message) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- m:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// Entries returns the leaderboard sorted by score, then name.
func (h *Hub) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]Entry, 0, len(h.scores))
	for name, score := range h.scores {
		entries = append(entries, Entry{Name: name, Score: score})
	}
	sortEntries(entries)
	return entries
}

func (h *Hub) leaderboardMessage() Message {
	return Message{Type: TypeLeaderboard, Entries: h.Entries()}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler returns the hub's HTTP routes.
func (h *Hub) Handler() http.Handler {
	mux := httprouter.New()
	mux.GET("/ws", h.serveWS)
	mux.GET("/leaderboard", h.serveLeaderboard)
	mux.GET("/healthz", serveHealthCheck)
	mux.GET("/qr", serveQR)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &hubClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, 8),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump(h)
}

func (c *hubClient) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			return
		}
		select {
		case h.inbound <- inboundMessage{client: c, msg: m}:
		case <-h.done:
			return
		}
	}
}

func (c *hubClient) writePump() {
	defer c.conn.Close()

	for m := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(m); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) serveLeaderboard(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Entries())
}

func serveHealthCheck(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// serveQR renders a PNG QR code pointing at the leaderboard.
func serveQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr") + "/leaderboard"

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
