package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/lastone/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// lobbyRoom holds viewers of the cross-match announcement feed.
const lobbyRoom = "lobby"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by middleware.WebSocketCORSCheck before the upgrade.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the envelope viewers send to the server.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client is one websocket viewer in a room
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	room     string
	match    *game.Match // nil for lobby viewers
	encoding Encoding
	send     chan []byte
}

// Hub maintains the rooms of connected viewers, one per match plus the lobby.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	relayed    bool // lobby is fed by the Redis subscriber
	mu         sync.RWMutex
}

// NewHub creates a new hub. Call Run before serving viewers.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled, then disconnects
// every viewer.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.stopped)
			h.mu.Lock()
			for room, clients := range h.rooms {
				for c := range clients {
					c.conn.Close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			log.Println("[WS] Hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[c.room]; !ok {
				h.rooms[c.room] = make(map[*Client]bool)
			}
			h.rooms[c.room][c] = true
			n := len(h.rooms[c.room])
			h.mu.Unlock()
			log.Printf("[WS] Viewer joined %s (%d watching)", c.room, n)

		case c := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[c.room]; ok && room[c] {
				delete(room, c)
				if len(room) == 0 {
					delete(h.rooms, c.room)
				}
				close(c.send)
				log.Printf("[WS] Viewer left %s", c.room)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent sends a match event to the match's viewers. Lifecycle
// events also reach the lobby unless Redis relays them.
func (h *Hub) BroadcastEvent(e game.Event) {
	msg := newOutgoing(e)
	h.broadcast(e.MatchID, msg)

	h.mu.RLock()
	relayed := h.relayed
	h.mu.RUnlock()
	if e.IsLifecycle() && !relayed {
		h.broadcast(lobbyRoom, msg)
	}
}

// broadcast queues msg for every viewer in a room. Slow viewers miss
// messages rather than stall the simulation.
func (h *Hub) broadcast(room string, msg *outgoing) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		data, err := msg.encode(c.encoding)
		if err != nil {
			log.Printf("[WS] Failed to encode %s message for %s: %v", c.encoding, room, err)
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Printf("[WS] Send buffer full for a viewer of %s, dropping message", room)
		}
	}
}

// ViewerCount returns how many viewers watch a match.
func (h *Hub) ViewerCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// add hands the viewer to the hub loop. It reports false once the hub has
// stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		c.conn.Close()
		return false
	}
}

// ServeMatch upgrades the request and streams the match's events. The
// viewer receives the current snapshot first. ?encoding=msgpack switches the
// stream to binary frames.
func (h *Hub) ServeMatch(m *game.Match, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	c := &Client{
		hub:      h,
		conn:     conn,
		room:     m.ID,
		match:    m,
		encoding: ParseEncoding(r.URL.Query().Get("encoding")),
		send:     make(chan []byte, sendBuffer),
	}
	m.Touch()
	c.sendSnapshot()

	if !h.add(c) {
		return
	}
	go c.writePump()
	go c.readPump()
}

// ServeLobby upgrades the request and streams lifecycle announcements from
// every match.
func (h *Hub) ServeLobby(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	c := &Client{
		hub:      h,
		conn:     conn,
		room:     lobbyRoom,
		encoding: ParseEncoding(r.URL.Query().Get("encoding")),
		send:     make(chan []byte, sendBuffer),
	}
	if !h.add(c) {
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close in %s: %v", c.room, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage serves viewer requests. Viewers cannot steer a match.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "get_state":
		if c.match == nil {
			c.sendError("No match in the lobby")
			return
		}
		c.match.Touch()
		c.sendSnapshot()
	case "ping":
		c.sendJSON(map[string]interface{}{"type": "pong"})
	default:
		c.sendError("Unknown message type: " + msg.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(c.frameType(), message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.hub.stopped:
			return
		}
	}
}

func (c *Client) frameType() int {
	if c.encoding == EncodingMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (c *Client) sendSnapshot() {
	snap := c.match.Snapshot()
	c.sendJSON(game.Event{Type: game.EventSnapshot, MatchID: c.match.ID, Data: snap})
}

// sendJSON queues a message for this viewer only. The hub closes send only
// after readPump has returned, so calls from the read side are safe.
func (c *Client) sendJSON(v interface{}) {
	data, err := newOutgoing(v).encode(c.encoding)
	if err != nil {
		log.Printf("[WS] Failed to encode message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
