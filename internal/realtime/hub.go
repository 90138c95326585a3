// Package realtime pushes board snapshots to connected menu viewers.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
)

// MessageBoardUpdate is the message type carrying a whole-board snapshot
const MessageBoardUpdate = "board_update"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBuffer     = 256
	broadcastQueue = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // public menus can be embedded anywhere
	},
}

// SnapshotFunc loads the current public form of a board for a new viewer
type SnapshotFunc func(ctx context.Context, boardID string) (*models.Board, error)

type boardMessage struct {
	boardID string
	data    []byte
}

// Hub keeps one room of clients per board and fans snapshots out to them
type Hub struct {
	log        logger.Logger
	rooms      map[string]map[*Client]bool
	broadcast  chan boardMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	snapshot   SnapshotFunc
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub     *Hub
	boardID string
	conn    *websocket.Conn
	send    chan []byte
}

// New creates a Hub. snapshot may be nil, in which case new clients wait for
// the next update.
func New(log logger.Logger, snapshot SnapshotFunc) *Hub {
	return &Hub{
		log:        log,
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan boardMessage, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		snapshot:   snapshot,
	}
}

// Run handles registration and broadcasting until ctx is cancelled, then
// disconnects every client. A Hub can only be run once.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			return nil

		case client := <-h.register:
			h.mutex.Lock()
			room, ok := h.rooms[client.boardID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.boardID] = room
			}
			room[client] = true
			n := len(room)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "board_id", client.boardID, "board_clients", n)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			var slow []*Client
			for client := range h.rooms[msg.boardID] {
				select {
				case client.send <- msg.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mutex.RUnlock()
			for _, client := range slow {
				h.log.Debug("Dropping slow client", "board_id", client.boardID)
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	room := h.rooms[client.boardID]
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.boardID)
	}
	h.log.Debug("Client disconnected", "board_id", client.boardID, "board_clients", len(room))
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
		delete(h.rooms, id)
	}
}

// ClientCount returns how many viewers are connected to a board
func (h *Hub) ClientCount(boardID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[boardID])
}

// BroadcastBoard queues a snapshot for the board's viewers. It never blocks;
// when the queue is full the snapshot is dropped, since a later one replaces it.
func (h *Hub) BroadcastBoard(b *models.Board) {
	if b == nil {
		return
	}
	data, err := encodeBoard(b)
	if err != nil {
		h.log.Error("Failed to encode board update", "board_id", b.ID, "error", err)
		return
	}
	select {
	case <-h.done:
	case h.broadcast <- boardMessage{boardID: b.ID, data: data}:
	default:
		h.log.Warn("Broadcast queue full, dropping update", "board_id", b.ID)
	}
}

func encodeBoard(b *models.Board) ([]byte, error) {
	return json.Marshal(models.WSMessage{Type: MessageBoardUpdate, Payload: b})
}

// readPump drains the connection so pongs and close frames are processed
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Ignoring client message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and subscribes the client to boardID
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, boardID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:     h,
		boardID: boardID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}

	if h.snapshot != nil {
		b, err := h.snapshot(r.Context(), boardID)
		switch {
		case err != nil:
			h.log.Debug("No initial snapshot", "board_id", boardID, "error", err)
		case b != nil:
			if data, err := encodeBoard(b); err == nil {
				client.send <- data
			}
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
