package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"circle-arena/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the default cap on WebSocket connections
	MaxWSConnectionsTotal = 50

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 5

	// wsWriteTimeout bounds a single write so one slow client cannot stall the hub
	wsWriteTimeout = 2 * time.Second

	// wsMaxMessage bounds incoming frames
	wsMaxMessage = 16 << 10
)

// Outgoing and incoming event names
const (
	WSEventState = "match:state" // server -> client, latest RenderState
	WSEventMatch = "match:event" // server -> client, one game.Event
	WSEventInput = "input"       // client -> server, game.InputSnapshot
	WSEventReset = "reset"       // client -> server, {"seed": n}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}

		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsMessage is the envelope for every frame in both directions
type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub fans snapshots and match events out to viewers and feeds
// their input into the engine
type WebSocketHub struct {
	engine     EngineInterface
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	maxClients int
	wsLimiter  *WebSocketRateLimiter

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub(engine EngineInterface, maxClients int) *WebSocketHub {
	if maxClients <= 0 {
		maxClients = MaxWSConnectionsTotal
	}
	return &WebSocketHub{
		engine:     engine,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		maxClients: maxClients,
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		stopChan:   make(chan struct{}),
	}
}

// Run owns the client set; every write to a connection happens here
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.wsLimiter.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(conn)
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			var failed []*websocket.Conn

			h.mu.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
					continue
				}
				IncrementWSMessages("out")
			}
			h.mu.RUnlock()

			if len(failed) > 0 {
				h.mu.Lock()
				for _, conn := range failed {
					h.removeLocked(conn)
				}
				UpdateWSConnections(len(h.clients))
				h.mu.Unlock()
			}
		}
	}
}

// removeLocked drops a client. Caller holds mu.
func (h *WebSocketHub) removeLocked(conn *websocket.Conn) {
	if client, ok := h.clients[conn]; ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
}

// Stop disconnects every client and ends Run and the broadcast loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	msg, err := json.Marshal(wsMessage{Event: event, Data: payload})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Channel full, skip (backpressure)
	}
}

// BroadcastEvent forwards a match event. It never blocks, so it is safe
// to use as the engine's event callback.
func (h *WebSocketHub) BroadcastEvent(ev game.Event) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast(WSEventMatch, ev)
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest render state at a fixed rate.
// Unchanged ticks are not resent.
func (h *WebSocketHub) StartBroadcastLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		var lastSeq uint64
		var lastMatch string

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
				if h.ClientCount() == 0 {
					continue
				}

				snap := h.engine.SnapshotCopy()
				if snap.Sequence == lastSeq && snap.MatchID == lastMatch {
					continue
				}
				lastSeq, lastMatch = snap.Sequence, snap.MatchID

				h.Broadcast(WSEventState, snap)
			}
		}
	}()
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= h.maxClients {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", h.maxClients)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}
	conn.SetReadLimit(wsMaxMessage)

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.stopChan:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go h.readLoop(conn, ip)
}

// readLoop applies client messages until the connection drops
func (h *WebSocketHub) readLoop(conn *websocket.Conn, ip string) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.stopChan:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		IncrementWSMessages("in")

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case WSEventInput:
			var in game.InputSnapshot
			if err := json.Unmarshal(msg.Data, &in); err != nil {
				continue
			}
			h.engine.SubmitInput(in)

		case WSEventReset:
			var req struct {
				Seed int64 `json:"seed"`
			}
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, &req); err != nil {
					continue
				}
			}
			id := h.engine.Reset(req.Seed)
			RecordMatchStarted()
			log.Printf("🔄 Match reset by %s: %s", ip, id)

		default:
			log.Printf("📨 Unknown WebSocket event from %s: %q", ip, msg.Event)
		}
	}
}
