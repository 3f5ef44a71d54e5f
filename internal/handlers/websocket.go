package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/session"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is the envelope for every message pushed to the browser
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type wsClient struct {
	sessionID string
	mu        sync.Mutex // serialises writes to the connection
}

// WebSocketHandler pushes session state to the browsers subscribed to that session.
// It implements session.Notifier.
type WebSocketHandler struct {
	logger           arbor.ILogger
	store            *session.Store
	presenter        Presenter
	mu               sync.RWMutex
	clients          map[*websocket.Conn]*wsClient
	serverInstanceID string // Unique ID generated on startup - clients use to detect server restart
}

func NewWebSocketHandler(store *session.Store, presenter Presenter, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		store:            store,
		presenter:        presenter,
		clients:          make(map[*websocket.Conn]*wsClient),
		serverInstanceID: uuid.New().String(),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")
	return h
}

// HandleWebSocket subscribes the connection to the caller's session
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.store.Get(sessionIDFromRequest(r))
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Unknown session. Reload the page.")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &wsClient{sessionID: sess.ID}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Str("session", sess.ID).Msgf("WebSocket client connected (total: %d)", total)

	h.send(conn, client, WSMessage{
		Type:    "hello",
		Payload: map[string]string{"server_instance_id": h.serverInstanceID},
	})
	h.send(conn, client, WSMessage{Type: "state", Payload: h.presenter.View(sess.Snapshot())})

	// Handle client disconnection
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", remaining)
	}()

	// Read messages from client (keep connection alive)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
		sess.Touch()
	}
}

// NotifySession sends the state to every connection subscribed to its session
func (h *WebSocketHandler) NotifySession(state session.State) {
	data, err := json.Marshal(WSMessage{Type: "state", Payload: h.presenter.View(state)})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal state message")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, 1)
	clients := make([]*wsClient, 0, 1)
	for conn, client := range h.clients {
		if client.sessionID == state.SessionID {
			conns = append(conns, conn)
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		if err := h.write(conn, clients[i], data); err != nil {
			h.logger.Warn().Err(err).Str("session", state.SessionID).Msg("Failed to send state to client")
		}
	}
}

// ClientCount returns the number of open connections
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHandler) send(conn *websocket.Conn, client *wsClient, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal websocket message")
		return
	}
	if err := h.write(conn, client, data); err != nil {
		h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send websocket message")
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, client *wsClient, data []byte) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
