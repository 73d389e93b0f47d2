package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Configure properly for production
	},
}

// MessageHandler receives every text message a browser sends.
type MessageHandler func(message []byte) error

// SnapshotFunc returns the first message sent to a newly connected client.
type SnapshotFunc func() ([]byte, error)

type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	stop       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     logrus.FieldLogger

	onMessage  MessageHandler
	onSnapshot SnapshotFunc
}

func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		stop:       make(chan struct{}),
		logger:     logger.WithField("component", "websocket"),
	}
}

// OnMessage sets the handler for inbound client messages.
func (h *Hub) OnMessage(fn MessageHandler) {
	h.onMessage = fn
}

// OnConnect sets the snapshot sent to each new client.
func (h *Hub) OnConnect(fn SnapshotFunc) {
	h.onSnapshot = fn
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logger.Info("WebSocket client connected")
			h.sendSnapshot(conn)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("WebSocket client disconnected")

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.WithError(err).Warn("WebSocket write error")
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mutex.Unlock()

		case <-h.stop:
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) sendSnapshot(conn *websocket.Conn) {
	if h.onSnapshot == nil {
		return
	}
	msg, err := h.onSnapshot()
	if err != nil {
		h.logger.WithError(err).Warn("failed to build page snapshot")
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		h.logger.WithError(err).Warn("WebSocket snapshot write error")
	}
}

// Broadcast queues message for every client. It never blocks after Stop.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.stop:
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.WithError(err).Warn("WebSocket upgrade error")
			return
		}

		select {
		case h.register <- conn:
		case <-h.stop:
			conn.Close()
			return
		}

		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stop:
			}
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.WithError(err).Warn("WebSocket error")
				}
				break
			}
			if h.onMessage == nil {
				continue
			}
			if err := h.onMessage(message); err != nil {
				h.logger.WithError(err).Debug("ignored client message")
			}
		}
	}
}
