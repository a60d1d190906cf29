package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ascendia-notes/ascendia/broker"
	"ascendia-notes/ascendia/config"
	"ascendia-notes/ascendia/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// LiveUpdateServiceInterface pushes a user's own entity events to that user's
// connected WebSocket clients. Events for other users are never forwarded.
type LiveUpdateServiceInterface interface {
	Start(cfg config.Config)
	Stop()
	HandleConnection(c *gin.Context)
	Deliver(event *models.Event)
}

// ServerMessage is the frame sent to WebSocket clients.
type ServerMessage struct {
	Type    string          `json:"type"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type liveClient struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type LiveUpdateService struct {
	clients   map[string]map[*liveClient]bool // keyed by user id
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
	consumer  *broker.Consumer
	stopChan  chan struct{}
	running   bool
}

const clientSendBuffer = 64

func NewLiveUpdateService() *LiveUpdateService {
	return &LiveUpdateService{
		clients: make(map[string]map[*liveClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS middleware already gates browser origins
			},
		},
		stopChan: make(chan struct{}),
	}
}

// Start subscribes to every entity subject and begins forwarding. Without a
// broker the hub still accepts connections; clients just receive nothing.
func (s *LiveUpdateService) Start(cfg config.Config) {
	consumer, err := broker.InitConsumer(cfg, broker.AllSubjects, "")
	if err != nil {
		log.Printf("Warning: live updates disabled, failed to start consumer: %v", err)
		return
	}
	s.consumer = consumer
	s.running = true

	go s.forward(consumer.GetMessageChannel())
	log.Println("Live update service started")
}

func (s *LiveUpdateService) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
	if s.consumer != nil {
		s.consumer.Close()
	}

	s.clientsMu.Lock()
	for _, conns := range s.clients {
		for client := range conns {
			close(client.send)
		}
	}
	s.clients = make(map[string]map[*liveClient]bool)
	s.clientsMu.Unlock()
	log.Println("Live update service stopped")
}

func (s *LiveUpdateService) forward(messages chan *broker.Message) {
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event models.Event
			if err := event.FromJSON(msg.Data); err != nil {
				log.Printf("Failed to unmarshal broker event: %v", err)
				continue
			}
			s.Deliver(&event)
		case <-s.stopChan:
			return
		}
	}
}

// Deliver fans one event out to the owning user's connections.
func (s *LiveUpdateService) Deliver(event *models.Event) {
	frame, err := json.Marshal(ServerMessage{
		Type:    "event",
		Event:   event.Event,
		Payload: event.Data,
	})
	if err != nil {
		log.Printf("Failed to marshal live update: %v", err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for client := range s.clients[event.ActorID] {
		select {
		case client.send <- frame:
		default:
			// Slow consumer, drop the frame rather than block the hub.
		}
	}
}

// HandleConnection upgrades an authenticated request and serves it until the
// client goes away. The auth middleware has already stored userID.
func (s *LiveUpdateService) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &liveClient{
		userID: userID.String(),
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
	}
	s.register(client)

	go s.writePump(client)
	go s.readPump(client)
}

func (s *LiveUpdateService) register(client *liveClient) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if s.clients[client.userID] == nil {
		s.clients[client.userID] = make(map[*liveClient]bool)
	}
	s.clients[client.userID][client] = true
}

func (s *LiveUpdateService) unregister(client *liveClient) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if conns, ok := s.clients[client.userID]; ok {
		if conns[client] {
			delete(conns, client)
			close(client.send)
		}
		if len(conns) == 0 {
			delete(s.clients, client.userID)
		}
	}
}

func (s *LiveUpdateService) writePump(client *liveClient) {
	defer client.conn.Close()
	for frame := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := client.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards client frames; it exists to notice disconnects.
func (s *LiveUpdateService) readPump(client *liveClient) {
	defer func() {
		s.unregister(client)
		client.conn.Close()
	}()
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var LiveUpdateServiceInstance LiveUpdateServiceInterface
