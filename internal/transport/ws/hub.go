package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Monitor message types
const (
	MsgResponseStarted    MessageType = "response_started"
	MsgRespondentAdvanced MessageType = "respondent_advanced"
	MsgResponseCompleted  MessageType = "response_completed"
)

// Respondent message types
const (
	MsgQuestion       MessageType = "question"
	MsgSurveyComplete MessageType = "survey_complete"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections: one chat connection per in-flight
// response, plus builder monitor connections per survey.
type Hub struct {
	monitorConns    map[string]*Connection // surveyID -> builder monitor conn
	respondentConns map[string]*Connection // responseID -> respondent conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SurveyID   string
	ResponseID string // Empty for monitor connections
	IsMonitor  bool
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to deliver
type BroadcastMessage struct {
	SurveyID   string
	ResponseID string // Empty means the survey's monitor
	Message    *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		monitorConns:    make(map[string]*Connection),
		respondentConns: make(map[string]*Connection),
		register:        make(chan *Connection),
		unregister:      make(chan *Connection),
		broadcast:       make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsMonitor {
				h.monitorConns[conn.SurveyID] = conn
				log.Printf("Monitor connected for survey %s", conn.SurveyID)
			} else {
				h.respondentConns[conn.ResponseID] = conn
				log.Printf("Respondent connected for response %s", conn.ResponseID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsMonitor {
				if existing, ok := h.monitorConns[conn.SurveyID]; ok && existing == conn {
					delete(h.monitorConns, conn.SurveyID)
					close(conn.Send)
					log.Printf("Monitor disconnected for survey %s", conn.SurveyID)
				}
			} else {
				if existing, ok := h.respondentConns[conn.ResponseID]; ok && existing == conn {
					delete(h.respondentConns, conn.ResponseID)
					close(conn.Send)
					log.Printf("Respondent disconnected for response %s", conn.ResponseID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ResponseID != "" {
				if conn, ok := h.respondentConns[msg.ResponseID]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if conn, ok := h.monitorConns[msg.SurveyID]; ok {
				select {
				case conn.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToMonitor sends a message to a survey's builder monitor
// (implements service.Broadcaster)
func (h *Hub) BroadcastToMonitor(surveyID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// SendToResponse sends a message to one respondent's chat connection
// (implements service.Broadcaster)
func (h *Hub) SendToResponse(responseID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ResponseID: responseID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
