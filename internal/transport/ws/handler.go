package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"branchbot/internal/model"
	"branchbot/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled at router level
	},
}

// answerMessage is a respondent's answer sent over the chat connection
type answerMessage struct {
	QuestionID int                 `json:"questionId"`
	Answer     model.AnswerPayload `json:"answer"`
	Text       string              `json:"text,omitempty"`
}

// Handler manages WebSocket endpoints
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	navSvc  *service.NavigationService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, navSvc *service.NavigationService) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, navSvc: navSvc}
}

// RespondentWS handles the conversational connection for one response.
// The respondent token rides in the query string since browsers cannot set
// headers on WebSocket upgrades.
func (h *Handler) RespondentWS(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]

	claims, err := h.authSvc.ValidateRespondentToken(r.URL.Query().Get("token"))
	if err != nil || claims.ResponseID != responseID {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := &Connection{
		SurveyID:   claims.SurveyID,
		ResponseID: responseID,
		Send:       make(chan []byte, 64),
		Hub:        h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(ws, conn)

	// Greet with the question the response is currently at.
	if q, err := h.navSvc.CurrentQuestion(r.Context(), responseID); err == nil {
		if q == nil {
			h.hub.SendToResponse(responseID, string(MsgSurveyComplete), map[string]interface{}{})
		} else {
			h.hub.SendToResponse(responseID, string(MsgQuestion), q)
		}
	}

	h.respondentReadPump(ws, conn)
}

// MonitorWS handles the builder's live monitor connection for a survey
func (h *Handler) MonitorWS(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	if _, err := h.authSvc.ValidateBuilderToken(r.URL.Query().Get("token")); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := &Connection{
		SurveyID:  surveyID,
		IsMonitor: true,
		Send:      make(chan []byte, 64),
		Hub:       h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(ws, conn)
	h.discardReadPump(ws, conn)
}

// respondentReadPump reads answers off the chat connection and drives the
// survey forward.
func (h *Handler) respondentReadPump(ws *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn.ResponseID, "invalid message format")
			continue
		}
		h.handleRespondentMessage(conn, &msg)
	}
}

func (h *Handler) handleRespondentMessage(conn *Connection, msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case "answer":
		var am answerMessage
		if err := json.Unmarshal(msg.Payload, &am); err != nil {
			h.sendError(conn.ResponseID, "invalid answer payload")
			return
		}
		// "/back" typed into the chat works like the back button.
		if strings.TrimSpace(am.Text) == "/back" || strings.TrimSpace(am.Answer.Text) == "/back" {
			h.goBack(ctx, conn)
			return
		}
		result, err := h.navSvc.Advance(ctx, conn.ResponseID, am.QuestionID, am.Answer)
		if err != nil {
			h.sendError(conn.ResponseID, err.Error())
			return
		}
		if result.Complete {
			h.hub.SendToResponse(conn.ResponseID, string(MsgSurveyComplete), map[string]interface{}{})
			return
		}
		h.hub.SendToResponse(conn.ResponseID, string(MsgQuestion), result.NextQuestion)

	case "back":
		h.goBack(ctx, conn)

	default:
		h.sendError(conn.ResponseID, "unknown message type")
	}
}

func (h *Handler) goBack(ctx context.Context, conn *Connection) {
	q, err := h.navSvc.Back(ctx, conn.ResponseID)
	if err != nil {
		h.sendError(conn.ResponseID, err.Error())
		return
	}
	h.hub.SendToResponse(conn.ResponseID, string(MsgQuestion), q)
}

func (h *Handler) sendError(responseID, message string) {
	h.hub.SendToResponse(responseID, string(MsgError), map[string]string{"message": message})
}

// discardReadPump keeps a monitor connection alive; monitors only listen.
func (h *Handler) discardReadPump(ws *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

// writePump forwards hub messages to the peer and keeps it alive with pings
func (h *Handler) writePump(ws *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
