package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/services"
	"yoplan/pkg/utils"
)

const (
	EventUserMessage          = "user-message"
	EventUserMessageConfirmed = "user-message-confirmed"
	EventStreamStart          = "stream-start"
	EventStreamChunk          = "stream-chunk"
	EventStreamEnd            = "stream-end"
	EventError                = "error"

	socketWriteWait   = 10 * time.Second
	socketPongWait    = 60 * time.Second
	socketPingPeriod  = socketPongWait * 9 / 10
	socketReadLimit   = 8 << 10
	socketTurnTimeout = 90 * time.Second
)

type ChatController struct {
	chatService services.ChatServiceInterface
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

// NewChatController accepts websocket upgrades from allowedOrigins only. An
// empty list accepts every origin.
func NewChatController(chatService services.ChatServiceInterface, allowedOrigins []string, log *zap.Logger) *ChatController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &ChatController{
		chatService: chatService,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// Chat godoc
// @Summary Single-shot chat reply
// @Description Answers from the FAQ when possible, otherwise from the language model
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatRequest true "User message"
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/chat [post]
func (h *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "메시지를 입력해주세요.")
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), req.Message)
	if errors.Is(err, utils.ErrLLMUnavailable) {
		utils.RespondErrorWithData(c, http.StatusInternalServerError, services.ChatErrorMessage,
			response_models.ChatReply{Reply: services.ChatFallbackReply})
		return
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, reply, "")
}

func (h *ChatController) GetConversation(c *gin.Context) {
	conversation, err := h.chatService.GetConversation(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, conversation, "")
}

func (h *ChatController) DeleteConversation(c *gin.Context) {
	if err := h.chatService.DeleteConversation(c.Request.Context(), c.Param("sessionId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "대화 기록이 삭제되었습니다.")
}

// Stream upgrades to a websocket and answers each user-message frame with
// a confirmed, start, chunk*, end event sequence.
func (h *ChatController) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	client := services.ChatClientInfo{
		SessionID: services.ChatSessionID(c.ClientIP(), c.Request.UserAgent()),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	log := h.log.With(zap.String("session_id", client.SessionID))
	log.Info("chat socket connected")

	conn.SetReadLimit(socketReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	sink := &socketSink{conn: conn}
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("chat socket closed unexpectedly", zap.Error(err))
			} else {
				log.Info("chat socket disconnected")
			}
			return
		}

		var msg request_models.SocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != EventUserMessage {
			if err := sink.Error("지원하지 않는 메시지 형식입니다."); err != nil {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), socketTurnTimeout)
		err = h.chatService.StreamReply(ctx, client, msg.Content, sink)
		cancel()
		if err != nil {
			log.Warn("chat socket write failed", zap.Error(err))
			return
		}
	}
}

func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(socketPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
				return
			}
		}
	}
}

type socketEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// socketSink serializes writes to one websocket connection.
type socketSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *socketSink) send(eventType string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(socketEvent{Type: eventType, Data: data})
}

func (s *socketSink) Confirmed(msg response_models.MessageResponse) error {
	return s.send(EventUserMessageConfirmed, msg)
}

func (s *socketSink) Start(messageID string) error {
	return s.send(EventStreamStart, gin.H{"messageId": messageID})
}

func (s *socketSink) Chunk(text string) error {
	return s.send(EventStreamChunk, gin.H{"content": text})
}

func (s *socketSink) Error(message string) error {
	return s.send(EventError, gin.H{"message": message})
}

func (s *socketSink) End(msg response_models.MessageResponse) error {
	return s.send(EventStreamEnd, msg)
}
