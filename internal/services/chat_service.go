package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"yoplan/internal/models/db_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/llm"
	"yoplan/pkg/metrics"
	"yoplan/pkg/utils"
)

const (
	chatHistoryLimit = 20

	ChatFallbackReply = "죄송해요, 지금은 응답할 수 없어요 😢"
	ChatErrorMessage  = "메시지 처리 중 오류가 발생했습니다."
	chatRecoveredText = "문제가 발생했지만 처리는 완료되었습니다."
)

// ChatSessionID derives a stable anonymous session id from the client's
// address and user agent.
func ChatSessionID(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + userAgent))
	return "ip_" + hex.EncodeToString(sum[:])[:16]
}

type ChatClientInfo struct {
	SessionID string
	IPAddress string
	UserAgent string
}

// StreamSink receives the events of one streamed reply, in order:
// Confirmed, Start, zero or more Chunk, then End. Error is sent before End
// when the reply failed.
type StreamSink interface {
	Confirmed(msg response_models.MessageResponse) error
	Start(messageID string) error
	Chunk(text string) error
	Error(message string) error
	End(msg response_models.MessageResponse) error
}

type ChatServiceInterface interface {
	// Reply answers a single stateless message.
	Reply(ctx context.Context, message string) (*response_models.ChatReply, error)
	// StreamReply answers within the client's persisted conversation.
	StreamReply(ctx context.Context, client ChatClientInfo, message string, sink StreamSink) error
	GetConversation(ctx context.Context, sessionID string) (*response_models.ConversationResponse, error)
	DeleteConversation(ctx context.Context, sessionID string) error
}

type ChatService struct {
	faqs          FaqServiceInterface
	prompts       PromptServiceInterface
	chat          llm.ChatClient
	conversations repositories.ConversationRepository
	log           *zap.Logger
	now           func() time.Time
}

func NewChatService(
	faqs FaqServiceInterface,
	prompts PromptServiceInterface,
	chat llm.ChatClient,
	conversations repositories.ConversationRepository,
	log *zap.Logger,
) ChatServiceInterface {
	return &ChatService{
		faqs:          faqs,
		prompts:       prompts,
		chat:          chat,
		conversations: conversations,
		log:           log,
		now:           time.Now,
	}
}

func (s *ChatService) Reply(ctx context.Context, message string) (*response_models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, utils.ErrEmptyMessage
	}

	hit, err := s.faqs.Match(ctx, message, true)
	if err != nil {
		// FAQ problems fall through to the model
		s.log.Warn("faq lookup failed", zap.Error(err))
	}
	if hit != nil {
		metrics.ChatReplies.WithLabelValues(hit.Source, "http").Inc()
		return &response_models.ChatReply{Reply: hit.Answer, Source: hit.Source}, nil
	}

	system, err := s.prompts.SystemPrompt(ctx)
	if err != nil {
		s.log.Error("build system prompt", zap.Error(err))
		metrics.ChatReplies.WithLabelValues("error", "http").Inc()
		return nil, utils.ErrLLMUnavailable
	}
	reply, err := s.chat.Complete(ctx, system, []llm.Message{{Role: llm.RoleUser, Content: message}})
	if err != nil {
		s.log.Error("llm completion failed", zap.String("provider", s.chat.Provider()), zap.Error(err))
		metrics.ChatReplies.WithLabelValues("error", "http").Inc()
		return nil, utils.ErrLLMUnavailable
	}

	metrics.ChatReplies.WithLabelValues(SourceLLM, "http").Inc()
	return &response_models.ChatReply{Reply: reply, Source: SourceLLM}, nil
}

func (s *ChatService) StreamReply(ctx context.Context, client ChatClientInfo, message string, sink StreamSink) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return sink.Error("메시지를 입력해주세요.")
	}

	err := s.streamReply(ctx, client, message, sink)
	if err == nil {
		return nil
	}
	s.log.Error("chat stream failed", zap.String("session_id", client.SessionID), zap.Error(err))
	metrics.ChatReplies.WithLabelValues("error", "ws").Inc()

	// the client always gets a closing event so it can stop waiting
	if sendErr := sink.Error(ChatErrorMessage); sendErr != nil {
		return sendErr
	}
	return sink.End(response_models.MessageResponse{
		Role:      db_models.MessageRoleAssistant,
		Content:   chatRecoveredText,
		Timestamp: s.now(),
	})
}

func (s *ChatService) streamReply(ctx context.Context, client ChatClientInfo, message string, sink StreamSink) error {
	metadata := s.metadata(client)
	userMsg := db_models.ChatMessage{Role: db_models.MessageRoleUser, Content: message}

	hit, err := s.faqs.Match(ctx, message, false)
	if err != nil {
		s.log.Warn("faq lookup failed", zap.Error(err))
	}
	if hit != nil {
		answer := db_models.ChatMessage{Role: db_models.MessageRoleAssistant, Content: hit.Answer, Source: hit.Source}
		if err := s.conversations.AppendMessages(ctx, client.SessionID, metadata, userMsg, answer); err != nil {
			return err
		}
		if err := sink.Confirmed(s.toMessage(userMsg)); err != nil {
			return err
		}
		if err := sink.Start("faq-" + hit.FaqID); err != nil {
			return err
		}
		metrics.ChatReplies.WithLabelValues(hit.Source, "ws").Inc()
		return sink.End(s.toMessage(answer))
	}

	if err := s.conversations.AppendMessages(ctx, client.SessionID, metadata, userMsg); err != nil {
		return err
	}
	if err := sink.Confirmed(s.toMessage(userMsg)); err != nil {
		return err
	}

	system, err := s.prompts.SystemPrompt(ctx)
	if err != nil {
		return err
	}
	recent, err := s.conversations.RecentMessages(ctx, client.SessionID, chatHistoryLimit)
	if err != nil {
		return err
	}
	history := make([]llm.Message, 0, len(recent))
	for _, m := range recent {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	if err := sink.Start("temp-" + s.now().Format("20060102150405.000")); err != nil {
		return err
	}
	var reply strings.Builder
	err = s.chat.Stream(ctx, system, history, func(chunk string) error {
		reply.WriteString(chunk)
		return sink.Chunk(chunk)
	})
	if err != nil {
		return err
	}
	if reply.Len() == 0 {
		return llm.ErrEmptyResponse
	}

	answer := db_models.ChatMessage{Role: db_models.MessageRoleAssistant, Content: reply.String(), Source: SourceLLM}
	if err := s.conversations.AppendMessages(ctx, client.SessionID, nil, answer); err != nil {
		return err
	}
	metrics.ChatReplies.WithLabelValues(SourceLLM, "ws").Inc()
	return sink.End(s.toMessage(answer))
}

func (s *ChatService) metadata(client ChatClientInfo) datatypes.JSON {
	raw, err := json.Marshal(map[string]string{
		"ipAddress": client.IPAddress,
		"userAgent": client.UserAgent,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (s *ChatService) toMessage(m db_models.ChatMessage) response_models.MessageResponse {
	ts := s.now()
	if m.CreatedAt > 0 {
		ts = utils.FromUnixSecondsKST(m.CreatedAt)
	}
	return response_models.MessageResponse{
		Role:      m.Role,
		Content:   m.Content,
		Source:    m.Source,
		Timestamp: ts,
	}
}

func (s *ChatService) GetConversation(ctx context.Context, sessionID string) (*response_models.ConversationResponse, error) {
	conv, err := s.conversations.FindBySessionID(ctx, sessionID)
	if err != nil {
		s.log.Error("find conversation", zap.String("session_id", sessionID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if conv == nil {
		return nil, utils.ErrConversationNotFound
	}
	messages := make([]response_models.MessageResponse, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, s.toMessage(m))
	}
	return &response_models.ConversationResponse{
		SessionID: conv.SessionID,
		Messages:  messages,
		UpdatedAt: utils.FromUnixSecondsKST(conv.UpdatedAt),
	}, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, sessionID string) error {
	deleted, err := s.conversations.DeleteBySessionID(ctx, sessionID)
	if err != nil {
		s.log.Error("delete conversation", zap.String("session_id", sessionID), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !deleted {
		return utils.ErrConversationNotFound
	}
	return nil
}
