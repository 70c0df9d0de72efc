package response_models

import "time"

type ChatReply struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationResponse struct {
	SessionID string            `json:"sessionId"`
	Messages  []MessageResponse `json:"messages"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type FaqResponse struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Variations []string `json:"variations"`
	Keywords   []string `json:"keywords"`
	Category   string   `json:"category,omitempty"`
}

type HealthResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
