package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

type Conversation struct {
	BaseModel
	SessionID string         `gorm:"uniqueIndex;size:64;not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"` // ip address, user agent
	Messages  []ChatMessage  `gorm:"foreignKey:ConversationID"`
}

type ChatMessage struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null"`
	Position       int       `gorm:"not null"` // order within the conversation
	Role           string    `gorm:"size:16;not null"`
	Content        string    `gorm:"type:text;not null"`
	Source         string    `gorm:"size:16"` // faq | faq_semantic | llm, assistant messages only
}
