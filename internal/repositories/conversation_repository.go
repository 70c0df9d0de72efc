package repositories

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
	"yoplan/pkg/utils"
)

type ConversationRepository interface {
	FindBySessionID(ctx context.Context, sessionID string) (*db_models.Conversation, error)
	// AppendMessages creates the conversation on first use and adds messages in order.
	AppendMessages(ctx context.Context, sessionID string, metadata datatypes.JSON, messages ...db_models.ChatMessage) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]db_models.ChatMessage, error)
	DeleteBySessionID(ctx context.Context, sessionID string) (bool, error)
	DeleteAll(ctx context.Context) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindBySessionID(ctx context.Context, sessionID string) (*db_models.Conversation, error) {
	var conv db_models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&conv, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) AppendMessages(ctx context.Context, sessionID string, metadata datatypes.JSON, messages ...db_models.ChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv db_models.Conversation
		err := tx.First(&conv, "session_id = ?", sessionID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			conv = db_models.Conversation{SessionID: sessionID, Metadata: metadata}
			if err := tx.Create(&conv).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		var count int64
		if err := tx.Model(&db_models.ChatMessage{}).Where("conversation_id = ?", conv.ID).Count(&count).Error; err != nil {
			return err
		}
		for i := range messages {
			messages[i].ConversationID = conv.ID
			messages[i].Position = int(count) + i
			if err := tx.Create(&messages[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&conv).UpdateColumn("updated_at", utils.NowUnixSeconds()).Error
	})
}

// RecentMessages returns the last limit messages, oldest first.
func (r *conversationRepository) RecentMessages(ctx context.Context, sessionID string, limit int) ([]db_models.ChatMessage, error) {
	var conv db_models.Conversation
	err := r.db.WithContext(ctx).Select("id").First(&conv, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []db_models.ChatMessage{}, nil
		}
		return nil, err
	}

	var msgs []db_models.ChatMessage
	err = r.db.WithContext(ctx).
		Where("conversation_id = ?", conv.ID).
		Order("position DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *conversationRepository) DeleteBySessionID(ctx context.Context, sessionID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv db_models.Conversation
		err := tx.Select("id").First(&conv, "session_id = ?", sessionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Where("conversation_id = ?", conv.ID).Delete(&db_models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&db_models.Conversation{}, "id = ?", conv.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *conversationRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// each delete needs its own statement
		all := func() *gorm.DB { return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped() }
		if err := all().Delete(&db_models.ChatMessage{}).Error; err != nil {
			return err
		}
		return all().Delete(&db_models.Conversation{}).Error
	})
}
