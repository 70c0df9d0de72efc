package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark rows are hard deleted so the (user, plan) pair can be bookmarked again.
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_plan"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_plan"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	Plan      Plan      `gorm:"foreignKey:PlanID"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
