package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type DiagnosisQuestion struct {
	BaseModel
	SortOrder int            `gorm:"not null;index"`
	Question  string         `gorm:"not null"`
	Type      string         `gorm:"size:16;not null"` // single | multiple | range | input
	Options   pq.StringArray `gorm:"type:text[]"`
	Category  string         `gorm:"size:16;not null"` // data | budget | usage | age | preference
	Weight    int            `gorm:"not null"`
	IsActive  bool           `gorm:"not null;index"`
}

// DiagnosisResult is written once per session. The unique index on SessionID
// is what settles concurrent submissions of the same session.
type DiagnosisResult struct {
	BaseModel
	SessionID        string         `gorm:"uniqueIndex;size:100;not null"`
	UserID           *uuid.UUID     `gorm:"type:uuid;index"`
	Answers          datatypes.JSON `gorm:"type:jsonb"`
	AnalysisResult   datatypes.JSON `gorm:"type:jsonb"`
	RecommendedPlans datatypes.JSON `gorm:"type:jsonb"`
	TotalScore       int
}
