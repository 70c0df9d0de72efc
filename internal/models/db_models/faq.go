package db_models

import "github.com/lib/pq"

type Faq struct {
	BaseModel
	Question   string         `gorm:"not null"`
	Answer     string         `gorm:"type:text;not null"`
	Variations pq.StringArray `gorm:"type:text[]"`
	Keywords   pq.StringArray `gorm:"type:text[]"`
	Category   string         `gorm:"index"`
}
