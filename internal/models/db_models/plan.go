package db_models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	PlanCategory5G    = "5G"
	PlanCategoryLTE   = "LTE"
	PlanCategoryOther = "기타"
)

type Plan struct {
	BaseModel
	Name       string         `gorm:"not null;index"`
	Category   string         `gorm:"size:16;index"` // "5G" | "LTE" | "기타"
	Price      string         // display price, e.g. "69,000원"
	PriceValue int64          `gorm:"not null;index"`
	SalePrice  string
	PlanSpeed  string
	Infos      pq.StringArray `gorm:"type:text[]"`
	Benefits   datatypes.JSON `gorm:"type:jsonb"`
	Brands     pq.StringArray `gorm:"type:text[]"`
	// Badge is either a JSON string or a JSON array of strings.
	Badge    datatypes.JSON `gorm:"type:jsonb"`
	MinAge   *int
	MaxAge   *int
	IsActive bool `gorm:"not null;index"`
}
