// internal/models/classification.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LCAClassification is the derived row for one persisted value-chain
// entry: keyword-matched activity type and source plus the derived LCA
// stage and scope number. The whole set is regenerated whenever the
// parent product's activities are replaced.
type LCAClassification struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ActivityName string    `json:"activity_name" gorm:"size:500;not null"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null"`
	Source       string    `json:"source" gorm:"size:50;not null"`
	LCAStage     string    `json:"lca_stage,omitempty" gorm:"size:50"`
	Scope        int       `json:"scope,omitempty"`
	Unit         Unit      `json:"unit,omitempty" gorm:"size:10"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *LCAClassification) TableName() string {
	return "lca_classification"
}

func (c *LCAClassification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
