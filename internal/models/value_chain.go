// internal/models/value_chain.go
package models

import (
	"github.com/google/uuid"
)

// ValueChainEntry is one activity in a product's value chain. The
// activity text is required; an entry with an empty description is
// never persisted. Scope is the GHG Protocol scope number (1..3),
// either chosen by the user or derived by the classifier.
type ValueChainEntry struct {
	BaseModel
	ProductID      uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Stage          ValueChainStage `json:"stage" gorm:"size:50;not null"`
	Activity       string          `json:"activity" gorm:"size:500;not null"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	Quantity       *float64        `json:"quantity,omitempty"`
	Unit           Unit            `json:"unit,omitempty" gorm:"size:10"`
	EmissionFactor *float64        `json:"emission_factor,omitempty"`
	Emissions      *float64        `json:"emissions,omitempty"`
	Scope          *int            `json:"scope,omitempty"`
}
