// internal/models/ingredient.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a named input to a product. Entries without a name are
// never persisted; the store filters them out before insertion.
type Ingredient struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	Quantity       *float64  `json:"quantity,omitempty"`
	Unit           Unit      `json:"unit,omitempty" gorm:"size:10"`
	Supplier       *string   `json:"supplier,omitempty" gorm:"size:255"`
	EmissionFactor *float64  `json:"emission_factor,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
