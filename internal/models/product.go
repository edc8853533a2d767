// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

// Product is the aggregate root. Ingredients, value-chain entries and
// derived classifications belong to exactly one product and are removed
// with it.
type Product struct {
	BaseModel
	UserID         *uuid.UUID      `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	Category       ProductCategory `json:"category" gorm:"size:100;index"`
	SKU            *string         `json:"sku,omitempty" gorm:"size:100"`
	TotalCO2       float64         `json:"total_co2" gorm:"not null;default:0"`
	LastCalculated string          `json:"last_calculated" gorm:"size:50"`

	// Relationships
	Ingredients     []Ingredient        `json:"ingredients,omitempty" gorm:"foreignKey:ProductID"`
	ValueChain      []ValueChainEntry   `json:"value_chain,omitempty" gorm:"foreignKey:ProductID"`
	Classifications []LCAClassification `json:"classifications,omitempty" gorm:"foreignKey:ProductID"`
}
