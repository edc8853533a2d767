// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are assigned client-side so the
// same models work against Postgres and the sqlite test databases.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums

type ProductCategory string

const (
	CategorySnacks        ProductCategory = "Snacks"
	CategoryBeverages     ProductCategory = "Beverages"
	CategoryBakedGoods    ProductCategory = "Baked Goods"
	CategoryDairyProducts ProductCategory = "Dairy Products"
	CategoryMeatProducts  ProductCategory = "Meat Products"
	CategoryFrozenFoods   ProductCategory = "Frozen Foods"
	CategoryCannedGoods   ProductCategory = "Canned Goods"
)

func ProductCategories() []ProductCategory {
	return []ProductCategory{
		CategorySnacks,
		CategoryBeverages,
		CategoryBakedGoods,
		CategoryDairyProducts,
		CategoryMeatProducts,
		CategoryFrozenFoods,
		CategoryCannedGoods,
	}
}

func (c ProductCategory) Valid() bool {
	for _, known := range ProductCategories() {
		if c == known {
			return true
		}
	}
	return false
}

type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "mL"
	UnitPieces     Unit = "pcs"
	UnitOunce      Unit = "oz"
	UnitPound      Unit = "lb"
)

func Units() []Unit {
	return []Unit{UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPieces, UnitOunce, UnitPound}
}

func (u Unit) Valid() bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}

// ValueChainStage is the user-facing grouping of an activity within the
// product's value chain, distinct from the derived LCA stage.
type ValueChainStage string

const (
	StageRawMaterials   ValueChainStage = "Raw Materials"
	StageProcessing     ValueChainStage = "Processing"
	StagePackaging      ValueChainStage = "Packaging"
	StageTransportation ValueChainStage = "Transportation"
	StageDistribution   ValueChainStage = "Distribution"
	StageUsePhase       ValueChainStage = "Use Phase"
	StageEndOfLife      ValueChainStage = "End of Life"
)

func ValueChainStages() []ValueChainStage {
	return []ValueChainStage{
		StageRawMaterials,
		StageProcessing,
		StagePackaging,
		StageTransportation,
		StageDistribution,
		StageUsePhase,
		StageEndOfLife,
	}
}

func (s ValueChainStage) Valid() bool {
	for _, known := range ValueChainStages() {
		if s == known {
			return true
		}
	}
	return false
}

// LastCalculated markers stored on products. The dashboard shows these
// verbatim; imports are flagged so placeholder totals are recognizable.
const (
	CalculatedMarkerNew      = "Just now"
	CalculatedMarkerUpdated  = "Just updated"
	CalculatedMarkerImported = "Imported"
)
