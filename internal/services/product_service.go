// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/emissionsiq/emissionsiq-backend/internal/classifier"
	"github.com/emissionsiq/emissionsiq-backend/internal/models"
	"github.com/emissionsiq/emissionsiq-backend/internal/utils"
)

// ProductService owns the product aggregate: products plus their
// ingredients, value-chain entries and derived classifications. Every
// mutation runs under a write deadline and is deduplicated per product
// so a rapid double-submit performs the work once.
type ProductService struct {
	db           *gorm.DB
	writeTimeout time.Duration
	inflight     singleflight.Group
}

type CreateProductRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Category string `json:"category" validate:"required,product_category"`
	SKU      string `json:"sku,omitempty" validate:"omitempty,max=100"`
}

type UpdateProductRequest struct {
	Name     string   `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Category string   `json:"category,omitempty" validate:"omitempty,product_category"`
	SKU      *string  `json:"sku,omitempty" validate:"omitempty,max=100"`
	TotalCO2 *float64 `json:"total_co2,omitempty" validate:"omitempty,min=0"`
}

type IngredientInput struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit     string   `json:"unit,omitempty" validate:"measure_unit"`
	Supplier string   `json:"supplier,omitempty" validate:"omitempty,max=255"`
}

type ValueChainInput struct {
	Stage       string   `json:"stage" validate:"required,value_chain_stage"`
	Activity    string   `json:"activity"`
	Description string   `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit        string   `json:"unit,omitempty" validate:"measure_unit"`
	Scope       *int     `json:"scope,omitempty" validate:"omitempty,min=1,max=3"`
}

// ProductSummary is the dashboard roll-up, recomputed on every call.
type ProductSummary struct {
	ProductCount   int64   `json:"product_count"`
	TotalEmissions float64 `json:"total_emissions"`
}

// StageBreakdown groups one stage's entries with their classifications.
type StageBreakdown struct {
	Stage           models.ValueChainStage     `json:"stage"`
	Entries         []models.ValueChainEntry   `json:"entries"`
	Classifications []models.LCAClassification `json:"classifications"`
}

func NewProductService(db *gorm.DB, writeTimeout time.Duration) *ProductService {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &ProductService{
		db:           db,
		writeTimeout: writeTimeout,
	}
}

// IsRetryable reports whether an operation failed on its deadline and
// may safely be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func (s *ProductService) ListProducts(ctx context.Context, params utils.ListParams) ([]models.Product, int64, error) {
	query := params.Filter(s.db.WithContext(ctx).Model(&models.Product{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = params.Apply(query)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("ValueChain").
		Preload("Classifications").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, userID *uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	product := &models.Product{
		UserID:         userID,
		Name:           req.Name,
		Category:       models.ProductCategory(req.Category),
		TotalCO2:       0,
		LastCalculated: models.CalculatedMarkerNew,
	}
	if req.SKU != "" {
		product.SKU = &req.SKU
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result, err, _ := s.inflight.Do("update:"+id.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()

		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("product not found")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{
			"last_calculated": models.CalculatedMarkerUpdated,
		}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Category != "" {
			updates["category"] = req.Category
		}
		if req.SKU != nil {
			updates["sku"] = *req.SKU
		}
		// total_co2 stays untouched unless explicitly included
		if req.TotalCO2 != nil {
			updates["total_co2"] = *req.TotalCO2
		}

		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}

		return &product, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Product), nil
}

// DeleteProduct removes the product and every owned child row in one
// transaction so no orphans stay queryable by the product's id.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	_, err, _ := s.inflight.Do("delete:"+id.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()

		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("product not found")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", id).Delete(&models.LCAClassification{}).Error; err != nil {
				return fmt.Errorf("failed to delete classifications: %w", err)
			}
			if err := tx.Where("product_id = ?", id).Delete(&models.ValueChainEntry{}).Error; err != nil {
				return fmt.Errorf("failed to delete value chain entries: %w", err)
			}
			if err := tx.Where("product_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
				return fmt.Errorf("failed to delete ingredients: %w", err)
			}
			if err := tx.Delete(&product).Error; err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
			return nil
		})
		return nil, err
	})
	return err
}

// AddIngredients persists a batch of ingredients, dropping entries with
// an empty name. An all-empty batch is a successful no-op.
func (s *ProductService) AddIngredients(ctx context.Context, productID uuid.UUID, inputs []IngredientInput) ([]models.Ingredient, error) {
	for i := range inputs {
		if err := utils.ValidateStruct(&inputs[i]); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	result, err, _ := s.inflight.Do("ingredients:"+productID.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()

		if _, err := s.requireProduct(ctx, productID); err != nil {
			return nil, err
		}

		var ingredients []models.Ingredient
		for _, input := range inputs {
			if strings.TrimSpace(input.Name) == "" {
				continue
			}
			ingredient := models.Ingredient{
				ProductID: productID,
				Name:      input.Name,
				Quantity:  input.Quantity,
				Unit:      models.Unit(input.Unit),
			}
			if input.Supplier != "" {
				supplier := input.Supplier
				ingredient.Supplier = &supplier
			}
			ingredients = append(ingredients, ingredient)
		}

		if len(ingredients) == 0 {
			return []models.Ingredient{}, nil
		}

		if err := s.db.WithContext(ctx).Create(&ingredients).Error; err != nil {
			return nil, fmt.Errorf("failed to insert ingredients: %w", err)
		}

		return ingredients, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Ingredient), nil
}

// ReplaceValueChain swaps the product's activities for the given set
// and regenerates one classification row per persisted activity.
// Entries with an empty activity description are dropped. The whole
// replace runs in a single transaction so a failure partway leaves the
// previous state intact.
func (s *ProductService) ReplaceValueChain(ctx context.Context, productID uuid.UUID, inputs []ValueChainInput) ([]models.ValueChainEntry, error) {
	for i := range inputs {
		if strings.TrimSpace(inputs[i].Activity) == "" {
			// filtered below, skip field validation for discarded rows
			continue
		}
		if err := utils.ValidateStruct(&inputs[i]); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	result, err, _ := s.inflight.Do("value-chain:"+productID.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		defer cancel()

		if _, err := s.requireProduct(ctx, productID); err != nil {
			return nil, err
		}

		var entries []models.ValueChainEntry
		var classifications []models.LCAClassification
		for _, input := range inputs {
			if strings.TrimSpace(input.Activity) == "" {
				continue
			}

			parsed := classifier.ParseActivity(input.Activity)

			entry := models.ValueChainEntry{
				ProductID: productID,
				Stage:     models.ValueChainStage(input.Stage),
				Activity:  input.Activity,
				Quantity:  input.Quantity,
				Unit:      models.Unit(input.Unit),
			}
			if input.Description != "" {
				description := input.Description
				entry.Description = &description
			}
			if input.Scope != nil {
				entry.Scope = input.Scope
			} else {
				derived := parsed.ScopeNumber()
				entry.Scope = &derived
			}
			entries = append(entries, entry)

			unit := models.Unit(input.Unit)
			if unit == "" {
				unit = models.UnitKilogram
			}
			classifications = append(classifications, models.LCAClassification{
				ProductID:    productID,
				ActivityName: input.Activity,
				ActivityType: parsed.ActivityType,
				Source:       parsed.Source,
				LCAStage:     parsed.LCAStage,
				Scope:        parsed.ScopeNumber(),
				Unit:         unit,
			})
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", productID).Delete(&models.LCAClassification{}).Error; err != nil {
				return fmt.Errorf("failed to delete classifications: %w", err)
			}
			if err := tx.Where("product_id = ?", productID).Delete(&models.ValueChainEntry{}).Error; err != nil {
				return fmt.Errorf("failed to delete value chain entries: %w", err)
			}
			if len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return fmt.Errorf("failed to insert value chain entries: %w", err)
				}
				if err := tx.Create(&classifications).Error; err != nil {
					return fmt.Errorf("failed to insert classifications: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if entries == nil {
			entries = []models.ValueChainEntry{}
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.ValueChainEntry), nil
}

// GetBreakdown groups the product's activities by value-chain stage.
func (s *ProductService) GetBreakdown(ctx context.Context, productID uuid.UUID) ([]StageBreakdown, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	classificationsByActivity := make(map[string][]models.LCAClassification)
	for _, c := range product.Classifications {
		classificationsByActivity[c.ActivityName] = append(classificationsByActivity[c.ActivityName], c)
	}

	var breakdown []StageBreakdown
	for _, stage := range models.ValueChainStages() {
		var entries []models.ValueChainEntry
		var classifications []models.LCAClassification
		for _, entry := range product.ValueChain {
			if entry.Stage != stage {
				continue
			}
			entries = append(entries, entry)
			classifications = append(classifications, classificationsByActivity[entry.Activity]...)
		}
		if len(entries) == 0 {
			continue
		}
		breakdown = append(breakdown, StageBreakdown{
			Stage:           stage,
			Entries:         entries,
			Classifications: classifications,
		})
	}

	return breakdown, nil
}

// GetSummary recomputes the dashboard totals on every call; nothing is
// cached between reads.
func (s *ProductService) GetSummary(ctx context.Context) (*ProductSummary, error) {
	summary := &ProductSummary{}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&summary.ProductCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(SUM(total_co2), 0)").
		Scan(&summary.TotalEmissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum emissions: %w", err)
	}

	return summary, nil
}

func (s *ProductService) requireProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
