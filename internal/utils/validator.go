// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emissionsiq/emissionsiq-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("product_category", validateProductCategory)
	validate.RegisterValidation("measure_unit", validateUnit)
	validate.RegisterValidation("value_chain_stage", validateValueChainStage)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateProductCategory(fl validator.FieldLevel) bool {
	return models.ProductCategory(fl.Field().String()).Valid()
}

func validateUnit(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Unit(value).Valid()
}

func validateValueChainStage(fl validator.FieldLevel) bool {
	return models.ValueChainStage(fl.Field().String()).Valid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "product_category":
		return e.Field() + " must be one of the known product categories"
	case "measure_unit":
		return e.Field() + " must be one of: kg, g, L, mL, pcs, oz, lb"
	case "value_chain_stage":
		return e.Field() + " must be a known value chain stage"
	default:
		return e.Field() + " is invalid"
	}
}
