package handlers

import (
	"strings"

	"github.com/texfolio/stockroom/internal/models"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if !models.ValidCategory(p.Type) {
		errs = append(errs, ProductValidationError{Field: "Type", Description: "Type must be one of: " + strings.Join(models.Categories, ", ")})
	}
	if p.Price < 0 {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price cannot be negative"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ProductValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
	}
	if p.Cost < 0 {
		errs = append(errs, ProductValidationError{Field: "Cost", Description: "Cost cannot be negative"})
	}
	if len(p.Description) > 500 {
		errs = append(errs, ProductValidationError{Field: "Description", Description: "Description must be at most 500 characters"})
	}
	if len(p.Caption) > 200 {
		errs = append(errs, ProductValidationError{Field: "Caption", Description: "Caption must be at most 200 characters"})
	}
	return errs
}
