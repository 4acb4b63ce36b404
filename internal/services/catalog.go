package services

import (
	"blgs-backend/internal/catalog"
	"blgs-backend/internal/models"
)

// LookupPlan returns the pricing tier with the given id, or a NotFoundError.
func LookupPlan(facts *models.Facts, id string) (models.PricingTier, error) {
	plan, ok := catalog.FindPlan(facts, id)
	if !ok {
		return models.PricingTier{}, &NotFoundError{Message: "Plan not found"}
	}
	return plan, nil
}
