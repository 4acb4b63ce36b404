package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blgs-backend/internal/models"
	"blgs-backend/internal/services"
)

// CatalogHandler serves the business facts the landing page renders. The
// chat prompt is rendered from the same value.
type CatalogHandler struct {
	facts *models.Facts
}

func NewCatalogHandler(facts *models.Facts) *CatalogHandler {
	return &CatalogHandler{facts: facts}
}

func (h *CatalogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.facts)
}

func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"services": h.facts.Services})
}

func (h *CatalogHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans":    h.facts.Plans,
		"linkedin": h.facts.LinkedIn,
	})
}

func (h *CatalogHandler) Plan(w http.ResponseWriter, r *http.Request) {
	plan, err := services.LookupPlan(h.facts, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *CatalogHandler) FAQ(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"faq": h.facts.FAQ})
}
