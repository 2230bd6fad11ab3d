package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/service"
	"github.com/bbdolx/backend/internal/transport/http/middleware"
	"github.com/bbdolx/backend/pkg/validator"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Search is the public discovery endpoint: GET /listings?q=&category=&sort=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	listings, err := h.catalogService.Search(r.Context(), service.SearchInput{
		Query:        q.Get("q"),
		CategorySlug: q.Get("category"),
		Sort:         q.Get("sort"),
	})
	if err != nil {
		log.Printf("ERROR search listings: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, listings)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		log.Printf("ERROR list categories: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateCategory(input.Name, input.Slug); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStaff):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Staff privileges required")
		case errors.Is(err, service.ErrSlugTaken):
			writeError(w, http.StatusConflict, "SLUG_TAKEN", "Category slug is already taken")
		default:
			log.Printf("ERROR create category: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, category)
}
