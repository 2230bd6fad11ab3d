package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/bbdolx/backend/internal/domain"
	"github.com/bbdolx/backend/internal/service"
	"github.com/bbdolx/backend/internal/transport/http/middleware"
	"github.com/bbdolx/backend/pkg/validator"
)

type ListingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateListing(input.Title, input.Description, input.CategorySlug, input.Price, input.Condition); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	listing, err := h.listingService.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		} else {
			log.Printf("ERROR create listing: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	listing, err := h.listingService.GetByID(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
		} else {
			log.Printf("ERROR get listing: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var input service.UpdateListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if input.Condition != nil && !domain.Condition(*input.Condition).Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Condition must be NEW, LIKE_NEW, or USED")
		return
	}

	listing, err := h.listingService.Update(r.Context(), userID, listingID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the listing owner can edit it")
		case errors.Is(err, service.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		default:
			log.Printf("ERROR update listing: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	listing, err := h.listingService.MarkSold(r.Context(), userID, listingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the listing owner can mark it sold")
		case errors.Is(err, service.ErrNotApproved):
			writeError(w, http.StatusConflict, "NOT_APPROVED", "Only approved listings can be marked sold")
		default:
			log.Printf("ERROR mark sold: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listings, err := h.listingService.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR my listings: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, listings)
}
