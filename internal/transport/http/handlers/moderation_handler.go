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
)

type ModerationHandler struct {
	moderationService *service.ModerationService
}

func NewModerationHandler(moderationService *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// List is the moderation dashboard: GET /moderation/listings?status=
// The status filter defaults to PENDING.
func (h *ModerationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	status := domain.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be PENDING, APPROVED, REJECTED, or SOLD")
		return
	}

	listings, err := h.moderationService.List(r.Context(), userID, status)
	if err != nil {
		if errors.Is(err, service.ErrNotStaff) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Staff privileges required")
		} else {
			log.Printf("ERROR moderation list: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	writeJSON(w, http.StatusOK, listings)
}

func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	listing, err := h.moderationService.Approve(r.Context(), userID, listingID)
	if err != nil {
		h.writeModerationError(w, "approve", err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

type rejectInput struct {
	Reason string `json:"reason"`
}

func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var input rejectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	listing, err := h.moderationService.Reject(r.Context(), userID, listingID, input.Reason)
	if err != nil {
		h.writeModerationError(w, "reject", err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *ModerationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	if err := h.moderationService.Delete(r.Context(), userID, listingID); err != nil {
		h.writeModerationError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ModerationHandler) writeModerationError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, service.ErrNotStaff):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Staff privileges required")
	case errors.Is(err, service.ErrListingNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Listing not found")
	default:
		log.Printf("ERROR moderation %s: %v", action, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
