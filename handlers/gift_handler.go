package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/gift"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type GiftHandler struct {
	giftService *services.GiftService
}

func NewGiftHandler(giftService *services.GiftService) *GiftHandler {
	return &GiftHandler{
		giftService: giftService,
	}
}

func (h *GiftHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, gift.Catalog)
}

func (h *GiftHandler) SendGift(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req gift.SendGiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.giftService.SendGift(ctx, clerkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCatalogItemNotFound):
			respondWithError(w, http.StatusNotFound, "Gift not found in catalog")
		case errors.Is(err, services.ErrInsufficientCoins):
			respondWithError(w, http.StatusPaymentRequired, "Not enough coins")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to send gift")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *GiftHandler) GetReceivedGifts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	gifts, err := h.giftService.ListReceived(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load gifts")
		return
	}

	respondWithJSON(w, http.StatusOK, gifts)
}

func (h *GiftHandler) GetSentGifts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	gifts, err := h.giftService.ListSent(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load gifts")
		return
	}

	respondWithJSON(w, http.StatusOK, gifts)
}

func (h *GiftHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	giftID, err := uuid.Parse(mux.Vars(r)["giftId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid gift id")
		return
	}

	if err := h.giftService.MarkDelivered(ctx, clerkID, giftID); err != nil {
		respondWithError(w, http.StatusNotFound, "Gift not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "delivered"})
}
