package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/shop"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"
)

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

func (h *ShopHandler) GetCoinPackages(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.shopService.ListPackages())
}

func (h *ShopHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req shop.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.shopService.CreateCheckout(ctx, clerkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPackageNotFound):
			respondWithError(w, http.StatusNotFound, "Coin package not found")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create checkout")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
