package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/swipe"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SwipeHandler struct {
	swipeService *services.SwipeService
}

func NewSwipeHandler(swipeService *services.SwipeService) *SwipeHandler {
	return &SwipeHandler{
		swipeService: swipeService,
	}
}

func (h *SwipeHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	cards, err := h.swipeService.GetCandidates(ctx, clerkID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load candidates")
		return
	}

	respondWithJSON(w, http.StatusOK, cards)
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req swipe.SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Direction.Valid() {
		respondWithError(w, http.StatusBadRequest, "direction must be left, right or super")
		return
	}

	result, err := h.swipeService.RecordSwipe(ctx, clerkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadySwiped):
			respondWithError(w, http.StatusConflict, "Profile already swiped")
		case errors.Is(err, services.ErrSelfSwipe):
			respondWithError(w, http.StatusBadRequest, "Cannot swipe own profile")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record swipe")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *SwipeHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	matches, err := h.swipeService.ListMatches(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load matches")
		return
	}

	respondWithJSON(w, http.StatusOK, matches)
}

func (h *SwipeHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	matchID, err := uuid.Parse(mux.Vars(r)["matchId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	if err := h.swipeService.Unmatch(ctx, clerkID, matchID); err != nil {
		respondWithError(w, http.StatusNotFound, "Match not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "unmatched"})
}
