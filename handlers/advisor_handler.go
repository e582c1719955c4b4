package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/advisor"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"
)

type AdvisorHandler struct {
	advisorService *services.AdvisorService
}

func NewAdvisorHandler(advisorService *services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
	}
}

func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req advisor.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.advisorService.Chat(ctx, clerkID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to answer")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *AdvisorHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.advisorService.History(ctx, clerkID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load chat history")
		return
	}

	respondWithJSON(w, http.StatusOK, messages)
}

func (h *AdvisorHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.advisorService.ClearHistory(ctx, clerkID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear chat history")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *AdvisorHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.advisorService.ListProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}
