package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// requireAdmin resolves the caller and checks their role. It writes the
// error response itself and returns false when the caller may not proceed.
func (h *AdminHandler) requireAdmin(ctx context.Context, w http.ResponseWriter) bool {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return false
	}

	isAdmin, err := h.adminService.IsAdmin(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return false
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to check permissions")
		return false
	}
	if !isAdmin {
		respondWithError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.adminService.ListUsers(ctx, limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.adminService.UpdateRole(ctx, mux.Vars(r)["userId"], req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			respondWithError(w, http.StatusBadRequest, "Role must be user or admin")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update role")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) SetVIPStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	var req struct {
		IsVip bool `json:"is_vip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.adminService.SetVIPStatus(ctx, mux.Vars(r)["userId"], req.IsVip)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update VIP status")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) GrantCoins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.adminService.GrantCoins(ctx, mux.Vars(r)["userId"], req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to grant coins")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"coins": balance})
}
