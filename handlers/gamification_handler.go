package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/progression"
	"github.com/Single-Connect/singles-connect-optimized/middleware"
	"github.com/Single-Connect/singles-connect-optimized/services"
)

type GamificationHandler struct {
	progressionService *services.ProgressionService
	achievementService *services.AchievementService
	leaderboardService *services.LeaderboardService
}

func NewGamificationHandler(ps *services.ProgressionService, as *services.AchievementService, ls *services.LeaderboardService) *GamificationHandler {
	return &GamificationHandler{
		progressionService: ps,
		achievementService: as,
		leaderboardService: ls,
	}
}

func (h *GamificationHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.progressionService.Progress(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

func (h *GamificationHandler) PreviewDailyReward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	preview, err := h.progressionService.PreviewDailyReward(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to preview reward")
		return
	}

	respondWithJSON(w, http.StatusOK, preview)
}

func (h *GamificationHandler) ClaimDailyReward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	outcome, err := h.progressionService.ClaimDailyReward(ctx, clerkID)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrAlreadyClaimed):
			middleware.CountRewardClaim("already_claimed")
			respondWithError(w, http.StatusConflict, "Daily reward already claimed today")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrStoreUnavailable):
			middleware.CountRewardClaim("error")
			respondWithError(w, http.StatusServiceUnavailable, "Try again later")
		default:
			middleware.CountRewardClaim("error")
			respondWithError(w, http.StatusInternalServerError, "Failed to claim reward")
		}
		return
	}

	middleware.CountRewardClaim("granted")
	respondWithJSON(w, http.StatusOK, outcome)
}

func (h *GamificationHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.achievementService.ListWithStatus(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

func (h *GamificationHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, progression.Levels)
}

func (h *GamificationHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
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

	board, err := h.leaderboardService.GetLeaderboard(ctx, clerkID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
