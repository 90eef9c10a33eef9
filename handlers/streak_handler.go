package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dailyByteAPI/internal/streak"
	"dailyByteAPI/middleware"
	"dailyByteAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

// UpdateStreak records that the user solved today's byte.
func (h *StreakHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	info, newBadges, err := h.streakService.RecordSolve(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, streak.ErrAlreadySolvedToday) {
			middleware.CountStreakUpdate("already_solved")
			respondWithError(w, http.StatusBadRequest, "ALREADY_SOLVED", "Already completed today's byte")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to update streak")
		return
	}

	switch {
	case info.CurrentStreak == 1 && info.MaxStreak == 1:
		middleware.CountStreakUpdate("started")
	case info.CurrentStreak == 1:
		middleware.CountStreakUpdate("reset")
	default:
		middleware.CountStreakUpdate("extended")
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"currentStreak":  info.CurrentStreak,
			"maxStreak":      info.MaxStreak,
			"lastSolvedDate": info.LastSolvedDate,
			"badges":         info.Badges,
			"newBadges":      newBadges,
		},
	})
}

func (h *StreakHandler) GetStreakInfo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	info, err := h.streakService.GetInfo(ctx, userID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get streak info")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    info,
	})
}
