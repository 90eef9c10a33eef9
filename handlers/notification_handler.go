package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dailyByteAPI/internal/notification"
	"dailyByteAPI/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	var req notification.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.Token == "" {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Device token is required")
		return
	}

	device, err := h.notificationService.RegisterDevice(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to register device")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "data": device})
}
