package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	byteType "dailyByteAPI/internal/byte"
	"dailyByteAPI/services"
)

type ByteHandler struct {
	byteService *services.ByteService
}

func NewByteHandler(byteService *services.ByteService) *ByteHandler {
	return &ByteHandler{
		byteService: byteService,
	}
}

func (h *ByteHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, fallback, err := h.byteService.GetToday(ctx, time.Now())
	if err != nil {
		if errors.Is(err, byteType.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "NOT_FOUND", "No bytes found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get today's byte")
		return
	}

	payload := map[string]any{
		"success": true,
		"data":    b,
	}
	if fallback {
		payload["message"] = "No byte for today, showing the most recent one"
	}

	respondWithJSON(w, http.StatusOK, payload)
}

func (h *ByteHandler) ListBytes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := byteType.Filter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	}

	page := 1
	if raw := r.URL.Query().Get("chunkCount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "chunkCount must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.byteService.List(ctx, filter, page)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to list bytes")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"count":      len(result.Items),
		"data":       result.Items,
		"pagination": result.Pagination,
		"metadata":   result.Metadata,
	})
}

func (h *ByteHandler) GetByteByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid byte id")
		return
	}

	b, err := h.byteService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, byteType.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Byte not found with id: "+id.String())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get byte")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "data": b})
}

func (h *ByteHandler) GetBytesByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category := mux.Vars(r)["categoryName"]

	bytes, err := h.byteService.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, byteType.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "NOT_FOUND", "No bytes found in category: "+category)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get bytes by category")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(bytes),
		"data":    bytes,
	})
}

func (h *ByteHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.byteService.GetCategories(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get categories")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(categories),
		"data":    categories,
	})
}

func (h *ByteHandler) CreateByte(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req byteType.CreateByteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.byteService.Create(ctx, &req)
	if err != nil {
		var vErr *byteType.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to create byte")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "data": b})
}
