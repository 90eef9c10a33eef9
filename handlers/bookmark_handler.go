package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	byteType "dailyByteAPI/internal/byte"
	"dailyByteAPI/middleware"
	"dailyByteAPI/services"
)

type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

func NewBookmarkHandler(bookmarkService *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
	}
}

func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	var body struct {
		ByteID string `json:"byteId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	byteID, err := uuid.Parse(body.ByteID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid byte id")
		return
	}

	bm, err := h.bookmarkService.Add(ctx, userID, byteID)
	if err != nil {
		if errors.Is(err, byteType.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Byte not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to add bookmark")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "data": bm})
}

func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	byteID, err := uuid.Parse(mux.Vars(r)["byteId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid byte id")
		return
	}

	if err := h.bookmarkService.Remove(ctx, userID, byteID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to remove bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckBookmark answers whether the byte is saved. Anonymous callers get
// a plain false so the UI can probe without a session.
func (h *BookmarkHandler) CheckBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	byteID, err := uuid.Parse(mux.Vars(r)["byteId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid byte id")
		return
	}

	raw, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]any{"isBookmarked": false})
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		respondWithJSON(w, http.StatusOK, map[string]any{"isBookmarked": false})
		return
	}

	isBookmarked, err := h.bookmarkService.Check(ctx, userID, byteID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to check bookmark")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"isBookmarked": isBookmarked})
}

func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarkService.List(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to list bookmarks")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(bookmarks),
		"data":    bookmarks,
	})
}
