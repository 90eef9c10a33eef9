package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dailyByteAPI/internal/user"
	"dailyByteAPI/middleware"
	"dailyByteAPI/services"
	"dailyByteAPI/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func authResponse(u *user.User) (*user.AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID.String())
	if err != nil {
		return nil, err
	}

	return &user.AuthResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Token:     token,
	}, nil
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Please provide firstName, lastName, email and password")
		return
	}
	if len(req.FirstName) > 25 || len(req.LastName) > 25 {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Names cannot be more than 25 characters")
		return
	}

	u, err := h.userService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			respondWithError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to register user")
		return
	}

	resp, err := authResponse(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to log in")
		return
	}

	resp, err := authResponse(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req user.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.IDToken == "" {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "idToken is required")
		return
	}

	u, err := h.userService.GoogleLogin(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Google token verification failed")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to log in with Google")
		return
	}

	resp, err := authResponse(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := requireUser(w, ctx)
	if !ok {
		return
	}

	u, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

// requireUser pulls the authenticated user id out of the context and
// writes the 401 itself when it is missing or malformed.
func requireUser(w http.ResponseWriter, ctx context.Context) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "User not authenticated")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid user identity")
		return uuid.Nil, false
	}

	return userID, true
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "INTERNAL", "message": "Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, kind string, message string) {
	respondWithJSON(w, code, map[string]any{
		"success": false,
		"error":   kind,
		"message": message,
	})
}
