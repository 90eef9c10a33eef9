package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyByteAPI/middleware"
	"dailyByteAPI/services"
)

// authedRequest injects a user id the way the auth middleware would.
func authedRequest(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestUpdateStreak_Unauthenticated(t *testing.T) {
	h := NewStreakHandler(services.NewStreakService(nil))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/streaks/update", nil)
	rr := httptest.NewRecorder()

	h.UpdateStreak(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "UNAUTHENTICATED", body["error"])
}

func TestGetStreakInfo_Unauthenticated(t *testing.T) {
	h := NewStreakHandler(services.NewStreakService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks", nil)
	rr := httptest.NewRecorder()

	h.GetStreakInfo(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	h := NewUserHandler(services.NewUserService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	rr := httptest.NewRecorder()

	h.GetProfile(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeError(t, rr)
	assert.Contains(t, body["message"], "not authenticated")
}

func TestRegister_MissingFields(t *testing.T) {
	h := NewUserHandler(services.NewUserService(nil))

	payload := `{"firstName": "Ada", "email": "ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(payload))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestRegister_NameTooLong(t *testing.T) {
	h := NewUserHandler(services.NewUserService(nil))

	payload := `{"firstName": "` + strings.Repeat("a", 26) + `", "lastName": "B", "email": "a@example.com", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(payload))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateByte_RejectsShortSummary(t *testing.T) {
	h := NewByteHandler(services.NewByteService(nil))

	payload := `{
		"title": "Anchoring",
		"summary": "too short",
		"example": "` + strings.Repeat("x", 120) + `",
		"category": "Biases",
		"quiz": {"question": "Q?", "options": ["a", "b"], "correctAnswer": "a"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/byte", strings.NewReader(payload))
	rr := httptest.NewRecorder()

	h.CreateByte(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
	assert.Contains(t, body["message"], "summary")
}

func TestListBytes_RejectsBadChunkCount(t *testing.T) {
	h := NewByteHandler(services.NewByteService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/byte?chunkCount=abc", nil)
	rr := httptest.NewRecorder()

	h.ListBytes(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetByteByID_RejectsMalformedID(t *testing.T) {
	h := NewByteHandler(services.NewByteService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/byte/not-a-uuid", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rr := httptest.NewRecorder()

	h.GetByteByID(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckBookmark_AnonymousGetsFalse(t *testing.T) {
	h := NewBookmarkHandler(services.NewBookmarkService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks/x/check", nil)
	req = mux.SetURLVars(req, map[string]string{"byteId": uuid.NewString()})
	rr := httptest.NewRecorder()

	h.CheckBookmark(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body["isBookmarked"])
}

func TestAddBookmark_Unauthenticated(t *testing.T) {
	h := NewBookmarkHandler(services.NewBookmarkService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", strings.NewReader(`{"byteId": "x"}`))
	rr := httptest.NewRecorder()

	h.AddBookmark(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddBookmark_RejectsMalformedByteID(t *testing.T) {
	h := NewBookmarkHandler(services.NewBookmarkService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", strings.NewReader(`{"byteId": "nope"}`))
	req = authedRequest(req, uuid.NewString())
	rr := httptest.NewRecorder()

	h.AddBookmark(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemoveBookmark_RejectsMalformedByteID(t *testing.T) {
	h := NewBookmarkHandler(services.NewBookmarkService(nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookmarks/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"byteId": "nope"})
	req = authedRequest(req, uuid.NewString())
	rr := httptest.NewRecorder()

	h.RemoveBookmark(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterDevice_RequiresToken(t *testing.T) {
	h := NewNotificationHandler(services.NewNotificationService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/register-device", strings.NewReader(`{"platform": "android"}`))
	req = authedRequest(req, uuid.NewString())
	rr := httptest.NewRecorder()

	h.RegisterDevice(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
