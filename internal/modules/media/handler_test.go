package media

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repairdesk/internal/domain"
	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/response"
	"repairdesk/internal/pkg/storage"
	"repairdesk/internal/repository"
	"repairdesk/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testEndpoint = "https://storage.example"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  *storage.MemoryStore
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store := storage.NewMemoryStore(testEndpoint, "files")
	svc := NewService(repository.NewMediaRepository(db), repository.NewUserRepository(db), store, nil)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	r.Use(middleware.CORS(), middleware.Identity(nil, true))
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	return &testEnv{router: r, db: db, store: store}
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func uploadBody(orderID, name, fileType string, data []byte) map[string]any {
	return map[string]any{
		"orderId":     orderID,
		"fileData":    base64.StdEncoding.EncodeToString(data),
		"fileName":    name,
		"fileType":    fileType,
		"uploadedBy":  "Petr",
		"description": "before repair",
	}
}

func listMedia(t *testing.T, env *testEnv, orderID string) []MediaResponse {
	t.Helper()
	rr := doJSONRequest(env.router, http.MethodGet, "/api/v1/media?orderId="+orderID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	return items
}

func TestMedia_UploadListDelete(t *testing.T) {
	env := setupTestRouter(t)
	payload := []byte("0123456789")

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", uploadBody("ORD-1", "front.png", "image", payload))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var saved MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.EqualValues(t, 10, saved.FileSize)
	assert.Equal(t, "ORD-1", saved.OrderID)
	assert.Contains(t, saved.FileURL, "ORD-1")
	assert.True(t, strings.HasSuffix(saved.FileURL, ".png"))
	assert.True(t, strings.HasPrefix(saved.FileURL, testEndpoint+"/files/order-ORD-1/"))
	require.NotNil(t, saved.UploadedBy)
	assert.Equal(t, "Petr", *saved.UploadedBy)

	key := strings.TrimPrefix(saved.FileURL, testEndpoint+"/files/")
	blob, ct, ok := env.store.Get(key)
	require.True(t, ok)
	assert.Equal(t, payload, blob)
	assert.Equal(t, "image/png", ct)

	items := listMedia(t, env, "ORD-1")
	require.Len(t, items, 1)
	assert.Equal(t, saved.ID, items[0].ID)
	assert.Equal(t, "before repair", items[0].Description)

	rr = doJSONRequest(env.router, http.MethodDelete, "/api/v1/media", map[string]any{"id": saved.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	assert.Empty(t, listMedia(t, env, "ORD-1"))
	// the blob is left alone
	assert.Equal(t, 1, env.store.Len())
}

func TestMedia_UploadWithoutExtensionDefaultsToJPEG(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", uploadBody("ORD-2", "snapshot", "image", []byte("abc")))
	require.Equal(t, http.StatusCreated, rr.Code)

	var saved MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.True(t, strings.HasSuffix(saved.FileURL, ".jpg"))

	_, ct, ok := env.store.Get(strings.TrimPrefix(saved.FileURL, testEndpoint+"/files/"))
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)
}

func TestMedia_BlobFailureLeavesNoRow(t *testing.T) {
	env := setupTestRouter(t)
	env.store.FailPut = errors.New("bucket unavailable")

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", uploadBody("ORD-1", "a.mp4", "video", []byte("x")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "bucket unavailable")

	var n int64
	require.NoError(t, env.db.Model(&domain.OrderMedia{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, listMedia(t, env, "ORD-1"))
}

func TestMedia_UploadValidation(t *testing.T) {
	env := setupTestRouter(t)

	body := uploadBody("ORD-1", "a.jpg", "image", []byte("x"))
	delete(body, "fileType")
	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rr.Body.String())

	body = uploadBody("ORD-1", "a.jpg", "image", nil)
	body["fileData"] = "%%%not base64"
	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/media", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid fileData"}`, rr.Body.String())

	rr = doJSONRequest(env.router, http.MethodGet, "/api/v1/media", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"orderId is required"}`, rr.Body.String())
}

func TestMedia_UploadRejectsPathLikeOrderID(t *testing.T) {
	env := setupTestRouter(t)

	for _, id := range []string{"a/../b", `a\b`, ".."} {
		rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", uploadBody(id, "a.png", "image", []byte("x")))
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		assert.JSONEq(t, `{"error":"Invalid orderId"}`, rr.Body.String(), id)
	}
	assert.Zero(t, env.store.Len())

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", uploadBody("ORD-9", "x.p/../ng", "image", []byte("x")))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var saved MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	key := strings.TrimPrefix(saved.FileURL, testEndpoint+"/files/")
	assert.Regexp(t, `^order-ORD-9/[0-9a-f-]+\.jpg$`, key)
}

func TestMedia_UploadAcceptsDataURL(t *testing.T) {
	env := setupTestRouter(t)

	body := uploadBody("ORD-3", "a.webp", "image", nil)
	body["fileData"] = "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("12345"))
	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var saved MediaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.EqualValues(t, 5, saved.FileSize)
}

func TestMedia_DeleteErrors(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodDelete, "/api/v1/media", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"id required"}`, rr.Body.String())

	rr = doJSONRequest(env.router, http.MethodDelete, "/api/v1/media?id=42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(env.router, http.MethodDelete, "/api/v1/media?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMedia_Avatar(t *testing.T) {
	env := setupTestRouter(t)
	u := testutil.CreateUser(t, env.db, "petr", "Petr", domain.RoleMaster)

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/media?action=avatar", map[string]any{
		"userId":   u.ID,
		"fileData": base64.StdEncoding.EncodeToString([]byte("face")),
		"fileName": "me.png",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got AvatarResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Contains(t, got.AvatarURL, "/avatars/user-")
	assert.True(t, strings.HasSuffix(got.AvatarURL, ".png"))

	var stored domain.User
	require.NoError(t, env.db.First(&stored, u.ID).Error)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, got.AvatarURL, *stored.AvatarURL)

	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/media?action=delete-avatar", map[string]any{"userId": u.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, env.db.First(&stored, u.ID).Error)
	assert.Nil(t, stored.AvatarURL)

	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/media?action=avatar", map[string]any{
		"userId":   9999,
		"fileData": base64.StdEncoding.EncodeToString([]byte("face")),
		"fileName": "me.png",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/media?action=delete-avatar", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		ext, fileType, want string
	}{
		{"JPG", "image", "image/jpeg"},
		{"mov", "video", "video/quicktime"},
		{"xyz", "image", "image/jpeg"},
		{"xyz", "video", "video/mp4"},
		{"xyz", "document", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentTypeFor(tt.ext, tt.fileType), tt.ext+"/"+tt.fileType)
	}

	assert.Equal(t, "jpg", extension("noext"))
	assert.Equal(t, "jpg", extension("trailing."))
	assert.Equal(t, "gz", extension("archive.tar.gz"))
	assert.Equal(t, "jpg", extension("evil.p/ng"))
	assert.Equal(t, "jpg", extension("x.фото"))

	assert.True(t, validKeySegment("ORD-1"))
	assert.False(t, validKeySegment("a/b"))
	assert.False(t, validKeySegment(".."))
}
