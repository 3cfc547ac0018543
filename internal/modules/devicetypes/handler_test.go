package devicetypes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairdesk/internal/domain"
	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/response"
	"repairdesk/internal/repository"
	"repairdesk/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	h := NewHandler(NewService(repository.NewDeviceTypeRepository(db)))

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	r.Use(middleware.CORS(), middleware.Identity(nil, true))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, db
}

func doJSONRequest(r http.Handler, method, path string, body any, role string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestDeviceTypes_ListOrdering(t *testing.T) {
	r, db := setupTestRouter(t)
	require.NoError(t, db.Create(&[]domain.DeviceType{
		{Name: "Tablet", Category: "Mobile"},
		{Name: "Laptop", Category: "Computers"},
		{Name: "Phone", Category: "Mobile"},
	}).Error)

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/device-types", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var items []domain.DeviceType
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Laptop", "Phone", "Tablet"}, []string{items[0].Name, items[1].Name, items[2].Name})

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/device-types?category=Mobile", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestDeviceTypes_EmptyListIsArray(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/device-types", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestDeviceTypes_WritesRequireDirector(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/device-types", map[string]any{"name": "Phone", "category": "Mobile"}, "master")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/device-types", map[string]any{"id": 1}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeviceTypes_CreateAndDelete(t *testing.T) {
	r, db := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/device-types", map[string]any{"name": "Phone"}, "director")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/device-types", map[string]any{"name": "Phone", "category": "Mobile"}, "director")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.DeviceType
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/device-types", map[string]any{"id": created.ID}, "director")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	var n int64
	require.NoError(t, db.Model(&domain.DeviceType{}).Count(&n).Error)
	assert.Zero(t, n)

	// deleting again still succeeds
	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/device-types?id="+"999", nil, "director")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/device-types", nil, "director")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeviceTypes_OptionsAndMethodNotAllowed(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodOptions, "/api/v1/device-types", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-User-Role")

	rr = doJSONRequest(r, http.MethodPut, "/api/v1/device-types", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
