package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/furnish/services/serial/api/routes"
	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/serialgen"
	"example.com/furnish/services/serial/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	refs := repository.NewMemoryReferenceDirectory()
	refs.Products["prod-1"] = &models.Product{Base: models.Base{UUID: "prod-1"}, Code: "BED-K", Name: "King bed frame"}
	refs.Warehouses["wh-1"] = &models.Warehouse{Base: models.Base{UUID: "wh-1"}, Code: "BKK", Name: "Bangkok main"}
	refs.Warehouses["wh-2"] = &models.Warehouse{Base: models.Base{UUID: "wh-2"}, Code: "CNX", Name: "Chiang Mai"}

	log := logrus.New()
	svc := service.NewSerialService(store, refs, log)
	generator := serialgen.NewGenerator("FRN", 6)

	router := gin.New()
	routes.SetupRoutes(router, svc, generator, store, refs, log)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createBatch(t *testing.T, router *gin.Engine, serials ...string) []models.SerialUnit {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/serials", gin.H{
		"product_id":   "prod-1",
		"branch_id":    "wh-1",
		"serials":      serials,
		"performed_by": "receiver",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var units []models.SerialUnit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &units))
	require.Len(t, units, len(serials))
	return units
}

func TestCreateBatchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	units := createBatch(t, router, "SN001", "SN002")
	for _, unit := range units {
		assert.Equal(t, models.StatusAvailable, unit.Status)
		assert.NotEmpty(t, unit.UUID)
	}
}

func TestCreateBatchEndpointReportsOffenders(t *testing.T) {
	router, _ := newTestRouter(t)
	createBatch(t, router, "SN100")

	w := doJSON(t, router, http.MethodPost, "/api/v1/serials", gin.H{
		"product_id":   "prod-1",
		"branch_id":    "wh-1",
		"serials":      []string{"SN200", "SN200", "SN100", "!"},
		"performed_by": "receiver",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code    string   `json:"code"`
		Serials []string `json:"serials"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.ElementsMatch(t, []string{"!", "SN200", "SN100"}, resp.Serials)
}

func TestStatusEndpointMapsTransitionConflict(t *testing.T) {
	router, _ := newTestRouter(t)
	unit := createBatch(t, router, "SN001")[0]

	w := doJSON(t, router, http.MethodPatch, "/api/v1/serials/"+unit.UUID+"/status", gin.H{
		"new_status":   "sold",
		"performed_by": "cashier",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Sold stock cannot be flipped straight back to available
	w = doJSON(t, router, http.MethodPatch, "/api/v1/serials/"+unit.UUID+"/status", gin.H{
		"new_status":   "available",
		"performed_by": "cashier",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TRANSITION")
}

func TestGetUnitEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/serials/00000000-0000-0000-0000-000000000000", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	createBatch(t, router, "SN001", "SN002")

	w := doJSON(t, router, http.MethodGet, "/api/v1/serials/search?q=SN001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Found bool `json:"found"`
		Exact *struct {
			SerialNumber string `json:"serial_number"`
		} `json:"exact"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Found)
	require.NotNil(t, result.Exact)
	assert.Equal(t, "SN001", result.Exact.SerialNumber)
}

func TestTransferEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	units := createBatch(t, router, "SN001", "SN002")

	w := doJSON(t, router, http.MethodPost, "/api/v1/serials/transfer", gin.H{
		"unit_ids":     []string{units[0].UUID, units[1].UUID},
		"to_branch_id": "wh-2",
		"to_position":  "B-01",
		"performed_by": "driver",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var moved []models.SerialUnit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	require.Len(t, moved, 2)
	for _, unit := range moved {
		assert.Equal(t, models.StatusTransferred, unit.Status)
		assert.Equal(t, "wh-2", unit.BranchID)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	units := createBatch(t, router, "SN001", "SN002")

	w := doJSON(t, router, http.MethodPatch, "/api/v1/serials/"+units[0].UUID+"/status", gin.H{
		"new_status":   "sold",
		"performed_by": "cashier",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/serials/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Total  int64            `json:"total"`
		Counts map[string]int64 `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Counts["available"])
	assert.Equal(t, int64(1), stats.Counts["sold"])
	assert.Equal(t, int64(0), stats.Counts["damaged"])
}

func TestExportEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	createBatch(t, router, "SN001")

	w := doJSON(t, router, http.MethodGet, "/api/v1/serials/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "serial-units.csv")
	assert.Contains(t, w.Body.String(), "Serial Number,Product Code")
	assert.Contains(t, w.Body.String(), "SN001")
}

func TestGenerateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/serials/generate?count=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Serials []string `json:"serials"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"FRN000001", "FRN000002", "FRN000003"}, resp.Serials)

	w = doJSON(t, router, http.MethodPost, "/api/v1/serials/generate?count=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpointFilterValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	createBatch(t, router, "SN001")

	w := doJSON(t, router, http.MethodGet, "/api/v1/serials?status=melted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/serials?status=available", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var units []models.SerialUnit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &units))
	assert.Len(t, units, 1)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
