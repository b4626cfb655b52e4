package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ndisfraud/internal/agent"
	"ndisfraud/internal/handler"
	"ndisfraud/internal/router"
	"ndisfraud/internal/tools"
	"ndisfraud/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupEngine() (*gin.Engine, *mocks.MockAnalysisService, *mocks.MockVerificationService) {
	analysisSvc := new(mocks.MockAnalysisService)
	verifySvc := new(mocks.MockVerificationService)
	errH := handler.NewErrorHandler(zap.NewNop())
	r := router.Setup(
		zap.NewNop(),
		[]string{"http://localhost:8501"},
		handler.NewHealthHandler(),
		handler.NewAnalysisHandler(analysisSvc, errH, 10*1024*1024),
		handler.NewItemHandler(verifySvc),
	)
	return r, analysisSvc, verifySvc
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := setupEngine()

	for _, path := range []string{"/", "/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r, _, _ := setupEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "NDIS Fraud Detection API", doc.Info.Title)
	for _, path := range []string{"/api/v1/agents", "/api/v1/analyses", "/api/v1/analyses/text", "/api/v1/items/{code}/pricing"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestRouter_Agents(t *testing.T) {
	r, analysisSvc, _ := setupEngine()
	analysisSvc.On("Agents").Return(agent.Catalog())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/agents", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRouter_ItemRoutes(t *testing.T) {
	r, _, verifySvc := setupEngine()
	verifySvc.On("ItemExists", "01_011_0107_1_1").Return(tools.Outcome{Status: tools.StatusFound})
	verifySvc.On("ItemPricing", "01_011_0107_1_1", mock.Anything, "very_remote").Return(tools.Outcome{Status: tools.StatusMatch})
	verifySvc.On("OldPricingCheck", "01_011_0107_1_1").Return(tools.Outcome{Status: tools.StatusCurrent})

	paths := []string{
		"/api/v1/items/01_011_0107_1_1",
		"/api/v1/items/01_011_0107_1_1/pricing?price=10.00&location=very_remote",
		"/api/v1/items/01_011_0107_1_1/old-pricing",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	verifySvc.AssertExpectations(t)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _, _ := setupEngine()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyses", http.NoBody)
	req.Header.Set("Origin", "http://localhost:8501")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8501", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _, _ := setupEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", http.NoBody))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
