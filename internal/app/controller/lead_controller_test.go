package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
)

type leadAPITest struct {
	Router *gin.Engine
	APIKey string
	DB     *gorm.DB
}

func setupLeadAPITest(t *testing.T) *leadAPITest {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	workspaceRepo := repository.NewWorkspaceRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	activityRepo := repository.NewActivityRepository(testDB)

	workspace := &model.Workspace{Name: "Testrom AS"}
	require.NoError(t, workspaceRepo.Create(workspace))

	workspaceService := service.NewWorkspaceService(workspaceRepo)
	apiKey, err := workspaceService.IssueAPIKey(workspace.ID, "crm-test")
	require.NoError(t, err)

	// Registeret svarer alltid 404; beriking skal uansett være best effort
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(registry.Close)

	client := brreg.NewClient(brreg.Config{BaseURL: registry.URL})
	leadService := service.NewLeadService(businessRepo, activityRepo, client)
	leadController := NewLeadController(leadService)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(workspaceService)

	router := gin.New()
	router.GET("/api/leads", leadController.Health)
	router.POST("/api/leads", apiKeyMiddleware.Authenticate(), leadController.Submit)

	return &leadAPITest{Router: router, APIKey: apiKey.Key, DB: testDB}
}

func postLead(ts *leadAPITest, apiKey string, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func TestLeadAPI_Health(t *testing.T) {
	ts := setupLeadAPITest(t)

	req := httptest.NewRequest("GET", "/api/leads", nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestLeadAPI_Submit_MissingAPIKey(t *testing.T) {
	ts := setupLeadAPITest(t)

	w := postLead(ts, "", map[string]interface{}{
		"name":  "Nordmann Consulting",
		"email": "post@nordmann.no",
		"phone": "+47 900 00 000",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API-nøkkel mangler")
}

func TestLeadAPI_Submit_InvalidAPIKey(t *testing.T) {
	ts := setupLeadAPITest(t)

	w := postLead(ts, "sf_not-a-real-key", map[string]interface{}{
		"name":  "Nordmann Consulting",
		"email": "post@nordmann.no",
		"phone": "+47 900 00 000",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Ugyldig API-nøkkel")
}

func TestLeadAPI_Submit_RevokedAPIKey(t *testing.T) {
	ts := setupLeadAPITest(t)

	var key model.WorkspaceAPIKey
	require.NoError(t, ts.DB.Where("key = ?", ts.APIKey).First(&key).Error)
	require.NoError(t, ts.DB.Model(&key).Update("active", false).Error)

	w := postLead(ts, ts.APIKey, map[string]interface{}{
		"name":  "Nordmann Consulting",
		"email": "post@nordmann.no",
		"phone": "+47 900 00 000",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "tilbakekalt")
}

func TestLeadAPI_Submit_ValidationErrors(t *testing.T) {
	ts := setupLeadAPITest(t)

	w := postLead(ts, ts.APIKey, map[string]interface{}{
		"name":  "Nordmann Consulting",
		"email": "ikke-en-epost",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Valideringsfeil", resp.Message)
	assert.Contains(t, resp.Fields, "Email")
	assert.Contains(t, resp.Fields, "Phone")
}

func TestLeadAPI_Submit_InvalidOrgNumber(t *testing.T) {
	ts := setupLeadAPITest(t)

	w := postLead(ts, ts.APIKey, map[string]interface{}{
		"name":      "Nordmann Consulting",
		"email":     "post@nordmann.no",
		"phone":     "+47 900 00 000",
		"orgNumber": "12345",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "orgNumber")
}

func TestLeadAPI_Submit_CreatesLead(t *testing.T) {
	ts := setupLeadAPITest(t)

	w := postLead(ts, ts.APIKey, map[string]interface{}{
		"name":         "Nordmann Consulting",
		"email":        "post@nordmann.no",
		"phone":        "+47 900 00 000",
		"sourceSystem": "hubspot",
		"externalId":   "hs-1001",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ID         uint   `json:"id"`
			ExternalID string `json:"externalId"`
			IsNew      bool   `json:"isNew"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.IsNew)
	assert.Equal(t, "hs-1001", resp.Data.ExternalID)
	assert.NotZero(t, resp.Data.ID)

	var business model.Business
	require.NoError(t, ts.DB.First(&business, resp.Data.ID).Error)
	assert.Equal(t, "Nordmann Consulting", business.Name)
	assert.Equal(t, model.StageLead, business.Stage)
}

func TestLeadAPI_Submit_ResubmissionIsNotNew(t *testing.T) {
	ts := setupLeadAPITest(t)

	payload := map[string]interface{}{
		"name":       "Nordmann Consulting",
		"email":      "post@nordmann.no",
		"phone":      "+47 900 00 000",
		"externalId": "hs-1001",
	}

	first := postLead(ts, ts.APIKey, payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := postLead(ts, ts.APIKey, payload)
	assert.Equal(t, http.StatusOK, second.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			IsNew bool `json:"isNew"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Data.IsNew)

	var count int64
	require.NoError(t, ts.DB.Model(&model.Business{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
