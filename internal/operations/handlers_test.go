package operations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"credops-backend/internal/models"
	"credops-backend/internal/numbering"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHandlers(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Operation{}, &models.Partner{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := &Service{DB: db, Numbers: &numbering.Service{DB: db, Rdb: rdb}}
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Get("/operations", h.List)
	app.Post("/operations", h.Create)
	app.Put("/operations", h.Update)
	app.Delete("/operations", h.Delete)
	app.Get("/operations/:id/display", h.Display)
	return app, svc
}

func testCtx() context.Context {
	return context.Background()
}

func TestCreate_ReturnsCreatedOperation(t *testing.T) {
	app, _ := setupHandlers(t)

	body, _ := json.Marshal(validDraft())
	req := httptest.NewRequest("POST", "/operations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "OP001", data["number"])
	assert.Equal(t, "in_progress", data["status"])
}

func TestCreate_ValidationFailureListsFields(t *testing.T) {
	app, _ := setupHandlers(t)

	d := validDraft()
	d.ClientEmail = "not-an-email"
	d.DesiredValue = d.PropertyValue * 2
	body, _ := json.Marshal(d)

	req := httptest.NewRequest("POST", "/operations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Validation failed", errObj["message"])
	details := errObj["details"].(map[string]interface{})
	assert.Contains(t, details, "client_email")
	assert.Contains(t, details, "desired_value")
}

func TestUpdate_MissingIDIs400(t *testing.T) {
	app, _ := setupHandlers(t)

	req := httptest.NewRequest("PUT", "/operations", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Operation ID is required", errObj["message"])
}

func TestUpdate_StatusOnly(t *testing.T) {
	app, svc := setupHandlers(t)
	op, err := svc.CreateFromDraft(testCtx(), validDraft())
	require.NoError(t, err)

	body := []byte(`{"status":"under_review"}`)
	req := httptest.NewRequest("PUT", "/operations?id="+op.OperationID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	updated, err := svc.Get(testCtx(), op.OperationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, updated.Status)
}

func TestDelete_MissingIDIs400(t *testing.T) {
	app, _ := setupHandlers(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/operations", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDelete_RemovesFromSubsequentLists(t *testing.T) {
	app, svc := setupHandlers(t)
	op, err := svc.CreateFromDraft(testCtx(), validDraft())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/operations?id="+op.OperationID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/operations", nil))
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result["data"])
}

func TestList_FetchOneUnknownIDIsFixed500(t *testing.T) {
	app, _ := setupHandlers(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/operations?id=6f1b0e0a-0000-0000-0000-000000000000", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Failed to fetch operations", errObj["message"])
}

func TestDisplay_UsesFieldCatalog(t *testing.T) {
	app, svc := setupHandlers(t)
	op, err := svc.CreateFromDraft(testCtx(), validDraft())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/operations/"+op.OperationID.String()+"/display", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	rows := result["data"].([]interface{})
	require.NotEmpty(t, rows)

	byField := map[string]map[string]interface{}{}
	for _, r := range rows {
		row := r.(map[string]interface{})
		byField[row["field"].(string)] = row
	}
	assert.Equal(t, "CPF", byField["client_document"]["label"])
	assert.Equal(t, "123.456.789-00", byField["client_document"]["value"])
	assert.Equal(t, "Em andamento", byField["status"]["value"])
	assert.Equal(t, "R$ 500.000,00", byField["property_value"]["value"])
}
