package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

func TestMain(m *testing.M) {
	// Prometheus collectors register against the default registry; do it
	// once for the whole test binary.
	InitMetrics(nil)
	os.Exit(m.Run())
}

var handlerTestSecret = []byte("handler-test-secret")

const knownDataPointID = "6f1b0c9e-9f6a-4a2e-8a3d-2f4b8c1d9e0a"

// stubValidationStore returns canned results so handler status codes and
// response shapes can be asserted without a database.
type stubValidationStore struct {
	voted map[string]bool // userID|dataPointID
}

func newStubStore() *stubValidationStore {
	return &stubValidationStore{voted: make(map[string]bool)}
}

func (s *stubValidationStore) Submit(_ context.Context, p repository.SubmitParams) (*repository.SubmitResult, error) {
	if p.DataPointID != knownDataPointID {
		return nil, repository.ErrDataPointNotFound
	}
	key := p.UserID + "|" + p.DataPointID
	created := !s.voted[key]
	s.voted[key] = true
	return &repository.SubmitResult{
		Validation: &model.Validation{
			ID:             "v-1",
			UserID:         p.UserID,
			DataPointID:    p.DataPointID,
			ValidationType: p.ValidationType,
		},
		DataPoint: model.DataPointCounters{ID: p.DataPointID, ConfirmsCount: 1, TrustScore: 100},
		Created:   created,
	}, nil
}

func (s *stubValidationStore) Delete(_ context.Context, userID, dataPointID string) (model.DataPointCounters, error) {
	key := userID + "|" + dataPointID
	if !s.voted[key] {
		return model.DataPointCounters{}, repository.ErrValidationNotFound
	}
	delete(s.voted, key)
	return model.DataPointCounters{ID: dataPointID}, nil
}

func (s *stubValidationStore) List(_ context.Context, f model.ValidationFilter) ([]model.ValidationListItem, int, error) {
	return nil, 0, nil
}

func newValidationTestApp(store service.ValidationStore) *fiber.App {
	h := NewValidationHandler(service.NewValidationService(store, nil))
	requireAuth := middleware.RequireAuth(handlerTestSecret)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/validations", h.List)
	api.Post("/validations", h.Submit, requireAuth)
	api.Delete("/validations", h.Delete, requireAuth)
	return app
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(handlerTestSecret)
	require.NoError(t, err)
	return "Bearer " + tok
}

func decodeError(t *testing.T, body io.Reader) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error.Code, envelope.Error.Message
}

func TestSubmitRequiresAuth(t *testing.T) {
	app := newValidationTestApp(newStubStore())

	req := httptest.NewRequest("POST", "/api/validations",
		strings.NewReader(`{"dataPointId":"`+knownDataPointID+`","validationType":"confirm"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitCreatedThenUpdated(t *testing.T) {
	app := newValidationTestApp(newStubStore())
	token := bearerToken(t, "user-1")

	body := `{"dataPointId":"` + knownDataPointID + `","validationType":"confirm"}`

	req := httptest.NewRequest("POST", "/api/validations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode, "first vote returns 201")

	var created struct {
		Message   string                  `json:"message"`
		DataPoint model.DataPointCounters `json:"dataPoint"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Validation created", created.Message)
	assert.Equal(t, float64(100), created.DataPoint.TrustScore)

	// Same user voting again is an overwrite, not a new resource.
	req = httptest.NewRequest("POST", "/api/validations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "repeat vote returns 200")

	var updated struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "Validation updated", updated.Message)
}

func TestSubmitBadRequests(t *testing.T) {
	app := newValidationTestApp(newStubStore())
	token := bearerToken(t, "user-1")

	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			"missing fields",
			`{}`,
			"MISSING_FIELDS",
			"dataPointId and validationType are required",
		},
		{
			"invalid type",
			`{"dataPointId":"` + knownDataPointID + `","validationType":"upvote"}`,
			"INVALID_TYPE",
			"Invalid validation type. Must be one of: confirm, dispute, flag",
		},
		{
			"malformed id",
			`{"dataPointId":"not-a-uuid","validationType":"confirm"}`,
			"INVALID_FIELD",
			"dataPointId must be a valid UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/validations", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			code, message := decodeError(t, resp.Body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestSubmitUnknownDataPoint(t *testing.T) {
	app := newValidationTestApp(newStubStore())

	req := httptest.NewRequest("POST", "/api/validations",
		strings.NewReader(`{"dataPointId":"00000000-0000-4000-8000-000000000000","validationType":"confirm"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	code, _ := decodeError(t, resp.Body)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestDeleteValidation(t *testing.T) {
	store := newStubStore()
	app := newValidationTestApp(store)
	token := bearerToken(t, "user-1")

	// Deleting before voting is a 404.
	req := httptest.NewRequest("DELETE", "/api/validations?dataPointId="+knownDataPointID, nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Vote, then delete succeeds.
	post := httptest.NewRequest("POST", "/api/validations",
		strings.NewReader(`{"dataPointId":"`+knownDataPointID+`","validationType":"confirm"}`))
	post.Header.Set("Content-Type", "application/json")
	post.Header.Set("Authorization", token)
	resp, err = app.Test(post)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/api/validations?dataPointId="+knownDataPointID, nil)
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Validation removed successfully", out.Message)
}

func TestDeleteMissingDataPointID(t *testing.T) {
	app := newValidationTestApp(newStubStore())

	req := httptest.NewRequest("DELETE", "/api/validations", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	code, _ := decodeError(t, resp.Body)
	assert.Equal(t, "MISSING_FIELDS", code)
}

func TestListValidationsEmpty(t *testing.T) {
	app := newValidationTestApp(newStubStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/validations", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out model.ValidationListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotNil(t, out.Validations)
	assert.Zero(t, out.Pagination.Total)
}

func TestListValidationsRejectsBadFilter(t *testing.T) {
	app := newValidationTestApp(newStubStore())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/validations?dataPointId=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
