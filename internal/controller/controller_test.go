package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"legalaid-intake-be/internal/dto"
	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/repository/kvstore"
	"legalaid-intake-be/internal/repository/memory"
	"legalaid-intake-be/internal/service"
	"legalaid-intake-be/pkg/dashboard"
	"legalaid-intake-be/pkg/events"
	"legalaid-intake-be/pkg/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubAPI struct{}

func (stubAPI) FetchTemplates(context.Context) ([]wizard.TemplateDescriptor, error) {
	return []wizard.TemplateDescriptor{
		{ID: "t1", Name: "Repair demand", DocumentType: wizard.DocumentHousing, Available: true},
		{ID: "t2", Name: "Fee waiver", DocumentType: wizard.DocumentFeeWaiver, Available: true},
	}, nil
}

func (stubAPI) GenerateDocument(context.Context, wizard.DocumentType, map[string]string) (wizard.DocumentHandle, error) {
	return wizard.DocumentHandle{ID: "doc-1"}, nil
}

func (stubAPI) CreateCase(context.Context, wizard.DocumentType, map[string]string) (wizard.DocumentHandle, error) {
	return wizard.DocumentHandle{ID: "case-1"}, nil
}

func (stubAPI) CheckEligibility(context.Context, map[string]string) (wizard.EligibilityResult, error) {
	return wizard.EligibilityResult{Eligible: true}, nil
}

func (stubAPI) SaveProgress(context.Context, wizard.PersistenceRecord) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []byte) error { return nil }

type stubDashboard struct {
	cases map[uuid.UUID][]dashboard.Case
}

func (s *stubDashboard) Start(context.Context) error { return nil }

func (s *stubDashboard) GetCases(_ context.Context, userId uuid.UUID) (*dto.DashboardResponse, error) {
	return &dto.DashboardResponse{Cases: s.cases[userId]}, nil
}

func (s *stubDashboard) HandleEvent(context.Context, events.Event) error { return nil }

type stubSubmissions struct {
	last  service.SubmissionFilter
	known uuid.UUID
}

func (s *stubSubmissions) List(_ context.Context, _ uuid.UUID, filter service.SubmissionFilter) (*dto.SubmissionListResponse, error) {
	s.last = filter
	return &dto.SubmissionListResponse{Items: []dto.SubmissionResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubSubmissions) Show(_ context.Context, _ uuid.UUID, id uuid.UUID) (*dto.SubmissionResponse, error) {
	if id != s.known {
		return nil, service.ErrSubmissionNotFound
	}
	return &dto.SubmissionResponse{Id: id, DocumentType: "housing"}, nil
}

func newTestApp(dash *stubDashboard) *fiber.App {
	return newTestAppWith(dash, &stubSubmissions{})
}

func newTestAppWith(dash *stubDashboard, subs *stubSubmissions) *fiber.App {
	log := logger.NewNopLogger()
	registry := wizard.MustLoadRegistry()
	wizardSvc := service.NewWizardService(
		registry,
		memory.NewSessionRepository(time.Hour),
		wizard.NewDraftStore(kvstore.NewMemoryStore(time.Hour), log),
		wizard.NewCoordinator(stubAPI{}, registry, log),
		nopPublisher{},
		log,
	)
	auth := serverutils.NewJwtMiddleware(testSecret)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	api := app.Group("/api")
	NewWizardController(wizardSvc, auth).RegisterRoutes(api)
	NewTemplateController(service.NewTemplateService(stubAPI{}), auth).RegisterRoutes(api)
	NewDashboardController(dash, auth).RegisterRoutes(api)
	NewSubmissionController(subs, auth).RegisterRoutes(api)
	return app
}

func bearer(t *testing.T, user uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": user.String()}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func call(t *testing.T, app *fiber.App, user uuid.UUID, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", bearer(t, user))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func TestWizardController_RequiresToken(t *testing.T) {
	app := newTestApp(&stubDashboard{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/wizard/v1/housing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWizardController_Schemas(t *testing.T) {
	app := newTestApp(&stubDashboard{})

	status, body := call(t, app, uuid.New(), "GET", "/api/wizard/v1/schemas", "")
	require.Equal(t, fiber.StatusOK, status)
	schemas, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, schemas, 4)
}

func TestWizardController_Flow(t *testing.T) {
	app := newTestApp(&stubDashboard{})
	user := uuid.New()

	status, body := call(t, app, user, "GET", "/api/wizard/v1/housing", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "housing", data(t, body)["document_type"])
	assert.EqualValues(t, 0, data(t, body)["active_step_index"])

	status, body = call(t, app, user, "POST", "/api/wizard/v1/housing/next", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 0, errs["step"])

	status, _ = call(t, app, user, "PUT", "/api/wizard/v1/housing/fields",
		`{"values":{"issueType":"repairs","landlordName":"Acme"}}`)
	require.Equal(t, fiber.StatusOK, status)

	status, body = call(t, app, user, "POST", "/api/wizard/v1/housing/next", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, data(t, body)["advanced"])
	state := data(t, body)["state"].(map[string]interface{})
	assert.EqualValues(t, 1, state["active_step_index"])

	status, body = call(t, app, user, "POST", "/api/wizard/v1/housing/back", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, data(t, body)["active_step_index"])

	status, _ = call(t, app, user, "POST", "/api/wizard/v1/housing/back", "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = call(t, app, user, "DELETE", "/api/wizard/v1/housing", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, data(t, body)["values"])
}

func TestWizardController_Errors(t *testing.T) {
	app := newTestApp(&stubDashboard{})
	user := uuid.New()

	tests := []struct {
		name, method, path, body string
		status                   int
	}{
		{"unknown document type", "GET", "/api/wizard/v1/divorce", "", fiber.StatusNotFound},
		{"unknown field", "PUT", "/api/wizard/v1/housing/fields", `{"values":{"shoeSize":"9"}}`, fiber.StatusUnprocessableEntity},
		{"invalid option", "PUT", "/api/wizard/v1/housing/fields", `{"values":{"issueType":"noise"}}`, fiber.StatusUnprocessableEntity},
		{"empty values", "PUT", "/api/wizard/v1/housing/fields", `{"values":{}}`, fiber.StatusUnprocessableEntity},
		{"malformed body", "PUT", "/api/wizard/v1/housing/fields", `{`, fiber.StatusBadRequest},
		{"jump without index", "POST", "/api/wizard/v1/housing/jump", `{}`, fiber.StatusUnprocessableEntity},
		{"jump out of range", "POST", "/api/wizard/v1/housing/jump", `{"index":42}`, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, user, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestWizardController_JumpAndSave(t *testing.T) {
	app := newTestApp(&stubDashboard{})
	user := uuid.New()

	status, body := call(t, app, user, "POST", "/api/wizard/v1/fee_waiver/jump", `{"index":2}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, data(t, body)["active_step_index"])

	status, _ = call(t, app, user, "POST", "/api/wizard/v1/fee_waiver/save-progress", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestTemplateController_GetAll(t *testing.T) {
	app := newTestApp(&stubDashboard{})

	status, body := call(t, app, uuid.New(), "GET", "/api/templates/v1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, body = call(t, app, uuid.New(), "GET", "/api/templates/v1?document_type=housing", "")
	require.Equal(t, fiber.StatusOK, status)
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].(map[string]interface{})["id"])

	status, _ = call(t, app, uuid.New(), "GET", "/api/templates/v1?document_type=divorce", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDashboardController_GetCases(t *testing.T) {
	user := uuid.New()
	dash := &stubDashboard{cases: map[uuid.UUID][]dashboard.Case{
		user: {{ID: "c1", Title: "Asylum", Status: "open", UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}},
	}}
	app := newTestApp(dash)

	status, body := call(t, app, user, "GET", "/api/dashboard/v1/cases", "")
	require.Equal(t, fiber.StatusOK, status)
	cases := data(t, body)["cases"].([]interface{})
	require.Len(t, cases, 1)
	assert.Equal(t, "c1", cases[0].(map[string]interface{})["id"])
}

func TestSubmissionController(t *testing.T) {
	subs := &stubSubmissions{known: uuid.New()}
	app := newTestAppWith(&stubDashboard{}, subs)
	user := uuid.New()

	status, _ := call(t, app, user, "GET", "/api/submissions/v1?document_type=housing&page=2&limit=5&since=2026-03-01T00:00:00Z", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "housing", subs.last.DocumentType)
	assert.Equal(t, 2, subs.last.Page)
	assert.Equal(t, 5, subs.last.Limit)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), subs.last.Since)

	status, _ = call(t, app, user, "GET", "/api/submissions/v1?since=yesterday", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := call(t, app, user, "GET", "/api/submissions/v1/"+subs.known.String(), "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "housing", data(t, body)["document_type"])

	status, _ = call(t, app, user, "GET", "/api/submissions/v1/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, user, "GET", "/api/submissions/v1/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
