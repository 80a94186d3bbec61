package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/metrics"
	"github.com/facegate/attendance-engine/internal/store"
	"github.com/facegate/attendance-engine/internal/store/mock"
)

const (
	testDim       = 4
	testOfficeLat = 28.62884
	testOfficeLon = 77.37633
)

// testFixture wires an engine over in-memory repositories with one office
// and one enrolled employee.
type testFixture struct {
	engine    *engine.Engine
	employees *mock.EmployeeRepository
	offices   *mock.OfficeRepository
	events    *mock.EventRepository
	metrics   *metrics.Metrics

	employeeID string
	officeID   string
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	employees := mock.NewEmployeeRepository()
	offices := mock.NewOfficeRepository()
	events := mock.NewEventRepository()
	ctx := context.Background()

	officeID, err := offices.CreateOffice(ctx, store.Office{
		Name:         "Headquarters",
		Latitude:     testOfficeLat,
		Longitude:    testOfficeLon,
		RadiusMeters: 300,
		StartTime:    "09:00",
		EndTime:      "18:00",
		Active:       true,
	})
	if err != nil {
		t.Fatalf("creating test office: %v", err)
	}

	employeeID, err := employees.CreateEmployee(ctx, store.Employee{
		Name:       "Asha Rao",
		Descriptor: []float32{1, 0, 0, 0},
		OfficeID:   officeID,
		Active:     true,
	})
	if err != nil {
		t.Fatalf("creating test employee: %v", err)
	}

	eng := engine.New(employees, offices, events, engine.Options{
		DescriptorDim: testDim,
		Location:      time.UTC,
	})

	return &testFixture{
		engine:     eng,
		employees:  employees,
		offices:    offices,
		events:     events,
		metrics:    metrics.New(),
		employeeID: employeeID,
		officeID:   officeID,
	}
}

// jsonRequest creates a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
