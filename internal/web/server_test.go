package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/metrics"
	"github.com/facegate/attendance-engine/internal/store/mock"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	employees := mock.NewEmployeeRepository()
	offices := mock.NewOfficeRepository()
	events := mock.NewEventRepository()

	eng := engine.New(employees, offices, events, engine.Options{
		DescriptorDim: 4,
		Location:      time.UTC,
	})

	cfg := config.Load()
	return NewServer(cfg, eng, Repositories{
		Employees: employees,
		Offices:   offices,
		Events:    events,
	}, metrics.New())
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}

func TestRoutes_Metrics(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
}

func TestRoutes_AttendanceWiredThroughRouter(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance", nil)
	s.Router().ServeHTTP(rec, req)

	// Empty body fails request decoding, proving the route is wired.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("attendance status = %d, want 400 for empty body", rec.Code)
	}
}
