package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/web/handlers"
	"github.com/facegate/attendance-engine/internal/web/middleware"
)

func (s *Server) setupRoutes(eng *engine.Engine, repos Repositories) {
	// Create handlers
	attendanceHandler := handlers.NewAttendanceHandler(eng, repos.Events, s.metrics)
	employeesHandler := handlers.NewEmployeesHandler(repos.Employees, s.config.Engine.DescriptorDim)
	officesHandler := handlers.NewOfficesHandler(repos.Offices)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// Prometheus metrics
	if s.metrics != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Attendance (kiosk-facing, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.config.Web.RatePerSecond, s.config.Web.RateBurst))
			r.Post("/attendance", attendanceHandler.Process)
		})
		r.Get("/attendance/today", attendanceHandler.Today)
		r.Get("/attendance/employees/{id}/events", attendanceHandler.EmployeeEvents)

		// Employees
		r.Get("/employees", employeesHandler.List)
		r.Post("/employees", employeesHandler.Create)
		r.Get("/employees/{id}", employeesHandler.Get)
		r.Delete("/employees/{id}", employeesHandler.Deactivate)

		// Offices
		r.Get("/offices", officesHandler.List)
		r.Post("/offices", officesHandler.Create)
	})
}
