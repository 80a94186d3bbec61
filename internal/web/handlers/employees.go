package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/identity"
	"github.com/facegate/attendance-engine/internal/store"
)

// EmployeesHandler manages enrolled identities.
type EmployeesHandler struct {
	employees store.EmployeeRepository
	dim       int
}

// NewEmployeesHandler creates an employees handler. dim is the expected
// descriptor dimensionality for enrollment validation.
func NewEmployeesHandler(employees store.EmployeeRepository, dim int) *EmployeesHandler {
	return &EmployeesHandler{employees: employees, dim: dim}
}

type employeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OfficeID string `json:"office_id,omitempty"`
	Active   bool   `json:"active"`
}

func toEmployeeResponse(e store.Employee) employeeResponse {
	return employeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		OfficeID: e.OfficeID,
		Active:   e.Active,
	}
}

// List handles GET /api/v1/employees. An optional ?name= query filters by
// normalized name so "jose maria" finds "José-María".
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.ListEmployees(r.Context())
	if err != nil {
		log.Printf("listing employees: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}

	filter := identity.NormalizeName(r.URL.Query().Get("name"))
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		if filter != "" && !strings.Contains(identity.NormalizeName(e.Name), filter) {
			continue
		}
		out = append(out, toEmployeeResponse(e))
	}

	respondJSON(w, http.StatusOK, map[string]any{"employees": out})
}

// Get handles GET /api/v1/employees/{id}.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := h.employees.GetEmployee(r.Context(), id)
	if err != nil {
		log.Printf("loading employee %s: %v", sanitizeForLog(id), err)
		respondError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	if emp == nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}
	respondJSON(w, http.StatusOK, toEmployeeResponse(*emp))
}

type createEmployeeRequest struct {
	Name       string    `json:"name"`
	Descriptor []float32 `json:"descriptor"`
	OfficeID   string    `json:"office_id,omitempty"`
}

// Create handles POST /api/v1/employees. The descriptor is validated once
// here at the boundary; stored descriptors are trusted afterwards.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := engine.NewDescriptor(body.Descriptor, h.dim); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.employees.CreateEmployee(r.Context(), store.Employee{
		Name:       strings.TrimSpace(body.Name),
		Descriptor: body.Descriptor,
		OfficeID:   body.OfficeID,
		Active:     true,
	})
	if err != nil {
		log.Printf("creating employee: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Deactivate handles DELETE /api/v1/employees/{id}. Employees are never
// hard-deleted; their past events must stay attributable.
func (h *EmployeesHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.employees.DeactivateEmployee(r.Context(), id); err != nil {
		log.Printf("deactivating employee %s: %v", sanitizeForLog(id), err)
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
