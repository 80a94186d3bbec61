package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/facegate/attendance-engine/internal/store"
)

// OfficesHandler manages authorized perimeters.
type OfficesHandler struct {
	offices store.OfficeRepository
}

// NewOfficesHandler creates an offices handler.
func NewOfficesHandler(offices store.OfficeRepository) *OfficesHandler {
	return &OfficesHandler{offices: offices}
}

type officeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
	Active       bool    `json:"active"`
}

func toOfficeResponse(o store.Office) officeResponse {
	return officeResponse{
		ID:           o.ID,
		Name:         o.Name,
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Active:       o.Active,
	}
}

// List handles GET /api/v1/offices.
func (h *OfficesHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.offices.ListOffices(r.Context())
	if err != nil {
		log.Printf("listing offices: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list offices")
		return
	}

	out := make([]officeResponse, 0, len(offices))
	for _, o := range offices {
		out = append(out, toOfficeResponse(o))
	}
	respondJSON(w, http.StatusOK, map[string]any{"offices": out})
}

type createOfficeRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters,omitempty"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
}

// validClockTime reports whether s is an HH:MM wall-clock value.
func validClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Create handles POST /api/v1/offices.
func (h *OfficesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if body.Latitude < -90 || body.Latitude > 90 || body.Longitude < -180 || body.Longitude > 180 {
		respondError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}
	if body.StartTime != "" && !validClockTime(body.StartTime) {
		respondError(w, http.StatusBadRequest, "start_time must be HH:MM")
		return
	}
	if body.EndTime != "" && !validClockTime(body.EndTime) {
		respondError(w, http.StatusBadRequest, "end_time must be HH:MM")
		return
	}
	radius := body.RadiusMeters
	if radius <= 0 {
		radius = 300
	}

	id, err := h.offices.CreateOffice(r.Context(), store.Office{
		Name:         strings.TrimSpace(body.Name),
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		RadiusMeters: radius,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Active:       true,
	})
	if err != nil {
		log.Printf("creating office: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create office")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}
