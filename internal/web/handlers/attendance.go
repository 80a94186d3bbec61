package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/metrics"
	"github.com/facegate/attendance-engine/internal/store"
)

// AttendanceHandler handles kiosk attendance requests and daily summaries.
type AttendanceHandler struct {
	engine  *engine.Engine
	events  store.EventRepository
	metrics *metrics.Metrics
}

// NewAttendanceHandler creates an attendance handler.
func NewAttendanceHandler(eng *engine.Engine, events store.EventRepository, m *metrics.Metrics) *AttendanceHandler {
	return &AttendanceHandler{engine: eng, events: events, metrics: m}
}

// attendanceRequest is the kiosk-facing request body. A missing or null
// location means the kiosk's location provider failed; the engine rejects
// that rather than waving the request through.
type attendanceRequest struct {
	Descriptor []float32 `json:"descriptor"`
	Location   *struct {
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
		AccuracyMeters float64 `json:"accuracy_meters"`
	} `json:"location"`
	Type      string `json:"type,omitempty"`      // "check-in" | "check-out" | empty to infer
	Timestamp string `json:"timestamp,omitempty"` // RFC 3339; empty means now
}

// attendanceResponse mirrors engine.Result for the wire.
type attendanceResponse struct {
	Accepted       bool    `json:"accepted"`
	EmployeeID     string  `json:"employee_id,omitempty"`
	Type           string  `json:"type,omitempty"`
	Classification string  `json:"classification,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	MatchDistance  float64 `json:"match_distance,omitempty"`
	OfficeID       string  `json:"office_id,omitempty"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
	AccuracyMeters float64 `json:"accuracy_meters,omitempty"`
	EventID        string  `json:"event_id,omitempty"`
}

func toResponse(res engine.Result) attendanceResponse {
	return attendanceResponse{
		Accepted:       res.Accepted,
		EmployeeID:     res.EmployeeID,
		Type:           string(res.Type),
		Classification: string(res.Classification),
		Reason:         string(res.Reason),
		MatchDistance:  res.MatchDistance,
		OfficeID:       res.OfficeID,
		DistanceMeters: res.DistanceMeters,
		AccuracyMeters: res.AccuracyMeters,
		EventID:        res.EventID,
	}
}

// Process handles POST /api/v1/attendance.
func (h *AttendanceHandler) Process(w http.ResponseWriter, r *http.Request) {
	var body attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(body.Descriptor) == 0 {
		respondError(w, http.StatusBadRequest, "descriptor is required")
		return
	}

	req := engine.Request{
		Descriptor:    engine.Descriptor(body.Descriptor),
		RequestedType: engine.RequestType(body.Type),
	}
	switch body.Type {
	case "", string(engine.CheckIn), string(engine.CheckOut):
	default:
		respondError(w, http.StatusBadRequest, "type must be check-in or check-out")
		return
	}
	if body.Location != nil {
		req.Location = &engine.Geolocation{
			Latitude:       body.Location.Latitude,
			Longitude:      body.Location.Longitude,
			AccuracyMeters: body.Location.AccuracyMeters,
		}
	}
	if body.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, body.Timestamp)
		if err != nil {
			respondError(w, http.StatusBadRequest, "timestamp must be RFC 3339")
			return
		}
		req.Timestamp = ts
	}

	start := time.Now()
	res, err := h.engine.Process(r.Context(), req)
	if h.metrics != nil {
		h.metrics.Observe(&res, time.Since(start).Seconds())
	}
	if err != nil {
		log.Printf("attendance processing failed: %v", err)
		respondError(w, http.StatusInternalServerError, "attendance processing failed")
		return
	}
	if !res.Accepted {
		log.Printf("attendance rejected: employee=%s reason=%s", sanitizeForLog(res.EmployeeID), res.Reason)
	}

	respondJSON(w, http.StatusOK, toResponse(res))
}

// Today handles GET /api/v1/attendance/today. It returns one summary row per
// employee with activity today: earliest check-in, latest check-out.
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	loc := h.engine.Location()
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	to := from.Add(24 * time.Hour)

	events, err := h.events.EventsBetween(r.Context(), from, to)
	if err != nil {
		log.Printf("loading today's events: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	summaries := engine.BuildDailySummaries(events, loc)
	respondJSON(w, http.StatusOK, map[string]any{
		"day":       from.Format("2006-01-02"),
		"summaries": summaries,
	})
}

// EmployeeEvents handles GET /api/v1/attendance/employees/{id}/events.
// Optional from/to query params are RFC 3339; the default range is the last
// 30 days.
func (h *AttendanceHandler) EmployeeEvents(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	loc := h.engine.Location()

	to := time.Now().In(loc)
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		to = parsed
	}

	events, err := h.events.EventsForEmployee(r.Context(), employeeID, from, to)
	if err != nil {
		log.Printf("loading events for employee %s: %v", sanitizeForLog(employeeID), err)
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"employee_id": employeeID,
		"events":      events,
	})
}
