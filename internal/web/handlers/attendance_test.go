package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type locationBody struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

type attendanceBody struct {
	Descriptor []float32     `json:"descriptor"`
	Location   *locationBody `json:"location,omitempty"`
	Type       string        `json:"type,omitempty"`
	Timestamp  string        `json:"timestamp,omitempty"`
}

func insideOffice() *locationBody {
	return &locationBody{Latitude: testOfficeLat, Longitude: testOfficeLon, AccuracyMeters: 10}
}

func TestAttendanceProcess_AcceptedCheckIn(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
		Descriptor: []float32{1, 0, 0, 0},
		Location:   insideOffice(),
		Timestamp:  "2026-03-02T09:05:00Z",
	})
	rec := httptest.NewRecorder()
	h.Process(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var res attendanceResponse
	parseJSONResponse(t, rec, &res)
	if !res.Accepted {
		t.Fatalf("expected accepted, got reason %q", res.Reason)
	}
	if res.EmployeeID != f.employeeID {
		t.Errorf("employee = %q, want %q", res.EmployeeID, f.employeeID)
	}
	if res.Type != "check-in" {
		t.Errorf("type = %q, want check-in", res.Type)
	}
	if res.Classification != "late" {
		t.Errorf("classification = %q, want late", res.Classification)
	}
	if res.EventID == "" {
		t.Error("expected a persisted event ID")
	}
	if f.events.Count() != 1 {
		t.Errorf("event count = %d, want 1", f.events.Count())
	}
}

func TestAttendanceProcess_UnknownFace(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
		Descriptor: []float32{0, 0, 0, 1},
		Location:   insideOffice(),
		Timestamp:  "2026-03-02T09:05:00Z",
	})
	rec := httptest.NewRecorder()
	h.Process(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var res attendanceResponse
	parseJSONResponse(t, rec, &res)
	if res.Accepted {
		t.Fatal("expected rejection for unknown face")
	}
	if res.Reason != "no_match" {
		t.Errorf("reason = %q, want no_match", res.Reason)
	}
	if f.events.Count() != 0 {
		t.Errorf("rejected request persisted %d events", f.events.Count())
	}
}

func TestAttendanceProcess_MissingLocation(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
		Descriptor: []float32{1, 0, 0, 0},
		Timestamp:  "2026-03-02T09:05:00Z",
	})
	rec := httptest.NewRecorder()
	h.Process(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var res attendanceResponse
	parseJSONResponse(t, rec, &res)
	if res.Accepted {
		t.Fatal("expected rejection when location is missing")
	}
	if res.Reason != "location_error" {
		t.Errorf("reason = %q, want location_error", res.Reason)
	}
}

func TestAttendanceProcess_BadRequests(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	tests := []struct {
		name string
		body attendanceBody
		want string
	}{
		{"empty descriptor", attendanceBody{Location: insideOffice()}, "descriptor is required"},
		{"bad type", attendanceBody{Descriptor: []float32{1, 0, 0, 0}, Location: insideOffice(), Type: "lunch"}, "type must be check-in or check-out"},
		{"bad timestamp", attendanceBody{Descriptor: []float32{1, 0, 0, 0}, Location: insideOffice(), Timestamp: "yesterday"}, "timestamp must be RFC 3339"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", tt.body)
			rec := httptest.NewRecorder()
			h.Process(rec, req)

			assertStatusCode(t, rec, http.StatusBadRequest)
			assertJSONError(t, rec, tt.want)
		})
	}
}

func TestAttendanceProcess_FullDay(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	process := func(ts string) attendanceResponse {
		req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
			Descriptor: []float32{1, 0, 0, 0},
			Location:   insideOffice(),
			Timestamp:  ts,
		})
		rec := httptest.NewRecorder()
		h.Process(rec, req)
		assertStatusCode(t, rec, http.StatusOK)
		var res attendanceResponse
		parseJSONResponse(t, rec, &res)
		return res
	}

	in := process("2026-03-02T08:30:00Z")
	if !in.Accepted || in.Type != "check-in" {
		t.Fatalf("check-in failed: %+v", in)
	}

	// Second attempt the same day is inferred as a check-out.
	out := process("2026-03-02T17:30:00Z")
	if !out.Accepted || out.Type != "check-out" {
		t.Fatalf("check-out failed: %+v", out)
	}
	if out.Classification != "n/a" {
		t.Errorf("check-out classification = %q, want n/a", out.Classification)
	}

	// Third attempt finds the day closed; the inferred check-in is rejected
	// because closed is terminal for the day.
	again := process("2026-03-02T18:30:00Z")
	if again.Accepted {
		t.Fatal("expected rejection after the day is closed")
	}
	if again.Reason != "already_open" {
		t.Errorf("reason = %q, want already_open", again.Reason)
	}
}

func TestAttendanceToday(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	// A check-in this morning (UTC) lands inside today's summary range.
	today := time.Now().UTC().Format("2006-01-02")
	req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
		Descriptor: []float32{1, 0, 0, 0},
		Location:   insideOffice(),
		Timestamp:  today + "T09:30:00Z",
	})
	rec := httptest.NewRecorder()
	h.Process(rec, req)
	assertStatusCode(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	h.Today(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil))
	assertStatusCode(t, rec, http.StatusOK)

	var res struct {
		Day       string `json:"day"`
		Summaries []struct {
			EmployeeID string `json:"employee_id"`
		} `json:"summaries"`
	}
	parseJSONResponse(t, rec, &res)
	if len(res.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(res.Summaries))
	}
	if res.Summaries[0].EmployeeID != f.employeeID {
		t.Errorf("summary employee = %q, want %q", res.Summaries[0].EmployeeID, f.employeeID)
	}
}

func TestAttendanceEmployeeEvents(t *testing.T) {
	f := newTestFixture(t)
	h := NewAttendanceHandler(f.engine, f.events, f.metrics)

	today := time.Now().UTC().Format("2006-01-02")
	req := jsonRequest(t, http.MethodPost, "/api/v1/attendance", attendanceBody{
		Descriptor: []float32{1, 0, 0, 0},
		Location:   insideOffice(),
		Timestamp:  today + "T09:30:00Z",
	})
	rec := httptest.NewRecorder()
	h.Process(rec, req)
	assertStatusCode(t, rec, http.StatusOK)

	// Query an explicit range around today so the morning event is included
	// regardless of the wall clock.
	rangeQuery := "?from=" + today + "T00:00:00Z&to=" + today + "T23:59:00Z"
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/employees/"+f.employeeID+"/events"+rangeQuery, nil)
	getReq = requestWithChiParams(getReq, map[string]string{"id": f.employeeID})
	rec = httptest.NewRecorder()
	h.EmployeeEvents(rec, getReq)

	assertStatusCode(t, rec, http.StatusOK)
	var res struct {
		EmployeeID string `json:"employee_id"`
		Events     []struct {
			Type string `json:"type"`
		} `json:"events"`
	}
	parseJSONResponse(t, rec, &res)
	if len(res.Events) != 1 || res.Events[0].Type != "check-in" {
		t.Errorf("unexpected events payload: %+v", res)
	}

	badReq := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/employees/x/events?from=bogus", nil)
	badReq = requestWithChiParams(badReq, map[string]string{"id": "x"})
	rec = httptest.NewRecorder()
	h.EmployeeEvents(rec, badReq)
	assertStatusCode(t, rec, http.StatusBadRequest)
}
