// Package engine implements the attendance determination pipeline: descriptor
// matching, geofence validation, time-window policy and the per-day session
// state machine, orchestrated into a single request/response contract.
package engine

import (
	"fmt"
	"time"
)

// RequestType identifies the direction of an attendance action.
type RequestType string

const (
	CheckIn  RequestType = "check-in"
	CheckOut RequestType = "check-out"
)

// Classification describes how an accepted check-in relates to office hours.
// Check-outs always carry ClassNone.
type Classification string

const (
	ClassOnTime   Classification = "on_time"
	ClassLate     Classification = "late"
	ClassTooEarly Classification = "too_early"
	ClassTooLate  Classification = "too_late"
	ClassNone     Classification = "n/a"
)

// RejectReason explains why a request was not accepted. Rejections are
// expected outcomes, not errors; callers branch on the reason.
type RejectReason string

const (
	ReasonNoMatch           RejectReason = "no_match"
	ReasonOutsideGeofence   RejectReason = "outside_geofence"
	ReasonLocationError     RejectReason = "location_error"
	ReasonTooEarly          RejectReason = "too_early"
	ReasonTooLate           RejectReason = "too_late"
	ReasonAlreadyOpen       RejectReason = "already_open"
	ReasonNoOpenSession     RejectReason = "no_open_session"
	ReasonInvalidDescriptor RejectReason = "invalid_descriptor"
	ReasonConcurrentUpdate  RejectReason = "concurrent_update"
	ReasonInternalError     RejectReason = "internal_error"
)

// Descriptor is a fixed-length face descriptor vector produced by an external
// detector. It is validated once at the system boundary; the engine never
// re-parses descriptor representations.
type Descriptor []float32

// NewDescriptor validates raw vector values against the expected
// dimensionality and returns the canonical descriptor type.
func NewDescriptor(values []float32, dim int) (Descriptor, error) {
	if len(values) != dim {
		return nil, fmt.Errorf("descriptor has %d dimensions, expected %d", len(values), dim)
	}
	return Descriptor(values), nil
}

// Geolocation is a single location sample from the capture collaborator.
type Geolocation struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

// Employee is the read snapshot of an enrolled identity used for matching.
type Employee struct {
	ID         string
	Name       string
	Descriptor Descriptor
	OfficeID   string // empty when the employee has no assigned office
	Active     bool
}

// Office is the read snapshot of an authorized perimeter and its hours.
// StartTime and EndTime are local "HH:MM" values; both empty means the
// office has no time gating.
type Office struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	StartTime    string
	EndTime      string
	Active       bool
}

// Request is a single attendance attempt supplied by the capture collaborator.
// A nil Location means the upstream location provider failed; that is a hard
// rejection, never an implicit allow. RequestedType may be empty, in which
// case the engine infers it from the current session state. A zero Timestamp
// means "now" according to the engine clock.
type Request struct {
	Descriptor    Descriptor
	Location      *Geolocation
	Timestamp     time.Time
	RequestedType RequestType
}

// Result is the outcome of processing a request. Exactly one of
// Classification (on success) or Reason (on rejection) is meaningful.
type Result struct {
	Accepted       bool
	EmployeeID     string
	Type           RequestType
	Classification Classification
	Reason         RejectReason

	// Diagnostics for audit/logging; never part of the accept decision.
	MatchDistance  float64
	OfficeID       string
	DistanceMeters float64
	AccuracyMeters float64
	EventID        string
}

// Event is an accepted attendance transition handed to the persistence
// collaborator. Events are immutable once created; rejected attempts are
// never persisted as events.
type Event struct {
	ID             string         `json:"id"`
	EmployeeID     string         `json:"employee_id"`
	Type           RequestType    `json:"type"`
	Timestamp      time.Time      `json:"timestamp"`
	OfficeID       string         `json:"office_id"`
	Classification Classification `json:"classification"`
}

// Clock supplies wall-clock time so tests can inject deterministic values.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
