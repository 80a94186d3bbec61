package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EmployeeSource supplies the active identity snapshot used for matching.
// The returned slice must be in a deterministic order so tie-breaks are
// reproducible.
type EmployeeSource interface {
	ActiveEmployees(ctx context.Context) ([]Employee, error)
}

// OfficeSource supplies the active office snapshot.
type OfficeSource interface {
	ActiveOffices(ctx context.Context) ([]Office, error)
}

// EventSink durably appends accepted attendance events. It is append-only
// and synchronous; the engine never mutates past events.
type EventSink interface {
	Append(ctx context.Context, ev Event) (string, error)
}

// Options tune engine behavior. Zero values fall back to defaults.
type Options struct {
	DescriptorDim      int
	MatchThreshold     float64
	GraceBeforeMinutes int
	LockWait           time.Duration
	Location           *time.Location
	Clock              Clock
	Matcher            DescriptorMatcher // overrides the brute-force matcher
}

// DefaultDescriptorDim matches the 128-dimensional descriptors produced by
// face-api.js detectors.
const DefaultDescriptorDim = 128

// Engine orchestrates matching, geofencing, window policy and the session
// state machine into a single request/response contract. It is safe for
// concurrent use; the only shared mutable state is the session store, which
// serializes per-key transitions internally.
type Engine struct {
	matcher   DescriptorMatcher
	dim       int
	geofence  *GeofenceValidator
	window    WindowPolicy
	sessions  *SessionStore
	employees EmployeeSource
	offices   OfficeSource
	events    EventSink
	clock     Clock
	loc       *time.Location
}

// New creates an engine wired to the given collaborators.
func New(employees EmployeeSource, offices OfficeSource, events EventSink, opts Options) *Engine {
	dim := opts.DescriptorDim
	if dim <= 0 {
		dim = DefaultDescriptorDim
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = NewMatcher(dim, opts.MatchThreshold)
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Engine{
		matcher:   matcher,
		dim:       dim,
		geofence:  NewGeofenceValidator(),
		window:    NewWindowPolicy(opts.GraceBeforeMinutes),
		sessions:  NewSessionStore(opts.LockWait),
		employees: employees,
		offices:   offices,
		events:    events,
		clock:     clock,
		loc:       loc,
	}
}

// Sessions exposes the session store for summary endpoints and state
// restoration after restarts.
func (e *Engine) Sessions() *SessionStore { return e.sessions }

// Location returns the local timezone used for day keys.
func (e *Engine) Location() *time.Location { return e.loc }

func reject(reason RejectReason) Result {
	return Result{Accepted: false, Reason: reason}
}

// resolveOffices splits the office snapshot into the employee's assigned
// office (if any, and still present in the snapshot) and the full active
// list for the unassigned fallback.
func resolveOffices(emp *Employee, offices []Office) (*Office, []Office) {
	if emp.OfficeID == "" {
		return nil, offices
	}
	for i := range offices {
		if offices[i].ID == emp.OfficeID {
			return &offices[i], offices
		}
	}
	// Assigned office missing from the active snapshot (deactivated or
	// deleted); fall back to the any-active-office policy.
	return nil, offices
}

// transitionErrReason maps session store errors to reject reasons.
func transitionErrReason(err error) RejectReason {
	switch {
	case errors.Is(err, ErrAlreadyOpen):
		return ReasonAlreadyOpen
	case errors.Is(err, ErrNoOpenSession):
		return ReasonNoOpenSession
	case errors.Is(err, ErrConcurrentUpdate):
		return ReasonConcurrentUpdate
	default:
		return ReasonInternalError
	}
}

// Process runs one attendance request through the full pipeline. Rejections
// are first-class results; a non-nil error accompanies only genuine faults
// (snapshot load or persistence failures), in which case the result carries
// ReasonInternalError and the request is safely retryable.
func (e *Engine) Process(ctx context.Context, req Request) (Result, error) {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = e.clock.Now()
	}
	ts = ts.In(e.loc)
	day := DayKey(ts, e.loc)

	// Step 0: boundary validation. The probe must already be the canonical
	// fixed-length vector; anything else never reaches the matcher.
	if len(req.Descriptor) != e.dim {
		return reject(ReasonInvalidDescriptor), nil
	}

	// Step 1: identify the employee.
	snapshot, err := e.employees.ActiveEmployees(ctx)
	if err != nil {
		return reject(ReasonInternalError), fmt.Errorf("loading employee snapshot: %w", err)
	}
	candidates := make([]Candidate, 0, len(snapshot))
	for i := range snapshot {
		candidates = append(candidates, Candidate{
			EmployeeID: snapshot[i].ID,
			Descriptor: snapshot[i].Descriptor,
		})
	}
	match, _ := e.matcher.Match(req.Descriptor, candidates)
	if match == nil {
		return reject(ReasonNoMatch), nil
	}
	var emp *Employee
	for i := range snapshot {
		if snapshot[i].ID == match.EmployeeID {
			emp = &snapshot[i]
			break
		}
	}
	if emp == nil {
		return reject(ReasonNoMatch), nil
	}

	result := Result{
		EmployeeID:    emp.ID,
		MatchDistance: match.Distance,
	}

	// Step 2: infer the request type from session state when absent.
	reqType := req.RequestedType
	if reqType == "" {
		if e.sessions.State(emp.ID, day) == Open {
			reqType = CheckOut
		} else {
			reqType = CheckIn
		}
	}
	result.Type = reqType

	// Step 3: verify the perimeter. A missing location sample is a hard
	// rejection; provider failures are never an implicit allow.
	if req.Location == nil {
		result.Reason = ReasonLocationError
		return result, nil
	}
	officeSnapshot, err := e.offices.ActiveOffices(ctx)
	if err != nil {
		result.Reason = ReasonInternalError
		return result, fmt.Errorf("loading office snapshot: %w", err)
	}
	assigned, active := resolveOffices(emp, officeSnapshot)
	geo := e.geofence.Evaluate(*req.Location, assigned, active)
	result.OfficeID = geo.OfficeID
	result.DistanceMeters = geo.DistanceMeters
	result.AccuracyMeters = geo.AccuracyMeters
	if !geo.Inside {
		result.Reason = ReasonOutsideGeofence
		return result, nil
	}

	// Step 4: time-window policy; check-out is never gated.
	classification := ClassNone
	if reqType == CheckIn {
		office := officeByID(officeSnapshot, geo.OfficeID)
		decision := e.window.Evaluate(reqType, office.StartTime, office.EndTime, ts)
		if !decision.Allowed {
			if decision.Classification == ClassTooEarly {
				result.Reason = ReasonTooEarly
			} else {
				result.Reason = ReasonTooLate
			}
			return result, nil
		}
		classification = decision.Classification
	}

	// Step 5: advance the state machine.
	var rollback func()
	if reqType == CheckIn {
		rollback, err = e.sessions.OpenSession(emp.ID, day, ts)
	} else {
		rollback, err = e.sessions.CloseSession(emp.ID, day, ts)
	}
	if err != nil {
		result.Reason = transitionErrReason(err)
		return result, nil
	}

	// Step 6: persist the accepted event. A write failure rolls the
	// transition back so the whole operation stays transactional and the
	// request is retryable.
	ev := Event{
		EmployeeID:     emp.ID,
		Type:           reqType,
		Timestamp:      ts,
		OfficeID:       geo.OfficeID,
		Classification: classification,
	}
	eventID, err := e.events.Append(ctx, ev)
	if err != nil {
		rollback()
		result.Reason = ReasonInternalError
		return result, fmt.Errorf("persisting attendance event: %w", err)
	}

	result.Accepted = true
	result.Classification = classification
	result.Reason = ""
	result.EventID = eventID
	return result, nil
}

func officeByID(offices []Office, id string) Office {
	for i := range offices {
		if offices[i].ID == id {
			return offices[i]
		}
	}
	return Office{}
}
