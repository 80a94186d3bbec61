package engine

import (
	"errors"
	"sync"
	"time"
)

// Session state machine errors. These are expected business outcomes mapped
// to reject reasons by the engine, not faults.
var (
	ErrAlreadyOpen      = errors.New("session already open or closed for this day")
	ErrNoOpenSession    = errors.New("no open session for this day")
	ErrConcurrentUpdate = errors.New("timed out waiting for session lock")
)

// SessionState is the per-(employee, day) attendance state.
type SessionState int

const (
	NoSession SessionState = iota
	Open
	Closed
)

// String implements fmt.Stringer for logging.
func (s SessionState) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "none"
	}
}

// Session is a snapshot of one employee's attendance state for one calendar
// day.
type Session struct {
	EmployeeID   string
	Day          string
	State        SessionState
	CheckInTime  time.Time
	CheckOutTime time.Time
}

// DefaultLockWait bounds how long a transition waits for the per-key lock
// before failing with ErrConcurrentUpdate.
const DefaultLockWait = 2 * time.Second

// DayKey renders a timestamp as the local calendar-day session key.
func DayKey(ts time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format("2006-01-02")
}

// session holds mutable per-key state. Field access is guarded by the store
// mutex; the sem channel serializes transitions for the key so two
// concurrent check-ins can never both succeed.
type session struct {
	sem          chan struct{}
	state        SessionState
	checkInTime  time.Time
	checkOutTime time.Time
}

// SessionStore is the in-memory per-employee, per-day session state machine.
// Transitions are atomic with respect to concurrent callers for the same
// key. The key lock is held only across the check-then-set of a single
// transition, never across persistence I/O; persist failures are undone via
// the rollback closure returned by each transition.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	lockWait time.Duration
}

// NewSessionStore creates a session store. Non-positive lockWait falls back
// to DefaultLockWait.
func NewSessionStore(lockWait time.Duration) *SessionStore {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		lockWait: lockWait,
	}
}

func sessionKey(employeeID, day string) string {
	return employeeID + "|" + day
}

func (s *SessionStore) get(employeeID, day string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(employeeID, day)
	sess, ok := s.sessions[key]
	if !ok {
		sess = &session{sem: make(chan struct{}, 1)}
		s.sessions[key] = sess
	}
	return sess
}

// acquire takes the per-key transition lock with a bounded wait.
func (s *SessionStore) acquire(sess *session) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case sess.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrConcurrentUpdate
	}
}

func (s *SessionStore) release(sess *session) {
	<-sess.sem
}

// State returns the current state for an employee/day key without taking the
// transition lock. Used for request-type inference; the authoritative check
// happens inside the transition itself.
func (s *SessionStore) State(employeeID, day string) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionKey(employeeID, day)]; ok {
		return sess.state
	}
	return NoSession
}

// Get returns a snapshot of the session for an employee/day key.
func (s *SessionStore) Get(employeeID, day string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey(employeeID, day)]
	if !ok {
		return Session{}, false
	}
	return Session{
		EmployeeID:   employeeID,
		Day:          day,
		State:        sess.state,
		CheckInTime:  sess.checkInTime,
		CheckOutTime: sess.checkOutTime,
	}, true
}

// OpenSession transitions NoSession -> Open. It fails with ErrAlreadyOpen
// from Open or Closed (Closed is terminal for the day). On success it
// returns a rollback closure that reverts the transition if the
// corresponding event cannot be persisted.
func (s *SessionStore) OpenSession(employeeID, day string, at time.Time) (func(), error) {
	sess := s.get(employeeID, day)
	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	defer s.release(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.state != NoSession {
		return nil, ErrAlreadyOpen
	}
	sess.state = Open
	sess.checkInTime = at

	return func() { s.revertOpen(sess, at) }, nil
}

// CloseSession transitions Open -> Closed. It fails with ErrNoOpenSession
// from NoSession or Closed. On success it returns a rollback closure that
// reverts the transition if the corresponding event cannot be persisted.
func (s *SessionStore) CloseSession(employeeID, day string, at time.Time) (func(), error) {
	sess := s.get(employeeID, day)
	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	defer s.release(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.state != Open {
		return nil, ErrNoOpenSession
	}
	sess.state = Closed
	sess.checkOutTime = at

	return func() { s.revertClose(sess, at) }, nil
}

// revertOpen undoes an Open transition after a persistence failure. It
// blocks on the key lock rather than timing out: the compensating write must
// happen or the employee would be stuck with an Open session that never made
// it to storage.
func (s *SessionStore) revertOpen(sess *session, at time.Time) {
	sess.sem <- struct{}{}
	defer s.release(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.state == Open && sess.checkInTime.Equal(at) {
		sess.state = NoSession
		sess.checkInTime = time.Time{}
	}
}

// revertClose undoes a Close transition after a persistence failure.
func (s *SessionStore) revertClose(sess *session, at time.Time) {
	sess.sem <- struct{}{}
	defer s.release(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.state == Closed && sess.checkOutTime.Equal(at) {
		sess.state = Open
		sess.checkOutTime = time.Time{}
	}
}

// Restore primes the state machine from previously persisted events, e.g.
// after a restart. Events must be supplied in chronological order per
// employee. Transitions that violate the state machine are skipped.
func (s *SessionStore) Restore(events []Event, loc *time.Location) {
	for i := range events {
		ev := &events[i]
		day := DayKey(ev.Timestamp, loc)
		switch ev.Type {
		case CheckIn:
			_, _ = s.OpenSession(ev.EmployeeID, day, ev.Timestamp)
		case CheckOut:
			_, _ = s.CloseSession(ev.EmployeeID, day, ev.Timestamp)
		}
	}
}
