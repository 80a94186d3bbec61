package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultGraceBeforeMinutes is how long before official start time a
// check-in is still accepted.
const DefaultGraceBeforeMinutes = 120

// WindowDecision is the outcome of evaluating the attendance time window.
type WindowDecision struct {
	Classification Classification
	Allowed        bool
}

// WindowPolicy evaluates office hours at minute granularity. Only check-in
// is time-gated; check-out is deliberately ungated (only the session-state
// precondition applies), matching long-standing attendance behavior.
type WindowPolicy struct {
	GraceBeforeMinutes int
}

// NewWindowPolicy creates a policy with the given grace period. Non-positive
// grace falls back to DefaultGraceBeforeMinutes.
func NewWindowPolicy(graceBeforeMinutes int) WindowPolicy {
	if graceBeforeMinutes <= 0 {
		graceBeforeMinutes = DefaultGraceBeforeMinutes
	}
	return WindowPolicy{GraceBeforeMinutes: graceBeforeMinutes}
}

// parseClockMinutes parses a local "HH:MM" value into minutes since
// midnight.
func parseClockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// Evaluate classifies an attendance attempt against office hours. startTime
// and endTime are same-calendar-day local "HH:MM" values; when either is
// missing or unparsable the office is treated as ungated and the attempt is
// allowed on time. All boundaries are inclusive at minute granularity.
func (p WindowPolicy) Evaluate(reqType RequestType, startTime, endTime string, ts time.Time) WindowDecision {
	if reqType == CheckOut {
		return WindowDecision{Classification: ClassNone, Allowed: true}
	}

	startMinutes, errStart := parseClockMinutes(startTime)
	endMinutes, errEnd := parseClockMinutes(endTime)
	if errStart != nil || errEnd != nil {
		return WindowDecision{Classification: ClassOnTime, Allowed: true}
	}

	curMinutes := ts.Hour()*60 + ts.Minute()

	switch {
	case curMinutes < startMinutes-p.GraceBeforeMinutes:
		return WindowDecision{Classification: ClassTooEarly, Allowed: false}
	case curMinutes <= startMinutes:
		return WindowDecision{Classification: ClassOnTime, Allowed: true}
	case curMinutes <= endMinutes:
		return WindowDecision{Classification: ClassLate, Allowed: true}
	default:
		return WindowDecision{Classification: ClassTooLate, Allowed: false}
	}
}
