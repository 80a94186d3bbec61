package store

import (
	"context"
	"time"

	"github.com/facegate/attendance-engine/internal/engine"
)

// EmployeeRepository stores enrolled identities. ActiveEmployees satisfies
// engine.EmployeeSource; it must return employees in a deterministic order
// (by ID) so match tie-breaks are reproducible.
type EmployeeRepository interface {
	ActiveEmployees(ctx context.Context) ([]engine.Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (string, error)
	DeactivateEmployee(ctx context.Context, id string) error
}

// OfficeRepository stores authorized perimeters. ActiveOffices satisfies
// engine.OfficeSource.
type OfficeRepository interface {
	ActiveOffices(ctx context.Context) ([]engine.Office, error)
	ListOffices(ctx context.Context) ([]Office, error)
	CreateOffice(ctx context.Context, office Office) (string, error)
}

// EventRepository is the append-only attendance event log. Append satisfies
// engine.EventSink and returns the persistence-assigned event ID. Events are
// immutable once appended.
type EventRepository interface {
	Append(ctx context.Context, ev engine.Event) (string, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]engine.Event, error)
	EventsForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]engine.Event, error)
}
