// Package mock provides in-memory implementations of the store interfaces
// for tests and the database-less demo mode.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/store"
	"github.com/google/uuid"
)

// EmployeeRepository is an in-memory store.EmployeeRepository.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]store.Employee

	// Error injection for engine failure-path tests.
	ActiveError error
}

// NewEmployeeRepository creates an empty in-memory employee repository.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]store.Employee)}
}

// ActiveEmployees returns active employees ordered by ID.
func (r *EmployeeRepository) ActiveEmployees(ctx context.Context) ([]engine.Employee, error) {
	if r.ActiveError != nil {
		return nil, r.ActiveError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snapshot []engine.Employee
	for _, emp := range r.employees {
		if emp.Active {
			snapshot = append(snapshot, emp.Snapshot())
		}
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot, nil
}

// ListEmployees returns all employees ordered by name, then ID.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]store.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// GetEmployee returns an employee by ID, or nil if not found.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (*store.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if emp, ok := r.employees[id]; ok {
		return &emp, nil
	}
	return nil, nil
}

// CreateEmployee adds an employee, generating an ID when absent.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, emp store.Employee) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if _, exists := r.employees[emp.ID]; exists {
		return "", fmt.Errorf("employee %s already exists", emp.ID)
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now()
	}
	r.employees[emp.ID] = emp
	return emp.ID, nil
}

// DeactivateEmployee marks an employee inactive.
func (r *EmployeeRepository) DeactivateEmployee(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	emp, ok := r.employees[id]
	if !ok {
		return fmt.Errorf("employee %s not found", id)
	}
	emp.Active = false
	r.employees[id] = emp
	return nil
}

// OfficeRepository is an in-memory store.OfficeRepository.
type OfficeRepository struct {
	mu      sync.RWMutex
	offices map[string]store.Office

	ActiveError error
}

// NewOfficeRepository creates an empty in-memory office repository.
func NewOfficeRepository() *OfficeRepository {
	return &OfficeRepository{offices: make(map[string]store.Office)}
}

// ActiveOffices returns active offices ordered by ID.
func (r *OfficeRepository) ActiveOffices(ctx context.Context) ([]engine.Office, error) {
	if r.ActiveError != nil {
		return nil, r.ActiveError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snapshot []engine.Office
	for _, o := range r.offices {
		if o.Active {
			snapshot = append(snapshot, o.Snapshot())
		}
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot, nil
}

// ListOffices returns all offices ordered by name, then ID.
func (r *OfficeRepository) ListOffices(ctx context.Context) ([]store.Office, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offices := make([]store.Office, 0, len(r.offices))
	for _, o := range r.offices {
		offices = append(offices, o)
	}
	sort.Slice(offices, func(i, j int) bool {
		if offices[i].Name != offices[j].Name {
			return offices[i].Name < offices[j].Name
		}
		return offices[i].ID < offices[j].ID
	})
	return offices, nil
}

// CreateOffice adds an office, generating an ID when absent.
func (r *OfficeRepository) CreateOffice(ctx context.Context, office store.Office) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if office.ID == "" {
		office.ID = uuid.NewString()
	}
	if _, exists := r.offices[office.ID]; exists {
		return "", fmt.Errorf("office %s already exists", office.ID)
	}
	if office.CreatedAt.IsZero() {
		office.CreatedAt = time.Now()
	}
	r.offices[office.ID] = office
	return office.ID, nil
}

// EventRepository is an in-memory append-only store.EventRepository.
type EventRepository struct {
	mu     sync.RWMutex
	events []engine.Event

	AppendError error
}

// NewEventRepository creates an empty in-memory event log.
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Append records an event and returns a generated ID.
func (r *EventRepository) Append(ctx context.Context, ev engine.Event) (string, error) {
	if r.AppendError != nil {
		return "", r.AppendError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = uuid.NewString()
	r.events = append(r.events, ev)
	return ev.ID, nil
}

// EventsBetween returns events in [from, to) in chronological order.
func (r *EventRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]engine.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []engine.Event
	for _, ev := range r.events {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// EventsForEmployee returns one employee's events in [from, to).
func (r *EventRepository) EventsForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]engine.Event, error) {
	all, err := r.EventsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var out []engine.Event
	for _, ev := range all {
		if ev.EmployeeID == employeeID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Count returns the number of appended events.
func (r *EventRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
