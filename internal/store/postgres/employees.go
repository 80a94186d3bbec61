package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/store"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// EmployeeRepository provides PostgreSQL-backed employee storage with the
// descriptor held in a pgvector column.
type EmployeeRepository struct {
	pool *Pool
}

// NewEmployeeRepository creates a new PostgreSQL employee repository.
func NewEmployeeRepository(pool *Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func scanEmployees(rows *sql.Rows) ([]store.Employee, error) {
	var employees []store.Employee
	for rows.Next() {
		var emp store.Employee
		var descriptor pgvector.Vector
		var officeID sql.NullString
		if err := rows.Scan(&emp.ID, &emp.Name, &descriptor, &officeID, &emp.Active, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		emp.Descriptor = descriptor.Slice()
		emp.OfficeID = officeID.String
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

// ActiveEmployees returns the active identity snapshot for matching, ordered
// by ID so tie-breaks are deterministic.
func (r *EmployeeRepository) ActiveEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, descriptor, office_id, active, created_at
		FROM employees
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query active employees: %w", err)
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}

	snapshot := make([]engine.Employee, 0, len(employees))
	for _, emp := range employees {
		snapshot = append(snapshot, emp.Snapshot())
	}
	return snapshot, nil
}

// ListEmployees returns all employees, active or not, ordered by name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, descriptor, office_id, active, created_at
		FROM employees
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// GetEmployee returns a single employee, or nil if not found.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (*store.Employee, error) {
	var emp store.Employee
	var descriptor pgvector.Vector
	var officeID sql.NullString
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, descriptor, office_id, active, created_at
		FROM employees
		WHERE id = $1
	`, id).Scan(&emp.ID, &emp.Name, &descriptor, &officeID, &emp.Active, &emp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	emp.Descriptor = descriptor.Slice()
	emp.OfficeID = officeID.String
	return &emp, nil
}

// CreateEmployee inserts a new employee and returns its ID. An empty ID is
// replaced with a generated UUID.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, emp store.Employee) (string, error) {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	var officeID any
	if emp.OfficeID != "" {
		officeID = emp.OfficeID
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employees (id, name, descriptor, office_id, active)
		VALUES ($1, $2, $3, $4, $5)
	`, emp.ID, emp.Name, pgvector.NewVector(emp.Descriptor), officeID, emp.Active)
	if err != nil {
		return "", fmt.Errorf("create employee: %w", err)
	}
	return emp.ID, nil
}

// DeactivateEmployee removes an employee from the active matching snapshot
// without deleting enrollment history.
func (r *EmployeeRepository) DeactivateEmployee(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, "UPDATE employees SET active = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("employee %s not found", id)
	}
	return nil
}

// FindSimilar returns the employees whose stored descriptors are closest to
// the probe, using pgvector's L2 distance operator. This lets operators
// audit near-matches directly from the database.
func (r *EmployeeRepository) FindSimilar(ctx context.Context, probe []float32, limit int) ([]store.Employee, []float64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, descriptor, office_id, active, created_at,
		       descriptor <-> $1 AS distance
		FROM employees
		WHERE active
		ORDER BY distance
		LIMIT $2
	`, pgvector.NewVector(probe), limit)
	if err != nil {
		return nil, nil, fmt.Errorf("query similar employees: %w", err)
	}
	defer rows.Close()

	var employees []store.Employee
	var distances []float64
	for rows.Next() {
		var emp store.Employee
		var descriptor pgvector.Vector
		var officeID sql.NullString
		var distance float64
		if err := rows.Scan(&emp.ID, &emp.Name, &descriptor, &officeID, &emp.Active, &emp.CreatedAt, &distance); err != nil {
			return nil, nil, fmt.Errorf("scan similar employee: %w", err)
		}
		emp.Descriptor = descriptor.Slice()
		emp.OfficeID = officeID.String
		employees = append(employees, emp)
		distances = append(distances, distance)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate similar employees: %w", err)
	}
	return employees, distances, nil
}
