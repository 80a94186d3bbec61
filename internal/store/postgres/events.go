package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/facegate/attendance-engine/internal/engine"
)

// EventRepository provides the append-only PostgreSQL attendance event log.
// Event IDs are assigned by the database sequence.
type EventRepository struct {
	pool *Pool
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(pool *Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Append durably records an accepted attendance event and returns the
// assigned ID. Events are never updated or deleted.
func (r *EventRepository) Append(ctx context.Context, ev engine.Event) (string, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_events (employee_id, type, ts, office_id, classification)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, ev.EmployeeID, string(ev.Type), ev.Timestamp, nullable(ev.OfficeID), string(ev.Classification)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("append attendance event: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanEvents(rows *sql.Rows) ([]engine.Event, error) {
	var events []engine.Event
	for rows.Next() {
		var ev engine.Event
		var id int64
		var evType, classification string
		var officeID sql.NullString
		if err := rows.Scan(&id, &ev.EmployeeID, &evType, &ev.Timestamp, &officeID, &classification); err != nil {
			return nil, fmt.Errorf("scan attendance event: %w", err)
		}
		ev.ID = strconv.FormatInt(id, 10)
		ev.Type = engine.RequestType(evType)
		ev.Classification = engine.Classification(classification)
		ev.OfficeID = officeID.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance events: %w", err)
	}
	return events, nil
}

// EventsBetween returns all events in [from, to) in chronological order.
func (r *EventRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]engine.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, type, ts, office_id, classification
		FROM attendance_events
		WHERE ts >= $1 AND ts < $2
		ORDER BY ts, id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// EventsForEmployee returns one employee's events in [from, to) in
// chronological order.
func (r *EventRepository) EventsForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]engine.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, type, ts, office_id, classification
		FROM attendance_events
		WHERE employee_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts, id
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query employee attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}
