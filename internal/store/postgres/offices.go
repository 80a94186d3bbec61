package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/store"
	"github.com/google/uuid"
)

// OfficeRepository provides PostgreSQL-backed office storage.
type OfficeRepository struct {
	pool *Pool
}

// NewOfficeRepository creates a new PostgreSQL office repository.
func NewOfficeRepository(pool *Pool) *OfficeRepository {
	return &OfficeRepository{pool: pool}
}

func scanOffices(rows *sql.Rows) ([]store.Office, error) {
	var offices []store.Office
	for rows.Next() {
		var o store.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters,
			&o.StartTime, &o.EndTime, &o.Active, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offices: %w", err)
	}
	return offices, nil
}

// ActiveOffices returns the active perimeter snapshot for geofencing.
func (r *OfficeRepository) ActiveOffices(ctx context.Context) ([]engine.Office, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, start_time, end_time, active, created_at
		FROM offices
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query active offices: %w", err)
	}
	defer rows.Close()

	offices, err := scanOffices(rows)
	if err != nil {
		return nil, err
	}

	snapshot := make([]engine.Office, 0, len(offices))
	for _, o := range offices {
		snapshot = append(snapshot, o.Snapshot())
	}
	return snapshot, nil
}

// ListOffices returns all offices ordered by name.
func (r *OfficeRepository) ListOffices(ctx context.Context) ([]store.Office, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, start_time, end_time, active, created_at
		FROM offices
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query offices: %w", err)
	}
	defer rows.Close()

	return scanOffices(rows)
}

// CreateOffice inserts a new office and returns its ID. An empty ID is
// replaced with a generated UUID.
func (r *OfficeRepository) CreateOffice(ctx context.Context, office store.Office) (string, error) {
	if office.ID == "" {
		office.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO offices (id, name, latitude, longitude, radius_meters, start_time, end_time, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, office.ID, office.Name, office.Latitude, office.Longitude, office.RadiusMeters,
		office.StartTime, office.EndTime, office.Active)
	if err != nil {
		return "", fmt.Errorf("create office: %w", err)
	}
	return office.ID, nil
}
