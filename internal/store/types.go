// Package store defines the storage contracts and stored record types shared
// by the PostgreSQL and in-memory backends.
package store

import (
	"time"

	"github.com/facegate/attendance-engine/internal/engine"
)

// Employee is a stored enrolled identity.
type Employee struct {
	ID         string
	Name       string
	Descriptor []float32
	OfficeID   string
	Active     bool
	CreatedAt  time.Time
}

// Snapshot converts the stored record to the engine's read snapshot type.
func (e Employee) Snapshot() engine.Employee {
	return engine.Employee{
		ID:         e.ID,
		Name:       e.Name,
		Descriptor: engine.Descriptor(e.Descriptor),
		OfficeID:   e.OfficeID,
		Active:     e.Active,
	}
}

// Office is a stored authorized perimeter with local office hours.
type Office struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	StartTime    string
	EndTime      string
	Active       bool
	CreatedAt    time.Time
}

// Snapshot converts the stored record to the engine's read snapshot type.
func (o Office) Snapshot() engine.Office {
	return engine.Office{
		ID:           o.ID,
		Name:         o.Name,
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Active:       o.Active,
	}
}
