// Package seed loads demo fixture data from a YAML file into the in-memory
// repositories when the service runs without a database.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/facegate/attendance-engine/internal/store"
)

// File is the root of a seed YAML document.
type File struct {
	Offices   []Office   `yaml:"offices"`
	Employees []Employee `yaml:"employees"`
}

type Office struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	RadiusMeters float64 `yaml:"radius_meters"`
	StartTime    string  `yaml:"start_time"`
	EndTime      string  `yaml:"end_time"`
}

type Employee struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	OfficeID   string    `yaml:"office_id"`
	Descriptor []float32 `yaml:"descriptor"`
}

// Parse decodes a seed document from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes a seed document from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Apply inserts the seed data into the given repositories. Offices are
// created first so employee office references resolve.
func (f *File) Apply(ctx context.Context, employees store.EmployeeRepository, offices store.OfficeRepository) error {
	for _, o := range f.Offices {
		radius := o.RadiusMeters
		if radius <= 0 {
			radius = 300
		}
		_, err := offices.CreateOffice(ctx, store.Office{
			ID:           o.ID,
			Name:         o.Name,
			Latitude:     o.Latitude,
			Longitude:    o.Longitude,
			RadiusMeters: radius,
			StartTime:    o.StartTime,
			EndTime:      o.EndTime,
			Active:       true,
		})
		if err != nil {
			return fmt.Errorf("seeding office %q: %w", o.Name, err)
		}
	}

	for _, e := range f.Employees {
		_, err := employees.CreateEmployee(ctx, store.Employee{
			ID:         e.ID,
			Name:       e.Name,
			Descriptor: e.Descriptor,
			OfficeID:   e.OfficeID,
			Active:     true,
		})
		if err != nil {
			return fmt.Errorf("seeding employee %q: %w", e.Name, err)
		}
	}
	return nil
}
