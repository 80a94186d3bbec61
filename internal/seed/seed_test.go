package seed

import (
	"context"
	"testing"

	"github.com/facegate/attendance-engine/internal/store/mock"
)

const sampleYAML = `
offices:
  - id: office-hq
    name: Headquarters
    latitude: 28.62884
    longitude: 77.37633
    radius_meters: 300
    start_time: "09:00"
    end_time: "18:00"
  - name: Branch
    latitude: 12.9716
    longitude: 77.5946
    start_time: "10:00"
    end_time: "19:00"

employees:
  - id: emp-001
    name: Asha Rao
    office_id: office-hq
    descriptor: [0.1, 0.2, 0.3, 0.4]
  - name: Ravi Kumar
    descriptor: [0.5, 0.6, 0.7, 0.8]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(f.Offices) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(f.Offices))
	}
	if len(f.Employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(f.Employees))
	}
	if f.Offices[0].ID != "office-hq" {
		t.Errorf("office ID = %q, want office-hq", f.Offices[0].ID)
	}
	if f.Employees[0].OfficeID != "office-hq" {
		t.Errorf("employee office_id = %q, want office-hq", f.Employees[0].OfficeID)
	}
	if len(f.Employees[0].Descriptor) != 4 {
		t.Errorf("descriptor length = %d, want 4", len(f.Employees[0].Descriptor))
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("offices: [not a mapping")); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	employees := mock.NewEmployeeRepository()
	offices := mock.NewOfficeRepository()
	ctx := context.Background()

	if err := f.Apply(ctx, employees, offices); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	activeOffices, err := offices.ActiveOffices(ctx)
	if err != nil {
		t.Fatalf("ActiveOffices failed: %v", err)
	}
	if len(activeOffices) != 2 {
		t.Fatalf("expected 2 active offices, got %d", len(activeOffices))
	}

	// The branch office omitted radius_meters and should get the default.
	for _, o := range activeOffices {
		if o.RadiusMeters != 300 {
			t.Errorf("office %q radius = %v, want 300", o.Name, o.RadiusMeters)
		}
	}

	activeEmployees, err := employees.ActiveEmployees(ctx)
	if err != nil {
		t.Fatalf("ActiveEmployees failed: %v", err)
	}
	if len(activeEmployees) != 2 {
		t.Fatalf("expected 2 active employees, got %d", len(activeEmployees))
	}

	emp, err := employees.GetEmployee(ctx, "emp-001")
	if err != nil || emp == nil {
		t.Fatalf("GetEmployee(emp-001) = %v, %v", emp, err)
	}
	if emp.OfficeID != "office-hq" {
		t.Errorf("employee office = %q, want office-hq", emp.OfficeID)
	}
}
