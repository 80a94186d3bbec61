package engine

import (
	"testing"
	"time"
)

func TestBuildDailySummaries(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{EmployeeID: "e1", Type: CheckIn, Timestamp: day.Add(9 * time.Hour), Classification: ClassOnTime, OfficeID: "hq"},
		{EmployeeID: "e1", Type: CheckOut, Timestamp: day.Add(18 * time.Hour), OfficeID: "hq"},
		{EmployeeID: "e2", Type: CheckIn, Timestamp: day.Add(10 * time.Hour), Classification: ClassLate, OfficeID: "hq"},
		// Next day for e1.
		{EmployeeID: "e1", Type: CheckIn, Timestamp: day.Add(33 * time.Hour), Classification: ClassOnTime, OfficeID: "hq"},
	}

	summaries := BuildDailySummaries(events, time.UTC)
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}

	// Sorted by day then employee ID.
	if summaries[0].EmployeeID != "e1" || summaries[0].Day != "2026-03-02" {
		t.Errorf("summaries[0] = %+v, want e1 on 2026-03-02", summaries[0])
	}
	if !summaries[0].CheckInTime.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("e1 check-in = %v, want 09:00", summaries[0].CheckInTime)
	}
	if !summaries[0].CheckOutTime.Equal(day.Add(18 * time.Hour)) {
		t.Errorf("e1 check-out = %v, want 18:00", summaries[0].CheckOutTime)
	}
	if summaries[0].Classification != ClassOnTime {
		t.Errorf("e1 classification = %q, want on_time", summaries[0].Classification)
	}

	if summaries[1].EmployeeID != "e2" || !summaries[1].CheckOutTime.IsZero() {
		t.Errorf("summaries[1] = %+v, want e2 with no check-out", summaries[1])
	}
	if summaries[2].Day != "2026-03-03" {
		t.Errorf("summaries[2].Day = %q, want 2026-03-03", summaries[2].Day)
	}
}

func TestBuildDailySummaries_EarliestInLatestOut(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{EmployeeID: "e1", Type: CheckIn, Timestamp: day.Add(10 * time.Hour), Classification: ClassLate},
		{EmployeeID: "e1", Type: CheckIn, Timestamp: day.Add(9 * time.Hour), Classification: ClassOnTime},
		{EmployeeID: "e1", Type: CheckOut, Timestamp: day.Add(17 * time.Hour)},
		{EmployeeID: "e1", Type: CheckOut, Timestamp: day.Add(18 * time.Hour)},
	}

	summaries := BuildDailySummaries(events, time.UTC)
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if !s.CheckInTime.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("check-in = %v, want the earliest of the day", s.CheckInTime)
	}
	if !s.CheckOutTime.Equal(day.Add(18 * time.Hour)) {
		t.Errorf("check-out = %v, want the latest of the day", s.CheckOutTime)
	}
	if s.Classification != ClassOnTime {
		t.Errorf("classification = %q, want the earliest check-in's on_time", s.Classification)
	}
}

func TestBuildDailySummaries_Empty(t *testing.T) {
	if got := BuildDailySummaries(nil, time.UTC); len(got) != 0 {
		t.Errorf("got %d summaries for no events, want 0", len(got))
	}
}
