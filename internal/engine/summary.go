package engine

import (
	"sort"
	"time"
)

// DailySummary condenses one employee's events for one calendar day into a
// single row: the earliest check-in and the latest check-out.
type DailySummary struct {
	EmployeeID     string         `json:"employee_id"`
	Day            string         `json:"day"`
	CheckInTime    time.Time      `json:"check_in_time,omitzero"`
	CheckOutTime   time.Time      `json:"check_out_time,omitzero"`
	Classification Classification `json:"classification"`
	OfficeID       string         `json:"office_id"`
}

// BuildDailySummaries folds raw attendance events into per-employee, per-day
// summaries. Days are keyed in the given local timezone. The result is
// sorted by day, then employee ID, so output is deterministic.
func BuildDailySummaries(events []Event, loc *time.Location) []DailySummary {
	byKey := make(map[string]*DailySummary)

	for i := range events {
		ev := &events[i]
		day := DayKey(ev.Timestamp, loc)
		key := ev.EmployeeID + "|" + day

		s, ok := byKey[key]
		if !ok {
			s = &DailySummary{EmployeeID: ev.EmployeeID, Day: day}
			byKey[key] = s
		}

		switch ev.Type {
		case CheckIn:
			// Keep the earliest check-in of the day.
			if s.CheckInTime.IsZero() || ev.Timestamp.Before(s.CheckInTime) {
				s.CheckInTime = ev.Timestamp
				s.Classification = ev.Classification
				s.OfficeID = ev.OfficeID
			}
		case CheckOut:
			// Keep the latest check-out of the day.
			if ev.Timestamp.After(s.CheckOutTime) {
				s.CheckOutTime = ev.Timestamp
				if s.OfficeID == "" {
					s.OfficeID = ev.OfficeID
				}
			}
		}
	}

	summaries := make([]DailySummary, 0, len(byKey))
	for _, s := range byKey {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Day != summaries[j].Day {
			return summaries[i].Day < summaries[j].Day
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}
