package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/engine"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [YYYY-MM-DD]",
	Short: "Print the attendance summary for a day",
	Long: `Print one row per employee with activity on the given day (default
today): earliest check-in, latest check-out and the check-in classification.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	loc := time.Local
	if cfg.Engine.Timezone != "" {
		parsed, err := time.LoadLocation(cfg.Engine.Timezone)
		if err != nil {
			return fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", cfg.Engine.Timezone, err)
		}
		loc = parsed
	}

	day := time.Now().In(loc)
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("2006-01-02", args[0], loc)
		if err != nil {
			return fmt.Errorf("day must be YYYY-MM-DD: %w", err)
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	to := from.Add(24 * time.Hour)

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	events, err := b.repos.Events.EventsBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	summaries := engine.BuildDailySummaries(events, loc)
	if len(summaries) == 0 {
		fmt.Printf("No attendance events on %s\n", from.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("Attendance for %s\n", from.Format("2006-01-02"))
	for _, s := range summaries {
		in := "--:--"
		if !s.CheckInTime.IsZero() {
			in = s.CheckInTime.In(loc).Format("15:04")
		}
		out := "--:--"
		if !s.CheckOutTime.IsZero() {
			out = s.CheckOutTime.In(loc).Format("15:04")
		}
		fmt.Printf("%s  in=%s out=%s %s\n", s.EmployeeID, in, out, s.Classification)
	}
	return nil
}
