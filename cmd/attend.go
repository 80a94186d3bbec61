package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/engine"
)

var attendCmd = &cobra.Command{
	Use:   "attend <capture.json>",
	Short: "Process a single attendance capture file",
	Long: `Process one attendance request from a JSON capture file and print the
decision. The file holds the face descriptor and the kiosk location:

  {
    "descriptor": [0.12, ...],
    "location": {"latitude": 28.62, "longitude": 77.37, "accuracy_meters": 15},
    "type": "check-in",
    "timestamp": "2026-03-02T09:05:00+05:30"
  }

type and timestamp are optional; the engine infers the type from the current
session state and defaults the timestamp to now.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)
}

// captureFile mirrors the kiosk request body for offline processing.
type captureFile struct {
	Descriptor []float32 `json:"descriptor"`
	Location   *struct {
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
		AccuracyMeters float64 `json:"accuracy_meters"`
	} `json:"location"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

func runAttend(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading capture file: %w", err)
	}
	var capture captureFile
	if err := json.Unmarshal(data, &capture); err != nil {
		return fmt.Errorf("parsing capture file: %w", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	eng, err := buildEngine(ctx, cfg, b)
	if err != nil {
		return err
	}

	req := engine.Request{
		Descriptor:    engine.Descriptor(capture.Descriptor),
		RequestedType: engine.RequestType(capture.Type),
	}
	if capture.Location != nil {
		req.Location = &engine.Geolocation{
			Latitude:       capture.Location.Latitude,
			Longitude:      capture.Location.Longitude,
			AccuracyMeters: capture.Location.AccuracyMeters,
		}
	}
	if capture.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, capture.Timestamp)
		if err != nil {
			return fmt.Errorf("timestamp must be RFC 3339: %w", err)
		}
		req.Timestamp = ts
	}

	res, err := eng.Process(ctx, req)
	if err != nil {
		return err
	}

	if res.Accepted {
		fmt.Printf("ACCEPTED %s employee=%s classification=%s office=%s event=%s\n",
			res.Type, res.EmployeeID, res.Classification, res.OfficeID, res.EventID)
	} else {
		fmt.Printf("REJECTED reason=%s", res.Reason)
		if res.EmployeeID != "" {
			fmt.Printf(" employee=%s", res.EmployeeID)
		}
		if res.Reason == engine.ReasonOutsideGeofence {
			fmt.Printf(" distance=%.0fm", res.DistanceMeters)
		}
		fmt.Println()
	}
	return nil
}
