package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/store"
)

var officesCmd = &cobra.Command{
	Use:   "offices",
	Short: "Manage office geofences",
}

var officesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List offices",
	RunE:  runOfficesList,
}

var officesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an office geofence",
	Args:  cobra.ExactArgs(1),
	RunE:  runOfficesAdd,
}

func init() {
	rootCmd.AddCommand(officesCmd)
	officesCmd.AddCommand(officesListCmd)
	officesCmd.AddCommand(officesAddCmd)

	officesAddCmd.Flags().Float64("lat", 0, "Office latitude (required)")
	officesAddCmd.Flags().Float64("lon", 0, "Office longitude (required)")
	officesAddCmd.Flags().Float64("radius", 300, "Geofence radius in meters")
	officesAddCmd.Flags().String("start", "", "Office hours start, HH:MM")
	officesAddCmd.Flags().String("end", "", "Office hours end, HH:MM")
	officesAddCmd.MarkFlagRequired("lat")
	officesAddCmd.MarkFlagRequired("lon")
}

func runOfficesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	offices, err := b.repos.Offices.ListOffices(ctx)
	if err != nil {
		return fmt.Errorf("listing offices: %w", err)
	}
	if len(offices) == 0 {
		fmt.Println("No offices configured")
		return nil
	}

	for _, o := range offices {
		status := "active"
		if !o.Active {
			status = "inactive"
		}
		hours := "no hours"
		if o.StartTime != "" || o.EndTime != "" {
			hours = o.StartTime + "-" + o.EndTime
		}
		fmt.Printf("%s  %-20s (%.5f, %.5f) r=%.0fm %s [%s]\n",
			o.ID, o.Name, o.Latitude, o.Longitude, o.RadiusMeters, hours, status)
	}
	return nil
}

func runOfficesAdd(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	id, err := b.repos.Offices.CreateOffice(ctx, store.Office{
		Name:         args[0],
		Latitude:     mustGetFloat64(cmd, "lat"),
		Longitude:    mustGetFloat64(cmd, "lon"),
		RadiusMeters: mustGetFloat64(cmd, "radius"),
		StartTime:    mustGetString(cmd, "start"),
		EndTime:      mustGetString(cmd, "end"),
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("creating office: %w", err)
	}

	fmt.Printf("Created office %s\n", id)
	return nil
}
