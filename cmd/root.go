package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-engine",
	Short: "Face-recognition attendance determination service",
	Long: `Attendance Engine decides whether a kiosk attendance request becomes a
check-in or check-out event: it matches the face descriptor against enrolled
employees, validates the kiosk location against office geofences, applies the
office-hours policy and advances the per-day session state machine.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
