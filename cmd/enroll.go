package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/store"
	"github.com/facegate/attendance-engine/internal/store/postgres"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <descriptor.json>",
	Short: "Enroll an employee from a descriptor file",
	Long: `Enroll a new employee. The file holds a JSON array with the face
descriptor produced by the capture pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("name", "", "Employee name (required)")
	enrollCmd.Flags().String("office", "", "Assigned office ID (optional)")
	enrollCmd.MarkFlagRequired("name")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading descriptor file: %w", err)
	}
	var values []float32
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parsing descriptor file: %w", err)
	}

	cfg := config.Load()
	if _, err := engine.NewDescriptor(values, cfg.Engine.DescriptorDim); err != nil {
		return err
	}

	ctx := context.Background()
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	// With a database backend, warn when the descriptor is suspiciously
	// close to an already enrolled employee.
	if repo, ok := b.repos.Employees.(*postgres.EmployeeRepository); ok {
		similar, distances, err := repo.FindSimilar(ctx, values, 1)
		if err != nil {
			return fmt.Errorf("checking for similar employees: %w", err)
		}
		if len(similar) > 0 && distances[0] < cfg.Engine.MatchThreshold {
			fmt.Printf("Warning: descriptor is within match distance (%.3f) of %s (%s)\n",
				distances[0], similar[0].Name, similar[0].ID)
		}
	}

	id, err := b.repos.Employees.CreateEmployee(ctx, store.Employee{
		Name:       mustGetString(cmd, "name"),
		Descriptor: values,
		OfficeID:   mustGetString(cmd, "office"),
		Active:     true,
	})
	if err != nil {
		return fmt.Errorf("enrolling employee: %w", err)
	}

	fmt.Printf("Enrolled employee %s\n", id)
	return nil
}
