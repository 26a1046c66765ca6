package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ewhitmore/staffroster/pkg/core/conflict"
	"github.com/ewhitmore/staffroster/pkg/core/services"
)

// DetectConflictsCmd creates the detectConflicts command
func DetectConflictsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detectConflicts <schedule_id>",
		Short: "Scan a schedule's assignments for conflicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("schedule_id must be a UUID: %w", err)
			}

			report, err := services.DetectConflicts(app.Ctx, app.DB, app.Logger, scheduleID)
			if err != nil {
				return err
			}

			if report.Clean() {
				fmt.Printf("\n✓ No conflicts found in schedule %s\n\n", scheduleID)
				return nil
			}

			fmt.Printf("\n⚠ Found %d conflicts in schedule %s\n\n", len(report.Conflicts), scheduleID)
			for _, c := range report.Conflicts {
				fmt.Printf("  [%s] %s on %s\n", c.Severity, c.Type, c.Date.Format("2006-01-02"))
				switch c.Type {
				case conflict.TypeOverlappingAssignments:
					fmt.Printf("      worker %s holds overlapping shifts: %v\n", c.WorkerID, c.Details.Shifts)
				case conflict.TypeCapacityViolation:
					fmt.Printf("      %s: %d assigned, %d required (%d over)\n",
						c.Details.RoleName, c.Details.Assigned, c.Details.Required, c.Details.Excess)
				case conflict.TypeAvailabilityViolation:
					fmt.Printf("      worker %s: %s\n", c.WorkerID, c.Details.Reason)
				case conflict.TypeTimeOffConflict:
					fmt.Printf("      worker %s has approved time off (%s)\n", c.WorkerID, c.Details.TimeOffWindow)
				}
			}

			fmt.Println()
			fmt.Printf("By severity: %d high, %d medium\n\n",
				report.CountsBySeverity[conflict.SeverityHigh],
				report.CountsBySeverity[conflict.SeverityMedium])

			return nil
		},
	}
}
