package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ewhitmore/staffroster/pkg/core/services"
)

// AutoAssignCmd creates the autoAssign command
func AutoAssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoAssign <schedule_id>",
		Short: "Fill a schedule's open role slots with eligible workers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("schedule_id must be a UUID: %w", err)
			}
			seed, _ := cmd.Flags().GetInt64("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := services.AutoAssign(app.Ctx, app.DB, app.Logger, scheduleID, seed, dryRun)
			if err != nil {
				return err
			}
			run := result.Run

			// Display results
			if result.DryRun {
				fmt.Printf("\n✓ Dry run completed - nothing was saved\n\n")
			} else {
				fmt.Printf("\n✓ Auto-assignment completed!\n\n")
			}
			fmt.Printf("Schedule ID:      %s\n", run.ScheduleID)
			fmt.Printf("Total Slots:      %d\n", run.TotalSlots)
			fmt.Printf("Filled Slots:     %d\n", run.FilledSlots)
			fmt.Printf("Fill Rate:        %.1f%%\n", run.FillRate)
			fmt.Printf("Assignments Made: %d\n", run.AssignmentsMade)
			fmt.Printf("Fairness Index:   %.3f\n\n", run.FairnessIndex)

			if len(run.Shortfalls) > 0 {
				fmt.Printf("Shortfalls (%d):\n", len(run.Shortfalls))
				for _, s := range run.Shortfalls {
					fmt.Printf("  ✗ %s  %s %s (%s-%s): %d of %d filled, short %d\n",
						s.Date.Format("2006-01-02"), s.RoleName, s.ShiftName,
						s.Start, s.End, s.Assigned, s.Required, s.Shortfall)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for score tie-breaking (0 = time-based)")
	cmd.Flags().Bool("dry-run", false, "Run without saving assignments")

	return cmd
}
