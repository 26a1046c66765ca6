package commands

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ewhitmore/staffroster/pkg/core/services"
)

// FairnessCmd creates the fairness command
func FairnessCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fairness <schedule_id>",
		Short: "Show how evenly a schedule's assignments are distributed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("schedule_id must be a UUID: %w", err)
			}

			report, err := services.ComputeFairness(app.Ctx, app.DB, app.Logger, scheduleID)
			if err != nil {
				return err
			}

			fmt.Printf("\nFairness for schedule %s\n\n", scheduleID)
			fmt.Printf("Index:       %.3f\n", report.Index)
			fmt.Printf("Assignments: %d across %d workers\n\n", report.TotalAssignments, len(report.WorkerCounts))

			if len(report.WorkerCounts) > 0 {
				ids := make([]uuid.UUID, 0, len(report.WorkerCounts))
				for id := range report.WorkerCounts {
					ids = append(ids, id)
				}
				sort.Slice(ids, func(i, j int) bool {
					if report.WorkerCounts[ids[i]] != report.WorkerCounts[ids[j]] {
						return report.WorkerCounts[ids[i]] > report.WorkerCounts[ids[j]]
					}
					return ids[i].String() < ids[j].String()
				})

				fmt.Println("Per-worker counts:")
				for _, id := range ids {
					fmt.Printf("  %s  %d\n", id, report.WorkerCounts[id])
				}
				fmt.Println()
			}

			return nil
		},
	}
}
