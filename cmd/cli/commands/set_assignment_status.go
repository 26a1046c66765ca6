package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ewhitmore/staffroster/pkg/core/model"
)

// SetAssignmentStatusCmd creates the setAssignmentStatus command
func SetAssignmentStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setAssignmentStatus <assignment_id> <status>",
		Short: "Move an assignment through its lifecycle (confirmed, in_progress, completed, cancelled, no_show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignmentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("assignment_id must be a UUID: %w", err)
			}
			status := model.AssignmentStatus(args[1])
			if !status.IsValid() {
				return fmt.Errorf("unknown status %q", args[1])
			}

			if err := app.DB.UpdateAssignmentStatus(app.Ctx, assignmentID, status); err != nil {
				return err
			}

			fmt.Printf("\n✓ Assignment %s is now %s\n\n", assignmentID, status)
			return nil
		},
	}
}
