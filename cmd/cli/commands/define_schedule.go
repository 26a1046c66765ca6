package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewhitmore/staffroster/pkg/core/services"
)

// DefineScheduleCmd creates the defineSchedule command. Slot templates come
// from the config file; role and shift names are resolved against the
// database before expansion.
func DefineScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defineSchedule <name> <week_start>",
		Short: "Create a draft schedule and expand the configured slot templates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			weekStart, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("week_start must be YYYY-MM-DD: %w", err)
			}
			days, _ := cmd.Flags().GetInt("days")
			if days == 0 {
				days = app.Cfg.DefaultScheduleDays
			}

			templates := make([]services.SlotTemplate, 0, len(app.Cfg.SlotTemplates))
			for _, tmpl := range app.Cfg.SlotTemplates {
				role, err := app.DB.GetRoleByName(app.Ctx, app.OrgID, tmpl.Role)
				if err != nil {
					return err
				}
				shift, err := app.DB.GetShiftByName(app.Ctx, app.OrgID, tmpl.Shift)
				if err != nil {
					return err
				}
				templates = append(templates, services.SlotTemplate{
					RoleID:        role.ID,
					ShiftID:       shift.ID,
					RequiredCount: tmpl.RequiredCount,
					RRule:         tmpl.RRule,
				})
			}

			result, err := services.DefineSchedule(app.Ctx, app.DB, app.Logger,
				app.OrgID, name, weekStart, days, templates)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Schedule created successfully!\n\n")
			fmt.Printf("Schedule ID: %s\n", result.Schedule.ID)
			fmt.Printf("Name:        %s\n", result.Schedule.Name)
			fmt.Printf("Week Start:  %s\n", result.Schedule.WeekStart.Format("2006-01-02"))
			fmt.Printf("Days:        %d\n", result.DayCount)
			fmt.Printf("Role Slots:  %d\n\n", result.SlotCount)

			return nil
		},
	}

	cmd.Flags().Int("days", 0, "Number of days to cover (default: defaultScheduleDays from config)")

	return cmd
}
