package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/cmd/cli/commands"
	"github.com/ewhitmore/staffroster/internal/config"
	"github.com/ewhitmore/staffroster/pkg/postgres"
	"github.com/ewhitmore/staffroster/pkg/utils/logging"
)

var (
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "staffroster",
		Short: "Staff roster CLI - schedules, auto-assignment and conflict detection",
		Long:  `A CLI tool for managing staff schedules: defining rosters, auto-assigning workers to shifts, and detecting scheduling conflicts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.DB != nil {
					app.DB.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on the console")

	rootCmd.AddCommand(commands.MigrateCmd(appRef()))
	rootCmd.AddCommand(commands.DefineScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.AutoAssignCmd(appRef()))
	rootCmd.AddCommand(commands.DetectConflictsCmd(appRef()))
	rootCmd.AddCommand(commands.FairnessCmd(appRef()))
	rootCmd.AddCommand(commands.SetAssignmentStatusCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. Commands capture the pointer at
// registration time; initApp fills it in before any RunE executes.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	appRef()
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger("", verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.OrgID, err = uuid.Parse(app.Cfg.OrganizationID)
	if err != nil {
		return fmt.Errorf("invalid organization id in config: %w", err)
	}

	app.Logger.Debug("Connecting to database")
	app.DB, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Logger.Info("Application initialized", zap.String("organization_id", app.OrgID.String()))
	return nil
}
