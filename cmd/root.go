package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-scheduler/internal/config"
	"github.com/sells-group/clinic-scheduler/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "clinic-scheduler",
	Short: "Clinical provider scheduling via constraint solving",
	Long:  "Builds provider-to-session assignments over a date range, honoring leave, inpatient rotations, call coverage, day-off, and staffing rules across departments.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func initStore() (store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		path = "scheduler.db"
	}
	return store.NewSQLite(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
