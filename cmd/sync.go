package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"listing-sync/feature/listings"
	"listing-sync/feature/listings/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunSync bool
	jsonSync   bool
)

// syncCmd runs one sync pass and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass",
	Long: `Reads every CRM property, decides what to create, update or retire on
the site, applies it and saves the snapshot for the next pass.

Examples:
  # Apply changes
  listing-sync sync

  # Decide only, write nothing
  listing-sync sync --dry-run

  # Print the full run report
  listing-sync sync --json`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Decide every record without writing")
	syncCmd.Flags().BoolVar(&jsonSync, "json", false, "Print the run report as JSON")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, logg := bootstrap()
	defer logg.Sync()

	deps, err := buildDeps(cfg, logg, nil)
	if err != nil {
		return err
	}
	svc := listings.NewService(deps)
	if err := svc.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}

	run, err := svc.Sync(cmd.Context(), models.TriggerCLI, dryRunSync)
	if jsonSync {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(run)
	}
	if err != nil {
		return err
	}

	logg.Info("Sync finished",
		zap.String("run_id", run.ID),
		zap.Bool("dry_run", run.DryRun),
		zap.Int("source", run.SourceCount),
		zap.Int("attention", run.Attention),
		zap.Int("created", run.Created),
		zap.Int("updated", run.Updated),
		zap.Int("retired", run.Retired),
		zap.Int("failed", run.Failed),
		zap.Int("ambiguous", run.Ambiguous),
	)
	if run.Failed > 0 {
		return fmt.Errorf("%d record(s) failed", run.Failed)
	}
	return nil
}
