package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"listing-sync/feature/listings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// auditCmd reports how unlinked records would be matched, without writing.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report how CRM records match site listings",
	Long: `Lists every CRM record not yet linked to a site listing and the listing
it would be linked to. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg := bootstrap()
		defer logg.Sync()

		deps, err := buildDeps(cfg, logg, nil)
		if err != nil {
			return err
		}
		report, err := listings.NewService(deps).Audit(cmd.Context())
		if err != nil {
			return err
		}

		logg.Info("Audit finished",
			zap.Int("source", report.SourceCount),
			zap.Int("linked", report.Linked),
			zap.Int("matched", len(report.Matched)),
			zap.Int("ambiguous", len(report.Ambiguous)),
			zap.Int("unmatched", len(report.Unmatched)),
		)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

// schemaCmd checks the snapshot and run history tables.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the sync tables for missing columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg := bootstrap()
		defer logg.Sync()

		deps, err := buildDeps(cfg, logg, nil)
		if err != nil {
			return err
		}
		missing, err := listings.NewService(deps).CheckSchema()
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			logg.Info("Sync tables match")
			return nil
		}
		for table, columns := range missing {
			logg.Warn("Table is missing columns", zap.String("table", table), zap.Strings("columns", columns))
		}
		return fmt.Errorf("%d table(s) do not match", len(missing))
	},
}

func init() {
	RootCmd.AddCommand(auditCmd)
	RootCmd.AddCommand(schemaCmd)
}
