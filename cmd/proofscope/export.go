package main

import (
	"github.com/spf13/cobra"

	"proofscope/internal/export"
	"proofscope/internal/scan"
	"proofscope/internal/storage"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a saved snapshot as a report",
	Long: `Loads the snapshot database written by 'analyze --save' or 'glob --save'
and renders it in the requested format without re-scanning anything.

Examples:
  proofscope export                       # JSON to stdout
  proofscope export --format yaml -o report.yaml
  proofscope export --format scip -o proofs.scip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "",
		"Report format: json, yaml, scip")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Report destination (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(args)
	if err != nil {
		return err
	}
	applyExportFlags(cmd, rc, exportFormat, exportOutput)
	if err := rc.Config.Validate(); err != nil {
		return err
	}

	report, err := reportFromSnapshot(rc)
	if err != nil {
		return err
	}
	return writeReport(report, rc.Config.Export.Format, rc.Config.Export.Output)
}

// reportFromSnapshot rebuilds a full report from the snapshot
// database, keeping the original run identity.
func reportFromSnapshot(rc *runContext) (*export.Report, error) {
	db, err := storage.Open(rc.snapshotPath(), rc.Logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	g, err := db.LoadGraph()
	if err != nil {
		return nil, err
	}
	meta, err := db.LoadMeta()
	if err != nil {
		return nil, err
	}

	return export.BuildReport(g, scan.FullStats(g), export.Meta{
		RunID:       meta.RunID,
		GeneratedAt: meta.CreatedAt,
		Project:     meta.Project,
		FrontEnd:    meta.FrontEnd,
		ToolVersion: meta.ToolVersion,
	}), nil
}
