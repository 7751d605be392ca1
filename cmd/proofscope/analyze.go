package main

import (
	"time"

	"github.com/spf13/cobra"

	"proofscope/internal/export"
	"proofscope/internal/model"
	"proofscope/internal/scan"
	"proofscope/internal/storage"
)

var (
	analyzeWorkers      int
	analyzeSave         bool
	analyzeFormat       string
	analyzeOutput       string
	analyzeUnterminated bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Scan .v sources heuristically and report the trust graph",
	Long: `Scans every .v file under the project root with the lexical front-end.
No compiled artifacts are needed; dependency edges are inferred from
identifier occurrences in statements, so some references to shadowed
or locally bound names may be over-reported.

Examples:
  proofscope analyze                      # current directory, JSON to stdout
  proofscope analyze theories/            # explicit root
  proofscope analyze --format yaml -o out.yaml
  proofscope analyze --save               # also persist the snapshot db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0,
		"Concurrent file scanners (0 = one per CPU)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false,
		"Persist the graph to the snapshot database")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "",
		"Report format: json, yaml, scip")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "",
		"Report destination (default stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeUnterminated, "unterminated-as-proved", false,
		"Count proofs without a terminator as proved instead of unterminated")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		rc.Config.Scan.Workers = analyzeWorkers
	}
	if cmd.Flags().Changed("unterminated-as-proved") {
		rc.Config.Scan.UnterminatedAsProved = analyzeUnterminated
	}
	applyExportFlags(cmd, rc, analyzeFormat, analyzeOutput)
	if err := rc.Config.Validate(); err != nil {
		return err
	}

	files, err := rc.findSources()
	if err != nil {
		return err
	}

	pipe := scan.New(rc.Config, rc.Logger)
	g, err := pipe.RunHeuristic(cmd.Context(), rc.Root, files)
	if err != nil {
		return err
	}

	return emitRun(rc, g, "heuristic", analyzeSave)
}

// applyExportFlags lets per-command format/output flags override the
// configured export settings.
func applyExportFlags(cmd *cobra.Command, rc *runContext, format, output string) {
	if cmd.Flags().Changed("format") {
		rc.Config.Export.Format = format
	}
	if cmd.Flags().Changed("output") {
		rc.Config.Export.Output = output
	}
}

// emitRun builds the report for a freshly analyzed graph, optionally
// persists the snapshot, and writes the report.
func emitRun(rc *runContext, g *model.ProjectGraph, frontEnd string, save bool) error {
	stats := scan.FullStats(g)
	report := export.BuildReport(g, stats, export.Meta{
		Project:  rc.projectName(),
		FrontEnd: frontEnd,
	})

	rc.Logger.Info("Analysis complete", map[string]interface{}{
		"front_end": frontEnd,
		"files":     stats.Files,
		"symbols":   stats.TotalSymbols,
		"tainted":   stats.Tainted,
	})

	if save {
		if err := saveSnapshot(rc, g, report); err != nil {
			return err
		}
	}
	return writeReport(report, rc.Config.Export.Format, rc.Config.Export.Output)
}

func saveSnapshot(rc *runContext, g *model.ProjectGraph, report *export.Report) error {
	db, err := storage.Open(rc.snapshotPath(), rc.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	created, _ := time.Parse(time.RFC3339, report.GeneratedAt)
	err = db.SaveGraph(g, storage.RunMeta{
		RunID:       report.RunID,
		CreatedAt:   created,
		FrontEnd:    report.FrontEnd,
		Project:     report.Project,
		ToolVersion: report.ToolVersion,
	})
	if err != nil {
		return err
	}
	rc.Logger.Info("Snapshot saved", map[string]interface{}{
		"path":   db.Path(),
		"run_id": report.RunID,
	})
	return nil
}
