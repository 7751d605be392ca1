package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"proofscope/internal/export"
	"proofscope/internal/storage"
)

var (
	snapshotLoadFormat string
	snapshotLoadOutput string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage saved analysis snapshots",
	Long:  "Inspect the snapshot database and move snapshots around as compressed, checksummed archive files.",
}

var snapshotInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the snapshot database contains",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotInfo,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <archive>",
	Short: "Pack the snapshot database into a compressed archive",
	Long: `Serializes the stored graph into a zstd-compressed archive with an
integrity checksum, suitable for committing or shipping to CI.

Example:
  proofscope snapshot save proofs.psnap`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotSave,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <archive>",
	Short: "Verify an archive and render its report",
	Long: `Decompresses an archive written by 'snapshot save', verifies its
checksum, and renders the contained report.

Example:
  proofscope snapshot load proofs.psnap --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotLoad,
}

func init() {
	snapshotLoadCmd.Flags().StringVar(&snapshotLoadFormat, "format", "json",
		"Report format: json, yaml, scip")
	snapshotLoadCmd.Flags().StringVarP(&snapshotLoadOutput, "output", "o", "",
		"Report destination (default stdout)")

	snapshotCmd.AddCommand(snapshotInfoCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotInfo(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(args)
	if err != nil {
		return err
	}
	db, err := storage.Open(rc.snapshotPath(), rc.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	meta, err := db.LoadMeta()
	if err != nil {
		return err
	}
	g, err := db.LoadGraph()
	if err != nil {
		return err
	}
	stats := g.ComputeStats()

	fmt.Printf("Snapshot:     %s\n", db.Path())
	fmt.Printf("Run ID:       %s\n", meta.RunID)
	fmt.Printf("Created:      %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("Project:      %s\n", meta.Project)
	fmt.Printf("Front-end:    %s\n", meta.FrontEnd)
	fmt.Printf("Tool version: %s\n", meta.ToolVersion)
	fmt.Printf("Files:        %d\n", stats.Files)
	fmt.Printf("Symbols:      %d\n", stats.TotalSymbols)
	fmt.Printf("Tainted:      %d\n", stats.Tainted)
	return nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	archivePath := args[0]

	rc, err := loadRunContext(nil)
	if err != nil {
		return err
	}
	report, err := reportFromSnapshot(rc)
	if err != nil {
		return err
	}
	if err := export.WriteArchive(archivePath, report); err != nil {
		return err
	}
	rc.Logger.Info("Archive written", map[string]interface{}{
		"path":    archivePath,
		"symbols": len(report.Symbols),
	})
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(nil)
	if err != nil {
		return err
	}
	report, err := export.ReadArchive(args[0])
	if err != nil {
		return err
	}
	rc.Logger.Info("Archive verified", map[string]interface{}{
		"run_id":  report.RunID,
		"symbols": len(report.Symbols),
	})
	return writeReport(report, snapshotLoadFormat, snapshotLoadOutput)
}
