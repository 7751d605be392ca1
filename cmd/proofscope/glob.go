package main

import (
	"github.com/spf13/cobra"

	"proofscope/internal/project"
	"proofscope/internal/scan"
)

var (
	globDirFlag string
	globWorkers int
	globSave    bool
	globFormat  string
	globOutput  string
)

var globCmd = &cobra.Command{
	Use:   "glob [dir]",
	Short: "Analyze compiler-emitted .glob metadata for exact dependencies",
	Long: `Reads the .glob files coqc writes next to each compiled .v file and
builds the dependency graph from actual resolved references instead of
lexical guesses. The project must have been compiled first.

Glob files are located next to each source file, under --glob-dir if
given, or under the configured build-tree fallbacks (_build/default,
_build).

Examples:
  proofscope glob                        # current directory
  proofscope glob --glob-dir _build/default
  proofscope glob --format scip -o proofs.scip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGlob,
}

func init() {
	globCmd.Flags().StringVar(&globDirFlag, "glob-dir", "",
		"Directory holding the .glob files (default: next to sources)")
	globCmd.Flags().IntVar(&globWorkers, "workers", 0,
		"Concurrent file scanners (0 = one per CPU)")
	globCmd.Flags().BoolVar(&globSave, "save", false,
		"Persist the graph to the snapshot database")
	globCmd.Flags().StringVar(&globFormat, "format", "",
		"Report format: json, yaml, scip")
	globCmd.Flags().StringVarP(&globOutput, "output", "o", "",
		"Report destination (default stdout)")
	rootCmd.AddCommand(globCmd)
}

func runGlob(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("glob-dir") {
		rc.Config.Glob.Dir = globDirFlag
	}
	if cmd.Flags().Changed("workers") {
		rc.Config.Scan.Workers = globWorkers
	}
	applyExportFlags(cmd, rc, globFormat, globOutput)
	if err := rc.Config.Validate(); err != nil {
		return err
	}

	pairs, err := project.FindGlobPairs(rc.Root, rc.globDir(), rc.Config.Glob.FallbackDirs)
	if err != nil {
		return err
	}

	pipe := scan.New(rc.Config, rc.Logger)
	g, err := pipe.RunGlob(cmd.Context(), rc.Root, pairs)
	if err != nil {
		return err
	}

	return emitRun(rc, g, "glob", globSave)
}
