package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"proofscope/internal/config"
	"proofscope/internal/export"
	"proofscope/internal/logging"
	"proofscope/internal/project"
	"proofscope/internal/version"
)

var (
	rootFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "proofscope",
	Short: "proofscope - dependency and trust analysis for Coq proof developments",
	Long: `proofscope scans a Coq development, builds the dependency graph between
its theorems, definitions and axioms, and reports which results
transitively rest on unproven foundations (Admitted proofs and Axioms).

Two front-ends are available:
  analyze   lexical scan of .v sources (no compilation needed)
  glob      compiler-emitted .glob metadata (exact, requires a build)`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("proofscope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Project root (default: positional argument or current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human, json")
}

// runContext bundles what every subcommand needs about the project
// under analysis.
type runContext struct {
	Root     string
	Config   *config.Config
	Manifest *project.Manifest
	Logger   *logging.Logger
}

// loadRunContext resolves the project root, loads config and the
// optional manifest, and builds the logger. Flag values win over
// config values, manifest values fill config gaps.
func loadRunContext(args []string) (*runContext, error) {
	root := rootFlag
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(abs); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	cfg, err := config.LoadConfig(abs)
	if err != nil {
		return nil, err
	}
	mf, err := project.LoadManifest(abs)
	if err != nil {
		return nil, err
	}
	if len(mf.Ignore) > 0 {
		cfg.Scan.Ignore = append(cfg.Scan.Ignore, mf.Ignore...)
	}
	if mf.GlobDir != "" && cfg.Glob.Dir == "" {
		cfg.Glob.Dir = mf.GlobDir
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})

	return &runContext{
		Root:     abs,
		Config:   cfg,
		Manifest: mf,
		Logger:   logger,
	}, nil
}

func (rc *runContext) projectName() string {
	if rc.Manifest.Name != "" {
		return rc.Manifest.Name
	}
	return filepath.Base(rc.Root)
}

// findSources discovers .v files, honoring the manifest's src_dirs
// restriction when present.
func (rc *runContext) findSources() ([]string, error) {
	if len(rc.Manifest.SrcDirs) == 0 {
		return project.FindSources(rc.Root, rc.Config.Scan.Ignore)
	}
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range rc.Manifest.SrcDirs {
		found, err := project.FindSources(filepath.Join(rc.Root, dir), rc.Config.Scan.Ignore)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// globDir resolves the configured glob directory against the project
// root; empty means discovery next to sources and in build trees.
func (rc *runContext) globDir() string {
	dir := rc.Config.Glob.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(rc.Root, dir)
}

// snapshotPath resolves the snapshot database location against the
// project root.
func (rc *runContext) snapshotPath() string {
	path := rc.Config.Snapshot.Path
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rc.Root, path)
}

// writeReport renders a report in the requested format. Output "-"
// means stdout; SCIP is binary and always needs a file.
func writeReport(r *export.Report, format, output string) error {
	if format == "scip" {
		if output == "" || output == "-" {
			return fmt.Errorf("scip output is binary; use --output FILE")
		}
		return export.WriteSCIP(output, r)
	}

	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml":
		return export.WriteYAML(w, r)
	case "json", "":
		return export.WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown export format %q (json, yaml, scip)", format)
	}
}
