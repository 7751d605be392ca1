// Package scan runs the whole-project analysis pipeline: a parallel
// per-file scanning pass followed by the sequential resolve and graph
// phases. Per-file failures are logged and skipped; only the total
// absence of usable input aborts a run.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"proofscope/internal/backends/glob"
	"proofscope/internal/backends/vernacular"
	"proofscope/internal/config"
	pserr "proofscope/internal/errors"
	"proofscope/internal/graph"
	"proofscope/internal/logging"
	"proofscope/internal/model"
	"proofscope/internal/project"
	"proofscope/internal/resolve"
)

// Pipeline couples the scanning configuration with a logger. One
// Pipeline may run any number of analyses.
type Pipeline struct {
	cfg    *config.Config
	logger *logging.Logger
}

// New creates a pipeline.
func New(cfg *config.Config, logger *logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

func (p *Pipeline) workers() int {
	if p.cfg.Scan.Workers > 0 {
		return p.cfg.Scan.Workers
	}
	return runtime.NumCPU()
}

// RunHeuristic analyzes the given source files with the lexical
// front-end and returns the frozen graph.
func (p *Pipeline) RunHeuristic(ctx context.Context, root string, files []string) (*model.ProjectGraph, error) {
	if len(files) == 0 {
		return nil, pserr.New(pserr.NoInput, "no .v files found under "+root, nil)
	}

	opts := vernacular.Options{UnterminatedAsProved: p.cfg.Scan.UnterminatedAsProved}
	results := make([]*vernacular.Result, len(files))

	p.runWorkers(ctx, len(files), func(i int) {
		path := files[i]
		src, err := p.readSource(path)
		if err != nil {
			p.skip(path, err)
			return
		}
		rel := relPath(root, path)
		results[i] = vernacular.ScanFile(rel, src, opts)
	})

	var symbols []*model.Symbol
	var sourceFiles []*model.SourceFile
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, d := range res.Diagnostics {
			p.logger.Warn(d.Message, map[string]interface{}{
				"path": d.File, "line": d.Line,
			})
		}
		symbols = append(symbols, res.Symbols...)
		sourceFiles = append(sourceFiles, res.File)
	}
	if len(sourceFiles) == 0 {
		return nil, pserr.New(pserr.NoInput, "every source file failed to scan", nil)
	}

	resolve.Heuristic(symbols, resolve.NewTable(symbols))
	graph.Invert(symbols)
	graph.Taint(symbols)

	g := model.NewProjectGraph(symbols, sourceFiles, nil)
	g.SortSymbols()
	p.logger.Info("analysis complete", map[string]interface{}{
		"files": len(sourceFiles), "symbols": len(symbols),
	})
	return g, nil
}

// RunGlob analyzes compiled (.glob, .v) pairs with the metadata
// front-end.
func (p *Pipeline) RunGlob(ctx context.Context, root string, pairs []project.Pair) (*model.ProjectGraph, error) {
	if len(pairs) == 0 {
		if n := project.CountSources(root); n > 0 {
			msg := fmt.Sprintf("%d .v files found but no matching .glob files", n)
			return nil, pserr.New(pserr.GlobMissing, msg, nil)
		}
		return nil, pserr.New(pserr.NoInput, "no .v files found under "+root, nil)
	}

	results := make([]*glob.Result, len(pairs))

	p.runWorkers(ctx, len(pairs), func(i int) {
		pair := pairs[i]
		raw, err := p.readSource(pair.Source)
		if err != nil {
			p.skip(pair.Source, err)
			return
		}
		gf, err := os.Open(pair.Glob)
		if err != nil {
			p.skip(pair.Glob, err)
			return
		}
		defer gf.Close()

		rel := relPath(root, pair.Source)
		res, err := glob.ScanFile(rel, raw, gf)
		if err != nil {
			p.skip(pair.Glob, err)
			return
		}
		results[i] = res
	})

	var symbols []*model.Symbol
	var sourceFiles []*model.SourceFile
	logicalToFile := make(map[string]string)
	for _, res := range results {
		if res == nil {
			continue
		}
		symbols = append(symbols, res.Symbols...)
		sourceFiles = append(sourceFiles, res.File)
		if res.File.LogicalPath != "" {
			logicalToFile[res.File.LogicalPath] = res.File.Path
		}
	}
	if len(sourceFiles) == 0 {
		return nil, pserr.New(pserr.NoInput, "every compiled file failed to scan", nil)
	}

	projectModules := make(map[string]struct{}, len(logicalToFile))
	for m := range logicalToFile {
		projectModules[m] = struct{}{}
	}

	resolve.Structural(symbols, resolve.NewTable(symbols), projectModules)
	graph.Invert(symbols)
	graph.Taint(symbols)

	g := model.NewProjectGraph(symbols, sourceFiles, fileDeps(sourceFiles, logicalToFile))
	g.SortSymbols()
	p.logger.Info("analysis complete", map[string]interface{}{
		"files": len(sourceFiles), "symbols": len(symbols),
	})
	return g, nil
}

// FullStats derives the aggregate statistics including the blast
// radius ranking of admitted symbols.
func FullStats(g *model.ProjectGraph) *model.Stats {
	st := g.ComputeStats()
	st.AdmittedBlast = graph.RankAdmitted(g.Symbols)
	return st
}

// runWorkers fans n indexed jobs out over the worker pool and waits
// for all of them. Each job writes only its own result slot, so no
// locking is needed and merge order is independent of scheduling.
func (p *Pipeline) runWorkers(ctx context.Context, n int, job func(i int)) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				job(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

// skip logs a non-fatal per-file failure under the ParseFailure code
// and lets the run continue.
func (p *Pipeline) skip(path string, err error) {
	perr := pserr.New(pserr.ParseFailure, "file skipped", err)
	p.logger.Warn("skipping file", map[string]interface{}{
		"path": path, "error": perr.Error(),
	})
}

func (p *Pipeline) readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if max := p.cfg.Scan.MaxFileSizeBytes; max > 0 && info.Size() > int64(max) {
		return nil, fmt.Errorf("file exceeds %d bytes", max)
	}
	return os.ReadFile(path)
}

// fileDeps maps each file to the other project files it references,
// translated from logical module paths.
func fileDeps(files []*model.SourceFile, logicalToFile map[string]string) map[string][]string {
	deps := make(map[string][]string)
	for _, f := range files {
		var out []string
		for _, mod := range f.RefModules {
			target, ok := logicalToFile[mod]
			if ok && target != f.Path {
				out = append(out, target)
			}
		}
		if len(out) > 0 {
			sort.Strings(out)
			deps[f.Path] = out
		}
	}
	return deps
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
