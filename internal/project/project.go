// Package project locates the input files of an analysis run: the .v
// source files and, for the metadata front-end, their compiled .glob
// companions. It also reads the optional proofscope.toml manifest.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pair couples a compiled metadata file with the source file it was
// produced from.
type Pair struct {
	Glob   string
	Source string
}

// FindSources walks root for .v files, skipping ignored directory
// names, and returns them sorted.
func FindSources(root string, ignore []string) ([]string, error) {
	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
	}

	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skipped := skip[d.Name()]; skipped && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".v") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(sources)
	return sources, nil
}

// FindGlobPairs locates (.glob, .v) pairs. Lookup order: an explicit
// glob directory if given, then .glob files sitting next to each
// source file, then the build-tree fallbacks mirrored against root.
// The first stage producing any pair wins; an empty result means the
// project was never compiled.
func FindGlobPairs(root, globDir string, fallbacks []string) ([]Pair, error) {
	if globDir != "" {
		pairs, err := pairsFromTree(globDir, root)
		if err != nil {
			return nil, err
		}
		if len(pairs) > 0 {
			return pairs, nil
		}
	}

	sources, err := FindSources(root, nil)
	if err != nil {
		return nil, err
	}
	var pairs []Pair
	for _, src := range sources {
		glob := strings.TrimSuffix(src, ".v") + ".glob"
		if fileExists(glob) {
			pairs = append(pairs, Pair{Glob: glob, Source: src})
		}
	}
	if len(pairs) > 0 {
		return pairs, nil
	}

	for _, dir := range fallbacks {
		bd := filepath.Join(root, dir)
		if info, err := os.Stat(bd); err != nil || !info.IsDir() {
			continue
		}
		pairs, err := pairsFromTree(bd, root)
		if err != nil {
			return nil, err
		}
		if len(pairs) > 0 {
			return pairs, nil
		}
	}

	return nil, nil
}

// pairsFromTree finds .glob files under globRoot and matches each one
// to a source next to it, or failing that to the same relative path
// under srcRoot.
func pairsFromTree(globRoot, srcRoot string) ([]Pair, error) {
	var pairs []Pair
	err := filepath.WalkDir(globRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".glob") {
			return nil
		}
		src := strings.TrimSuffix(path, ".glob") + ".v"
		if fileExists(src) {
			pairs = append(pairs, Pair{Glob: path, Source: src})
			return nil
		}
		rel, relErr := filepath.Rel(globRoot, path)
		if relErr != nil {
			return nil
		}
		src = filepath.Join(srcRoot, strings.TrimSuffix(rel, ".glob")+".v")
		if fileExists(src) {
			pairs = append(pairs, Pair{Glob: path, Source: src})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Glob < pairs[j].Glob })
	return pairs, nil
}

// CountSources reports how many .v files exist under root regardless
// of compilation state, for diagnostics when no pairs are found.
func CountSources(root string) int {
	sources, err := FindSources(root, nil)
	if err != nil {
		return 0
	}
	return len(sources)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
