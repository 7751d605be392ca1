package model

import "sort"

// ProjectGraph is the frozen, read-only result of a whole-project
// analysis. It is safe for concurrent reads; nothing mutates it after
// the resolver and graph engine have run.
type ProjectGraph struct {
	Symbols []*Symbol
	Files   []*SourceFile

	// byQualified is the authoritative index. byShort is a fallback
	// index with a first-registered-wins collision policy; see
	// resolve.Table for how it is built.
	byQualified map[string]*Symbol
	byShort     map[string]*Symbol

	// FileDeps maps a file path to the other project files it
	// references (metadata front-end only).
	FileDeps map[string][]string
}

// NewProjectGraph assembles a graph over the given symbols and files
// and builds both name indices. Symbols must already carry resolved
// dependency data; the graph itself performs no resolution.
func NewProjectGraph(symbols []*Symbol, files []*SourceFile, fileDeps map[string][]string) *ProjectGraph {
	g := &ProjectGraph{
		Symbols:     symbols,
		Files:       files,
		byQualified: make(map[string]*Symbol, len(symbols)),
		byShort:     make(map[string]*Symbol, len(symbols)),
		FileDeps:    fileDeps,
	}
	for _, s := range symbols {
		g.byQualified[s.QualifiedName] = s
		if _, taken := g.byShort[s.Name]; !taken {
			g.byShort[s.Name] = s
		}
	}
	return g
}

// Lookup finds a symbol by qualified name, falling back to the
// short-name index.
func (g *ProjectGraph) Lookup(name string) *Symbol {
	if s, ok := g.byQualified[name]; ok {
		return s
	}
	return g.byShort[name]
}

// LookupQualified finds a symbol by exact qualified name only.
func (g *ProjectGraph) LookupQualified(qname string) *Symbol {
	return g.byQualified[qname]
}

// Stats aggregates the trust metrics a report consumer needs.
type Stats struct {
	TotalSymbols int            `json:"total_symbols" yaml:"total_symbols"`
	Files        int            `json:"files" yaml:"files"`
	ByStatus     map[string]int `json:"by_status" yaml:"by_status"`
	ByKind       map[string]int `json:"by_kind" yaml:"by_kind"`
	Tainted      int            `json:"tainted" yaml:"tainted"`
	Unused       int            `json:"unused" yaml:"unused"`

	// AdmittedBlast ranks every admitted symbol by the number of
	// symbols transitively depending on it, descending.
	AdmittedBlast []BlastEntry `json:"admitted_blast,omitempty" yaml:"admitted_blast,omitempty"`

	FileDeps map[string][]string `json:"file_deps,omitempty" yaml:"file_deps,omitempty"`
	Imports  map[string][]string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// BlastEntry pairs an unproven symbol with its downstream blast radius.
type BlastEntry struct {
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	Radius        int    `json:"radius" yaml:"radius"`
}

// ComputeStats derives the aggregate statistics from a frozen graph.
// Pure: repeated calls return equal results.
func (g *ProjectGraph) ComputeStats() *Stats {
	st := &Stats{
		TotalSymbols: len(g.Symbols),
		Files:        len(g.Files),
		ByStatus:     make(map[string]int),
		ByKind:       make(map[string]int),
		FileDeps:     g.FileDeps,
	}
	for _, s := range g.Symbols {
		st.ByStatus[string(s.Status)]++
		st.ByKind[s.Kind]++
		if s.Tainted {
			st.Tainted++
		}
		if len(s.Dependents) == 0 {
			st.Unused++
		}
	}
	for _, f := range g.Files {
		if len(f.Imports) > 0 {
			if st.Imports == nil {
				st.Imports = make(map[string][]string)
			}
			st.Imports[f.Path] = f.Imports
		}
	}
	return st
}

// SortSymbols orders the symbol slice by file then line then qualified
// name, giving reports a stable order regardless of scan scheduling.
func (g *ProjectGraph) SortSymbols() {
	sort.Slice(g.Symbols, func(i, j int) bool {
		a, b := g.Symbols[i], g.Symbols[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.QualifiedName < b.QualifiedName
	})
}
