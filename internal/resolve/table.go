// Package resolve turns per-file scan output into a resolved
// dependency structure: it indexes every symbol by name and rewrites
// each symbol's raw references into qualified dependency edges.
package resolve

import (
	"proofscope/internal/model"
)

// Table indexes symbols for name resolution. Qualified names are
// authoritative and unique; short names form a fallback index where
// the first symbol registered under a short name keeps it and later
// collisions are ignored.
type Table struct {
	byQualified map[string]*model.Symbol
	byShort     map[string]*model.Symbol
}

// NewTable builds the two-level index over the given symbols.
func NewTable(symbols []*model.Symbol) *Table {
	t := &Table{
		byQualified: make(map[string]*model.Symbol, len(symbols)),
		byShort:     make(map[string]*model.Symbol, len(symbols)),
	}
	for _, s := range symbols {
		t.byQualified[s.QualifiedName] = s
		if _, taken := t.byShort[s.Name]; !taken {
			t.byShort[s.Name] = s
		}
	}
	return t
}

// Lookup resolves a name, trying the qualified index first and the
// short-name index second.
func (t *Table) Lookup(name string) (*model.Symbol, bool) {
	if s, ok := t.byQualified[name]; ok {
		return s, true
	}
	s, ok := t.byShort[name]
	return s, ok
}

// Qualified resolves an exact qualified name only.
func (t *Table) Qualified(qname string) (*model.Symbol, bool) {
	s, ok := t.byQualified[qname]
	return s, ok
}

// Len reports how many symbols the qualified index holds.
func (t *Table) Len() int { return len(t.byQualified) }
