// Package graph derives the bidirectional dependency structure and
// the trust metrics over a resolved symbol set: dependents inversion,
// taint propagation from unproven seeds, blast radius, and liveness.
// Every analysis here is a pure function of the symbol set and may be
// recomputed repeatedly.
package graph

import (
	"sort"

	"proofscope/internal/model"
)

// Index builds the qualified-name lookup the traversals use.
func Index(symbols []*model.Symbol) map[string]*model.Symbol {
	idx := make(map[string]*model.Symbol, len(symbols))
	for _, s := range symbols {
		idx[s.QualifiedName] = s
	}
	return idx
}

// Invert derives every symbol's Dependents as the exact inverse of
// the Dependencies relation. Dependency targets that name no tracked
// symbol (unresolved-internal edges) simply produce no inverse entry.
// Dependents come out sorted.
func Invert(symbols []*model.Symbol) {
	rdeps := make(map[string][]string)
	for _, s := range symbols {
		for _, dep := range s.Dependencies {
			rdeps[dep] = append(rdeps[dep], s.QualifiedName)
		}
	}
	for _, s := range symbols {
		list := rdeps[s.QualifiedName]
		sort.Strings(list)
		s.Dependents = dedupSorted(list)
	}
}

// Unused returns the symbols nothing depends on, in input order.
func Unused(symbols []*model.Symbol) []*model.Symbol {
	var out []*model.Symbol
	for _, s := range symbols {
		if len(s.Dependents) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// dedupSorted removes adjacent duplicates from a sorted slice.
func dedupSorted(list []string) []string {
	if len(list) < 2 {
		return list
	}
	out := list[:1]
	for _, v := range list[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
