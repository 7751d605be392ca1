package graph

import (
	"sort"

	"proofscope/internal/model"
)

// Taint marks every symbol that transitively depends on an admitted
// or assumed declaration. Propagation runs one breadth-first pass per
// unproven seed, strictly forward along Dependents, visiting each
// symbol at most once per pass, so it terminates on cyclic graphs
// too. TaintSources ends up as exactly the set of seeds that reach
// the symbol. Taint state is recomputed from scratch on every call.
func Taint(symbols []*model.Symbol) {
	idx := Index(symbols)

	seedSet := make(map[string]struct{})
	var seeds []string
	for _, s := range symbols {
		s.Tainted = false
		s.TaintSources = nil
		if s.Unproven() {
			s.Tainted = true
			s.TaintSources = []string{s.QualifiedName}
			seedSet[s.QualifiedName] = struct{}{}
			seeds = append(seeds, s.QualifiedName)
		}
	}
	sort.Strings(seeds)

	for _, seed := range seeds {
		visited := map[string]struct{}{seed: {}}
		queue := []string{seed}
		for len(queue) > 0 {
			cur := idx[queue[0]]
			queue = queue[1:]
			if cur == nil {
				continue
			}
			for _, depName := range cur.Dependents {
				if _, seen := visited[depName]; seen {
					continue
				}
				visited[depName] = struct{}{}
				// Another seed is already its own source; its
				// reachable set is covered by its own pass.
				if _, isSeed := seedSet[depName]; isSeed {
					continue
				}
				dep := idx[depName]
				if dep == nil {
					continue
				}
				dep.Tainted = true
				dep.TaintSources = append(dep.TaintSources, seed)
				queue = append(queue, depName)
			}
		}
	}
}

// BlastRadius counts the distinct symbols reachable from qname along
// the forward Dependents relation, excluding qname itself.
func BlastRadius(qname string, idx map[string]*model.Symbol) int {
	visited := make(map[string]struct{})
	queue := []string{qname}
	for len(queue) > 0 {
		cur := idx[queue[0]]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		for _, d := range cur.Dependents {
			if _, seen := visited[d]; seen {
				continue
			}
			visited[d] = struct{}{}
			queue = append(queue, d)
		}
	}
	delete(visited, qname)
	return len(visited)
}

// RankAdmitted computes the blast radius of every admitted symbol and
// returns the ranking, largest radius first, name-ordered on ties.
func RankAdmitted(symbols []*model.Symbol) []model.BlastEntry {
	idx := Index(symbols)
	var entries []model.BlastEntry
	for _, s := range symbols {
		if s.Status != model.StatusAdmitted {
			continue
		}
		entries = append(entries, model.BlastEntry{
			QualifiedName: s.QualifiedName,
			Radius:        BlastRadius(s.QualifiedName, idx),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Radius != entries[j].Radius {
			return entries[i].Radius > entries[j].Radius
		}
		return entries[i].QualifiedName < entries[j].QualifiedName
	})
	return entries
}
