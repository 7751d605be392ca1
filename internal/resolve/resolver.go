package resolve

import (
	"regexp"
	"sort"
	"strings"

	"proofscope/internal/model"
)

var (
	stringLitRe = regexp.MustCompile(`"[^"]*"`)
	identRe     = regexp.MustCompile(`\b[A-Za-z_][\w']*(?:\.[A-Za-z_][\w']*)*\b`)
)

// tokenize extracts candidate identifier tokens from a statement.
// String literals are dropped first so their contents cannot resolve
// to symbols; dotted paths are kept whole for qualified matching.
func tokenize(statement string) []string {
	cleaned := stringLitRe.ReplaceAllString(statement, "")
	raw := identRe.FindAllString(cleaned, -1)
	seen := make(map[string]struct{}, len(raw))
	tokens := raw[:0]
	for _, tok := range raw {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Heuristic resolves dependencies for symbols produced by the source
// front-end, which has no reference metadata: it scans each symbol's
// statement text for tokens that name other known symbols. Dotted
// tokens are additionally tried component by component, so a mention
// of List.map can resolve to a local map. Dependencies come out sorted
// and never include the symbol itself.
func Heuristic(symbols []*model.Symbol, t *Table) {
	for _, sym := range symbols {
		deps := make(map[string]struct{})
		for _, tok := range tokenize(sym.Statement) {
			if tok != sym.Name && tok != sym.QualifiedName {
				if target, ok := t.Lookup(tok); ok && target.QualifiedName != sym.QualifiedName {
					deps[target.QualifiedName] = struct{}{}
				}
			}
			if !strings.Contains(tok, ".") {
				continue
			}
			for _, part := range strings.Split(tok, ".") {
				if part == sym.Name {
					continue
				}
				if target, ok := t.Lookup(part); ok && target.QualifiedName != sym.QualifiedName {
					deps[target.QualifiedName] = struct{}{}
				}
			}
		}
		sym.Dependencies = sortedKeys(deps)
	}
}

// Structural resolves dependencies for symbols produced by the
// metadata front-end, which carries exact reference records. Each raw
// reference is tried as an exact qualified name, then by its last
// component. Unresolved references to a known project module stay in
// Dependencies under their qualified name (the definition site exists
// but was not tracked); everything else lands in ExternalDeps.
// RawRefs are consumed and cleared.
func Structural(symbols []*model.Symbol, t *Table, projectModules map[string]struct{}) {
	for _, sym := range symbols {
		var resolved, external []string
		seen := make(map[string]struct{})

		add := func(qname string) {
			if qname == sym.QualifiedName {
				return
			}
			if _, dup := seen[qname]; dup {
				return
			}
			seen[qname] = struct{}{}
			resolved = append(resolved, qname)
		}

		for _, ref := range sym.RawRefs {
			qname := ref.Name
			if ref.ModulePath != "" {
				qname = ref.ModulePath + "." + ref.Name
			}

			if target, ok := t.Lookup(qname); ok {
				add(target.QualifiedName)
				continue
			}

			short := qname
			if i := strings.LastIndex(qname, "."); i >= 0 {
				short = qname[i+1:]
			}
			if target, ok := t.Lookup(short); ok {
				add(target.QualifiedName)
				continue
			}

			if inProject(qname, ref.ModulePath, projectModules) {
				add(qname)
			} else {
				external = append(external, qname)
			}
		}

		sort.Strings(resolved)
		sort.Strings(external)
		sym.Dependencies = resolved
		sym.ExternalDeps = external
		sym.RawRefs = nil
	}
}

// inProject reports whether a qualified name belongs to one of the
// project's own logical modules.
func inProject(qname, modulePath string, projectModules map[string]struct{}) bool {
	if _, ok := projectModules[modulePath]; ok {
		return true
	}
	for m := range projectModules {
		if strings.HasPrefix(qname, m+".") {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
