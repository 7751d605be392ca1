// Package vernacular is the heuristic front-end: it recovers symbols
// from raw proof source by recognizing declaration keywords in
// comment-stripped, sentence-segmented text. It needs no compiler
// output, at the cost of over-approximate dependency data later on.
package vernacular

import (
	"fmt"
	"strings"

	"proofscope/internal/model"
	"proofscope/internal/sentence"
)

// Options tunes scanner behavior.
type Options struct {
	// UnterminatedAsProved restores the legacy behavior of reporting a
	// pending proof that never reaches a terminator as proved. Off by
	// default: such symbols get StatusUnterminated.
	UnterminatedAsProved bool
}

// Diagnostic records a non-fatal oddity observed while scanning, such
// as an End naming a scope that is not the current top of stack.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
}

// Result is the per-file output of a scan.
type Result struct {
	File        *model.SourceFile
	Symbols     []*model.Symbol
	Diagnostics []Diagnostic
}

// state is the explicit fold state threaded through the sentence
// sequence: the scope stack and the declaration whose proof body we
// are currently inside, if any. Each file gets its own value, which is
// what makes per-file scans embarrassingly parallel.
type state struct {
	scopes  []string
	pending *model.Symbol
}

func (st *state) qualify(name string) string {
	if len(st.scopes) == 0 {
		return name
	}
	return strings.Join(st.scopes, ".") + "." + name
}

// ScanFile scans one file's raw source. path is the project-relative
// path recorded on every produced symbol.
func ScanFile(path string, src []byte, opts Options) *Result {
	res := &Result{
		File: &model.SourceFile{Path: path},
	}
	st := &state{}

	for _, sent := range sentence.Preprocess(string(src)) {
		scanSentence(st, res, path, sent, opts)
	}

	// A pending declaration at end of file never reached a terminator.
	if st.pending != nil {
		finalizeUnterminated(st.pending, opts)
	}

	for _, s := range res.Symbols {
		res.File.Symbols = append(res.File.Symbols, s.QualifiedName)
	}
	return res
}

func scanSentence(st *state, res *Result, path string, sent sentence.Sentence, opts Options) {
	text := sent.Text

	// Scope tracking runs even inside proof bodies; a Section opened
	// mid-proof would be malformed source anyway.
	if m := scopeOpenRe.FindStringSubmatch(text); m != nil {
		st.scopes = append(st.scopes, m[1])
		return
	}
	if m := scopeCloseRe.FindStringSubmatch(text); m != nil {
		if n := len(st.scopes); n > 0 && st.scopes[n-1] == m[1] {
			st.scopes = st.scopes[:n-1]
		} else {
			// Named rule ErrScopeMismatch: pop nothing, keep going.
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File:    path,
				Line:    sent.Line,
				Message: fmt.Sprintf("End %s does not close the current scope", m[1]),
			})
		}
		return
	}

	if m := importRe.FindStringSubmatch(text); m != nil {
		for _, mod := range strings.Fields(strings.TrimSuffix(strings.TrimSpace(m[1]), ".")) {
			if mod = strings.TrimSuffix(mod, "."); mod != "" {
				res.File.Imports = append(res.File.Imports, mod)
			}
		}
		return
	}

	// Terminator for a pending proof.
	word := strings.TrimSpace(strings.TrimSuffix(text, "."))
	if status, ok := terminatorStatus[word]; ok && st.pending != nil {
		st.pending.Status = status
		st.pending = nil
		return
	}

	// Everything between a pending declaration and its terminator is
	// proof-internal and discarded, Proof. included.
	if st.pending != nil {
		return
	}
	if proofStartRe.MatchString(text) {
		return
	}

	m := commandRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	keyword, name, rest := m[1], m[2], m[3]
	group := groupOf[keyword]

	sym := &model.Symbol{
		Name:          name,
		QualifiedName: st.qualify(name),
		Kind:          strings.ToLower(keyword),
		Group:         group,
		File:          path,
		Line:          sent.Line,
		Statement:     strings.TrimSpace(keyword + " " + name + " " + strings.TrimSpace(rest)),
	}

	hasBody := strings.Contains(rest, ":=")
	switch {
	case group == model.KindAssumption:
		sym.Status = model.StatusAssumed
	case (group == model.KindProvable || group == model.KindInstance) && !hasBody:
		// Status settles when the terminator arrives.
		st.pending = sym
	default:
		sym.Status = model.StatusDefined
	}

	res.Symbols = append(res.Symbols, sym)
}

func finalizeUnterminated(sym *model.Symbol, opts Options) {
	if opts.UnterminatedAsProved {
		sym.Status = model.StatusProved
		return
	}
	sym.Status = model.StatusUnterminated
}
