// Package model defines the shared data model for proof analysis:
// symbols, source files, and the frozen project graph that every
// downstream consumer (storage, export, CLI) reads.
package model

// Status describes how far a declaration got toward being proved.
type Status string

const (
	// StatusProved means the proof was closed with Qed.
	StatusProved Status = "proved"
	// StatusAdmitted means the proof was abandoned with Admitted.
	StatusAdmitted Status = "admitted"
	// StatusDefined means the declaration carries a transparent body
	// (Defined, or an inline := body).
	StatusDefined Status = "defined"
	// StatusAssumed means the declaration is an assumption (Axiom,
	// Parameter, ...) with no proof obligation at all.
	StatusAssumed Status = "assumed"
	// StatusAborted means the proof attempt was discarded with Abort.
	StatusAborted Status = "aborted"
	// StatusUnterminated means a pending proof never reached a
	// terminator before end of file. The original tooling silently
	// reported these as proved; we keep them distinct so truncated
	// files cannot fake trust.
	StatusUnterminated Status = "unterminated"
)

// KindGroup partitions declaration keywords into the five disjoint
// groups that drive status assignment.
type KindGroup string

const (
	// KindProvable covers Lemma, Theorem, and friends: declarations
	// that open a proof obligation.
	KindProvable KindGroup = "provable"
	// KindDefinitional covers Definition, Fixpoint, and friends.
	KindDefinitional KindGroup = "definitional"
	// KindTypeFormer covers Inductive, Record, Class, and friends.
	KindTypeFormer KindGroup = "type"
	// KindAssumption covers Axiom, Parameter, and friends.
	KindAssumption KindGroup = "assumption"
	// KindInstance covers typeclass instances, which may carry a
	// delayed proof like provable declarations.
	KindInstance KindGroup = "instance"
	// KindOther covers tracked declarations outside the five core
	// groups (notations, Ltac definitions, schemes).
	KindOther KindGroup = "other"
)

// ByteRange locates a definition inside the raw bytes of its file.
// End is exclusive. The zero value means "unknown" (heuristic
// front-end symbols have no byte accounting).
type ByteRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// IsZero reports whether the range carries no position information.
func (r ByteRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

// Symbol is the unit of analysis: one named declaration recovered from
// the source.
//
// dependencies/dependents invariants after resolution:
//   - QualifiedName is unique across the project
//   - a symbol never lists itself in Dependencies
//   - y in x.Dependencies iff x in y.Dependents
type Symbol struct {
	Name          string    `json:"name" yaml:"name"`
	QualifiedName string    `json:"qualified_name" yaml:"qualified_name"`
	Kind          string    `json:"kind" yaml:"kind"`
	KindCode      string    `json:"kind_code,omitempty" yaml:"kind_code,omitempty"`
	Group         KindGroup `json:"group" yaml:"group"`
	Status        Status    `json:"status" yaml:"status"`
	File          string    `json:"file" yaml:"file"`
	Line          int       `json:"line" yaml:"line"`
	Bytes         ByteRange `json:"byte_range,omitzero" yaml:"byte_range,omitempty"`
	Statement     string    `json:"statement" yaml:"statement"`

	// Populated by the resolver and graph engine. Sorted for
	// deterministic output.
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Dependents   []string `json:"dependents" yaml:"dependents"`
	ExternalDeps []string `json:"external_dependencies,omitempty" yaml:"external_dependencies,omitempty"`

	Tainted      bool     `json:"tainted" yaml:"tainted"`
	TaintSources []string `json:"taint_sources,omitempty" yaml:"taint_sources,omitempty"`

	// RawRefs holds unresolved reference targets observed during the
	// per-file scan (metadata front-end only). The resolver consumes
	// and clears it; it never appears in serialized output.
	RawRefs []RawRef `json:"-" yaml:"-"`
}

// RawRef is a reference observed by the metadata front-end before
// resolution: the referenced module path and short name as reported by
// the compiler.
type RawRef struct {
	ModulePath string
	Name       string
	Kind       string
}

// Unproven reports whether the symbol is a taint seed: its own
// soundness is not established.
func (s *Symbol) Unproven() bool {
	return s.Status == StatusAdmitted || s.Status == StatusAssumed
}

// SourceFile describes one scanned file and what it declared.
type SourceFile struct {
	Path        string   `json:"path" yaml:"path"`
	LogicalPath string   `json:"logical_path,omitempty" yaml:"logical_path,omitempty"`
	Imports     []string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Symbols     []string `json:"symbols" yaml:"symbols"`
	// RefModules lists other logical modules this file references at
	// file granularity (metadata front-end only).
	RefModules []string `json:"ref_modules,omitempty" yaml:"ref_modules,omitempty"`
}
