package resolve

import (
	"reflect"
	"testing"

	"proofscope/internal/model"
)

func sym(name, qname, statement string) *model.Symbol {
	return &model.Symbol{Name: name, QualifiedName: qname, Statement: statement}
}

func TestTableLookupOrder(t *testing.T) {
	a := sym("foo", "A.foo", "")
	b := sym("foo", "B.foo", "")
	tbl := NewTable([]*model.Symbol{a, b})

	if got, ok := tbl.Lookup("A.foo"); !ok || got != a {
		t.Fatalf("Lookup(A.foo) = %v, %v", got, ok)
	}
	if got, ok := tbl.Lookup("B.foo"); !ok || got != b {
		t.Fatalf("Lookup(B.foo) = %v, %v", got, ok)
	}
	// First registration keeps the short name.
	if got, ok := tbl.Lookup("foo"); !ok || got != a {
		t.Fatalf("Lookup(foo) = %v, want first-registered A.foo", got)
	}
	if _, ok := tbl.Qualified("foo"); ok {
		t.Fatal("Qualified(foo) resolved a short name")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Lemma foo : bar = baz", []string{"Lemma", "foo", "bar", "baz"}},
		{"qualified kept whole", "Nat.add n m", []string{"Nat.add", "n", "m"}},
		{"string literal dropped", `Notation x := "hidden ident"`, []string{"Notation", "x"}},
		{"primes", "foo' foo''", []string{"foo'", "foo''"}},
		{"dedup", "x x x", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeuristicResolution(t *testing.T) {
	bar := sym("bar", "M.bar", "Axiom bar : False")
	baz := sym("baz", "M.baz", "Lemma baz : bar -> True")
	useQ := sym("useq", "N.useq", "Definition useq := M.bar")
	symbols := []*model.Symbol{bar, baz, useQ}

	Heuristic(symbols, NewTable(symbols))

	if !reflect.DeepEqual(baz.Dependencies, []string{"M.bar"}) {
		t.Errorf("baz deps = %v, want [M.bar]", baz.Dependencies)
	}
	if !reflect.DeepEqual(useQ.Dependencies, []string{"M.bar"}) {
		t.Errorf("useq deps = %v, want [M.bar]", useQ.Dependencies)
	}
	// A symbol never depends on itself even though its own name
	// appears in its statement.
	if len(bar.Dependencies) != 0 {
		t.Errorf("bar deps = %v, want none", bar.Dependencies)
	}
}

func TestHeuristicDottedComponent(t *testing.T) {
	mapSym := sym("map", "L.map", "Definition map := 0")
	user := sym("user", "L.user", "Lemma user : Ext.map = Ext.map")
	symbols := []*model.Symbol{mapSym, user}

	Heuristic(symbols, NewTable(symbols))

	if !reflect.DeepEqual(user.Dependencies, []string{"L.map"}) {
		t.Errorf("user deps = %v, want [L.map] via dotted component", user.Dependencies)
	}
}

func TestStructuralResolution(t *testing.T) {
	bar := sym("bar", "Proj.A.bar", "")
	use := sym("use", "Proj.B.use", "")
	use.RawRefs = []model.RawRef{
		{ModulePath: "Proj.A", Name: "bar", Kind: "ax"},     // exact hit
		{ModulePath: "Elsewhere", Name: "bar", Kind: "ax"},  // short-name hit, same target
		{ModulePath: "Proj.A", Name: "ghost", Kind: "def"},  // untracked but project-internal
		{ModulePath: "Coq.Init.Nat", Name: "add", Kind: "def"}, // external
	}
	symbols := []*model.Symbol{bar, use}
	project := map[string]struct{}{"Proj.A": {}, "Proj.B": {}}

	Structural(symbols, NewTable(symbols), project)

	wantDeps := []string{"Proj.A.bar", "Proj.A.ghost"}
	if !reflect.DeepEqual(use.Dependencies, wantDeps) {
		t.Errorf("deps = %v, want %v", use.Dependencies, wantDeps)
	}
	wantExt := []string{"Coq.Init.Nat.add"}
	if !reflect.DeepEqual(use.ExternalDeps, wantExt) {
		t.Errorf("external = %v, want %v", use.ExternalDeps, wantExt)
	}
	if use.RawRefs != nil {
		t.Error("RawRefs not cleared after resolution")
	}
}

func TestStructuralSelfAndDuplicateSuppressed(t *testing.T) {
	a := sym("a", "P.a", "")
	a.RawRefs = []model.RawRef{
		{ModulePath: "P", Name: "a"},
		{ModulePath: "P", Name: "b"},
		{ModulePath: "P", Name: "b"},
	}
	b := sym("b", "P.b", "")
	symbols := []*model.Symbol{a, b}

	Structural(symbols, NewTable(symbols), map[string]struct{}{"P": {}})

	if !reflect.DeepEqual(a.Dependencies, []string{"P.b"}) {
		t.Errorf("deps = %v, want [P.b]", a.Dependencies)
	}
}
