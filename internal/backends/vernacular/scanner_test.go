package vernacular

import (
	"testing"

	"proofscope/internal/model"
)

func scan(t *testing.T, src string) *Result {
	t.Helper()
	return ScanFile("test.v", []byte(src), Options{})
}

func TestProvableQed(t *testing.T) {
	res := scan(t, "Lemma foo : True. Proof. exact I. Qed.")
	if len(res.Symbols) != 1 {
		t.Fatalf("got %d symbols, want 1", len(res.Symbols))
	}
	s := res.Symbols[0]
	if s.Name != "foo" || s.QualifiedName != "foo" {
		t.Errorf("name = %q / %q", s.Name, s.QualifiedName)
	}
	if s.Group != model.KindProvable {
		t.Errorf("group = %q, want provable", s.Group)
	}
	if s.Status != model.StatusProved {
		t.Errorf("status = %q, want proved", s.Status)
	}
	if len(s.Dependencies) != 0 {
		t.Errorf("dependencies = %v, want none", s.Dependencies)
	}
}

func TestAxiomAssumed(t *testing.T) {
	res := scan(t, "Axiom bar : False.")
	if len(res.Symbols) != 1 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}
	if res.Symbols[0].Status != model.StatusAssumed {
		t.Errorf("status = %q, want assumed", res.Symbols[0].Status)
	}
	if res.Symbols[0].Kind != "axiom" {
		t.Errorf("kind = %q", res.Symbols[0].Kind)
	}
}

func TestTerminators(t *testing.T) {
	tests := []struct {
		terminator string
		want       model.Status
	}{
		{"Qed", model.StatusProved},
		{"Admitted", model.StatusAdmitted},
		{"Defined", model.StatusDefined},
		{"Abort", model.StatusAborted},
	}
	for _, tc := range tests {
		t.Run(tc.terminator, func(t *testing.T) {
			res := scan(t, "Lemma l : True. Proof. "+tc.terminator+".")
			if res.Symbols[0].Status != tc.want {
				t.Errorf("status = %q, want %q", res.Symbols[0].Status, tc.want)
			}
		})
	}
}

func TestInlineBodyNeverPending(t *testing.T) {
	res := scan(t, "Definition x := 5. Lemma y : True. Qed.")
	if len(res.Symbols) != 2 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}
	if res.Symbols[0].Status != model.StatusDefined {
		t.Errorf("x status = %q, want defined", res.Symbols[0].Status)
	}
	if res.Symbols[1].Status != model.StatusProved {
		t.Errorf("y status = %q, want proved", res.Symbols[1].Status)
	}
}

func TestProvableWithInlineBody(t *testing.T) {
	res := scan(t, "Lemma trivial : True := I. Definition after := 1.")
	if len(res.Symbols) != 2 {
		t.Fatalf("inline-bodied lemma swallowed following decl: %d symbols", len(res.Symbols))
	}
	if res.Symbols[0].Status != model.StatusDefined {
		t.Errorf("status = %q, want defined", res.Symbols[0].Status)
	}
}

func TestScopeStack(t *testing.T) {
	src := `Module M.
Section S.
Definition d := 1.
End S.
Definition e := 2.
End M.
Definition f := 3.`
	res := scan(t, src)
	want := map[string]string{"d": "M.S.d", "e": "M.e", "f": "f"}
	if len(res.Symbols) != 3 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}
	for _, s := range res.Symbols {
		if s.QualifiedName != want[s.Name] {
			t.Errorf("%s qualified = %q, want %q", s.Name, s.QualifiedName, want[s.Name])
		}
	}
}

func TestScopeMismatchDiagnostic(t *testing.T) {
	res := scan(t, "Module M.\nEnd Wrong.\nDefinition d := 1.\nEnd M.")
	if len(res.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(res.Diagnostics))
	}
	// The mismatched End must not pop: d stays inside M.
	if res.Symbols[0].QualifiedName != "M.d" {
		t.Errorf("qualified = %q, want M.d", res.Symbols[0].QualifiedName)
	}
}

func TestImports(t *testing.T) {
	res := scan(t, "From Coq Require Import List Arith.\nRequire Export Setoid.\nDefinition d := 1.")
	want := []string{"List", "Arith", "Setoid"}
	if len(res.File.Imports) != len(want) {
		t.Fatalf("imports = %v", res.File.Imports)
	}
	for i, m := range want {
		if res.File.Imports[i] != m {
			t.Errorf("import %d = %q, want %q", i, res.File.Imports[i], m)
		}
	}
	if len(res.Symbols) != 1 {
		t.Errorf("import produced a symbol: %d", len(res.Symbols))
	}
}

func TestUnterminatedProof(t *testing.T) {
	res := scan(t, "Lemma cut : True. Proof. exact")
	if res.Symbols[0].Status != model.StatusUnterminated {
		t.Errorf("status = %q, want unterminated", res.Symbols[0].Status)
	}

	legacy := ScanFile("test.v", []byte("Lemma cut : True. Proof. exact"), Options{UnterminatedAsProved: true})
	if legacy.Symbols[0].Status != model.StatusProved {
		t.Errorf("legacy status = %q, want proved", legacy.Symbols[0].Status)
	}
}

func TestProofInternalsDiscarded(t *testing.T) {
	src := `Lemma a : True.
Proof.
assert (H : 1 = 1).
reflexivity.
Qed.
Definition b := 2.`
	res := scan(t, src)
	if len(res.Symbols) != 2 {
		t.Fatalf("proof internals leaked symbols: %d", len(res.Symbols))
	}
}

func TestAttributePrefix(t *testing.T) {
	res := scan(t, "#[global] Instance inst : True. Qed.")
	if len(res.Symbols) != 1 {
		t.Fatalf("attributed instance not recognized")
	}
	if res.Symbols[0].Group != model.KindInstance {
		t.Errorf("group = %q", res.Symbols[0].Group)
	}
	if res.Symbols[0].Status != model.StatusProved {
		t.Errorf("status = %q", res.Symbols[0].Status)
	}
}

func TestProgramDefinitionKeywordPriority(t *testing.T) {
	res := scan(t, "Program Definition pd := 1.")
	if len(res.Symbols) != 1 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}
	if res.Symbols[0].Name != "pd" {
		t.Errorf("name = %q, want pd (keyword must match longest-first)", res.Symbols[0].Name)
	}
	if res.Symbols[0].Kind != "program definition" {
		t.Errorf("kind = %q", res.Symbols[0].Kind)
	}
}

func TestCommentsIgnored(t *testing.T) {
	res := scan(t, "(* Lemma fake : True. *)\nDefinition real := 1.")
	if len(res.Symbols) != 1 || res.Symbols[0].Name != "real" {
		t.Fatalf("comment leaked a declaration: %v", res.Symbols)
	}
	if res.Symbols[0].Line != 2 {
		t.Errorf("line = %d, want 2", res.Symbols[0].Line)
	}
}
