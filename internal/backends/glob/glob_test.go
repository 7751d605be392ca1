package glob

import (
	"strings"
	"testing"
	"unicode/utf8"

	"proofscope/internal/model"
)

const sampleSource = `Axiom bar : False.

Lemma baz : False.
Proof.
apply bar.
Qed.

Definition five := 5.
`

// byte offsets into sampleSource: "bar" at 6, "baz" at 26, "five" at 74
const sampleRecords = `DIGEST deadbeefdeadbeefdeadbeefdeadbeef
FProj.Sample
ax 6:8 <> bar
lem 26:28 <> baz
R52:54 Proj.Sample <> bar ax
def 74:77 <> five
`

func TestParseRecords(t *testing.T) {
	fr, err := ParseRecords(strings.NewReader(sampleRecords))
	if err != nil {
		t.Fatal(err)
	}
	if fr.LogicalPath != "Proj.Sample" {
		t.Errorf("logical path = %q", fr.LogicalPath)
	}
	if len(fr.Defs) != 3 {
		t.Fatalf("got %d defs, want 3", len(fr.Defs))
	}
	if fr.Defs[0].Def.Kind != "ax" || fr.Defs[0].Def.Name != "bar" {
		t.Errorf("def 0 = %+v", fr.Defs[0].Def)
	}
	if len(fr.Defs[1].Refs) != 1 {
		t.Fatalf("baz refs = %v", fr.Defs[1].Refs)
	}
	ref := fr.Defs[1].Refs[0]
	if ref.ModulePath != "Proj.Sample" || ref.Name != "bar" || ref.Kind != "ax" {
		t.Errorf("ref = %+v", ref)
	}
	if len(fr.Defs[2].Refs) != 0 {
		t.Errorf("five refs = %v", fr.Defs[2].Refs)
	}
}

func TestParseRecordsArtifacts(t *testing.T) {
	input := `Fm
not 0:5 <> ::nat_scope:x_'+'_x
binder 10:11 <> a:1
def 20:23 <> foo
R30:32 M <> ::Q_scope:y not
R40:42 M <> b:2 var
`
	fr, err := ParseRecords(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(fr.Defs) != 3 {
		t.Fatalf("got %d defs", len(fr.Defs))
	}
	// notation-artifact reference is dropped during parse; the binder
	// ref survives parse (name cleaned) and is filtered at scan time.
	foo := fr.Defs[2]
	if len(foo.Refs) != 1 || foo.Refs[0].Name != "b" {
		t.Errorf("foo refs = %v", foo.Refs)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a:1", "a"},
		{"foo", "foo"},
		{"x':12", "x'"},
		{"no_suffix:", "no_suffix:"},
	}
	for _, tc := range tests {
		if got := cleanName(tc.in); got != tc.want {
			t.Errorf("cleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildLineMap(t *testing.T) {
	m := BuildLineMap([]byte("ab\ncd\n"))
	tests := []struct{ offset, line int }{
		{0, 1}, {2, 1}, {3, 2}, {5, 2}, {6, 3}, {999, 3}, {-1, 1},
	}
	for _, tc := range tests {
		if got := m.LineAt(tc.offset); got != tc.line {
			t.Errorf("LineAt(%d) = %d, want %d", tc.offset, got, tc.line)
		}
	}
}

func TestExtractStatement(t *testing.T) {
	raw := []byte(sampleSource)
	got := ExtractStatement(raw, 26) // "baz"
	if got != "Lemma baz : False." {
		t.Errorf("statement = %q", got)
	}
	got = ExtractStatement(raw, 6) // "bar"
	if got != "Axiom bar : False." {
		t.Errorf("statement = %q", got)
	}
}

func TestExtractStatementTruncation(t *testing.T) {
	long := "Definition big := " + strings.Repeat("x ", 1500) + "."
	got := ExtractStatement([]byte(long), 11)
	if len(got) != maxStatementLen+len(truncationMarker) {
		t.Errorf("len = %d", len(got))
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("missing truncation marker")
	}
}

func TestExtractStatementTruncationRuneBoundary(t *testing.T) {
	// 3-byte runes arranged so the cap lands mid-rune.
	long := "Definition big := " + strings.Repeat("∀", 700) + "."
	got := ExtractStatement([]byte(long), 11)
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("missing truncation marker, len = %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated statement is not valid UTF-8")
	}
	if len(got) > maxStatementLen+len(truncationMarker) {
		t.Errorf("len = %d", len(got))
	}
}

func TestExtractProofStatus(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"qed", "Lemma a : True.\nProof.\nexact I.\nQed.\n", "proved"},
		{"admitted", "Lemma a : True.\nProof.\nAdmitted.\n", "admitted"},
		{"defined-terminator", "Lemma a : True.\nProof.\nexact I.\nDefined.\n", "defined"},
		{"abort", "Lemma a : True.\nAbort.\n", "aborted"},
		{"inline body", "Lemma a : True := I.\nDefinition b := 2.\n", "defined"},
		{"eof", "Lemma a : True.\n", "defined"},
		{"comment skipped", "Lemma a : True.\n(* Qed. *)\nAdmitted.\n", "admitted"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractProofStatus([]byte(tc.src), 6)
			if got != tc.want {
				t.Errorf("status = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScanFile(t *testing.T) {
	res, err := ScanFile("Sample.v", []byte(sampleSource), strings.NewReader(sampleRecords))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Symbols) != 3 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}

	bar, baz, five := res.Symbols[0], res.Symbols[1], res.Symbols[2]

	if bar.QualifiedName != "Proj.Sample.bar" || bar.Status != model.StatusAssumed {
		t.Errorf("bar = %q status %q", bar.QualifiedName, bar.Status)
	}
	if bar.Group != model.KindAssumption {
		t.Errorf("bar group = %q", bar.Group)
	}
	if bar.Line != 1 {
		t.Errorf("bar line = %d", bar.Line)
	}

	if baz.Status != model.StatusProved {
		t.Errorf("baz status = %q", baz.Status)
	}
	if baz.Line != 3 {
		t.Errorf("baz line = %d", baz.Line)
	}
	if len(baz.RawRefs) != 1 || baz.RawRefs[0].Name != "bar" {
		t.Errorf("baz raw refs = %v", baz.RawRefs)
	}

	if five.Status != model.StatusDefined || five.KindCode != "def" {
		t.Errorf("five = %+v", five)
	}

	if res.File.LogicalPath != "Proj.Sample" {
		t.Errorf("logical path = %q", res.File.LogicalPath)
	}
}

func TestScanFileSelfReferenceSuppressed(t *testing.T) {
	src := "Definition d := d_aux.\n"
	records := "FM\ndef 11:12 <> d\nR16:21 M <> d def\nR16:21 M <> d def\n"
	res, err := ScanFile("a.v", []byte(src), strings.NewReader(records))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Symbols) != 1 {
		t.Fatalf("got %d symbols", len(res.Symbols))
	}
	if len(res.Symbols[0].RawRefs) != 0 {
		t.Errorf("self/duplicate refs survived: %v", res.Symbols[0].RawRefs)
	}
}
