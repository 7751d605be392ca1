package vernacular

import (
	"regexp"
	"sort"
	"strings"

	"proofscope/internal/model"
)

// Declaration keyword groups. The five core groups are disjoint;
// keywords in otherKeywords produce tracked symbols but open no proof
// obligation.
var (
	provableKeywords = []string{
		"Lemma", "Theorem", "Corollary", "Proposition", "Fact",
		"Remark", "Example", "Property",
	}
	definitionKeywords = []string{
		"Definition", "Fixpoint", "CoFixpoint", "Let", "Function",
		"Program Definition", "Program Fixpoint",
	}
	typeKeywords = []string{
		"Inductive", "CoInductive", "Record", "Structure",
		"Class", "Variant",
	}
	assumptionKeywords = []string{
		"Axiom", "Parameter", "Hypothesis", "Variable",
		"Conjecture", "Context", "Declare Assumption",
	}
	instanceKeywords = []string{
		"Instance", "Global Instance", "Local Instance",
		"Program Instance",
	}
	otherKeywords = []string{
		"Ltac", "Notation", "Tactic Notation",
	}
)

// groupOf maps every declaration keyword to its kind group.
var groupOf = map[string]model.KindGroup{}

func init() {
	for _, k := range provableKeywords {
		groupOf[k] = model.KindProvable
	}
	for _, k := range definitionKeywords {
		groupOf[k] = model.KindDefinitional
	}
	for _, k := range typeKeywords {
		groupOf[k] = model.KindTypeFormer
	}
	for _, k := range assumptionKeywords {
		groupOf[k] = model.KindAssumption
	}
	for _, k := range instanceKeywords {
		groupOf[k] = model.KindInstance
	}
	for _, k := range otherKeywords {
		groupOf[k] = model.KindOther
	}
}

// keywordAlternation builds a longest-first regexp alternation so that
// "Program Definition" wins over "Definition".
func keywordAlternation() string {
	all := make([]string, 0, len(groupOf))
	for k := range groupOf {
		all = append(all, k)
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})
	quoted := make([]string, len(all))
	for i, k := range all {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(quoted, "|")
}

var (
	// commandRe matches a declaration sentence: an optional #[...]
	// attribute prefix, a keyword, the declared name, and the rest.
	commandRe = regexp.MustCompile(
		`^(?:#\[[^\]]*\]\s*)?(` + keywordAlternation() + `)\s+(\w[\w']*)([\s\S]*)$`)

	scopeOpenRe  = regexp.MustCompile(`^(?:Module|Section)\s+(\w+)`)
	scopeCloseRe = regexp.MustCompile(`^End\s+(\w+)`)
	importRe     = regexp.MustCompile(`^(?:From\s+\S+\s+)?Require\s+(?:Import|Export)\s+([\s\S]*)$`)
	proofStartRe = regexp.MustCompile(`^Proof\b`)
)

// proof terminators, mapped 1:1 to statuses
var terminatorStatus = map[string]model.Status{
	"Qed":      model.StatusProved,
	"Admitted": model.StatusAdmitted,
	"Defined":  model.StatusDefined,
	"Abort":    model.StatusAborted,
}
