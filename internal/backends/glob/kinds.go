package glob

import "proofscope/internal/model"

// kindDisplay maps the compiler's short kind codes to the
// human-readable kind recorded on symbols.
var kindDisplay = map[string]string{
	"thm": "theorem", "lem": "lemma", "def": "definition",
	"ax": "axiom", "ind": "inductive", "constr": "constructor",
	"rec": "fixpoint", "corec": "cofixpoint", "not": "notation",
	"sec": "section", "var": "variable", "inst": "instance",
	"class": "class", "proj": "projection", "meth": "method",
	"modtype": "module type", "mod": "module", "syndef": "abbreviation",
	"scheme": "scheme", "prf": "proof", "binder": "binder",
	"lib": "library", "prop": "proposition", "coe": "coercion",
	"ex": "example", "morph": "morphism",
}

// provableKinds end with one of the four proof terminators; their
// status is recovered by re-scanning the source after the statement.
var provableKinds = map[string]bool{
	"thm": true, "lem": true, "prf": true,
	"prop": true, "ex": true, "morph": true,
}

var assumedKinds = map[string]bool{
	"ax": true,
}

// trackedKinds is the allow-list of definition kind codes that become
// symbols. Notations, sections, binders, bare variables, modules, and
// libraries are deliberately excluded.
var trackedKinds = map[string]bool{
	"thm": true, "lem": true, "def": true, "ax": true, "ind": true,
	"constr": true, "rec": true, "corec": true, "inst": true,
	"class": true, "proj": true, "meth": true, "prop": true,
	"ex": true, "morph": true, "scheme": true, "syndef": true,
	"prf": true,
}

// skipRefKinds are reference kinds that never become dependency
// targets.
var skipRefKinds = map[string]bool{
	"not": true, "var": true, "binder": true, "lib": true,
}

func groupForKind(code string) model.KindGroup {
	switch {
	case provableKinds[code]:
		return model.KindProvable
	case assumedKinds[code]:
		return model.KindAssumption
	case code == "inst":
		return model.KindInstance
	case code == "ind" || code == "constr" || code == "class" || code == "proj":
		return model.KindTypeFormer
	case code == "def" || code == "rec" || code == "corec" || code == "meth" || code == "syndef":
		return model.KindDefinitional
	default:
		return model.KindOther
	}
}
