package glob

import (
	"regexp"
	"strings"
)

const (
	// keywordWindow bounds the backward scan from a reported
	// definition offset to the declaration keyword before it.
	keywordWindow = 300
	// maxStatementLen is the hard cap on recovered statement text.
	maxStatementLen = 2000
	// truncationMarker is appended when a statement is cut off.
	truncationMarker = " ..."
	// maxStatusScan bounds the forward scan for proof terminators.
	maxStatusScan = 500000
)

// declarationKeywords are candidates for the backward scan, longest
// first so composite keywords win.
var declarationKeywords = []string{
	"Global Instance", "Local Instance",
	"Program Definition", "Program Fixpoint", "Program Lemma",
	"Declare Assumption",
	"CoInductive", "CoFixpoint", "Proposition", "Conjecture",
	"Definition", "Hypothesis", "Inductive", "Structure",
	"Corollary", "Parameter", "Fixpoint", "Function", "Instance",
	"Property", "Theorem", "Variable", "Variant", "Context",
	"Example", "Record", "Remark", "Axiom", "Class", "Lemma",
	"Fact", "Let",
}

var topLevelCommandRe = regexp.MustCompile(
	`^(?:Theorem|Lemma|Corollary|Definition|Fixpoint|Inductive|` +
		`CoInductive|Record|Structure|Class|Axiom|Parameter|` +
		`Hypothesis|Variable|Instance|Module|Section|End|` +
		`From|Require|Import|Export|Notation|Ltac|Set|Unset)\b`)

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// LineMap maps byte offsets to 1-based line numbers.
type LineMap []int

// BuildLineMap indexes the raw bytes of a source file. The final entry
// is a sentinel for offsets at end of input.
func BuildLineMap(raw []byte) LineMap {
	m := make(LineMap, 0, len(raw)+1)
	line := 1
	for _, b := range raw {
		m = append(m, line)
		if b == '\n' {
			line++
		}
	}
	return append(m, line)
}

// LineAt returns the line number for a byte offset, clamping out of
// range offsets.
func (m LineMap) LineAt(offset int) int {
	if len(m) == 0 {
		return 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m) {
		offset = len(m) - 1
	}
	return m[offset]
}

// ExtractStatement recovers the declaration text around byteStart: it
// scans backward up to keywordWindow bytes for the nearest declaration
// keyword, then forward to the first sentence terminator outside
// strings and comments. The result is whitespace-normalized and
// truncated past maxStatementLen.
func ExtractStatement(raw []byte, byteStart int) string {
	n := len(raw)
	if byteStart > n {
		byteStart = n
	}
	searchStart := byteStart - keywordWindow
	if searchStart < 0 {
		searchStart = 0
	}
	prefix := string(raw[searchStart:byteStart])

	kwByte := byteStart
	for _, kw := range declarationKeywords {
		if idx := strings.LastIndex(prefix, kw); idx >= 0 {
			if candidate := searchStart + idx; candidate < kwByte {
				kwByte = candidate
			}
			break // nearest keyword wins; list is longest-first
		}
	}

	end := scanToTerminator(raw, byteStart)
	statement := strings.TrimSpace(string(raw[kwByte:end]))
	statement = whitespaceRunRe.ReplaceAllString(statement, " ")
	if len(statement) > maxStatementLen {
		cut := maxStatementLen
		// Back up to a rune boundary so truncation never emits a torn
		// multi-byte character.
		for cut > 0 && statement[cut]&0xC0 == 0x80 {
			cut--
		}
		statement = statement[:cut] + truncationMarker
	}
	return statement
}

// scanToTerminator advances from offset to just past the next '.'
// followed by whitespace or EOF, skipping string literals and nested
// comments.
func scanToTerminator(raw []byte, offset int) int {
	n := len(raw)
	i := offset
	inString := false
	for i < n {
		ch := raw[i]
		if ch == '"' {
			inString = !inString
			i++
			continue
		}
		if !inString {
			if ch == '(' && i+1 < n && raw[i+1] == '*' {
				i = skipComment(raw, i)
				continue
			}
			if ch == '.' && (i+1 >= n || isSpaceByte(raw[i+1])) {
				return i + 1
			}
		}
		i++
	}
	return n
}

// skipComment consumes a nested comment starting at raw[i] == '('.
func skipComment(raw []byte, i int) int {
	n := len(raw)
	depth := 1
	i += 2
	for i < n && depth > 0 {
		if raw[i] == '(' && i+1 < n && raw[i+1] == '*' {
			depth++
			i += 2
		} else if raw[i] == '*' && i+1 < n && raw[i+1] == ')' {
			depth--
			i += 2
		} else {
			i++
		}
	}
	return i
}

// ExtractProofStatus determines how the proof following the statement
// at byteStart ended. It skips to the end of the defining sentence,
// then reads sentences until one of the four terminators appears; any
// other top-level command first means the declaration carried an
// inline body.
func ExtractProofStatus(raw []byte, byteStart int) string {
	n := len(raw)
	i := scanToTerminator(raw, byteStart)

	maxScan := i + maxStatusScan
	if maxScan > n {
		maxScan = n
	}

	for i < maxScan {
		for i < maxScan {
			if isSpaceByte(raw[i]) {
				i++
				continue
			}
			if raw[i] == '(' && i+1 < maxScan && raw[i+1] == '*' {
				i = skipComment(raw, i)
				continue
			}
			break
		}
		if i >= maxScan {
			break
		}

		sentStart := i
		i = scanSentenceEnd(raw, i, maxScan)
		word := strings.TrimSpace(string(raw[sentStart:i]))
		word = strings.TrimRight(word, ".")

		switch word {
		case "Qed":
			return "proved"
		case "Admitted":
			return "admitted"
		case "Defined":
			return "defined"
		case "Abort":
			return "aborted"
		}
		if topLevelCommandRe.MatchString(word) {
			return "defined"
		}
	}
	return "defined"
}

// scanSentenceEnd is scanToTerminator with comment-aware string
// handling bounded by max.
func scanSentenceEnd(raw []byte, i, max int) int {
	inString := false
	commentDepth := 0
	for i < max {
		ch := raw[i]
		if ch == '"' && commentDepth == 0 {
			inString = !inString
			i++
			continue
		}
		if !inString {
			if ch == '(' && i+1 < max && raw[i+1] == '*' {
				commentDepth++
				i += 2
				continue
			}
			if ch == '*' && i+1 < max && raw[i+1] == ')' && commentDepth > 0 {
				commentDepth--
				i += 2
				continue
			}
			if commentDepth == 0 && ch == '.' && (i+1 >= max || isSpaceByte(raw[i+1])) {
				return i + 1
			}
		}
		i++
	}
	return i
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
