// Package sentence implements the lexical preprocessing shared by both
// front-ends: nested comment removal and string-aware segmentation of
// vernacular source into sentence-sized commands.
package sentence

import "strings"

// Sentence is one vernacular command with the 1-based line number of
// its first non-blank character.
type Sentence struct {
	Text string
	Line int
}

// StripComments removes nested (* ... *) comments. Every removed
// character becomes a space except newlines, which are preserved, so
// line and byte accounting downstream stays stable. An unmatched *) at
// depth zero is consumed like comment text, matching the compiler's
// tolerance for stray closers.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	depth := 0
	n := len(text)
	for i := 0; i < n; {
		switch {
		case i+1 < n && text[i] == '(' && text[i+1] == '*':
			depth++
			b.WriteString("  ")
			i += 2
		case i+1 < n && text[i] == '*' && text[i+1] == ')':
			if depth > 0 {
				depth--
			}
			b.WriteString("  ")
			i += 2
		case depth == 0:
			b.WriteByte(text[i])
			i++
		default:
			if text[i] == '\n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
			i++
		}
	}
	return b.String()
}

// Split segments text into sentences. A sentence ends at a '.' that is
// immediately followed by whitespace or end of input while outside a
// string literal; a '.' followed by a letter (qualified names like
// Nat.add) does not split. Comments must already be stripped.
func Split(text string) []Sentence {
	var (
		out      []Sentence
		cur      strings.Builder
		curLine  = 1
		line     = 1
		inString bool
		started  bool
	)
	n := len(text)

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, Sentence{Text: s, Line: curLine})
		}
		cur.Reset()
		started = false
	}

	// curLine is pinned at the first non-blank byte of each sentence so
	// leading blank lines and stripped comments do not skew it.
	mark := func(ch byte) {
		if !started && !isSpace(ch) {
			curLine = line
			started = true
		}
	}

	for i := 0; i < n; i++ {
		ch := text[i]
		if ch == '\n' {
			line++
		}
		if ch == '"' {
			inString = !inString
			mark(ch)
			cur.WriteByte(ch)
			continue
		}
		if inString {
			cur.WriteByte(ch)
			continue
		}
		if ch == '.' && (i+1 >= n || isSpace(text[i+1])) {
			mark(ch)
			cur.WriteByte('.')
			flush()
			continue
		}
		mark(ch)
		cur.WriteByte(ch)
	}
	flush()
	return out
}

// Preprocess strips comments and splits in one step.
func Preprocess(text string) []Sentence {
	return Split(StripComments(text))
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
