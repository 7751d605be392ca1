// Package glob is the compiler-metadata front-end: it parses the exact
// definition and reference records the proof compiler emits alongside
// each source file, then recovers statement text and proof status by
// re-reading the original bytes around each reported definition.
package glob

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DefRecord is one definition line: kind code, byte extent, and the
// raw name as the compiler printed it.
type DefRecord struct {
	Kind      string
	ByteStart int
	ByteEnd   int
	Name      string
	RawName   string
}

// RefRecord is one reference line, implicitly scoped to the nearest
// preceding definition record.
type RefRecord struct {
	ByteStart  int
	ByteEnd    int
	ModulePath string
	Name       string
	RawName    string
	Kind       string
}

// FileRecords is the parsed content of one metadata file: its logical
// module path and every definition paired with the references that
// belong to it.
type FileRecords struct {
	LogicalPath string
	Defs        []DefWithRefs
}

// DefWithRefs pairs a definition with the references scoped to it.
type DefWithRefs struct {
	Def  DefRecord
	Refs []RefRecord
}

var (
	defRe = regexp.MustCompile(`^(\w+)\s+(\d+):(\d+)\s+<>\s+(.+)$`)
	refRe = regexp.MustCompile(`^R(\d+):(\d+)\s+(\S+)\s+<>\s+(.+)\s+(\w+)$`)
	// binder names carry a :N suffix (a:1, b:2)
	binderSuffixRe = regexp.MustCompile(`^(.+):(\d+)$`)
)

// ParseRecords reads a metadata stream. Malformed lines are skipped;
// only an unreadable stream is an error. References that precede any
// definition are dropped, since they have no owner.
func ParseRecords(r io.Reader) (*FileRecords, error) {
	fr := &FileRecords{}
	var (
		cur     *DefRecord
		curRefs []RefRecord
	)

	flush := func() {
		if cur != nil {
			fr.Defs = append(fr.Defs, DefWithRefs{Def: *cur, Refs: curRefs})
			cur = nil
			curRefs = nil
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\n")
		if line == "" || strings.HasPrefix(line, "DIGEST") {
			continue
		}

		if strings.HasPrefix(line, "F") && fr.LogicalPath == "" && !strings.Contains(line, " ") {
			fr.LogicalPath = strings.TrimSpace(line[1:])
			continue
		}

		if strings.HasPrefix(line, "R") {
			m := refRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			rawName := strings.TrimSpace(m[4])
			// Scope and notation artifacts (::Q_scope:..., 'x') are
			// not name-shaped references.
			if strings.HasPrefix(rawName, "::") || strings.HasPrefix(rawName, "'") {
				continue
			}
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			curRefs = append(curRefs, RefRecord{
				ByteStart:  start,
				ByteEnd:    end,
				ModulePath: m[3],
				Name:       cleanName(rawName),
				RawName:    rawName,
				Kind:       m[5],
			})
			continue
		}

		if m := defRe.FindStringSubmatch(line); m != nil {
			flush()
			start, _ := strconv.Atoi(m[2])
			end, _ := strconv.Atoi(m[3])
			rawName := strings.TrimSpace(m[4])
			cur = &DefRecord{
				Kind:      m[1],
				ByteStart: start,
				ByteEnd:   end,
				Name:      cleanName(rawName),
				RawName:   rawName,
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading metadata records: %w", err)
	}
	flush()
	return fr, nil
}

// cleanName strips the :N binder suffix the compiler appends to
// positional names.
func cleanName(name string) string {
	if m := binderSuffixRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}
