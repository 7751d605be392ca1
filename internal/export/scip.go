package export

import (
	"fmt"
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"proofscope/internal/model"
)

// WriteSCIP emits the graph as a SCIP index so editor tooling built
// on SCIP can navigate the proof development. Each symbol gets a
// definition occurrence at its source line and a reference occurrence
// for every resolved dependency.
func WriteSCIP(path string, r *Report) error {
	idx := BuildSCIPIndex(r)
	data, err := proto.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal SCIP index: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// BuildSCIPIndex converts a report into the SCIP protobuf shape.
func BuildSCIPIndex(r *Report) *scippb.Index {
	idx := &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:    "proofscope",
				Version: r.ToolVersion,
			},
			ProjectRoot:          "file:///" + r.Project,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	byFile := make(map[string][]*model.Symbol)
	for _, s := range r.Symbols {
		byFile[s.File] = append(byFile[s.File], s)
	}

	for _, f := range r.Files {
		doc := &scippb.Document{
			RelativePath: f.Path,
			Language:     "coq",
		}
		for _, s := range byFile[f.Path] {
			symID := scipSymbol(r.Project, s.QualifiedName)
			line := int32(s.Line - 1)
			if line < 0 {
				line = 0
			}

			doc.Occurrences = append(doc.Occurrences, &scippb.Occurrence{
				Range:       []int32{line, 0, int32(len(s.Name))},
				Symbol:      symID,
				SymbolRoles: int32(scippb.SymbolRole_Definition),
			})
			doc.Symbols = append(doc.Symbols, &scippb.SymbolInformation{
				Symbol:        symID,
				DisplayName:   s.Name,
				Documentation: []string{s.Statement},
			})

			for _, dep := range s.Dependencies {
				doc.Occurrences = append(doc.Occurrences, &scippb.Occurrence{
					Range:  []int32{line, 0, int32(len(s.Name))},
					Symbol: scipSymbol(r.Project, dep),
				})
			}
		}
		idx.Documents = append(idx.Documents, doc)
	}
	return idx
}

// scipSymbol formats a qualified name using the SCIP symbol grammar:
// scheme, package, then descriptors with the final component as a
// term.
func scipSymbol(project, qualified string) string {
	if project == "" {
		project = "unknown"
	}
	parts := strings.Split(qualified, ".")
	var b strings.Builder
	fmt.Fprintf(&b, "scip-coq proofscope %s . ", project)
	for i, p := range parts {
		if i == len(parts)-1 {
			b.WriteString(p + ".")
		} else {
			b.WriteString(p + "/")
		}
	}
	return b.String()
}
