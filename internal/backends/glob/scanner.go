package glob

import (
	"io"
	"sort"
	"strings"

	"proofscope/internal/model"
)

// Result is the per-file output of a metadata scan.
type Result struct {
	File    *model.SourceFile
	Symbols []*model.Symbol
}

// ScanFile combines a source file's raw bytes with its metadata
// records. path is the project-relative source path recorded on every
// produced symbol. Statement text, line numbers, and proof status come
// from the raw bytes; names, extents, and references come from the
// records.
func ScanFile(path string, raw []byte, records io.Reader) (*Result, error) {
	fr, err := ParseRecords(records)
	if err != nil {
		return nil, err
	}
	return scanParsed(path, raw, fr), nil
}

func scanParsed(path string, raw []byte, fr *FileRecords) *Result {
	lineMap := BuildLineMap(raw)
	res := &Result{
		File: &model.SourceFile{Path: path, LogicalPath: fr.LogicalPath},
	}
	refModules := make(map[string]bool)

	for _, dr := range fr.Defs {
		def := dr.Def
		if !trackedKinds[def.Kind] {
			continue
		}
		if strings.HasPrefix(def.Name, "::") || strings.HasPrefix(def.Name, "'") {
			continue
		}

		qualified := def.Name
		if fr.LogicalPath != "" {
			qualified = fr.LogicalPath + "." + def.Name
		}

		display := kindDisplay[def.Kind]
		if display == "" {
			display = def.Kind
		}

		var status model.Status
		switch {
		case assumedKinds[def.Kind]:
			status = model.StatusAssumed
		case provableKinds[def.Kind]:
			status = model.Status(ExtractProofStatus(raw, def.ByteStart))
		default:
			status = model.StatusDefined
		}

		sym := &model.Symbol{
			Name:          def.Name,
			QualifiedName: qualified,
			Kind:          display,
			KindCode:      def.Kind,
			Group:         groupForKind(def.Kind),
			Status:        status,
			File:          path,
			Line:          lineMap.LineAt(def.ByteStart),
			Bytes:         model.ByteRange{Start: def.ByteStart, End: def.ByteEnd},
			Statement:     ExtractStatement(raw, def.ByteStart),
		}

		seen := make(map[string]bool)
		for _, ref := range dr.Refs {
			if skipRefKinds[ref.Kind] {
				continue
			}
			refQName := ref.ModulePath + "." + ref.Name
			if refQName == qualified || seen[refQName] {
				continue
			}
			seen[refQName] = true
			sym.RawRefs = append(sym.RawRefs, model.RawRef{
				ModulePath: ref.ModulePath,
				Name:       ref.Name,
				Kind:       ref.Kind,
			})
			if ref.ModulePath != "" && ref.ModulePath != fr.LogicalPath {
				refModules[ref.ModulePath] = true
			}
		}

		res.Symbols = append(res.Symbols, sym)
		res.File.Symbols = append(res.File.Symbols, qualified)
	}

	for m := range refModules {
		res.File.RefModules = append(res.File.RefModules, m)
	}
	sort.Strings(res.File.RefModules)
	return res
}
