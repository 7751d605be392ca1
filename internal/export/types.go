// Package export turns a frozen project graph into its external
// representations: the flat JSON/YAML report consumed by renderers, a
// compressed checksummed archive, and a SCIP index for editor
// tooling.
package export

import (
	"time"

	"github.com/google/uuid"

	"proofscope/internal/model"
	"proofscope/internal/version"
)

// ReportSchema identifies the report layout; consumers match on it
// before reading any other field.
const ReportSchema = "proofscope/report/v1"

// Report is the complete serialized analysis result. Fields are
// stable: renderers and exporters rely on them field-for-field.
type Report struct {
	Schema      string `json:"schema" yaml:"schema"`
	RunID       string `json:"run_id" yaml:"run_id"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Project     string `json:"project" yaml:"project"`
	FrontEnd    string `json:"front_end" yaml:"front_end"`
	ToolVersion string `json:"tool_version" yaml:"tool_version"`

	Stats   *model.Stats        `json:"stats" yaml:"stats"`
	Symbols []*model.Symbol     `json:"symbols" yaml:"symbols"`
	Files   []*model.SourceFile `json:"files" yaml:"files"`
}

// Meta carries run identity into a report. Zero values are filled in
// by BuildReport.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
	Project     string
	FrontEnd    string
	ToolVersion string
}

// BuildReport assembles the report for a frozen graph.
func BuildReport(g *model.ProjectGraph, stats *model.Stats, meta Meta) *Report {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}
	if meta.ToolVersion == "" {
		meta.ToolVersion = version.Version
	}
	return &Report{
		Schema:      ReportSchema,
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt.Format(time.RFC3339),
		Project:     meta.Project,
		FrontEnd:    meta.FrontEnd,
		ToolVersion: meta.ToolVersion,
		Stats:       stats,
		Symbols:     g.Symbols,
		Files:       g.Files,
	}
}
