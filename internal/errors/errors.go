// Package errors defines the stable error codes and the error type
// shared across the analyzer. Codes are part of the tool's contract:
// scripts match on them, so they never change meaning.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NoInput indicates no scannable source files were found
	NoInput ErrorCode = "NO_INPUT"
	// GlobMissing indicates no compiled .glob metadata matched any source file
	GlobMissing ErrorCode = "GLOB_MISSING"
	// ParseFailure indicates a single file could not be scanned
	ParseFailure ErrorCode = "PARSE_FAILURE"
	// ManifestInvalid indicates the project manifest could not be read
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// SnapshotCorrupt indicates a stored snapshot failed checksum or schema checks
	SnapshotCorrupt ErrorCode = "SNAPSHOT_CORRUPT"
	// StorageFailure indicates the snapshot database rejected an operation
	StorageFailure ErrorCode = "STORAGE_FAILURE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// AnalysisError carries a stable code, a human message, and suggested
// fixes alongside the underlying cause.
type AnalysisError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new AnalysisError with the fixes registered for its code.
func New(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NoInput: {
		{
			Type:        RunCommand,
			Command:     "proofscope analyze --root <project-dir>",
			Safe:        true,
			Description: "Point the analyzer at a directory containing .v files",
		},
	},
	GlobMissing: {
		{
			Type:        RunCommand,
			Command:     "make || dune build",
			Safe:        false,
			Description: "Compile the project so coqc emits .glob files",
		},
		{
			Type:        RunCommand,
			Command:     "proofscope glob --glob-dir _build/default",
			Safe:        true,
			Description: "Point the analyzer at the build tree holding the .glob files",
		},
	},
	SnapshotCorrupt: {
		{
			Type:        RunCommand,
			Command:     "proofscope analyze --save",
			Safe:        true,
			Description: "Re-run the analysis to produce a fresh snapshot",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "proofscope init --force",
			Safe:        false,
			Description: "Rewrite the configuration with defaults",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
