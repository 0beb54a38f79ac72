package blipc

// CompileBundle is a JSON-friendly envelope around a CompileResult,
// mirroring the teacher's schema-versioned bundle shape so a caller that
// only wants a summary never needs to inspect raw tracks/pools.
type CompileBundle struct {
	SchemaVersion int             `json:"schema_version"`
	Success       bool            `json:"success"`
	Summary       CompileSummary  `json:"summary"`
	Diagnostics   []Diagnostic    `json:"diagnostics"`
	Manifest      *ProgramManifest `json:"manifest,omitempty"`
}

// CompileSummary tallies diagnostics by severity.
type CompileSummary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
}

// BuildCompileBundle summarizes a CompileResult. A nil result produces an
// unsuccessful, empty bundle rather than panicking, so callers can always
// bundle whatever CompileCommands returned, even on a hard failure.
func BuildCompileBundle(result *CompileResult) CompileBundle {
	b := CompileBundle{SchemaVersion: 1}
	if result == nil {
		return b
	}

	b.Diagnostics = result.Diagnostics
	b.Success = !HasErrors(result.Diagnostics)
	for _, d := range result.Diagnostics {
		switch d.Severity {
		case SeverityError:
			b.Summary.ErrorCount++
		case SeverityWarning:
			b.Summary.WarningCount++
		}
	}

	manifest := BuildManifest(result)
	b.Manifest = &manifest
	return b
}
