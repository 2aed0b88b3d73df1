package types

// Severity is the level a finding was logged at.
type Severity string

// Severity constants.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Stage identifies the validation step that produced a finding.
type Stage string

// Stage constants, in execution order.
const (
	StageSetup     Stage = "setup"
	StageExtension Stage = "extension"
	StageFilename  Stage = "filename"
	StageMetadata  Stage = "metadata"
	StageHeader    Stage = "header"
	StageRows      Stage = "rows"
	StageCompanion Stage = "companion"
	StageVerdict   Stage = "verdict"
)

// Finding is one warning or error recorded by a session.
// Row is the 1-based data row number, or 0 when the finding is not tied
// to a row. Column is empty unless a single column is at fault.
type Finding struct {
	Severity Severity `json:"severity"`
	Stage    Stage    `json:"stage"`
	Row      int      `json:"row,omitempty"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// IsError reports whether the finding counts against the file.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// IsContent reports whether the finding is a row-level content error.
// Content errors are the only findings subject to the error ceiling.
func (f Finding) IsContent() bool {
	return f.IsError() && f.Stage == StageRows
}
