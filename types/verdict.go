package types

// Verdict is the outcome of a single validation session.
type Verdict string

// Verdict constants.
const (
	// VerdictUnset is the initial state of a session.
	VerdictUnset Verdict = ""
	// VerdictValid means no errors were logged.
	VerdictValid Verdict = "valid"
	// VerdictInvalid means at least one error was logged during filename,
	// metadata, header or row validation.
	VerdictInvalid Verdict = "invalid"
	// VerdictErrored means validation could not proceed.
	VerdictErrored Verdict = "errored"
)

// IsTerminal reports whether the verdict has been decided.
func (v Verdict) IsTerminal() bool {
	return v != VerdictUnset
}

// Classification is the bucket a driver assigns to a file after reading
// the last line of its log.
type Classification string

// Classification constants.
const (
	ClassValid   Classification = "valid"
	ClassInvalid Classification = "invalid"
	ClassOther   Classification = "other"
)

// Classify maps a verdict to the bucket the log contract yields for it.
func (v Verdict) Classify() Classification {
	switch v {
	case VerdictValid:
		return ClassValid
	case VerdictInvalid:
		return ClassInvalid
	default:
		return ClassOther
	}
}
