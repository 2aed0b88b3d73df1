package types

// Version is the canonical project version.
// The CLI, the batch report, and stored verdict records share this version.
const Version = "0.1.0"

// ReportVersion is the schema version of the batch report and of stored
// verdict records. It moves in lockstep with Version.
const ReportVersion = Version
