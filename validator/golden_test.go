package validator

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

// TestSession_GoldenLogs pins the exact log text of representative runs.
// Regenerate with: go test ./validator -run GoldenLogs -update
func TestSession_GoldenLogs(t *testing.T) {
	tests := []struct {
		name   string
		format types.Format
		file   string
		build  func() *scoringFile
	}{
		{
			name:   "final_valid",
			format: types.FormatFinal,
			file:   "PGS000001_h38_v1.txt",
			build:  func() *scoringFile { return newFinalFile("PGS000001", 10) },
		},
		{
			name:   "final_bad_build",
			format: types.FormatFinal,
			file:   "PGS000001_h99_v1.txt",
			build:  func() *scoringFile { return newFinalFile("PGS000001", 3) },
		},
		{
			name:   "final_bad_extension",
			format: types.FormatFinal,
			file:   "PGS000001_h38_v1.csv",
			build:  func() *scoringFile { return newFinalFile("PGS000001", 3) },
		},
		{
			name:   "positional_bad_chromosome",
			format: types.FormatPositional,
			file:   "PGS000005_h38_v1.txt",
			build: func() *scoringFile {
				f := newPositionalFile("PGS000005", 10)
				return f.set(5, schema.ColHmChr, "23").set(5, schema.ColHmMatchChr, schema.FlagFalse)
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.build().write(t, t.TempDir(), tt.file)
			_, logText := runFile(t, tt.format, path, 0)
			g.Assert(t, tt.name, []byte(logText))
		})
	}
}
