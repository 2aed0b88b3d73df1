package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pithecene-io/hmvalidate/schema"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		path    string
		want    FileName
		problem string
	}{
		{
			path: "/data/PGS000001_h38_v1.txt.gz",
			want: FileName{Base: "PGS000001_h38_v1", PgsID: "PGS000001", Build: "GRCh38", Version: "v1"},
		},
		{
			path: "PGS000123_h37_v12.txt",
			want: FileName{Base: "PGS000123_h37_v12", PgsID: "PGS000123", Build: "GRCh37", Version: "v12"},
		},
		{
			path:    "PGS000001_hmPOS_GRCh38.txt.gz",
			want:    FileName{Base: "PGS000001_hmPOS_GRCh38", PgsID: "PGS000001"},
			problem: "Build: hmPOS is not an accepted build value",
		},
		{
			path:    "PGS000001_h38.txt.gz",
			want:    FileName{Base: "PGS000001_h38"},
			problem: "Filename: PGS000001_h38 should follow the pattern",
		},
		{
			path:    "PGS000001_h99_v1.txt",
			want:    FileName{Base: "PGS000001_h99_v1", PgsID: "PGS000001", Build: "GRCh99"},
			problem: "Build: GRCh99 is not an accepted build value",
		},
		{
			path:    "PGS000001_h38_version1.txt",
			want:    FileName{Base: "PGS000001_h38_version1", PgsID: "PGS000001", Build: "GRCh38"},
			problem: "Version: version1 should follow the pattern v<numeric_value>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, problem, ok := ParseFileName(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.problem == "", ok)
			if tt.problem != "" {
				assert.Contains(t, problem, tt.problem)
			}
		})
	}
}

func TestHasValidExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"PGS000001_h38_v1.txt", true},
		{"PGS000001_h38_v1.txt.gz", true},
		{"dir.d/PGS000001_h38_v1.txt.gz", true},
		{"PGS000001_h38_v1.tsv", false},
		{"PGS000001_h38_v1.gz", false},
		{"PGS000001_h38_v1", false},
		{".txt", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasValidExtension(tt.path, schema.ValidExtensions), tt.path)
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "PGS000001_h38_v1", BaseName("/a/b.c/PGS000001_h38_v1.txt.gz"))
	assert.Equal(t, "noext", BaseName("noext"))
}
