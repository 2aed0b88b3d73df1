package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

func TestMetadataExtractor_Positional(t *testing.T) {
	f := newPositionalFile("PGS000010", 4)
	e := newMetadataExtractor(schema.Positional())
	for _, line := range f.metadata() {
		e.consume(line)
	}

	assert.Empty(t, e.problems())
	assert.Equal(t, "PGS000010", e.md.PgsID)
	assert.Equal(t, "GRCh37", e.md.GenomeBuild)
	assert.Equal(t, "GRCh38", e.md.HmBuild)
	assert.Equal(t, "2022-07-29", e.md.HmDate)
	assert.Equal(t, "2.0", e.md.FormatVersion)
	require.NotNil(t, e.md.VariantsNumber)
	assert.EqualValues(t, 4, *e.md.VariantsNumber)
	assert.True(t, e.md.Has(schema.MetaHmPosMatchChr))
}

func TestMetadataExtractor_Final(t *testing.T) {
	e := newMetadataExtractor(schema.Final())
	for _, line := range newFinalFile("PGS000011", 6).metadata() {
		e.consume(line)
	}
	assert.Empty(t, e.problems())
	assert.Equal(t, "1", e.md.HmFileVersion)
	require.NotNil(t, e.md.HmMatched)
	assert.EqualValues(t, 6, *e.md.HmMatched)
	require.NotNil(t, e.md.HmUnmapped)
	assert.EqualValues(t, 0, *e.md.HmUnmapped)
}

func TestMetadataExtractor_IgnoresUnknownAndBadCounts(t *testing.T) {
	e := newMetadataExtractor(schema.Final())
	e.consume("#license=CC-BY")
	e.consume("#variants_number=many")
	e.consume("#pgs_id=")

	assert.Nil(t, e.md.VariantsNumber)
	assert.Empty(t, e.md.PgsID)
	assert.True(t, e.md.Has(schema.MetaVariantsNumber), "a key is present even when its value does not parse")
	assert.Len(t, e.problems(), len(schema.Final().MetadataKeys)-2)
}

func TestIsMetadataDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2022-07-29", true},
		{"2022-07-29 10:00:00", true},
		{"2022-07-29T10:00:00Z", true},
		{"2022-13-01", false},
		{"29/07/2022", false},
		{"2022-07-29x", false},
		{"2022", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isMetadataDate(tt.in), tt.in)
	}
}

func TestCompareWithFilename(t *testing.T) {
	spec := schema.Final()
	fn := FileName{PgsID: "PGS000001", Build: "GRCh38"}

	md := types.NewFileMetadata()
	assert.Empty(t, compareWithFilename(spec, md, fn), "absent keys are not compared")

	md.PgsID, md.HmBuild = "PGS000001", "GRCh38"
	assert.Empty(t, compareWithFilename(spec, md, fn))

	md.PgsID, md.HmBuild = "PGS000002", "GRCh37"
	assert.Len(t, compareWithFilename(spec, md, fn), 2)
}
