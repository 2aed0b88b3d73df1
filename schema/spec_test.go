package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	row := NewRow([]string{"a", "b", "c"}, []string{"1", "2"})
	assert.Equal(t, Row{"a": "1", "b": "2"}, row)
}

func TestCheckFinalRow(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		columns []string
	}{
		{
			name: "mapped with allele",
			row:  Row{ColHmCode: "5", ColEffectAllele: "A", ColVariantID: "rs1", ColChrName: "1", ColChrPosition: "10"},
		},
		{
			name:    "mapped without allele",
			row:     Row{ColHmCode: "4", ColEffectAllele: ""},
			columns: []string{ColEffectAllele},
		},
		{
			name: "unmapped clean",
			row:  Row{ColHmCode: "-1", ColVariantID: ".", ColChrName: "", ColChrPosition: ""},
		},
		{
			name:    "unmapped with variant id",
			row:     Row{ColHmCode: "-5", ColVariantID: "rs1", ColChrName: "", ColChrPosition: ""},
			columns: []string{ColVariantID},
		},
		{
			name:    "unmapped with coordinates",
			row:     Row{ColHmCode: "-1", ColVariantID: ".", ColChrName: "1", ColChrPosition: "100"},
			columns: []string{"chr_name,chr_position"},
		},
		{
			name:    "unmapped with both",
			row:     Row{ColHmCode: "-1", ColVariantID: "rs9", ColChrName: "", ColChrPosition: "100"},
			columns: []string{ColVariantID, ColChrPosition},
		},
		{
			name: "unmapped without variant_id column",
			row:  Row{ColHmCode: "-5", ColChrName: "", ColHmChr: ""},
		},
		{
			name: "unmapped allows empty effect allele",
			row:  Row{ColHmCode: "-1", ColVariantID: ".", ColEffectAllele: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := checkFinalRow(tt.row)
			var cols []string
			for _, p := range problems {
				cols = append(cols, p.Column)
				assert.Contains(t, p.Message, "The variant is failing the harmonization")
			}
			assert.Equal(t, tt.columns, cols)
		})
	}
}

func TestCheckFinalRow_Messages(t *testing.T) {
	problems := checkFinalRow(Row{ColHmCode: "-1", ColVariantID: "rs9", ColChrName: "2", ColChrPosition: "100"})
	require.Len(t, problems, 2)
	assert.Equal(t, "The variant is failing the harmonization: the column variant_id should have the value '.'", problems[0].Message)
	assert.Equal(t, "The variant is failing the harmonization: the column(s) chr_name, chr_position should be empty.", problems[1].Message)
}

func TestCheckPositionalRow(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		columns []string
	}{
		{
			name: "flags false",
			row:  Row{ColHmMatchChr: FlagFalse, ColChrName: "1", ColHmChr: "2"},
		},
		{
			name: "chr match case-insensitive",
			row:  Row{ColHmMatchChr: FlagTrue, ColChrName: "x", ColHmChr: "X"},
		},
		{
			name:    "chr mismatch",
			row:     Row{ColHmMatchChr: FlagTrue, ColChrName: "1", ColHmChr: "2"},
			columns: []string{ColHmChr},
		},
		{
			name:    "chr flag without hm_chr",
			row:     Row{ColHmMatchChr: FlagTrue, ColChrName: "1", ColHmChr: ""},
			columns: []string{ColHmChr},
		},
		{
			name:    "chr flag without chr_name",
			row:     Row{ColHmMatchChr: FlagTrue, ColChrName: "", ColHmChr: "1"},
			columns: []string{ColChrName},
		},
		{
			name: "chr_name column absent",
			row:  Row{ColHmMatchChr: FlagTrue, ColHmChr: "1"},
		},
		{
			name: "pos match",
			row:  Row{ColHmMatchPos: FlagTrue, ColChrPosition: "100", ColHmPos: "100"},
		},
		{
			name:    "pos mismatch",
			row:     Row{ColHmMatchPos: FlagTrue, ColChrPosition: "100", ColHmPos: "101"},
			columns: []string{ColHmPos},
		},
		{
			name:    "both mismatch",
			row:     Row{ColHmMatchChr: FlagTrue, ColChrName: "1", ColHmChr: "2", ColHmMatchPos: FlagTrue, ColChrPosition: "5", ColHmPos: ""},
			columns: []string{ColHmChr, ColHmPos},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cols []string
			for _, p := range checkPositionalRow(tt.row) {
				cols = append(cols, p.Column)
			}
			assert.Equal(t, tt.columns, cols)
		})
	}
}
