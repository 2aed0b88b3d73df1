package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pithecene-io/hmvalidate/types"
)

// Row is one data line keyed by column name.
type Row map[string]string

// NewRow pairs header names with cell values. Extra cells on either side
// are dropped; callers check the width first.
func NewRow(header, values []string) Row {
	n := min(len(header), len(values))
	row := make(Row, n)
	for i := range n {
		row[header[i]] = values[i]
	}
	return row
}

// RowProblem is one failure reported by a format's row check.
type RowProblem struct {
	Column  string
	Message string
}

// RowCheck applies format-specific semantic checks to one row after the
// column rules have run.
type RowCheck func(row Row) []RowProblem

// FormatSpec describes everything that differs between formats.
// Values are built once and must not be mutated.
type FormatSpec struct {
	Format types.Format
	// MetadataKeys is the required-key checklist, in report order.
	MetadataKeys []string
	// Columns is the column rule table.
	Columns Catalog
	// RequiredColumns must all appear in the header.
	RequiredColumns []string
	// IdentityGroups are alternative column sets, primary first; at least
	// one group must be fully present.
	IdentityGroups [][]string
	// Extensions are the accepted file extensions.
	Extensions []string
	// BuildKey is the metadata key compared to the filename build.
	BuildKey string
	// DateKey is the metadata key holding the harmonization date.
	DateKey string
	// CheckRow is the semantic row check.
	CheckRow RowCheck
}

var (
	positionalSpec = FormatSpec{
		Format:          types.FormatPositional,
		MetadataKeys:    positionalMetadataKeys,
		Columns:         positionalCatalog,
		RequiredColumns: []string{ColHmSource, ColHmChr, ColHmPos},
		IdentityGroups: [][]string{
			{ColRsID, ColHmRsID},
			{ColChrName},
		},
		Extensions: ValidExtensions,
		BuildKey:   MetaHmPosBuild,
		DateKey:    MetaHmPosDate,
		CheckRow:   checkPositionalRow,
	}

	finalSpec = FormatSpec{
		Format:          types.FormatFinal,
		MetadataKeys:    finalMetadataKeys,
		Columns:         finalCatalog,
		RequiredColumns: []string{ColEffectAllele, ColEffectWeight, ColHmCode, ColHmInfo},
		IdentityGroups: [][]string{
			{ColVariantID},
			{ColChrName, ColHmChr},
		},
		Extensions: ValidExtensions,
		BuildKey:   MetaHmGenomeBuild,
		DateKey:    MetaHmCreationDate,
		CheckRow:   checkFinalRow,
	}
)

// Positional returns the positional format spec.
func Positional() FormatSpec { return positionalSpec }

// Final returns the final format spec.
func Final() FormatSpec { return finalSpec }

// ForFormat returns the FormatSpec for f.
func ForFormat(f types.Format) (FormatSpec, error) {
	switch f {
	case types.FormatPositional:
		return positionalSpec, nil
	case types.FormatFinal:
		return finalSpec, nil
	default:
		return FormatSpec{}, fmt.Errorf("no format spec for %q", f)
	}
}

// harmonizationFailure prefixes final-format row check messages.
const harmonizationFailure = "The variant is failing the harmonization: "

// checkFinalRow enforces the hm_code sentinel rules. Unmapped rows (hm_code
// -1 or -5) must have empty chr_name and chr_position and a "." variant_id;
// all other rows must carry an effect_allele. Columns missing from the
// header are not checked.
func checkFinalRow(row Row) []RowProblem {
	var problems []RowProblem

	if isUnmapped(row[ColHmCode]) {
		var nonEmpty []string
		for _, col := range []string{ColChrName, ColChrPosition} {
			if v, ok := row[col]; ok && v != "" {
				nonEmpty = append(nonEmpty, col)
			}
		}
		if v, ok := row[ColVariantID]; ok && v != UnmappedVariantID {
			problems = append(problems, RowProblem{
				Column:  ColVariantID,
				Message: harmonizationFailure + "the column variant_id should have the value '.'",
			})
		}
		if len(nonEmpty) > 0 {
			problems = append(problems, RowProblem{
				Column:  strings.Join(nonEmpty, ","),
				Message: harmonizationFailure + "the column(s) " + strings.Join(nonEmpty, ", ") + " should be empty.",
			})
		}
		return problems
	}

	if row[ColEffectAllele] == "" {
		problems = append(problems, RowProblem{
			Column:  ColEffectAllele,
			Message: harmonizationFailure + "the column effect_allele should not be empty",
		})
	}
	return problems
}

func isUnmapped(code string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	return slices.Contains(UnmappedHmCodes, strconv.Itoa(n))
}

// positionalMismatch prefixes positional row check messages.
const positionalMismatch = "The variant is failing the positional match: "

// checkPositionalRow enforces the hm_match_* flags. A True flag requires
// the harmonized value to be present and equal to the author-reported one
// (chromosomes compare case-insensitively).
func checkPositionalRow(row Row) []RowProblem {
	var problems []RowProblem

	if row[ColHmMatchChr] == FlagTrue {
		if p, ok := checkMatch(row, ColHmMatchChr, ColChrName, ColHmChr, strings.EqualFold); !ok {
			problems = append(problems, p)
		}
	}
	if row[ColHmMatchPos] == FlagTrue {
		if p, ok := checkMatch(row, ColHmMatchPos, ColChrPosition, ColHmPos, samePosition); !ok {
			problems = append(problems, p)
		}
	}
	return problems
}

func checkMatch(row Row, flag, reported, harmonized string, equal func(a, b string) bool) (RowProblem, bool) {
	hmValue := row[harmonized]
	if hmValue == "" {
		return RowProblem{
			Column:  harmonized,
			Message: fmt.Sprintf("%sthe column %s is True but %s is empty", positionalMismatch, flag, harmonized),
		}, false
	}
	value, present := row[reported]
	if !present {
		return RowProblem{}, true
	}
	if value == "" {
		return RowProblem{
			Column:  reported,
			Message: fmt.Sprintf("%sthe column %s is True but %s is empty", positionalMismatch, flag, reported),
		}, false
	}
	if !equal(value, hmValue) {
		return RowProblem{
			Column: harmonized,
			Message: fmt.Sprintf("%sthe column %s is True but %s (%s) and %s (%s) differ",
				positionalMismatch, flag, reported, value, harmonized, hmValue),
		}, false
	}
	return RowProblem{}, true
}

func samePosition(a, b string) bool {
	x, errA := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	y, errB := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	if errA != nil || errB != nil {
		return a == b
	}
	return x == y
}
