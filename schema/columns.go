// Package schema declares the column rule catalogs and format specs for
// harmonized scoring files.
//
// Rule tables are plain data built once at package init. A new format is
// added by declaring a catalog and a FormatSpec; the validation engine is
// shared.
package schema

// Column names, following PGS Catalog scoring file conventions.
const (
	ColRsID               = "rsID"
	ColChrName            = "chr_name"
	ColChrPosition        = "chr_position"
	ColEffectAllele       = "effect_allele"
	ColOtherAllele        = "other_allele"
	ColEffectWeight       = "effect_weight"
	ColLocusName          = "locus_name"
	ColIsHaplotype        = "is_haplotype"
	ColVariantID          = "variant_id"
	ColHmSource           = "hm_source"
	ColHmRsID             = "hm_rsID"
	ColHmChr              = "hm_chr"
	ColHmPos              = "hm_pos"
	ColHmInferOtherAllele = "hm_inferOtherAllele"
	ColHmMatchChr         = "hm_match_chr"
	ColHmMatchPos         = "hm_match_pos"
	ColHmCode             = "hm_code"
	ColHmInfo             = "hm_info"
)

// ValueType is the declared primitive type of a column.
type ValueType string

// ValueType constants.
const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
)

// columnTypes declares the primitive type of every known column.
// Columns not listed are strings.
var columnTypes = map[string]ValueType{
	ColChrPosition:  TypeInt,
	ColHmPos:        TypeInt,
	ColHmCode:       TypeInt,
	ColEffectWeight: TypeFloat,
}

// TypeOf returns the declared primitive type of a column.
func TypeOf(column string) ValueType {
	if t, ok := columnTypes[column]; ok {
		return t
	}
	return TypeString
}

// ValidChromosomes is the accepted set of chromosome labels.
var ValidChromosomes = []string{
	"1", "2", "3", "4", "5", "6", "7", "8",
	"9", "10", "11", "12", "13", "14", "15", "16",
	"17", "18", "19", "20", "21", "22",
	"X", "x", "Y", "y", "XY", "xy", "MT", "Mt", "mt",
}

// ValidHmCodes is the accepted set of harmonization codes.
var ValidHmCodes = []string{"5", "4", "3", "1", "0", "-1", "-4", "-5"}

// UnmappedHmCodes are the codes marking a variant that failed harmonization.
var UnmappedHmCodes = []string{"-1", "-5"}

// ValidBuilds is the accepted set of genome builds.
var ValidBuilds = []string{"GRCh37", "GRCh38"}

// ValidExtensions is the accepted set of file extensions.
var ValidExtensions = []string{".txt", ".txt.gz"}

// UnmappedVariantID is the variant_id value of an unmapped variant.
const UnmappedVariantID = "."

// Boolean flag values used by the hm_match_* columns.
const (
	FlagTrue  = "True"
	FlagFalse = "False"
)
