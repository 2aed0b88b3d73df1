package schema

// Allele and identifier patterns.
const (
	patternAllele         = `^[ACTGN\-]+$`
	patternAlleleOrDot    = `^[ACTGN\-\.]+$`
	patternInferredAllele = `^[ACTGN\-\/]+$`
	patternRsID           = `^(rs|HLA\-\w+\*)[0-9]+$`
	patternVariantID      = `^((rs|HLA\-\w+\*)[0-9]+|\.)$`
)

// Position bounds, inclusive.
const (
	MinPosition = 1
	MaxPosition = 999999999
)

var (
	genericCatalog    = buildGenericCatalog()
	positionalCatalog = buildPositionalCatalog()
	finalCatalog      = buildFinalCatalog()
)

func buildGenericCatalog() Catalog {
	return Catalog{}.with(
		rule(ColChrName, true, InList(ValidChromosomes...)),
		rule(ColChrPosition, true, CanConvert(TypeInt), InInclusiveRange(MinPosition, MaxPosition)),
		rule(ColEffectWeight, false, CanConvert(TypeFloat), NotBlank()),
		rule(ColEffectAllele, false, MatchesPattern(patternAllele)),
		rule(ColOtherAllele, true, MatchesPattern(patternAllele)),
		rule(ColLocusName, true, NoLeadingWhitespace(), NoTrailingWhitespace(), NotBlank()),
	)
}

func buildPositionalCatalog() Catalog {
	return buildGenericCatalog().with(
		rule(ColIsHaplotype, true, NotBlank()),
		rule(ColHmSource, false, NoLeadingWhitespace(), NoTrailingWhitespace(), NotBlank()),
		rule(ColHmRsID, true, MatchesPattern(patternRsID)),
		rule(ColHmChr, true, InList(ValidChromosomes...)),
		rule(ColHmPos, true, CanConvert(TypeInt), InInclusiveRange(MinPosition, MaxPosition)),
		rule(ColHmInferOtherAllele, true, MatchesPattern(patternInferredAllele)),
		rule(ColHmMatchChr, true, InList(FlagTrue, FlagFalse)),
		rule(ColHmMatchPos, true, InList(FlagTrue, FlagFalse)),
	)
}

// buildFinalCatalog overrides the allele, variant and code columns only.
// The hm_* position columns are checked by the Positional format alone.
func buildFinalCatalog() Catalog {
	return buildGenericCatalog().with(
		// effect_allele may be empty on unmapped rows; the row check
		// enforces it on mapped rows.
		rule(ColEffectAllele, true, MatchesPattern(patternAllele)),
		rule(ColOtherAllele, true, MatchesPattern(patternAlleleOrDot)),
		rule(ColVariantID, true, MatchesPattern(patternVariantID)),
		rule(ColHmCode, true, InList(ValidHmCodes...)),
		rule(ColHmInfo, true, NotBlank()),
	)
}

// GenericCatalog returns the rules shared by every format.
func GenericCatalog() Catalog { return genericCatalog }

// PositionalCatalog returns the rules for the positional format.
func PositionalCatalog() Catalog { return positionalCatalog }

// FinalCatalog returns the rules for the final format.
func FinalCatalog() Catalog { return finalCatalog }
