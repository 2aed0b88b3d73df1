package schema

// Metadata keys. A key is present when a metadata line starts with it.
const (
	MetaScoringFile     = "###PGS CATALOG SCORING FILE"
	MetaFormatVersion   = "#format_version"
	MetaPolygenicScore  = "##POLYGENIC SCORE"
	MetaPgsID           = "#pgs_id"
	MetaPgsName         = "#pgs_name"
	MetaTraitReported   = "#trait_reported"
	MetaTraitMapped     = "#trait_mapped"
	MetaTraitEFO        = "#trait_efo"
	MetaGenomeBuild     = "#genome_build"
	MetaVariantsNumber  = "#variants_number"
	MetaWeightType      = "#weight_type"
	MetaSourceInfo      = "##SOURCE INFORMATION"
	MetaPgpID           = "#pgp_id"
	MetaCitation        = "#citation"
	MetaHarmonization   = "##HARMONIZATION DETAILS"
	MetaHmPosBuild      = "#HmPOS_build"
	MetaHmPosDate       = "#HmPOS_date"
	MetaHmPosMatchChr   = "#HmPOS_match_chr"
	MetaHmPosMatchPos   = "#HmPOS_match_pos"
	MetaHmFileVersion   = "#Hm_file_version"
	MetaHmGenomeBuild   = "#Hm_genome_build"
	MetaHmReference     = "#Hm_reference_source"
	MetaHmCreationDate  = "#Hm_creation_date"
	MetaHmVariantsMatch = "#Hm_variants_number_matched"
	MetaHmVariantsUnmap = "#Hm_variants_number_unmapped"
)

var genericMetadataKeys = []string{
	MetaScoringFile,
	MetaFormatVersion,
	MetaPolygenicScore,
	MetaPgsID,
	MetaPgsName,
	MetaTraitReported,
	MetaTraitMapped,
	MetaTraitEFO,
	MetaGenomeBuild,
	MetaVariantsNumber,
	MetaWeightType,
	MetaSourceInfo,
	MetaPgpID,
	MetaCitation,
	MetaHarmonization,
}

func metadataKeys(extra ...string) []string {
	keys := make([]string, 0, len(genericMetadataKeys)+len(extra))
	keys = append(keys, genericMetadataKeys...)
	return append(keys, extra...)
}

var (
	positionalMetadataKeys = metadataKeys(
		MetaHmPosBuild,
		MetaHmPosDate,
		MetaHmPosMatchChr,
		MetaHmPosMatchPos,
	)
	finalMetadataKeys = metadataKeys(
		MetaHmFileVersion,
		MetaHmGenomeBuild,
		MetaHmReference,
		MetaHmCreationDate,
		MetaHmVariantsMatch,
		MetaHmVariantsUnmap,
	)
)
