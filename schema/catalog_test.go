package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/hmvalidate/types"
)

func TestCatalogs_Overrides(t *testing.T) {
	generic, ok := GenericCatalog().Lookup(ColEffectAllele)
	require.True(t, ok)
	assert.False(t, generic.AllowEmpty)

	final, ok := FinalCatalog().Lookup(ColEffectAllele)
	require.True(t, ok)
	assert.True(t, final.AllowEmpty, "final effect_allele is enforced by the row check")

	other, _ := FinalCatalog().Lookup(ColOtherAllele)
	assert.Empty(t, other.Validate("."), "final other_allele accepts '.'")
	genericOther, _ := GenericCatalog().Lookup(ColOtherAllele)
	assert.NotEmpty(t, genericOther.Validate("."))
}

func TestCatalogs_Columns(t *testing.T) {
	pos := PositionalCatalog().Columns()
	assert.Contains(t, pos, ColHmSource)
	assert.Contains(t, pos, ColIsHaplotype)
	assert.NotContains(t, pos, ColHmCode)

	final := FinalCatalog().Columns()
	assert.Contains(t, final, ColHmCode)
	assert.Contains(t, final, ColVariantID)
	assert.NotContains(t, final, ColIsHaplotype)
	for _, name := range []string{ColHmSource, ColHmRsID, ColHmChr, ColHmPos, ColHmInferOtherAllele, ColHmMatchChr, ColHmMatchPos} {
		_, ok := FinalCatalog().Lookup(name)
		assert.False(t, ok, "final has no rule for %s", name)
	}

	_, ok := FinalCatalog().Lookup("beta_se")
	assert.False(t, ok, "unknown columns have no rule")
}

func TestCatalogs_TypesDeclared(t *testing.T) {
	for _, name := range []string{ColChrPosition, ColHmCode} {
		r, _ := FinalCatalog().Lookup(name)
		assert.Equal(t, TypeInt, r.Type, name)
	}
	hmPos, _ := PositionalCatalog().Lookup(ColHmPos)
	assert.Equal(t, TypeInt, hmPos.Type)
	w, _ := FinalCatalog().Lookup(ColEffectWeight)
	assert.Equal(t, TypeFloat, w.Type)
	assert.Equal(t, TypeString, TypeOf(ColHmSource))
}

func TestCatalogs_IsHaplotype(t *testing.T) {
	r, ok := PositionalCatalog().Lookup(ColIsHaplotype)
	require.True(t, ok)
	assert.Empty(t, r.Validate(""))
	assert.Empty(t, r.Validate("hap_1"))
	assert.Equal(t, []string{NullReason}, r.Validate("  "))
}

func TestForFormat(t *testing.T) {
	pos, err := ForFormat(types.FormatPositional)
	require.NoError(t, err)
	assert.Equal(t, MetaHmPosBuild, pos.BuildKey)
	assert.Contains(t, pos.MetadataKeys, MetaHmPosMatchChr)

	final, err := ForFormat(types.FormatFinal)
	require.NoError(t, err)
	assert.Equal(t, MetaHmGenomeBuild, final.BuildKey)
	assert.Equal(t, []string{ColVariantID}, final.IdentityGroups[0])
	assert.Len(t, final.MetadataKeys, len(genericMetadataKeys)+6)

	_, err = ForFormat("hm_vcf")
	assert.Error(t, err)
}
