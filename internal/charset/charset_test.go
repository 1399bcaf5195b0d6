package charset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSetsAreValid(t *testing.T) {
	table := Builtin()
	require.Equal(t, []string{"de", "en", "es", "fr"}, table.Langs())
	for lang, cs := range table {
		assert.NoError(t, cs.Validate(), "lang %s", lang)
	}
}

func TestBuiltinSpecialCoupling(t *testing.T) {
	table := Builtin()
	assert.False(t, table["en"].HasSpecial())
	assert.Empty(t, table["en"].SmallSpecial)
	assert.True(t, table["de"].HasSpecial())
	assert.Equal(t, 0.05, table["de"].SpecialRatio)
}

func TestBuiltinReturnsCopy(t *testing.T) {
	a := Builtin()
	a["en"] = CharacterSet{}
	assert.NotEmpty(t, Builtin()["en"].SmallVowels)
}

func TestLookupUnknownLang(t *testing.T) {
	_, err := Builtin().Lookup("xx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLang))
	assert.Contains(t, err.Error(), "de, en, es, fr")

	cs, err := Builtin().Lookup(" DE ")
	require.NoError(t, err)
	assert.Equal(t, "äöüß", cs.SmallSpecial)
}

func TestWithoutSpecial(t *testing.T) {
	de := Builtin()["de"]
	plain := de.WithoutSpecial()
	assert.False(t, plain.HasSpecial())
	assert.True(t, de.HasSpecial())
	assert.Equal(t, de.SmallSpecial, plain.SmallSpecial)
}

func TestMergeOverridesAndAdds(t *testing.T) {
	custom := Builtin()["en"]
	custom.VowelRatio = 0.5
	merged := Merge(Builtin(), Table{"EN": custom, "it": custom})
	assert.Equal(t, 0.5, merged["en"].VowelRatio)
	assert.Contains(t, merged.Langs(), "it")
	assert.Equal(t, 0.3, Builtin()["en"].VowelRatio)
}

func TestValidateRejectsBrokenSets(t *testing.T) {
	base := Builtin()["de"]

	noSpecial := base
	noSpecial.CapitalSpecial = ""
	assert.Error(t, noSpecial.Validate())
	assert.NoError(t, noSpecial.WithoutSpecial().Validate())

	badRatio := base
	badRatio.VowelRatio = 1.5
	assert.Error(t, badRatio.Validate())

	badRun := base
	badRun.MaxVowelsInRow = 0
	assert.Error(t, badRun.Validate())

	noVowels := base
	noVowels.SmallVowels = ""
	assert.Error(t, noVowels.Validate())
}
