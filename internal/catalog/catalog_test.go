package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-match/internal/domain"
)

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	first := c.Profiles()[0]
	assert.Equal(t, "btc_maxi", first.ID)

	p, ok := c.Get("defi_degen")
	require.True(t, ok)
	assert.Equal(t, domain.TokenPreferenceETHEcosystem, p.Traits.TokenPreference)
	assert.NotEmpty(t, p.ComedyLines)
	assert.NotEmpty(t, p.RedFlags)
	assert.NotEmpty(t, p.GreenFlags)

	_, ok = c.Get("unknown")
	assert.False(t, ok)
}

func TestCompatibilityLookupIsSymmetric(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)

	ab, ok := c.Compatibility("btc_maxi", "diamond_hands")
	require.True(t, ok)
	ba, ok := c.Compatibility("diamond_hands", "btc_maxi")
	require.True(t, ok)
	assert.Equal(t, ab, ba)

	_, ok = c.Compatibility("nft_collector", "stablecoin_saver")
	assert.False(t, ok)
}

func TestNewRejectsInvalidCatalogs(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	dup := []domain.PersonalityProfile{{ID: "a"}, {ID: "a"}}
	_, err = New(dup, nil)
	assert.Error(t, err)

	outOfRange := []domain.PersonalityProfile{{ID: "a", Traits: domain.ProfileTraits{RiskTolerance: 140}}}
	_, err = New(outOfRange, nil)
	assert.Error(t, err)

	_, err = New([]domain.PersonalityProfile{{ID: "a"}}, map[string]map[string]int{"a": {"b": 10}})
	assert.Error(t, err)
}

func TestProfilesReturnsCopy(t *testing.T) {
	c, err := New([]domain.PersonalityProfile{{ID: "a", Name: "A"}}, nil)
	require.NoError(t, err)

	profiles := c.Profiles()
	profiles[0].Name = "mutated"

	p, _ := c.Get("a")
	assert.Equal(t, "A", p.Name)
}

func TestTemplates(t *testing.T) {
	tpl, err := LoadDefaultTemplates()
	require.NoError(t, err)

	assert.Equal(t, "🔥 CRYPTO SOULMATES 🔥", tpl.Header(95))
	assert.Equal(t, "🔥 CRYPTO SOULMATES 🔥", tpl.Header(90))
	assert.Equal(t, "💘 Bullish on this couple", tpl.Header(89))
	assert.Equal(t, "💀 Rugged before the first date", tpl.Header(3))

	assert.Equal(t, tpl.MatchComments.High, tpl.MatchCommentPool(80))
	assert.Equal(t, tpl.MatchComments.Medium, tpl.MatchCommentPool(50))
	assert.Equal(t, tpl.MatchComments.Low, tpl.MatchCommentPool(49))

	assert.Equal(t, tpl.DateIdeas[DateIdeaTrading], tpl.DateIdeaPool("does_not_exist"))
	assert.NotEmpty(t, tpl.TraitComments[TraitCommentOppositeRisk])
}
