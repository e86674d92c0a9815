package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"crypto-match/internal/domain"
)

func TestScoreTraitsBaseline(t *testing.T) {
	assert.Equal(t, domain.BaselineTraitScores(), ScoreTraits(domain.UserData{FID: 1}))
}

func TestScoreTraitsBitcoinMaxiBio(t *testing.T) {
	got := ScoreTraits(btcUser(1))

	assert.GreaterOrEqual(t, got.TokenPreferenceBTC, 60)
	assert.LessOrEqual(t, got.RiskTolerance, 40)
	assert.Equal(t, domain.TraitScores{
		RiskTolerance:      25,
		NFTInterest:        50,
		DeFiEngagement:     50,
		MemeCoinTolerance:  50,
		TokenPreferenceBTC: 60,
		TokenPreferenceETH: 30,
		TokenPreferenceAlt: 40,
	}, got)
}

func TestScoreTraitsBioRuleFiresOnce(t *testing.T) {
	got := ScoreTraits(domain.UserData{Bio: "NFT nft pfp art collector opensea"})
	assert.Equal(t, 80, got.NFTInterest)
}

func TestScoreTraitsBioIsCaseInsensitive(t *testing.T) {
	lower := ScoreTraits(domain.UserData{Bio: "ethereum and defi"})
	upper := ScoreTraits(domain.UserData{Bio: "ETHEREUM AND DEFI"})
	assert.Equal(t, lower, upper)
	assert.Equal(t, 60, upper.TokenPreferenceETH)
	assert.Equal(t, 70, upper.DeFiEngagement)
}

func TestScoreTraitsCastSignals(t *testing.T) {
	cases := []struct {
		name  string
		casts []domain.Cast
		check func(t *testing.T, s domain.TraitScores)
	}{
		{
			name:  "btc dominates",
			casts: castsOf("stack btc", "bitcoin fixes this", "btc"),
			check: func(t *testing.T, s domain.TraitScores) {
				assert.Equal(t, 50, s.TokenPreferenceBTC)
				assert.Equal(t, 30, s.TokenPreferenceETH)
			},
		},
		{
			name:  "eth dominates",
			casts: castsOf("eth", "ethereum summer"),
			check: func(t *testing.T, s domain.TraitScores) {
				assert.Equal(t, 30, s.TokenPreferenceBTC)
				assert.Equal(t, 50, s.TokenPreferenceETH)
			},
		},
		{
			name:  "balanced mentions add nothing",
			casts: castsOf("btc and eth"),
			check: func(t *testing.T, s domain.TraitScores) {
				assert.Equal(t, 30, s.TokenPreferenceBTC)
				assert.Equal(t, 30, s.TokenPreferenceETH)
			},
		},
		{
			name:  "nft and defi heavy",
			casts: repeatCasts("nft drop and defi yield", 6),
			check: func(t *testing.T, s domain.TraitScores) {
				assert.Equal(t, 70, s.NFTInterest)
				assert.Equal(t, 70, s.DeFiEngagement)
			},
		},
		{
			name:  "only first twenty casts count",
			casts: append(repeatCasts("gm", 20), repeatCasts("nft nft nft nft nft nft", 5)...),
			check: func(t *testing.T, s domain.TraitScores) {
				assert.Equal(t, 50, s.NFTInterest)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, ScoreTraits(domain.UserData{RecentCasts: tc.casts}))
		})
	}
}

func TestScoreTraitsHoldings(t *testing.T) {
	t.Run("many nfts", func(t *testing.T) {
		assert.Equal(t, 80, ScoreTraits(domain.UserData{NFTHoldings: seq("n", 11)}).NFTInterest)
	})
	t.Run("some nfts", func(t *testing.T) {
		assert.Equal(t, 70, ScoreTraits(domain.UserData{NFTHoldings: seq("n", 4)}).NFTInterest)
	})
	t.Run("some nfts capped at 90", func(t *testing.T) {
		got := ScoreTraits(domain.UserData{Bio: "nft collector", NFTHoldings: seq("n", 5)})
		assert.Equal(t, 90, got.NFTInterest)
	})
	t.Run("many tokens", func(t *testing.T) {
		got := ScoreTraits(domain.UserData{TokenHoldings: seq("T", 11)})
		assert.Equal(t, 80, got.RiskTolerance)
		assert.Equal(t, 80, got.MemeCoinTolerance)
	})
	t.Run("many tokens capped", func(t *testing.T) {
		got := ScoreTraits(memeUser(1))
		assert.Equal(t, 95, got.RiskTolerance)
		assert.Equal(t, 90, got.MemeCoinTolerance)
	})
	t.Run("wbtc and eth", func(t *testing.T) {
		got := ScoreTraits(domain.UserData{TokenHoldings: []string{"wbtc", " ETH "}})
		assert.Equal(t, 45, got.TokenPreferenceBTC)
		assert.Equal(t, 45, got.TokenPreferenceETH)
	})
}

func TestScoreTraitsClampsKeywordStuffing(t *testing.T) {
	user := domain.UserData{
		Bio:           strings.Repeat("bitcoin ethereum nft degen hodl sound money lambo ", 50),
		RecentCasts:   repeatCasts("nft defi yield btc bitcoin eth ethereum", 40),
		NFTHoldings:   seq("n", 50),
		TokenHoldings: append([]string{"BTC", "WBTC", "ETH"}, seq("T", 40)...),
	}
	got := ScoreTraits(user)
	for name, v := range got.AsMap() {
		assert.GreaterOrEqual(t, v, 0, name)
		assert.LessOrEqual(t, v, 100, name)
	}
	assert.Equal(t, got, ScoreTraits(user), "scoring is deterministic")
}
