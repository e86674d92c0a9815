package service

import (
	"strings"

	"crypto-match/internal/domain"
)

const maxScoredCasts = 20

type bioRule struct {
	keywords []string
	apply    func(*domain.TraitScores)
}

// Las reglas se aplican en orden; una regla suma una sola vez aunque coincidan varias palabras.
var bioRules = []bioRule{
	{
		keywords: []string{"bitcoin", "btc", "maxi", "sound money"},
		apply: func(s *domain.TraitScores) {
			s.TokenPreferenceBTC += 30
			s.RiskTolerance -= 10
		},
	},
	{
		keywords: []string{"ethereum", "eth", "defi", "smart contract"},
		apply: func(s *domain.TraitScores) {
			s.TokenPreferenceETH += 30
			s.DeFiEngagement += 20
		},
	},
	{
		keywords: []string{"nft", "pfp", "art", "collector", "opensea"},
		apply: func(s *domain.TraitScores) {
			s.NFTInterest += 30
		},
	},
	{
		keywords: []string{"degen", "ape", "moon", "lambo", "meme"},
		apply: func(s *domain.TraitScores) {
			s.MemeCoinTolerance += 30
			s.RiskTolerance += 20
		},
	},
	{
		keywords: []string{"hodl", "long term", "investor", "stable"},
		apply: func(s *domain.TraitScores) {
			s.RiskTolerance -= 15
		},
	},
}

// ScoreTraits convierte las señales crudas de un usuario en rasgos 0-100.
// Es deterministica: el mismo UserData produce siempre los mismos rasgos.
func ScoreTraits(user domain.UserData) domain.TraitScores {
	scores := domain.BaselineTraitScores()

	applyBioSignals(&scores, user.Bio)
	applyCastSignals(&scores, user.RecentCasts)
	applyHoldingSignals(&scores, user.NFTHoldings, user.TokenHoldings)

	return scores.Clamp()
}

func applyBioSignals(scores *domain.TraitScores, bio string) {
	bio = strings.ToLower(bio)
	if strings.TrimSpace(bio) == "" {
		return
	}
	for _, rule := range bioRules {
		if containsAny(bio, rule.keywords) {
			rule.apply(scores)
		}
	}
}

func applyCastSignals(scores *domain.TraitScores, casts []domain.Cast) {
	if len(casts) == 0 {
		return
	}
	if len(casts) > maxScoredCasts {
		casts = casts[:maxScoredCasts]
	}
	texts := make([]string, 0, len(casts))
	for _, c := range casts {
		texts = append(texts, strings.ToLower(c.Text))
	}
	text := strings.Join(texts, " ")

	btcMentions := strings.Count(text, "btc") + strings.Count(text, "bitcoin")
	ethMentions := strings.Count(text, "eth") + strings.Count(text, "ethereum")
	nftMentions := strings.Count(text, "nft")
	defiMentions := strings.Count(text, "defi") + strings.Count(text, "yield")

	if btcMentions > ethMentions*2 {
		scores.TokenPreferenceBTC += 20
	} else if ethMentions > btcMentions*2 {
		scores.TokenPreferenceETH += 20
	}
	if nftMentions > 5 {
		scores.NFTInterest += 20
	}
	if defiMentions > 5 {
		scores.DeFiEngagement += 20
	}
}

func applyHoldingSignals(scores *domain.TraitScores, nfts, tokens []string) {
	switch n := len(nfts); {
	case n > 10:
		scores.NFTInterest = min(95, scores.NFTInterest+30)
	case n > 3:
		scores.NFTInterest = min(90, scores.NFTInterest+20)
	}

	if len(tokens) == 0 {
		return
	}
	if len(tokens) > 10 {
		scores.RiskTolerance = min(95, scores.RiskTolerance+30)
		scores.MemeCoinTolerance = min(90, scores.MemeCoinTolerance+30)
	}
	held := make(map[string]struct{}, len(tokens))
	for _, sym := range tokens {
		held[strings.ToUpper(strings.TrimSpace(sym))] = struct{}{}
	}
	_, btc := held["BTC"]
	_, wbtc := held["WBTC"]
	if btc || wbtc {
		scores.TokenPreferenceBTC += 15
	}
	if _, ok := held["ETH"]; ok {
		scores.TokenPreferenceETH += 15
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
