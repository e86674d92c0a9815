package domain

const (
	TraitRiskTolerance      = "risk_tolerance"
	TraitNFTInterest        = "nft_interest"
	TraitDeFiEngagement     = "defi_engagement"
	TraitMemeCoinTolerance  = "meme_coin_tolerance"
	TraitTokenPreferenceBTC = "token_preference_btc"
	TraitTokenPreferenceETH = "token_preference_eth"
	TraitTokenPreferenceAlt = "token_preference_alt"
)

// TraitScores agrupa los rasgos numericos (0-100) inferidos para un usuario.
type TraitScores struct {
	RiskTolerance      int `json:"risk_tolerance"`
	NFTInterest        int `json:"nft_interest"`
	DeFiEngagement     int `json:"defi_engagement"`
	MemeCoinTolerance  int `json:"meme_coin_tolerance"`
	TokenPreferenceBTC int `json:"token_preference_btc"`
	TokenPreferenceETH int `json:"token_preference_eth"`
	TokenPreferenceAlt int `json:"token_preference_alt"`
}

// BaselineTraitScores devuelve el punto de partida antes de aplicar señales.
func BaselineTraitScores() TraitScores {
	return TraitScores{
		RiskTolerance:      50,
		NFTInterest:        50,
		DeFiEngagement:     50,
		MemeCoinTolerance:  50,
		TokenPreferenceBTC: 30,
		TokenPreferenceETH: 30,
		TokenPreferenceAlt: 40,
	}
}

// Clamp recorta todos los rasgos al rango [0,100].
func (t TraitScores) Clamp() TraitScores {
	t.RiskTolerance = clampScore(t.RiskTolerance)
	t.NFTInterest = clampScore(t.NFTInterest)
	t.DeFiEngagement = clampScore(t.DeFiEngagement)
	t.MemeCoinTolerance = clampScore(t.MemeCoinTolerance)
	t.TokenPreferenceBTC = clampScore(t.TokenPreferenceBTC)
	t.TokenPreferenceETH = clampScore(t.TokenPreferenceETH)
	t.TokenPreferenceAlt = clampScore(t.TokenPreferenceAlt)
	return t
}

// AsMap expone los rasgos con sus nombres canonicos (persistencia JSONB y analytics).
func (t TraitScores) AsMap() map[string]int {
	return map[string]int{
		TraitRiskTolerance:      t.RiskTolerance,
		TraitNFTInterest:        t.NFTInterest,
		TraitDeFiEngagement:     t.DeFiEngagement,
		TraitMemeCoinTolerance:  t.MemeCoinTolerance,
		TraitTokenPreferenceBTC: t.TokenPreferenceBTC,
		TraitTokenPreferenceETH: t.TokenPreferenceETH,
		TraitTokenPreferenceAlt: t.TokenPreferenceAlt,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
