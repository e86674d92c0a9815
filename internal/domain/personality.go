package domain

// TokenPreference es la categoria de tokens que declara un arquetipo.
type TokenPreference string

const (
	TokenPreferenceBTCOnly      TokenPreference = "btc_only"
	TokenPreferenceETHEcosystem TokenPreference = "eth_ecosystem"
	TokenPreferenceAltcoins     TokenPreference = "altcoins"
	TokenPreferenceMultiChain   TokenPreference = "multi_chain"
	TokenPreferenceStablecoins  TokenPreference = "stablecoins"
)

// ProfileTraits es el vector objetivo de un arquetipo.
type ProfileTraits struct {
	RiskTolerance     int             `json:"risk_tolerance" yaml:"risk_tolerance"`
	NFTInterest       int             `json:"nft_interest" yaml:"nft_interest"`
	DeFiEngagement    int             `json:"defi_engagement" yaml:"defi_engagement"`
	MemeCoinTolerance int             `json:"meme_coin_tolerance" yaml:"meme_coin_tolerance"`
	TokenPreference   TokenPreference `json:"token_preference" yaml:"token_preference"`
}

// PersonalityProfile es una entrada inmutable del catalogo de arquetipos.
type PersonalityProfile struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Emoji       string        `json:"emoji" yaml:"emoji"`
	Description string        `json:"description" yaml:"description"`
	Traits      ProfileTraits `json:"traits" yaml:"traits"`
	ComedyLines []string      `json:"comedy_lines" yaml:"comedy_lines"`
	RedFlags    []string      `json:"red_flags" yaml:"red_flags"`
	GreenFlags  []string      `json:"green_flags" yaml:"green_flags"`
}

// PersonalitySummary es la vista publica de un arquetipo (listados y frames).
type PersonalitySummary struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

func (p PersonalityProfile) Summary() PersonalitySummary {
	return PersonalitySummary{
		ID:          p.ID,
		Name:        p.Name,
		Emoji:       p.Emoji,
		Description: p.Description,
	}
}
