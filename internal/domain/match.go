package domain

// MatchBreakdown detalla los sub-puntajes de compatibilidad.
// TokenPreferenceMatch y RiskToleranceMatch son informativos y no entran en el puntaje final.
type MatchBreakdown struct {
	PersonalityMatch     int `json:"personality_match"`
	TraitMatch           int `json:"trait_match"`
	TokenPreferenceMatch int `json:"token_preference_match"`
	RiskToleranceMatch   int `json:"risk_tolerance_match"`
}

// MatchContent es el texto humoristico generado para un match.
type MatchContent struct {
	Header             string             `json:"header"`
	CompatibilityScore int                `json:"compatibility_score"`
	MatchComment       string             `json:"match_comment"`
	DateIdea           string             `json:"date_idea"`
	TraitComment       string             `json:"trait_comment"`
	UserRoast          string             `json:"user1_roast"`
	MatchRoast         string             `json:"user2_roast"`
	ShareText          string             `json:"share_text"`
	OpeningLine        string             `json:"opening_line"`
	UserPersonality    PersonalitySummary `json:"user1_personality"`
	MatchPersonality   PersonalitySummary `json:"user2_personality"`
}

// MatchResult es un candidato puntuado contra el usuario que pidio matches.
type MatchResult struct {
	UserFID            int64          `json:"user_fid"`
	MatchFID           int64          `json:"match_fid"`
	MatchUsername      string         `json:"match_username"`
	MatchDisplayName   string         `json:"match_display_name"`
	MatchPfpURL        string         `json:"match_pfp_url"`
	CompatibilityScore int            `json:"compatibility_score"`
	Breakdown          MatchBreakdown `json:"breakdown"`
	MatchAnalysis      *UserAnalysis  `json:"match_analysis,omitempty"`
	Content            *MatchContent  `json:"comedy_content,omitempty"`
}

// MatchDetails agrega el analisis del usuario a un match puntual.
type MatchDetails struct {
	MatchResult
	UserAnalysis UserAnalysis `json:"user_analysis"`
}
