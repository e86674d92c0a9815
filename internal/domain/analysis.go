package domain

import "time"

// UserAnalysis es el resultado de puntuar y clasificar a un usuario.
type UserAnalysis struct {
	FID              int64         `json:"fid"`
	Username         string        `json:"username"`
	DisplayName      string        `json:"display_name"`
	PfpURL           string        `json:"pfp_url"`
	PersonalityType  string        `json:"personality_type"`
	PersonalityName  string        `json:"personality_name"`
	PersonalityEmoji string        `json:"personality_emoji"`
	Description      string        `json:"description"`
	Scores           TraitScores   `json:"scores"`
	Traits           ProfileTraits `json:"traits"`
	ComedyLines      []string      `json:"comedy_lines"`
	RedFlags         []string      `json:"red_flags"`
	GreenFlags       []string      `json:"green_flags"`
	AnalyzedAt       time.Time     `json:"analyzed_at"`
}

func (a UserAnalysis) PersonalitySummary() PersonalitySummary {
	return PersonalitySummary{
		Name:        a.PersonalityName,
		Emoji:       a.PersonalityEmoji,
		Description: a.Description,
	}
}
