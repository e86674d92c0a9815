package service

import (
	"math"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
)

const (
	tokenPreferenceBonus     = 10.0
	tokenPreferenceThreshold = 70
)

// PersonalityClassifier asigna el arquetipo mas cercano del catalogo.
type PersonalityClassifier struct {
	catalog *catalog.Catalog
}

func NewPersonalityClassifier(c *catalog.Catalog) *PersonalityClassifier {
	return &PersonalityClassifier{catalog: c}
}

// Classify devuelve el id del arquetipo con mayor puntaje ponderado.
// Ante empate gana el primero en orden de catalogo.
func (c *PersonalityClassifier) Classify(scores domain.TraitScores) (string, error) {
	if c.catalog == nil || c.catalog.Len() == 0 {
		return "", catalog.ErrEmptyCatalog
	}

	bestID := ""
	bestScore := math.Inf(-1)
	for _, p := range c.catalog.Profiles() {
		score := profileMatchScore(p.Traits, scores)
		if score > bestScore {
			bestScore = score
			bestID = p.ID
		}
	}
	return bestID, nil
}

func profileMatchScore(target domain.ProfileTraits, scores domain.TraitScores) float64 {
	score := float64(similarity(target.RiskTolerance, scores.RiskTolerance))*0.25 +
		float64(similarity(target.NFTInterest, scores.NFTInterest))*0.20 +
		float64(similarity(target.DeFiEngagement, scores.DeFiEngagement))*0.25 +
		float64(similarity(target.MemeCoinTolerance, scores.MemeCoinTolerance))*0.20

	if pref, value := dominantTokenPreference(scores); value > tokenPreferenceThreshold && pref == target.TokenPreference {
		score += tokenPreferenceBonus
	}
	return score
}

// dominantTokenPreference devuelve la categoria con mayor preferencia (empates: btc, eth, alt).
func dominantTokenPreference(scores domain.TraitScores) (domain.TokenPreference, int) {
	pref, value := domain.TokenPreferenceBTCOnly, scores.TokenPreferenceBTC
	if scores.TokenPreferenceETH > value {
		pref, value = domain.TokenPreferenceETHEcosystem, scores.TokenPreferenceETH
	}
	if scores.TokenPreferenceAlt > value {
		pref, value = domain.TokenPreferenceAltcoins, scores.TokenPreferenceAlt
	}
	return pref, value
}

func similarity(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return 100 - d
}
