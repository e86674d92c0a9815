package service

import (
	"math"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
)

const (
	personalityWeight = 0.7
	traitWeight       = 0.3
)

// CompatibilityEngine combina la matriz de arquetipos con la similitud de rasgos.
type CompatibilityEngine struct {
	catalog *catalog.Catalog
}

func NewCompatibilityEngine(c *catalog.Catalog) *CompatibilityEngine {
	return &CompatibilityEngine{catalog: c}
}

// CompatibilityResult es el puntaje final mas sus sub-puntajes.
type CompatibilityResult struct {
	Score     int
	Breakdown domain.MatchBreakdown
}

// Compare calcula la compatibilidad entre dos analisis. Es simetrica.
func (e *CompatibilityEngine) Compare(a, b domain.UserAnalysis) CompatibilityResult {
	base := e.PersonalityCompatibility(a.PersonalityType, b.PersonalityType)
	trait := TraitCompatibility(a.Scores, b.Scores)

	return CompatibilityResult{
		Score: int(math.Round(float64(base)*personalityWeight + float64(trait)*traitWeight)),
		Breakdown: domain.MatchBreakdown{
			PersonalityMatch:     base,
			TraitMatch:           trait,
			TokenPreferenceMatch: TokenPreferenceSimilarity(a.Scores, b.Scores),
			RiskToleranceMatch:   similarity(a.Scores.RiskTolerance, b.Scores.RiskTolerance),
		},
	}
}

// PersonalityCompatibility consulta la matriz; sin entrada usa la similitud de los vectores objetivo.
func (e *CompatibilityEngine) PersonalityCompatibility(a, b string) int {
	if score, ok := e.catalog.Compatibility(a, b); ok {
		return score
	}

	pa, okA := e.catalog.Get(a)
	pb, okB := e.catalog.Get(b)
	if !okA || !okB {
		return 50
	}
	t1, t2 := pa.Traits, pb.Traits
	score := float64(similarity(t1.RiskTolerance, t2.RiskTolerance))*0.3 +
		float64(similarity(t1.NFTInterest, t2.NFTInterest))*0.25 +
		float64(similarity(t1.DeFiEngagement, t2.DeFiEngagement))*0.25 +
		float64(similarity(t1.MemeCoinTolerance, t2.MemeCoinTolerance))*0.2
	return int(score)
}

// TraitCompatibility compara los rasgos vivos de dos usuarios.
func TraitCompatibility(a, b domain.TraitScores) int {
	score := float64(similarity(a.RiskTolerance, b.RiskTolerance))*0.25 +
		float64(similarity(a.NFTInterest, b.NFTInterest))*0.20 +
		float64(similarity(a.DeFiEngagement, b.DeFiEngagement))*0.25 +
		float64(similarity(a.MemeCoinTolerance, b.MemeCoinTolerance))*0.20 +
		float64(complementaryBonus(a, b))*0.10
	return int(score)
}

func complementaryBonus(a, b domain.TraitScores) int {
	bonus := 50

	riskDiff := 100 - similarity(a.RiskTolerance, b.RiskTolerance)
	if riskDiff >= 20 && riskDiff <= 40 {
		bonus += 20
	}
	if a.DeFiEngagement > 70 && b.DeFiEngagement > 70 {
		bonus += 15
	}
	if a.NFTInterest > 70 && b.NFTInterest > 70 {
		bonus += 15
	}
	return min(bonus, 100)
}

// TokenPreferenceSimilarity es informativa: no entra en el puntaje final.
func TokenPreferenceSimilarity(a, b domain.TraitScores) int {
	btcDiff := 100 - similarity(a.TokenPreferenceBTC, b.TokenPreferenceBTC)
	ethDiff := 100 - similarity(a.TokenPreferenceETH, b.TokenPreferenceETH)
	return clampPercent(100 - float64(btcDiff+ethDiff)/2)
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
