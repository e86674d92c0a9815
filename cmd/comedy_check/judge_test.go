package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-match/internal/domain"
	"crypto-match/internal/llm"
)

func sampleAnalyses() (domain.UserAnalysis, domain.UserAnalysis) {
	user := domain.UserAnalysis{FID: 1, Username: "defi_dan", PersonalityName: "DeFi Degen", PersonalityEmoji: "🦍"}
	match := domain.UserAnalysis{FID: 2, Username: "vitalik_fan", PersonalityName: "ETH Believer", PersonalityEmoji: "♦️"}
	return user, match
}

func sampleContent() domain.MatchContent {
	return domain.MatchContent{
		Header:             "Crypto Soulmates",
		CompatibilityScore: 87,
		MatchComment:       "A DeFi degen and an ETH believer walk into a liquidity pool...",
		DateIdea:           "Yield farming picnic",
		UserRoast:          "roast one",
		MatchRoast:         "roast two",
		ShareText:          "I'm 87% compatible with @vitalik_fan",
	}
}

func TestEvaluateContentParsesAndClamps(t *testing.T) {
	user, match := sampleAnalyses()
	judge := &llm.MockClient{Response: "Here you go:\n```json\n{\"reasoning\": \"ok\", \"humor_score\": 9, \"relevance_score\": 4, \"safety_score\": 0}\n```"}

	jr, err := evaluateContent(context.Background(), judge, user, match, sampleContent())

	require.NoError(t, err)
	assert.Equal(t, 5, jr.HumorScore)
	assert.Equal(t, 4, jr.RelevanceScore)
	assert.Equal(t, 1, jr.SafetyScore)

	prompts := judge.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "DeFi Degen")
	assert.Contains(t, prompts[0], "Compatibility: 87%")
}

func TestEvaluateContentCapsRelevanceForGenericComment(t *testing.T) {
	user, match := sampleAnalyses()
	content := sampleContent()
	content.MatchComment = "You two are so cute."
	judge := &llm.MockClient{Response: `{"reasoning": "", "humor_score": 3, "relevance_score": 5, "safety_score": 5}`}

	jr, err := evaluateContent(context.Background(), judge, user, match, content)

	require.NoError(t, err)
	assert.Equal(t, 3, jr.RelevanceScore)
}

func TestEvaluateContentRejectsNonJSON(t *testing.T) {
	user, match := sampleAnalyses()
	judge := &llm.MockClient{Response: "I refuse to grade jokes"}

	_, err := evaluateContent(context.Background(), judge, user, match, sampleContent())

	assert.Error(t, err)
}

func TestContentIssues(t *testing.T) {
	assert.Empty(t, contentIssues(sampleContent()))

	bad := sampleContent()
	bad.Header = ""
	bad.MatchComment = strings.Repeat("x", 200)
	bad.MatchRoast = ""
	bad.ShareText = "no score here"
	assert.ElementsMatch(t, []string{"empty header", "match comment too long", "missing roast", "share text without score"}, contentIssues(bad))
}
