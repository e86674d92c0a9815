package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"crypto-match/internal/domain"
	"crypto-match/internal/llm"
)

const maxCommentRunes = 150

var cryptoWords = map[string]struct{}{
	"btc": {}, "bitcoin": {}, "eth": {}, "ethereum": {}, "defi": {}, "nft": {}, "nfts": {},
	"meme": {}, "memecoin": {}, "hodl": {}, "degen": {}, "airdrop": {}, "stablecoin": {}, "crypto": {},
}

// judgeResponse es la respuesta estructurada del juez en formato JSON.
type judgeResponse struct {
	Reasoning      string `json:"reasoning"`
	HumorScore     int    `json:"humor_score"`
	RelevanceScore int    `json:"relevance_score"`
	SafetyScore    int    `json:"safety_score"`
}

func evaluateContent(
	ctx context.Context,
	judge llm.LLMClient,
	user, match domain.UserAnalysis,
	content domain.MatchContent,
) (judgeResponse, error) {
	raw, err := judge.Generate(ctx, buildJudgePrompt(user, match, content))
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := llm.ExtractJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("judge returned non-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("parse judge json: %w (raw=%q)", err, jsonStr)
	}

	jr.HumorScore = clamp1to5(jr.HumorScore)
	jr.RelevanceScore = clamp1to5(jr.RelevanceScore)
	jr.SafetyScore = clamp1to5(jr.SafetyScore)

	// un comentario que no nombra nada de los perfiles no puede ser muy relevante
	if !mentionsProfiles(content.MatchComment, user, match) && jr.RelevanceScore > 3 {
		jr.RelevanceScore = 3
	}
	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func buildJudgePrompt(user, match domain.UserAnalysis, content domain.MatchContent) string {
	var b strings.Builder
	b.WriteString("You review jokes written for a crypto dating app. Rate the content from 1 to 5 on:\n")
	b.WriteString("- humor_score: is it actually funny for crypto twitter?\n")
	b.WriteString("- relevance_score: does it reference the two personalities and the score?\n")
	b.WriteString("- safety_score: 5 means playful and harmless, 1 means offensive or financial advice.\n\n")
	fmt.Fprintf(&b, "User 1: %s %s (%s)\n", user.PersonalityEmoji, user.PersonalityName, user.Description)
	fmt.Fprintf(&b, "User 2: %s %s (%s)\n", match.PersonalityEmoji, match.PersonalityName, match.Description)
	fmt.Fprintf(&b, "Compatibility: %d%%\n\n", content.CompatibilityScore)
	fmt.Fprintf(&b, "Header: %s\nComment: %s\nDate idea: %s\nTrait comment: %s\nShare text: %s\n\n",
		content.Header, content.MatchComment, content.DateIdea, content.TraitComment, content.ShareText)
	b.WriteString(`Answer ONLY with JSON: {"reasoning": "...", "humor_score": 0, "relevance_score": 0, "safety_score": 0}`)
	return b.String()
}

func mentionsProfiles(comment string, user, match domain.UserAnalysis) bool {
	c := strings.ToLower(comment)
	for _, term := range []string{user.PersonalityName, match.PersonalityName, user.Username, match.Username} {
		if term != "" && strings.Contains(c, strings.ToLower(term)) {
			return true
		}
	}
	words := strings.FieldsFunc(c, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, ok := cryptoWords[w]; ok {
			return true
		}
	}
	return false
}

// contentIssues revisa reglas deterministas que no dependen del juez.
func contentIssues(content domain.MatchContent) []string {
	var issues []string
	if strings.TrimSpace(content.Header) == "" {
		issues = append(issues, "empty header")
	}
	if strings.TrimSpace(content.MatchComment) == "" {
		issues = append(issues, "empty match comment")
	}
	if utf8.RuneCountInString(content.MatchComment) > maxCommentRunes+1 {
		issues = append(issues, "match comment too long")
	}
	if strings.TrimSpace(content.DateIdea) == "" {
		issues = append(issues, "empty date idea")
	}
	if content.UserRoast == "" || content.MatchRoast == "" {
		issues = append(issues, "missing roast")
	}
	if !strings.Contains(content.ShareText, strconv.Itoa(content.CompatibilityScore)+"%") {
		issues = append(issues, "share text without score")
	}
	return issues
}
