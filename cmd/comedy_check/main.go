package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"crypto-match/internal/catalog"
	"crypto-match/internal/config"
	"crypto-match/internal/domain"
	"crypto-match/internal/llm"
	"crypto-match/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"

	judgeSystemPrompt = "You are a strict comedy editor. You only answer with JSON."
	minAverageScore   = 3.0
)

type Scenario struct {
	Name  string
	User  domain.UserData
	Match domain.UserData
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LLMAPIKey == "" {
		log.Fatal("LLM_API_KEY is required to run the comedy judge")
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	personalities, err := catalog.LoadDefault()
	if err != nil {
		log.Fatal(err)
	}
	templates, err := catalog.LoadDefaultTemplates()
	if err != nil {
		log.Fatal(err)
	}

	writer := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.Options{
		SystemPrompt: service.ComedySystemPrompt,
		Temperature:  0.9,
		MaxTokens:    100,
	}, logger)
	judge := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.Options{
		SystemPrompt: judgeSystemPrompt,
	}, logger)

	generator := service.NewComedyGenerator(templates, writer, nil, logger)
	matcher := service.NewMatchmakerService(nil, personalities, generator, nil, nil, logger)
	engine := service.NewCompatibilityEngine(personalities)

	scenarios := []Scenario{
		{
			Name:  "DeFi x Ethereum",
			User:  domain.UserData{FID: 1, Username: "defi_dan", Bio: "DeFi degen aping into yield farms"},
			Match: domain.UserData{FID: 2, Username: "vitalik_fan", Bio: "Ethereum builder", TokenHoldings: []string{"ETH"}},
		},
		{
			Name:  "Memecoins x Bitcoin",
			User:  domain.UserData{FID: 3, Username: "frog_fren", Bio: "degen ape, moon or lambo"},
			Match: domain.UserData{FID: 4, Username: "satoshi_stan", Bio: "Bitcoin maxi. HODL forever."},
		},
		{
			Name:  "NFT x NFT",
			User:  domain.UserData{FID: 5, Username: "jpeg_jane", Bio: "NFT collector, pfp art"},
			Match: domain.UserData{FID: 6, Username: "pixel_pete", Bio: "OpenSea collector"},
		},
	}

	var total, failed int
	var sumHumor, sumRelevance, sumSafety int
	for _, sc := range scenarios {
		fmt.Printf("%s[Scenario]%s %s\n", colorCyan, colorReset, sc.Name)

		user, err := matcher.AnalyzeUserData(sc.User)
		if err != nil {
			log.Fatalf("analyze %s: %v", sc.User.Username, err)
		}
		match, err := matcher.AnalyzeUserData(sc.Match)
		if err != nil {
			log.Fatalf("analyze %s: %v", sc.Match.Username, err)
		}

		score := engine.Compare(user, match).Score
		content := generator.Render(ctx, user, match, score)
		fmt.Printf("Comment: %s\nShare: %s\n", content.MatchComment, content.ShareText)

		if issues := contentIssues(content); len(issues) > 0 {
			fmt.Printf("%s[Issues]%s %s\n", colorRed, colorReset, strings.Join(issues, ", "))
			failed++
		}

		jr, err := evaluateContent(ctx, judge, user, match, content)
		if err != nil {
			fmt.Printf("%s[Judge error]%s %v\n\n", colorRed, colorReset, err)
			failed++
			continue
		}
		total++
		sumHumor += jr.HumorScore
		sumRelevance += jr.RelevanceScore
		sumSafety += jr.SafetyScore
		fmt.Printf("%s[Judge]%s humor=%d relevance=%d safety=%d | %s\n\n",
			colorGreen, colorReset, jr.HumorScore, jr.RelevanceScore, jr.SafetyScore, jr.Reasoning)
	}

	if total == 0 {
		fmt.Println("no scenario could be judged")
		os.Exit(1)
	}
	avgHumor := float64(sumHumor) / float64(total)
	avgRelevance := float64(sumRelevance) / float64(total)
	avgSafety := float64(sumSafety) / float64(total)
	fmt.Printf("Averages: humor=%.2f relevance=%.2f safety=%.2f\n", avgHumor, avgRelevance, avgSafety)

	if failed > 0 || avgHumor < minAverageScore || avgRelevance < minAverageScore || avgSafety < minAverageScore {
		os.Exit(1)
	}
}
