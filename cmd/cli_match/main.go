package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"crypto-match/internal/catalog"
	"crypto-match/internal/config"
	"crypto-match/internal/db"
	"crypto-match/internal/domain"
	"crypto-match/internal/farcaster"
	"crypto-match/internal/repository"
	"crypto-match/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	personalities, err := catalog.LoadDefault()
	if err != nil {
		log.Fatal(err)
	}
	templates, err := catalog.LoadDefaultTemplates()
	if err != nil {
		log.Fatal(err)
	}

	var client farcaster.Client = farcaster.NewMockClient()
	if !cfg.MockMode() {
		client = farcaster.NewNeynarClient(cfg.FarcasterBaseURL, cfg.FarcasterAPIKey, cfg.FarcasterRPS, logger)
	}

	var (
		userRepo  repository.UserRepository
		matchRepo repository.MatchRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		userRepo = repository.NewPgUserRepository(pool)
		matchRepo = repository.NewPgMatchRepository(pool)
	}

	renderer := service.NewComedyGenerator(templates, nil, nil, logger)
	matcher := service.NewMatchmakerService(client, personalities, renderer, nil, nil, logger)
	records := service.NewRecordService(userRepo, matchRepo, nil, logger)

	for {
		fmt.Println("\n===== Crypto Match =====")
		fmt.Println("[1] Analizar usuario")
		fmt.Println("[2] Buscar matches")
		fmt.Println("[3] Compatibilidad entre dos FIDs")
		fmt.Println("[4] Ver arquetipos")
		fmt.Println("[5] Salir")
		fmt.Print("Opcion: ")
		line, _ := reader.ReadString('\n')

		switch strings.TrimSpace(line) {
		case "1":
			analyzeFlow(ctx, reader, matcher, records)
		case "2":
			matchesFlow(ctx, reader, matcher, records, cfg.MatchLimit)
		case "3":
			compatibilityFlow(ctx, reader, matcher)
		case "4":
			for _, p := range matcher.Personalities() {
				fmt.Printf("%s %s: %s\n", p.Emoji, p.Name, p.Description)
			}
		case "5", "q", "exit":
			return
		default:
			fmt.Println("Opcion invalida.")
		}
	}
}

func analyzeFlow(ctx context.Context, reader *bufio.Reader, matcher *service.MatchmakerService, records *service.RecordService) {
	fid, ok := readUser(ctx, reader, matcher, "FID o @username: ")
	if !ok {
		return
	}
	analysis, err := matcher.AnalyzeUser(ctx, fid)
	if err != nil {
		fmt.Printf("Error analizando: %v\n", err)
		return
	}
	records.SaveAnalysis(ctx, analysis)
	printAnalysis(analysis)
}

func matchesFlow(ctx context.Context, reader *bufio.Reader, matcher *service.MatchmakerService, records *service.RecordService, limit int) {
	fid, ok := readUser(ctx, reader, matcher, "FID o @username: ")
	if !ok {
		return
	}
	matches, err := matcher.FindMatches(ctx, fid, limit)
	if err != nil {
		fmt.Printf("Error buscando matches: %v\n", err)
		return
	}
	records.SaveMatches(ctx, matches)
	for i, m := range matches {
		fmt.Printf("[%d] @%s (FID %d) %d%%", i+1, m.MatchUsername, m.MatchFID, m.CompatibilityScore)
		if m.Content != nil {
			fmt.Printf(" | %s\n    %s\n", m.Content.Header, m.Content.MatchComment)
		} else {
			fmt.Println()
		}
	}
}

func compatibilityFlow(ctx context.Context, reader *bufio.Reader, matcher *service.MatchmakerService) {
	fid1, ok := readUser(ctx, reader, matcher, "Usuario 1: ")
	if !ok {
		return
	}
	fid2, ok := readUser(ctx, reader, matcher, "Usuario 2: ")
	if !ok {
		return
	}
	details, err := matcher.MatchDetails(ctx, fid1, fid2)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	b := details.Breakdown
	fmt.Printf("%d%% (personalidad %d, rasgos %d, tokens %d, riesgo %d)\n",
		details.CompatibilityScore, b.PersonalityMatch, b.TraitMatch, b.TokenPreferenceMatch, b.RiskToleranceMatch)
	if details.Content != nil {
		fmt.Printf("%s\nCita: %s\n%s\n", details.Content.Header, details.Content.DateIdea, details.Content.ShareText)
	}
}

func printAnalysis(a domain.UserAnalysis) {
	fmt.Printf("@%s es %s %s\n", a.Username, a.PersonalityEmoji, a.PersonalityName)
	fmt.Printf("Riesgo %d | NFT %d | DeFi %d | Meme %d | BTC %d | ETH %d | Alt %d\n",
		a.Scores.RiskTolerance, a.Scores.NFTInterest, a.Scores.DeFiEngagement, a.Scores.MemeCoinTolerance,
		a.Scores.TokenPreferenceBTC, a.Scores.TokenPreferenceETH, a.Scores.TokenPreferenceAlt)
	for _, line := range a.ComedyLines {
		fmt.Printf("  - %s\n", line)
	}
}

func readUser(ctx context.Context, reader *bufio.Reader, matcher *service.MatchmakerService, prompt string) (int64, bool) {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	fid, err := matcher.ResolveFID(ctx, line)
	if err != nil {
		fmt.Printf("Usuario invalido: %v\n", err)
		return 0, false
	}
	return fid, true
}
