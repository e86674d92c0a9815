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
	"crypto-match/internal/farcaster"
	"crypto-match/internal/service"
)

type ArchetypeScenario struct {
	Name     string
	User     domain.UserData
	Expected string
}

type MatchScenario struct {
	Name        string
	UserFID     int64
	ExpectedTop int64
}

// fixtureClient sirve usuarios fijos; todos siguen a todos.
type fixtureClient struct {
	users map[int64]domain.UserData
	order []int64
}

func newFixtureClient(users ...domain.UserData) *fixtureClient {
	c := &fixtureClient{users: make(map[int64]domain.UserData, len(users))}
	for _, u := range users {
		c.users[u.FID] = u
		c.order = append(c.order, u.FID)
	}
	return c
}

func (c *fixtureClient) UserData(_ context.Context, fid int64) (domain.UserData, error) {
	u, ok := c.users[fid]
	if !ok {
		return domain.UserData{}, farcaster.ErrUserNotFound
	}
	return u, nil
}

func (c *fixtureClient) SocialGraph(_ context.Context, _ int64, _ int) ([]int64, error) {
	return append([]int64(nil), c.order...), nil
}

func repeat(text string, n int) []domain.Cast {
	out := make([]domain.Cast, n)
	for i := range out {
		out[i] = domain.Cast{Hash: fmt.Sprintf("0x%d", i), Text: text}
	}
	return out
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	personalities, err := catalog.LoadDefault()
	if cfg.CatalogPath != "" {
		personalities, err = catalog.LoadFile(cfg.CatalogPath)
	}
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	templates, err := catalog.LoadDefaultTemplates()
	if err != nil {
		log.Fatalf("load templates: %v", err)
	}

	nfts := make([]string, 12)
	for i := range nfts {
		nfts[i] = fmt.Sprintf("nft%d", i)
	}

	defi := domain.UserData{FID: 1, Username: "defi_dan", Bio: "DeFi degen aping into yield farms", RecentCasts: repeat("new defi yield vault on eth", 6)}
	eth := domain.UserData{FID: 2, Username: "vitalik_fan", Bio: "Ethereum builder", RecentCasts: repeat("shipping on ethereum today", 3), TokenHoldings: []string{"ETH"}}
	meme := domain.UserData{FID: 3, Username: "frog_fren", Bio: "degen ape, moon or lambo", TokenHoldings: []string{"PEPE", "DOGE", "SHIB", "BONK", "WIF", "FLOKI", "MOG", "BRETT", "TURBO", "NEIRO", "POPCAT"}}
	nft := domain.UserData{FID: 4, Username: "jpeg_jane", Bio: "NFT collector, pfp art", NFTHoldings: nfts}
	btc := domain.UserData{FID: 5, Username: "satoshi_stan", Bio: "Bitcoin maxi. HODL forever."}

	archetypes := []ArchetypeScenario{
		{Name: "DeFi farmer", User: defi, Expected: "defi_degen"},
		{Name: "Ethereum builder", User: eth, Expected: "eth_believer"},
		{Name: "Memecoin bag", User: meme, Expected: "memecoin_surfer"},
		{Name: "NFT whale", User: nft, Expected: "nft_collector"},
		{Name: "Bitcoin holder", User: btc, Expected: "diamond_hands"},
	}
	matches := []MatchScenario{
		{Name: "DeFi prefers Ethereum over memes", UserFID: 1, ExpectedTop: 2},
	}

	client := newFixtureClient(defi, eth, meme, nft, btc)
	renderer := service.NewComedyGenerator(templates, nil, nil, zap.NewNop())
	matcher := service.NewMatchmakerService(client, personalities, renderer, nil, nil, zap.NewNop())

	passed := 0
	total := len(archetypes) + len(matches)

	for _, sc := range archetypes {
		fmt.Printf("=== Ejecutando: %s ===\n", sc.Name)
		analysis, err := matcher.AnalyzeUserData(sc.User)
		if err != nil {
			fmt.Printf("❌ FAIL [%s] analyze: %v\n\n", sc.Name, err)
			continue
		}
		fmt.Printf("Scores: %+v\n", analysis.Scores)
		if analysis.PersonalityType == sc.Expected {
			fmt.Printf("✅ PASS [%s] %s %s\n\n", sc.Name, analysis.PersonalityEmoji, analysis.PersonalityType)
			passed++
		} else {
			fmt.Printf("❌ FAIL [%s] expected %s, got %s\n\n", sc.Name, sc.Expected, analysis.PersonalityType)
		}
	}

	for _, sc := range matches {
		fmt.Printf("=== Ejecutando: %s ===\n", sc.Name)
		results, err := matcher.FindMatches(ctx, sc.UserFID, len(client.order))
		if err != nil {
			fmt.Printf("❌ FAIL [%s] find matches: %v\n\n", sc.Name, err)
			continue
		}
		ranking := make([]string, 0, len(results))
		selfMatched := false
		for _, r := range results {
			ranking = append(ranking, fmt.Sprintf("%d:%d%%", r.MatchFID, r.CompatibilityScore))
			if r.MatchFID == sc.UserFID {
				selfMatched = true
			}
		}
		fmt.Printf("Ranking: %s\n", strings.Join(ranking, ", "))
		switch {
		case selfMatched:
			fmt.Printf("❌ FAIL [%s] user matched with themselves\n\n", sc.Name)
		case results[0].MatchFID != sc.ExpectedTop:
			fmt.Printf("❌ FAIL [%s] expected top %d, got %d\n\n", sc.Name, sc.ExpectedTop, results[0].MatchFID)
		default:
			fmt.Printf("✅ PASS [%s] %s\n\n", sc.Name, results[0].Content.Header)
			passed++
		}
	}

	fmt.Printf("Resultado: %d/%d escenarios OK\n", passed, total)
	if passed != total {
		os.Exit(1)
	}
}
