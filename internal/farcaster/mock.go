package farcaster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"crypto-match/internal/domain"
)

var (
	mockUsernames = []string{"cryptoking", "degen_hunter", "nft_lover", "btc_maxi", "eth_bull"}
	mockBios      = []string{
		"Bitcoin maxi. HODL forever. Not your keys, not your coins.",
		"DeFi degen | Yield farmer | 🌾 APY hunter",
		"NFT collector | Art enthusiast | OpenSea whale 🎨",
		"Shitcoin surfer | Moon or bust | 🚀",
		"ETH believer | Smart contracts are the future ♦️",
	}
	mockCasts = []string{
		"Just aped into another gem! 🚀",
		"ETH to the moon! 🌙",
		"This NFT collection is fire 🔥",
		"DeFi yields looking juicy today 🌾",
		"Bitcoin is digital gold ₿",
		"GM crypto fam! ☀️",
	}
)

// MockClient genera datos deterministas por FID para correr sin API key.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) UserData(_ context.Context, fid int64) (domain.UserData, error) {
	if fid <= 0 {
		return domain.UserData{}, ErrUserNotFound
	}
	i := int(fid % int64(len(mockUsernames)))
	user := domain.UserData{
		FID:            fid,
		Username:       fmt.Sprintf("%s_%d", mockUsernames[i], fid),
		DisplayName:    fmt.Sprintf("User %d", fid),
		Bio:            mockBios[int(fid%int64(len(mockBios)))],
		PfpURL:         fmt.Sprintf("https://i.pravatar.cc/150?u=%d", fid),
		FollowerCount:  100 + int((fid*10)%1000),
		FollowingCount: 50 + int((fid*5)%500),
	}
	user.RecentCasts = mockCastsFor(fid, defaultCastLimit)
	return user, nil
}

// UserByUsername acepta los usernames que genera UserData ("<base>_<fid>").
func (m *MockClient) UserByUsername(ctx context.Context, username string) (domain.UserData, error) {
	cut := strings.LastIndex(username, "_")
	if cut < 0 {
		return domain.UserData{}, ErrUserNotFound
	}
	fid, err := strconv.ParseInt(username[cut+1:], 10, 64)
	if err != nil || fid <= 0 {
		return domain.UserData{}, ErrUserNotFound
	}
	user, err := m.UserData(ctx, fid)
	if err != nil || user.Username != username {
		return domain.UserData{}, ErrUserNotFound
	}
	return user, nil
}

func mockCastsFor(fid int64, limit int) []domain.Cast {
	n := min(limit, 10)
	casts := make([]domain.Cast, 0, n)
	for i := 0; i < n; i++ {
		casts = append(casts, domain.Cast{
			Hash:           fmt.Sprintf("0x%d%d", fid, i),
			Text:           mockCasts[i%len(mockCasts)],
			Timestamp:      fmt.Sprintf("2024-01-%02d", i+1),
			RepliesCount:   i * 2,
			ReactionsCount: i * 5,
			RecastsCount:   i,
		})
	}
	return casts
}

// SocialGraph devuelve entre 20 y 100 conexiones pseudoaleatorias sembradas por el FID.
func (m *MockClient) SocialGraph(_ context.Context, fid int64, _ int) ([]int64, error) {
	rnd := rand.New(rand.NewPCG(uint64(fid), 0))
	n := 20 + rnd.IntN(81)
	raw := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		raw = append(raw, 1000+rnd.Int64N(9000))
	}
	return appendUnique(nil, make(map[int64]struct{}, n), raw, fid), nil
}
