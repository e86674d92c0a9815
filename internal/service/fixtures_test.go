package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
)

func repeatCasts(text string, n int) []domain.Cast {
	out := make([]domain.Cast, n)
	for i := range out {
		out[i] = domain.Cast{Hash: fmt.Sprintf("0x%d", i), Text: text}
	}
	return out
}

func castsOf(texts ...string) []domain.Cast {
	out := make([]domain.Cast, 0, len(texts))
	for i, t := range texts {
		out = append(out, domain.Cast{Hash: fmt.Sprintf("0x%d", i), Text: t})
	}
	return out
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

// Usuarios de referencia con su arquetipo esperado en el catalogo embebido.
func defiUser(fid int64) domain.UserData {
	return domain.UserData{
		FID: fid, Username: "defi_dan",
		Bio:         "DeFi degen aping into yield farms",
		RecentCasts: repeatCasts("new defi yield vault on eth", 6),
	}
}

func ethUser(fid int64) domain.UserData {
	return domain.UserData{
		FID: fid, Username: "vitalik_fan",
		Bio:           "Ethereum builder",
		RecentCasts:   repeatCasts("shipping on ethereum today", 3),
		TokenHoldings: []string{"ETH"},
	}
}

func nftUser(fid int64) domain.UserData {
	return domain.UserData{
		FID: fid, Username: "jpeg_jane",
		Bio:         "NFT collector, pfp art",
		NFTHoldings: seq("nft", 12),
	}
}

func memeUser(fid int64) domain.UserData {
	return domain.UserData{
		FID: fid, Username: "frog_fren",
		Bio:           "degen ape, moon or lambo",
		TokenHoldings: []string{"PEPE", "DOGE", "SHIB", "BONK", "WIF", "FLOKI", "MOG", "BRETT", "TURBO", "NEIRO", "POPCAT"},
	}
}

func btcUser(fid int64) domain.UserData {
	return domain.UserData{
		FID: fid, Username: "satoshi_stan",
		Bio: "Bitcoin maxi. HODL forever.",
	}
}

func blankUser(fid int64) domain.UserData {
	return domain.UserData{FID: fid, Username: fmt.Sprintf("anon%d", fid)}
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return c
}

func loadTemplates(t *testing.T) *catalog.ComedyTemplates {
	t.Helper()
	tpl, err := catalog.LoadDefaultTemplates()
	require.NoError(t, err)
	return tpl
}
