package farcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"crypto-match/internal/domain"
)

const (
	defaultNeynarBaseURL = "https://api.neynar.com/v2"
	defaultRateLimit     = 10
	defaultBurst         = 20
)

// NeynarClient implementa Client contra la API v2 de Neynar.
type NeynarClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewNeynarClient construye el cliente HTTP. rps <= 0 usa el limite por defecto.
func NewNeynarClient(baseURL, apiKey string, rps float64, logger *zap.Logger) *NeynarClient {
	if baseURL == "" {
		baseURL = defaultNeynarBaseURL
	}
	if rps <= 0 {
		rps = defaultRateLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	now := uint64(time.Now().UnixNano())
	return &NeynarClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), defaultBurst),
		logger:  logger,
		rnd:     rand.New(rand.NewPCG(now, now>>1)),
	}
}

// UserData junta perfil y casts recientes. Si los casts fallan se devuelve el perfil sin ellos.
func (c *NeynarClient) UserData(ctx context.Context, fid int64) (domain.UserData, error) {
	user, err := c.UserByFID(ctx, fid)
	if err != nil {
		return domain.UserData{}, err
	}

	casts, err := c.Casts(ctx, fid, defaultCastLimit)
	if err != nil {
		// Best-effort: el analisis funciona solo con la bio.
		c.logger.Warn("fetch casts failed", zap.Int64("fid", fid), zap.Error(err))
	}
	user.RecentCasts = casts
	return user, nil
}

func (c *NeynarClient) UserByFID(ctx context.Context, fid int64) (domain.UserData, error) {
	var resp struct {
		Users []neynarUser `json:"users"`
	}
	q := url.Values{"fids": {strconv.FormatInt(fid, 10)}}
	if err := c.get(ctx, "/farcaster/user/bulk", q, &resp); err != nil {
		return domain.UserData{}, fmt.Errorf("fetch user %d: %w", fid, err)
	}
	if len(resp.Users) == 0 {
		return domain.UserData{}, ErrUserNotFound
	}
	return resp.Users[0].toDomain(), nil
}

func (c *NeynarClient) UserByUsername(ctx context.Context, username string) (domain.UserData, error) {
	var resp struct {
		Result struct {
			Users []neynarUser `json:"users"`
		} `json:"result"`
	}
	q := url.Values{"q": {username}}
	if err := c.get(ctx, "/farcaster/user/search", q, &resp); err != nil {
		return domain.UserData{}, fmt.Errorf("search user %q: %w", username, err)
	}
	if len(resp.Result.Users) == 0 {
		return domain.UserData{}, ErrUserNotFound
	}
	return resp.Result.Users[0].toDomain(), nil
}

func (c *NeynarClient) Casts(ctx context.Context, fid int64, limit int) ([]domain.Cast, error) {
	var resp struct {
		Casts []neynarCast `json:"casts"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, fmt.Sprintf("/farcaster/feed/user/%d", fid), q, &resp); err != nil {
		return nil, fmt.Errorf("fetch casts %d: %w", fid, err)
	}
	out := make([]domain.Cast, 0, len(resp.Casts))
	for _, cast := range resp.Casts {
		out = append(out, cast.toDomain())
	}
	return out, nil
}

func (c *NeynarClient) Following(ctx context.Context, fid int64, limit int) ([]int64, error) {
	return c.followList(ctx, "/farcaster/following", fid, limit)
}

// SocialGraph recorre following directo y, con depth >= 2, el following de una muestra de ellos.
func (c *NeynarClient) SocialGraph(ctx context.Context, fid int64, depth int) ([]int64, error) {
	following, err := c.Following(ctx, fid, directFollowingLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(following))
	connections := appendUnique(nil, seen, following, fid)

	if depth < 2 || len(following) == 0 {
		return connections, nil
	}

	firstDegree := append([]int64(nil), connections...)
	for _, friend := range c.sample(firstDegree, secondDegreeSampleSize) {
		second, err := c.Following(ctx, friend, secondDegreeLimit)
		if err != nil {
			c.logger.Debug("second degree fetch failed", zap.Int64("fid", friend), zap.Error(err))
			continue
		}
		connections = appendUnique(connections, seen, second, fid)
	}
	return connections, nil
}

func (c *NeynarClient) sample(fids []int64, k int) []int64 {
	if len(fids) <= k {
		return fids
	}
	c.mu.Lock()
	perm := c.rnd.Perm(len(fids))
	c.mu.Unlock()

	out := make([]int64, 0, k)
	for _, i := range perm[:k] {
		out = append(out, fids[i])
	}
	return out
}

func (c *NeynarClient) followList(ctx context.Context, path string, fid int64, limit int) ([]int64, error) {
	var resp struct {
		Users []struct {
			FID  int64 `json:"fid"`
			User *struct {
				FID int64 `json:"fid"`
			} `json:"user,omitempty"`
		} `json:"users"`
	}
	q := url.Values{
		"fid":   {strconv.FormatInt(fid, 10)},
		"limit": {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s %d: %w", path, fid, err)
	}
	out := make([]int64, 0, len(resp.Users))
	for _, u := range resp.Users {
		switch {
		case u.FID > 0:
			out = append(out, u.FID)
		case u.User != nil && u.User.FID > 0:
			out = append(out, u.User.FID)
		}
	}
	return out, nil
}

func (c *NeynarClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode >= 400 {
		c.logger.Debug("neynar error", zap.Int("status", resp.StatusCode), zap.String("path", path), zap.ByteString("body", body))
		return fmt.Errorf("neynar http error: status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

type neynarUser struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PfpURL      string `json:"pfp_url"`
	Profile     struct {
		Bio struct {
			Text string `json:"text"`
		} `json:"bio"`
	} `json:"profile"`
	FollowerCount     int `json:"follower_count"`
	FollowingCount    int `json:"following_count"`
	VerifiedAddresses struct {
		EthAddresses []string `json:"eth_addresses"`
		SolAddresses []string `json:"sol_addresses"`
	} `json:"verified_addresses"`
}

func (u neynarUser) toDomain() domain.UserData {
	addrs := make([]string, 0, len(u.VerifiedAddresses.EthAddresses)+len(u.VerifiedAddresses.SolAddresses))
	addrs = append(addrs, u.VerifiedAddresses.EthAddresses...)
	addrs = append(addrs, u.VerifiedAddresses.SolAddresses...)
	return domain.UserData{
		FID:               u.FID,
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		Bio:               u.Profile.Bio.Text,
		PfpURL:            u.PfpURL,
		FollowerCount:     u.FollowerCount,
		FollowingCount:    u.FollowingCount,
		VerifiedAddresses: addrs,
	}
}

type neynarCast struct {
	Hash      string `json:"hash"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Replies   struct {
		Count int `json:"count"`
	} `json:"replies"`
	Reactions struct {
		LikesCount   int `json:"likes_count"`
		RecastsCount int `json:"recasts_count"`
	} `json:"reactions"`
}

func (c neynarCast) toDomain() domain.Cast {
	return domain.Cast{
		Hash:           c.Hash,
		Text:           c.Text,
		Timestamp:      c.Timestamp,
		RepliesCount:   c.Replies.Count,
		ReactionsCount: c.Reactions.LikesCount,
		RecastsCount:   c.Reactions.RecastsCount,
	}
}
