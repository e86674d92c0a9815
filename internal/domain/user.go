package domain

// Cast es una publicacion reciente de Farcaster.
type Cast struct {
	Hash           string `json:"hash"`
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp,omitempty"`
	RepliesCount   int    `json:"replies_count"`
	ReactionsCount int    `json:"reactions_count"`
	RecastsCount   int    `json:"recasts_count"`
}

// UserData es el registro crudo que devuelve la fuente de datos sociales.
type UserData struct {
	FID               int64    `json:"fid"`
	Username          string   `json:"username"`
	DisplayName       string   `json:"display_name"`
	Bio               string   `json:"bio"`
	PfpURL            string   `json:"pfp_url"`
	FollowerCount     int      `json:"follower_count"`
	FollowingCount    int      `json:"following_count"`
	VerifiedAddresses []string `json:"verified_addresses,omitempty"`
	RecentCasts       []Cast   `json:"recent_casts,omitempty"`
	NFTHoldings       []string `json:"nft_holdings,omitempty"`
	TokenHoldings     []string `json:"token_holdings,omitempty"`
}
