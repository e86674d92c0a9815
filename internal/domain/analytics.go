package domain

import "time"

const (
	EventPersonalityAnalyzed = "personality_analyzed"
	EventMatchesFound        = "matches_found"
	EventMatchShared         = "match_shared"
	EventMiniAppEvent        = "mini_app_event"
)

type AnalyticsEvent struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	FID       int64          `json:"fid"`
	Data      map[string]any `json:"event_data"`
	CreatedAt time.Time      `json:"created_at"`
}

type PersonalityCount struct {
	PersonalityType string `json:"personality_type"`
	Count           int64  `json:"count"`
}

type AnalyticsSummary struct {
	TotalUsers           int64              `json:"total_users"`
	TotalMatches         int64              `json:"total_matches"`
	PopularPersonalities []PersonalityCount `json:"popular_personalities"`
	Days                 int                `json:"days"`
}
