package service

import (
	"context"

	"go.uber.org/zap"

	"crypto-match/internal/farcaster"
)

const (
	maxCandidates          = 100
	fallbackCandidateStart = 1000
	fallbackCandidateCount = 100
	socialGraphDepth       = 2
)

// CandidateSource decide que FIDs evaluar contra un usuario.
type CandidateSource struct {
	client farcaster.Client
	logger *zap.Logger
}

func NewCandidateSource(client farcaster.Client, logger *zap.Logger) *CandidateSource {
	return &CandidateSource{client: client, logger: logger}
}

// Candidates prefiere el grafo social; si esta vacio o falla usa un rango fijo.
// Nunca devuelve mas de maxCandidates.
func (s *CandidateSource) Candidates(ctx context.Context, fid int64) []int64 {
	graph, err := s.client.SocialGraph(ctx, fid, socialGraphDepth)
	if err != nil {
		// Best-effort: un grafo inaccesible equivale a un grafo vacio.
		s.logger.Warn("social graph fetch failed", zap.Int64("fid", fid), zap.Error(err))
	}
	if len(graph) == 0 {
		graph = fallbackCandidates()
	}
	if len(graph) > maxCandidates {
		graph = graph[:maxCandidates]
	}
	return graph
}

func fallbackCandidates() []int64 {
	out := make([]int64, 0, fallbackCandidateCount)
	for i := 0; i < fallbackCandidateCount; i++ {
		out = append(out, int64(fallbackCandidateStart+i))
	}
	return out
}
