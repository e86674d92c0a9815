package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-match/internal/domain"
	"crypto-match/internal/frame"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])
}

func TestPersonalitiesListsCatalog(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/personalities", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Personalities []domain.PersonalitySummary `json:"personalities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Personalities)
}

func TestUserAnalysis(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/user/42", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis domain.UserAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, int64(42), analysis.FID)
	assert.NotEmpty(t, analysis.PersonalityType)
	assert.Len(t, analysis.ComedyLines, 2)
}

func TestUserAnalysisErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.client.missing[77] = true

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/user/77", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/user/abc", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/user/-3", nil, nil).Code)
}

func TestBatchUsers(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.client.missing[8] = true

	rec := env.do(http.MethodPost, "/api/users/batch", map[string]any{"fids": []int64{5, 8, 3, 5}}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Analyses  []domain.UserAnalysis `json:"analyses"`
		Requested int                   `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Requested)
	require.Len(t, body.Analyses, 2)
	assert.Equal(t, int64(5), body.Analyses[0].FID)
	assert.Equal(t, int64(3), body.Analyses[1].FID)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/users/batch", map[string]any{"fids": []int64{}}, nil).Code)
	tooMany := make([]int64, maxBatchFIDs+1)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/users/batch", map[string]any{"fids": tooMany}, nil).Code)
}

func TestCompatibility(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/compatibility/42/43", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var details domain.MatchDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, int64(42), details.UserAnalysis.FID)
	assert.Equal(t, int64(43), details.MatchFID)
	require.NotNil(t, details.Content)
	assert.Equal(t, details.CompatibilityScore, details.Content.CompatibilityScore)

	reverse := env.do(http.MethodGet, "/api/compatibility/43/42", nil, nil)
	var reversed domain.MatchDetails
	require.NoError(t, json.Unmarshal(reverse.Body.Bytes(), &reversed))
	assert.Equal(t, details.CompatibilityScore, reversed.CompatibilityScore)
}

func TestCompatibilityUnknownUser(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.client.missing[43] = true

	rec := env.do(http.MethodGet, "/api/compatibility/42/43", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsWithoutStorage(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/analytics", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyticsRequiresAdminToken(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true, adminSecret: "secret"})

	rec := env.do(http.MethodGet, "/api/analytics", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/analytics", nil, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := env.tokens.Issue("ops")
	require.NoError(t, err)
	rec = env.do(http.MethodGet, "/api/analytics?days=30", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 30, summary.Days)
}

func TestAnalyticsOpenWithoutSecret(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})

	rec := env.do(http.MethodGet, "/api/analytics", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, analyticsDays, summary.Days)
}

func TestManifest(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/.well-known/farcaster.json", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testBaseURL, body["homeUrl"])
	assert.Equal(t, testBaseURL+"/api/webhook", body["webhookUrl"])
	fr, ok := body["frame"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "next", fr["version"])
}

func TestWebhookLogsEvent(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})

	rec := env.do(http.MethodPost, "/api/webhook", map[string]any{"event": "frame_added"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.analytics.events, 1)
	assert.Equal(t, domain.EventMiniAppEvent, env.analytics.events[0].EventType)
	assert.Equal(t, int64(0), env.analytics.events[0].FID)
	assert.Equal(t, "frame_added", env.analytics.events[0].Data["event"])

	rec = env.do(http.MethodPost, "/api/webhook", "{broken", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateImage(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	require.NoError(t, os.MkdirAll(filepath.Join(env.staticDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.staticDir, "images", placeholderImage), []byte("png-bytes"), 0o644))

	data, err := frame.EncodeData(frame.MatchImage{MatchFID: 9, CompatibilityScore: 88})
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/generate-image/match?data="+data, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, imageContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/generate-image/match?data=@@@@", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/generate-image/video?data="+data, nil, nil).Code)
}

func TestImageServesFileOrEmptyPNG(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	require.NoError(t, os.MkdirAll(filepath.Join(env.staticDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.staticDir, "images", "start.png"), []byte("start"), 0o644))

	rec := env.do(http.MethodGet, "/images/start.png", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "start", rec.Body.String())

	rec = env.do(http.MethodGet, "/images/missing.png", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, imageContentType, rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/metrics", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
