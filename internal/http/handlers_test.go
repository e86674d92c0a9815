package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
	"crypto-match/internal/farcaster"
	"crypto-match/internal/frame"
	"crypto-match/internal/service"
)

const testBaseURL = "https://match.example.com"

// testClient envuelve el cliente mock y permite simular usuarios inexistentes.
type testClient struct {
	*farcaster.MockClient
	missing map[int64]bool
	onlyFID int64
}

func (c *testClient) UserData(ctx context.Context, fid int64) (domain.UserData, error) {
	if c.missing[fid] || (c.onlyFID != 0 && fid != c.onlyFID) {
		return domain.UserData{}, farcaster.ErrUserNotFound
	}
	return c.MockClient.UserData(ctx, fid)
}

type memoryMatchRepo struct {
	saved []domain.MatchResult
}

func (r *memoryMatchRepo) Save(_ context.Context, m domain.MatchResult) error {
	r.saved = append(r.saved, m)
	return nil
}

func (r *memoryMatchRepo) TopMatches(_ context.Context, userFID int64, limit int) ([]domain.MatchResult, error) {
	var out []domain.MatchResult
	for _, m := range r.saved {
		if m.UserFID == userFID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

type memoryAnalyticsRepo struct {
	events []domain.AnalyticsEvent
}

func (r *memoryAnalyticsRepo) Log(_ context.Context, e domain.AnalyticsEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *memoryAnalyticsRepo) Summary(_ context.Context, days int) (domain.AnalyticsSummary, error) {
	return domain.AnalyticsSummary{TotalUsers: int64(len(r.events)), Days: days}, nil
}

func (r *memoryAnalyticsRepo) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type testEnv struct {
	router    *gin.Engine
	client    *testClient
	matches   *memoryMatchRepo
	analytics *memoryAnalyticsRepo
	tokens    *service.AdminTokenService
	staticDir string
}

type envOptions struct {
	limiter     service.RateLimiter
	withStorage bool
	adminSecret string
	onlyFID     int64
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	templates, err := catalog.LoadDefaultTemplates()
	require.NoError(t, err)

	env := &testEnv{
		client:    &testClient{MockClient: farcaster.NewMockClient(), missing: map[int64]bool{}, onlyFID: opts.onlyFID},
		tokens:    service.NewAdminTokenService(opts.adminSecret, time.Hour),
		staticDir: t.TempDir(),
	}

	records := service.NewRecordService(nil, nil, nil, logger)
	if opts.withStorage {
		env.matches = &memoryMatchRepo{}
		env.analytics = &memoryAnalyticsRepo{}
		records = service.NewRecordService(nil, env.matches, env.analytics, logger)
	}

	renderer := service.NewComedyGenerator(templates, nil, nil, logger)
	matcher := service.NewMatchmakerService(env.client, cat, renderer, nil, nil, logger)
	builder := frame.NewBuilder(testBaseURL)

	frameH := NewFrameHandler(logger, builder, matcher, records, opts.limiter, nil, 5)
	apiH := NewAPIHandler(logger, matcher, records, testBaseURL, env.staticDir)
	env.router = NewRouter(logger, frameH, apiH, env.tokens, env.staticDir)
	return env
}

func (e *testEnv) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func frameAction(fid int64) map[string]any {
	return map[string]any{"untrustedData": map[string]any{"fid": fid, "buttonIndex": 1}}
}

func decodeFrame(t *testing.T, rec *httptest.ResponseRecorder) domain.Frame {
	t.Helper()
	var f domain.Frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	return f
}

func decodeMatchImage(t *testing.T, f domain.Frame, kind string) frame.MatchImage {
	t.Helper()
	prefix := testBaseURL + "/api/generate-image/" + kind + "?data="
	require.True(t, strings.HasPrefix(f.Image, prefix), "unexpected image %s", f.Image)
	var img frame.MatchImage
	require.NoError(t, frame.DecodeData(strings.TrimPrefix(f.Image, prefix), &img))
	return img
}

func TestIndexServesFrameHTML(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `property="fc:frame:image"`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/health", nil, map[string]string{requestIDHeader: "req-123"})

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestAnalyzeReturnsPersonalityFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})

	rec := env.do(http.MethodPost, "/api/analyze", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	f := decodeFrame(t, rec)
	assert.Equal(t, "next", f.Version)
	assert.Equal(t, testBaseURL+"/api/find-matches", f.PostURL)
	require.Len(t, f.Buttons, 2)
	assert.Contains(t, f.Buttons[0].Label, "I'm a")
	assert.Equal(t, []string{domain.EventPersonalityAnalyzed}, env.analytics.types())
}

func TestAnalyzeWithoutFIDReturnsErrorFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/analyze", map[string]any{"untrustedData": map[string]any{}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, testBaseURL+"/images/error.png", decodeFrame(t, rec).Image)

	rec = env.do(http.MethodPost, "/api/analyze", "not json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRateLimited(t *testing.T) {
	env := newTestEnv(t, envOptions{limiter: service.NewMemoryRateLimiter(time.Hour, 1)})

	first := env.do(http.MethodPost, "/api/analyze", frameAction(42), nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.NotEqual(t, testBaseURL+"/images/rate-limit.png", decodeFrame(t, first).Image)

	second := env.do(http.MethodPost, "/api/analyze", frameAction(42), nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, testBaseURL+"/images/rate-limit.png", decodeFrame(t, second).Image)

	other := env.do(http.MethodPost, "/api/analyze", frameAction(43), nil)
	assert.NotEqual(t, testBaseURL+"/images/rate-limit.png", decodeFrame(t, other).Image)
}

func TestFindMatchesStoresAndPages(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})

	rec := env.do(http.MethodPost, "/api/find-matches", frameAction(42), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeFrame(t, rec)
	require.Len(t, env.matches.saved, 5)
	assert.Equal(t, env.matches.saved[0].MatchFID, decodeMatchImage(t, first, "match").MatchFID)
	assert.Equal(t, []string{domain.EventMatchesFound}, env.analytics.types())

	rec = env.do(http.MethodPost, "/api/match/2", frameAction(42), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	third := decodeFrame(t, rec)
	assert.Equal(t, env.matches.saved[2].MatchFID, decodeMatchImage(t, third, "match").MatchFID)
	require.Len(t, third.Buttons, 4)

	rec = env.do(http.MethodPost, "/api/match-details/1", frameAction(42), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decodeFrame(t, rec)
	assert.Equal(t, env.matches.saved[1].MatchFID, decodeMatchImage(t, details, "details").MatchFID)
}

func TestMatchUsesStoredMatches(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})
	env.matches.saved = []domain.MatchResult{
		{UserFID: 42, MatchFID: 7001, MatchUsername: "stored_one", CompatibilityScore: 91},
		{UserFID: 42, MatchFID: 7002, MatchUsername: "stored_two", CompatibilityScore: 80},
	}

	rec := env.do(http.MethodPost, "/api/match/1", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	f := decodeFrame(t, rec)
	img := decodeMatchImage(t, f, "match")
	assert.Equal(t, int64(7002), img.MatchFID)
	assert.Equal(t, "stored_two", img.MatchUsername)
	assert.Equal(t, []string{"⬅️ Previous", "📊 View Details", "📱 Share Result"}, []string{f.Buttons[0].Label, f.Buttons[1].Label, f.Buttons[2].Label})
}

func TestMatchRecomputesWithoutStorage(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/match/0", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	img := decodeMatchImage(t, decodeFrame(t, rec), "match")
	assert.NotZero(t, img.MatchFID)
	assert.NotEqual(t, int64(42), img.MatchFID)
}

func TestMatchOutOfRangeReturnsNoMatches(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/match/50", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testBaseURL+"/images/no-matches.png", decodeFrame(t, rec).Image)
}

func TestMatchRejectsBadIndex(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/match/abc", frameAction(42), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindMatchesWithoutCandidatesReturnsNoMatchesFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{onlyFID: 42})

	rec := env.do(http.MethodPost, "/api/find-matches", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testBaseURL+"/images/no-matches.png", decodeFrame(t, rec).Image)
}

func TestFindMatchesUnknownUserReturnsErrorFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.client.missing[42] = true

	rec := env.do(http.MethodPost, "/api/find-matches", frameAction(42), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, testBaseURL+"/images/error.png", decodeFrame(t, rec).Image)
}

func TestShareLogsEvent(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})
	env.matches.saved = []domain.MatchResult{
		{UserFID: 42, MatchFID: 7001, CompatibilityScore: 91},
		{UserFID: 42, MatchFID: 7002, CompatibilityScore: 80},
	}

	rec := env.do(http.MethodPost, "/api/share/1", frameAction(42), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7002), decodeMatchImage(t, decodeFrame(t, rec), "share").MatchFID)

	rec = env.do(http.MethodPost, "/api/share-details", frameAction(42), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7001), decodeMatchImage(t, decodeFrame(t, rec), "share").MatchFID)

	require.Len(t, env.analytics.events, 2)
	assert.Equal(t, domain.EventMatchShared, env.analytics.events[0].EventType)
	assert.Equal(t, int64(7002), env.analytics.events[0].Data["match_fid"])
}

func TestShareOutOfRangeReturnsErrorFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{withStorage: true})
	env.matches.saved = []domain.MatchResult{{UserFID: 42, MatchFID: 7001, CompatibilityScore: 91}}

	rec := env.do(http.MethodPost, "/api/share/3", frameAction(42), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testBaseURL+"/images/error.png", decodeFrame(t, rec).Image)
	assert.Empty(t, env.analytics.events)
}

func TestInfoFrame(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/info", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testBaseURL+"/images/info.png", decodeFrame(t, rec).Image)
}
