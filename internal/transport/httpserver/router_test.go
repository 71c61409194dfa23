package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video-discovery-service/internal/app/service"
	"video-discovery-service/internal/domain"
	"video-discovery-service/internal/job"
	"video-discovery-service/internal/transport/httpserver/dto"
	"video-discovery-service/internal/validator"
)

type fakeSearcher struct {
	mu      sync.Mutex
	got     []domain.SearchRequest
	payload *domain.SearchPayload
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.got = append(f.got, req)

	return f.payload, f.err
}

type fakeInvalidator struct {
	videoID   string
	channelID string
	err       error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, videoID, channelID string) error {
	f.videoID, f.channelID = videoID, channelID

	return f.err
}

type fakeWarmup struct {
	results []service.WarmupResult
	err     error
}

func (f *fakeWarmup) Trigger(context.Context) ([]service.WarmupResult, error) {
	return f.results, f.err
}

type fakeStats struct{ stats service.CacheStats }

func (f fakeStats) Stats() service.CacheStats { return f.stats }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestServer(deps Dependencies) *Server {
	if deps.Searcher == nil {
		deps.Searcher = &fakeSearcher{payload: &domain.SearchPayload{Results: []domain.VideoResult{}}}
	}
	if deps.Invalidator == nil {
		deps.Invalidator = &fakeInvalidator{}
	}
	if deps.Stats == nil {
		deps.Stats = fakeStats{}
	}
	if deps.Health == nil {
		deps.Health = fakePinger{}
	}

	return NewServer(ServerConfig{Port: 0, BodyLimit: 1 << 20}, deps, validator.New(), zap.NewNop())
}

func do(t *testing.T, s *Server, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := s.App.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	return resp
}

func TestSearch_Success(t *testing.T) {
	searcher := &fakeSearcher{payload: &domain.SearchPayload{
		Query:        "linear algebra",
		TotalResults: 1,
		Results: []domain.VideoResult{{
			ID:    "v1",
			Title: "Linear Algebra Full Course",
			Ranking: &domain.Ranking{
				RelevanceScore: 8.5,
			},
		}},
	}}
	s := newTestServer(Dependencies{Searcher: searcher})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/videos/search?q=linear+algebra&max_results=5&educational_focus=false&min_duration=60&max_duration=3600&sort_by=date", nil)
	status, body := do(t, s, req)

	require.Equal(t, http.StatusOK, status)

	var payload domain.SearchPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "linear algebra", payload.Query)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "v1", payload.Results[0].ID)

	require.Len(t, searcher.got, 1)
	got := searcher.got[0]
	assert.Equal(t, "linear algebra", got.Query)
	assert.Equal(t, 5, got.MaxResults)
	assert.False(t, got.EducationalFocus)
	assert.Equal(t, 60, got.MinDuration)
	assert.Equal(t, 3600, got.MaxDuration)
	assert.Equal(t, domain.SortByDate, got.SortBy)
}

func TestSearch_DefaultsApplied(t *testing.T) {
	searcher := &fakeSearcher{payload: &domain.SearchPayload{Results: []domain.VideoResult{}}}
	s := newTestServer(Dependencies{Searcher: searcher})

	status, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?q=python", nil))

	require.Equal(t, http.StatusOK, status)
	require.Len(t, searcher.got, 1)
	assert.Equal(t, domain.DefaultSearchRequest("python"), searcher.got[0])
}

func TestSearch_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing q", query: ""},
		{name: "max results too high", query: "q=go&max_results=51"},
		{name: "bad content filter", query: "q=go&content_filter=off"},
		{name: "bad sort", query: "q=go&sort_by=likes"},
		{name: "bad boolean", query: "q=go&educational_focus=maybe"},
		{name: "max below min", query: "q=go&min_duration=600&max_duration=60"},
		{name: "non-numeric max results", query: "q=go&max_results=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{}
			s := newTestServer(Dependencies{Searcher: searcher})

			status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, decodeError(t, body).Code)
			assert.Empty(t, searcher.got, "service must not be called on invalid input")
		})
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	searcher := &fakeSearcher{
		err: fmt.Errorf("search videos: %w", &domain.UpstreamError{Endpoint: "search", Status: http.StatusForbidden}),
	}
	s := newTestServer(Dependencies{Searcher: searcher})

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?q=go", nil))

	assert.Equal(t, http.StatusBadGateway, status)
	resp := decodeError(t, body)
	assert.Equal(t, "Failed to fetch videos from YouTube", resp.Error)
	assert.Equal(t, "UPSTREAM_ERROR", resp.Code)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestSearch_TransportError(t *testing.T) {
	searcher := &fakeSearcher{
		err: &domain.TransportError{Endpoint: "search", Err: errors.New("connection refused")},
	}
	s := newTestServer(Dependencies{Searcher: searcher})

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?q=go", nil))

	assert.Equal(t, http.StatusBadGateway, status)
	resp := decodeError(t, body)
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.Equal(t, "TRANSPORT_ERROR", resp.Code)
	assert.Contains(t, resp.Details, "connection refused")
}

func TestSearch_InternalError(t *testing.T) {
	s := newTestServer(Dependencies{Searcher: &fakeSearcher{err: errors.New("encode payload: boom")}})

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?q=go", nil))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, body).Code)
}

func TestCache_InvalidateVideo(t *testing.T) {
	inv := &fakeInvalidator{}
	s := newTestServer(Dependencies{Invalidator: inv})

	status, body := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/cache/videos/abc123", nil))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "abc123", inv.videoID)
	assert.Empty(t, inv.channelID)
	assert.JSONEq(t, `{"video_id":"abc123"}`, string(body))
}

func TestCache_InvalidateChannel(t *testing.T) {
	inv := &fakeInvalidator{}
	s := newTestServer(Dependencies{Invalidator: inv})

	status, _ := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/cache/channels/UC42", nil))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "UC42", inv.channelID)
}

func TestCache_InvalidateBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "both ids", body: `{"video_id":"v1","channel_id":"c1"}`, wantStatus: http.StatusOK},
		{name: "no ids", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"video_id":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Dependencies{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			status, _ := do(t, s, req)

			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestCache_InvalidateFailure(t *testing.T) {
	s := newTestServer(Dependencies{Invalidator: &fakeInvalidator{err: errors.New("redis down")}})

	status, body := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/cache/videos/abc", nil))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INVALIDATION_FAILED", decodeError(t, body).Code)
}

func TestAdmin_Warmup(t *testing.T) {
	warmup := &fakeWarmup{results: []service.WarmupResult{
		{Query: "python", Results: 7, Duration: time.Second},
		{Query: "calculus", Error: errors.New("upstream")},
	}}
	s := newTestServer(Dependencies{Warmup: warmup})

	status, body := do(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/admin/warmup", nil))

	require.Equal(t, http.StatusOK, status)

	var resp dto.WarmupResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, dto.WarmupSummary{QueriesOK: 1, QueriesFail: 1}, resp.Summary)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "upstream", resp.Results[1].Error)
}

func TestAdmin_WarmupStatuses(t *testing.T) {
	tests := []struct {
		name       string
		warmup     *fakeWarmup
		wantStatus int
		wantCode   string
	}{
		{name: "disabled", warmup: nil, wantStatus: http.StatusServiceUnavailable, wantCode: "WARMUP_DISABLED"},
		{name: "in progress", warmup: &fakeWarmup{err: job.ErrWarmupInProgress}, wantStatus: http.StatusConflict, wantCode: "WARMUP_IN_PROGRESS"},
		{name: "lock failure", warmup: &fakeWarmup{err: errors.New("redis down")}, wantStatus: http.StatusInternalServerError, wantCode: "WARMUP_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Dependencies{}
			if tt.warmup != nil {
				deps.Warmup = tt.warmup
			}
			s := newTestServer(deps)

			status, body := do(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/admin/warmup", nil))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, decodeError(t, body).Code)
		})
	}
}

func TestAdmin_CacheStats(t *testing.T) {
	s := newTestServer(Dependencies{Stats: fakeStats{stats: service.CacheStats{Hits: 3, Misses: 1}}})

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/admin/cache/stats", nil))

	require.Equal(t, http.StatusOK, status)

	var resp dto.CacheStatsResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, dto.CacheStatsResponse{Hits: 3, Misses: 1, HitRate: 0.75}, resp)
}

func TestHealthChecks(t *testing.T) {
	healthy := newTestServer(Dependencies{Health: fakePinger{}})
	down := newTestServer(Dependencies{Health: fakePinger{err: errors.New("no cache")}})

	status, _ := do(t, down, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, status, "liveness ignores the cache")

	status, _ = do(t, healthy, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, down, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(Dependencies{})

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(Dependencies{})

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/api/v1/videos/search?q=go", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
