package dto

import (
	"video-discovery-service/internal/app/service"
)

// ErrorResponse represents an error response.
// Status carries the upstream HTTP status when the platform rejected the call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status,omitempty"`
	Details any    `json:"details,omitempty"`
}

// InvalidateResponse echoes the ids whose detail entries were dropped.
type InvalidateResponse struct {
	VideoID   string `json:"video_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
}

// WarmupResultResponse represents the outcome of warming one query.
type WarmupResultResponse struct {
	Query    string `json:"query"`
	Results  int    `json:"results"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// WarmupResponse represents the response of a warmup run.
type WarmupResponse struct {
	Results []WarmupResultResponse `json:"results"`
	Summary WarmupSummary          `json:"summary"`
}

// WarmupSummary holds summary of a warmup run.
type WarmupSummary struct {
	QueriesOK   int `json:"queries_ok"`
	QueriesFail int `json:"queries_fail"`
}

// FromWarmupResults converts service.WarmupResult slice to WarmupResponse.
func FromWarmupResults(results []service.WarmupResult) WarmupResponse {
	resp := WarmupResponse{
		Results: make([]WarmupResultResponse, len(results)),
	}

	for i, r := range results {
		errMsg := ""
		if r.Error != nil {
			errMsg = r.Error.Error()
			resp.Summary.QueriesFail++
		} else {
			resp.Summary.QueriesOK++
		}

		resp.Results[i] = WarmupResultResponse{
			Query:    r.Query,
			Results:  r.Results,
			Duration: r.Duration.String(),
			Error:    errMsg,
		}
	}

	return resp
}

// CacheStatsResponse represents search cache counters.
type CacheStatsResponse struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// FromCacheStats converts service.CacheStats to CacheStatsResponse.
func FromCacheStats(s service.CacheStats) CacheStatsResponse {
	resp := CacheStatsResponse{Hits: s.Hits, Misses: s.Misses}
	if total := s.Hits + s.Misses; total > 0 {
		resp.HitRate = float64(s.Hits) / float64(total)
	}

	return resp
}
