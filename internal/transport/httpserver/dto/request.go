// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strconv"

	"video-discovery-service/internal/domain"
)

// SearchRequest represents the query parameters of a video search.
type SearchRequest struct {
	Query            string `query:"q" validate:"required,max=200"`
	MaxResults       int    `query:"max_results" validate:"omitempty,min=1,max=50"`
	EducationalFocus string `query:"educational_focus" validate:"omitempty,boolean"`
	ContentFilter    string `query:"content_filter" validate:"omitempty,oneof=none moderate strict"`
	MinDuration      int    `query:"min_duration" validate:"omitempty,min=1"`
	MaxDuration      int    `query:"max_duration" validate:"omitempty,min=1,gtefield=MinDuration"`
	SortBy           string `query:"sort_by" validate:"omitempty,oneof=relevance date viewCount rating"`
	PageToken        string `query:"page_token" validate:"omitempty,max=200"`
}

// ToDomain converts SearchRequest to domain.SearchRequest.
// Unset fields keep the service defaults.
func (r *SearchRequest) ToDomain() domain.SearchRequest {
	req := domain.DefaultSearchRequest(r.Query)

	if r.MaxResults > 0 {
		req.MaxResults = r.MaxResults
	}
	if r.EducationalFocus != "" {
		if focus, err := strconv.ParseBool(r.EducationalFocus); err == nil {
			req.EducationalFocus = focus
		}
	}
	if r.ContentFilter != "" {
		req.ContentFilter = domain.ContentFilter(r.ContentFilter)
	}
	if r.SortBy != "" {
		req.SortBy = domain.SortBy(r.SortBy)
	}
	req.MinDuration = r.MinDuration
	req.MaxDuration = r.MaxDuration
	req.PageToken = r.PageToken

	return req
}

// InvalidateRequest represents the body of a cache invalidation call.
type InvalidateRequest struct {
	VideoID   string `json:"video_id" validate:"required_without=ChannelID,max=64"`
	ChannelID string `json:"channel_id" validate:"required_without=VideoID,max=64"`
}
