package youtube

import (
	"fmt"
	"strconv"

	"video-discovery-service/internal/domain"
)

// SearchListResponse represents the JSON response of the search endpoint.
type SearchListResponse struct {
	Items         []SearchResult `json:"items"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
	PrevPageToken string         `json:"prevPageToken,omitempty"`
	PageInfo      PageInfo       `json:"pageInfo"`
}

// PageInfo holds paging totals reported by the platform.
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID      ResourceID `json:"id"`
	Snippet *Snippet   `json:"snippet,omitempty"`
}

// ResourceID identifies the resource a search hit refers to.
type ResourceID struct {
	Kind      string `json:"kind"`
	VideoID   string `json:"videoId,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
}

// Snippet holds the descriptive fields of a search hit or channel.
type Snippet struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	ChannelID    string             `json:"channelId"`
	ChannelTitle string             `json:"channelTitle"`
	PublishedAt  string             `json:"publishedAt"`
	Thumbnails   *domain.Thumbnails `json:"thumbnails,omitempty"`
}

// ToDomain converts the search hit to a raw domain item.
func (r *SearchResult) ToDomain() domain.SearchItem {
	item := domain.SearchItem{VideoID: r.ID.VideoID}
	if r.Snippet != nil {
		item.Snippet = &domain.Snippet{
			Title:        r.Snippet.Title,
			Description:  r.Snippet.Description,
			ChannelID:    r.Snippet.ChannelID,
			ChannelTitle: r.Snippet.ChannelTitle,
			PublishedAt:  r.Snippet.PublishedAt,
			Thumbnails:   r.Snippet.Thumbnails,
		}
	}

	return item
}

// VideoListResponse represents the JSON response of the videos endpoint.
type VideoListResponse struct {
	Items []VideoItem `json:"items"`
}

// VideoItem holds the parts of a video requested for enrichment.
type VideoItem struct {
	ID             string          `json:"id"`
	ContentDetails *ContentDetails `json:"contentDetails,omitempty"`
	Statistics     *Statistics     `json:"statistics,omitempty"`
}

// ContentDetails holds the ISO-8601 duration of a video.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Statistics holds engagement counters. The platform encodes them as decimal strings.
type Statistics struct {
	ViewCount    string `json:"viewCount,omitempty"`
	LikeCount    string `json:"likeCount,omitempty"`
	CommentCount string `json:"commentCount,omitempty"`
}

// ToDomain converts the item to a domain.VideoDetail.
// Hidden counters are reported as zero.
func (v *VideoItem) ToDomain() (domain.VideoDetail, error) {
	if v.ID == "" {
		return domain.VideoDetail{}, fmt.Errorf("video item without id")
	}

	detail := domain.VideoDetail{ID: v.ID}

	if v.Statistics != nil {
		var err error
		if detail.ViewCount, err = parseCount(v.Statistics.ViewCount); err != nil {
			return domain.VideoDetail{}, fmt.Errorf("parsing viewCount: %w", err)
		}
		if detail.Likes, err = parseCount(v.Statistics.LikeCount); err != nil {
			return domain.VideoDetail{}, fmt.Errorf("parsing likeCount: %w", err)
		}
		if detail.CommentCount, err = parseCount(v.Statistics.CommentCount); err != nil {
			return domain.VideoDetail{}, fmt.Errorf("parsing commentCount: %w", err)
		}
	}

	if v.ContentDetails != nil {
		detail.Duration = v.ContentDetails.Duration
		detail.DurationSeconds, _ = domain.ParseISODuration(v.ContentDetails.Duration)
	}

	return detail, nil
}

// ChannelListResponse represents the JSON response of the channels endpoint.
type ChannelListResponse struct {
	Items []ChannelItem `json:"items"`
}

// ChannelItem holds the snippet of a channel.
type ChannelItem struct {
	ID      string   `json:"id"`
	Snippet *Snippet `json:"snippet,omitempty"`
}

// ToDomain converts the item to a domain.ChannelDetail.
// ok is false when the channel has no usable avatar.
func (c *ChannelItem) ToDomain() (domain.ChannelDetail, bool) {
	if c.ID == "" || c.Snippet == nil {
		return domain.ChannelDetail{}, false
	}

	avatar := c.Snippet.Thumbnails.Avatar()
	if avatar == "" {
		return domain.ChannelDetail{}, false
	}

	return domain.ChannelDetail{ChannelID: c.ID, AvatarURL: avatar}, true
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.ParseInt(s, 10, 64)
}
