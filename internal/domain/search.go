package domain

// ContentFilter is the safe-search level forwarded to the video platform.
type ContentFilter string

const (
	ContentFilterNone     ContentFilter = "none"
	ContentFilterModerate ContentFilter = "moderate"
	ContentFilterStrict   ContentFilter = "strict"
)

// SortBy is the ordering requested from the video platform.
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDate      SortBy = "date"
	SortByViewCount SortBy = "viewCount"
	SortByRating    SortBy = "rating"
)

// Payload notes and messages.
const (
	MessageNoVideos      = "No videos found for your search"
	MessageNoValidVideos = "No valid videos found"
	NoteUnfiltered       = "Using unfiltered results due to filter removing all items"
)

// SearchRequest holds the parameters of one discovery call.
type SearchRequest struct {
	Query            string
	MaxResults       int
	EducationalFocus bool
	ContentFilter    ContentFilter
	MinDuration      int // seconds, 0 = unbounded
	MaxDuration      int // seconds, 0 = unbounded
	SortBy           SortBy
	PageToken        string
}

// DefaultSearchRequest returns a request with the service defaults applied.
func DefaultSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:            query,
		MaxResults:       10,
		EducationalFocus: true,
		ContentFilter:    ContentFilterModerate,
		SortBy:           SortByViewCount,
	}
}

// Normalize ensures request fields are within acceptable bounds. This is bound correction, not validation.
func (r *SearchRequest) Normalize() {
	if r.MaxResults < 1 {
		r.MaxResults = 10
	}
	if r.MaxResults > 50 {
		r.MaxResults = 50
	}
	if r.ContentFilter == "" {
		r.ContentFilter = ContentFilterModerate
	}
	if r.SortBy == "" {
		r.SortBy = SortByViewCount
	}
	if r.MinDuration < 0 {
		r.MinDuration = 0
	}
	if r.MaxDuration < 0 {
		r.MaxDuration = 0
	}
}

// Ranking holds the scoring output attached to a fully processed result.
type Ranking struct {
	RelevanceScore  float64 `json:"relevance_score"`
	Likes           int64   `json:"likes"`
	CommentCount    int64   `json:"comment_count"`
	ViewCount       int64   `json:"view_count"`
	Duration        string  `json:"duration"`
	DurationSeconds int     `json:"duration_seconds"`
}

// VideoResult is one entry of the returned result list.
// Basic (fallback) results carry no Ranking, so its fields are omitted.
type VideoResult struct {
	ID                     string `json:"id"`
	Title                  string `json:"title"`
	Description            string `json:"description"`
	Thumbnail              string `json:"thumbnail"`
	ChannelTitle           string `json:"channelTitle"`
	ChannelProfileImageURL string `json:"channelProfileImageUrl,omitempty"`
	PublishedAt            string `json:"publishedAt"`

	*Ranking
}

// DebugInfo describes why a search produced no usable candidates.
type DebugInfo struct {
	ItemCount int           `json:"item_count"`
	Skipped   []SkippedItem `json:"skipped,omitempty"`
}

// SearchPayload is the assembled, cacheable result of a discovery call.
type SearchPayload struct {
	Results       []VideoResult `json:"results"`
	Query         string        `json:"query"`
	TotalResults  int           `json:"total_results"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	PrevPageToken string        `json:"prev_page_token,omitempty"`
	Note          string        `json:"note,omitempty"`
	Message       string        `json:"message,omitempty"`
	DebugInfo     *DebugInfo    `json:"debug_info,omitempty"`
}

// IsFallback reports whether the payload holds unscored basic results.
func (p *SearchPayload) IsFallback() bool {
	return p.Note == NoteUnfiltered
}
