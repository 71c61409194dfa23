// Package domain contains the core discovery logic and entities.
// This package has no external dependencies (only stdlib).
package domain

// Thumbnail is a single thumbnail rendition as reported by the video platform.
type Thumbnail struct {
	URL string `json:"url"`
}

// Thumbnails holds the thumbnail renditions of a video or channel.
type Thumbnails struct {
	Default *Thumbnail `json:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty"`
}

// Best returns the highest resolution thumbnail URL available.
func (t *Thumbnails) Best() string {
	if t == nil {
		return ""
	}

	for _, th := range []*Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}

	return ""
}

// Avatar returns the URL used as a channel avatar: medium, else default.
func (t *Thumbnails) Avatar() string {
	if t == nil {
		return ""
	}
	if t.Medium != nil && t.Medium.URL != "" {
		return t.Medium.URL
	}
	if t.Default != nil {
		return t.Default.URL
	}

	return ""
}

// Snippet is the descriptive part of a raw search item.
type Snippet struct {
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	Thumbnails   *Thumbnails
}

// SearchItem is one raw item returned by the external search call.
// VideoID is empty and Snippet nil when the platform omitted them.
type SearchItem struct {
	VideoID string
	Snippet *Snippet
}

// SearchPage is the raw result of one external search call.
type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
	PrevPageToken string
	// PlatformTotal is the platform's approximate match count; 0 if unreported.
	PlatformTotal int
}

// VideoCandidate is a video returned by search, prior to enrichment and scoring.
type VideoCandidate struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	ThumbnailURL string
}

// VideoDetail holds per-video statistics and content details.
type VideoDetail struct {
	ID              string `json:"id"`
	Likes           int64  `json:"likes"`
	CommentCount    int64  `json:"comment_count"`
	ViewCount       int64  `json:"view_count"`
	Duration        string `json:"duration"` // ISO-8601, e.g. "PT15M"
	DurationSeconds int    `json:"duration_seconds"`
}

// ChannelDetail holds the per-channel data used when presenting results.
type ChannelDetail struct {
	ChannelID string `json:"channel_id"`
	AvatarURL string `json:"avatar_url"`
}

// SkipReason explains why an item did not make it into the result list.
type SkipReason string

const (
	SkipMissingVideoID  SkipReason = "missing_video_id"
	SkipMissingSnippet  SkipReason = "missing_snippet"
	SkipTooShort        SkipReason = "duration_below_minimum"
	SkipTooLong         SkipReason = "duration_above_maximum"
	SkipBelowThreshold  SkipReason = "below_relevance_threshold"
	SkipDuplicateResult SkipReason = "duplicate_video_id"
)

// SkippedItem is a diagnostic record for an item dropped during extraction or scoring.
type SkippedItem struct {
	Index  int        `json:"index"`
	ID     string     `json:"id,omitempty"`
	Reason SkipReason `json:"reason"`
	Score  float64    `json:"score,omitempty"`
}

// ExtractCandidates turns raw search items into candidates.
// Items without a video id or snippet are skipped; the remaining order is preserved.
func ExtractCandidates(items []SearchItem) ([]VideoCandidate, []SkippedItem) {
	candidates := make([]VideoCandidate, 0, len(items))
	var skipped []SkippedItem
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		switch {
		case item.VideoID == "":
			skipped = append(skipped, SkippedItem{Index: i, Reason: SkipMissingVideoID})
			continue
		case item.Snippet == nil:
			skipped = append(skipped, SkippedItem{Index: i, ID: item.VideoID, Reason: SkipMissingSnippet})
			continue
		}
		if _, dup := seen[item.VideoID]; dup {
			skipped = append(skipped, SkippedItem{Index: i, ID: item.VideoID, Reason: SkipDuplicateResult})
			continue
		}
		seen[item.VideoID] = struct{}{}

		candidates = append(candidates, item.Candidate())
	}

	return candidates, skipped
}

// Valid reports whether the item carries a video id and a snippet.
func (i SearchItem) Valid() bool {
	return i.VideoID != "" && i.Snippet != nil
}

// Candidate converts a valid item into a candidate.
func (i SearchItem) Candidate() VideoCandidate {
	s := i.Snippet

	return VideoCandidate{
		ID:           i.VideoID,
		Title:        s.Title,
		Description:  s.Description,
		ChannelID:    s.ChannelID,
		ChannelTitle: s.ChannelTitle,
		PublishedAt:  s.PublishedAt,
		ThumbnailURL: s.Thumbnails.Best(),
	}
}

// VideoIDs returns the candidate video ids in order.
func VideoIDs(candidates []VideoCandidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	return ids
}

// ChannelIDs returns the non-empty channel ids referenced by candidates.
func ChannelIDs(candidates []VideoCandidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.ChannelID != "" {
			ids = append(ids, c.ChannelID)
		}
	}

	return ids
}
