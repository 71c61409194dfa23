package service

import "video-discovery-service/internal/domain"

// newPayload returns a payload carrying the fields every response shares.
func newPayload(query string, page *domain.SearchPage, results []domain.VideoResult) *domain.SearchPayload {
	if results == nil {
		results = []domain.VideoResult{}
	}

	return &domain.SearchPayload{
		Results:       results,
		Query:         query,
		TotalResults:  len(results),
		NextPageToken: page.NextPageToken,
		PrevPageToken: page.PrevPageToken,
	}
}

func noVideosPayload(query string, page *domain.SearchPage) *domain.SearchPayload {
	p := newPayload(query, page, nil)
	p.Message = domain.MessageNoVideos

	return p
}

func noValidVideosPayload(query string, page *domain.SearchPage, skipped []domain.SkippedItem) *domain.SearchPayload {
	p := newPayload(query, page, nil)
	p.Message = domain.MessageNoValidVideos
	p.DebugInfo = &domain.DebugInfo{
		ItemCount: len(page.Items),
		Skipped:   skipped,
	}

	return p
}

// rankedPayload presents scored survivors in rank order.
func rankedPayload(
	query string,
	page *domain.SearchPage,
	ranked []domain.ScoredCandidate,
	channels map[string]domain.ChannelDetail,
) *domain.SearchPayload {
	results := make([]domain.VideoResult, 0, len(ranked))
	for _, sc := range ranked {
		r := basicResult(sc.Candidate, channels)

		ranking := &domain.Ranking{
			RelevanceScore:  sc.Score,
			Duration:        sc.Duration,
			DurationSeconds: sc.DurationSeconds,
		}
		if sc.Detail != nil {
			ranking.Likes = sc.Detail.Likes
			ranking.CommentCount = sc.Detail.CommentCount
			ranking.ViewCount = sc.Detail.ViewCount
		}
		r.Ranking = ranking

		results = append(results, r)
	}

	return newPayload(query, page, results)
}

// fallbackPayload presents the raw search items unscored, in search order.
// Items without an id or snippet are left out; repeated ids are kept.
func fallbackPayload(
	query string,
	page *domain.SearchPage,
	channels map[string]domain.ChannelDetail,
) *domain.SearchPayload {
	results := make([]domain.VideoResult, 0, len(page.Items))
	for _, item := range page.Items {
		if !item.Valid() {
			continue
		}
		results = append(results, basicResult(item.Candidate(), channels))
	}

	p := newPayload(query, page, results)
	p.Note = domain.NoteUnfiltered

	return p
}

func basicResult(c domain.VideoCandidate, channels map[string]domain.ChannelDetail) domain.VideoResult {
	return domain.VideoResult{
		ID:                     c.ID,
		Title:                  c.Title,
		Description:            c.Description,
		Thumbnail:              c.ThumbnailURL,
		ChannelTitle:           c.ChannelTitle,
		ChannelProfileImageURL: channels[c.ChannelID].AvatarURL,
		PublishedAt:            c.PublishedAt,
	}
}
