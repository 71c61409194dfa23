package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"video-discovery-service/internal/domain"
)

// fakePlatform is an in-memory domain.VideoPlatform that records calls.
type fakePlatform struct {
	mu sync.Mutex

	page        *domain.SearchPage
	searchErr   error
	searchDelay time.Duration
	afterSearch func()
	videos      map[string]domain.VideoDetail
	channels    map[string]domain.ChannelDetail

	searchParams  []domain.SearchParams
	videoBatches  [][]string
	channelBatchs [][]string
}

func (f *fakePlatform) Search(_ context.Context, params domain.SearchParams) (*domain.SearchPage, error) {
	if f.searchDelay > 0 {
		time.Sleep(f.searchDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.searchParams = append(f.searchParams, params)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.afterSearch != nil {
		f.afterSearch()
	}

	return f.page, nil
}

func (f *fakePlatform) VideoDetails(_ context.Context, ids []string) (map[string]domain.VideoDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.videoBatches = append(f.videoBatches, append([]string(nil), ids...))
	out := make(map[string]domain.VideoDetail)
	for _, id := range ids {
		if d, ok := f.videos[id]; ok {
			out[id] = d
		}
	}

	return out, nil
}

func (f *fakePlatform) ChannelDetails(_ context.Context, ids []string) (map[string]domain.ChannelDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.channelBatchs = append(f.channelBatchs, append([]string(nil), ids...))
	out := make(map[string]domain.ChannelDetail)
	for _, id := range ids {
		if d, ok := f.channels[id]; ok {
			out[id] = d
		}
	}

	return out, nil
}

func (f *fakePlatform) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.searchParams)
}

// failingCache fails every operation.
type failingCache struct{}

var errCacheDown = errors.New("cache down")

func (failingCache) Get(context.Context, string) ([]byte, error) { return nil, errCacheDown }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}
func (failingCache) Delete(context.Context, string) error { return errCacheDown }
func (failingCache) Clear(context.Context) error          { return errCacheDown }

func searchItem(id, channelID, title string) domain.SearchItem {
	return domain.SearchItem{
		VideoID: id,
		Snippet: &domain.Snippet{
			Title:        title,
			ChannelID:    channelID,
			ChannelTitle: "Channel " + channelID,
			PublishedAt:  "2024-01-01T00:00:00Z",
			Thumbnails: &domain.Thumbnails{
				High: &domain.Thumbnail{URL: "https://img/" + id + ".jpg"},
			},
		},
	}
}
