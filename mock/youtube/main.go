// Command youtube serves a small fake of the YouTube Data API search,
// videos and channels endpoints for local runs of the discovery service.
package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"video-discovery-service/internal/domain"
	"video-discovery-service/internal/infra/provider/youtube"
)

type fixture struct {
	id, title, description, channelID, channelTitle, published string
	duration                                                   string
	views, likes, comments                                     string
}

var catalog = []fixture{
	{"la001", "Linear Algebra Full Course for Beginners", "Vectors, matrices and eigenvalues explained step by step.", "UCmath", "Math Academy", "2024-01-15T10:00:00Z", "PT2H5M", "1250000", "45000", "3200"},
	{"la002", "Essence of linear algebra: Chapter 1", "A visual introduction to vectors.", "UCvisual", "Visual Math", "2016-08-06T12:00:00Z", "PT9M52S", "9800000", "310000", "12000"},
	{"la003", "Linear algebra in 60 seconds", "Quick tour.", "UCshorts", "Shorts Lab", "2023-06-01T08:00:00Z", "PT58S", "5000", "40", "2"},
	{"py001", "Python Tutorial for Beginners - Full Course", "Learn Python programming from scratch.", "UCcode", "Code School", "2023-03-10T09:30:00Z", "PT4H26M", "3400000", "98000", "7400"},
	{"py002", "Python lecture 3: functions and scope", "University lecture on Python functions.", "UCuni", "Open University", "2022-09-20T14:00:00Z", "PT52M", "120000", "2100", "180"},
	{"ml001", "Machine Learning Course - Lecture 1", "Introduction to supervised learning.", "UCuni", "Open University", "2021-01-05T16:00:00Z", "PT1H15M", "890000", "21000", "900"},
	{"ca001", "Calculus explained: derivatives tutorial", "Limits and derivatives with worked examples.", "UCmath", "Math Academy", "2020-11-11T11:00:00Z", "PT35M", "640000", "15000", "800"},
	{"wd001", "Web development lesson: HTML and CSS", "Build your first page.", "UCcode", "Code School", "2024-05-02T07:45:00Z", "PT48M", "210000", "6200", "410"},
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3"+youtube.SearchEndpoint, handleSearch)
	mux.HandleFunc("/youtube/v3"+youtube.VideosEndpoint, handleVideos)
	mux.HandleFunc("/youtube/v3"+youtube.ChannelsEndpoint, handleChannels)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	log.Println("Mock YouTube API running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		Handler:      withLatency(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// withLatency simulates network latency (50-200ms) and rejects calls without a key.
func withLatency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		if r.URL.Path != "/health" && r.URL.Query().Get("key") == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "missing api key"})
			log.Printf("[YouTube] %s %s - 403", r.Method, r.URL.Path)

			return
		}

		next.ServeHTTP(w, r)
		log.Printf("[YouTube] %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
	})
}

func handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	if strings.Contains(q, "upstream-error") {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "backend error"})

		return
	}

	resp := youtube.SearchListResponse{Items: []youtube.SearchResult{}}
	for _, f := range catalog {
		if !matches(q, f.title+" "+f.description) {
			continue
		}
		resp.Items = append(resp.Items, youtube.SearchResult{
			ID: youtube.ResourceID{Kind: "youtube#video", VideoID: f.id},
			Snippet: &youtube.Snippet{
				Title:        f.title,
				Description:  f.description,
				ChannelID:    f.channelID,
				ChannelTitle: f.channelTitle,
				PublishedAt:  f.published,
				Thumbnails:   thumbnails("https://i.ytimg.example/vi/" + f.id),
			},
		})
	}
	resp.PageInfo = youtube.PageInfo{TotalResults: len(resp.Items), ResultsPerPage: len(resp.Items)}

	writeJSON(w, http.StatusOK, resp)
}

func handleVideos(w http.ResponseWriter, r *http.Request) {
	resp := youtube.VideoListResponse{Items: []youtube.VideoItem{}}
	for _, id := range ids(r) {
		for _, f := range catalog {
			if f.id != id {
				continue
			}
			resp.Items = append(resp.Items, youtube.VideoItem{
				ID:             f.id,
				ContentDetails: &youtube.ContentDetails{Duration: f.duration},
				Statistics: &youtube.Statistics{
					ViewCount:    f.views,
					LikeCount:    f.likes,
					CommentCount: f.comments,
				},
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func handleChannels(w http.ResponseWriter, r *http.Request) {
	resp := youtube.ChannelListResponse{Items: []youtube.ChannelItem{}}
	seen := make(map[string]bool)
	for _, id := range ids(r) {
		for _, f := range catalog {
			if f.channelID != id || seen[id] {
				continue
			}
			seen[id] = true
			resp.Items = append(resp.Items, youtube.ChannelItem{
				ID: f.channelID,
				Snippet: &youtube.Snippet{
					Title:      f.channelTitle,
					Thumbnails: thumbnails("https://yt3.ggpht.example/" + f.channelID),
				},
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// matches reports whether any query word appears in text.
func matches(q, text string) bool {
	text = strings.ToLower(text)
	for _, word := range strings.Fields(q) {
		if strings.Contains(text, word) {
			return true
		}
	}

	return false
}

func ids(r *http.Request) []string {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return nil
	}

	return strings.Split(raw, ",")
}

func thumbnails(base string) *domain.Thumbnails {
	return &domain.Thumbnails{
		Default: &domain.Thumbnail{URL: base + "/default.jpg"},
		Medium:  &domain.Thumbnail{URL: base + "/mqdefault.jpg"},
		High:    &domain.Thumbnail{URL: base + "/hqdefault.jpg"},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[YouTube] write error: %v", err)
	}
}
